// Package timeline decides whether a marriage-dependent relation could have
// existed given what is known about people's lifetimes. It is never
// consulted for blood relations.
package timeline

import (
	"time"

	"github.com/athapong/kinship/pkg/graph"
)

// Window is a closed time interval. A nil bound is open on that side.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Lifetime returns [birth, death] for p
func Lifetime(p graph.Person) Window {
	return Window{From: p.BirthDate, To: p.DeathDate}
}

// Intersect narrows w to the part shared with o
func (w Window) Intersect(o Window) Window {
	out := w
	if o.From != nil && (out.From == nil || o.From.After(*out.From)) {
		out.From = o.From
	}
	if o.To != nil && (out.To == nil || o.To.Before(*out.To)) {
		out.To = o.To
	}
	return out
}

// Empty reports whether the window cannot contain any instant. Only two
// known bounds can make it empty.
func (w Window) Empty() bool {
	return w.From != nil && w.To != nil && w.From.After(*w.To)
}

// Contains reports whether t falls inside w; an unknown t always does
func (w Window) Contains(t *time.Time) bool {
	if t == nil {
		return true
	}
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && t.After(*w.To) {
		return false
	}
	return true
}

// Condition is an overlap requirement checked by the Validator
type Condition int

const (
	// Coexisted requires all given lifetimes to share at least one instant
	Coexisted Condition = iota
	// MarriageOverlaps takes (spouse, spouse, dependent) and requires the
	// window in which both spouses were alive to reach into the
	// dependent's lifetime
	MarriageOverlaps
)

func (c Condition) String() string {
	switch c {
	case Coexisted:
		return "coexisted"
	case MarriageOverlaps:
		return "marriage_overlaps"
	default:
		return "unknown"
	}
}

// Validator is stateless; the zero value is ready to use
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// MarriageWindow is the span in which both spouses were alive
func (v *Validator) MarriageWindow(a, b graph.Person) Window {
	return Lifetime(a).Intersect(Lifetime(b))
}

// Check evaluates cond over people. Missing dates never cause a rejection.
func (v *Validator) Check(cond Condition, people ...graph.Person) bool {
	switch cond {
	case MarriageOverlaps:
		if len(people) != 3 {
			return true
		}
		w := v.MarriageWindow(people[0], people[1])
		if w.Empty() {
			return false
		}
		return !w.Intersect(Lifetime(people[2])).Empty()
	default:
		var w Window
		for _, p := range people {
			w = w.Intersect(Lifetime(p))
			if w.Empty() {
				return false
			}
		}
		return true
	}
}

// Coexisted is shorthand for Check(Coexisted, a, b)
func (v *Validator) Coexisted(a, b graph.Person) bool {
	return v.Check(Coexisted, a, b)
}

// MarriageCovers is shorthand for Check(MarriageOverlaps, spouseA, spouseB, dependent)
func (v *Validator) MarriageCovers(spouseA, spouseB, dependent graph.Person) bool {
	return v.Check(MarriageOverlaps, spouseA, spouseB, dependent)
}
