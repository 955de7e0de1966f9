// Package label turns resolver output into English kinship terms. It does
// no graph work of its own.
package label

import (
	"fmt"
	"strings"

	"github.com/athapong/kinship/pkg/graph"
)

const (
	Root      = "Root"
	Unrelated = "Unrelated"
)

// words holds the male, female and unmarked form of a base term
type words struct {
	male, female, neutral string
}

func (w words) pick(g graph.Gender) string {
	switch g {
	case graph.GenderMale:
		return w.male
	case graph.GenderFemale:
		return w.female
	default:
		return w.neutral
	}
}

var (
	parentWords      = words{"Father", "Mother", "Parent"}
	grandparentWords = words{"Grandfather", "Grandmother", "Grandparent"}
	childWords       = words{"Son", "Daughter", "Child"}
	grandchildWords  = words{"Grandson", "Granddaughter", "Grandchild"}
	siblingWords     = words{"Brother", "Sister", "Sibling"}
	piblingWords     = words{"Uncle", "Aunt", "Aunt/Uncle"}
	niblingWords     = words{"Nephew", "Niece", "Niece/Nephew"}
	spouseWords      = words{"Husband", "Wife", "Spouse"}
	coParentWords    = words{"Co-Father-in-law", "Co-Mother-in-law", "Co-Parent-in-law"}
)

var ordinals = []string{"", "First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh", "Eighth", "Ninth", "Tenth"}

// Formatter renders relations. The zero value is ready to use.
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format returns the label for rel
func (f *Formatter) Format(rel graph.Relation) string {
	switch rel.Category {
	case graph.CategoryNone:
		return Unrelated
	case graph.CategorySelf:
		return Root
	}

	base := f.base(rel)
	if base == "" {
		return Unrelated
	}

	mods := rel.Modifiers
	switch {
	case mods.Has(graph.ModHalf):
		base = "Half-" + base
	case mods.Has(graph.ModStep):
		base = "Step-" + base
	}
	if mods.Has(graph.ModInLaw) {
		base += "-in-law"
	}
	switch {
	case mods.Has(graph.ModEx):
		base = "Ex-" + base
	case mods.Has(graph.ModLate):
		base = "Late " + base
	}
	return base
}

func (f *Formatter) base(rel graph.Relation) string {
	g := rel.Gender
	switch rel.Kind {
	case graph.KindParent:
		return lineal(rel.Distance, parentWords, grandparentWords, g)
	case graph.KindChild:
		return lineal(rel.Distance, childWords, grandchildWords, g)
	case graph.KindSibling:
		return siblingWords.pick(g)
	case graph.KindPibling:
		return greats(rel.Distance-1) + piblingWords.pick(g)
	case graph.KindNibling:
		return greats(rel.Distance-1) + niblingWords.pick(g)
	case graph.KindCousin:
		return Cousin(rel.Distance, rel.Removed)
	case graph.KindSpouse:
		return spouseWords.pick(g)
	case graph.KindCoParentInLaw:
		return coParentWords.pick(g)
	}
	return ""
}

func lineal(distance int, near, far words, g graph.Gender) string {
	switch {
	case distance <= 0:
		return ""
	case distance == 1:
		return near.pick(g)
	default:
		return greats(distance-2) + far.pick(g)
	}
}

func greats(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("Great-", n)
}

// Cousin renders "Nth Cousin" with an optional removal suffix
func Cousin(degree, removed int) string {
	var b strings.Builder
	if degree > 0 && degree < len(ordinals) {
		b.WriteString(ordinals[degree])
	} else {
		b.WriteString(ordinal(degree))
	}
	b.WriteString(" Cousin")
	switch {
	case removed == 1:
		b.WriteString(" Once Removed")
	case removed == 2:
		b.WriteString(" Twice Removed")
	case removed > 2:
		fmt.Fprintf(&b, " %d Times Removed", removed)
	}
	return b.String()
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
