package graph

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// SpouseKind classifies a marriage edge
type SpouseKind int

const (
	SpouseNone SpouseKind = iota
	SpouseCurrent
	SpouseDeceased
	SpouseEx
)

func (k SpouseKind) String() string {
	switch k {
	case SpouseCurrent:
		return "current"
	case SpouseDeceased:
		return "deceased"
	case SpouseEx:
		return "ex"
	default:
		return "none"
	}
}

// Index holds the canonical adjacency sets of one snapshot. It is built by
// IndexBuilder and read-only afterwards; sets handed out by its accessors
// must not be modified.
type Index struct {
	people map[string]Person

	parentOf         map[string]mapset.Set[string]
	parentsOf        map[string]mapset.Set[string]
	currentSpouses   map[string]mapset.Set[string]
	exSpouses        map[string]mapset.Set[string]
	deceasedSpouses  map[string]mapset.Set[string]
	declaredSiblings map[string]mapset.Set[string]

	stats BuildStats
}

func newIndex() *Index {
	return &Index{
		people:           make(map[string]Person),
		parentOf:         make(map[string]mapset.Set[string]),
		parentsOf:        make(map[string]mapset.Set[string]),
		currentSpouses:   make(map[string]mapset.Set[string]),
		exSpouses:        make(map[string]mapset.Set[string]),
		deceasedSpouses:  make(map[string]mapset.Set[string]),
		declaredSiblings: make(map[string]mapset.Set[string]),
	}
}

func lookup(m map[string]mapset.Set[string], id string) mapset.Set[string] {
	if s, ok := m[id]; ok {
		return s
	}
	return mapset.NewThreadUnsafeSet[string]()
}

func add(m map[string]mapset.Set[string], key, value string) {
	s, ok := m[key]
	if !ok {
		s = mapset.NewThreadUnsafeSet[string]()
		m[key] = s
	}
	s.Add(value)
}

// Person returns the person with the given id
func (ix *Index) Person(id string) (Person, bool) {
	p, ok := ix.people[id]
	return p, ok
}

// Has reports whether id belongs to the snapshot
func (ix *Index) Has(id string) bool {
	_, ok := ix.people[id]
	return ok
}

// People returns every person in id order
func (ix *Index) People() []Person {
	out := make([]Person, 0, len(ix.people))
	for _, p := range ix.people {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats returns the statistics gathered while building
func (ix *Index) Stats() BuildStats {
	return ix.stats
}

// Children returns the ids id is a recorded parent of
func (ix *Index) Children(id string) mapset.Set[string] {
	return lookup(ix.parentOf, id)
}

// Parents returns the recorded parents of id
func (ix *Index) Parents(id string) mapset.Set[string] {
	return lookup(ix.parentsOf, id)
}

func (ix *Index) CurrentSpouses(id string) mapset.Set[string] {
	return lookup(ix.currentSpouses, id)
}

func (ix *Index) ExSpouses(id string) mapset.Set[string] {
	return lookup(ix.exSpouses, id)
}

func (ix *Index) DeceasedSpouses(id string) mapset.Set[string] {
	return lookup(ix.deceasedSpouses, id)
}

func (ix *Index) DeclaredSiblings(id string) mapset.Set[string] {
	return lookup(ix.declaredSiblings, id)
}

// Spouses returns current and deceased spouses. Ex-spouses are left out:
// divorce severs every relation routed through the marriage.
func (ix *Index) Spouses(id string) mapset.Set[string] {
	return ix.CurrentSpouses(id).Union(ix.DeceasedSpouses(id))
}

// SpouseKind returns how a and b are married, if at all
func (ix *Index) SpouseKind(a, b string) SpouseKind {
	switch {
	case ix.ExSpouses(a).Contains(b):
		return SpouseEx
	case ix.DeceasedSpouses(a).Contains(b):
		return SpouseDeceased
	case ix.CurrentSpouses(a).Contains(b):
		return SpouseCurrent
	}
	return SpouseNone
}

// BloodSiblings returns everyone sharing at least one recorded parent with id
func (ix *Index) BloodSiblings(id string) mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	for parent := range ix.Parents(id).Iter() {
		out = out.Union(ix.Children(parent))
	}
	out.Remove(id)
	return out
}

// Siblings returns blood siblings plus declared (dotted) siblings
func (ix *Index) Siblings(id string) mapset.Set[string] {
	return ix.BloodSiblings(id).Union(ix.DeclaredSiblings(id))
}

// SharesParent reports whether a and b have a recorded parent in common
func (ix *Index) SharesParent(a, b string) bool {
	return ix.Parents(a).Intersect(ix.Parents(b)).Cardinality() > 0
}

// FullSiblings reports whether a and b have identical, non-empty parent sets
func (ix *Index) FullSiblings(a, b string) bool {
	pa, pb := ix.Parents(a), ix.Parents(b)
	return pa.Cardinality() > 0 && pa.Equal(pb)
}

// Sorted returns the members of s in ascending order so walks over a set
// are deterministic
func Sorted(s mapset.Set[string]) []string {
	out := s.ToSlice()
	sort.Strings(out)
	return out
}
