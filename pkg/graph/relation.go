package graph

import "strings"

// Category is the coarse classification of a resolved relation
type Category int

const (
	CategoryNone Category = iota
	CategorySelf
	CategoryLineage
	CategoryCollateral
	CategoryAffinity
)

func (c Category) String() string {
	switch c {
	case CategorySelf:
		return "self"
	case CategoryLineage:
		return "lineage"
	case CategoryCollateral:
		return "collateral"
	case CategoryAffinity:
		return "affinity"
	default:
		return "none"
	}
}

// Kind is the role P plays for the root
type Kind int

const (
	KindNone Kind = iota
	KindSelf
	KindParent
	KindChild
	KindSibling
	// KindPibling is an aunt or uncle
	KindPibling
	// KindNibling is a niece or nephew
	KindNibling
	KindCousin
	KindSpouse
	KindCoParentInLaw
)

var kindNames = map[Kind]string{
	KindNone:          "none",
	KindSelf:          "self",
	KindParent:        "parent",
	KindChild:         "child",
	KindSibling:       "sibling",
	KindPibling:       "pibling",
	KindNibling:       "nibling",
	KindCousin:        "cousin",
	KindSpouse:        "spouse",
	KindCoParentInLaw: "co_parent_in_law",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Modifier is a bit set of qualifiers applied on top of a Kind
type Modifier uint8

const (
	ModHalf Modifier = 1 << iota
	ModStep
	ModInLaw
	ModEx
	ModLate
	// ModDotted marks a sibling link known only from a declared sibling record
	ModDotted
)

// Has reports whether all bits of m are set
func (mods Modifier) Has(m Modifier) bool {
	return mods&m == m
}

func (mods Modifier) String() string {
	var parts []string
	for _, named := range []struct {
		m    Modifier
		name string
	}{
		{ModHalf, "half"},
		{ModStep, "step"},
		{ModInLaw, "in_law"},
		{ModEx, "ex"},
		{ModLate, "late"},
		{ModDotted, "dotted"},
	} {
		if mods.Has(named.m) {
			parts = append(parts, named.name)
		}
	}
	return strings.Join(parts, ",")
}

// Relation is the resolver output consumed by the label formatter.
// Distance counts generations for parent/child/pibling/nibling kinds and
// the cousin degree for cousins; Removed is only used by cousins.
type Relation struct {
	Category  Category `json:"category"`
	Kind      Kind     `json:"kind"`
	Distance  int      `json:"distance"`
	Removed   int      `json:"removed,omitempty"`
	Gender    Gender   `json:"gender"`
	Modifiers Modifier `json:"modifiers,omitempty"`
}

// NoRelation is the sentinel for "no relation found"
var NoRelation = Relation{Category: CategoryNone, Kind: KindNone}

// Found reports whether the relation is anything other than the sentinel
func (r Relation) Found() bool {
	return r.Category != CategoryNone
}

var inverseKinds = map[Kind]Kind{
	KindParent:  KindChild,
	KindChild:   KindParent,
	KindPibling: KindNibling,
	KindNibling: KindPibling,
}

// Inverse returns the relation seen from the other end, for a person of
// the given gender. Symmetric kinds keep their kind.
func (r Relation) Inverse(g Gender) Relation {
	out := r
	out.Gender = g
	if k, ok := inverseKinds[r.Kind]; ok {
		out.Kind = k
	}
	return out
}
