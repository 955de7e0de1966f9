package label

import (
	"testing"

	"github.com/athapong/kinship/pkg/graph"
	"github.com/stretchr/testify/assert"
)

const (
	male        = graph.GenderMale
	female      = graph.GenderFemale
	unspecified = graph.GenderUnspecified
)

func rel(cat graph.Category, kind graph.Kind, distance int, g graph.Gender, mods graph.Modifier) graph.Relation {
	return graph.Relation{Category: cat, Kind: kind, Distance: distance, Gender: g, Modifiers: mods}
}

func TestFormat(t *testing.T) {
	lin, col, aff := graph.CategoryLineage, graph.CategoryCollateral, graph.CategoryAffinity

	tests := []struct {
		rel  graph.Relation
		want string
	}{
		{graph.NoRelation, "Unrelated"},
		{graph.Relation{Category: graph.CategorySelf, Kind: graph.KindSelf}, "Root"},
		{rel(lin, graph.KindParent, 1, male, 0), "Father"},
		{rel(lin, graph.KindParent, 1, unspecified, 0), "Parent"},
		{rel(lin, graph.KindParent, 2, female, 0), "Grandmother"},
		{rel(lin, graph.KindParent, 3, female, 0), "Great-Grandmother"},
		{rel(lin, graph.KindParent, 7, male, 0), "Great-Great-Great-Great-Great-Grandfather"},
		{rel(lin, graph.KindChild, 1, female, 0), "Daughter"},
		{rel(lin, graph.KindChild, 2, male, 0), "Grandson"},
		{rel(lin, graph.KindChild, 4, unspecified, 0), "Great-Great-Grandchild"},
		{rel(col, graph.KindSibling, 1, male, 0), "Brother"},
		{rel(col, graph.KindSibling, 1, female, graph.ModHalf), "Half-Sister"},
		{rel(col, graph.KindSibling, 1, female, graph.ModDotted), "Sister"},
		{rel(col, graph.KindPibling, 1, female, 0), "Aunt"},
		{rel(col, graph.KindPibling, 2, male, 0), "Great-Uncle"},
		{rel(col, graph.KindPibling, 1, unspecified, 0), "Aunt/Uncle"},
		{rel(col, graph.KindNibling, 1, female, graph.ModHalf), "Half-Niece"},
		{rel(col, graph.KindNibling, 2, female, 0), "Great-Niece"},
		{rel(col, graph.KindNibling, 3, male, graph.ModHalf), "Half-Great-Great-Nephew"},
		{rel(col, graph.KindNibling, 1, unspecified, 0), "Niece/Nephew"},
		{rel(aff, graph.KindSpouse, 1, male, 0), "Husband"},
		{rel(aff, graph.KindSpouse, 1, female, graph.ModEx), "Ex-Wife"},
		{rel(aff, graph.KindSpouse, 1, male, graph.ModLate), "Late Husband"},
		{rel(aff, graph.KindSpouse, 1, unspecified, graph.ModLate), "Late Spouse"},
		{rel(aff, graph.KindParent, 1, female, graph.ModInLaw), "Mother-in-law"},
		{rel(aff, graph.KindChild, 1, male, graph.ModInLaw), "Son-in-law"},
		{rel(aff, graph.KindSibling, 1, female, graph.ModInLaw), "Sister-in-law"},
		{rel(aff, graph.KindParent, 1, male, graph.ModStep), "Step-Father"},
		{rel(aff, graph.KindChild, 1, female, graph.ModStep), "Step-Daughter"},
		{rel(aff, graph.KindSibling, 1, male, graph.ModStep), "Step-Brother"},
		{rel(aff, graph.KindParent, 2, female, graph.ModStep), "Step-Grandmother"},
		{rel(aff, graph.KindChild, 2, unspecified, graph.ModStep), "Step-Grandchild"},
		{rel(aff, graph.KindPibling, 1, female, graph.ModInLaw), "Aunt-in-law"},
		{rel(aff, graph.KindNibling, 1, male, graph.ModInLaw), "Nephew-in-law"},
		{rel(aff, graph.KindPibling, 1, male, graph.ModStep), "Step-Uncle"},
		{rel(aff, graph.KindNibling, 1, female, graph.ModStep), "Step-Niece"},
		{rel(aff, graph.KindCoParentInLaw, 1, female, 0), "Co-Mother-in-law"},
		{rel(aff, graph.KindCoParentInLaw, 1, unspecified, 0), "Co-Parent-in-law"},
	}

	f := NewFormatter()
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.rel))
		})
	}
}

func TestFormat_Cousins(t *testing.T) {
	f := NewFormatter()
	cousin := func(degree, removed int) graph.Relation {
		return graph.Relation{Category: graph.CategoryCollateral, Kind: graph.KindCousin, Distance: degree, Removed: removed, Gender: male}
	}

	assert.Equal(t, "First Cousin", f.Format(cousin(1, 0)))
	assert.Equal(t, "First Cousin Once Removed", f.Format(cousin(1, 1)))
	assert.Equal(t, "Second Cousin Twice Removed", f.Format(cousin(2, 2)))
	assert.Equal(t, "Third Cousin 3 Times Removed", f.Format(cousin(3, 3)))
	assert.Equal(t, "12th Cousin", Cousin(12, 0))
	assert.Equal(t, "21st Cousin", Cousin(21, 0))
}

func TestFormat_UnknownKind(t *testing.T) {
	f := NewFormatter()
	assert.Equal(t, Unrelated, f.Format(graph.Relation{Category: graph.CategoryAffinity, Kind: graph.Kind(99)}))
	assert.Equal(t, Unrelated, f.Format(graph.Relation{Category: graph.CategoryLineage, Kind: graph.KindParent, Distance: 0}))
}

func TestFormat_Inverse(t *testing.T) {
	f := NewFormatter()
	father := rel(graph.CategoryLineage, graph.KindParent, 1, male, 0)
	assert.Equal(t, "Daughter", f.Format(father.Inverse(female)))

	greatAunt := rel(graph.CategoryCollateral, graph.KindPibling, 2, female, graph.ModHalf)
	assert.Equal(t, "Half-Great-Nephew", f.Format(greatAunt.Inverse(male)))

	exWife := rel(graph.CategoryAffinity, graph.KindSpouse, 1, female, graph.ModEx)
	assert.Equal(t, "Ex-Husband", f.Format(exWife.Inverse(male)))
}
