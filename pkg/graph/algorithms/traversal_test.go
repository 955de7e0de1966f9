package algorithms

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

// fakeLineage is a parent -> children adjacency map
type fakeLineage map[string][]string

func (f fakeLineage) Children(id string) mapset.Set[string] {
	return mapset.NewThreadUnsafeSet(f[id]...)
}

func (f fakeLineage) Parents(id string) mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	for p, kids := range f {
		for _, k := range kids {
			if k == id {
				out.Add(p)
			}
		}
	}
	return out
}

func TestTraverse(t *testing.T) {
	g := fakeLineage{
		"gg": {"g"},
		"g":  {"p", "u"},
		"p":  {"me"},
		"u":  {"cousin"},
	}
	tr := NewLineageTraversal(g, 10)

	up := tr.Traverse("me", Up)
	assert.Equal(t, map[string]int{"me": 0, "p": 1, "g": 2, "gg": 3}, up)

	down := tr.Traverse("g", Down)
	assert.Equal(t, map[string]int{"g": 0, "p": 1, "u": 1, "me": 2, "cousin": 2}, down)

	assert.ElementsMatch(t, []string{"me", "cousin"}, AtDistance(down, 2))
}

func TestTraverse_DepthBound(t *testing.T) {
	g := fakeLineage{"a": {"b"}, "b": {"c"}, "c": {"d"}}
	tr := NewLineageTraversal(g, 2)

	_, ok := tr.Distance("d", "a", Up)
	assert.False(t, ok)

	d, ok := tr.Distance("c", "a", Up)
	assert.True(t, ok)
	assert.Equal(t, 2, d)
}

func TestTraverse_Cycle(t *testing.T) {
	g := fakeLineage{"a": {"b"}, "b": {"c"}, "c": {"a"}}
	tr := NewLineageTraversal(g, 100)

	up := tr.Traverse("a", Up)
	assert.Len(t, up, 3)
	assert.Equal(t, 0, up["a"])
	assert.True(t, tr.Related("a", "c"))
}

func TestRelated(t *testing.T) {
	g := fakeLineage{"p": {"a", "b"}}
	tr := NewLineageTraversal(g, 5)

	assert.True(t, tr.Related("p", "a"))
	assert.True(t, tr.Related("a", "p"))
	assert.False(t, tr.Related("a", "b"))

	d, ok := tr.Distance("a", "a", Down)
	assert.True(t, ok)
	assert.Equal(t, 0, d)
}

func TestSharesAncestor(t *testing.T) {
	g := fakeLineage{
		"g": {"p", "u"},
		"p": {"me"},
		"u": {"cousin"},
		"x": {"y"},
	}
	tr := NewLineageTraversal(g, 5)

	assert.True(t, tr.SharesAncestor("me", "cousin"))
	assert.True(t, tr.SharesAncestor("u", "me"))
	assert.False(t, tr.SharesAncestor("me", "y"))
	assert.False(t, NewLineageTraversal(g, 1).SharesAncestor("me", "cousin"))
}
