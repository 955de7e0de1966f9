package algorithms

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Lineage is the parent/child view of a family graph
type Lineage interface {
	Parents(id string) mapset.Set[string]
	Children(id string) mapset.Set[string]
}

// LineageTraversal walks parent/child chains breadth-first. Every walk
// carries a visited set and a depth bound, so it terminates even when bad
// data records someone as their own ancestor.
type LineageTraversal struct {
	graph    Lineage
	maxDepth int
}

func NewLineageTraversal(g Lineage, maxDepth int) *LineageTraversal {
	return &LineageTraversal{graph: g, maxDepth: maxDepth}
}

func (t *LineageTraversal) next(id string, dir Direction) []string {
	var s mapset.Set[string]
	if dir == Down {
		s = t.graph.Children(id)
	} else {
		s = t.graph.Parents(id)
	}
	return s.ToSlice()
}

// Traverse returns every id reachable from startID in the given direction
// within maxDepth generations, mapped to its shortest generation distance.
// startID itself is included at distance 0.
func (t *LineageTraversal) Traverse(startID string, dir Direction) map[string]int {
	visited := map[string]int{startID: 0}
	queue := []string{startID}
	depth := 0

	for len(queue) > 0 && depth < t.maxDepth {
		levelSize := len(queue)
		depth++
		for i := 0; i < levelSize; i++ {
			current := queue[0]
			queue = queue[1:]

			for _, r := range t.next(current, dir) {
				if _, seen := visited[r]; seen {
					continue
				}
				visited[r] = depth
				queue = append(queue, r)
			}
		}
	}

	return visited
}

// Distance returns how many generations toID lies from fromID in the given
// direction
func (t *LineageTraversal) Distance(fromID, toID string, dir Direction) (int, bool) {
	if fromID == toID {
		return 0, true
	}
	d, ok := t.Traverse(fromID, dir)[toID]
	return d, ok
}

// Related reports whether either id is an ancestor of the other
func (t *LineageTraversal) Related(a, b string) bool {
	if _, ok := t.Distance(a, b, Up); ok {
		return true
	}
	_, ok := t.Distance(b, a, Up)
	return ok
}

// SharesAncestor reports whether a and b have a common ancestor within the
// depth bound
func (t *LineageTraversal) SharesAncestor(a, b string) bool {
	upB := t.Traverse(b, Up)
	for id, da := range t.Traverse(a, Up) {
		if da == 0 {
			continue
		}
		if db, ok := upB[id]; ok && db > 0 {
			return true
		}
	}
	return false
}

// AtDistance returns the ids in gens that are exactly d generations away
func AtDistance(gens map[string]int, d int) []string {
	var out []string
	for id, g := range gens {
		if g == d {
			out = append(out, id)
		}
	}
	return out
}
