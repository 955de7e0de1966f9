package resolver

import (
	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/graph/algorithms"
)

// fork is a shared-ancestor candidate: R sits dR generations below the
// ancestor and P sits dP generations below it.
type fork struct {
	dR, dP int
	dotted bool
}

// better orders candidates: nearest first, then blood over dotted. Forks
// at equal distance with mirrored shapes are settled by the smaller id's
// side, so resolving a pair in either direction picks the same ancestor.
func (f fork) better(o fork, rootFirst bool) bool {
	if f.dR+f.dP != o.dR+o.dP {
		return f.dR+f.dP < o.dR+o.dP
	}
	if f.dotted != o.dotted {
		return !f.dotted
	}
	if rootFirst {
		return f.dR < o.dR
	}
	return f.dP < o.dP
}

// collateral finds the nearest common ancestor of p and root. Declared
// siblings stand in for a missing shared parent: if x is an ancestor-or-self
// of root and y of p, and x and y are declared siblings, they behave as
// children of one phantom ancestor.
func (r *Resolver) collateral(p, root graph.Person) (graph.Relation, bool) {
	aR := r.lineage.Traverse(root.ID, algorithms.Up)
	aP := r.lineage.Traverse(p.ID, algorithms.Up)

	var best fork
	found := false
	rootFirst := root.ID < p.ID
	consider := func(f fork) {
		if !found || f.better(best, rootFirst) {
			best, found = f, true
		}
	}

	for a, dr := range aR {
		if dr == 0 {
			continue
		}
		if dp, ok := aP[a]; ok && dp > 0 {
			consider(fork{dR: dr, dP: dp})
		}
	}
	for x, dx := range aR {
		for _, y := range graph.Sorted(r.ix.DeclaredSiblings(x)) {
			if dy, ok := aP[y]; ok {
				consider(fork{dR: dx + 1, dP: dy + 1, dotted: true})
			}
		}
	}

	if !found {
		return graph.NoRelation, false
	}

	rel, ok := r.classifyFork(best, p)
	if !ok {
		// A blood tie exists but lies beyond the supported depth. Reporting
		// an affinity label instead would understate the relation.
		return graph.NoRelation, true
	}

	switch {
	case best.dotted:
		rel.Modifiers |= graph.ModDotted
	case rel.Kind != graph.KindCousin && r.isHalf(best, aR, aP):
		rel.Modifiers |= graph.ModHalf
	}
	return rel, true
}

// classifyFork maps generation distances onto the collateral series
func (r *Resolver) classifyFork(f fork, p graph.Person) (graph.Relation, bool) {
	rel := graph.Relation{Category: graph.CategoryCollateral, Gender: p.Gender}
	switch {
	case f.dR == 1 && f.dP == 1:
		rel.Kind = graph.KindSibling
		rel.Distance = 1
	case f.dR == 1:
		if f.dP-2 > r.opts.MaxGreat {
			return graph.NoRelation, false
		}
		rel.Kind = graph.KindNibling
		rel.Distance = f.dP - 1
	case f.dP == 1:
		if f.dR-2 > r.opts.MaxGreat {
			return graph.NoRelation, false
		}
		rel.Kind = graph.KindPibling
		rel.Distance = f.dR - 1
	default:
		rel.Kind = graph.KindCousin
		rel.Distance = min(f.dR, f.dP) - 1
		rel.Removed = abs(f.dR - f.dP)
	}
	return rel, true
}

// isHalf inspects every blood fork at the chosen distances. The link is
// full if any pair of fork children are full siblings, and half otherwise.
func (r *Resolver) isHalf(f fork, aR, aP map[string]int) bool {
	sideR := algorithms.AtDistance(aR, f.dR-1)
	sideP := algorithms.AtDistance(aP, f.dP-1)

	for a, dr := range aR {
		if dr != f.dR {
			continue
		}
		if dp, ok := aP[a]; !ok || dp != f.dP {
			continue
		}
		for _, x := range sideR {
			if !r.ix.Parents(x).Contains(a) {
				continue
			}
			for _, y := range sideP {
				if x != y && r.ix.Parents(y).Contains(a) && r.ix.FullSiblings(x, y) {
					return false
				}
			}
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
