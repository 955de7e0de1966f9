package resolver

import (
	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/graph/metrics"
)

// affinityRule matches one marriage-derived relation of p to root
type affinityRule struct {
	name  string
	match func(r *Resolver, p, root graph.Person) (graph.Relation, bool)
}

// affinityRules run in order of path length; the first match wins.
// Inverse relations share one helper with the arguments swapped so both
// directions are gated by the same timeline checks.
var affinityRules = []affinityRule{
	{"spouse", (*Resolver).spouse},
	{"parent_in_law", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return inLaw(graph.KindParent, 1), r.parentInLawOf(p, root)
	}},
	{"child_in_law", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return inLaw(graph.KindChild, 1), r.parentInLawOf(root, p)
	}},
	{"step_parent", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return step(graph.KindParent, 1), r.stepParentOf(p, root)
	}},
	{"step_child", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return step(graph.KindChild, 1), r.stepParentOf(root, p)
	}},
	{"sibling_in_law", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return inLaw(graph.KindSibling, 1), r.siblingInLawOf(p, root)
	}},
	{"step_sibling", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return step(graph.KindSibling, 1), r.stepSiblingOf(p, root)
	}},
	{"co_parent_in_law", (*Resolver).coParentInLaw},
	{"step_grandparent", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return step(graph.KindParent, 2), r.stepGrandparentOf(p, root)
	}},
	{"step_grandchild", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return step(graph.KindChild, 2), r.stepGrandparentOf(root, p)
	}},
	{"pibling_in_law", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return inLaw(graph.KindPibling, 1), r.piblingInLawOf(p, root)
	}},
	{"nibling_in_law", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return inLaw(graph.KindNibling, 1), r.piblingInLawOf(root, p)
	}},
	{"step_pibling", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return step(graph.KindPibling, 1), r.stepPiblingOf(p, root)
	}},
	{"step_nibling", func(r *Resolver, p, root graph.Person) (graph.Relation, bool) {
		return step(graph.KindNibling, 1), r.stepPiblingOf(root, p)
	}},
}

func inLaw(kind graph.Kind, distance int) graph.Relation {
	return graph.Relation{Category: graph.CategoryAffinity, Kind: kind, Distance: distance, Modifiers: graph.ModInLaw}
}

func step(kind graph.Kind, distance int) graph.Relation {
	return graph.Relation{Category: graph.CategoryAffinity, Kind: kind, Distance: distance, Modifiers: graph.ModStep}
}

func (r *Resolver) affinity(p, root graph.Person) (graph.Relation, string, bool) {
	for _, rule := range affinityRules {
		if rel, ok := rule.match(r, p, root); ok {
			rel.Gender = p.Gender
			return rel, rule.name, true
		}
	}
	return graph.NoRelation, "", false
}

func (r *Resolver) person(id string) graph.Person {
	p, _ := r.ix.Person(id)
	return p
}

// covers reports whether the marriage of a and b overlaps every dependent
func (r *Resolver) covers(rule string, a, b graph.Person, dependents ...graph.Person) bool {
	for _, d := range dependents {
		if !r.timeline.MarriageCovers(a, b, d) {
			r.reject(rule)
			return false
		}
	}
	return true
}

func (r *Resolver) reject(rule string) {
	if r.opts.RecordMetrics {
		metrics.TimelineRejections.WithLabelValues(rule).Inc()
	}
}

func (r *Resolver) spouse(p, root graph.Person) (graph.Relation, bool) {
	kind := r.ix.SpouseKind(p.ID, root.ID)
	if kind == graph.SpouseNone {
		return graph.NoRelation, false
	}
	if !r.timeline.Coexisted(p, root) {
		r.reject("spouse")
		return graph.NoRelation, false
	}
	rel := graph.Relation{Category: graph.CategoryAffinity, Kind: graph.KindSpouse, Distance: 1}
	switch kind {
	case graph.SpouseEx:
		rel.Modifiers = graph.ModEx
	case graph.SpouseDeceased:
		rel.Modifiers = graph.ModLate
	}
	return rel, true
}

// parentInLawOf reports whether x is a parent of y's spouse
func (r *Resolver) parentInLawOf(x, y graph.Person) bool {
	for _, s := range graph.Sorted(r.ix.Spouses(y.ID)) {
		if r.ix.Parents(s).Contains(x.ID) && r.covers("parent_in_law", y, r.person(s), x) {
			return true
		}
	}
	return false
}

// stepParentOf reports whether x is married to one of child's parents
// without being a parent of child. The marriage must overlap child and
// every extra dependent.
func (r *Resolver) stepParentOf(x, child graph.Person, extra ...graph.Person) bool {
	parents := r.ix.Parents(child.ID)
	if parents.Contains(x.ID) {
		return false
	}
	for _, q := range graph.Sorted(parents) {
		if !r.ix.Spouses(q).Contains(x.ID) {
			continue
		}
		if r.covers("step_parent", r.person(q), x, append([]graph.Person{child}, extra...)...) {
			return true
		}
	}
	return false
}

// siblingInLawOf reports whether x is a sibling of y's spouse or the
// spouse of y's sibling
func (r *Resolver) siblingInLawOf(x, y graph.Person) bool {
	for _, s := range graph.Sorted(r.ix.Spouses(y.ID)) {
		if r.ix.Siblings(s).Contains(x.ID) && r.covers("sibling_in_law", y, r.person(s), x) {
			return true
		}
	}
	for _, b := range graph.Sorted(r.ix.Siblings(y.ID)) {
		if r.ix.Spouses(b).Contains(x.ID) && r.covers("sibling_in_law", r.person(b), x, y) {
			return true
		}
	}
	return false
}

// stepSiblingOf reports whether x and y are children of a married couple
// with no parent in common
func (r *Resolver) stepSiblingOf(x, y graph.Person, extra ...graph.Person) bool {
	if r.ix.SharesParent(x.ID, y.ID) {
		return false
	}
	xParents := r.ix.Parents(x.ID)
	for _, py := range graph.Sorted(r.ix.Parents(y.ID)) {
		for _, px := range graph.Sorted(r.ix.Spouses(py)) {
			if !xParents.Contains(px) {
				continue
			}
			dependents := append([]graph.Person{x, y}, extra...)
			if r.covers("step_sibling", r.person(py), r.person(px), dependents...) {
				return true
			}
		}
	}
	return false
}

// coParentInLaw matches the biological parents of two married people
func (r *Resolver) coParentInLaw(p, root graph.Person) (graph.Relation, bool) {
	if !r.opts.CoParentInLaw {
		return graph.NoRelation, false
	}
	for _, c := range graph.Sorted(r.ix.Children(root.ID)) {
		for _, s := range graph.Sorted(r.ix.Spouses(c)) {
			if !r.ix.Parents(s).Contains(p.ID) {
				continue
			}
			if r.covers("co_parent_in_law", r.person(c), r.person(s), root, p) {
				return graph.Relation{Category: graph.CategoryAffinity, Kind: graph.KindCoParentInLaw, Distance: 1}, true
			}
		}
	}
	return graph.NoRelation, false
}

// stepGrandparentOf reports whether x is a step-parent of one of y's
// parents, with the marriage also overlapping y
func (r *Resolver) stepGrandparentOf(x, y graph.Person) bool {
	for _, par := range graph.Sorted(r.ix.Parents(y.ID)) {
		if r.stepParentOf(x, r.person(par), y) {
			return true
		}
	}
	return false
}

// piblingInLawOf reports whether x is the spouse of y's blood aunt or
// uncle, or a blood aunt or uncle of y's spouse
func (r *Resolver) piblingInLawOf(x, y graph.Person) bool {
	for _, par := range graph.Sorted(r.ix.Parents(y.ID)) {
		for _, u := range graph.Sorted(r.ix.Siblings(par)) {
			if r.ix.Spouses(u).Contains(x.ID) && r.covers("pibling_in_law", r.person(u), x, y) {
				return true
			}
		}
	}
	for _, s := range graph.Sorted(r.ix.Spouses(y.ID)) {
		for _, par := range graph.Sorted(r.ix.Parents(s)) {
			if r.ix.Siblings(par).Contains(x.ID) && r.covers("pibling_in_law", y, r.person(s), x) {
				return true
			}
		}
	}
	return false
}

// stepPiblingOf reports whether x is a step-sibling of one of y's parents
func (r *Resolver) stepPiblingOf(x, y graph.Person) bool {
	for _, par := range graph.Sorted(r.ix.Parents(y.ID)) {
		if r.stepSiblingOf(x, r.person(par), y) {
			return true
		}
	}
	return false
}
