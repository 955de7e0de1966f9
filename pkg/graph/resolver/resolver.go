package resolver

import (
	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/graph/algorithms"
	"github.com/athapong/kinship/pkg/graph/metrics"
	"github.com/athapong/kinship/pkg/graph/timeline"
)

// DefaultMaxGreat is the largest number of "Great-" prefixes the resolver
// will produce; anything further out resolves to no relation.
const DefaultMaxGreat = 5

// Rule names reported by Explain. Affinity matches report the name of the
// affinity rule instead, e.g. "step_parent".
const (
	RuleUnknownPerson = "unknown_person"
	RuleIdentity      = "identity"
	RuleLineage       = "lineage"
	RuleCollateral    = "collateral"
	RuleDepthExceeded = "depth_exceeded"
	RuleNone          = "none"
)

// Options configures a Resolver
type Options struct {
	// MaxGreat bounds every great-N chain and, through it, the depth of
	// all lineage walks (MaxGreat + 2 generations).
	MaxGreat int

	// CoParentInLaw enables the co-parent-in-law rule. It only ever
	// applies to biological parents of a married biological child.
	CoParentInLaw bool

	// RecordMetrics toggles Prometheus accounting of results
	RecordMetrics bool
}

// DefaultOptions returns the resolver defaults
func DefaultOptions() Options {
	return Options{
		MaxGreat:      DefaultMaxGreat,
		CoParentInLaw: true,
		RecordMetrics: true,
	}
}

// Option is a functional option for configuring a Resolver
type Option func(*Options)

// WithMaxGreat sets the great-N bound
func WithMaxGreat(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.MaxGreat = n
		}
	}
}

// WithCoParentInLaw toggles the co-parent-in-law rule
func WithCoParentInLaw(enabled bool) Option {
	return func(o *Options) {
		o.CoParentInLaw = enabled
	}
}

// WithMetrics toggles Prometheus accounting
func WithMetrics(enabled bool) Option {
	return func(o *Options) {
		o.RecordMetrics = enabled
	}
}

// WithOptions replaces all options at once
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

// Resolver classifies pairs of people against one Index. It only reads
// the index, so one Resolver may be shared by concurrent callers.
type Resolver struct {
	ix       *graph.Index
	opts     Options
	lineage  *algorithms.LineageTraversal
	timeline *timeline.Validator
}

// New creates a resolver over ix
func New(ix *graph.Index, opts ...Option) *Resolver {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Resolver{
		ix:       ix,
		opts:     options,
		lineage:  algorithms.NewLineageTraversal(ix, options.MaxGreat+2),
		timeline: timeline.NewValidator(),
	}
}

// Options returns the options the resolver runs with
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve returns what personID is to rootID. Rules run in priority order:
// identity, direct lineage, collateral blood, affinity. Unknown ids and
// exhausted rules both yield graph.NoRelation.
func (r *Resolver) Resolve(personID, rootID string) graph.Relation {
	rel, _ := r.Explain(personID, rootID)
	return rel
}

// Explain is Resolve plus the name of the rule that produced the result
func (r *Resolver) Explain(personID, rootID string) (graph.Relation, string) {
	rel, rule := r.resolve(personID, rootID)
	if r.opts.RecordMetrics {
		metrics.Resolutions.WithLabelValues(rel.Category.String()).Inc()
	}
	return rel, rule
}

func (r *Resolver) resolve(personID, rootID string) (graph.Relation, string) {
	p, ok := r.ix.Person(personID)
	if !ok {
		return graph.NoRelation, RuleUnknownPerson
	}
	root, ok := r.ix.Person(rootID)
	if !ok {
		return graph.NoRelation, RuleUnknownPerson
	}

	if p.ID == root.ID {
		return graph.Relation{Category: graph.CategorySelf, Kind: graph.KindSelf, Gender: p.Gender}, RuleIdentity
	}

	if rel, ok := r.lineal(p, root); ok {
		return rel, RuleLineage
	}
	if rel, ok := r.collateral(p, root); ok {
		if !rel.Found() {
			return rel, RuleDepthExceeded
		}
		return rel, RuleCollateral
	}
	// Affinity rules never walk ex-spouse edges beyond the ex-spouse pair
	// itself, so an ex's other relatives fall through to no relation.
	if rel, rule, ok := r.affinity(p, root); ok {
		return rel, rule
	}
	return graph.NoRelation, RuleNone
}

// lineal looks for p straight up or straight down from root
func (r *Resolver) lineal(p, root graph.Person) (graph.Relation, bool) {
	if d, ok := r.lineage.Traverse(root.ID, algorithms.Up)[p.ID]; ok && d > 0 {
		return graph.Relation{
			Category: graph.CategoryLineage,
			Kind:     graph.KindParent,
			Distance: d,
			Gender:   p.Gender,
		}, true
	}
	if d, ok := r.lineage.Traverse(root.ID, algorithms.Down)[p.ID]; ok && d > 0 {
		return graph.Relation{
			Category: graph.CategoryLineage,
			Kind:     graph.KindChild,
			Distance: d,
			Gender:   p.Gender,
		}, true
	}
	return graph.NoRelation, false
}
