// Package kinship is the entry point to the relationship engine. A Snapshot
// freezes one people/relationships pair into an index that can be queried
// repeatedly and concurrently; Resolve is the one-shot form.
package kinship

import (
	"github.com/athapong/kinship/pkg/config"
	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/graph/label"
	"github.com/athapong/kinship/pkg/graph/resolver"
	"github.com/sirupsen/logrus"
)

var defaultEngine = NewEngine()

// Resolve returns the label of person relative to root. It builds a fresh
// index from people and relationships on every call; use a Snapshot when
// labelling many pairs from the same data.
func Resolve(person, root graph.Person, people []graph.Person, relationships []graph.RelationshipRecord) string {
	return defaultEngine.Resolve(person, root, people, relationships)
}

// Engine carries the configuration shared by every snapshot it builds
type Engine struct {
	logger       *logrus.Logger
	builderOpts  []graph.BuilderOption
	resolverOpts resolver.Options
	formatter    *label.Formatter
}

// Option is a functional option for configuring an Engine
type Option func(*Engine)

// WithLogger sets the logger handed to the index builder
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxGreat sets the number of "Great-" prefixes supported
func WithMaxGreat(n int) Option {
	return func(e *Engine) {
		resolver.WithMaxGreat(n)(&e.resolverOpts)
	}
}

// WithCoParentInLaw toggles the co-parent-in-law rule
func WithCoParentInLaw(enabled bool) Option {
	return func(e *Engine) {
		e.resolverOpts.CoParentInLaw = enabled
	}
}

// WithMetrics toggles Prometheus accounting in both builder and resolver
func WithMetrics(enabled bool) Option {
	return func(e *Engine) {
		e.resolverOpts.RecordMetrics = enabled
		e.builderOpts = append(e.builderOpts, graph.WithMetrics(enabled))
	}
}

// FromConfig translates cfg into engine options
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithMaxGreat(cfg.Engine.MaxGreat),
		WithCoParentInLaw(cfg.Engine.CoParentInLaw),
	}
}

// NewEngine creates an engine with default resolver options
func NewEngine(opts ...Option) *Engine {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	e := &Engine{
		logger:       logger,
		resolverOpts: resolver.DefaultOptions(),
		formatter:    label.NewFormatter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot indexes people and relationships once for repeated queries.
// The inputs are copied into the index, so later changes to them do not
// affect the snapshot.
func (e *Engine) Snapshot(people []graph.Person, relationships []graph.RelationshipRecord) *Snapshot {
	opts := append([]graph.BuilderOption{graph.WithLogger(e.logger)}, e.builderOpts...)
	ix := graph.NewIndexBuilder(opts...).Build(people, relationships)
	return &Snapshot{
		index:     ix,
		resolver:  resolver.New(ix, resolver.WithOptions(e.resolverOpts)),
		formatter: e.formatter,
	}
}

// SnapshotFamily is Snapshot for decoded family data
func (e *Engine) SnapshotFamily(data *graph.FamilyData) *Snapshot {
	if data == nil {
		return e.Snapshot(nil, nil)
	}
	return e.Snapshot(data.People, data.Relationships)
}

// Resolve is the one-shot operation bound to this engine's options
func (e *Engine) Resolve(person, root graph.Person, people []graph.Person, relationships []graph.RelationshipRecord) string {
	return e.Snapshot(people, relationships).Resolve(person.ID, root.ID)
}

// Snapshot is an immutable, indexed family. All methods are safe for
// concurrent use.
type Snapshot struct {
	index     *graph.Index
	resolver  *resolver.Resolver
	formatter *label.Formatter
}

// Explanation describes how a label was reached
type Explanation struct {
	PersonID string         `json:"person_id"`
	RootID   string         `json:"root_id"`
	Label    string         `json:"label"`
	Inverse  string         `json:"inverse"`
	Rule     string         `json:"rule"`
	Relation graph.Relation `json:"relation"`
}

// Index exposes the underlying index
func (s *Snapshot) Index() *graph.Index {
	return s.index
}

// Stats returns the index build statistics
func (s *Snapshot) Stats() graph.BuildStats {
	return s.index.Stats()
}

// Relation returns the structured relation of personID to rootID
func (s *Snapshot) Relation(personID, rootID string) graph.Relation {
	return s.resolver.Resolve(personID, rootID)
}

// Resolve returns the label of personID relative to rootID
func (s *Snapshot) Resolve(personID, rootID string) string {
	return s.formatter.Format(s.Relation(personID, rootID))
}

// Explain returns the label together with the rule that produced it and
// the label of the reverse direction
func (s *Snapshot) Explain(personID, rootID string) Explanation {
	rel, rule := s.resolver.Explain(personID, rootID)
	root, _ := s.index.Person(rootID)
	return Explanation{
		PersonID: personID,
		RootID:   rootID,
		Label:    s.formatter.Format(rel),
		Inverse:  s.formatter.Format(rel.Inverse(root.Gender)),
		Rule:     rule,
		Relation: rel,
	}
}
