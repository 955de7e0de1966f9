package graph

import (
	"github.com/athapong/kinship/pkg/graph/algorithms"
	"github.com/athapong/kinship/pkg/graph/metrics"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

// DefaultLineageBound caps every parent/child walk done while building
const DefaultLineageBound = 16

// DropReason explains why a record did not make it into the index
type DropReason string

const (
	DropMissingEndpoint    DropReason = "missing_endpoint"
	DropUnknownPerson      DropReason = "unknown_person"
	DropUnknownType        DropReason = "unknown_type"
	DropSelfEdge           DropReason = "self_edge"
	DropContradictsLineage DropReason = "contradicts_lineage"
)

// Encoding describes how parent/child links were written in the input
type Encoding string

const (
	EncodingNone   Encoding = "none"
	EncodingSingle Encoding = "single"
	EncodingDual   Encoding = "dual"
	EncodingMixed  Encoding = "mixed"
)

// BuildStats summarizes one index build
type BuildStats struct {
	People               int                `json:"people"`
	ParentLinks          int                `json:"parent_links"`
	CurrentSpousePairs   int                `json:"current_spouse_pairs"`
	ExSpousePairs        int                `json:"ex_spouse_pairs"`
	DeceasedSpousePairs  int                `json:"deceased_spouse_pairs"`
	DeclaredSiblingPairs int                `json:"declared_sibling_pairs"`
	Dropped              map[DropReason]int `json:"dropped,omitempty"`
	Encoding             Encoding           `json:"encoding"`
}

// pair is an unordered pair of ids
type pair [2]string

func newPair(a, b string) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// assertion bits for a parent link
const (
	viaParentRecord = 1 << iota
	viaChildRecord
)

// IndexBuilder normalizes raw records into an Index. It holds no state
// between builds and is safe for concurrent use.
type IndexBuilder struct {
	logger        *logrus.Logger
	lineageBound  int
	recordMetrics bool
}

// BuilderOption configures an IndexBuilder
type BuilderOption func(*IndexBuilder)

// WithLogger replaces the builder's logger
func WithLogger(logger *logrus.Logger) BuilderOption {
	return func(b *IndexBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLineageBound sets the generation bound used for sanity checks
func WithLineageBound(n int) BuilderOption {
	return func(b *IndexBuilder) {
		if n > 0 {
			b.lineageBound = n
		}
	}
}

// WithMetrics toggles Prometheus accounting
func WithMetrics(enabled bool) BuilderOption {
	return func(b *IndexBuilder) {
		b.recordMetrics = enabled
	}
}

// NewIndexBuilder creates a new index builder
func NewIndexBuilder(opts ...BuilderOption) *IndexBuilder {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	b := &IndexBuilder{
		logger:        logger,
		lineageBound:  DefaultLineageBound,
		recordMetrics: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// buildState holds mutable state during a single Build call
type buildState struct {
	ix       *Index
	links    map[[2]string]int
	spouses  map[pair]SpouseKind
	siblings mapset.Set[pair]
	dropped  map[DropReason]int
	logger   *logrus.Logger
}

func (s *buildState) drop(reason DropReason, rec RelationshipRecord) {
	s.dropped[reason]++
	s.logger.WithFields(logrus.Fields{
		"reason": reason,
		"type":   rec.Type,
		"from":   rec.From,
		"to":     rec.To,
	}).Debug("Dropping relationship record")
}

// Build creates a fresh Index from the two input collections. Malformed
// records are filtered out, never reported as errors.
func (b *IndexBuilder) Build(people []Person, records []RelationshipRecord) *Index {
	st := &buildState{
		ix:       newIndex(),
		links:    make(map[[2]string]int),
		spouses:  make(map[pair]SpouseKind),
		siblings: mapset.NewThreadUnsafeSet[pair](),
		dropped:  make(map[DropReason]int),
		logger:   b.logger,
	}

	for _, p := range people {
		if p.ID == "" {
			continue
		}
		if _, exists := st.ix.people[p.ID]; exists {
			b.logger.WithField("person_id", p.ID).Debug("Ignoring duplicate person")
			continue
		}
		if p.Gender == "" {
			p.Gender = GenderUnspecified
		}
		st.ix.people[p.ID] = p
	}

	for _, rec := range records {
		b.ingest(st, rec)
	}

	b.finishParents(st)
	b.finishSpouses(st)
	b.finishSiblings(st)

	st.ix.stats.People = len(st.ix.people)
	if len(st.dropped) > 0 {
		st.ix.stats.Dropped = st.dropped
	}

	if b.recordMetrics {
		metrics.IndexBuildsTotal.WithLabelValues(string(st.ix.stats.Encoding)).Inc()
		metrics.IndexPeople.Observe(float64(st.ix.stats.People))
		for reason, n := range st.dropped {
			metrics.DroppedRecords.WithLabelValues(string(reason)).Add(float64(n))
		}
	}

	b.logger.WithFields(logrus.Fields{
		"people":       st.ix.stats.People,
		"parent_links": st.ix.stats.ParentLinks,
		"encoding":     st.ix.stats.Encoding,
		"dropped":      st.dropped,
	}).Debug("Index built")

	return st.ix
}

func (b *IndexBuilder) ingest(st *buildState, rec RelationshipRecord) {
	switch {
	case rec.From == "" || rec.To == "":
		st.drop(DropMissingEndpoint, rec)
		return
	case !rec.Type.Valid():
		st.drop(DropUnknownType, rec)
		return
	case rec.From == rec.To:
		st.drop(DropSelfEdge, rec)
		return
	case !st.ix.Has(rec.From) || !st.ix.Has(rec.To):
		st.drop(DropUnknownPerson, rec)
		return
	}

	switch rec.Type {
	case RecordParent:
		st.links[[2]string{rec.From, rec.To}] |= viaParentRecord
	case RecordChild:
		st.links[[2]string{rec.To, rec.From}] |= viaChildRecord
	case RecordSpouse:
		kind := b.classifySpouse(st.ix, rec)
		key := newPair(rec.From, rec.To)
		if kind > st.spouses[key] {
			st.spouses[key] = kind
		}
	case RecordSibling:
		st.siblings.Add(newPair(rec.From, rec.To))
	}
}

// classifySpouse applies the flag priority: ex, then deceased-spouse, then
// the deceased status of either endpoint
func (b *IndexBuilder) classifySpouse(ix *Index, rec RelationshipRecord) SpouseKind {
	if rec.IsEx {
		return SpouseEx
	}
	if rec.IsDeceasedSpouse {
		return SpouseDeceased
	}
	from, _ := ix.Person(rec.From)
	to, _ := ix.Person(rec.To)
	if from.IsDeceased() || to.IsDeceased() {
		return SpouseDeceased
	}
	return SpouseCurrent
}

func (b *IndexBuilder) finishParents(st *buildState) {
	var dual int
	for link, via := range st.links {
		parent, child := link[0], link[1]
		add(st.ix.parentOf, parent, child)
		add(st.ix.parentsOf, child, parent)
		if via == viaParentRecord|viaChildRecord {
			dual++
		}
	}
	st.ix.stats.ParentLinks = len(st.links)

	switch {
	case len(st.links) == 0:
		st.ix.stats.Encoding = EncodingNone
	case dual == len(st.links):
		st.ix.stats.Encoding = EncodingDual
	case dual == 0:
		st.ix.stats.Encoding = EncodingSingle
	default:
		st.ix.stats.Encoding = EncodingMixed
	}
}

func (b *IndexBuilder) finishSpouses(st *buildState) {
	for key, kind := range st.spouses {
		var m map[string]mapset.Set[string]
		switch kind {
		case SpouseEx:
			m = st.ix.exSpouses
			st.ix.stats.ExSpousePairs++
		case SpouseDeceased:
			m = st.ix.deceasedSpouses
			st.ix.stats.DeceasedSpousePairs++
		default:
			m = st.ix.currentSpouses
			st.ix.stats.CurrentSpousePairs++
		}
		add(m, key[0], key[1])
		add(m, key[1], key[0])
	}
}

// finishSiblings keeps only "dotted" sibling edges: pairs with shared-parent
// evidence are already siblings by derivation, and pairs where one is the
// other's ancestor or that already share an ancestor are bad data that
// lineage overrides.
func (b *IndexBuilder) finishSiblings(st *buildState) {
	lineage := algorithms.NewLineageTraversal(st.ix, b.lineageBound)
	for key := range st.siblings.Iter() {
		a, c := key[0], key[1]
		if st.ix.SharesParent(a, c) {
			continue
		}
		if lineage.Related(a, c) || lineage.SharesAncestor(a, c) {
			st.dropped[DropContradictsLineage]++
			b.logger.WithFields(logrus.Fields{
				"a": a,
				"b": c,
			}).Debug("Dropping sibling edge that contradicts lineage")
			continue
		}
		add(st.ix.declaredSiblings, a, c)
		add(st.ix.declaredSiblings, c, a)
		st.ix.stats.DeclaredSiblingPairs++
	}
}
