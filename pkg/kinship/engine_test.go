package kinship

import (
	"testing"

	"github.com/athapong/kinship/pkg/config"
	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/graph/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remarriedFamily() ([]graph.Person, []graph.RelationshipRecord) {
	people := []graph.Person{
		{ID: "john", GivenName: "John", Gender: graph.GenderMale},
		{ID: "jane", GivenName: "Jane", Gender: graph.GenderFemale, Deceased: true},
		{ID: "lisa", GivenName: "Lisa", Gender: graph.GenderFemale},
		{ID: "alice", GivenName: "Alice", Gender: graph.GenderFemale},
		{ID: "michael", GivenName: "Michael", Gender: graph.GenderMale},
	}
	records := []graph.RelationshipRecord{
		{Type: graph.RecordSpouse, From: "john", To: "jane"},
		{Type: graph.RecordSpouse, From: "john", To: "lisa"},
		{Type: graph.RecordParent, From: "john", To: "alice"},
		{Type: graph.RecordParent, From: "jane", To: "alice"},
		{Type: graph.RecordChild, From: "michael", To: "lisa"},
	}
	return people, records
}

func testEngine(opts ...Option) *Engine {
	return NewEngine(append([]Option{WithMetrics(false)}, opts...)...)
}

func TestResolve_OneShot(t *testing.T) {
	people, records := remarriedFamily()

	tests := []struct {
		person, root string
		want         string
	}{
		{"michael", "alice", "Step-Brother"},
		{"lisa", "alice", "Step-Mother"},
		{"jane", "john", "Late Wife"},
		{"john", "alice", "Father"},
		{"alice", "alice", "Root"},
	}

	for _, tt := range tests {
		t.Run(tt.person+"_"+tt.root, func(t *testing.T) {
			got := Resolve(graph.Person{ID: tt.person}, graph.Person{ID: tt.root}, people, records)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_UnknownRoot(t *testing.T) {
	people, records := remarriedFamily()
	assert.Equal(t, "Unrelated", testEngine().Resolve(graph.Person{ID: "alice"}, graph.Person{ID: "ghost"}, people, records))
}

func TestSnapshot_IsolatedFromInput(t *testing.T) {
	people, records := remarriedFamily()
	snap := testEngine().Snapshot(people, records)

	people[3].Gender = graph.GenderMale
	records[2].From = "lisa"

	assert.Equal(t, "Father", snap.Resolve("john", "alice"))
	assert.Equal(t, "Daughter", snap.Resolve("alice", "john"))
}

func TestSnapshot_Explain(t *testing.T) {
	people, records := remarriedFamily()
	snap := testEngine().Snapshot(people, records)

	exp := snap.Explain("lisa", "alice")
	assert.Equal(t, "Step-Mother", exp.Label)
	assert.Equal(t, "Step-Daughter", exp.Inverse)
	assert.Equal(t, "step_parent", exp.Rule)
	assert.Equal(t, graph.CategoryAffinity, exp.Relation.Category)

	exp = snap.Explain("john", "alice")
	assert.Equal(t, resolver.RuleLineage, exp.Rule)
	assert.Equal(t, "Daughter", exp.Inverse)
}

func TestSnapshot_Stats(t *testing.T) {
	people, records := remarriedFamily()
	stats := testEngine().Snapshot(people, records).Stats()

	assert.Equal(t, 5, stats.People)
	assert.Equal(t, 3, stats.ParentLinks)
	assert.Equal(t, graph.EncodingSingle, stats.Encoding)
}

func TestSnapshotFamily_Nil(t *testing.T) {
	snap := testEngine().SnapshotFamily(nil)
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Stats().People)
	assert.Equal(t, "Unrelated", snap.Resolve("a", "b"))
}

func TestEngine_Options(t *testing.T) {
	people := []graph.Person{
		{ID: "fil", Gender: graph.GenderMale},
		{ID: "mum", Gender: graph.GenderFemale},
		{ID: "hub", Gender: graph.GenderMale},
		{ID: "me", Gender: graph.GenderFemale},
	}
	records := []graph.RelationshipRecord{
		{Type: graph.RecordParent, From: "fil", To: "hub"},
		{Type: graph.RecordParent, From: "mum", To: "me"},
		{Type: graph.RecordSpouse, From: "me", To: "hub"},
	}

	assert.Equal(t, "Co-Father-in-law", testEngine().Snapshot(people, records).Resolve("fil", "mum"))
	assert.Equal(t, "Unrelated", testEngine(WithCoParentInLaw(false)).Snapshot(people, records).Resolve("fil", "mum"))
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.MaxGreat = 1
	cfg.Engine.CoParentInLaw = false

	e := testEngine(FromConfig(cfg)...)
	assert.Equal(t, 1, e.resolverOpts.MaxGreat)
	assert.False(t, e.resolverOpts.CoParentInLaw)
	assert.False(t, e.resolverOpts.RecordMetrics)
}
