package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/athapong/kinship/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeopleQuery(t *testing.T) {
	cypher, params := peopleQuery().Cypher()
	assert.Equal(t, "MATCH (p:Person) RETURN p ORDER BY p.id", cypher)
	assert.Empty(t, params)
}

func TestRelationshipsQuery(t *testing.T) {
	cypher, _ := relationshipsQuery().Cypher()
	assert.Equal(t, "MATCH (a:Person)-[r:KIN]->(b:Person) RETURN a.id AS from, b.id AS to, r.type AS type, "+
		"coalesce(r.is_ex, false) AS is_ex, coalesce(r.is_deceased_spouse, false) AS is_deceased_spouse "+
		"ORDER BY a.id, b.id", cypher)
}

func TestUpsertPersonQuery(t *testing.T) {
	born := time.Date(1950, 3, 1, 0, 0, 0, 0, time.UTC)
	cypher, params := upsertPersonQuery(graph.Person{
		ID:        "mum",
		GivenName: "Jane",
		Gender:    graph.GenderFemale,
		BirthDate: &born,
	}).Cypher()

	assert.Equal(t, "MERGE (p:Person {id: $p0}) SET p.given_name = $given_name, p.family_name = $family_name, "+
		"p.gender = $gender, p.birth_date = $birth_date, p.death_date = $death_date, p.is_deceased = $is_deceased", cypher)
	assert.Equal(t, "mum", params["p0"])
	assert.Equal(t, "female", params["gender"])
	assert.Equal(t, "1950-03-01", params["birth_date"])
	assert.Nil(t, params["death_date"])
	assert.Equal(t, false, params["is_deceased"])
}

func TestUpsertRelationshipQuery(t *testing.T) {
	cypher, params := upsertRelationshipQuery(graph.RelationshipRecord{
		Type: graph.RecordSpouse, From: "a", To: "b", IsEx: true,
	}).Cypher()

	assert.Equal(t, "MATCH (a:Person), (b:Person) WHERE a.id = $p0 AND b.id = $p1 "+
		"MERGE (a)-[r:KIN {type: $p2}]->(b) SET r.is_ex = $is_ex, r.is_deceased_spouse = $is_deceased_spouse", cypher)
	assert.Equal(t, map[string]interface{}{
		"p0":                 "a",
		"p1":                 "b",
		"p2":                 "spouse",
		"is_ex":              true,
		"is_deceased_spouse": false,
	}, params)
}

func TestNeo4jStore_RoundTrip(t *testing.T) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set")
	}

	ctx := context.Background()
	store, err := NewNeo4jStore(uri, os.Getenv("NEO4J_USERNAME"), os.Getenv("NEO4J_PASSWORD"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Connect(ctx))

	want := sampleFamily()
	require.NoError(t, store.StoreFamily(ctx, want))

	got, err := store.LoadFamily(ctx)
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, p := range got.People {
		ids[p.ID] = true
	}
	for _, p := range want.People {
		assert.True(t, ids[p.ID], "missing %s", p.ID)
	}
	for _, rel := range want.Relationships {
		assert.Contains(t, got.Relationships, rel)
	}
}
