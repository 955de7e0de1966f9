package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/graph/storage"
	"github.com/athapong/kinship/pkg/kinship"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	peopleJSON = `[
		{"id": "mum", "first_name": "Jane", "gender": "female"},
		{"id": "kid", "first_name": "Amy", "gender": "female"},
		{"id": "step", "first_name": "Tom", "gender": "male"}
	]`
	relationshipsJSON = `[
		{"source": "mum", "target": "kid", "type": "parent"},
		{"from": "mum", "to": "step", "relationship_type": "husband"}
	]`
)

func newTestTools(store storage.FamilyStore) *KinshipTools {
	logger, _ := test.NewNullLogger()
	return NewKinshipTools(
		kinship.NewEngine(kinship.WithMetrics(false), kinship.WithLogger(logger)),
		kinship.NewPipeline(kinship.WithPipelineLogger(logger)),
		store,
		logger,
	)
}

func call(arguments map[string]interface{}) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Arguments = arguments
	return request
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestResolveHandler(t *testing.T) {
	tools := newTestTools(nil)

	result, err := tools.resolveHandler(context.Background(), call(map[string]interface{}{
		"person_id":          "step",
		"root_id":            "kid",
		"people_json":        peopleJSON,
		"relationships_json": relationshipsJSON,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got kinship.Explanation
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &got))
	assert.Equal(t, "Step-Father", got.Label)
	assert.Equal(t, "Step-Daughter", got.Inverse)
	assert.Equal(t, "step_parent", got.Rule)
}

func TestResolveHandler_InvalidArguments(t *testing.T) {
	tools := newTestTools(nil)

	tests := []struct {
		name      string
		arguments map[string]interface{}
	}{
		{"missing person", map[string]interface{}{"root_id": "kid", "people_json": peopleJSON}},
		{"empty root", map[string]interface{}{"person_id": "mum", "root_id": "", "people_json": peopleJSON}},
		{"no family and no store", map[string]interface{}{"person_id": "mum", "root_id": "kid"}},
		{"relationships without people", map[string]interface{}{"person_id": "mum", "root_id": "kid", "relationships_json": "[]"}},
		{"bad people json", map[string]interface{}{"person_id": "mum", "root_id": "kid", "people_json": "{oops"}},
		{"wrong argument type", map[string]interface{}{"person_id": 7, "root_id": "kid", "people_json": peopleJSON}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tools.resolveHandler(context.Background(), call(tt.arguments))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestFamilyHandler_FromStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewJSONFamilyStore(filepath.Join(t.TempDir(), "family.json"))
	require.NoError(t, store.StoreFamily(ctx, &graph.FamilyData{
		People: []graph.Person{
			{ID: "mum", Gender: graph.GenderFemale},
			{ID: "kid", Gender: graph.GenderFemale},
		},
		Relationships: []graph.RelationshipRecord{
			{Type: graph.RecordParent, From: "mum", To: "kid"},
		},
	}))

	result, err := newTestTools(store).familyHandler(ctx, call(map[string]interface{}{"root_id": "kid"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got kinship.FamilyLabels
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &got))
	assert.Equal(t, map[string]string{"mum": "Mother", "kid": "Root"}, got.Labels)
}

func TestFamilyHandler_UnknownRoot(t *testing.T) {
	result, err := newTestTools(nil).familyHandler(context.Background(), call(map[string]interface{}{
		"root_id":     "ghost",
		"people_json": peopleJSON,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestStatsHandler(t *testing.T) {
	result, err := newTestTools(nil).statsHandler(context.Background(), call(map[string]interface{}{
		"people_json":        peopleJSON,
		"relationships_json": `[{"source": "mum", "target": "ghost", "type": "parent"}]`,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got graph.BuildStats
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &got))
	assert.Equal(t, 3, got.People)
	assert.Equal(t, 1, got.Dropped[graph.DropUnknownPerson])
}

func TestErrorGuard(t *testing.T) {
	guarded := errorGuard(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("boom")
	})

	result, err := guarded(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "boom")
}

func TestRegisterKinshipTools(t *testing.T) {
	s := server.NewMCPServer("kinship-test", "0.0.0")
	assert.NotPanics(t, func() { RegisterKinshipTools(s, newTestTools(nil)) })
}
