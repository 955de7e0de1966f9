package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/graph/storage"
	"github.com/athapong/kinship/pkg/kinship"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// KinshipTools holds what the kinship tool handlers share
type KinshipTools struct {
	engine   *kinship.Engine
	pipeline *kinship.Pipeline
	store    storage.FamilyStore
	logger   *logrus.Logger
}

// NewKinshipTools wires the handlers. store may be nil, in which case
// every call must carry its own people and relationships.
func NewKinshipTools(engine *kinship.Engine, pipeline *kinship.Pipeline, store storage.FamilyStore, logger *logrus.Logger) *KinshipTools {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &KinshipTools{
		engine:   engine,
		pipeline: pipeline,
		store:    store,
		logger:   logger,
	}
}

func RegisterKinshipTools(s *server.MCPServer, t *KinshipTools) {
	resolveTool := mcp.NewTool("resolve_relationship",
		mcp.WithDescription("Computes how one person is related to a root person in a family graph. Returns the English kinship label (e.g. \"Great-Grandmother\", \"Step-Brother\", \"Ex-Wife\", \"Unrelated\") together with the rule that produced it."),
		mcp.WithString("person_id", mcp.Required(), mcp.Description("Id of the person whose relationship is wanted")),
		mcp.WithString("root_id", mcp.Required(), mcp.Description("Id of the root person the label is relative to")),
		mcp.WithString("people_json", mcp.Description("JSON array of people (id, given_name, family_name, gender, birth_date, death_date, is_deceased). Falls back to the configured family store when omitted.")),
		mcp.WithString("relationships_json", mcp.Description("JSON array of relationship records using {source,target}, {person_id,relative_id} or {from,to} endpoints with a type of parent, child, spouse or sibling")),
	)
	s.AddTool(resolveTool, errorGuard(t.resolveHandler))

	familyTool := mcp.NewTool("family_labels",
		mcp.WithDescription("Labels every person in a family relative to a root person. Returns a JSON object mapping person id to label."),
		mcp.WithString("root_id", mcp.Required(), mcp.Description("Id of the root person")),
		mcp.WithString("people_json", mcp.Description("JSON array of people; falls back to the configured family store when omitted")),
		mcp.WithString("relationships_json", mcp.Description("JSON array of relationship records")),
	)
	s.AddTool(familyTool, errorGuard(t.familyHandler))

	statsTool := mcp.NewTool("family_stats",
		mcp.WithDescription("Reports how a family was indexed: people, parent links, spouse pairs by kind, declared siblings, dropped records by reason and the detected parent/child encoding."),
		mcp.WithString("people_json", mcp.Description("JSON array of people; falls back to the configured family store when omitted")),
		mcp.WithString("relationships_json", mcp.Description("JSON array of relationship records")),
	)
	s.AddTool(statsTool, errorGuard(t.statsHandler))
}

// errorGuard turns a panicking handler into a tool error result
func errorGuard(handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				result = mcp.NewToolResultError(fmt.Sprintf("internal error: %v", r))
				err = nil
			}
		}()
		return handler(ctx, request)
	}
}

func (t *KinshipTools) resolveHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	personID, ok := arguments["person_id"].(string)
	if !ok || personID == "" {
		return mcp.NewToolResultError("person_id must be a non-empty string"), nil
	}
	rootID, ok := arguments["root_id"].(string)
	if !ok || rootID == "" {
		return mcp.NewToolResultError("root_id must be a non-empty string"), nil
	}

	snap, err := t.snapshot(ctx, arguments)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	explanation := snap.Explain(personID, rootID)
	t.logger.WithFields(logrus.Fields{
		"person_id": personID,
		"root_id":   rootID,
		"label":     explanation.Label,
		"rule":      explanation.Rule,
	}).Info("Resolved relationship")

	return jsonResult(explanation)
}

func (t *KinshipTools) familyHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	rootID, ok := arguments["root_id"].(string)
	if !ok || rootID == "" {
		return mcp.NewToolResultError("root_id must be a non-empty string"), nil
	}

	snap, err := t.snapshot(ctx, arguments)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	labels, err := t.pipeline.ResolveFamily(ctx, snap, rootID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to label family: %v", err)), nil
	}
	return jsonResult(labels)
}

func (t *KinshipTools) statsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := t.snapshot(ctx, request.Params.Arguments)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(snap.Stats())
}

// snapshot indexes the inline family if one was passed, otherwise the
// family held by the store
func (t *KinshipTools) snapshot(ctx context.Context, arguments map[string]interface{}) (*kinship.Snapshot, error) {
	peopleJSON, _ := arguments["people_json"].(string)
	relationshipsJSON, _ := arguments["relationships_json"].(string)

	if peopleJSON == "" {
		if relationshipsJSON != "" {
			return nil, errors.New("relationships_json requires people_json")
		}
		if t.store == nil {
			return nil, errors.New("people_json is required when no family store is configured")
		}
		family, err := t.store.LoadFamily(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load family")
		}
		return t.engine.SnapshotFamily(family), nil
	}

	people, err := graph.DecodePeople([]byte(peopleJSON))
	if err != nil {
		return nil, errors.Wrap(err, "invalid people_json")
	}
	var records []graph.RelationshipRecord
	if relationshipsJSON != "" {
		records, err = graph.DecodeRelationships([]byte(relationshipsJSON))
		if err != nil {
			return nil, errors.Wrap(err, "invalid relationships_json")
		}
	}
	return t.engine.Snapshot(people, records), nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
