package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterKinshipPrompts(s *server.MCPServer) {
	prompt := mcp.NewPrompt("explain_relationship",
		mcp.WithPromptDescription("Explain how two people in a family are related"),
		mcp.WithArgument("person", mcp.ArgumentDescription("Id of the person to explain"), mcp.RequiredArgument()),
		mcp.WithArgument("root", mcp.ArgumentDescription("Id of the root person"), mcp.RequiredArgument()),
	)
	s.AddPrompt(prompt, explainRelationshipHandler)
}

func explainRelationshipHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	person := request.Params.Arguments["person"]
	root := request.Params.Arguments["root"]
	if person == "" || root == "" {
		return nil, fmt.Errorf("person and root are required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Relationship of %s to %s", person, root),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf("Use resolve_relationship with person_id %q and root_id %q, then explain the label in plain words: "+
						"walk the family path the rule implies (parents, siblings, marriages) and say why any Half-, Step-, -in-law, Ex- or Late qualifier applies. "+
						"Call resolve_relationship again with the ids swapped if the reverse label helps.", person, root),
				},
			},
		},
	}, nil
}
