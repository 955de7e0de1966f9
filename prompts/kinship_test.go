package prompts

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainRelationshipHandler(t *testing.T) {
	var request mcp.GetPromptRequest
	request.Params.Arguments = map[string]string{"person": "lisa", "root": "alice"}

	result, err := explainRelationshipHandler(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	content, ok := result.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, content.Text, `person_id "lisa"`)
	assert.Contains(t, content.Text, `root_id "alice"`)
}

func TestExplainRelationshipHandler_MissingArguments(t *testing.T) {
	var request mcp.GetPromptRequest
	request.Params.Arguments = map[string]string{"person": "lisa"}

	_, err := explainRelationshipHandler(context.Background(), request)
	assert.Error(t, err)
}
