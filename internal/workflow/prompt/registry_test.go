package prompt

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ResearchSynthesis(t *testing.T) {
	r := NewRegistry()
	tpl, err := r.ChatTemplate(PromptResearchSynthesisV1)
	require.NoError(t, err)

	again, err := r.ChatTemplate(PromptResearchSynthesisV1)
	require.NoError(t, err)
	assert.Equal(t, tpl, again)

	msgs, err := tpl.Format(context.Background(), map[string]any{
		"query":        "What are treatments for migraines?",
		"data":         "Result 1:\nTitle: T",
		"marker_open":  "<<",
		"marker_close": ">>",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "CITE-BOT")
	assert.Contains(t, msgs[0].Content, "<<your improved query>>")

	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "query: What are treatments for migraines?\n\ndata: Result 1:\nTitle: T", msgs[1].Content)
}

func TestRegistry_UnknownPrompt(t *testing.T) {
	_, err := NewRegistry().ChatTemplate(PromptID("missing"))
	assert.Error(t, err)
}
