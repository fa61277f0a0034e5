package eino

import (
	"context"
	"errors"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"research-ai-api/pkg/metrics"
)

func TestWorkflowProviderContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", WorkflowFromContext(ctx))
	assert.Equal(t, "unknown", ProviderFromContext(ctx))

	ctx = WithWorkflowProvider(ctx, " research_synthesis ", "openai")
	assert.Equal(t, "research_synthesis", WorkflowFromContext(ctx))
	assert.Equal(t, "openai", ProviderFromContext(ctx))

	ctx = WithWorkflowProvider(ctx, "", "azure")
	assert.Equal(t, "research_synthesis", WorkflowFromContext(ctx))
	assert.Equal(t, "azure", ProviderFromContext(ctx))
}

func TestChatModelCallbacks_RecordMetrics(t *testing.T) {
	h := newChatModelCallbackHandler()
	info := &einocb.RunInfo{Name: "synthesis", Type: "OpenAI"}
	ctx := WithWorkflowProvider(context.Background(), "cb_test", "openai")

	successBefore := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_test", "openai", "gpt-test", "success"))
	promptBefore := testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("cb_test", "openai", "gpt-test", "prompt"))

	ctx = h.OnStart(ctx, info, &model.CallbackInput{Config: &model.Config{Model: "gpt-test"}})
	h.OnEnd(ctx, info, &model.CallbackOutput{
		Message: &schema.Message{
			Role:    schema.Assistant,
			Content: "ok",
			ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{
				PromptTokens:     12,
				CompletionTokens: 3,
				TotalTokens:      15,
			}},
		},
	})

	assert.Equal(t, successBefore+1, testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_test", "openai", "gpt-test", "success")))
	assert.Equal(t, promptBefore+12, testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("cb_test", "openai", "gpt-test", "prompt")))
}

func TestChatModelCallbacks_RecordError(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := WithWorkflowProvider(context.Background(), "cb_error_test", "openai")

	before := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_error_test", "openai", "gpt-test", "error"))
	ctx = h.OnStart(ctx, nil, &model.CallbackInput{Config: &model.Config{Model: "gpt-test"}})
	h.OnError(ctx, nil, errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_error_test", "openai", "gpt-test", "error")))
}
