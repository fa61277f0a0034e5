// Package chain 组合 Prompt 模板与 ChatModel 完成单次 LLM 调用
package chain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/schema"

	einoobs "research-ai-api/internal/observability/eino"
	workflowport "research-ai-api/internal/workflow/port"
	workflowprompt "research-ai-api/internal/workflow/prompt"
)

const synthesisWorkflow = "research_synthesis"

var (
	errEmptyResponse = errors.New("empty llm response")

	statusCodePattern = regexp.MustCompile(`status code: (\d{3})`)
)

// UpstreamError 补全服务返回的错误，尽可能携带其 HTTP 状态码
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// HTTPStatus 上游状态码，未知时为 0
func (e *UpstreamError) HTTPStatus() int {
	return e.Status
}

// SynthesisChain 将查询与检索上下文交给 ChatModel 生成带引用的回答
type SynthesisChain struct {
	factory     workflowport.ChatModelFactory
	provider    string
	registry    *workflowprompt.Registry
	markerOpen  string
	markerClose string
}

// NewSynthesisChain 创建合成链；markerOpen/markerClose 写入系统指令中的重查询格式说明
func NewSynthesisChain(factory workflowport.ChatModelFactory, provider, markerOpen, markerClose string) *SynthesisChain {
	return &SynthesisChain{
		factory:     factory,
		provider:    strings.TrimSpace(provider),
		registry:    workflowprompt.NewRegistry(),
		markerOpen:  markerOpen,
		markerClose: markerClose,
	}
}

// Synthesize 返回模型的原始文本，不做任何改写
func (c *SynthesisChain) Synthesize(ctx context.Context, query, formattedContext string) (string, error) {
	if c == nil || c.factory == nil {
		return "", fmt.Errorf("llm factory not configured")
	}

	ctx = einoobs.WithWorkflowProvider(ctx, synthesisWorkflow, c.provider)
	chatModel, err := c.factory.Get(ctx, c.provider)
	if err != nil {
		return "", err
	}

	msgs, err := c.formatMessages(ctx, query, formattedContext)
	if err != nil {
		return "", err
	}

	ctx = einocallbacks.InitCallbacks(ctx, &einocallbacks.RunInfo{
		Name:      synthesisWorkflow,
		Type:      "ChatModel",
		Component: components.ComponentOfChatModel,
	})
	out, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", &UpstreamError{Status: statusFromError(err), Err: err}
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errEmptyResponse
	}
	return out.Content, nil
}

func (c *SynthesisChain) formatMessages(ctx context.Context, query, formattedContext string) ([]*schema.Message, error) {
	tpl, err := c.registry.ChatTemplate(workflowprompt.PromptResearchSynthesisV1)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, map[string]any{
		"query":        query,
		"data":         formattedContext,
		"marker_open":  c.markerOpen,
		"marker_close": c.markerClose,
	})
}

// statusFromError 从 OpenAI 兼容客户端的错误文本中解析 HTTP 状态码
func statusFromError(err error) int {
	m := statusCodePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return code
}
