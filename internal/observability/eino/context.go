package eino

import (
	"context"
	"strings"
)

type callInfoKey struct{}

// callInfo 调用方附加在 ctx 上的 LLM 调用标签
type callInfo struct {
	workflow string
	provider string
}

const unknownLabel = "unknown"

// WithWorkflowProvider 为后续 LLM 调用标注工作流与提供商，用于指标与追踪
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	info := callInfoFrom(ctx)
	if w := strings.TrimSpace(workflow); w != "" {
		info.workflow = w
	}
	if p := strings.TrimSpace(provider); p != "" {
		info.provider = p
	}
	return context.WithValue(ctx, callInfoKey{}, info)
}

// WorkflowFromContext 返回工作流标签，缺省为 unknown
func WorkflowFromContext(ctx context.Context) string {
	return orUnknown(callInfoFrom(ctx).workflow)
}

// ProviderFromContext 返回提供商标签，缺省为 unknown
func ProviderFromContext(ctx context.Context) string {
	return orUnknown(callInfoFrom(ctx).provider)
}

func callInfoFrom(ctx context.Context) callInfo {
	if ctx == nil {
		return callInfo{}
	}
	info, _ := ctx.Value(callInfoKey{}).(callInfo)
	return info
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}
