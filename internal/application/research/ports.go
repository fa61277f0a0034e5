// Package research 实现 检索 -> 格式化 -> 合成 -> 精炼 -> 记录 的问答流水线
package research

import (
	"context"

	"research-ai-api/internal/domain/entity"
)

// Retriever 外部检索服务
type Retriever interface {
	Retrieve(ctx context.Context, query string) (*entity.RetrievalResponse, error)
}

// Synthesizer 外部补全服务，返回模型原始文本
type Synthesizer interface {
	Synthesize(ctx context.Context, query, formattedContext string) (string, error)
}

// InteractionPublisher 交互记录事件发布（可选）
type InteractionPublisher interface {
	PublishInteraction(ctx context.Context, interaction *entity.Interaction) error
}
