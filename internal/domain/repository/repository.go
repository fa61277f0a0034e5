// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"research-ai-api/internal/domain/entity"
)

// InteractionRepository 交互记录存储，仅支持追加
type InteractionRepository interface {
	Create(ctx context.Context, interaction *entity.Interaction) error
}
