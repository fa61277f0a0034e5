package postgres

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"research-ai-api/internal/domain/entity"
)

// InteractionRepository 交互记录仓储，只追加
type InteractionRepository struct {
	client *Client
}

func NewInteractionRepository(client *Client) *InteractionRepository {
	return &InteractionRepository{client: client}
}

// Create 写入一条交互记录
func (r *InteractionRepository) Create(ctx context.Context, interaction *entity.Interaction) error {
	ctx, span := tracer.Start(ctx, "postgres.InteractionRepository.Create")
	span.SetAttributes(
		attribute.String("interaction.id", interaction.ID),
		attribute.Int("interaction.depth", interaction.Depth),
	)
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(interaction).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create interaction: %w", err)
	}
	return nil
}
