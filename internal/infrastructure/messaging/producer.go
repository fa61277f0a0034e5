// Package messaging 基于 Redis Streams 发布领域事件
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"research-ai-api/internal/domain/entity"
	"research-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	stream Stream
	maxLen int64
}

// NewProducer 创建消息生产者；stream 为空时使用 StreamInteractions
func NewProducer(client *redis.Client, stream string, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	s := Stream(stream)
	if s == "" {
		s = StreamInteractions
	}
	return &Producer{
		client: client,
		stream: s,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type": msg.Type,
			"data": string(data),
		},
	}).Result()
	if err != nil {
		metrics.RedisStreamPublished.WithLabelValues(string(stream), "error").Inc()
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}
	metrics.RedisStreamPublished.WithLabelValues(string(stream), "success").Inc()

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishInteraction 发布 interaction.recorded 事件
func (p *Producer) PublishInteraction(ctx context.Context, interaction *entity.Interaction) error {
	payload := InteractionRecordedMessage{
		InteractionID: interaction.ID,
		InputText:     interaction.InputText,
		OutputText:    interaction.OutputText,
		Queries:       []string(interaction.Queries),
		Depth:         interaction.Depth,
		CreatedAt:     interaction.CreatedAt,
	}
	if interaction.RefinedQuery != nil {
		payload.RefinedQuery = *interaction.RefinedQuery
	}

	msg, err := NewMessage(interaction.ID, MessageTypeInteractionRecorded, payload)
	if err != nil {
		return err
	}
	_, err = p.Publish(ctx, p.stream, msg)
	return err
}
