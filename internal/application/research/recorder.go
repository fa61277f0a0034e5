package research

import (
	"context"
	"time"

	"research-ai-api/internal/domain/entity"
	"research-ai-api/internal/domain/repository"
	"research-ai-api/pkg/logger"
	"research-ai-api/pkg/metrics"
)

// Recorder 持久化每次完成的问答交互
type Recorder struct {
	repo      repository.InteractionRepository
	publisher InteractionPublisher
	now       func() time.Time
}

// NewRecorder 创建交互记录器；publisher 可为 nil
func NewRecorder(repo repository.InteractionRepository, publisher InteractionPublisher) *Recorder {
	return &Recorder{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// Record 追加一条交互记录；queries 按执行顺序给出，首个元素为原始查询
// 写入失败返回 PersistenceError；事件发布失败只记日志
func (r *Recorder) Record(ctx context.Context, queries []string, output string) (*entity.Interaction, error) {
	if r == nil || r.repo == nil {
		return nil, NewPersistenceError(errRecorderNotConfigured)
	}
	input := ""
	if len(queries) > 0 {
		input = queries[0]
	}

	interaction := entity.NewInteraction(input, output, queries)
	interaction.EnsureCreatedAt(r.now())

	if err := r.repo.Create(ctx, interaction); err != nil {
		metrics.InteractionsRecorded.WithLabelValues("error").Inc()
		return nil, NewPersistenceError(err)
	}
	metrics.InteractionsRecorded.WithLabelValues("success").Inc()

	if r.publisher != nil {
		if err := r.publisher.PublishInteraction(ctx, interaction); err != nil {
			logger.Warn(ctx, "failed to publish interaction event",
				"interaction_id", interaction.ID,
				"error", err.Error(),
			)
		}
	}
	return interaction, nil
}
