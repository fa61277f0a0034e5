package research

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"research-ai-api/internal/domain/entity"
	apperrors "research-ai-api/pkg/errors"
	"research-ai-api/pkg/logger"
	"research-ai-api/pkg/metrics"
	"research-ai-api/pkg/tracer"
)

var errRecorderNotConfigured = errors.New("interaction recorder not configured")

// Answer 一次请求的最终结果
type Answer struct {
	Text        string
	Interaction *entity.Interaction
	Depth       int
}

// Pipeline 串行执行 检索 -> 格式化 -> 合成 -> 精炼（至多回到检索一次）-> 记录
// 每次调用互相独立，不持有请求间可变状态
type Pipeline struct {
	retriever   Retriever
	synthesizer Synthesizer
	controller  *RefinementController
	recorder    *Recorder
	timeout     time.Duration
}

// NewPipeline 创建问答流水线；timeout <= 0 表示不额外设置整体时限
func NewPipeline(retriever Retriever, synthesizer Synthesizer, controller *RefinementController, recorder *Recorder, timeout time.Duration) *Pipeline {
	if controller == nil {
		controller = NewRefinementController(nil, DefaultMaxDepth, false)
	}
	return &Pipeline{
		retriever:   retriever,
		synthesizer: synthesizer,
		controller:  controller,
		recorder:    recorder,
		timeout:     timeout,
	}
}

// Run 处理一次用户提问，成功时返回最终回答，任一阶段失败则整体失败且不落库
func (p *Pipeline) Run(ctx context.Context, text string) (answer *Answer, err error) {
	if strings.TrimSpace(text) == "" {
		metrics.ResearchRequestsTotal.WithLabelValues("validation_error").Inc()
		return nil, NewValidationError("text is required")
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ctx, span := tracer.Start(ctx, "research.Pipeline.Run")
	start := time.Now()
	defer func() {
		metrics.ResearchDuration.Observe(time.Since(start).Seconds())
		metrics.ResearchRequestsTotal.WithLabelValues(statusLabel(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger.Info(ctx, "research request started", "query_len", len(text))

	state := p.controller.Start(text)
	queries := []string{text}
	var final string

	for {
		output, cycleErr := p.cycle(ctx, state)
		if cycleErr != nil {
			return nil, p.abort(ctx, cycleErr)
		}

		decision := p.controller.Next(state, output)
		if decision.Requery {
			metrics.ResearchRefinementsTotal.WithLabelValues("requeried").Inc()
			logger.Info(ctx, "re-query marker found, refining",
				"depth", decision.Next.Depth,
				"refined_query", decision.Next.Query,
			)
			state = decision.Next
			queries = append(queries, state.Query)
			continue
		}

		if decision.UnresolvedMarker {
			metrics.ResearchRefinementsTotal.WithLabelValues("exhausted").Inc()
			logger.Warn(ctx, "re-query marker present but depth exhausted",
				"depth", state.Depth,
				"max_depth", state.MaxDepth,
			)
		}
		state = decision.Next
		final = decision.Output
		break
	}

	span.SetAttributes(
		attribute.Int("research.depth", state.Depth),
		attribute.String("research.phase", string(state.Phase)),
	)

	interaction, recErr := p.recorder.Record(ctx, queries, final)
	if recErr != nil {
		return nil, p.abort(ctx, recErr)
	}

	logger.Info(ctx, "research request completed",
		"interaction_id", interaction.ID,
		"depth", state.Depth,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Answer{
		Text:        final,
		Interaction: interaction,
		Depth:       state.Depth,
	}, nil
}

// cycle 执行一轮 检索 -> 格式化 -> 合成
func (p *Pipeline) cycle(ctx context.Context, state CycleState) (string, error) {
	ctx, span := tracer.Start(ctx, "research.Pipeline.cycle")
	span.SetAttributes(
		attribute.Int("research.depth", state.Depth),
		attribute.String("research.phase", string(state.Phase)),
	)
	defer span.End()

	resp, err := p.retriever.Retrieve(ctx, state.Query)
	if err != nil {
		return "", NewRetrievalError(err)
	}

	formatted := FormatResults(resp)
	logger.Debug(ctx, "retrieval completed",
		"depth", state.Depth,
		"results", resp.Len(),
		"context_len", len(formatted),
	)

	output, err := p.synthesizer.Synthesize(ctx, state.Query, formatted)
	if err != nil {
		return "", NewSynthesisError(err)
	}
	return output, nil
}

// abort 整体时限到期时统一转换为超时错误
func (p *Pipeline) abort(ctx context.Context, err error) error {
	if deadlineExceeded(ctx) {
		err = NewTimeoutError(err)
	}
	logger.Error(ctx, "research request failed", err)
	return err
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrRetrieval):
		return "retrieval_error"
	case errors.Is(err, ErrSynthesis):
		return "synthesis_error"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	case apperrors.IsAppError(err):
		return "error"
	default:
		return "unknown_error"
	}
}
