// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"research-ai-api/internal/application/research"
	"research-ai-api/internal/config"
	"research-ai-api/internal/infrastructure/messaging"
	"research-ai-api/internal/infrastructure/persistence/postgres"
	"research-ai-api/internal/infrastructure/persistence/redis"
	"research-ai-api/internal/infrastructure/search"
	"research-ai-api/internal/workflow/chain"
	workflowport "research-ai-api/internal/workflow/port"
	"research-ai-api/pkg/logger"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient *postgres.Client
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	return messaging.NewProducer(
		redisClient.Redis(),
		cfg.Features.InteractionEvents.Stream,
		int64(cfg.Messaging.RedisStream.MaxLen),
	)
}

// ProvideInteractionPublisher 功能开关关闭时不发布交互事件
func ProvideInteractionPublisher(ctx context.Context, cfg *config.Config, producer *messaging.Producer) research.InteractionPublisher {
	if !cfg.Features.InteractionEvents.Enabled || producer == nil {
		return nil
	}
	logger.Info(ctx, "interaction events enabled", "stream", cfg.Features.InteractionEvents.Stream)
	return producer
}

// ProvideRetriever 提供检索客户端
func ProvideRetriever(cfg *config.Config) research.Retriever {
	return search.NewExaClient(&cfg.Search)
}

// ProvideSynthesisChain 提供合成链
func ProvideSynthesisChain(factory workflowport.ChatModelFactory, cfg *config.Config) *chain.SynthesisChain {
	r := cfg.Research.Refinement
	return chain.NewSynthesisChain(factory, cfg.LLM.DefaultProvider, r.MarkerOpen, r.MarkerClose)
}

// ProvideRefinementController 提供精炼控制器
func ProvideRefinementController(cfg *config.Config) (*research.RefinementController, error) {
	r := cfg.Research.Refinement
	protocol, err := research.NewMarkerProtocol(r.MarkerOpen, r.MarkerClose)
	if err != nil {
		return nil, err
	}
	return research.NewRefinementController(protocol, r.MaxDepth, r.StripUnresolvedMarker), nil
}

// ProvidePipeline 提供问答流水线
func ProvidePipeline(
	retriever research.Retriever,
	synthesizer research.Synthesizer,
	controller *research.RefinementController,
	recorder *research.Recorder,
	cfg *config.Config,
) *research.Pipeline {
	return research.NewPipeline(retriever, synthesizer, controller, recorder, cfg.Research.RequestTimeout)
}
