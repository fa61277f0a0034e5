//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"research-ai-api/internal/application/research"
	"research-ai-api/internal/config"
	"research-ai-api/internal/domain/repository"
	"research-ai-api/internal/infrastructure/llm"
	"research-ai-api/internal/infrastructure/persistence/postgres"
	"research-ai-api/internal/infrastructure/persistence/redis"
	"research-ai-api/internal/interfaces/http/handler"
	"research-ai-api/internal/interfaces/http/middleware"
	"research-ai-api/internal/interfaces/http/router"
	"research-ai-api/internal/workflow/chain"
	workflowport "research-ai-api/internal/workflow/port"
)

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		ProvidePostgresClient,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		ResearchSet,
		RouterSet,
	)
	return nil, nil, nil
}

// RepoSet PostgreSQL 仓储集合
var RepoSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewInteractionRepository,
	wire.Bind(new(repository.InteractionRepository), new(*postgres.InteractionRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	ProvideInteractionPublisher,
)

// ResearchSet 问答流水线集合
var ResearchSet = wire.NewSet(
	ProvideRetriever,
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	ProvideSynthesisChain,
	wire.Bind(new(research.Synthesizer), new(*chain.SynthesisChain)),
	ProvideRefinementController,
	research.NewRecorder,
	ProvidePipeline,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewResearchHandler,
	wire.Bind(new(handler.Answerer), new(*research.Pipeline)),
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
