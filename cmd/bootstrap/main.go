package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"research-ai-api/internal/config"
	"research-ai-api/internal/domain/entity"
	"research-ai-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting schema bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 建表
	if err := dataLayer.PgClient.Migrate(ctx, &entity.Interaction{}); err != nil {
		log.Fatalf("failed to migrate interactions table: %v", err)
	}
	fmt.Printf("Table %s is ready.\n", entity.Interaction{}.TableName())

	fmt.Println("Bootstrap completed successfully.")
}
