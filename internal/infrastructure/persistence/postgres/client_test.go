package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"

	"research-ai-api/internal/config"
)

func TestGormLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"silent": logger.Silent,
		"ERROR":  logger.Error,
		"info":   logger.Info,
		"debug":  logger.Info,
		"warn":   logger.Warn,
		"":       logger.Warn,
		"bogus":  logger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, gormLogLevel(in), in)
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(&config.PostgresConfig{
		Host:     "db",
		Port:     5432,
		User:     "citebot",
		Password: "secret",
		Database: "citebot",
		SSLMode:  "disable",
	})
	assert.Equal(t, "host=db port=5432 user=citebot password=secret dbname=citebot sslmode=disable", dsn)
}
