package wire

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-ai-api/internal/config"
	"research-ai-api/internal/infrastructure/messaging"
)

func TestProvideInteractionPublisher_FeatureFlag(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	producer := messaging.NewProducer(rdb, "", 0)

	cfg := &config.Config{}
	assert.Nil(t, ProvideInteractionPublisher(context.Background(), cfg, producer))

	cfg.Features.InteractionEvents.Enabled = true
	assert.NotNil(t, ProvideInteractionPublisher(context.Background(), cfg, producer))
}

func TestProvideRefinementController(t *testing.T) {
	cfg := &config.Config{}
	cfg.Research.Refinement = config.RefinementConfig{MaxDepth: 1, MarkerOpen: "<<", MarkerClose: ">>"}

	c, err := ProvideRefinementController(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, c.MaxDepth())
	assert.Equal(t, "<<", c.Protocol().Open())

	cfg.Research.Refinement.MarkerOpen = ""
	_, err = ProvideRefinementController(cfg)
	assert.Error(t, err)
}
