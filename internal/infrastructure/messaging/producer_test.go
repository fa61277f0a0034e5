package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-ai-api/internal/domain/entity"
)

func TestProducer_PublishInteraction(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	p := NewProducer(rdb, "", 1000)
	interaction := entity.NewInteraction("migraine", "answer", []string{"migraine", "better migraine query"})
	interaction.EnsureCreatedAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, p.PublishInteraction(context.Background(), interaction))

	entries, err := rdb.XRange(context.Background(), string(StreamInteractions), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, MessageTypeInteractionRecorded, entries[0].Values["type"])

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["data"].(string)), &msg))
	assert.Equal(t, interaction.ID, msg.ID)

	var payload InteractionRecordedMessage
	require.NoError(t, msg.UnmarshalPayload(&payload))
	assert.Equal(t, "migraine", payload.InputText)
	assert.Equal(t, "better migraine query", payload.RefinedQuery)
	assert.Equal(t, 1, payload.Depth)
	assert.Equal(t, []string{"migraine", "better migraine query"}, payload.Queries)
}

func TestProducer_CustomStream(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	p := NewProducer(rdb, "stream:custom", 0)
	require.NoError(t, p.PublishInteraction(context.Background(), entity.NewInteraction("q", "a", []string{"q"})))

	n, err := rdb.XLen(context.Background(), "stream:custom").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
