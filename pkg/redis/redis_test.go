package redis

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/contractdesk/pkg/config"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestNew_Disabled(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestCache_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(Disabled(), "test")

	var got payload
	found, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "k", payload{Name: "x"}, TTLShort))
	assert.NoError(t, cache.Delete(ctx, "k"))
	assert.NoError(t, cache.Flush(ctx))
}

func TestSummaryKey(t *testing.T) {
	assert.Equal(t, "dashboard:summary:abc", SummaryKey("abc"))
}

func TestCache_RoundTrip(t *testing.T) {
	if os.Getenv("REDIS_HOST") == "" || testing.Short() {
		t.Skip("REDIS_HOST not set, skipping integration test")
	}
	ctx := context.Background()

	client, err := New(ctx, config.RedisConfig{
		Enabled: true,
		Host:    os.Getenv("REDIS_HOST"),
		Port:    "6379",
	})
	require.NoError(t, err)
	defer client.Close()

	cache := NewCache(client, "contractdesk-test")
	require.NoError(t, cache.Set(ctx, SummaryKey("rt"), payload{Name: "tim", Count: 2}, TTLShort))

	var got payload
	found, err := cache.Get(ctx, SummaryKey("rt"), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "tim", Count: 2}, got)

	require.NoError(t, cache.Flush(ctx))
	found, err = cache.Get(ctx, SummaryKey("rt"), &got)
	require.NoError(t, err)
	assert.False(t, found)
}
