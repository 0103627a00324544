package cache

import (
	"context"
	"testing"
	"time"

	"nutrition-chat/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(ttl time.Duration, maxSize int) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Minute,
		},
	}
}

func TestManagerSetGet(t *testing.T) {
	m := NewManager(testConfig(time.Minute, 10))
	ctx := context.Background()

	_, ok := m.Get(ctx, "deepseek-chat", "2 bát cơm")
	assert.False(t, ok)

	m.Set(ctx, "deepseek-chat", "2 bát cơm", `{"success":true}`)

	got, ok := m.Get(ctx, "deepseek-chat", "2 bát cơm")
	require.True(t, ok)
	assert.Equal(t, `{"success":true}`, got)

	// Same text under a different model is a different key.
	_, ok = m.Get(ctx, "other-model", "2 bát cơm")
	assert.False(t, ok)
}

func TestManagerExpiry(t *testing.T) {
	m := NewManager(testConfig(10*time.Millisecond, 10))
	ctx := context.Background()

	m.Set(ctx, "deepseek-chat", "phở bò", "cached")
	time.Sleep(20 * time.Millisecond)

	_, ok := m.Get(ctx, "deepseek-chat", "phở bò")
	assert.False(t, ok)
}

func TestManagerEvictsWhenFull(t *testing.T) {
	m := NewManager(testConfig(time.Minute, 2))
	ctx := context.Background()

	m.Set(ctx, "m", "a", "1")
	m.Set(ctx, "m", "b", "2")
	m.Set(ctx, "m", "c", "3")

	count := 0
	for _, text := range []string{"a", "b", "c"} {
		if _, ok := m.Get(ctx, "m", text); ok {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestNilManagerSafe(t *testing.T) {
	var m *Manager
	ctx := context.Background()

	m.Set(ctx, "m", "a", "1")
	_, ok := m.Get(ctx, "m", "a")
	assert.False(t, ok)
}
