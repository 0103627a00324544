package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"nutrition-chat/internal/infrastructure/config"
	"nutrition-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Store suppresses duplicate LLM calls for repeated identical input
// within a short window. Keys combine model and exact input text.
type Store interface {
	Get(ctx context.Context, model, text string) (string, bool)
	Set(ctx context.Context, model, text, value string)
}

// Manager is the in-memory TTL cache.
type Manager struct {
	config *config.Config
	mu     sync.Mutex
	store  map[string]entry
	stats  stats
}

type entry struct {
	value      string
	expiresAt  time.Time
	createdAt  time.Time
	lastAccess time.Time
}

type stats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager builds the cache, or returns nil when caching is disabled.
// A nil *Manager is safe to call; every lookup misses.
func NewManager(cfg *config.Config) *Manager {
	if !cfg.Cache.Enabled {
		common.LogInfo("LLM response cache disabled")
		return nil
	}

	m := &Manager{
		config: cfg,
		store:  make(map[string]entry),
	}

	go m.startCleanup()

	common.LogInfo("LLM response cache initialized",
		zap.Int("max_size", cfg.Cache.MaxSize),
		zap.Duration("ttl", cfg.Cache.TTL),
		zap.Duration("cleanup_interval", cfg.Cache.CleanupInterval),
	)
	return m
}

// Get returns the cached value for (model, text) if fresh.
func (m *Manager) Get(ctx context.Context, model, text string) (string, bool) {
	if m == nil {
		return "", false
	}
	key := cacheKey(model, text)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.store[key]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", false
	}

	e.lastAccess = time.Now()
	m.store[key] = e
	m.stats.hits++
	common.LogCacheHit("memory", key)
	return e.value, true
}

// Set stores value for (model, text) with the configured TTL.
func (m *Manager) Set(ctx context.Context, model, text, value string) {
	if m == nil {
		return
	}
	key := cacheKey(model, text)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.config.Cache.MaxSize {
		if m.removeExpired() == 0 {
			m.evictOldest()
		}
	}

	now := time.Now()
	m.store[key] = entry{
		value:      value,
		expiresAt:  now.Add(m.config.Cache.TTL),
		createdAt:  now,
		lastAccess: now,
	}
}

// removeExpired drops every expired entry. Caller holds the lock.
func (m *Manager) removeExpired() int {
	now := time.Now()
	count := 0
	for key, e := range m.store {
		if now.After(e.expiresAt) {
			delete(m.store, key)
			m.stats.evictions++
			count++
		}
	}
	return count
}

// evictOldest drops the least recently used entry. Caller holds the lock.
func (m *Manager) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, e := range m.store {
		if oldestKey == "" || e.lastAccess.Before(oldest) {
			oldestKey = key
			oldest = e.lastAccess
		}
	}
	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
	}
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		m.mu.Lock()
		m.removeExpired()
		m.mu.Unlock()
	}
}

// Stats returns hit/miss/eviction counters.
func (m *Manager) Stats() (hits, misses, evictions int64) {
	if m == nil {
		return 0, 0, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats.hits, m.stats.misses, m.stats.evictions
}

func cacheKey(model, text string) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("llm:%s:%s", model, hex.EncodeToString(hash[:]))
}
