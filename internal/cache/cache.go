package cache

import (
	"context"
	"sync"
	"time"
)

const DefaultTTL = 20 * time.Second

// PageCache 渲染结果缓存，写操作不会主动失效，只能等过期或 Clear
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

type entry struct {
	body       []byte
	renderedAt time.Time
	ttl        time.Duration
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.renderedAt.Add(e.ttl))
}

// MemoryCache 进程内缓存
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), now: time.Now}
}

// WithClock 测试时替换时钟
func (m *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	m.now = now
	return m
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(m.now()) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.renderedAt.Equal(e.renderedAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.body, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b := make([]byte, len(body))
	copy(b, body)
	m.mu.Lock()
	m.entries[key] = entry{body: b, renderedAt: m.now(), ttl: ttl}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	return nil
}

// Len 当前条目数，包括尚未清理的过期条目
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
