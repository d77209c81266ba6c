package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
)

type MemoryConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

type memoryEntry struct {
	dashboard *entity.Dashboard
	expiresAt time.Time
}

// Memory is an in-process dashboard cache with expiry and a size bound.
type Memory struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	Cache map[string]memoryEntry
	Mutex sync.RWMutex
}

func NewMemory(c MemoryConfig) *Memory {
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = 256
	}
	return &Memory{
		ttl:        c.TTL,
		maxEntries: c.MaxEntries,
		now:        time.Now,
		Cache:      make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, key string) (*entity.Dashboard, bool, error) {
	m.Mutex.RLock()
	defer m.Mutex.RUnlock()

	e, ok := m.Cache[key]
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.dashboard, true, nil
}

func (m *Memory) Set(_ context.Context, key string, d *entity.Dashboard) error {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	now := m.now()
	if _, ok := m.Cache[key]; !ok && len(m.Cache) >= m.maxEntries {
		m.evict(now)
	}
	m.Cache[key] = memoryEntry{dashboard: d, expiresAt: now.Add(m.ttl)}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.Mutex.RLock()
	defer m.Mutex.RUnlock()
	return len(m.Cache)
}

// evict drops expired entries, or the one closest to expiry when none are. Caller holds the lock.
func (m *Memory) evict(now time.Time) {
	oldestKey := ""
	var oldest time.Time
	removed := false
	for k, e := range m.Cache {
		if !now.Before(e.expiresAt) {
			delete(m.Cache, k)
			removed = true
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
		}
	}
	if !removed && oldestKey != "" {
		delete(m.Cache, oldestKey)
	}
}
