package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMaxEntries bounds a Memory backend when no size is configured.
const DefaultMaxEntries = 256

// Memory is an in-process Backend with a TTL and a size bound. When full,
// the least recently used entry is evicted.
type Memory struct {
	lru *expirable.LRU[string, *Entry]
}

// NewMemory creates a Memory backend. A ttl of zero keeps entries until
// they are evicted.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{lru: expirable.NewLRU[string, *Entry](maxEntries, nil, ttl)}
}

func (m *Memory) Load(_ context.Context, key string) (*Entry, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return e, nil
}

func (m *Memory) Store(_ context.Context, key string, e *Entry) error {
	m.lru.Add(key, e)
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}
