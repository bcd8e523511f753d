package api

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/abhisek/mathgenius/internal/session"
)

// sessionRegistry holds live sessions in memory. Idle sessions expire after
// ttl and the least recently used session is evicted beyond max.
type sessionRegistry struct {
	lru *expirable.LRU[string, *session.Session]
}

func newSessionRegistry(ttl time.Duration, max int) *sessionRegistry {
	return &sessionRegistry{lru: expirable.NewLRU[string, *session.Session](max, nil, ttl)}
}

func (r *sessionRegistry) add(s *session.Session) {
	r.lru.Add(s.ID(), s)
}

// get re-adds a hit so its idle timer restarts.
func (r *sessionRegistry) get(id string) (*session.Session, bool) {
	s, ok := r.lru.Get(id)
	if !ok {
		return nil, false
	}
	r.lru.Add(id, s)
	return s, true
}

func (r *sessionRegistry) remove(id string) {
	r.lru.Remove(id)
}

func (r *sessionRegistry) len() int {
	return r.lru.Len()
}
