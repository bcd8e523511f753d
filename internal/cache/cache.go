// Package cache stores generated question sets so repeated requests for the
// same grade, category and tier skip synthesis.
package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/problemgen"
)

// QuestionCache stores question sets by key. A miss is (nil, false, nil).
type QuestionCache interface {
	Get(ctx context.Context, key string) ([]*problemgen.Question, bool, error)
	Put(ctx context.Context, key string, qs []*problemgen.Question) error
}

// Entry is a stored question set together with the version of the
// generator that produced it.
type Entry struct {
	Version   string                 `json:"version"`
	StoredAt  time.Time              `json:"stored_at"`
	Questions []*problemgen.Question `json:"questions"`
}

// Backend persists raw entries. Load returns (nil, nil) on a miss.
type Backend interface {
	Load(ctx context.Context, key string) (*Entry, error)
	Store(ctx context.Context, key string, e *Entry) error
}

// Key builds the composite cache key, e.g. "g3:addition:normal".
func Key(grade curriculum.Grade, cat curriculum.Category, tier curriculum.Tier) string {
	return fmt.Sprintf("g%s:%s:%s", grade, cat, tier)
}

// Compatible reports whether an entry written by version a can be served
// to a reader at version b. Semver versions match on major; anything else
// must match exactly.
func Compatible(a, b string) bool {
	ca, cb := canonical(a), canonical(b)
	if !semver.IsValid(ca) || !semver.IsValid(cb) {
		return a == b
	}
	return semver.Major(ca) == semver.Major(cb)
}

func canonical(v string) string {
	if v != "" && v[0] != 'v' {
		v = "v" + v
	}
	return v
}

// Versioned adapts a Backend to QuestionCache, stamping entries with the
// running version and treating entries from another major version, or
// older than the TTL, as misses.
type Versioned struct {
	backend Backend
	version string
	ttl     time.Duration
	now     func() time.Time
}

// VersionedOption customises a Versioned cache.
type VersionedOption func(*Versioned)

// WithTTL expires entries whose StoredAt is older than ttl, whatever the
// backend keeps. Zero disables expiry.
func WithTTL(ttl time.Duration) VersionedOption {
	return func(v *Versioned) {
		v.ttl = ttl
	}
}

// NewVersioned wraps backend for a generator at version.
func NewVersioned(backend Backend, version string, opts ...VersionedOption) *Versioned {
	v := &Versioned{backend: backend, version: version, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Versioned) Get(ctx context.Context, key string) ([]*problemgen.Question, bool, error) {
	e, err := v.backend.Load(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if e == nil || !Compatible(e.Version, v.version) || v.expired(e) {
		return nil, false, nil
	}
	return e.Questions, true, nil
}

func (v *Versioned) expired(e *Entry) bool {
	return v.ttl > 0 && v.now().Sub(e.StoredAt) > v.ttl
}

func (v *Versioned) Put(ctx context.Context, key string, qs []*problemgen.Question) error {
	return v.backend.Store(ctx, key, &Entry{
		Version:   v.version,
		StoredAt:  v.now().UTC(),
		Questions: qs,
	})
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]*problemgen.Question, bool, error) { return nil, false, nil }
func (Nop) Put(context.Context, string, []*problemgen.Question) error        { return nil }
