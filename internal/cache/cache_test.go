package cache

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/problemgen"
)

func sampleQuestions(t *testing.T) []*problemgen.Question {
	t.Helper()
	return problemgen.SynthesizeBatch([]curriculum.Category{curriculum.CategoryAddition}, curriculum.Grade3, curriculum.TierNormal, 3, problemgen.NewRand(7))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "g3:addition:normal", Key(curriculum.Grade3, curriculum.CategoryAddition, curriculum.TierNormal))
	assert.Equal(t, "gpre-k:word-problems:expert", Key(curriculum.GradePreK, curriculum.CategoryWordProblems, curriculum.TierExpert))
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"v1.2.0", "v1.9.3", true},
		{"1.2.0", "v1.0.0", true},
		{"v1.2.0", "v2.0.0", false},
		{"dev", "dev", true},
		{"dev", "v1.0.0", false},
		{"", "", true},
	}
	for _, tc := range tests {
		if got := Compatible(tc.a, tc.b); got != tc.want {
			t.Errorf("Compatible(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestVersioned_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewVersioned(NewMemory(0, 0), "v1.0.0")
	qs := sampleQuestions(t)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "k", qs))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, qs, got)
}

func TestVersioned_MajorMismatchIsMiss(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(0, 0)
	require.NoError(t, NewVersioned(mem, "v1.4.0").Put(ctx, "k", sampleQuestions(t)))

	_, ok, err := NewVersioned(mem, "v2.0.0").Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = NewVersioned(mem, "v1.5.1").Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVersioned_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewVersioned(NewMemory(0, 0), "v1.0.0", WithTTL(time.Minute))
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(ctx, "k", sampleQuestions(t)))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entries older than the TTL are misses even if the backend still has them")
}

func TestMemory_TTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(50*time.Millisecond, 0)

	require.NoError(t, m.Store(ctx, "k", &Entry{}))
	e, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.NotNil(t, e)

	assert.Eventually(t, func() bool {
		e, _ := m.Load(ctx, "k")
		return e == nil
	}, time.Second, 10*time.Millisecond)
}

func TestMemory_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(0, 2)

	require.NoError(t, m.Store(ctx, "a", &Entry{StoredAt: base}))
	require.NoError(t, m.Store(ctx, "b", &Entry{StoredAt: base.Add(time.Second)}))
	require.NoError(t, m.Store(ctx, "c", &Entry{StoredAt: base.Add(2 * time.Second)}))

	assert.Equal(t, 2, m.Len())
	e, _ := m.Load(ctx, "a")
	assert.Nil(t, e)
	e, _ = m.Load(ctx, "c")
	assert.NotNil(t, e)
}

type failingBackend struct{}

func (failingBackend) Load(context.Context, string) (*Entry, error) {
	return nil, errors.New("backend down")
}

func (failingBackend) Store(context.Context, string, *Entry) error {
	return errors.New("backend down")
}

func TestTiered_ReadThrough(t *testing.T) {
	ctx := context.Background()
	front, back := NewMemory(0, 0), NewMemory(0, 0)
	tiered := NewTiered(front, back)

	require.NoError(t, back.Store(ctx, "k", &Entry{Version: "v1.0.0"}))
	e, err := tiered.Load(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 1, front.Len(), "hit should be copied to the front")

	require.NoError(t, tiered.Store(ctx, "j", &Entry{}))
	assert.Equal(t, 2, back.Len())
}

func TestTiered_BackError(t *testing.T) {
	tiered := NewTiered(NewMemory(0, 0), failingBackend{})
	_, err := tiered.Load(context.Background(), "k")
	assert.Error(t, err)
}

func TestNew_Backends(t *testing.T) {
	ctx := context.Background()

	c, closeFn, err := New(ctx, Config{Backend: BackendNone}, Deps{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)
	assert.NoError(t, closeFn())

	c, _, err = New(ctx, DefaultConfig(), Deps{Version: "v1.0.0"})
	require.NoError(t, err)
	assert.IsType(t, &Versioned{}, c)

	_, _, err = New(ctx, Config{Backend: BackendSQLite}, Deps{})
	assert.Error(t, err)

	_, _, err = New(ctx, Config{Backend: "memcached"}, Deps{})
	assert.Error(t, err)
}

func quietLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestNew_RedisUnreachableFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Backend: BackendRedis, TTL: time.Hour, Redis: RedisConfig{Addr: "127.0.0.1:1"}}

	c, closeFn, err := New(ctx, cfg, Deps{Version: "v1.0.0", Log: quietLog()})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NoError(t, closeFn())

	require.NoError(t, c.Put(ctx, "k", sampleQuestions(t)))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "fallback cache should still serve from memory")
}

func TestRedis_ServerErrorsAreMisses(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()
	r := NewRedis(client, "", time.Minute, quietLog())

	assert.NoError(t, r.Store(ctx, "k", &Entry{Version: "v1.0.0"}))
	e, err := r.Load(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, e)
}
