package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathgenius/internal/cache"
)

// QuestionSetRepo stores cached question sets in SQLite. It implements
// cache.Backend; wrap it with cache.NewVersioned for a QuestionCache.
type QuestionSetRepo struct {
	store *Store
}

var _ cache.Backend = (*QuestionSetRepo)(nil)

func (r *QuestionSetRepo) Load(ctx context.Context, key string) (*cache.Entry, error) {
	b := r.store.builder()
	sel := b.Select("version", "stored_at", "questions").
		From(b.Table(tableQuestionSets)).
		Where(entsql.EQ("cache_key", key)).
		Limit(1)

	var entry *cache.Entry
	err := r.store.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			e        cache.Entry
			storedAt int64
			payload  string
		)
		if err := rows.Scan(&e.Version, &storedAt, &payload); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(payload), &e.Questions); err != nil {
			return fmt.Errorf("decode questions: %w", err)
		}
		e.StoredAt = fromMillis(storedAt)
		entry = &e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load question set %s: %w", key, err)
	}
	return entry, nil
}

func (r *QuestionSetRepo) Store(ctx context.Context, key string, e *cache.Entry) error {
	payload, err := json.Marshal(e.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	insert := r.store.builder().Insert(tableQuestionSets).
		Columns("cache_key", "version", "stored_at", "questions").
		Values(key, e.Version, e.StoredAt.UnixMilli(), string(payload)).
		OnConflict(
			entsql.ConflictColumns("cache_key"),
			entsql.ResolveWithNewValues(),
		)

	if _, err := r.store.exec(ctx, insert); err != nil {
		return fmt.Errorf("store question set %s: %w", key, err)
	}
	return nil
}

// Purge deletes every stored question set and returns how many were removed.
func (r *QuestionSetRepo) Purge(ctx context.Context) (int64, error) {
	n, err := r.store.exec(ctx, r.store.builder().Delete(tableQuestionSets))
	if err != nil {
		return 0, fmt.Errorf("purge question sets: %w", err)
	}
	return n, nil
}
