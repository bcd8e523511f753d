package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
)

// observationRepo implements ObservationRepo on the observations table.
type observationRepo struct {
	store *Store
}

func (r *observationRepo) Record(ctx context.Context, learnerID string, rec ObservationRecord) error {
	seqNum, err := r.store.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	insert := r.store.builder().Insert(tableObservations).
		Columns("sequence", "timestamp", "learner_id", "session_id", "question_id",
			"category", "tier", "correct", "response_ms", "hints_used").
		Values(seqNum, ts.UnixMilli(), learnerID, rec.SessionID, rec.QuestionID,
			string(rec.Category), rec.Tier.String(), boolInt(rec.Correct), rec.ResponseMs, rec.HintsUsed)

	if _, err := r.store.exec(ctx, insert); err != nil {
		return fmt.Errorf("save observation: %w", err)
	}
	return nil
}

func (r *observationRepo) RecentWindow(ctx context.Context, learnerID string, cat *curriculum.Category, limit int) ([]calibration.Observation, error) {
	b := r.store.builder()
	sel := b.Select("category", "correct", "response_ms", "hints_used", "timestamp").
		From(b.Table(tableObservations)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("sequence"))
	if cat != nil {
		sel.Where(entsql.EQ("category", string(*cat)))
	}
	if limit > 0 {
		sel.Limit(limit)
	}

	var out []calibration.Observation
	err := r.store.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			o        calibration.Observation
			category string
			correct  int
			ts       int64
		)
		if err := rows.Scan(&category, &correct, &o.ResponseMs, &o.HintsUsed, &ts); err != nil {
			return err
		}
		o.Category = curriculum.Category(category)
		o.Correct = correct != 0
		o.Timestamp = fromMillis(ts)
		out = append(out, o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}

	// Newest first from the query; callers want oldest first.
	slices.Reverse(out)
	if out == nil {
		out = []calibration.Observation{}
	}
	return out, nil
}

func (r *observationRepo) CategoryAccuracy(ctx context.Context, learnerID string) ([]calibration.CategoryStat, error) {
	b := r.store.builder()
	sel := b.Select("category", entsql.Count("*"), entsql.Sum("correct"), entsql.Avg("response_ms")).
		From(b.Table(tableObservations)).
		Where(entsql.EQ("learner_id", learnerID)).
		GroupBy("category")

	stats := []calibration.CategoryStat{}
	err := r.store.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			s        calibration.CategoryStat
			category string
		)
		if err := rows.Scan(&category, &s.Attempts, &s.Correct, &s.MeanResponseMs); err != nil {
			return err
		}
		s.Category = curriculum.Category(category)
		if s.Attempts > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Attempts)
		}
		stats = append(stats, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("category accuracy: %w", err)
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i].Category, stats[j].Category
		if a.Index() != b.Index() {
			return a.Index() < b.Index()
		}
		return a < b
	})
	return stats, nil
}

func (r *observationRepo) Learners(ctx context.Context) ([]string, error) {
	b := r.store.builder()
	sel := b.Select("learner_id").
		Distinct().
		From(b.Table(tableObservations)).
		OrderBy("learner_id")

	learners := []string{}
	err := r.store.query(ctx, sel, func(rows *entsql.Rows) error {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		learners = append(learners, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	return learners, nil
}

func (r *observationRepo) Reset(ctx context.Context, learnerID string) (int64, error) {
	del := r.store.builder().Delete(tableObservations).
		Where(entsql.EQ("learner_id", learnerID))
	n, err := r.store.exec(ctx, del)
	if err != nil {
		return 0, fmt.Errorf("reset observations: %w", err)
	}
	return n, nil
}
