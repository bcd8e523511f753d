package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on the session and LLM event tables.
type eventRepo struct {
	store *Store
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.store.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	plan := data.PlanSummary
	if plan == nil {
		plan = []PlanSlotSummary{}
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan summary: %w", err)
	}

	insert := r.store.builder().Insert(tableSessionEvents).
		Columns("sequence", "timestamp", "session_id", "learner_id", "action", "grade", "tier",
			"questions_served", "correct_answers", "duration_secs", "plan_summary").
		Values(seqNum, nowMillis(), data.SessionID, data.LearnerID, data.Action, data.Grade, data.Tier,
			data.QuestionsServed, data.CorrectAnswers, data.DurationSecs, string(planJSON))

	if _, err := r.store.exec(ctx, insert); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.store.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	insert := r.store.builder().Insert(tableLLMRequests).
		Columns("sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
			"output_tokens", "latency_ms", "success", "error_message").
		Values(seqNum, nowMillis(), data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, boolInt(data.Success), data.ErrorMessage)

	if _, err := r.store.exec(ctx, insert); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, learnerID string, opts QueryOpts) ([]SessionEvent, error) {
	b := r.store.builder()
	sel := b.Select("sequence", "timestamp", "session_id", "learner_id", "action", "grade", "tier",
		"questions_served", "correct_answers", "duration_secs", "plan_summary").
		From(b.Table(tableSessionEvents)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	events := []SessionEvent{}
	err := r.store.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			ev   SessionEvent
			ts   int64
			plan string
		)
		if err := rows.Scan(&ev.Sequence, &ts, &ev.SessionID, &ev.LearnerID, &ev.Action, &ev.Grade, &ev.Tier,
			&ev.QuestionsServed, &ev.CorrectAnswers, &ev.DurationSecs, &plan); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(plan), &ev.PlanSummary); err != nil {
			return fmt.Errorf("decode plan summary: %w", err)
		}
		ev.Timestamp = fromMillis(ts)
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := r.store.builder()
	sel := b.Select("sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
		"output_tokens", "latency_ms", "success", "error_message").
		From(b.Table(tableLLMRequests)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	events := []LLMRequestEvent{}
	err := r.store.query(ctx, sel, func(rows *entsql.Rows) error {
		var (
			ev      LLMRequestEvent
			ts      int64
			success int
		)
		if err := rows.Scan(&ev.Sequence, &ts, &ev.Provider, &ev.Model, &ev.Purpose, &ev.InputTokens,
			&ev.OutputTokens, &ev.LatencyMs, &success, &ev.ErrorMessage); err != nil {
			return err
		}
		ev.Timestamp = fromMillis(ts)
		ev.Success = success != 0
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return events, nil
}
