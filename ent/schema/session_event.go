package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records session lifecycle events (start/end).
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "session_events"}}
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("learner_id"),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.String("grade").
			Default(""),
		field.String("tier").
			Default("").
			Comment("Starting tier on start, final tier on end"),
		field.Int("questions_served").
			Default(0).
			Comment("Total questions (on end only)"),
		field.Int("correct_answers").
			Default(0).
			Comment("Total correct (on end only)"),
		field.Int("duration_secs").
			Default(0).
			Comment("Actual duration in seconds (on end only)"),
		field.Text("plan_summary").
			Default("[]").
			Comment("JSON plan slots (on start only)"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("learner_id", "sequence"),
	}
}
