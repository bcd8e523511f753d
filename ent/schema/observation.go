package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Observation is one answered question. The log is append-only and is the
// only input to calibration.
type Observation struct {
	ent.Schema
}

func (Observation) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "observations"}}
}

func (Observation) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Observation) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id").
			NotEmpty(),
		field.String("session_id").
			Default("").
			Comment("Empty for observations posted outside a session"),
		field.String("question_id").
			Default(""),
		field.String("category"),
		field.String("tier").
			Default(""),
		field.Bool("correct"),
		field.Int64("response_ms"),
		field.Int("hints_used").
			Default(0),
	}
}

func (Observation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id", "sequence"),
		index.Fields("learner_id", "category", "sequence"),
	}
}
