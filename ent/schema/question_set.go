package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// QuestionSet is a cached batch of synthesized questions for one
// grade/category/tier key.
type QuestionSet struct {
	ent.Schema
}

func (QuestionSet) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "question_sets"}}
}

func (QuestionSet) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("cache_key").
			Comment("grade/category/tier"),
		field.String("version").
			Comment("Generator version that produced the set"),
		field.Int64("stored_at").
			Comment("Unix milliseconds"),
		field.Text("questions").
			Comment("JSON array of questions"),
	}
}
