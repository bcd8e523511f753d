package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/mathgenius/ent/schema"
)

// Table names.
const (
	tableObservations  = "observations"
	tableQuestionSets  = "question_sets"
	tableSessionEvents = "session_events"
	tableLLMRequests   = "llm_request_events"
)

// schemas lists the ent schemas migrated on every Open.
var schemas = []ent.Interface{
	entschema.Observation{},
	entschema.QuestionSet{},
	entschema.SessionEvent{},
	entschema.LLMRequestEvent{},
}

// migrate brings the database up to the ent schemas. Tables and columns
// are only ever added.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables := make([]*schema.Table, 0, len(schemas))
	for _, s := range schemas {
		t, err := buildTable(s)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(false))
	if err != nil {
		return fmt.Errorf("init migration: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// buildTable converts an ent schema into a migration table. Mixin fields
// come first. A schema without an "id" field gets an autoincrement integer
// key. Indexes are named <table>_<field>_<field>... unless a storage key
// is set.
func buildTable(s ent.Interface) (*schema.Table, error) {
	name := tableName(s)
	if name == "" {
		return nil, fmt.Errorf("schema %T has no table annotation", s)
	}

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := schema.NewTable(name)
	columns := make(map[string]*schema.Column, len(fields))
	var id *schema.Column
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		c := column(d)
		columns[d.Name] = c
		if d.Name == "id" {
			id = c
		}
	}
	if id == nil {
		t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	}
	for _, f := range fields {
		c := columns[f.Descriptor().Name]
		if c == id {
			t.AddPrimary(c)
			continue
		}
		t.AddColumn(c)
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		key := d.StorageKey
		if key == "" {
			key = name + "_" + strings.Join(d.Fields, "_")
		}
		cols := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			c, ok := columns[f]
			if !ok {
				return nil, fmt.Errorf("%s: index %s references unknown field %q", name, key, f)
			}
			cols[i] = c.Name
		}
		t.AddIndex(key, d.Unique, cols)
	}
	return t, nil
}

func tableName(s ent.Interface) string {
	for _, a := range s.Annotations() {
		switch a := a.(type) {
		case entsql.Annotation:
			return a.Table
		case *entsql.Annotation:
			return a.Table
		}
	}
	return ""
}

func column(d *field.Descriptor) *schema.Column {
	name := d.Name
	if d.StorageKey != "" {
		name = d.StorageKey
	}
	c := &schema.Column{
		Name:     name,
		Type:     d.Info.Type,
		Size:     int64(d.Size),
		Nullable: d.Optional,
		Unique:   d.Unique,
	}
	if v, ok := constantDefault(d.Default); ok {
		c.Default = v
	}
	return c
}

// constantDefault keeps literal defaults. Function defaults are applied
// by the repositories, not the database.
func constantDefault(v any) (any, bool) {
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v, true
	}
	return nil, false
}
