package schema

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"
)

// ModelRegistry is a Registry derived from gorm models.
type ModelRegistry struct {
	tables []Table
}

// FromModels parses gorm models with db's naming strategy and orders the
// resulting tables by their foreign key constraints. Many-to-many join
// tables are included after both sides of the relation.
func FromModels(db *gorm.DB, models ...interface{}) (*ModelRegistry, error) {
	graph := newDependencyGraph()
	parsed := make(map[string]*gormschema.Schema)
	var schemas []*gormschema.Schema

	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		if graph.add(stmt.Schema.Table) {
			parsed[stmt.Schema.Table] = stmt.Schema
			schemas = append(schemas, stmt.Schema)
		}
	}

	for _, s := range schemas {
		for _, rel := range sortedRelations(s) {
			if c := rel.ParseConstraint(); c != nil && c.Schema != nil && c.ReferenceSchema != nil {
				graph.require(c.Schema.Table, c.ReferenceSchema.Table)
			}
			if rel.JoinTable == nil {
				continue
			}
			join := rel.JoinTable
			if graph.add(join.Table) {
				parsed[join.Table] = join
			}
			graph.require(join.Table, rel.Schema.Table)
			graph.require(join.Table, rel.FieldSchema.Table)
		}
	}

	order, err := graph.sort()
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(order))
	for _, name := range order {
		tables = append(tables, tableFromSchema(parsed[name]))
	}
	return &ModelRegistry{tables: tables}, nil
}

// Tables returns the tables in dependency order.
func (r *ModelRegistry) Tables() []Table {
	out := make([]Table, len(r.tables))
	copy(out, r.tables)
	return out
}

func tableFromSchema(s *gormschema.Schema) Table {
	t := Table{Name: s.Table}
	for _, name := range s.DBNames {
		f := s.FieldsByDBName[name]
		if f == nil {
			continue
		}
		t.Columns = append(t.Columns, Column{Name: name, Type: fieldType(f)})
	}
	return t
}

func fieldType(f *gormschema.Field) ColumnType {
	t := ParseType(string(f.DataType))
	if t.Kind == KindUnknown && f.GORMDataType != "" {
		t = ParseType(string(f.GORMDataType))
	}
	return t
}

// sortedRelations returns relationships in a stable order; gorm keeps them in a map.
func sortedRelations(s *gormschema.Schema) []*gormschema.Relationship {
	names := make([]string, 0, len(s.Relationships.Relations))
	for name := range s.Relationships.Relations {
		names = append(names, name)
	}
	sort.Strings(names)
	rels := make([]*gormschema.Relationship, 0, len(names))
	for _, name := range names {
		rels = append(rels, s.Relationships.Relations[name])
	}
	return rels
}
