package rigging

import (
	"encoding/json"
)

// ExportOption configures Export.
type ExportOption func(*exportConfig)

type exportConfig struct {
	id             string
	dropProperties bool
}

// WithSchemaID sets the document's $id.
func WithSchemaID(id string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.id = id
	}
}

// WithoutRootProperties omits the root's own properties so the document acts as a
// bundle of definitions.
func WithoutRootProperties() ExportOption {
	return func(cfg *exportConfig) {
		cfg.dropProperties = true
	}
}

// Export produces a JSON Schema document for def. Nested records are emitted once under
// definitions and referenced by $ref. Export reads definitions only.
func Export(def *Definition, opts ...ExportOption) *SchemaDocument {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	reg := def.registry
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	e := &exporter{
		registry: reg,
		defs:     NewProperties(),
		seen:     make(map[string]bool),
	}

	root := e.record(def)
	root.Schema = DraftURI
	root.ID = cfg.id
	if cfg.dropProperties {
		root.Properties = nil
		root.Required = nil
		root.Closed = false
	}
	root.Definitions = e.defs
	return &SchemaDocument{Root: root}
}

type exporter struct {
	registry *Registry
	defs     *Properties
	seen     map[string]bool
}

func (e *exporter) record(def *Definition) *Schema {
	s := &Schema{
		Title:       def.name,
		Description: def.description,
		Type:        "object",
		Properties:  NewProperties(),
		Closed:      true,
	}
	for _, f := range def.fields {
		s.Properties.Set(f.External, e.field(f))
		if !f.Optional {
			s.Required = append(s.Required, f.External)
		}
	}
	return s
}

// ref returns a $ref to a named record, emitting its definition on first use.
func (e *exporter) ref(name string) *Schema {
	if !e.seen[name] {
		e.seen[name] = true
		e.defs.Set(name, e.record(e.registry.defs[name]))
	}
	return &Schema{Ref: definitionsPrefix + name}
}

func (e *exporter) field(f FieldInfo) *Schema {
	s := e.shape(f.Type)

	if f.Optional && f.Default == nil && f.Type.kind != RefAny {
		s = &Schema{AnyOf: []*Schema{s, {Type: "null"}}}
	}

	s.Title = f.Title
	s.Description = f.Description
	s.Name = f.Name
	if f.Default != nil && f.Type.kind != RefLiteral {
		s.Default, s.HasDefault = exportValue(f.Default), true
	}
	if len(f.Examples) > 0 {
		s.Examples = make([]any, len(f.Examples))
		for i, ex := range f.Examples {
			s.Examples[i] = exportValue(ex)
		}
	}
	return s
}

// shape renders a type reference without field-level annotations.
func (e *exporter) shape(ref TypeRef) *Schema {
	switch ref.kind {
	case RefScalar:
		return scalarSchema(ref.scalar)

	case RefLiteral:
		v := exportValue(ref.literal)
		return &Schema{Type: jsonType(v), Const: v, HasConst: true, Default: v, HasDefault: true}

	case RefRecord:
		return e.ref(ref.name)

	case RefVariant:
		g := e.registry.groups[ref.name]
		s := &Schema{
			VariantGroup:  g.name,
			Discriminator: &Discriminator{PropertyName: g.external, Mapping: make(map[string]string, len(g.order))},
		}
		for _, tag := range g.order {
			member := g.variants[tag]
			s.OneOf = append(s.OneOf, e.ref(member.name))
			s.Discriminator.Mapping[tag] = definitionsPrefix + member.name
		}
		return s

	case RefMap:
		return &Schema{Type: "object", AdditionalProperties: e.shape(ref.Elem())}

	case RefList:
		return &Schema{Type: "array", Items: e.shape(ref.Elem())}

	case RefAny:
		return &Schema{SemanticType: "Any"}
	}
	return &Schema{}
}

func scalarSchema(t Type) *Schema {
	s := &Schema{SemanticType: t.Name}
	switch t.Kind {
	case KindInt, KindUint:
		s.Type = "integer"
	case KindFloat:
		s.Type = "number"
	case KindBool:
		s.Type = "boolean"
	case KindString:
		s.Type = "string"
	case KindEnum:
		s.Type = "string"
		for _, v := range t.Values {
			s.Enum = append(s.Enum, v)
		}
	}
	if t.Range.Min != nil {
		s.Minimum = json.Number(formatRat(t.Range.Min))
	}
	if t.Range.Max != nil {
		s.Maximum = json.Number(formatRat(t.Range.Max))
	}
	return s
}

// exportValue renders a default, literal or example as a plain JSON tree.
// Record-valued defaults are given as field/value maps and exported as written.
func exportValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Values()
	case *RecordMap:
		return plainValue(t)
	}
	return copyValue(v)
}

func jsonType(v any) string {
	switch t := v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, uint64:
		return "integer"
	case float64:
		if t == float64(int64(t)) {
			return "integer"
		}
		return "number"
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return "integer"
		}
		return "number"
	case nil:
		return "null"
	case []any:
		return "array"
	}
	return "object"
}
