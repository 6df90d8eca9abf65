package rigging

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/labrig/rigging/internal/normalize"
)

// ImportSchema rebuilds record definitions and variant groups from a document produced
// by Export and returns them in a fresh registry together with the root definition.
// Exporting the returned root again yields a structurally identical document.
// The root is nil when the document was exported without root properties.
func ImportSchema(doc *SchemaDocument, opts ...RegistryOption) (*Registry, *Definition, error) {
	if doc == nil || doc.Root == nil {
		return nil, nil, fmt.Errorf("import schema: empty document")
	}

	im := &importer{
		registry: NewRegistry(opts...),
		doc:      doc.Root,
		state:    make(map[string]int),
	}

	for _, name := range doc.Root.Definitions.Keys() {
		if _, err := im.defineRecord(name); err != nil {
			return nil, nil, err
		}
	}

	if doc.Root.Properties == nil {
		return im.registry, nil, nil
	}
	if def, ok := im.registry.Lookup(doc.Root.Title); ok {
		return im.registry, def, nil
	}
	root, err := im.defineFrom(doc.Root.Title, doc.Root)
	if err != nil {
		return nil, nil, err
	}
	return im.registry, root, nil
}

const (
	pending = iota
	visiting
	defined
)

type importer struct {
	registry *Registry
	doc      *Schema
	state    map[string]int
}

func (im *importer) defineRecord(name string) (*Definition, error) {
	switch im.state[name] {
	case defined:
		def, _ := im.registry.Lookup(name)
		return def, nil
	case visiting:
		return nil, fmt.Errorf("import schema: %s refers to itself", name)
	}

	s, ok := im.doc.Definitions.Get(name)
	if !ok {
		return nil, fmt.Errorf("import schema: %s%s not found", definitionsPrefix, name)
	}
	im.state[name] = visiting
	def, err := im.defineFrom(name, s)
	if err != nil {
		return nil, err
	}
	im.state[name] = defined
	return def, nil
}

func (im *importer) defineFrom(name string, s *Schema) (*Definition, error) {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}

	var fields []Field
	for _, external := range s.Properties.Keys() {
		prop, _ := s.Properties.Get(external)
		f, err := im.field(name, external, prop, required[external])
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	var opts []DefineOption
	if s.Description != "" {
		opts = append(opts, Describe(s.Description))
	}
	return im.registry.Define(name, fields, opts...)
}

func (im *importer) field(record, external string, prop *Schema, required bool) (Field, error) {
	f := Field{
		Name:        prop.Name,
		Description: prop.Description,
		Optional:    !required,
	}
	if f.Name == "" {
		f.Name = normalize.ToSnake(external)
	}
	if normalize.ToCamel(f.Name) != external {
		f.Alias = external
	}
	for _, ex := range prop.Examples {
		f.Examples = append(f.Examples, copyValue(ex))
	}

	shape := prop
	if len(prop.AnyOf) == 2 && prop.AnyOf[1].isNull() {
		shape = prop.AnyOf[0]
	}

	ref, err := im.shape(record, shape)
	if err != nil {
		return Field{}, fmt.Errorf("import schema: %s.%s: %w", record, f.Name, err)
	}
	f.Type = ref

	if prop.HasDefault && ref.kind != RefLiteral {
		f.Default = copyValue(prop.Default)
	}
	return f, nil
}

func (im *importer) shape(record string, s *Schema) (TypeRef, error) {
	switch {
	case s.HasConst:
		return Literal(copyValue(s.Const)), nil

	case s.Ref != "":
		name := strings.TrimPrefix(s.Ref, definitionsPrefix)
		if _, err := im.defineRecord(name); err != nil {
			return TypeRef{}, err
		}
		return RecordOf(name), nil

	case len(s.OneOf) > 0:
		if err := im.defineGroup(s); err != nil {
			return TypeRef{}, err
		}
		return VariantOf(s.VariantGroup), nil

	case s.Type == "object" && s.AdditionalProperties != nil:
		elem, err := im.shape(record, s.AdditionalProperties)
		if err != nil {
			return TypeRef{}, err
		}
		return MapOf(elem), nil

	case s.Type == "array" && s.Items != nil:
		elem, err := im.shape(record, s.Items)
		if err != nil {
			return TypeRef{}, err
		}
		return ListOf(elem), nil

	case s.SemanticType == "Any":
		return AnyValue(), nil
	}

	t, err := importScalar(s)
	if err != nil {
		return TypeRef{}, err
	}
	return Of(t), nil
}

func (im *importer) defineGroup(s *Schema) error {
	if s.VariantGroup == "" || s.Discriminator == nil {
		return fmt.Errorf("oneOf without x-variant-group and discriminator")
	}
	if _, ok := im.registry.Group(s.VariantGroup); ok {
		return nil
	}

	var members []*Definition
	for _, ref := range s.OneOf {
		def, err := im.defineRecord(strings.TrimPrefix(ref.Ref, definitionsPrefix))
		if err != nil {
			return err
		}
		members = append(members, def)
	}
	if len(members) == 0 {
		return fmt.Errorf("variant group %s has no members", s.VariantGroup)
	}

	f, ok := members[0].Field(s.Discriminator.PropertyName)
	if !ok {
		return fmt.Errorf("variant group %s: discriminant %q not declared by %s", s.VariantGroup, s.Discriminator.PropertyName, members[0].name)
	}
	_, err := im.registry.DefineVariants(s.VariantGroup, f.Name, members)
	return err
}

func importScalar(s *Schema) (Type, error) {
	t, known := builtinTypes[s.SemanticType]
	if !known {
		t = Type{Name: s.SemanticType}
		switch s.Type {
		case "integer":
			t.Kind = KindInt
		case "number":
			t.Kind = KindFloat
		case "boolean":
			t.Kind = KindBool
		case "string":
			t.Kind = KindString
		default:
			return Type{}, fmt.Errorf("unsupported schema type %q", s.Type)
		}
	}

	if len(s.Enum) > 0 {
		values := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			str, ok := v.(string)
			if !ok {
				return Type{}, fmt.Errorf("enum value %v is not a string", v)
			}
			values = append(values, str)
		}
		t = EnumType(t.Name, values...)
	}

	t.Range = Range{}
	for _, bound := range []struct {
		n   json.Number
		dst **big.Rat
	}{{s.Minimum, &t.Range.Min}, {s.Maximum, &t.Range.Max}} {
		if bound.n == "" {
			continue
		}
		r, ok := new(big.Rat).SetString(string(bound.n))
		if !ok {
			return Type{}, fmt.Errorf("invalid bound %q", bound.n)
		}
		*bound.dst = r
	}
	return t, nil
}
