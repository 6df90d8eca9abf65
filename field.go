package rigging

import (
	"fmt"
	"reflect"
)

// RefKind identifies the shape of a field's value.
type RefKind int

const (
	RefInvalid RefKind = iota // unset; an override with this kind inherits the parent type
	RefScalar                 // semantic scalar type
	RefLiteral                // one fixed value
	RefRecord                 // nested record
	RefMap                    // string key → record or variant
	RefList                   // ordered list of elements
	RefVariant                // discriminated union member
	RefAny                    // free-form JSON-compatible payload
)

func (k RefKind) String() string {
	switch k {
	case RefScalar:
		return "scalar"
	case RefLiteral:
		return "literal"
	case RefRecord:
		return "record"
	case RefMap:
		return "map"
	case RefList:
		return "list"
	case RefVariant:
		return "variant"
	case RefAny:
		return "any"
	default:
		return "invalid"
	}
}

// TypeRef describes the value shape of a field.
// Records and variant groups are referenced by name and must be registered first.
type TypeRef struct {
	kind    RefKind
	scalar  Type
	name    string // record or variant group name
	elem    *TypeRef
	literal any
}

// Of returns a scalar reference to a semantic type.
func Of(t Type) TypeRef { return TypeRef{kind: RefScalar, scalar: t} }

// Literal fixes a field to a single value.
func Literal(v any) TypeRef { return TypeRef{kind: RefLiteral, literal: v} }

// RecordOf references a registered record definition.
func RecordOf(name string) TypeRef { return TypeRef{kind: RefRecord, name: name} }

// VariantOf references a registered variant group.
func VariantOf(group string) TypeRef { return TypeRef{kind: RefVariant, name: group} }

// MapOf returns a keyed collection of elem.
func MapOf(elem TypeRef) TypeRef { return TypeRef{kind: RefMap, elem: &elem} }

// ListOf returns an ordered list of elem.
func ListOf(elem TypeRef) TypeRef { return TypeRef{kind: RefList, elem: &elem} }

// AnyValue accepts any JSON-compatible value.
func AnyValue() TypeRef { return TypeRef{kind: RefAny} }

// Kind returns the reference's shape.
func (r TypeRef) Kind() RefKind { return r.kind }

// Type returns the semantic type of a scalar reference.
func (r TypeRef) Type() Type { return r.scalar }

// Name returns the record or variant group name.
func (r TypeRef) Name() string { return r.name }

// Elem returns the element reference of a map or list.
func (r TypeRef) Elem() TypeRef {
	if r.elem == nil {
		return TypeRef{}
	}
	return *r.elem
}

// Value returns the fixed value of a literal reference.
func (r TypeRef) Value() any { return r.literal }

func (r TypeRef) String() string {
	switch r.kind {
	case RefScalar:
		return r.scalar.String()
	case RefLiteral:
		return fmt.Sprintf("Literal[%#v]", r.literal)
	case RefRecord:
		return r.name
	case RefVariant:
		return "Variant[" + r.name + "]"
	case RefMap:
		return "Map[" + r.Elem().String() + "]"
	case RefList:
		return "List[" + r.Elem().String() + "]"
	case RefAny:
		return "Any"
	default:
		return "<inherited>"
	}
}

// Field declares one field of a record definition.
type Field struct {
	Name        string  // Internal snake_case name
	Alias       string  // External name override; defaults to the camelCase transform of Name
	Type        TypeRef // Value shape; left unset in an override to inherit the parent's
	Optional    bool    // Absent values fall back to Default
	Default     any     // Only valid on optional fields; records take a field/value map
	Required    bool    // In an override, drops the inherited default and makes the field required
	Description string
	Examples    []any
}

// FieldInfo is a resolved field after inheritance.
type FieldInfo struct {
	Field
	External string // Serialized name
	Title    string // PascalCase human-readable title
	Owner    string // Definition that last declared or overrode the field
}

// literalEqual compares two literal values, treating numbers by value.
func literalEqual(a, b any) bool {
	if ra, ok := ratOf(a); ok {
		rb, ok := ratOf(b)
		return ok && ra.Cmp(rb) == 0
	}
	return reflect.DeepEqual(a, b)
}
