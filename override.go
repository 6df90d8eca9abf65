package rigging

import "fmt"

// mergeOverride applies a child's redeclaration of an inherited field.
// A child may leave the type unset (inherit it), narrow it, or fix it to a literal.
// Set Required to turn an inherited optional field into a required one.
func (r *Registry) mergeOverride(record string, parent FieldInfo, child Field) (Field, error) {
	out := parent.Field

	if child.Type.kind != RefInvalid {
		if err := r.checkRef(record, child.Name, child.Type); err != nil {
			return Field{}, err
		}
		if !r.assignable(parent.Type, child.Type) {
			return Field{}, &DefinitionError{
				Record:  record,
				Field:   child.Name,
				Code:    ErrCodeIncompatibleOverride,
				Message: fmt.Sprintf("cannot override %s (declared by %s) with %s", parent.Type, parent.Owner, child.Type),
			}
		}
		out.Type = child.Type
	}

	// Optionality and default are inherited unless the child restates them.
	switch {
	case child.Type.kind == RefLiteral:
		out.Optional, out.Default = true, child.Type.literal
	case child.Required:
		if child.Optional || child.Default != nil {
			return Field{}, &DefinitionError{
				Record:  record,
				Field:   child.Name,
				Code:    ErrCodeInvalidDefault,
				Message: "a required override cannot be optional or carry a default",
			}
		}
		out.Optional, out.Default = false, nil
	default:
		if child.Optional {
			out.Optional = true
		}
		if child.Default != nil {
			out.Default = child.Default
		}
	}
	out.Required = false

	if child.Alias != "" {
		out.Alias = child.Alias
	}
	if child.Description != "" {
		out.Description = child.Description
	}
	if child.Examples != nil {
		out.Examples = child.Examples
	}
	return out, nil
}

// assignable reports whether every value of child is also a value of parent
// (narrowing). Widening and kind changes are rejected.
func (r *Registry) assignable(parent, child TypeRef) bool {
	if parent.kind == RefAny {
		return true
	}

	if child.kind == RefLiteral {
		switch parent.kind {
		case RefLiteral:
			return literalEqual(parent.literal, child.literal)
		case RefScalar:
			_, ferr := parent.scalar.Validate("", child.literal)
			return ferr == nil
		}
		return false
	}

	switch parent.kind {
	case RefScalar:
		return child.kind == RefScalar && scalarAssignable(parent.scalar, child.scalar)

	case RefRecord:
		if child.kind != RefRecord {
			return false
		}
		pd, cd := r.defs[parent.name], r.defs[child.name]
		return pd != nil && cd != nil && cd.IsA(pd)

	case RefVariant:
		switch child.kind {
		case RefVariant:
			return child.name == parent.name
		case RefRecord:
			// Narrowing a union to one of its members.
			group := r.groups[parent.name]
			cd := r.defs[child.name]
			return group != nil && cd != nil && group.member(cd)
		}
		return false

	case RefMap, RefList:
		return child.kind == parent.kind && r.assignable(parent.Elem(), child.Elem())
	}

	return false
}

func scalarAssignable(parent, child Type) bool {
	switch {
	case parent.IsNumeric() && child.IsNumeric():
		if child.Kind == KindFloat && parent.Kind != KindFloat {
			return false
		}
		return child.Range.Within(parent.Range)

	case parent.Kind == KindEnum:
		if child.Kind != KindEnum {
			return false
		}
		allowed := make(map[string]bool, len(parent.Values))
		for _, v := range parent.Values {
			allowed[v] = true
		}
		for _, v := range child.Values {
			if !allowed[v] {
				return false
			}
		}
		return true

	case parent.Kind == KindString:
		return child.Kind == KindString || child.Kind == KindEnum
	}

	return parent.Kind == child.Kind
}
