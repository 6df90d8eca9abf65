package rigging

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Instantiate constructs a record of def from values keyed by external or internal
// field name. Every field is filled from values, else from its default when optional,
// else the call fails with missing_required_field; keys the definition does not declare
// fail with unknown_field. All failures of one call are returned together as a
// *ValidationError and no partial record is returned. On success, contextual names of
// the record's immediate nested records are assigned before it is returned.
func (r *Registry) Instantiate(def *Definition, values map[string]any) (*Record, error) {
	if def == nil {
		return nil, fmt.Errorf("rigging: instantiate: definition is nil")
	}
	if def.registry != r {
		return nil, fmt.Errorf("rigging: instantiate: definition %q belongs to another registry", def.name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, errs := binder{registry: r}.instantiate("", def, values)
	if len(errs) > 0 {
		return nil, &ValidationError{FieldErrors: errs}
	}
	return rec, nil
}

// binder converts plain field/value trees into records. It reads the registry tables
// without locking; callers hold the registry lock.
type binder struct {
	registry *Registry
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func (b binder) instantiate(path string, def *Definition, values map[string]any) (*Record, []FieldError) {
	var errs []FieldError

	// Route every supplied key to its field, rejecting unknown and doubled keys.
	supplied := make(map[string]any, len(values))
	suppliedAs := make(map[string]string, len(values))
	for _, key := range sortedKeys(values) {
		f, ok := def.Field(key)
		if !ok {
			errs = append(errs, FieldError{
				FieldPath: joinPath(path, key),
				Code:      ErrCodeUnknownField,
				Message:   fmt.Sprintf("%s declares no field %q", def.name, key),
				Value:     values[key],
			})
			continue
		}
		if prev, dup := suppliedAs[f.Name]; dup {
			errs = append(errs, FieldError{
				FieldPath: joinPath(path, f.Name),
				Code:      ErrCodeInvalidType,
				Message:   fmt.Sprintf("given as both %q and %q", prev, key),
				Value:     values[key],
			})
			continue
		}
		supplied[f.Name] = values[key]
		suppliedAs[f.Name] = key
	}

	bound := make(map[string]any, len(def.fields))
	for _, f := range def.fields {
		fieldPath := joinPath(path, f.Name)
		raw, present := supplied[f.Name]

		switch {
		case present && raw == nil && f.Optional:
			// Explicit null on an optional field leaves it unset.
			continue
		case present && raw != nil:
			v, ferrs := b.bind(fieldPath, f.Type, raw)
			if len(ferrs) > 0 {
				errs = append(errs, ferrs...)
				continue
			}
			bound[f.Name] = v
		case f.Optional:
			if f.Default == nil {
				continue
			}
			v, ferrs := b.bind(fieldPath, f.Type, f.Default)
			if len(ferrs) > 0 {
				errs = append(errs, ferrs...)
				continue
			}
			bound[f.Name] = v
		default:
			errs = append(errs, FieldError{
				FieldPath:  fieldPath,
				Code:       ErrCodeMissingRequired,
				Message:    fmt.Sprintf("required field %q of %s is missing", f.External, def.name),
				Constraint: f.Type.String(),
			})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	rec := &Record{def: def, values: bound}
	b.registry.propagateIdentity(rec)
	return rec, nil
}

// bind validates one raw value against ref and returns the stored form.
func (b binder) bind(path string, ref TypeRef, raw any) (any, []FieldError) {
	if t, ok := raw.(Text); ok {
		raw = ref.fromText(string(t))
	}

	switch ref.kind {
	case RefScalar:
		v, ferr := ref.scalar.Validate(path, raw)
		if ferr != nil {
			return nil, []FieldError{*ferr}
		}
		return v, nil

	case RefLiteral:
		if !literalEqual(raw, ref.literal) {
			return nil, []FieldError{{
				FieldPath:  path,
				Code:       ErrCodeInvalidType,
				Message:    fmt.Sprintf("value %v is fixed to %v", raw, ref.literal),
				Value:      raw,
				Constraint: fmt.Sprint(ref.literal),
			}}
		}
		return plainScalar(ref.literal), nil

	case RefRecord:
		def := b.registry.defs[ref.name]
		if rec, ok := raw.(*Record); ok {
			if rec == nil || !rec.def.IsA(def) {
				return nil, []FieldError{wrongRecord(path, raw, ref.name)}
			}
			return rec.Clone(), nil
		}
		obj, ok := asObject(raw)
		if !ok {
			return nil, []FieldError{typeErrorf(path, raw, "object of "+ref.name)}
		}
		rec, errs := b.instantiate(path, def, obj)
		if len(errs) > 0 {
			return nil, errs
		}
		return rec, nil

	case RefVariant:
		group := b.registry.groups[ref.name]
		if rec, ok := raw.(*Record); ok {
			if rec == nil || !group.admits(rec.def) {
				return nil, []FieldError{wrongRecord(path, raw, ref.name)}
			}
			return rec.Clone(), nil
		}
		obj, ok := asObject(raw)
		if !ok {
			return nil, []FieldError{typeErrorf(path, raw, "object of "+ref.name)}
		}
		rec, errs := b.resolveVariant(path, group, obj)
		if len(errs) > 0 {
			return nil, errs
		}
		return rec, nil

	case RefMap:
		return b.bindMap(path, ref.Elem(), raw)

	case RefList:
		return b.bindList(path, ref.Elem(), raw)

	case RefAny:
		return copyValue(untext(raw)), nil
	}

	return nil, []FieldError{{FieldPath: path, Code: ErrCodeInvalidType, Message: "field has no type", Value: raw}}
}

func (b binder) bindMap(path string, elem TypeRef, raw any) (any, []FieldError) {
	out := NewRecordMap()
	var errs []FieldError

	add := func(key string, v any) {
		bound, ferrs := b.bind(joinPath(path, key), elem, v)
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			return
		}
		out.Put(key, bound.(*Record))
	}

	switch m := raw.(type) {
	case *RecordMap:
		if m == nil {
			return out, nil
		}
		for _, key := range m.keys {
			add(key, m.items[key])
		}
	default:
		obj, ok := asObject(raw)
		if !ok {
			return nil, []FieldError{typeErrorf(path, raw, "map of "+elem.String())}
		}
		for _, key := range sortedKeys(obj) {
			add(key, obj[key])
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func (b binder) bindList(path string, elem TypeRef, raw any) (any, []FieldError) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, []FieldError{typeErrorf(path, raw, "list of "+elem.String())}
	}

	out := make([]any, 0, rv.Len())
	var errs []FieldError
	for i := 0; i < rv.Len(); i++ {
		bound, ferrs := b.bind(fmt.Sprintf("%s[%d]", path, i), elem, rv.Index(i).Interface())
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			continue
		}
		out = append(out, bound)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// resolveVariant dispatches a serialized record to the group member named by its tag.
func (b binder) resolveVariant(path string, g *VariantGroup, values map[string]any) (*Record, []FieldError) {
	tagPath := joinPath(path, g.discriminant)

	raw, ok := values[g.external]
	if !ok {
		raw, ok = values[g.discriminant]
	}
	if !ok || raw == nil {
		return nil, []FieldError{{
			FieldPath:  tagPath,
			Code:       ErrCodeMissingDiscriminant,
			Message:    fmt.Sprintf("%s requires discriminant %q", g.name, g.external),
			Constraint: g.external,
			Allowed:    g.Tags(),
		}}
	}

	tag, isString := textString(raw)
	def, found := g.variants[tag]
	if !isString || !found {
		return nil, []FieldError{{
			FieldPath:  tagPath,
			Code:       ErrCodeUnresolvedVariant,
			Message:    fmt.Sprintf("tag %q matches no variant of %s; valid tags: %q", fmt.Sprint(raw), g.name, g.Tags()),
			Value:      raw,
			Constraint: g.name,
			Allowed:    g.Tags(),
		}}
	}

	return b.instantiate(path, def, values)
}

// admits reports whether def is a member of the group or descends from one.
func (g *VariantGroup) admits(def *Definition) bool {
	for _, m := range g.variants {
		if def.IsA(m) {
			return true
		}
	}
	return false
}

func wrongRecord(path string, raw any, want string) FieldError {
	got := "nil"
	if rec, ok := raw.(*Record); ok && rec != nil {
		got = rec.def.name
	}
	return FieldError{
		FieldPath:  path,
		Code:       ErrCodeInvalidType,
		Message:    fmt.Sprintf("expected %s, got record %s", want, got),
		Constraint: want,
	}
}

func typeErrorf(path string, raw any, want string) FieldError {
	return *typeError(path, raw, want)
}

// asObject accepts the object shapes produced by the JSON, YAML and TOML decoders.
func asObject(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = v
		}
		return out, true
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// plainScalar widens Go numeric kinds to int64, uint64 or float64.
func plainScalar(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case float32:
		return float64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return v
}

// copyValue deep-copies a free-form JSON-compatible tree.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = copyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	}
	return plainScalar(v)
}
