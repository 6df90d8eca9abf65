package rigging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// Record is a validated instance of a Definition. It owns its field values; nested
// records are never shared between containers.
//
// A Record is not safe for concurrent mutation.
type Record struct {
	def            *Definition
	values         map[string]any // internal name → stored value
	contextualName string
	provenance     atomic.Pointer[Provenance] // set by Loader.Load; not cloned
}

// Definition returns the record's definition.
func (rec *Record) Definition() *Definition { return rec.def }

// ContextualName returns the name assigned by the containing record: the field name
// (PascalCase by default) for a single nested record, or the map key for a map entry.
// It is empty for a root record.
func (rec *Record) ContextualName() string { return rec.contextualName }

// Get returns the stored value of a field by internal or external name.
// Nested records are *Record, maps are *RecordMap, lists are []any.
func (rec *Record) Get(name string) (any, bool) {
	f, ok := rec.def.Field(name)
	if !ok {
		return nil, false
	}
	v, ok := rec.values[f.Name]
	return v, ok
}

// Has reports whether a field holds a value.
func (rec *Record) Has(name string) bool {
	_, ok := rec.Get(name)
	return ok
}

// String returns a string or enum field, or "" when unset.
func (rec *Record) String(name string) string {
	v, _ := rec.Get(name)
	s, _ := v.(string)
	return s
}

// Int returns an integer field as int64, or 0 when unset or out of int64 range.
func (rec *Record) Int(name string) int64 {
	v, _ := rec.Get(name)
	r, ok := ratOf(v)
	if !ok || !r.IsInt() || !r.Num().IsInt64() {
		return 0
	}
	return r.Num().Int64()
}

// Uint returns an integer field as uint64, or 0 when unset or negative.
func (rec *Record) Uint(name string) uint64 {
	v, _ := rec.Get(name)
	r, ok := ratOf(v)
	if !ok || !r.IsInt() || !r.Num().IsUint64() {
		return 0
	}
	return r.Num().Uint64()
}

// Float returns a numeric field as float64, or 0 when unset.
func (rec *Record) Float(name string) float64 {
	v, _ := rec.Get(name)
	r, ok := ratOf(v)
	if !ok {
		return 0
	}
	f, _ := r.Float64()
	return f
}

// Bool returns a boolean field, or false when unset.
func (rec *Record) Bool(name string) bool {
	v, _ := rec.Get(name)
	b, _ := v.(bool)
	return b
}

// Record returns a nested record field, or nil when unset.
func (rec *Record) Record(name string) *Record {
	v, _ := rec.Get(name)
	nested, _ := v.(*Record)
	return nested
}

// Map returns a map field, or nil when unset.
// Call Revalidate after changing the returned map in place.
func (rec *Record) Map(name string) *RecordMap {
	v, _ := rec.Get(name)
	m, _ := v.(*RecordMap)
	return m
}

// List returns a list field, or nil when unset.
func (rec *Record) List(name string) []any {
	v, _ := rec.Get(name)
	l, _ := v.([]any)
	return l
}

// Set assigns one field and revalidates the whole record. A nil value unsets an
// optional field. On failure the record is left unchanged.
func (rec *Record) Set(name string, value any) error {
	f, ok := rec.def.Field(name)
	if !ok {
		return &ValidationError{FieldErrors: []FieldError{{
			FieldPath: name,
			Code:      ErrCodeUnknownField,
			Message:   fmt.Sprintf("%s declares no field %q", rec.def.name, name),
			Value:     value,
		}}}
	}

	raw := rec.rawValues()
	raw[f.Name] = value
	return rec.rebuild(raw)
}

// Revalidate re-checks every field and recomputes the contextual names of nested records.
func (rec *Record) Revalidate() error {
	return rec.rebuild(rec.rawValues())
}

func (rec *Record) rawValues() map[string]any {
	raw := make(map[string]any, len(rec.values))
	for k, v := range rec.values {
		raw[k] = v
	}
	return raw
}

func (rec *Record) rebuild(raw map[string]any) error {
	reg := rec.def.registry
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	next, errs := binder{registry: reg}.instantiate("", rec.def, raw)
	if len(errs) > 0 {
		return &ValidationError{FieldErrors: errs}
	}
	rec.values = next.values
	return nil
}

// Clone returns a deep copy of the record, including its contextual name.
func (rec *Record) Clone() *Record {
	if rec == nil {
		return nil
	}
	out := &Record{
		def:            rec.def,
		values:         make(map[string]any, len(rec.values)),
		contextualName: rec.contextualName,
	}
	for k, v := range rec.values {
		out.values[k] = cloneStored(v)
	}
	return out
}

func cloneStored(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Clone()
	case *RecordMap:
		return t.clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneStored(e)
		}
		return out
	}
	return copyValue(v)
}

// Equal reports whether two records share a definition and hold equal field values.
// Contextual names are not compared.
func (rec *Record) Equal(other *Record) bool {
	if rec == nil || other == nil {
		return rec == other
	}
	if rec.def != other.def || len(rec.values) != len(other.values) {
		return false
	}
	for k, v := range rec.values {
		ov, ok := other.values[k]
		if !ok || !storedEqual(v, ov) {
			return false
		}
	}
	return true
}

func storedEqual(a, b any) bool {
	switch ta := a.(type) {
	case *Record:
		tb, ok := b.(*Record)
		return ok && ta.Equal(tb)
	case *RecordMap:
		tb, ok := b.(*RecordMap)
		return ok && ta.Equal(tb)
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !storedEqual(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		tb, ok := b.(map[string]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for k, v := range ta {
			ov, ok := tb[k]
			if !ok || !storedEqual(v, ov) {
				return false
			}
		}
		return true
	}
	return literalEqual(a, b)
}

// Values returns the record as a plain tree keyed by external field names.
// Unset optional fields are omitted.
func (rec *Record) Values() map[string]any {
	out := make(map[string]any, len(rec.values))
	for _, f := range rec.def.fields {
		v, ok := rec.values[f.Name]
		if !ok {
			continue
		}
		out[f.External] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Values()
	case *RecordMap:
		out := make(map[string]any, t.Len())
		for _, key := range t.keys {
			out[key] = t.items[key].Values()
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	}
	return copyValue(v)
}

// MarshalJSON encodes the record with external field names in declaration order.
func (rec *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range rec.def.fields {
		v, ok := rec.values[f.Name]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(f.External)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s.%s: %w", rec.def.name, f.Name, err)
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecordMap is an ordered string-keyed collection of records.
// Maps built from decoded documents iterate in sorted key order; maps built with Put
// keep insertion order.
type RecordMap struct {
	keys  []string
	items map[string]*Record
}

// NewRecordMap returns an empty map.
func NewRecordMap() *RecordMap {
	return &RecordMap{items: make(map[string]*Record)}
}

// Put stores rec under key. Replacing an existing key keeps its position.
func (m *RecordMap) Put(key string, rec *Record) {
	if _, exists := m.items[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.items[key] = rec
}

// Get returns the record stored under key.
func (m *RecordMap) Get(key string) (*Record, bool) {
	if m == nil {
		return nil, false
	}
	rec, ok := m.items[key]
	return rec, ok
}

// Delete removes key from the map.
func (m *RecordMap) Delete(key string) {
	if _, exists := m.items[key]; !exists {
		return
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in iteration order.
func (m *RecordMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *RecordMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each calls fn for every entry in order until fn returns false.
func (m *RecordMap) Each(fn func(key string, rec *Record) bool) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.items[key]) {
			return
		}
	}
}

// Equal compares two maps entry by entry, in order.
func (m *RecordMap) Equal(other *RecordMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	for i, key := range m.keys {
		if other.keys[i] != key || !m.items[key].Equal(other.items[key]) {
			return false
		}
	}
	return true
}

func (m *RecordMap) clone() *RecordMap {
	out := NewRecordMap()
	m.Each(func(key string, rec *Record) bool {
		out.Put(key, rec.Clone())
		return true
	})
	return out
}

// MarshalJSON encodes the map as a JSON object in iteration order.
func (m *RecordMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
