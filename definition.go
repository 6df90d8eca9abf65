package rigging

import (
	"fmt"
	"sync"

	"github.com/labrig/rigging/internal/normalize"
)

// Registry holds record definitions and variant groups.
// Definitions are immutable once registered and may be read concurrently.
type Registry struct {
	mu         sync.RWMutex
	defs       map[string]*Definition
	order      []string
	groups     map[string]*VariantGroup
	groupOrder []string

	contextualName func(field string) string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithContextualNaming sets the transform applied to a field's internal name when it
// labels a single nested record. Default: PascalCase ("pulse_controller" → "PulseController").
func WithContextualNaming(fn func(field string) string) RegistryOption {
	return func(r *Registry) {
		if fn != nil {
			r.contextualName = fn
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		defs:           make(map[string]*Definition),
		groups:         make(map[string]*VariantGroup),
		contextualName: normalize.ToPascal,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Definition is a registered record shape with its inheritance resolved into a flat,
// ordered field table.
type Definition struct {
	name        string
	description string
	parent      *Definition
	fields      []FieldInfo
	keys        map[string]int // internal and external name → field index
	registry    *Registry
}

// Name returns the definition's name.
func (d *Definition) Name() string { return d.name }

// Description returns the definition's documentation text.
func (d *Definition) Description() string { return d.description }

// Parent returns the definition this one extends, or nil.
func (d *Definition) Parent() *Definition { return d.parent }

// Registry returns the registry the definition belongs to.
func (d *Definition) Registry() *Registry { return d.registry }

// Fields returns the resolved fields in declaration order: inherited fields first
// (overrides keep the parent's position), then the definition's own new fields.
func (d *Definition) Fields() []FieldInfo {
	out := make([]FieldInfo, len(d.fields))
	copy(out, d.fields)
	return out
}

// Field looks up a resolved field by internal or external name.
func (d *Definition) Field(name string) (FieldInfo, bool) {
	i, ok := d.keys[name]
	if !ok {
		return FieldInfo{}, false
	}
	return d.fields[i], true
}

// IsA reports whether d is other or descends from it.
func (d *Definition) IsA(other *Definition) bool {
	for cur := d; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Instantiate constructs a record of this definition. See Registry.Instantiate.
func (d *Definition) Instantiate(values map[string]any) (*Record, error) {
	return d.registry.Instantiate(d, values)
}

// DefineOption configures a definition at registration.
type DefineOption func(*defineConfig)

type defineConfig struct {
	parent      *Definition
	description string
}

// Extends sets the parent definition. Only single inheritance is supported.
func Extends(parent *Definition) DefineOption {
	return func(cfg *defineConfig) {
		cfg.parent = parent
	}
}

// Describe attaches documentation text to the definition.
func Describe(text string) DefineOption {
	return func(cfg *defineConfig) {
		cfg.description = text
	}
}

// Define registers a record definition. Inheritance is resolved here, once; any
// incompatibility is returned as a *DefinitionError and nothing is registered.
func (r *Registry) Define(name string, fields []Field, opts ...DefineOption) (*Definition, error) {
	cfg := defineConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return nil, &DefinitionError{Code: ErrCodeInvalidField, Message: "definition name is empty"}
	}
	if _, exists := r.defs[name]; exists {
		return nil, &DefinitionError{Record: name, Code: ErrCodeDuplicateRecord, Message: "already registered"}
	}
	if _, exists := r.groups[name]; exists {
		return nil, &DefinitionError{Record: name, Code: ErrCodeDuplicateRecord, Message: "name used by a variant group"}
	}
	if cfg.parent != nil && cfg.parent.registry != r {
		return nil, &DefinitionError{
			Record:  name,
			Code:    ErrCodeUnknownParent,
			Message: fmt.Sprintf("parent %q belongs to another registry", cfg.parent.name),
		}
	}

	def := &Definition{
		name:        name,
		description: cfg.description,
		parent:      cfg.parent,
		registry:    r,
	}

	resolved, err := r.resolveFields(name, cfg.parent, fields)
	if err != nil {
		return nil, err
	}
	def.fields = resolved

	keys, err := indexFields(name, resolved)
	if err != nil {
		return nil, err
	}
	def.keys = keys

	if err := r.checkDefaults(def); err != nil {
		return nil, err
	}

	r.defs[name] = def
	r.order = append(r.order, name)
	return def, nil
}

// MustDefine is like Define but panics on error. Intended for catalog initialization.
func (r *Registry) MustDefine(name string, fields []Field, opts ...DefineOption) *Definition {
	def, err := r.Define(name, fields, opts...)
	if err != nil {
		panic(err)
	}
	return def
}

// Lookup returns a registered definition by name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Definitions returns all definitions in registration order.
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// resolveFields builds the flat field table: parent fields in order with overrides
// applied in place, then new fields.
func (r *Registry) resolveFields(record string, parent *Definition, fields []Field) ([]FieldInfo, error) {
	var resolved []FieldInfo
	position := make(map[string]int)
	if parent != nil {
		resolved = parent.Fields()
		for i, f := range resolved {
			position[f.Name] = i
		}
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, &DefinitionError{Record: record, Code: ErrCodeInvalidField, Message: "field name is empty"}
		}
		if seen[f.Name] {
			return nil, &DefinitionError{Record: record, Field: f.Name, Code: ErrCodeDuplicateField, Message: "declared twice"}
		}
		seen[f.Name] = true

		if i, inherited := position[f.Name]; inherited {
			merged, err := r.mergeOverride(record, resolved[i], f)
			if err != nil {
				return nil, err
			}
			resolved[i] = describeField(record, merged)
			continue
		}

		if f.Type.kind == RefInvalid {
			return nil, &DefinitionError{Record: record, Field: f.Name, Code: ErrCodeInvalidField, Message: "field has no type"}
		}
		if err := r.checkRef(record, f.Name, f.Type); err != nil {
			return nil, err
		}
		if f.Required && f.Optional {
			return nil, &DefinitionError{Record: record, Field: f.Name, Code: ErrCodeInvalidField, Message: "field is both required and optional"}
		}
		f.Required = false
		if f.Type.kind == RefLiteral {
			f.Optional, f.Default = true, f.Type.literal
		}
		position[f.Name] = len(resolved)
		resolved = append(resolved, describeField(record, f))
	}

	return resolved, nil
}

func describeField(owner string, f Field) FieldInfo {
	external := f.Alias
	if external == "" {
		external = normalize.ToCamel(f.Name)
	}
	return FieldInfo{
		Field:    f,
		External: external,
		Title:    normalize.ToPascal(f.Name),
		Owner:    owner,
	}
}

// indexFields maps every internal and external name to its field and rejects
// collisions after the naming transform.
func indexFields(record string, fields []FieldInfo) (map[string]int, error) {
	keys := make(map[string]int, len(fields)*2)
	for i, f := range fields {
		for _, key := range []string{f.Name, f.External} {
			if j, taken := keys[key]; taken && j != i {
				return nil, &DefinitionError{
					Record:  record,
					Field:   f.Name,
					Code:    ErrCodeNameCollision,
					Message: fmt.Sprintf("name %q also used by field %q", key, fields[j].Name),
				}
			}
			keys[key] = i
		}
	}
	return keys, nil
}

// checkRef verifies that every record and variant group a reference names is registered.
func (r *Registry) checkRef(record, field string, ref TypeRef) error {
	switch ref.kind {
	case RefRecord:
		if _, ok := r.defs[ref.name]; !ok {
			return &DefinitionError{Record: record, Field: field, Code: ErrCodeUnknownRecord, Message: fmt.Sprintf("record %q is not registered", ref.name)}
		}
	case RefVariant:
		if _, ok := r.groups[ref.name]; !ok {
			return &DefinitionError{Record: record, Field: field, Code: ErrCodeUnknownRecord, Message: fmt.Sprintf("variant group %q is not registered", ref.name)}
		}
	case RefMap, RefList:
		if ref.elem == nil || ref.elem.kind == RefInvalid {
			return &DefinitionError{Record: record, Field: field, Code: ErrCodeInvalidField, Message: "collection has no element type"}
		}
		if ref.kind == RefMap && ref.elem.kind != RefRecord && ref.elem.kind != RefVariant {
			return &DefinitionError{Record: record, Field: field, Code: ErrCodeInvalidField, Message: "map elements must be records or variants"}
		}
		return r.checkRef(record, field, *ref.elem)
	case RefScalar:
		if ref.scalar.Kind == KindInvalid {
			return &DefinitionError{Record: record, Field: field, Code: ErrCodeInvalidField, Message: "scalar has no kind"}
		}
	}
	return nil
}

// checkDefaults rejects defaults on required fields and defaults that fail their type.
func (r *Registry) checkDefaults(def *Definition) error {
	for _, f := range def.fields {
		if f.Default == nil {
			continue
		}
		if !f.Optional {
			return &DefinitionError{Record: def.name, Field: f.Name, Code: ErrCodeInvalidDefault, Message: "default given for a required field"}
		}
		b := binder{registry: r}
		if _, errs := b.bind(f.Name, f.Type, f.Default); len(errs) > 0 {
			return &DefinitionError{
				Record:  def.name,
				Field:   f.Name,
				Code:    ErrCodeInvalidDefault,
				Message: (&ValidationError{FieldErrors: errs}).Error(),
			}
		}
	}
	return nil
}
