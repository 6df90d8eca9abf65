package rigging

import (
	"fmt"
	"sort"
)

// VariantGroup is a closed set of record definitions disambiguated by a shared
// literal tag field (the discriminant).
type VariantGroup struct {
	name         string
	description  string
	discriminant string // internal name of the tag field
	external     string // serialized name of the tag field
	order        []string
	variants     map[string]*Definition
	registry     *Registry
}

// Name returns the group's name.
func (g *VariantGroup) Name() string { return g.name }

// Description returns the group's documentation text.
func (g *VariantGroup) Description() string { return g.description }

// Discriminant returns the internal name of the tag field.
func (g *VariantGroup) Discriminant() string { return g.discriminant }

// DiscriminantExternal returns the serialized name of the tag field.
func (g *VariantGroup) DiscriminantExternal() string { return g.external }

// Tags returns the valid tag values, sorted.
func (g *VariantGroup) Tags() []string {
	tags := append([]string(nil), g.order...)
	sort.Strings(tags)
	return tags
}

// Variant returns the definition selected by tag. Matching is exact and case-sensitive.
func (g *VariantGroup) Variant(tag string) (*Definition, bool) {
	def, ok := g.variants[tag]
	return def, ok
}

// Variants returns the member definitions in registration order.
func (g *VariantGroup) Variants() []*Definition {
	out := make([]*Definition, 0, len(g.order))
	for _, tag := range g.order {
		out = append(out, g.variants[tag])
	}
	return out
}

func (g *VariantGroup) member(def *Definition) bool {
	for _, d := range g.variants {
		if d == def {
			return true
		}
	}
	return false
}

// tagOf returns the literal tag a member definition declares for the discriminant.
func tagOf(def *Definition, discriminant string) (string, bool) {
	f, ok := def.Field(discriminant)
	if !ok || f.Type.kind != RefLiteral {
		return "", false
	}
	tag, ok := f.Type.literal.(string)
	return tag, ok
}

// DefineVariants registers a variant group over members that each fix the discriminant
// field to a distinct literal string. Only Describe is honoured among the options.
func (r *Registry) DefineVariants(name, discriminant string, members []*Definition, opts ...DefineOption) (*VariantGroup, error) {
	cfg := defineConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.groups[name]; exists {
		return nil, &DefinitionError{Record: name, Code: ErrCodeDuplicateRecord, Message: "variant group already registered"}
	}
	if _, exists := r.defs[name]; exists {
		return nil, &DefinitionError{Record: name, Code: ErrCodeDuplicateRecord, Message: "name used by a record definition"}
	}
	if len(members) < 2 {
		return nil, &DefinitionError{Record: name, Code: ErrCodeInvalidVariant, Message: fmt.Sprintf("a variant group needs at least 2 members, got %d", len(members))}
	}

	g := &VariantGroup{
		name:         name,
		description:  cfg.description,
		discriminant: discriminant,
		variants:     make(map[string]*Definition, len(members)),
		registry:     r,
	}

	for _, def := range members {
		if def == nil || def.registry != r {
			return nil, &DefinitionError{Record: name, Code: ErrCodeInvalidVariant, Message: "member is not registered in this registry"}
		}
		tag, ok := tagOf(def, discriminant)
		if !ok {
			return nil, &DefinitionError{
				Record:  name,
				Field:   discriminant,
				Code:    ErrCodeInvalidVariant,
				Message: fmt.Sprintf("member %s does not fix %q to a literal string", def.name, discriminant),
			}
		}
		if prev, dup := g.variants[tag]; dup {
			return nil, &DefinitionError{
				Record:  name,
				Field:   discriminant,
				Code:    ErrCodeDuplicateTag,
				Message: fmt.Sprintf("tag %q used by both %s and %s", tag, prev.name, def.name),
			}
		}
		f, _ := def.Field(discriminant)
		if g.external == "" {
			g.external = f.External
		} else if g.external != f.External {
			return nil, &DefinitionError{
				Record:  name,
				Field:   discriminant,
				Code:    ErrCodeInvalidVariant,
				Message: fmt.Sprintf("member %s serializes the discriminant as %q, others as %q", def.name, f.External, g.external),
			}
		}
		g.variants[tag] = def
		g.order = append(g.order, tag)
	}

	r.groups[name] = g
	r.groupOrder = append(r.groupOrder, name)
	return g, nil
}

// MustDefineVariants is like DefineVariants but panics on error.
func (r *Registry) MustDefineVariants(name, discriminant string, members []*Definition, opts ...DefineOption) *VariantGroup {
	g, err := r.DefineVariants(name, discriminant, members, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Group returns a registered variant group by name.
func (r *Registry) Group(name string) (*VariantGroup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[name]
	return g, ok
}

// Groups returns all variant groups in registration order.
func (r *Registry) Groups() []*VariantGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*VariantGroup, 0, len(r.groupOrder))
	for _, name := range r.groupOrder {
		out = append(out, r.groups[name])
	}
	return out
}

// Resolve reads the discriminant from a serialized record, selects the matching
// variant and instantiates it. A missing discriminant fails with missing_discriminant;
// a tag matching no member fails with unresolved_variant. No default variant is chosen.
func (g *VariantGroup) Resolve(values map[string]any) (*Record, error) {
	g.registry.mu.RLock()
	defer g.registry.mu.RUnlock()

	b := binder{registry: g.registry}
	rec, errs := b.resolveVariant("", g, values)
	if len(errs) > 0 {
		return nil, &ValidationError{FieldErrors: errs}
	}
	return rec, nil
}
