package rigging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/labrig/rigging/internal/logging"
)

// Source provides a rig document as a nested field/value tree (files, environment).
// Missing optional sources should return an empty map.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)

	// Name identifies the source in provenance and logs (e.g., "file:rig.yaml").
	Name() string
}

// Validator performs custom checks after a record has been instantiated.
// Use for cross-field or cross-device rules the definitions cannot express.
type Validator interface {
	// Validate checks the record. Return *ValidationError for field-level errors.
	Validate(ctx context.Context, rec *Record) error
}

// ValidatorFunc is a function adapter for Validator interface.
type ValidatorFunc func(ctx context.Context, rec *Record) error

func (f ValidatorFunc) Validate(ctx context.Context, rec *Record) error {
	return f(ctx, rec)
}

// Loader loads a record of one definition from multiple sources.
// Sources are processed in order; later sources override earlier ones key by key.
type Loader struct {
	def        *Definition
	sources    []Source
	validators []Validator
	logger     *slog.Logger
}

// NewLoader creates a Loader for def with no sources or validators.
func NewLoader(def *Definition) *Loader {
	return &Loader{
		def:        def,
		sources:    make([]Source, 0),
		validators: make([]Validator, 0),
		logger:     logging.Discard(),
	}
}

// WithSource adds a source. Sources are processed in order (later override earlier).
func (l *Loader) WithSource(src Source) *Loader {
	l.sources = append(l.sources, src)
	return l
}

// WithValidator adds a custom validator (executed after instantiation succeeds).
func (l *Loader) WithValidator(v Validator) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// WithLogger sets the logger used for load progress. Default: discard.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Load reads every source, deep-merges the trees, instantiates the definition and runs
// custom validators. Returns the record or a *ValidationError with all field errors.
// The record carries its provenance (see GetProvenance); nothing is retained by the
// package once the record is dropped.
func (l *Loader) Load(ctx context.Context) (*Record, error) {
	if l.def == nil {
		return nil, errors.New("rigging: loader has no definition")
	}

	merged := make(map[string]any)
	origins := make(map[string]string)
	var conflicts []FieldError

	for _, source := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := source.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", source.Name(), err)
		}

		tree, errs := l.def.registry.canonicalize(l.def, data)
		for _, fe := range errs {
			fe.Message = source.Name() + ": " + fe.Message
			conflicts = append(conflicts, fe)
		}
		mergeTree(merged, tree, "", source.Name(), origins)
		l.logger.Debug("source merged", "source", source.Name(), "keys", len(data))
	}
	if len(conflicts) > 0 {
		return nil, &ValidationError{FieldErrors: conflicts}
	}

	rec, err := l.def.Instantiate(merged)
	if err != nil {
		l.logger.Debug("instantiate failed", "record", l.def.name, "error", err)
		return nil, err
	}

	var allErrors []FieldError
	for i, validator := range l.validators {
		err := validator.Validate(ctx, rec)
		if err == nil {
			continue
		}
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			allErrors = append(allErrors, valErr.FieldErrors...)
			continue
		}
		return nil, fmt.Errorf("validator %d failed: %w", i, err)
	}
	if len(allErrors) > 0 {
		return nil, &ValidationError{FieldErrors: allErrors}
	}

	storeProvenance(rec, &Provenance{Fields: provenanceFields(origins)})
	l.logger.Info("rig loaded", "record", l.def.name, "sources", len(l.sources))
	return rec, nil
}

// mergeTree deep-merges src into dst. Objects merge key by key; any other value
// replaces what was there. origins tracks which source supplied each leaf path.
func mergeTree(dst, src map[string]any, prefix, sourceName string, origins map[string]string) {
	for _, key := range sortedKeys(src) {
		path := joinPath(prefix, key)
		value := src[key]

		srcObj, srcIsObj := asObject(value)
		dstObj, dstIsObj := asObject(dst[key])
		if srcIsObj && dstIsObj {
			mergeTree(dstObj, srcObj, path, sourceName, origins)
			dst[key] = dstObj
			continue
		}

		dropOrigins(origins, path)
		if srcIsObj {
			fresh := make(map[string]any, len(srcObj))
			mergeTree(fresh, srcObj, path, sourceName, origins)
			dst[key] = fresh
			continue
		}
		dst[key] = value
		origins[path] = sourceName
	}
}

func dropOrigins(origins map[string]string, path string) {
	delete(origins, path)
	for p := range origins {
		if strings.HasPrefix(p, path+".") {
			delete(origins, p)
		}
	}
}

// canonicalize rewrites the keys of a source tree to internal field names so that
// sources using external names, internal names or case-folded names merge together.
// Keys that match no field are kept as given and rejected at instantiation. A field
// supplied under two names by one source is reported instead of picking one.
func (r *Registry) canonicalize(def *Definition, tree map[string]any) (map[string]any, []FieldError) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := &canonicalizer{registry: r}
	return c.record("", def, tree), c.errs
}

type canonicalizer struct {
	registry *Registry
	errs     []FieldError
}

func (c *canonicalizer) record(path string, def *Definition, tree map[string]any) map[string]any {
	out := make(map[string]any, len(tree))
	givenAs := make(map[string]string, len(tree))
	for _, key := range sortedKeys(tree) {
		value := tree[key]
		f, ok := lookupFold(def, key)
		if !ok {
			out[key] = value
			continue
		}
		fieldPath := joinPath(path, f.Name)
		if prev, dup := givenAs[f.Name]; dup {
			c.errs = append(c.errs, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeInvalidType,
				Message:   fmt.Sprintf("given as both %q and %q", prev, key),
				Value:     value,
			})
			continue
		}
		givenAs[f.Name] = key
		out[f.Name] = c.value(fieldPath, f.Type, value)
	}
	return out
}

func (c *canonicalizer) value(path string, ref TypeRef, value any) any {
	obj, isObj := asObject(value)
	if !isObj {
		return value
	}

	switch ref.kind {
	case RefRecord:
		return c.record(path, c.registry.defs[ref.name], obj)
	case RefVariant:
		g := c.registry.groups[ref.name]
		for _, key := range sortedKeys(obj) {
			if !strings.EqualFold(key, g.external) && !strings.EqualFold(key, g.discriminant) {
				continue
			}
			if tag, ok := textString(obj[key]); ok {
				if member, found := g.variants[tag]; found {
					return c.record(path, member, obj)
				}
			}
		}
	case RefMap:
		out := make(map[string]any, len(obj))
		for key, v := range obj {
			out[key] = c.value(joinPath(path, key), ref.Elem(), v)
		}
		return out
	}
	return obj
}

// lookupFold finds a field by exact name, then by case-insensitive match.
func lookupFold(def *Definition, key string) (FieldInfo, bool) {
	if f, ok := def.Field(key); ok {
		return f, true
	}
	for _, f := range def.fields {
		if strings.EqualFold(f.Name, key) || strings.EqualFold(f.External, key) {
			return f, true
		}
	}
	return FieldInfo{}, false
}
