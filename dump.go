package rigging

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for DumpEffective.
type dumpConfig struct {
	withSources bool   // Include source attribution for each field
	asJSON      bool   // Output as JSON instead of text format
	indent      string // Indentation for JSON output (default: "  ")
}

// WithSources includes source attribution for each field in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs the record as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// DumpEffective writes a human-readable representation of a record.
// Text output lists one leaf per line under headers naming each nested record by its
// contextual name. Returns an error if writing to the writer fails.
func DumpEffective(w io.Writer, rec *Record, opts ...DumpOption) error {
	if rec == nil {
		return ErrNilRecord
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.asJSON {
		return dumpAsJSON(w, rec, config)
	}

	prov, _ := GetProvenance(rec)
	d := &textDumper{w: w, prov: prov, config: config}
	d.record(rec, "")
	return d.err
}

func dumpAsJSON(w io.Writer, rec *Record, config dumpConfig) error {
	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(rec, "", config.indent)
	} else {
		data, err = json.Marshal(rec)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// textDumper writes "path: value" lines; the first write error sticks.
type textDumper struct {
	w      io.Writer
	prov   *Provenance
	config dumpConfig
	err    error
}

func (d *textDumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	if _, err := fmt.Fprintf(d.w, format, args...); err != nil {
		d.err = fmt.Errorf("write error: %w", err)
	}
}

func (d *textDumper) record(rec *Record, prefix string) {
	var nested []func()

	for _, f := range rec.def.fields {
		path := joinPath(prefix, f.Name)
		v, ok := rec.values[f.Name]
		if !ok {
			d.leaf(path, "<not set>")
			continue
		}

		switch t := v.(type) {
		case *Record:
			nested = append(nested, func() { d.section(t, path) })
		case *RecordMap:
			if t.Len() == 0 {
				d.leaf(path, "{}")
				continue
			}
			t.Each(func(key string, item *Record) bool {
				itemPath := joinPath(path, key)
				nested = append(nested, func() { d.section(item, itemPath) })
				return true
			})
		default:
			d.leaf(path, formatLeaf(v))
		}
	}

	for _, fn := range nested {
		fn()
	}
}

func (d *textDumper) section(rec *Record, path string) {
	d.printf("\n[%s] %s (%s)\n", rec.contextualName, path, rec.def.name)
	d.record(rec, path)
}

func (d *textDumper) leaf(path, display string) {
	line := fmt.Sprintf("%s: %s", path, display)
	if d.config.withSources {
		if p, ok := d.prov.Lookup(path); ok {
			line += fmt.Sprintf(" (source: %s)", p.SourceName)
		} else if display != "<not set>" {
			line += " (source: default)"
		}
	}
	d.printf("%s\n", line)
}

// formatLeaf renders a stored scalar, list or free-form value for text output.
func formatLeaf(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if rec, ok := e.(*Record); ok {
				data, _ := json.Marshal(rec)
				parts[i] = string(data)
				continue
			}
			parts[i] = formatLeaf(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", t)
	}
}
