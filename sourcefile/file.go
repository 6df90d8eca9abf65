package sourcefile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/labrig/rigging"
	"github.com/pelletier/go-toml/v2"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", "toml" or "hcl". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns empty map).
	Required bool
}

type fileSource struct {
	path string
	opts Options
}

// New creates a file-based rig document source.
func New(path string, opts Options) rigging.Source {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file, returning the document as a nested tree.
// JSON numbers are returned as json.Number so 64-bit identifiers stay exact.
func (f *fileSource) Load(ctx context.Context) (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, fmt.Errorf("required rig file not found: %s: %w", f.path, err)
			}
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("read rig file %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	raw, err := Decode(data, format, f.path)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Decode parses a document of the given format into a nested tree.
// name is used in error messages and HCL diagnostics.
func Decode(data []byte, format, name string) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", name, err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", name, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", name, err)
		}
	case "hcl":
		tree, err := decodeHCL(data, name)
		if err != nil {
			return nil, err
		}
		raw = tree
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml, hcl)", format)
	}

	if raw == nil {
		return make(map[string]any), nil
	}
	return normalizeTree(raw).(map[string]any), nil
}

// decodeHCL evaluates top-level attributes without variables or functions and
// converts each value to a JSON tree.
func decodeHCL(data []byte, name string) (map[string]any, error) {
	file, diags := hclsyntax.ParseConfig(data, name, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse HCL file %s: %w", name, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse HCL file %s: %w", name, diags)
	}

	out := make(map[string]any, len(attrs))
	for attrName, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluate %s in %s: %w", attrName, name, diags)
		}

		encoded, err := ctyjson.SimpleJSONValue{Value: val}.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("convert %s in %s: %w", attrName, name, err)
		}

		var v any
		dec := json.NewDecoder(bytes.NewReader(encoded))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("convert %s in %s: %w", attrName, name, err)
		}
		out[attrName] = v
	}
	return out, nil
}

// normalizeTree converts map[any]any nodes (older YAML decoders) to map[string]any.
func normalizeTree(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			v[key] = normalizeTree(val)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[fmt.Sprint(key)] = normalizeTree(val)
		}
		return out
	case []any:
		for i, val := range v {
			v[i] = normalizeTree(val)
		}
		return v
	default:
		return value
	}
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	return "file:" + filepath.Base(f.path)
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".hcl":
		return "hcl"
	default:
		return ""
	}
}
