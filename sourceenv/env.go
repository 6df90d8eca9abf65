package sourceenv

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/labrig/rigging"
	"github.com/labrig/rigging/internal/normalize"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = load all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (RIG_ matches rig_, Rig_, etc.).
	// When true, prefix must match exactly.
	// Keys are always normalized to lowercase after prefix stripping.
	CaseSensitive bool

	// Raw keeps every value as a plain string. By default values are rigging.Text,
	// which the loader converts against the target field's type, so "1216" becomes
	// an int for who_am_i and stays "1216" for serial_number.
	Raw bool
}

type envSource struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) rigging.Source {
	return &envSource{opts: opts}
}

// Load scans environment variables, filters by prefix, and nests them by key path:
// RIG_BEHAVIOR_BOARDS__MAIN__PORT_NAME=COM3 becomes
// {"behavior_boards": {"main": {"port_name": "COM3"}}}.
// When a key is both a value and a parent of other keys, the nested keys win.
func (e *envSource) Load(ctx context.Context) (map[string]any, error) {
	flat := make(map[string]string)

	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := parts[0]
		value := parts[1]

		if e.opts.Prefix != "" {
			var hasPrefix bool
			if e.opts.CaseSensitive {
				hasPrefix = strings.HasPrefix(key, e.opts.Prefix)
			} else {
				hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(e.opts.Prefix))
			}

			if !hasPrefix {
				continue
			}
			key = key[len(e.opts.Prefix):]
		}

		if key == "" {
			continue
		}

		// Normalize: FOO__BAR → foo.bar
		flat[normalize.ToLowerDotPath(key)] = value
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make(map[string]any)
	for _, key := range keys {
		segments := normalize.SplitPath(key)
		if len(segments) == 0 {
			continue
		}
		insert(result, segments, e.parse(flat[key]))
	}

	return result, nil
}

// Name returns a human-readable identifier for this source.
func (e *envSource) Name() string {
	return "env:" + e.opts.Prefix
}

func (e *envSource) parse(value string) any {
	if e.opts.Raw {
		return value
	}
	return rigging.Text(value)
}

func insert(tree map[string]any, segments []string, value any) {
	node := tree
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	last := segments[len(segments)-1]
	if _, isParent := node[last].(map[string]any); isParent {
		return
	}
	node[last] = value
}
