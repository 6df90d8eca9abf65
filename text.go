package rigging

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Text is a scalar read from a source that only carries strings, such as environment
// variables. It is converted against the type of the field it binds to: "1216" becomes
// a number for an integer field and stays "1216" for a string field.
type Text string

var decimalNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// fromText converts s into the raw value r expects. Text that does not fit is passed
// on in a form that fails the field's validation with invalid_type.
func (r TypeRef) fromText(s string) any {
	switch r.kind {
	case RefScalar:
		switch r.scalar.Kind {
		case KindString, KindEnum:
			return s
		case KindBool:
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return b
			}
			return s
		case KindInt, KindUint, KindFloat:
			t := strings.TrimSpace(s)
			if decimalNumber.MatchString(t) {
				return json.Number(t)
			}
			return scalarFromText(t)
		}
	case RefLiteral:
		if _, isString := r.literal.(string); isString {
			return s
		}
	}
	return scalarFromText(s)
}

// scalarFromText reads s as a YAML scalar ("0x10" is 16, "true" a bool). Structured
// or null-looking text stays a string.
func scalarFromText(s string) any {
	if s == "" {
		return s
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case map[string]any, []any, nil:
		return s
	}
	return v
}

// untext replaces every Text in a free-form tree with its YAML scalar reading.
func untext(v any) any {
	switch t := v.(type) {
	case Text:
		return scalarFromText(string(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = untext(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = untext(e)
		}
		return out
	}
	return v
}

// textString returns v as a plain string when it is a string or Text.
func textString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case Text:
		return string(s), true
	}
	return "", false
}
