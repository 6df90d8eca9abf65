package normalize

import (
	"strings"
	"unicode"
)

// ToLowerDotPath normalizes an overlay key to a lowercase dot-separated path.
// Double underscores (__) are treated as level separators and converted to dots.
// Single underscores within a level are preserved, so snake_case field names survive.
// Examples:
//   - "BEHAVIOR_BOARDS__MAIN__PORT_NAME" → "behavior_boards.main.port_name"
//   - "SCREEN__BRIGHTNESS" → "screen.brightness"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// ToPascal converts a snake_case name to PascalCase.
// Each underscore-separated word has its first rune upper-cased; the rest of the
// word is kept as written, so already-Pascal input is returned unchanged.
// Examples:
//   - "pulse_controller" → "PulseController"
//   - "pulse_do1" → "PulseDo1"
//   - "vector3" → "Vector3"
func ToPascal(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, word := range strings.Split(name, "_") {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// ToCamel converts a snake_case name to camelCase.
// Examples:
//   - "pulse_controller" → "pulseController"
//   - "repository_url" → "repositoryUrl"
//   - "x" → "x"
func ToCamel(name string) string {
	pascal := ToPascal(name)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ApplyPrefix combines a prefix with a key to create a nested path.
// If prefix is empty, returns the key unchanged.
// Otherwise, returns "prefix.key".
// Examples:
//   - ApplyPrefix("behavior_boards", "main") → "behavior_boards.main"
//   - ApplyPrefix("", "screen") → "screen"
func ApplyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}

// SplitPath splits a dot-separated path into its segments, dropping empty ones.
func SplitPath(path string) []string {
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ToSnake converts a camelCase or PascalCase name to snake_case.
// A run of capitals is kept together as one word.
// Examples:
//   - "pulseController" → "pulse_controller"
//   - "PulseDO1" → "pulse_do1"
//   - "whoAmI" → "who_am_i"
func ToSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
