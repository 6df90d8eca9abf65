package rigging

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for record validation failures.
const (
	ErrCodeRangeViolation      = "range_violation"
	ErrCodeUnknownEnumValue    = "unknown_enum_value"
	ErrCodeMissingRequired     = "missing_required_field"
	ErrCodeUnknownField        = "unknown_field"
	ErrCodeMissingDiscriminant = "missing_discriminant"
	ErrCodeUnresolvedVariant   = "unresolved_variant"
	ErrCodeInvalidType         = "invalid_type"
	ErrCodeSchema              = "schema"
)

// Error codes for definition-time failures.
const (
	ErrCodeIncompatibleOverride = "incompatible_override"
	ErrCodeDuplicateTag         = "duplicate_tag"
	ErrCodeDuplicateField       = "duplicate_field"
	ErrCodeNameCollision        = "name_collision"
	ErrCodeInvalidDefault       = "invalid_default"
	ErrCodeUnknownRecord        = "unknown_record"
	ErrCodeUnknownParent        = "unknown_parent"
	ErrCodeDuplicateRecord      = "duplicate_record"
	ErrCodeInvalidVariant       = "invalid_variant"
	ErrCodeInvalidField         = "invalid_field"
)

// ErrNilRecord is returned when an operation receives a nil record.
var ErrNilRecord = errors.New("rigging: record is nil")

// ValidationError aggregates field-level validation failures.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "record validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("record validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "record validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.FieldPath, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FieldError represents a single field validation failure.
type FieldError struct {
	FieldPath  string   // Dot notation of internal names (e.g., "behavior_boards.main.port_name")
	Code       string   // Error code (e.g., "range_violation")
	Message    string   // Human-readable description
	Value      any      // Offending value, if any
	Constraint string   // Expected constraint (e.g., "[0, 65535]")
	Allowed    []string // Valid tags for enum and variant failures
}

func (fe FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", fe.FieldPath, fe.Code, fe.Message)
}

// DefinitionError reports a malformed record definition or variant group.
// Definition errors are fatal at registration: the definition is not exposed.
type DefinitionError struct {
	Record  string // Record definition or variant group name
	Field   string // Internal field name, if the fault is field-scoped
	Code    string
	Message string
}

func (e *DefinitionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("define %s.%s: %s (%s)", e.Record, e.Field, e.Code, e.Message)
	}
	return fmt.Sprintf("define %s: %s (%s)", e.Record, e.Code, e.Message)
}

// HasCode reports whether err is, or wraps, a ValidationError containing a field error
// with the given code, or a DefinitionError with that code.
func HasCode(err error, code string) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		for _, fe := range ve.FieldErrors {
			if fe.Code == code {
				return true
			}
		}
	}
	var de *DefinitionError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
