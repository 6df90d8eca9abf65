package rigging

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind is the primitive kind underlying a semantic type.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt          // signed integer
	KindUint         // unsigned integer
	KindFloat        // floating point
	KindBool
	KindString
	KindEnum // closed set of string tags
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// Range is an inclusive numeric interval. A nil bound is unbounded on that side.
type Range struct {
	Min *big.Rat
	Max *big.Rat
}

// Contains reports whether x lies within the range.
func (r Range) Contains(x *big.Rat) bool {
	if r.Min != nil && x.Cmp(r.Min) < 0 {
		return false
	}
	if r.Max != nil && x.Cmp(r.Max) > 0 {
		return false
	}
	return true
}

// IsZero reports whether the range is unbounded on both sides.
func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// Within reports whether r is a sub-interval of outer.
func (r Range) Within(outer Range) bool {
	if outer.Min != nil && (r.Min == nil || r.Min.Cmp(outer.Min) < 0) {
		return false
	}
	if outer.Max != nil && (r.Max == nil || r.Max.Cmp(outer.Max) > 0) {
		return false
	}
	return true
}

// intersect narrows r by other, keeping the tighter bound on each side.
func (r Range) intersect(other Range) Range {
	out := r
	if other.Min != nil && (out.Min == nil || other.Min.Cmp(out.Min) > 0) {
		out.Min = other.Min
	}
	if other.Max != nil && (out.Max == nil || other.Max.Cmp(out.Max) < 0) {
		out.Max = other.Max
	}
	return out
}

// String renders the range in interval notation, e.g. "[0, 65535]" or "[-1, +inf)".
func (r Range) String() string {
	lo, hi := "(-inf", "+inf)"
	if r.Min != nil {
		lo = "[" + formatRat(r.Min)
	}
	if r.Max != nil {
		hi = formatRat(r.Max) + "]"
	}
	return lo + ", " + hi
}

// Type is a semantic type: a primitive kind plus domain constraints.
type Type struct {
	Name   string   // Semantic name (e.g., "UShort", "TimestampSource")
	Kind   Kind     // Primitive kind
	Bits   int      // Integer or float width; 0 when not applicable
	Range  Range    // Inclusive numeric bounds (numeric kinds only)
	Values []string // Closed tag set (KindEnum only)
}

var integerNames = map[int][2]string{
	8:  {"Byte", "SByte"},
	16: {"UShort", "Short"},
	32: {"UInt", "Int"},
	64: {"ULong", "Long"},
}

// IntegerType returns the semantic type for an integer of the given width and signedness,
// carrying the standard two's-complement range for that width.
// Supported widths are 8, 16, 32 and 64.
func IntegerType(bits int, signed bool) (Type, error) {
	names, ok := integerNames[bits]
	if !ok {
		return Type{}, fmt.Errorf("rigging: unsupported integer width %d (supported: 8, 16, 32, 64)", bits)
	}

	one := big.NewInt(1)
	if signed {
		limit := new(big.Int).Lsh(one, uint(bits-1))
		lo := new(big.Int).Neg(limit)
		hi := new(big.Int).Sub(limit, one)
		return Type{
			Name:  names[1],
			Kind:  KindInt,
			Bits:  bits,
			Range: Range{Min: new(big.Rat).SetInt(lo), Max: new(big.Rat).SetInt(hi)},
		}, nil
	}

	hi := new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits)), one)
	return Type{
		Name:  names[0],
		Kind:  KindUint,
		Bits:  bits,
		Range: Range{Min: new(big.Rat), Max: new(big.Rat).SetInt(hi)},
	}, nil
}

func mustIntegerType(bits int, signed bool) Type {
	t, err := IntegerType(bits, signed)
	if err != nil {
		panic(err)
	}
	return t
}

// EnumType returns a closed enumeration of string tags.
func EnumType(name string, values ...string) Type {
	return Type{Name: name, Kind: KindEnum, Values: append([]string(nil), values...)}
}

// Predeclared semantic types.
var (
	SByte  = mustIntegerType(8, true)
	Byte   = mustIntegerType(8, false)
	Short  = mustIntegerType(16, true)
	UShort = mustIntegerType(16, false)
	Int    = mustIntegerType(32, true)
	UInt   = mustIntegerType(32, false)
	Long   = mustIntegerType(64, true)
	ULong  = mustIntegerType(64, false)

	Float  = Type{Name: "Float", Kind: KindFloat, Bits: 32}
	Double = Type{Name: "Double", Kind: KindFloat, Bits: 64}
	String = Type{Name: "String", Kind: KindString}
	Bool   = Type{Name: "Bool", Kind: KindBool}

	// TimestampSource tags where a software event timestamp came from.
	TimestampSource = EnumType("TimestampSource", "null", "harp", "render", "arduino")
)

// builtinTypes indexes the predeclared types by name.
var builtinTypes = map[string]Type{
	SByte.Name: SByte, Byte.Name: Byte, Short.Name: Short, UShort.Name: UShort,
	Int.Name: Int, UInt.Name: UInt, Long.Name: Long, ULong.Name: ULong,
	Float.Name: Float, Double.Name: Double, String.Name: String, Bool.Name: Bool,
	TimestampSource.Name: TimestampSource,
}

// WithRange returns a copy of t narrowed to [min, max]. A nil argument leaves that side
// as declared. The result never widens the declared range.
func (t Type) WithRange(min, max any) Type {
	narrow := Range{}
	if min != nil {
		narrow.Min = mustRat(min)
	}
	if max != nil {
		narrow.Max = mustRat(max)
	}
	t.Range = t.Range.intersect(narrow)
	return t
}

// AtLeast returns a copy of t with an inclusive lower bound.
func (t Type) AtLeast(min any) Type { return t.WithRange(min, nil) }

// AtMost returns a copy of t with an inclusive upper bound.
func (t Type) AtMost(max any) Type { return t.WithRange(nil, max) }

// IsNumeric reports whether t is an integer or floating point type.
func (t Type) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindUint || t.Kind == KindFloat
}

func (t Type) String() string {
	switch {
	case t.Kind == KindEnum:
		return fmt.Sprintf("%s{%s}", t.Name, strings.Join(t.Values, ","))
	case t.IsNumeric() && !t.Range.IsZero():
		return t.Name + t.Range.String()
	default:
		return t.Name
	}
}

// Validate checks v against the type and returns its normalized form:
// int64 for signed integers, uint64 for unsigned integers, float64, bool or string.
// Out-of-range values fail with range_violation; they are never clamped.
func (t Type) Validate(path string, v any) (any, *FieldError) {
	switch t.Kind {
	case KindInt, KindUint:
		r, ok := ratOf(v)
		if !ok || !r.IsInt() {
			return nil, typeError(path, v, "integer")
		}
		if !t.Range.Contains(r) {
			return nil, t.rangeError(path, v)
		}
		n := r.Num()
		if t.Kind == KindInt {
			if !n.IsInt64() {
				return nil, t.rangeError(path, v)
			}
			return n.Int64(), nil
		}
		if !n.IsUint64() {
			return nil, t.rangeError(path, v)
		}
		return n.Uint64(), nil

	case KindFloat:
		r, ok := ratOf(v)
		if !ok {
			return nil, typeError(path, v, "number")
		}
		if !t.Range.Contains(r) {
			return nil, t.rangeError(path, v)
		}
		if f, ok := v.(float64); ok {
			return f, nil
		}
		f, _ := r.Float64()
		return f, nil

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, typeError(path, v, "boolean")
		}
		return b, nil

	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, typeError(path, v, "string")
		}
		return s, nil

	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, typeError(path, v, "string")
		}
		for _, allowed := range t.Values {
			if s == allowed {
				return s, nil
			}
		}
		return nil, &FieldError{
			FieldPath:  path,
			Code:       ErrCodeUnknownEnumValue,
			Message:    fmt.Sprintf("value %q must be one of: %s", s, strings.Join(t.Values, ", ")),
			Value:      v,
			Constraint: strings.Join(t.Values, ","),
			Allowed:    append([]string(nil), t.Values...),
		}
	}

	return nil, &FieldError{
		FieldPath: path,
		Code:      ErrCodeInvalidType,
		Message:   fmt.Sprintf("semantic type %q has no kind", t.Name),
		Value:     v,
	}
}

func (t Type) rangeError(path string, v any) *FieldError {
	return &FieldError{
		FieldPath:  path,
		Code:       ErrCodeRangeViolation,
		Message:    fmt.Sprintf("value %v outside %s range %s", v, t.Name, t.Range),
		Value:      v,
		Constraint: t.Range.String(),
	}
}

func typeError(path string, v any, want string) *FieldError {
	return &FieldError{
		FieldPath:  path,
		Code:       ErrCodeInvalidType,
		Message:    fmt.Sprintf("expected %s, got %T", want, v),
		Value:      v,
		Constraint: want,
	}
}

// ratOf converts a numeric Go value into an exact rational. Booleans and strings are
// not numbers; NaN and infinities are rejected.
func ratOf(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	case float32:
		return ratOfFloat(float64(n))
	case float64:
		return ratOfFloat(n)
	case json.Number:
		return new(big.Rat).SetString(string(n))
	case *big.Int:
		return new(big.Rat).SetInt(n), true
	case *big.Rat:
		return new(big.Rat).Set(n), true
	}
	return nil, false
}

func ratOfFloat(f float64) (*big.Rat, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return new(big.Rat).SetFloat64(f), true
}

func mustRat(v any) *big.Rat {
	r, ok := ratOf(v)
	if !ok {
		if s, isString := v.(string); isString {
			if r, ok = new(big.Rat).SetString(s); ok {
				return r
			}
		}
		panic(fmt.Sprintf("rigging: %v (%T) is not a number", v, v))
	}
	return r
}

// formatRat renders integers exactly and fractions as the shortest float.
func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}
