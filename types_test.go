package rigging

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestIntegerTypes_RangeEdges(t *testing.T) {
	tests := []struct {
		typ    Type
		min    any
		max    any
		below  any
		above  any
		minOut any
		maxOut any
	}{
		{SByte, -128, 127, -129, 128, int64(-128), int64(127)},
		{Byte, 0, 255, -1, 256, uint64(0), uint64(255)},
		{Short, -32768, 32767, -32769, 32768, int64(-32768), int64(32767)},
		{UShort, 0, 65535, -1, 65536, uint64(0), uint64(65535)},
		{Int, math.MinInt32, math.MaxInt32, int64(math.MinInt32) - 1, int64(math.MaxInt32) + 1, int64(math.MinInt32), int64(math.MaxInt32)},
		{UInt, 0, uint32(math.MaxUint32), -1, uint64(math.MaxUint32) + 1, uint64(0), uint64(math.MaxUint32)},
		{Long, int64(math.MinInt64), int64(math.MaxInt64), json.Number("-9223372036854775809"), json.Number("9223372036854775808"), int64(math.MinInt64), int64(math.MaxInt64)},
		{ULong, 0, uint64(math.MaxUint64), -1, json.Number("18446744073709551616"), uint64(0), uint64(math.MaxUint64)},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name, func(t *testing.T) {
			if got, ferr := tt.typ.Validate("v", tt.min); ferr != nil || got != tt.minOut {
				t.Errorf("Validate(min %v) = %v, %v; want %v", tt.min, got, ferr, tt.minOut)
			}
			if got, ferr := tt.typ.Validate("v", tt.max); ferr != nil || got != tt.maxOut {
				t.Errorf("Validate(max %v) = %v, %v; want %v", tt.max, got, ferr, tt.maxOut)
			}
			for _, out := range []any{tt.below, tt.above} {
				_, ferr := tt.typ.Validate("v", out)
				if ferr == nil {
					t.Fatalf("Validate(%v) succeeded, want range_violation", out)
				}
				if ferr.Code != ErrCodeRangeViolation {
					t.Errorf("Validate(%v) code = %s, want %s", out, ferr.Code, ErrCodeRangeViolation)
				}
				if ferr.FieldPath != "v" {
					t.Errorf("FieldPath = %q, want %q", ferr.FieldPath, "v")
				}
			}
		})
	}
}

func TestIntegerType_Widths(t *testing.T) {
	typ, err := IntegerType(16, false)
	if err != nil {
		t.Fatalf("IntegerType(16, false) error = %v", err)
	}
	if typ.Name != "UShort" || typ.Range.String() != "[0, 65535]" {
		t.Errorf("IntegerType(16, false) = %s, want UShort[0, 65535]", typ)
	}

	if _, err := IntegerType(12, true); err == nil {
		t.Error("IntegerType(12, true) should fail")
	}
}

func TestULong_ExactFromJSON(t *testing.T) {
	var doc map[string]any
	dec := json.NewDecoder(strings.NewReader(`{"serial": 18446744073709551615}`))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		t.Fatal(err)
	}

	got, ferr := ULong.Validate("serial", doc["serial"])
	if ferr != nil {
		t.Fatalf("Validate() error = %v", ferr)
	}
	if got != uint64(math.MaxUint64) {
		t.Errorf("Validate() = %v, want %d", got, uint64(math.MaxUint64))
	}
}

func TestType_Validate_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		input    any
		want     any
		wantCode string
	}{
		{"int from float with integral value", Int, 42.0, int64(42), ""},
		{"int rejects fraction", Int, 1.5, nil, ErrCodeInvalidType},
		{"int rejects string", Int, "42", nil, ErrCodeInvalidType},
		{"int rejects bool", Int, true, nil, ErrCodeInvalidType},
		{"double from int", Double, 3, 3.0, ""},
		{"double from json number", Double, json.Number("1.25"), 1.25, ""},
		{"double rejects NaN", Double, math.NaN(), nil, ErrCodeInvalidType},
		{"double rejects infinity", Double, math.Inf(1), nil, ErrCodeInvalidType},
		{"bool", Bool, false, false, ""},
		{"bool rejects string", Bool, "false", nil, ErrCodeInvalidType},
		{"string", String, "COM3", "COM3", ""},
		{"string rejects number", String, 3, nil, ErrCodeInvalidType},
		{"enum accepts member", TimestampSource, "harp", "harp", ""},
		{"enum rejects other", TimestampSource, "gps", nil, ErrCodeUnknownEnumValue},
		{"enum is case-sensitive", TimestampSource, "Harp", nil, ErrCodeUnknownEnumValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ferr := tt.typ.Validate("f", tt.input)
			if tt.wantCode != "" {
				if ferr == nil {
					t.Fatalf("Validate(%v) = %v, want %s", tt.input, got, tt.wantCode)
				}
				if ferr.Code != tt.wantCode {
					t.Errorf("code = %s, want %s", ferr.Code, tt.wantCode)
				}
				return
			}
			if ferr != nil {
				t.Fatalf("Validate(%v) error = %v", tt.input, ferr)
			}
			if got != tt.want {
				t.Errorf("Validate(%v) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestType_EnumErrorListsAllowed(t *testing.T) {
	_, ferr := TimestampSource.Validate("timestamp_source", "gps")
	if ferr == nil {
		t.Fatal("expected error")
	}
	want := []string{"null", "harp", "render", "arduino"}
	if len(ferr.Allowed) != len(want) {
		t.Fatalf("Allowed = %v, want %v", ferr.Allowed, want)
	}
	for i := range want {
		if ferr.Allowed[i] != want[i] {
			t.Errorf("Allowed[%d] = %q, want %q", i, ferr.Allowed[i], want[i])
		}
	}
}

func TestType_WithRange(t *testing.T) {
	brightness := Double.WithRange(-1, 1)
	if _, ferr := brightness.Validate("b", 1); ferr != nil {
		t.Errorf("upper bound is inclusive, got %v", ferr)
	}
	if _, ferr := brightness.Validate("b", -1.0001); ferr == nil || ferr.Code != ErrCodeRangeViolation {
		t.Errorf("Validate(-1.0001) = %v, want range_violation", ferr)
	}

	// Narrowing never widens the declared range.
	wide := Byte.WithRange(-10, 1000)
	if wide.Range.String() != "[0, 255]" {
		t.Errorf("Byte.WithRange(-10, 1000) range = %s, want [0, 255]", wide.Range)
	}

	if got := Int.AtLeast(0).Range.String(); got != "[0, 2147483647]" {
		t.Errorf("Int.AtLeast(0) = %s", got)
	}
	if got := Double.AtMost(0.5).String(); got != "Double(-inf, 0.5]" {
		t.Errorf("Double.AtMost(0.5) = %s", got)
	}
}

func TestRange_Within(t *testing.T) {
	tests := []struct {
		inner, outer Type
		want         bool
	}{
		{UShort, Int, true},
		{Int, UShort, false},
		{Byte.WithRange(1, 5), Byte, true},
		{Double, Double.WithRange(0, 1), false},
		{Double.WithRange(0, 1), Double, true},
	}
	for _, tt := range tests {
		if got := tt.inner.Range.Within(tt.outer.Range); got != tt.want {
			t.Errorf("%s within %s = %v, want %v", tt.inner, tt.outer, got, tt.want)
		}
	}
}
