package normalize

import (
	"testing"
)

func TestToLowerDotPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "double underscore to dot",
			input:    "SCREEN__BRIGHTNESS",
			expected: "screen.brightness",
		},
		{
			name:     "single underscore preserved",
			input:    "TARGET_RENDER_FREQUENCY",
			expected: "target_render_frequency",
		},
		{
			name:     "multiple levels",
			input:    "BEHAVIOR_BOARDS__MAIN__PORT_NAME",
			expected: "behavior_boards.main.port_name",
		},
		{
			name:     "already lowercase",
			input:    "simple",
			expected: "simple",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToLowerDotPath(tt.input)
			if result != tt.expected {
				t.Errorf("ToLowerDotPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pulse_controller", "PulseController"},
		{"pulse_do1", "PulseDo1"},
		{"vector3", "Vector3"},
		{"wheel_diameter_mm", "WheelDiameterMm"},
		{"PulseController", "PulseController"},
		{"_leading", "Leading"},
		{"double__underscore", "DoubleUnderscore"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToPascal(tt.input); got != tt.expected {
				t.Errorf("ToPascal(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pulse_controller", "pulseController"},
		{"repository_url", "repositoryUrl"},
		{"camera_type", "cameraType"},
		{"x", "x"},
		{"who_am_i", "whoAmI"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToCamel(tt.input); got != tt.expected {
				t.Errorf("ToCamel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestApplyPrefix(t *testing.T) {
	tests := []struct {
		prefix   string
		key      string
		expected string
	}{
		{"behavior_boards", "main", "behavior_boards.main"},
		{"", "screen", "screen"},
		{"screen", "", "screen"},
		{"", "", ""},
	}

	for _, tt := range tests {
		if got := ApplyPrefix(tt.prefix, tt.key); got != tt.expected {
			t.Errorf("ApplyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.expected)
		}
	}
}

func TestSplitPath(t *testing.T) {
	got := SplitPath("a..b.c.")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("SplitPath returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitPath()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestToSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pulseController", "pulse_controller"},
		{"PulseDO1", "pulse_do1"},
		{"whoAmI", "who_am_i"},
		{"BaudRate", "baud_rate"},
		{"portName", "port_name"},
		{"x", "x"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToSnake(tt.input); got != tt.expected {
				t.Errorf("ToSnake(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
