package rigging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDumpEffective_TextFormat(t *testing.T) {
	rec := mustInstantiate(t, mustLookup(t, newRigRegistry(t), "Rig"), rigInput())

	var buf bytes.Buffer
	if err := DumpEffective(&buf, rec); err != nil {
		t.Fatalf("DumpEffective() error = %v", err)
	}

	want := `name: "rig-a"
tags: <not set>
payload: <not set>

[main] behavior_boards.main (BehaviorBoard)
behavior_boards.main.device_type: "BehaviorBoard"
behavior_boards.main.who_am_i: 1216
behavior_boards.main.port_name: "COM3"

[PulseController] behavior_boards.main.pulse_controller (PulseController)
behavior_boards.main.pulse_controller.output_pulse_enable: ["DO1", "DO2"]

[PulseWidths] behavior_boards.main.pulse_controller.pulse_widths (PulseWidths)
behavior_boards.main.pulse_controller.pulse_widths.pulse_do1: 10
behavior_boards.main.pulse_controller.pulse_widths.pulse_do2: 20

[body] cameras.body (SpinnakerCamera)
cameras.body.camera_type: "Spinnaker"
cameras.body.gain: 0
cameras.body.serial_number: "1234"

[Origin] origin (Vector3)
origin.x: 0
origin.y: 0
origin.z: 0
`
	if got := buf.String(); got != want {
		t.Errorf("DumpEffective() output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpEffective_WithSources(t *testing.T) {
	def := mustLookup(t, newRigRegistry(t), "Rig")
	rec, err := NewLoader(def).
		WithSource(&mockSource{name: "file:rig.yaml", data: rigInput()}).
		WithSource(&mockSource{name: "env:RIG_", data: map[string]any{"name": "rig-b"}}).
		Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(func() { ForgetProvenance(rec) })

	var buf bytes.Buffer
	if err := DumpEffective(&buf, rec, WithSources()); err != nil {
		t.Fatalf("DumpEffective() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		`name: "rig-b" (source: env:RIG_)`,
		`behavior_boards.main.port_name: "COM3" (source: file:rig.yaml)`,
		`behavior_boards.main.who_am_i: 1216 (source: default)`,
		`cameras.body.gain: 0 (source: default)`,
		"tags: <not set>\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}
}

func TestDumpEffective_WithoutProvenance(t *testing.T) {
	rec := mustInstantiate(t, mustLookup(t, newRigRegistry(t), "Rig"), rigInput())

	var buf bytes.Buffer
	if err := DumpEffective(&buf, rec, WithSources()); err != nil {
		t.Fatalf("DumpEffective() error = %v", err)
	}

	if !strings.Contains(buf.String(), `name: "rig-a" (source: default)`) {
		t.Errorf("records without provenance should attribute values to defaults:\n%s", buf.String())
	}
}

func TestDumpEffective_JSONFormat(t *testing.T) {
	rec := mustInstantiate(t, mustLookup(t, newRigRegistry(t), "Rig"), rigInput())

	var buf bytes.Buffer
	if err := DumpEffective(&buf, rec, AsJSON()); err != nil {
		t.Fatalf("DumpEffective() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if decoded["name"] != "rig-a" {
		t.Errorf("name = %v, want rig-a", decoded["name"])
	}
	boards := decoded["behaviorBoards"].(map[string]any)
	main := boards["main"].(map[string]any)
	if main["portName"] != "COM3" || main["whoAmI"] != float64(1216) {
		t.Errorf("main board = %v", main)
	}
	if _, ok := decoded["tags"]; ok {
		t.Error("unset optional fields should be omitted from JSON")
	}
	if !strings.Contains(buf.String(), "\n  \"name\"") {
		t.Errorf("expected default two-space indent:\n%s", buf.String())
	}
}

func TestDumpEffective_WithIndent(t *testing.T) {
	rec := mustInstantiate(t, mustLookup(t, newRigRegistry(t), "Vector3"), map[string]any{"x": 1, "y": 2, "z": 3})

	tests := []struct {
		name   string
		indent string
		want   string
	}{
		{"compact", "", "{\"x\":1,\"y\":2,\"z\":3}\n"},
		{"tabs", "\t", "{\n\t\"x\": 1,\n\t\"y\": 2,\n\t\"z\": 3\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := DumpEffective(&buf, rec, AsJSON(), WithIndent(tt.indent)); err != nil {
				t.Fatalf("DumpEffective() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDumpEffective_FreeFormValues(t *testing.T) {
	input := rigInput()
	input["tags"] = []any{"left", "right"}
	input["payload"] = map[string]any{"trial": 3}
	rec := mustInstantiate(t, mustLookup(t, newRigRegistry(t), "Rig"), input)

	var buf bytes.Buffer
	if err := DumpEffective(&buf, rec); err != nil {
		t.Fatalf("DumpEffective() error = %v", err)
	}

	for _, want := range []string{`tags: ["left", "right"]`, `payload: {"trial":3}`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q\n%s", want, buf.String())
		}
	}
}

func TestDumpEffective_EmptyMap(t *testing.T) {
	input := rigInput()
	input["behaviorBoards"] = map[string]any{}
	rec := mustInstantiate(t, mustLookup(t, newRigRegistry(t), "Rig"), input)

	var buf bytes.Buffer
	if err := DumpEffective(&buf, rec); err != nil {
		t.Fatalf("DumpEffective() error = %v", err)
	}
	if !strings.Contains(buf.String(), "behavior_boards: {}\n") {
		t.Errorf("empty maps should print as {}:\n%s", buf.String())
	}
}

func TestDumpEffective_NilRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := DumpEffective(&buf, nil); !errors.Is(err, ErrNilRecord) {
		t.Errorf("DumpEffective(nil) error = %v, want ErrNilRecord", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestDumpEffective_WriteError(t *testing.T) {
	rec := mustInstantiate(t, mustLookup(t, newRigRegistry(t), "Rig"), rigInput())

	for _, opts := range [][]DumpOption{nil, {AsJSON()}} {
		err := DumpEffective(failingWriter{}, rec, opts...)
		if err == nil || !strings.Contains(err.Error(), "write error") {
			t.Errorf("DumpEffective() error = %v, want write error", err)
		}
	}
}
