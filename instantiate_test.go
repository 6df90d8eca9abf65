package rigging

import (
	"errors"
	"strings"
	"testing"
)

func TestInstantiate_Rig(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustInstantiate(t, mustLookup(t, reg, "Rig"), rigInput())

	if rig.String("name") != "rig-a" {
		t.Errorf("name = %q", rig.String("name"))
	}

	main, ok := rig.Map("behavior_boards").Get("main")
	if !ok {
		t.Fatal("behavior_boards.main missing")
	}
	if main.Int("who_am_i") != 1216 || main.String("device_type") != "BehaviorBoard" {
		t.Errorf("literals not filled: who_am_i=%d device_type=%q", main.Int("who_am_i"), main.String("device_type"))
	}
	widths := main.Record("pulse_controller").Record("pulse_widths")
	if widths.Uint("pulse_do1") != 10 || widths.Uint("PulseDO2") != 20 {
		t.Errorf("pulse widths = %v", widths.Values())
	}

	origin := rig.Record("origin")
	if origin == nil || origin.Float("z") != 0 {
		t.Errorf("origin default not applied: %v", origin)
	}
	if rig.Has("tags") || rig.Has("payload") {
		t.Error("absent optional fields without default must stay unset")
	}
}

func TestInstantiate_InternalAndExternalNames(t *testing.T) {
	reg := newRigRegistry(t)
	harp := mustLookup(t, reg, "HarpDevice")

	for _, key := range []string{"port_name", "portName"} {
		rec, err := harp.Instantiate(map[string]any{"device_type": "x", key: "COM1"})
		if err != nil {
			t.Fatalf("key %q: %v", key, err)
		}
		if rec.String("port_name") != "COM1" {
			t.Errorf("key %q: port_name = %q", key, rec.String("port_name"))
		}
	}

	_, err := harp.Instantiate(map[string]any{"deviceType": "x", "port_name": "COM1", "portName": "COM2"})
	if got := fieldCodes(err)["port_name"]; got != ErrCodeInvalidType {
		t.Errorf("doubled key code = %q, want invalid_type", got)
	}
}

func TestInstantiate_AggregatesErrors(t *testing.T) {
	reg := newRigRegistry(t)
	input := rigInput()
	delete(input, "name")
	input["colour"] = "red"
	board := input["behaviorBoards"].(map[string]any)["main"].(map[string]any)
	board["whoAmI"] = 1
	board["pulseController"].(map[string]any)["pulseWidths"].(map[string]any)["PulseDO2"] = -1
	input["cameras"].(map[string]any)["body"].(map[string]any)["gain"] = 49

	rec, err := mustLookup(t, reg, "Rig").Instantiate(input)
	if rec != nil {
		t.Error("no partial record may be returned")
	}

	want := []struct{ path, code string }{
		{"name", ErrCodeMissingRequired},
		{"colour", ErrCodeUnknownField},
		{"behavior_boards.main.who_am_i", ErrCodeInvalidType},
		{"behavior_boards.main.pulse_controller.pulse_widths.pulse_do2", ErrCodeRangeViolation},
		{"cameras.body.gain", ErrCodeRangeViolation},
	}
	got := fieldCodes(err)
	if len(got) != len(want) {
		t.Errorf("got %d errors, want %d: %v", len(got), len(want), err)
	}
	for _, w := range want {
		if got[w.path] != w.code {
			t.Errorf("%s: code = %q, want %q", w.path, got[w.path], w.code)
		}
	}

	if !strings.HasPrefix(err.Error(), "record validation failed: 5 errors") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestInstantiate_ExplicitNull(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustLookup(t, reg, "Rig")

	input := rigInput()
	input["origin"] = nil
	rec := mustInstantiate(t, rig, input)
	if rec.Has("origin") {
		t.Error("explicit null on an optional field must leave it unset")
	}

	input = rigInput()
	input["name"] = nil
	_, err := rig.Instantiate(input)
	if got := fieldCodes(err)["name"]; got != ErrCodeMissingRequired {
		t.Errorf("null on required field code = %q, want missing_required_field", got)
	}
}

func TestInstantiate_DefaultsAreNotShared(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustLookup(t, reg, "Rig")

	a := mustInstantiate(t, rig, rigInput())
	b := mustInstantiate(t, rig, rigInput())
	if a.Record("origin") == b.Record("origin") {
		t.Fatal("default records must not be shared")
	}
	if err := a.Record("origin").Set("x", 5); err != nil {
		t.Fatal(err)
	}
	if b.Record("origin").Float("x") != 0 {
		t.Error("changing one record's default changed another")
	}

	pulse := mustLookup(t, reg, "PulseController")
	p1 := mustInstantiate(t, pulse, map[string]any{"pulseWidths": map[string]any{"PulseDO1": 1, "PulseDO2": 2}})
	p1.List("output_pulse_enable")[0] = "DO9"
	p2 := mustInstantiate(t, pulse, map[string]any{"pulseWidths": map[string]any{"PulseDO1": 1, "PulseDO2": 2}})
	if p2.List("output_pulse_enable")[0] != "DO1" {
		t.Error("list default mutated through another record")
	}
}

func TestInstantiate_Collections(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustLookup(t, reg, "Rig")

	input := rigInput()
	input["tags"] = []string{"dome", "left"}
	input["payload"] = map[string]any{"nested": []any{1, "two"}}
	rec := mustInstantiate(t, rig, input)

	tags := rec.List("tags")
	if len(tags) != 2 || tags[1] != "left" {
		t.Errorf("tags = %v", tags)
	}

	input["tags"] = []any{"dome", 3}
	_, err := rig.Instantiate(input)
	if got := fieldCodes(err)["tags[1]"]; got != ErrCodeInvalidType {
		t.Errorf("tags[1] code = %q, want invalid_type", got)
	}

	input = rigInput()
	input["behaviorBoards"] = "main"
	_, err = rig.Instantiate(input)
	if got := fieldCodes(err)["behavior_boards"]; got != ErrCodeInvalidType {
		t.Errorf("behavior_boards code = %q, want invalid_type", got)
	}
}

func TestInstantiate_ForeignDefinition(t *testing.T) {
	reg := newRigRegistry(t)
	other := newRigRegistry(t)

	if _, err := reg.Instantiate(mustLookup(t, other, "Vector3"), nil); err == nil {
		t.Error("instantiating a definition of another registry should fail")
	}
	if _, err := reg.Instantiate(nil, nil); err == nil {
		t.Error("instantiating a nil definition should fail")
	}
}

func TestInstantiate_FieldErrorDetails(t *testing.T) {
	reg := newRigRegistry(t)
	_, err := mustLookup(t, reg, "PulseWidths").Instantiate(map[string]any{"PulseDO1": 70000, "PulseDO2": 1})

	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.FieldErrors) != 1 {
		t.Fatalf("error = %v", err)
	}
	fe := ve.FieldErrors[0]
	if fe.FieldPath != "pulse_do1" || fe.Constraint != "[0, 65535]" || fe.Value != 70000 {
		t.Errorf("FieldError = %+v", fe)
	}
}
