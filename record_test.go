package rigging

import (
	"encoding/json"
	"testing"
)

func TestIdentity_Propagation(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustInstantiate(t, mustLookup(t, reg, "Rig"), rigInput())

	if rig.ContextualName() != "" {
		t.Errorf("root contextual name = %q, want empty", rig.ContextualName())
	}
	if got := rig.Record("origin").ContextualName(); got != "Origin" {
		t.Errorf("origin contextual name = %q, want Origin", got)
	}

	main, _ := rig.Map("behavior_boards").Get("main")
	if main.ContextualName() != "main" {
		t.Errorf("map entry contextual name = %q, want main", main.ContextualName())
	}
	pulse := main.Record("pulse_controller")
	if pulse.ContextualName() != "PulseController" {
		t.Errorf("pulse_controller contextual name = %q, want PulseController", pulse.ContextualName())
	}
	if got := pulse.Record("pulse_widths").ContextualName(); got != "PulseWidths" {
		t.Errorf("pulse_widths contextual name = %q, want PulseWidths", got)
	}

	body, _ := rig.Map("cameras").Get("body")
	if body.ContextualName() != "body" {
		t.Errorf("variant map entry contextual name = %q, want body", body.ContextualName())
	}
}

func TestIdentity_Idempotent(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustInstantiate(t, mustLookup(t, reg, "Rig"), rigInput())

	reg.propagateIdentity(rig)
	reg.propagateIdentity(rig)
	if got := rig.Record("origin").ContextualName(); got != "Origin" {
		t.Errorf("after repeated propagation origin = %q", got)
	}
	main, _ := rig.Map("behavior_boards").Get("main")
	if main.ContextualName() != "main" {
		t.Errorf("after repeated propagation main = %q", main.ContextualName())
	}
}

func TestIdentity_RenamedByContainer(t *testing.T) {
	reg := newRigRegistry(t)
	board := mustInstantiate(t, mustLookup(t, reg, "BehaviorBoard"), map[string]any{"portName": "COM1"})

	input := rigInput()
	input["behaviorBoards"] = map[string]any{"aux": board}
	rig := mustInstantiate(t, mustLookup(t, reg, "Rig"), input)

	aux, _ := rig.Map("behavior_boards").Get("aux")
	if aux.ContextualName() != "aux" {
		t.Errorf("contextual name = %q, want aux", aux.ContextualName())
	}
	if board.ContextualName() != "" {
		t.Errorf("input record was renamed to %q", board.ContextualName())
	}
}

func TestIdentity_CustomNaming(t *testing.T) {
	reg := NewRegistry(WithContextualNaming(func(field string) string { return "<" + field + ">" }))
	reg.MustDefine("Inner", []Field{{Name: "n", Type: Of(Int), Optional: true}})
	outer := reg.MustDefine("Outer", []Field{{Name: "inner_part", Type: RecordOf("Inner")}})

	rec := mustInstantiate(t, outer, map[string]any{"innerPart": map[string]any{}})
	if got := rec.Record("inner_part").ContextualName(); got != "<inner_part>" {
		t.Errorf("contextual name = %q, want <inner_part>", got)
	}
}

func TestRecord_SetRevalidates(t *testing.T) {
	reg := newRigRegistry(t)
	cam := mustInstantiate(t, mustLookup(t, reg, "SpinnakerCamera"), map[string]any{"serialNumber": "1"})

	if err := cam.Set("gain", 12.5); err != nil {
		t.Fatalf("Set(gain) error = %v", err)
	}
	if cam.Float("gain") != 12.5 {
		t.Errorf("gain = %v", cam.Float("gain"))
	}

	err := cam.Set("gain", 100)
	if !HasCode(err, ErrCodeRangeViolation) {
		t.Errorf("Set(gain, 100) = %v, want range_violation", err)
	}
	if cam.Float("gain") != 12.5 {
		t.Errorf("failed Set changed the record: gain = %v", cam.Float("gain"))
	}

	if err := cam.Set("cameraType", "Arducam"); !HasCode(err, ErrCodeInvalidType) {
		t.Errorf("Set(literal) = %v, want invalid_type", err)
	}
	if err := cam.Set("colour", "red"); !HasCode(err, ErrCodeUnknownField) {
		t.Errorf("Set(unknown) = %v, want unknown_field", err)
	}
	if err := cam.Set("serial_number", nil); !HasCode(err, ErrCodeMissingRequired) {
		t.Errorf("Set(required, nil) = %v, want missing_required_field", err)
	}
}

func TestRecord_SetNestedReassignsIdentity(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustInstantiate(t, mustLookup(t, reg, "Rig"), rigInput())

	v := mustInstantiate(t, mustLookup(t, reg, "Vector3"), map[string]any{"x": 1, "y": 2, "z": 3})
	if err := rig.Set("origin", v); err != nil {
		t.Fatal(err)
	}
	origin := rig.Record("origin")
	if origin == v {
		t.Error("Set must store a copy of the nested record")
	}
	if origin.ContextualName() != "Origin" || origin.Float("y") != 2 {
		t.Errorf("origin = %v (%q)", origin.Values(), origin.ContextualName())
	}
}

func TestRecord_RevalidateAfterMapChange(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustInstantiate(t, mustLookup(t, reg, "Rig"), rigInput())
	main, _ := rig.Map("behavior_boards").Get("main")

	rig.Map("behavior_boards").Put("spare", main.Clone())
	if err := rig.Revalidate(); err != nil {
		t.Fatal(err)
	}
	spare, ok := rig.Map("behavior_boards").Get("spare")
	if !ok || spare.ContextualName() != "spare" {
		t.Errorf("spare entry = %v", spare)
	}

	if err := rig.Set("name", 7); err == nil {
		t.Error("Set(name, 7) should fail")
	}
	if rig.Map("behavior_boards").Len() != 2 {
		t.Error("record changed after failed Set")
	}
}

func TestRecord_CloneAndEqual(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustInstantiate(t, mustLookup(t, reg, "Rig"), rigInput())

	clone := rig.Clone()
	if !clone.Equal(rig) {
		t.Fatal("clone should equal original")
	}
	if err := clone.Record("origin").Set("x", 9); err != nil {
		t.Fatal(err)
	}
	if rig.Record("origin").Float("x") != 0 {
		t.Error("clone shares nested records with original")
	}
	if clone.Equal(rig) {
		t.Error("records with different values compared equal")
	}

	// Contextual names do not take part in equality.
	a := rig.Record("origin").Clone()
	b := mustInstantiate(t, mustLookup(t, reg, "Vector3"), map[string]any{"x": 0, "y": 0, "z": 0})
	if a.ContextualName() == b.ContextualName() {
		t.Fatal("fixture should differ in contextual name")
	}
	if !a.Equal(b) {
		t.Error("records differing only in contextual name should be equal")
	}

	var nilRec *Record
	if nilRec.Clone() != nil || !nilRec.Equal(nil) || nilRec.Equal(a) {
		t.Error("nil record handling")
	}
}

func TestRecord_Getters(t *testing.T) {
	reg := newRigRegistry(t)
	rig := mustInstantiate(t, mustLookup(t, reg, "Rig"), rigInput())

	if _, ok := rig.Get("behaviorBoards"); !ok {
		t.Error("Get by external name failed")
	}
	if _, ok := rig.Get("nope"); ok {
		t.Error("Get(nope) should fail")
	}
	if rig.String("origin") != "" || rig.Int("name") != 0 || rig.Bool("name") || rig.Record("name") != nil {
		t.Error("typed getters should return zero values on kind mismatch")
	}
	if rig.Map("tags") != nil || rig.List("tags") != nil {
		t.Error("unset collections should be nil")
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	reg := newRigRegistry(t)
	board := mustInstantiate(t, mustLookup(t, reg, "BehaviorBoard"), map[string]any{
		"portName": "COM3",
		"pulseController": map[string]any{
			"pulseWidths": map[string]any{"PulseDO2": 2, "PulseDO1": 1},
		},
	})

	data, err := json.Marshal(board)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"deviceType":"BehaviorBoard","whoAmI":1216,"portName":"COM3",` +
		`"pulseController":{"outputPulseEnable":["DO1","DO2"],"pulseWidths":{"PulseDO1":1,"PulseDO2":2}}}`
	if string(data) != want {
		t.Errorf("MarshalJSON()\ngot:  %s\nwant: %s", data, want)
	}

	values := board.Values()
	if _, ok := values["pulseController"].(map[string]any); !ok {
		t.Errorf("Values() nested = %T", values["pulseController"])
	}
	if values["whoAmI"] != int64(1216) {
		t.Errorf("Values() whoAmI = %#v", values["whoAmI"])
	}
}

func TestRecordMap(t *testing.T) {
	reg := newRigRegistry(t)
	v := mustLookup(t, reg, "Vector3")
	one := mustInstantiate(t, v, map[string]any{"x": 1, "y": 1, "z": 1})

	m := NewRecordMap()
	m.Put("b", one)
	m.Put("a", one.Clone())
	m.Put("b", one.Clone())
	if got := m.Keys(); !equalStrings(got, []string{"b", "a"}) {
		t.Errorf("Keys() = %v, want insertion order", got)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"b":{"x":1,"y":1,"z":1},"a":{"x":1,"y":1,"z":1}}` {
		t.Errorf("MarshalJSON() = %s", data)
	}

	m.Delete("b")
	m.Delete("missing")
	if m.Len() != 1 {
		t.Errorf("Len() = %d", m.Len())
	}

	var visited []string
	m.Each(func(key string, _ *Record) bool {
		visited = append(visited, key)
		return false
	})
	if len(visited) != 1 {
		t.Errorf("Each visited %v", visited)
	}

	var empty *RecordMap
	if empty.Len() != 0 || !empty.Equal(NewRecordMap()) || m.Equal(empty) {
		t.Error("nil map handling")
	}
}
