package rigging

import "testing"

// newRigRegistry builds a small rig model shared by the package tests:
// a Device hierarchy, a camera variant group and a Rig root holding maps of both.
func newRigRegistry(t testing.TB) *Registry {
	t.Helper()
	reg := NewRegistry()

	reg.MustDefine("Vector3", []Field{
		{Name: "x", Type: Of(Double)},
		{Name: "y", Type: Of(Double)},
		{Name: "z", Type: Of(Double)},
	})

	device := reg.MustDefine("Device", []Field{
		{Name: "device_type", Type: Of(String)},
	})
	harp := reg.MustDefine("HarpDevice", []Field{
		{Name: "who_am_i", Type: Of(Int), Optional: true},
		{Name: "port_name", Type: Of(String)},
	}, Extends(device))

	reg.MustDefine("PulseWidths", []Field{
		{Name: "pulse_do1", Alias: "PulseDO1", Type: Of(UShort)},
		{Name: "pulse_do2", Alias: "PulseDO2", Type: Of(UShort)},
	})
	reg.MustDefine("PulseController", []Field{
		{Name: "output_pulse_enable", Type: ListOf(Of(String)), Optional: true, Default: []any{"DO1", "DO2"}},
		{Name: "pulse_widths", Type: RecordOf("PulseWidths")},
	})
	reg.MustDefine("BehaviorBoard", []Field{
		{Name: "device_type", Type: Literal("BehaviorBoard")},
		{Name: "who_am_i", Type: Literal(1216)},
		{Name: "pulse_controller", Type: RecordOf("PulseController"), Optional: true},
	}, Extends(harp), Describe("Harp behavior board"))

	camera := reg.MustDefine("Camera", []Field{
		{Name: "camera_type", Type: Of(String)},
		{Name: "gain", Type: Of(Double.WithRange(0, 48)), Optional: true, Default: 0.0},
	})
	arducam := reg.MustDefine("ArducamCamera", []Field{
		{Name: "camera_type", Type: Literal("Arducam")},
		{Name: "index", Type: Of(Int.AtLeast(0)), Optional: true, Default: 0},
	}, Extends(camera))
	spinnaker := reg.MustDefine("SpinnakerCamera", []Field{
		{Name: "camera_type", Type: Literal("Spinnaker")},
		{Name: "serial_number", Type: Of(String)},
	}, Extends(camera))
	reg.MustDefineVariants("CameraModule", "camera_type", []*Definition{arducam, spinnaker})

	reg.MustDefine("Rig", []Field{
		{Name: "name", Type: Of(String)},
		{Name: "behavior_boards", Type: MapOf(RecordOf("BehaviorBoard"))},
		{Name: "cameras", Type: MapOf(VariantOf("CameraModule")), Optional: true},
		{Name: "origin", Type: RecordOf("Vector3"), Optional: true, Default: map[string]any{"x": 0, "y": 0, "z": 0}},
		{Name: "tags", Type: ListOf(Of(String)), Optional: true},
		{Name: "payload", Type: AnyValue(), Optional: true},
	})

	return reg
}

func mustLookup(t testing.TB, reg *Registry, name string) *Definition {
	t.Helper()
	def, ok := reg.Lookup(name)
	if !ok {
		t.Fatalf("%s is not defined", name)
	}
	return def
}

func rigInput() map[string]any {
	return map[string]any{
		"name": "rig-a",
		"behaviorBoards": map[string]any{
			"main": map[string]any{
				"portName": "COM3",
				"pulseController": map[string]any{
					"pulseWidths": map[string]any{"PulseDO1": 10, "PulseDO2": 20},
				},
			},
		},
		"cameras": map[string]any{
			"body": map[string]any{"cameraType": "Spinnaker", "serialNumber": "1234"},
		},
	}
}

func mustInstantiate(t testing.TB, def *Definition, values map[string]any) *Record {
	t.Helper()
	rec, err := def.Instantiate(values)
	if err != nil {
		t.Fatalf("Instantiate(%s) error = %v", def.Name(), err)
	}
	return rec
}

func fieldCodes(err error) map[string]string {
	ve, ok := err.(*ValidationError)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(ve.FieldErrors))
	for _, fe := range ve.FieldErrors {
		out[fe.FieldPath] = fe.Code
	}
	return out
}
