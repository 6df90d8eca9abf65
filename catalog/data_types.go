package catalog

import "github.com/labrig/rigging"

func defineDataTypes(reg *rigging.Registry) {
	reg.MustDefine(Vector3, []rigging.Field{
		{Name: "x", Type: rigging.Of(rigging.Double), Description: "X coordinate of the point."},
		{Name: "y", Type: rigging.Of(rigging.Double), Description: "Y coordinate of the point."},
		{Name: "z", Type: rigging.Of(rigging.Double), Description: "Z coordinate of the point."},
	})

	reg.MustDefine(StepperPositions, []rigging.Field{
		{Name: "left_elevation", Type: rigging.Of(rigging.Int), Description: "Left spout elevation axis absolute position (steps). Maps to motor 1"},
		{Name: "right_elevation", Type: rigging.Of(rigging.Int), Description: "Right spout elevation axis absolute position (steps). Maps to motor 2"},
		{Name: "right_radial", Type: rigging.Of(rigging.Int), Description: "Right spout radial axis (in/out) absolute position (steps). Maps to motor 3"},
		{Name: "left_radial", Type: rigging.Of(rigging.Int), Description: "Left spout radial axis (in/out) absolute position (steps). Maps to motor 4"},
		{Name: "base_transverse", Type: rigging.Of(rigging.Int), Description: "Base transverse axis absolute position (steps). Maps to motor 5"},
	}, rigging.Describe("Absolute target position for the 5-axis spout rig, expressed in task-relative axes."))

	reg.MustDefine(SpoutRigPosition, []rigging.Field{
		{
			Name:        "positions",
			Type:        rigging.MapOf(rigging.RecordOf(StepperPositions)),
			Optional:    true,
			Default:     map[string]any{},
			Description: "Named absolute positions of the lick spout stage stepper rig, keyed by a string identifier.",
			Examples: []any{map[string]any{
				"home":     positions(0, 0, 0, 0, 0),
				"both_in":  positions(1000, 1000, 2000, 2000, 500),
				"both_out": positions(1000, 1000, 1000, 1000, 500),
			}},
		},
	}, rigging.Describe("Named absolute positions, e.g. home, both_in, both_out."))

	reg.MustDefine(SoftwareEvent, []rigging.Field{
		{Name: "name", Type: rigging.Of(rigging.String), Description: "The name of the event."},
		{Name: "timestamp", Type: rigging.Of(rigging.Double), Optional: true, Description: "The timestamp of the event."},
		{
			Name:        "timestamp_source",
			Type:        rigging.Of(rigging.TimestampSource),
			Optional:    true,
			Default:     "null",
			Description: "The source of the timestamp. Typically either a harp device or on the visual render loop",
		},
		{Name: "frame_index", Type: rigging.Of(rigging.Int.AtLeast(0)), Optional: true, Description: "The frame index of the event."},
		{Name: "frame_timestamp", Type: rigging.Of(rigging.Double), Optional: true, Description: "The timestamp of the frame."},
		{Name: "data", Type: rigging.AnyValue(), Optional: true, Description: "The data payload of the event."},
	}, rigging.Describe("A software event is a generic event that can be used to track any event that occurs in the software."))

	reg.MustDefine(DataTypes, []rigging.Field{
		{Name: "vector3", Type: rigging.RecordOf(Vector3)},
		{Name: "software_event", Type: rigging.RecordOf(SoftwareEvent)},
		{Name: "spout_rig_position", Type: rigging.RecordOf(SpoutRigPosition)},
	})
}

func positions(leftElevation, rightElevation, rightRadial, leftRadial, baseTransverse int) map[string]any {
	return map[string]any{
		"left_elevation":  leftElevation,
		"right_elevation": rightElevation,
		"right_radial":    rightRadial,
		"left_radial":     leftRadial,
		"base_transverse": baseTransverse,
	}
}
