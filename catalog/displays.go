package catalog

import "github.com/labrig/rigging"

func vec(x, y, z float64) map[string]any {
	return map[string]any{"x": x, "y": y, "z": z}
}

func extrinsics(rotation, translation map[string]any) map[string]any {
	return map[string]any{
		"extrinsics": map[string]any{"rotation": rotation, "translation": translation},
	}
}

func defineDisplays(reg *rigging.Registry) {
	nonNegative := func(t rigging.Type) rigging.TypeRef { return rigging.Of(t.AtLeast(0)) }

	reg.MustDefine(DisplayIntrinsics, []rigging.Field{
		{Name: "frame_width", Type: nonNegative(rigging.Int), Optional: true, Default: 1920, Description: "Frame width (px)"},
		{Name: "frame_height", Type: nonNegative(rigging.Int), Optional: true, Default: 1080, Description: "Frame height (px)"},
		{Name: "display_width", Type: nonNegative(rigging.Double), Optional: true, Default: 20.0, Description: "Display width (cm)"},
		{Name: "display_height", Type: nonNegative(rigging.Double), Optional: true, Default: 15.0, Description: "Display height (cm)"},
	})

	reg.MustDefine(DisplayExtrinsics, []rigging.Field{
		{Name: "rotation", Type: rigging.RecordOf(Vector3), Optional: true, Default: vec(0, 0, 0), Description: "Rotation vector (radians)"},
		{Name: "translation", Type: rigging.RecordOf(Vector3), Optional: true, Default: vec(0, 1.309016, -13.27), Description: "Translation (in cm)"},
	})

	reg.MustDefine(DisplayCalibration, []rigging.Field{
		{Name: "intrinsics", Type: rigging.RecordOf(DisplayIntrinsics), Optional: true, Default: map[string]any{}, Description: "Intrinsics"},
		{Name: "extrinsics", Type: rigging.RecordOf(DisplayExtrinsics), Optional: true, Default: map[string]any{}, Description: "Extrinsics"},
	})

	reg.MustDefine(DisplaysCalibration, []rigging.Field{
		{
			Name:        "left",
			Type:        rigging.RecordOf(DisplayCalibration),
			Optional:    true,
			Default:     extrinsics(vec(0, 1.0472, 0), vec(-16.6917756, 1.309016, -3.575264)),
			Description: "Left display calibration",
		},
		{
			Name:        "center",
			Type:        rigging.RecordOf(DisplayCalibration),
			Optional:    true,
			Default:     extrinsics(vec(0, 0, 0), vec(0, 1.309016, -13.27)),
			Description: "Center display calibration",
		},
		{
			Name:        "right",
			Type:        rigging.RecordOf(DisplayCalibration),
			Optional:    true,
			Default:     extrinsics(vec(0, -1.0472, 0), vec(16.6917756, 1.309016, -3.575264)),
			Description: "Right display calibration",
		},
	})
}
