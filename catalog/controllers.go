package catalog

import "github.com/labrig/rigging"

func defineControllers(reg *rigging.Registry) {
	reg.MustDefine(CameraController, []rigging.Field{
		{Name: "trigger_frequency", Type: rigging.Of(rigging.Int), Description: "Camera trigger frequency (Hz)", Examples: []any{50}},
	})

	pulseWidth := func(n string) rigging.Field {
		return rigging.Field{
			Name:        "pulse_do" + n,
			Alias:       "PulseDO" + n,
			Type:        rigging.Of(rigging.UShort),
			Description: "Pulse width of digital output " + n + " (ms)",
		}
	}
	reg.MustDefine(PulseWidths, []rigging.Field{pulseWidth("1"), pulseWidth("2"), pulseWidth("3")})

	reg.MustDefine(PulseController, []rigging.Field{
		{
			Name:        "output_pulse_enable",
			Type:        rigging.ListOf(rigging.Of(rigging.String)),
			Optional:    true,
			Default:     []any{"DO1", "DO2", "DO3"},
			Description: "Digital outputs driven by the pulse generator",
		},
		{Name: "pulse_widths", Type: rigging.RecordOf(PulseWidths), Description: "Pulse widths per digital output"},
	})

	reg.MustDefine(RunningWheelModule, []rigging.Field{
		{Name: "counts_per_rev", Type: rigging.Of(rigging.Int), Description: "Encoder counts per wheel revolution"},
		{Name: "wheel_diameter_mm", Type: rigging.Of(rigging.Double), Description: "Wheel diameter (mm)"},
	})

	reg.MustDefine(LedDriver, []rigging.Field{
		{Name: "digital_out_pin", Type: rigging.Of(rigging.Int), Description: "Digital output pin driving the LED"},
	})
}
