package catalog

import "github.com/labrig/rigging"

func defineDevices(reg *rigging.Registry) {
	device := reg.MustDefine(Device, []rigging.Field{
		{Name: "device_type", Type: rigging.Of(rigging.String), Description: "Device type"},
	}, rigging.Describe("The base class for creating hardware device models."))

	reg.MustDefine(Screen, []rigging.Field{
		{Name: "device_type", Type: rigging.Literal("Screen"), Description: "Device type"},
		{Name: "display_index", Type: rigging.Of(rigging.Int), Optional: true, Default: 1, Description: "Display index"},
		{Name: "target_render_frequency", Type: rigging.Of(rigging.Double), Optional: true, Default: 60.0, Description: "Target render frequency"},
		{Name: "target_update_frequency", Type: rigging.Of(rigging.Double), Optional: true, Default: 120.0, Description: "Target update frequency"},
		{Name: "texture_assets_directory", Type: rigging.Of(rigging.String), Optional: true, Default: "Textures", Description: "Calibration directory"},
		{Name: "calibration", Type: rigging.RecordOf(DisplaysCalibration), Optional: true, Default: map[string]any{}, Description: "Screen calibration"},
		{Name: "brightness", Type: rigging.Of(rigging.Double.WithRange(-1, 1)), Optional: true, Default: 0.0, Description: "Brightness"},
		{Name: "contrast", Type: rigging.Of(rigging.Double.WithRange(-1, 1)), Optional: true, Default: 1.0, Description: "Contrast"},
	}, rigging.Extends(device))

	serial := reg.MustDefine(SerialDevice, []rigging.Field{
		{Name: "port_name", Type: rigging.Of(rigging.String), Description: "The name of the device serial port.", Examples: []any{"COMx"}},
	}, rigging.Extends(device), rigging.Describe("A base class for creating serial device models."))

	harp := reg.MustDefine(HarpDevice, []rigging.Field{
		{Name: "who_am_i", Type: rigging.Of(rigging.Int), Optional: true, Description: "The unique identifier for the device type."},
		{Name: "port_name", Type: rigging.Of(rigging.String), Description: "The name of the device serial port.", Examples: []any{"COM"}},
	}, rigging.Extends(device))

	harpModels := []struct {
		name     string
		whoAmI   int
		describe string
	}{
		{HarpClockSynchronizer, 1152, ""},
		{HarpTimestampGeneratorGen3, 1158, ""},
		{HarpCameraControllerGen2, 1170, ""},
		{HarpBehavior, 1216, ""},
		{LicketySplit, 1400, "Represents a Harp LicketySplit device."},
	}
	for _, m := range harpModels {
		reg.MustDefine(m.name, harpIdentity(m.name, m.whoAmI), rigging.Extends(harp), rigging.Describe(m.describe))
	}

	reg.MustDefine(BehaviorBoard, append(harpIdentity(BehaviorBoard, 1216),
		rigging.Field{
			Name:        "pulse_controller",
			Type:        rigging.RecordOf(PulseController),
			Optional:    true,
			Description: "Optional PulseController module for generating digital output pulses.",
		},
		rigging.Field{
			Name:        "camera_controller",
			Type:        rigging.RecordOf(CameraController),
			Optional:    true,
			Description: "Optional CameraController module for emitting camera trigger pulses.",
		},
		rigging.Field{
			Name:        "running_wheel",
			Type:        rigging.RecordOf(RunningWheelModule),
			Optional:    true,
			Description: "Optional RunningWheelModule module to define wheel geometry.",
		},
	), rigging.Extends(harp), rigging.Describe("Represents a Harp Behavior Board device."))

	arduino := reg.MustDefine(ArduinoDevice, []rigging.Field{
		{Name: "device_type", Type: rigging.Literal("Arduino")},
		{Name: "baud_rate", Alias: "BaudRate", Type: rigging.Of(rigging.Int), Description: "Baud rate for the Arduino serial connection."},
		{
			Name:        "sampling_interval",
			Alias:       "SamplingInterval",
			Type:        rigging.Of(rigging.Int),
			Description: "Sampling interval, in milliseconds, between analog and I2C measurements.",
		},
		{Name: "led_driver", Type: rigging.RecordOf(LedDriver), Optional: true, Description: "Optional LedDriver module for generating digital output pulses."},
	}, rigging.Extends(serial), rigging.Describe("Represents an Arduino serial device used in Bonsai workflows."))

	stepper := reg.MustDefine(StepperDriver, []rigging.Field{
		{Name: "device_type", Type: rigging.Literal("StepperDriver")},
		{Name: "motor_count", Type: rigging.Of(rigging.Byte.WithRange(1, 5)), Optional: true, Default: 5, Description: "Number of stepper motors driven by the board."},
		{
			Name:        "spout_positions",
			Type:        rigging.RecordOf(SpoutRigPosition),
			Optional:    true,
			Default:     map[string]any{},
			Description: "Named absolute positions of the spout rig.",
		},
	}, rigging.Extends(serial), rigging.Describe("Represents a serial stepper motor driver for the spout rig."))

	reg.MustDefineVariants(SerialDeviceModule, "device_type", []*rigging.Definition{arduino, stepper},
		rigging.Describe("Auxiliary serial devices, discriminated by device type."))
}

// harpIdentity fixes the device type and WhoAmI register of a Harp model.
func harpIdentity(deviceType string, whoAmI int) []rigging.Field {
	return []rigging.Field{
		{Name: "device_type", Type: rigging.Literal(deviceType)},
		{Name: "who_am_i", Type: rigging.Literal(whoAmI)},
	}
}
