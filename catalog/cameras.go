package catalog

import "github.com/labrig/rigging"

// ColorProcessing selects the Spinnaker color pipeline.
var ColorProcessing = rigging.EnumType("ColorProcessing", "Default", "NoColorProcessing")

func defineCameras(reg *rigging.Registry) {
	camera := reg.MustDefine(Camera, []rigging.Field{
		{Name: "device_type", Type: rigging.Literal("Camera"), Description: "Device type"},
		{Name: "camera_type", Type: rigging.Of(rigging.String), Description: "Camera driver family"},
		{Name: "exposure", Type: rigging.Of(rigging.Int.AtLeast(0)), Optional: true, Default: 19000, Description: "Exposure time (us)"},
		{Name: "gain", Type: rigging.Of(rigging.Double.WithRange(0, 48)), Optional: true, Default: 0.0, Description: "Gain (dB)"},
		{Name: "binning", Type: rigging.Of(rigging.Int.WithRange(1, 4)), Optional: true, Default: 1, Description: "Pixel binning"},
	}, rigging.Extends(mustLookup(reg, Device)), rigging.Describe("The base class for camera models."))

	spinnaker := reg.MustDefine(SpinnakerCamera, []rigging.Field{
		{Name: "camera_type", Type: rigging.Literal("Spinnaker")},
		{Name: "serial_number", Type: rigging.Of(rigging.String), Description: "Camera serial number"},
		{
			Name:        "color_processing",
			Type:        rigging.Of(ColorProcessing),
			Optional:    true,
			Default:     "Default",
			Description: "Color processing mode",
		},
	}, rigging.Extends(camera), rigging.Describe("Represents a Spinnaker (FLIR) camera."))

	arducam := reg.MustDefine(ArducamCamera, []rigging.Field{
		{Name: "camera_type", Type: rigging.Literal("Arducam")},
		{Name: "index", Type: rigging.Of(rigging.Int.AtLeast(0)), Optional: true, Default: 0, Description: "Capture device index"},
	}, rigging.Extends(camera), rigging.Describe("Represents an Arducam USB camera."))

	reg.MustDefineVariants(CameraModule, "camera_type", []*rigging.Definition{arducam, spinnaker},
		rigging.Describe("Cameras supported by the CameraAcquisition workflow."))

	reg.MustDefine(CameraAcquisition, []rigging.Field{
		{Name: "camera", Type: rigging.VariantOf(CameraModule), Description: "Configuration for the camera used by the CameraAcquisition workflow."},
	}, rigging.Describe("Represents the CameraAcquisition workflow module, with or without a trigger subject input."))
}
