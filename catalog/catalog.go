package catalog

import (
	"github.com/labrig/rigging"
)

// Record definition and variant group names.
const (
	Vector3             = "Vector3"
	StepperPositions    = "StepperPositions"
	SpoutRigPosition    = "SpoutRigPosition"
	SoftwareEvent       = "SoftwareEvent"
	DataTypes           = "DataTypes"
	DisplayIntrinsics   = "DisplayIntrinsics"
	DisplayExtrinsics   = "DisplayExtrinsics"
	DisplayCalibration  = "DisplayCalibration"
	DisplaysCalibration = "DisplaysCalibration"

	Device                     = "Device"
	Screen                     = "Screen"
	SerialDevice               = "SerialDevice"
	HarpDevice                 = "HarpDevice"
	HarpClockSynchronizer      = "HarpClockSynchronizer"
	HarpTimestampGeneratorGen3 = "HarpTimestampGeneratorGen3"
	HarpCameraControllerGen2   = "HarpCameraControllerGen2"
	HarpBehavior               = "HarpBehavior"
	LicketySplit               = "LicketySplit"
	BehaviorBoard              = "BehaviorBoard"
	ArduinoDevice              = "ArduinoDevice"
	StepperDriver              = "StepperDriver"
	SerialDeviceModule         = "SerialDeviceModule"

	CameraController   = "CameraController"
	PulseWidths        = "PulseWidths"
	PulseController    = "PulseController"
	RunningWheelModule = "RunningWheelModule"
	LedDriver          = "LedDriver"

	Camera            = "Camera"
	SpinnakerCamera   = "SpinnakerCamera"
	ArducamCamera     = "ArducamCamera"
	CameraModule      = "CameraModule"
	CameraAcquisition = "CameraAcquisition"

	ExperimentBase = "ExperimentBase"
	TestRig        = "TestRig"
	Experiment     = "Experiment"
	TestExperiment = "TestExperiment"
)

// Roots lists the definitions exported as standalone schema documents.
var Roots = []string{TestExperiment, TestRig, DataTypes}

// Bundles lists roots that only gather shared definitions. Their documents are exported
// without root properties.
var Bundles = []string{DataTypes}

// IsBundle reports whether name is listed in Bundles.
func IsBundle(name string) bool {
	for _, b := range Bundles {
		if b == name {
			return true
		}
	}
	return false
}

// New returns a registry holding the full catalog. Definitions are registered in
// dependency order; a definition error here is a programming error and panics.
func New(opts ...rigging.RegistryOption) *rigging.Registry {
	reg := rigging.NewRegistry(opts...)
	defineDataTypes(reg)
	defineDisplays(reg)
	defineControllers(reg)
	defineDevices(reg)
	defineCameras(reg)
	defineRig(reg)
	return reg
}

func mustLookup(reg *rigging.Registry, name string) *rigging.Definition {
	def, ok := reg.Lookup(name)
	if !ok {
		panic("catalog: " + name + " is not defined")
	}
	return def
}
