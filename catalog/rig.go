package catalog

import "github.com/labrig/rigging"

func defineRig(reg *rigging.Registry) {
	base := reg.MustDefine(ExperimentBase, []rigging.Field{
		{Name: "workflow", Type: rigging.Of(rigging.String), Description: "Path to the workflow running the experiment."},
		{Name: "commit", Type: rigging.Of(rigging.String), Description: "Commit hash of the experiment/rig repo."},
		{Name: "repository_url", Type: rigging.Of(rigging.String), Description: "The URL of the git repository used to version experiment source code."},
	}, rigging.Describe("The base class for creating experiment models."))

	reg.MustDefine(TestRig, []rigging.Field{
		{
			Name:        "behavior_boards",
			Type:        rigging.MapOf(rigging.RecordOf(BehaviorBoard)),
			Description: "Mapping from logical names to BehaviorBoard devices (e.g. 'main', 'aux').",
		},
		{
			Name:        "cameras",
			Type:        rigging.MapOf(rigging.VariantOf(CameraModule)),
			Description: "Mapping from camera role names to camera configurations (e.g. 'body', 'face', 'top').",
		},
		{
			Name:        "arduinos",
			Type:        rigging.MapOf(rigging.RecordOf(ArduinoDevice)),
			Optional:    true,
			Description: "Optional mapping from logical names to Arduino devices used in the dome (e.g. for LED drivers or other IO).",
		},
		{
			Name:        "serial_devices",
			Type:        rigging.MapOf(rigging.VariantOf(SerialDeviceModule)),
			Optional:    true,
			Description: "Optional mapping from logical names to auxiliary serial devices used in the dome.",
		},
		{Name: "screen", Type: rigging.RecordOf(Screen), Optional: true, Description: "Optional visual stimulus screen."},
	})

	reg.MustDefine(Experiment, []rigging.Field{
		{Name: "rig", Type: rigging.RecordOf(TestRig), Description: "Rig the experiment runs on."},
	}, rigging.Extends(base))

	reg.MustDefine(TestExperiment, []rigging.Field{
		{Name: "experiment", Type: rigging.RecordOf(Experiment), Optional: true},
	})
}
