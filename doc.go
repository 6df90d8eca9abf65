// Package rigging provides typed rig-configuration records with validation, inheritance,
// discriminated unions and schema export.
//
// Quick Start:
//
//	reg := rigging.NewRegistry()
//	harp := reg.MustDefine("HarpDevice", []rigging.Field{
//	    {Name: "device_type", Type: rigging.Of(rigging.String)},
//	    {Name: "who_am_i", Type: rigging.Of(rigging.Int)},
//	    {Name: "port_name", Type: rigging.Of(rigging.String)},
//	})
//	behavior := reg.MustDefine("HarpBehavior", []rigging.Field{
//	    {Name: "device_type", Type: rigging.Literal("Behavior")},
//	    {Name: "who_am_i", Type: rigging.Literal(1216)},
//	}, rigging.Extends(harp))
//
//	rec, err := behavior.Instantiate(map[string]any{"portName": "COM3"})
//
// Records load from layered sources with NewLoader (see sourcefile and sourceenv),
// and Export turns any definition into a JSON Schema document.
//
// See example_test.go for detailed usage.
package rigging
