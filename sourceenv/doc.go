// Package sourceenv loads rig document overlays from environment variables.
//
// Key normalization: FOO__BAR → foo.bar, FOO_BAR → foo_bar. Dotted keys are nested,
// so variables address individual fields of a rig document by internal name.
// Values arrive as rigging.Text and take the type of the field they bind to.
//
// Example:
//
//	source := sourceenv.New(sourceenv.Options{Prefix: "RIG_"})
//	loader := rigging.NewLoader(rigDef).WithSource(source)
package sourceenv
