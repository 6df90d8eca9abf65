// Package sourcefile loads rig documents from YAML, JSON, TOML or HCL files.
//
// Format is auto-detected from extension (.yaml, .json, .toml, .hcl).
// Documents are returned as nested trees; the loader merges them field by field.
//
// Example:
//
//	source := sourcefile.New("rig.yaml", sourcefile.Options{Required: true})
//	loader := rigging.NewLoader(rigDef).WithSource(source)
package sourcefile
