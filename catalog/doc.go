// Package catalog defines the record shapes of a behavioural rig: data types, display
// calibration, Harp and serial devices, cameras, and the rig and experiment roots.
//
//	reg := catalog.New()
//	rig, _ := reg.Lookup(catalog.TestRig)
//	rec, err := rig.Instantiate(doc)
package catalog
