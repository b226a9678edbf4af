// Package device describes the simulated structure: materials, the material
// library they are registered in, and the ordered regions that place them on
// the 1-D axis.
//
//	lib := device.NewLibrary()
//	lib.Add(device.Vacuum())
//	dev := device.New("slab")
//	dev.AddRegion(device.Region{Name: "left", XStart: 0, XEnd: 1e-6, Material: "vacuum"})
//
// Device and Material values are read-only once a solver has been built from
// them.
package device
