// Package boxmodel implements a two-reservoir carbon cycle with a
// temperature feedback proxy.
//
// The model tracks three coupled variables over discrete time steps:
//
//   - Rock carbon: crustal reservoir, depleted by weathering release
//   - Atmospheric carbon: gains from rock release, loses to burial
//   - Temperature: a linear proxy proportional to atmospheric carbon
//
// # Example
//
//	p := boxmodel.Params{
//		ReleaseRate: 0.01,
//		BurialRate:  0.005,
//		TempFactor:  0.02,
//		InitRock:    1000,
//		InitAtmo:    300,
//		Steps:       500,
//	}
//	tr, _ := boxmodel.Simulate(p)
//
// # Thread Safety
//
// Simulate is a pure function and safe to call from any number of
// goroutines; every call returns a fresh Trajectory. For parallel parameter
// exploration see the sweep package.
package boxmodel
