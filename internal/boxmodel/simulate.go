package boxmodel

import "fmt"

// Params holds the six knobs of one simulation run. Values are copied in,
// so a Params is effectively immutable for the run that receives it.
//
// Rates are not validated: the tool is exploratory, and out-of-range values
// (ReleaseRate > 1, negative rates) are allowed to produce the negative or
// diverging reservoirs they imply.
type Params struct {
	ReleaseRate float64 // c1: fraction of rock carbon released per step
	BurialRate  float64 // c2: fraction of atmospheric carbon buried per step
	TempFactor  float64 // c3: temperature proxy per unit atmospheric carbon
	InitRock    float64 // initial rock reservoir
	InitAtmo    float64 // initial atmospheric reservoir
	Steps       int     // trajectory length, must be >= 1
}

// Trajectory is the output of one run: three equal-length series indexed by
// the same discrete time axis 0..Steps-1. It is owned by the caller and
// never shared or cached across runs.
type Trajectory struct {
	Rock []float64
	Atmo []float64
	Temp []float64
}

// Len returns the number of time steps in the trajectory.
func (tr *Trajectory) Len() int { return len(tr.Rock) }

// Simulate runs the weathering recurrence over p.Steps discrete steps.
//
// Each step reads only the previous time slice:
//
//	rock[t] = rock[t-1] - c1*rock[t-1]
//	atmo[t] = atmo[t-1] + c1*rock[t-1] - c2*atmo[t-1]
//	temp[t] = c3*atmo[t-1]
//
// The atmosphere term uses the pre-update rock value, and temperature lags
// the atmosphere by one step, matching the seed temp[0] = c3*atmo[0].
// Intermediate values are never clamped or checked; pathological parameters
// diverge exactly as the arithmetic dictates.
func Simulate(p Params) (*Trajectory, error) {
	if p.Steps < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSteps, p.Steps)
	}

	tr := &Trajectory{
		Rock: make([]float64, p.Steps),
		Atmo: make([]float64, p.Steps),
		Temp: make([]float64, p.Steps),
	}

	tr.Rock[0] = p.InitRock
	tr.Atmo[0] = p.InitAtmo
	tr.Temp[0] = p.TempFactor * p.InitAtmo

	for t := 1; t < p.Steps; t++ {
		rock, atmo := tr.Rock[t-1], tr.Atmo[t-1]
		tr.Rock[t] = rock - p.ReleaseRate*rock
		tr.Atmo[t] = atmo + p.ReleaseRate*rock - p.BurialRate*atmo
		tr.Temp[t] = p.TempFactor * atmo
	}

	return tr, nil
}
