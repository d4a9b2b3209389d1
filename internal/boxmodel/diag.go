package boxmodel

import "math"

// divergenceThreshold marks a reservoir as runaway once its magnitude is
// far beyond any plausible carbon budget.
const divergenceThreshold = 1e12

// Diagnostics summarizes a completed trajectory for run listings and sweeps.
type Diagnostics struct {
	FinalTemp    float64 // temperature proxy at the last step
	PeakAtmo     float64 // maximum atmospheric carbon reached
	PeakAtmoStep int     // step at which the peak occurred
	BudgetDrift  float64 // (rock+atmo) at end minus start; burial is a sink
	Diverged     bool    // any non-finite or runaway value
}

// Diagnose computes summary values over a trajectory. A nil or empty
// trajectory yields the zero value.
func Diagnose(tr *Trajectory) Diagnostics {
	if tr == nil || tr.Len() == 0 {
		return Diagnostics{}
	}

	n := tr.Len()
	d := Diagnostics{
		FinalTemp: tr.Temp[n-1],
		PeakAtmo:  tr.Atmo[0],
	}

	for t := 0; t < n; t++ {
		if tr.Atmo[t] > d.PeakAtmo {
			d.PeakAtmo = tr.Atmo[t]
			d.PeakAtmoStep = t
		}
		for _, v := range []float64{tr.Rock[t], tr.Atmo[t], tr.Temp[t]} {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > divergenceThreshold {
				d.Diverged = true
			}
		}
	}

	d.BudgetDrift = (tr.Rock[n-1] + tr.Atmo[n-1]) - (tr.Rock[0] + tr.Atmo[0])
	return d
}

// Map flattens the diagnostics for storage in run metadata.
func (d Diagnostics) Map() map[string]float64 {
	diverged := 0.0
	if d.Diverged {
		diverged = 1.0
	}
	return map[string]float64{
		"final_temp":     d.FinalTemp,
		"peak_atmo":      d.PeakAtmo,
		"peak_atmo_step": float64(d.PeakAtmoStep),
		"budget_drift":   d.BudgetDrift,
		"diverged":       diverged,
	}
}
