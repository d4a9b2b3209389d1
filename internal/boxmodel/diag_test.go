package boxmodel

import (
	"math"
	"testing"
)

func TestDiagnoseBaseline(t *testing.T) {
	p := baseParams()

	tr, err := Simulate(p)
	if err != nil {
		t.Fatal(err)
	}

	d := Diagnose(tr)

	if d.Diverged {
		t.Error("baseline parameters should not diverge")
	}
	if d.FinalTemp != tr.Temp[tr.Len()-1] {
		t.Errorf("final temp = %v, want %v", d.FinalTemp, tr.Temp[tr.Len()-1])
	}

	// Release outpaces burial at the start, so the atmosphere peaks after t=0.
	if d.PeakAtmoStep == 0 {
		t.Error("expected atmospheric peak after the initial step")
	}
	if d.PeakAtmo <= p.InitAtmo {
		t.Errorf("peak atmo = %v, want above initial %v", d.PeakAtmo, p.InitAtmo)
	}

	// Burial only removes carbon, so the combined budget shrinks.
	if d.BudgetDrift >= 0 {
		t.Errorf("budget drift = %v, want negative", d.BudgetDrift)
	}
}

func TestDiagnoseDiverged(t *testing.T) {
	p := baseParams()
	p.ReleaseRate = 3.0
	p.Steps = 2000

	tr, err := Simulate(p)
	if err != nil {
		t.Fatal(err)
	}

	d := Diagnose(tr)
	if !d.Diverged {
		t.Error("expected diverged flag with release rate 3.0 over 2000 steps")
	}
}

func TestDiagnoseNonFinite(t *testing.T) {
	tr := &Trajectory{
		Rock: []float64{1, math.NaN()},
		Atmo: []float64{1, 2},
		Temp: []float64{1, 2},
	}

	if d := Diagnose(tr); !d.Diverged {
		t.Error("NaN in trajectory must set the diverged flag")
	}
}

func TestDiagnoseEmpty(t *testing.T) {
	if d := Diagnose(nil); d != (Diagnostics{}) {
		t.Errorf("Diagnose(nil) = %+v, want zero value", d)
	}
	if d := Diagnose(&Trajectory{}); d != (Diagnostics{}) {
		t.Errorf("Diagnose(empty) = %+v, want zero value", d)
	}
}

func TestDiagnosticsMap(t *testing.T) {
	d := Diagnostics{FinalTemp: 6.17, PeakAtmo: 320, PeakAtmoStep: 12, Diverged: true}
	m := d.Map()

	if m["final_temp"] != 6.17 {
		t.Errorf("final_temp = %v", m["final_temp"])
	}
	if m["peak_atmo_step"] != 12 {
		t.Errorf("peak_atmo_step = %v", m["peak_atmo_step"])
	}
	if m["diverged"] != 1.0 {
		t.Errorf("diverged = %v, want 1", m["diverged"])
	}
}
