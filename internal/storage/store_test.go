package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lmarek/carbonbox/internal/boxmodel"
)

func testRun(t *testing.T) (boxmodel.Params, *boxmodel.Trajectory) {
	t.Helper()
	p := boxmodel.Params{
		ReleaseRate: 0.01, BurialRate: 0.005, TempFactor: 0.02,
		InitRock: 1000, InitAtmo: 300, Steps: 10,
	}
	tr, err := boxmodel.Simulate(p)
	if err != nil {
		t.Fatal(err)
	}
	return p, tr
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	p, tr := testRun(t)
	diag := boxmodel.Diagnose(tr)

	runID, err := st.Save(p, tr, diag)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("id = %s, want %s", meta.ID, runID)
	}
	if meta.ReleaseRate != p.ReleaseRate || meta.Steps != p.Steps {
		t.Errorf("metadata params mismatch: %+v", meta)
	}
	if meta.Diagnostics["final_temp"] != diag.FinalTemp {
		t.Errorf("diagnostics not round-tripped: %v", meta.Diagnostics)
	}
}

func TestLoadTrajectoryRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	p, tr := testRun(t)
	runID, err := st.Save(p, tr, boxmodel.Diagnose(tr))
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}

	if loaded.Len() != tr.Len() {
		t.Fatalf("length = %d, want %d", loaded.Len(), tr.Len())
	}

	// CSV stores 6 decimal places.
	for i := 0; i < tr.Len(); i++ {
		if diff := loaded.Atmo[i] - tr.Atmo[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("atmo[%d] = %v, want ~%v", i, loaded.Atmo[i], tr.Atmo[i])
		}
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	p, tr := testRun(t)
	if _, err := st.Save(p, tr, boxmodel.Diagnose(tr)); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(p, tr, boxmodel.Diagnose(tr)); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("/nonexistent/data/dir")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("run_12345"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestWriteCSV(t *testing.T) {
	_, tr := testRun(t)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tr); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != tr.Len()+1 {
		t.Fatalf("expected %d lines, got %d", tr.Len()+1, len(lines))
	}
	if lines[0] != "step,rock,atmospheric,temperature" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0,1000.000000,300.000000,6.000000") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}

func TestExportJSONTo(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	p, tr := testRun(t)
	runID, err := st.Save(p, tr, boxmodel.Diagnose(tr))
	if err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := ExportJSONTo(&buf, meta, tr); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if data.ID != runID {
		t.Errorf("id = %s, want %s", data.ID, runID)
	}
	if len(data.Rock) != tr.Len() {
		t.Errorf("rock length = %d, want %d", len(data.Rock), tr.Len())
	}
}
