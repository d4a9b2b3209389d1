package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/lmarek/carbonbox/internal/boxmodel"
)

type ExportData struct {
	ID          string             `json:"id"`
	ReleaseRate float64            `json:"release_rate"`
	BurialRate  float64            `json:"burial_rate"`
	TempFactor  float64            `json:"temp_factor"`
	InitRock    float64            `json:"init_rock"`
	InitAtmo    float64            `json:"init_atmo"`
	Steps       int                `json:"steps"`
	Rock        []float64          `json:"rock"`
	Atmo        []float64          `json:"atmospheric"`
	Temp        []float64          `json:"temperature"`
	Diagnostics map[string]float64 `json:"diagnostics"`
}

// ExportJSONTo writes a run as a single self-contained JSON document.
func ExportJSONTo(out io.Writer, meta *RunMetadata, tr *boxmodel.Trajectory) error {
	data := ExportData{
		ID:          meta.ID,
		ReleaseRate: meta.ReleaseRate,
		BurialRate:  meta.BurialRate,
		TempFactor:  meta.TempFactor,
		InitRock:    meta.InitRock,
		InitAtmo:    meta.InitAtmo,
		Steps:       meta.Steps,
		Rock:        tr.Rock,
		Atmo:        tr.Atmo,
		Temp:        tr.Temp,
		Diagnostics: meta.Diagnostics,
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes the document to a file path.
func ExportJSON(path string, meta *RunMetadata, tr *boxmodel.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSONTo(file, meta, tr)
}
