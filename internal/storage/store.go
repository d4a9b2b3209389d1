package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lmarek/carbonbox/internal/boxmodel"
)

// Store keeps one directory per run under a base data directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	ReleaseRate float64            `json:"release_rate"`
	BurialRate  float64            `json:"burial_rate"`
	TempFactor  float64            `json:"temp_factor"`
	InitRock    float64            `json:"init_rock"`
	InitAtmo    float64            `json:"init_atmo"`
	Steps       int                `json:"steps"`
	Diagnostics map[string]float64 `json:"diagnostics"`
}

// Save writes metadata.json and trajectory.csv for a completed run and
// returns the generated run id.
func (s *Store) Save(p boxmodel.Params, tr *boxmodel.Trajectory, diag boxmodel.Diagnostics) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		ReleaseRate: p.ReleaseRate,
		BurialRate:  p.BurialRate,
		TempFactor:  p.TempFactor,
		InitRock:    p.InitRock,
		InitAtmo:    p.InitAtmo,
		Steps:       p.Steps,
		Diagnostics: diag.Map(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, tr); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteCSV emits the trajectory as step,rock,atmospheric,temperature rows.
func WriteCSV(out io.Writer, tr *boxmodel.Trajectory) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"step", "rock", "atmospheric", "temperature"}); err != nil {
		return err
	}

	for i := 0; i < tr.Len(); i++ {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(tr.Rock[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Atmo[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Temp[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*boxmodel.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return &boxmodel.Trajectory{}, nil
	}

	tr := &boxmodel.Trajectory{
		Rock: make([]float64, 0, len(records)-1),
		Atmo: make([]float64, 0, len(records)-1),
		Temp: make([]float64, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		if len(record) < 4 {
			continue
		}
		rock, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		atmo, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		temp, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			continue
		}
		tr.Rock = append(tr.Rock, rock)
		tr.Atmo = append(tr.Atmo, atmo)
		tr.Temp = append(tr.Temp, temp)
	}

	return tr, nil
}
