// Package storage persists completed runs to disk: a JSON metadata file and
// a CSV time series of per-step metric samples, for later plotting, export,
// and spectral analysis. This is an observational record of what happened
// during a run, not something the engine reloads from — the fluid core has
// no persistence of its own.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/sphfluid/internal/runner"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a completed fluid run.
type RunMetadata struct {
	ID              string             `json:"id"`
	Preset          string             `json:"preset"`
	Timestamp       time.Time          `json:"timestamp"`
	Seed            int64              `json:"seed"`
	ParticleCount   int                `json:"particle_count"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	SmoothingRadius float64            `json:"smoothing_radius"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Save writes a run's metadata and its per-step metric time series to a new
// run directory, returning the run's ID.
func (s *Store) Save(preset string, particleCount int, dt, duration, smoothingRadius float64, seed int64, result *runner.Result, series map[string][]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Preset:          preset,
		Timestamp:       time.Now(),
		Seed:            seed,
		ParticleCount:   particleCount,
		Dt:              dt,
		Duration:        duration,
		SmoothingRadius: smoothingRadius,
		Metrics:         result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeSeriesCSV(filepath.Join(runDir, "metrics.csv"), result.Times, series); err != nil {
		return "", err
	}

	return runID, nil
}

func writeSeriesCSV(path string, times []float64, series map[string][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			col := series[name]
			var v float64
			if i < len(col) {
				v = col[i]
			}
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
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
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads back a run's metric time series as a name-to-column map
// plus the shared time axis.
func (s *Store) LoadSeries(runID string) (map[string][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "metrics.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return map[string][]float64{}, []float64{}, nil
	}

	header := records[0]
	series := make(map[string][]float64, len(header)-1)
	for _, name := range header[1:] {
		series[name] = make([]float64, 0, len(records)-1)
	}
	times := make([]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		for j := 1; j < len(record) && j < len(header); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			series[header[j]] = append(series[header[j]], v)
		}
	}

	return series, times, nil
}
