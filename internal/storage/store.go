// Package storage persists simulation runs: metadata, detector readings
// and field snapshots collected under a per-run folder.
package storage

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/fdtd/internal/grid"
)

// ErrNoFolder is returned by operations that need a run folder when the
// store was created without one.
var ErrNoFolder = errors.New("storage: no run folder configured")

// Store manages one run folder under a base directory.
type Store struct {
	baseDir string
	runDir  string
	runID   string
}

// New creates a store rooted at baseDir. An empty baseDir yields a store
// whose saving operations fail with ErrNoFolder.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// RunID returns the identifier of the open run, or "" before Init.
func (s *Store) RunID() string { return s.runID }

// Dir returns the open run folder, or "" before Init.
func (s *Store) Dir() string { return s.runDir }

// Init creates a fresh run folder named after the scenario, the current
// time and a short unique suffix.
func (s *Store) Init(name string) error {
	if s.baseDir == "" {
		return ErrNoFolder
	}
	if name == "" {
		name = "run"
	}
	s.runID = fmt.Sprintf("%s_%s_%s",
		name,
		time.Now().Format("20060102-150405"),
		uuid.NewString()[:8])
	s.runDir = filepath.Join(s.baseDir, s.runID)
	return os.MkdirAll(s.runDir, 0755)
}

// RunMetadata describes one stored run.
type RunMetadata struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Timestamp time.Time  `json:"timestamp"`
	Shape     [3]int     `json:"shape"`
	Spacing   [3]float64 `json:"spacing"`
	TimeStep  float64    `json:"time_step"`
	Courant   float64    `json:"courant"`
	Steps     int        `json:"steps"`
	Detectors []string   `json:"detectors"`
}

// SaveMetadata writes metadata.json into the run folder.
func (s *Store) SaveMetadata(name string, g *grid.Grid) error {
	if s.runDir == "" {
		return ErrNoFolder
	}
	nx, ny, nz := g.Shape()
	dx, dy, dz := g.Spacing()
	meta := RunMetadata{
		ID:        s.runID,
		Name:      name,
		Timestamp: time.Now(),
		Shape:     [3]int{nx, ny, nz},
		Spacing:   [3]float64{dx, dy, dz},
		TimeStep:  g.TimeStep(),
		Courant:   g.Courant(),
		Steps:     g.StepsPassed(),
	}
	for _, d := range g.Detectors() {
		meta.Detectors = append(meta.Detectors, d.Name())
	}

	f, err := os.Create(filepath.Join(s.runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// SaveDetectorReadings writes every detector's accumulated readings into
// detector_readings.zip, one csv entry per detector per field, named
// "<name> (E)" and "<name> (H)".
func (s *Store) SaveDetectorReadings(g *grid.Grid) error {
	if s.runDir == "" {
		return ErrNoFolder
	}
	f, err := os.Create(filepath.Join(s.runDir, "detector_readings.zip"))
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, d := range g.Detectors() {
		if err := writeReadings(zw, d.Name()+" (E)", d.ReadingsE()); err != nil {
			return err
		}
		if err := writeReadings(zw, d.Name()+" (H)", d.ReadingsH()); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeReadings(zw *zip.Writer, entry string, readings [][]float64) error {
	w, err := zw.Create(entry)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	row := make([]string, 0, 8)
	for _, step := range readings {
		row = row[:0]
		for _, v := range step {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadDetectorReadings reads one entry of a run's detector_readings.zip
// back into per-step rows.
func LoadDetectorReadings(runDir, entry string) ([][]float64, error) {
	zr, err := zip.OpenReader(filepath.Join(runDir, "detector_readings.zip"))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, zf := range zr.File {
		if zf.Name != entry {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		r := csv.NewReader(rc)
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		if err != nil {
			return nil, err
		}
		out := make([][]float64, 0, len(records))
		for _, rec := range records {
			row := make([]float64, 0, len(rec))
			for _, cell := range rec {
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("entry %q: %w", entry, err)
				}
				row = append(row, v)
			}
			out = append(out, row)
		}
		return out, nil
	}
	return nil, fmt.Errorf("entry %q not found", entry)
}

// List returns metadata for every run under the base directory, skipping
// folders without readable metadata.
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

// GenerateVideo assembles the saved frames into an mp4 with ffmpeg. The
// grid itself is never touched. Fails when ffmpeg is not installed or no
// run folder is open.
func (s *Store) GenerateVideo(fps int) error {
	if s.runDir == "" {
		return ErrNoFolder
	}
	if fps <= 0 {
		fps = 10
	}
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("generating video requires ffmpeg on PATH: %w", err)
	}
	cmd := exec.Command(ffmpeg,
		"-y",
		"-framerate", strconv.Itoa(fps),
		"-pattern_type", "glob",
		"-i", filepath.Join(s.runDir, "frame_*.png"),
		"-pix_fmt", "yuv420p",
		filepath.Join(s.runDir, "simulation.mp4"))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, out)
	}
	return nil
}
