package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var sampleHeader = []string{
	"time", "x", "y", "z", "tilt", "angular_speed",
	"com_x", "com_y", "com_z", "phase", "spinning", "push_active", "push_force",
}

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
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FrameDt   float64            `json:"frame_dt"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
	Config    *config.Config     `json:"config"`
}

func (s *Store) Save(cfg *config.Config, preset string, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s-%s", cfg.Scene.Name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     cfg.Scene.Name,
		Preset:    preset,
		Timestamp: time.Now(),
		Seed:      cfg.Sim.Seed,
		FrameDt:   cfg.Sim.FrameDt,
		Duration:  cfg.Sim.Duration,
		Frames:    result.Frames,
		Metrics:   result.Metrics,
		Config:    cfg,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSamples(csvFile, result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSamples writes samples as CSV with a header row.
func WriteSamples(out io.Writer, samples []sim.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, s := range samples {
		row := []string{
			f(s.Time), f(s.Position.X()), f(s.Position.Y()), f(s.Position.Z()),
			f(s.Tilt), f(s.AngularSpeed),
			f(s.CenterOfMass.X()), f(s.CenterOfMass.Y()), f(s.CenterOfMass.Z()),
			s.Phase, strconv.FormatBool(s.Spinning), strconv.FormatBool(s.PushActive), f(s.PushForce),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the stored runs, newest first. Directories without readable
// metadata are skipped.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) SamplesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, samplesFile)
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(s.SamplesPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadSamples(file)
}

// ReadSamples parses CSV written by WriteSamples. Rows that do not parse
// are skipped.
func ReadSamples(in io.Reader) ([]sim.Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		s, ok := parseSample(record)
		if !ok {
			continue
		}
		samples = append(samples, s)
	}

	return samples, nil
}

func parseSample(record []string) (sim.Sample, bool) {
	if len(record) != len(sampleHeader) {
		return sim.Sample{}, false
	}

	var nums [9]float64
	for i := range nums {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return sim.Sample{}, false
		}
		nums[i] = v
	}
	spinning, err1 := strconv.ParseBool(record[10])
	pushActive, err2 := strconv.ParseBool(record[11])
	pushForce, err3 := strconv.ParseFloat(record[12], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return sim.Sample{}, false
	}

	return sim.Sample{
		Time:         nums[0],
		Position:     mgl64.Vec3{nums[1], nums[2], nums[3]},
		Tilt:         nums[4],
		AngularSpeed: nums[5],
		CenterOfMass: mgl64.Vec3{nums[6], nums[7], nums[8]},
		Phase:        record[9],
		Spinning:     spinning,
		PushActive:   pushActive,
		PushForce:    pushForce,
	}, true
}
