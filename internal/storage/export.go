package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/spintop/internal/sim"
)

type ExportData struct {
	ID       string             `json:"id"`
	Scene    string             `json:"scene"`
	Seed     int64              `json:"seed"`
	FrameDt  float64            `json:"frame_dt"`
	Duration float64            `json:"duration"`
	Frames   int                `json:"frames"`
	Samples  []sim.Sample       `json:"samples"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run and its samples as one indented JSON document.
func ExportJSON(out io.Writer, meta *RunMetadata, samples []sim.Sample) error {
	data := ExportData{
		ID:       meta.ID,
		Scene:    meta.Scene,
		Seed:     meta.Seed,
		FrameDt:  meta.FrameDt,
		Duration: meta.Duration,
		Frames:   meta.Frames,
		Samples:  samples,
		Metrics:  meta.Metrics,
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
