// Package store exports finished trajectories as self-contained JSON
// documents, for consumption outside the run store's directory layout.
package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/beadmd/internal/config"
	"github.com/san-kum/beadmd/internal/run"
)

type ExportData struct {
	Mode      string             `json:"mode"`
	Splitting string             `json:"splitting"`
	Dt        float64            `json:"dt"`
	NBeads    int                `json:"nbeads"`
	NAtoms    int                `json:"natoms"`
	Steps     int                `json:"steps"`
	Columns   []string           `json:"columns"`
	Samples   [][]float64        `json:"samples"`
	Metrics   map[string]float64 `json:"metrics"`
}

func buildExport(cfg *config.Config, result *run.Result) ExportData {
	data := ExportData{
		Mode:      cfg.Mode,
		Splitting: cfg.Splitting,
		Dt:        cfg.Dt,
		NBeads:    cfg.System.NBeads,
		NAtoms:    cfg.System.NAtoms,
		Steps:     result.StepsTaken,
		Columns:   run.Columns,
		Samples:   make([][]float64, len(result.Samples)),
		Metrics:   result.Metrics,
	}
	for i, s := range result.Samples {
		data.Samples[i] = s.Row()
	}
	return data
}

func ExportJSON(path string, cfg *config.Config, result *run.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, cfg, result)
}

func ExportJSONStdout(cfg *config.Config, result *run.Result) error {
	return writeJSON(os.Stdout, cfg, result)
}

func writeJSON(w io.Writer, cfg *config.Config, result *run.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(cfg, result))
}
