package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "nve" {
		t.Errorf("expected mode nve, got %s", cfg.Mode)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.System.NBeads < 1 {
		t.Error("nbeads should be at least 1")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative dt", func(c *Config) { c.Dt = -1 }},
		{"zero beads", func(c *Config) { c.System.NBeads = 0 }},
		{"zero atoms", func(c *Config) { c.System.NAtoms = 0 }},
		{"negative mass", func(c *Config) { c.System.Mass = -1 }},
		{"unknown thermostat", func(c *Config) { c.Thermostat.Kind = "berendsen" }},
		{"unknown barostat", func(c *Config) { c.Barostat.Kind = "berendsen" }},
		{"short stress", func(c *Config) { c.Ensemble.Stress = []float64{1, 2, 3} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "nvt"
	cfg.NMTS = []int{2, 3}
	cfg.System.NBeads = 8
	cfg.Thermostat = ThermostatConfig{Kind: "pile-g", Tau: 250}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Mode != "nvt" || got.System.NBeads != 8 {
		t.Errorf("round trip lost values: %+v", got)
	}
	if len(got.NMTS) != 2 || got.NMTS[0] != 2 || got.NMTS[1] != 3 {
		t.Errorf("nmts round trip: %v", got.NMTS)
	}
	if got.Thermostat.Kind != "pile-g" || got.Thermostat.Tau != 250 {
		t.Errorf("thermostat round trip: %+v", got.Thermostat)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := writeFile(path, "mode: nvt\n"); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Mode != "nvt" {
		t.Errorf("mode %q, want nvt", got.Mode)
	}
	if got.Dt != DefaultDt {
		t.Errorf("dt %g, want default %g", got.Dt, DefaultDt)
	}
	if got.System.NAtoms != DefaultNAtoms {
		t.Errorf("natoms %d, want default %d", got.System.NAtoms, DefaultNAtoms)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("nvt", "langevin")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Thermostat.Kind != "langevin" {
		t.Errorf("expected langevin thermostat, got %s", cfg.Thermostat.Kind)
	}

	if GetPreset("nvt", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "langevin") != nil {
		t.Error("expected nil for nonexistent mode")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets("nve")) == 0 {
		t.Error("expected presets for nve")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent mode")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for mode, presets := range Presets {
		for name, cfg := range presets {
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", mode, name, err)
			}
		}
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
