// Package config defines the yaml run configuration and its presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 10.0
	DefaultSteps    = 1000
	DefaultNBeads   = 1
	DefaultNAtoms   = 8
	DefaultMass     = 1836.0
	DefaultTemp     = 300.0
	DefaultTauT     = 1000.0
	DefaultTauP     = 10000.0
	DefaultSpringK  = 1e-5
	DefaultCellSide = 50.0
)

// Config describes one simulation run. All physical quantities are in
// Hartree atomic units except the temperature, which is in Kelvin.
type Config struct {
	Mode      string `yaml:"mode"`
	Splitting string `yaml:"splitting"`
	Verbosity string `yaml:"verbosity"`

	Dt    float64 `yaml:"dt"`
	Steps int     `yaml:"steps"`
	Seed  int64   `yaml:"seed"`
	NMTS  []int   `yaml:"nmts"`

	System     SystemConfig     `yaml:"system"`
	Ensemble   EnsembleConfig   `yaml:"ensemble"`
	Thermostat ThermostatConfig `yaml:"thermostat"`
	Barostat   BarostatConfig   `yaml:"barostat"`
	Field      FieldConfig      `yaml:"field"`
}

type SystemConfig struct {
	NBeads   int     `yaml:"nbeads"`
	NAtoms   int     `yaml:"natoms"`
	Mass     float64 `yaml:"mass"`
	SpringK  float64 `yaml:"spring_k"`
	SCAlpha  float64 `yaml:"sc_alpha"`
	CellSide float64 `yaml:"cell_side"`
	FixCOM   bool    `yaml:"fix_com"`
	FixAtoms []int   `yaml:"fix_atoms"`
}

type EnsembleConfig struct {
	Temperature float64 `yaml:"temperature"`
	Pressure    float64 `yaml:"pressure"`
	// Stress is the 9-component target for constant-stress runs.
	Stress []float64 `yaml:"stress"`
}

type ThermostatConfig struct {
	Kind string  `yaml:"kind"` // none, langevin, pile-g
	Tau  float64 `yaml:"tau"`
}

type BarostatConfig struct {
	Kind string  `yaml:"kind"` // none, isotropic, anisotropic
	Tau  float64 `yaml:"tau"`
}

type FieldConfig struct {
	Amplitude [3]float64 `yaml:"amplitude"`
	Freq      float64    `yaml:"freq"`
	Phase     float64    `yaml:"phase"`
	Peak      float64    `yaml:"peak"`
	Sigma     float64    `yaml:"sigma"`
	Charge    float64    `yaml:"charge"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:      "nve",
		Splitting: "obabo",
		Verbosity: "low",
		Dt:        DefaultDt,
		Steps:     DefaultSteps,
		NMTS:      []int{1},
		System: SystemConfig{
			NBeads:   DefaultNBeads,
			NAtoms:   DefaultNAtoms,
			Mass:     DefaultMass,
			SpringK:  DefaultSpringK,
			CellSide: DefaultCellSide,
		},
		Ensemble: EnsembleConfig{
			Temperature: DefaultTemp,
		},
		Thermostat: ThermostatConfig{Kind: "langevin", Tau: DefaultTauT},
		Barostat:   BarostatConfig{Kind: "none", Tau: DefaultTauP},
		Field:      FieldConfig{Charge: 1.0},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the run assembly cannot recover from. The
// dynamics engine performs its own physical validation at bind time;
// this only covers the config surface.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("config: steps must be non-negative, got %d", c.Steps)
	}
	if c.System.NBeads < 1 {
		return fmt.Errorf("config: nbeads must be at least 1, got %d", c.System.NBeads)
	}
	if c.System.NAtoms < 1 {
		return fmt.Errorf("config: natoms must be at least 1, got %d", c.System.NAtoms)
	}
	if c.System.Mass <= 0 {
		return fmt.Errorf("config: mass must be positive, got %g", c.System.Mass)
	}
	switch c.Thermostat.Kind {
	case "", "none", "langevin", "pile-g":
	default:
		return fmt.Errorf("config: unknown thermostat %q", c.Thermostat.Kind)
	}
	switch c.Barostat.Kind {
	case "", "none", "isotropic", "anisotropic":
	default:
		return fmt.Errorf("config: unknown barostat %q", c.Barostat.Kind)
	}
	if s := c.Ensemble.Stress; len(s) != 0 && len(s) != 9 {
		return fmt.Errorf("config: stress needs 9 components, got %d", len(s))
	}
	return nil
}
