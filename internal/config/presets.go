package config

// Presets are ready-made run definitions keyed by ensemble mode, then
// by preset name. Values not set here fall back to DefaultConfig at
// load time via GetPreset.
var Presets = map[string]map[string]*Config{
	"nve": {
		"classical": {
			Mode: "nve", Dt: 10, Steps: 2000, NMTS: []int{1},
			System:   SystemConfig{NBeads: 1, NAtoms: 8, Mass: DefaultMass, SpringK: DefaultSpringK, CellSide: DefaultCellSide},
			Ensemble: EnsembleConfig{Temperature: 300},
		},
		"ring-polymer": {
			Mode: "nve", Dt: 5, Steps: 4000, NMTS: []int{1},
			System:   SystemConfig{NBeads: 16, NAtoms: 4, Mass: DefaultMass, SpringK: DefaultSpringK, CellSide: DefaultCellSide},
			Ensemble: EnsembleConfig{Temperature: 100},
		},
		"mts": {
			Mode: "nve", Dt: 40, Steps: 1000, NMTS: []int{2, 4},
			System:   SystemConfig{NBeads: 1, NAtoms: 8, Mass: DefaultMass, SpringK: DefaultSpringK, CellSide: DefaultCellSide},
			Ensemble: EnsembleConfig{Temperature: 300},
		},
	},
	"nvt": {
		"langevin": {
			Mode: "nvt", Dt: 10, Steps: 5000, NMTS: []int{1},
			System:     SystemConfig{NBeads: 1, NAtoms: 8, Mass: DefaultMass, SpringK: DefaultSpringK, CellSide: DefaultCellSide},
			Ensemble:   EnsembleConfig{Temperature: 300},
			Thermostat: ThermostatConfig{Kind: "langevin", Tau: 500},
		},
		"pile": {
			Mode: "nvt", Dt: 5, Steps: 5000, NMTS: []int{1},
			System:     SystemConfig{NBeads: 8, NAtoms: 4, Mass: DefaultMass, SpringK: DefaultSpringK, CellSide: DefaultCellSide},
			Ensemble:   EnsembleConfig{Temperature: 150},
			Thermostat: ThermostatConfig{Kind: "pile-g", Tau: 500},
		},
	},
	"nvt-cc": {
		"frozen-centroid": {
			Mode: "nvt-cc", Dt: 5, Steps: 3000, NMTS: []int{1},
			System:     SystemConfig{NBeads: 8, NAtoms: 4, Mass: DefaultMass, SpringK: DefaultSpringK, CellSide: DefaultCellSide},
			Ensemble:   EnsembleConfig{Temperature: 150},
			Thermostat: ThermostatConfig{Kind: "langevin", Tau: 500},
		},
	},
	"npt": {
		"ambient": {
			Mode: "npt", Dt: 10, Steps: 10000, NMTS: []int{1},
			System:     SystemConfig{NBeads: 1, NAtoms: 8, Mass: DefaultMass, SpringK: DefaultSpringK, CellSide: DefaultCellSide},
			Ensemble:   EnsembleConfig{Temperature: 300, Pressure: 3.4e-9},
			Thermostat: ThermostatConfig{Kind: "langevin", Tau: 500},
			Barostat:   BarostatConfig{Kind: "isotropic", Tau: 5000},
		},
	},
	"sc": {
		"high-order": {
			Mode: "sc", Dt: 5, Steps: 3000, NMTS: []int{1},
			System:     SystemConfig{NBeads: 8, NAtoms: 4, Mass: DefaultMass, SpringK: DefaultSpringK, SCAlpha: 0.05, CellSide: DefaultCellSide},
			Ensemble:   EnsembleConfig{Temperature: 150},
			Thermostat: ThermostatConfig{Kind: "langevin", Tau: 500},
		},
	},
	"eda-nve": {
		"pulse": {
			Mode: "eda-nve", Dt: 10, Steps: 2000, NMTS: []int{1},
			System:   SystemConfig{NBeads: 1, NAtoms: 8, Mass: DefaultMass, SpringK: DefaultSpringK, CellSide: DefaultCellSide},
			Ensemble: EnsembleConfig{Temperature: 300},
			Field: FieldConfig{
				Amplitude: [3]float64{5e-4, 0, 0},
				Freq:      0.005, Peak: 5000, Sigma: 2000, Charge: 1.3,
			},
		},
		"continuous-wave": {
			Mode: "eda-nve", Dt: 10, Steps: 5000, NMTS: []int{1},
			System:   SystemConfig{NBeads: 1, NAtoms: 8, Mass: DefaultMass, SpringK: DefaultSpringK, CellSide: DefaultCellSide},
			Ensemble: EnsembleConfig{Temperature: 300},
			Field: FieldConfig{
				Amplitude: [3]float64{1e-4, 1e-4, 0},
				Freq:      0.002, Charge: 1.3,
			},
		},
	},
}

func GetPreset(mode, preset string) *Config {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	cfg, ok := modePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	return names
}
