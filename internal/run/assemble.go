package run

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/beadmd/internal/barostats"
	"github.com/san-kum/beadmd/internal/config"
	"github.com/san-kum/beadmd/internal/dynamics"
	"github.com/san-kum/beadmd/internal/eda"
	"github.com/san-kum/beadmd/internal/forcefields"
	"github.com/san-kum/beadmd/internal/system"
	"github.com/san-kum/beadmd/internal/thermostats"
)

// Assemble builds every collaborator from the configuration, seeds the
// initial conditions and binds the dynamics. Configuration errors and
// bind-time validation failures both surface here.
func Assemble(cfg *config.Config) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prng := rand.New(rand.NewSource(cfg.Seed))

	b := system.NewBeads(cfg.System.NBeads, cfg.System.NAtoms)
	masses := make([]float64, cfg.System.NAtoms)
	for i := range masses {
		masses[i] = cfg.System.Mass
	}
	b.SetMasses(masses)
	seedState(b, cfg, prng)

	ens := system.NewEnsemble()
	if cfg.Ensemble.Temperature > 0 {
		ens.SetTemperature(cfg.Ensemble.Temperature)
	}
	if cfg.Ensemble.Pressure != 0 {
		ens.SetPressure(cfg.Ensemble.Pressure)
	}
	if len(cfg.Ensemble.Stress) == 9 {
		ens.SetStress(cfg.Ensemble.Stress)
	}

	cell := system.NewCell(cfg.System.CellSide)
	nm := system.NewNormalModes()

	var forces system.Forces
	levels := len(cfg.NMTS)
	if levels == 0 {
		levels = 1
	}
	switch dynamics.Mode(cfg.Mode) {
	case dynamics.ModeSC, dynamics.ModeSCNPT:
		sc := forcefields.NewHarmonicSC(cfg.System.SpringK, levels, cfg.System.SCAlpha)
		sc.Bind(b)
		forces = sc
	default:
		h := forcefields.NewHarmonic(cfg.System.SpringK, levels)
		h.Bind(b)
		forces = h
	}

	thermostat, err := buildThermostat(cfg.Thermostat)
	if err != nil {
		return nil, err
	}
	barostat, err := buildBarostat(cfg.Barostat)
	if err != nil {
		return nil, err
	}

	split, err := dynamics.ParseSplitting(cfg.Splitting)
	if err != nil {
		return nil, err
	}

	dcfg := dynamics.Config{
		Timestep:   cfg.Dt,
		Mode:       dynamics.Mode(cfg.Mode),
		Splitting:  split,
		Thermostat: thermostat,
		Barostat:   barostat,
		FixCOM:     cfg.System.FixCOM,
		FixAtoms:   cfg.System.FixAtoms,
		NMTS:       cfg.NMTS,
	}
	if eda.IsDriven(cfg.Mode) {
		dcfg.Field = &eda.ElectricField{
			Amplitude: cfg.Field.Amplitude,
			Freq:      cfg.Field.Freq,
			Phase:     cfg.Field.Phase,
			Peak:      cfg.Field.Peak,
			Sigma:     cfg.Field.Sigma,
		}
		dcfg.Bec = eda.NewBornCharges(cfg.System.NAtoms, cfg.Field.Charge)
	}

	d := dynamics.New(dcfg)
	if err := d.Bind(ens, b, nm, cell, forces, prng); err != nil {
		return nil, err
	}

	return &Run{Cfg: cfg, Dyn: d, Beads: b, Ens: ens, NM: nm, Cell: cell, Forces: forces}, nil
}

// seedState places the atoms on a cubic grid with small per-bead
// scatter and draws momenta from the Maxwell-Boltzmann distribution at
// the target temperature.
func seedState(b *system.Beads, cfg *config.Config, prng *rand.Rand) {
	side := int(math.Ceil(math.Cbrt(float64(b.NAtoms))))
	spacing := cfg.System.CellSide / float64(side+1)
	sigma := 0.0
	if cfg.Ensemble.Temperature > 0 {
		sigma = math.Sqrt(cfg.System.Mass * system.KBoltzmann * cfg.Ensemble.Temperature)
	}

	for a := 0; a < b.NAtoms; a++ {
		base := [3]float64{
			spacing * float64(a%side+1),
			spacing * float64(a/side%side+1),
			spacing * float64(a/(side*side)+1),
		}
		for i := range b.Q {
			for dir := 0; dir < 3; dir++ {
				b.Q[i][3*a+dir] = base[dir] + 0.05*prng.NormFloat64()
				b.P[i][3*a+dir] = sigma * prng.NormFloat64()
			}
		}
	}
}

func buildThermostat(tc config.ThermostatConfig) (system.Thermostat, error) {
	switch tc.Kind {
	case "", "none":
		return system.NewNullThermostat(), nil
	case "langevin":
		return thermostats.NewLangevin(tc.Tau), nil
	case "pile-g":
		return thermostats.NewPILEGlobal(tc.Tau), nil
	}
	return nil, fmt.Errorf("run: unknown thermostat %q", tc.Kind)
}

func buildBarostat(bc config.BarostatConfig) (system.Barostat, error) {
	switch bc.Kind {
	case "", "none":
		return system.NewNullBarostat(), nil
	case "isotropic":
		return barostats.NewIsotropic(bc.Tau), nil
	case "anisotropic":
		return barostats.NewAnisotropic(bc.Tau), nil
	}
	return nil, fmt.Errorf("run: unknown barostat %q", bc.Kind)
}
