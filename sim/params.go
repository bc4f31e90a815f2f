// Package sim orchestrates one run of the evolution core: per-step agent
// scheduling, end-of-generation survival and spawning, and the host-facing
// command/event API other packages drive the simulation through.
package sim

import (
	"fmt"
	"strings"

	"github.com/evocore/biosim/config"
	"github.com/evocore/biosim/survival"
	"github.com/evocore/biosim/world"
)

// Params is the flattened, validated form of config.SimulationConfig: raw
// strings are resolved to their enum form once, at construction time,
// rather than on every generation boundary.
type Params struct {
	Population         int
	StepsPerGeneration int
	MaxGenerations     int

	SizeX, SizeY int

	GenomeInitialLengthMin int
	GenomeInitialLengthMax int
	GenomeMaxLength        int
	MaxNumberNeurons       int

	PointMutationRate         float64
	GeneInsertionDeletionRate float64
	DeletionRatio             float64

	SexualReproduction     bool
	ChooseParentsByFitness bool

	SurvivalCriteria []survival.Criterion
	BarrierType      world.BarrierType

	ResponsivenessCurveKFactor float64

	SignalLayers       int
	SignalSensorRadius float64

	LongProbeDistance         int
	ShortProbeBarrierDistance int

	KillEnable bool
	RngSeed    uint32

	PopulationSensorRadius float64
}

// DefaultParams returns the Params equivalent of config's embedded
// defaults, for callers (tests, implicit pre-step init) that need a
// runnable Params without loading a config file.
func DefaultParams() Params {
	p, err := ParamsFromConfig(&config.Config{Simulation: defaultSimulationConfig()})
	if err != nil {
		panic(fmt.Sprintf("sim: DefaultParams: %v", err))
	}
	return p
}

func defaultSimulationConfig() config.SimulationConfig {
	cfg, err := config.Load("")
	if err != nil {
		panic(fmt.Sprintf("sim: loading embedded defaults: %v", err))
	}
	return cfg.Simulation
}

// ParamsFromConfig resolves c's Simulation section into a Params, parsing
// survival criteria and barrier type names. c must already have passed
// config.Config.Validate.
func ParamsFromConfig(c *config.Config) (Params, error) {
	s := c.Simulation

	criteria := make([]survival.Criterion, 0, len(s.SurvivalCriteria))
	for _, name := range s.SurvivalCriteria {
		crit, err := ParseCriterion(name)
		if err != nil {
			return Params{}, err
		}
		criteria = append(criteria, crit)
	}

	barrier, err := ParseBarrierType(s.BarrierType)
	if err != nil {
		return Params{}, err
	}

	p := Params{
		Population:                 s.Population,
		StepsPerGeneration:         s.StepsPerGeneration,
		MaxGenerations:             s.MaxGenerations,
		SizeX:                      s.SizeX,
		SizeY:                      s.SizeY,
		GenomeInitialLengthMin:     s.GenomeInitialLengthMin,
		GenomeInitialLengthMax:     s.GenomeInitialLengthMax,
		GenomeMaxLength:            s.GenomeMaxLength,
		MaxNumberNeurons:           s.MaxNumberNeurons,
		PointMutationRate:          s.PointMutationRate,
		GeneInsertionDeletionRate:  s.GeneInsertionDeletionRate,
		DeletionRatio:              s.DeletionRatio,
		SexualReproduction:         s.SexualReproduction,
		ChooseParentsByFitness:     s.ChooseParentsByFitness,
		SurvivalCriteria:           criteria,
		BarrierType:                barrier,
		ResponsivenessCurveKFactor: s.ResponsivenessCurveKFactor,
		SignalLayers:               s.SignalLayers,
		SignalSensorRadius:         s.SignalSensorRadius,
		LongProbeDistance:          s.LongProbeDistance,
		ShortProbeBarrierDistance:  s.ShortProbeBarrierDistance,
		KillEnable:                 s.KillEnable,
		RngSeed:                    s.RngSeed,
		PopulationSensorRadius:     s.PopulationSensorRadius,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate rejects invalid input that init/reset must catch: non-positive
// sizes/counts, negative rates. Mirrors config.Config.Validate but over
// the resolved Params form, since Params can also be constructed directly
// (e.g. by cmd/tune) without going through a config.Config.
func (p Params) Validate() error {
	switch {
	case p.Population < 0:
		return fmt.Errorf("sim: population must be >= 0, got %d", p.Population)
	case p.SizeX <= 0 || p.SizeY <= 0:
		return fmt.Errorf("sim: sizeX/sizeY must be positive, got %dx%d", p.SizeX, p.SizeY)
	case p.StepsPerGeneration <= 0:
		return fmt.Errorf("sim: stepsPerGeneration must be positive, got %d", p.StepsPerGeneration)
	case p.GenomeInitialLengthMin <= 0 || p.GenomeInitialLengthMax < p.GenomeInitialLengthMin:
		return fmt.Errorf("sim: invalid genome initial length range [%d,%d]", p.GenomeInitialLengthMin, p.GenomeInitialLengthMax)
	case p.GenomeMaxLength < p.GenomeInitialLengthMax:
		return fmt.Errorf("sim: genomeMaxLength must be >= genomeInitialLengthMax")
	case p.MaxNumberNeurons <= 0:
		return fmt.Errorf("sim: maxNumberNeurons must be positive, got %d", p.MaxNumberNeurons)
	case p.PointMutationRate < 0 || p.GeneInsertionDeletionRate < 0 || p.DeletionRatio < 0:
		return fmt.Errorf("sim: mutation rates must be non-negative")
	case p.SignalLayers <= 0:
		return fmt.Errorf("sim: signalLayers must be positive, got %d", p.SignalLayers)
	case p.LongProbeDistance <= 0 || p.ShortProbeBarrierDistance <= 0:
		return fmt.Errorf("sim: probe distances must be positive")
	}
	return nil
}

var criterionNames = map[string]survival.Criterion{
	"CIRCLE":           survival.Circle,
	"RIGHT_EIGHTH":     survival.RightEighth,
	"LEFT_EIGHTH":      survival.LeftEighth,
	"CENTER_WEIGHTED":  survival.CenterWeighted,
	"CORNER_WEIGHTED":  survival.CornerWeighted,
	"PAIRS":            survival.Pairs,
	"CONTACT":          survival.Contact,
	"AGAINST_ANY_WALL": survival.AgainstAnyWall,
	"TOUCH_ANY_WALL":   survival.TouchAnyWall,
}

// ParseCriterion resolves a survival criterion name (case insensitive) to
// its Criterion value.
func ParseCriterion(name string) (survival.Criterion, error) {
	c, ok := criterionNames[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("sim: unrecognized survival criterion %q", name)
	}
	return c, nil
}

var barrierNames = map[string]world.BarrierType{
	"NONE":                    world.BarrierNone,
	"VERTICAL_BAR_CONSTANT":   world.BarrierVerticalBarConstant,
	"VERTICAL_BAR_RANDOM":     world.BarrierVerticalBarRandom,
	"HORIZONTAL_BAR_CONSTANT": world.BarrierHorizontalBarConstant,
	"FIVE_BLOCKS":             world.BarrierFiveBlocks,
	"FLOATING_ISLANDS":        world.BarrierFloatingIslands,
	"SPOTS":                   world.BarrierSpots,
}

// ParseBarrierType resolves a barrier type name (case insensitive) to its
// BarrierType value.
func ParseBarrierType(name string) (world.BarrierType, error) {
	b, ok := barrierNames[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("sim: unrecognized barrier type %q", name)
	}
	return b, nil
}
