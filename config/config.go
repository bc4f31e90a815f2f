// Package config provides configuration loading and access for the
// evolution core.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every recognized simulation option plus the ambient
// logging and telemetry settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// SimulationConfig holds every recognized simulation option: grid shape,
// population/generation sizing, genetic operator rates, and the sensor
// and action tunables that are not fixed compile-time constants.
type SimulationConfig struct {
	Population     int `yaml:"population"`
	StepsPerGeneration int `yaml:"steps_per_generation"`
	MaxGenerations int `yaml:"max_generations"` // 0 = unbounded

	SizeX int `yaml:"size_x"`
	SizeY int `yaml:"size_y"`

	GenomeInitialLengthMin int `yaml:"genome_initial_length_min"`
	GenomeInitialLengthMax int `yaml:"genome_initial_length_max"`
	GenomeMaxLength        int `yaml:"genome_max_length"`
	MaxNumberNeurons       int `yaml:"max_number_neurons"`

	PointMutationRate         float64 `yaml:"point_mutation_rate"`
	GeneInsertionDeletionRate float64 `yaml:"gene_insertion_deletion_rate"`
	DeletionRatio             float64 `yaml:"deletion_ratio"`

	SexualReproduction     bool `yaml:"sexual_reproduction"`
	ChooseParentsByFitness bool `yaml:"choose_parents_by_fitness"`

	SurvivalCriteria []string `yaml:"survival_criteria"`
	BarrierType      string   `yaml:"barrier_type"`

	ResponsivenessCurveKFactor float64 `yaml:"responsiveness_curve_k_factor"`

	SignalLayers       int     `yaml:"signal_layers"`
	SignalSensorRadius float64 `yaml:"signal_sensor_radius"`

	LongProbeDistance         int `yaml:"long_probe_distance"`
	ShortProbeBarrierDistance int `yaml:"short_probe_barrier_distance"`

	KillEnable bool   `yaml:"kill_enable"`
	RngSeed    uint32 `yaml:"rng_seed"`

	PopulationSensorRadius float64 `yaml:"population_sensor_radius"`
}

// LoggingConfig controls the slog handler the host wires up.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
	File  string `yaml:"file"`  // empty = stderr
}

// TelemetryConfig controls per-generation CSV/JSON export.
type TelemetryConfig struct {
	OutputDir            string `yaml:"output_dir"` // empty = disabled
	FlushEveryGeneration bool   `yaml:"flush_every_generation"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from path, merged over embedded defaults. An
// empty path uses only the embedded defaults. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads configuration from a YAML file, overlaying the embedded
// defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects invalid input that callers must catch at init/reset
// time: non-positive sizes/counts, negative rates.
func (c *Config) Validate() error {
	s := c.Simulation
	switch {
	case s.Population < 0:
		return fmt.Errorf("config: population must be >= 0, got %d", s.Population)
	case s.SizeX <= 0 || s.SizeY <= 0:
		return fmt.Errorf("config: sizeX/sizeY must be positive, got %dx%d", s.SizeX, s.SizeY)
	case s.StepsPerGeneration <= 0:
		return fmt.Errorf("config: stepsPerGeneration must be positive, got %d", s.StepsPerGeneration)
	case s.GenomeInitialLengthMin <= 0 || s.GenomeInitialLengthMax < s.GenomeInitialLengthMin:
		return fmt.Errorf("config: invalid genome initial length range [%d,%d]", s.GenomeInitialLengthMin, s.GenomeInitialLengthMax)
	case s.GenomeMaxLength < s.GenomeInitialLengthMax:
		return fmt.Errorf("config: genomeMaxLength must be >= genomeInitialLengthMax")
	case s.MaxNumberNeurons <= 0:
		return fmt.Errorf("config: maxNumberNeurons must be positive, got %d", s.MaxNumberNeurons)
	case s.PointMutationRate < 0 || s.GeneInsertionDeletionRate < 0 || s.DeletionRatio < 0:
		return fmt.Errorf("config: mutation rates must be non-negative")
	case s.SignalLayers <= 0:
		return fmt.Errorf("config: signalLayers must be positive, got %d", s.SignalLayers)
	case s.LongProbeDistance <= 0 || s.ShortProbeBarrierDistance <= 0:
		return fmt.Errorf("config: probe distances must be positive")
	}
	return nil
}

// WriteYAML saves cfg to path, for experiment reproducibility alongside
// telemetry output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
