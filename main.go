// Command biosim runs the evolution core headlessly from the command
// line: load a config, run generations to completion (or a step/tick
// budget), and write telemetry to an output directory.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/evocore/biosim/config"
	"github.com/evocore/biosim/sim"
	"github.com/evocore/biosim/telemetry"
)

var (
	configPath     = flag.String("config", "", "Path to a YAML config file overriding the embedded defaults")
	outputDir      = flag.String("output", "", "Directory to write generations.csv/config.yaml (empty = disabled)")
	seed           = flag.Uint("seed", 0, "Override the configured RNG seed (0 = use config value)")
	maxGenerations = flag.Int("max-generations", 0, "Stop after N generations (0 = use config value, itself 0 = unbounded)")
	maxTicks       = flag.Int("max-ticks", 0, "Stop at the first generation boundary once N total simulation steps have run (0 = unbounded)")
	logLevel       = flag.String("log", "", "Override the configured log level: debug|info|warn|error")
	logFile        = flag.String("logfile", "", "Write logs to this file instead of stderr")
	headless       = flag.Bool("headless", true, "Run without a viewer; currently the only supported mode")
)

func main() {
	flag.Parse()

	if !*headless {
		fmt.Fprintln(os.Stderr, "biosim: a graphical viewer is not part of this build; continuing headlessly")
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "biosim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Init(*configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		cfg.Simulation.RngSeed = uint32(*seed)
	}
	if *maxGenerations != 0 {
		cfg.Simulation.MaxGenerations = *maxGenerations
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}

	log, closeLog, err := setupLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()
	slog.SetDefault(log)

	params, err := sim.ParamsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("resolving simulation params: %w", err)
	}

	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return fmt.Errorf("setting up output: %w", err)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	core, err := sim.New(params)
	if err != nil {
		return fmt.Errorf("constructing simulator: %w", err)
	}
	core.Init()

	log.Info("starting run",
		"population", params.Population,
		"size_x", params.SizeX,
		"size_y", params.SizeY,
		"steps_per_generation", params.StepsPerGeneration,
		"max_generations", params.MaxGenerations,
		"seed", params.RngSeed,
	)

	start := time.Now()
	totalSteps := 0
	for gen := 0; params.MaxGenerations == 0 || gen < params.MaxGenerations; gen++ {
		if *maxTicks > 0 && totalSteps >= *maxTicks {
			log.Info("reached max-ticks, stopping", "ticks", totalSteps)
			break
		}

		stats := core.RunGeneration()
		totalSteps += params.StepsPerGeneration
		stats.LogStats(log)

		if err := out.WriteGeneration(stats); err != nil {
			return fmt.Errorf("writing generation stats: %w", err)
		}
	}

	elapsed := time.Since(start)
	log.Info("run complete", "elapsed", elapsed.Round(time.Millisecond), "total_steps", totalSteps)
	return nil
}

// setupLogger builds a slog.Logger from LoggingConfig, returning a close
// func for the opened log file (a no-op if logging to stderr).
func setupLogger(c config.LoggingConfig) (*slog.Logger, func(), error) {
	var out *os.File = os.Stderr
	closeFn := func() {}

	if c.File != "" {
		f, err := os.Create(c.File)
		if err != nil {
			return nil, nil, fmt.Errorf("creating log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLevel(c.Level)})
	return slog.New(handler), closeFn, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
