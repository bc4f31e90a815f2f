// Package telemetry aggregates per-generation statistics and exports them
// as structured logs and CSV/JSON files.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/genome"
	"github.com/evocore/biosim/neural"
	"github.com/evocore/biosim/rng"
)

// GenerationStats summarizes one completed generation.
type GenerationStats struct {
	Generation         int     `csv:"generation"`
	Population         int     `csv:"population"`
	Survivors          int     `csv:"survivors"`
	SurvivalRate       float64 `csv:"survival_rate"`
	GeneticDiversity   float64 `csv:"genetic_diversity"`
	AvgGenomeLength    float64 `csv:"avg_genome_length"`
	MinGenomeLength    int     `csv:"min_genome_length"`
	MaxGenomeLength    int     `csv:"max_genome_length"`
	GenomeLengthStdDev float64 `csv:"genome_length_stddev"`
	AvgConnections     float64 `csv:"avg_connections"`
	KillDeaths         int     `csv:"kill_deaths"`
}

// ComputeGenerationStats builds a GenerationStats from a generation's living
// agents, the subset that survived, the built neural networks behind those
// same living agents (in the same order, for the pruned-connection-count
// average), and the tally of KILL_FORWARD deaths. r is consumed for the
// genetic diversity sample and so must be the run's shared PRNG to keep the
// overall sequence reproducible.
func ComputeGenerationStats(generation int, r *rng.RNG, living, survivors []*agent.Agent, networks []*neural.Network, killDeaths int) GenerationStats {
	lengths := make([]float64, len(living))
	genomes := make([]genome.Genome, len(living))
	for i, a := range living {
		lengths[i] = float64(len(a.Genome))
		genomes[i] = a.Genome
	}

	var avg, std float64
	var minLen, maxLen int
	if len(lengths) > 0 {
		avg = stat.Mean(lengths, nil)
		if len(lengths) > 1 {
			std = stat.StdDev(lengths, nil)
		}
		minLen, maxLen = int(lengths[0]), int(lengths[0])
		for _, l := range lengths {
			n := int(l)
			if n < minLen {
				minLen = n
			}
			if n > maxLen {
				maxLen = n
			}
		}
	}

	var survivalRate float64
	if len(living) > 0 {
		survivalRate = float64(len(survivors)) / float64(len(living))
	}

	var avgConnections float64
	if len(networks) > 0 {
		counts := make([]float64, len(networks))
		for i, n := range networks {
			counts[i] = float64(len(n.Connections))
		}
		avgConnections = stat.Mean(counts, nil)
	}

	return GenerationStats{
		Generation:         generation,
		Population:         len(living),
		Survivors:          len(survivors),
		SurvivalRate:       survivalRate,
		GeneticDiversity:   genome.GeneticDiversity(r, genomes, 100),
		AvgGenomeLength:    avg,
		MinGenomeLength:    minLen,
		MaxGenomeLength:    maxLen,
		GenomeLengthStdDev: std,
		AvgConnections:     avgConnections,
		KillDeaths:         killDeaths,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("population", s.Population),
		slog.Int("survivors", s.Survivors),
		slog.Float64("survival_rate", s.SurvivalRate),
		slog.Float64("genetic_diversity", s.GeneticDiversity),
		slog.Float64("avg_genome_length", s.AvgGenomeLength),
		slog.Int("min_genome_length", s.MinGenomeLength),
		slog.Int("max_genome_length", s.MaxGenomeLength),
		slog.Float64("genome_length_stddev", s.GenomeLengthStdDev),
		slog.Float64("avg_connections", s.AvgConnections),
		slog.Int("kill_deaths", s.KillDeaths),
	)
}

// LogStats logs the stats via log, or the default logger if log is nil.
func (s GenerationStats) LogStats(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	log.Info("generation complete", "stats", s)
}
