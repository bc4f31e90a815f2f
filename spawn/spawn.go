// Package spawn produces the next generation's genomes from the previous
// generation's survivors, via selection, crossover, and mutation.
package spawn

import (
	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/genome"
	"github.com/evocore/biosim/rng"
)

// Params bundles the spawner's tunables, all sourced from simulation
// config.
type Params struct {
	Population               int
	GenomeInitialLengthMin   int
	GenomeInitialLengthMax   int
	GenomeMaxLength          int
	PointMutationRate        float64
	GeneInsertionDeletionRate float64
	DeletionRatio            float64
	SexualReproduction       bool
	ChooseParentsByFitness   bool
	GridSizeX, GridSizeY     int
}

// Spawn produces Params.Population genomes from survivors (possibly
// empty): a random genome if no survivors, else sexual or asexual
// reproduction per Params, followed by point mutation then
// insertion/deletion.
func Spawn(r *rng.RNG, survivors []*agent.Agent, p Params) []genome.Genome {
	out := make([]genome.Genome, p.Population)
	for i := 0; i < p.Population; i++ {
		var child genome.Genome
		switch {
		case len(survivors) == 0:
			n := r.NextRange(p.GenomeInitialLengthMin, p.GenomeInitialLengthMax)
			child = genome.MakeRandomGenome(r, n)
		case p.SexualReproduction && len(survivors) >= 2:
			parent1 := selectParent(r, survivors, p.ChooseParentsByFitness, p.GridSizeX, p.GridSizeY)
			parent2 := selectParent(r, survivors, p.ChooseParentsByFitness, p.GridSizeX, p.GridSizeY)
			for attempt := 0; attempt < 10 && parent2 == parent1; attempt++ {
				parent2 = selectParent(r, survivors, p.ChooseParentsByFitness, p.GridSizeX, p.GridSizeY)
			}
			child = genome.Crossover(r, parent1.Genome, parent2.Genome)
		default:
			parent := selectParent(r, survivors, p.ChooseParentsByFitness, p.GridSizeX, p.GridSizeY)
			child = parent.Genome.Clone()
		}

		genome.ApplyPointMutations(r, child, p.PointMutationRate)
		child = genome.ApplyInsertionDeletion(r, child, p.GeneInsertionDeletionRate, p.DeletionRatio, p.GenomeMaxLength)
		out[i] = child
	}
	return out
}

// selectParent picks one survivor: uniformly at random if
// chooseParentsByFitness is off or only one survivor exists, otherwise via
// binary tournament (two uniform draws, keep the one closer to grid
// center by Manhattan distance).
func selectParent(r *rng.RNG, survivors []*agent.Agent, chooseByFitness bool, sizeX, sizeY int) *agent.Agent {
	if !chooseByFitness || len(survivors) == 1 {
		return survivors[r.NextInt(len(survivors))]
	}

	a := survivors[r.NextInt(len(survivors))]
	b := survivors[r.NextInt(len(survivors))]
	if manhattanToCenter(a, sizeX, sizeY) <= manhattanToCenter(b, sizeX, sizeY) {
		return a
	}
	return b
}

func manhattanToCenter(a *agent.Agent, sizeX, sizeY int) int {
	cx, cy := sizeX/2, sizeY/2
	return absInt(a.Loc.X-cx) + absInt(a.Loc.Y-cy)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
