package spawn

import (
	"testing"

	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/genome"
	"github.com/evocore/biosim/rng"
	"github.com/evocore/biosim/world"
)

func defaultParams() Params {
	return Params{
		Population:                4,
		GenomeInitialLengthMin:    2,
		GenomeInitialLengthMax:    4,
		GenomeMaxLength:           20,
		PointMutationRate:         0,
		GeneInsertionDeletionRate: 0,
		DeletionRatio:             0.5,
		SexualReproduction:        false,
		ChooseParentsByFitness:    false,
		GridSizeX:                 16,
		GridSizeY:                 16,
	}
}

func newSurvivor(idx int, loc world.Coord, length int) *agent.Agent {
	g := make(genome.Genome, length)
	for i := range g {
		g[i] = genome.Unpack(uint32(idx*1000 + i + 1))
	}
	return agent.New(idx, loc, g, 21, 17, 8, 4)
}

func TestSpawnWithNoSurvivorsProducesRandomGenomes(t *testing.T) {
	r := rng.New(1)
	out := Spawn(r, nil, defaultParams())
	if len(out) != 4 {
		t.Fatalf("expected 4 genomes, got %d", len(out))
	}
	for _, g := range out {
		if len(g) < 2 || len(g) > 4 {
			t.Fatalf("expected genome length in [2,4], got %d", len(g))
		}
	}
}

func TestSpawnAsexualClonesSelectedParent(t *testing.T) {
	r := rng.New(1)
	survivor := newSurvivor(1, world.Coord{X: 8, Y: 8}, 3)
	params := defaultParams()
	params.Population = 1

	out := Spawn(r, []*agent.Agent{survivor}, params)
	if len(out) != 1 {
		t.Fatalf("expected 1 genome, got %d", len(out))
	}
	if !out[0].Equal(survivor.Genome) {
		t.Fatal("expected asexual child (with zero mutation rates) to equal the lone survivor's genome")
	}
}

func TestSpawnSexualProducesPopulationSizedOutput(t *testing.T) {
	r := rng.New(1)
	survivors := []*agent.Agent{
		newSurvivor(1, world.Coord{X: 2, Y: 2}, 3),
		newSurvivor(2, world.Coord{X: 12, Y: 12}, 3),
	}
	params := defaultParams()
	params.SexualReproduction = true

	out := Spawn(r, survivors, params)
	if len(out) != params.Population {
		t.Fatalf("expected %d genomes, got %d", params.Population, len(out))
	}
	for _, g := range out {
		if len(g) == 0 {
			t.Fatal("expected non-empty child genomes")
		}
	}
}

func TestSelectParentUniformWithoutFitness(t *testing.T) {
	r := rng.New(1)
	survivors := []*agent.Agent{
		newSurvivor(1, world.Coord{X: 2, Y: 2}, 3),
		newSurvivor(2, world.Coord{X: 12, Y: 12}, 3),
	}
	p := selectParent(r, survivors, false, 16, 16)
	if p != survivors[0] && p != survivors[1] {
		t.Fatal("expected selectParent to return one of the survivors")
	}
}

func TestSelectParentSingleSurvivorAlwaysReturnsIt(t *testing.T) {
	r := rng.New(1)
	survivors := []*agent.Agent{newSurvivor(1, world.Coord{X: 8, Y: 8}, 3)}
	p := selectParent(r, survivors, true, 16, 16)
	if p != survivors[0] {
		t.Fatal("expected the only survivor to always be selected")
	}
}

func TestSelectParentByFitnessPrefersCloserToCenter(t *testing.T) {
	r := rng.New(7)
	center := newSurvivor(1, world.Coord{X: 8, Y: 8}, 3)
	corner := newSurvivor(2, world.Coord{X: 0, Y: 0}, 3)

	// Run many tournaments; the closer-to-center agent should win whenever
	// both are drawn, so it must appear at least as often as the corner.
	centerWins, cornerWins := 0, 0
	for i := 0; i < 50; i++ {
		p := selectParent(r, []*agent.Agent{center, corner}, true, 16, 16)
		if p == center {
			centerWins++
		} else {
			cornerWins++
		}
	}
	if centerWins < cornerWins {
		t.Fatalf("expected the closer-to-center agent to win at least as often: center=%d corner=%d", centerWins, cornerWins)
	}
}
