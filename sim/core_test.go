package sim

import (
	"testing"

	"github.com/evocore/biosim/world"
)

func smallParams() Params {
	return Params{
		Population:                 0,
		StepsPerGeneration:         1,
		MaxGenerations:             0,
		SizeX:                      8,
		SizeY:                      8,
		GenomeInitialLengthMin:     4,
		GenomeInitialLengthMax:     8,
		GenomeMaxLength:            32,
		MaxNumberNeurons:           4,
		PointMutationRate:          0.001,
		GeneInsertionDeletionRate:  0.0005,
		DeletionRatio:              0.5,
		SexualReproduction:         true,
		ChooseParentsByFitness:     true,
		SurvivalCriteria:           nil,
		BarrierType:                world.BarrierNone,
		ResponsivenessCurveKFactor: 2.0,
		SignalLayers:               1,
		SignalSensorRadius:         1.5,
		LongProbeDistance:          16,
		ShortProbeBarrierDistance:  4,
		KillEnable:                 false,
		RngSeed:                    1,
		PopulationSensorRadius:     2.5,
	}
}

// S1: an empty population stepped once leaves the grid and signals all
// zero and advances simStep to 1.
func TestEmptyPopulationStepLeavesGridAndSignalsZero(t *testing.T) {
	p := smallParams()
	c, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Init()
	c.StepOnce()

	if c.simStep != 1 {
		t.Fatalf("expected simStep=1, got %d", c.simStep)
	}
	for _, b := range c.grid.Bytes() {
		if b != 0 {
			t.Fatal("expected an all-zero grid after stepping an empty population")
		}
	}
	for layer := 0; layer < c.signals.NumLayers(); layer++ {
		for _, b := range c.signals.Bytes(layer) {
			if b != 0 {
				t.Fatal("expected all-zero signals after stepping an empty population")
			}
		}
	}
}

// S3: two simulators constructed with identical params (same seed)
// produce identical initial placements.
func TestDeterministicPlacementAcrossReset(t *testing.T) {
	p := smallParams()
	p.Population = 4
	p.SizeX, p.SizeY = 4, 4

	locsFor := func() []world.Coord {
		c, err := New(p)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		c.Init()
		out := make([]world.Coord, 0, len(c.pop.Agents)-1)
		for i := 1; i < len(c.pop.Agents); i++ {
			out = append(out, c.pop.At(i).Loc)
		}
		return out
	}

	a := locsFor()
	b := locsFor()
	if len(a) != len(b) {
		t.Fatalf("expected equal placement counts, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("placement %d differs across runs: %v != %v", i, a[i], b[i])
		}
	}
}

// No two living agents may occupy the same cell after a step drains its
// move/death queues.
func TestNoCellCollisionsAfterStep(t *testing.T) {
	p := smallParams()
	p.Population = 30
	p.SizeX, p.SizeY = 8, 8
	p.StepsPerGeneration = 5

	c, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Init()
	for i := 0; i < 5; i++ {
		c.StepOnce()
	}

	seen := map[world.Coord]int{}
	for _, a := range c.pop.Living() {
		if prev, ok := seen[a.Loc]; ok {
			t.Fatalf("agents %d and %d occupy the same cell %v after drain", prev, a.Index, a.Loc)
		}
		seen[a.Loc] = a.Index
	}
}

// Barrier cells never move: whatever was a barrier before a step remains
// a barrier afterward.
func TestBarrierCellsNeverMove(t *testing.T) {
	p := smallParams()
	p.Population = 20
	p.SizeX, p.SizeY = 16, 16
	p.BarrierType = world.BarrierFiveBlocks

	c, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Init()

	before := make([]bool, p.SizeX*p.SizeY)
	for y := 0; y < p.SizeY; y++ {
		for x := 0; x < p.SizeX; x++ {
			before[y*p.SizeX+x] = c.grid.IsBarrier(world.Coord{X: x, Y: y})
		}
	}

	c.StepOnce()

	for y := 0; y < p.SizeY; y++ {
		for x := 0; x < p.SizeX; x++ {
			idx := y*p.SizeX + x
			if before[idx] && !c.grid.IsBarrier(world.Coord{X: x, Y: y}) {
				t.Fatalf("barrier cell (%d,%d) stopped being a barrier after a step", x, y)
			}
		}
	}
}

// RunGeneration advances exactly to the generation boundary and resets
// simStep for the next generation.
func TestRunGenerationAdvancesGenerationCounter(t *testing.T) {
	p := smallParams()
	p.Population = 10
	p.StepsPerGeneration = 3

	c, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Init()
	stats := c.RunGeneration()

	if c.generation != 1 {
		t.Fatalf("expected generation=1 after RunGeneration, got %d", c.generation)
	}
	if c.simStep != 0 {
		t.Fatalf("expected simStep reset to 0, got %d", c.simStep)
	}
	if stats.Population != 10 {
		t.Fatalf("expected stats.Population=10, got %d", stats.Population)
	}
}
