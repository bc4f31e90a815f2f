package sim

import (
	"github.com/evocore/biosim/actions"
	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/genome"
	"github.com/evocore/biosim/population"
	"github.com/evocore/biosim/rng"
	"github.com/evocore/biosim/sensors"
	"github.com/evocore/biosim/spawn"
	"github.com/evocore/biosim/survival"
	"github.com/evocore/biosim/telemetry"
	"github.com/evocore/biosim/world"
)

const maxPlacementAttempts = 10000

// Core owns a single run's simulation state: config-derived parameters,
// the shared PRNG, the spatial substrate, the living population, and the
// generation/step counters. Every PRNG draw anywhere in a run funnels
// through Core.rng, in a fixed order so a given seed always reproduces
// the same run: barrier creation, then initial placement and genome
// generation, then per-step sensor/action draws in agent-index order,
// then survival+spawn selection, then the next generation's
// barrier+placement.
type Core struct {
	Params Params

	rng     *rng.RNG
	grid    *world.Grid
	signals *world.Signals
	pop     *population.Population

	generation int
	simStep    int

	history   []telemetry.GenerationStats
	hof       *telemetry.HallOfFame
	bookmarks *telemetry.BookmarkDetector

	lastStats     telemetry.GenerationStats
	lastBookmarks []telemetry.Bookmark
}

// New constructs a Core from p, without running init. Callers that want a
// ready-to-step simulator should call Init immediately after.
func New(p Params) (*Core, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := rng.New(p.RngSeed)
	return &Core{
		Params:    p,
		rng:       r,
		hof:       telemetry.NewHallOfFame(10, r),
		bookmarks: telemetry.NewBookmarkDetector(10),
	}, nil
}

// Init (re)initializes the simulator: zero counters and history, clear
// grid and signals, place barriers, then spawn the first generation from
// fresh random genomes.
func (c *Core) Init() {
	c.generation = 0
	c.simStep = 0
	c.history = nil

	c.grid = world.NewGrid(c.Params.SizeX, c.Params.SizeY)
	c.signals = world.NewSignals(c.Params.SizeX, c.Params.SizeY, c.Params.SignalLayers)

	world.PlaceBarriers(c.grid, c.Params.BarrierType, c.rng)

	genomes := make([]genome.Genome, c.Params.Population)
	for i := range genomes {
		n := c.rng.NextRange(c.Params.GenomeInitialLengthMin, c.Params.GenomeInitialLengthMax)
		genomes[i] = genome.MakeRandomGenome(c.rng, n)
	}

	c.spawnGeneration(genomes)
}

// spawnGeneration places genomes at random empty cells (retrying up to
// maxPlacementAttempts per cell; placement stops short if the grid fills
// up before every genome is placed) and builds the resulting Population.
func (c *Core) spawnGeneration(genomes []genome.Genome) {
	locs := make([]world.Coord, 0, len(genomes))
	for i := 0; i < len(genomes); i++ {
		loc, ok := c.randomEmptyCell()
		if !ok {
			genomes = genomes[:len(locs)]
			break
		}
		locs = append(locs, loc)
		// Mark the cell pending-occupied so later draws in this same
		// batch cannot collide with it; population.Place overwrites this
		// placeholder with the agent's real index once genomes/locs are
		// both finalized.
		c.grid.Set(loc, world.Barrier)
	}
	// Undo the placeholder marks; population.Place below re-marks every
	// chosen cell with its real agent index.
	for _, loc := range locs {
		c.grid.Set(loc, world.Empty)
	}

	c.pop = population.Place(c.grid, genomes, locs, sensors.NumSensors, actions.NumActions, c.Params.MaxNumberNeurons, c.Params.LongProbeDistance)
	c.pop.ResetGenerationCounters()
}

// randomEmptyCell searches for an empty, non-barrier cell via up to
// maxPlacementAttempts uniform draws, returning ok=false if none is found
// (the grid is effectively full).
func (c *Core) randomEmptyCell() (world.Coord, bool) {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		loc := world.Coord{X: c.rng.NextInt(c.Params.SizeX), Y: c.rng.NextInt(c.Params.SizeY)}
		if c.grid.IsEmpty(loc) {
			return loc, true
		}
	}
	return world.Coord{}, false
}

// agentAt resolves a grid cell's stored index to its live agent, matching
// both sensors.Locator and actions.Locator.
func (c *Core) agentAt(index int) *agent.Agent {
	a := c.pop.At(index)
	if a == nil || !a.Alive {
		return nil
	}
	return a
}

// StepOnce advances the simulation by exactly one step: every living
// agent senses, feeds forward, and acts (ages by one), in ascending index
// order; queued deaths then moves drain; signals fade; simStep increments.
func (c *Core) StepOnce() {
	sensorCtx := &sensors.Context{
		Grid:               c.grid,
		Signals:            c.signals,
		RNG:                c.rng,
		AgentAt:            c.agentAt,
		SimStep:            c.simStep,
		StepsPerGeneration: c.Params.StepsPerGeneration,
		PopulationRadius:   c.Params.PopulationSensorRadius,
		SignalSensorRadius: c.Params.SignalSensorRadius,
		ShortProbeDist:     c.Params.ShortProbeBarrierDistance,
	}
	actionCfg := &actions.Config{
		ResponsivenessCurveK: c.Params.ResponsivenessCurveKFactor,
		LongProbeDistance:    c.Params.LongProbeDistance,
		KillEnable:           c.Params.KillEnable,
	}

	sensorVec := make([]float64, sensors.NumSensors)
	for idx := 1; idx < len(c.pop.Agents); idx++ {
		a := c.pop.At(idx)
		if a == nil || !a.Alive {
			continue
		}

		sensors.Fill(a, sensorCtx, sensorVec)
		levels := a.Network.Forward(sensorVec)
		result := actions.Execute(a, levels, c.grid, c.signals, c.rng, actionCfg, c.agentAt)
		a.Age++

		if result.Move != nil {
			c.pop.ProposeMove(a.Index, *result.Move)
		}
		if result.KillTarget != 0 {
			c.pop.ProposeKillDeath(result.KillTarget)
		}
	}

	c.pop.Drain(c.grid)
	c.signals.FadeAll()
	c.simStep++
}

// RunGeneration steps until simStep reaches StepsPerGeneration, then ends
// the generation and returns its stats.
func (c *Core) RunGeneration() telemetry.GenerationStats {
	for c.simStep < c.Params.StepsPerGeneration {
		c.StepOnce()
	}
	return c.endGeneration()
}

// endGeneration computes survival, records stats and bookmarks, spawns
// the next generation's genomes, and resets the grid/signals/population
// for it.
func (c *Core) endGeneration() telemetry.GenerationStats {
	living := c.pop.Living()
	survivors := survival.Evaluate(living, c.grid, c.Params.SurvivalCriteria)

	stats := telemetry.ComputeGenerationStats(c.generation, c.rng, living, survivors, c.pop.Networks(), c.pop.KillDeaths())
	c.history = append(c.history, stats)
	c.lastStats = stats
	c.lastBookmarks = c.bookmarks.Check(stats)

	for _, s := range survivors {
		c.hof.Consider(s, stats.SurvivalRate, c.generation)
	}

	spawnParams := spawn.Params{
		Population:                c.Params.Population,
		GenomeInitialLengthMin:    c.Params.GenomeInitialLengthMin,
		GenomeInitialLengthMax:    c.Params.GenomeInitialLengthMax,
		GenomeMaxLength:           c.Params.GenomeMaxLength,
		PointMutationRate:         c.Params.PointMutationRate,
		GeneInsertionDeletionRate: c.Params.GeneInsertionDeletionRate,
		DeletionRatio:             c.Params.DeletionRatio,
		SexualReproduction:        c.Params.SexualReproduction,
		ChooseParentsByFitness:    c.Params.ChooseParentsByFitness,
		GridSizeX:                 c.Params.SizeX,
		GridSizeY:                 c.Params.SizeY,
	}
	genomes := spawn.Spawn(c.rng, survivors, spawnParams)

	c.grid.Clear()
	c.signals.Clear()
	world.PlaceBarriers(c.grid, c.Params.BarrierType, c.rng)
	c.spawnGeneration(genomes)

	c.generation++
	c.simStep = 0

	return stats
}

// colorBytes encodes the grid as sizeX*sizeY*3 RGB bytes: empty and
// barrier cells render black, occupied cells render the occupying
// agent's genome-derived color.
func (c *Core) colorBytes() []byte {
	out := make([]byte, c.Params.SizeX*c.Params.SizeY*3)
	for y := 0; y < c.Params.SizeY; y++ {
		for x := 0; x < c.Params.SizeX; x++ {
			idx := y*c.Params.SizeX + x
			v := c.grid.At(world.Coord{X: x, Y: y})
			if v == world.Empty || v == world.Barrier {
				continue
			}
			a := c.pop.At(int(v))
			if a == nil {
				continue
			}
			out[3*idx] = a.Color.R
			out[3*idx+1] = a.Color.G
			out[3*idx+2] = a.Color.B
		}
	}
	return out
}
