// Package sensors computes each agent's 21-element sensory vector from its
// own state and its surroundings in the grid and signal layers. Every
// sensor is a pure function of (agent, world) returning a value in [0,1];
// together they form the input vector fed to neural.Network.Forward.
package sensors

import (
	"math"

	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/genome"
	"github.com/evocore/biosim/rng"
	"github.com/evocore/biosim/world"
)

// Sensor indices, in the fixed order fed to the neural network. NUM_SENSORS
// must equal len of this list (21).
const (
	LocX = iota
	LocY
	BoundaryDistX
	BoundaryDistY
	BoundaryDist
	LastMoveDirX
	LastMoveDirY
	GeneticSimFwd
	LongprobePopFwd
	LongprobeBarrierFwd
	Population
	PopulationFwd
	PopulationLR
	Osc1
	Age
	BarrierFwd
	BarrierLR
	Random
	Signal0
	Signal0Fwd
	Signal0LR

	NumSensors
)

// Locator resolves a grid cell's agent index (1-based, as stored in
// world.Grid) to the live agent occupying it, or nil if the cell is empty,
// barrier, or the referenced agent is dead.
type Locator func(index int) *agent.Agent

// Context bundles everything sensors need beyond the observing agent
// itself: the spatial substrate, the shared PRNG stream (RANDOM consumes
// it, in agent-index order, as part of the reproducibility contract), and
// the tunable ranges that come from simulation parameters rather than the
// agent or world.
type Context struct {
	Grid    *world.Grid
	Signals *world.Signals
	RNG     *rng.RNG
	AgentAt Locator

	SimStep            int
	StepsPerGeneration int
	PopulationRadius   float64
	SignalSensorRadius float64
	ShortProbeDist     int
}

// Compute fills and returns a NumSensors-length vector for a, in sensor
// index order.
func Compute(a *agent.Agent, ctx *Context) []float64 {
	out := make([]float64, NumSensors)
	Fill(a, ctx, out)
	return out
}

// Fill writes the sensor vector for a into dst, which must have length
// >= NumSensors. This is the allocation-free form; Compute wraps it.
func Fill(a *agent.Agent, ctx *Context, dst []float64) {
	g := ctx.Grid
	fwd := a.LastMoveDir.AsUnitCoord()

	dst[LocX] = float64(a.Loc.X) / float64(maxInt(g.SizeX-1, 1))
	dst[LocY] = float64(a.Loc.Y) / float64(maxInt(g.SizeY-1, 1))

	distLeft := a.Loc.X
	distRight := g.SizeX - 1 - a.Loc.X
	rawX := minInt(distLeft, distRight)
	dst[BoundaryDistX] = clamp01(float64(rawX) / (float64(g.SizeX) / 2))

	distTop := a.Loc.Y
	distBottom := g.SizeY - 1 - a.Loc.Y
	rawY := minInt(distTop, distBottom)
	dst[BoundaryDistY] = clamp01(float64(rawY) / (float64(g.SizeY) / 2))

	rawMin := minInt(rawX, rawY)
	dst[BoundaryDist] = clamp01(float64(rawMin) / (float64(minInt(g.SizeX, g.SizeY)) / 2))

	dst[LastMoveDirX] = (float64(fwd.X) + 1) / 2
	dst[LastMoveDirY] = (float64(fwd.Y) + 1) / 2

	dst[GeneticSimFwd] = geneticSimFwd(a, ctx, fwd)
	dst[LongprobePopFwd] = longProbeFwd(a, ctx, fwd)
	dst[LongprobeBarrierFwd] = longProbeBarrierFwd(a, ctx, fwd)

	dst[Population] = populationDensity(a, ctx)
	dst[PopulationFwd] = populationFwd(a, ctx, fwd)
	dst[PopulationLR] = populationLR(a, ctx, fwd)

	dst[Osc1] = osc1(a, ctx)
	dst[Age] = clamp01(float64(a.Age) / float64(maxInt(ctx.StepsPerGeneration, 1)))

	dst[BarrierFwd] = barrierFwd(a, ctx, fwd)
	dst[BarrierLR] = barrierLR(a, ctx, fwd)

	dst[Random] = ctx.RNG.Next01()

	dst[Signal0] = ctx.Signals.Density(0, a.Loc, ctx.SignalSensorRadius)
	dst[Signal0Fwd] = ctx.Signals.Density(0, a.Loc.Add(fwd), ctx.SignalSensorRadius)
	dst[Signal0LR] = signal0LR(a, ctx, fwd)
}

// geneticSimFwd is the Jaccard similarity between a's genome and the
// genome of the live agent occupying the cell one step forward, or 0 if
// that cell holds no live agent. Center (no established heading) has no
// meaningful forward neighbor, so it returns 0 rather than comparing the
// agent to itself.
func geneticSimFwd(a *agent.Agent, ctx *Context, fwd world.Coord) float64 {
	if fwd == (world.Coord{}) {
		return 0
	}
	occ := occupantAt(ctx, a.Loc.Add(fwd))
	if occ == nil {
		return 0
	}
	return genome.Similarity(a.Genome, occ.Genome)
}

func occupantAt(ctx *Context, c world.Coord) *agent.Agent {
	idx := ctx.Grid.At(c)
	if idx == world.Empty || idx == world.Barrier {
		return nil
	}
	occ := ctx.AgentAt(int(idx))
	if occ == nil || !occ.Alive {
		return nil
	}
	return occ
}

// longProbeFwd counts occupied cells stepping along fwd up to
// a.LongProbeDist, stopping at the first barrier or out-of-bounds cell,
// normalized by a.LongProbeDist. A zero heading probes nothing (result 0).
func longProbeFwd(a *agent.Agent, ctx *Context, fwd world.Coord) float64 {
	if fwd == (world.Coord{}) {
		return 0
	}
	count := 0
	loc := a.Loc
	for d := 1; d <= a.LongProbeDist; d++ {
		loc = loc.Add(fwd)
		if ctx.Grid.IsBarrier(loc) || !ctx.Grid.IsInBounds(loc) {
			break
		}
		if ctx.Grid.IsOccupied(loc) {
			count++
		}
	}
	return clamp01(float64(count) / float64(maxInt(a.LongProbeDist, 1)))
}

// longProbeBarrierFwd is the normalized distance to the first barrier or
// boundary within a.LongProbeDist, or 1.0 if none is found (including a
// zero heading, which finds nothing by construction).
func longProbeBarrierFwd(a *agent.Agent, ctx *Context, fwd world.Coord) float64 {
	if fwd == (world.Coord{}) {
		return 1.0
	}
	loc := a.Loc
	for d := 1; d <= a.LongProbeDist; d++ {
		loc = loc.Add(fwd)
		if ctx.Grid.IsBarrier(loc) || !ctx.Grid.IsInBounds(loc) {
			return float64(d) / float64(a.LongProbeDist)
		}
	}
	return 1.0
}

// populationDensity is the fraction of occupied cells in the circular
// neighborhood of radius ctx.PopulationRadius around a, self excluded from
// the denominator's effect only in that it is always counted (a occupies
// its own cell).
func populationDensity(a *agent.Agent, ctx *Context) float64 {
	var occupied, total int
	ctx.Grid.VisitNeighborhood(a.Loc, ctx.PopulationRadius, func(c world.Coord) {
		total++
		if ctx.Grid.IsOccupied(c) {
			occupied++
		}
	})
	if total == 0 {
		return 0
	}
	return clamp01(float64(occupied) / float64(total))
}

// populationFwd is the fraction of occupied cells stepping along fwd up to
// ctx.ShortProbeDist, stopping at a barrier or boundary. Zero heading
// probes nothing (result 0).
func populationFwd(a *agent.Agent, ctx *Context, fwd world.Coord) float64 {
	if fwd == (world.Coord{}) {
		return 0
	}
	occupied, steps := probeCount(ctx.Grid, a.Loc, fwd, ctx.ShortProbeDist)
	if steps == 0 {
		return 0
	}
	return clamp01(float64(occupied) / float64(steps))
}

// populationLR compares occupied-cell counts probing right (fwd rotated 90
// clockwise) versus left (rotated counter-clockwise), both over
// ctx.ShortProbeDist steps: right/(right+left), or 0.5 if both are equal
// (including the zero-heading case, where right and left degenerate to the
// same direction).
func populationLR(a *agent.Agent, ctx *Context, fwd world.Coord) float64 {
	rightDir := world.FromUnitCoord(fwd.X, fwd.Y).Rotate90().AsUnitCoord()
	leftDir := world.FromUnitCoord(fwd.X, fwd.Y).RotateNeg90().AsUnitCoord()
	right, _ := probeCount(ctx.Grid, a.Loc, rightDir, ctx.ShortProbeDist)
	left, _ := probeCount(ctx.Grid, a.Loc, leftDir, ctx.ShortProbeDist)
	if right+left == 0 {
		return 0.5
	}
	return float64(right) / float64(right+left)
}

func probeCount(g *world.Grid, from, dir world.Coord, maxDist int) (occupied, steps int) {
	if dir == (world.Coord{}) {
		return 0, 0
	}
	loc := from
	for d := 1; d <= maxDist; d++ {
		loc = loc.Add(dir)
		if g.IsBarrier(loc) || !g.IsInBounds(loc) {
			break
		}
		steps++
		if g.IsOccupied(loc) {
			occupied++
		}
	}
	return occupied, steps
}

// osc1 is a sine oscillator with period a.OscPeriod, rescaled to [0,1].
func osc1(a *agent.Agent, ctx *Context) float64 {
	period := maxInt(a.OscPeriod, 2)
	phase := float64(ctx.SimStep%period) / float64(period)
	return (math.Sin(2*math.Pi*phase) + 1) / 2
}

// barrierFwd is 1 minus the normalized distance to the first barrier or
// boundary within ctx.ShortProbeDist, 0 if none found, and 1 if the agent
// has no established heading (fwd is the zero vector).
func barrierFwd(a *agent.Agent, ctx *Context, fwd world.Coord) float64 {
	if fwd == (world.Coord{}) {
		return 1.0
	}
	loc := a.Loc
	for d := 1; d <= ctx.ShortProbeDist; d++ {
		loc = loc.Add(fwd)
		if ctx.Grid.IsBarrier(loc) || !ctx.Grid.IsInBounds(loc) {
			return 1 - float64(d)/float64(ctx.ShortProbeDist+1)
		}
	}
	return 0
}

// barrierLR probes right versus left for a barrier or boundary within
// ctx.ShortProbeDist: 0 if one is found only on the right, 1 if only on the
// left, 0.5 otherwise (neither, both, or a zero heading where right and
// left degenerate to the same probe).
func barrierLR(a *agent.Agent, ctx *Context, fwd world.Coord) float64 {
	rightDir := world.FromUnitCoord(fwd.X, fwd.Y).Rotate90().AsUnitCoord()
	leftDir := world.FromUnitCoord(fwd.X, fwd.Y).RotateNeg90().AsUnitCoord()
	rightHit := probeBarrierHit(ctx.Grid, a.Loc, rightDir, ctx.ShortProbeDist)
	leftHit := probeBarrierHit(ctx.Grid, a.Loc, leftDir, ctx.ShortProbeDist)
	switch {
	case rightHit && !leftHit:
		return 0
	case leftHit && !rightHit:
		return 1
	default:
		return 0.5
	}
}

func probeBarrierHit(g *world.Grid, from, dir world.Coord, maxDist int) bool {
	if dir == (world.Coord{}) {
		return false
	}
	loc := from
	for d := 1; d <= maxDist; d++ {
		loc = loc.Add(dir)
		if g.IsBarrier(loc) || !g.IsInBounds(loc) {
			return true
		}
	}
	return false
}

// signal0LR compares own-cell-adjacent pheromone density probing right
// versus left: right/(right+left), or 0.5 if both are zero.
func signal0LR(a *agent.Agent, ctx *Context, fwd world.Coord) float64 {
	rightDir := world.FromUnitCoord(fwd.X, fwd.Y).Rotate90().AsUnitCoord()
	leftDir := world.FromUnitCoord(fwd.X, fwd.Y).RotateNeg90().AsUnitCoord()
	right := float64(ctx.Signals.At(0, a.Loc.Add(rightDir)))
	left := float64(ctx.Signals.At(0, a.Loc.Add(leftDir)))
	if right+left == 0 {
		return 0.5
	}
	return right / (right + left)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
