// Package actions turns a network's action-level vector into mutations on
// the acting agent plus queued move/kill effects. Every action is applied
// from a single action-level vector produced by one neural.Network.Forward
// call; movement actions accumulate into a shared (moveX,moveY) pair that
// is quantized once at the end.
package actions

import (
	"math"

	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/rng"
	"github.com/evocore/biosim/world"
)

// Action indices, in the fixed order the neural network's output vector is
// addressed by. NUM_ACTIONS must equal len of this list (17).
const (
	MoveX = iota
	MoveY
	MoveForward
	MoveRL
	MoveRandom
	MoveLeft
	MoveRight
	MoveReverse
	MoveEast
	MoveWest
	MoveNorth
	MoveSouth
	SetOscillatorPeriod
	SetLongProbeDist
	SetResponsiveness
	EmitSignal0
	KillForward

	NumActions
)

// Locator resolves a grid cell's agent index to the live agent occupying
// it, or nil if the cell is empty, barrier, or the referenced agent is
// dead. Mirrors sensors.Locator; kept as its own type so actions does not
// need to import sensors.
type Locator func(index int) *agent.Agent

// Config holds the tunables actions needs beyond the agent and world:
// values that come from simulation parameters rather than per-agent state.
type Config struct {
	ResponsivenessCurveK float64
	LongProbeDistance    int // config default range for SET_LONGPROBE_DIST
	KillEnable           bool
}

// Result is the set of deferred effects produced by one agent's action
// execution. Direct mutations (oscPeriod, responsiveness, longProbeDist,
// lastMoveDir, signal emission) are applied to a and w/sig immediately by
// Execute; Move and KillTarget are left for the caller to enqueue, since
// queue ownership and drain ordering belong to the population manager.
type Result struct {
	Move       *world.Coord // non-nil: proposed destination cell
	KillTarget int          // 0: no kill; otherwise the 1-based index to kill
}

// Execute applies one step's action-level vector (length NumActions, each
// in [-1,1]) to a, mutating a's own fields immediately and emitting
// signals immediately, and returns the deferred move/kill effects for the
// caller to queue.
func Execute(a *agent.Agent, levels []float64, g *world.Grid, sig *world.Signals, r *rng.RNG, cfg *Config, agentAt Locator) Result {
	threshold := responsivenessEffective(a.Responsiveness, cfg.ResponsivenessCurveK)
	fireGate := threshold * 0.5

	var moveX, moveY float64

	moveX += levels[MoveX]
	moveY += levels[MoveY]

	fwd := a.LastMoveDir.AsUnitCoord()

	if level := levels[MoveForward]; math.Abs(level) > fireGate {
		moveX += float64(fwd.X) * level
		moveY += float64(fwd.Y) * level
	}

	if level := levels[MoveRL]; math.Abs(level) > fireGate {
		dir := a.LastMoveDir.Rotate90()
		if level <= 0 {
			dir = a.LastMoveDir.RotateNeg90()
		}
		u := dir.AsUnitCoord()
		moveX += float64(u.X)
		moveY += float64(u.Y)
	}

	if level := levels[MoveRandom]; math.Abs(level) > fireGate {
		dir := world.Direction(r.NextInt(8)) // North..NorthWest, excluding Center
		u := dir.AsUnitCoord()
		moveX += float64(u.X)
		moveY += float64(u.Y)
	}

	addIfFiring := func(level float64, dir world.Direction) {
		if math.Abs(level) > fireGate {
			u := dir.AsUnitCoord()
			moveX += float64(u.X)
			moveY += float64(u.Y)
		}
	}
	addIfFiring(levels[MoveLeft], a.LastMoveDir.RotateNeg90())
	addIfFiring(levels[MoveRight], a.LastMoveDir.Rotate90())
	addIfFiring(levels[MoveReverse], a.LastMoveDir.Rotate180())
	addIfFiring(levels[MoveEast], world.East)
	addIfFiring(levels[MoveWest], world.West)
	addIfFiring(levels[MoveNorth], world.North)
	addIfFiring(levels[MoveSouth], world.South)

	a.OscPeriod = maxInt(2, 1+int(math.Floor(math.Abs(levels[SetOscillatorPeriod])*100)))
	a.LongProbeDist = maxInt(1, 1+int(math.Floor(math.Abs(levels[SetLongProbeDist])*float64(cfg.LongProbeDistance))))
	a.Responsiveness = (levels[SetResponsiveness] + 1) / 2

	if math.Abs(levels[EmitSignal0]) > fireGate {
		sig.Emit(0, a.Loc, 1.5)
	}

	var result Result

	if math.Abs(levels[KillForward]) > fireGate && cfg.KillEnable {
		target := a.Loc.Add(fwd)
		idx := g.At(target)
		if idx != world.Empty && idx != world.Barrier {
			if victim := agentAt(int(idx)); victim != nil && victim.Alive {
				result.KillTarget = victim.Index
			}
		}
	}

	dx := quantize(moveX)
	dy := quantize(moveY)
	if dx != 0 || dy != 0 {
		dest := world.Coord{X: a.Loc.X + dx, Y: a.Loc.Y + dy}
		if g.IsInBounds(dest) && g.IsEmpty(dest) {
			result.Move = &dest
			a.LastMoveDir = world.FromUnitCoord(dx, dy)
		}
	}

	return result
}

// responsivenessEffective maps raw responsiveness (in [0,1]) through the
// source-embedded sigmoid. The constants 0.5 and 8 here, and the k factor,
// are preserved exactly as specified; do not normalize them.
func responsivenessEffective(raw, k float64) float64 {
	return 1 / (1 + math.Exp(-k*(raw-0.5)*8))
}

func quantize(v float64) int {
	if math.Abs(v) <= 0.5 {
		return 0
	}
	if v > 0 {
		return 1
	}
	return -1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
