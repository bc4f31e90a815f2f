package actions

import (
	"testing"

	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/genome"
	"github.com/evocore/biosim/rng"
	"github.com/evocore/biosim/world"
)

func newTestAgent(t *testing.T, loc world.Coord) *agent.Agent {
	t.Helper()
	g := genome.Genome{genome.Unpack(42)}
	return agent.New(1, loc, g, 21, NumActions, 8, 4)
}

func zeroLevels() []float64 {
	return make([]float64, NumActions)
}

func defaultConfig() *Config {
	return &Config{ResponsivenessCurveK: 1.0, LongProbeDistance: 4, KillEnable: true}
}

func TestNumActionsIs17(t *testing.T) {
	if NumActions != 17 {
		t.Fatalf("expected 17 actions, got %d", NumActions)
	}
}

func TestNoActionFiresWithAllZeroLevels(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	r := rng.New(1)

	res := Execute(a, zeroLevels(), g, sig, r, defaultConfig(), func(int) *agent.Agent { return nil })
	if res.Move != nil {
		t.Fatalf("expected no move with all-zero levels, got %+v", *res.Move)
	}
	if res.KillTarget != 0 {
		t.Fatal("expected no kill with all-zero levels")
	}
}

func TestMoveXPositiveProposesEastMove(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	r := rng.New(1)

	levels := zeroLevels()
	levels[MoveX] = 1.0

	res := Execute(a, levels, g, sig, r, defaultConfig(), func(int) *agent.Agent { return nil })
	if res.Move == nil {
		t.Fatal("expected a proposed move")
	}
	if *res.Move != (world.Coord{X: 6, Y: 5}) {
		t.Fatalf("expected move to (6,5), got %+v", *res.Move)
	}
	if a.LastMoveDir != world.East {
		t.Fatalf("expected lastMoveDir East, got %v", a.LastMoveDir)
	}
}

func TestMoveProposalBlockedByOccupiedDestination(t *testing.T) {
	g := world.NewGrid(10, 10)
	g.Set(world.Coord{X: 6, Y: 5}, 2)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	r := rng.New(1)

	levels := zeroLevels()
	levels[MoveX] = 1.0

	res := Execute(a, levels, g, sig, r, defaultConfig(), func(int) *agent.Agent { return nil })
	if res.Move != nil {
		t.Fatal("expected no move proposal into an occupied cell")
	}
	// lastMoveDir only updates alongside an actually enqueued move.
	if a.LastMoveDir != world.Center {
		t.Fatalf("expected lastMoveDir unchanged when the move is rejected, got %v", a.LastMoveDir)
	}
}

func TestMoveProposalBlockedAtBoundary(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 9, Y: 5})
	r := rng.New(1)

	levels := zeroLevels()
	levels[MoveX] = 1.0

	res := Execute(a, levels, g, sig, r, defaultConfig(), func(int) *agent.Agent { return nil })
	if res.Move != nil {
		t.Fatal("expected no move proposal past the grid boundary")
	}
	if a.LastMoveDir != world.Center {
		t.Fatalf("expected lastMoveDir unchanged when the move is rejected, got %v", a.LastMoveDir)
	}
}

func TestMoveBelowQuantizationThresholdDoesNotFire(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	r := rng.New(1)

	levels := zeroLevels()
	levels[MoveX] = 0.4 // |moveX| <= 0.5 quantizes to 0

	res := Execute(a, levels, g, sig, r, defaultConfig(), func(int) *agent.Agent { return nil })
	if res.Move != nil {
		t.Fatal("expected no move below the quantization threshold")
	}
}

func TestSetResponsivenessUpdatesImmediately(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	r := rng.New(1)

	levels := zeroLevels()
	levels[SetResponsiveness] = 1.0 // (1+1)/2 = 1.0

	Execute(a, levels, g, sig, r, defaultConfig(), func(int) *agent.Agent { return nil })
	if a.Responsiveness != 1.0 {
		t.Fatalf("expected responsiveness 1.0, got %v", a.Responsiveness)
	}
}

func TestSetOscillatorPeriodFloorsAndFloors2(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	r := rng.New(1)

	levels := zeroLevels()
	levels[SetOscillatorPeriod] = 0 // max(2, 1+floor(0)) = 2

	Execute(a, levels, g, sig, r, defaultConfig(), func(int) *agent.Agent { return nil })
	if a.OscPeriod != 2 {
		t.Fatalf("expected oscPeriod floor of 2, got %d", a.OscPeriod)
	}
}

func TestEmitSignalOnlyFiresAboveThreshold(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	r := rng.New(1)
	cfg := defaultConfig()

	below := zeroLevels()
	below[EmitSignal0] = 0.01
	Execute(a, below, g, sig, r, cfg, func(int) *agent.Agent { return nil })
	if sig.At(0, a.Loc) != 0 {
		t.Fatal("expected no emission below firing threshold")
	}

	above := zeroLevels()
	above[EmitSignal0] = 1.0
	Execute(a, above, g, sig, r, cfg, func(int) *agent.Agent { return nil })
	if sig.At(0, a.Loc) == 0 {
		t.Fatal("expected emission above firing threshold")
	}
}

func TestKillForwardRequiresLivingOccupant(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	a.LastMoveDir = world.East
	r := rng.New(1)

	victim := newTestAgent(t, world.Coord{X: 6, Y: 5})
	victim.Index = 2
	g.Set(world.Coord{X: 6, Y: 5}, 2)

	levels := zeroLevels()
	levels[KillForward] = 1.0

	res := Execute(a, levels, g, sig, r, defaultConfig(), func(idx int) *agent.Agent {
		if idx == 2 {
			return victim
		}
		return nil
	})
	if res.KillTarget != 2 {
		t.Fatalf("expected kill target 2, got %d", res.KillTarget)
	}
}

func TestKillForwardDisabledByConfig(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	a.LastMoveDir = world.East
	r := rng.New(1)

	victim := newTestAgent(t, world.Coord{X: 6, Y: 5})
	victim.Index = 2
	g.Set(world.Coord{X: 6, Y: 5}, 2)

	cfg := defaultConfig()
	cfg.KillEnable = false

	levels := zeroLevels()
	levels[KillForward] = 1.0

	res := Execute(a, levels, g, sig, r, cfg, func(idx int) *agent.Agent {
		if idx == 2 {
			return victim
		}
		return nil
	})
	if res.KillTarget != 0 {
		t.Fatal("expected no kill when killEnable is false")
	}
}

func TestKillForwardNoOpAgainstEmptyCell(t *testing.T) {
	g := world.NewGrid(10, 10)
	sig := world.NewSignals(10, 10, 1)
	a := newTestAgent(t, world.Coord{X: 5, Y: 5})
	a.LastMoveDir = world.East
	r := rng.New(1)

	levels := zeroLevels()
	levels[KillForward] = 1.0

	res := Execute(a, levels, g, sig, r, defaultConfig(), func(int) *agent.Agent { return nil })
	if res.KillTarget != 0 {
		t.Fatal("expected no kill against an empty forward cell")
	}
}
