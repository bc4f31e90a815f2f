// Package survival implements the end-of-generation survival predicates
// and the active-criteria evaluator that selects which living agents pass
// to the spawner.
package survival

import (
	"math"

	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/world"
)

// Criterion names one survival predicate.
type Criterion int

const (
	Circle Criterion = iota
	RightEighth
	LeftEighth
	CenterWeighted
	CornerWeighted
	Pairs
	Contact
	AgainstAnyWall
	TouchAnyWall
)

// predicate evaluates one criterion for a against g.
type predicate func(a *agent.Agent, g *world.Grid) bool

var predicates = map[Criterion]predicate{
	Circle:         circle,
	RightEighth:    rightEighth,
	LeftEighth:     leftEighth,
	CenterWeighted: centerWeighted,
	CornerWeighted: cornerWeighted,
	Pairs:          pairs,
	Contact:        contact,
	AgainstAnyWall: againstAnyWall,
	TouchAnyWall:   touchAnyWall,
}

func circle(a *agent.Agent, g *world.Grid) bool {
	cx, cy := float64(g.SizeX)/2, float64(g.SizeY)/2
	dx, dy := float64(a.Loc.X)-cx, float64(a.Loc.Y)-cy
	dist := math.Sqrt(dx*dx + dy*dy)
	return dist <= float64(minInt(g.SizeX, g.SizeY))/4
}

func rightEighth(a *agent.Agent, g *world.Grid) bool {
	return float64(a.Loc.X) > float64(g.SizeX)*7/8
}

func leftEighth(a *agent.Agent, g *world.Grid) bool {
	return float64(a.Loc.X) < float64(g.SizeX)/8
}

// centerWeighted and cornerWeighted are threshold predicates despite their
// names: no probabilistic weighting is applied, per the documented design
// decision to keep the source's literal predicate rather than a
// probability-sampled one.
func centerWeighted(a *agent.Agent, g *world.Grid) bool {
	cx, cy := float64(g.SizeX)/2, float64(g.SizeY)/2
	dx, dy := float64(a.Loc.X)-cx, float64(a.Loc.Y)-cy
	dist := math.Sqrt(dx*dx + dy*dy)
	maxDiag := math.Sqrt(cx*cx + cy*cy)
	return 1-dist/maxDiag > 0.5
}

func cornerWeighted(a *agent.Agent, g *world.Grid) bool {
	corners := [4]world.Coord{
		{X: 0, Y: 0}, {X: g.SizeX - 1, Y: 0}, {X: 0, Y: g.SizeY - 1}, {X: g.SizeX - 1, Y: g.SizeY - 1},
	}
	best := math.Inf(1)
	for _, c := range corners {
		dx, dy := float64(a.Loc.X-c.X), float64(a.Loc.Y-c.Y)
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < best {
			best = dist
		}
	}
	diag := math.Sqrt(float64(g.SizeX*g.SizeX + g.SizeY*g.SizeY))
	return best < 0.25*diag/2
}

func pairs(a *agent.Agent, g *world.Grid) bool {
	found := false
	g.VisitNeighborhood(a.Loc, 1.5, func(c world.Coord) {
		if found || c == a.Loc {
			return
		}
		if g.IsOccupied(c) {
			found = true
		}
	})
	return found
}

func contact(a *agent.Agent, g *world.Grid) bool {
	for _, d := range [4]world.Coord{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}} {
		if g.IsOccupied(a.Loc.Add(d)) {
			return true
		}
	}
	return false
}

func againstAnyWall(a *agent.Agent, g *world.Grid) bool {
	return a.Loc.X == 0 || a.Loc.Y == 0 || a.Loc.X == g.SizeX-1 || a.Loc.Y == g.SizeY-1
}

func touchAnyWall(a *agent.Agent, g *world.Grid) bool {
	return a.Loc.X <= 1 || a.Loc.Y <= 1 || a.Loc.X >= g.SizeX-2 || a.Loc.Y >= g.SizeY-2
}

// Evaluate returns the subset of living that satisfies at least one
// criterion in active. An empty active set means every living agent
// survives.
func Evaluate(living []*agent.Agent, g *world.Grid, active []Criterion) []*agent.Agent {
	if len(active) == 0 {
		out := make([]*agent.Agent, len(living))
		copy(out, living)
		return out
	}

	preds := make([]predicate, 0, len(active))
	for _, c := range active {
		if p, ok := predicates[c]; ok {
			preds = append(preds, p)
		}
	}

	out := make([]*agent.Agent, 0, len(living))
	for _, a := range living {
		for _, p := range preds {
			if p(a, g) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
