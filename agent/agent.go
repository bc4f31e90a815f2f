// Package agent defines the per-individual simulation state and the
// genome-derived color used to render each agent.
package agent

import (
	"github.com/evocore/biosim/genome"
	"github.com/evocore/biosim/neural"
	"github.com/evocore/biosim/world"
)

// Agent holds one individual's full lifetime state. Index 0 is reserved
// as the null slot; live agents are always indexed 1..N (1-based),
// matching the grid cell convention.
type Agent struct {
	Index int // 1-based, stable for the agent's lifetime

	Alive bool
	Loc      world.Coord
	BirthLoc world.Coord

	LastMoveDir world.Direction

	Genome  genome.Genome
	Network *neural.Network

	Age int

	Responsiveness float64 // in [0,1]
	OscPeriod      int     // >= 2
	LongProbeDist  int     // >= 1

	Color RGB
}

// New constructs a fresh agent at loc with the given genome, building its
// network and deriving its color. Defaults: lastMoveDir Center, age 0,
// responsiveness 0.5, oscPeriod 34, longProbeDist from the supplied
// default.
func New(index int, loc world.Coord, g genome.Genome, numSensors, numActions, maxInternalNeurons, defaultLongProbeDist int) *Agent {
	return &Agent{
		Index:          index,
		Alive:          true,
		Loc:            loc,
		BirthLoc:       loc,
		LastMoveDir:    world.Center,
		Genome:         g,
		Network:        neural.Build(g, numSensors, numActions, maxInternalNeurons),
		Age:            0,
		Responsiveness: 0.5,
		OscPeriod:      34,
		LongProbeDist:  defaultLongProbeDist,
		Color:          ColorFromGenome(g),
	}
}
