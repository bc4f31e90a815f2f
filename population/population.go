// Package population owns the live agent set and the move/death intent
// queues produced while a step executes, draining them in the fixed order
// the simulator's reproducibility contract requires: deaths before moves.
package population

import (
	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/genome"
	"github.com/evocore/biosim/neural"
	"github.com/evocore/biosim/world"
)

type moveIntent struct {
	agentIndex int
	newLoc     world.Coord
}

// Population holds the agent slice (1-based; index 0 is always nil) and
// the queues agents fill during a step's action phase.
type Population struct {
	Agents []*agent.Agent // Agents[0] is the reserved null slot

	moveQueue  []moveIntent
	deathQueue []int

	killDeaths int // deaths caused by KILL_FORWARD this generation, for stats
}

// New allocates a Population sized for n live agents (1-based indices
// 1..n), all slots empty.
func New(n int) *Population {
	return &Population{Agents: make([]*agent.Agent, n+1)}
}

// At returns the agent at the given 1-based index, or nil for the null
// slot or an out-of-range index.
func (p *Population) At(index int) *agent.Agent {
	if index <= 0 || index >= len(p.Agents) {
		return nil
	}
	return p.Agents[index]
}

// Living returns every currently-alive agent, in ascending index order.
func (p *Population) Living() []*agent.Agent {
	out := make([]*agent.Agent, 0, len(p.Agents))
	for _, a := range p.Agents[1:] {
		if a != nil && a.Alive {
			out = append(out, a)
		}
	}
	return out
}

// Place constructs the agents for a fresh generation from a genome slice,
// one per agent in order, at the given locations, and writes their
// indices into the grid. len(genomes) must equal len(locs); both are
// 0-based and get agent indices 1..len(genomes).
func Place(g *world.Grid, genomes []genome.Genome, locs []world.Coord, numSensors, numActions, maxInternalNeurons, defaultLongProbeDist int) *Population {
	p := New(len(genomes))
	for i, gm := range genomes {
		index := i + 1
		a := agent.New(index, locs[i], gm, numSensors, numActions, maxInternalNeurons, defaultLongProbeDist)
		p.Agents[index] = a
		g.Set(locs[i], uint16(index))
	}
	return p
}

// ProposeMove enqueues a move for agentIndex to newLoc. Queued moves are
// speculative: Drain drops any whose source has since died or whose
// destination is occupied at drain time.
func (p *Population) ProposeMove(agentIndex int, newLoc world.Coord) {
	p.moveQueue = append(p.moveQueue, moveIntent{agentIndex, newLoc})
}

// ProposeDeath enqueues a death for agentIndex.
func (p *Population) ProposeDeath(agentIndex int) {
	p.deathQueue = append(p.deathQueue, agentIndex)
}

// ProposeKillDeath is ProposeDeath plus killDeaths bookkeeping, used when
// the death originates from the KILL_FORWARD action rather than natural
// end-of-step causes.
func (p *Population) ProposeKillDeath(agentIndex int) {
	p.killDeaths++
	p.ProposeDeath(agentIndex)
}

// KillDeaths returns the number of KILL_FORWARD-caused deaths queued (and
// drained) so far this generation.
func (p *Population) KillDeaths() int {
	return p.killDeaths
}

// Drain applies the death queue, then the move queue, against g, clearing
// both queues. Deaths clear the agent's grid cell and set alive=false;
// moves clear the source cell and write the destination, updating
// agent.Loc, but only if the source agent is still alive and the
// destination is still empty at drain time.
func (p *Population) Drain(g *world.Grid) {
	for _, idx := range p.deathQueue {
		a := p.At(idx)
		if a == nil || !a.Alive {
			continue
		}
		a.Alive = false
		g.Set(a.Loc, world.Empty)
	}
	p.deathQueue = p.deathQueue[:0]

	for _, mv := range p.moveQueue {
		a := p.At(mv.agentIndex)
		if a == nil || !a.Alive {
			continue
		}
		if !g.IsEmpty(mv.newLoc) {
			continue
		}
		g.Set(a.Loc, world.Empty)
		g.Set(mv.newLoc, uint16(mv.agentIndex))
		a.Loc = mv.newLoc
	}
	p.moveQueue = p.moveQueue[:0]
}

// ResetGenerationCounters zeros the per-generation bookkeeping (currently
// just killDeaths) ahead of a new generation's agent placement.
func (p *Population) ResetGenerationCounters() {
	p.killDeaths = 0
}

// Genomes collects the genome of every living agent, in ascending index
// order, for use by the spawner.
func (p *Population) Genomes() []genome.Genome {
	living := p.Living()
	out := make([]genome.Genome, len(living))
	for i, a := range living {
		out[i] = a.Genome
	}
	return out
}

// Networks collects the built network of every living agent, parallel to
// Genomes, for inspection/telemetry use.
func (p *Population) Networks() []*neural.Network {
	living := p.Living()
	out := make([]*neural.Network, len(living))
	for i, a := range living {
		out[i] = a.Network
	}
	return out
}
