// Package neural builds a feed-forward neural network from a packed
// genome: it resolves gene endpoints into dense index spaces, prunes
// connections that can never fire, and evaluates the pruned network
// against a sensor vector each step.
package neural

import (
	"math"

	"github.com/evocore/biosim/genome"
)

// Endpoint kinds after remapping, mirroring genome.EndpointType.
const (
	Neuron         = genome.Neuron
	SensorOrAction = genome.SensorOrAction
)

// Connection is one resolved, post-remap link in a built network.
type Connection struct {
	SourceType genome.EndpointType
	SourceId   int // sensor index if SourceType==SensorOrAction, else neuron index
	SinkType   genome.EndpointType
	SinkId     int // action index if SinkType==SensorOrAction, else neuron index
	Weight     float64
}

// NeuronState is one internal neuron's persistent state.
type NeuronState struct {
	Output float64 // persists across steps; initialized to 0.5
	Driven bool    // has at least one inbound connection after pruning
}

// Network is the built form of a genome: a flat connection list plus
// internal neuron state, with dimensions fixed at build time.
type Network struct {
	NumSensors  int
	NumActions  int
	MaxNeurons  int
	Connections []Connection
	Neurons     []NeuronState
}

// Build resolves every gene in g into a Connection against the given
// dimensions, then iterates the pruning fixed point: any connection whose
// source is an undriven internal neuron is removed, driven flags are
// recomputed, and the process repeats until an iteration removes nothing.
// Build is idempotent: building twice from the same genome and dimensions
// yields identical connections and neuron state.
func Build(g genome.Genome, numSensors, numActions, maxInternalNeurons int) *Network {
	n := &Network{
		NumSensors: numSensors,
		NumActions: numActions,
		MaxNeurons: maxInternalNeurons,
		Neurons:    make([]NeuronState, maxInternalNeurons),
	}
	for i := range n.Neurons {
		n.Neurons[i].Output = 0.5
	}

	n.Connections = make([]Connection, 0, len(g))
	for _, gene := range g {
		n.Connections = append(n.Connections, resolve(gene, numSensors, numActions, maxInternalNeurons))
	}

	n.prune()
	return n
}

func resolve(g genome.Gene, numSensors, numActions, maxInternalNeurons int) Connection {
	c := Connection{
		SourceType: g.SourceType,
		SinkType:   g.SinkType,
		Weight:     g.Real(),
	}
	if g.SourceType == SensorOrAction {
		c.SourceId = modPositive(int(g.SourceId), numSensors)
	} else {
		c.SourceId = modPositive(int(g.SourceId), maxInternalNeurons)
	}
	if g.SinkType == SensorOrAction {
		c.SinkId = modPositive(int(g.SinkId), numActions)
	} else {
		c.SinkId = modPositive(int(g.SinkId), maxInternalNeurons)
	}
	return c
}

func modPositive(v, m int) int {
	if m <= 0 {
		return 0
	}
	return v % m
}

// markDriven recomputes n.Neurons[i].Driven for every i from the current
// connection list: a neuron is driven iff some connection into it comes
// from a sensor or from another driven neuron, so a neuron fed only by a
// loop of neurons with no sensor upstream is not driven.
func (n *Network) markDriven() {
	for i := range n.Neurons {
		n.Neurons[i].Driven = false
	}
	for changed := true; changed; {
		changed = false
		for _, c := range n.Connections {
			if c.SinkType != Neuron || n.Neurons[c.SinkId].Driven {
				continue
			}
			if c.SourceType == SensorOrAction || n.Neurons[c.SourceId].Driven {
				n.Neurons[c.SinkId].Driven = true
				changed = true
			}
		}
	}
}

// prune removes connections sourced from undriven internal neurons,
// iterating to a fixed point: after no connection has a source that is an
// undriven internal neuron, further iterations change nothing.
func (n *Network) prune() {
	n.markDriven()
	for {
		removedAny := false
		kept := n.Connections[:0:0]
		for _, c := range n.Connections {
			if c.SourceType == Neuron && !n.Neurons[c.SourceId].Driven {
				removedAny = true
				continue
			}
			kept = append(kept, c)
		}
		n.Connections = kept
		if !removedAny {
			return
		}
		n.markDriven()
	}
}

// Forward evaluates the network for one step given a sensor vector of
// length NumSensors, returning an action-level vector of length
// NumActions. Neuron outputs persist into n.Neurons for the next call,
// giving the network limited state across steps.
func (n *Network) Forward(sensors []float64) []float64 {
	accum := make([]float64, n.MaxNeurons)
	actionAccum := make([]float64, n.NumActions)

	for _, c := range n.Connections {
		var src float64
		if c.SourceType == SensorOrAction {
			src = sensors[c.SourceId]
		} else {
			src = n.Neurons[c.SourceId].Output
		}
		contribution := src * c.Weight
		if c.SinkType == SensorOrAction {
			actionAccum[c.SinkId] += contribution
		} else {
			accum[c.SinkId] += contribution
		}
	}

	for i := range n.Neurons {
		if n.Neurons[i].Driven {
			n.Neurons[i].Output = math.Tanh(accum[i])
		}
	}

	actionLevels := make([]float64, n.NumActions)
	for a := range actionLevels {
		actionLevels[a] = math.Tanh(actionAccum[a])
	}
	return actionLevels
}
