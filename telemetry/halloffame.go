package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/evocore/biosim/agent"
	"github.com/evocore/biosim/genome"
	"github.com/evocore/biosim/rng"
)

// HallEntry is one retained genome, its source agent, and the generation
// it was harvested from.
type HallEntry struct {
	Genome     genome.Genome
	Fitness    float64
	AgentIndex int
	Generation int
}

// HallOfFame retains the top-K genomes seen across generations by a simple
// fitness proxy, for optional reseeding hooks the host may invoke. Exposed
// but never invoked automatically; reseeding policy is a host concern.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
	rng     *rng.RNG
}

// NewHallOfFame creates a hall with the given capacity, sampling via r.
func NewHallOfFame(maxSize int, r *rng.RNG) *HallOfFame {
	return &HallOfFame{maxSize: maxSize, rng: r}
}

// Consider evaluates a surviving agent for hall of fame entry. Fitness is
// derived from the generation's survival rate: the rarer survival was that
// generation, the more a survivor's genome is worth preserving.
func (hof *HallOfFame) Consider(a *agent.Agent, survivalRate float64, generation int) bool {
	if hof == nil {
		return false
	}
	entry := HallEntry{
		Genome:     a.Genome.Clone(),
		Fitness:    1 - survivalRate,
		AgentIndex: a.Index,
		Generation: generation,
	}
	hof.entries = hof.insertEntry(hof.entries, entry)
	return true
}

// insertEntry adds entry to entries, keeping the slice sorted descending by
// fitness and capped at maxSize.
func (hof *HallOfFame) insertEntry(entries []HallEntry, entry HallEntry) []HallEntry {
	idx := sort.Search(len(entries), func(i int) bool {
		return entries[i].Fitness < entry.Fitness
	})
	if len(entries) >= hof.maxSize && idx >= hof.maxSize {
		return entries
	}

	entries = append(entries, HallEntry{})
	copy(entries[idx+1:], entries[idx:])
	entries[idx] = entry

	if len(entries) > hof.maxSize {
		entries = entries[:hof.maxSize]
	}
	return entries
}

// Sample returns a genome via k=3 tournament selection, or nil if empty.
func (hof *HallOfFame) Sample() genome.Genome {
	if hof == nil || len(hof.entries) == 0 {
		return nil
	}

	const tournamentSize = 3
	var best *HallEntry
	for i := 0; i < tournamentSize && i < len(hof.entries); i++ {
		idx := hof.rng.NextInt(len(hof.entries))
		candidate := &hof.entries[idx]
		if best == nil || candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	if best == nil {
		return nil
	}
	return best.Genome.Clone()
}

// Size returns the number of retained entries.
func (hof *HallOfFame) Size() int {
	if hof == nil {
		return 0
	}
	return len(hof.entries)
}

// TopFitness returns the best retained fitness, or 0 if empty.
func (hof *HallOfFame) TopFitness() float64 {
	if hof == nil || len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

type hallEntryJSON struct {
	AgentIndex int      `json:"agent_index"`
	Generation int      `json:"generation"`
	Fitness    float64  `json:"fitness"`
	Genes      []uint32 `json:"genes"`
}

// MarshalJSON serializes the hall of fame to JSON, packing each genome back
// to its wire form.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	out := make([]hallEntryJSON, len(hof.entries))
	for i, e := range hof.entries {
		genes := make([]uint32, len(e.Genome))
		for j, g := range e.Genome {
			genes[j] = genome.Pack(g)
		}
		out[i] = hallEntryJSON{
			AgentIndex: e.AgentIndex,
			Generation: e.Generation,
			Fitness:    e.Fitness,
			Genes:      genes,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
