package genome

import "github.com/evocore/biosim/rng"

// Genome is an ordered sequence of genes. Length must stay within
// [1, genomeMaxLength] once constructed by the operators below; the zero
// value (nil/empty) is used transiently by the operators but never
// persists as an agent's genome.
type Genome []Gene

// Equal compares two genomes elementwise.
func (g Genome) Equal(o Genome) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if g[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the genome.
func (g Genome) Clone() Genome {
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// MakeRandomGenome builds a genome of n genes, each decoded from a
// uniformly random 32-bit word.
func MakeRandomGenome(r *rng.RNG, n int) Genome {
	out := make(Genome, n)
	for i := range out {
		out[i] = Unpack(r.Next32())
	}
	return out
}

// ApplyPointMutations flips, for each gene independently with probability
// rate, a single uniformly chosen bit among its 32 packed bits.
func ApplyPointMutations(r *rng.RNG, g Genome, rate float64) {
	for i := range g {
		if r.Chance(rate) {
			w := Pack(g[i])
			bit := r.NextBit()
			w ^= 1 << bit
			g[i] = Unpack(w)
		}
	}
}

// ApplyInsertionDeletion applies at most one insertion-or-deletion to g,
// with probability rate. Given that it fires, it deletes a random gene
// (if len(g)>1) with probability deletionRatio, otherwise inserts a random
// gene at a random position (if len(g)<maxLen). Returns the (possibly
// reallocated) genome.
func ApplyInsertionDeletion(r *rng.RNG, g Genome, rate, deletionRatio float64, maxLen int) Genome {
	if !r.Chance(rate) {
		return g
	}

	if r.Chance(deletionRatio) {
		if len(g) > 1 {
			idx := r.NextInt(len(g))
			g = append(g[:idx:idx], g[idx+1:]...)
		}
		return g
	}

	if len(g) < maxLen {
		idx := r.NextInt(len(g) + 1)
		gene := Unpack(r.Next32())
		out := make(Genome, 0, len(g)+1)
		out = append(out, g[:idx]...)
		out = append(out, gene)
		out = append(out, g[idx:]...)
		return out
	}
	return g
}

// Crossover produces a single child from two parents by picking
// independent cut points c1 in [0,len(p1)) and c2 in [0,len(p2)) and
// concatenating p1[0..c1] with p2[c2+1..]. An empty parent yields a clone
// of the other; an empty result yields a fresh one-gene random genome.
func Crossover(r *rng.RNG, p1, p2 Genome) Genome {
	if len(p1) == 0 {
		return p2.Clone()
	}
	if len(p2) == 0 {
		return p1.Clone()
	}

	c1 := r.NextInt(len(p1))
	c2 := r.NextInt(len(p2))

	child := make(Genome, 0, c1+1+(len(p2)-c2-1))
	child = append(child, p1[:c1+1]...)
	child = append(child, p2[c2+1:]...)

	if len(child) == 0 {
		return MakeRandomGenome(r, 1)
	}
	return child
}

// Similarity returns the Jaccard index over the sets of 32-bit packed
// values of g1 and g2. Two empty genomes are similarity 1.0; one empty and
// one non-empty is 0.0.
func Similarity(g1, g2 Genome) float64 {
	if len(g1) == 0 && len(g2) == 0 {
		return 1.0
	}
	if len(g1) == 0 || len(g2) == 0 {
		return 0.0
	}

	set1 := make(map[uint32]struct{}, len(g1))
	for _, g := range g1 {
		set1[Pack(g)] = struct{}{}
	}
	set2 := make(map[uint32]struct{}, len(g2))
	for _, g := range g2 {
		set2[Pack(g)] = struct{}{}
	}

	intersection := 0
	for w := range set1 {
		if _, ok := set2[w]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

// GeneticDiversity samples k distinct index pairs from pop (genomes
// indexed 0..len(pop)-1) and returns the mean of 1-Similarity across them.
// pop with fewer than 2 members returns 0.
func GeneticDiversity(r *rng.RNG, pop []Genome, k int) float64 {
	n := len(pop)
	if n < 2 {
		return 0
	}
	maxPairs := n * (n - 1) / 2
	if k > maxPairs {
		k = maxPairs
	}
	if k <= 0 {
		return 0
	}

	seen := make(map[[2]int]struct{}, k)
	var sum float64
	sampled := 0
	for sampled < k {
		i := r.NextInt(n)
		j := r.NextInt(n)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		key := [2]int{i, j}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		sum += 1 - Similarity(pop[i], pop[j])
		sampled++
	}
	return sum / float64(k)
}
