package genome

import (
	"testing"

	"github.com/evocore/biosim/rng"
)

func TestMakeRandomGenomeLength(t *testing.T) {
	r := rng.New(1)
	g := MakeRandomGenome(r, 12)
	if len(g) != 12 {
		t.Fatalf("expected length 12, got %d", len(g))
	}
}

func TestSimilaritySelf(t *testing.T) {
	r := rng.New(1)
	g := MakeRandomGenome(r, 8)
	if Similarity(g, g) != 1.0 {
		t.Fatal("self-similarity should be 1.0")
	}
}

func TestSimilarityEmptyCases(t *testing.T) {
	if Similarity(nil, nil) != 1.0 {
		t.Fatal("two empty genomes should be similarity 1.0")
	}
	r := rng.New(1)
	g := MakeRandomGenome(r, 3)
	if Similarity(g, nil) != 0.0 {
		t.Fatal("genome vs empty should be similarity 0.0")
	}
}

func TestSimilaritySymmetricAndBounded(t *testing.T) {
	r := rng.New(2)
	a := MakeRandomGenome(r, 10)
	b := MakeRandomGenome(r, 10)
	sab := Similarity(a, b)
	sba := Similarity(b, a)
	if sab != sba {
		t.Fatalf("similarity not symmetric: %v vs %v", sab, sba)
	}
	if sab < 0 || sab > 1 {
		t.Fatalf("similarity out of bounds: %v", sab)
	}
}

func TestCrossoverEmptyParents(t *testing.T) {
	r := rng.New(1)
	g := MakeRandomGenome(r, 4)

	child := Crossover(r, nil, g)
	if !child.Equal(g) {
		t.Fatal("crossover with empty p1 should clone p2")
	}

	child2 := Crossover(r, g, nil)
	if !child2.Equal(g) {
		t.Fatal("crossover with empty p2 should clone p1")
	}
}

func TestCrossoverProducesNonEmpty(t *testing.T) {
	r := rng.New(3)
	p1 := MakeRandomGenome(r, 5)
	p2 := MakeRandomGenome(r, 5)
	for i := 0; i < 200; i++ {
		child := Crossover(r, p1, p2)
		if len(child) == 0 {
			t.Fatal("crossover should never return an empty genome")
		}
	}
}

func TestApplyPointMutationsCanChangeBits(t *testing.T) {
	r := rng.New(9)
	g := MakeRandomGenome(r, 20)
	before := g.Clone()
	ApplyPointMutations(r, g, 1.0) // force mutation on every gene

	changed := false
	for i := range g {
		if g[i] != before[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatal("expected at least one gene to change with rate 1.0")
	}
}

func TestApplyInsertionDeletionRespectsMaxLen(t *testing.T) {
	r := rng.New(4)
	g := MakeRandomGenome(r, 3)
	for i := 0; i < 1000; i++ {
		g = ApplyInsertionDeletion(r, g, 1.0, 0.0, 3)
		if len(g) > 3 {
			t.Fatalf("genome exceeded maxLen: %d", len(g))
		}
		if len(g) < 1 {
			t.Fatalf("genome should never be emptied by insertion/deletion alone when starting from 3 (len=%d)", len(g))
		}
	}
}

func TestApplyInsertionDeletionNeverDeletesLastGene(t *testing.T) {
	r := rng.New(5)
	g := Genome{Unpack(1)}
	for i := 0; i < 500; i++ {
		g = ApplyInsertionDeletion(r, g, 1.0, 1.0, 10)
		if len(g) < 1 {
			t.Fatal("genome of length 1 should never be deleted to empty")
		}
	}
}

func TestGeneticDiversitySinglePop(t *testing.T) {
	r := rng.New(1)
	if GeneticDiversity(r, []Genome{MakeRandomGenome(r, 4)}, 100) != 0 {
		t.Fatal("single-member population should have zero diversity")
	}
}

func TestGeneticDiversityRange(t *testing.T) {
	r := rng.New(6)
	pop := make([]Genome, 30)
	for i := range pop {
		pop[i] = MakeRandomGenome(r, 8)
	}
	d := GeneticDiversity(r, pop, 100)
	if d < 0 || d > 1 {
		t.Fatalf("diversity out of [0,1]: %v", d)
	}
}
