package agent

import (
	"testing"

	"github.com/evocore/biosim/genome"
)

func TestColorFromEmptyGenome(t *testing.T) {
	c := ColorFromGenome(nil)
	if c != (RGB{128, 128, 128}) {
		t.Fatalf("expected neutral gray for empty genome, got %+v", c)
	}
}

func TestColorFromGenomeDeterministic(t *testing.T) {
	g := genome.Genome{genome.Unpack(1), genome.Unpack(2), genome.Unpack(3)}
	c1 := ColorFromGenome(g)
	c2 := ColorFromGenome(g)
	if c1 != c2 {
		t.Fatal("color derivation should be deterministic")
	}
}

func TestColorDiffersAcrossGenomes(t *testing.T) {
	g1 := genome.Genome{genome.Unpack(1)}
	g2 := genome.Genome{genome.Unpack(999999)}
	if ColorFromGenome(g1) == ColorFromGenome(g2) {
		t.Fatal("expected different genomes to (almost always) map to different colors")
	}
}
