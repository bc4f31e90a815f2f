package rng

import "testing"

func TestReproducibility(t *testing.T) {
	a := New(12345)
	b := New(12345)

	const n = 1_000_000
	for i := 0; i < n; i++ {
		x, y := a.Next32(), b.Next32()
		if x != y {
			t.Fatalf("sequence diverged at index %d: %d != %d", i, x, y)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)

	same := true
	for i := 0; i < 8; i++ {
		if a.Next32() != b.Next32() {
			same = false
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different sequences")
	}
}

func TestNext01Range(t *testing.T) {
	r := New(7)
	for i := 0; i < 10000; i++ {
		v := r.Next01()
		if v < 0 || v >= 1 {
			t.Fatalf("Next01 out of range: %v", v)
		}
	}
}

func TestNextIntBounds(t *testing.T) {
	r := New(9)
	for i := 0; i < 10000; i++ {
		v := r.NextInt(10)
		if v < 0 || v >= 10 {
			t.Fatalf("NextInt out of range: %v", v)
		}
	}
	if r.NextInt(0) != 0 {
		t.Fatal("NextInt(0) should return 0")
	}
}

func TestNextRangeInclusive(t *testing.T) {
	r := New(3)
	seen := map[int]bool{}
	for i := 0; i < 20000; i++ {
		v := r.NextRange(5, 8)
		if v < 5 || v > 8 {
			t.Fatalf("NextRange out of bounds: %v", v)
		}
		seen[v] = true
	}
	for v := 5; v <= 8; v++ {
		if !seen[v] {
			t.Errorf("value %d never produced by NextRange(5,8)", v)
		}
	}
}

func TestChance(t *testing.T) {
	r := New(42)
	hits := 0
	const trials = 100000
	for i := 0; i < trials; i++ {
		if r.Chance(0.3) {
			hits++
		}
	}
	frac := float64(hits) / float64(trials)
	if frac < 0.25 || frac > 0.35 {
		t.Fatalf("Chance(0.3) empirical rate out of expected band: %v", frac)
	}
}
