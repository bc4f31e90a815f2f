package world

import "testing"

func TestSignalsBounds(t *testing.T) {
	s := NewSignals(8, 8, 1)
	for i := 0; i < 20; i++ {
		s.Emit(0, Coord{4, 4}, 1.5)
	}
	for i := 0; i < 300; i++ {
		s.FadeAll()
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := s.At(0, Coord{x, y})
			if v < 0 || v > 255 {
				t.Fatalf("cell (%d,%d) out of [0,255]: %d", x, y, v)
			}
		}
	}
}

func TestSignalFadeMonotonic(t *testing.T) {
	s := NewSignals(16, 16, 1)
	s.Emit(0, Coord{8, 8}, 1.5)

	prev := make([]uint8, 16*16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			prev[y*16+x] = s.At(0, Coord{x, y})
		}
	}

	reachedZero := false
	for step := 0; step < 255; step++ {
		s.Fade(0)
		allZero := true
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				v := s.At(0, Coord{x, y})
				if v > prev[y*16+x] {
					t.Fatalf("cell (%d,%d) increased during fade", x, y)
				}
				prev[y*16+x] = v
				if v != 0 {
					allZero = false
				}
			}
		}
		if allZero {
			reachedZero = true
			break
		}
	}
	if !reachedZero {
		t.Fatal("signal did not reach zero within 255 fades")
	}
}

func TestSignalDensityRange(t *testing.T) {
	s := NewSignals(8, 8, 1)
	s.Emit(0, Coord{4, 4}, 1.5)
	d := s.Density(0, Coord{4, 4}, 1.5)
	if d < 0 || d > 1 {
		t.Fatalf("density out of [0,1]: %v", d)
	}
}

func TestSignalsClear(t *testing.T) {
	s := NewSignals(4, 4, 2)
	s.Emit(0, Coord{1, 1}, 1.5)
	s.Emit(1, Coord{2, 2}, 1.5)
	s.Clear()
	for l := 0; l < 2; l++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				if s.At(l, Coord{x, y}) != 0 {
					t.Fatal("expected all-zero after Clear")
				}
			}
		}
	}
}
