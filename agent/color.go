package agent

import (
	"math"

	"github.com/evocore/biosim/genome"
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// ColorFromGenome derives a stable color for a genome by folding its
// packed genes into a 32-bit hash and deriving HSL from the hash's byte
// lanes, then converting to RGB. An empty genome maps to neutral gray.
func ColorFromGenome(g genome.Genome) RGB {
	if len(g) == 0 {
		return RGB{128, 128, 128}
	}

	var h uint32
	for _, gene := range g {
		w := genome.Pack(gene)
		h = uint32((int64(h)<<5)-int64(h)) + w
	}

	hue := float64(h&0xFFFF) / float64(0xFFFF) * 360
	sat := 0.7 + float64((h>>16)&0xFF)/255*0.3
	light := 0.4 + float64((h>>24)&0xFF)/255*0.2

	r, gr, b := hslToRGB(hue, sat, light)
	return RGB{r, gr, b}
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r1, g1, b1 float64
	switch {
	case hp < 1:
		r1, g1, b1 = c, x, 0
	case hp < 2:
		r1, g1, b1 = x, c, 0
	case hp < 3:
		r1, g1, b1 = 0, c, x
	case hp < 4:
		r1, g1, b1 = 0, x, c
	case hp < 5:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}

	m := l - c/2
	toByte := func(v float64) uint8 {
		v = (v + m) * 255
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint8(math.Round(v))
	}
	return toByte(r1), toByte(g1), toByte(b1)
}
