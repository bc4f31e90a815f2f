package world

import "math"

// Signals holds one or more 8-bit pheromone layers, each the same shape as
// Grid.
type Signals struct {
	sizeX, sizeY int
	layers       [][]uint8
}

// NewSignals allocates numLayers pheromone layers of size sizeX x sizeY,
// all zeroed.
func NewSignals(sizeX, sizeY, numLayers int) *Signals {
	layers := make([][]uint8, numLayers)
	for i := range layers {
		layers[i] = make([]uint8, sizeX*sizeY)
	}
	return &Signals{sizeX: sizeX, sizeY: sizeY, layers: layers}
}

// NumLayers returns the number of pheromone layers.
func (s *Signals) NumLayers() int {
	return len(s.layers)
}

func (s *Signals) index(c Coord) int {
	return c.Y*s.sizeX + c.X
}

func (s *Signals) inBounds(c Coord) bool {
	return c.X >= 0 && c.X < s.sizeX && c.Y >= 0 && c.Y < s.sizeY
}

// At returns the value of layer at c, or 0 if out of bounds.
func (s *Signals) At(layer int, c Coord) uint8 {
	if !s.inBounds(c) {
		return 0
	}
	return s.layers[layer][s.index(c)]
}

// Emit deposits pheromone into layer around center within radius (default
// 1.5 per spec), incrementing each cell by max(1, round(255*(1 -
// dist/(radius+1)))), saturating at 255.
func (s *Signals) Emit(layer int, center Coord, radius float64) {
	l := s.layers[layer]
	r := int(radius)
	if float64(r) < radius {
		r++
	}
	r2 := radius * radius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := float64(dx*dx + dy*dy)
			if d2 > r2 {
				continue
			}
			c := Coord{center.X + dx, center.Y + dy}
			if !s.inBounds(c) {
				continue
			}
			dist := math.Sqrt(d2)
			delta := int(math.Round(255 * (1 - dist/(radius+1))))
			if delta < 1 {
				delta = 1
			}
			idx := s.index(c)
			v := int(l[idx]) + delta
			if v > 255 {
				v = 255
			}
			l[idx] = uint8(v)
		}
	}
}

// Fade decrements every non-zero cell of layer by one step.
func (s *Signals) Fade(layer int) {
	l := s.layers[layer]
	for i, v := range l {
		if v > 0 {
			l[i] = v - 1
		}
	}
}

// FadeAll fades every layer by one step.
func (s *Signals) FadeAll() {
	for i := range s.layers {
		s.Fade(i)
	}
}

// Clear zeros every cell of every layer.
func (s *Signals) Clear() {
	for _, l := range s.layers {
		for i := range l {
			l[i] = 0
		}
	}
}

// Density returns the average of layer's cell values over the in-bounds
// circular neighborhood of center within radius, normalized to [0,1].
func (s *Signals) Density(layer int, center Coord, radius float64) float64 {
	l := s.layers[layer]
	r := int(radius)
	if float64(r) < radius {
		r++
	}
	r2 := radius * radius

	var sum, count int
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) > r2 {
				continue
			}
			c := Coord{center.X + dx, center.Y + dy}
			if !s.inBounds(c) {
				continue
			}
			sum += int(l[s.index(c)])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return (float64(sum) / float64(count)) / 255.0
}

// Bytes returns layer encoded as row-major bytes, matching the snapshot
// wire format.
func (s *Signals) Bytes(layer int) []byte {
	out := make([]byte, len(s.layers[layer]))
	copy(out, s.layers[layer])
	return out
}
