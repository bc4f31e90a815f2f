package world

// Barrier is the grid cell sentinel value for an impassable obstacle.
const Barrier uint16 = 0xFFFF

// Empty is the grid cell value for an unoccupied, non-barrier cell.
const Empty uint16 = 0

// Grid is a row-major field of 16-bit cell tags: 0 empty, 0xFFFF barrier,
// otherwise a 1-based agent index into the population array.
type Grid struct {
	SizeX, SizeY int
	cells        []uint16
}

// NewGrid allocates a SizeX x SizeY grid, all cells empty.
func NewGrid(sizeX, sizeY int) *Grid {
	return &Grid{
		SizeX: sizeX,
		SizeY: sizeY,
		cells: make([]uint16, sizeX*sizeY),
	}
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.SizeX + c.X
}

// IsInBounds reports whether c lies within [0,SizeX) x [0,SizeY).
func (g *Grid) IsInBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.SizeX && c.Y >= 0 && c.Y < g.SizeY
}

// At returns the cell value at c. Out-of-bounds reads return Barrier so
// callers that forget to bounds-check treat the edge of the world as solid.
func (g *Grid) At(c Coord) uint16 {
	if !g.IsInBounds(c) {
		return Barrier
	}
	return g.cells[g.index(c)]
}

// Set writes a cell value. Out-of-bounds writes are silently ignored.
func (g *Grid) Set(c Coord, v uint16) {
	if !g.IsInBounds(c) {
		return
	}
	g.cells[g.index(c)] = v
}

// IsEmpty reports whether the cell at c is the empty sentinel (and c is
// in-bounds).
func (g *Grid) IsEmpty(c Coord) bool {
	return g.IsInBounds(c) && g.cells[g.index(c)] == Empty
}

// IsBarrier reports whether the cell at c is the barrier sentinel.
// Out-of-bounds cells count as barrier.
func (g *Grid) IsBarrier(c Coord) bool {
	if !g.IsInBounds(c) {
		return true
	}
	return g.cells[g.index(c)] == Barrier
}

// IsOccupied reports whether the cell holds neither empty nor barrier, i.e.
// it names a living agent's index.
func (g *Grid) IsOccupied(c Coord) bool {
	if !g.IsInBounds(c) {
		return false
	}
	v := g.cells[g.index(c)]
	return v != Empty && v != Barrier
}

// Clear resets every cell to Empty.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Empty
	}
}

// Bytes returns the grid encoded as little-endian 16-bit words, row-major
// (idx = y*SizeX + x), matching the snapshot wire format.
func (g *Grid) Bytes() []byte {
	out := make([]byte, len(g.cells)*2)
	for i, v := range g.cells {
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}

// VisitNeighborhood calls visit(c) for every in-bounds cell within radius
// of center (dx^2+dy^2 <= radius^2), center included. Radius 1.0 yields the
// 5-cell plus; 1.5 yields the 9-cell square-plus-diagonals.
func (g *Grid) VisitNeighborhood(center Coord, radius float64, visit func(Coord)) {
	r := int(radius)
	if float64(r) < radius {
		r++ // ceil, so we don't miss diagonal cells at e.g. radius=1.5
	}
	r2 := radius * radius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) > r2 {
				continue
			}
			c := Coord{center.X + dx, center.Y + dy}
			if g.IsInBounds(c) {
				visit(c)
			}
		}
	}
}

// FindEmptyLocation searches outward in rings from center up to maxRadius
// and returns the first empty in-bounds cell found, or ok=false if none
// exists within range.
func (g *Grid) FindEmptyLocation(center Coord, maxRadius int) (Coord, bool) {
	if g.IsEmpty(center) {
		return center, true
	}
	for r := 1; r <= maxRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				// Only the ring boundary of this radius (Chebyshev ring).
				if dx != -r && dx != r && dy != -r && dy != r {
					continue
				}
				c := Coord{center.X + dx, center.Y + dy}
				if g.IsEmpty(c) {
					return c, true
				}
			}
		}
	}
	return Coord{}, false
}
