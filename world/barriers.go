package world

import "github.com/evocore/biosim/rng"

// BarrierType selects a barrier layout pattern.
type BarrierType int

const (
	BarrierNone BarrierType = iota
	BarrierVerticalBarConstant
	BarrierVerticalBarRandom
	BarrierHorizontalBarConstant
	BarrierFiveBlocks
	BarrierFloatingIslands
	BarrierSpots
)

// PlaceBarriers writes Barrier sentinels into g according to pattern,
// consuming r for any randomized layout. Barriers placed randomly consume
// the shared PRNG, so barrier layout is part of the reproducible stream;
// callers must place barriers before population placement and must not
// reorder this call relative to other PRNG consumers.
func PlaceBarriers(g *Grid, pattern BarrierType, r *rng.RNG) {
	switch pattern {
	case BarrierNone:
		return
	case BarrierVerticalBarConstant:
		verticalBar(g, g.SizeX/2)
	case BarrierVerticalBarRandom:
		x := g.SizeX/4 + r.NextInt(g.SizeX/2)
		verticalBar(g, x)
	case BarrierHorizontalBarConstant:
		horizontalBar(g, g.SizeY/2)
	case BarrierFiveBlocks:
		fiveBlocks(g)
	case BarrierFloatingIslands:
		floatingIslands(g, r)
	case BarrierSpots:
		spots(g)
	}
}

func verticalBar(g *Grid, x int) {
	for y := g.SizeY / 4; y < g.SizeY*3/4; y++ {
		g.Set(Coord{x, y}, Barrier)
	}
}

func horizontalBar(g *Grid, y int) {
	for x := g.SizeX / 4; x < g.SizeX*3/4; x++ {
		g.Set(Coord{x, y}, Barrier)
	}
}

func fillRect(g *Grid, cx, cy, halfW, halfH int) {
	for y := cy - halfH; y < cy+halfH; y++ {
		for x := cx - halfW; x < cx+halfW; x++ {
			g.Set(Coord{x, y}, Barrier)
		}
	}
}

// fiveBlocks writes five rectangular barriers centered at the four quarter
// points and the midpoint of the grid. Centers and half-extents use integer
// division, which for positive sizes equals the floor of the corresponding
// float quarter-point expressions, so the layout is reproduced exactly.
func fiveBlocks(g *Grid) {
	halfW := g.SizeX / 50
	if halfW < 1 {
		halfW = 1
	}
	halfH := g.SizeY / 6
	if halfH < 4 {
		halfH = 4
	}

	centers := [5][2]int{
		{g.SizeX / 4, g.SizeY / 4},
		{g.SizeX * 3 / 4, g.SizeY / 4},
		{g.SizeX / 4, g.SizeY * 3 / 4},
		{g.SizeX * 3 / 4, g.SizeY * 3 / 4},
		{g.SizeX / 2, g.SizeY / 2},
	}
	for _, c := range centers {
		fillRect(g, c[0], c[1], halfW, halfH)
	}
}

func fillDisk(g *Grid, center Coord, radius int) {
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			g.Set(Coord{center.X + dx, center.Y + dy}, Barrier)
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// floatingIslands places 5 random disks of radius max(2,
// min(sizeX,sizeY)/12), with centers drawn uniformly from the central 70%
// region of the grid.
func floatingIslands(g *Grid, r *rng.RNG) {
	radius := minInt(g.SizeX, g.SizeY) / 12
	if radius < 2 {
		radius = 2
	}

	marginX := int(float64(g.SizeX) * 0.15)
	marginY := int(float64(g.SizeY) * 0.15)
	spanX := g.SizeX - 2*marginX
	spanY := g.SizeY - 2*marginY
	if spanX < 1 {
		spanX = 1
	}
	if spanY < 1 {
		spanY = 1
	}

	for i := 0; i < 5; i++ {
		cx := marginX + r.NextInt(spanX)
		cy := marginY + r.NextInt(spanY)
		fillDisk(g, Coord{cx, cy}, radius)
	}
}

// spots lays disks out on a regular lattice at spacing min(sizeX,sizeY)/4,
// radius max(1, min(sizeX,sizeY)/20). This pattern is deterministic and
// consumes no randomness.
func spots(g *Grid) {
	spacing := minInt(g.SizeX, g.SizeY) / 4
	if spacing < 1 {
		spacing = 1
	}
	radius := minInt(g.SizeX, g.SizeY) / 20
	if radius < 1 {
		radius = 1
	}

	for cy := spacing / 2; cy < g.SizeY; cy += spacing {
		for cx := spacing / 2; cx < g.SizeX; cx += spacing {
			fillDisk(g, Coord{cx, cy}, radius)
		}
	}
}
