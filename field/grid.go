package field

// gridCellSize is the spatial grid cell edge in pixels.
const gridCellSize = 32

// spatialGrid buckets particle slots by position for point queries.
type spatialGrid struct {
	cols, rows int
	cells      [][]int32
	xs, ys     []float32 // Position per slot at build time
}

// reset sizes the grid for a viewport and count particles and clears it.
func (g *spatialGrid) reset(width, height float32, count int) {
	g.cols = int(width/gridCellSize) + 1
	g.rows = int(height/gridCellSize) + 1
	n := g.cols * g.rows
	if cap(g.cells) < n {
		g.cells = make([][]int32, n)
	}
	g.cells = g.cells[:n]
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	if cap(g.xs) < count {
		g.xs = make([]float32, count)
		g.ys = make([]float32, count)
	}
	g.xs, g.ys = g.xs[:count], g.ys[:count]
}

// insert adds slot at (x, y).
func (g *spatialGrid) insert(slot int32, x, y float32) {
	g.xs[slot], g.ys[slot] = x, y
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], slot)
}

// nearest returns the closest slot within maxDist of (x, y).
func (g *spatialGrid) nearest(x, y, maxDist float32) (int, bool) {
	cellRadius := int(maxDist/gridCellSize) + 1
	centerCol := int(x / gridCellSize)
	centerRow := int(y / gridCellSize)

	best, bestDist := -1, maxDist*maxDist
	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centerCol + dc
		if col < 0 || col >= g.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centerRow + dr
			if row < 0 || row >= g.rows {
				continue
			}
			for _, slot := range g.cells[row*g.cols+col] {
				dx, dy := g.xs[slot]-x, g.ys[slot]-y
				if d := dx*dx + dy*dy; d <= bestDist {
					best, bestDist = int(slot), d
				}
			}
		}
	}
	return best, best >= 0
}

// cellIndex returns the flat index for a position, clamped to the grid.
func (g *spatialGrid) cellIndex(x, y float32) int {
	col := min(max(int(x/gridCellSize), 0), g.cols-1)
	row := min(max(int(y/gridCellSize), 0), g.rows-1)
	return row*g.cols + col
}
