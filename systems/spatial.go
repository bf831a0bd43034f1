// Package systems provides the physics passes that advance a particle set.
package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/bounce/config"
)

// SpatialGrid buckets particle indices by uniform cell over a bounded domain.
// Cells are stored row-major: index = row*cols + col.
type SpatialGrid struct {
	cellSize   float32
	minX, minY float32
	maxX, maxY float32
	cols       int
	rows       int
	cells      [][]int
}

// NewSpatialGrid creates a grid covering [minX, maxX] x [minY, maxY].
func NewSpatialGrid(cellSize, minX, minY, maxX, maxY float32) (*SpatialGrid, error) {
	g := &SpatialGrid{}
	if err := g.Configure(cellSize, minX, minY, maxX, maxY); err != nil {
		return nil, err
	}
	return g, nil
}

// Configure (re)defines the grid extents. Existing buckets are discarded.
func (g *SpatialGrid) Configure(cellSize, minX, minY, maxX, maxY float32) error {
	if !(cellSize > 0) {
		return fmt.Errorf("%w: grid cell size must be positive, got %g", config.ErrInvalidConfiguration, cellSize)
	}
	if !(maxX > minX) || !(maxY > minY) {
		return fmt.Errorf("%w: grid domain [%g,%g]x[%g,%g] is empty", config.ErrInvalidConfiguration, minX, maxX, minY, maxY)
	}

	cols := int(math.Ceil(float64((maxX-minX)/cellSize))) + 1
	rows := int(math.Ceil(float64((maxY-minY)/cellSize))) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8) // pre-allocate small capacity
	}

	*g = SpatialGrid{
		cellSize: cellSize,
		minX:     minX,
		minY:     minY,
		maxX:     maxX,
		maxY:     maxY,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
	return nil
}

// Dims returns the number of columns and rows.
func (g *SpatialGrid) Dims() (cols, rows int) { return g.cols, g.rows }

// CellSize returns the cell edge length.
func (g *SpatialGrid) CellSize() float32 { return g.cellSize }

// Clear removes all indices from the grid, keeping bucket storage.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds index to the bucket containing (x, y).
// Positions outside the domain land in the nearest border cell.
func (g *SpatialGrid) Insert(index int, x, y float32) {
	col, row := g.CellOf(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// Rebuild clears the grid and inserts the first n interleaved positions.
func (g *SpatialGrid) Rebuild(pos []float32, n int) {
	g.Clear()
	for i := 0; i < n; i++ {
		g.Insert(i, pos[2*i], pos[2*i+1])
	}
}

// CellOf returns the clamped cell coordinates of a world position.
func (g *SpatialGrid) CellOf(x, y float32) (col, row int) {
	col = clampInt(g.coord(x, g.minX), 0, g.cols-1)
	row = clampInt(g.coord(y, g.minY), 0, g.rows-1)
	return col, row
}

// QueryInto appends every index in the cells overlapping the square
// [x-radius, x+radius] x [y-radius, y+radius] to dst, in row-major cell order.
// Candidates are not distance-filtered. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryInto(dst []int, x, y, radius float32) []int {
	minCol := clampInt(g.coord(x-radius, g.minX), 0, g.cols-1)
	maxCol := clampInt(g.coord(x+radius, g.minX), 0, g.cols-1)
	minRow := clampInt(g.coord(y-radius, g.minY), 0, g.rows-1)
	maxRow := clampInt(g.coord(y+radius, g.minY), 0, g.rows-1)

	for row := minRow; row <= maxRow; row++ {
		rowOffset := row * g.cols
		for col := minCol; col <= maxCol; col++ {
			dst = append(dst, g.cells[rowOffset+col]...)
		}
	}
	return dst
}

// Query returns the candidates near (x, y) in a fresh slice.
func (g *SpatialGrid) Query(x, y, radius float32) []int {
	return g.QueryInto(nil, x, y, radius)
}

// coord maps a world coordinate to an unclamped cell coordinate.
func (g *SpatialGrid) coord(v, origin float32) int {
	c := math.Floor(float64((v - origin) / g.cellSize))
	// Guard the float->int conversion for far-out or NaN positions.
	if !(c > -1<<30) {
		return -1
	}
	if c > 1<<30 {
		return 1 << 30
	}
	return int(c)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
