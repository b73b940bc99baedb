// Package raster accumulates per-pixel tile coverage and turns the counts
// into a color-mapped RGBA image.
package raster

// Grid is a width×height coverage counter. It is owned by a single
// generation run and never shared.
type Grid struct {
	width  int
	height int
	cells  []int
}

// NewGrid allocates a zeroed coverage grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
}

// Width returns the grid width.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height.
func (g *Grid) Height() int { return g.height }

// At returns the coverage count at (x, y). Out-of-range cells read as 0.
func (g *Grid) At(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0
	}
	return g.cells[y*g.width+x]
}

// Sum returns the total of all cell counts.
func (g *Grid) Sum() int {
	total := 0
	for _, c := range g.cells {
		total += c
	}
	return total
}

// Stamp increments every cell strictly inside the tile rectangle.
func (g *Grid) Stamp(x, y, tw, th int) {
	for yy := y; yy < y+th; yy++ {
		if yy < 0 || yy >= g.height {
			continue
		}
		row := yy * g.width
		for xx := x; xx < x+tw; xx++ {
			if xx < 0 || xx >= g.width {
				continue
			}
			g.cells[row+xx]++
		}
	}
}

// StampPolished is Stamp plus a soft edge dilation: cells in the one-cell
// border band are also incremented when their squared distance to the
// nearest tile cell is at most 1. The distance uses axis-clamped nearest
// points, so the four side bands are included but diagonal corner cells
// (distance² = 2) are not.
func (g *Grid) StampPolished(x, y, tw, th int) {
	for yy := y - 1; yy <= y+th; yy++ {
		if yy < 0 || yy >= g.height {
			continue
		}
		row := yy * g.width
		for xx := x - 1; xx <= x+tw; xx++ {
			if xx < 0 || xx >= g.width {
				continue
			}

			dx := 0
			if xx < x {
				dx = x - xx
			} else if xx > x+tw-1 {
				dx = xx - (x + tw - 1)
			}
			dy := 0
			if yy < y {
				dy = y - yy
			} else if yy > y+th-1 {
				dy = yy - (y + th - 1)
			}

			if dx*dx+dy*dy <= 1 {
				g.cells[row+xx]++
			}
		}
	}
}
