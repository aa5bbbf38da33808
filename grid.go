package collage

import (
	"image"
	"image/color"
	"sync"
)

// Grid is a row-major height x width raster of colors.
type Grid [][]Color

// NewGrid returns a height x width grid filled with fill.
func NewGrid(height, width int, fill Color) Grid {
	g := make(Grid, height)
	for i := range g {
		row := make([]Color, width)
		for j := range row {
			row[j] = fill
		}
		g[i] = row
	}
	return g
}

func (g Grid) Height() int { return len(g) }

func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]Color(nil), row...)
	}
	return out
}

// At returns the color at row i, column j, and whether the cell exists.
func (g Grid) At(i, j int) (Color, bool) {
	if i < 0 || i >= len(g) || j < 0 || j >= len(g[i]) {
		return Color{}, false
	}
	return g[i][j], true
}

// Equal reports whether both grids have the same shape and equal colors.
func (g Grid) Equal(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if len(g[i]) != len(o[i]) {
			return false
		}
		for j := range g[i] {
			if !g[i][j].Equal(o[i][j]) {
				return false
			}
		}
	}
	return true
}

// rectangular reports whether every row has the same length.
func (g Grid) rectangular() bool {
	for _, row := range g {
		if len(row) != g.Width() {
			return false
		}
	}
	return true
}

func (g Grid) checkSize(op string, height, width int) error {
	if len(g) != height {
		return argErrorf(op, "grid has %d rows, want %d", len(g), height)
	}
	for i, row := range g {
		if len(row) != width {
			return argErrorf(op, "grid row %d has %d cells, want %d", i, len(row), width)
		}
	}
	return nil
}

// NRGBA converts g to a standard library image with bounds (0,0)-(width,height).
func (g Grid) NRGBA() *image.NRGBA {
	h, w := g.Height(), g.Width()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range min(w, len(g[y])) {
			img.SetNRGBA(x, y, g[y][x].NRGBA())
		}
	}
	return img
}

// GridFromImage converts any image, alpha included, into a grid.
func GridFromImage(img image.Image) Grid {
	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()
	g := make(Grid, h)
	for y := range h {
		row := make([]Color, w)
		for x := range w {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			row[x] = fromInts(int(c.R), int(c.G), int(c.B), int(c.A))
		}
		g[y] = row
	}
	return g
}

// parallelCells is the grid size from which rows are split across workers.
const parallelCells = 128 * 128

// forRows calls fn for every row index in [0,height). Rows are independent,
// so large grids are split into contiguous chunks, one per worker.
func forRows(height, width, workers int, fn func(i int)) {
	if workers <= 1 || height < 2 || height*width < parallelCells {
		for i := range height {
			fn(i)
		}
		return
	}
	workers = min(workers, height)
	chunk := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < height; start += chunk {
		end := min(start+chunk, height)
		wg.Go(func() {
			for i := start; i < end; i++ {
				fn(i)
			}
		})
	}
	wg.Wait()
}
