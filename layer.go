package collage

import (
	"strings"
)

// Layer is a fixed-size grid of colors with one active filter.
type Layer struct {
	height, width int
	grid          Grid
	filter        Filter
	workers       int
}

// NewLayer returns a height x width layer. A nil grid is filled with
// TransparentWhite and a nil filter defaults to Normal. A non-nil grid must
// be exactly height x width.
func NewLayer(height, width int, grid Grid, filter Filter) (*Layer, error) {
	if height <= 0 || width <= 0 {
		return nil, rangeErrorf("layer", "height %d and width %d must be positive", height, width)
	}
	if grid == nil {
		grid = NewGrid(height, width, TransparentWhite)
	} else {
		if err := grid.checkSize("layer", height, width); err != nil {
			return nil, err
		}
		grid = grid.Clone()
	}
	if filter == nil {
		filter = Normal{}
	}
	return &Layer{height: height, width: width, grid: grid, filter: filter, workers: 1}, nil
}

func (l *Layer) Height() int    { return l.height }
func (l *Layer) Width() int     { return l.width }
func (l *Layer) Filter() Filter { return l.filter }

// Grid returns a copy of the layer's pixels.
func (l *Layer) Grid() Grid {
	return l.grid.Clone()
}

func (l *Layer) SetFilter(f Filter) error {
	if f == nil {
		return argErrorf("setFilter", "filter cannot be nil")
	}
	l.filter = f
	return nil
}

// Clone returns an independent copy of l.
func (l *Layer) Clone() *Layer {
	c := *l
	c.grid = l.grid.Clone()
	return &c
}

// Merge overlays top onto bottom and returns a grid shaped like bottom.
// With applyFilter the layer's filter combines each pair of cells, otherwise
// plain over-compositing is used. Cells missing from top are treated as
// TransparentWhite; a nil grid is a transparent grid of the layer's size.
func (l *Layer) Merge(top, bottom Grid, applyFilter bool) Grid {
	if top == nil {
		top = NewGrid(l.height, l.width, TransparentWhite)
	}
	if bottom == nil {
		bottom = NewGrid(l.height, l.width, TransparentWhite)
	}
	combine := Over
	if applyFilter {
		combine = l.filter.Apply
	}

	out := make(Grid, len(bottom))
	forRows(len(bottom), bottom.Width(), l.workers, func(i int) {
		row := make([]Color, len(bottom[i]))
		for j, b := range bottom[i] {
			t, ok := top.At(i, j)
			if !ok {
				t = TransparentWhite
			}
			row[j] = combine(t, b)
		}
		out[i] = row
	})
	return out
}

// MergeDown applies the layer's filter with its own grid as the top.
func (l *Layer) MergeDown(bottom Grid) Grid {
	return l.Merge(l.grid, bottom, true)
}

// AddImage places img with its top-left corner at column x, row y.
// Offsets may be negative; cells falling outside the layer are dropped and
// uncovered cells keep their previous value.
func (l *Layer) AddImage(img Grid, x, y int) error {
	if !img.rectangular() {
		return argErrorf("addImage", "image rows have different lengths")
	}
	placed := NewGrid(l.height, l.width, TransparentWhite)
	for i := range placed {
		for j := range placed[i] {
			if c, ok := img.At(i-y, j-x); ok {
				placed[i][j] = c
			}
		}
	}
	l.grid = l.Merge(placed, l.grid, false)
	return nil
}

// ProjString serializes the filter name followed by every cell token,
// row-major.
func (l *Layer) ProjString() string {
	var sb strings.Builder
	sb.WriteString(l.filter.Name())
	sb.WriteByte('\n')
	writeTokens(&sb, l.grid)
	return sb.String()
}

func writeTokens(sb *strings.Builder, g Grid) {
	for _, row := range g {
		for _, c := range row {
			sb.WriteString(c.Token())
		}
	}
}
