package utils

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/setanarut/collage"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "kmeans":
		return PaletteMethodKMeans, nil
	case "dominantcolor", "":
		return PaletteMethodDominantColor, nil
	}
	return 0, fmt.Errorf("unknown palette method %q", s)
}

type weightedColor struct {
	col    colorful.Color
	weight float64
}

// luma is the Rec. 709 luminance of the linear channels.
func luma(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		switch la, lb := luma(a), luma(b); {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
}

// ExtractPalette returns up to k representative colors of the visible
// pixels of g. The kmeans method falls back to dominantcolor when it finds
// nothing.
func ExtractPalette(g collage.Grid, k int, method PaletteMethod) []colorful.Color {
	if method == PaletteMethodKMeans {
		if p := ExtractKMeansPalette(g, k); len(p) != 0 {
			return p
		}
	}
	return ExtractDominantPalette(g, k)
}

func ExtractDominantPalette(g collage.Grid, k int) []colorful.Color {
	if k <= 0 || g.Height() == 0 || g.Width() == 0 {
		return nil
	}
	found := dominantcolor.FindWeight(g.NRGBA(), max(24, k*8))
	if len(found) == 0 {
		found = []dominantcolor.Color{{RGBA: color.RGBA{R: 128, G: 128, B: 128, A: 255}, Weight: 1}}
	}
	cands := make([]weightedColor, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		cands = append(cands, weightedColor{col: col.Clamped(), weight: c.Weight})
	}
	return selectDiverse(cands, k)
}

// maxSamples bounds how many pixels kmeans clusters.
const maxSamples = 12000

func ExtractKMeansPalette(g collage.Grid, k int) []colorful.Color {
	h, w := g.Height(), g.Width()
	if k <= 0 || h == 0 || w == 0 {
		return nil
	}
	step := 1
	if h*w > maxSamples {
		step = int(math.Sqrt(float64(h*w)/maxSamples)) + 1
	}

	var dataset clusters.Observations
	for i := 0; i < h; i += step {
		for j := 0; j < len(g[i]); j += step {
			c := g[i][j]
			if c.Alpha() == 0 {
				continue
			}
			cc := c.Colorful()
			dataset = append(dataset, clusters.Coordinates{cc.R, cc.G, cc.B})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(dataset, min(max(k*4, k+2), len(dataset)))
	if err != nil || len(cc) == 0 {
		return nil
	}
	cands := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		cands = append(cands, weightedColor{col: col, weight: float64(len(c.Observations))})
	}
	return selectDiverse(cands, k)
}

// selectDiverse greedily picks k candidates: the heaviest first, then
// whichever is farthest in Lab from everything picked so far, biased
// toward heavier colors.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	heaviest := 0.0
	for i := range cands {
		cands[i].weight = max(cands[i].weight, 1e-6)
		heaviest = max(heaviest, cands[i].weight)
	}

	picked := make([]bool, len(cands))
	out := make([]colorful.Color, 0, k)
	for len(out) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if picked[i] {
				continue
			}
			score := c.weight
			if len(out) > 0 {
				nearest := math.MaxFloat64
				for _, p := range out {
					nearest = min(nearest, c.col.DistanceLab(p))
				}
				score = nearest * (0.55 + 0.45*math.Sqrt(c.weight/heaviest))
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		picked[best] = true
		out = append(out, cands[best].col)
	}
	return out
}

// PaletteGrid lays the palette out as a row of tileSize square swatches.
func PaletteGrid(palette []colorful.Color, tileSize int) (collage.Grid, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	g := collage.NewGrid(tileSize, tileSize*len(palette), collage.Transparent)
	for n, pc := range palette {
		c, err := collage.FromColorful(pc, 255)
		if err != nil {
			return nil, err
		}
		for i := range tileSize {
			for j := n * tileSize; j < (n+1)*tileSize; j++ {
				g[i][j] = c
			}
		}
	}
	return g, nil
}

// SavePalette writes the palette swatches to path.
func SavePalette(palette []colorful.Color, tileSize int, path string) error {
	g, err := PaletteGrid(palette, tileSize)
	if err != nil {
		return err
	}
	return WriteImage(path, g)
}
