package utils

import (
	"fmt"
	"strings"

	"github.com/setanarut/collage"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type ChannelStats struct {
	Mean, StdDev float64
	Min, Max     float64
}

// Stats summarizes the channels of a grid. Color channels are 0-255 stored
// values; Lightness is the HSL lightness in [0, 1].
type Stats struct {
	Pixels      int
	Transparent int
	Red         ChannelStats
	Green       ChannelStats
	Blue        ChannelStats
	Alpha       ChannelStats
	Lightness   ChannelStats
}

func channelStats(x []float64) ChannelStats {
	if len(x) == 0 {
		return ChannelStats{}
	}
	mean, std := stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		std = 0
	}
	return ChannelStats{Mean: mean, StdDev: std, Min: floats.Min(x), Max: floats.Max(x)}
}

func ComputeStats(g collage.Grid) Stats {
	n := 0
	for _, row := range g {
		n += len(row)
	}
	r := make([]float64, 0, n)
	gr := make([]float64, 0, n)
	b := make([]float64, 0, n)
	a := make([]float64, 0, n)
	l := make([]float64, 0, n)

	s := Stats{Pixels: n}
	for _, row := range g {
		for _, c := range row {
			cr, cg, cb, ca := c.Components()
			r = append(r, float64(cr))
			gr = append(gr, float64(cg))
			b = append(b, float64(cb))
			a = append(a, float64(ca))
			l = append(l, c.Lightness())
			if ca == 0 {
				s.Transparent++
			}
		}
	}
	s.Red = channelStats(r)
	s.Green = channelStats(gr)
	s.Blue = channelStats(b)
	s.Alpha = channelStats(a)
	s.Lightness = channelStats(l)
	return s
}

func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "pixels %d, transparent %d\n", s.Pixels, s.Transparent)
	for _, ch := range []struct {
		name string
		cs   ChannelStats
	}{
		{"red", s.Red},
		{"green", s.Green},
		{"blue", s.Blue},
		{"alpha", s.Alpha},
		{"lightness", s.Lightness},
	} {
		fmt.Fprintf(&sb, "%-9s mean %.3f stddev %.3f min %.3f max %.3f\n",
			ch.name, ch.cs.Mean, ch.cs.StdDev, ch.cs.Min, ch.cs.Max)
	}
	return sb.String()
}
