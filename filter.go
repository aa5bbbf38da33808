package collage

import (
	"math"
	"slices"
)

// Filter combines a top color with the bottom color beneath it.
// Filters are stateless; two filters are the same filter iff their names match.
type Filter interface {
	Apply(top, bottom Color) Color
	Name() string
}

// SingleFilter transforms the top color alone and then composites it over
// the bottom color.
type SingleFilter interface {
	Filter
	Adjust(c Color) Color
}

// SameFilter reports whether a and b are the same filter.
func SameFilter(a, b Filter) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name() == b.Name()
}

// Normal is the identity filter: plain over-compositing.
type Normal struct{}

func (Normal) Name() string                   { return "normal" }
func (Normal) Apply(top, bottom Color) Color { return Over(top, bottom) }

type Channel int

const (
	RedChannel Channel = iota
	GreenChannel
	BlueChannel
)

func (ch Channel) String() string {
	switch ch {
	case GreenChannel:
		return "green"
	case BlueChannel:
		return "blue"
	default:
		return "red"
	}
}

// Component keeps one of the red, green or blue channels and zeroes the others.
type Component struct {
	Channel Channel
}

func (f Component) Name() string { return f.Channel.String() + "-component" }

func (f Component) Adjust(c Color) Color {
	r, g, b, a := c.Components()
	switch f.Channel {
	case RedChannel:
		g, b = 0, 0
	case GreenChannel:
		r, b = 0, 0
	case BlueChannel:
		r, g = 0, 0
	}
	return fromInts(r, g, b, a)
}

func (f Component) Apply(top, bottom Color) Color {
	return Over(f.Adjust(top), bottom)
}

// Measure selects how brightness of a color is quantified.
type Measure int

const (
	MeasureValue Measure = iota
	MeasureIntensity
	MeasureLuma
)

func (m Measure) String() string {
	switch m {
	case MeasureIntensity:
		return "intensity"
	case MeasureLuma:
		return "luma"
	default:
		return "value"
	}
}

func (m Measure) of(c Color) int {
	switch m {
	case MeasureIntensity:
		return c.Intensity()
	case MeasureLuma:
		return c.Luma()
	default:
		return c.Value()
	}
}

// Brightness adds (or with Darken, subtracts) the chosen brightness measure
// of a color to each of its red, green and blue channels.
type Brightness struct {
	Measure Measure
	Darken  bool
}

func (f Brightness) Name() string {
	if f.Darken {
		return "darken-" + f.Measure.String()
	}
	return "brighten-" + f.Measure.String()
}

func (f Brightness) Adjust(c Color) Color {
	k := f.Measure.of(c)
	if f.Darken {
		k = -k
	}
	r, g, b, a := c.Components()
	return fromInts(clampChannel(r+k), clampChannel(g+k), clampChannel(b+k), a)
}

func (f Brightness) Apply(top, bottom Color) Color {
	return Over(f.Adjust(top), bottom)
}

type BlendMode int

const (
	Difference BlendMode = iota
	Multiply
	Screen
)

func (m BlendMode) String() string {
	switch m {
	case Multiply:
		return "multiply"
	case Screen:
		return "screen"
	default:
		return "difference"
	}
}

// Blend combines the top and bottom colors jointly.
type Blend struct {
	Mode BlendMode
}

func (f Blend) Name() string { return f.Mode.String() }

func (f Blend) Apply(top, bottom Color) Color {
	switch f.Mode {
	case Multiply:
		return withLightness(top, bottom, top.Lightness()*bottom.Lightness())
	case Screen:
		return withLightness(top, bottom, 1-(1-top.Lightness())*(1-bottom.Lightness()))
	default:
		return difference(top, bottom)
	}
}

// withLightness replaces the lightness of top, keeps its hue, saturation and
// alpha, and composites the result over bottom.
func withLightness(top, bottom Color, l float64) Color {
	h, s, _ := top.HSL()
	r, g, b := hslToRGB(h, s, clamp(l, 0, 1))
	opaque := Color{clamp(r, 0, 1), clamp(g, 0, 1), clamp(b, 0, 1), 1}
	return Over(unpremultiply(opaque, top.Alpha()), bottom)
}

func difference(top, bottom Color) Color {
	t := Premultiply(top)
	b := Premultiply(bottom)
	d := func(x, y int) int {
		return int(math.Abs(float64(x - y)))
	}
	diff := fromInts(d(t.Red(), b.Red()), d(t.Green(), b.Green()), d(t.Blue(), b.Blue()), 255)
	return Over(unpremultiply(diff, top.Alpha()), bottom)
}

// Registry maps filter names to filters. Which filters exist is a
// deployment choice; a Canvas only accepts names found in its Registry.
type Registry map[string]Filter

// NewRegistry indexes filters by name.
func NewRegistry(filters ...Filter) Registry {
	r := make(Registry, len(filters))
	for _, f := range filters {
		r[f.Name()] = f
	}
	return r
}

// Lookup returns the filter registered under name.
func (r Registry) Lookup(name string) (Filter, bool) {
	f, ok := r[name]
	return f, ok
}

// Names returns the registered filter names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func legacyFilters() []Filter {
	return []Filter{
		Normal{},
		Component{RedChannel},
		Component{GreenChannel},
		Component{BlueChannel},
		Brightness{Measure: MeasureValue},
		Brightness{Measure: MeasureIntensity},
		Brightness{Measure: MeasureLuma},
		Brightness{Measure: MeasureValue, Darken: true},
		Brightness{Measure: MeasureIntensity, Darken: true},
		Brightness{Measure: MeasureLuma, Darken: true},
	}
}

// LegacyRegistry holds the identity, component and brightness filters.
func LegacyRegistry() Registry {
	return NewRegistry(legacyFilters()...)
}

// DefaultRegistry holds every filter, blend filters included.
func DefaultRegistry() Registry {
	return NewRegistry(append(legacyFilters(),
		Blend{Difference},
		Blend{Multiply},
		Blend{Screen},
	)...)
}

// RegistryByName returns the registry called "legacy" or "default".
func RegistryByName(name string) (Registry, error) {
	switch name {
	case "legacy":
		return LegacyRegistry(), nil
	case "default", "":
		return DefaultRegistry(), nil
	}
	return nil, argErrorf("registry", "unknown filter set %q", name)
}
