package collage

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an immutable 8-bit RGBA color.
//
// Channels are stored normalized to [0,1]. Hue, saturation and lightness are
// not stored; they are derived from the alpha-premultiplied channels on
// demand. The zero value is fully transparent black.
type Color struct {
	r, g, b, a float64
}

var (
	Transparent      = Color{}
	TransparentWhite = Color{1, 1, 1, 0}
	White            = Color{1, 1, 1, 1}
	Black            = Color{0, 0, 0, 1}
)

// NewRGBA returns the color with the given 0-255 channels.
func NewRGBA(r, g, b, a int) (Color, error) {
	for _, ch := range []struct {
		name string
		v    int
	}{{"red", r}, {"green", g}, {"blue", b}, {"alpha", a}} {
		if ch.v < 0 || ch.v > 255 {
			return Color{}, rangeErrorf("color", "%s value %d outside [0, 255]", ch.name, ch.v)
		}
	}
	return fromInts(r, g, b, a), nil
}

// NewRGB returns the fully opaque color with the given 0-255 channels.
func NewRGB(r, g, b int) (Color, error) {
	return NewRGBA(r, g, b, 255)
}

// MustRGBA is like NewRGBA but panics on out-of-range channels.
func MustRGBA(r, g, b, a int) Color {
	c, err := NewRGBA(r, g, b, a)
	if err != nil {
		panic(err)
	}
	return c
}

// NewHSL returns the fully opaque color with hue h in [0,360], saturation s
// and lightness l in [0,1]. A hue of 360 is the same as 0.
func NewHSL(h, s, l float64) (Color, error) {
	if math.IsNaN(h) || h < 0 || h > 360 {
		return Color{}, rangeErrorf("color", "hue %v outside [0, 360]", h)
	}
	if math.IsNaN(s) || s < 0 || s > 1 {
		return Color{}, rangeErrorf("color", "saturation %v outside [0, 1]", s)
	}
	if math.IsNaN(l) || l < 0 || l > 1 {
		return Color{}, rangeErrorf("color", "lightness %v outside [0, 1]", l)
	}
	if h == 360 {
		h = 0
	}
	r, g, b := hslToRGB(h, s, l)
	return Color{clamp(r, 0, 1), clamp(g, 0, 1), clamp(b, 0, 1), 1}, nil
}

// fromInts assumes every channel is already within [0,255].
func fromInts(r, g, b, a int) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}

func to255(v float64) int {
	return clampChannel(int(math.Round(v * 255)))
}

func clampChannel(v int) int {
	return max(0, min(255, v))
}

func (c Color) Red() int   { return to255(c.r) }
func (c Color) Green() int { return to255(c.g) }
func (c Color) Blue() int  { return to255(c.b) }
func (c Color) Alpha() int { return to255(c.a) }

// Components returns the 0-255 red, green, blue and alpha channels.
func (c Color) Components() (r, g, b, a int) {
	return c.Red(), c.Green(), c.Blue(), c.Alpha()
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts c to the standard library's non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: uint8(c.Red()), G: uint8(c.Green()), B: uint8(c.Blue()), A: uint8(c.Alpha())}
}

// HSL returns hue in [0,360) and saturation and lightness in [0,1], computed
// from the alpha-premultiplied channels.
func (c Color) HSL() (h, s, l float64) {
	return rgbToHSL(c.r*c.a, c.g*c.a, c.b*c.a)
}

func (c Color) Hue() float64 {
	h, _, _ := c.HSL()
	return h
}

func (c Color) Saturation() float64 {
	_, s, _ := c.HSL()
	return s
}

func (c Color) Lightness() float64 {
	_, _, l := c.HSL()
	return l
}

// Value is the largest of the red, green and blue channels.
func (c Color) Value() int {
	return max(c.Red(), c.Green(), c.Blue())
}

// Intensity is the rounded mean of the red, green and blue channels.
func (c Color) Intensity() int {
	return int(math.Round(float64(c.Red()+c.Green()+c.Blue()) / 3.0))
}

// Luma is the rounded Rec. 709 weighted sum of the red, green and blue channels.
func (c Color) Luma() int {
	return int(math.Round(0.2126*float64(c.Red()) + 0.7152*float64(c.Green()) + 0.0722*float64(c.Blue())))
}

// Token returns the canonical project text of c: four space-terminated
// integers, always "0 0 0 0 " when alpha is zero.
func (c Color) Token() string {
	if c.Alpha() == 0 {
		return "0 0 0 0 "
	}
	return fmt.Sprintf("%d %d %d %d ", c.Red(), c.Green(), c.Blue(), c.Alpha())
}

// Equal reports whether c and o have the same canonical token.
func (c Color) Equal(o Color) bool {
	return c.Token() == o.Token()
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %d)", c.Red(), c.Green(), c.Blue(), c.Alpha())
}

// Colorful returns the non-premultiplied channels as a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: c.r, G: c.g, B: c.b}
}

// FromColorful converts a go-colorful color, clamped to gamut, with the given alpha.
func FromColorful(cc colorful.Color, alpha int) (Color, error) {
	r, g, b := cc.Clamped().RGB255()
	return NewRGBA(int(r), int(g), int(b), alpha)
}

// Over composites top over bottom with the standard alpha "over" operator.
// A fully transparent result is always Transparent.
func Over(top, bottom Color) Color {
	ta := float64(top.Alpha()) / 255.0
	ba := float64(bottom.Alpha()) / 255.0
	a := ta + ba*(1-ta)
	if a == 0 {
		return Transparent
	}
	inv := 1 / a
	mix := func(t, b int) int {
		return clampChannel(int(math.Round((ta*float64(t) + float64(b)*ba*(1-ta)) * inv)))
	}
	return fromInts(
		mix(top.Red(), bottom.Red()),
		mix(top.Green(), bottom.Green()),
		mix(top.Blue(), bottom.Blue()),
		clampChannel(int(math.Round(a*255))),
	)
}

// Premultiply scales the channels of c by its alpha and returns the result
// as a fully opaque color.
func Premultiply(c Color) Color {
	a := float64(c.Alpha()) / 255.0
	scale := func(v int) int {
		return clampChannel(int(math.Round(float64(v) * a)))
	}
	return fromInts(scale(c.Red()), scale(c.Green()), scale(c.Blue()), 255)
}

// Unpremultiply is the inverse of Premultiply for the target alpha. The
// alpha of c itself is ignored. An alpha of zero yields Transparent.
func Unpremultiply(c Color, alpha int) (Color, error) {
	if alpha < 0 || alpha > 255 {
		return Color{}, rangeErrorf("unpremultiply", "alpha %d outside [0, 255]", alpha)
	}
	return unpremultiply(c, alpha), nil
}

// unpremultiply assumes alpha is within [0,255].
func unpremultiply(c Color, alpha int) Color {
	if alpha == 0 {
		return Transparent
	}
	a := float64(alpha) / 255.0
	scale := func(v int) int {
		return clampChannel(int(math.Round(float64(v) / a)))
	}
	return fromInts(scale(c.Red()), scale(c.Green()), scale(c.Blue()), alpha)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	hi := max(r, g, b)
	lo := min(r, g, b)
	delta := hi - lo

	l = (hi + lo) / 2
	if delta != 0 {
		s = delta / (1 - math.Abs(2*l-1))
		switch hi {
		case r:
			h = math.Mod((g-b)/delta, 6)
			if h < 0 {
				h += 6
			}
		case g:
			h = (b-r)/delta + 2
		default:
			h = (r-g)/delta + 4
		}
		h *= 60
	}

	h = clamp(h, 0, 360)
	if h == 360 {
		h = 0
	}
	return h, clamp(s, 0, 1), clamp(l, 0, 1)
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	a := s * math.Min(l, 1-l)
	f := func(n float64) float64 {
		k := math.Mod(n+h/30, 12)
		return l - a*math.Max(-1, math.Min(k-3, math.Min(9-k, 1)))
	}
	return f(0), f(8), f(4)
}
