package collage

import (
	"errors"
	"math"
	"testing"
)

var sampleChannels = []int{0, 1, 17, 50, 100, 128, 200, 254, 255}

func TestNewRGBARoundTrip(t *testing.T) {
	for v := range 256 {
		for _, tc := range [][4]int{{v, 0, 0, 255}, {0, v, 0, 255}, {0, 0, v, 255}, {12, 34, 56, v}} {
			c, err := NewRGBA(tc[0], tc[1], tc[2], tc[3])
			if err != nil {
				t.Fatalf("NewRGBA%v: %v", tc, err)
			}
			r, g, b, a := c.Components()
			if [4]int{r, g, b, a} != tc {
				t.Errorf("NewRGBA%v.Components() = %v", tc, [4]int{r, g, b, a})
			}
		}
	}
}

func TestNewRGBARange(t *testing.T) {
	for _, tc := range [][4]int{{-1, 0, 0, 0}, {0, 256, 0, 0}, {0, 0, 300, 0}, {0, 0, 0, -5}} {
		if _, err := NewRGBA(tc[0], tc[1], tc[2], tc[3]); !errors.Is(err, ErrRange) {
			t.Errorf("NewRGBA%v error = %v, want ErrRange", tc, err)
		}
	}
	c, err := NewRGB(1, 2, 3)
	if err != nil || c.Alpha() != 255 {
		t.Errorf("NewRGB(1, 2, 3) = %v, %v; want alpha 255", c, err)
	}
}

func TestNewHSL(t *testing.T) {
	tests := []struct {
		h, s, l float64
		want    Color
	}{
		{0, 1, 0.5, MustRGBA(255, 0, 0, 255)},
		{360, 1, 0.5, MustRGBA(255, 0, 0, 255)},
		{120, 1, 0.5, MustRGBA(0, 255, 0, 255)},
		{240, 1, 0.5, MustRGBA(0, 0, 255, 255)},
		{0, 0, 1, White},
		{0, 0, 0, Black},
		{210, 0.5, 100.0 / 255.0, MustRGBA(50, 100, 150, 255)},
	}
	for _, tt := range tests {
		got, err := NewHSL(tt.h, tt.s, tt.l)
		if err != nil {
			t.Fatalf("NewHSL(%v, %v, %v): %v", tt.h, tt.s, tt.l, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("NewHSL(%v, %v, %v) = %v, want %v", tt.h, tt.s, tt.l, got, tt.want)
		}
	}

	for _, tc := range [][3]float64{{-1, 0, 0}, {360.5, 0, 0}, {0, 1.1, 0}, {0, 0, -0.1}, {math.NaN(), 0, 0}} {
		if _, err := NewHSL(tc[0], tc[1], tc[2]); !errors.Is(err, ErrRange) {
			t.Errorf("NewHSL%v error = %v, want ErrRange", tc, err)
		}
	}
}

func TestHSLValues(t *testing.T) {
	h, s, l := MustRGBA(50, 100, 150, 255).HSL()
	if math.Abs(h-210) > 1e-9 || math.Abs(s-0.5) > 1e-9 || math.Abs(l-100.0/255.0) > 1e-9 {
		t.Errorf("HSL() = %v, %v, %v; want 210, 0.5, %v", h, s, l, 100.0/255.0)
	}

	// HSL is derived from the premultiplied channels.
	if got := MustRGBA(255, 255, 255, 0).Lightness(); got != 0 {
		t.Errorf("transparent white lightness = %v, want 0", got)
	}
	if got := MustRGBA(0, 0, 0, 255).Hue(); got != 0 {
		t.Errorf("black hue = %v, want 0", got)
	}
}

func TestHSLRoundTrip(t *testing.T) {
	for _, r := range sampleChannels {
		for _, g := range sampleChannels {
			for _, b := range sampleChannels {
				for _, a := range []int{0, 1, 51, 128, 200, 255} {
					c := MustRGBA(r, g, b, a)
					h, s, l := c.HSL()
					if h < 0 || h >= 360 || s < 0 || s > 1 || l < 0 || l > 1 {
						t.Fatalf("%v.HSL() = %v, %v, %v out of range", c, h, s, l)
					}
					got, err := NewHSL(h, s, l)
					if err != nil {
						t.Fatalf("NewHSL(%v.HSL()): %v", c, err)
					}
					want := Premultiply(c)
					if absInt(got.Red()-want.Red()) > 1 || absInt(got.Green()-want.Green()) > 1 || absInt(got.Blue()-want.Blue()) > 1 {
						t.Errorf("NewHSL(%v.HSL()) = %v, want within 1 of %v", c, got, want)
					}
				}
			}
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestOver(t *testing.T) {
	bottom := MustRGBA(10, 20, 30, 200)
	for _, top := range []Color{Transparent, TransparentWhite, MustRGBA(99, 1, 7, 0)} {
		if got := Over(top, bottom); !got.Equal(bottom) {
			t.Errorf("Over(%v, %v) = %v, want bottom", top, bottom, got)
		}
	}

	opaque := MustRGBA(1, 2, 3, 255)
	if got := Over(opaque, bottom); !got.Equal(opaque) {
		t.Errorf("Over(opaque, %v) = %v, want %v", bottom, got, opaque)
	}

	got := Over(MustRGBA(255, 0, 0, 128), MustRGBA(0, 0, 255, 255))
	if want := "128 0 127 255 "; got.Token() != want {
		t.Errorf("half red over blue = %q, want %q", got.Token(), want)
	}

	if got := Over(Transparent, TransparentWhite); got != Transparent {
		t.Errorf("Over of two transparent colors = %#v, want Transparent", got)
	}
}

func TestPremultiply(t *testing.T) {
	if got := Premultiply(MustRGBA(200, 100, 50, 51)).Token(); got != "40 20 10 255 " {
		t.Errorf("Premultiply = %q, want %q", got, "40 20 10 255 ")
	}
	if got := Premultiply(MustRGBA(200, 100, 50, 0)); !got.Equal(Black) {
		t.Errorf("Premultiply of transparent = %v, want black", got)
	}
}

func TestUnpremultiply(t *testing.T) {
	got, err := Unpremultiply(MustRGBA(40, 20, 10, 255), 51)
	if err != nil {
		t.Fatal(err)
	}
	if want := MustRGBA(200, 100, 50, 51); !got.Equal(want) {
		t.Errorf("Unpremultiply = %v, want %v", got, want)
	}

	got, err = Unpremultiply(White, 0)
	if err != nil || got != Transparent {
		t.Errorf("Unpremultiply(white, 0) = %#v, %v; want Transparent", got, err)
	}

	got, err = Unpremultiply(White, 100)
	if err != nil || got.Token() != "255 255 255 100 " {
		t.Errorf("Unpremultiply(white, 100) = %v, %v; want channels capped at 255", got, err)
	}

	for _, a := range []int{-1, 256} {
		if _, err := Unpremultiply(White, a); !errors.Is(err, ErrRange) {
			t.Errorf("Unpremultiply(white, %d) error = %v, want ErrRange", a, err)
		}
	}
}

func TestTokenAndEqual(t *testing.T) {
	if got := MustRGBA(1, 2, 3, 4).Token(); got != "1 2 3 4 " {
		t.Errorf("Token() = %q", got)
	}
	if got := MustRGBA(10, 20, 30, 0).Token(); got != "0 0 0 0 " {
		t.Errorf("transparent Token() = %q, want %q", got, "0 0 0 0 ")
	}
	if !MustRGBA(1, 2, 3, 0).Equal(MustRGBA(4, 5, 6, 0)) {
		t.Error("fully transparent colors should be equal")
	}
	if MustRGBA(1, 2, 3, 4).Equal(MustRGBA(1, 2, 3, 5)) {
		t.Error("colors with different alpha should differ")
	}
}

func TestBrightnessMeasures(t *testing.T) {
	c := MustRGBA(100, 50, 25, 255)
	if got := c.Value(); got != 100 {
		t.Errorf("Value() = %d, want 100", got)
	}
	if got := c.Intensity(); got != 58 {
		t.Errorf("Intensity() = %d, want 58", got)
	}
	if got := c.Luma(); got != 59 {
		t.Errorf("Luma() = %d, want 59", got)
	}
}

func TestColorful(t *testing.T) {
	c := MustRGBA(50, 100, 150, 77)
	back, err := FromColorful(c.Colorful(), c.Alpha())
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(c) {
		t.Errorf("FromColorful(%v.Colorful()) = %v", c, back)
	}
	r, g, b, a := c.RGBA()
	if a != 77*0x101 || r > a || g > a || b > a {
		t.Errorf("RGBA() = %d %d %d %d, want premultiplied 16-bit", r, g, b, a)
	}
}
