package collage

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EncodePPM writes g as plain "P3" PPM text. Alpha is dropped by
// premultiplying each pixel.
func EncodePPM(g Grid) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "P3\n%d %d\n%d\n", g.Width(), g.Height(), MaxValue)
	for _, row := range g {
		for _, c := range row {
			p := Premultiply(c)
			fmt.Fprintf(&sb, "%d %d %d ", p.Red(), p.Green(), p.Blue())
		}
	}
	return sb.String()
}

// EncodeT1 writes g in the 4-channel "T1" text form, which has the P3 header
// shape but canonical RGBA tokens.
func EncodeT1(g Grid) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "T1\n%d %d\n%d\n", g.Width(), g.Height(), MaxValue)
	writeTokens(&sb, g)
	return sb.String()
}

// DecodePPM reads plain "P3" PPM text into a fully opaque grid.
func DecodePPM(text string) (Grid, error) {
	return decodeText("decodePPM", "P3", text)
}

// DecodeT1 reads the 4-channel "T1" text form.
func DecodeT1(text string) (Grid, error) {
	return decodeText("decodeT1", "T1", text)
}

// DecodeText reads either P3 or T1 text, chosen by its magic number.
func DecodeText(text string) (Grid, error) {
	t := newTokenizer("decodeText", text)
	magic, err := t.next()
	if err != nil {
		return nil, err
	}
	switch magic {
	case "P3":
		return DecodePPM(text)
	case "T1":
		return DecodeT1(text)
	}
	return nil, argErrorf("decodeText", "unknown magic %q", magic)
}

func decodeText(op, magic, text string) (Grid, error) {
	t := newTokenizer(op, text)
	got, err := t.next()
	if err != nil {
		return nil, err
	}
	if got != magic {
		return nil, argErrorf(op, "text should begin with %s, found %q", magic, got)
	}
	width, height, maxValue, err := t.header()
	if err != nil {
		return nil, err
	}
	channels := 3
	if magic == "T1" {
		channels = 4
	}
	return t.grid(height, width, maxValue, channels)
}

// tokenizer splits text into whitespace separated fields, skipping lines
// whose first non-blank character is '#'.
type tokenizer struct {
	op     string
	fields []string
	pos    int
}

func newTokenizer(op, text string) *tokenizer {
	t := &tokenizer{op: op}
	for line := range strings.Lines(text) {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		t.fields = append(t.fields, strings.Fields(line)...)
	}
	return t
}

func (t *tokenizer) more() bool {
	return t.pos < len(t.fields)
}

func (t *tokenizer) next() (string, error) {
	if !t.more() {
		return "", argErrorf(t.op, "unexpected end of input")
	}
	s := t.fields[t.pos]
	t.pos++
	return s, nil
}

func (t *tokenizer) int() (int, error) {
	s, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, argErrorf(t.op, "expected an integer, found %q", s)
	}
	return v, nil
}

// header reads "width height maxValue".
func (t *tokenizer) header() (width, height, maxValue int, err error) {
	if width, err = t.int(); err != nil {
		return
	}
	if height, err = t.int(); err != nil {
		return
	}
	if maxValue, err = t.int(); err != nil {
		return
	}
	if width <= 0 || height <= 0 {
		err = rangeErrorf(t.op, "width %d and height %d must be positive", width, height)
	} else if maxValue <= 0 {
		err = argErrorf(t.op, "max value %d must be positive", maxValue)
	}
	return
}

// grid reads height*width pixels of 3 (opaque) or 4 channels each, rescaling
// every channel from [0,maxValue] to [0,255].
func (t *tokenizer) grid(height, width, maxValue, channels int) (Grid, error) {
	g := make(Grid, height)
	var ch [4]int
	for i := range g {
		row := make([]Color, width)
		for j := range row {
			ch[3] = 255
			for k := range channels {
				v, err := t.int()
				if err != nil {
					return nil, err
				}
				ch[k] = int(math.Round(float64(v) / float64(maxValue) * 255.0))
			}
			c, err := NewRGBA(ch[0], ch[1], ch[2], ch[3])
			if err != nil {
				return nil, fmt.Errorf("%s: pixel (%d, %d): %w", t.op, i, j, err)
			}
			row[j] = c
		}
		g[i] = row
	}
	return g, nil
}
