package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/setanarut/collage"
	"github.com/setanarut/collage/internal/logger"
	"github.com/setanarut/collage/utils"
	"go.uber.org/zap/zaptest"
)

// memFiles keeps images and text in memory, keyed by path.
type memFiles struct {
	images map[string]collage.Grid
	texts  map[string]string
}

func newMemFiles() *memFiles {
	return &memFiles{images: map[string]collage.Grid{}, texts: map[string]string{}}
}

func (m *memFiles) ReadImage(path string) (collage.Grid, error) {
	g, ok := m.images[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return g.Clone(), nil
}

func (m *memFiles) WriteImage(path string, g collage.Grid) error {
	m.images[path] = g.Clone()
	return nil
}

func (m *memFiles) ReadText(path string) (string, error) {
	s, ok := m.texts[path]
	if !ok {
		return "", fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return s, nil
}

func (m *memFiles) WriteText(path, text string) error {
	m.texts[path] = text
	return nil
}

type failingView struct{}

func (failingView) RenderMessage(string) error { return errors.New("closed") }

func run(t *testing.T, files *memFiles, script string) string {
	t.Helper()
	var out strings.Builder
	opt := DefaultOptions()
	opt.Files = files
	opt.Palette = utils.PaletteMethodKMeans
	c := New(collage.NewCanvas(collage.DefaultOptions()), NewTextView(&out), strings.NewReader(script), opt)
	ctx := logger.NewContext(context.Background(), zaptest.NewLogger(t))
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestRunScript(t *testing.T) {
	files := newMemFiles()
	files.images["red.png"] = collage.NewGrid(1, 1, collage.MustRGBA(255, 0, 0, 255))
	script := `
new-project 1 2
add-layer top
add-image-to-layer top red.png 1 0
set-filter top blue-component
save-image out.ppm
save-project out.collage
quit
`
	out := run(t, files, script)
	for _, cmd := range []string{"new-project", "add-layer", "add-image-to-layer", "set-filter", "save-image", "save-project", "quit"} {
		if !strings.Contains(out, cmd+" run successfully!\n") {
			t.Errorf("output lacks success for %s:\n%s", cmd, out)
		}
	}
	if !strings.HasPrefix(out, "The following is a list of known commands:\n[add-image-to-layer, add-layer, ") {
		t.Errorf("output does not start with the command list:\n%s", out)
	}

	want := collage.Grid{{collage.White, collage.Black}}
	if got := files.images["out.ppm"]; !got.Equal(want) {
		t.Errorf("saved image = %v, want %v", got, want)
	}
	if got, want := files.texts["out.collage"], "C1\n2 1\n255\nbackground normal\n255 255 255 255 255 255 255 255 \ntop blue-component\n0 0 0 0 255 0 0 255 \n"; got != want {
		t.Errorf("saved project = %q, want %q", got, want)
	}
}

func TestRunLoadProject(t *testing.T) {
	files := newMemFiles()
	files.texts["p.collage"] = "C1\n1 1\n255\nbackground normal\n1 2 3 255\n"
	out := run(t, files, "load-project p.collage save-image copy.txt load-project p.collage")
	if !strings.Contains(out, "load-project run successfully!\n") {
		t.Errorf("load failed:\n%s", out)
	}
	if got := files.images["copy.txt"]; !got.Equal(collage.Grid{{collage.MustRGBA(1, 2, 3, 255)}}) {
		t.Errorf("saved image = %v", got)
	}
	if !strings.Contains(out, "loadProject: state error") {
		t.Errorf("second load did not report a state error:\n%s", out)
	}
}

func TestRunErrors(t *testing.T) {
	files := newMemFiles()
	script := `
frobnicate
new-project two 2
add-layer a
new-project 2 2
add-image-to-layer background missing.png 0 0
set-filter background sepia
add-layer background
new-project 1 1
`
	out := run(t, files, script)
	wants := []string{
		"Command not found.\nThe following is a list of known commands:\n",
		`new-project: height "two" is not an integer`,
		"addLayer: state error",
		"missing.png",
		`filter "sepia" not found`,
		"addLayer: argument error",
		"newProject: state error",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output lacks %q:\n%s", w, out)
		}
	}
	if strings.Count(out, "run successfully!") != 1 {
		t.Errorf("want exactly one success:\n%s", out)
	}
}

func TestRunQuitWithoutProject(t *testing.T) {
	out := run(t, newMemFiles(), "quit new-project 1 1")
	if !strings.HasSuffix(out, "No project open when quit; quitting program.\n") {
		t.Errorf("quit did not end the session:\n%s", out)
	}
	if strings.Contains(out, "new-project run successfully") {
		t.Errorf("commands after quit were run:\n%s", out)
	}

	out = run(t, newMemFiles(), "new-project 1 1 quit new-project 1 1 quit quit")
	if got := strings.Count(out, "run successfully!"); got != 4 {
		t.Errorf("successes = %d, want 4:\n%s", got, out)
	}
	if !strings.HasSuffix(out, "quitting program.\n") {
		t.Errorf("final quit did not end the session:\n%s", out)
	}
}

func TestRunTruncatedInput(t *testing.T) {
	out := run(t, newMemFiles(), "new-project 3")
	if strings.Contains(out, "run successfully") {
		t.Errorf("truncated command ran:\n%s", out)
	}
}

func TestRunExtraCommands(t *testing.T) {
	files := newMemFiles()
	script := `
filters
new-project 2 2
add-layer paint
fill-layer paint #0000ff80
fill-layer paint #zz
image-stats
save-palette swatches.png 1
save-image out.png
`
	out := run(t, files, script)
	if !strings.Contains(out, "[blue-component, brighten-intensity, ") {
		t.Errorf("filters output missing:\n%s", out)
	}
	if !strings.Contains(out, "fill-layer run successfully!") || !strings.Contains(out, `fill-layer: color "#zz" is not #rrggbb[aa]`) {
		t.Errorf("fill-layer output:\n%s", out)
	}
	if !strings.Contains(out, "pixels 4, transparent 0") {
		t.Errorf("image-stats output:\n%s", out)
	}

	img := files.images["out.png"]
	if img == nil || img[1][1].Token() != "127 127 255 255 " {
		t.Fatalf("flattened image = %v", img)
	}
	swatches := files.images["swatches.png"]
	if swatches.Height() != 64 || swatches.Width() != 64 {
		t.Fatalf("swatches size = %dx%d", swatches.Height(), swatches.Width())
	}
	if !swatches[0][0].Equal(img[0][0]) {
		t.Errorf("swatch = %v, want %v", swatches[0][0], img[0][0])
	}
	if !strings.Contains(out, "#7f7fff\nsave-palette run successfully!") {
		t.Errorf("palette listing missing:\n%s", out)
	}
}

func TestRunViewFailure(t *testing.T) {
	c := New(collage.NewCanvas(collage.DefaultOptions()), failingView{}, strings.NewReader("quit"), Options{Files: newMemFiles()})
	if err := c.Run(context.Background()); err == nil {
		t.Error("Run succeeded with a failing view")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out strings.Builder
	c := New(collage.NewCanvas(collage.DefaultOptions()), NewTextView(&out), strings.NewReader("new-project 1 1"), Options{})
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestParseHex(t *testing.T) {
	tests := map[string]string{
		"#ff8000":   "255 128 0 255 ",
		"#FF800040": "255 128 0 64 ",
		"#00000000": "0 0 0 0 ",
	}
	for in, want := range tests {
		c, err := parseHex(in)
		if err != nil {
			t.Errorf("parseHex(%q): %v", in, err)
			continue
		}
		if c.Token() != want {
			t.Errorf("parseHex(%q) = %q, want %q", in, c.Token(), want)
		}
	}
	for _, in := range []string{"ff8000", "#ff80", "#ff8000zz", "#gg8000"} {
		if _, err := parseHex(in); err == nil {
			t.Errorf("parseHex(%q) succeeded", in)
		}
	}
}
