package collage

import (
	"runtime"
	"slices"
	"strings"
	"unicode"
)

// BackgroundLayer is the name of the opaque white layer every project starts with.
const BackgroundLayer = "background"

// MaxValue is the largest channel value written to project and image text.
const MaxValue = 255

type Options struct {
	// Filters lists the filter names accepted by SetFilter.
	// Nil means DefaultRegistry.
	Filters Registry
	// Workers bounds how many goroutines merge rows of large grids.
	// Values below 2 keep merging sequential; results are identical either way.
	Workers int
}

func DefaultOptions() Options {
	return Options{
		Filters: DefaultRegistry(),
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Canvas is a project of named layers sharing one height and width.
// A Canvas is either closed or holds one open project. It is not safe for
// concurrent use.
type Canvas struct {
	opt Options

	open          bool
	height, width int
	order         []string
	layers        map[string]*Layer
}

// NewCanvas returns a closed canvas.
func NewCanvas(opt Options) *Canvas {
	if opt.Filters == nil {
		opt.Filters = DefaultRegistry()
	}
	return &Canvas{opt: opt}
}

func (c *Canvas) reset() {
	c.open = false
	c.height, c.width = 0, 0
	c.order = nil
	c.layers = nil
}

func (c *Canvas) requireOpen(op string) error {
	if !c.open {
		return stateErrorf(op, "no project open")
	}
	return nil
}

func (c *Canvas) layer(op, name string) (*Layer, error) {
	if err := c.requireOpen(op); err != nil {
		return nil, err
	}
	l, ok := c.layers[name]
	if !ok {
		return nil, argErrorf(op, "layer %q not found", name)
	}
	return l, nil
}

func (c *Canvas) newLayer() (*Layer, error) {
	l, err := NewLayer(c.height, c.width, nil, nil)
	if err != nil {
		return nil, err
	}
	l.workers = c.opt.Workers
	return l, nil
}

// IsOpen reports whether a project is open.
func (c *Canvas) IsOpen() bool { return c.open }

// NewProject opens an empty height x width project whose only layer is an
// opaque white background.
func (c *Canvas) NewProject(height, width int) error {
	const op = "newProject"
	if c.open {
		return stateErrorf(op, "project already open")
	}
	if height <= 0 || width <= 0 {
		return rangeErrorf(op, "height %d and width %d must be positive", height, width)
	}
	c.height, c.width = height, width
	bg, err := c.newLayer()
	if err != nil {
		c.reset()
		return err
	}
	if err := bg.AddImage(NewGrid(height, width, White), 0, 0); err != nil {
		c.reset()
		return err
	}
	c.layers = map[string]*Layer{BackgroundLayer: bg}
	c.order = []string{BackgroundLayer}
	c.open = true
	return nil
}

// Quit closes the project, discarding unsaved state.
func (c *Canvas) Quit() error {
	if err := c.requireOpen("quit"); err != nil {
		return err
	}
	c.reset()
	return nil
}

// AddLayer appends a transparent layer on top of the existing ones.
func (c *Canvas) AddLayer(name string) error {
	const op = "addLayer"
	if err := c.requireOpen(op); err != nil {
		return err
	}
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return argErrorf(op, "invalid layer name %q", name)
	}
	if _, ok := c.layers[name]; ok {
		return argErrorf(op, "layer %q already exists", name)
	}
	l, err := c.newLayer()
	if err != nil {
		return err
	}
	c.layers[name] = l
	c.order = append(c.order, name)
	return nil
}

// AddImageToLayer places img on the named layer with its top-left corner at (x, y).
func (c *Canvas) AddImageToLayer(name string, img Grid, x, y int) error {
	l, err := c.layer("addImageToLayer", name)
	if err != nil {
		return err
	}
	return l.AddImage(img, x, y)
}

// SetFilter sets the filter of the named layer to a registered filter.
func (c *Canvas) SetFilter(name, filter string) error {
	const op = "setFilter"
	l, err := c.layer(op, name)
	if err != nil {
		return err
	}
	f, ok := c.opt.Filters.Lookup(filter)
	if !ok {
		return argErrorf(op, "filter %q not found", filter)
	}
	return l.SetFilter(f)
}

// FilterName returns the name of the filter on the named layer.
func (c *Canvas) FilterName(name string) (string, error) {
	l, err := c.layer("getFilter", name)
	if err != nil {
		return "", err
	}
	return l.Filter().Name(), nil
}

// FilterNames lists the registered filters. It does not need an open project.
func (c *Canvas) FilterNames() []string {
	return c.opt.Filters.Names()
}

// Layer returns a copy of the named layer.
func (c *Canvas) Layer(name string) (*Layer, error) {
	l, err := c.layer("getLayer", name)
	if err != nil {
		return nil, err
	}
	return l.Clone(), nil
}

// Order returns the layer names bottom to top.
func (c *Canvas) Order() ([]string, error) {
	if err := c.requireOpen("getOrder"); err != nil {
		return nil, err
	}
	return slices.Clone(c.order), nil
}

func (c *Canvas) Height() (int, error) {
	if err := c.requireOpen("getHeight"); err != nil {
		return 0, err
	}
	return c.height, nil
}

func (c *Canvas) Width() (int, error) {
	if err := c.requireOpen("getWidth"); err != nil {
		return 0, err
	}
	return c.width, nil
}

// Flatten composites every layer, with its own filter, onto a transparent
// accumulator in insertion order. Later layers sit on top.
func (c *Canvas) Flatten() (Grid, error) {
	if err := c.requireOpen("flatten"); err != nil {
		return nil, err
	}
	return c.flatten(), nil
}

func (c *Canvas) flatten() Grid {
	acc := NewGrid(c.height, c.width, Transparent)
	for _, name := range c.order {
		acc = c.layers[name].MergeDown(acc)
	}
	return acc
}

// SaveImage returns the flattened image in the 4-channel T1 text form.
func (c *Canvas) SaveImage() (string, error) {
	if err := c.requireOpen("saveImage"); err != nil {
		return "", err
	}
	return EncodeT1(c.flatten()), nil
}

// SaveImagePPM returns the flattened image in the 3-channel P3 text form.
func (c *Canvas) SaveImagePPM() (string, error) {
	if err := c.requireOpen("saveImage"); err != nil {
		return "", err
	}
	return EncodePPM(c.flatten()), nil
}
