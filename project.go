package collage

import (
	"fmt"
	"strings"
)

// SaveProject serializes the open project in the "C1" text format:
//
//	C1
//	{width} {height}
//	255
//	{layer} {filter}
//	{tokens...}
//
// with one name/filter line and one token line per layer, bottom to top.
func (c *Canvas) SaveProject() (string, error) {
	if err := c.requireOpen("saveProject"); err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "C1\n%d %d\n%d\n", c.width, c.height, MaxValue)
	for _, name := range c.order {
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(c.layers[name].ProjString())
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// LoadProject opens the project described by C1 text. On any error the
// canvas stays closed.
func (c *Canvas) LoadProject(text string) error {
	if c.open {
		return stateErrorf("loadProject", "project already open")
	}
	loaded, err := ParseProject(text, c.opt)
	if err != nil {
		return err
	}
	*c = *loaded
	return nil
}

// ParseProject builds an open canvas from C1 text. Channel values are
// rescaled from the file's max value to 255.
func ParseProject(text string, opt Options) (*Canvas, error) {
	const op = "loadProject"
	t := newTokenizer(op, text)
	magic, err := t.next()
	if err != nil {
		return nil, err
	}
	if magic != "C1" {
		return nil, argErrorf(op, "project should begin with C1, found %q", magic)
	}
	width, height, maxValue, err := t.header()
	if err != nil {
		return nil, err
	}

	c := NewCanvas(opt)
	if err := c.NewProject(height, width); err != nil {
		return nil, err
	}
	for t.more() {
		name, err := t.next()
		if err != nil {
			return nil, err
		}
		filter, err := t.next()
		if err != nil {
			return nil, err
		}
		grid, err := t.grid(height, width, maxValue, 4)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", name, err)
		}
		if name != BackgroundLayer {
			if err := c.AddLayer(name); err != nil {
				return nil, err
			}
		}
		if err := c.SetFilter(name, filter); err != nil {
			return nil, err
		}
		if err := c.AddImageToLayer(name, grid, 0, 0); err != nil {
			return nil, err
		}
	}
	return c, nil
}
