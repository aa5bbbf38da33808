// Package controller drives a collage.Canvas from a stream of text commands.
package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/collage"
	"github.com/setanarut/collage/internal/logger"
	"github.com/setanarut/collage/utils"
	"go.uber.org/zap"
)

// errQuit ends the session.
var errQuit = errors.New("no project open when quit")

type Options struct {
	Files      Files
	Palette    utils.PaletteMethod
	SwatchSize int
}

func DefaultOptions() Options {
	return Options{
		Files:      DiskFiles{},
		Palette:    utils.PaletteMethodDominantColor,
		SwatchSize: 64,
	}
}

type command struct {
	args []string // argument names, for usage messages
	run  func(ctx context.Context, args []string) (string, error)
}

type Controller struct {
	canvas   *collage.Canvas
	view     View
	in       *bufio.Scanner
	opt      Options
	commands map[string]command
}

func New(canvas *collage.Canvas, view View, in io.Reader, opt Options) *Controller {
	if opt.Files == nil {
		opt.Files = DiskFiles{}
	}
	if opt.SwatchSize <= 0 {
		opt.SwatchSize = 64
	}
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	c := &Controller{canvas: canvas, view: view, in: sc, opt: opt}
	c.commands = map[string]command{
		"new-project":        {[]string{"height", "width"}, c.newProject},
		"load-project":       {[]string{"path"}, c.loadProject},
		"save-project":       {[]string{"path"}, c.saveProject},
		"add-layer":          {[]string{"name"}, c.addLayer},
		"add-image-to-layer": {[]string{"name", "path", "x", "y"}, c.addImageToLayer},
		"set-filter":         {[]string{"name", "filter"}, c.setFilter},
		"save-image":         {[]string{"path"}, c.saveImage},
		"quit":               {nil, c.quit},
		"fill-layer":         {[]string{"name", "#rrggbb[aa]"}, c.fillLayer},
		"save-palette":       {[]string{"path", "k"}, c.savePalette},
		"image-stats":        {nil, c.imageStats},
		"filters":            {nil, c.filters},
	}
	return c
}

// Commands returns the known command names, sorted.
func (c *Controller) Commands() []string {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *Controller) commandList() string {
	return "The following is a list of known commands:\n[" + strings.Join(c.Commands(), ", ") + "]\n"
}

// Run executes commands until the input ends, the context is cancelled, or
// quit is issued with no project open. Command failures are reported to the
// view; only view failures and cancellation are returned.
func (c *Controller) Run(ctx context.Context) error {
	log := logger.L(ctx)
	if err := c.view.RenderMessage(c.commandList()); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, ok := c.word()
		if !ok {
			log.Debug("input exhausted")
			return c.in.Err()
		}
		cmd, ok := c.commands[name]
		if !ok {
			log.Debug("unknown command", zap.String("command", name))
			if err := c.view.RenderMessage("Command not found.\n" + c.commandList()); err != nil {
				return err
			}
			continue
		}

		args := make([]string, 0, len(cmd.args))
		for range cmd.args {
			arg, ok := c.word()
			if !ok {
				log.Debug("input ended inside command", zap.String("command", name))
				return c.in.Err()
			}
			args = append(args, arg)
		}

		log.Debug("run command", zap.String("command", name), zap.Strings("args", args))
		out, err := cmd.run(ctx, args)
		switch {
		case errors.Is(err, errQuit):
			log.Info("quit with no project open")
			return c.view.RenderMessage("No project open when quit; quitting program.\n")
		case err != nil:
			log.Warn("command failed", zap.String("command", name), zap.Error(err))
			if err := c.view.RenderMessage(err.Error() + "\n"); err != nil {
				return err
			}
			continue
		}
		if err := c.view.RenderMessage(out + name + " run successfully!\n"); err != nil {
			return err
		}
	}
}

func (c *Controller) word() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func atoi(op, name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %s %q is not an integer", op, name, s)
	}
	return n, nil
}

func (c *Controller) newProject(_ context.Context, args []string) (string, error) {
	h, err := atoi("new-project", "height", args[0])
	if err != nil {
		return "", err
	}
	w, err := atoi("new-project", "width", args[1])
	if err != nil {
		return "", err
	}
	return "", c.canvas.NewProject(h, w)
}

func (c *Controller) loadProject(ctx context.Context, args []string) (string, error) {
	text, err := c.opt.Files.ReadText(args[0])
	if err != nil {
		return "", fmt.Errorf("load-project: %w", err)
	}
	if err := c.canvas.LoadProject(text); err != nil {
		return "", err
	}
	logger.L(ctx).Info("loaded project", zap.String("path", args[0]))
	return "", nil
}

func (c *Controller) saveProject(ctx context.Context, args []string) (string, error) {
	text, err := c.canvas.SaveProject()
	if err != nil {
		return "", err
	}
	if err := c.opt.Files.WriteText(args[0], text); err != nil {
		return "", fmt.Errorf("save-project: %w", err)
	}
	logger.L(ctx).Info("saved project", zap.String("path", args[0]))
	return "", nil
}

func (c *Controller) addLayer(_ context.Context, args []string) (string, error) {
	return "", c.canvas.AddLayer(args[0])
}

func (c *Controller) addImageToLayer(ctx context.Context, args []string) (string, error) {
	x, err := atoi("add-image-to-layer", "x", args[2])
	if err != nil {
		return "", err
	}
	y, err := atoi("add-image-to-layer", "y", args[3])
	if err != nil {
		return "", err
	}
	if !c.canvas.IsOpen() {
		return "", c.canvas.AddImageToLayer(args[0], nil, x, y)
	}
	img, err := c.opt.Files.ReadImage(args[1])
	if err != nil {
		return "", fmt.Errorf("add-image-to-layer: %w", err)
	}
	logger.L(ctx).Info("read image",
		zap.String("path", args[1]),
		zap.Int("height", img.Height()),
		zap.Int("width", img.Width()))
	return "", c.canvas.AddImageToLayer(args[0], img, x, y)
}

func (c *Controller) setFilter(_ context.Context, args []string) (string, error) {
	return "", c.canvas.SetFilter(args[0], args[1])
}

func (c *Controller) saveImage(ctx context.Context, args []string) (string, error) {
	g, err := c.canvas.Flatten()
	if err != nil {
		return "", err
	}
	if err := c.opt.Files.WriteImage(args[0], g); err != nil {
		return "", fmt.Errorf("save-image: %w", err)
	}
	logger.L(ctx).Info("saved image", zap.String("path", args[0]))
	return "", nil
}

func (c *Controller) quit(context.Context, []string) (string, error) {
	if !c.canvas.IsOpen() {
		return "", errQuit
	}
	return "", c.canvas.Quit()
}

// parseHex reads #rrggbb or #rrggbbaa.
func parseHex(s string) (collage.Color, error) {
	alpha := 255
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return collage.Color{}, fmt.Errorf("fill-layer: bad alpha in %q", s)
		}
		alpha, s = int(a), s[:7]
	}
	if len(s) != 7 {
		return collage.Color{}, fmt.Errorf("fill-layer: color %q is not #rrggbb[aa]", s)
	}
	cc, err := colorful.Hex(s)
	if err != nil {
		return collage.Color{}, fmt.Errorf("fill-layer: %w", err)
	}
	return collage.FromColorful(cc, alpha)
}

func (c *Controller) fillLayer(_ context.Context, args []string) (string, error) {
	col, err := parseHex(args[1])
	if err != nil {
		return "", err
	}
	h, err := c.canvas.Height()
	if err != nil {
		return "", err
	}
	w, err := c.canvas.Width()
	if err != nil {
		return "", err
	}
	return "", c.canvas.AddImageToLayer(args[0], collage.NewGrid(h, w, col), 0, 0)
}

func (c *Controller) savePalette(ctx context.Context, args []string) (string, error) {
	k, err := atoi("save-palette", "k", args[1])
	if err != nil {
		return "", err
	}
	if k <= 0 {
		return "", fmt.Errorf("save-palette: k must be positive, got %d", k)
	}
	g, err := c.canvas.Flatten()
	if err != nil {
		return "", err
	}
	palette := utils.ExtractPalette(g, k, c.opt.Palette)
	utils.SortPaletteByBrightness(palette)
	swatches, err := utils.PaletteGrid(palette, c.opt.SwatchSize)
	if err != nil {
		return "", fmt.Errorf("save-palette: %w", err)
	}
	if err := c.opt.Files.WriteImage(args[0], swatches); err != nil {
		return "", fmt.Errorf("save-palette: %w", err)
	}
	logger.L(ctx).Info("saved palette",
		zap.String("path", args[0]),
		zap.Stringer("method", c.opt.Palette),
		zap.Int("colors", len(palette)))

	var sb strings.Builder
	for _, pc := range palette {
		sb.WriteString(pc.Hex())
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (c *Controller) imageStats(context.Context, []string) (string, error) {
	g, err := c.canvas.Flatten()
	if err != nil {
		return "", err
	}
	return utils.ComputeStats(g).String(), nil
}

func (c *Controller) filters(context.Context, []string) (string, error) {
	return "[" + strings.Join(c.canvas.FilterNames(), ", ") + "]\n", nil
}
