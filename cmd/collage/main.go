// Command collage builds layered images from text commands read on stdin or
// from a script file.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/setanarut/collage"
	"github.com/setanarut/collage/internal/controller"
	"github.com/setanarut/collage/internal/logger"
	"github.com/setanarut/collage/utils"
	"go.uber.org/zap"
)

func main() {
	filters := flag.String("filters", "default", "filter set: default or legacy")
	workers := flag.Int("workers", 0, "row workers for merging (0: GOMAXPROCS)")
	palette := flag.String("palette", "dominantcolor", "palette method for save-palette: dominantcolor or kmeans")
	script := flag.String("script", "", "read commands from this file instead of stdin")
	debug := flag.Bool("debug", false, "development logging")
	flag.Parse()

	var err error
	var l *zap.Logger
	if *debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck

	opt := collage.DefaultOptions()
	if opt.Filters, err = collage.RegistryByName(*filters); err != nil {
		l.Fatal("filters", zap.String("name", *filters), zap.Error(err))
	}
	if *workers > 0 {
		opt.Workers = *workers
	}

	copt := controller.DefaultOptions()
	if copt.Palette, err = utils.ParsePaletteMethod(*palette); err != nil {
		l.Fatal("palette", zap.Error(err))
	}

	var in io.Reader = os.Stdin
	if *script != "" {
		f, err := os.Open(*script)
		if err != nil {
			l.Fatal("open script", zap.String("path", *script), zap.Error(err))
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, l)

	l.Debug("starting",
		zap.Strings("filters", opt.Filters.Names()),
		zap.Int("workers", opt.Workers),
		zap.Stringer("palette", copt.Palette))

	c := controller.New(collage.NewCanvas(opt), controller.NewTextView(os.Stdout), in, copt)
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		l.Error("run", zap.Error(err))
	}
}
