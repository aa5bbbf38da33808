package utils

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/setanarut/collage"
	"go.uber.org/multierr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrFormat is returned for file suffixes no codec handles.
var ErrFormat = errors.New("unsupported image format")

// Format is a lower-case file suffix without the dot, e.g. "png".
func Format(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "", fmt.Errorf("%w: no suffix in %q", ErrFormat, path)
	}
	return ext, nil
}

// ReadImage decodes the file at path into a grid. Text formats (ppm, txt)
// accept P3 or T1 content; raster formats keep their alpha channel.
func ReadImage(path string) (collage.Grid, error) {
	format, err := Format(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case "ppm", "txt":
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return collage.DecodeText(string(text))
	case "png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp":
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return collage.GridFromImage(img), nil
}

// WriteImage encodes g to path in the format named by its suffix.
// ppm and jpg drop alpha by premultiplying; txt keeps it as T1 text.
func WriteImage(path string, g collage.Grid) (err error) {
	format, err := Format(path)
	if err != nil {
		return err
	}
	switch format {
	case "ppm":
		return WriteText(path, collage.EncodePPM(g))
	case "txt":
		return WriteText(path, collage.EncodeT1(g))
	}

	encode, err := encoder(format)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if err := encode(f, g); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func encoder(format string) (func(io.Writer, collage.Grid) error, error) {
	switch format {
	case "png":
		return func(w io.Writer, g collage.Grid) error { return png.Encode(w, g.NRGBA()) }, nil
	case "jpg", "jpeg":
		return func(w io.Writer, g collage.Grid) error {
			return jpeg.Encode(w, opaque(g).NRGBA(), &jpeg.Options{Quality: 95})
		}, nil
	case "gif":
		return func(w io.Writer, g collage.Grid) error { return gif.Encode(w, g.NRGBA(), nil) }, nil
	case "bmp":
		return func(w io.Writer, g collage.Grid) error { return bmp.Encode(w, g.NRGBA()) }, nil
	case "tif", "tiff":
		return func(w io.Writer, g collage.Grid) error {
			return tiff.Encode(w, g.NRGBA(), &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, format)
}

// opaque premultiplies every pixel against black, as the P3 text form does.
func opaque(g collage.Grid) collage.Grid {
	out := g.Clone()
	for _, row := range out {
		for j, c := range row {
			row[j] = collage.Premultiply(c)
		}
	}
	return out
}

func ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func WriteText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}
