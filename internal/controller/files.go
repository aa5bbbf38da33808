package controller

import (
	"github.com/setanarut/collage"
	"github.com/setanarut/collage/utils"
)

// Files reads and writes the images and project text the commands name.
type Files interface {
	ReadImage(path string) (collage.Grid, error)
	WriteImage(path string, g collage.Grid) error
	ReadText(path string) (string, error)
	WriteText(path, text string) error
}

// DiskFiles is the Files implementation backed by the utils codecs.
type DiskFiles struct{}

func (DiskFiles) ReadImage(path string) (collage.Grid, error)  { return utils.ReadImage(path) }
func (DiskFiles) WriteImage(path string, g collage.Grid) error { return utils.WriteImage(path, g) }
func (DiskFiles) ReadText(path string) (string, error)         { return utils.ReadText(path) }
func (DiskFiles) WriteText(path, text string) error            { return utils.WriteText(path, text) }
