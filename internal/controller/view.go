package controller

import (
	"fmt"
	"io"
)

// View receives the messages the controller produces.
type View interface {
	RenderMessage(msg string) error
}

// TextView writes messages verbatim to an io.Writer.
type TextView struct {
	w io.Writer
}

func NewTextView(w io.Writer) *TextView {
	return &TextView{w: w}
}

func (v *TextView) RenderMessage(msg string) error {
	if _, err := io.WriteString(v.w, msg); err != nil {
		return fmt.Errorf("render message: %w", err)
	}
	return nil
}
