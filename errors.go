package collage

import (
	"errors"
	"fmt"
)

var (
	// ErrRange reports a numeric input outside its legal domain.
	ErrRange = errors.New("range error")
	// ErrArg reports an unknown layer or filter name or malformed grid content.
	ErrArg = errors.New("argument error")
	// ErrState reports an operation invoked in the wrong project state.
	ErrState = errors.New("state error")
)

func rangeErrorf(op, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrRange, fmt.Sprintf(format, args...))
}

func argErrorf(op, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrArg, fmt.Sprintf(format, args...))
}

func stateErrorf(op, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrState, fmt.Sprintf(format, args...))
}
