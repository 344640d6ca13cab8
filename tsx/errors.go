package tsx

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMalformed is the cause of every decoding error caused by the
	// document itself rather than by the reader.
	ErrMalformed = errors.New("malformed tiled document")

	ErrUnknownTile      = errors.New("tile id out of range")
	ErrDuplicateTile    = errors.New("duplicate tile id")
	ErrFrameOutOfRange  = errors.New("animation frame tile id out of range")
	ErrEmptyAnimation   = errors.New("empty animation")
	ErrBadDuration      = errors.New("animation frame duration not positive")
	ErrBadGeometry      = errors.New("tile count does not match image layout")
	ErrMissingImage     = errors.New("tileset image not found")
	ErrBadPropertyValue = errors.New("property value does not match its type")
)

// ValidationError lists every semantic problem found in one tileset.
//
// Each problem wraps one of the package's sentinel errors; Is reports whether
// any of them does.
type ValidationError struct {
	Tileset  string
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return fmt.Sprintf("tileset %q has %d problem(s): %s", e.Tileset, len(e.Problems), strings.Join(msgs, "; "))
}

func (e *ValidationError) Is(target error) bool {
	for _, p := range e.Problems {
		if errors.Cause(p) == target {
			return true
		}
	}
	return false
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, format, args...)
}
