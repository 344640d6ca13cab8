package tmx

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/tsx"
)

var (
	// ErrMalformed is shared with tsx so that callers can test for either
	// document kind with one comparison.
	ErrMalformed = tsx.ErrMalformed

	ErrOffMap              = errors.New("position not on map")
	ErrUnsupportedEncoding = errors.New("unsupported layer encoding")
	ErrBadLayerData        = errors.New("bad layer data")
	ErrUnknownGID          = errors.New("gid not covered by any tileset")
)

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, format, args...)
}
