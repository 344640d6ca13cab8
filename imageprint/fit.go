package imageprint

import (
	"image"

	"github.com/golang/glog"
	"github.com/nfnt/resize"
)

// TermSize is the size of a terminal in character cells and, where the
// terminal reports it, in pixels.
type TermSize struct {
	Rows, Cols     uint
	XPixel, YPixel uint
}

// Used when the terminal size cannot be determined, e.g. under go test.
var fallbackTermSize = TermSize{Rows: 25, Cols: 80}

// FitToTerminal scales an image down so that, printed with two characters
// per pixel, it fits the terminal.
func FitToTerminal(img image.Image) image.Image {
	sz, err := GetTermSize()
	if err != nil || sz.Cols == 0 || sz.Rows == 0 {
		glog.V(2).Infof("imageprint: could not get terminal size (%v); assuming %dx%d", err, fallbackTermSize.Cols, fallbackTermSize.Rows)
		sz = fallbackTermSize
	}
	return resize.Thumbnail(sz.Cols/2, sz.Rows, img, resize.Lanczos3)
}
