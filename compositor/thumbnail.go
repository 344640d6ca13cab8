package compositor

import (
	"image"

	"github.com/nfnt/resize"
)

// Thumbnail scales img down to fit within maxW x maxH, keeping its aspect
// ratio. Images that already fit are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 || maxH <= 0 {
		return img
	}
	return resize.Thumbnail(uint(maxW), uint(maxH), img, resize.Lanczos3)
}
