package compositor

import (
	"image"
	"image/color"

	"badc0de.net/pkg/go-tiled/tmx"
)

// orientedTile presents a tile image with the cell's flips applied, without
// copying pixels.
type orientedTile struct {
	src    image.Image
	bounds image.Rectangle

	flipH, flipV, flipD bool
}

// Orient returns the tile image as the cell shows it. Tiled applies the
// diagonal flip (a transpose) first, then the horizontal and vertical flips.
func Orient(tile image.Image, c tmx.Cell) image.Image {
	if !c.FlipH && !c.FlipV && !c.FlipD {
		return tile
	}
	size := tile.Bounds().Size()
	if c.FlipD {
		size.X, size.Y = size.Y, size.X
	}
	return &orientedTile{
		src:    tile,
		bounds: image.Rectangle{Max: size},
		flipH:  c.FlipH,
		flipV:  c.FlipV,
		flipD:  c.FlipD,
	}
}

func (o *orientedTile) ColorModel() color.Model {
	return o.src.ColorModel()
}

func (o *orientedTile) Bounds() image.Rectangle {
	return o.bounds
}

func (o *orientedTile) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(o.bounds)) {
		return color.RGBA{0, 0, 0, 0}
	}
	if o.flipH {
		x = o.bounds.Max.X - 1 - x
	}
	if o.flipV {
		y = o.bounds.Max.Y - 1 - y
	}
	if o.flipD {
		x, y = y, x
	}
	min := o.src.Bounds().Min
	return o.src.At(min.X+x, min.Y+y)
}
