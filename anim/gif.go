package anim

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"

	"github.com/andybons/gogif"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/tsx"
)

// TileImageFunc returns the image of the tile with the passed local id.
type TileImageFunc func(id int) (image.Image, error)

// Delay converts a frame duration into GIF delay units (1/100s). GIF cannot
// express less than one unit, so shorter frames are rounded up to it.
func Delay(f tsx.Frame) int {
	d := (f.Duration + 5) / 10
	if d < 1 {
		d = 1
	}
	return d
}

// EncodeGIF writes the animation as a looping animated GIF.
func EncodeGIF(w io.Writer, frames []tsx.Frame, tileImage TileImageFunc) error {
	if err := Check(frames); err != nil {
		return err
	}

	g := gif.GIF{}
	quantizer := gogif.MedianCutQuantizer{NumColor: 255} // Up to 255 colors plus 1 space for transparency.
	for i, f := range frames {
		img, err := tileImage(f.TileID)
		if err != nil {
			return errors.Wrapf(err, "frame %d: tile %d", i, f.TileID)
		}
		bounds := img.Bounds().Sub(img.Bounds().Min)

		pal := image.NewPaletted(bounds, nil)
		quantizer.Quantize(pal, bounds, img, img.Bounds().Min)

		// The quantizer only gives us opaque colours. Put transparent
		// first so that pixels left undrawn by draw.Over stay clear.
		palTransparent := image.NewPaletted(bounds, append(color.Palette{color.Transparent}, pal.Palette...))
		draw.Draw(palTransparent, bounds, img, img.Bounds().Min, draw.Over)

		g.Image = append(g.Image, palTransparent)
		g.Delay = append(g.Delay, Delay(f))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0
	g.LoopCount = 0

	if err := gif.EncodeAll(w, &g); err != nil {
		return errors.Wrap(err, "encoding gif")
	}
	return nil
}
