// Package compositor paints a part of a map into an image.Image, using the
// sliced tileset images of the map.
//
// Layers are painted bottom up, honouring visibility and opacity. Flipped
// tiles are drawn flipped, and animated tiles show the frame that is
// current at the requested point in time.
package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"io/fs"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/tileimage"
	"badc0de.net/pkg/go-tiled/tmx"
	"badc0de.net/pkg/go-tiled/tsx"
)

// Sheets holds the sliced image of each tileset used by a map.
type Sheets map[*tsx.Tileset]*tileimage.Sheet

// LoadSheets loads the source image of every tileset of the map from fsys.
func LoadSheets(m *tmx.Map, fsys fs.FS) (Sheets, error) {
	sheets := Sheets{}
	for _, ts := range m.Tilesets {
		s, err := tileimage.LoadSheet(ts, fsys)
		if err != nil {
			return nil, errors.Wrap(err, "loading map sheets")
		}
		sheets[ts] = s
	}
	return sheets, nil
}

// CompositeMap paints the width x height pixel rectangle of the map whose
// top left corner is at map pixel x, y. Animated tiles are shown as they
// are at time at since the animations started.
//
// Tiles that cannot be drawn are logged and skipped.
func CompositeMap(m *tmx.Map, sheets Sheets, x, y, width, height int, at time.Duration) image.Image {
	fullSize := image.Rect(0, 0, width, height)
	img := image.NewRGBA(fullSize)
	if width <= 0 || height <= 0 || m.TileWidth == 0 || m.TileHeight == 0 {
		return img
	}

	tileW, tileH := m.TileWidth, m.TileHeight
	tx0, ty0 := floorDiv(x, tileW), floorDiv(y, tileH)
	tx1, ty1 := floorDiv(x+width-1, tileW), floorDiv(y+height-1, tileH)

	// Tiles larger than the grid grow up and to the right of their cell, so
	// cells below and left of the window may still reach into it.
	overW, overH := overhang(m)
	tx0 -= overW
	ty1 += overH

	for _, l := range m.Layers {
		if !l.Visible || l.Opacity <= 0 {
			continue
		}

		layerImg := img
		if l.Opacity < 1 {
			layerImg = image.NewRGBA(fullSize)
		}

		var bottomLeft image.Point
		for ty := ty0; ty <= ty1; ty++ {
			for tx := tx0; tx <= tx1; tx++ {
				c, ok := l.At(tx, ty)
				if !ok || c.Empty() {
					continue
				}
				bottomLeft.X = tx*tileW - x
				bottomLeft.Y = (ty+1)*tileH - y
				if err := compositeTile(m, sheets, c, layerImg, bottomLeft, at); err != nil {
					glog.Errorf("layer %q: could not draw tile at %d %d: %v", l.Name, tx, ty, err)
				}
			}
		}

		if l.Opacity < 1 {
			mask := image.NewUniform(color.Alpha{uint8(l.Opacity*255 + 0.5)})
			draw.DrawMask(img, fullSize, layerImg, image.ZP, mask, image.ZP, draw.Over)
		}
	}

	return img
}

// floorDiv divides rounding towards negative infinity, so that pixels left
// of or above the map land in negative tile coordinates.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// overhang returns how many cells the largest tiles of the map's tilesets
// reach past their own cell, horizontally and vertically.
func overhang(m *tmx.Map) (int, int) {
	maxW, maxH := m.TileWidth, m.TileHeight
	for _, ts := range m.Tilesets {
		if ts.TileWidth > maxW {
			maxW = ts.TileWidth
		}
		if ts.TileHeight > maxH {
			maxH = ts.TileHeight
		}
	}
	return (maxW - 1) / m.TileWidth, (maxH - 1) / m.TileHeight
}
