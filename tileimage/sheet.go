// Package tileimage slices a tileset's source image into individual tile
// images.
package tileimage

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-tiled/tsx"
)

// Sheet is a tileset together with its decoded source image.
type Sheet struct {
	Tileset *tsx.Tileset
	img     image.Image
}

func NewSheet(ts *tsx.Tileset, img image.Image) *Sheet {
	return &Sheet{Tileset: ts, img: img}
}

// LoadSheet opens and decodes the tileset's source image from fsys. PNG, GIF
// and JPEG images are supported.
func LoadSheet(ts *tsx.Tileset, fsys fs.FS) (*Sheet, error) {
	name := ts.ImagePath()
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(tsx.ErrMissingImage, "tileset %q: %v", ts.Name, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "tileset %q: decoding %q", ts.Name, name)
	}
	sz := img.Bounds().Size()
	if (ts.Image.Width != 0 && ts.Image.Width != sz.X) || (ts.Image.Height != 0 && ts.Image.Height != sz.Y) {
		glog.Warningf("tileimage: tileset %q declares a %dx%d image, %q is %dx%d", ts.Name, ts.Image.Width, ts.Image.Height, name, sz.X, sz.Y)
	}
	glog.V(2).Infof("tileimage.LoadSheet: %q: %s %dx%d", name, format, sz.X, sz.Y)
	return NewSheet(ts, img), nil
}

// Image returns the whole source image.
func (s *Sheet) Image() image.Image {
	return s.img
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Tile returns the image of the tile with the passed local id. When the
// source image supports it, the result shares its pixels.
func (s *Sheet) Tile(id int) (image.Image, error) {
	ts := s.Tileset
	if id < 0 || (ts.TileCount > 0 && id >= ts.TileCount) {
		return nil, errors.Wrapf(tsx.ErrUnknownTile, "tileset %q: tile %d not in [0, %d)", ts.Name, id, ts.TileCount)
	}
	bounds := s.img.Bounds()
	r := ts.TileRect(id).Add(bounds.Min)
	if !r.In(bounds) {
		return nil, errors.Errorf("tileset %q: tile %d at %v lies outside the %v image", ts.Name, id, r, bounds)
	}

	if si, ok := s.img.(subImager); ok {
		return si.SubImage(r), nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), s.img, r.Min, draw.Src)
	return dst, nil
}

// DataURL returns the tile as a PNG data URL, ready to be used as the src of
// an <img>.
func (s *Sheet) DataURL(id int) (string, error) {
	tile, err := s.Tile(id)
	if err != nil {
		return "", err
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, tile); err != nil {
		return "", errors.Wrapf(err, "encoding tile %d", id)
	}

	dataURL := dataurl.New(buf.Bytes(), "image/png")
	byt, err := dataURL.MarshalText()
	if err != nil {
		return "", errors.Wrap(err, "failed to encode data url")
	}
	return string(byt), nil
}
