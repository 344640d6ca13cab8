package compositor

import (
	"image"
	"image/draw"
	"time"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/anim"
	"badc0de.net/pkg/go-tiled/tmx"
)

// compositeTile draws one cell with its bottom left corner at bottomLeft, the
// way Tiled aligns tiles that are larger than the map grid.
func compositeTile(m *tmx.Map, sheets Sheets, c tmx.Cell, img *image.RGBA, bottomLeft image.Point, at time.Duration) error {
	ts, id, ok := m.TilesetForGID(c.GID)
	if !ok {
		return errors.Wrapf(tmx.ErrUnknownGID, "gid %d", c.GID)
	}
	sheet, ok := sheets[ts]
	if !ok {
		return errors.Errorf("no image loaded for tileset %q", ts.Name)
	}

	if frames, ok := ts.Animation(id); ok && len(frames) > 0 {
		id = frames[anim.FrameAt(frames, at)].TileID
	}

	frame, err := sheet.Tile(id)
	if err != nil {
		return err
	}
	frame = Orient(frame, c)

	size := frame.Bounds().Size()
	dst := image.Rect(
		bottomLeft.X, bottomLeft.Y-size.Y,
		bottomLeft.X+size.X, bottomLeft.Y)

	draw.Draw(img, dst, frame, frame.Bounds().Min, draw.Over)
	return nil
}
