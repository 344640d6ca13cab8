package tsx

import (
	"io/fs"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Validate checks the semantic invariants of the tileset and returns a
// *ValidationError listing every violation, or nil.
//
// Tile ids and animation frame ids must lie in [0, TileCount); no tile id may
// appear twice; every animation must have at least one frame and every frame
// a positive duration; bool properties must hold "true" or "false"; and when
// the image size is known, TileCount must equal rows x columns of the slice.
func (ts *Tileset) Validate() error {
	var problems []error
	add := func(cause error, format string, args ...interface{}) {
		problems = append(problems, errors.Wrapf(cause, format, args...))
	}

	inRange := func(id int) bool {
		return id >= 0 && id < ts.TileCount
	}

	seen := map[int]bool{}
	for _, t := range ts.Tiles {
		if seen[t.ID] {
			add(ErrDuplicateTile, "tile %d", t.ID)
		}
		seen[t.ID] = true

		if !inRange(t.ID) {
			add(ErrUnknownTile, "tile %d not in [0, %d)", t.ID, ts.TileCount)
		}

		for _, p := range t.Properties {
			if p.Type != TypeBool {
				continue
			}
			if _, err := ParseBool(p.Name, p.Value); err != nil {
				add(ErrBadPropertyValue, "tile %d: property %q has bool type but value %q", t.ID, p.Name, p.Value)
			}
		}

		if t.Animation == nil {
			continue
		}
		if len(t.Animation.Frames) == 0 {
			add(ErrEmptyAnimation, "tile %d", t.ID)
		}
		for j, f := range t.Animation.Frames {
			if !inRange(f.TileID) {
				add(ErrFrameOutOfRange, "tile %d, frame %d: tile id %d not in [0, %d)", t.ID, j, f.TileID, ts.TileCount)
			}
			if f.Duration <= 0 {
				add(ErrBadDuration, "tile %d, frame %d: duration %dms", t.ID, j, f.Duration)
			}
		}
	}

	if err := ts.checkGeometry(); err != nil {
		problems = append(problems, err)
	}

	if len(problems) > 0 {
		glog.V(2).Infof("tsx: tileset %q failed validation with %d problem(s)", ts.Name, len(problems))
		return &ValidationError{Tileset: ts.Name, Problems: problems}
	}
	return nil
}

func (ts *Tileset) checkGeometry() error {
	if ts.Columns == 0 {
		// No declared grid to check against.
		return nil
	}
	if ts.TileCount%ts.Columns != 0 {
		return errors.Wrapf(ErrBadGeometry, "tilecount %d is not a multiple of %d columns", ts.TileCount, ts.Columns)
	}
	if ts.Image.Width == 0 || ts.Image.Height == 0 {
		return nil
	}
	cols := fit(ts.Image.Width, ts.TileWidth, ts.Spacing, ts.Margin)
	rows := fit(ts.Image.Height, ts.TileHeight, ts.Spacing, ts.Margin)
	if cols != ts.Columns {
		return errors.Wrapf(ErrBadGeometry, "image %dpx wide fits %d columns of %dpx tiles, tileset declares %d", ts.Image.Width, cols, ts.TileWidth, ts.Columns)
	}
	if rows*cols != ts.TileCount {
		return errors.Wrapf(ErrBadGeometry, "image slices into %d x %d tiles, tileset declares %d", rows, cols, ts.TileCount)
	}
	return nil
}

// fit returns how many tiles of size tile fit into extent, Tiled style.
func fit(extent, tile, spacing, margin int) int {
	if tile+spacing <= 0 {
		return 0
	}
	return (extent - 2*margin + spacing) / (tile + spacing)
}

// CheckImage reports whether the tileset's source image exists in fsys. The
// image path is resolved against Dir.
func (ts *Tileset) CheckImage(fsys fs.FS) error {
	name := ts.ImagePath()
	if _, err := fs.Stat(fsys, name); err != nil {
		return errors.Wrapf(ErrMissingImage, "tileset %q: %q: %v", ts.Name, name, err)
	}
	return nil
}
