package tmx

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/tsx"
)

// tileCoords converts a pixel position into tile coordinates.
func (m *Map) tileCoords(x, y int) (int, int, error) {
	if x < 0 || y < 0 || x >= m.PixelWidth() || y >= m.PixelHeight() {
		return 0, 0, errors.Wrapf(ErrOffMap, "position (%d, %d)", x, y)
	}
	return x / m.TileWidth, y / m.TileHeight, nil
}

// CellAt returns the cell of the indexed layer at pixel position x, y.
func (m *Map) CellAt(layer, x, y int) (Cell, error) {
	if layer < 0 || layer >= len(m.Layers) {
		return Cell{}, errors.Errorf("no layer %d; map has %d", layer, len(m.Layers))
	}
	tx, ty, err := m.tileCoords(x, y)
	if err != nil {
		return Cell{}, err
	}
	c, ok := m.Layers[layer].At(tx, ty)
	if !ok {
		return Cell{}, errors.Wrapf(ErrOffMap, "position (%d, %d) on layer %q", x, y, m.Layers[layer].Name)
	}
	return c, nil
}

// tilesAt calls fn for the tile under x, y on every layer, bottom first,
// until fn returns false. Empty cells are skipped.
func (m *Map) tilesAt(x, y int, fn func(ts *tsx.Tileset, id int) bool) error {
	tx, ty, err := m.tileCoords(x, y)
	if err != nil {
		return err
	}
	for _, l := range m.Layers {
		c, ok := l.At(tx, ty)
		if !ok || c.Empty() {
			continue
		}
		ts, id, ok := m.TilesetForGID(c.GID)
		if !ok {
			continue
		}
		if !fn(ts, id) {
			break
		}
	}
	return nil
}

// Property returns the value of the named property of the tile at pixel
// position x, y. Layers are searched bottom up and the first tile having
// the property wins.
func (m *Map) Property(x, y int, name string) (string, bool, error) {
	var value string
	found := false
	err := m.tilesAt(x, y, func(ts *tsx.Tileset, id int) bool {
		value, found = ts.Property(id, name)
		return !found
	})
	return value, found, err
}

// PropertyOr is like Property, returning def when no tile has the property.
func (m *Map) PropertyOr(x, y int, name, def string) (string, error) {
	v, ok, err := m.Property(x, y, name)
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// HasProperty reports whether any tile at x, y has the named property.
func (m *Map) HasProperty(x, y int, name string) (bool, error) {
	_, ok, err := m.Property(x, y, name)
	return ok, err
}

func (m *Map) PropertyInt(x, y int, name string, def int) (int, error) {
	v, ok, err := m.Property(x, y, name)
	if err != nil || !ok {
		return def, err
	}
	return tsx.ParseInt(name, v)
}

func (m *Map) PropertyFloat(x, y int, name string, def float64) (float64, error) {
	v, ok, err := m.Property(x, y, name)
	if err != nil || !ok {
		return def, err
	}
	return tsx.ParseFloat(name, v)
}

func (m *Map) PropertyBool(x, y int, name string, def bool) (bool, error) {
	v, ok, err := m.Property(x, y, name)
	if err != nil || !ok {
		return def, err
	}
	return tsx.ParseBool(name, v)
}

// Blocked reports whether the tile at x, y on any layer is blocked.
func (m *Map) Blocked(x, y int) (bool, error) {
	blocked := false
	err := m.tilesAt(x, y, func(ts *tsx.Tileset, id int) bool {
		blocked = ts.Blocked(id)
		return !blocked
	})
	return blocked, err
}
