// Package tmx reads maps in the TMX format of the Tiled map editor and
// answers per-pixel questions about them, such as whether a position is
// blocked.
package tmx

import (
	"encoding/xml"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-tiled/paths"
	"badc0de.net/pkg/go-tiled/tsx"
)

// Map is a decoded TMX document.
type Map struct {
	Version      string
	TiledVersion string
	Orientation  string
	RenderOrder  string

	// Width and Height are in tiles.
	Width, Height         int
	TileWidth, TileHeight int

	Properties tsx.Properties

	// Tilesets are sorted by FirstGID.
	Tilesets []*tsx.Tileset

	// Layers are in drawing order, bottom first.
	Layers       []*Layer
	ObjectGroups []*ObjectGroup

	// Dir is the directory the map was loaded from, if any.
	Dir string
}

// TilesetLoader returns the tileset referenced by an external <tileset>
// element's source attribute.
type TilesetLoader func(source string) (*tsx.Tileset, error)

// Decode parses a TMX document. External tilesets are loaded with tsx.Load.
func Decode(r io.Reader) (*Map, error) {
	return DecodeWith(r, tsx.Load)
}

// DecodeWith parses a TMX document, loading external tilesets through load.
// Independent tilesets are loaded concurrently.
func DecodeWith(r io.Reader, load TilesetLoader) (*Map, error) {
	raw := xmlMap{}
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Cause(err) == ErrMalformed {
			return nil, err
		}
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	m, err := fromXML(&raw)
	if err != nil {
		return nil, err
	}
	if err := m.loadTilesets(raw.Tileset, load); err != nil {
		return nil, err
	}
	if err := m.checkGIDs(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load locates the named map using the paths package and decodes it.
// Tileset sources are resolved against the map's directory first, then
// looked up by their own name.
func Load(fileName string) (*Map, error) {
	f, err := paths.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "opening map %q", fileName)
	}
	defer f.Close()

	dir := path.Dir(toSlash(fileName))
	if found := paths.Find(fileName); found != "" {
		dir = path.Dir(toSlash(found))
	}

	m, err := DecodeWith(f, func(source string) (*tsx.Tileset, error) {
		source = toSlash(source)
		if !path.IsAbs(source) {
			if near := path.Join(dir, source); paths.Find(near) != "" {
				return tsx.Load(near)
			}
		}
		return tsx.Load(source)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading map %q", fileName)
	}
	m.Dir = dir
	glog.V(2).Infof("tmx.Load(%q): %dx%d tiles, %d tilesets, %d layers, %d object groups", fileName, m.Width, m.Height, len(m.Tilesets), len(m.Layers), len(m.ObjectGroups))
	return m, nil
}

func toSlash(p string) string {
	return strings.Replace(p, "\\", "/", -1)
}

func fromXML(raw *xmlMap) (*Map, error) {
	m := &Map{
		Version:      raw.Version,
		TiledVersion: raw.TiledVersion,
		Orientation:  raw.Orientation,
		RenderOrder:  raw.RenderOrder,
		Properties:   raw.Properties,
	}
	if m.Orientation == "" {
		m.Orientation = "orthogonal"
	}
	if raw.Infinite == "1" {
		return nil, errors.Wrap(ErrUnsupportedEncoding, "infinite maps")
	}

	for _, a := range []struct {
		raw  *string
		dst  *int
		name string
	}{
		{raw.Width, &m.Width, "width"},
		{raw.Height, &m.Height, "height"},
		{raw.TileWidth, &m.TileWidth, "tilewidth"},
		{raw.TileHeight, &m.TileHeight, "tileheight"},
	} {
		if a.raw == nil {
			return nil, malformed("no %s attribute for map", a.name)
		}
		n, err := tsx.ParseCount(*a.raw, a.name+" attribute for map")
		if err != nil {
			return nil, err
		}
		*a.dst = n
	}

	for i := range raw.Layer {
		l, err := layerFromXML(&raw.Layer[i], i)
		if err != nil {
			return nil, err
		}
		if l.Width != m.Width || l.Height != m.Height {
			glog.Warningf("tmx: layer %q is %dx%d on a %dx%d map", l.Name, l.Width, l.Height, m.Width, m.Height)
		}
		m.Layers = append(m.Layers, l)
	}
	for i := range raw.ObjectGroup {
		g, err := objectGroupFromXML(&raw.ObjectGroup[i])
		if err != nil {
			return nil, err
		}
		m.ObjectGroups = append(m.ObjectGroups, g)
	}
	return m, nil
}

func (m *Map) loadTilesets(refs []xmlTilesetRef, load TilesetLoader) error {
	m.Tilesets = make([]*tsx.Tileset, len(refs))

	// All refs are checked before any loader runs, so that no load is left
	// behind when the map turns out to be malformed.
	firstGIDs := make([]int, len(refs))
	for i, ref := range refs {
		if ref.FirstGID == "" {
			return malformed("tileset %d has no firstgid", i)
		}
		firstGID, err := tsx.ParseCount(ref.FirstGID, "firstgid attribute for tileset")
		if err != nil {
			return err
		}
		if firstGID == 0 {
			return malformed("tileset %d has firstgid 0", i)
		}
		if ref.Embedded != nil {
			if err := ref.Embedded.Validate(); err != nil {
				return errors.Wrapf(err, "embedded tileset %q", ref.Embedded.Name)
			}
		}
		firstGIDs[i] = firstGID
	}

	g := errgroup.Group{}
	for i := range refs {
		i, ref, firstGID := i, refs[i], firstGIDs[i]
		if ref.Embedded != nil {
			ref.Embedded.FirstGID = firstGID
			m.Tilesets[i] = ref.Embedded
			continue
		}
		g.Go(func() error {
			ts, err := load(ref.Source)
			if err != nil {
				return errors.Wrapf(err, "loading tileset %q", ref.Source)
			}
			ts.FirstGID = firstGID
			m.Tilesets[i] = ts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.SliceStable(m.Tilesets, func(i, j int) bool {
		return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID
	})
	return nil
}

// checkGIDs makes sure every non-empty cell is covered by a tileset.
func (m *Map) checkGIDs() error {
	for _, l := range m.Layers {
		for i, c := range l.Cells {
			if c.Empty() {
				continue
			}
			if _, _, ok := m.TilesetForGID(c.GID); !ok {
				return errors.Wrapf(ErrUnknownGID, "layer %q, cell (%d, %d): gid %d", l.Name, i%l.Width, i/l.Width, c.GID)
			}
		}
	}
	return nil
}

// TilesetForGID returns the tileset covering gid and the gid's id local to
// that tileset. Flip flags must already be stripped.
func (m *Map) TilesetForGID(gid uint32) (*tsx.Tileset, int, bool) {
	idx := sort.Search(len(m.Tilesets), func(i int) bool {
		return uint32(m.Tilesets[i].FirstGID) > gid
	}) - 1
	if idx < 0 {
		return nil, 0, false
	}
	ts := m.Tilesets[idx]
	id, ok := ts.LocalID(int(gid))
	if !ok {
		return nil, 0, false
	}
	return ts, id, true
}

// PixelWidth returns the width of the map in pixels.
func (m *Map) PixelWidth() int {
	return m.Width * m.TileWidth
}

// PixelHeight returns the height of the map in pixels.
func (m *Map) PixelHeight() int {
	return m.Height * m.TileHeight
}
