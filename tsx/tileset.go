// Package tsx reads, validates and writes tilesets in the TSX format used by
// the Tiled map editor.
//
// A tileset slices one source image into fixed-size tiles with sequential
// ids. Individual tiles may carry properties (most importantly the boolean
// "blocked" collision flag) and a looping animation: an ordered list of
// frames, each naming another tile of the same set and a duration in
// milliseconds.
//
// Data is read once and never mutated afterwards.
package tsx

import (
	"encoding/xml"
	"image"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/paths"
)

// BlockedProperty is the name of the bool property marking a tile as
// impassable.
const BlockedProperty = "blocked"

// Tileset is a decoded TSX document.
type Tileset struct {
	Name         string
	Version      string
	TiledVersion string

	// FirstGID is the global id of tile 0 when the set is used by a map.
	// Standalone files usually omit it; it then defaults to 1.
	FirstGID int

	TileWidth, TileHeight int
	Spacing, Margin       int
	TileCount             int
	Columns               int

	Image      Image
	Properties []Property
	Tiles      []Tile

	// Dir is the directory the tileset was loaded from, if any. Image
	// sources are relative to it.
	Dir string

	byID map[int]int
}

// Image is the source image the tiles are sliced from.
type Image struct {
	Source        string
	Width, Height int
}

// Tile holds the metadata authored for a single tile. Tiles without any
// metadata do not appear in a tileset at all.
type Tile struct {
	ID         int
	Type       string
	Properties []Property

	// Animation is nil for static tiles.
	Animation *Animation
}

// Animation is a looping sequence of frames.
type Animation struct {
	Frames []Frame
}

// Frame shows tile TileID for Duration milliseconds.
type Frame struct {
	TileID   int
	Duration int
}

// Decode parses a TSX document. Only syntactic problems are reported; use
// Validate (or Read) to check the semantic invariants.
func Decode(r io.Reader) (*Tileset, error) {
	dec := xml.NewDecoder(r)
	raw := xmlTileset{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return fromXML(&raw)
}

// Read decodes a TSX document and validates it.
func Read(r io.Reader) (*Tileset, error) {
	ts, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

// Load locates the named file using the paths package, then reads and
// validates it.
func Load(fileName string) (*Tileset, error) {
	f, err := paths.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "opening tileset %q", fileName)
	}
	defer f.Close()

	ts, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading tileset %q", fileName)
	}
	if found := paths.Find(fileName); found != "" {
		ts.Dir = path.Dir(filepathToSlash(found))
	} else {
		ts.Dir = path.Dir(filepathToSlash(fileName))
	}
	glog.V(2).Infof("tsx.Load(%q): %q, %d tiles, %d with metadata", fileName, ts.Name, ts.TileCount, len(ts.Tiles))
	return ts, nil
}

func filepathToSlash(p string) string {
	return strings.Replace(p, "\\", "/", -1)
}

func fromXML(raw *xmlTileset) (*Tileset, error) {
	ts := &Tileset{
		Name:         raw.Name,
		Version:      raw.Version,
		TiledVersion: raw.TiledVersion,
		byID:         map[int]int{},
	}

	var err error
	if raw.TileWidth == nil {
		return nil, malformed("no tilewidth attribute for tileset")
	}
	if ts.TileWidth, err = ParseCount(*raw.TileWidth, "tilewidth attribute for tileset"); err != nil {
		return nil, err
	}
	if raw.TileHeight == nil {
		return nil, malformed("no tileheight attribute for tileset")
	}
	if ts.TileHeight, err = ParseCount(*raw.TileHeight, "tileheight attribute for tileset"); err != nil {
		return nil, err
	}
	ts.FirstGID = 1
	if raw.FirstGID != "" {
		if ts.FirstGID, err = ParseCount(raw.FirstGID, "firstgid attribute for tileset"); err != nil {
			return nil, err
		}
	}
	if raw.Spacing != "" {
		if ts.Spacing, err = ParseCount(raw.Spacing, "spacing attribute for tileset"); err != nil {
			return nil, err
		}
	}
	if raw.Margin != "" {
		if ts.Margin, err = ParseCount(raw.Margin, "margin attribute for tileset"); err != nil {
			return nil, err
		}
	}
	if raw.TileCount != "" {
		if ts.TileCount, err = ParseCount(raw.TileCount, "tilecount attribute for tileset"); err != nil {
			return nil, err
		}
	}
	if raw.Columns != "" {
		if ts.Columns, err = ParseCount(raw.Columns, "columns attribute for tileset"); err != nil {
			return nil, err
		}
	}

	switch len(raw.Image) {
	case 0:
		return nil, malformed("tileset element has no image element")
	case 1:
	default:
		return nil, malformed("tileset element has multiple image elements")
	}
	img := raw.Image[0]
	if img.Source == nil {
		return nil, malformed("image element does not have source attribute")
	}
	ts.Image.Source = *img.Source
	if img.Width != "" {
		if ts.Image.Width, err = ParseCount(img.Width, "image width"); err != nil {
			return nil, err
		}
	}
	if img.Height != "" {
		if ts.Image.Height, err = ParseCount(img.Height, "image height"); err != nil {
			return nil, err
		}
	}

	if raw.Properties != nil {
		if ts.Properties, err = propertiesFromXML(raw.Properties, "tileset"); err != nil {
			return nil, err
		}
	}

	ts.Tiles = make([]Tile, 0, len(raw.Tile))
	for i, rt := range raw.Tile {
		if rt.ID == nil {
			return nil, malformed("tile %d missing id", i)
		}
		id, err := ParseCount(*rt.ID, "tile "+strconv.Itoa(i)+" id")
		if err != nil {
			return nil, err
		}
		t := Tile{ID: id, Type: rt.Type}
		where := "tile " + strconv.Itoa(id)
		if rt.Properties != nil {
			if t.Properties, err = propertiesFromXML(rt.Properties, where); err != nil {
				return nil, err
			}
		}
		if rt.Animation != nil {
			t.Animation = &Animation{Frames: make([]Frame, 0, len(rt.Animation.Frame))}
			for j, rf := range rt.Animation.Frame {
				if rf.TileID == nil || rf.Duration == nil {
					return nil, malformed("%s: animation frame %d should contain both a tileid and duration", where, j)
				}
				frameID, err := ParseCount(*rf.TileID, where+": animation frame id")
				if err != nil {
					return nil, err
				}
				duration, err := ParseCount(*rf.Duration, where+": animation frame duration")
				if err != nil {
					return nil, err
				}
				t.Animation.Frames = append(t.Animation.Frames, Frame{TileID: frameID, Duration: duration})
			}
		}

		if _, ok := ts.byID[id]; !ok {
			ts.byID[id] = len(ts.Tiles)
		}
		ts.Tiles = append(ts.Tiles, t)
		glog.V(3).Infof("tsx: tile %d: %d properties, animated=%v", id, len(t.Properties), t.Animation != nil)
	}

	return ts, nil
}

// ParseCount accepts the same non-negative integers Tiled writes: no sign,
// no leading zeros.
func ParseCount(s, what string) (int, error) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, malformed("%s not a valid integer: %q", what, s)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, malformed("%s not a valid integer: %q", what, s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, malformed("%s not a valid integer: %q", what, s)
	}
	return n, nil
}

// Rows returns the number of tile rows in the source image.
func (ts *Tileset) Rows() int {
	if ts.Columns == 0 {
		return 0
	}
	return (ts.TileCount + ts.Columns - 1) / ts.Columns
}

// Tile returns the metadata authored for the tile with the passed local id.
// If the id appears more than once, the first entry wins.
func (ts *Tileset) Tile(id int) (*Tile, bool) {
	idx, ok := ts.byID[id]
	if !ok {
		return nil, false
	}
	return &ts.Tiles[idx], true
}

// Blocked reports whether the tile has a "blocked" property set to true.
// Absence of the property, or a value that is not a bool, means the tile is
// passable.
func (ts *Tileset) Blocked(id int) bool {
	b, err := ts.PropertyBool(id, BlockedProperty, false)
	return err == nil && b
}

// BlockedIDs returns, in ascending order, the ids of all blocked tiles.
func (ts *Tileset) BlockedIDs() []int {
	ids := []int{}
	for id := range ts.byID {
		if ts.Blocked(id) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Animation returns the frames of the tile's animation, if it has one.
func (ts *Tileset) Animation(id int) ([]Frame, bool) {
	t, ok := ts.Tile(id)
	if !ok || t.Animation == nil {
		return nil, false
	}
	return t.Animation.Frames, true
}

// AnimatedIDs returns, in ascending order, the ids of all animated tiles.
func (ts *Tileset) AnimatedIDs() []int {
	ids := []int{}
	for id, idx := range ts.byID {
		if ts.Tiles[idx].Animation != nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// LocalID converts a map-wide global id into an id local to this tileset.
// Flip flags must already be stripped from gid.
func (ts *Tileset) LocalID(gid int) (int, bool) {
	id := gid - ts.FirstGID
	if id < 0 || (ts.TileCount > 0 && id >= ts.TileCount) {
		return 0, false
	}
	return id, true
}

// TileRect returns the rectangle of the source image covered by the tile.
func (ts *Tileset) TileRect(id int) image.Rectangle {
	cols := ts.Columns
	if cols == 0 {
		cols = 1
	}
	x := ts.Margin + (id%cols)*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + (id/cols)*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}

// ImagePath returns the image source resolved against the tileset's
// directory.
func (ts *Tileset) ImagePath() string {
	src := filepathToSlash(ts.Image.Source)
	if ts.Dir == "" || path.IsAbs(src) {
		return src
	}
	return path.Join(ts.Dir, src)
}

// DecodeElement decodes a tileset from an already-consumed start element.
// It is used for tilesets embedded in other documents, such as maps.
func DecodeElement(d *xml.Decoder, start *xml.StartElement) (*Tileset, error) {
	raw := xmlTileset{}
	if err := d.DecodeElement(&raw, start); err != nil {
		if errors.Cause(err) == ErrMalformed {
			return nil, err
		}
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return fromXML(&raw)
}
