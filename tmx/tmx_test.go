package tmx

import (
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"badc0de.net/pkg/flagutil/v1"

	"badc0de.net/pkg/go-tiled/tsx"
	"badc0de.net/pkg/go-tiled/ttesting"
)

func TestMain(m *testing.M) {
	flagutil.Parse()
	os.Exit(m.Run())
}

func loadMeadow(t *testing.T) *Map {
	t.Helper()
	m, err := Load("testdata/meadow.tmx")
	if err != nil {
		t.Fatalf("failed to load map: %v", err)
	}
	return m
}

func TestLoadMeadow(t *testing.T) {
	m := loadMeadow(t)

	ttesting.AssertEqualInt(t, "width", m.Width, 4)
	ttesting.AssertEqualInt(t, "height", m.Height, 3)
	ttesting.AssertEqualInt(t, "pixel width", m.PixelWidth(), 64)
	ttesting.AssertEqualInt(t, "pixel height", m.PixelHeight(), 48)
	ttesting.AssertEqualString(t, "orientation", m.Orientation, "orthogonal")
	ttesting.AssertEqualString(t, "dir", m.Dir, "testdata")
	title, _ := m.Properties.Lookup("title")
	ttesting.AssertEqualString(t, "map property", title, "Meadow")

	if len(m.Tilesets) != 2 {
		t.Fatalf("got %d tilesets; want 2", len(m.Tilesets))
	}
	ttesting.AssertEqualString(t, "external tileset", m.Tilesets[0].Name, "Overworld")
	ttesting.AssertEqualInt(t, "external firstgid", m.Tilesets[0].FirstGID, 1)
	ttesting.AssertEqualString(t, "embedded tileset", m.Tilesets[1].Name, "markers")
	ttesting.AssertEqualInt(t, "embedded firstgid", m.Tilesets[1].FirstGID, 1441)

	if len(m.Layers) != 2 {
		t.Fatalf("got %d layers; want 2", len(m.Layers))
	}
	ttesting.AssertEqualString(t, "bottom layer", m.Layers[0].Name, "ground")
	ttesting.AssertEqualString(t, "top layer", m.Layers[1].Name, "walls")
	ttesting.AssertEqualBool(t, "layer visible by default", m.Layers[0].Visible, true)
}

func TestTilesetForGID(t *testing.T) {
	m := loadMeadow(t)

	for _, tc := range []struct {
		gid     uint32
		wantSet string
		wantID  int
		wantOK  bool
	}{
		{1, "Overworld", 0, true},
		{1440, "Overworld", 1439, true},
		{1441, "markers", 0, true},
		{1442, "markers", 1, true},
		{1443, "", 0, false},
		{0, "", 0, false},
	} {
		ts, id, ok := m.TilesetForGID(tc.gid)
		if ok != tc.wantOK {
			t.Errorf("TilesetForGID(%d): ok = %v; want %v", tc.gid, ok, tc.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if ts.Name != tc.wantSet || id != tc.wantID {
			t.Errorf("TilesetForGID(%d) = %q, %d; want %q, %d", tc.gid, ts.Name, id, tc.wantSet, tc.wantID)
		}
	}
}

func TestFlipFlags(t *testing.T) {
	m := loadMeadow(t)

	c, err := m.CellAt(0, 2*16, 2*16)
	if err != nil {
		t.Fatalf("CellAt: %v", err)
	}
	ttesting.AssertEqualInt(t, "gid without flags", int(c.GID), 1)
	ttesting.AssertEqualBool(t, "flipped horizontally", c.FlipH, true)
	ttesting.AssertEqualBool(t, "not flipped vertically", c.FlipV, false)
	ttesting.AssertEqualBool(t, "not flipped diagonally", c.FlipD, false)
	ttesting.AssertEqualInt(t, "raw gid", int(c.Raw()), 0x80000001)

	c = CellFromGID(FlipVertical | FlipDiagonal | 42)
	if c.GID != 42 || c.FlipH || !c.FlipV || !c.FlipD {
		t.Errorf("CellFromGID = %+v", c)
	}
}

func TestEncodingsAgree(t *testing.T) {
	m, err := Load("testdata/encodings.tmx")
	if err != nil {
		t.Fatalf("failed to load map: %v", err)
	}
	want := []Cell{
		{GID: 1},
		{GID: 2},
		{},
		{GID: 3, FlipH: true},
		{GID: 4, FlipV: true},
		{GID: 8, FlipD: true},
	}
	for _, name := range []string{"xml", "csv", "base64", "gzip", "zlib"} {
		t.Run(name, func(t *testing.T) {
			var l *Layer
			for _, cand := range m.Layers {
				if cand.Name == name {
					l = cand
				}
			}
			if l == nil {
				t.Fatalf("no layer %q", name)
			}
			if len(l.Cells) != len(want) {
				t.Fatalf("got %d cells; want %d", len(l.Cells), len(want))
			}
			for i := range want {
				if l.Cells[i] != want[i] {
					t.Errorf("cell %d = %+v; want %+v", i, l.Cells[i], want[i])
				}
			}
		})
	}
}

func TestBlocked(t *testing.T) {
	m := loadMeadow(t)

	for _, tc := range []struct {
		x, y int
		want bool
	}{
		{0, 0, false},
		{2*16 + 3, 5, true},   // Overworld tile 6
		{16, 0, true},         // passable ground, blocked marker above
		{0, 16, false},        // animated tile 40
		{3*16 + 15, 16, true}, // tile 382, blocked and animated
		{3 * 16, 2 * 16, true},
		{16, 2 * 16, false},
	} {
		got, err := m.Blocked(tc.x, tc.y)
		if err != nil {
			t.Errorf("Blocked(%d, %d): %v", tc.x, tc.y, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Blocked(%d, %d) = %v; want %v", tc.x, tc.y, got, tc.want)
		}
	}

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {64, 0}, {0, 48}} {
		_, err := m.Blocked(p[0], p[1])
		ttesting.AssertCause(t, "off map", err, ErrOffMap)
	}
}

func TestProperties(t *testing.T) {
	m := loadMeadow(t)

	v, ok, err := m.Property(16, 0, "cost")
	if err != nil || !ok {
		t.Fatalf("Property(16, 0, cost) = %q, %v, %v", v, ok, err)
	}
	ttesting.AssertEqualString(t, "cost from upper layer", v, "9")

	n, err := m.PropertyInt(16, 32, "cost", 0)
	if err != nil {
		t.Errorf("PropertyInt: %v", err)
	}
	ttesting.AssertEqualInt(t, "cost of spawn marker", n, 5)

	n, err = m.PropertyInt(0, 0, "cost", 3)
	if err != nil {
		t.Errorf("PropertyInt default: %v", err)
	}
	ttesting.AssertEqualInt(t, "default cost", n, 3)

	spawn, err := m.PropertyBool(16, 32, "spawn", false)
	if err != nil {
		t.Errorf("PropertyBool: %v", err)
	}
	ttesting.AssertEqualBool(t, "spawn", spawn, true)

	f, err := m.PropertyFloat(16, 32, "cost", 0)
	if err != nil || f != 5 {
		t.Errorf("PropertyFloat = %v, %v; want 5, nil", f, err)
	}

	s, err := m.PropertyOr(0, 0, "cost", "free")
	if err != nil {
		t.Errorf("PropertyOr: %v", err)
	}
	ttesting.AssertEqualString(t, "property default", s, "free")

	has, err := m.HasProperty(16, 32, "spawn")
	if err != nil {
		t.Errorf("HasProperty: %v", err)
	}
	ttesting.AssertEqualBool(t, "has spawn", has, true)

	_, _, err = m.Property(100, 100, "cost")
	ttesting.AssertCause(t, "property off map", err, ErrOffMap)
}

func TestObjectGroups(t *testing.T) {
	m := loadMeadow(t)

	if len(m.ObjectGroups) != 1 {
		t.Fatalf("got %d object groups; want 1", len(m.ObjectGroups))
	}
	g := m.ObjectGroups[0]
	ttesting.AssertEqualInt(t, "group id", g.ID, 3)
	ttesting.AssertEqualString(t, "group name", g.Name, "paths")
	ttesting.AssertEqualInt(t, "objects", len(g.Objects), 4)

	door := g.Objects[1]
	ttesting.AssertEqualString(t, "object name", door.Name, "door")
	ttesting.AssertEqualString(t, "object type", door.Type, "exit")
	if door.Width != 16 || door.Height != 16 {
		t.Errorf("door size = %vx%v; want 16x16", door.Width, door.Height)
	}

	wantPolygon := []Point{{40.5, 4}, {48.5, 4}, {40.5, 12}}
	assertPoints(t, "polygon", g.Objects[2].Polygon, wantPolygon)

	lines := m.Polylines()
	if len(lines) != 2 {
		t.Fatalf("got %d polylines; want 2", len(lines))
	}
	assertPoints(t, "first polyline", lines[0], []Point{{8, 8}, {24, 8}, {24, 24}})
	assertPoints(t, "second polyline", lines[1], []Point{{0, 0}, {-4, 2.5}})
}

func assertPoints(t *testing.T, name string, got, want []Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: got %d points; want %d", name, len(got), len(want))
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: point %d = %+v; want %+v", name, i, got[i], want[i])
		}
	}
}

const gridTileset = `<tileset firstgid="1" name="grid" tilewidth="16" tileheight="16" tilecount="8" columns="4"><image source="grid.png" width="64" height="32"/></tileset>`

func mapDoc(attrs, data string) string {
	return `<map orientation="orthogonal" ` + attrs + ` tilewidth="16" tileheight="16">` + gridTileset +
		`<layer id="1" name="l" width="2" height="1">` + data + `</layer></map>`
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		want error
	}{
		{"not xml", "<map", ErrMalformed},
		{"no width", mapDoc(`height="1"`, `<data encoding="csv">1,2</data>`), ErrMalformed},
		{"negative width", mapDoc(`width="-2" height="1"`, `<data encoding="csv">1,2</data>`), ErrMalformed},
		{"short layer", mapDoc(`width="2" height="1"`, `<data encoding="csv">1</data>`), ErrBadLayerData},
		{"bad csv gid", mapDoc(`width="2" height="1"`, `<data encoding="csv">1,x</data>`), ErrBadLayerData},
		{"bad base64", mapDoc(`width="2" height="1"`, `<data encoding="base64">!!!</data>`), ErrBadLayerData},
		{"zstd", mapDoc(`width="2" height="1"`, `<data encoding="base64" compression="zstd">AQAAAAIAAAA=</data>`), ErrUnsupportedEncoding},
		{"unknown encoding", mapDoc(`width="2" height="1"`, `<data encoding="hex">0102</data>`), ErrUnsupportedEncoding},
		{"gid past tilesets", mapDoc(`width="2" height="1"`, `<data encoding="csv">1,9</data>`), ErrUnknownGID},
		{"infinite", `<map width="2" height="1" tilewidth="16" tileheight="16" infinite="1"></map>`, ErrUnsupportedEncoding},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.doc))
			ttesting.AssertCause(t, "decode error", err, tc.want)
		})
	}
}

func TestDecodeWithLoader(t *testing.T) {
	doc := `<map width="2" height="1" tilewidth="8" tileheight="8">
 <tileset firstgid="5" source="a.tsx"/>
 <tileset firstgid="1" source="b.tsx"/>
 <layer id="1" name="l" width="2" height="1"><data encoding="csv">1,5</data></layer>
</map>`
	loaded := map[string]bool{}
	ch := make(chan string, 2)
	m, err := DecodeWith(strings.NewReader(doc), func(source string) (*tsx.Tileset, error) {
		ch <- source
		return &tsx.Tileset{Name: source, TileWidth: 8, TileHeight: 8, TileCount: 4, Columns: 2}, nil
	})
	if err != nil {
		t.Fatalf("DecodeWith: %v", err)
	}
	close(ch)
	for s := range ch {
		loaded[s] = true
	}
	ttesting.AssertEqualBool(t, "a.tsx loaded", loaded["a.tsx"], true)
	ttesting.AssertEqualBool(t, "b.tsx loaded", loaded["b.tsx"], true)
	ttesting.AssertEqualString(t, "sorted by firstgid", m.Tilesets[0].Name, "b.tsx")
	ttesting.AssertEqualInt(t, "firstgid from map", m.Tilesets[1].FirstGID, 5)
}

func TestDecodeWithBadFirstGIDLoadsNothing(t *testing.T) {
	doc := `<map width="2" height="1" tilewidth="8" tileheight="8">
 <tileset firstgid="1" source="a.tsx"/>
 <tileset source="b.tsx"/>
 <layer id="1" name="l" width="2" height="1"><data encoding="csv">1,1</data></layer>
</map>`
	var loads int32
	_, err := DecodeWith(strings.NewReader(doc), func(source string) (*tsx.Tileset, error) {
		atomic.AddInt32(&loads, 1)
		return &tsx.Tileset{Name: source, TileWidth: 8, TileHeight: 8, TileCount: 4, Columns: 2}, nil
	})
	ttesting.AssertCause(t, "decode error", err, ErrMalformed)
	ttesting.AssertEqualInt(t, "loads started", int(atomic.LoadInt32(&loads)), 0)
}
