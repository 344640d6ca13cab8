package tsx

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/ttesting"
)

const validHeader = `<tileset name="t" tilewidth="16" tileheight="16" tilecount="4" columns="2">
 <image source="t.png" width="32" height="32"/>
`

func TestDecodeMalformed(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
	}{
		{"not xml", `<tileset`},
		{"wrong root", `<map/>`},
		{"no tilewidth", `<tileset tileheight="16"><image source="a.png"/></tileset>`},
		{"no tileheight", `<tileset tilewidth="16"><image source="a.png"/></tileset>`},
		{"bad tilewidth", `<tileset tilewidth="sixteen" tileheight="16"><image source="a.png"/></tileset>`},
		{"leading zero", `<tileset tilewidth="016" tileheight="16"><image source="a.png"/></tileset>`},
		{"negative firstgid", `<tileset firstgid="-1" tilewidth="16" tileheight="16"><image source="a.png"/></tileset>`},
		{"no image", `<tileset tilewidth="16" tileheight="16"></tileset>`},
		{"two images", `<tileset tilewidth="16" tileheight="16"><image source="a.png"/><image source="b.png"/></tileset>`},
		{"image without source", `<tileset tilewidth="16" tileheight="16"><image width="16"/></tileset>`},
		{"tile without id", validHeader + `<tile/></tileset>`},
		{"tile with negative id", validHeader + `<tile id="-3"/></tileset>`},
		{"property without name", validHeader + `<tile id="0"><properties><property value="x"/></properties></tile></tileset>`},
		{"property without value", validHeader + `<tile id="0"><properties><property name="x"/></properties></tile></tileset>`},
		{"frame without duration", validHeader + `<tile id="0"><animation><frame tileid="1"/></animation></tile></tileset>`},
		{"frame without tileid", validHeader + `<tile id="0"><animation><frame duration="10"/></animation></tile></tileset>`},
		{"frame with bad duration", validHeader + `<tile id="0"><animation><frame tileid="1" duration="1.5"/></animation></tile></tileset>`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatalf("got nil error")
			}
			if errors.Cause(err) != ErrMalformed {
				t.Errorf("got %v; want cause %v", err, ErrMalformed)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		want error
	}{
		{"tile id out of range", validHeader + `<tile id="4"/></tileset>`, ErrUnknownTile},
		{"duplicate tile id", validHeader + `<tile id="1"/><tile id="1"/></tileset>`, ErrDuplicateTile},
		{"frame out of range", validHeader + `<tile id="0"><animation><frame tileid="9" duration="10"/></animation></tile></tileset>`, ErrFrameOutOfRange},
		{"empty animation", validHeader + `<tile id="0"><animation></animation></tile></tileset>`, ErrEmptyAnimation},
		{"zero duration", validHeader + `<tile id="0"><animation><frame tileid="1" duration="0"/></animation></tile></tileset>`, ErrBadDuration},
		{"bad bool", validHeader + `<tile id="0"><properties><property name="blocked" type="bool" value="yes"/></properties></tile></tileset>`, ErrBadPropertyValue},
		{"tile count not rows x columns", `<tileset name="t" tilewidth="16" tileheight="16" tilecount="5" columns="2"><image source="t.png"/></tileset>`, ErrBadGeometry},
		{"columns do not fit image", `<tileset name="t" tilewidth="16" tileheight="16" tilecount="4" columns="2"><image source="t.png" width="48" height="32"/></tileset>`, ErrBadGeometry},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ts, err := Decode(strings.NewReader(tc.doc))
			if err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			err = ts.Validate()
			if err == nil {
				t.Fatalf("got nil error; want %v", tc.want)
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("got %T; want *ValidationError", err)
			}
			if !verr.Is(tc.want) {
				t.Errorf("got %v; want a problem caused by %v", err, tc.want)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	doc := validHeader + `<tile id="7"/><tile id="0"><animation><frame tileid="8" duration="0"/></animation></tile></tileset>`
	_, err := Read(strings.NewReader(doc))
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("got %v; want *ValidationError", err)
	}
	ttesting.AssertEqualInt(t, "problem count", len(verr.Problems), 3)
	ttesting.AssertCause(t, "unknown tile", err, ErrUnknownTile)
	ttesting.AssertCause(t, "frame out of range", err, ErrFrameOutOfRange)
	ttesting.AssertCause(t, "bad duration", err, ErrBadDuration)
}

func TestNoColumns(t *testing.T) {
	doc := `<tileset name="t" tilewidth="16" tileheight="16" tilecount="3"><image source="t.png" width="48" height="16"/></tileset>`
	ts, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to read tileset without columns: %v", err)
	}
	ttesting.AssertEqualInt(t, "columns", ts.Columns, 0)
	ttesting.AssertEqualInt(t, "tile count", ts.TileCount, 3)
}

func TestClassPropertySkipped(t *testing.T) {
	doc := validHeader + `<tile id="0"><properties>
  <property name="loot" type="class" propertytype="Chest">
   <properties><property name="gold" type="int" value="3"/></properties>
  </property>
  <property name="blocked" type="bool" value="true"/>
 </properties></tile></tileset>`
	ts, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to read tileset with a class property: %v", err)
	}
	ttesting.AssertEqualBool(t, "class property", ts.HasProperty(0, "loot"), false)
	ttesting.AssertEqualBool(t, "blocked", ts.Blocked(0), true)
}

func TestMalformedMessage(t *testing.T) {
	_, err := Decode(strings.NewReader(`<tileset`))
	if err == nil {
		t.Fatalf("got nil error")
	}
	ttesting.AssertEqualBool(t, "message names the document kind", strings.Contains(err.Error(), "malformed tiled document"), true)
}

func TestCheckImage(t *testing.T) {
	ts := loadOverworld(t)
	ts.Dir = ""

	fsys := fstest.MapFS{"Overworld.png": &fstest.MapFile{Data: []byte("png")}}
	if err := ts.CheckImage(fsys); err != nil {
		t.Errorf("image present: got %v", err)
	}

	err := ts.CheckImage(fstest.MapFS{})
	ttesting.AssertCause(t, "image missing", err, ErrMissingImage)
}
