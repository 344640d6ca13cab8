package tsx

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Encode writes the tileset as a TSX document. Tile ids, properties, frame
// order and durations are written exactly as held, so Decode(Encode(ts))
// describes the same tileset.
func (ts *Tileset) Encode(w io.Writer) error {
	raw := ts.toXML()

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(err, "writing tsx header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(raw); err != nil {
		return errors.Wrap(err, "encoding tsx")
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return errors.Wrap(err, "writing tsx trailer")
	}
	return nil
}

func itoa(n int) *string {
	s := strconv.Itoa(n)
	return &s
}

// firstGID formats the firstgid attribute. Standalone tilesets start at 1,
// which Decode assumes when the attribute is absent.
func firstGID(n int) string {
	if n == 1 {
		return ""
	}
	return strconv.Itoa(n)
}

// optional formats n, returning the empty string (and thus omitting the
// attribute) for zero.
func optional(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (ts *Tileset) toXML() *xmlTileset {
	src := ts.Image.Source
	raw := &xmlTileset{
		FirstGID:     firstGID(ts.FirstGID),
		Version:      ts.Version,
		TiledVersion: ts.TiledVersion,
		Name:         ts.Name,
		TileWidth:    itoa(ts.TileWidth),
		TileHeight:   itoa(ts.TileHeight),
		Spacing:      optional(ts.Spacing),
		Margin:       optional(ts.Margin),
		TileCount:    strconv.Itoa(ts.TileCount),
		Columns:      strconv.Itoa(ts.Columns),
		Properties:   propertiesToXML(ts.Properties),
		Image: []xmlImage{{
			Source: &src,
			Width:  optional(ts.Image.Width),
			Height: optional(ts.Image.Height),
		}},
	}

	for _, t := range ts.Tiles {
		rt := xmlTile{
			ID:         itoa(t.ID),
			Type:       t.Type,
			Properties: propertiesToXML(t.Properties),
		}
		if t.Animation != nil {
			rt.Animation = &xmlAnimation{Frame: make([]xmlFrame, 0, len(t.Animation.Frames))}
			for _, f := range t.Animation.Frames {
				rt.Animation.Frame = append(rt.Animation.Frame, xmlFrame{
					TileID:   itoa(f.TileID),
					Duration: itoa(f.Duration),
				})
			}
		}
		raw.Tile = append(raw.Tile, rt)
	}
	return raw
}

func propertiesToXML(props []Property) *xmlProperties {
	if len(props) == 0 {
		return nil
	}
	raw := &xmlProperties{}
	for _, p := range props {
		name, value := p.Name, p.Value
		typ := string(p.Type)
		if p.Type == TypeString {
			typ = ""
		}
		raw.Property = append(raw.Property, xmlProperty{
			Name:  &name,
			Type:  typ,
			Value: &value,
		})
	}
	return raw
}
