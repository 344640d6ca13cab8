package tmx

import (
	"encoding/xml"

	"badc0de.net/pkg/go-tiled/tsx"
)

type xmlMap struct {
	XMLName      xml.Name         `xml:"map"`
	Version      string           `xml:"version,attr"`
	TiledVersion string           `xml:"tiledversion,attr"`
	Orientation  string           `xml:"orientation,attr"`
	RenderOrder  string           `xml:"renderorder,attr"`
	Width        *string          `xml:"width,attr"`
	Height       *string          `xml:"height,attr"`
	TileWidth    *string          `xml:"tilewidth,attr"`
	TileHeight   *string          `xml:"tileheight,attr"`
	Infinite     string           `xml:"infinite,attr"`
	Properties   tsx.Properties   `xml:"properties"`
	Tileset      []xmlTilesetRef  `xml:"tileset"`
	Layer        []xmlLayer       `xml:"layer"`
	ObjectGroup  []xmlObjectGroup `xml:"objectgroup"`
}

// xmlTilesetRef is either a reference to an external TSX file or a complete
// embedded tileset.
type xmlTilesetRef struct {
	FirstGID string
	Source   string
	Embedded *tsx.Tileset
}

func (r *xmlTilesetRef) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "firstgid":
			r.FirstGID = a.Value
		case "source":
			r.Source = a.Value
		}
	}
	if r.Source != "" {
		return d.Skip()
	}
	ts, err := tsx.DecodeElement(d, &start)
	if err != nil {
		return err
	}
	r.Embedded = ts
	return nil
}

type xmlLayer struct {
	ID         string         `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Width      *string        `xml:"width,attr"`
	Height     *string        `xml:"height,attr"`
	Visible    string         `xml:"visible,attr"`
	Opacity    string         `xml:"opacity,attr"`
	Properties tsx.Properties `xml:"properties"`
	Data       *xmlData       `xml:"data"`
}

type xmlData struct {
	Encoding    string        `xml:"encoding,attr"`
	Compression string        `xml:"compression,attr"`
	Text        string        `xml:",chardata"`
	Tile        []xmlDataTile `xml:"tile"`
	Chunk       []struct{}    `xml:"chunk"`
}

type xmlDataTile struct {
	GID string `xml:"gid,attr"`
}

type xmlObjectGroup struct {
	ID         *string        `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Properties tsx.Properties `xml:"properties"`
	Object     []xmlObject    `xml:"object"`
}

type xmlObject struct {
	ID         string         `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	X          *string        `xml:"x,attr"`
	Y          *string        `xml:"y,attr"`
	Width      string         `xml:"width,attr"`
	Height     string         `xml:"height,attr"`
	GID        string         `xml:"gid,attr"`
	Properties tsx.Properties `xml:"properties"`
	Polyline   *xmlPoints     `xml:"polyline"`
	Polygon    *xmlPoints     `xml:"polygon"`
}

type xmlPoints struct {
	Points *string `xml:"points,attr"`
}
