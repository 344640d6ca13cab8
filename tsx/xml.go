package tsx

import (
	"encoding/xml"
)

// Raw document structures. Numeric attributes are kept as strings so that
// malformed values can be reported with the element they came from instead
// of a bare strconv error.

type xmlTileset struct {
	XMLName      xml.Name       `xml:"tileset"`
	FirstGID     string         `xml:"firstgid,attr,omitempty"`
	Version      string         `xml:"version,attr,omitempty"`
	TiledVersion string         `xml:"tiledversion,attr,omitempty"`
	Name         string         `xml:"name,attr"`
	TileWidth    *string        `xml:"tilewidth,attr"`
	TileHeight   *string        `xml:"tileheight,attr"`
	Spacing      string         `xml:"spacing,attr,omitempty"`
	Margin       string         `xml:"margin,attr,omitempty"`
	TileCount    string         `xml:"tilecount,attr,omitempty"`
	Columns      string         `xml:"columns,attr,omitempty"`
	Properties   *xmlProperties `xml:"properties,omitempty"`
	Image        []xmlImage     `xml:"image"`
	Tile         []xmlTile      `xml:"tile"`
}

type xmlImage struct {
	Source *string `xml:"source,attr"`
	Width  string  `xml:"width,attr,omitempty"`
	Height string  `xml:"height,attr,omitempty"`
}

type xmlTile struct {
	ID         *string        `xml:"id,attr"`
	Type       string         `xml:"type,attr,omitempty"`
	Properties *xmlProperties `xml:"properties,omitempty"`
	Animation  *xmlAnimation  `xml:"animation,omitempty"`
}

type xmlProperties struct {
	Property []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name  *string `xml:"name,attr"`
	Type  string  `xml:"type,attr,omitempty"`
	Value *string `xml:"value,attr"`
	Text  string  `xml:",chardata"`
}

type xmlAnimation struct {
	Frame []xmlFrame `xml:"frame"`
}

type xmlFrame struct {
	TileID   *string `xml:"tileid,attr"`
	Duration *string `xml:"duration,attr"`
}
