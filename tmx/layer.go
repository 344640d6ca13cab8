package tmx

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/tsx"
)

// Flip flags stored in the top bits of a raw gid.
const (
	FlipHorizontal uint32 = 0x80000000
	FlipVertical   uint32 = 0x40000000
	FlipDiagonal   uint32 = 0x20000000

	flipMask = FlipHorizontal | FlipVertical | FlipDiagonal
)

// Cell is one position of a tile layer.
type Cell struct {
	// GID is the global tile id with flip flags removed. Zero means the
	// cell is empty.
	GID uint32

	FlipH, FlipV, FlipD bool
}

// CellFromGID splits a raw gid as stored in layer data.
func CellFromGID(raw uint32) Cell {
	return Cell{
		GID:   raw &^ flipMask,
		FlipH: raw&FlipHorizontal != 0,
		FlipV: raw&FlipVertical != 0,
		FlipD: raw&FlipDiagonal != 0,
	}
}

// Raw returns the gid with flip flags put back.
func (c Cell) Raw() uint32 {
	raw := c.GID
	if c.FlipH {
		raw |= FlipHorizontal
	}
	if c.FlipV {
		raw |= FlipVertical
	}
	if c.FlipD {
		raw |= FlipDiagonal
	}
	return raw
}

func (c Cell) Empty() bool {
	return c.GID == 0
}

// Layer is a grid of cells, stored row by row.
type Layer struct {
	ID            int
	Name          string
	Width, Height int
	Visible       bool
	Opacity       float64
	Properties    tsx.Properties
	Cells         []Cell
}

// At returns the cell at tile coordinates tx, ty.
func (l *Layer) At(tx, ty int) (Cell, bool) {
	if tx < 0 || ty < 0 || tx >= l.Width || ty >= l.Height {
		return Cell{}, false
	}
	return l.Cells[ty*l.Width+tx], true
}

func layerFromXML(raw *xmlLayer, idx int) (*Layer, error) {
	where := "layer " + strconv.Itoa(idx)
	if raw.Name != "" {
		where = "layer " + strconv.Quote(raw.Name)
	}

	l := &Layer{
		Name:       raw.Name,
		Visible:    raw.Visible != "0",
		Opacity:    1,
		Properties: raw.Properties,
	}
	var err error
	if raw.ID != "" {
		if l.ID, err = tsx.ParseCount(raw.ID, where+": id"); err != nil {
			return nil, err
		}
	}
	if raw.Width == nil {
		return nil, malformed("%s: no width attribute", where)
	}
	if l.Width, err = tsx.ParseCount(*raw.Width, where+": width"); err != nil {
		return nil, err
	}
	if raw.Height == nil {
		return nil, malformed("%s: no height attribute", where)
	}
	if l.Height, err = tsx.ParseCount(*raw.Height, where+": height"); err != nil {
		return nil, err
	}
	if raw.Opacity != "" {
		if l.Opacity, err = strconv.ParseFloat(raw.Opacity, 64); err != nil {
			return nil, malformed("%s: opacity not a valid number: %q", where, raw.Opacity)
		}
	}
	if raw.Data == nil {
		return nil, malformed("%s: no data element", where)
	}
	if len(raw.Data.Chunk) > 0 {
		return nil, errors.Wrapf(ErrUnsupportedEncoding, "%s: chunked data of infinite maps", where)
	}

	gids, err := decodeData(raw.Data, where)
	if err != nil {
		return nil, err
	}
	if len(gids) != l.Width*l.Height {
		return nil, errors.Wrapf(ErrBadLayerData, "%s: %d cells, want %d x %d", where, len(gids), l.Width, l.Height)
	}
	l.Cells = make([]Cell, len(gids))
	for i, g := range gids {
		l.Cells[i] = CellFromGID(g)
	}
	glog.V(3).Infof("tmx: %s: %dx%d, encoding %q, compression %q", where, l.Width, l.Height, raw.Data.Encoding, raw.Data.Compression)
	return l, nil
}

func decodeData(d *xmlData, where string) ([]uint32, error) {
	if d.Compression != "" && d.Encoding != "base64" {
		return nil, errors.Wrapf(ErrUnsupportedEncoding, "%s: compression %q with encoding %q", where, d.Compression, d.Encoding)
	}
	switch d.Encoding {
	case "":
		gids := make([]uint32, 0, len(d.Tile))
		for _, t := range d.Tile {
			if t.GID == "" {
				gids = append(gids, 0)
				continue
			}
			g, err := parseGID(t.GID)
			if err != nil {
				return nil, errors.Wrap(err, where)
			}
			gids = append(gids, g)
		}
		return gids, nil
	case "csv":
		gids, err := decodeCSV(d.Text)
		return gids, errors.Wrap(err, where)
	case "base64":
		gids, err := decodeBase64(d.Text, d.Compression)
		return gids, errors.Wrap(err, where)
	}
	return nil, errors.Wrapf(ErrUnsupportedEncoding, "%s: encoding %q", where, d.Encoding)
}

func parseGID(s string) (uint32, error) {
	g, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrBadLayerData, "gid %q", s)
	}
	return uint32(g), nil
}

func decodeCSV(text string) ([]uint32, error) {
	// The csv reader does not expect a ',' at the end of a line.
	trimmed := strings.TrimSpace(strings.Replace(text, "\r\n", "\n", -1))
	trimmed = strings.Replace(trimmed, ",\n", "\n", -1)
	trimmed = strings.TrimSuffix(trimmed, ",")

	reader := csv.NewReader(strings.NewReader(trimmed))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(ErrBadLayerData, err.Error())
	}

	gids := []uint32{}
	for _, record := range records {
		for _, field := range record {
			g, err := parseGID(field)
			if err != nil {
				return nil, err
			}
			gids = append(gids, g)
		}
	}
	return gids, nil
}

func decodeBase64(text, compression string) ([]uint32, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
	if err != nil {
		return nil, errors.Wrap(ErrBadLayerData, err.Error())
	}

	var r io.ReadCloser
	switch compression {
	case "":
	case "gzip":
		if r, err = gzip.NewReader(bytes.NewReader(raw)); err != nil {
			return nil, errors.Wrap(ErrBadLayerData, err.Error())
		}
	case "zlib":
		if r, err = zlib.NewReader(bytes.NewReader(raw)); err != nil {
			return nil, errors.Wrap(ErrBadLayerData, err.Error())
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedEncoding, "compression %q", compression)
	}
	if r != nil {
		defer r.Close()
		if raw, err = io.ReadAll(r); err != nil {
			return nil, errors.Wrap(ErrBadLayerData, err.Error())
		}
	}

	if len(raw)%4 != 0 {
		return nil, errors.Wrapf(ErrBadLayerData, "%d bytes is not a whole number of gids", len(raw))
	}
	gids := make([]uint32, len(raw)/4)
	for i := range gids {
		gids[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return gids, nil
}
