package tmx

import (
	"regexp"
	"strconv"
	"strings"

	"badc0de.net/pkg/go-tiled/tsx"
)

// Point is a position in map pixels.
type Point struct {
	X, Y float64
}

// ObjectGroup is a layer of free-standing objects.
type ObjectGroup struct {
	ID         int
	Name       string
	Properties tsx.Properties
	Objects    []Object
}

// Object is a shape or tile placed on an object group. Polyline and Polygon
// are in absolute map coordinates, with the object's position already
// added.
type Object struct {
	ID            int
	Name, Type    string
	X, Y          float64
	Width, Height float64
	GID           uint32
	Properties    tsx.Properties

	Polyline []Point
	Polygon  []Point
}

var coordinateRE = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?$`)

func parseCoordinate(s, what string) (float64, error) {
	if !coordinateRE.MatchString(s) {
		return 0, malformed("%s not a valid coordinate: %q", what, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, malformed("%s not a valid coordinate: %q", what, s)
	}
	return f, nil
}

func objectGroupFromXML(raw *xmlObjectGroup) (*ObjectGroup, error) {
	if raw.ID == nil {
		return nil, malformed("object group has no id")
	}
	id, err := tsx.ParseCount(*raw.ID, "object group id")
	if err != nil {
		return nil, err
	}
	g := &ObjectGroup{ID: id, Name: raw.Name, Properties: raw.Properties}
	where := "object group " + strconv.Itoa(id)

	for i, ro := range raw.Object {
		o := Object{Name: ro.Name, Type: ro.Type, Properties: ro.Properties}
		if ro.ID != "" {
			if o.ID, err = tsx.ParseCount(ro.ID, where+": object id"); err != nil {
				return nil, err
			}
		}
		what := where + ", object " + strconv.Itoa(i)
		if ro.X == nil || ro.Y == nil {
			return nil, malformed("%s has no x or y coordinate", what)
		}
		if o.X, err = parseCoordinate(*ro.X, what+": x"); err != nil {
			return nil, err
		}
		if o.Y, err = parseCoordinate(*ro.Y, what+": y"); err != nil {
			return nil, err
		}
		if ro.Width != "" {
			if o.Width, err = parseCoordinate(ro.Width, what+": width"); err != nil {
				return nil, err
			}
		}
		if ro.Height != "" {
			if o.Height, err = parseCoordinate(ro.Height, what+": height"); err != nil {
				return nil, err
			}
		}
		if ro.GID != "" {
			if o.GID, err = parseGID(ro.GID); err != nil {
				return nil, err
			}
		}
		if ro.Polyline != nil {
			if o.Polyline, err = parsePoints(ro.Polyline, o.X, o.Y, what+": polyline"); err != nil {
				return nil, err
			}
		}
		if ro.Polygon != nil {
			if o.Polygon, err = parsePoints(ro.Polygon, o.X, o.Y, what+": polygon"); err != nil {
				return nil, err
			}
		}
		g.Objects = append(g.Objects, o)
	}
	return g, nil
}

// parsePoints reads a "x1,y1 x2,y2 ..." list relative to (ox, oy).
func parsePoints(raw *xmlPoints, ox, oy float64, what string) ([]Point, error) {
	if raw.Points == nil {
		return nil, malformed("%s has no points attribute", what)
	}
	fields := strings.Fields(*raw.Points)
	points := make([]Point, 0, len(fields))
	for _, f := range fields {
		parts := strings.Split(f, ",")
		if len(parts) != 2 {
			return nil, malformed("%s: point %q not valid", what, f)
		}
		x, err := parseCoordinate(parts[0], what)
		if err != nil {
			return nil, err
		}
		y, err := parseCoordinate(parts[1], what)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{X: ox + x, Y: oy + y})
	}
	return points, nil
}

// Polylines returns the polylines of every object in every group, in
// document order.
func (m *Map) Polylines() [][]Point {
	lines := [][]Point{}
	for _, g := range m.ObjectGroups {
		for _, o := range g.Objects {
			if o.Polyline != nil {
				lines = append(lines, o.Polyline)
			}
		}
	}
	return lines
}
