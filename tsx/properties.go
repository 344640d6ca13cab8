package tsx

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// PropertyType is the declared type of a custom property.
type PropertyType string

const (
	TypeString = PropertyType("string")
	TypeInt    = PropertyType("int")
	TypeFloat  = PropertyType("float")
	TypeBool   = PropertyType("bool")
	TypeColor  = PropertyType("color")
	TypeFile   = PropertyType("file")
	TypeObject = PropertyType("object")
)

// Property is a named, typed value attached to a tile or a tileset. Value
// holds the text exactly as authored.
type Property struct {
	Name  string
	Type  PropertyType
	Value string
}

func propertiesFromXML(raw *xmlProperties, where string) ([]Property, error) {
	props := make([]Property, 0, len(raw.Property))
	seen := map[string]bool{}
	for k, rp := range raw.Property {
		if rp.Name == nil {
			return nil, malformed("%s, property %d missing name", where, k)
		}
		if rp.Type == "class" {
			glog.Warningf("tsx: %s, property %q is a class property; skipping", where, *rp.Name)
			continue
		}
		var value string
		switch {
		case rp.Value != nil:
			value = *rp.Value
		case strings.TrimSpace(rp.Text) != "":
			// Multi-line strings are stored as element text.
			value = rp.Text
		default:
			return nil, malformed("%s, property %d missing value", where, k)
		}
		typ := PropertyType(rp.Type)
		switch typ {
		case "":
			typ = TypeString
		case TypeString, TypeInt, TypeFloat, TypeBool, TypeColor, TypeFile, TypeObject:
		default:
			glog.Warningf("tsx: %s, property %q has unknown type %q; treating as string", where, *rp.Name, rp.Type)
		}
		if seen[*rp.Name] {
			glog.Warningf("tsx: %s has property %q more than once; first one wins", where, *rp.Name)
		}
		seen[*rp.Name] = true
		props = append(props, Property{Name: *rp.Name, Type: typ, Value: value})
	}
	return props, nil
}

func findProperty(props []Property, name string) (*Property, bool) {
	for i := range props {
		if props[i].Name == name {
			return &props[i], true
		}
	}
	return nil, false
}

// Property returns the raw value of the named property of a tile.
func (ts *Tileset) Property(id int, name string) (string, bool) {
	t, ok := ts.Tile(id)
	if !ok {
		return "", false
	}
	p, ok := findProperty(t.Properties, name)
	if !ok {
		return "", false
	}
	return p.Value, true
}

// HasProperty reports whether the tile declares the named property.
func (ts *Tileset) HasProperty(id int, name string) bool {
	_, ok := ts.Property(id, name)
	return ok
}

// TilesetProperty returns the raw value of a property declared on the
// tileset itself.
func (ts *Tileset) TilesetProperty(name string) (string, bool) {
	p, ok := findProperty(ts.Properties, name)
	if !ok {
		return "", false
	}
	return p.Value, true
}

// PropertyInt returns the named property as an int, or def if the tile does
// not have it.
func (ts *Tileset) PropertyInt(id int, name string, def int) (int, error) {
	v, ok := ts.Property(id, name)
	if !ok {
		return def, nil
	}
	return ParseInt(name, v)
}

// PropertyFloat returns the named property as a float64, or def if the tile
// does not have it.
func (ts *Tileset) PropertyFloat(id int, name string, def float64) (float64, error) {
	v, ok := ts.Property(id, name)
	if !ok {
		return def, nil
	}
	return ParseFloat(name, v)
}

// PropertyBool returns the named property as a bool, or def if the tile does
// not have it.
func (ts *Tileset) PropertyBool(id int, name string, def bool) (bool, error) {
	v, ok := ts.Property(id, name)
	if !ok {
		return def, nil
	}
	return ParseBool(name, v)
}

// ParseInt converts a property value to an int.
func ParseInt(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(ErrBadPropertyValue, "property %q had non-integer value %q", name, v)
	}
	return n, nil
}

// ParseFloat converts a property value to a float64.
func ParseFloat(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrBadPropertyValue, "property %q had non-float value %q", name, v)
	}
	return f, nil
}

// ParseBool converts a property value to a bool. Only "true" and "false" are
// accepted, in any case.
func ParseBool(name, v string) (bool, error) {
	switch {
	case strings.EqualFold(v, "true"):
		return true, nil
	case strings.EqualFold(v, "false"):
		return false, nil
	}
	return false, errors.Wrapf(ErrBadPropertyValue, "property %q had non-boolean value %q", name, v)
}

// Properties is a <properties> element as found in tilesets, maps, layers and
// objects. It can be embedded in other decoders' structures.
type Properties []Property

func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	raw := xmlProperties{}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	props, err := propertiesFromXML(&raw, start.Name.Local)
	if err != nil {
		return err
	}
	*p = props
	return nil
}

// Lookup returns the value of the named property.
func (p Properties) Lookup(name string) (string, bool) {
	prop, ok := findProperty(p, name)
	if !ok {
		return "", false
	}
	return prop.Value, true
}
