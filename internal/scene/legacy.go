package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SneakyChocolate/dodgescape/internal/textproto"
)

// Legacy object fields, in order. Only the first three are required.
const (
	fieldColor = iota
	fieldShape
	fieldPosition
	fieldCamera
	fieldZoom
	fieldRadius
	fieldOffset
)

// DecodeLegacy parses the bracket-structured text form of a scene:
//
//	[{"rgb(255,0,0)", Circle { radius: 12 }, (10, 20), (0, 0), 1, 15}, null]
//
// Objects that cannot be parsed are skipped; their errors are joined into
// the returned error while the rest of the scene is still returned.
func DecodeLegacy(payload []byte) (*Scene, error) {
	s := &Scene{}
	var errs []error
	for i, fragment := range textproto.Split(string(payload), ',') {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" || fragment == "null" {
			continue
		}
		o, err := decodeLegacyObject(fragment)
		if err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", i, err))
			continue
		}
		s.Objects = append(s.Objects, o)
	}
	return s, errors.Join(errs...)
}

func decodeLegacyObject(fragment string) (Object, error) {
	fields := textproto.Split(fragment, ',')
	if len(fields) <= fieldPosition {
		return Object{}, fmt.Errorf("want at least 3 fields, got %d", len(fields))
	}
	o := Object{Radius: 1, Zoom: 1}
	o.Pack.Color = strings.Trim(strings.TrimSpace(fields[fieldColor]), `"'`)

	var err error
	if o.Position, err = legacyPair(fields[fieldPosition]); err != nil {
		return Object{}, fmt.Errorf("position: %w", err)
	}
	if len(fields) > fieldCamera {
		if o.Camera, err = legacyPair(fields[fieldCamera]); err != nil {
			return Object{}, fmt.Errorf("camera: %w", err)
		}
	}
	if len(fields) > fieldZoom {
		if o.Zoom, err = legacyNumber(fields[fieldZoom]); err != nil {
			return Object{}, fmt.Errorf("zoom: %w", err)
		}
	}
	if len(fields) > fieldRadius {
		if o.Radius, err = legacyNumber(fields[fieldRadius]); err != nil {
			return Object{}, fmt.Errorf("radius: %w", err)
		}
	}
	if len(fields) > fieldOffset {
		if o.Pack.Offset, err = legacyPair(fields[fieldOffset]); err != nil {
			return Object{}, fmt.Errorf("offset: %w", err)
		}
	}

	shape, ok, err := decodeLegacyShape(fields[fieldShape])
	if err != nil {
		return Object{}, err
	}
	if ok {
		o.Pack.Shapes = []Shape{shape}
	}
	return o, nil
}

// decodeLegacyShape reads "Tag { name: value, ... }". An unknown tag is not
// an error; it yields no shape.
func decodeLegacyShape(field string) (Shape, bool, error) {
	field = strings.TrimSpace(field)
	tag := field
	if i := strings.IndexAny(field, " {"); i >= 0 {
		tag = field[:i]
	}

	num := func(name string) (float64, error) {
		v, err := textproto.Extract(field, name)
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", tag, name, err)
		}
		f, err := legacyNumber(v)
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", tag, name, err)
		}
		return f, nil
	}

	switch tag {
	case "Circle":
		v, err := textproto.Extract(field, "radius")
		if err != nil {
			return nil, false, fmt.Errorf("Circle radius: %w", err)
		}
		r, err := legacyRadius(v)
		if err != nil {
			return nil, false, fmt.Errorf("Circle radius: %w", err)
		}
		return Circle{Radius: r}, true, nil
	case "Rectangle":
		w, err := num("width")
		if err != nil {
			return nil, false, err
		}
		h, err := num("height")
		if err != nil {
			return nil, false, err
		}
		return Rectangle{Width: w, Height: h}, true, nil
	case "Line":
		x, err := num("x")
		if err != nil {
			return nil, false, err
		}
		y, err := num("y")
		if err != nil {
			return nil, false, err
		}
		w, err := num("width")
		if err != nil {
			return nil, false, err
		}
		return Line{X: x, Y: y, Width: w}, true, nil
	case "Text":
		content, err := textproto.Extract(field, "content")
		if err != nil {
			return nil, false, fmt.Errorf("Text content: %w", err)
		}
		size, err := num("size")
		if err != nil {
			return nil, false, err
		}
		return Text{Content: strings.Trim(content, `"'`), Size: size}, true, nil
	case "Poly":
		rest, err := textproto.Rest(field, "corners")
		if err != nil {
			return nil, false, fmt.Errorf("Poly corners: %w", err)
		}
		var p Poly
		for _, c := range textproto.Split(rest, ',') {
			corner, err := legacyPair(c)
			if err != nil {
				return nil, false, fmt.Errorf("Poly corner: %w", err)
			}
			p.Corners = append(p.Corners, corner)
		}
		return p, true, nil
	case "Image":
		keyword, err := textproto.Extract(field, "keyword")
		if err != nil {
			return nil, false, fmt.Errorf("Image keyword: %w", err)
		}
		scale, err := num("scale")
		if err != nil {
			return nil, false, err
		}
		return Image{Keyword: strings.Trim(keyword, `"'`), Scale: scale}, true, nil
	}
	return nil, false, nil
}

// legacyPair parses "(x, y)".
func legacyPair(s string) (Vec2, error) {
	parts := textproto.Split(strings.TrimSpace(s), ',')
	if len(parts) != 2 {
		return Vec2{}, fmt.Errorf("want (x, y), got %q", s)
	}
	x, err := legacyNumber(parts[0])
	if err != nil {
		return Vec2{}, err
	}
	y, err := legacyNumber(parts[1])
	if err != nil {
		return Vec2{}, err
	}
	return Vec2{X: x, Y: y}, nil
}

// legacyRadius parses "12", "Absolute(12)" or "Relative(1.5)".
func legacyRadius(s string) (Radius, error) {
	kind := Absolute
	switch {
	case strings.HasPrefix(s, "Relative"):
		kind = Relative
		s = strings.TrimPrefix(s, "Relative")
	case strings.HasPrefix(s, "Absolute"):
		s = strings.TrimPrefix(s, "Absolute")
	}
	// the value may run into the closing brackets of the shape body
	s = strings.TrimPrefix(strings.TrimSpace(s), "(")
	if i := strings.IndexAny(s, ")}]"); i >= 0 {
		s = s[:i]
	}
	v, err := legacyNumber(s)
	if err != nil {
		return Radius{}, err
	}
	return Radius{Kind: kind, Value: v}, nil
}

// legacyNumber parses a number, dropping closing brackets that the
// attribute extractor leaves attached to the last value of a body.
func legacyNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimRight(strings.TrimSpace(s), ")}]"), 64)
}
