package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type wireScene struct {
	Objects json.RawMessage `json:"objects"`
}

type wireObject struct {
	Radius   float64      `json:"radius"`
	Position Vec2         `json:"position"`
	Camera   Vec2         `json:"camera"`
	Zoom     *float64     `json:"zoom"`
	DrawPack wireDrawPack `json:"draw_pack"`
}

type wireDrawPack struct {
	Color  string          `json:"color"`
	Offset [2]float64      `json:"offset"`
	Shape  json.RawMessage `json:"shape"`
}

type wireCircle struct {
	Radius json.RawMessage `json:"radius"`
}

type wireRectangle struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type wireLine struct {
	Width float64 `json:"width"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type wireText struct {
	Content string  `json:"content"`
	Size    float64 `json:"size"`
}

type wirePoly struct {
	Corners [][2]float64 `json:"corners"`
}

type wireImage struct {
	Keyword string  `json:"keyword"`
	Scale   float64 `json:"scale"`
}

// DecodeJSON parses the structured scene form {"objects": [...]}. The
// objects may be a list or a mapping; null entries are skipped and mapping
// order is kept.
func DecodeJSON(payload []byte) (*Scene, error) {
	var ws wireScene
	if err := json.Unmarshal(payload, &ws); err != nil {
		return nil, fmt.Errorf("scene: decode payload: %w", err)
	}
	s := &Scene{}
	add := func(raw json.RawMessage) error {
		if isNull(raw) {
			return nil
		}
		o, err := decodeObject(raw)
		if err != nil {
			return err
		}
		s.Objects = append(s.Objects, o)
		return nil
	}

	switch firstByte(ws.Objects) {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(ws.Objects, &list); err != nil {
			return nil, fmt.Errorf("scene: decode objects: %w", err)
		}
		for i, raw := range list {
			if err := add(raw); err != nil {
				return nil, fmt.Errorf("scene: object %d: %w", i, err)
			}
		}
	case '{':
		err := eachMember(ws.Objects, func(key string, raw json.RawMessage) error {
			if err := add(raw); err != nil {
				return fmt.Errorf("object %q: %w", key, err)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
	case 0, 'n':
		// no objects this frame
	default:
		return nil, fmt.Errorf("scene: objects must be a list or a mapping")
	}
	return s, nil
}

func decodeObject(raw json.RawMessage) (Object, error) {
	var wo wireObject
	if err := json.Unmarshal(raw, &wo); err != nil {
		return Object{}, err
	}
	o := Object{
		Radius:   wo.Radius,
		Position: wo.Position,
		Camera:   wo.Camera,
		Zoom:     1,
		Pack: DrawPack{
			Color:  wo.DrawPack.Color,
			Offset: Vec2{X: wo.DrawPack.Offset[0], Y: wo.DrawPack.Offset[1]},
		},
	}
	if wo.Zoom != nil {
		o.Zoom = *wo.Zoom
	}
	shapes, err := decodeShapes(wo.DrawPack.Shape)
	if err != nil {
		return Object{}, err
	}
	o.Pack.Shapes = shapes
	return o, nil
}

// decodeShapes reads an externally tagged shape object such as
// {"Circle": {...}}, or a list of them. Unknown tags are dropped.
func decodeShapes(raw json.RawMessage) ([]Shape, error) {
	var shapes []Shape
	collect := func(tag string, body json.RawMessage) error {
		s, ok, err := decodeShape(tag, body)
		if err != nil {
			return fmt.Errorf("shape %s: %w", tag, err)
		}
		if ok {
			shapes = append(shapes, s)
		}
		return nil
	}

	switch firstByte(raw) {
	case '{':
		if err := eachMember(raw, collect); err != nil {
			return nil, err
		}
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		for _, item := range list {
			if firstByte(item) != '{' {
				continue
			}
			if err := eachMember(item, collect); err != nil {
				return nil, err
			}
		}
	}
	return shapes, nil
}

func decodeShape(tag string, body json.RawMessage) (Shape, bool, error) {
	switch tag {
	case "Circle":
		var w wireCircle
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, false, err
		}
		r, err := decodeRadius(w.Radius)
		if err != nil {
			return nil, false, err
		}
		return Circle{Radius: r}, true, nil
	case "Rectangle":
		var w wireRectangle
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, false, err
		}
		return Rectangle{Width: w.Width, Height: w.Height}, true, nil
	case "Line":
		var w wireLine
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, false, err
		}
		return Line{X: w.X, Y: w.Y, Width: w.Width}, true, nil
	case "Text":
		var w wireText
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, false, err
		}
		return Text{Content: w.Content, Size: w.Size}, true, nil
	case "Poly":
		var w wirePoly
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, false, err
		}
		p := Poly{Corners: make([]Vec2, 0, len(w.Corners))}
		for _, c := range w.Corners {
			p.Corners = append(p.Corners, Vec2{X: c[0], Y: c[1]})
		}
		return p, true, nil
	case "Image":
		var w wireImage
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, false, err
		}
		return Image{Keyword: w.Keyword, Scale: w.Scale}, true, nil
	}
	return nil, false, nil
}

// decodeRadius accepts {"Absolute": n}, {"Relative": n} or a bare number.
func decodeRadius(raw json.RawMessage) (Radius, error) {
	switch firstByte(raw) {
	case 0, 'n':
		return Radius{Kind: Relative, Value: 1}, nil
	case '{':
		var tagged map[string]float64
		if err := json.Unmarshal(raw, &tagged); err != nil {
			return Radius{}, fmt.Errorf("radius: %w", err)
		}
		if v, ok := tagged["Relative"]; ok {
			return Radius{Kind: Relative, Value: v}, nil
		}
		if v, ok := tagged["Absolute"]; ok {
			return Radius{Kind: Absolute, Value: v}, nil
		}
		return Radius{}, fmt.Errorf("radius: want Absolute or Relative")
	default:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return Radius{}, fmt.Errorf("radius: %w", err)
		}
		return Radius{Kind: Absolute, Value: v}, nil
	}
}

// eachMember walks the members of a JSON object in document order.
func eachMember(raw json.RawMessage, fn func(key string, val json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return err
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	_, err := dec.Token()
	return err
}

func firstByte(raw []byte) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
