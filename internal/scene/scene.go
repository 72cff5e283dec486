// Package scene holds the server-pushed scene description and its decoders.
package scene

// Vec2 is a point or offset in world units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scene is the full set of objects pushed by the server for one frame. It
// is rebuilt from scratch for every payload.
type Scene struct {
	Objects []Object
}

// Object is one drawable game object as seen from a camera.
type Object struct {
	Radius   float64 // base radius used to resolve relative circle radii
	Position Vec2
	Camera   Vec2
	Zoom     float64
	Pack     DrawPack
}

// DrawPack describes how an object looks.
type DrawPack struct {
	Color  string
	Offset Vec2
	Shapes []Shape
}

type RadiusKind int

const (
	Absolute RadiusKind = iota
	Relative
)

func (k RadiusKind) String() string {
	if k == Relative {
		return "Relative"
	}
	return "Absolute"
}

// Radius is either an absolute length or a factor of the owning object's
// base radius.
type Radius struct {
	Kind  RadiusKind
	Value float64
}

// Resolve returns the radius in world units for an object with the given
// base radius.
func (r Radius) Resolve(base float64) float64 {
	if r.Kind == Relative {
		return r.Value * base
	}
	return r.Value
}
