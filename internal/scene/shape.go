package scene

// Shape is one primitive of a DrawPack. The set of shapes is closed:
// Circle, Rectangle, Line, Text, Poly and Image.
type Shape interface {
	Accept(v Visitor)
	isShape()
}

// Visitor has one method per Shape kind. Adding a shape means adding a
// method here, so every implementation is forced to handle it.
type Visitor interface {
	VisitCircle(Circle)
	VisitRectangle(Rectangle)
	VisitLine(Line)
	VisitText(Text)
	VisitPoly(Poly)
	VisitImage(Image)
}

type Circle struct {
	Radius Radius
}

type Rectangle struct {
	Width, Height float64
}

// Line runs from the object position to the world point (X, Y).
type Line struct {
	X, Y  float64
	Width float64
}

type Text struct {
	Content string
	Size    float64
}

// Poly is a filled polygon; corners are world coordinates.
type Poly struct {
	Corners []Vec2
}

// Image draws the bitmap registered under Keyword.
type Image struct {
	Keyword string
	Scale   float64
}

func (s Circle) Accept(v Visitor)    { v.VisitCircle(s) }
func (s Rectangle) Accept(v Visitor) { v.VisitRectangle(s) }
func (s Line) Accept(v Visitor)      { v.VisitLine(s) }
func (s Text) Accept(v Visitor)      { v.VisitText(s) }
func (s Poly) Accept(v Visitor)      { v.VisitPoly(s) }
func (s Image) Accept(v Visitor)     { v.VisitImage(s) }

func (Circle) isShape()    {}
func (Rectangle) isShape() {}
func (Line) isShape()      {}
func (Text) isShape()      {}
func (Poly) isShape()      {}
func (Image) isShape()     {}

// Tag returns the wire name of a shape.
func Tag(s Shape) string {
	switch s.(type) {
	case Circle:
		return "Circle"
	case Rectangle:
		return "Rectangle"
	case Line:
		return "Line"
	case Text:
		return "Text"
	case Poly:
		return "Poly"
	case Image:
		return "Image"
	}
	return ""
}
