// Package render turns a Scene into primitive draw calls on a Surface.
package render

import (
	"image"
	"image/color"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/SneakyChocolate/dodgescape/internal/scene"
)

// DefaultReferenceWidth is the canvas width at which one world unit is one
// pixel.
const DefaultReferenceWidth = 1920

// Point is a screen position in pixels.
type Point struct{ X, Y float64 }

// Surface is a 2D drawing target. Coordinates are pixels with the origin
// at the top-left corner.
type Surface interface {
	Size() (w, h int)
	Clear(c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
	// FillText draws s with its baseline starting at (x, y); size is the
	// font height in pixels.
	FillText(s string, x, y, size float64, c color.Color)
	// FillPoly closes the path through pts and fills it.
	FillPoly(pts []Point, c color.Color)
	// DrawImage draws img with its top-left corner at (x, y), scaled by
	// scale in both directions.
	DrawImage(img image.Image, x, y, scale float64)
}

// ImageSource resolves Image shape keywords. Lookup returns nil for
// keywords that are unknown or not loaded.
type ImageSource interface {
	Lookup(keyword string) image.Image
}

type Renderer struct {
	ReferenceWidth float64
	Images         ImageSource
	Log            *zap.SugaredLogger

	colorLog rate.Sometimes
}

func New(referenceWidth float64, images ImageSource, log *zap.SugaredLogger) *Renderer {
	return &Renderer{
		ReferenceWidth: referenceWidth,
		Images:         images,
		Log:            log,
		colorLog:       rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}
}

// Scale is the global factor mapping world units to pixels on a surface
// w pixels wide.
func (r *Renderer) Scale(w int) float64 {
	ref := r.ReferenceWidth
	if ref <= 0 {
		ref = DefaultReferenceWidth
	}
	return float64(w) / ref
}

// Render clears s to black and draws every object of sc in order. A nil
// scene draws an empty frame.
func (r *Renderer) Render(s Surface, sc *scene.Scene) {
	s.Clear(color.Black)
	if sc == nil {
		return
	}
	w, h := s.Size()
	p := painter{
		s:      s,
		images: r.Images,
		f:      r.Scale(w),
		midX:   float64(w) / 2,
		midY:   float64(h) / 2,
	}
	for _, obj := range sc.Objects {
		col, err := ParseColor(obj.Pack.Color)
		if err != nil {
			r.colorLog.Do(func() {
				if r.Log != nil {
					r.Log.Warnw("object skipped", "color", obj.Pack.Color, "err", err)
				}
			})
			continue
		}
		p.begin(obj, col)
		for _, shape := range obj.Pack.Shapes {
			shape.Accept(&p)
		}
	}
}

// painter draws the shapes of one object at a time.
type painter struct {
	s          Surface
	images     ImageSource
	f          float64
	midX, midY float64

	obj  scene.Object
	col  color.Color
	k    float64 // zoom * f
	x, y float64 // object anchor on screen
}

func (p *painter) begin(obj scene.Object, col color.Color) {
	p.obj = obj
	p.col = col
	p.k = obj.Zoom * p.f
	p.x = (obj.Position.X-obj.Camera.X+obj.Pack.Offset.X)*p.k + p.midX
	p.y = (obj.Position.Y-obj.Camera.Y+obj.Pack.Offset.Y)*p.k + p.midY
}

// world maps a world point through the camera without the draw offset.
func (p *painter) world(x, y float64) (float64, float64) {
	return (x-p.obj.Camera.X)*p.k + p.midX, (y-p.obj.Camera.Y)*p.k + p.midY
}

func (p *painter) VisitCircle(c scene.Circle) {
	p.s.FillCircle(p.x, p.y, c.Radius.Resolve(p.obj.Radius)*p.k, p.col)
}

func (p *painter) VisitRectangle(rc scene.Rectangle) {
	p.s.FillRect(p.x, p.y, rc.Width*p.k, rc.Height*p.k, p.col)
}

func (p *painter) VisitLine(l scene.Line) {
	x2, y2 := p.world(l.X, l.Y)
	p.s.StrokeLine(p.x, p.y, x2, y2, l.Width*p.k, p.col)
}

func (p *painter) VisitText(t scene.Text) {
	p.s.FillText(t.Content, p.x, p.y, t.Size*p.k, p.col)
}

func (p *painter) VisitPoly(pl scene.Poly) {
	if len(pl.Corners) == 0 {
		return
	}
	pts := make([]Point, len(pl.Corners))
	for i, c := range pl.Corners {
		pts[i].X, pts[i].Y = p.world(c.X, c.Y)
	}
	p.s.FillPoly(pts, p.col)
}

func (p *painter) VisitImage(im scene.Image) {
	if p.images == nil {
		return
	}
	img := p.images.Lookup(im.Keyword)
	if img == nil {
		return
	}
	p.s.DrawImage(img, p.x, p.y, im.Scale*p.k)
}
