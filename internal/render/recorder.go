package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Op is one recorded draw call.
type Op struct {
	Kind   string // clear, circle, rect, line, text, poly, image
	Color  color.NRGBA
	Args   []float64
	Text   string
	Points []Point
}

func (o Op) String() string {
	var b strings.Builder
	b.WriteString(o.Kind)
	if o.Kind != "image" {
		fmt.Fprintf(&b, " #%02x%02x%02x%02x", o.Color.R, o.Color.G, o.Color.B, o.Color.A)
	}
	for _, a := range o.Args {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(a, 'f', -1, 64))
	}
	for _, p := range o.Points {
		fmt.Fprintf(&b, " (%s,%s)",
			strconv.FormatFloat(p.X, 'f', -1, 64), strconv.FormatFloat(p.Y, 'f', -1, 64))
	}
	if o.Text != "" {
		fmt.Fprintf(&b, " %q", o.Text)
	}
	return b.String()
}

// Recorder is a Surface that keeps every call instead of drawing. It backs
// the dump command and the renderer tests.
type Recorder struct {
	W, H int
	Ops  []Op
}

func NewRecorder(w, h int) *Recorder { return &Recorder{W: w, H: h} }

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (r *Recorder) add(op Op) { r.Ops = append(r.Ops, op) }

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear(c color.Color) {
	r.add(Op{Kind: "clear", Color: nrgba(c)})
}

func (r *Recorder) FillCircle(cx, cy, rad float64, c color.Color) {
	r.add(Op{Kind: "circle", Color: nrgba(c), Args: []float64{cx, cy, rad}})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.add(Op{Kind: "rect", Color: nrgba(c), Args: []float64{x, y, w, h}})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	r.add(Op{Kind: "line", Color: nrgba(c), Args: []float64{x0, y0, x1, y1, width}})
}

func (r *Recorder) FillText(s string, x, y, size float64, c color.Color) {
	r.add(Op{Kind: "text", Color: nrgba(c), Args: []float64{x, y, size}, Text: s})
}

func (r *Recorder) FillPoly(pts []Point, c color.Color) {
	r.add(Op{Kind: "poly", Color: nrgba(c), Points: append([]Point(nil), pts...)})
}

func (r *Recorder) DrawImage(img image.Image, x, y, scale float64) {
	b := img.Bounds()
	r.add(Op{Kind: "image", Args: []float64{x, y, scale, float64(b.Dx()), float64(b.Dy())}})
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }
