package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/SneakyChocolate/dodgescape/internal/render"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	uiFace = text.NewGoXFace(basicfont.Face7x13)
)

const faceHeight = 13 // basicfont.Face7x13 line height in pixels

func init() {
	whiteImage.Fill(color.White)
}

// ebitenSurface draws render calls onto the frame's screen image. Source
// bitmaps are uploaded to the GPU the first time they are drawn.
type ebitenSurface struct {
	dst    *ebiten.Image
	images map[image.Image]*ebiten.Image

	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
}

func newEbitenSurface() *ebitenSurface {
	return &ebitenSurface{images: map[image.Image]*ebiten.Image{}}
}

// bind points the surface at this frame's screen.
func (s *ebitenSurface) bind(dst *ebiten.Image) render.Surface {
	s.dst = dst
	return s
}

func (s *ebitenSurface) Size() (int, int) {
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ebitenSurface) Clear(c color.Color) { s.dst.Fill(c) }

func (s *ebitenSurface) FillCircle(cx, cy, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	vector.DrawFilledCircle(s.dst, float32(cx), float32(cy), float32(r), c, true)
}

func (s *ebitenSurface) FillRect(x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(w), float32(h), c, true)
}

func (s *ebitenSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	if width <= 0 {
		return
	}
	vector.StrokeLine(s.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}

func (s *ebitenSurface) FillText(str string, x, y, size float64, c color.Color) {
	if str == "" || size <= 0 {
		return
	}
	k := size / faceHeight
	ascent := uiFace.Metrics().HAscent
	op := &text.DrawOptions{}
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(x, y-ascent*k)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(s.dst, str, uiFace, op)
}

func (s *ebitenSurface) FillPoly(pts []render.Point, c color.Color) {
	if len(pts) == 0 {
		return
	}
	s.path = vector.Path{}
	s.path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		s.path.LineTo(float32(p.X), float32(p.Y))
	}
	s.path.Close()

	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])
	r, g, b, a := c.RGBA()
	for i := range s.vertices {
		s.vertices[i].SrcX = 1
		s.vertices[i].SrcY = 1
		s.vertices[i].ColorR = float32(r) / 0xffff
		s.vertices[i].ColorG = float32(g) / 0xffff
		s.vertices[i].ColorB = float32(b) / 0xffff
		s.vertices[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{
		AntiAlias:      true,
		FillRule:       ebiten.FillRuleNonZero,
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
	}
	s.dst.DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
}

func (s *ebitenSurface) DrawImage(img image.Image, x, y, scale float64) {
	if img == nil || scale == 0 {
		return
	}
	eimg, ok := s.images[img]
	if !ok {
		eimg = ebiten.NewImageFromImage(img)
		s.images[img] = eimg
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	s.dst.DrawImage(eimg, op)
}
