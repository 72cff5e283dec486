package game

import (
	"image/color"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const maxUsernameRunes = 64

/* ------------------------ TextBox ------------------------ */

type textBox struct {
	Value     string
	X, Y      int
	W, H      int
	focused   bool
	cursorOn  bool
	lastBlink time.Time
}

func newTextBox(w int) *textBox {
	return &textBox{W: w, H: 36, focused: true, lastBlink: time.Now()}
}

func (t *textBox) rectContains(mx, my int) bool {
	return mx >= t.X && mx <= t.X+t.W && my >= t.Y && my <= t.Y+t.H
}

func (t *textBox) insert(s string) {
	for _, r := range s {
		if r < 32 || r == utf8.RuneError {
			continue
		}
		if utf8.RuneCountInString(t.Value) >= maxUsernameRunes {
			return
		}
		t.Value += string(r)
	}
}

func (t *textBox) update() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		t.focused = t.rectContains(mx, my)
	}
	if time.Since(t.lastBlink) > 500*time.Millisecond {
		t.cursorOn = !t.cursorOn
		t.lastBlink = time.Now()
	}
	if !t.focused {
		return
	}
	t.insert(string(ebiten.AppendInputChars(nil)))

	mod := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if mod && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		if pasted, err := clipboard.ReadAll(); err == nil {
			t.insert(strings.TrimSpace(pasted))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && t.Value != "" {
		_, n := utf8.DecodeLastRuneInString(t.Value)
		t.Value = t.Value[:len(t.Value)-n]
	}
}

func (t *textBox) draw(dst *ebiten.Image, placeholder string) {
	border := color.NRGBA{120, 160, 255, 90}
	if t.focused {
		border = color.NRGBA{240, 196, 25, 170}
	}
	vector.DrawFilledRect(dst, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), color.NRGBA{16, 22, 34, 230}, true)
	vector.StrokeRect(dst, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), 1, border, true)

	const padX = 10
	baseY := float64(t.Y) + float64(t.H-faceHeight)/2
	if t.Value == "" && !t.focused {
		drawText(dst, placeholder, float64(t.X+padX), baseY, color.NRGBA{180, 188, 210, 140})
		return
	}
	drawText(dst, t.Value, float64(t.X+padX), baseY, color.White)
	if t.focused && t.cursorOn {
		w, _ := text.Measure(t.Value, uiFace, 0)
		drawText(dst, "|", float64(t.X+padX)+w, baseY, color.White)
	}
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, uiFace, op)
}

// drawCentered draws s horizontally centred on cx with its top at y.
func drawCentered(dst *ebiten.Image, s string, cx, y float64, c color.Color) {
	w, _ := text.Measure(s, uiFace, 0)
	drawText(dst, s, cx-w/2, y, c)
}

/* ------------------------ Login ------------------------ */

// loginForm asks for the player name. Enter submits.
type loginForm struct {
	user      *textBox
	msg       string
	submitted bool
}

func newLoginForm(remembered string) *loginForm {
	f := &loginForm{user: newTextBox(320)}
	f.user.Value = remembered
	return f
}

func (f *loginForm) update() {
	f.user.update()
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		if strings.TrimSpace(f.user.Value) == "" {
			f.msg = "Enter a username."
			return
		}
		f.submitted = true
	}
}

func (f *loginForm) username() string { return strings.TrimSpace(f.user.Value) }

func (f *loginForm) draw(dst *ebiten.Image, w, h int) {
	cx := float64(w) / 2
	f.user.X = w/2 - f.user.W/2
	f.user.Y = h/2 - f.user.H/2

	drawCentered(dst, "DODGESCAPE", cx, float64(f.user.Y-60), color.White)
	drawCentered(dst, "username", cx, float64(f.user.Y-24), color.NRGBA{180, 188, 210, 255})
	f.user.draw(dst, "username")
	drawCentered(dst, "press Enter to play", cx, float64(f.user.Y+f.user.H+16), color.NRGBA{180, 188, 210, 200})
	if f.msg != "" {
		drawCentered(dst, f.msg, cx, float64(f.user.Y+f.user.H+36), color.NRGBA{255, 120, 120, 255})
	}
}
