// Package game is the desktop client: a login screen, the live scene view
// and the connection lifecycle between them.
package game

import (
	"context"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/SneakyChocolate/dodgescape/internal/assets"
	"github.com/SneakyChocolate/dodgescape/internal/config"
	"github.com/SneakyChocolate/dodgescape/internal/input"
	"github.com/SneakyChocolate/dodgescape/internal/render"
	"github.com/SneakyChocolate/dodgescape/internal/scene"
	"github.com/SneakyChocolate/dodgescape/internal/session"
)

type screen int

const (
	screenLogin screen = iota
	screenConnecting
	screenPlaying
	screenClosed
)

const logoutTimeout = 2 * time.Second

type Game struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	renderer *render.Renderer
	surface  *ebitenSurface

	scr    screen
	w, h   int
	login  *loginForm
	status string

	connCh          chan connResult
	closedCh        chan error
	connectInFlight bool

	sess   *session.Session
	cancel context.CancelFunc
	latest atomic.Pointer[scene.Scene]

	keys []ebiten.Key
}

// New creates the game. images may be nil; Image shapes then draw nothing.
func New(cfg *config.Config, images *assets.Cache, log *zap.SugaredLogger) *Game {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	remembered := cfg.Username
	if remembered == "" {
		remembered = config.LoadUsername()
	}
	g := &Game{
		cfg:      cfg,
		log:      log,
		surface:  newEbitenSurface(),
		scr:      screenLogin,
		login:    newLoginForm(remembered),
		connCh:   make(chan connResult, 1),
		closedCh: make(chan error, 1),
	}
	var src render.ImageSource
	if images != nil {
		src = images
	}
	g.renderer = render.New(cfg.ReferenceWidth, src, log)
	return g
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.logout()
		return ebiten.Termination
	}

	switch g.scr {
	case screenLogin:
		g.login.update()
		if g.login.submitted {
			name := g.login.username()
			g.login.submitted = false
			if err := config.SaveUsername(name); err != nil {
				g.log.Warnw("save username", "err", err)
			}
			g.startConnect(name)
		}

	case screenConnecting:
		select {
		case res := <-g.connCh:
			g.connectInFlight = false
			if res.err != nil {
				g.log.Warnw("connect failed", "err", res.err)
				g.toClosed(res.err.Error())
				break
			}
			g.play(res.sess)
		default:
		}

	case screenPlaying:
		select {
		case reason := <-g.closedCh:
			g.toClosed(closeMessage(reason))
			return nil
		default:
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.logout()
			g.toClosed(closeMessage(nil))
			return nil
		}
		g.pollInput(g.sess.Input())

	case screenClosed:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
			g.login = newLoginForm(g.login.username())
			g.scr = screenLogin
		}
	}
	return nil
}

func (g *Game) play(sess *session.Session) {
	ctx, cancel := context.WithCancel(context.Background())
	g.sess = sess
	g.cancel = cancel
	g.scr = screenPlaying
	g.log.Infow("session started", "session", sess.ID, "user", sess.Username())
	go func() {
		if err := sess.Run(ctx); err != nil {
			g.log.Warnw("session ended", "session", sess.ID, "err", err)
		}
	}()
}

// pollInput feeds this tick's cursor, key and wheel events into st.
func (g *Game) pollInput(st *input.State) {
	cx, cy := ebiten.CursorPosition()
	st.PointerMove(float64(cx), float64(cy), g.w, g.h)

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		st.KeyDown(input.KeyCode(k.String()))
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		st.KeyUp(input.KeyCode(k.String()))
	}

	// Ebiten reports scrolling down as negative, the server wants the
	// DOM sign.
	if _, wy := ebiten.Wheel(); wy != 0 {
		st.AddWheel(-wy * g.cfg.WheelScale)
	}
}

func (g *Game) logout() {
	if g.sess == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
	defer cancel()
	if err := g.sess.Logout(ctx); err != nil {
		g.log.Warnw("logout", "err", err)
	}
	g.endSession()
}

func (g *Game) endSession() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.sess = nil
	// a close reason may already be queued for the session that just ended
	select {
	case <-g.closedCh:
	default:
	}
}

func (g *Game) toClosed(msg string) {
	g.endSession()
	g.status = msg
	g.latest.Store(nil)
	g.scr = screenClosed
}

func (g *Game) Draw(dst *ebiten.Image) {
	switch g.scr {
	case screenLogin:
		dst.Fill(color.Black)
		g.login.draw(dst, g.w, g.h)
	case screenConnecting:
		dst.Fill(color.Black)
		drawCentered(dst, "connecting...", float64(g.w)/2, float64(g.h)/2, color.White)
	case screenPlaying:
		g.renderer.Render(g.surface.bind(dst), g.latest.Load())
	case screenClosed:
		dst.Fill(color.Black)
		drawCentered(dst, g.status, float64(g.w)/2, float64(g.h)/2-12, color.White)
		drawCentered(dst, "press Enter to return to login", float64(g.w)/2, float64(g.h)/2+12,
			color.NRGBA{180, 188, 210, 200})
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.w, g.h = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
