package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SneakyChocolate/dodgescape/internal/scene"
	"github.com/SneakyChocolate/dodgescape/internal/session"
	"github.com/SneakyChocolate/dodgescape/internal/transport"
)

const dialTimeout = 8 * time.Second

type connResult struct {
	sess *session.Session
	err  error
}

func (g *Game) startConnect(username string) {
	if g.connectInFlight {
		return
	}
	g.scr = screenConnecting
	g.connectInFlight = true
	g.latest.Store(nil)
	go g.connectAsync(username)
}

func (g *Game) connectAsync(username string) {
	sess, err := g.connect(username)
	// drop a stale result rather than block
	select {
	case g.connCh <- connResult{sess: sess, err: err}:
	default:
		select {
		case <-g.connCh:
		default:
		}
		g.connCh <- connResult{sess: sess, err: err}
	}
}

// connect dials the server, builds the session and logs in.
func (g *Game) connect(username string) (*session.Session, error) {
	name := session.SanitizeUsername(username)
	if name == "" {
		return nil, session.ErrEmptyUsername
	}
	if g.cfg.Token != "" {
		info, err := transport.CheckToken(g.cfg.Token, time.Now())
		if err != nil {
			return nil, err
		}
		if !info.Opaque && info.Subject != "" && info.Subject != name {
			g.log.Warnw("token subject differs from username", "subject", info.Subject, "user", name)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	sessionID := uuid.NewString()
	opts := transport.Options{Token: g.cfg.Token, SessionID: sessionID, Log: g.log}
	var tr transport.Transport
	switch g.cfg.Transport {
	case "http":
		tr = transport.NewHTTP(g.cfg.APIBase, g.cfg.PollPath, opts)
	default:
		ws, err := transport.DialWS(ctx, g.cfg.ServerURL, opts)
		if err != nil {
			return nil, err
		}
		tr = ws
	}

	format, err := scene.ParseFormat(g.cfg.Format)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}

	sess, err := session.New(session.Options{
		ID:           sessionID,
		Username:     name,
		Transport:    tr,
		Format:       format,
		SendInterval: g.cfg.SendInterval,
		Retries:      g.cfg.SendRetries,
		Log:          g.log,
		Present:      func(sc *scene.Scene) { g.latest.Store(sc) },
		OnClose:      g.sessionClosed,
	})
	if err != nil {
		_ = tr.Close()
		return nil, err
	}
	if err := sess.Login(ctx); err != nil {
		_ = tr.Close()
		return nil, err
	}
	return sess, nil
}

// sessionClosed runs on the session's goroutine; the UI picks the reason up
// in Update.
func (g *Game) sessionClosed(reason error) {
	select {
	case g.closedCh <- reason:
	default:
	}
}

func closeMessage(err error) string {
	switch {
	case err == nil:
		return "Logged out."
	case errors.Is(err, session.ErrTransportClosed):
		return "Connection closed by the server."
	case errors.Is(err, session.ErrSendFailed):
		return "Lost connection to the server."
	case errors.Is(err, transport.ErrTokenExpired):
		return "Your token has expired."
	}
	return fmt.Sprintf("Disconnected: %v", err)
}
