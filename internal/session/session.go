// Package session ties one logged-in player to a transport: it sends the
// input state on a fixed cadence and hands every decoded scene to the
// presenter until the connection ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/SneakyChocolate/dodgescape/internal/input"
	"github.com/SneakyChocolate/dodgescape/internal/protocol"
	"github.com/SneakyChocolate/dodgescape/internal/scene"
	"github.com/SneakyChocolate/dodgescape/internal/transport"
)

var (
	// ErrSendFailed ends a session whose periodic send failed more often
	// in a row than the retry budget allows.
	ErrSendFailed = errors.New("session: send failed")
	// ErrTransportClosed ends a session whose connection went away.
	ErrTransportClosed = errors.New("session: connection closed")
	ErrEmptyUsername   = errors.New("session: empty username")
)

const DefaultSendInterval = 30 * time.Millisecond

type Options struct {
	// ID identifies the session in logs and transport headers. Empty
	// generates a random one.
	ID        string
	Username  string
	Transport transport.Transport
	Input     *input.State // nil allocates a fresh one
	Format    scene.Format
	// SendInterval is the period of the input send loop.
	SendInterval time.Duration
	// Retries is how many consecutive send failures are tolerated. Zero
	// makes the first failure fatal.
	Retries int
	Log     *zap.SugaredLogger
	// Present receives every decoded scene. It is called from the
	// receive goroutine.
	Present func(*scene.Scene)
	// OnClose is called once when the session stops, with nil for a
	// deliberate logout or cancellation.
	OnClose func(error)
}

type Session struct {
	ID       string
	username string
	input    *input.State
	tr       transport.Transport
	format   scene.Format
	interval time.Duration
	retries  int
	log      *zap.SugaredLogger
	present  func(*scene.Scene)
	onClose  func(error)

	decodeLog rate.Sometimes

	stopOnce sync.Once
	done     chan struct{}
	mu       sync.Mutex
	err      error
}

var usernamePolicy = bluemonday.StrictPolicy()

// SanitizeUsername strips markup and surrounding space from a typed name.
// The policy escapes the text it keeps, so that is undone: the server gets
// the name as typed, not entity-encoded.
func SanitizeUsername(name string) string {
	return strings.TrimSpace(html.UnescapeString(usernamePolicy.Sanitize(strings.TrimSpace(name))))
}

func New(opts Options) (*Session, error) {
	name := SanitizeUsername(opts.Username)
	if name == "" {
		return nil, ErrEmptyUsername
	}
	if opts.Transport == nil {
		return nil, errors.New("session: nil transport")
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	s := &Session{
		ID:        id,
		username:  name,
		input:     opts.Input,
		tr:        opts.Transport,
		format:    opts.Format,
		interval:  opts.SendInterval,
		retries:   opts.Retries,
		log:       opts.Log,
		present:   opts.Present,
		onClose:   opts.OnClose,
		decodeLog: rate.Sometimes{First: 1, Interval: time.Second},
		done:      make(chan struct{}),
	}
	if s.input == nil {
		s.input = &input.State{}
	}
	if s.format == "" {
		s.format = scene.FormatAuto
	}
	if s.interval <= 0 {
		s.interval = DefaultSendInterval
	}
	if s.retries < 0 {
		s.retries = 0
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	s.log = s.log.With("session", s.ID, "user", s.username)
	return s, nil
}

func (s *Session) Username() string      { return s.username }
func (s *Session) Input() *input.State   { return s.input }
func (s *Session) Done() <-chan struct{} { return s.done }

// Err reports why the session stopped. It is nil while running and after
// a deliberate logout.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Login announces the player to the server.
func (s *Session) Login(ctx context.Context) error {
	b, err := protocol.Login(s.username, s.input.Sample()).Encode()
	if err != nil {
		return err
	}
	if err := s.tr.Send(ctx, b); err != nil {
		return fmt.Errorf("session: login: %w", err)
	}
	s.log.Infow("logged in")
	return nil
}

// Run drives the session until ctx is cancelled, the transport closes, a
// logout happens, or sends fail past the retry budget. It returns the
// stop reason.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.receive(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-s.done:
			return s.Err()
		case <-ctx.Done():
			s.stop(nil)
			return s.Err()
		case <-s.tr.Done():
			s.stop(ErrTransportClosed)
			return s.Err()
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				failures++
				s.log.Warnw("send failed", "err", err, "consecutive", failures)
				if failures > s.retries {
					s.stop(fmt.Errorf("%w: %v", ErrSendFailed, err))
					return s.Err()
				}
				continue
			}
			failures = 0
		}
	}
}

// tick sends one game update. The wheel delta is consumed before the send
// so a failed send never replays it.
func (s *Session) tick(ctx context.Context) error {
	b, err := protocol.Game(s.username, s.input.SampleAndReset()).Encode()
	if err != nil {
		return err
	}
	return s.tr.Send(ctx, b)
}

func (s *Session) receive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case b, ok := <-s.tr.Incoming():
			if !ok {
				return
			}
			s.handle(b)
		}
	}
}

func (s *Session) handle(payload []byte) {
	sc, err := scene.Decode(payload, s.format)
	if err != nil {
		s.decodeLog.Do(func() {
			s.log.Warnw("bad scene payload", "err", err, "bytes", len(payload))
		})
	}
	if sc == nil {
		sc = &scene.Scene{}
	}
	if s.present != nil {
		s.present(sc)
	}
}

// Logout tells the server the player left and stops the session. It is a
// no-op on a session that already stopped.
func (s *Session) Logout(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	default:
	}
	b, err := protocol.Logout(s.username, s.input.Sample()).Encode()
	if err == nil {
		if err = s.tr.Send(ctx, b); err != nil {
			err = fmt.Errorf("session: logout: %w", err)
		}
	}
	s.stop(nil)
	s.log.Infow("logged out")
	return err
}

func (s *Session) stop(reason error) {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.err = reason
		s.mu.Unlock()
		close(s.done)
		if err := s.tr.Close(); err != nil {
			s.log.Debugw("transport close", "err", err)
		}
		if reason != nil {
			s.log.Warnw("session stopped", "reason", reason)
		}
		if s.onClose != nil {
			s.onClose(reason)
		}
	})
}
