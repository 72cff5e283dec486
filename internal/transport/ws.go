package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait   = 5 * time.Second
	readLimit   = 4 << 20
	incomingCap = 16
)

// WS is a persistent WebSocket connection. Every text or binary message
// received is delivered on Incoming.
type WS struct {
	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn
	closed  bool

	inCh     chan []byte
	done     chan struct{}
	doneOnce sync.Once
	log      *zap.SugaredLogger
}

// DialWS connects to wsURL. A token is sent both as a bearer header and as
// a "token" query parameter.
func DialWS(ctx context.Context, wsURL string, opts Options) (*WS, error) {
	log := opts.logger()
	hdr := http.Header{}
	if opts.Token != "" {
		hdr.Set("Authorization", "Bearer "+opts.Token)
		if u, err := neturl.Parse(wsURL); err == nil {
			q := u.Query()
			q.Set("token", opts.Token)
			u.RawQuery = q.Encode()
			wsURL = u.String()
		}
	}
	if opts.SessionID != "" {
		hdr.Set("X-Session-ID", opts.SessionID)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		Proxy: func(*http.Request) (*neturl.URL, error) {
			return nil, nil // direct connection only
		},
	}

	log.Infof("ws dial: %s (token=%d chars)", wsURL, len(opts.Token))
	c, resp, err := dialer.DialContext(ctx, wsURL, hdr)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			_ = resp.Body.Close()
			return nil, fmt.Errorf("transport: ws dial %s: %s: %s", wsURL, resp.Status, body)
		}
		return nil, fmt.Errorf("transport: ws dial %s: %w", wsURL, err)
	}
	c.SetReadLimit(readLimit)

	w := &WS{
		conn: c,
		inCh: make(chan []byte, incomingCap),
		done: make(chan struct{}),
		log:  log,
	}
	go w.reader()
	return w, nil
}

func (w *WS) reader() {
	defer w.finish()
	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			if !w.IsClosed() {
				w.log.Infof("ws read: %v", err)
			}
			return
		}
		push(w.inCh, data)
	}
}

// finish marks the connection dead and releases anyone waiting on it.
func (w *WS) finish() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	_ = w.conn.Close()
	w.doneOnce.Do(func() {
		close(w.inCh)
		close(w.done)
	})
}

func (w *WS) Send(ctx context.Context, msg []byte) error {
	if w.IsClosed() {
		return ErrClosed
	}
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	_ = w.conn.SetWriteDeadline(deadline)
	if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		_ = w.conn.Close()
		return fmt.Errorf("transport: ws write: %w", err)
	}
	return nil
}

func (w *WS) Incoming() <-chan []byte { return w.inCh }
func (w *WS) Done() <-chan struct{}   { return w.done }

// IsClosed reports whether Close was called or the connection was torn down.
func (w *WS) IsClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close sends a close frame and closes the socket. It is safe to call more
// than once.
func (w *WS) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.writeMu.Lock()
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	w.writeMu.Unlock()
	return w.conn.Close()
}
