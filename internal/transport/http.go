package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HTTP exchanges one request/response per send. The response body of each
// send is delivered on Incoming as the next payload.
type HTTP struct {
	url       string
	client    *http.Client
	token     string
	sessionID string
	log       *zap.SugaredLogger

	mu        sync.Mutex
	closed    bool
	inCh      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewHTTP returns a request/response transport posting to base+path.
func NewHTTP(base, path string, opts Options) *HTTP {
	if path == "" {
		path = "/"
	}
	return &HTTP{
		url:       strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/"),
		client:    &http.Client{Timeout: 5 * time.Second},
		token:     opts.Token,
		sessionID: opts.SessionID,
		log:       opts.logger(),
		inCh:      make(chan []byte, incomingCap),
		done:      make(chan struct{}),
	}
}

func (h *HTTP) Send(ctx context.Context, msg []byte) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return ErrClosed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(msg))
	if err != nil {
		return fmt.Errorf("transport: http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	if h.sessionID != "" {
		req.Header.Set("X-Session-ID", h.sessionID)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("transport: http post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, readLimit))
	if err != nil {
		return fmt.Errorf("transport: http read: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("transport: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	if len(body) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		push(h.inCh, body)
	}
	return nil
}

func (h *HTTP) Incoming() <-chan []byte { return h.inCh }
func (h *HTTP) Done() <-chan struct{}   { return h.done }

func (h *HTTP) Close() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.inCh)
		h.mu.Unlock()
		close(h.done)
		h.client.CloseIdleConnections()
	})
	return nil
}
