// Package transport carries client messages to the game server and server
// payloads back.
package transport

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrClosed is returned when sending on a transport that has been closed,
// either locally or by the server.
var ErrClosed = errors.New("transport: closed")

// Transport is a bidirectional message channel to the game server.
//
// Send is fire-and-forget: it returns once the message is handed to the
// network. Payloads from the server arrive on Incoming. Done is closed
// when the transport is torn down for any reason.
type Transport interface {
	Send(ctx context.Context, msg []byte) error
	Incoming() <-chan []byte
	Done() <-chan struct{}
	Close() error
}

// Options shared by the transport implementations.
type Options struct {
	Token     string // bearer token, optional
	SessionID string
	Log       *zap.SugaredLogger
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Log == nil {
		return zap.NewNop().Sugar()
	}
	return o.Log
}

// push delivers a payload without blocking the reader. When the buffer is
// full the oldest payload is dropped; only the latest scene matters.
func push(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
