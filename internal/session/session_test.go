package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SneakyChocolate/dodgescape/internal/input"
	"github.com/SneakyChocolate/dodgescape/internal/protocol"
	"github.com/SneakyChocolate/dodgescape/internal/scene"
)

// fakeTransport records sends and fails the first `fail` of them
// (all of them when fail < 0).
type fakeTransport struct {
	mu     sync.Mutex
	sent   []protocol.ClientMessage
	fail   int
	calls  int
	closes int

	in        chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newFake(fail int) *fakeTransport {
	return &fakeTransport{fail: fail, in: make(chan []byte, 4), done: make(chan struct{})}
}

func (f *fakeTransport) Send(_ context.Context, b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail < 0 || f.calls <= f.fail {
		return errors.New("boom")
	}
	var m protocol.ClientMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeTransport) Incoming() <-chan []byte { return f.in }
func (f *fakeTransport) Done() <-chan struct{}   { return f.done }

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}

func (f *fakeTransport) snapshot() ([]protocol.ClientMessage, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]protocol.ClientMessage(nil), f.sent...), f.calls
}

func waitRun(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	return nil
}

func TestNewSanitizesUsername(t *testing.T) {
	s, err := New(Options{Username: "  <b>ann</b> ", Transport: newFake(0)})
	if err != nil {
		t.Fatal(err)
	}
	if s.Username() != "ann" {
		t.Fatalf("username = %q", s.Username())
	}
	if s.ID == "" {
		t.Fatal("empty session id")
	}
	if _, err := New(Options{Username: "<i></i>", Transport: newFake(0)}); !errors.Is(err, ErrEmptyUsername) {
		t.Fatalf("markup-only name: %v", err)
	}
}

func TestUsernameSentAsTyped(t *testing.T) {
	cases := []struct{ in, want string }{
		{"O'Neil", "O'Neil"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"a<3b", "a<3b"},
		{`"quoted"`, `"quoted"`},
		{"<b>ann</b> & co", "ann & co"},
	}
	for _, tc := range cases {
		tr := newFake(0)
		s, err := New(Options{Username: tc.in, Transport: tr})
		if err != nil {
			t.Fatalf("New(%q): %v", tc.in, err)
		}
		if err := s.Login(context.Background()); err != nil {
			t.Fatalf("Login(%q): %v", tc.in, err)
		}
		sent, _ := tr.snapshot()
		if len(sent) != 1 || sent[0].Username != tc.want {
			t.Fatalf("%q sent as %+v, want %q", tc.in, sent, tc.want)
		}
	}
}

func TestUsernameAtLimitStillLogsIn(t *testing.T) {
	name := strings.Repeat("&", 64)
	tr := newFake(0)
	s, err := New(Options{Username: name, Transport: tr})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Login(context.Background()); err != nil {
		t.Fatalf("Login with a 64-rune name: %v", err)
	}
	if sent, _ := tr.snapshot(); sent[0].Username != name {
		t.Fatalf("username = %q", sent[0].Username)
	}
}

func TestLoginAndLogout(t *testing.T) {
	tr := newFake(0)
	closed := 0
	s, err := New(Options{Username: "ann", Transport: tr, OnClose: func(error) { closed++ }})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s.Input().KeyDown("KeyW")
	if err := s.Login(ctx); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("second Logout: %v", err)
	}

	sent, _ := tr.snapshot()
	if len(sent) != 2 || sent[0].Mode != protocol.ModeLogin || sent[1].Mode != protocol.ModeLogout {
		t.Fatalf("sent = %+v", sent)
	}
	if sent[0].Username != "ann" || len(sent[0].KeysDown) != 1 || sent[0].KeysDown[0] != "KeyW" {
		t.Fatalf("login message = %+v", sent[0])
	}
	select {
	case <-s.Done():
	default:
		t.Fatal("session not done after logout")
	}
	if s.Err() != nil || closed != 1 {
		t.Fatalf("Err = %v, OnClose calls = %d", s.Err(), closed)
	}
}

func TestTickResetsWheelEvenOnFailure(t *testing.T) {
	st := &input.State{}
	s, err := New(Options{Username: "ann", Transport: newFake(-1), Input: st})
	if err != nil {
		t.Fatal(err)
	}
	st.AddWheel(240)
	if err := s.tick(context.Background()); err == nil {
		t.Fatal("want send error")
	}
	if w := st.Sample().Wheel; w != 0 {
		t.Fatalf("wheel after failed send = %d", w)
	}
}

func TestGameMessagesCarryWheelOnce(t *testing.T) {
	tr := newFake(0)
	st := &input.State{}
	s, err := New(Options{Username: "ann", Transport: tr, Input: st})
	if err != nil {
		t.Fatal(err)
	}
	st.AddWheel(100)
	st.AddWheel(20)
	ctx := context.Background()
	if err := s.tick(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.tick(ctx); err != nil {
		t.Fatal(err)
	}
	sent, _ := tr.snapshot()
	if sent[0].Mode != protocol.ModeGame || sent[0].Wheel != 120 || sent[1].Wheel != 0 {
		t.Fatalf("sent = %+v", sent)
	}
}

func TestSendFailureStopsOnce(t *testing.T) {
	tr := newFake(-1)
	var closes atomic.Int32
	var reason atomic.Value
	s, err := New(Options{
		Username:     "ann",
		Transport:    tr,
		SendInterval: time.Millisecond,
		OnClose: func(err error) {
			closes.Add(1)
			reason.Store(err)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()

	if err := waitRun(t, errc); !errors.Is(err, ErrSendFailed) {
		t.Fatalf("Run = %v, want ErrSendFailed", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, calls := tr.snapshot(); calls != 1 {
		t.Fatalf("send attempts = %d, want 1", calls)
	}
	if closes.Load() != 1 {
		t.Fatalf("OnClose calls = %d", closes.Load())
	}
	if err, _ := reason.Load().(error); !errors.Is(err, ErrSendFailed) {
		t.Fatalf("OnClose reason = %v", err)
	}
	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("Logout after stop: %v", err)
	}
	if _, calls := tr.snapshot(); calls != 1 {
		t.Fatal("logout sent on a stopped session")
	}
}

func TestRetriesTolerateTransientFailures(t *testing.T) {
	tr := newFake(2)
	s, err := New(Options{Username: "ann", Transport: tr, SendInterval: time.Millisecond, Retries: 2})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if sent, _ := tr.snapshot(); len(sent) >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no successful sends after transient failures")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := waitRun(t, errc); err != nil {
		t.Fatalf("Run after cancel = %v", err)
	}
}

func TestTransportClosureStops(t *testing.T) {
	tr := newFake(0)
	s, err := New(Options{Username: "ann", Transport: tr, SendInterval: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()
	tr.closeOnce.Do(func() { close(tr.done) })
	if err := waitRun(t, errc); !errors.Is(err, ErrTransportClosed) {
		t.Fatalf("Run = %v", err)
	}
}

func TestReceivePresentsScenes(t *testing.T) {
	tr := newFake(0)
	got := make(chan *scene.Scene, 2)
	s, err := New(Options{
		Username:     "ann",
		Transport:    tr,
		SendInterval: time.Hour,
		Present:      func(sc *scene.Scene) { got <- sc },
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	tr.in <- []byte(`{"objects":[{"radius":5,"position":{"x":1,"y":2},"camera":{"x":0,"y":0},"zoom":1,
		"draw_pack":{"color":"red","offset":[0,0],"shape":{"Circle":{"radius":{"Absolute":3}}}}}]}`)
	tr.in <- []byte(`{"objects": [`)

	for i, want := range []int{1, 0} {
		select {
		case sc := <-got:
			if len(sc.Objects) != want {
				t.Fatalf("scene %d has %d objects, want %d", i, len(sc.Objects), want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("scene %d not presented", i)
		}
	}
}
