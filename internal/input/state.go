// Package input keeps the local input state that is sent to the server.
package input

import (
	"math"
	"slices"
	"sync"

	"github.com/SneakyChocolate/dodgescape/internal/protocol"
)

// State is written by the UI thread and sampled by the send loop.
type State struct {
	mu    sync.Mutex
	x, y  float64
	keys  []string // held keys, in press order
	wheel float64
}

// PointerMove records the cursor position relative to the canvas centre.
// It is ignored while there is no canvas yet.
func (s *State) PointerMove(clientX, clientY float64, canvasW, canvasH int) {
	if canvasW <= 0 || canvasH <= 0 {
		return
	}
	s.mu.Lock()
	s.x = clientX - float64(canvasW)/2
	s.y = clientY - float64(canvasH)/2
	s.mu.Unlock()
}

// KeyDown adds code to the held keys unless it is already held.
func (s *State) KeyDown(code string) {
	if code == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.keys, code) {
		return
	}
	s.keys = append(s.keys, code)
}

func (s *State) KeyUp(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.keys, code); i >= 0 {
		s.keys = slices.Delete(s.keys, i, i+1)
	}
}

// AddWheel accumulates scroll delta until the next send.
func (s *State) AddWheel(delta float64) {
	s.mu.Lock()
	s.wheel += delta
	s.mu.Unlock()
}

// Sample returns a copy of the current state.
func (s *State) Sample() protocol.InputSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleLocked()
}

// SampleAndReset returns a copy of the current state and zeroes the wheel
// delta in the same step.
func (s *State) SampleAndReset() protocol.InputSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	in := s.sampleLocked()
	s.wheel = 0
	return in
}

func (s *State) sampleLocked() protocol.InputSample {
	return protocol.InputSample{
		X:        s.x,
		Y:        s.y,
		KeysDown: slices.Clone(s.keys),
		Wheel:    int(math.Round(s.wheel)),
	}
}
