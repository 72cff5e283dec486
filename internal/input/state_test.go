package input

import (
	"reflect"
	"testing"
)

func TestKeysOrderedWithoutDuplicates(t *testing.T) {
	var s State
	s.KeyDown("KeyW")
	s.KeyDown("KeyA")
	s.KeyDown("KeyW")
	s.KeyDown("Space")
	s.KeyUp("KeyA")
	s.KeyUp("KeyQ")
	s.KeyDown("KeyA")

	want := []string{"KeyW", "Space", "KeyA"}
	if got := s.Sample().KeysDown; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
}

func TestSampleIsACopy(t *testing.T) {
	var s State
	s.KeyDown("KeyW")
	in := s.Sample()
	in.KeysDown[0] = "KeyX"
	if got := s.Sample().KeysDown[0]; got != "KeyW" {
		t.Fatalf("state mutated through sample: %q", got)
	}
}

func TestWheelAccumulatesAndResets(t *testing.T) {
	var s State
	s.AddWheel(100)
	s.AddWheel(-30)
	if got := s.Sample().Wheel; got != 70 {
		t.Fatalf("wheel = %d, want 70", got)
	}
	if got := s.SampleAndReset().Wheel; got != 70 {
		t.Fatalf("sampled wheel = %d, want 70", got)
	}
	if got := s.Sample().Wheel; got != 0 {
		t.Fatalf("wheel after reset = %d, want 0", got)
	}
}

func TestPointerIgnoredWithoutCanvas(t *testing.T) {
	var s State
	s.PointerMove(50, 60, 0, 0)
	if in := s.Sample(); in.X != 0 || in.Y != 0 {
		t.Fatalf("pointer should be ignored, got (%v, %v)", in.X, in.Y)
	}
	s.PointerMove(50, 60, 200, 100)
	if in := s.Sample(); in.X != -50 || in.Y != 10 {
		t.Fatalf("pointer = (%v, %v), want (-50, 10)", in.X, in.Y)
	}
}

func TestKeyCode(t *testing.T) {
	cases := map[string]string{
		"W":         "KeyW",
		"Digit1":    "Digit1",
		"ArrowUp":   "ArrowUp",
		"Space":     "Space",
		"ShiftLeft": "ShiftLeft",
		"Shift":     "",
	}
	for in, want := range cases {
		if got := KeyCode(in); got != want {
			t.Errorf("KeyCode(%q) = %q, want %q", in, got, want)
		}
	}
}
