package protocol

import (
	"encoding/json"
	"testing"
)

func TestEncodeGame(t *testing.T) {
	b, err := Game("jo; 3", InputSample{X: 20, Y: -4.5, KeysDown: []string{"KeyW"}, Wheel: 100}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"mode":"game","username":"jo; 3","x":20,"y":-4.5,"keys_down":["KeyW"],"wheel":100}`
	if string(b) != want {
		t.Fatalf("got  %s\nwant %s", b, want)
	}
}

func TestEncodeEmptyKeysIsArray(t *testing.T) {
	b, err := Login("ann", InputSample{}).Encode()
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["keys_down"].([]any); !ok {
		t.Fatalf("keys_down should be an array, got %s", b)
	}
	if m["mode"] != "login" {
		t.Fatalf("mode = %v", m["mode"])
	}
}

func TestValidate(t *testing.T) {
	if err := Logout("", InputSample{}).Validate(); err == nil {
		t.Fatal("empty username must be rejected")
	}
	if err := (ClientMessage{Mode: "dance", Username: "x"}).Validate(); err == nil {
		t.Fatal("unknown mode must be rejected")
	}
}
