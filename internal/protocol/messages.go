package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Mode tags an outbound message.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeGame   Mode = "game"
	ModeLogout Mode = "logout"
)

// ================= C -> S =================

// ClientMessage is the only message the client sends. The same shape is
// used for login, every periodic input update, and logout.
type ClientMessage struct {
	Mode     Mode     `json:"mode" validate:"oneof=login game logout"`
	Username string   `json:"username" validate:"required,max=64"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	KeysDown []string `json:"keys_down"`
	Wheel    int      `json:"wheel"`
}

// InputSample is the input state carried by a ClientMessage.
type InputSample struct {
	X, Y     float64
	KeysDown []string
	Wheel    int
}

func newMessage(mode Mode, username string, in InputSample) ClientMessage {
	keys := in.KeysDown
	if keys == nil {
		keys = []string{}
	}
	return ClientMessage{
		Mode:     mode,
		Username: username,
		X:        in.X,
		Y:        in.Y,
		KeysDown: keys,
		Wheel:    in.Wheel,
	}
}

func Login(username string, in InputSample) ClientMessage  { return newMessage(ModeLogin, username, in) }
func Game(username string, in InputSample) ClientMessage   { return newMessage(ModeGame, username, in) }
func Logout(username string, in InputSample) ClientMessage { return newMessage(ModeLogout, username, in) }

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the message before it goes on the wire.
func (m ClientMessage) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("protocol: invalid %s message: %w", m.Mode, err)
	}
	return nil
}

// Encode validates and marshals the message.
func (m ClientMessage) Encode() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}
