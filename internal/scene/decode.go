package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyPayload is returned for a payload with no content at all.
var ErrEmptyPayload = errors.New("scene: empty payload")

// Format selects how inbound payloads are decoded.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatJSON   Format = "json"
	FormatLegacy Format = "legacy"
)

// ParseFormat maps a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatAuto, FormatJSON, FormatLegacy:
		return f, nil
	case "":
		return FormatAuto, nil
	}
	return "", fmt.Errorf("scene: unknown format %q", s)
}

// Decode turns one payload into a Scene. In FormatAuto, payloads that are
// valid JSON take the structured path and everything else is handed to the
// legacy text decoder.
func Decode(payload []byte, format Format) (*Scene, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, ErrEmptyPayload
	}
	switch format {
	case FormatJSON:
		return DecodeJSON(payload)
	case FormatLegacy:
		return DecodeLegacy(payload)
	}
	if json.Valid(payload) {
		return DecodeJSON(payload)
	}
	s, err := DecodeLegacy(payload)
	if len(s.Objects) == 0 && err == nil {
		return nil, fmt.Errorf("scene: payload is neither JSON nor a bracketed scene")
	}
	return s, err
}
