package textproto

import (
	"errors"
	"strings"
)

// ErrAttributeNotFound is returned by Extract when the fragment does not
// contain the "<name>: " signature.
var ErrAttributeNotFound = errors.New("textproto: attribute not found")

// Extract returns the value written after the first "<name>: " in
// fragment. The value ends at the nearest following space or comma, or at
// the end of the fragment when neither follows.
func Extract(fragment, name string) (string, error) {
	signature := name + ": "
	idx := strings.Index(fragment, signature)
	if idx < 0 {
		return "", ErrAttributeNotFound
	}
	start := idx + len(signature)
	end := closest(fragment, start, ' ', ',')
	if end < 0 {
		end = len(fragment)
	}
	return fragment[start:end], nil
}

// Rest returns everything after the first "<name>: " in fragment. It is
// used for values that carry their own bracket structure, such as a list of
// corners.
func Rest(fragment, name string) (string, error) {
	signature := name + ": "
	idx := strings.Index(fragment, signature)
	if idx < 0 {
		return "", ErrAttributeNotFound
	}
	return fragment[idx+len(signature):], nil
}

// closest returns the smallest index >= offset of any of the given bytes,
// or -1 if none occurs.
func closest(s string, offset int, chars ...byte) int {
	min := -1
	for _, c := range chars {
		i := strings.IndexByte(s[offset:], c)
		if i < 0 {
			continue
		}
		if i += offset; min < 0 || i < min {
			min = i
		}
	}
	return min
}
