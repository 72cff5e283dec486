package textproto

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		name string
		in   string
		sep  byte
		want []string
	}{
		{"flat", "{a,b,c}", ',', []string{"a", "b", "c"}},
		{"nested groups stay whole", "pre{a,(x,y),c}post", ',', []string{"a", "(x,y)", "c"}},
		{"no brackets", "no brackets here", ',', nil},
		{"separator outside group", "a,b{c,d},e", ',', []string{"c", "d"}},
		{"mismatched kinds balance", "{a,(b,c},d)", ',', []string{"a", "(b,c}", "d"}},
		{"empty group", "[]", ',', []string{""}},
		{"two top-level groups", "(a,b)[c]", ',', []string{"a", "b", "c"}},
		{"other separator", "{a;b,c}", ';', []string{"a", "b,c"}},
		{"leading spaces kept", "[ {x}, {y}]", ',', []string{" {x}", " {y}"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Split(tc.in, tc.sep)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Split(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	cases := []struct {
		fragment, name, want string
	}{
		{"radius: 12, color: red", "radius", "12"},
		{"radius: 12, color: red", "color", "red"},
		// the value stops at the first space, not at the comma
		{"content: hi there, size: 5", "content", "hi"},
		{" Circle { radius: Relative(1.5) }", "radius", "Relative(1.5)"},
		{"width: 7", "width", "7"},
	}
	for _, tc := range cases {
		got, err := Extract(tc.fragment, tc.name)
		if err != nil {
			t.Fatalf("Extract(%q, %q): %v", tc.fragment, tc.name, err)
		}
		if got != tc.want {
			t.Errorf("Extract(%q, %q) = %q, want %q", tc.fragment, tc.name, got, tc.want)
		}
	}
}

func TestExtractMissing(t *testing.T) {
	if _, err := Extract("size: 5", "content"); !errors.Is(err, ErrAttributeNotFound) {
		t.Fatalf("want ErrAttributeNotFound, got %v", err)
	}
	// "radius:" without the trailing space is not the signature
	if _, err := Extract("radius:12", "radius"); !errors.Is(err, ErrAttributeNotFound) {
		t.Fatalf("want ErrAttributeNotFound, got %v", err)
	}
}

func TestRest(t *testing.T) {
	got, err := Rest("Poly { corners: [(1, 2), (3, 4)] }", "corners")
	if err != nil {
		t.Fatal(err)
	}
	if got != "[(1, 2), (3, 4)] }" {
		t.Fatalf("got %q", got)
	}
}
