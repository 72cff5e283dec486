package inspect

import (
	"bytes"
	"strings"
	"testing"
)

func defaultDump() Options {
	return Options{Format: "auto", Width: 1920, Height: 1080, ReferenceWidth: 1920}
}

func TestDumpJSON(t *testing.T) {
	payload := `{"objects":[null,{"radius":20,"position":{"x":5,"y":5},"camera":{"x":5,"y":5},"zoom":1,
		"draw_pack":{"color":"rgb(255,0,0)","offset":[0,0],"shape":{"Circle":{"radius":{"Relative":0.5}}}}}]}`
	var out, errOut bytes.Buffer
	if err := Dump(strings.NewReader(payload), &out, &errOut, defaultDump()); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	want := "clear #000000ff\ncircle #ff0000ff 960 540 10\n"
	if out.String() != want {
		t.Fatalf("out = %q, want %q", out.String(), want)
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected warnings: %s", errOut.String())
	}
}

func TestDumpHalfWidth(t *testing.T) {
	payload := `{"objects":[{"radius":1,"position":{"x":0,"y":0},"camera":{"x":0,"y":0},"zoom":1,
		"draw_pack":{"color":"#0000ff","offset":[0,0],"shape":{"Rectangle":{"width":100,"height":50}}}}]}`
	opts := defaultDump()
	opts.Width, opts.Height = 960, 540
	var out bytes.Buffer
	if err := Dump(strings.NewReader(payload), &out, &bytes.Buffer{}, opts); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || lines[1] != "rect #0000ffff 480 270 50 25" {
		t.Fatalf("lines = %q", lines)
	}
}

func TestDumpRejectsGarbage(t *testing.T) {
	var out bytes.Buffer
	if err := Dump(strings.NewReader("nothing to see"), &out, &bytes.Buffer{}, defaultDump()); err == nil {
		t.Fatal("want error for an undecodable payload")
	}
	opts := defaultDump()
	opts.Format = "yaml"
	if err := Dump(strings.NewReader("{}"), &out, &bytes.Buffer{}, opts); err == nil {
		t.Fatal("want error for an unknown format")
	}
}

func TestDumpLegacyWithWarning(t *testing.T) {
	payload := `[{"red", Circle { radius: 3 }, (0, 0)}, {"red", Rectangle { width: 2 }, (0, 0)}]`
	var out, errOut bytes.Buffer
	if err := Dump(strings.NewReader(payload), &out, &errOut, defaultDump()); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if out.String() != "clear #000000ff\ncircle #ff0000ff 960 540 3\n" {
		t.Fatalf("out = %q", out.String())
	}
	if !strings.HasPrefix(errOut.String(), "warning:") {
		t.Fatalf("errOut = %q", errOut.String())
	}
}
