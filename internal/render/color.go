package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var named = map[string]color.NRGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"cyan":        {0, 255, 255, 255},
	"aqua":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"fuchsia":     {255, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"pink":        {255, 192, 203, 255},
	"brown":       {165, 42, 42, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor understands the CSS color forms the server sends: #rgb,
// #rrggbb, rgb(), rgba(), hsl(), hsla() and a handful of names.
func ParseColor(s string) (color.Color, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[in]; ok {
		return c, nil
	}
	if strings.HasPrefix(in, "#") {
		c, err := colorful.Hex(in)
		if err != nil {
			return nil, fmt.Errorf("render: color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{r, g, b, 255}, nil
	}

	fn, args, ok := splitFunc(in)
	if !ok {
		return nil, fmt.Errorf("render: unknown color %q", s)
	}
	switch fn {
	case "rgb", "rgba":
		if len(args) != 3 && len(args) != 4 {
			break
		}
		var ch [3]uint8
		for i := range 3 {
			v, err := channel(args[i])
			if err != nil {
				return nil, fmt.Errorf("render: color %q: %w", s, err)
			}
			ch[i] = v
		}
		a, err := alpha(args[3:])
		if err != nil {
			return nil, fmt.Errorf("render: color %q: %w", s, err)
		}
		return color.NRGBA{ch[0], ch[1], ch[2], a}, nil
	case "hsl", "hsla":
		if len(args) != 3 && len(args) != 4 {
			break
		}
		h, err1 := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
		sat, err2 := percent(args[1])
		l, err3 := percent(args[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("render: color %q: bad hsl component", s)
		}
		a, err := alpha(args[3:])
		if err != nil {
			return nil, fmt.Errorf("render: color %q: %w", s, err)
		}
		r, g, b := colorful.Hsl(h, sat, l).Clamped().RGB255()
		return color.NRGBA{r, g, b, a}, nil
	}
	return nil, fmt.Errorf("render: unsupported color %q", s)
}

// splitFunc splits "name(a, b, c)" into its name and arguments. Commas,
// spaces and the "/" alpha separator all delimit arguments.
func splitFunc(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	body := s[open+1 : len(s)-1]
	args := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t'
	})
	return strings.TrimSpace(s[:open]), args, true
}

func channel(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		p, err := percent(s)
		if err != nil {
			return 0, err
		}
		return uint8(p*255 + 0.5), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return uint8(clamp(v, 0, 255) + 0.5), nil
}

// percent parses "50%" as 0.5. A bare number is taken as a fraction.
func percent(s string) (float64, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		return clamp(v/100, 0, 1), err
	}
	v, err := strconv.ParseFloat(s, 64)
	return clamp(v, 0, 1), err
}

func alpha(rest []string) (uint8, error) {
	if len(rest) == 0 {
		return 255, nil
	}
	a, err := percent(rest[0])
	if err != nil {
		return 0, err
	}
	return uint8(a*255 + 0.5), nil
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
