// Package inspect decodes a recorded payload offline and lists the draw
// calls the renderer would issue for it.
package inspect

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/SneakyChocolate/dodgescape/internal/assets"
	"github.com/SneakyChocolate/dodgescape/internal/render"
	"github.com/SneakyChocolate/dodgescape/internal/scene"
)

type Options struct {
	Format         string
	Width, Height  int
	ReferenceWidth float64
	AssetDir       string // optional; resolves Image shapes
}

// Dump decodes the payload read from in and writes one line per draw call
// to out. Recoverable decode problems are reported on errOut.
func Dump(in io.Reader, out, errOut io.Writer, opts Options) error {
	format, err := scene.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("inspect: surface size %dx%d", opts.Width, opts.Height)
	}
	payload, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("inspect: read: %w", err)
	}
	sc, err := scene.Decode(payload, format)
	if sc == nil {
		return fmt.Errorf("inspect: %w", err)
	}
	if err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}

	var images render.ImageSource
	if opts.AssetDir != "" {
		cache := &assets.Cache{}
		if err := cache.Load(context.Background(), assets.FS{FS: os.DirFS(opts.AssetDir)}); err != nil {
			fmt.Fprintf(errOut, "warning: %v\n", err)
		}
		images = cache
	}

	rec := render.NewRecorder(opts.Width, opts.Height)
	render.New(opts.ReferenceWidth, images, nil).Render(rec, sc)
	for _, op := range rec.Ops {
		if _, err := fmt.Fprintln(out, op); err != nil {
			return err
		}
	}
	return nil
}
