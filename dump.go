package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/SneakyChocolate/dodgescape/internal/inspect"
	"github.com/SneakyChocolate/dodgescape/internal/render"
)

func newDumpCmd() *cobra.Command {
	opts := inspect.Options{}
	cmd := &cobra.Command{
		Use:   "dump [file|-]",
		Short: "Decode a scene payload and print the draw calls it produces",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := io.Reader(cmd.InOrStdin())
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return inspect.Dump(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", "auto", "payload format: auto, json or legacy")
	cmd.Flags().IntVar(&opts.Width, "width", 1920, "surface width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 1080, "surface height in pixels")
	cmd.Flags().Float64Var(&opts.ReferenceWidth, "reference-width", render.DefaultReferenceWidth, "width at which one world unit is one pixel")
	cmd.Flags().StringVar(&opts.AssetDir, "assets", "", "directory with keyword images, so Image shapes are resolved")
	return cmd
}
