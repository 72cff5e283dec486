package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SneakyChocolate/dodgescape/internal/assets"
)

func newAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Inspect and repair keyword images",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <dir>",
		Short: "Report format, size and decodability of every keyword image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, r := range assets.Check(os.DirFS(args[0])) {
				fmt.Fprintln(cmd.OutOrStdout(), r)
				if r.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d images unusable", failed, len(assets.Keywords))
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "fix <file>...",
		Short: "Re-encode images as plain PNG (<name>_fixed.png)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range args {
				out, err := assets.Normalize(p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "converted %s to %s\n", p, out)
			}
			return nil
		},
	})
	return cmd
}
