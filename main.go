package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/SneakyChocolate/dodgescape/internal/assets"
	"github.com/SneakyChocolate/dodgescape/internal/config"
	"github.com/SneakyChocolate/dodgescape/internal/game"
	"github.com/SneakyChocolate/dodgescape/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		verbose bool
	)
	root := &cobra.Command{
		Use:           "dodgescape",
		Short:         "Dodgescape game client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(cfgPath, verbose)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file (default: <profile dir>/config.yaml)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "also log to stderr")
	root.AddCommand(newDumpCmd(), newAssetsCmd())
	return root
}

func runClient(cfgPath string, verbose bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogFile, verbose)
	if err != nil {
		return err
	}
	defer logging.Sync(log)
	log.Infow("client starting", "server", cfg.ServerURL, "transport", cfg.Transport, "format", cfg.Format)

	var src assets.Source = assets.HTTP{Base: cfg.APIBase}
	if cfg.AssetDir != "" {
		src = assets.FS{FS: os.DirFS(cfg.AssetDir)}
	}
	cache := &assets.Cache{Log: log}
	// images show up once loaded; until then Image shapes draw nothing
	go func() { _ = cache.Load(context.Background(), src) }()

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("Dodgescape")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(game.New(cfg, cache, log)); err != nil {
		log.Errorw("game loop", "err", err)
		return err
	}
	log.Infow("client stopped")
	return nil
}
