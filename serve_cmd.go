package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/mondrian/art"
	"github.com/ByLCY/mondrian/cache"
	"github.com/ByLCY/mondrian/config"
	"github.com/ByLCY/mondrian/server"
)

func newServeCommand(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动预览页面",
		RunE: func(c *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "监听地址，默认取配置文件中的 server.addr")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, addr string) error {
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	base, err := loadSettings(cfg.Art.File)
	if err != nil {
		return err
	}
	if cfg.Render.Resolution > 0 && base.Resolution == art.DefaultSettings().Resolution {
		base.Resolution = cfg.Render.Resolution
	}

	opts := server.Options{
		Decoder: cfg.Render.Decoder,
		Policy:  policy,
		Timeout: cfg.Render.Timeout,
		Logger:  slog.Default(),
		Base:    base,
		Seed:    base.Seed,
	}
	if cfg.Render.CacheMaxCost > 0 {
		c, err := cache.New(cfg.Render.CacheMaxCost)
		if err != nil {
			return err
		}
		defer c.Close()
		opts.Cache = c
	}

	srv, err := server.New(opts)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down preview server")
	if err := srv.Shutdown(5 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}
