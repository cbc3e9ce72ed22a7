package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/server"
)

// reloadDebounce absorbs editor save bursts.
const reloadDebounce = 250 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	s, err := boot(ctx, runningInTTY())
	if err != nil {
		return err
	}
	defer s.close()

	cfg := s.cfg
	srv := server.New(cfg.HTTP.ListenAddr, s.app.Handler(), server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(gctx, srv, nil, cfg.HTTP.ShutdownTimeout, s.log)
	})
	if cfg.Content.Watch {
		g.Go(func() error { return s.watch(gctx) })
	}
	if s.vault != nil {
		g.Go(func() error { return s.vault.KeepTokenAlive(gctx) })
	}
	return g.Wait()
}

// watch hot-reloads the content file and conf/global.yaml.  A failed
// reload is logged and the previous state keeps serving.
func (s *site) watch(ctx context.Context) error {
	contentPath := absOrEmpty(s.app.Store().Path())
	confPath := absOrEmpty(filepath.Join(s.cfg.Paths.Root, "conf", "global.yaml"))

	return config.Watch(ctx, []string{contentPath, confPath}, reloadDebounce, func(changed []string) {
		for _, p := range changed {
			switch p {
			case contentPath:
				if err := s.app.Store().Reload(); err != nil {
					s.log.Errorw("content reload failed; keeping previous", "err", err)
				}
			case confPath:
				if err := config.Reload(ctx); err != nil {
					s.log.Errorw("config reload failed; keeping previous", "err", err)
					continue
				}
				s.app.SetConfig(config.Get())
				s.log.Infow("config reloaded")
			}
		}
	})
}

// absOrEmpty matches the absolute names config.Watch reports.
func absOrEmpty(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
