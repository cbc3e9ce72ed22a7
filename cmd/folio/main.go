// cmd/folio/main.go
//
// Folio – portfolio server entry point.
//
// Commands
// --------
//
//	folio serve   run the HTTP server until SIGINT or SIGTERM
//	folio check   load config, content, forms, and every template, then exit
//
// Boot sequence (shared by both commands)
// ---------------------------------------
//
//  1. Bootstrap logger on stderr so config errors are visible.
//  2. Optional Vault client, only when VAULT_ADDR is set.
//  3. Config load (defaults, conf/global.yaml, FOLIO_* env).
//  4. Daily rotating file logger (tees to console when running in a TTY).
//  5. Extra form definitions from forms.dirs.
//  6. Site assembly (theme, views, content, components).
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/app"
	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/form"
	"github.com/yanizio/folio/internal/logger"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/vault"

	_ "github.com/yanizio/folio/components/contact"
	_ "github.com/yanizio/folio/components/pages"
)

var rootFlag string

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Folio – a small, themeable portfolio server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		boot, err := zap.NewProduction()
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(boot)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "",
		"project root holding conf/ (default: FOLIO_ROOT or the nearest parent with conf/global.yaml)")
	rootCmd.AddCommand(serveCmd, checkCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "folio:", err)
		os.Exit(1)
	}
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// site is everything boot() produced.
type site struct {
	cfg   *config.Config
	app   *app.App
	log   *zap.SugaredLogger
	vault *vault.Client // nil without VAULT_ADDR
	close func()
}

// boot runs the shared start-up sequence.  The caller must call close.
func boot(ctx context.Context, tee bool) (*site, error) {
	//
	// ── 1.  Secrets ─────────────────────────────────────────────────────
	//
	var (
		vc       *vault.Client
		resolver config.SecretResolver
	)
	if os.Getenv("VAULT_ADDR") != "" {
		var err error
		if vc, err = vault.New(config.Defaults().Vault.CacheTTL, zap.S()); err != nil {
			return nil, err
		}
		resolver = vc
	}

	//
	// ── 2.  Config and logger ───────────────────────────────────────────
	//
	cfg, err := config.Load(ctx, config.Options{Root: rootFlag, Resolver: resolver})
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Abs(cfg.Log.Dir), cfg.Log.Level, tee)
	if err != nil {
		return nil, err
	}
	closers := []func(){func() { _ = log.Sync() }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	//
	// ── 3.  Forms and geo ───────────────────────────────────────────────
	//
	dirs := make([]string, len(cfg.Forms.Dirs))
	for i, d := range cfg.Forms.Dirs {
		dirs[i] = cfg.Abs(d)
	}
	n, err := form.RegisterForms(dirs)
	if err != nil {
		cleanup()
		return nil, err
	}
	log.Infow("form definitions loaded", "files", n, "forms", form.IDs())

	opts := app.Options{Config: cfg, Logger: log}
	if cfg.Geo.DBPath != "" {
		reader, err := requestinfo.OpenGeo(cfg.Abs(cfg.Geo.DBPath))
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, func() { _ = reader.Close() })
		opts.Geo = reader
		log.Infow("geo database online", "path", cfg.Geo.DBPath)
	}

	//
	// ── 4.  Site ────────────────────────────────────────────────────────
	//
	a, err := app.New(opts)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &site{cfg: cfg, app: a, log: log, vault: vc, close: cleanup}, nil
}
