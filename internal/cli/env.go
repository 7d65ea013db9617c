package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyleking/lazylaunch/internal/config"
	"github.com/kyleking/lazylaunch/internal/kv"
	"github.com/kyleking/lazylaunch/internal/openable"
	"github.com/kyleking/lazylaunch/internal/session"
)

// env is what a command needs once flags are parsed.
type env struct {
	cfg   *config.Config
	store kv.Store
	sess  *session.Session
	log   *slog.Logger
	out   *OutputFormatter
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("closing storage failed", "error", err)
	}
}

// openEnv loads config and catalog, opens storage and starts a session.
// Logs go to the command's stderr.
func openEnv(cmd *cobra.Command, opts *RootOptions) (*env, error) {
	return openEnvLogging(cmd, opts, cmd.ErrOrStderr())
}

func openEnvLogging(cmd *cobra.Command, opts *RootOptions, logTo io.Writer) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	level, _ := cfg.Level()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(logTo, &slog.HandlerOptions{Level: level}))

	apps, running, err := config.LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	running = append(running, opts.Running...)

	openStore := opts.OpenStore
	if openStore == nil {
		openStore = kv.Open
	}
	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sess, err := session.Open(ctx, session.Options{
		Backend:   store,
		Catalog:   apps,
		Oracle:    openable.NewRunningSet(running...),
		Params:    cfg.Params(),
		Scorer:    cfg.Scorer(),
		Retention: cfg.Tuning.Retention.Duration(),
		Logger:    log,
		Now:       now,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	log.Debug("session ready", "backend", cfg.Storage.Backend, "apps", len(apps), "websites", len(sess.Prefs().Websites))
	return &env{
		cfg:   cfg,
		store: store,
		sess:  sess,
		log:   log,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}, nil
}

// withEnv adapts a command body that needs an env into a cobra RunE.
func withEnv(opts *RootOptions, run func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, opts)
		if err != nil {
			return err
		}
		defer e.Close()
		return run(cmd, e, args)
	}
}
