package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kyleking/lazylaunch/internal/app"
	"github.com/kyleking/lazylaunch/internal/config"
	"github.com/kyleking/lazylaunch/internal/kv"
)

func newTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Search and open items interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal is in the alternate screen, so logs go to a file.
			logFile, err := openTUILog()
			if err != nil {
				return err
			}
			defer logFile.Close()

			e, err := openEnvLogging(cmd, rootOpts, logFile)
			if err != nil {
				return err
			}
			defer e.Close()

			opts := app.RunOptions{Logger: e.log}
			if f, ok := e.store.(*kv.File); ok {
				opts.Watch = f.Watch
			}
			return app.Run(cmd.Context(), e.sess, opts)
		},
	}
}

func openTUILog() (*os.File, error) {
	dir := config.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
