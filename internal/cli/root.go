// Package cli is the lazylaunch command tree.
package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyleking/lazylaunch/internal/kv"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Verbose    bool
	Running    []string

	// OpenStore opens the storage backend. Nil uses kv.Open.
	OpenStore func(ctx context.Context, cfg kv.Config) (kv.Store, error)
	// Now is the clock. Nil uses time.Now.
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. A nil opts uses defaults.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts == nil {
		opts = &RootOptions{}
	}

	cmd := &cobra.Command{
		Use:   "lazylaunch",
		Short: "Rank and open your applications and websites",
		Long: `lazylaunch keeps a ranked list of applications and bookmarked websites.

Items are ordered by frecency (how often and how recently you opened them),
filtered by a fuzzy search, and grouped into pinned, regular and hidden
sections according to your preferences.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default is the user config dir)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringSliceVar(&opts.Running, "running", nil, "names of applications currently running")

	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newOpenCommand(opts))
	cmd.AddCommand(newToggleSetCommand(opts, "pin", "Pin or unpin an item", pinToggle))
	cmd.AddCommand(newToggleSetCommand(opts, "hide", "Hide or unhide an item", hideToggle))
	cmd.AddCommand(newToggleSetCommand(opts, "ignore-running", "Stop or resume checking whether an app is running", runningToggle))
	cmd.AddCommand(newRenameCommand(opts))
	cmd.AddCommand(newUnnameCommand(opts))
	cmd.AddCommand(newIconCommand(opts))
	cmd.AddCommand(newClearIconsCommand(opts))
	cmd.AddCommand(newSortCommand(opts))
	cmd.AddCommand(newToggleCommand(opts))
	cmd.AddCommand(newWebsiteCommand(opts))
	cmd.AddCommand(newTagCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newResetHistoryCommand(opts))
	cmd.AddCommand(newPrefsCommand(opts))
	cmd.AddCommand(newTUICommand(opts))

	return cmd
}
