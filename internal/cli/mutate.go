package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kyleking/lazylaunch/internal/openable"
	"github.com/kyleking/lazylaunch/internal/prefs"
	"github.com/kyleking/lazylaunch/internal/session"
)

// setToggle describes one of the id-set toggles.
type setToggle struct {
	apply   func(s *session.Session, ctx context.Context, id string) (bool, error)
	isSet   func(d prefs.Document, id string) bool
	on, off string
}

var (
	pinToggle = setToggle{
		apply: (*session.Session).TogglePin,
		isSet: prefs.Document.IsPinned,
		on:    "pinned", off: "unpinned",
	}
	hideToggle = setToggle{
		apply: (*session.Session).ToggleHidden,
		isSet: prefs.Document.IsHidden,
		on:    "hidden", off: "unhidden",
	}
	runningToggle = setToggle{
		apply: (*session.Session).ToggleRunningCheck,
		isSet: prefs.Document.SkipsRunningCheck,
		on:    "ignoring running state of", off: "checking running state of",
	}
)

// ChangeView is the JSON shape of a mutation result.
type ChangeView struct {
	ID     string `json:"id,omitempty"`
	Change string `json:"change"`
}

func unknownItem(id string) error {
	return fmt.Errorf("unknown item %q", id)
}

func newToggleSetCommand(rootOpts *RootOptions, use, short string, tg setToggle) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			id := args[0]
			changed, err := tg.apply(e.sess, cmd.Context(), id)
			if err != nil {
				return err
			}
			if !changed {
				return unknownItem(id)
			}
			verb := tg.off
			if tg.isSet(e.sess.Prefs(), id) {
				verb = tg.on
			}
			return e.out.Message(ChangeView{ID: id, Change: verb}, "%s %s", verb, id)
		}),
	}
}

func newRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Give an item a custom name",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			changed, err := e.sess.Rename(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !changed {
				return unknownItem(args[0])
			}
			return e.out.Message(ChangeView{ID: args[0], Change: "renamed"}, "renamed %s to %q", args[0], args[1])
		}),
	}
}

func newUnnameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unname <id>",
		Short: "Remove an item's custom name",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			changed, err := e.sess.ClearName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !changed {
				return unknownItem(args[0])
			}
			return e.out.Message(ChangeView{ID: args[0], Change: "name cleared"}, "cleared name of %s", args[0])
		}),
	}
}

func newIconCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "icon <id> [icon]",
		Short: "Set an item's icon, or restore its default when no icon is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			id := args[0]
			var (
				changed bool
				err     error
				change  = "icon reset"
			)
			if len(args) == 2 {
				changed, err = e.sess.SetIcon(cmd.Context(), id, openable.IconRef(args[1]))
				change = "icon set"
			} else {
				changed, err = e.sess.ClearIcon(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			if !changed {
				return unknownItem(id)
			}
			return e.out.Message(ChangeView{ID: id, Change: change}, "%s for %s", change, id)
		}),
	}
}

func newClearIconsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-icons",
		Short: "Empty the icon cache",
		Args:  cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.sess.ClearIconCache(cmd.Context()); err != nil {
				return err
			}
			return e.out.Message(ChangeView{Change: "icon cache cleared"}, "icon cache cleared")
		}),
	}
}

func newSortCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "sort <mode>",
		Short:     "Set the default sort mode (frecency|alphabetical|custom)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(prefs.SortFrecency), string(prefs.SortAlphabetical), string(prefs.SortCustom)},
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			if err := e.sess.SetSortMode(cmd.Context(), prefs.SortMode(args[0])); err != nil {
				return err
			}
			return e.out.Message(ChangeView{Change: "sort " + args[0]}, "sorting by %s", args[0])
		}),
	}
}

func newToggleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Flip a display setting",
	}
	flags := []struct {
		use   string
		short string
		apply func(*session.Session, context.Context) error
		value func(prefs.Document) bool
	}{
		{
			use:   "prioritize-running",
			short: "List running applications first",
			apply: (*session.Session).TogglePrioritizeRunning,
			value: func(d prefs.Document) bool { return d.PrioritizeRunningFirst },
		},
		{
			use:   "show-hidden",
			short: "Show hidden items in their own section",
			apply: (*session.Session).ToggleShowHidden,
			value: func(d prefs.Document) bool { return d.ShowHidden },
		},
	}
	for _, f := range flags {
		cmd.AddCommand(&cobra.Command{
			Use:   f.use,
			Short: f.short,
			Args:  cobra.NoArgs,
			RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
				if err := f.apply(e.sess, cmd.Context()); err != nil {
					return err
				}
				state := "off"
				if f.value(e.sess.Prefs()) {
					state = "on"
				}
				return e.out.Message(ChangeView{Change: f.use + " " + state}, "%s is %s", f.use, state)
			}),
		})
	}
	return cmd
}
