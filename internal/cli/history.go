package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cli/go-gh/v2/pkg/jsonpretty"
	"github.com/cli/go-gh/v2/pkg/text"
	"github.com/spf13/cobra"

	"github.com/kyleking/lazylaunch/internal/frecency"
	"github.com/kyleking/lazylaunch/internal/prefs"
)

// HistoryView is the JSON shape of one history row.
type HistoryView struct {
	ID       string    `json:"id"`
	Score    float64   `json:"score"`
	Opens    int       `json:"opens"`
	LastUsed time.Time `json:"lastUsed"`
}

func newHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show items by frecency with their open counts",
		Args:  cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			now := e.sess.Now()
			top := frecency.Top(e.sess.History(), now, e.sess.Params(), limit)

			rows := make([]HistoryView, len(top))
			for i, r := range top {
				rows[i] = HistoryView{ID: r.ID, Score: r.Score, Opens: r.Count, LastUsed: r.LastUsed}
			}
			return e.out.Success(rows, func(w io.Writer) error {
				if len(rows) == 0 {
					_, err := fmt.Fprintln(w, "No usage recorded")
					return err
				}
				for _, r := range rows {
					_, err := fmt.Fprintf(w, "%-*s %7.3f  %-10s %s\n",
						nameWidth, text.Truncate(nameWidth, r.ID), r.Score,
						text.Pluralize(r.Opens, "open"), text.RelativeTimeAgo(now, r.LastUsed))
					if err != nil {
						return err
					}
				}
				return nil
			})
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n items (0 for all)")
	return cmd
}

func newResetHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset-history",
		Short: "Forget every recorded open",
		Args:  cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			if !yes {
				return errors.New("refusing to reset history without --yes")
			}
			if err := e.sess.ResetHistory(cmd.Context()); err != nil {
				return err
			}
			return e.out.Message(ChangeView{Change: "history reset"}, "history reset")
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

func newPrefsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prefs",
		Short: "Print the stored preference document",
		Args:  cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			doc := e.sess.Prefs()
			return e.out.Success(doc, func(w io.Writer) error {
				data, err := prefs.Encode(doc)
				if err != nil {
					return err
				}
				return jsonpretty.Format(w, bytes.NewReader(data), "  ", false)
			})
		}),
	}
}
