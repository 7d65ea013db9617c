package cli

import (
	"github.com/spf13/cobra"
)

// OpenView is the JSON shape of an open.
type OpenView struct {
	ID      string `json:"id"`
	Action  string `json:"action"`
	Locator string `json:"locator"`
}

func newOpenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Record an open of an item and print how to open it",
		Long: `Record an open of an item and print its action and locator.

The launcher never starts processes itself; pipe the locator to your
platform's opener (open, xdg-open, start).`,
		Args: cobra.ExactArgs(1),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			id := args[0]
			item, ok := e.sess.Item(id)
			if !ok {
				return unknownItem(id)
			}
			if _, err := e.sess.RecordUsage(cmd.Context(), id); err != nil {
				return err
			}
			view := OpenView{ID: id, Action: item.Action(), Locator: item.Locator}
			return e.out.Message(view, "%s %s", view.Action, view.Locator)
		}),
	}
}
