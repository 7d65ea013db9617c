package cli

import (
	"github.com/spf13/cobra"

	"github.com/kyleking/lazylaunch/internal/openable"
)

func newWebsiteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "website",
		Short: "Manage bookmarked websites",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <url>",
		Short: "Bookmark a website",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			site, err := openable.NewWebsite(args[0], args[1])
			if err != nil {
				return err
			}
			if err := e.sess.AddWebsite(cmd.Context(), site); err != nil {
				return err
			}
			return e.out.Message(ChangeView{ID: site.ID, Change: "website added"}, "added %s (%s)", site.Name, site.ID)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a bookmarked website and its history",
		Args:    cobra.ExactArgs(1),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			changed, err := e.sess.RemoveWebsite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !changed {
				return unknownItem(args[0])
			}
			return e.out.Message(ChangeView{ID: args[0], Change: "website removed"}, "removed %s", args[0])
		}),
	})

	return cmd
}
