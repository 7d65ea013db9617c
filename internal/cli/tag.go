package cli

import (
	"github.com/spf13/cobra"

	"github.com/kyleking/lazylaunch/internal/openable"
)

func newTagCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Label items with tags",
	}

	var icon, color string
	add := &cobra.Command{
		Use:   "add <id> <title>",
		Short: "Attach a new tag to an item",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			tag, err := openable.NewTag(args[1], openable.IconRef(icon), color)
			if err != nil {
				return err
			}
			changed, err := e.sess.AddTag(cmd.Context(), args[0], tag)
			if err != nil {
				return err
			}
			if !changed {
				return unknownItem(args[0])
			}
			return e.out.Message(tag, "tagged %s with %q (%s)", args[0], tag.Title, tag.ID)
		}),
	}
	add.Flags().StringVar(&icon, "icon", "", "tag icon")
	add.Flags().StringVar(&color, "color", "", "tag color")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id> <tag-id>",
		Short: "Detach a tag from an item",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			changed, err := e.sess.RemoveTag(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !changed {
				return unknownItem(args[0])
			}
			return e.out.Message(ChangeView{ID: args[0], Change: "tag removed"}, "removed tag %s from %s", args[1], args[0])
		}),
	})

	return cmd
}
