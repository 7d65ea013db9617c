package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/cli/go-gh/v2/pkg/text"
	"github.com/spf13/cobra"

	"github.com/kyleking/lazylaunch/internal/openable"
	"github.com/kyleking/lazylaunch/internal/prefs"
	"github.com/kyleking/lazylaunch/internal/rank"
)

const nameWidth = 24

// EntryView is the JSON shape of one ranked item.
type EntryView struct {
	ID          string           `json:"id"`
	Kind        openable.Kind    `json:"kind"`
	Name        string           `json:"name"`
	DisplayName string           `json:"displayName"`
	Locator     string           `json:"locator"`
	Icon        openable.IconRef `json:"icon,omitempty"`
	Running     bool             `json:"running"`
	Frecency    float64          `json:"frecency"`
	Relevance   float64          `json:"relevance"`
}

// ListView is the JSON shape of a ranking pass.
type ListView struct {
	Query   string      `json:"query"`
	Sort    string      `json:"sort"`
	Pinned  []EntryView `json:"pinned"`
	Regular []EntryView `json:"regular"`
	Hidden  []EntryView `json:"hidden"`
}

type listOptions struct {
	sort   string
	scores bool
}

func newListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list [query...]",
		Short: "Show ranked items, optionally filtered by a fuzzy query",
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, e *env, args []string) error {
			return runList(e, opts, strings.Join(args, " "))
		}),
	}
	cmd.Flags().StringVar(&opts.sort, "sort", "", "sort mode for this listing (frecency|alphabetical|custom)")
	cmd.Flags().BoolVar(&opts.scores, "scores", false, "show frecency and relevance scores")
	return cmd
}

func runList(e *env, opts *listOptions, query string) error {
	doc := e.sess.Prefs()
	mode := doc.SortMode
	if opts.sort != "" {
		mode = prefs.SortMode(opts.sort)
		if !mode.Valid() {
			return fmt.Errorf("unknown sort mode %q: must be one of %v", opts.sort, prefs.SortModes)
		}
	}

	p := rank.Rank(rank.Input{
		Items:    e.sess.Items(),
		Prefs:    doc,
		History:  e.sess.History(),
		Query:    query,
		SortMode: mode,
		Params:   e.sess.Params(),
		Scorer:   e.cfg.Scorer(),
		Now:      e.sess.Now(),
	})

	view := ListView{
		Query:   query,
		Sort:    string(mode),
		Pinned:  entryViews(p.Pinned, doc),
		Regular: entryViews(p.Regular, doc),
		Hidden:  entryViews(p.Hidden, doc),
	}
	return e.out.Success(view, func(w io.Writer) error {
		return renderList(w, p, opts.scores)
	})
}

func entryViews(es []rank.Entry, doc prefs.Document) []EntryView {
	out := make([]EntryView, len(es))
	for i, en := range es {
		out[i] = EntryView{
			ID:          en.Item.ID,
			Kind:        en.Item.Kind,
			Name:        en.Item.Name,
			DisplayName: en.DisplayName,
			Locator:     en.Item.Locator,
			Icon:        doc.IconFor(en.Item),
			Running:     en.Item.Running,
			Frecency:    en.Frecency,
			Relevance:   en.Relevance.Score,
		}
	}
	return out
}

// renderList writes the three sections. Empty sections are omitted.
func renderList(w io.Writer, p rank.Partitions, scores bool) error {
	if p.Len() == 0 {
		_, err := fmt.Fprintln(w, "No matching items")
		return err
	}
	sections := []struct {
		title   string
		entries []rank.Entry
	}{
		{"Pinned", p.Pinned},
		{"All", p.Regular},
		{"Hidden", p.Hidden},
	}
	for _, s := range sections {
		if len(s.entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%s)\n", s.title, text.Pluralize(len(s.entries), "item"))
		for _, en := range s.entries {
			marker := " "
			if en.Item.Running {
				marker = "*"
			}
			line := fmt.Sprintf("  %s %-*s %-8s %s", marker, nameWidth, text.Truncate(nameWidth, en.DisplayName), en.Item.Action(), en.Item.Locator)
			if scores {
				line += fmt.Sprintf("  frecency=%.3f relevance=%.3f", en.Frecency, en.Relevance.Score)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
