package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve URL...",
	Short: "Show where pages sit in the navigation tree",
	Long: `Resolves each page URL the way the navigation panel does when the page is
displayed: the URL is matched against NAVTREEINDEX and the chunk maps, and
the expansion path from the root to the selected entry is printed. A page
missing from the index selects no entry.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	addDocsFlag(resolveCmd)
	resolveCmd.Flags().Bool("json", false, "print the resolutions as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	tree, err := e.loadTree(cmd.Context(), e.cfg.DocsDir)
	if err != nil {
		return err
	}
	resolver := navtree.NewResolver(tree)

	summaries := make([]navtree.Summary, len(args))
	for i, u := range args {
		summaries[i] = resolver.Resolve(u).Summarize()
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(w, summaries)
	}
	for _, s := range summaries {
		switch {
		case s.Active:
			fmt.Fprintf(w, "%s\n  %s\n  path %s, index %d (%s)\n",
				s.URL, strings.Join(s.Path, " > "), navtree.FormatPath(s.Indices), s.IndexPos, s.Entry)
		case s.IndexPos >= 0:
			fmt.Fprintf(w, "%s\n  index %d (%s), no matching entry\n", s.URL, s.IndexPos, s.Entry)
		default:
			fmt.Fprintf(w, "%s\n  not in NAVTREEINDEX\n", s.URL)
		}
	}
	return nil
}
