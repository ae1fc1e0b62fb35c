package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/site"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find navigation entries by title",
	Long: `Searches entry titles in the loaded tree, ignoring case. With --exported the
search runs over every documentation set written by docnav export.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	addDocsFlag(searchCmd)
	searchCmd.Flags().Int("limit", 20, "maximum number of results (0 for all)")
	searchCmd.Flags().Bool("exported", false, "search the export database instead of the loaded tree")
	searchCmd.Flags().Bool("json", false, "print the results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	if exported, _ := cmd.Flags().GetBool("exported"); exported {
		if _, err := os.Stat(e.cfg.DBPath); err != nil {
			return fmt.Errorf("export database %s: %w\nRun `docnav export` first", e.cfg.DBPath, err)
		}
		store, database, err := openStore(e.cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		entries, err := store.Search(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(w, entries)
		}
		for _, en := range entries {
			fmt.Fprintf(w, "[%s] %s  %s", en.Source, en.Trail, navtree.FormatPath(en.Indices))
			if en.Link != "" {
				fmt.Fprintf(w, "  %s", en.Link)
			}
			fmt.Fprintln(w)
		}
		return nil
	}

	tree, err := e.loadTree(cmd.Context(), e.cfg.DocsDir)
	if err != nil {
		return err
	}
	results := site.Search(tree, args[0], limit)
	if asJSON {
		if results == nil {
			results = []site.SearchEntry{}
		}
		return printJSON(w, results)
	}
	for _, r := range results {
		fmt.Fprintf(w, "%s  %s", r.Trail, navtree.FormatPath(r.Indices))
		if r.Link != "" {
			fmt.Fprintf(w, "  %s", r.Link)
		}
		fmt.Fprintln(w)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches.")
	}
	return nil
}
