package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/linkcheck"
	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/progress"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the navigation data for consistency",
	Long: `Loads the navigation scripts and verifies that NAVTREEINDEX agrees with the
tree: without chunk scripts every index entry must name the page at the same
position of the flattened tree; with chunk scripts every chunk entry must
point at a node for its page. With --anchors the HTML pages are opened and
every linked anchor is looked up.`,
	RunE: runCheck,
}

func init() {
	addDocsFlag(checkCmd)
	checkCmd.Flags().Bool("anchors", false, "also verify that linked pages and anchors exist in the HTML")
	checkCmd.Flags().Bool("json", false, "print the report as JSON")
	rootCmd.AddCommand(checkCmd)
}

type checkReport struct {
	*navtree.Report
	Findings []string          `json:"findings"`
	Anchors  *linkcheck.Result `json:"anchors,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	tree, err := e.loadTree(cmd.Context(), e.cfg.DocsDir)
	if err != nil {
		return err
	}
	rep := tree.Check()
	out := checkReport{Report: rep, Findings: rep.Findings()}
	problems := len(out.Findings)

	if anchors, _ := cmd.Flags().GetBool("anchors"); anchors {
		checker := &linkcheck.Checker{
			FS:       os.DirFS(e.cfg.DocsDir),
			Log:      e.log,
			Progress: progress.NewReporter("Checking pages"),
		}
		res, err := checker.Check(cmd.Context(), tree)
		if err != nil {
			return fmt.Errorf("checking anchors: %w", err)
		}
		out.Anchors = res
		problems += len(res.Broken)
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := printJSON(w, out); err != nil {
			return err
		}
	} else {
		mode := "flat index"
		if rep.Chunked {
			mode = "chunked index"
		}
		fmt.Fprintf(w, "%s: %d nodes, %d pages, %d index entries (%s)\n",
			e.cfg.DocsDir, rep.Nodes, rep.Pages, rep.IndexEntries, mode)
		for _, f := range out.Findings {
			fmt.Fprintf(w, "  %s\n", f)
		}
		if out.Anchors != nil {
			fmt.Fprintf(w, "anchors: %d links on %d pages, %d skipped\n",
				out.Anchors.Links, out.Anchors.Pages, out.Anchors.Skipped)
			for _, b := range out.Anchors.Broken {
				fmt.Fprintf(w, "  %s\n", b)
			}
		}
		if problems == 0 {
			fmt.Fprintln(w, "OK")
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	return nil
}
