package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse [URL]",
	Short: "Walk the navigation tree interactively",
	Long:  `Opens an interactive browser over the navigation tree. With a URL the browser starts at the entry selected for that page.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		tree, err := e.loadTree(cmd.Context(), e.cfg.DocsDir)
		if err != nil {
			return err
		}
		start := ""
		if len(args) > 0 {
			start = args[0]
		}
		b := browse.New(tree)
		b.Out = cmd.OutOrStdout()
		return b.Run(start)
	},
}

func init() {
	addDocsFlag(browseCmd)
	rootCmd.AddCommand(browseCmd)
}
