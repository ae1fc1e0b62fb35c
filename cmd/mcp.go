package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcpserver "github.com/ziadkadry99/docnav/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing tools that
resolve pages, print subtrees, check the navigation data and search titles.
When the export database exists, tools that query every exported
documentation set are added.`,
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

		// Set version from the cmd package variable.
		mcpserver.Version = Version
		srv := mcpserver.NewServer(tree)

		if _, err := os.Stat(e.cfg.DBPath); err == nil {
			store, database, err := openStore(e.cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()
			srv.SetStore(store)
			e.log.Info("export database attached", zap.String("path", e.cfg.DBPath))
		}

		fmt.Fprintf(os.Stderr, "docnav MCP server started on stdio (docs=%s, nodes=%d)\n", e.cfg.DocsDir, tree.Count())
		return srv.Serve()
	},
}

func init() {
	addDocsFlag(mcpCmd)
	rootCmd.AddCommand(mcpCmd)
}
