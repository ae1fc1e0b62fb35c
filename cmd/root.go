package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docnav",
	Short: "Inspect, check and serve Doxygen navigation trees",
	Long: `docnav loads the navigation data Doxygen generates next to its HTML output
(navtreedata.js, navtreeindexN.js and the subtree scripts), checks it for
consistency, resolves pages to their place in the tree and serves a
synchronised navigation panel.`,
	SilenceUsage: true,
}

// Execute runs the command line. Interrupts cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
