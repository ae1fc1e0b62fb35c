package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documentation with a synchronised navigation panel",
	Long: `Starts an HTTP server for the Doxygen output with a JSON API over the
navigation tree, per-panel synchronisation state, and a WebSocket that keeps a
sidebar in step with the displayed page. With watching enabled the tree is
reloaded when the navigation scripts change.`,
	RunE: runServe,
}

func init() {
	addDocsFlag(serveCmd)
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().Bool("open", false, "open the outline page in a browser")
	serveCmd.Flags().Bool("no-watch", false, "do not reload when navigation scripts change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		e.cfg.Server.Port = port
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		e.cfg.Server.Watch = false
	}

	ctx := cmd.Context()
	dir := e.cfg.DocsDir
	tree, err := e.loadTree(ctx, dir)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:     e.cfg.Server.Port,
		DocsDir:  dir,
		AllowAll: e.cfg.Server.AllowAllOrigins,
	}, tree, e.log)

	if e.cfg.Server.Watch {
		load := func(ctx context.Context) (*navtree.Tree, error) {
			return e.loadTree(ctx, dir)
		}
		go func() {
			if err := srv.Watch(ctx, dir, load); err != nil {
				e.log.Warn("live reload disabled", zap.Error(err))
			}
		}()
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	url := fmt.Sprintf("http://localhost:%d/outline", e.cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "docnav %s serving %s on port %d\n", Version, dir, e.cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "  Outline: %s\n", url)
	fmt.Fprintf(os.Stderr, "  Nodes: %d, index entries: %d\n", tree.Count(), len(tree.Index))
	if open, _ := cmd.Flags().GetBool("open"); open {
		openBrowser(url)
	}

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
