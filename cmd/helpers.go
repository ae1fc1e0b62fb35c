package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/config"
	"github.com/ziadkadry99/docnav/internal/db"
	"github.com/ziadkadry99/docnav/internal/navstore"
	"github.com/ziadkadry99/docnav/internal/navtree"
)

// env is what most commands need: the configuration and a logger.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	closer io.Closer
}

func (e *env) Close() {
	e.log.Sync()
	e.closer.Close()
}

// setup loads the config and builds the logger. --verbose raises the
// console level to debug.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("docs"); dir != "" {
		cfg.DocsDir = dir
	}
	if verbose {
		cfg.Log.Level = config.LogDebug
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log, closer, err := cfg.Log.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return &env{cfg: cfg, log: log, closer: closer}, nil
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docnav init` to create a config file", err)
	}
	return cfg, nil
}

// loadTree loads the documentation set in dir with the configured options.
func (e *env) loadTree(ctx context.Context, dir string) (*navtree.Tree, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("docs directory %s: %w\nSet docs_dir in %s or pass --docs", dir, err, cfgFile)
	}
	loader := navtree.NewLoader(os.DirFS(dir),
		navtree.WithLogger(e.log),
		navtree.WithStrict(e.cfg.Strict),
		navtree.WithChunks(e.cfg.Chunks),
	)
	tree, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	e.log.Debug("navigation loaded",
		zap.String("dir", dir),
		zap.Int("nodes", tree.Count()),
		zap.Int("index_entries", len(tree.Index)),
		zap.Bool("chunked", tree.Chunked()),
		zap.Int("issues", len(tree.Issues)),
	)
	for _, issue := range tree.Issues {
		e.log.Warn("navigation data", zap.Error(issue))
	}
	return tree, nil
}

// openStore opens the export database at path.
func openStore(path string) (*navstore.Store, *db.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return navstore.New(database), database, nil
}

// addDocsFlag registers --docs, overriding docs_dir from the config.
func addDocsFlag(cmd *cobra.Command) {
	cmd.Flags().String("docs", "", "Doxygen HTML output directory (overrides docs_dir)")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
