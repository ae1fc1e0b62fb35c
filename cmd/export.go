package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/walker"
)

var exportCmd = &cobra.Command{
	Use:   "export [ROOT]",
	Short: "Export documentation sets into a SQLite database",
	Long: `Finds every Doxygen HTML output directory (a directory holding
navtreedata.js) under ROOT, default the current directory, filtered by the
include and exclude patterns of the config, and writes their navigation trees
to db_path. Sets whose navtreedata.js did not change since the last export
are skipped unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Bool("force", false, "re-export unchanged documentation sets")
	exportCmd.Flags().String("db", "", "database path (overrides db_path)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	dbPath := e.cfg.DBPath
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		dbPath = p
	}
	force, _ := cmd.Flags().GetBool("force")

	sets, err := walker.Walk(walker.WalkerConfig{
		RootDir: root,
		Include: e.cfg.Include,
		Exclude: e.cfg.Exclude,
	})
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return fmt.Errorf("no navtreedata.js found under %s", root)
	}

	store, database, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	var errs error
	exported, skipped := 0, 0
	for _, set := range sets {
		log := e.log.With(zap.String("dir", set.RelDir))
		if !force {
			same, err := store.Unchanged(ctx, set.RelDir, set.DataHash)
			if err != nil {
				return err
			}
			if same {
				log.Debug("unchanged, skipping")
				skipped++
				continue
			}
		}

		tree, err := e.loadTree(ctx, set.Dir)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		n, err := store.Export(ctx, set.RelDir, set.DataHash, tree)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("exporting %s: %w", set.RelDir, err))
			continue
		}
		log.Info("exported", zap.Int("nodes", n), zap.Int("scripts", set.Scripts))
		fmt.Fprintf(w, "%s: %d nodes\n", set.RelDir, n)
		exported++
	}

	fmt.Fprintf(w, "Exported %d documentation set(s) to %s, %d unchanged\n", exported, dbPath, skipped)
	return errs
}
