package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/site"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print or export the navigation tree",
	Long: `Prints the navigation tree as an indented outline. --markdown prints a
Markdown outline instead, and --html writes a static navigation bundle
(sidebar fragment, outline pages and stylesheet) to a directory.`,
	RunE: runTree,
}

func init() {
	addDocsFlag(treeCmd)
	treeCmd.Flags().Int("depth", 0, "number of levels to print (0 prints all)")
	treeCmd.Flags().Bool("links", false, "print each entry's link")
	treeCmd.Flags().String("path", "", "index path of the subtree to print, e.g. [0,3]")
	treeCmd.Flags().String("active", "", "mark the entry selected for this page")
	treeCmd.Flags().Bool("markdown", false, "print a Markdown outline")
	treeCmd.Flags().String("html", "", "write a static navigation bundle to this directory")
	treeCmd.Flags().String("base", "", "link prefix for the --html bundle, relative to the output directory")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	tree, err := e.loadTree(cmd.Context(), e.cfg.DocsDir)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if dir, _ := cmd.Flags().GetString("html"); dir != "" {
		base, _ := cmd.Flags().GetString("base")
		n, err := site.NewGenerator(dir).Generate(tree, base)
		if err != nil {
			return fmt.Errorf("generating bundle: %w", err)
		}
		fmt.Fprintf(w, "Navigation bundle written to %s (%d files)\n", dir, n)
		return nil
	}

	if md, _ := cmd.Flags().GetBool("markdown"); md {
		_, err := fmt.Fprint(w, site.Outline(tree))
		return err
	}

	nodes := tree.Roots
	if p, _ := cmd.Flags().GetString("path"); p != "" {
		path, err := navtree.ParsePath(p)
		if err != nil {
			return err
		}
		n, ok := tree.NodeAt(path)
		if !ok {
			return fmt.Errorf("no entry at %s", navtree.FormatPath(path))
		}
		nodes = []*navtree.Node{n}
	}

	opts := site.TextOptions{}
	opts.Depth, _ = cmd.Flags().GetInt("depth")
	opts.Links, _ = cmd.Flags().GetBool("links")
	if active, _ := cmd.Flags().GetString("active"); active != "" {
		opts.Active = navtree.NewResolver(tree).Resolve(active).Node()
	}
	return site.WriteText(w, nodes, opts)
}
