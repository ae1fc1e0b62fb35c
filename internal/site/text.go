package site

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// TextOptions controls WriteText output.
type TextOptions struct {
	// Depth limits the printed levels; 0 prints everything.
	Depth int
	// Links appends each entry's link in parentheses.
	Links bool
	// Active is marked with a leading '*'.
	Active *navtree.Node
}

// WriteText prints nodes as an indented tree using box-drawing characters.
func WriteText(w io.Writer, nodes []*navtree.Node, opts TextOptions) error {
	bw := bufio.NewWriter(w)
	writeText(bw, nodes, "", 1, opts)
	return bw.Flush()
}

func writeText(w *bufio.Writer, nodes []*navtree.Node, prefix string, depth int, opts TextOptions) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		mark := ""
		if opts.Active != nil && n == opts.Active {
			mark = "* "
		}
		fmt.Fprintf(w, "%s%s%s%s", prefix, branch, mark, n.Title)
		if opts.Links && n.Link != "" {
			fmt.Fprintf(w, " (%s)", n.Link)
		}
		if n.Deferred() {
			fmt.Fprintf(w, " [%s.js]", n.Ref)
		}
		w.WriteString("\n")

		if opts.Depth == 0 || depth < opts.Depth {
			writeText(w, n.Children, prefix+indent, depth+1, opts)
		}
	}
}
