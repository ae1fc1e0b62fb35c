// Package browse walks a navigation tree interactively in the terminal.
package browse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/site"
)

type itemKind int

const (
	itemNode itemKind = iota
	itemUp
	itemQuit
)

// item is one row of the selection list.
type item struct {
	Label string
	Link  string
	kind  itemKind
	index int
}

// Browser lets the user descend into the tree and inspect entries.
type Browser struct {
	tree     *navtree.Tree
	resolver *navtree.Resolver

	// Stdin and Stdout default to the terminal.
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
	// Out receives entry details; it defaults to os.Stdout.
	Out io.Writer
	// Size is the number of rows shown at once.
	Size int
}

// New returns a browser over tree.
func New(tree *navtree.Tree) *Browser {
	return &Browser{
		tree:     tree,
		resolver: navtree.NewResolver(tree),
		Out:      os.Stdout,
		Size:     15,
	}
}

// Run starts at the level holding the entry for start, or at the roots when
// start is empty or not in the tree. It returns nil when the user quits.
func (b *Browser) Run(start string) error {
	path, cursor := b.startAt(start)

	for {
		items := b.items(path)
		if cursor >= len(items) {
			cursor = 0
		}
		sel := promptui.Select{
			Label:     b.label(path),
			Items:     items,
			Size:      b.Size,
			CursorPos: cursor,
			Stdin:     b.Stdin,
			Stdout:    b.Stdout,
			Templates: &promptui.SelectTemplates{
				Label:    "{{ . }}",
				Active:   "▸ {{ .Label | cyan }}",
				Inactive: "  {{ .Label }}",
				Selected: "{{ .Label | faint }}",
				Details:  "{{ if .Link }}{{ \"Link:\" | faint }} {{ .Link }}{{ end }}",
			},
			Searcher: func(input string, i int) bool {
				return strings.Contains(strings.ToLower(items[i].Label), strings.ToLower(input))
			},
		}

		i, _, err := sel.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("browse: %w", err)
		}

		next, nextCursor, done := b.choose(path, items[i])
		if done {
			return nil
		}
		path, cursor = next, nextCursor
	}
}

// startAt returns the level path and cursor position for a start page.
func (b *Browser) startAt(start string) ([]int, int) {
	if start == "" {
		return []int{}, 0
	}
	res := b.resolver.Resolve(start)
	if !res.Active() || len(res.Indices) == 0 {
		return []int{}, 0
	}
	level := append([]int{}, res.Indices[:len(res.Indices)-1]...)
	cursor := res.Indices[len(res.Indices)-1]
	if len(level) > 0 {
		cursor++ // the ".." row comes first
	}
	return level, cursor
}

// choose applies a selection and returns the next level and cursor.
func (b *Browser) choose(path []int, it item) ([]int, int, bool) {
	switch it.kind {
	case itemQuit:
		return nil, 0, true
	case itemUp:
		parent := path[:len(path)-1]
		cursor := path[len(path)-1]
		if len(parent) > 0 {
			cursor++
		}
		return parent, cursor, false
	}

	nodes := b.level(path)
	n := nodes[it.index]
	child := append(append([]int{}, path...), it.index)
	if len(n.Children) > 0 {
		return child, 1, false
	}
	fmt.Fprint(b.Out, b.Describe(n, child))
	cursor := it.index
	if len(path) > 0 {
		cursor++
	}
	return path, cursor, false
}

// level returns the nodes listed at path: the roots for the empty path,
// otherwise the children of the node at path.
func (b *Browser) level(path []int) []*navtree.Node {
	if len(path) == 0 {
		return b.tree.Roots
	}
	n, ok := b.tree.NodeAt(path)
	if !ok {
		return nil
	}
	return n.Children
}

func (b *Browser) items(path []int) []item {
	var items []item
	if len(path) > 0 {
		items = append(items, item{Label: "..", kind: itemUp})
	}
	for i, n := range b.level(path) {
		label := n.Title
		switch {
		case len(n.Children) > 0:
			label += fmt.Sprintf(" (%d)", len(n.Children))
		case n.Deferred():
			label += fmt.Sprintf(" [%s.js]", n.Ref)
		}
		items = append(items, item{Label: label, Link: n.Link, kind: itemNode, index: i})
	}
	return append(items, item{Label: "quit", kind: itemQuit})
}

func (b *Browser) label(path []int) string {
	if len(path) == 0 {
		return "Navigation"
	}
	n, ok := b.tree.NodeAt(path)
	if !ok {
		return "Navigation"
	}
	return site.Trail(n)
}

// Describe prints the details of the entry at path.
func (b *Browser) Describe(n *navtree.Node, path []int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n", site.Trail(n))
	fmt.Fprintf(&sb, "  path:  %s\n", navtree.FormatPath(path))
	if n.Link == "" {
		sb.WriteString("  link:  (none)\n")
	} else {
		fmt.Fprintf(&sb, "  link:  %s (%s)\n", n.Link, n.Kind())
	}
	if n.Deferred() {
		fmt.Fprintf(&sb, "  children: in %s.js, not loaded\n", n.Ref)
	}
	if n.Kind() == navtree.LinkPage || n.Kind() == navtree.LinkAnchor {
		res := b.resolver.Resolve(n.Link)
		switch {
		case res.IndexPos < 0:
			sb.WriteString("  index: not listed in NAVTREEINDEX\n")
		case res.Node() != n:
			fmt.Fprintf(&sb, "  index: %d (%s), resolves to %s\n", res.IndexPos, res.Entry, navtree.FormatPath(res.Indices))
		default:
			fmt.Fprintf(&sb, "  index: %d (%s)\n", res.IndexPos, res.Entry)
		}
	}
	return sb.String()
}
