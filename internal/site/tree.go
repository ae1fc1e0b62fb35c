package site

import (
	"fmt"
	"html"
	"strings"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// SidebarOptions controls Sidebar output.
type SidebarOptions struct {
	// BasePath is prepended to every link (e.g., "../" or "/docs/").
	BasePath string
	// Active is the resolution of the page being displayed. Its ancestors are
	// expanded and its node is marked active.
	Active navtree.Resolution
	// Sync and Label describe the synchronisation control. An empty Label
	// omits the control.
	Sync  bool
	Label string
}

// Sidebar renders the navigation forest as nested <ul><li> HTML, the way the
// Doxygen tree view lays it out. Roots are always expanded.
func Sidebar(tree *navtree.Tree, opts SidebarOptions) string {
	expanded := make(map[*navtree.Node]bool)
	for _, n := range opts.Active.Path {
		expanded[n] = true
	}
	active := opts.Active.Node()

	var b strings.Builder
	state := "nosync"
	if opts.Sync {
		state = "sync"
	}
	fmt.Fprintf(&b, `<div id="nav-tree" class="%s">`+"\n", state)
	if opts.Label != "" {
		fmt.Fprintf(&b, `<a id="nav-sync" class="%s" href="#" title="%s">%s</a>`+"\n",
			state, html.EscapeString(opts.Label), html.EscapeString(opts.Label))
	}
	r := sidebarRenderer{b: &b, base: opts.BasePath, expanded: expanded, active: active}
	r.children(tree.Roots, true)
	b.WriteString("</div>\n")
	return b.String()
}

type sidebarRenderer struct {
	b        *strings.Builder
	base     string
	expanded map[*navtree.Node]bool
	active   *navtree.Node
}

func (r sidebarRenderer) children(nodes []*navtree.Node, root bool) {
	if len(nodes) == 0 {
		return
	}
	r.b.WriteString("<ul>\n")
	for _, n := range nodes {
		var classes []string
		switch {
		case n.Deferred():
			classes = append(classes, "dir", "deferred")
		case len(n.Children) > 0:
			classes = append(classes, "dir")
		default:
			classes = append(classes, "file")
		}
		if len(n.Children) > 0 && (root || r.expanded[n]) {
			classes = append(classes, "expanded")
		}

		fmt.Fprintf(r.b, `<li class="%s"`, strings.Join(classes, " "))
		if n.Deferred() {
			fmt.Fprintf(r.b, ` data-ref="%s"`, html.EscapeString(n.Ref))
		}
		r.b.WriteString(">")
		r.label(n)
		if len(n.Children) > 0 {
			r.b.WriteString("\n")
			r.children(n.Children, false)
		}
		r.b.WriteString("</li>\n")
	}
	r.b.WriteString("</ul>\n")
}

func (r sidebarRenderer) label(n *navtree.Node) {
	title := html.EscapeString(n.Title)
	if n.Link == "" {
		fmt.Fprintf(r.b, `<span class="label">%s</span>`, title)
		return
	}
	activeClass := ""
	if n == r.active {
		activeClass = ` class="active"`
	}
	fmt.Fprintf(r.b, `<a href="%s"%s>%s</a>`, html.EscapeString(r.href(n.Link)), activeClass, title)
}

// href joins the base path and a navigation link. Fragment-only links stay
// relative to the current page.
func (r sidebarRenderer) href(link string) string {
	if strings.HasPrefix(link, "#") || r.base == "" {
		return link
	}
	return strings.TrimSuffix(r.base, "/") + "/" + strings.TrimPrefix(link, "/")
}
