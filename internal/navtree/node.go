// Package navtree loads Doxygen navigation data (NAVTREE, NAVTREEINDEX and
// the synchronisation messages), checks it for consistency and resolves
// displayed pages to their position in the tree.
package navtree

import "strings"

// LinkKind classifies the link of a navigation entry.
type LinkKind uint8

const (
	// LinkNone marks a pure container (null link in the source).
	LinkNone LinkKind = iota
	// LinkPage is a plain page URL such as "todo.html".
	LinkPage
	// LinkAnchor is a page URL with a fragment, "UserManual.html#Debugging".
	LinkAnchor
	// LinkFragment is a fragment with no page part, "#Debugging".
	LinkFragment
)

func (k LinkKind) String() string {
	switch k {
	case LinkPage:
		return "page"
	case LinkAnchor:
		return "anchor"
	case LinkFragment:
		return "fragment"
	default:
		return "none"
	}
}

// Node is one entry of the navigation hierarchy.
type Node struct {
	Title string `json:"title"`
	// Link is empty when the entry is a container without a target.
	Link string `json:"link,omitempty"`
	// Children is nil for leaves and never nil for entries whose source
	// carried an array, even an empty one.
	Children []*Node `json:"children,omitempty"`
	// Ref names the script holding this entry's children when they are
	// generated into a separate file ("modules" for modules.js).
	Ref string `json:"ref,omitempty"`

	parent *Node
}

// Parent returns the enclosing entry, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Kind classifies n.Link.
func (n *Node) Kind() LinkKind { return ClassifyLink(n.Link) }

// Page returns the link without its fragment.
func (n *Node) Page() string {
	page, _ := SplitAnchor(n.Link)
	return page
}

// Anchor returns the fragment of the link without the leading '#'.
func (n *Node) Anchor() string {
	_, anchor := SplitAnchor(n.Link)
	return anchor
}

// IsLeaf reports whether n has neither children nor a deferred subtree.
func (n *Node) IsLeaf() bool { return n.Children == nil && n.Ref == "" }

// Deferred reports whether n's children live in a subtree script that has
// not been loaded.
func (n *Node) Deferred() bool { return n.Children == nil && n.Ref != "" }

// Ancestors returns the chain from the root down to n, inclusive.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// ClassifyLink reports the kind of a link string.
func ClassifyLink(link string) LinkKind {
	switch {
	case link == "":
		return LinkNone
	case strings.HasPrefix(link, "#"):
		return LinkFragment
	case strings.Contains(link, "#"):
		return LinkAnchor
	default:
		return LinkPage
	}
}

// SplitAnchor splits a link at the first '#'.
func SplitAnchor(link string) (page, anchor string) {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		return link[:i], link[i+1:]
	}
	return link, ""
}

// NormalizeURL reduces a displayed URL to the form used in navigation data:
// surrounding space, a leading "./" or "/", and the query string are removed;
// the fragment is kept.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	for strings.HasPrefix(u, "./") || strings.HasPrefix(u, "/") {
		u = strings.TrimPrefix(strings.TrimPrefix(u, "./"), "/")
	}
	if q := strings.IndexByte(u, '?'); q >= 0 {
		rest := ""
		if h := strings.IndexByte(u[q:], '#'); h >= 0 {
			rest = u[q+h:]
		}
		u = u[:q] + rest
	}
	return u
}
