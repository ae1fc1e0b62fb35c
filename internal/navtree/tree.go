package navtree

import "go.uber.org/multierr"

// Messages are the two labels of the synchronisation control.
type Messages struct {
	// SyncOn is shown while synchronisation is enabled (SYNCONMSG).
	SyncOn string `json:"sync_on"`
	// SyncOff is shown while synchronisation is disabled (SYNCOFFMSG).
	SyncOff string `json:"sync_off"`
}

// DefaultMessages are Doxygen's English labels, used when a data script
// does not define SYNCONMSG or SYNCOFFMSG.
var DefaultMessages = Messages{
	SyncOn:  "click to disable panel synchronisation",
	SyncOff: "click to enable panel synchronisation",
}

// Tree is a loaded navigation data set.
type Tree struct {
	Roots []*Node
	// Index is NAVTREEINDEX in source order.
	Index []string
	// Chunks holds NAVTREEINDEXn maps from page URL to index path, one per
	// Index entry, when the chunk scripts were available.
	Chunks   []map[string][]int
	Messages Messages
	// Issues are the non-fatal findings collected while loading.
	Issues []*ShapeError
}

// Err combines all load findings into one error, or nil when there were none.
func (t *Tree) Err() error {
	var err error
	for _, issue := range t.Issues {
		err = multierr.Append(err, issue)
	}
	return err
}

// Chunked reports whether NAVTREEINDEX acts as a table of chunk boundaries.
func (t *Tree) Chunked() bool { return len(t.Chunks) > 0 }

// Walk visits every node depth-first in document order. path is the index
// path of the node within the forest; fn must copy it to keep it. Returning
// false from fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node, path []int) bool) {
	var walk func(nodes []*Node, path []int)
	walk = func(nodes []*Node, path []int) {
		for i, n := range nodes {
			p := append(path, i)
			if fn(n, p) {
				walk(n.Children, p)
			}
		}
	}
	walk(t.Roots, make([]int, 0, 8))
}

// NodeAt follows an index path from the forest. An empty path selects the
// first root, which is where Doxygen lands for the main page.
func (t *Tree) NodeAt(path []int) (*Node, bool) {
	if len(t.Roots) == 0 {
		return nil, false
	}
	if len(path) == 0 {
		return t.Roots[0], true
	}
	nodes := t.Roots
	var n *Node
	for _, i := range path {
		if i < 0 || i >= len(nodes) {
			return nil, false
		}
		n = nodes[i]
		nodes = n.Children
	}
	return n, true
}

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int {
	count := 0
	t.Walk(func(*Node, []int) bool {
		count++
		return true
	})
	return count
}
