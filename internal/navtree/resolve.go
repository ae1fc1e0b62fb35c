package navtree

import (
	"sort"
	"strings"
)

// Resolution is the outcome of resolving a displayed page against the tree.
type Resolution struct {
	URL string `json:"url"`
	// Path runs from the root to the active node; empty when no node is active.
	Path []*Node `json:"-"`
	// Indices is the index path of the active node within the forest.
	Indices []int `json:"indices,omitempty"`
	// IndexPos is the matched NAVTREEINDEX position, -1 when the page is not indexed.
	IndexPos int `json:"index_pos"`
	// Entry is the matched NAVTREEINDEX entry.
	Entry string `json:"entry,omitempty"`
}

// Active reports whether the resolution selects a node.
func (r Resolution) Active() bool { return len(r.Path) > 0 }

// Node returns the active node, or nil.
func (r Resolution) Node() *Node {
	if len(r.Path) == 0 {
		return nil
	}
	return r.Path[len(r.Path)-1]
}

// Titles returns the titles along the expansion path.
func (r Resolution) Titles() []string {
	titles := make([]string, len(r.Path))
	for i, n := range r.Path {
		titles[i] = n.Title
	}
	return titles
}

// Summary is the wire form of a Resolution.
type Summary struct {
	URL      string   `json:"url"`
	Active   bool     `json:"active"`
	IndexPos int      `json:"index_pos"`
	Entry    string   `json:"entry,omitempty"`
	Indices  []int    `json:"indices,omitempty"`
	Path     []string `json:"path,omitempty"`
	Title    string   `json:"title,omitempty"`
	Link     string   `json:"link,omitempty"`
}

// Summarize flattens r for encoding.
func (r Resolution) Summarize() Summary {
	s := Summary{
		URL:      r.URL,
		Active:   r.Active(),
		IndexPos: r.IndexPos,
		Entry:    r.Entry,
		Indices:  r.Indices,
	}
	if n := r.Node(); n != nil {
		s.Path = r.Titles()
		s.Title = n.Title
		s.Link = n.Link
	}
	return s
}

// Resolver maps displayed pages to nodes. It is immutable once built and
// safe for concurrent use.
type Resolver struct {
	tree   *Tree
	byLink map[string][]int
	byFold map[string][]int
	byPage map[string][]int

	// chunkFold maps case-folded chunk keys to their chunk and path.
	chunkFold map[string]chunkHit
}

type chunkHit struct {
	pos  int
	path []int
}

// NewResolver indexes the links of tree. For every link the first node in
// document order wins.
func NewResolver(tree *Tree) *Resolver {
	r := &Resolver{
		tree:   tree,
		byLink: make(map[string][]int),
		byFold: make(map[string][]int),
		byPage: make(map[string][]int),

		chunkFold: make(map[string]chunkHit),
	}
	for pos, chunk := range tree.Chunks {
		keys := make([]string, 0, len(chunk))
		for k := range chunk {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fold := strings.ToLower(k)
			if _, ok := r.chunkFold[fold]; !ok {
				r.chunkFold[fold] = chunkHit{pos: pos, path: chunk[k]}
			}
		}
	}
	pageHasPlain := make(map[string]bool)

	tree.Walk(func(n *Node, p []int) bool {
		if n.Link == "" {
			return true
		}
		link := NormalizeURL(n.Link)
		path := append([]int{}, p...)
		if _, ok := r.byLink[link]; !ok {
			r.byLink[link] = path
		}
		fold := strings.ToLower(link)
		if _, ok := r.byFold[fold]; !ok {
			r.byFold[fold] = path
		}

		page, anchor := SplitAnchor(fold)
		if page == "" {
			return true
		}
		// Prefer the entry for the page itself over entries for its anchors.
		if _, ok := r.byPage[page]; !ok || (anchor == "" && !pageHasPlain[page]) {
			r.byPage[page] = path
			pageHasPlain[page] = anchor == ""
		}
		return true
	})
	return r
}

// Tree returns the tree the resolver was built for.
func (r *Resolver) Tree() *Tree { return r.tree }

// Resolve finds the node for a displayed page. The page must be present in
// NAVTREEINDEX (or, for chunked output, in one of the chunk maps); otherwise
// the result has no active node. Resolve never fails.
func (r *Resolver) Resolve(url string) Resolution {
	u := NormalizeURL(url)
	res := Resolution{URL: u, IndexPos: -1}
	if u == "" {
		return res
	}

	if r.tree.Chunked() {
		if pos, path, ok := r.lookupChunk(u); ok {
			if n, ok := r.tree.NodeAt(path); ok {
				res.IndexPos = pos
				res.Entry = r.tree.Index[pos]
				res.Indices = append([]int{}, path...)
				res.Path = n.Ancestors()
				return res
			}
		}
	}

	pos := r.matchIndex(u)
	if pos < 0 {
		return res
	}
	res.IndexPos = pos
	res.Entry = r.tree.Index[pos]

	path, ok := r.nodeFor(u, res.Entry)
	if !ok {
		return res
	}
	n, _ := r.tree.NodeAt(path)
	res.Indices = path
	res.Path = n.Ancestors()
	return res
}

// matchIndex returns the NAVTREEINDEX position for u, or -1. Each candidate
// (u itself, then its page without the anchor) is compared exactly and then
// case-insensitively.
func (r *Resolver) matchIndex(u string) int {
	index := r.tree.Index
	for _, key := range candidates(u) {
		for i, e := range index {
			if NormalizeURL(e) == key {
				return i
			}
		}
		fold := strings.ToLower(key)
		for i, e := range index {
			if strings.ToLower(NormalizeURL(e)) == fold {
				return i
			}
		}
	}
	return -1
}

// nodeFor picks the most specific node: the one linking to u itself, then
// the one linking to the matched index entry, then the page's own node.
func (r *Resolver) nodeFor(u, entry string) ([]int, bool) {
	if p, ok := r.byLink[u]; ok {
		return p, true
	}
	if p, ok := r.byFold[strings.ToLower(u)]; ok {
		return p, true
	}
	e := NormalizeURL(entry)
	if p, ok := r.byLink[e]; ok {
		return p, true
	}
	if p, ok := r.byFold[strings.ToLower(e)]; ok {
		return p, true
	}
	page, _ := SplitAnchor(strings.ToLower(u))
	p, ok := r.byPage[page]
	return p, ok
}

// lookupChunk locates u in the chunk maps. NAVTREEINDEX then holds the first
// URL of every chunk in sorted order, so the chunk is the last entry not
// greater than u. A miss there is retried case-insensitively across all
// chunks. The page without its anchor is tried when the anchor is not listed.
func (r *Resolver) lookupChunk(u string) (int, []int, bool) {
	for _, key := range candidates(u) {
		if pos := r.chunkFor(key); pos >= 0 && pos < len(r.tree.Chunks) {
			if p, ok := r.tree.Chunks[pos][key]; ok {
				return pos, p, true
			}
		}
		if hit, ok := r.chunkFold[strings.ToLower(key)]; ok {
			return hit.pos, hit.path, true
		}
	}
	return -1, nil, false
}

func (r *Resolver) chunkFor(u string) int {
	index := r.tree.Index
	i := sort.Search(len(index), func(i int) bool { return index[i] > u })
	return i - 1
}

func candidates(u string) []string {
	page, anchor := SplitAnchor(u)
	if anchor == "" {
		return []string{u}
	}
	return []string{u, page}
}
