package navtree

import (
	"fmt"
	"sort"
	"strings"
)

// Pages flattens the forest depth-first in document order, keeping nodes
// whose link names a page (not empty, not fragment-only). Each distinct link
// appears once, at its first occurrence.
func (t *Tree) Pages() []*Node {
	var pages []*Node
	seen := make(map[string]bool)
	t.Walk(func(n *Node, _ []int) bool {
		switch n.Kind() {
		case LinkPage, LinkAnchor:
			key := strings.ToLower(NormalizeURL(n.Link))
			if !seen[key] {
				seen[key] = true
				pages = append(pages, n)
			}
		}
		return true
	})
	return pages
}

// Mismatch is a NAVTREEINDEX position whose entry does not name the page at
// the same position of the flattened tree. Either side may be empty when the
// sequences differ in length.
type Mismatch struct {
	Position int    `json:"position"`
	Page     string `json:"page"`
	Entry    string `json:"entry"`
}

// Report is the result of Check.
type Report struct {
	// Chunked is set when NAVTREEINDEX was checked as a chunk table.
	Chunked      bool          `json:"chunked"`
	Nodes        int           `json:"nodes"`
	Pages        int           `json:"pages"`
	IndexEntries int           `json:"index_entries"`
	Mismatches   []Mismatch    `json:"mismatches,omitempty"`
	Unresolved   []string      `json:"unresolved,omitempty"`
	Problems     []string      `json:"problems,omitempty"`
	Issues       []*ShapeError `json:"-"`
}

// OK reports whether the check found nothing.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0 && len(r.Unresolved) == 0 && len(r.Problems) == 0 && len(r.Issues) == 0
}

// Findings lists every problem as a line of text.
func (r *Report) Findings() []string {
	var out []string
	for _, issue := range r.Issues {
		out = append(out, issue.Error())
	}
	if !r.Chunked && r.Pages != r.IndexEntries {
		out = append(out, fmt.Sprintf("tree has %d pages but NAVTREEINDEX has %d entries", r.Pages, r.IndexEntries))
	}
	for _, m := range r.Mismatches {
		out = append(out, fmt.Sprintf("position %d: page %q, index entry %q", m.Position, m.Page, m.Entry))
	}
	for _, u := range r.Unresolved {
		out = append(out, fmt.Sprintf("index entry %q does not resolve to a matching node", u))
	}
	out = append(out, r.Problems...)
	return out
}

// Check verifies that NAVTREEINDEX agrees with the tree. Without chunk maps,
// entry i must name the i-th page of Pages. With chunk maps, the index must
// be sorted, every chunk key must fall in its chunk's range and point at a
// node for that page. In both modes every index entry must resolve to a node
// whose link matches it.
func (t *Tree) Check() *Report {
	rep := &Report{
		Chunked:      t.Chunked(),
		Nodes:        t.Count(),
		IndexEntries: len(t.Index),
		Issues:       t.Issues,
	}
	pages := t.Pages()
	rep.Pages = len(pages)

	if rep.Chunked {
		t.checkChunks(rep)
	} else {
		for i := 0; i < len(pages) || i < len(t.Index); i++ {
			var m Mismatch
			m.Position = i
			if i < len(pages) {
				m.Page = pages[i].Link
			}
			if i < len(t.Index) {
				m.Entry = t.Index[i]
			}
			if !sameLink(m.Page, m.Entry) {
				rep.Mismatches = append(rep.Mismatches, m)
			}
		}
	}

	r := NewResolver(t)
	for _, entry := range t.Index {
		res := r.Resolve(entry)
		if !res.Active() || !linkMatches(res.Node().Link, entry, rep.Chunked) {
			rep.Unresolved = append(rep.Unresolved, entry)
		}
	}
	return rep
}

func (t *Tree) checkChunks(rep *Report) {
	if !sort.StringsAreSorted(t.Index) {
		rep.Problems = append(rep.Problems, "NAVTREEINDEX is not sorted")
	}
	for i, chunk := range t.Chunks {
		if chunk == nil {
			rep.Problems = append(rep.Problems, fmt.Sprintf("chunk %d is missing", i))
			continue
		}
		lo := t.Index[i]
		hi := ""
		if i+1 < len(t.Index) {
			hi = t.Index[i+1]
		}
		keys := make([]string, 0, len(chunk))
		for k := range chunk {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k < lo || (hi != "" && k >= hi) {
				rep.Problems = append(rep.Problems, fmt.Sprintf("%s: %q is outside [%q, %q)", ChunkScript(i), k, lo, hi))
				continue
			}
			n, ok := t.NodeAt(chunk[k])
			if !ok {
				rep.Problems = append(rep.Problems, fmt.Sprintf("%s: %q points at missing entry %s", ChunkScript(i), k, FormatPath(chunk[k])))
				continue
			}
			if !linkMatches(n.Link, k, true) {
				rep.Problems = append(rep.Problems, fmt.Sprintf("%s: %q points at %q (%s)", ChunkScript(i), k, n.Title, n.Link))
			}
		}
	}
}

func sameLink(a, b string) bool {
	return strings.EqualFold(NormalizeURL(a), NormalizeURL(b))
}

// linkMatches compares a node link with an index URL. In chunked output a
// key may name an anchor on the node's page, so only pages are compared.
func linkMatches(link, url string, pageOnly bool) bool {
	if sameLink(link, url) {
		return true
	}
	if !pageOnly {
		return false
	}
	lp, _ := SplitAnchor(NormalizeURL(link))
	up, _ := SplitAnchor(NormalizeURL(url))
	return strings.EqualFold(lp, up)
}
