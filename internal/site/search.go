package site

import (
	"strings"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// SearchEntry is one navigation entry matching a title query.
type SearchEntry struct {
	Title   string `json:"title"`
	Link    string `json:"link,omitempty"`
	Indices []int  `json:"indices"`
	// Trail is the titles from the root to the entry, joined by " > ".
	Trail string `json:"trail"`
}

// Search returns the entries whose title contains query, ignoring case, in
// document order. A limit of 0 or less returns every match.
func Search(tree *navtree.Tree, query string, limit int) []SearchEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []SearchEntry
	tree.Walk(func(n *navtree.Node, path []int) bool {
		if limit > 0 && len(results) >= limit {
			return false
		}
		if strings.Contains(strings.ToLower(n.Title), q) {
			results = append(results, SearchEntry{
				Title:   n.Title,
				Link:    n.Link,
				Indices: append([]int{}, path...),
				Trail:   Trail(n),
			})
		}
		return true
	})
	return results
}

// Trail joins the titles from the root down to n.
func Trail(n *navtree.Node) string {
	chain := n.Ancestors()
	titles := make([]string, len(chain))
	for i, a := range chain {
		titles[i] = a.Title
	}
	return strings.Join(titles, " > ")
}
