// Package linkcheck verifies that the pages and anchors named by a navigation
// tree exist in the generated HTML.
package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/progress"
)

// Broken is a navigation entry whose target is missing.
type Broken struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Indices []int  `json:"indices"`
	Reason  string `json:"reason"`
}

func (b Broken) String() string {
	return fmt.Sprintf("%s %q (%s): %s", navtree.FormatPath(b.Indices), b.Title, b.Link, b.Reason)
}

// Result summarises a check.
type Result struct {
	Links   int      `json:"links"`
	Pages   int      `json:"pages"`
	Skipped int      `json:"skipped"`
	Broken  []Broken `json:"broken,omitempty"`
}

// OK reports whether every checked link was found.
func (r *Result) OK() bool { return len(r.Broken) == 0 }

// Checker reads pages from FS, the Doxygen HTML output directory.
type Checker struct {
	FS       fs.FS
	Log      *zap.Logger
	Progress progress.Reporter
}

type target struct {
	node    *navtree.Node
	indices []int
}

// Check verifies every page and anchor link of tree. External links and
// fragment-only links are counted as skipped. Each page is parsed once.
func (c *Checker) Check(ctx context.Context, tree *navtree.Tree) (*Result, error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("linkcheck")
	rep := c.Progress
	if rep == nil {
		rep = progress.Nop{}
	}

	res := &Result{}
	byPage := make(map[string][]target)
	var order []string
	tree.Walk(func(n *navtree.Node, p []int) bool {
		switch n.Kind() {
		case navtree.LinkNone:
			return true
		case navtree.LinkFragment:
			res.Skipped++
			return true
		}
		if isExternal(n.Link) {
			res.Skipped++
			return true
		}
		res.Links++
		page, _ := navtree.SplitAnchor(navtree.NormalizeURL(n.Link))
		if _, ok := byPage[page]; !ok {
			order = append(order, page)
		}
		byPage[page] = append(byPage[page], target{node: n, indices: append([]int{}, p...)})
		return true
	})
	res.Pages = len(order)

	rep.Start(len(order))
	defer rep.Finish()

	for i, page := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rep.Update(i+1, page)

		ids, err := c.anchors(page)
		for _, t := range byPage[page] {
			_, anchor := navtree.SplitAnchor(navtree.NormalizeURL(t.node.Link))
			reason := ""
			switch {
			case errors.Is(err, fs.ErrNotExist):
				reason = "page not found"
			case err != nil:
				reason = err.Error()
			case anchor != "" && !ids[anchor]:
				reason = fmt.Sprintf("anchor %q not found in %s", anchor, page)
			default:
				continue
			}
			res.Broken = append(res.Broken, Broken{
				Title:   t.node.Title,
				Link:    t.node.Link,
				Indices: t.indices,
				Reason:  reason,
			})
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("reading page", zap.String("page", page), zap.Error(err))
		}
	}

	log.Debug("link check finished",
		zap.Int("links", res.Links),
		zap.Int("pages", res.Pages),
		zap.Int("broken", len(res.Broken)),
	)
	return res, nil
}

// anchors returns the fragment targets of page: element ids and the names
// of <a name> elements.
func (c *Checker) anchors(page string) (map[string]bool, error) {
	f, err := c.FS.Open(path.Clean(page))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", page, err)
	}
	ids := make(map[string]bool)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		ids[s.AttrOr("id", "")] = true
	})
	doc.Find("a[name]").Each(func(_ int, s *goquery.Selection) {
		ids[s.AttrOr("name", "")] = true
	})
	return ids, nil
}

func isExternal(link string) bool {
	l := strings.ToLower(link)
	for _, p := range []string{"http:", "https:", "mailto:", "ftp:", "file:"} {
		if strings.HasPrefix(l, p) {
			return true
		}
	}
	return strings.HasPrefix(l, "//")
}
