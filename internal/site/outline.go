package site

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// markdown is shared by all outline renders; goldmark.Markdown is safe for
// concurrent use.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Outline writes the forest as a Markdown nested list with one link per
// entry. The first root's title becomes the heading.
func Outline(tree *navtree.Tree) string {
	var b strings.Builder
	if len(tree.Roots) > 0 && tree.Roots[0].Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(tree.Roots[0].Title))
	}
	var walk func(nodes []*navtree.Node, depth int)
	walk = func(nodes []*navtree.Node, depth int) {
		for _, n := range nodes {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("- ")
			title := escapeMarkdown(n.Title)
			if title == "" {
				title = "(untitled)"
			}
			if n.Link != "" {
				fmt.Fprintf(&b, "[%s](<%s>)", title, n.Link)
			} else {
				b.WriteString(title)
			}
			if n.Deferred() {
				fmt.Fprintf(&b, " *(%s.js not loaded)*", escapeMarkdown(n.Ref))
			}
			b.WriteString("\n")
			walk(n.Children, depth+1)
		}
	}
	walk(tree.Roots, 0)
	return b.String()
}

// RenderOutline converts Outline to HTML.
func RenderOutline(tree *navtree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Outline(tree)), &buf); err != nil {
		return nil, fmt.Errorf("rendering outline: %w", err)
	}
	return buf.Bytes(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`<`, `&lt;`,
	`>`, `&gt;`,
)

// escapeMarkdown escapes inline markup and anything at the start of s that
// would open a heading or a nested list.
func escapeMarkdown(s string) string {
	s = markdownEscaper.Replace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	switch {
	case i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')'):
		return s[:i] + `\` + s[i:]
	case i == 0 && s != "" && strings.ContainsRune("#+-", rune(s[0])):
		return `\` + s
	}
	return s
}
