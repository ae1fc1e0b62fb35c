package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// Asset names served next to the documentation.
const (
	StylesheetName = "docnav.css"
	ScriptName     = "docnav.js"
)

// PageData holds the data passed to the page template.
type PageData struct {
	Title    string
	BasePath string
	Sidebar  template.HTML
	Content  template.HTML
	// Script includes docnav.js, which needs a running server.
	Script bool
}

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// RenderPage writes a complete HTML page.
func RenderPage(w io.Writer, data PageData) error {
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page %q: %w", data.Title, err)
	}
	return nil
}

// Stylesheet returns the sidebar CSS.
func Stylesheet() string { return cssContent }

// Script returns the client script that talks to the /ws panel endpoint.
func Script() string { return jsContent }

// Generator writes a static navigation bundle for a loaded tree.
type Generator struct {
	OutputDir string
}

// NewGenerator creates a Generator writing to outputDir.
func NewGenerator(outputDir string) *Generator {
	return &Generator{OutputDir: outputDir}
}

// Generate writes the sidebar fragment, the Markdown and HTML outlines and
// the stylesheet. Links in the outline page point back to docsBase. Returns
// the number of files written.
func (g *Generator) Generate(tree *navtree.Tree, docsBase string) (int, error) {
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output dir: %w", err)
	}

	sidebar := Sidebar(tree, SidebarOptions{BasePath: docsBase})
	outlineHTML, err := RenderOutline(tree)
	if err != nil {
		return 0, err
	}

	title := "Navigation"
	if len(tree.Roots) > 0 && tree.Roots[0].Title != "" {
		title = tree.Roots[0].Title
	}
	var page bytes.Buffer
	if err := RenderPage(&page, PageData{
		Title:   title,
		Sidebar: template.HTML(sidebar),
		Content: template.HTML(outlineHTML),
	}); err != nil {
		return 0, err
	}

	files := []struct {
		name string
		data []byte
	}{
		{"sidebar.html", []byte(sidebar)},
		{"outline.md", []byte(Outline(tree))},
		{"outline.html", page.Bytes()},
		{StylesheetName, []byte(cssContent)},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(g.OutputDir, f.name), f.data, 0o644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", f.name, err)
		}
	}
	return len(files), nil
}
