package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docnav/internal/db"
	"github.com/ziadkadry99/docnav/internal/navstore"
	"github.com/ziadkadry99/docnav/internal/navtree"
)

const testNav = `var NAVTREE = [
  [ "Proj", "index.html", [
    [ "User Manual", "UserManual.html", [
      [ "Debugging", "UserManual.html#Debugging", null ]
    ] ],
    [ "Group X", "group_x.html", [
      [ "Anchor one", "group_x.html#anchor1", null ]
    ] ],
    [ "Modules", "modules.html", "modules" ]
  ] ]
];
var NAVTREEINDEX = [ "index.html", "UserManual.html", "UserManual.html#Debugging", "group_x.html", "group_x.html#anchor1", "modules.html" ];`

func newTestServer(t *testing.T, src string) *Server {
	t.Helper()
	tree, err := navtree.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewServer(tree)
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sb strings.Builder
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String(), result.IsError
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"resolve_page", resolvePageTool, "resolve_page"},
		{"get_subtree", getSubtreeTool, "get_subtree"},
		{"check_navtree", checkNavtreeTool, "check_navtree"},
		{"get_outline", getOutlineTool, "get_outline"},
		{"search_navtree", searchNavtreeTool, "search_navtree"},
		{"lookup_exported", lookupExportedTool, "lookup_exported"},
		{"search_exported", searchExportedTool, "search_exported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, testNav)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.resolver == nil || srv.resolver.Tree() != srv.tree {
		t.Error("resolver not built for the tree")
	}
}

func TestHandleResolvePage(t *testing.T) {
	srv := newTestServer(t, testNav)

	t.Run("anchor", func(t *testing.T) {
		text, isErr := call(t, srv.handleResolvePage, map[string]any{"url": "group_x.html#anchor1"})
		if isErr {
			t.Fatalf("unexpected tool error: %s", text)
		}
		for _, want := range []string{"Entry: Anchor one (group_x.html#anchor1)", "Path: [0,1,0]", "Index position: 4", "    - Anchor one"} {
			if !strings.Contains(text, want) {
				t.Errorf("missing %q in:\n%s", want, text)
			}
		}
	})

	t.Run("unindexed", func(t *testing.T) {
		text, isErr := call(t, srv.handleResolvePage, map[string]any{"url": "other.html"})
		if isErr || !strings.Contains(text, "not listed in NAVTREEINDEX") {
			t.Errorf("got %q (error %v)", text, isErr)
		}
	})

	t.Run("missing url", func(t *testing.T) {
		if _, isErr := call(t, srv.handleResolvePage, map[string]any{}); !isErr {
			t.Error("expected error for missing url")
		}
	})
}

func TestHandleGetSubtree(t *testing.T) {
	srv := newTestServer(t, testNav)

	text, isErr := call(t, srv.handleGetSubtree, map[string]any{"path": "[0,1]"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "Group X") || !strings.Contains(text, "Anchor one") || strings.Contains(text, "Debugging") {
		t.Errorf("subtree:\n%s", text)
	}

	whole, _ := call(t, srv.handleGetSubtree, map[string]any{"depth": 2})
	if !strings.Contains(whole, "User Manual") || strings.Contains(whole, "Debugging") {
		t.Errorf("depth-limited forest:\n%s", whole)
	}

	if _, isErr := call(t, srv.handleGetSubtree, map[string]any{"path": "0/9"}); !isErr {
		t.Error("expected error for a path with no entry")
	}
	if _, isErr := call(t, srv.handleGetSubtree, map[string]any{"path": "x"}); !isErr {
		t.Error("expected error for a malformed path")
	}
}

func TestHandleCheckNavtree(t *testing.T) {
	text, _ := call(t, newTestServer(t, testNav).handleCheckNavtree, nil)
	if !strings.Contains(text, "No problems found.") {
		t.Errorf("consistent tree reported problems:\n%s", text)
	}

	broken := strings.Replace(testNav, `"group_x.html#anchor1", "modules.html"`, `"modules.html"`, 1)
	text, _ = call(t, newTestServer(t, broken).handleCheckNavtree, nil)
	if !strings.Contains(text, "problem(s):") || !strings.Contains(text, "6 pages but NAVTREEINDEX has 5 entries") {
		t.Errorf("expected findings:\n%s", text)
	}
}

func TestHandleGetOutline(t *testing.T) {
	text, isErr := call(t, newTestServer(t, testNav).handleGetOutline, nil)
	if isErr {
		t.Fatal(text)
	}
	if !strings.HasPrefix(text, "# Proj") || !strings.Contains(text, "[Anchor one](<group_x.html#anchor1>)") {
		t.Errorf("outline:\n%s", text)
	}
}

func TestHandleSearchNavtree(t *testing.T) {
	srv := newTestServer(t, testNav)
	text, _ := call(t, srv.handleSearchNavtree, map[string]any{"query": "anchor"})
	if !strings.Contains(text, "Proj > Group X > Anchor one") {
		t.Errorf("search:\n%s", text)
	}
	if text, _ := call(t, srv.handleSearchNavtree, map[string]any{"query": "zzz"}); text != "No results found." {
		t.Errorf("empty search = %q", text)
	}
	if _, isErr := call(t, srv.handleSearchNavtree, map[string]any{}); !isErr {
		t.Error("expected error for missing query")
	}
}

func TestStoreTools(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := navstore.New(database)

	srv := newTestServer(t, testNav)
	if _, err := store.Export(context.Background(), "api/html", "h", srv.tree); err != nil {
		t.Fatalf("Export: %v", err)
	}
	srv.SetStore(store)

	text, isErr := call(t, srv.handleLookupExported, map[string]any{"url": "UserManual.html#Debugging"})
	if isErr || !strings.Contains(text, "[api/html] Proj > User Manual > Debugging") || !strings.Contains(text, "Index position: 2") {
		t.Errorf("lookup:\n%s", text)
	}

	text, _ = call(t, srv.handleLookupExported, map[string]any{"url": "nope.html"})
	if !strings.Contains(text, "docnav export") {
		t.Errorf("missing lookup = %q", text)
	}

	text, _ = call(t, srv.handleSearchExported, map[string]any{"query": "group", "limit": 5})
	if !strings.Contains(text, "Found 1 entry:") {
		t.Errorf("search:\n%s", text)
	}
}
