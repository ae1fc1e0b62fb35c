package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

const testNav = `var NAVTREE = [
  [ "Proj", "index.html", [
    [ "User Manual", "UserManual.html", [
      [ "Debugging", "UserManual.html#Debugging", null ]
    ] ],
    [ "Group X", "group_x.html", [
      [ "Anchor one", "group_x.html#anchor1", null ]
    ] ]
  ] ]
];
var NAVTREEINDEX = [ "index.html", "UserManual.html", "UserManual.html#Debugging", "group_x.html", "group_x.html#anchor1" ];
var SYNCONMSG = 'click to disable panel synchronisation';
var SYNCOFFMSG = 'click to enable panel synchronisation';`

func parseTree(t *testing.T, src string) *navtree.Tree {
	t.Helper()
	tree, err := navtree.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	return New(cfg, parseTree(t, testNav), nil)
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthCheck(t *testing.T) {
	w := do(t, newTestServer(t, Config{}), "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode[map[string]string](t, w)
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/api/tree", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestTreeAndIndex(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := do(t, srv, "GET", "/api/tree", "")
	if w.Code != http.StatusOK {
		t.Fatalf("tree: %d", w.Code)
	}
	tree := decode[treeResponse](t, w)
	if tree.Nodes != 5 || len(tree.Roots) != 1 || tree.Roots[0].Children[1].Title != "Group X" {
		t.Errorf("unexpected tree: %+v", tree)
	}
	if tree.Messages.SyncOn != "click to disable panel synchronisation" {
		t.Errorf("messages = %+v", tree.Messages)
	}

	index := decode[[]string](t, do(t, srv, "GET", "/api/index", ""))
	if len(index) != 5 || index[4] != "group_x.html#anchor1" {
		t.Errorf("index = %v", index)
	}
}

func TestResolve(t *testing.T) {
	srv := newTestServer(t, Config{})

	got := decode[navtree.Summary](t, do(t, srv, "GET", "/api/resolve?url=group_x.html%23anchor1", ""))
	want := navtree.Summary{
		URL:      "group_x.html#anchor1",
		Active:   true,
		IndexPos: 4,
		Entry:    "group_x.html#anchor1",
		Indices:  []int{0, 1, 0},
		Path:     []string{"Proj", "Group X", "Anchor one"},
		Title:    "Anchor one",
		Link:     "group_x.html#anchor1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolve (-want +got):\n%s", diff)
	}

	missing := decode[navtree.Summary](t, do(t, srv, "GET", "/api/resolve?url=nowhere.html", ""))
	if missing.Active || missing.IndexPos != -1 {
		t.Errorf("unindexed page resolved: %+v", missing)
	}

	if w := do(t, srv, "GET", "/api/resolve", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing url: got %d, want 400", w.Code)
	}
}

func TestCheck(t *testing.T) {
	w := do(t, newTestServer(t, Config{}), "GET", "/api/check", "")
	body := decode[map[string]any](t, w)
	if body["ok"] != true {
		t.Errorf("check not ok: %s", w.Body.String())
	}
	if body["pages"] != float64(5) || body["index_entries"] != float64(5) {
		t.Errorf("counts wrong: %s", w.Body.String())
	}

	srv := New(Config{}, parseTree(t, strings.Replace(testNav, `"index.html", "UserManual.html",`, `"UserManual.html",`, 1)), nil)
	bad := decode[checkResponse](t, do(t, srv, "GET", "/api/check", ""))
	if bad.OK || len(bad.Findings) == 0 {
		t.Errorf("expected findings, got %+v", bad)
	}
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, Config{})
	w := do(t, srv, "GET", "/api/search?q=debug", "")
	if !strings.Contains(w.Body.String(), `"trail":"Proj > User Manual > Debugging"`) {
		t.Errorf("search body = %s", w.Body.String())
	}
	if w := do(t, srv, "GET", "/api/search?q=x&limit=-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("negative limit: got %d", w.Code)
	}
}

func TestSidebarAndOutline(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := do(t, srv, "GET", "/sidebar?url=UserManual.html%23Debugging", "")
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	html := w.Body.String()
	if !strings.Contains(html, `<a href="UserManual.html#Debugging" class="active">Debugging</a>`) {
		t.Errorf("active entry missing:\n%s", html)
	}
	if !strings.Contains(html, `title="click to disable panel synchronisation"`) {
		t.Errorf("sync label missing:\n%s", html)
	}

	off := do(t, srv, "GET", "/sidebar?sync=false", "").Body.String()
	if !strings.Contains(off, `title="click to enable panel synchronisation"`) {
		t.Errorf("disabled label missing:\n%s", off)
	}

	outline := do(t, srv, "GET", "/outline", "").Body.String()
	for _, want := range []string{"<title>Proj</title>", `<a href="group_x.html#anchor1">Anchor one</a>`, `src="/docnav.js"`} {
		if !strings.Contains(outline, want) {
			t.Errorf("outline missing %s", want)
		}
	}

	if w := do(t, srv, "GET", "/docnav.css", ""); !strings.HasPrefix(w.Header().Get("Content-Type"), "text/css") {
		t.Errorf("stylesheet content type = %q", w.Header().Get("Content-Type"))
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "todo.html"), []byte("<h1>Todo</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, Config{DocsDir: dir})
	w := do(t, srv, "GET", "/todo.html", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Todo") {
		t.Errorf("static file: %d %q", w.Code, w.Body.String())
	}
}

func TestPanelLifecycle(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := do(t, srv, "POST", "/api/panels", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	created := decode[panelState](t, w)
	if created.ID == "" || !created.Sync || created.Active.Active {
		t.Fatalf("created = %+v", created)
	}
	base := "/api/panels/" + created.ID

	nav := decode[panelState](t, do(t, srv, "POST", base+"/navigate", `{"url":"UserManual.html#Debugging"}`))
	if !nav.Updated || nav.Active.Title != "Debugging" {
		t.Errorf("navigate = %+v", nav)
	}

	off := decode[panelState](t, do(t, srv, "POST", base+"/toggle", ""))
	if off.Sync || off.Label != "click to enable panel synchronisation" {
		t.Errorf("toggle off = %+v", off)
	}

	frozen := decode[panelState](t, do(t, srv, "POST", base+"/navigate", `{"url":"group_x.html#anchor1"}`))
	if frozen.Updated || frozen.Active.Title != "Debugging" {
		t.Errorf("frozen panel moved: %+v", frozen)
	}

	on := decode[panelState](t, do(t, srv, "POST", base+"/toggle", ""))
	if !on.Sync || on.Label != created.Label {
		t.Errorf("toggle on = %+v", on)
	}
	if !on.Updated || on.Active.Title != "Anchor one" {
		t.Errorf("re-enabled panel should catch up: %+v", on)
	}

	got := decode[panelState](t, do(t, srv, "GET", base, ""))
	if got.ID != created.ID || got.LastURL != "group_x.html#anchor1" {
		t.Errorf("get = %+v", got)
	}

	if w := do(t, srv, "DELETE", base, ""); w.Code != http.StatusNoContent {
		t.Errorf("delete: %d", w.Code)
	}
	if w := do(t, srv, "GET", base, ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: %d", w.Code)
	}
}

func TestPanelBadRequests(t *testing.T) {
	srv := newTestServer(t, Config{})
	if w := do(t, srv, "POST", "/api/panels/nope/toggle", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown panel: %d", w.Code)
	}
	id := decode[panelState](t, do(t, srv, "POST", "/api/panels", "")).ID
	if w := do(t, srv, "POST", "/api/panels/"+id+"/navigate", `{`); w.Code != http.StatusBadRequest {
		t.Errorf("bad body: %d", w.Code)
	}
	if w := do(t, srv, "POST", "/api/panels/"+id+"/navigate", `{"url":""}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty url: %d", w.Code)
	}
}

func TestPanelRegistryEvictsOldest(t *testing.T) {
	reg := newPanelRegistry()
	first, _ := reg.create(navtree.DefaultMessages)
	for i := 0; i < maxPanels; i++ {
		reg.create(navtree.DefaultMessages)
	}
	if _, ok := reg.get(first); ok {
		t.Error("oldest panel should have been evicted")
	}
	if len(reg.panels) != maxPanels {
		t.Errorf("panels = %d, want %d", len(reg.panels), maxPanels)
	}
}

type wsState struct {
	Type    string          `json:"type"`
	Error   string          `json:"error"`
	Sidebar string          `json:"sidebar"`
	Sync    bool            `json:"sync"`
	Label   string          `json:"label"`
	Updated bool            `json:"updated"`
	Active  navtree.Summary `json:"active"`
}

func dialPanel(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, msg map[string]string) wsState {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	return readState(t, conn)
}

func readState(t *testing.T, conn *websocket.Conn) wsState {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var st wsState
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("read: %v", err)
	}
	return st
}

func TestWebSocketPanel(t *testing.T) {
	srv := newTestServer(t, Config{})
	conn := dialPanel(t, srv)

	st := exchange(t, conn, map[string]string{"type": "navigate", "url": "UserManual.html#Debugging"})
	if st.Type != "state" || !st.Sync || !st.Updated || st.Active.Title != "Debugging" {
		t.Fatalf("navigate = %+v", st)
	}
	if !strings.Contains(st.Sidebar, `class="active">Debugging</a>`) {
		t.Errorf("sidebar does not mark the active page:\n%s", st.Sidebar)
	}

	st = exchange(t, conn, map[string]string{"type": "toggle"})
	if st.Sync || st.Label != "click to enable panel synchronisation" {
		t.Errorf("toggle = %+v", st)
	}

	st = exchange(t, conn, map[string]string{"type": "navigate", "url": "group_x.html#anchor1"})
	if st.Updated || st.Active.Title != "Debugging" {
		t.Errorf("frozen panel moved: %+v", st)
	}

	st = exchange(t, conn, map[string]string{"type": "bogus"})
	if st.Type != "error" || !strings.Contains(st.Error, "bogus") {
		t.Errorf("unknown type = %+v", st)
	}
}

func TestReloadPushesState(t *testing.T) {
	srv := newTestServer(t, Config{})
	conn := dialPanel(t, srv)
	exchange(t, conn, map[string]string{"type": "navigate", "url": "group_x.html#anchor1"})

	renamed := strings.Replace(testNav, `"Anchor one"`, `"First anchor"`, 1)
	ok := srv.Reload(context.Background(), func(context.Context) (*navtree.Tree, error) {
		return parseTree(t, renamed), nil
	})
	if !ok {
		t.Fatal("reload failed")
	}

	st := readState(t, conn)
	if st.Active.Title != "First anchor" {
		t.Errorf("pushed state after reload = %+v", st.Active)
	}
	if srv.Tree().Roots[0].Children[1].Children[0].Title != "First anchor" {
		t.Error("tree not swapped")
	}
}

func TestReloadUpdatesSyncLabels(t *testing.T) {
	srv := newTestServer(t, Config{})
	conn := dialPanel(t, srv)
	exchange(t, conn, map[string]string{"type": "toggle"})

	created := decode[panelState](t, do(t, srv, "POST", "/api/panels", ""))

	relabeled := strings.NewReplacer(
		"click to disable panel synchronisation", "stop following",
		"click to enable panel synchronisation", "follow page",
	).Replace(testNav)
	if !srv.Reload(context.Background(), func(context.Context) (*navtree.Tree, error) {
		return parseTree(t, relabeled), nil
	}) {
		t.Fatal("reload failed")
	}

	if st := readState(t, conn); st.Sync || st.Label != "follow page" {
		t.Errorf("pushed state after reload: sync %v label %q", st.Sync, st.Label)
	}
	got := decode[panelState](t, do(t, srv, "GET", "/api/panels/"+created.ID, ""))
	if !got.Sync || got.Label != "stop following" {
		t.Errorf("panel after reload: sync %v label %q", got.Sync, got.Label)
	}
}

func TestReloadFailureKeepsTree(t *testing.T) {
	srv := newTestServer(t, Config{})
	before := srv.Tree()
	ok := srv.Reload(context.Background(), func(context.Context) (*navtree.Tree, error) {
		return nil, navtree.ErrNoNavTree
	})
	if ok || srv.Tree() != before {
		t.Error("failed reload replaced the tree")
	}
}

func TestWatchReloadsOnScriptChange(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, navtree.DataScript)
	if err := os.WriteFile(script, []byte(testNav), 0o644); err != nil {
		t.Fatal(err)
	}
	load := func(ctx context.Context) (*navtree.Tree, error) {
		return navtree.NewLoader(os.DirFS(dir)).Load(ctx)
	}
	tree, err := load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	srv := New(Config{}, tree, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Watch(ctx, dir, load) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	renamed := strings.Replace(testNav, `"Proj"`, `"Renamed"`, 1)
	if err := os.WriteFile(script, []byte(renamed), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if srv.Tree().Roots[0].Title == "Renamed" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("tree was not reloaded after the script changed")
}
