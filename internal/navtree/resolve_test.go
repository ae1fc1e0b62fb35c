package navtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const manualTree = manualNav + "\n" + manualIndex

const manualNav = `var NAVTREE = [
  [ "Manual", "UserManual.html", [
    [ "Debugging", "UserManual.html#Debugging", [
      [ "Tracing", "UserManual.html#Debugging_Trace", null ]
    ] ],
    [ "Back to top", "#top", null ]
  ] ]
];`

const manualIndex = `var NAVTREEINDEX = [
  "UserManual.html",
  "UserManual.html#Debugging",
  "UserManual.html#Debugging_Trace"
];`

func TestResolvePrefersAnchorNode(t *testing.T) {
	tree := parseString(t, `var NAVTREE = [
  [ "User Manual", "UserManual.html", null ],
  [ "Groups", null, [
    [ "Anchor one", "group_x.html#anchor1", null ]
  ] ]
];
var NAVTREEINDEX = [ "UserManual.html", "group_x.html#anchor1" ];`)

	res := NewResolver(tree).Resolve("group_x.html#anchor1")
	if !res.Active() {
		t.Fatal("expected an active node")
	}
	if got := res.Node().Link; got != "group_x.html#anchor1" {
		t.Errorf("active link = %q, want group_x.html#anchor1", got)
	}
	if diff := cmp.Diff([]string{"Groups", "Anchor one"}, res.Titles()); diff != "" {
		t.Errorf("expansion path (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 0}, res.Indices); diff != "" {
		t.Errorf("indices (-want +got):\n%s", diff)
	}
	if res.IndexPos != 1 {
		t.Errorf("index position = %d, want 1", res.IndexPos)
	}
}

func TestResolveAnchorsMatchWholeNames(t *testing.T) {
	r := NewResolver(parseString(t, `var NAVTREE = [
  [ "User Manual", "UserManual.html", null ],
  [ "Groups", null, [
    [ "Anchor one", "group_x.html#anchor1", null ]
  ] ]
];
var NAVTREEINDEX = [ "UserManual.html", "group_x.html#anchor1" ];`))

	for _, url := range []string{"group_x.html#anchor10", "group_x.html#anchor1_extra", "group_x.html#other"} {
		res := r.Resolve(url)
		if res.Active() || res.IndexPos != -1 {
			t.Errorf("%q resolved to %+v, want no active node", url, res.Summarize())
		}
	}
}

func TestResolveEveryIndexEntry(t *testing.T) {
	for name, tree := range map[string]*Tree{
		"flat":    parseString(t, manualTree),
		"chunked": loadFixture(t),
	} {
		t.Run(name, func(t *testing.T) {
			r := NewResolver(tree)
			for _, entry := range tree.Index {
				res := r.Resolve(entry)
				if !res.Active() {
					t.Errorf("%q: no active node", entry)
					continue
				}
				if !linkMatches(res.Node().Link, entry, tree.Chunked()) {
					t.Errorf("%q resolved to %q", entry, res.Node().Link)
				}
			}
		})
	}
}

func TestResolveFlat(t *testing.T) {
	r := NewResolver(parseString(t, manualTree))

	tests := []struct {
		name     string
		url      string
		wantLink string
		wantPos  int
	}{
		{"page", "UserManual.html", "UserManual.html", 0},
		{"anchor", "UserManual.html#Debugging", "UserManual.html#Debugging", 1},
		{"anchor extending a listed anchor", "UserManual.html#Debugging_Trace_Level", "UserManual.html", 0},
		{"unlisted anchor falls back to page", "UserManual.html#Install", "UserManual.html", 0},
		{"case folded", "usermanual.HTML#debugging", "UserManual.html#Debugging", 1},
		{"leading slash and query", "/UserManual.html?lang=en#Debugging", "UserManual.html#Debugging", 1},
		{"not indexed", "other.html", "", -1},
		{"empty", "", "", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.url)
			if res.IndexPos != tt.wantPos {
				t.Errorf("index position = %d, want %d", res.IndexPos, tt.wantPos)
			}
			var link string
			if n := res.Node(); n != nil {
				link = n.Link
			}
			if link != tt.wantLink {
				t.Errorf("active link = %q, want %q", link, tt.wantLink)
			}
		})
	}
}

func TestResolveUnindexedHasNoActiveNode(t *testing.T) {
	res := NewResolver(loadFixture(t)).Resolve("missing.html")
	if res.Active() || res.Node() != nil || len(res.Indices) != 0 {
		t.Errorf("resolution = %+v, want no active node", res)
	}
	if res.IndexPos != -1 {
		t.Errorf("index position = %d, want -1", res.IndexPos)
	}
}

func TestResolveChunked(t *testing.T) {
	r := NewResolver(loadFixture(t))

	tests := []struct {
		url         string
		wantIndices []int
		wantPos     int
		wantTitle   string
	}{
		{"UserManual.html#Debugging", []int{0, 1, 0, 0, 1}, 0, "1.1.5. Debugging"},
		{"index.html", []int{}, 3, "NexMotion"},
		{"todo.html?print=1", []int{0, 2}, 3, "Todo List"},
		{"group___group___base___calibration.html#ga212a197a1198a13d0bb4672ec4e207a5", []int{0, 3, 1}, 2, "Group Base Calibration"},
		// Unknown member anchors land on the group page, found in the previous chunk.
		{"group___group___base___calibration.html#gaffff", []int{0, 3, 1}, 1, "Group Base Calibration"},
		{"struct_n_m_c___g_r_o_u_p___p_a_r_a_m.html", []int{0, 4, 0, 1}, 3, "NMC_GROUP_PARAM"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			res := r.Resolve(tt.url)
			if !res.Active() {
				t.Fatal("no active node")
			}
			if diff := cmp.Diff(tt.wantIndices, res.Indices); diff != "" {
				t.Errorf("indices (-want +got):\n%s", diff)
			}
			if res.IndexPos != tt.wantPos {
				t.Errorf("chunk = %d, want %d", res.IndexPos, tt.wantPos)
			}
			if got := res.Node().Title; got != tt.wantTitle {
				t.Errorf("title = %q, want %q", got, tt.wantTitle)
			}
		})
	}
}

func TestResolveChunkedCaseInsensitive(t *testing.T) {
	r := NewResolver(loadFixture(t))

	res := r.Resolve("USERMANUAL.html#debugging")
	if !res.Active() {
		t.Fatal("no active node")
	}
	want := []string{"NexMotion", "User Manual", "1.Programming Principles", "1.1. System Operations", "1.1.5. Debugging"}
	if diff := cmp.Diff(want, res.Titles()); diff != "" {
		t.Errorf("expansion path (-want +got):\n%s", diff)
	}

	// These sort into a different chunk, or before the first one, once the
	// case changes.
	tests := []struct {
		url         string
		wantIndices []int
		wantPos     int
	}{
		{"TODO.html", []int{0, 2}, 3},
		{"Todo.html", []int{0, 2}, 3},
		{"GROUP___coord___type.html", []int{0, 3, 0}, 0},
		{"GROUP___COORD___TYPE.html#unknown", []int{0, 3, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			res := r.Resolve(tt.url)
			if !res.Active() {
				t.Fatal("no active node")
			}
			if diff := cmp.Diff(tt.wantIndices, res.Indices); diff != "" {
				t.Errorf("indices (-want +got):\n%s", diff)
			}
			if res.IndexPos != tt.wantPos {
				t.Errorf("chunk = %d, want %d", res.IndexPos, tt.wantPos)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"todo.html":             "todo.html",
		"  ./todo.html ":        "todo.html",
		"/docs/todo.html":       "docs/todo.html",
		".//todo.html":          "todo.html",
		"todo.html?x=1":         "todo.html",
		"todo.html?x=1#Item":    "todo.html#Item",
		"UserManual.html#A?b=c": "UserManual.html#A",
		"#top":                  "#top",
	}
	for in, want := range tests {
		if got := NormalizeURL(in); got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	res := NewResolver(parseString(t, manualTree)).Resolve("UserManual.html#Debugging_Trace")
	want := Summary{
		URL:      "UserManual.html#Debugging_Trace",
		Active:   true,
		IndexPos: 2,
		Entry:    "UserManual.html#Debugging_Trace",
		Indices:  []int{0, 0, 0},
		Path:     []string{"Manual", "Debugging", "Tracing"},
		Title:    "Tracing",
		Link:     "UserManual.html#Debugging_Trace",
	}
	if diff := cmp.Diff(want, res.Summarize()); diff != "" {
		t.Errorf("Summarize (-want +got):\n%s", diff)
	}

	empty := NewResolver(parseString(t, manualTree)).Resolve("other.html").Summarize()
	if empty.Active || empty.Title != "" || empty.Path != nil || empty.IndexPos != -1 {
		t.Errorf("unindexed summary = %+v", empty)
	}
}
