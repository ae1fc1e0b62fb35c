package linkcheck

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/progress"
)

const nav = `var NAVTREE = [
  [ "Doc", "index.html", [
    [ "Manual", "UserManual.html", [
      [ "Debugging", "UserManual.html#Debugging", null ],
      [ "Tracing", "UserManual.html#Trace", null ],
      [ "Legacy", "UserManual.html#old_name", null ]
    ] ],
    [ "Todo", "todo.html", null ],
    [ "Top", "#top", null ],
    [ "Site", "https://example.com/", null ],
    [ "Files", null, [
      [ "a.h", "a_8h.html#l00010", null ]
    ] ]
  ] ]
];
var NAVTREEINDEX = [ "index.html" ];`

var pages = fstest.MapFS{
	"index.html": {Data: []byte(`<html><body><h1>Doc</h1></body></html>`)},
	"UserManual.html": {Data: []byte(`<html><body>
<h2 id="Debugging">Debugging</h2>
<a name="Trace"></a><h3>Tracing</h3>
</body></html>`)},
}

func parse(t *testing.T) *navtree.Tree {
	t.Helper()
	tree, err := navtree.Parse(strings.NewReader(nav))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func TestCheck(t *testing.T) {
	var out bytes.Buffer
	c := &Checker{FS: pages, Progress: &progress.CIReporter{Out: &out, Description: "anchors"}}
	res, err := c.Check(context.Background(), parse(t))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if res.Links != 7 || res.Pages != 4 || res.Skipped != 2 {
		t.Errorf("counts = %d links, %d pages, %d skipped", res.Links, res.Pages, res.Skipped)
	}
	want := []Broken{
		{Title: "Legacy", Link: "UserManual.html#old_name", Indices: []int{0, 0, 2}, Reason: `anchor "old_name" not found in UserManual.html`},
		{Title: "Todo", Link: "todo.html", Indices: []int{0, 1}, Reason: "page not found"},
		{Title: "a.h", Link: "a_8h.html#l00010", Indices: []int{0, 4, 0}, Reason: "page not found"},
	}
	if diff := cmp.Diff(want, res.Broken); diff != "" {
		t.Errorf("broken (-want +got):\n%s", diff)
	}
	if res.OK() {
		t.Error("OK() should be false")
	}
	if !strings.Contains(out.String(), "[2/4] UserManual.html") {
		t.Errorf("progress output = %q", out.String())
	}
}

func TestCheckAllPresent(t *testing.T) {
	tree, err := navtree.Parse(strings.NewReader(`var NAVTREE = [ [ "Doc", "index.html", [ [ "Debugging", "UserManual.html#Debugging", null ] ] ] ];`))
	if err != nil {
		t.Fatal(err)
	}
	res, err := (&Checker{FS: pages}).Check(context.Background(), tree)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.OK() {
		t.Errorf("unexpected broken links: %v", res.Broken)
	}
}

func TestCheckCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&Checker{FS: pages}).Check(ctx, parse(t)); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBrokenString(t *testing.T) {
	b := Broken{Title: "Todo", Link: "todo.html", Indices: []int{0, 1}, Reason: "page not found"}
	if got := b.String(); !strings.Contains(got, `"Todo" (todo.html): page not found`) {
		t.Errorf("String() = %q", got)
	}
}
