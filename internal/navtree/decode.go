package navtree

import (
	"fmt"
	"math"

	"github.com/ziadkadry99/docnav/internal/jsdata"
)

// decoder turns script literals into navigation structures, recording
// shape findings instead of failing.
type decoder struct {
	script string
	issues []*ShapeError
}

func (d *decoder) report(v jsdata.Value, path []int, format string, args ...any) {
	var p []int
	if path != nil {
		p = append([]int{}, path...)
	}
	d.issues = append(d.issues, &ShapeError{
		Script: d.script,
		Line:   v.Line,
		Path:   p,
		Msg:    fmt.Sprintf(format, args...),
	})
}

// forest decodes an array of [title, link, children] triples. base is the
// index path of the parent entry; parent is attached to every decoded node.
func (d *decoder) forest(v jsdata.Value, base []int, parent *Node) []*Node {
	if v.Kind != jsdata.Array {
		d.report(v, base, "children are %s, want array", v.Kind)
		return nil
	}

	nodes := make([]*Node, 0, len(v.Items))
	for i, item := range v.Items {
		path := append(append([]int{}, base...), i)
		n := d.entry(item, path)
		n.parent = parent
		nodes = append(nodes, n)
	}
	return nodes
}

// entry decodes one triple. Malformed entries still yield a node so that
// sibling positions keep matching the index paths in NAVTREEINDEXn scripts:
// a bad arity or title gives a blank node, a bad link or children slot gives
// an empty node carrying only its title.
func (d *decoder) entry(v jsdata.Value, path []int) *Node {
	n := &Node{}
	if v.Kind != jsdata.Array {
		d.report(v, path, "entry is %s, want [title, link, children]", v.Kind)
		return n
	}
	if len(v.Items) != 3 {
		d.report(v, path, "entry has %d elements, want 3", len(v.Items))
		return n
	}
	title, link, children := v.Items[0], v.Items[1], v.Items[2]
	if title.Kind != jsdata.String {
		d.report(title, path, "title is %s, want string", title.Kind)
		return n
	}

	n.Title = title.Str

	switch link.Kind {
	case jsdata.String:
		n.Link = link.Str
	case jsdata.Null:
	default:
		d.report(link, path, "link of %q is %s, want string or null", title.Str, link.Kind)
		return n
	}

	switch children.Kind {
	case jsdata.Array:
		n.Children = d.forest(children, path, n)
	case jsdata.String:
		n.Ref = children.Str
	case jsdata.Null:
	default:
		d.report(children, path, "children of %q are %s, want array, null or script name", title.Str, children.Kind)
		n.Link = ""
	}
	return n
}

// index decodes NAVTREEINDEX, skipping non-string entries.
func (d *decoder) index(v jsdata.Value) []string {
	if v.Kind != jsdata.Array {
		d.report(v, nil, "NAVTREEINDEX is %s, want array", v.Kind)
		return nil
	}
	entries := make([]string, 0, len(v.Items))
	for i, item := range v.Items {
		if item.Kind != jsdata.String {
			d.report(item, nil, "NAVTREEINDEX[%d] is %s, want string", i, item.Kind)
			continue
		}
		entries = append(entries, item.Str)
	}
	return entries
}

// chunk decodes a NAVTREEINDEXn object mapping page URLs to index paths.
func (d *decoder) chunk(v jsdata.Value, name string) map[string][]int {
	if v.Kind != jsdata.Object {
		d.report(v, nil, "%s is %s, want object", name, v.Kind)
		return nil
	}
	m := make(map[string][]int, len(v.Fields))
	for _, f := range v.Fields {
		if f.Value.Kind != jsdata.Array {
			d.report(f.Value, nil, "%s[%q] is %s, want array", name, f.Key, f.Value.Kind)
			continue
		}
		path := make([]int, 0, len(f.Value.Items))
		valid := true
		for _, it := range f.Value.Items {
			if it.Kind != jsdata.Number || it.Num < 0 || it.Num != math.Trunc(it.Num) {
				valid = false
				break
			}
			path = append(path, int(it.Num))
		}
		if !valid {
			d.report(f.Value, nil, "%s[%q] is not a list of indices", name, f.Key)
			continue
		}
		m[f.Key] = path
	}
	return m
}

// messages reads SYNCONMSG and SYNCOFFMSG, falling back to the defaults.
func (d *decoder) messages(s *jsdata.Script) Messages {
	msgs := DefaultMessages
	for _, m := range []struct {
		name string
		dst  *string
	}{{"SYNCONMSG", &msgs.SyncOn}, {"SYNCOFFMSG", &msgs.SyncOff}} {
		name, dst := m.name, m.dst
		v, ok := s.Lookup(name)
		if !ok {
			continue
		}
		if v.Kind != jsdata.String {
			d.report(v, nil, "%s is %s, want string", name, v.Kind)
			continue
		}
		*dst = v.Str
	}
	return msgs
}
