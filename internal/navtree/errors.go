package navtree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoNavTree is returned when a data script does not assign NAVTREE.
var ErrNoNavTree = errors.New("script does not define NAVTREE")

// ShapeError is a structural finding in navigation data. Shape errors are
// not fatal: the offending entry is skipped or kept as an empty node.
type ShapeError struct {
	Script string // file the finding comes from
	Line   int    // 1-based source line, 0 if unknown
	Path   []int  // index path of the entry within the forest
	Msg    string
}

func (e *ShapeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Script)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Path != nil {
		fmt.Fprintf(&b, ": entry %s", FormatPath(e.Path))
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// FormatPath renders an index path the way Doxygen index scripts do, "[0,1,3]".
func FormatPath(path []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range path {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", p)
	}
	b.WriteByte(']')
	return b.String()
}

// ParsePath reads an index path written as "[0,1,3]", "0,1,3" or "0/1/3".
// An empty string is the empty path.
func ParsePath(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return []int{}, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '/' })
	path := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid index path %q", s)
		}
		path[i] = v
	}
	return path, nil
}
