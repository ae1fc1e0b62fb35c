package navtree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/jsdata"
)

// DataScript is the file Doxygen writes the navigation tree to.
const DataScript = "navtreedata.js"

// ChunkScript returns the file name of the i-th NAVTREEINDEX chunk.
func ChunkScript(i int) string { return fmt.Sprintf("navtreeindex%d.js", i) }

// Loader reads a documentation set from a file system rooted at the HTML
// output directory.
type Loader struct {
	fsys   fs.FS
	log    *zap.Logger
	strict bool
	chunks bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log.Named("loader")
		}
	}
}

// WithStrict makes any shape finding fail the load.
func WithStrict(strict bool) Option {
	return func(l *Loader) { l.strict = strict }
}

// WithChunks controls whether navtreeindexN.js scripts are read.
func WithChunks(enabled bool) Option {
	return func(l *Loader) { l.chunks = enabled }
}

// NewLoader creates a Loader reading from fsys.
func NewLoader(fsys fs.FS, opts ...Option) *Loader {
	l := &Loader{fsys: fsys, log: zap.NewNop(), chunks: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads navtreedata.js, the subtree scripts it references and, when
// enabled, the NAVTREEINDEX chunk scripts. Structural problems are recorded
// in Tree.Issues; only I/O failures, syntax errors, a missing NAVTREE, or
// findings in strict mode are returned as errors.
func (l *Loader) Load(ctx context.Context) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	script, err := l.readScript(DataScript)
	if err != nil {
		return nil, err
	}

	d := &decoder{script: DataScript}
	tree, err := fromScript(d, script)
	if err != nil {
		return nil, err
	}

	if err := l.loadSubtrees(ctx, tree, d); err != nil {
		return nil, err
	}
	if l.chunks {
		if err := l.loadChunks(ctx, tree, d); err != nil {
			return nil, err
		}
	}

	tree.Issues = d.issues
	l.log.Debug("navigation tree loaded",
		zap.Int("nodes", tree.Count()),
		zap.Int("index", len(tree.Index)),
		zap.Int("chunks", len(tree.Chunks)),
		zap.Int("issues", len(tree.Issues)),
	)

	if l.strict && len(tree.Issues) > 0 {
		return nil, fmt.Errorf("navigation data is malformed: %w", tree.Err())
	}
	return tree, nil
}

// Parse reads a single navtreedata.js without following subtree or chunk
// scripts.
func Parse(r io.Reader) (*Tree, error) {
	script, err := jsdata.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", DataScript, err)
	}
	d := &decoder{script: DataScript}
	tree, err := fromScript(d, script)
	if err != nil {
		return nil, err
	}
	tree.Issues = d.issues
	return tree, nil
}

func fromScript(d *decoder, script *jsdata.Script) (*Tree, error) {
	nav, ok := script.Lookup("NAVTREE")
	if !ok {
		return nil, ErrNoNavTree
	}

	tree := &Tree{Roots: d.forest(nav, nil, nil)}
	if idx, ok := script.Lookup("NAVTREEINDEX"); ok {
		tree.Index = d.index(idx)
	} else {
		d.report(jsdata.Value{}, nil, "NAVTREEINDEX is not defined")
	}
	tree.Messages = d.messages(script)
	return tree, nil
}

type deferred struct {
	node *Node
	path []int
}

// loadSubtrees replaces string children references with the arrays defined
// in the referenced scripts, recursively. A reference that is already being
// expanded higher up is reported instead of followed.
func (l *Loader) loadSubtrees(ctx context.Context, tree *Tree, d *decoder) error {
	var pending []deferred
	tree.Walk(func(n *Node, p []int) bool {
		if n.Deferred() {
			pending = append(pending, deferred{node: n, path: append([]int{}, p...)})
		}
		return true
	})

	var expand func(items []deferred, active map[string]bool) error
	expand = func(items []deferred, active map[string]bool) error {
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref := item.node.Ref
			if active[ref] {
				d.report(jsdata.Value{}, item.path, "subtree %q references itself", ref)
				continue
			}

			name := ref + ".js"
			if !fs.ValidPath(name) {
				d.report(jsdata.Value{}, item.path, "subtree name %q is not a valid file name", ref)
				continue
			}
			script, err := l.readScript(name)
			if errors.Is(err, fs.ErrNotExist) {
				d.report(jsdata.Value{}, item.path, "subtree script %s does not exist", name)
				continue
			}
			if err != nil {
				return err
			}
			v, ok := script.Lookup(ref)
			if !ok {
				d.report(jsdata.Value{}, item.path, "%s does not define %s", name, ref)
				continue
			}

			sub := &decoder{script: name}
			item.node.Children = sub.forest(v, item.path, item.node)
			d.issues = append(d.issues, sub.issues...)

			var nested []deferred
			for i, child := range item.node.Children {
				collectDeferred(child, append(append([]int{}, item.path...), i), &nested)
			}
			active[ref] = true
			err = expand(nested, active)
			delete(active, ref)
			if err != nil {
				return err
			}
		}
		return nil
	}
	return expand(pending, map[string]bool{})
}

func collectDeferred(n *Node, p []int, out *[]deferred) {
	if n.Deferred() {
		*out = append(*out, deferred{node: n, path: p})
		return
	}
	for i, child := range n.Children {
		collectDeferred(child, append(append([]int{}, p...), i), out)
	}
}

// loadChunks reads navtreeindex0.js .. navtreeindexN.js, one per
// NAVTREEINDEX entry. Missing chunks leave the tree unchunked; a partial set
// is reported.
func (l *Loader) loadChunks(ctx context.Context, tree *Tree, d *decoder) error {
	if len(tree.Index) == 0 {
		return nil
	}

	chunks := make([]map[string][]int, 0, len(tree.Index))
	var missing []string
	for i := range tree.Index {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := ChunkScript(i)
		script, err := l.readScript(name)
		if errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, name)
			chunks = append(chunks, nil)
			continue
		}
		if err != nil {
			return err
		}
		varName := fmt.Sprintf("NAVTREEINDEX%d", i)
		v, ok := script.Lookup(varName)
		if !ok {
			d.report(jsdata.Value{}, nil, "%s does not define %s", name, varName)
			chunks = append(chunks, nil)
			continue
		}
		sub := &decoder{script: name}
		chunks = append(chunks, sub.chunk(v, varName))
		d.issues = append(d.issues, sub.issues...)
	}

	switch {
	case len(missing) == len(tree.Index):
		l.log.Debug("no index chunk scripts found, using flat index")
		return nil
	case len(missing) > 0:
		var err error
		for _, name := range missing {
			err = multierr.Append(err, fmt.Errorf("%s missing", name))
		}
		d.report(jsdata.Value{}, nil, "incomplete index chunks: %v", err)
	}
	tree.Chunks = chunks
	return nil
}

func (l *Loader) readScript(name string) (*jsdata.Script, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	l.log.Debug("reading script", zap.String("file", path.Clean(name)))
	script, err := jsdata.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return script, nil
}
