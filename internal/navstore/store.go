// Package navstore persists navigation trees in SQLite so that several
// documentation sets can be queried without loading their scripts.
package navstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ziadkadry99/docnav/internal/db"
	"github.com/ziadkadry99/docnav/internal/navtree"
)

// Source is an exported documentation set.
type Source struct {
	ID         int64            `json:"id"`
	Dir        string           `json:"dir"`
	DataHash   string           `json:"data_hash"`
	Messages   navtree.Messages `json:"messages"`
	ExportedAt time.Time        `json:"exported_at"`
}

// Entry is a stored navigation node.
type Entry struct {
	Source  string `json:"source"`
	Title   string `json:"title"`
	Link    string `json:"link,omitempty"`
	Ref     string `json:"ref,omitempty"`
	Depth   int    `json:"depth"`
	Indices []int  `json:"indices"`
	Trail   string `json:"trail"`
	// IndexPos is the NAVTREEINDEX position of Link, -1 when not listed.
	IndexPos int `json:"index_pos"`
}

// Store reads and writes navigation trees.
type Store struct {
	db *db.DB
}

// New returns a store backed by d.
func New(d *db.DB) *Store {
	return &Store{db: d}
}

// Unchanged reports whether dir was exported with the given data hash.
func (s *Store) Unchanged(ctx context.Context, dir, hash string) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT data_hash FROM nav_sources WHERE dir = ?`, dir).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading source %s: %w", dir, err)
	}
	return stored == hash, nil
}

// Export replaces the stored tree for dir with tree and returns the number
// of nodes written.
func (s *Store) Export(ctx context.Context, dir, hash string, tree *navtree.Tree) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning export: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nav_sources WHERE dir = ?`, dir); err != nil {
		return 0, fmt.Errorf("clearing %s: %w", dir, err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO nav_sources(dir, data_hash, sync_on, sync_off, exported_at) VALUES (?, ?, ?, ?, ?)`,
		dir, hash, tree.Messages.SyncOn, tree.Messages.SyncOff, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("inserting source %s: %w", dir, err)
	}
	sourceID, err := insertedID(res, "source "+dir)
	if err != nil {
		return 0, err
	}

	nodeStmt, err := tx.PrepareContext(ctx, `INSERT INTO nav_nodes
		(source_id, parent_id, position, depth, title, link, ref, index_path, trail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()

	ids := make(map[*navtree.Node]int64)
	count := 0
	var walkErr error
	tree.Walk(func(n *navtree.Node, p []int) bool {
		if walkErr != nil {
			return false
		}
		var parent sql.NullInt64
		if n.Parent() != nil {
			parent = sql.NullInt64{Int64: ids[n.Parent()], Valid: true}
		}
		res, err := nodeStmt.ExecContext(ctx, sourceID, parent, p[len(p)-1], len(p)-1,
			n.Title, n.Link, n.Ref, encodePath(p), trail(n))
		if err != nil {
			walkErr = fmt.Errorf("inserting node %s: %w", navtree.FormatPath(p), err)
			return false
		}
		id, err := insertedID(res, "node "+navtree.FormatPath(p))
		if err != nil {
			walkErr = err
			return false
		}
		ids[n] = id
		count++
		return true
	})
	if walkErr != nil {
		return 0, walkErr
	}

	for i, url := range tree.Index {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nav_index(source_id, position, url) VALUES (?, ?, ?)`, sourceID, i, url); err != nil {
			return 0, fmt.Errorf("inserting index entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing export: %w", err)
	}
	return count, nil
}

// Sources lists the exported documentation sets ordered by directory.
func (s *Store) Sources(ctx context.Context) ([]Source, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dir, data_hash, sync_on, sync_off, exported_at FROM nav_sources ORDER BY dir`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.ID, &src.Dir, &src.DataHash, &src.Messages.SyncOn, &src.Messages.SyncOff, &src.ExportedAt); err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

const entryColumns = `s.dir, n.title, n.link, n.ref, n.depth, n.index_path, n.trail,
	COALESCE((SELECT MIN(i.position) FROM nav_index i
		WHERE i.source_id = n.source_id AND i.url = n.link COLLATE NOCASE), -1)`

// Lookup returns the nodes linking to url, ignoring case, in every source.
// A url with an anchor matches only that anchor.
func (s *Store) Lookup(ctx context.Context, url string) ([]Entry, error) {
	u := navtree.NormalizeURL(url)
	if u == "" {
		return nil, nil
	}
	return s.query(ctx, `SELECT `+entryColumns+`
		FROM nav_nodes n JOIN nav_sources s ON s.id = n.source_id
		WHERE n.link = ? COLLATE NOCASE
		ORDER BY s.dir, n.id`, u)
}

// Search returns nodes whose title contains q, ignoring case, in document
// order per source. A limit of 0 or less returns every match.
func (s *Store) Search(ctx context.Context, q string, limit int) ([]Entry, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}
	return s.query(ctx, `SELECT `+entryColumns+`
		FROM nav_nodes n JOIN nav_sources s ON s.id = n.source_id
		WHERE instr(lower(n.title), lower(?)) > 0
		ORDER BY s.dir, n.id
		LIMIT ?`, q, limit)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var path string
		if err := rows.Scan(&e.Source, &e.Title, &e.Link, &e.Ref, &e.Depth, &path, &e.Trail, &e.IndexPos); err != nil {
			return nil, err
		}
		if e.Indices, err = decodePath(path); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// encodePath stores an index path as "0/3/1". Nodes are inserted in document
// order, so ordering by id keeps that order.
func insertedID(res sql.Result, what string) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading id of %s: %w", what, err)
	}
	return id, nil
}

func encodePath(p []int) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "/")
}

func decodePath(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, "/")
	out := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad index path %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

func trail(n *navtree.Node) string {
	chain := n.Ancestors()
	titles := make([]string, len(chain))
	for i, a := range chain {
		titles[i] = a.Title
	}
	return strings.Join(titles, " > ")
}
