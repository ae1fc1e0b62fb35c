package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB holding exported navigation trees.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Path returns the database location.
func (d *DB) Path() string { return d.path }

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS nav_sources (
    id INTEGER PRIMARY KEY,
    dir TEXT NOT NULL UNIQUE,
    data_hash TEXT NOT NULL DEFAULT '',
    sync_on TEXT NOT NULL DEFAULT '',
    sync_off TEXT NOT NULL DEFAULT '',
    exported_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS nav_nodes (
    id INTEGER PRIMARY KEY,
    source_id INTEGER NOT NULL REFERENCES nav_sources(id) ON DELETE CASCADE,
    parent_id INTEGER REFERENCES nav_nodes(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    depth INTEGER NOT NULL,
    title TEXT NOT NULL,
    link TEXT NOT NULL DEFAULT '',
    ref TEXT NOT NULL DEFAULT '',
    index_path TEXT NOT NULL,
    trail TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_nav_nodes_source ON nav_nodes(source_id, index_path);
CREATE INDEX IF NOT EXISTS idx_nav_nodes_link ON nav_nodes(link COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_nav_nodes_parent ON nav_nodes(parent_id);

CREATE TABLE IF NOT EXISTS nav_index (
    source_id INTEGER NOT NULL REFERENCES nav_sources(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    url TEXT NOT NULL,
    PRIMARY KEY(source_id, position)
);

CREATE INDEX IF NOT EXISTS idx_nav_index_url ON nav_index(url COLLATE NOCASE);
`
