package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// LoadFunc loads the documentation set from disk.
type LoadFunc func(ctx context.Context) (*navtree.Tree, error)

// reloadDelay collapses the burst of events Doxygen produces while
// rewriting its output into a single reload.
const reloadDelay = 250 * time.Millisecond

// Watch reloads the tree with load whenever a script in dir changes, until
// ctx is done. A failed reload keeps the previous tree.
func (s *Server) Watch(ctx context.Context, dir string, load LoadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	s.log.Info("watching for navigation changes", zap.String("dir", dir))

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".js" {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				s.log.Debug("navigation script changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
				timer.Reset(reloadDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher", zap.Error(err))
		case <-timer.C:
			s.Reload(ctx, load)
		}
	}
}

// Reload loads a fresh tree and swaps it in. Errors are logged and the
// current tree stays in place.
func (s *Server) Reload(ctx context.Context, load LoadFunc) bool {
	tree, err := load(ctx)
	if err != nil {
		s.log.Warn("reload failed, keeping previous tree", zap.Error(err))
		return false
	}
	s.SetTree(tree)
	s.log.Info("navigation reloaded",
		zap.Int("nodes", tree.Count()),
		zap.Int("issues", len(tree.Issues)),
	)
	return true
}
