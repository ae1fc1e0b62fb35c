package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// DocSet is one Doxygen HTML output directory found during traversal.
type DocSet struct {
	Dir      string // Absolute path on disk.
	RelDir   string // Path relative to the root directory, "." for the root itself.
	DataHash string // SHA-256 hex digest of navtreedata.js.
	// Scripts counts the navigation scripts in the directory, including
	// navtreedata.js, the navtreeindexN.js chunks and subtree scripts.
	Scripts int
}

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir string   // Root directory to walk.
	Include []string // Glob patterns matched against each set's directory.
	Exclude []string // Glob patterns; matching directories are not reported.
}

// Walk traverses the directory tree rooted at config.RootDir and returns every
// directory holding a navtreedata.js that passes filtering, sorted by RelDir.
// It respects include/exclude patterns and honours .gitignore files.
func Walk(config WalkerConfig) ([]DocSet, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	gitignorePatterns := loadGitignore(filepath.Join(root, ".gitignore"))

	var sets []DocSet

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != navtree.DataScript || !d.Type().IsRegular() {
			return nil
		}

		dir := filepath.Dir(path)
		relDir, err := filepath.Rel(root, dir)
		if err != nil {
			return nil
		}
		relDir = filepath.ToSlash(relDir)

		if relDir != "." {
			if matchesGitignore(relDir, gitignorePatterns) {
				return nil
			}
			if !MatchesInclude(relDir, config.Include) {
				return nil
			}
			if MatchesExclude(relDir, config.Exclude) {
				return nil
			}
		}

		hash, err := hashFile(path)
		if err != nil {
			return nil
		}

		sets = append(sets, DocSet{
			Dir:      dir,
			RelDir:   relDir,
			DataHash: hash,
			Scripts:  countScripts(dir),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].RelDir < sets[j].RelDir })
	return sets, nil
}

// countScripts counts the .js files in dir that navigation data can live in.
// Doxygen's own runtime scripts (jquery.js, navtree.js and friends) are not
// counted.
func countScripts(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".js" || runtimeScripts[name] {
			continue
		}
		n++
	}
	return n
}

var runtimeScripts = map[string]bool{
	"jquery.js":      true,
	"navtree.js":     true,
	"resize.js":      true,
	"dynsections.js": true,
	"menu.js":        true,
	"menudata.js":    true,
	"search.js":      true,
	"searchdata.js":  true,
	"cookie.js":      true,
	"clipboard.js":   true,
}

// hashFile computes the SHA-256 digest of the given file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// loadGitignore reads a .gitignore file and returns its non-empty,
// non-comment lines as patterns.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore checks if a relative directory matches any gitignore
// pattern. Patterns without a slash match any path component.
func matchesGitignore(relDir string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(strings.TrimSpace(pattern), "/")
		if pattern == "" {
			continue
		}

		if !strings.Contains(pattern, "/") {
			for _, part := range strings.Split(relDir, "/") {
				if matched, _ := filepath.Match(pattern, part); matched {
					return true
				}
			}
			continue
		}
		pattern = strings.TrimPrefix(pattern, "/")
		if matched, _ := filepath.Match(pattern, relDir); matched {
			return true
		}
		if strings.HasPrefix(relDir, pattern+"/") {
			return true
		}
	}
	return false
}
