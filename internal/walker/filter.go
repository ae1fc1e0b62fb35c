package walker

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are directory names never descended into.
var skipDirs = []string{
	".git",
	"node_modules",
	"vendor",
	".docnav",
	".idea",
	".vscode",
}

// shouldExcludeDir checks whether a directory name matches a default
// exclusion. This is used during traversal to skip entire subtrees.
func shouldExcludeDir(name string) bool {
	for _, excl := range skipDirs {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// MatchesInclude returns true if the given relative path matches any of the
// include patterns. If patterns is empty, everything is included.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks relPath against glob patterns with ** support. A pattern
// also matches everything below a directory it matches, so "build/**" and
// "build" both exclude "build/html".
func matchesAny(relPath string, patterns []string) bool {
	normalized := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(relPath, `\`, "/")), "/")

	for _, pattern := range patterns {
		pattern = strings.ReplaceAll(pattern, `\`, "/")

		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}
		// Match the directory against "dir/**" style patterns written for files.
		if matched, err := doublestar.Match(pattern, normalized+"/x"); err == nil && matched && strings.HasSuffix(pattern, "/**") {
			return true
		}

		base := path.Base(normalized)
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
