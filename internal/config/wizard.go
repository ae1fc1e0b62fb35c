package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/manifoldco/promptui"
)

// docsDirPatterns are the usual places Doxygen writes its HTML output to.
var docsDirPatterns = []string{
	"html",
	"*/html",
	"*/*/html",
	"docs",
	"doc",
}

// detectDocsDirs returns directories holding a navtreedata.js, relative to
// the current directory.
func detectDocsDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range docsDirPatterns {
		matches, _ := filepath.Glob(filepath.Join(pattern, "navtreedata.js"))
		for _, m := range matches {
			dir := filepath.Dir(m)
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	sort.Strings(dirs)
	return dirs
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docnav! Let's point it at your Doxygen output.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Documentation directory.
	const other = "other..."
	chosen := false
	if dirs := detectDocsDirs(); len(dirs) > 0 {
		fmt.Printf("Found %d documentation set(s)\n\n", len(dirs))
		dirPrompt := promptui.Select{
			Label: "Select the HTML output directory",
			Items: append(dirs, other),
		}
		_, choice, err := dirPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("docs dir selection: %w", err)
		}
		if choice != other {
			cfg.DocsDir, chosen = choice, true
		}
	}
	if !chosen {
		dirPrompt := promptui.Prompt{
			Label:   "HTML output directory (contains navtreedata.js)",
			Default: cfg.DocsDir,
			Validate: func(s string) error {
				if s == "" {
					return fmt.Errorf("directory is required")
				}
				return nil
			},
		}
		dir, err := dirPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("docs dir: %w", err)
		}
		cfg.DocsDir = dir
	}
	if _, err := os.Stat(filepath.Join(cfg.DocsDir, "navtreedata.js")); err != nil {
		fmt.Printf("\nNote: %s has no navtreedata.js yet; run doxygen with GENERATE_TREEVIEW=YES.\n\n", cfg.DocsDir)
	}

	// 2. Strict loading.
	strictPrompt := promptui.Select{
		Label: "How should malformed navigation entries be handled?",
		Items: []string{
			"report  - load anyway and list the findings",
			"strict  - refuse to load",
		},
	}
	strictIdx, _, err := strictPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("strict selection: %w", err)
	}
	cfg.Strict = strictIdx == 1

	// 3. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Port for docnav serve",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 4. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns for discovery (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(append([]string{}, DefaultExcludes...), splitAndTrim(excludeStr)...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
