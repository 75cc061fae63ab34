package gitutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverRepos expands the configured glob patterns and returns the
// sorted list of directories that are git working trees.
func DiscoverRepos(patterns []string) []string {
	seen := map[string]bool{}
	var repos []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(expandHome(pattern))
		if err != nil {
			continue
		}
		for _, dir := range matches {
			if seen[dir] {
				continue
			}
			if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
				seen[dir] = true
				repos = append(repos, dir)
			}
		}
	}
	sort.Strings(repos)
	return repos
}

func expandHome(pattern string) string {
	if pattern == "~" || strings.HasPrefix(pattern, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(pattern, "~"))
		}
	}
	return pattern
}
