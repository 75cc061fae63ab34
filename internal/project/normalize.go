package project

import "strings"

// NormalizeGitHubURL rewrites SSH-style and git-protocol GitHub remote
// URLs to their https form and strips the trailing ".git". URLs not
// pointing at GitHub pass through unchanged. Idempotent.
func NormalizeGitHubURL(url string) string {
	if url == "" {
		return url
	}
	if rest, ok := strings.CutPrefix(url, "git://github.com/"); ok {
		url = "https://github.com/" + rest
	} else if rest, ok := strings.CutPrefix(url, "git@github.com:"); ok {
		url = "https://github.com/" + rest
	}
	if !strings.HasPrefix(url, "https://github.com/") {
		return url
	}
	return strings.TrimSuffix(url, ".git")
}
