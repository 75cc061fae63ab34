package gitutil

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Client defines the git operations psum needs. All methods take a
// working tree path since psum operates on multiple checkouts.
type Client interface {
	RemoteURL(path string) string
	BranchName(path string) string
	DefaultBranch(path string) string
	LastTag(path string) string
	TagDate(path, tag string) (time.Time, error)
	PendingCommits(path, tag, branch string) []string
	Fetch(path string) error
	Pull(path string) error
}

// RealClient implements Client using real git commands.
type RealClient struct {
	log *slog.Logger
}

// NewClient returns a RealClient logging command execution to logger.
func NewClient(logger *slog.Logger) *RealClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &RealClient{log: logger}
}

func (c *RealClient) gitCmd(path string, args ...string) (string, error) {
	c.log.Debug("EXEC " + formatCmd(path, args))
	fullArgs := append([]string{"-C", path}, args...)
	out, err := exec.Command("git", fullArgs...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func formatCmd(path string, args []string) string {
	return fmt.Sprintf("cd %s && git %s", path, strings.Join(args, " "))
}

// RemoteURL returns the URL of the origin remote, or "" when the
// checkout has no origin. A missing remote is not an error.
func (c *RealClient) RemoteURL(path string) string {
	out, err := c.gitCmd(path, "remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	return out
}

// BranchName returns the current branch, resolving a detached HEAD by
// looking for a local or remote branch ref pointing at the same commit.
// Falls back to "(detached)" when nothing matches.
func (c *RealClient) BranchName(path string) string {
	name, err := c.gitCmd(path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	if name != "HEAD" {
		return name
	}
	commit, err := c.gitCmd(path, "rev-parse", "HEAD")
	if err != nil {
		return "(detached)"
	}
	if refs, err := c.gitCmd(path, "show-ref"); err == nil {
		for _, line := range strings.Split(refs, "\n") {
			if !strings.HasPrefix(line, commit) {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			if name := refToBranch(fields[1]); name != "" {
				return name
			}
		}
	}
	// A stale detached head: the commit is no longer any branch's tip,
	// so look for remote branches that still contain it.
	if out, err := c.gitCmd(path, "branch", "-r", "--contains", commit); err == nil {
		for _, line := range strings.Split(out, "\n") {
			name := strings.TrimSpace(line)
			if name == "" || strings.Contains(name, "->") {
				continue
			}
			return strings.TrimPrefix(name, "origin/")
		}
	}
	return "(detached)"
}

// refToBranch converts a full ref name to a branch name, or "" when the
// ref is not a branch (tags, origin/HEAD).
func refToBranch(ref string) string {
	name := strings.TrimPrefix(ref, "refs/")
	switch {
	case strings.HasPrefix(name, "heads/"):
		name = strings.TrimPrefix(name, "heads/")
	case strings.HasPrefix(name, "remotes/"):
		name = strings.TrimPrefix(name, "remotes/")
		name = strings.TrimPrefix(name, "origin/")
	default:
		return ""
	}
	if name == "HEAD" {
		return ""
	}
	return name
}

// DefaultBranch returns the branch origin/HEAD points at, falling back
// to "master" when the checkout has no origin/HEAD ref.
func (c *RealClient) DefaultBranch(path string) string {
	out, err := c.gitCmd(path, "rev-parse", "--abbrev-ref", "origin/HEAD")
	if err != nil {
		return "master"
	}
	return strings.TrimPrefix(out, "origin/")
}

// LastTag returns the most recent tag reachable from HEAD, or "" when
// the repository has no tags.
func (c *RealClient) LastTag(path string) string {
	out, err := c.gitCmd(path, "describe", "--tags", "--abbrev=0")
	if err != nil {
		return ""
	}
	return out
}

// TagDate returns the commit date of a tag.
func (c *RealClient) TagDate(path, tag string) (time.Time, error) {
	out, err := c.gitCmd(path, "log", "-1", "--format=%aI", tag)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, out)
}

// PendingCommits returns the oneline log of commits on the branch's
// remote-tracking ref that are not included in tag.
func (c *RealClient) PendingCommits(path, tag, branch string) []string {
	out, err := c.gitCmd(path, "log", "--oneline", fmt.Sprintf("%s..origin/%s", tag, branch))
	if err != nil || out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func (c *RealClient) Fetch(path string) error {
	_, err := c.gitCmd(path, "fetch", "--prune")
	return err
}

func (c *RealClient) Pull(path string) error {
	_, err := c.gitCmd(path, "pull", "--prune")
	return err
}
