package gitutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err, strings.Join(args, " "))
	return strings.TrimSpace(string(out))
}

// initTestRepo creates a git repo in dir with a user config so commits work on CI.
func initTestRepo(t *testing.T, dir string) {
	t.Helper()
	run(t, dir, "git", "init", "-b", "master")
	run(t, dir, "git", "config", "user.email", "test@test.com")
	run(t, dir, "git", "config", "user.name", "Test")
}

func commit(t *testing.T, dir, message string) string {
	t.Helper()
	run(t, dir, "git", "commit", "--allow-empty", "-m", message)
	return run(t, dir, "git", "rev-parse", "HEAD")
}

func clone(t *testing.T, origin string) string {
	t.Helper()
	checkout := filepath.Join(t.TempDir(), "checkout")
	run(t, filepath.Dir(origin), "git", "clone", origin, checkout)
	run(t, checkout, "git", "config", "user.email", "test@test.com")
	run(t, checkout, "git", "config", "user.name", "Test")
	return checkout
}

func TestRemoteURL(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	c := NewClient(nil)
	assert.Equal(t, "", c.RemoteURL(dir))

	run(t, dir, "git", "remote", "add", "origin", "https://example.com/repo.git")
	assert.Equal(t, "https://example.com/repo.git", c.RemoteURL(dir))
}

func TestBranchName(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	commit(t, dir, "initial")
	c := NewClient(nil)
	assert.Equal(t, "master", c.BranchName(dir))
}

func TestBranchName_DetachedHead(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	sha := commit(t, dir, "initial")
	run(t, dir, "git", "checkout", sha)
	c := NewClient(nil)
	assert.Equal(t, "master", c.BranchName(dir))
}

func TestBranchName_DetachedHeadDifferentBranch(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	commit(t, dir, "initial")
	run(t, dir, "git", "checkout", "-b", "feature")
	sha := commit(t, dir, "blabla")
	run(t, dir, "git", "checkout", sha)
	c := NewClient(nil)
	assert.Equal(t, "feature", c.BranchName(dir))
}

func TestBranchName_StaleDetachedHead(t *testing.T) {
	origin := filepath.Join(t.TempDir(), "origin")
	require.NoError(t, os.Mkdir(origin, 0o755))
	initTestRepo(t, origin)
	sha := commit(t, origin, "initial")
	commit(t, origin, "blabla")

	checkout := clone(t, origin)
	run(t, checkout, "git", "checkout", sha)
	c := NewClient(nil)
	assert.Equal(t, "master", c.BranchName(checkout))
}

func TestBranchName_StaleDetachedHeadNoBranch(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	commit(t, dir, "initial")
	sha := commit(t, dir, "blabla")
	run(t, dir, "git", "reset", "--hard", "HEAD^")
	run(t, dir, "git", "checkout", sha)
	c := NewClient(nil)
	assert.Equal(t, "(detached)", c.BranchName(dir))
}

func TestDefaultBranch(t *testing.T) {
	origin := filepath.Join(t.TempDir(), "origin")
	require.NoError(t, os.Mkdir(origin, 0o755))
	initTestRepo(t, origin)
	commit(t, origin, "initial")

	checkout := clone(t, origin)
	c := NewClient(nil)
	assert.Equal(t, "master", c.DefaultBranch(checkout))
}

func TestDefaultBranch_NoRemote(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	c := NewClient(nil)
	assert.Equal(t, "master", c.DefaultBranch(dir))
}

func TestLastTag(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	c := NewClient(nil)
	assert.Equal(t, "", c.LastTag(dir))

	commit(t, dir, "initial")
	run(t, dir, "git", "tag", "1.0")
	assert.Equal(t, "1.0", c.LastTag(dir))
}

func TestTagDate(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	commit(t, dir, "initial")
	run(t, dir, "git", "tag", "1.0")
	c := NewClient(nil)
	date, err := c.TagDate(dir, "1.0")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), date, time.Minute)
}

func TestPendingCommits(t *testing.T) {
	origin := filepath.Join(t.TempDir(), "origin")
	require.NoError(t, os.Mkdir(origin, 0o755))
	initTestRepo(t, origin)
	commit(t, origin, "initial")
	run(t, origin, "git", "tag", "1.0")
	sha := commit(t, origin, "a")

	checkout := clone(t, origin)
	c := NewClient(nil)
	assert.Equal(t, []string{sha[:7] + " a"}, c.PendingCommits(checkout, "1.0", "master"))
	assert.Nil(t, c.PendingCommits(checkout, "1.0", "no-such-branch"))
}

func TestFetch(t *testing.T) {
	origin := filepath.Join(t.TempDir(), "origin")
	require.NoError(t, os.Mkdir(origin, 0o755))
	initTestRepo(t, origin)
	commit(t, origin, "initial")

	checkout := clone(t, origin)
	c := NewClient(nil)
	assert.NoError(t, c.Fetch(checkout))
	assert.NoError(t, c.Pull(checkout))
}

func TestRefToBranch(t *testing.T) {
	assert.Equal(t, "master", refToBranch("refs/heads/master"))
	assert.Equal(t, "master", refToBranch("refs/remotes/origin/master"))
	assert.Equal(t, "", refToBranch("refs/remotes/origin/HEAD"))
	assert.Equal(t, "", refToBranch("refs/tags/1.0"))
}

func TestDiscoverRepos(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "a", ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "b"), 0o755))
	repos := DiscoverRepos([]string{filepath.Join(base, "*")})
	assert.Equal(t, []string{filepath.Join(base, "a")}, repos)
}

func TestDiscoverRepos_Deduplicates(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "a", ".git"), 0o755))
	pattern := filepath.Join(base, "*")
	repos := DiscoverRepos([]string{pattern, pattern})
	assert.Len(t, repos, 1)
}
