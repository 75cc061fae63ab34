package project

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/psum/internal/config"
)

func makeCheckout(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(path, ".git"), 0o755))
	return path
}

func TestProjects(t *testing.T) {
	root := t.TempDir()
	makeCheckout(t, root, "alpha")
	makeCheckout(t, root, "beta")
	makeCheckout(t, root, "ignoreme")
	// not a git checkout, should not be discovered
	require.NoError(t, os.MkdirAll(filepath.Join(root, "plain"), 0o755))

	v := viper.New()
	config.SetDefaults(v)
	v.Set("projects", []string{filepath.Join(root, "*")})
	v.Set("ignore", []string{"ignoreme"})
	v.Set("fetch", true)
	cfg, err := config.Load(v)
	require.NoError(t, err)

	git := newFakeGit()
	git.lastTag = "1.0"
	projects := Projects(context.Background(), cfg, Deps{
		Git:     git,
		Meta:    &fakeMeta{},
		Session: primedSession(t, nil),
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	var names []string
	for _, p := range projects {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"alpha", "beta"}, names)
	assert.Equal(t, 2, git.calls["Fetch"])
	assert.Equal(t, 0, git.calls["Pull"])
}

func TestProjects_SkipsUntagged(t *testing.T) {
	root := t.TempDir()
	makeCheckout(t, root, "untagged")

	v := viper.New()
	config.SetDefaults(v)
	v.Set("projects", []string{filepath.Join(root, "*")})
	cfg, err := config.Load(v)
	require.NoError(t, err)

	projects := Projects(context.Background(), cfg, Deps{
		Git:     newFakeGit(),
		Meta:    &fakeMeta{},
		Session: primedSession(t, nil),
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	assert.Empty(t, projects)
}

func TestProjects_SkipBranches(t *testing.T) {
	root := t.TempDir()
	makeCheckout(t, root, "feature")

	v := viper.New()
	config.SetDefaults(v)
	v.Set("projects", []string{filepath.Join(root, "*")})
	v.Set("skip_branches", true)
	cfg, err := config.Load(v)
	require.NoError(t, err)

	git := newFakeGit()
	git.lastTag = "1.0"
	git.branch = "feature-branch"
	projects := Projects(context.Background(), cfg, Deps{
		Git:     git,
		Meta:    &fakeMeta{},
		Session: primedSession(t, nil),
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	assert.Empty(t, projects)
}
