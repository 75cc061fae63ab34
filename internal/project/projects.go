package project

import (
	"context"

	"github.com/joescharf/psum/internal/config"
	"github.com/joescharf/psum/internal/gitutil"
)

// Projects discovers the configured repositories and returns the ones
// worth reporting on: not ignored, on the default branch when
// skip_branches is set, and with at least one tag (a project with no
// releases has nothing to report). Fetch/pull run before any lazy fact
// is read so the facts never reflect stale remote state.
func Projects(ctx context.Context, cfg *config.Config, deps Deps) []*Project {
	var projects []*Project
	for _, path := range gitutil.DiscoverRepos(cfg.Projects) {
		p := New(ctx, path, cfg, deps)
		if cfg.Ignored(p.Name()) {
			continue
		}
		if cfg.SkipBranches && p.Branch() != p.DefaultBranch() {
			continue
		}
		if cfg.Fetch {
			if err := deps.Git.Fetch(path); err != nil {
				deps.Log.Warn("fetch failed", "project", p.Name(), "error", err)
			}
		}
		if cfg.Pull {
			if err := deps.Git.Pull(path); err != nil {
				deps.Log.Warn("pull failed", "project", p.Name(), "error", err)
			}
		}
		if p.LastTag() == "" {
			continue
		}
		projects = append(projects, p)
	}
	return projects
}
