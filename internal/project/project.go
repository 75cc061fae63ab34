// Package project models the per-repository facts the report reads:
// identity from the working tree, release state from git, and status
// strings polled from external services. Facts are computed lazily on
// first access and cached per instance, so unused facts never cost a
// network or git call.
package project

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joescharf/psum/internal/config"
	"github.com/joescharf/psum/internal/fetch"
	"github.com/joescharf/psum/internal/gitutil"
	"github.com/joescharf/psum/internal/pymeta"
)

const githubPrefix = "https://github.com/"

// Deps are the external collaborators a Project reads facts through.
type Deps struct {
	Git     gitutil.Client
	Meta    pymeta.Classifiers
	Session *fetch.Session
	Log     *slog.Logger
}

// Project is one discovered repository working tree. Created per
// discovery pass and discarded at the end of the run.
type Project struct {
	WorkingTree string

	cfg  *config.Config
	deps Deps
	ctx  context.Context

	url            memo[string]
	branch         memo[string]
	defaultBranch  memo[string]
	lastTag        memo[string]
	lastTagDate    memo[time.Time]
	pendingCommits memo[[]string]
	usesTravis     memo[bool]
	usesAppveyor   memo[bool]
	workflow       memo[string]
	pythonVersions memo[map[string]bool]

	travisStatus   memo[string]
	actionsStatus  memo[string]
	appveyorStatus memo[string]
	jenkinsStatus  map[string]string
	coverage       memo[*int]
	downloads      memo[*int]

	issues memo[[]Issue]
}

// New wraps a working tree. ctx bounds all network calls made while
// report rendering reads lazy facts.
func New(ctx context.Context, workingTree string, cfg *config.Config, deps Deps) *Project {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	return &Project{
		WorkingTree:   workingTree,
		cfg:           cfg,
		deps:          deps,
		ctx:           ctx,
		jenkinsStatus: map[string]string{},
	}
}

//
// Identity
//

// URL is the normalized origin remote URL, or "" for a local-only repo.
func (p *Project) URL() string {
	return p.url.get(func() string {
		return NormalizeGitHubURL(p.deps.Git.RemoteURL(p.WorkingTree))
	})
}

func (p *Project) IsOnGitHub() bool {
	return strings.HasPrefix(p.URL(), githubPrefix)
}

// Owner is the GitHub account owning the project, or "" off GitHub.
func (p *Project) Owner() string {
	if !p.IsOnGitHub() {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(p.URL(), githubPrefix), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// Name is the last segment of the remote URL, falling back to the
// working tree's directory name for repos without a remote.
func (p *Project) Name() string {
	if url := p.URL(); url != "" {
		return url[strings.LastIndex(url, "/")+1:]
	}
	return filepath.Base(p.WorkingTree)
}

func (p *Project) Branch() string {
	return p.branch.get(func() string {
		return p.deps.Git.BranchName(p.WorkingTree)
	})
}

func (p *Project) DefaultBranch() string {
	return p.defaultBranch.get(func() string {
		return p.deps.Git.DefaultBranch(p.WorkingTree)
	})
}

//
// Release state
//

func (p *Project) LastTag() string {
	return p.lastTag.get(func() string {
		return p.deps.Git.LastTag(p.WorkingTree)
	})
}

// LastTagDate is the commit date of the last tag.
func (p *Project) LastTagDate() time.Time {
	return p.lastTagDate.get(func() time.Time {
		date, err := p.deps.Git.TagDate(p.WorkingTree, p.LastTag())
		if err != nil {
			p.deps.Log.Warn("cannot determine tag date",
				"project", p.Name(), "tag", p.LastTag(), "error", err)
			return time.Time{}
		}
		return date
	})
}

// PendingCommits is the oneline log of commits on the remote-tracking
// branch since the last tag.
func (p *Project) PendingCommits() []string {
	return p.pendingCommits.get(func() []string {
		return p.deps.Git.PendingCommits(p.WorkingTree, p.LastTag(), p.Branch())
	})
}

// CompareURL links the last tag to the branch head, or "" off GitHub.
func (p *Project) CompareURL() string {
	if !p.IsOnGitHub() {
		return ""
	}
	return p.URL() + "/compare/" + p.LastTag() + "..." + p.Branch()
}

//
// Packaging
//

// PypiName honors the configured name remapping.
func (p *Project) PypiName() string {
	return p.cfg.PypiName(p.Name())
}

func (p *Project) PypiURL() string {
	return "https://pypi.org/project/" + p.PypiName() + "/"
}

func (p *Project) PypiStatsURL() string {
	return "https://pypistats.org/packages/" + strings.ToLower(p.PypiName())
}

// PythonVersions is the set of interpreter versions and implementation
// names the project declares support for.
func (p *Project) PythonVersions() map[string]bool {
	return p.pythonVersions.get(func() map[string]bool {
		versions := map[string]bool{}
		for _, v := range pymeta.SupportedVersions(p.deps.Meta.Classifiers(p.WorkingTree)) {
			versions[v] = true
		}
		return versions
	})
}

// PythonVersionList is PythonVersions sorted for display.
func (p *Project) PythonVersionList() []string {
	var versions []string
	for v := range p.PythonVersions() {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

//
// CI providers
//

func (p *Project) UsesTravis() bool {
	return p.usesTravis.get(func() bool {
		return p.IsOnGitHub() && p.hasFile(".travis.yml")
	})
}

func (p *Project) UsesAppveyor() bool {
	return p.usesAppveyor.get(func() bool {
		return p.IsOnGitHub() && p.cfg.AppveyorAccount != "" && p.hasFile("appveyor.yml")
	})
}

func (p *Project) UsesGitHubActions() bool {
	return p.workflowFile() != ""
}

func (p *Project) UsesJenkins() bool {
	return p.cfg.JenkinsURL != ""
}

func (p *Project) hasFile(name string) bool {
	_, err := os.Stat(filepath.Join(p.WorkingTree, name))
	return err == nil
}

// workflowFile is the first GitHub Actions workflow file name, or "".
func (p *Project) workflowFile() string {
	return p.workflow.get(func() string {
		if !p.IsOnGitHub() {
			return ""
		}
		matches, _ := filepath.Glob(filepath.Join(p.WorkingTree, ".github", "workflows", "*.yml"))
		more, _ := filepath.Glob(filepath.Join(p.WorkingTree, ".github", "workflows", "*.yaml"))
		matches = append(matches, more...)
		if len(matches) == 0 {
			return ""
		}
		sort.Strings(matches)
		return filepath.Base(matches[0])
	})
}

// JenkinsJob is the Jenkins job name derived from the checkout path:
// the directory name, or its parent for Jenkins-style */workspace trees.
func (p *Project) JenkinsJob() string {
	base := filepath.Base(p.WorkingTree)
	if base == "workspace" {
		return filepath.Base(filepath.Dir(p.WorkingTree))
	}
	return base
}
