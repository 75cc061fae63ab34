package project

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/joescharf/psum/internal/config"
	"github.com/joescharf/psum/internal/fetch"
)

// StatusUnknown is the degraded status word used when a badge cannot
// be fetched or decoded. Badge formats change without notice upstream;
// that is an expected degradation, not an error.
const StatusUnknown = "unknown"

//
// Travis CI
//

func (p *Project) TravisURL() string {
	if !p.UsesTravis() {
		return ""
	}
	return fmt.Sprintf("https://travis-ci.org/%s/%s", p.Owner(), p.Name())
}

func (p *Project) TravisImageURL() string {
	if !p.UsesTravis() {
		return ""
	}
	return fmt.Sprintf("https://api.travis-ci.org/%s/%s.svg?branch=%s",
		p.Owner(), p.Name(), p.Branch())
}

func (p *Project) TravisStatus() string {
	return p.travisStatus.get(func() string {
		return p.badgeStatus(p.TravisImageURL(), "build")
	})
}

//
// GitHub Actions
//

func (p *Project) GitHubActionsURL() string {
	if !p.UsesGitHubActions() {
		return ""
	}
	return p.URL() + "/actions"
}

func (p *Project) GitHubActionsImageURL() string {
	workflow := p.workflowFile()
	if workflow == "" {
		return ""
	}
	return fmt.Sprintf("%s/actions/workflows/%s/badge.svg?branch=%s",
		p.URL(), workflow, p.Branch())
}

func (p *Project) GitHubActionsStatus() string {
	return p.actionsStatus.get(func() string {
		// the badge renders the workflow name next to the status word
		workflow := strings.TrimSuffix(strings.TrimSuffix(p.workflowFile(), ".yml"), ".yaml")
		return p.badgeStatus(p.GitHubActionsImageURL(), workflow, "build")
	})
}

//
// Appveyor
//

func (p *Project) AppveyorURL() string {
	if !p.UsesAppveyor() {
		return ""
	}
	return fmt.Sprintf("https://ci.appveyor.com/project/%s/%s/branch/%s",
		p.cfg.AppveyorAccount, p.Name(), p.Branch())
}

func (p *Project) AppveyorImageURL() string {
	if !p.UsesAppveyor() {
		return ""
	}
	return fmt.Sprintf("https://ci.appveyor.com/api/projects/status/github/%s/%s?branch=%s&svg=true",
		p.Owner(), p.Name(), p.Branch())
}

func (p *Project) AppveyorStatus() string {
	return p.appveyorStatus.get(func() string {
		return p.badgeStatus(p.AppveyorImageURL(), "build")
	})
}

//
// Jenkins (parameterized: one project can report to several jobs)
//

func (p *Project) JenkinsURL(job config.JenkinsJobConfig) string {
	if !p.UsesJenkins() {
		return ""
	}
	return fmt.Sprintf("%s/job/%s/", p.cfg.JenkinsURL, job.JobName(p.JenkinsJob()))
}

func (p *Project) JenkinsImageURL(job config.JenkinsJobConfig) string {
	if !p.UsesJenkins() {
		return ""
	}
	return fmt.Sprintf("%s/job/%s/badge/icon", p.cfg.JenkinsURL, job.JobName(p.JenkinsJob()))
}

func (p *Project) JenkinsStatus(job config.JenkinsJobConfig) string {
	name := job.JobName(p.JenkinsJob())
	if status, ok := p.jenkinsStatus[name]; ok {
		return status
	}
	status := p.badgeStatus(p.JenkinsImageURL(job), "build")
	p.jenkinsStatus[name] = status
	return status
}

//
// Coveralls
//

func (p *Project) CoverallsURL() string {
	if !p.UsesTravis() && !p.UsesGitHubActions() {
		return ""
	}
	return fmt.Sprintf("https://coveralls.io/r/%s/%s?branch=%s",
		p.Owner(), p.Name(), p.Branch())
}

func (p *Project) CoverallsImageURL() string {
	if !p.UsesTravis() && !p.UsesGitHubActions() {
		return ""
	}
	return fmt.Sprintf("https://coveralls.io/repos/%s/%s/badge.svg?branch=%s",
		p.Owner(), p.Name(), p.Branch())
}

const (
	coverallsAssetPrefix = "https://s3.amazonaws.com/assets.coveralls.io/badges/coveralls_"
	coverallsAssetSuffix = ".svg"
)

// CoverageNumber is the coverage percentage, or nil when coverage is
// inapplicable or the badge reports "unknown". The coveralls badge
// endpoint redirects to an asset URL whose filename embeds the number.
func (p *Project) CoverageNumber() *int {
	return p.coverage.get(func() *int {
		url := p.CoverallsImageURL()
		if url == "" {
			return nil
		}
		resp, err := p.deps.Session.Get(p.ctx, url)
		if err != nil {
			p.deps.Log.Warn("coverage badge unavailable", "project", p.Name(), "error", err)
			return nil
		}
		location := resp.Header.Get("Location")
		if resp.StatusCode != http.StatusFound || location == "" {
			return nil
		}
		if !strings.HasPrefix(location, coverallsAssetPrefix) ||
			!strings.HasSuffix(location, coverallsAssetSuffix) {
			return nil
		}
		value := strings.TrimSuffix(strings.TrimPrefix(location, coverallsAssetPrefix), coverallsAssetSuffix)
		n, err := strconv.Atoi(value) // could be "unknown"
		if err != nil {
			return nil
		}
		return &n
	})
}

// Coverage formats the coverage number, or returns unknown when there
// is none.
func (p *Project) Coverage(format, unknown string) string {
	n := p.CoverageNumber()
	if n == nil {
		return unknown
	}
	return fmt.Sprintf(format, *n)
}

// badgeStatus fetches a status badge and decodes its text, degrading
// any failure to StatusUnknown. Only the issue tracker is allowed to
// fail the report; badges are not.
func (p *Project) badgeStatus(imageURL string, excluded ...string) string {
	if imageURL == "" {
		return ""
	}
	resp, err := p.deps.Session.Get(p.ctx, imageURL)
	if err != nil {
		p.deps.Log.Warn("status badge unavailable", "url", imageURL, "error", err)
		return StatusUnknown
	}
	if word := fetch.ParseBadgeText(resp.Body, excluded...); word != "" {
		return word
	}
	return StatusUnknown
}
