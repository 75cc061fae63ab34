package project

import (
	"encoding/json"
	"fmt"
)

// Issue is the slice of the GitHub issue payload the report needs.
// The issues endpoint returns pull requests too, marked by the
// presence of the pull_request field.
type Issue struct {
	Number      int               `json:"number"`
	Title       string            `json:"title"`
	Labels      []json.RawMessage `json:"labels"`
	PullRequest json.RawMessage   `json:"pull_request"`
}

// IsPull reports whether this entry is actually a pull request.
func (i Issue) IsPull() bool {
	return i.PullRequest != nil
}

// Unlabeled issues have not been triaged yet.
func (i Issue) Unlabeled() bool {
	return len(i.Labels) == 0
}

// IssuesAndPulls fetches all open issues and pull requests. Unlike
// badge statuses these errors are fatal: a report silently missing its
// issue counts would be worse than no report.
func (p *Project) IssuesAndPulls() ([]Issue, error) {
	if p.issues.computed {
		return p.issues.value, nil
	}
	if !p.IsOnGitHub() {
		p.issues.computed = true
		return nil, nil
	}
	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/issues", p.Owner(), p.Name())
	raw, err := p.deps.Session.GetList(p.ctx, url, 100)
	if err != nil {
		// not memoized: a later read may retry after a rate limit
		return nil, err
	}
	issues := make([]Issue, 0, len(raw))
	for _, item := range raw {
		var issue Issue
		if err := json.Unmarshal(item, &issue); err != nil {
			continue
		}
		issues = append(issues, issue)
	}
	p.issues.value = issues
	p.issues.computed = true
	return issues, nil
}

func (p *Project) githubIssues() ([]Issue, error) {
	all, err := p.IssuesAndPulls()
	if err != nil {
		return nil, err
	}
	var issues []Issue
	for _, i := range all {
		if !i.IsPull() {
			issues = append(issues, i)
		}
	}
	return issues, nil
}

func (p *Project) githubPulls() ([]Issue, error) {
	all, err := p.IssuesAndPulls()
	if err != nil {
		return nil, err
	}
	var pulls []Issue
	for _, i := range all {
		if i.IsPull() {
			pulls = append(pulls, i)
		}
	}
	return pulls, nil
}

func (p *Project) OpenIssuesCount() (int, error) {
	issues, err := p.githubIssues()
	return len(issues), err
}

func (p *Project) UnlabeledOpenIssuesCount() (int, error) {
	issues, err := p.githubIssues()
	return countUnlabeled(issues), err
}

func (p *Project) OpenPullsCount() (int, error) {
	pulls, err := p.githubPulls()
	return len(pulls), err
}

func (p *Project) UnlabeledOpenPullsCount() (int, error) {
	pulls, err := p.githubPulls()
	return countUnlabeled(pulls), err
}

func countUnlabeled(issues []Issue) int {
	n := 0
	for _, i := range issues {
		if i.Unlabeled() {
			n++
		}
	}
	return n
}

func (p *Project) IssuesURL() string {
	if !p.IsOnGitHub() {
		return ""
	}
	return p.URL() + "/issues"
}

func (p *Project) PullsURL() string {
	if !p.IsOnGitHub() {
		return ""
	}
	return p.URL() + "/pulls"
}
