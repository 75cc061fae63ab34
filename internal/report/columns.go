package report

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/joescharf/psum/internal/config"
	"github.com/joescharf/psum/internal/project"
)

// dash is the cell content for a fact that does not apply to a
// project (no CI configured, no coverage service, and so on).
const dash = HTML("-")

// NameColumn links the project name to its repository, annotating
// checkouts that are not on the default branch.
func NameColumn(width string) *Column {
	return &Column{
		Title: "Name",
		Width: width,
		Inner: func(p *project.Project) (HTML, error) {
			name := Text(p.Name())
			inner := name
			if url := p.URL(); url != "" {
				inner = Link(url, name, "")
			}
			if branch := p.Branch(); branch != p.DefaultBranch() {
				inner += Text(" (" + branch + ")")
			}
			return inner, nil
		},
	}
}

// VersionColumn shows the last released tag, linked to the package
// index.
func VersionColumn() *Column {
	return &Column{
		Title: "Last release",
		Inner: func(p *project.Project) (HTML, error) {
			return Link(p.PypiURL(), Text(p.LastTag()), ""), nil
		},
	}
}

// tagDateFormat matches the git author-date format the tooltips carry
// so the sort script gets a lexicographically ordered key.
const tagDateFormat = "2006-01-02 15:04:05 -0700"

// DateColumn shows a humanized release date; the full timestamp rides
// in the tooltip and doubles as the sort key.
func DateColumn() *Column {
	return &Column{
		Title:      "Date",
		RightAlign: true,
		CSSRules:   map[string][]string{VariantDefault: {alignRule}},
		Extractor:  SortTitleAttribute,
		Inner: func(p *project.Project) (HTML, error) {
			return Text(humanize.Time(p.LastTagDate())), nil
		},
		Tooltip: func(p *project.Project) string {
			return p.LastTagDate().Format(tagDateFormat)
		},
	}
}

// ChangesColumn counts commits since the last release, linked to the
// hosting site's compare view.
func ChangesColumn() *Column {
	return &Column{
		Title:      "Pending changes",
		RightAlign: true,
		CSSRules:   map[string][]string{VariantDefault: {alignRule}},
		Inner: func(p *project.Project) (HTML, error) {
			label := Pluralize(len(p.PendingCommits()), "commits")
			return Link(p.CompareURL(), Text(label), ""), nil
		},
	}
}

// newStatusColumn is the shared shape of all badge columns: a
// link-wrapped badge image, or a dash when the provider does not
// apply to the project.
func newStatusColumn(title, alt string, status func(p *project.Project) (url, img string)) *Column {
	return &Column{
		Title:      title,
		RightAlign: true,
		StatusLike: true,
		CSSRules: map[string][]string{
			VariantDefault:    {alignRule},
			VariantLastStatus: {paddingRule},
		},
		Inner: func(p *project.Project) (HTML, error) {
			url, img := status(p)
			if url == "" || img == "" {
				return dash, nil
			}
			return Link(url, Img(img, alt), ""), nil
		},
	}
}

// TravisColumn shows the Travis CI badge.
func TravisColumn(width string) *Column {
	c := newStatusColumn("Travis CI", "Build Status", func(p *project.Project) (string, string) {
		return p.TravisURL(), p.TravisImageURL()
	})
	c.Width = width
	c.RightAlign = false
	c.CSSRules[VariantDefault] = nil
	return c
}

// GitHubActionsColumn shows the GitHub Actions workflow badge.
func GitHubActionsColumn(width string) *Column {
	c := newStatusColumn("GitHub Actions", "Build Status", func(p *project.Project) (string, string) {
		return p.GitHubActionsURL(), p.GitHubActionsImageURL()
	})
	c.Width = width
	c.RightAlign = false
	c.CSSRules[VariantDefault] = nil
	return c
}

// BuildStatusColumn shows one build badge, preferring GitHub Actions
// over Travis when a project has both.
func BuildStatusColumn() *Column {
	return newStatusColumn("Build status", "Build Status", func(p *project.Project) (string, string) {
		if p.UsesGitHubActions() {
			return p.GitHubActionsURL(), p.GitHubActionsImageURL()
		}
		return p.TravisURL(), p.TravisImageURL()
	})
}

// JenkinsColumn shows one configured Jenkins job's badge. A project
// may report to several jobs, so the column carries its job config.
func JenkinsColumn(job config.JenkinsJobConfig, width string) *Column {
	title := "Jenkins"
	if job.Title != "" {
		title += " " + job.Title
	}
	c := newStatusColumn(title, "Jenkins Status", func(p *project.Project) (string, string) {
		if !p.UsesJenkins() {
			return "", ""
		}
		return p.JenkinsURL(job), p.JenkinsImageURL(job)
	})
	c.Width = width
	c.RightAlign = false
	c.CSSRules[VariantDefault] = nil
	return c
}

// AppveyorColumn shows the Appveyor (Windows build) badge.
func AppveyorColumn(width string) *Column {
	c := newStatusColumn("Appveyor", "Build Status (Windows)", func(p *project.Project) (string, string) {
		return p.AppveyorURL(), p.AppveyorImageURL()
	})
	c.Width = width
	c.RightAlign = false
	c.CSSRules[VariantDefault] = nil
	return c
}

// CoverallsColumn shows the coverage badge and carries the numeric
// percentage in a data attribute so sorting is numeric rather than
// textual.
func CoverallsColumn(title, width string) *Column {
	c := newStatusColumn(title, "", func(p *project.Project) (string, string) {
		return p.CoverallsURL(), p.CoverallsImageURL()
	})
	c.Width = width
	c.RightAlign = false
	c.CSSRules[VariantDefault] = nil
	c.Extractor = SortCoverage
	c.Inner = func(p *project.Project) (HTML, error) {
		url, img := p.CoverallsURL(), p.CoverallsImageURL()
		if url == "" || img == "" {
			return dash, nil
		}
		alt := "Test Coverage: " + p.Coverage("%d%%", "unknown")
		return Link(url, Img(img, alt), ""), nil
	}
	c.Data = func(p *project.Project) (map[string]string, error) {
		if p.CoverallsURL() == "" {
			return nil, nil
		}
		return map[string]string{"coverage": p.Coverage("%d", "-1")}, nil
	}
	return c
}

// newDataColumn renders a "new (total)" count pair linked to the
// matching tracker page. Zero counts render dimmed, nonzero new
// counts render emphasized; the raw numbers ride in data attributes
// for the sort script.
func newDataColumn(title, width string, counts func(p *project.Project) (newCount, total int, err error), url func(p *project.Project) string) *Column {
	return &Column{
		Title:      title,
		Width:      width,
		RightAlign: true,
		Extractor:  SortIssues,
		CSSRules: map[string][]string{
			VariantDefault: {
				alignRule,
				"#{id} span.new { font-weight: bold; }",
				"#{id} span.none { color: #999; }",
			},
		},
		Inner: func(p *project.Project) (HTML, error) {
			newCount, total, err := counts(p)
			if err != nil {
				return "", err
			}
			newSpan := Span("new", fmt.Sprintf("%d", newCount))
			if newCount == 0 {
				newSpan = Span("none", "0")
			}
			totalPart := Text(fmt.Sprintf("(%d)", total))
			if total == 0 {
				totalPart = Span("none", "(0)")
			}
			tooltip := fmt.Sprintf("%d new, %d total", newCount, total)
			return Link(url(p), newSpan+" "+totalPart, tooltip), nil
		},
		Data: func(p *project.Project) (map[string]string, error) {
			newCount, total, err := counts(p)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"new":   fmt.Sprintf("%d", newCount),
				"total": fmt.Sprintf("%d", total),
			}, nil
		},
	}
}

// IssuesColumn counts open issues, unlabeled ones emphasized.
func IssuesColumn(width string) *Column {
	return newDataColumn("Issues", width,
		func(p *project.Project) (int, int, error) {
			newCount, err := p.UnlabeledOpenIssuesCount()
			if err != nil {
				return 0, 0, err
			}
			total, err := p.OpenIssuesCount()
			return newCount, total, err
		},
		func(p *project.Project) string { return p.IssuesURL() })
}

// PullsColumn counts open pull requests, unlabeled ones emphasized.
func PullsColumn(width string) *Column {
	return newDataColumn("PRs", width,
		func(p *project.Project) (int, int, error) {
			newCount, err := p.UnlabeledOpenPullsCount()
			if err != nil {
				return 0, 0, err
			}
			total, err := p.OpenPullsCount()
			return newCount, total, err
		},
		func(p *project.Project) string { return p.PullsURL() })
}

// pythonBadgeRules styles the yes/no interpreter-support badges.
var pythonBadgeRules = []string{
	"#{id} span.no,\n#{id} span.yes {\n  padding: 2px 4px 3px 4px;\n  font-family: DejaVu Sans, Verdana, Geneva, sans-serif;\n  font-size: 11px;\n  position: relative;\n  bottom: 2px;\n}",
	"#{id} span.no { color: #888; }",
	"#{id} span.yes {\n  color: #fff;\n  background-color: #4c1;\n  text-shadow: 0px 1px 0px rgba(1, 1, 1, 0.3);\n  border-radius: 4px;\n}",
}

// PythonSupportColumn shows whether the project declares support for
// one interpreter version. The header tooltip carries the version's
// end-of-life date when known.
func PythonSupportColumn(version string) *Column {
	return &Column{
		Title:         version,
		HeaderTooltip: EOLTooltip(version),
		CSSRules:      map[string][]string{VariantDefault: pythonBadgeRules},
		Inner: func(p *project.Project) (HTML, error) {
			if p.PythonVersions()[version] {
				return Span("yes", "+"), nil
			}
			return Span("no", "−"), nil
		},
	}
}

// PypiStatsColumn shows last-month download counts from pypistats,
// linked to the package's stats page.
func PypiStatsColumn() *Column {
	return &Column{
		Title:      "Downloads",
		RightAlign: true,
		CSSRules:   map[string][]string{VariantDefault: {alignRule}},
		Inner: func(p *project.Project) (HTML, error) {
			n := p.Downloads()
			if n == nil {
				return dash, nil
			}
			label := humanize.Comma(int64(*n)) + "/month"
			return Link(p.PypiStatsURL(), Text(label), ""), nil
		},
	}
}

// ReportPages builds the report's three pages for one configuration.
// Jenkins columns appear only when a Jenkins URL is configured, one
// per job line.
func ReportPages(cfg *config.Config) Pages {
	release := &Page{
		Title: "Release status",
		Columns: []*Column{
			NameColumn(""),
			VersionColumn(),
			DateColumn(),
			ChangesColumn(),
			BuildStatusColumn(),
		},
	}

	maintenance := &Page{
		Title: "Maintenance",
		Columns: []*Column{
			NameColumn("15%"),
			TravisColumn("15%"),
			GitHubActionsColumn("15%"),
		},
	}
	for _, job := range cfg.Jobs() {
		maintenance.Columns = append(maintenance.Columns, JenkinsColumn(job, "15%"))
	}
	maintenance.Columns = append(maintenance.Columns,
		AppveyorColumn("15%"),
		CoverallsColumn("Coveralls", "15%"),
		IssuesColumn("5%"),
		PullsColumn("5%"),
	)

	python := &Page{
		Title: "Python versions",
		Columns: []*Column{
			NameColumn(""),
		},
	}
	for _, version := range cfg.PythonVersions {
		python.Columns = append(python.Columns, PythonSupportColumn(version))
	}
	python.Columns = append(python.Columns,
		CoverallsColumn("Test coverage", ""),
		PypiStatsColumn(),
	)

	return Pages{release, maintenance, python}
}
