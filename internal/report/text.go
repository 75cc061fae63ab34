package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/joescharf/psum/internal/output"
	"github.com/joescharf/psum/internal/project"
)

// WriteText prints the release summary as a plain-text table. Higher
// verbosity adds the compare URL, the supported interpreter list, and
// the checkout path.
func WriteText(ui *output.UI, projects []*project.Project, verbose int) error {
	headers := []string{"Name", "Pending", "Last release", "Date"}
	if verbose >= 1 {
		headers = append(headers, "Compare", "Python")
	}
	if verbose >= 2 {
		headers = append(headers, "Path")
	}
	table := ui.Table(headers)
	for _, p := range projects {
		pending := len(p.PendingCommits())
		pendingLabel := output.Yellow(Pluralize(pending, "commits"))
		if pending == 0 {
			pendingLabel = output.Green(Pluralize(pending, "commits"))
		}
		row := []string{
			output.Cyan(p.Name()),
			pendingLabel,
			p.LastTag(),
			humanize.Time(p.LastTagDate()),
		}
		if verbose >= 1 {
			row = append(row,
				p.CompareURL(),
				strings.Join(p.PythonVersionList(), ", "),
			)
		}
		if verbose >= 2 {
			row = append(row, p.WorkingTree)
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	return table.Render()
}
