package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/joescharf/psum/internal/config"
	"github.com/joescharf/psum/internal/project"
)

// sortHelpers holds the shared textExtraction functions, emitted into
// the report script once each when some column references them.
var sortHelpers = map[string]string{
	SortTitleAttribute: `var sortTitleAttribute = function(node, table, cellIndex) {
          return $(node).attr('title');
        };`,
	SortCoverage: `var sortCoverage = function(node, table, cellIndex) {
          return $(node).attr('data-coverage');
        };`,
	SortIssues: `var sortIssues = function(node, table, cellIndex) {
          /* can't start with a digit or tablesorter discards the 2nd sort key */
          return 'new ' + $(node).attr('data-new') + ' old ' + $(node).attr('data-total');
        };`,
}

type pageView struct {
	ID           string
	Title        string
	Active       bool
	Cols         []HTML
	Headers      []HTML
	Rows         [][]HTML
	Extractors   string
	RenderHeader string
}

type reportView struct {
	Stylesheet template.CSS
	Script     template.JS
	Pages      []*pageView
	Footer     HTML
	RunID      string
}

// buildPageView renders one page's headers and rows. A colgroup is
// emitted only when at least one column declares a width.
func buildPageView(p *Page, projects []*project.Project, active bool) (*pageView, error) {
	view := &pageView{
		ID:           p.ID(),
		Title:        p.Title,
		Active:       active,
		Extractors:   p.JSTextExtractors(),
		RenderHeader: p.JSRenderHeader(),
	}
	hasWidths := false
	for _, c := range p.Columns {
		if c.Width != "" {
			hasWidths = true
			break
		}
	}
	for _, c := range p.Columns {
		if hasWidths {
			col := c.Col()
			if col == "" {
				col = HTML("<col>")
			}
			view.Cols = append(view.Cols, col)
		}
		view.Headers = append(view.Headers, c.TH(VariantDefault))
	}
	for _, proj := range projects {
		var row []HTML
		for _, c := range p.Columns {
			cell, err := c.TD(proj)
			if err != nil {
				return nil, err
			}
			row = append(row, cell)
		}
		view.Rows = append(view.Rows, row)
	}
	return view, nil
}

// renderScript builds the tablesorter setup: shared sort helpers,
// one init call per page, and the tab/history plumbing.
func renderScript(pages Pages) template.JS {
	var b strings.Builder
	b.WriteString("$(function() {\n")
	b.WriteString(tablesorterTheme)
	for _, name := range pages.extractorHelpers() {
		b.WriteString("        ")
		b.WriteString(sortHelpers[name])
		b.WriteString("\n")
	}
	for _, p := range pages {
		headerTemplate := "{content} {icon}"
		if p.JSRenderHeader() != "" {
			// leading space leaves room for the relocated sort icon
			headerTemplate = " {content} {icon}"
		}
		fmt.Fprintf(&b, "        $(\"#%s table\").tablesorter({\n", p.ID())
		b.WriteString("          theme: \"bootstrap\",\n")
		b.WriteString("          widgets: ['uitheme'],\n")
		b.WriteString("          widthFixed: true,\n")
		fmt.Fprintf(&b, "          headerTemplate: '%s',\n", headerTemplate)
		if cond := p.JSRenderHeader(); cond != "" {
			b.WriteString("          onRenderHeader: function(idx, config, table) {\n")
			fmt.Fprintf(&b, "            if (%s) {\n", cond)
			b.WriteString("              var $this = $(this);\n")
			b.WriteString("              $this.find('div').prepend($this.find('i'));\n")
			b.WriteString("            }\n")
			b.WriteString("          },\n")
		}
		b.WriteString("          sortList: [[0, 0]]")
		if ex := p.JSTextExtractors(); ex != "" {
			b.WriteString(",\n          textExtraction: {\n            ")
			b.WriteString(ex)
			b.WriteString("\n          }")
		}
		b.WriteString("\n        });\n")
	}
	b.WriteString(tabHistoryScript(pages))
	b.WriteString("      });")
	return template.JS(b.String())
}

const tablesorterTheme = `        $.extend($.tablesorter.themes.bootstrap, {
          table        : '',
          caption      : '',
          header       : '',
          footerRow    : '',
          footerCells  : '',
          sortNone     : '',
          sortAsc      : '',
          sortDesc     : '',
          active       : '',
          hover        : 'active',
          icons        : '',
          iconSortNone : 'glyphicon glyphicon-sort invisible',
          iconSortAsc  : 'glyphicon glyphicon-sort-by-attributes',
          iconSortDesc : 'glyphicon glyphicon-sort-by-attributes-alt',
          filterRow    : '',
          even         : '',
          odd          : ''
        });
`

// tabHistoryScript keeps the location hash, the highlighted nav
// button, and the visible tab in sync.
func tabHistoryScript(pages Pages) string {
	defaultID := "release-status"
	if len(pages) > 0 {
		defaultID = pages[0].ID()
	}
	return fmt.Sprintf(`        var dont_recurse = false;
        $('a[data-toggle="tab"]').on('shown.bs.tab', function(e) {
          $(e.target).siblings('.btn-primary').removeClass('btn-primary').addClass('btn-default');
          $(e.target).removeClass('btn-default').addClass('btn-primary');
          if (!dont_recurse) {
            dont_recurse = true;
            if (history.pushState) {
              history.pushState(null, null, '#'+$(e.target).attr('href').substr(1));
            } else {
              location.hash = '#'+$(e.target).attr('href').substr(1);
            }
            dont_recurse = false;
          }
        });
        if (location.hash !== '') {
          dont_recurse = true;
          $('a[href="' + location.hash + '"]').tab('show');
          dont_recurse = false;
        }
        $(window).bind('hashchange', function() {
          if (!dont_recurse) {
            dont_recurse = true;
            $('a[href="' + (location.hash || '#%s') + '"]').tab('show');
            dont_recurse = false;
          }
        });
`, defaultID)
}

// staticCSS is the styling that does not depend on the column set.
const staticCSS = `th { white-space: nowrap; }
td > a > img { position: relative; top: -1px; }
.tablesorter-icon { color: #ddd; }
.tablesorter-header { cursor: default; }
.invisible { visibility: hidden; }
footer { padding-top: 16px; padding-bottom: 16px; text-align: center; color: #999; }`

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <meta http-equiv="X-UA-Compatible" content="IE=edge">
    <meta name="viewport" content="width=device-width, initial-scale=1">

    <title>Projects</title>

    <link rel="stylesheet" href="assets/css/bootstrap.min.css">

    <style type="text/css">
{{.Stylesheet}}
    </style>
  </head>

  <body role="document">
    <!-- run {{.RunID}} -->
    <div class="container">

      <div class="page-header">
        <div class="btn-group pull-right" role="menu">
{{- range .Pages}}
          <a class="btn {{if .Active}}btn-primary{{else}}btn-default{{end}}" data-toggle="tab" href="#{{.ID}}">{{.Title}}</a>
{{- end}}
        </div>
        <h1>Projects</h1>
      </div>

      <div class="tab-content">
{{- range .Pages}}

        <div class="tab-pane{{if .Active}} active{{end}}" id="{{.ID}}">
          <table class="table table-hover">
{{- if .Cols}}
            <colgroup>
{{- range .Cols}}
              {{.}}
{{- end}}
            </colgroup>
{{- end}}
            <thead>
              <tr>
{{- range .Headers}}
                {{.}}
{{- end}}
              </tr>
            </thead>
            <tbody>
{{- range .Rows}}
              <tr>
{{- range .}}
                {{.}}
{{- end}}
              </tr>
{{- end}}
            </tbody>
          </table>
        </div>
{{- end}}
      </div>
    </div>
    <footer>
      <div class="container">
        {{.Footer}}
      </div>
    </footer>
    <script src="assets/js/jquery.min.js"></script>
    <script src="assets/js/jquery.tablesorter.min.js"></script>
    <script src="assets/js/jquery.tablesorter.widgets.min.js"></script>
    <script src="assets/js/bootstrap.min.js"></script>
    <script>
      {{.Script}}
    </script>
  </body>
</html>
`))

// RenderHTML renders the whole report into memory. Callers write the
// bytes out only on success, so a rendering failure never truncates a
// previously generated file.
func RenderHTML(projects []*project.Project, cfg *config.Config, pages Pages, runID string) ([]byte, error) {
	view := &reportView{
		Script: renderScript(pages),
		Footer: HTML(cfg.Footer),
		RunID:  runID,
	}

	var css strings.Builder
	for _, line := range strings.Split(staticCSS, "\n") {
		css.WriteString("      " + line + "\n")
	}
	for _, line := range strings.Split(pages.Stylesheet(VariantDefault), "\n") {
		css.WriteString("      " + line + "\n")
	}
	view.Stylesheet = template.CSS(strings.TrimRight(css.String(), "\n"))

	for i, p := range pages {
		pv, err := buildPageView(p, projects, i == 0)
		if err != nil {
			return nil, err
		}
		view.Pages = append(view.Pages, pv)
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
