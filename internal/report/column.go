package report

import (
	"fmt"
	"strings"

	"github.com/joescharf/psum/internal/project"
)

// Stylesheet variants. The narrow variant serves small viewports, the
// laststatus variant is applied by Pages to trailing runs of adjacent
// status columns.
const (
	VariantDefault    = "default"
	VariantNarrow     = "narrow"
	VariantLastStatus = "laststatus"
)

// Names of the shared sort-extraction helpers emitted into the report
// script. A column referencing one of these gets an entry in its
// page's textExtraction map.
const (
	SortTitleAttribute = "sortTitleAttribute"
	SortCoverage       = "sortCoverage"
	SortIssues         = "sortIssues"
)

// Column describes one table column over three coordinated rendering
// passes: cell markup, stylesheet rules, and the sort-extraction
// script. Concrete columns are built by the constructors in this
// package; Inner is the one required hook.
type Column struct {
	Title         string
	NarrowTitle   string // header label for the narrow variant, Title if empty
	HeaderTooltip string
	CSSClass      string
	Width         string // <col width=...>, omitted if empty
	RightAlign    bool
	StatusLike    bool // participates in trailing-run padding fixups

	// CSSRules maps a variant name to rule templates. Templates may
	// reference {id} (the page anchor id) and {discrim} (either
	// ".class" or ":nth-child(n)", chosen per page).
	CSSRules map[string][]string

	// Inner produces the cell content. Required: rendering a column
	// without it is a programming error and panics.
	Inner func(p *project.Project) (HTML, error)

	// Tooltip, when set, supplies the cell's title attribute.
	Tooltip func(p *project.Project) string

	// Data, when set, supplies data-* attributes carrying raw sort
	// keys the visible text can't express.
	Data func(p *project.Project) (map[string]string, error)

	// Extractor names the shared sort helper for this column, or is
	// empty when the default text extraction suffices.
	Extractor string
}

func (c *Column) headerLabel(variant string) string {
	if variant == VariantNarrow && c.NarrowTitle != "" {
		return c.NarrowTitle
	}
	return c.Title
}

// Col renders the column's <col> tag for the table's colgroup, or ""
// when the column declares no width.
func (c *Column) Col() HTML {
	if c.Width == "" {
		return ""
	}
	return HTML(fmt.Sprintf(`<col width="%s">`, c.Width))
}

// TH renders the header cell.
func (c *Column) TH(variant string) HTML {
	var attrs []Attr
	if c.CSSClass != "" {
		attrs = append(attrs, Attr{"class", c.CSSClass})
	}
	if c.HeaderTooltip != "" {
		attrs = append(attrs, Attr{"title", c.HeaderTooltip})
	}
	return Tag("th", attrs, Text(c.headerLabel(variant)))
}

// TD renders the data cell for one project.
func (c *Column) TD(p *project.Project) (HTML, error) {
	if c.Inner == nil {
		panic(fmt.Sprintf("column %q has no cell renderer", c.Title))
	}
	inner, err := c.Inner(p)
	if err != nil {
		return "", err
	}
	var attrs []Attr
	if c.CSSClass != "" {
		attrs = append(attrs, Attr{"class", c.CSSClass})
	}
	if c.Tooltip != nil {
		if title := c.Tooltip(p); title != "" {
			attrs = append(attrs, Attr{"title", title})
		}
	}
	if c.Data != nil {
		data, err := c.Data(p)
		if err != nil {
			return "", err
		}
		attrs = append(attrs, dataAttrs(data)...)
	}
	return Tag("td", attrs, inner), nil
}

// StylesheetRules instantiates the column's rule templates for one
// variant within a page. The discriminator is the column's CSS class
// when that class is unique within the page, otherwise the positional
// :nth-child selector, so a shared class never styles the wrong
// column.
func (c *Column) StylesheetRules(page *Page, variant string) []string {
	templates := c.CSSRules[variant]
	if len(templates) == 0 {
		return nil
	}
	discrim := page.discriminator(c)
	rules := make([]string, 0, len(templates))
	for _, t := range templates {
		rule := strings.ReplaceAll(t, "{id}", page.ID())
		rule = strings.ReplaceAll(rule, "{discrim}", discrim)
		rules = append(rules, rule)
	}
	return rules
}

// JSTextExtractor renders this column's textExtraction entry for the
// sort script, keyed by its zero-based position. Empty when the
// column declares no extractor.
func (c *Column) JSTextExtractor(index int, last bool) string {
	if c.Extractor == "" {
		return ""
	}
	entry := fmt.Sprintf("%d: %s", index, c.Extractor)
	if !last {
		entry += ","
	}
	return entry
}

// alignRule is the shared right-alignment rule template.
const alignRule = "#{id} th{discrim}, #{id} td{discrim} { text-align: right; }"

// paddingRule removes the gap after a status badge so adjacent badges
// in a trailing run sit flush.
const paddingRule = "#{id} th{discrim}, #{id} td{discrim} { padding-right: 0; }"
