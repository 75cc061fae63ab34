package report

import (
	"fmt"
	"strings"
)

// Page is one tab of the report: a title and an ordered column list.
// The title doubles as the tab's URL fragment, so it must be unique
// within a Pages collection.
type Page struct {
	Title   string
	Columns []*Column
}

// ID is the page's HTML anchor id, derived from the title.
func (p *Page) ID() string {
	return strings.ReplaceAll(strings.ToLower(p.Title), " ", "-")
}

// discriminator picks the CSS selector suffix for a column: its class
// when the class is set and unique within the page, otherwise the
// 1-based positional selector.
func (p *Page) discriminator(c *Column) string {
	unique := c.CSSClass != ""
	if unique {
		for _, other := range p.Columns {
			if other != c && other.CSSClass == c.CSSClass {
				unique = false
				break
			}
		}
	}
	if unique {
		return "." + c.CSSClass
	}
	for i, other := range p.Columns {
		if other == c {
			return fmt.Sprintf(":nth-child(%d)", i+1)
		}
	}
	panic(fmt.Sprintf("column %q is not on page %q", c.Title, p.Title))
}

// StylesheetRules collects the page's CSS rules for one variant,
// skipping duplicates (several columns of the same kind declare
// identical class-based rules).
func (p *Page) StylesheetRules(variant string) []string {
	var rules []string
	seen := map[string]bool{}
	for _, c := range p.Columns {
		for _, rule := range c.StylesheetRules(p, variant) {
			if seen[rule] {
				continue
			}
			seen[rule] = true
			rules = append(rules, rule)
		}
	}
	return rules
}

// JSTextExtractors renders the page's textExtraction object literal
// entries, one per column with an extractor, or "" when no column
// declares one.
func (p *Page) JSTextExtractors() string {
	var entries []string
	for i, c := range p.Columns {
		if c.Extractor != "" {
			entries = append(entries, fmt.Sprintf("%d: %s", i, c.Extractor))
		}
	}
	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, ",\n            ")
}

// rightAlignedIndexes returns the zero-based positions of the
// right-aligned columns.
func (p *Page) rightAlignedIndexes() []int {
	var idx []int
	for i, c := range p.Columns {
		if c.RightAlign {
			idx = append(idx, i)
		}
	}
	return idx
}

// JSRenderHeader renders the header-render condition that moves the
// sort icon to the left of every right-aligned column. Emitted only
// when some but not all columns are right-aligned; a contiguous run
// ending at the last column compresses to a single comparison.
func (p *Page) JSRenderHeader() string {
	idx := p.rightAlignedIndexes()
	if len(idx) == 0 || len(idx) == len(p.Columns) {
		return ""
	}
	if idx[len(idx)-1] == len(p.Columns)-1 && idx[0]+len(idx) == len(p.Columns) {
		return fmt.Sprintf("idx >= %d", idx[0])
	}
	terms := make([]string, len(idx))
	for i, n := range idx {
		terms[i] = fmt.Sprintf("idx == %d", n)
	}
	return strings.Join(terms, " || ")
}

// extractorHelpers lists the shared sort helpers the page's columns
// reference, in first-use order.
func (p *Page) extractorHelpers() []string {
	var names []string
	seen := map[string]bool{}
	for _, c := range p.Columns {
		if c.Extractor != "" && !seen[c.Extractor] {
			seen[c.Extractor] = true
			names = append(names, c.Extractor)
		}
	}
	return names
}

// Pages is the ordered page set of one report.
type Pages []*Page

// Stylesheet concatenates every page's rules for a variant and
// appends, per page, padding fixups for the trailing contiguous run
// of adjacent status columns. A run of one needs no fixup.
func (pp Pages) Stylesheet(variant string) string {
	var rules []string
	for _, p := range pp {
		rules = append(rules, p.StylesheetRules(variant)...)
	}
	for _, p := range pp {
		run := p.trailingStatusRun()
		if len(run) < 2 {
			continue
		}
		// every run member but the last loses its end padding
		for _, c := range run[:len(run)-1] {
			rule := strings.ReplaceAll(paddingRule, "{id}", p.ID())
			rule = strings.ReplaceAll(rule, "{discrim}", p.discriminator(c))
			rules = append(rules, rule)
		}
	}
	return strings.Join(rules, "\n")
}

// trailingStatusRun returns the contiguous run of status-family
// columns at the end of the page, if any.
func (p *Page) trailingStatusRun() []*Column {
	end := len(p.Columns)
	start := end
	for start > 0 && p.Columns[start-1].StatusLike {
		start--
	}
	return p.Columns[start:end]
}

// extractorHelpers across all pages, deduplicated in first-use order.
func (pp Pages) extractorHelpers() []string {
	var names []string
	seen := map[string]bool{}
	for _, p := range pp {
		for _, name := range p.extractorHelpers() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
