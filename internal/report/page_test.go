package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageID(t *testing.T) {
	p := &Page{Title: "Release status"}
	assert.Equal(t, "release-status", p.ID())
}

func TestDiscriminator_UniqueClass(t *testing.T) {
	a := &Column{Title: "A", CSSClass: "status"}
	b := &Column{Title: "B"}
	page := &Page{Title: "P", Columns: []*Column{a, b}}

	assert.Equal(t, ".status", page.discriminator(a))
	assert.Equal(t, ":nth-child(2)", page.discriminator(b))
}

func TestDiscriminator_SharedClassFallsBackToPosition(t *testing.T) {
	a := &Column{Title: "A", CSSClass: "status"}
	b := &Column{Title: "B", CSSClass: "status"}
	page := &Page{Title: "P", Columns: []*Column{a, b}}

	assert.Equal(t, ":nth-child(1)", page.discriminator(a))
	assert.Equal(t, ":nth-child(2)", page.discriminator(b))
}

func TestStylesheetRules_Deduplicated(t *testing.T) {
	rule := "#{id} span.new { font-weight: bold; }"
	a := &Column{Title: "A", CSSRules: map[string][]string{VariantDefault: {rule}}}
	b := &Column{Title: "B", CSSRules: map[string][]string{VariantDefault: {rule}}}
	page := &Page{Title: "P", Columns: []*Column{a, b}}

	assert.Equal(t, []string{"#p span.new { font-weight: bold; }"},
		page.StylesheetRules(VariantDefault))
}

func TestJSRenderHeader(t *testing.T) {
	left := func() *Column { return &Column{Title: "L"} }
	right := func() *Column { return &Column{Title: "R", RightAlign: true} }

	cases := []struct {
		name     string
		columns  []*Column
		expected string
	}{
		{"none aligned", []*Column{left(), left()}, ""},
		{"all aligned", []*Column{right(), right()}, ""},
		{"contiguous suffix", []*Column{left(), left(), right(), right()}, "idx >= 2"},
		{"scattered", []*Column{left(), right(), left(), right()}, "idx == 1 || idx == 3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := &Page{Title: "P", Columns: tc.columns}
			assert.Equal(t, tc.expected, page.JSRenderHeader())
		})
	}
}

func TestJSTextExtractors(t *testing.T) {
	page := &Page{Title: "P", Columns: []*Column{
		{Title: "A"},
		{Title: "B", Extractor: SortTitleAttribute},
		{Title: "C", Extractor: SortIssues},
	}}
	got := page.JSTextExtractors()
	assert.Contains(t, got, "1: sortTitleAttribute")
	assert.Contains(t, got, "2: sortIssues")

	empty := &Page{Title: "P", Columns: []*Column{{Title: "A"}}}
	assert.Equal(t, "", empty.JSTextExtractors())
}

func TestStylesheet_TrailingStatusRunPadding(t *testing.T) {
	status := func(title string) *Column {
		return &Column{
			Title:      title,
			StatusLike: true,
			CSSRules:   map[string][]string{VariantLastStatus: {paddingRule}},
		}
	}
	page := &Page{Title: "CI", Columns: []*Column{
		{Title: "Name"},
		status("A"),
		status("B"),
		status("C"),
	}}
	css := Pages{page}.Stylesheet(VariantDefault)

	// all run members but the last lose their end padding
	assert.Contains(t, css, "#ci th:nth-child(2), #ci td:nth-child(2) { padding-right: 0; }")
	assert.Contains(t, css, "#ci th:nth-child(3), #ci td:nth-child(3) { padding-right: 0; }")
	assert.NotContains(t, css, ":nth-child(4)")
}

func TestStylesheet_SingleStatusColumnNeedsNoPadding(t *testing.T) {
	page := &Page{Title: "CI", Columns: []*Column{
		{Title: "Name"},
		{Title: "A", StatusLike: true, CSSRules: map[string][]string{VariantLastStatus: {paddingRule}}},
	}}
	css := Pages{page}.Stylesheet(VariantDefault)
	assert.False(t, strings.Contains(css, "padding-right"))
}

func TestExtractorHelpers_Order(t *testing.T) {
	pages := Pages{
		&Page{Title: "A", Columns: []*Column{
			{Title: "x", Extractor: SortCoverage},
			{Title: "y", Extractor: SortIssues},
		}},
		&Page{Title: "B", Columns: []*Column{
			{Title: "z", Extractor: SortCoverage},
		}},
	}
	assert.Equal(t, []string{SortCoverage, SortIssues}, pages.extractorHelpers())
}
