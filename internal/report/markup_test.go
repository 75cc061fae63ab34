package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_Escapes(t *testing.T) {
	assert.Equal(t, HTML("a &lt;b&gt; &amp;c"), Text("a <b> &c"))
}

func TestTag(t *testing.T) {
	got := Tag("td", []Attr{{"class", "x"}, {"title", `say "hi"`}}, Text("ok"))
	assert.Equal(t, HTML(`<td class="x" title="say &#34;hi&#34;">ok</td>`), got)
}

func TestTag_NoName(t *testing.T) {
	assert.Equal(t, HTML("inner"), Tag("", nil, "inner"))
}

func TestLink(t *testing.T) {
	assert.Equal(t,
		HTML(`<a href="https://example.com">x</a>`),
		Link("https://example.com", Text("x"), ""))
	assert.Equal(t,
		HTML(`<a href="https://example.com" title="2 new, 3 total">x</a>`),
		Link("https://example.com", Text("x"), "2 new, 3 total"))
}

func TestImg(t *testing.T) {
	assert.Equal(t,
		HTML(`<img src="https://example.com/badge.svg" alt="Build Status" height="20">`),
		Img("https://example.com/badge.svg", "Build Status"))
}

func TestDataAttrs_Sorted(t *testing.T) {
	attrs := dataAttrs(map[string]string{"total": "3", "new": "2"})
	assert.Equal(t, []Attr{{"data-new", "2"}, {"data-total", "3"}}, attrs)
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "0 commits", Pluralize(0, "commits"))
	assert.Equal(t, "1 commit", Pluralize(1, "commits"))
	assert.Equal(t, "2 commits", Pluralize(2, "commits"))
}

func TestEOLTooltip(t *testing.T) {
	assert.Equal(t, "Supported until 2021-12-23", EOLTooltip("3.6"))
	assert.Equal(t, "Supported until 2020-01-01", EOLTooltip("2.7"))
	assert.Equal(t, "", EOLTooltip("PyPy"))
}
