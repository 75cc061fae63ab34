// Package report renders the project summary as HTML or plain text.
//
// The HTML report is composed from declarative column definitions: each
// column knows how to render its header and data cells, which CSS rules
// it needs, and how the client-side sort script should extract a
// comparable value from its cells. Pages group columns, and the drivers
// turn pages plus a project list into a document.
package report

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
)

// HTML is a fragment of markup that is safe to insert verbatim.
// Everything else goes through Text or the attr escaper first.
type HTML = template.HTML

// Attr is a single HTML attribute. Order matters for readable output,
// so attributes travel in slices, not maps.
type Attr struct {
	Key   string
	Value string
}

// Text escapes a string for use as element content.
func Text(s string) HTML {
	return HTML(template.HTMLEscapeString(s))
}

// Tag builds an element with escaped attribute values around an
// already-safe inner fragment. An empty name yields just the inner
// fragment.
func Tag(name string, attrs []Attr, inner HTML) HTML {
	if name == "" {
		return inner
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(name)
	for _, a := range attrs {
		fmt.Fprintf(&b, ` %s="%s"`, a.Key, template.HTMLEscapeString(a.Value))
	}
	b.WriteString(">")
	b.WriteString(string(inner))
	fmt.Fprintf(&b, "</%s>", name)
	return HTML(b.String())
}

// Link wraps inner in an anchor. A title, when given, becomes the
// hover tooltip.
func Link(href string, inner HTML, title string) HTML {
	attrs := []Attr{{"href", href}}
	if title != "" {
		attrs = append(attrs, Attr{"title", title})
	}
	return Tag("a", attrs, inner)
}

// Img renders a badge-sized image. All status badges share the same
// height so rows line up.
func Img(src, alt string) HTML {
	return HTML(fmt.Sprintf(`<img src="%s" alt="%s" height="20">`,
		template.HTMLEscapeString(src), template.HTMLEscapeString(alt)))
}

// Span renders a classed span around escaped text.
func Span(class, text string) HTML {
	return Tag("span", []Attr{{"class", class}}, Text(text))
}

// dataAttrs renders a data map as sorted data-* attributes so cell
// markup is deterministic.
func dataAttrs(data map[string]string) []Attr {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, Attr{"data-" + k, data[k]})
	}
	return attrs
}

// Pluralize appends a count to a plural noun, trimming the "s" when
// the count is exactly one.
func Pluralize(n int, plural string) string {
	if n == 1 {
		plural = strings.TrimSuffix(plural, "s")
	}
	return fmt.Sprintf("%d %s", n, plural)
}
