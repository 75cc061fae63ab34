package fetch

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// ParseBadgeText extracts the visible text of an SVG status badge.
//
// Badge renderers duplicate every label with a fill-opacity'd copy to
// fake a drop shadow; those copies are skipped, as is any of the
// caller's excluded words (typically the mode label like "build").
// Badge formats are not under our control, so malformed or non-SVG
// input yields "" rather than an error.
func ParseBadgeText(body []byte, excluded ...string) string {
	dec := xml.NewDecoder(bytes.NewReader(body))

	type frame struct {
		shadow bool
		inText bool
	}
	var stack []frame
	var words []string
	sawSVG := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if t.Name.Local != "svg" {
					return ""
				}
				sawSVG = true
			}
			f := frame{}
			if len(stack) > 0 {
				f = stack[len(stack)-1]
			}
			for _, attr := range t.Attr {
				if attr.Name.Local == "fill-opacity" && !isFullOpacity(attr.Value) {
					f.shadow = true
				}
			}
			if t.Name.Local == "text" || t.Name.Local == "tspan" {
				f.inText = true
			}
			stack = append(stack, f)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			f := stack[len(stack)-1]
			if !f.inText || f.shadow {
				continue
			}
			word := strings.TrimSpace(string(t))
			if word == "" || isExcluded(word, excluded) {
				continue
			}
			words = append(words, word)
		}
	}
	if !sawSVG {
		return ""
	}
	return strings.Join(words, " ")
}

func isFullOpacity(value string) bool {
	switch strings.TrimSpace(value) {
	case "1", "1.0", "100%":
		return true
	}
	return false
}

func isExcluded(word string, excluded []string) bool {
	for _, e := range excluded {
		if strings.EqualFold(word, e) {
			return true
		}
	}
	return false
}
