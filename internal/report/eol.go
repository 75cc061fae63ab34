package report

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed eol.yaml
var eolYAML []byte

// eolDates maps interpreter version labels to their end-of-life date
// (ISO 8601). Static data, loaded once.
var eolDates = mustLoadEOLDates()

func mustLoadEOLDates() map[string]string {
	dates := map[string]string{}
	if err := yaml.Unmarshal(eolYAML, &dates); err != nil {
		panic(fmt.Sprintf("bad embedded eol table: %v", err))
	}
	return dates
}

// EOLTooltip describes an interpreter version's support window for a
// header tooltip, or "" when the version is not in the table (PyPy
// and friends have no fixed date).
func EOLTooltip(version string) string {
	date, ok := eolDates[version]
	if !ok {
		return ""
	}
	return "Supported until " + date
}
