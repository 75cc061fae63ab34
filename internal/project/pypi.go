package project

import (
	"fmt"
	"strings"
)

// Downloads is the most recent month's PyPI download count, or nil
// when the stats API has no data for the package. Stats failures are
// soft: a missing download count never fails the report.
func (p *Project) Downloads() *int {
	return p.downloads.get(func() *int {
		url := fmt.Sprintf("https://pypistats.org/api/packages/%s/recent",
			strings.ToLower(p.PypiName()))
		var body struct {
			Data struct {
				LastMonth int `json:"last_month"`
			} `json:"data"`
		}
		if err := p.deps.Session.GetJSON(p.ctx, url, &body); err != nil {
			p.deps.Log.Warn("download stats unavailable", "project", p.Name(), "error", err)
			return nil
		}
		n := body.Data.LastMonth
		return &n
	})
}
