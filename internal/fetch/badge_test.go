package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// shieldsBadge mimics the shields.io layout: every label is drawn twice,
// once as a darker drop shadow and once crisply.
const shieldsBadge = `<svg xmlns="http://www.w3.org/2000/svg" width="90" height="20">
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="19.5" y="15" fill="#010101" fill-opacity=".3">build</text>
    <text x="19.5" y="14">build</text>
    <text x="61.5" y="15" fill="#010101" fill-opacity=".3">passing</text>
    <text x="61.5" y="14">passing</text>
  </g>
</svg>`

const jenkinsBadge = `<svg xmlns="http://www.w3.org/2000/svg" width="90" height="18">
  <g font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="10">
    <text x="18" y="13" fill="#010101" fill-opacity=".3">build</text>
    <text x="18" y="12" fill="#fff">build</text>
    <text x="62" y="13" fill="#010101" fill-opacity=".3">failing</text>
    <text x="62" y="12" fill="#fff">failing</text>
  </g>
</svg>`

func TestParseBadgeText(t *testing.T) {
	assert.Equal(t, "passing", ParseBadgeText([]byte(shieldsBadge), "build"))
	assert.Equal(t, "failing", ParseBadgeText([]byte(jenkinsBadge), "build"))
}

func TestParseBadgeText_KeepsAllWordsWithoutExclusions(t *testing.T) {
	assert.Equal(t, "build passing", ParseBadgeText([]byte(shieldsBadge)))
}

func TestParseBadgeText_ExclusionIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, "passing", ParseBadgeText([]byte(shieldsBadge), "Build"))
}

func TestParseBadgeText_Tspans(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg">
	  <text><tspan>no</tspan> <tspan>tests</tspan></text>
	</svg>`
	assert.Equal(t, "no tests", ParseBadgeText([]byte(svg)))
}

func TestParseBadgeText_NotSVG(t *testing.T) {
	assert.Equal(t, "", ParseBadgeText([]byte("<html><body>404</body></html>")))
	assert.Equal(t, "", ParseBadgeText([]byte("not xml at all")))
	assert.Equal(t, "", ParseBadgeText([]byte("<svg><text>broken")))
	assert.Equal(t, "", ParseBadgeText(nil))
}

func TestParseBadgeText_IgnoresTextOutsideTextElements(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg">
	  stray
	  <text>ok</text>
	</svg>`
	assert.Equal(t, "ok", ParseBadgeText([]byte(svg)))
}
