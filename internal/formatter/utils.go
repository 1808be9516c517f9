package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/view"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// colorHexes lists the color bands of a skein as #RRGGBB strings
func colorHexes(s *catalog.Skein) []string {
	hexes := make([]string, 0, len(s.Colors))
	for _, c := range s.Colors {
		hexes = append(hexes, c.Hex())
	}
	return hexes
}

// brandCoverage is the share of a brand's catalog the user owns at least one of
type brandCoverage struct {
	Brand   string
	Catalog int
	Owned   int
	Skeins  int
}

// Ratio returns Owned/Catalog in 0..1
func (c brandCoverage) Ratio() float64 {
	if c.Catalog == 0 {
		return 0
	}
	return float64(c.Owned) / float64(c.Catalog)
}

// coverageByBrand aggregates the full catalog, ignoring the current filter
func coverageByBrand(p *view.Projection) []brandCoverage {
	byBrand := make(map[string]*brandCoverage)
	for _, e := range p.All {
		c, ok := byBrand[e.Brand]
		if !ok {
			c = &brandCoverage{Brand: e.Brand}
			byBrand[e.Brand] = c
		}
		c.Catalog++
		if e.Count > 0 {
			c.Owned++
			c.Skeins += e.Count
		}
	}

	out := make([]brandCoverage, 0, len(byBrand))
	for _, c := range byBrand {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Brand < out[j].Brand })
	return out
}

// coverageBar renders a coverage ratio with the go-termfmt bar
func coverageBar(ratio float64, opts *termfmt.TerminalOptions) string {
	return termfmt.CreateConfidenceBar(ratio, opts)
}

// describeState summarizes the filter in one phrase
func describeState(s view.State) string {
	parts := []string{"sorted by " + s.Sort.String()}
	if s.ShowAll {
		parts = append(parts, "all skeins")
	} else {
		parts = append(parts, "owned only")
	}
	if s.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", s.Search))
	}
	return strings.Join(parts, ", ")
}
