package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/skeincare/internal/view"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(p *view.Projection) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Skein Library\n\n")
	fmt.Fprintf(&b, "%s (%s)\n\n", p.Counter(), describeState(p.State))

	f.writeSkeinTable(&b, p.Items)
	f.writeBrandTable(&b, p)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSkeinTable(b *strings.Builder, items []view.Entry) {
	b.WriteString("## Skeins\n\n")
	if len(items) == 0 {
		b.WriteString("_No skeins match the current view._\n\n")
		return
	}

	b.WriteString("| Brand | SKU | Name | Colors | Material | Count |\n")
	b.WriteString("|-------|-----|------|--------|----------|------:|\n")
	for _, e := range items {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %d |\n",
			escapeCell(e.Brand), escapeCell(e.SKU), escapeCell(e.Skein.Name),
			strings.Join(colorHexes(e.Skein), " "), escapeCell(e.Skein.Material), e.Count)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeBrandTable(b *strings.Builder, p *view.Projection) {
	coverage := coverageByBrand(p)
	if len(coverage) == 0 {
		return
	}

	opts := termfmt.DefaultOptions()
	opts.Color = false

	b.WriteString("## Brands\n\n")
	b.WriteString("| Brand | Owned | Catalog | Skeins | Coverage |\n")
	b.WriteString("|-------|------:|--------:|-------:|----------|\n")
	for _, c := range coverage {
		fmt.Fprintf(b, "| %s | %d | %d | %s | `%s` %.0f%% |\n",
			escapeCell(c.Brand), c.Owned, c.Catalog, formatNumber(c.Skeins),
			coverageBar(c.Ratio(), opts), c.Ratio()*100)
	}
	b.WriteString("\n")
}

// escapeCell keeps pipes and newlines from breaking a table row
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
