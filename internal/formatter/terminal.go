package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/emoji"
	"github.com/yildizm/skeincare/internal/view"
)

// DefaultSwatchWidth is the number of cells a swatch occupies
const DefaultSwatchWidth = 6

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts        *termfmt.TerminalOptions
	swatchWidth int
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	return NewTerminalWithWidth(color, DefaultSwatchWidth)
}

// NewTerminalWithWidth creates a terminal formatter with a custom swatch width
func NewTerminalWithWidth(color bool, swatchWidth int) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	if swatchWidth <= 0 {
		swatchWidth = DefaultSwatchWidth
	}
	return &terminalFormatter{opts: opts, swatchWidth: swatchWidth}
}

func (f *terminalFormatter) Format(p *view.Projection) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeSummary(&b, p)
	f.writeSkeins(&b, p.Items)
	f.writeBrands(&b, p)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Skein Library"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeSummary writes the counter line as a tree
func (f *terminalFormatter) writeSummary(b *strings.Builder, p *view.Projection) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Summary\n")

	items := []termfmt.TreeItem{
		{Label: "Total Skeins", Value: formatNumber(p.TotalSkeins)},
		{Label: "Unique Skeins", Value: formatNumber(p.UniqueSkeins)},
		{Label: "Shown", Value: fmt.Sprintf("%s of %s", formatNumber(len(p.Items)), formatNumber(len(p.All)))},
		{Label: "View", Value: describeState(p.State), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeSkeins(b *strings.Builder, items []view.Entry) {
	b.WriteString(emoji.GetEmoji("skein") + " Skeins\n")
	if len(items) == 0 {
		b.WriteString("   (nothing to show)\n\n")
		return
	}

	brandWidth, skuWidth, nameWidth := 0, 0, 0
	for _, e := range items {
		brandWidth = max(brandWidth, len(e.Brand))
		skuWidth = max(skuWidth, len(e.SKU))
		nameWidth = max(nameWidth, len(e.Skein.Name))
	}

	for i, e := range items {
		branch := "├─"
		if i == len(items)-1 {
			branch = "└─"
		}
		fmt.Fprintf(b, "%s %s %-*s %-*s %-*s %3d\n",
			branch, f.swatch(e.Skein),
			brandWidth, e.Brand, skuWidth, e.SKU, nameWidth, e.Skein.Name, e.Count)
	}
	b.WriteString("\n")
}

// writeBrands writes per-brand ownership over the whole catalog
func (f *terminalFormatter) writeBrands(b *strings.Builder, p *view.Projection) {
	coverage := coverageByBrand(p)
	if len(coverage) == 0 {
		return
	}

	b.WriteString(emoji.GetEmoji("brand") + " Brands\n")
	items := make([]termfmt.TreeItem, 0, len(coverage))
	for i, c := range coverage {
		items = append(items, termfmt.TreeItem{
			Label: c.Brand,
			Value: fmt.Sprintf("%d/%d owned, %s skeins", c.Owned, c.Catalog, formatNumber(c.Skeins)),
			Children: []termfmt.TreeItem{
				{Label: coverageBar(c.Ratio(), f.opts), Value: ""},
			},
			Last: i == len(coverage)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
}

// swatch renders the color bands of a skein. Without color the hex of the
// first band is printed instead.
func (f *terminalFormatter) swatch(s *catalog.Skein) string {
	if !f.opts.Color || len(s.Colors) == 0 {
		hex := catalog.White.Hex()
		if len(s.Colors) > 0 {
			hex = s.Colors[0].Hex()
		}
		return fmt.Sprintf("%-*s", max(f.swatchWidth, len(hex)), hex)
	}
	return Swatch(s, f.swatchWidth)
}

// Swatch renders a skein's colors as lipgloss background bands totalling width cells
func Swatch(s *catalog.Skein, width int) string {
	bands := s.Colors
	if len(bands) == 0 {
		bands = []catalog.Color{catalog.White}
	}
	if width < len(bands) {
		width = len(bands)
	}

	var b strings.Builder
	base, extra := width/len(bands), width%len(bands)
	for i, c := range bands {
		cells := base
		if i < extra {
			cells++
		}
		style := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex()))
		b.WriteString(style.Render(strings.Repeat(" ", cells)))
	}
	return b.String()
}

// LabelColor picks black or white text for a skein's swatch by its average lightness
func LabelColor(s *catalog.Skein) lipgloss.Color {
	if s.Lightness() > 0.5 {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#FFFFFF")
}
