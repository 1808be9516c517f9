package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/library"
	"github.com/yildizm/skeincare/internal/view"
)

func sampleProjection(state view.State) *view.Projection {
	cat := catalog.New()
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "310", Name: "Black", Colors: []catalog.Color{{0, 0, 0}}})
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "311", Name: "White", Colors: []catalog.Color{{255, 255, 255}}})
	cat.Put(&catalog.Skein{Brand: "anchor", SKU: "403", Name: "Red | Dark", Colors: []catalog.Color{{200, 0, 0}, {90, 0, 0}}, Material: "silk"})

	lib := library.New()
	lib.SetCount("dmc", "310", 3)
	lib.SetCount("anchor", "403", 1200)
	return view.Project(cat, lib, state)
}

func TestJSONFormatter(t *testing.T) {
	p := sampleProjection(view.State{ShowAll: false, Sort: view.SortCount})

	data, err := NewJSON().Format(p)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var out LibraryOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Summary.TotalSkeins != 1002 || out.Summary.UniqueSkeins != 2 {
		t.Errorf("Unexpected summary %+v", out.Summary)
	}
	if out.Summary.Shown != 2 || out.Summary.CatalogSize != 3 {
		t.Errorf("Expected 2 of 3 shown, got %+v", out.Summary)
	}
	if out.View.Sort != "count" || out.View.ShowAll {
		t.Errorf("Unexpected view %+v", out.View)
	}
	if len(out.Skeins) != 2 || out.Skeins[0].SKU != "403" || out.Skeins[0].Count != 999 {
		t.Fatalf("Expected anchor 403 first with clamped count, got %+v", out.Skeins)
	}
	if got := strings.Join(out.Skeins[0].Colors, ","); got != "#C80000,#5A0000" {
		t.Errorf("Expected both color bands, got %s", got)
	}
}

func TestCSVFormatter(t *testing.T) {
	p := sampleProjection(view.State{ShowAll: true, Sort: view.SortSKU})

	data, err := NewCSV().Format(p)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "brand,sku,name,count,colors,material" {
		t.Errorf("Unexpected header %v", rows[0])
	}
	if got := rows[1]; got[1] != "310" || got[3] != "3" || got[4] != "#000000" || got[5] != "cotton" {
		t.Errorf("Unexpected first row %v", got)
	}
	if got := rows[3]; got[0] != "anchor" || got[4] != "#C80000;#5A0000" || got[5] != "silk" {
		t.Errorf("Unexpected last row %v", got)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	p := sampleProjection(view.State{ShowAll: true, Sort: view.SortBrand})

	data, err := NewMarkdown().Format(p)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"# Skein Library",
		"Total Skeins: 1002 | Unique Skeins: 2",
		"| anchor | 403 | Red \\| Dark | #C80000 #5A0000 | silk | 999 |",
		"| dmc | 311 | White | #FFFFFF | cotton | 0 |",
		"## Brands",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, out)
		}
	}
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	p := view.Project(catalog.New(), library.New(), view.DefaultState())

	data, err := NewMarkdown().Format(p)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(string(data), "No skeins match") {
		t.Errorf("Expected empty notice, got %s", data)
	}
	if strings.Contains(string(data), "## Brands") {
		t.Error("Expected no brand table for an empty catalog")
	}
}

func TestTerminalFormatter_NoColor(t *testing.T) {
	p := sampleProjection(view.State{ShowAll: true, Search: "whi", Sort: view.SortCount})

	data, err := NewTerminal(false).Format(p)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := string(data)

	for _, want := range []string{"Skein Library", "Total Skeins", "1,002", "#FFFFFF", "White", `search "whi"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Black") {
		t.Error("Filtered-out skein should not be listed")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Expected no escape sequences without color")
	}
}

func TestTerminalFormatter_Empty(t *testing.T) {
	p := view.Project(catalog.New(), library.New(), view.DefaultState())

	data, err := NewTerminal(false).Format(p)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(string(data), "nothing to show") {
		t.Errorf("Expected empty notice, got %s", data)
	}
}

func TestSwatch_SplitsWidthAcrossBands(t *testing.T) {
	s := &catalog.Skein{Colors: []catalog.Color{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}}

	// lipgloss drops styling when no color profile is detected, leaving the cells
	got := Swatch(s, 7)
	if n := strings.Count(got, " "); n != 7 {
		t.Errorf("Expected 7 cells, got %d in %q", n, got)
	}

	if n := strings.Count(Swatch(s, 1), " "); n != 3 {
		t.Errorf("Expected at least one cell per band, got %d", n)
	}
}

func TestLabelColor(t *testing.T) {
	tests := []struct {
		name   string
		colors []catalog.Color
		want   string
	}{
		{"light", []catalog.Color{{255, 255, 255}}, "#000000"},
		{"dark", []catalog.Color{{0, 0, 0}}, "#FFFFFF"},
		{"mixed bands average", []catalog.Color{{255, 255, 255}, {0, 0, 0}}, "#FFFFFF"},
		{"yellow", []catalog.Color{{255, 230, 0}}, "#000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabelColor(&catalog.Skein{Colors: tt.colors}); string(got) != tt.want {
				t.Errorf("LabelColor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567"}
	for in, want := range tests {
		if got := formatNumber(in); got != want {
			t.Errorf("formatNumber(%d) = %s, want %s", in, got, want)
		}
	}
}
