package formatter

import (
	"encoding/json"

	"github.com/yildizm/skeincare/internal/view"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(p *view.Projection) ([]byte, error) {
	output := &LibraryOutput{
		View: StateOutput{
			ShowAll: p.State.ShowAll,
			Search:  p.State.Search,
			Sort:    p.State.Sort.String(),
		},
		Summary: SummaryOutput{
			TotalSkeins:  p.TotalSkeins,
			UniqueSkeins: p.UniqueSkeins,
			Shown:        len(p.Items),
			CatalogSize:  len(p.All),
		},
		Skeins: make([]SkeinOutput, 0, len(p.Items)),
	}
	for _, e := range p.Items {
		output.Skeins = append(output.Skeins, SkeinOutput{
			Brand:    e.Brand,
			SKU:      e.SKU,
			Name:     e.Skein.Name,
			Colors:   colorHexes(e.Skein),
			Material: e.Skein.Material,
			Count:    e.Count,
		})
	}

	return json.MarshalIndent(output, "", "  ")
}

// LibraryOutput is the JSON document for a projection
type LibraryOutput struct {
	View    StateOutput   `json:"view"`
	Summary SummaryOutput `json:"summary"`
	Skeins  []SkeinOutput `json:"skeins"`
}

// StateOutput mirrors view.State with the sort method by name
type StateOutput struct {
	ShowAll bool   `json:"show_all"`
	Search  string `json:"search,omitempty"`
	Sort    string `json:"sort"`
}

// SummaryOutput carries the filter-independent aggregates
type SummaryOutput struct {
	TotalSkeins  int `json:"total_skeins"`
	UniqueSkeins int `json:"unique_skeins"`
	Shown        int `json:"shown"`
	CatalogSize  int `json:"catalog_size"`
}

// SkeinOutput is one visible entry
type SkeinOutput struct {
	Brand    string   `json:"brand"`
	SKU      string   `json:"sku"`
	Name     string   `json:"name"`
	Colors   []string `json:"colors"`
	Material string   `json:"material"`
	Count    int      `json:"count"`
}
