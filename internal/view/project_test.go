package view

import (
	"reflect"
	"testing"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/library"
)

func scenarioCatalog() (*catalog.Catalog, *library.Library) {
	cat := catalog.New()
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "310", Name: "Black", Colors: []catalog.Color{{0, 0, 0}}})
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "311", Name: "White", Colors: []catalog.Color{{255, 255, 255}}})

	lib := library.New()
	lib.SetCount("dmc", "310", 3)
	lib.SetCount("dmc", "311", 0)
	return cat, lib
}

func skus(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.SKU)
	}
	return out
}

func TestProject_OwnedOnly(t *testing.T) {
	cat, lib := scenarioCatalog()
	p := Project(cat, lib, State{ShowAll: false, Sort: SortCount})

	if len(p.Items) != 1 {
		t.Fatalf("Expected 1 visible entry, got %v", skus(p.Items))
	}
	got := p.Items[0]
	if got.Brand != "dmc" || got.SKU != "310" || got.Count != 3 || got.Skein.Name != "Black" {
		t.Errorf("Unexpected entry %+v", got)
	}
	if p.TotalSkeins != 3 || p.UniqueSkeins != 1 {
		t.Errorf("Expected total=3 unique=1, got total=%d unique=%d", p.TotalSkeins, p.UniqueSkeins)
	}
}

func TestProject_ShowAllSortedByCount(t *testing.T) {
	cat, lib := scenarioCatalog()
	p := Project(cat, lib, State{ShowAll: true, Sort: SortCount})

	if want := []string{"310", "311"}; !reflect.DeepEqual(skus(p.Items), want) {
		t.Errorf("Expected %v, got %v", want, skus(p.Items))
	}
}

func TestProject_SearchIgnoresSortMethod(t *testing.T) {
	cat, lib := scenarioCatalog()
	for _, method := range []SortMethod{SortBrand, SortSKU, SortName, SortCount} {
		t.Run(method.String(), func(t *testing.T) {
			p := Project(cat, lib, State{ShowAll: true, Search: "whi", Sort: method})
			if want := []string{"311"}; !reflect.DeepEqual(skus(p.Items), want) {
				t.Errorf("Expected %v, got %v", want, skus(p.Items))
			}
		})
	}
}

func TestProject_SearchMatchesSKUCaseInsensitive(t *testing.T) {
	cat := catalog.New()
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "B5200", Name: "Snow"})
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "310", Name: "Black"})

	p := Project(cat, library.New(), State{ShowAll: true, Search: "b52", Sort: SortCount})
	if want := []string{"B5200"}; !reflect.DeepEqual(skus(p.Items), want) {
		t.Errorf("Expected %v, got %v", want, skus(p.Items))
	}
}

func TestProject_AggregatesIgnoreFilters(t *testing.T) {
	cat, lib := scenarioCatalog()
	cat.Put(&catalog.Skein{Brand: "anchor", SKU: "403", Name: "Black"})
	lib.SetCount("anchor", "403", 2)

	states := []State{
		{ShowAll: true},
		{ShowAll: false},
		{ShowAll: true, Search: "zzz"},
		{ShowAll: false, Search: "white"},
	}
	for _, st := range states {
		p := Project(cat, lib, st)
		if p.TotalSkeins != 5 || p.UniqueSkeins != 2 {
			t.Errorf("State %+v: expected total=5 unique=2, got total=%d unique=%d",
				st, p.TotalSkeins, p.UniqueSkeins)
		}
	}
}

func TestProject_OrphanedCountsNeverProjected(t *testing.T) {
	cat, lib := scenarioCatalog()
	lib.SetCount("ghost", "1", 10)

	p := Project(cat, lib, State{ShowAll: false, Sort: SortCount})
	for _, e := range p.All {
		if e.Brand == "ghost" {
			t.Fatal("Expected orphaned library entry to stay out of the projection")
		}
	}
	if p.TotalSkeins != 3 {
		t.Errorf("Expected orphaned counts to be excluded from totals, got %d", p.TotalSkeins)
	}
}

func TestProject_Idempotent(t *testing.T) {
	cat, lib := scenarioCatalog()
	cat.Put(&catalog.Skein{Brand: "anchor", SKU: "1", Name: "Red"})
	state := State{ShowAll: true, Search: "", Sort: SortName}

	first := Project(cat, lib, state)
	second := Project(cat, lib, state)
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected repeated projections without mutation to be identical")
	}
}

func TestSortEntries_SKUNumericQuirk(t *testing.T) {
	entries := []Entry{
		{SKU: "10"},
		{SKU: "7"},
		{SKU: "A7"},
		{SKU: "0003"},
		{SKU: "B5200"},
		{SKU: "123456789012345678901234567890"},
	}
	SortEntries(entries, SortSKU)

	// Non-numeric SKUs share key -1: they lead and keep their prior order.
	want := []string{"A7", "B5200", "0003", "7", "10", "123456789012345678901234567890"}
	if !reflect.DeepEqual(skus(entries), want) {
		t.Errorf("Expected %v, got %v", want, skus(entries))
	}
}

func TestSortEntries_SKUUnicodeDigits(t *testing.T) {
	entries := []Entry{
		{SKU: "400"},
		{SKU: "٣١٠"}, // Arabic-Indic 310
		{SKU: "５"}, // fullwidth 5
		{SKU: "3²"}, // superscript two is not a decimal digit
	}
	SortEntries(entries, SortSKU)

	want := []string{"3²", "５", "٣١٠", "400"}
	if !reflect.DeepEqual(skus(entries), want) {
		t.Errorf("Expected %v, got %v", want, skus(entries))
	}
}

func TestNumericKey(t *testing.T) {
	tests := []struct {
		sku     string
		want    string
		numeric bool
	}{
		{"310", "310", true},
		{"000", "0", true},
		{"०१", "1", true}, // Devanagari 01
		{"𝟘", "0", true}, // mathematical double-struck zero
		{"𝟡", "9", true}, // mathematical double-struck nine
		{"", "", false},
		{"12a", "", false},
		{"-1", "", false},
	}

	for _, tt := range tests {
		got, numeric := numericKey(tt.sku)
		if got != tt.want || numeric != tt.numeric {
			t.Errorf("numericKey(%q) = %q, %v; want %q, %v", tt.sku, got, numeric, tt.want, tt.numeric)
		}
	}
}

func TestSortEntries_Stable(t *testing.T) {
	black := &catalog.Skein{Name: "black"}
	entries := []Entry{
		{Brand: "DMC", SKU: "a", Skein: black, Count: 1},
		{Brand: "anchor", SKU: "b", Skein: black, Count: 2},
		{Brand: "dmc", SKU: "c", Skein: black, Count: 1},
		{Brand: "Anchor", SKU: "d", Skein: black, Count: 2},
	}

	tests := []struct {
		method SortMethod
		want   []string
	}{
		{method: SortBrand, want: []string{"b", "d", "a", "c"}},
		{method: SortName, want: []string{"a", "b", "c", "d"}},
		{method: SortCount, want: []string{"b", "d", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			got := append([]Entry(nil), entries...)
			SortEntries(got, tt.method)
			if !reflect.DeepEqual(skus(got), tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, skus(got))
			}
		})
	}
}

func TestSortEntries_NameCaseInsensitive(t *testing.T) {
	entries := []Entry{
		{SKU: "1", Skein: &catalog.Skein{Name: "blue"}},
		{SKU: "2", Skein: &catalog.Skein{Name: "Azure"}},
		{SKU: "3", Skein: &catalog.Skein{Name: "Cyan"}},
	}
	SortEntries(entries, SortName)
	if want := []string{"2", "1", "3"}; !reflect.DeepEqual(skus(entries), want) {
		t.Errorf("Expected %v, got %v", want, skus(entries))
	}
}

func TestParseSortMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    SortMethod
		wantErr bool
	}{
		{input: "brand", want: SortBrand},
		{input: "SKU", want: SortSKU},
		{input: " name ", want: SortName},
		{input: "3", want: SortCount},
		{input: "0", want: SortBrand},
		{input: "4", wantErr: true},
		{input: "color", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortMethod(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
