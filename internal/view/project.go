package view

import (
	"sort"
	"strings"
	"unicode"

	"github.com/yildizm/skeincare/internal/catalog"
)

// CountSource supplies owned counts; *library.Library satisfies it
type CountSource interface {
	Count(brand, sku string) int
}

// Project joins the catalog with owned counts, filters by state and sorts.
// It does not mutate its inputs.
func Project(cat *catalog.Catalog, counts CountSource, state State) *Projection {
	p := &Projection{State: state}
	search := strings.ToLower(state.Search)

	cat.Each(func(s *catalog.Skein) {
		count := counts.Count(s.Brand, s.SKU)
		entry := Entry{Brand: s.Brand, SKU: s.SKU, Skein: s, Count: count}
		p.All = append(p.All, entry)

		p.TotalSkeins += count
		if count > 0 {
			p.UniqueSkeins++
		}

		if !state.ShowAll && count <= 0 {
			return
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(s.SKU), search) &&
			!strings.Contains(strings.ToLower(s.Name), search) {
			return
		}
		p.Items = append(p.Items, entry)
	})

	SortEntries(p.Items, state.Sort)
	return p
}

// SortEntries orders entries in place; equal keys keep their relative order
func SortEntries(entries []Entry, method SortMethod) {
	var less func(a, b *Entry) bool
	switch method {
	case SortBrand:
		less = func(a, b *Entry) bool {
			return strings.ToLower(a.Brand) < strings.ToLower(b.Brand)
		}
	case SortSKU:
		less = func(a, b *Entry) bool {
			return compareSKU(a.SKU, b.SKU) < 0
		}
	case SortName:
		less = func(a, b *Entry) bool {
			return strings.ToLower(a.Skein.Name) < strings.ToLower(b.Skein.Name)
		}
	case SortCount:
		less = func(a, b *Entry) bool {
			return a.Count > b.Count
		}
	default:
		panic("view: invalid sort method " + method.String())
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(&entries[i], &entries[j])
	})
}

// compareSKU orders all-digit SKUs by numeric value. Every other SKU shares
// the key -1, so non-numeric SKUs sort ahead of numeric ones and tie among
// themselves.
func compareSKU(a, b string) int {
	na, aNumeric := numericKey(a)
	nb, bNumeric := numericKey(b)
	switch {
	case !aNumeric && !bNumeric:
		return 0
	case !aNumeric:
		return -1
	case !bNumeric:
		return 1
	}
	if len(na) != len(nb) {
		if len(na) < len(nb) {
			return -1
		}
		return 1
	}
	return strings.Compare(na, nb)
}

// numericKey strips leading zeros from an all-digit SKU so that arbitrarily
// long SKUs compare by length then digits. Any Unicode decimal digit counts
// and is folded to its ASCII value.
func numericKey(sku string) (string, bool) {
	if sku == "" {
		return "", false
	}
	var b strings.Builder
	for _, r := range sku {
		d, ok := decimalValue(r)
		if !ok {
			return "", false
		}
		if d == 0 && b.Len() == 0 {
			continue
		}
		b.WriteByte(byte('0' + d))
	}
	if b.Len() == 0 {
		return "0", true
	}
	return b.String(), true
}

// decimalValue returns the value of a decimal digit rune. Decimal digits are
// laid out in runs of ten starting at zero, so the offset within its Nd range
// gives the value.
func decimalValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	for _, rng := range unicode.Nd.R16 {
		if lo, hi := rune(rng.Lo), rune(rng.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}
	for _, rng := range unicode.Nd.R32 {
		if lo, hi := rune(rng.Lo), rune(rng.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}
	return 0, false
}
