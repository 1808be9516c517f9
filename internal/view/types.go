package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yildizm/skeincare/internal/catalog"
)

// SortMethod selects the ordering of the visible list
type SortMethod int

const (
	SortBrand SortMethod = iota
	SortSKU
	SortName
	SortCount
)

// DefaultSort is the ordering used until the user picks another
const DefaultSort = SortCount

var sortNames = map[SortMethod]string{
	SortBrand: "brand",
	SortSKU:   "sku",
	SortName:  "name",
	SortCount: "count",
}

// String returns the lowercase name of the sort method
func (s SortMethod) String() string {
	if name, ok := sortNames[s]; ok {
		return name
	}
	return fmt.Sprintf("sort(%d)", int(s))
}

// Valid reports whether s is one of the known sort methods
func (s SortMethod) Valid() bool {
	_, ok := sortNames[s]
	return ok
}

// ParseSortMethod accepts a sort name or its numeric id
func ParseSortMethod(s string) (SortMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for method, name := range sortNames {
		if s == name {
			return method, nil
		}
	}
	if id, err := strconv.Atoi(s); err == nil {
		if method := SortMethod(id); method.Valid() {
			return method, nil
		}
	}
	return 0, fmt.Errorf("invalid sort method: %s (must be one of: brand, sku, name, count)", s)
}

// State is the user-controlled filter and ordering
type State struct {
	ShowAll bool
	Search  string
	Sort    SortMethod
}

// DefaultState shows every catalog skein ordered by count
func DefaultState() State {
	return State{ShowAll: true, Sort: DefaultSort}
}

// Entry is one catalog skein joined with its owned count
type Entry struct {
	Brand string
	SKU   string
	Skein *catalog.Skein
	Count int
}

// Key returns the brand/SKU identity of the entry
func (e Entry) Key() catalog.Key {
	return catalog.Key{Brand: e.Brand, SKU: e.SKU}
}

// Projection is the filtered, sorted view plus filter-independent aggregates
type Projection struct {
	State State

	// Items are the visible entries in display order
	Items []Entry

	// All holds every catalog entry in encounter order, visible or not
	All []Entry

	TotalSkeins  int
	UniqueSkeins int
}

// Counter renders the aggregate line shown above the list
func (p *Projection) Counter() string {
	return fmt.Sprintf("Total Skeins: %d | Unique Skeins: %d", p.TotalSkeins, p.UniqueSkeins)
}
