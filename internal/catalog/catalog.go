package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Catalog holds every known skein grouped by brand then SKU
type Catalog struct {
	brands map[string]map[string]*Skein
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{brands: make(map[string]map[string]*Skein)}
}

// LoadBrand builds skeins from decoded brand-file data and inserts them,
// overwriting existing SKUs. Entries that are not objects are skipped and
// reported; the remaining entries still load.
func (c *Catalog) LoadBrand(brand string, raw map[string]any) []error {
	brand = NormalizeBrand(brand)

	var errs []error
	for sku, value := range raw {
		details, ok := value.(map[string]any)
		if !ok {
			errs = append(errs, NewMalformedEntryError(brand, sku, fmt.Sprintf("expected object, got %s", describe(value))))
			continue
		}
		c.Put(skeinFromRaw(brand, sku, details))
	}

	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errs
}

// LoadRecords inserts skeins from typed brand-file records
func (c *Catalog) LoadRecords(brand string, records map[string]Record) {
	brand = NormalizeBrand(brand)
	for sku, rec := range records {
		c.Put(&Skein{Brand: brand, SKU: sku, Name: rec.Name, Colors: append([]Color(nil), rec.Color...), Material: rec.Material})
	}
}

// Put inserts or overwrites a skein, creating its brand bucket if needed
func (c *Catalog) Put(s *Skein) {
	s.normalize()
	bucket, ok := c.brands[s.Brand]
	if !ok {
		bucket = make(map[string]*Skein)
		c.brands[s.Brand] = bucket
	}
	bucket[s.SKU] = s
}

// Get returns the skein stored under brand/sku
func (c *Catalog) Get(brand, sku string) (*Skein, bool) {
	bucket, ok := c.brands[NormalizeBrand(brand)]
	if !ok {
		return nil, false
	}
	s, ok := bucket[sku]
	return s, ok
}

// Has reports whether brand/sku exists
func (c *Catalog) Has(brand, sku string) bool {
	_, ok := c.Get(brand, sku)
	return ok
}

// Delete removes brand/sku and drops the brand bucket once empty.
// It returns false when nothing was stored under the key.
func (c *Catalog) Delete(brand, sku string) bool {
	brand = NormalizeBrand(brand)
	bucket, ok := c.brands[brand]
	if !ok {
		return false
	}
	if _, ok := bucket[sku]; !ok {
		return false
	}
	delete(bucket, sku)
	if len(bucket) == 0 {
		delete(c.brands, brand)
	}
	return true
}

// RemoveBrand drops a whole brand and returns the keys it held
func (c *Catalog) RemoveBrand(brand string) []Key {
	brand = NormalizeBrand(brand)
	var removed []Key
	for _, sku := range c.SKUs(brand) {
		removed = append(removed, Key{Brand: brand, SKU: sku})
	}
	delete(c.brands, brand)
	return removed
}

// Brands returns brand names in ascending order
func (c *Catalog) Brands() []string {
	brands := make([]string, 0, len(c.brands))
	for b := range c.brands {
		brands = append(brands, b)
	}
	sort.Strings(brands)
	return brands
}

// SKUs returns the SKUs of a brand in ascending byte order
func (c *Catalog) SKUs(brand string) []string {
	bucket := c.brands[NormalizeBrand(brand)]
	skus := make([]string, 0, len(bucket))
	for sku := range bucket {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

// Each visits every skein, brands ascending then SKUs ascending
func (c *Catalog) Each(fn func(s *Skein)) {
	for _, brand := range c.Brands() {
		bucket := c.brands[brand]
		for _, sku := range c.SKUs(brand) {
			fn(bucket[sku])
		}
	}
}

// Len returns the number of skeins across all brands
func (c *Catalog) Len() int {
	n := 0
	for _, bucket := range c.brands {
		n += len(bucket)
	}
	return n
}

// Records returns the brand-file form of one brand
func (c *Catalog) Records(brand string) map[string]Record {
	bucket := c.brands[NormalizeBrand(brand)]
	records := make(map[string]Record, len(bucket))
	for sku, s := range bucket {
		records[sku] = s.Record()
	}
	return records
}

func skeinFromRaw(brand, sku string, details map[string]any) *Skein {
	s := NewSkein(brand, sku)
	if name, ok := details["name"].(string); ok {
		s.Name = name
	}
	if material, ok := details["material"].(string); ok && material != "" {
		s.Material = material
	}
	if colors := colorsFromRaw(details["color"]); len(colors) > 0 {
		s.Colors = colors
	}
	return s
}

// colorsFromRaw accepts [[r,g,b], ...] or a single [r,g,b]; malformed triples are dropped
func colorsFromRaw(value any) []Color {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	if c, ok := colorFromRaw(list); ok {
		return []Color{c}
	}

	colors := make([]Color, 0, len(list))
	for _, item := range list {
		triple, ok := item.([]any)
		if !ok {
			continue
		}
		if c, ok := colorFromRaw(triple); ok {
			colors = append(colors, c)
		}
	}
	return colors
}

func colorFromRaw(triple []any) (Color, bool) {
	if len(triple) != 3 {
		return Color{}, false
	}
	var ch [3]int
	for i, v := range triple {
		n, ok := number(v)
		if !ok {
			return Color{}, false
		}
		ch[i] = n
	}
	return NewColor(ch[0], ch[1], ch[2]), true
}

func number(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, int, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
