package library

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	// MinCount is the lowest storable count
	MinCount = 0

	// MaxCount is the highest storable count
	MaxCount = 999
)

// Library maps brand -> SKU -> owned count. Entries need not exist in any catalog.
type Library struct {
	counts map[string]map[string]int
	dirty  bool
}

// New creates an empty library
func New() *Library {
	return &Library{counts: make(map[string]map[string]int)}
}

// FromMap builds a library from decoded library.json data, clamping counts
func FromMap(data map[string]map[string]int) *Library {
	l := New()
	for brand, bucket := range data {
		brand = normalizeBrand(brand)
		for sku, n := range bucket {
			if _, ok := l.counts[brand]; !ok {
				l.counts[brand] = make(map[string]int)
			}
			l.counts[brand][sku] = Clamp(n)
		}
	}
	return l
}

// Count returns the stored count, or 0 when absent
func (l *Library) Count(brand, sku string) int {
	return l.counts[normalizeBrand(brand)][sku]
}

// Has reports whether an explicit entry exists (including an explicit zero)
func (l *Library) Has(brand, sku string) bool {
	_, ok := l.counts[normalizeBrand(brand)][sku]
	return ok
}

// SetCount stores count clamped to [MinCount, MaxCount] and returns the stored value
func (l *Library) SetCount(brand, sku string, count int) int {
	brand = normalizeBrand(brand)
	count = Clamp(count)
	bucket, ok := l.counts[brand]
	if !ok {
		bucket = make(map[string]int)
		l.counts[brand] = bucket
	}
	bucket[sku] = count
	l.dirty = true
	return count
}

// SetCountValue stores an untyped count. Integer kinds, integral floats and
// decimal strings are accepted and clamped; anything else is rejected
// without touching the library.
func (l *Library) SetCountValue(brand, sku string, value any) (int, error) {
	n, err := ParseCount(value)
	if err != nil {
		return l.Count(brand, sku), err
	}
	return l.SetCount(brand, sku, n), nil
}

// Delete removes an entry and drops the brand bucket once empty
func (l *Library) Delete(brand, sku string) bool {
	brand = normalizeBrand(brand)
	bucket, ok := l.counts[brand]
	if !ok {
		return false
	}
	if _, ok := bucket[sku]; !ok {
		return false
	}
	delete(bucket, sku)
	if len(bucket) == 0 {
		delete(l.counts, brand)
	}
	l.dirty = true
	return true
}

// Rename moves an entry to a new key, keeping its count
func (l *Library) Rename(fromBrand, fromSKU, toBrand, toSKU string) {
	if !l.Has(fromBrand, fromSKU) {
		return
	}
	n := l.Count(fromBrand, fromSKU)
	l.Delete(fromBrand, fromSKU)
	l.SetCount(toBrand, toSKU, n)
}

// Dirty reports whether the library changed since the last MarkClean
func (l *Library) Dirty() bool {
	return l.dirty
}

// MarkClean records a successful flush
func (l *Library) MarkClean() {
	l.dirty = false
}

// Snapshot returns a deep copy suitable for serialization
func (l *Library) Snapshot() map[string]map[string]int {
	out := make(map[string]map[string]int, len(l.counts))
	for brand, bucket := range l.counts {
		copied := make(map[string]int, len(bucket))
		for sku, n := range bucket {
			copied[sku] = n
		}
		out[brand] = copied
	}
	return out
}

// Brands returns brands with at least one entry, ascending
func (l *Library) Brands() []string {
	brands := make([]string, 0, len(l.counts))
	for b := range l.counts {
		brands = append(brands, b)
	}
	sort.Strings(brands)
	return brands
}

// Len returns the number of explicit entries
func (l *Library) Len() int {
	n := 0
	for _, bucket := range l.counts {
		n += len(bucket)
	}
	return n
}

// Clamp bounds a count to [MinCount, MaxCount]
func Clamp(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// ParseCount converts an untyped value into an integer count (unclamped)
func ParseCount(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return clampInt64(v), nil
	case uint:
		return clampInt64(int64(min(v, math.MaxInt32))), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return clampInt64(int64(min(v, math.MaxInt32))), nil
	case float32:
		return floatCount(float64(v), value)
	case float64:
		return floatCount(v, value)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, NewInvalidCountError(v.String(), "not an integer")
		}
		return clampInt64(i), nil
	case string:
		s := strings.TrimSpace(v)
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			if errNum, ok := err.(*strconv.NumError); ok && errNum.Err == strconv.ErrRange {
				if strings.HasPrefix(s, "-") {
					return MinCount, nil
				}
				return MaxCount, nil
			}
			return 0, NewInvalidCountError(v, "not an integer")
		}
		return clampInt64(i), nil
	default:
		return 0, NewInvalidCountError(fmt.Sprintf("%v", value), fmt.Sprintf("unsupported type %T", value))
	}
}

func floatCount(f float64, original any) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, NewInvalidCountError(fmt.Sprintf("%v", original), "not an integer")
	}
	if f > math.MaxInt32 {
		return MaxCount, nil
	}
	if f < math.MinInt32 {
		return MinCount, nil
	}
	return int(f), nil
}

// clampInt64 narrows to int without overflow; callers clamp to the count range afterwards
func clampInt64(v int64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}

func normalizeBrand(brand string) string {
	return strings.ToLower(strings.TrimSpace(brand))
}
