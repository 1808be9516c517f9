package store

import (
	"encoding/json"
	"math"
)

// Recognized settings keys. Anything else in the file is kept as is.
const (
	KeyWindowSize     = "window_size"
	KeyWindowPosition = "window_position"
	KeySortMethod     = "sort_method"
	KeySkipVersion    = "skip_version"
)

// Settings is the free-form defaults.json object with typed accessors for
// the keys the application understands
type Settings struct {
	values map[string]any
	dirty  bool
}

// NewSettings creates empty settings
func NewSettings() *Settings {
	return &Settings{values: make(map[string]any)}
}

// Get returns a raw value
func (s *Settings) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a raw value
func (s *Settings) Set(key string, value any) {
	s.values[key] = value
	s.dirty = true
}

// Delete removes a key
func (s *Settings) Delete(key string) {
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// Dirty reports unsaved changes
func (s *Settings) Dirty() bool {
	return s.dirty
}

// SortMethod returns the stored sort id. Callers validate the range.
func (s *Settings) SortMethod() (int, bool) {
	return intValue(s.values[KeySortMethod])
}

// SetSortMethod stores the sort id
func (s *Settings) SetSortMethod(id int) {
	if cur, ok := s.SortMethod(); ok && cur == id {
		return
	}
	s.Set(KeySortMethod, id)
}

// SkipVersion returns the release tag the user chose to ignore
func (s *Settings) SkipVersion() string {
	v, _ := s.values[KeySkipVersion].(string)
	return v
}

// SetSkipVersion stores the ignored release tag; empty clears it
func (s *Settings) SetSkipVersion(tag string) {
	if tag == "" {
		s.Delete(KeySkipVersion)
		return
	}
	s.Set(KeySkipVersion, tag)
}

// WindowSize returns the stored [width, height]
func (s *Settings) WindowSize() (int, int, bool) {
	return pairValue(s.values[KeyWindowSize])
}

// SetWindowSize stores [width, height]
func (s *Settings) SetWindowSize(w, h int) {
	if cw, ch, ok := s.WindowSize(); ok && cw == w && ch == h {
		return
	}
	s.Set(KeyWindowSize, []int{w, h})
}

// WindowPosition returns the stored [x, y]
func (s *Settings) WindowPosition() (int, int, bool) {
	return pairValue(s.values[KeyWindowPosition])
}

// SetWindowPosition stores [x, y]
func (s *Settings) SetWindowPosition(x, y int) {
	s.Set(KeyWindowPosition, []int{x, y})
}

// MarshalJSON encodes the underlying object
func (s *Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.values)
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
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

func pairValue(v any) (int, int, bool) {
	switch p := v.(type) {
	case []int:
		if len(p) == 2 {
			return p[0], p[1], true
		}
	case []any:
		if len(p) != 2 {
			return 0, 0, false
		}
		a, okA := intValue(p[0])
		b, okB := intValue(p[1])
		if okA && okB {
			return a, b, true
		}
	}
	return 0, 0, false
}
