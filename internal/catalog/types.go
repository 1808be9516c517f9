package catalog

import (
	"fmt"
	"strings"
)

const (
	// DefaultName is used when a catalog entry carries no name
	DefaultName = "no name"

	// DefaultMaterial is used when a catalog entry carries no material
	DefaultMaterial = "cotton"
)

// White is the color assigned to skeins without color information
var White = Color{255, 255, 255}

// Color is an RGB triple with each channel in 0-255
type Color [3]int

// NewColor creates a color, clamping every channel into 0-255
func NewColor(r, g, b int) Color {
	return Color{clampChannel(r), clampChannel(g), clampChannel(b)}
}

// R returns the red channel
func (c Color) R() int { return c[0] }

// G returns the green channel
func (c Color) G() int { return c[1] }

// B returns the blue channel
func (c Color) B() int { return c[2] }

// Hex returns the color as #RRGGBB
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}

// Luminance returns the perceived lightness of the color in 0..1
func (c Color) Luminance() float64 {
	return (0.299*float64(c[0]) + 0.587*float64(c[1]) + 0.114*float64(c[2])) / 255
}

// Skein is one catalog item, identified by brand and SKU
type Skein struct {
	Brand    string
	SKU      string
	Name     string
	Colors   []Color
	Material string
}

// NewSkein creates a skein with default name, color and material
func NewSkein(brand, sku string) *Skein {
	return &Skein{
		Brand:    NormalizeBrand(brand),
		SKU:      sku,
		Name:     DefaultName,
		Colors:   []Color{White},
		Material: DefaultMaterial,
	}
}

// Key returns the brand/SKU identity of the skein
func (s *Skein) Key() Key {
	return Key{Brand: s.Brand, SKU: s.SKU}
}

// Lightness returns the average luminance over all color bands
func (s *Skein) Lightness() float64 {
	if len(s.Colors) == 0 {
		return 0.5
	}
	total := 0.0
	for _, c := range s.Colors {
		total += c.Luminance()
	}
	return total / float64(len(s.Colors))
}

// Clone returns a deep copy of the skein
func (s *Skein) Clone() *Skein {
	clone := *s
	clone.Colors = append([]Color(nil), s.Colors...)
	return &clone
}

// Normalized returns a copy with brand lowercased, defaults applied and
// channels clamped, matching what Put would store
func (s *Skein) Normalized() *Skein {
	clone := s.Clone()
	clone.SKU = strings.TrimSpace(clone.SKU)
	clone.normalize()
	return clone
}

// Equal reports whether two skeins carry the same attributes
func (s *Skein) Equal(other *Skein) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Brand != other.Brand || s.SKU != other.SKU || s.Name != other.Name || s.Material != other.Material {
		return false
	}
	if len(s.Colors) != len(other.Colors) {
		return false
	}
	for i := range s.Colors {
		if s.Colors[i] != other.Colors[i] {
			return false
		}
	}
	return true
}

// normalize applies field defaults in place
func (s *Skein) normalize() {
	s.Brand = NormalizeBrand(s.Brand)
	if s.Name == "" {
		s.Name = DefaultName
	}
	if s.Material == "" {
		s.Material = DefaultMaterial
	}
	if len(s.Colors) == 0 {
		s.Colors = []Color{White}
	}
	for i, c := range s.Colors {
		s.Colors[i] = NewColor(c[0], c[1], c[2])
	}
}

// Key identifies a skein within a catalog
type Key struct {
	Brand string
	SKU   string
}

// String returns brand/sku
func (k Key) String() string {
	return k.Brand + "/" + k.SKU
}

// NormalizeBrand lowercases and trims a brand name
func NormalizeBrand(brand string) string {
	return strings.ToLower(strings.TrimSpace(brand))
}

// Record is the on-disk form of a skein inside a brand file
type Record struct {
	Name     string  `json:"name"`
	Color    []Color `json:"color"`
	Material string  `json:"material,omitempty"`
}

// Record converts the skein into its brand-file form
func (s *Skein) Record() Record {
	rec := Record{
		Name:  s.Name,
		Color: append([]Color(nil), s.Colors...),
	}
	if s.Material != DefaultMaterial {
		rec.Material = s.Material
	}
	return rec
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
