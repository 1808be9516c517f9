package formatter

import "github.com/yildizm/skeincare/internal/view"

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(p *view.Projection) ([]byte, error)
}
