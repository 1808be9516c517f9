package ui

import (
	"fmt"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/reconcile"
)

// Panel is the display state of one catalog skein
type Panel struct {
	id      int
	skein   *catalog.Skein
	count   int
	visible bool
}

// Skein returns the skein the panel was built for
func (p *Panel) Skein() *catalog.Skein { return p.skein }

// Count returns the owned count last pushed to the panel
func (p *Panel) Count() int { return p.count }

// Visible reports whether the panel is shown
func (p *Panel) Visible() bool { return p.visible }

// Key returns the brand/SKU of the panel
func (p *Panel) Key() catalog.Key { return p.skein.Key() }

// PanelSet holds the panels of the skein list. It implements
// reconcile.Renderer; the list is drawn from Visible.
type PanelSet struct {
	nextID int
	panels map[int]*Panel
	order  []*Panel
}

var _ reconcile.Renderer = (*PanelSet)(nil)

// NewPanelSet creates an empty panel set
func NewPanelSet() *PanelSet {
	return &PanelSet{panels: make(map[int]*Panel)}
}

func (s *PanelSet) panel(h reconcile.Handle) (*Panel, error) {
	p, ok := h.(*Panel)
	if !ok {
		return nil, fmt.Errorf("unexpected handle type %T", h)
	}
	if _, live := s.panels[p.id]; !live {
		return nil, fmt.Errorf("panel %d (%s) was destroyed", p.id, p.Key())
	}
	return p, nil
}

// Create builds a hidden panel
func (s *PanelSet) Create(skein *catalog.Skein, count int) (reconcile.Handle, error) {
	s.nextID++
	p := &Panel{id: s.nextID, skein: skein, count: count}
	s.panels[p.id] = p
	return p, nil
}

// UpdateCount changes the count shown on a panel
func (s *PanelSet) UpdateCount(h reconcile.Handle, count int) error {
	p, err := s.panel(h)
	if err != nil {
		return err
	}
	p.count = count
	return nil
}

// Show marks a panel visible
func (s *PanelSet) Show(h reconcile.Handle) error {
	p, err := s.panel(h)
	if err != nil {
		return err
	}
	p.visible = true
	return nil
}

// Hide marks a panel hidden
func (s *PanelSet) Hide(h reconcile.Handle) error {
	p, err := s.panel(h)
	if err != nil {
		return err
	}
	p.visible = false
	return nil
}

// Reorder replaces the layout order with the given visible panels
func (s *PanelSet) Reorder(visible []reconcile.Handle) error {
	order := make([]*Panel, 0, len(visible))
	for _, h := range visible {
		p, err := s.panel(h)
		if err != nil {
			return err
		}
		order = append(order, p)
	}
	s.order = order
	return nil
}

// Destroy releases a panel
func (s *PanelSet) Destroy(h reconcile.Handle) error {
	p, err := s.panel(h)
	if err != nil {
		return err
	}
	delete(s.panels, p.id)
	for i, o := range s.order {
		if o == p {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Visible returns the shown panels in layout order
func (s *PanelSet) Visible() []*Panel {
	out := make([]*Panel, 0, len(s.order))
	for _, p := range s.order {
		if p.visible {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of live panels, shown or hidden
func (s *PanelSet) Len() int {
	return len(s.panels)
}
