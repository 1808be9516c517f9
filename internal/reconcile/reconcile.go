package reconcile

import (
	"fmt"
	"sort"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/view"
)

// Handle is an opaque display resource owned by the Renderer
type Handle any

// Renderer is the UI side of reconciliation. Create returns a hidden handle;
// Reorder receives the visible handles in the exact order to lay them out.
type Renderer interface {
	Create(skein *catalog.Skein, count int) (Handle, error)
	UpdateCount(h Handle, count int) error
	Show(h Handle) error
	Hide(h Handle) error
	Reorder(visible []Handle) error
	Destroy(h Handle) error
}

// Stats summarizes the renderer calls made by one pass
type Stats struct {
	Created   int
	Rebuilt   int
	Updated   int
	Destroyed int
	Shown     int
	Hidden    int
	Reordered bool
}

// Changed reports whether the pass touched the renderer at all
func (s Stats) Changed() bool {
	return s.Created+s.Rebuilt+s.Updated+s.Destroyed+s.Shown+s.Hidden > 0 || s.Reordered
}

type record struct {
	handle  Handle
	skein   *catalog.Skein
	count   int
	visible bool
}

// Reconciler keeps one handle per catalog entry and applies only the
// differences between successive projections. Handles are destroyed only
// when their entry leaves the catalog or its attributes change.
type Reconciler struct {
	renderer Renderer
	handles  map[catalog.Key]*record
	order    []catalog.Key
}

// New creates a reconciler driving the given renderer
func New(renderer Renderer) *Reconciler {
	return &Reconciler{
		renderer: renderer,
		handles:  make(map[catalog.Key]*record),
	}
}

// Apply reconciles against a projection
func (r *Reconciler) Apply(p *view.Projection) (Stats, error) {
	return r.Reconcile(p.Items, p.All)
}

// Reconcile brings the handle set in line with all catalog entries, then
// shows visible, hides the rest and lays out visible in the given order.
// The handle map changes only after the corresponding renderer call succeeds.
func (r *Reconciler) Reconcile(visible, all []view.Entry) (Stats, error) {
	var stats Stats

	present := make(map[catalog.Key]struct{}, len(all))
	for _, entry := range all {
		key := entry.Key()
		present[key] = struct{}{}

		rec, ok := r.handles[key]
		switch {
		case !ok:
			h, err := r.renderer.Create(entry.Skein, entry.Count)
			if err != nil {
				return stats, fmt.Errorf("create handle %s: %w", key, err)
			}
			r.handles[key] = &record{handle: h, skein: entry.Skein, count: entry.Count}
			stats.Created++

		case !rec.skein.Equal(entry.Skein):
			if err := r.rebuild(key, rec, entry); err != nil {
				return stats, err
			}
			stats.Rebuilt++

		case rec.count != entry.Count:
			if err := r.renderer.UpdateCount(rec.handle, entry.Count); err != nil {
				return stats, fmt.Errorf("update count %s: %w", key, err)
			}
			rec.count = entry.Count
			rec.skein = entry.Skein
			stats.Updated++

		default:
			rec.skein = entry.Skein
		}
	}

	for _, key := range r.sortedKeys() {
		if _, ok := present[key]; ok {
			continue
		}
		if err := r.Remove(key); err != nil {
			return stats, err
		}
		stats.Destroyed++
	}

	wanted := make(map[catalog.Key]struct{}, len(visible))
	order := make([]catalog.Key, 0, len(visible))
	ordered := make([]Handle, 0, len(visible))
	for _, entry := range visible {
		key := entry.Key()
		rec, ok := r.handles[key]
		if !ok {
			return stats, fmt.Errorf("visible entry %s is not in the catalog", key)
		}
		wanted[key] = struct{}{}
		order = append(order, key)
		ordered = append(ordered, rec.handle)
	}

	for _, key := range r.sortedKeys() {
		rec := r.handles[key]
		_, want := wanted[key]
		switch {
		case want && !rec.visible:
			if err := r.renderer.Show(rec.handle); err != nil {
				return stats, fmt.Errorf("show %s: %w", key, err)
			}
			rec.visible = true
			stats.Shown++
		case !want && rec.visible:
			if err := r.renderer.Hide(rec.handle); err != nil {
				return stats, fmt.Errorf("hide %s: %w", key, err)
			}
			rec.visible = false
			stats.Hidden++
		}
	}

	if stats.Rebuilt > 0 || !sameOrder(r.order, order) {
		if err := r.renderer.Reorder(ordered); err != nil {
			return stats, fmt.Errorf("reorder: %w", err)
		}
		r.order = order
		stats.Reordered = true
	}

	return stats, nil
}

// Remove destroys the handle for a deleted catalog entry. Removing an
// unknown key is a no-op.
func (r *Reconciler) Remove(key catalog.Key) error {
	rec, ok := r.handles[key]
	if !ok {
		return nil
	}
	if err := r.renderer.Destroy(rec.handle); err != nil {
		return fmt.Errorf("destroy handle %s: %w", key, err)
	}
	delete(r.handles, key)
	if rec.visible {
		r.order = nil
	}
	return nil
}

// Clear destroys every handle
func (r *Reconciler) Clear() error {
	for _, key := range r.sortedKeys() {
		if err := r.Remove(key); err != nil {
			return err
		}
	}
	r.order = nil
	return nil
}

// Handle returns the handle registered for key
func (r *Reconciler) Handle(key catalog.Key) (Handle, bool) {
	rec, ok := r.handles[key]
	if !ok {
		return nil, false
	}
	return rec.handle, true
}

// Len returns the number of live handles
func (r *Reconciler) Len() int {
	return len(r.handles)
}

// rebuild replaces a handle whose skein attributes changed. The new handle
// is created before the old one is destroyed so a failure leaves the map intact.
func (r *Reconciler) rebuild(key catalog.Key, rec *record, entry view.Entry) error {
	h, err := r.renderer.Create(entry.Skein, entry.Count)
	if err != nil {
		return fmt.Errorf("rebuild handle %s: %w", key, err)
	}
	if err := r.renderer.Destroy(rec.handle); err != nil {
		_ = r.renderer.Destroy(h)
		return fmt.Errorf("rebuild handle %s: %w", key, err)
	}
	r.handles[key] = &record{handle: h, skein: entry.Skein, count: entry.Count}
	return nil
}

func (r *Reconciler) sortedKeys() []catalog.Key {
	keys := make([]catalog.Key, 0, len(r.handles))
	for k := range r.handles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Brand != keys[j].Brand {
			return keys[i].Brand < keys[j].Brand
		}
		return keys[i].SKU < keys[j].SKU
	})
	return keys
}

func sameOrder(a, b []catalog.Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
