package view

import (
	"github.com/yildizm/skeincare/internal/catalog"
)

// Engine owns the view state and keeps the projection current. Every setter
// recomputes before returning, so Projection never exposes stale results.
type Engine struct {
	catalog    *catalog.Catalog
	counts     CountSource
	state      State
	projection *Projection
}

// NewEngine creates an engine over the given catalog and counts
func NewEngine(cat *catalog.Catalog, counts CountSource, state State) *Engine {
	if !state.Sort.Valid() {
		state.Sort = DefaultSort
	}
	e := &Engine{catalog: cat, counts: counts, state: state}
	e.Refresh()
	return e
}

// State returns the current view state
func (e *Engine) State() State {
	return e.state
}

// Projection returns the most recent projection
func (e *Engine) Projection() *Projection {
	return e.projection
}

// Refresh recomputes after the catalog or counts changed
func (e *Engine) Refresh() *Projection {
	e.projection = Project(e.catalog, e.counts, e.state)
	return e.projection
}

// SetSortMethod changes the ordering. An unknown method is a programming
// error and panics; use ParseSortMethod for external input.
func (e *Engine) SetSortMethod(method SortMethod) *Projection {
	if !method.Valid() {
		panic("view: invalid sort method " + method.String())
	}
	e.state.Sort = method
	return e.Refresh()
}

// SetSearch changes the search text
func (e *Engine) SetSearch(text string) *Projection {
	e.state.Search = text
	return e.Refresh()
}

// SetShowAll toggles between every catalog skein and owned skeins only
func (e *Engine) SetShowAll(showAll bool) *Projection {
	e.state.ShowAll = showAll
	return e.Refresh()
}
