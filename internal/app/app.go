package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/library"
	"github.com/yildizm/skeincare/internal/logger"
	"github.com/yildizm/skeincare/internal/reconcile"
	"github.com/yildizm/skeincare/internal/store"
	"github.com/yildizm/skeincare/internal/view"
)

// Observer receives notifications after a mutation has been committed.
// Any field may be nil.
type Observer struct {
	OnCountChanged func(key catalog.Key, count int)
	OnSkeinAdded   func(skein *catalog.Skein)
	OnSkeinEdited  func(old catalog.Key, skein *catalog.Skein)
	OnSkeinDeleted func(key catalog.Key)
	OnError        func(err error)
}

// Options configures a session
type Options struct {
	Paths store.Paths

	// OwnedOnly and Search seed the view state. The zero value shows every
	// catalog skein, like view.DefaultState.
	OwnedOnly bool
	Search    string

	// Sort overrides the sort method saved in the settings file
	Sort *view.SortMethod

	// Renderer receives reconciled display handles; nil runs headless
	Renderer reconcile.Renderer

	Observer Observer
	Logger   *logger.Logger
}

// App is one editing session over the catalog and library. It is not safe
// for concurrent use; the host event loop calls it from a single goroutine.
type App struct {
	store      *store.Store
	catalog    *catalog.Catalog
	library    *library.Library
	settings   *store.Settings
	engine     *view.Engine
	reconciler *reconcile.Reconciler
	observer   Observer
	logger     *logger.Logger
	report     *store.LoadReport
	closed     bool
}

// New loads the catalog, library and settings and builds the first
// projection. Unreadable files are logged and treated as absent.
func New(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	a := &App{
		store:    store.New(opts.Paths, log),
		observer: opts.Observer,
		logger:   log.WithComponent("app"),
	}

	cat, report, err := a.store.LoadCatalog()
	if err != nil {
		a.logger.WarnWithFields("catalog unavailable, starting empty", []logger.Field{logger.Error(err)})
	}
	a.catalog = cat
	a.report = report

	lib, _, err := a.store.LoadLibrary()
	if err != nil {
		a.logger.WarnWithFields("library unavailable, starting empty", []logger.Field{logger.Error(err)})
	}
	a.library = lib

	settings, err := a.store.LoadSettings()
	if err != nil {
		a.logger.WarnWithFields("settings unavailable, using defaults", []logger.Field{logger.Error(err)})
	}
	a.settings = settings

	state := view.DefaultState()
	state.ShowAll = !opts.OwnedOnly
	state.Search = opts.Search
	switch {
	case opts.Sort != nil:
		if !opts.Sort.Valid() {
			return nil, fmt.Errorf("invalid sort method %d", int(*opts.Sort))
		}
		state.Sort = *opts.Sort
	default:
		if id, ok := settings.SortMethod(); ok && view.SortMethod(id).Valid() {
			state.Sort = view.SortMethod(id)
		}
	}
	a.engine = view.NewEngine(a.catalog, a.library, state)

	if opts.Renderer != nil {
		a.reconciler = reconcile.New(opts.Renderer)
		if _, err := a.reconciler.Apply(a.engine.Projection()); err != nil {
			return nil, fmt.Errorf("failed to build display: %w", err)
		}
	}

	a.logger.InfoWithFields("session ready", []logger.Field{
		logger.F("skeins", a.catalog.Len()),
		logger.F("owned", a.library.Len()),
		logger.F("sort", state.Sort),
	})
	return a, nil
}

// Catalog returns the loaded catalog. Callers must not mutate it directly.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Library returns the owned counts. Callers must not mutate it directly.
func (a *App) Library() *library.Library { return a.library }

// Settings returns the settings file contents
func (a *App) Settings() *store.Settings { return a.settings }

// Store returns the persistence adapter
func (a *App) Store() *store.Store { return a.store }

// LoadReport returns what the startup catalog scan found
func (a *App) LoadReport() *store.LoadReport { return a.report }

// Projection returns the current visible list and aggregates
func (a *App) Projection() *view.Projection { return a.engine.Projection() }

// State returns the current view state
func (a *App) State() view.State { return a.engine.State() }

// Count returns the owned count of a skein
func (a *App) Count(brand, sku string) int { return a.library.Count(brand, sku) }

// SetCount stores a clamped count and returns the stored value
func (a *App) SetCount(brand, sku string, count int) (int, error) {
	if a.closed {
		return 0, ErrClosed
	}
	stored := a.library.SetCount(brand, sku, count)
	a.countChanged(brand, sku, stored)
	return stored, a.sync(a.engine.Refresh())
}

// SetCountValue stores an untyped count from a text field or JSON value.
// Non-integer input is rejected before the library changes.
func (a *App) SetCountValue(brand, sku string, value any) (int, error) {
	if a.closed {
		return 0, ErrClosed
	}
	stored, err := a.library.SetCountValue(brand, sku, value)
	if err != nil {
		return stored, err
	}
	a.countChanged(brand, sku, stored)
	return stored, a.sync(a.engine.Refresh())
}

// AdjustCount adds delta to the current count
func (a *App) AdjustCount(brand, sku string, delta int) (int, error) {
	return a.SetCount(brand, sku, a.library.Count(brand, sku)+delta)
}

func (a *App) countChanged(brand, sku string, count int) {
	key := catalog.Key{Brand: catalog.NormalizeBrand(brand), SKU: sku}
	a.logger.DebugWithFields("count changed", []logger.Field{logger.Skein(key.Brand, key.SKU), logger.Count(count)})
	if a.observer.OnCountChanged != nil {
		a.observer.OnCountChanged(key, count)
	}
}

// AddSkein inserts a new skein. The brand file is rewritten first; the
// catalog changes only when that write succeeds.
func (a *App) AddSkein(s *catalog.Skein) error {
	if a.closed {
		return ErrClosed
	}
	if err := catalog.Validate(s); err != nil {
		return err
	}
	skein := s.Normalized()
	if a.catalog.Has(skein.Brand, skein.SKU) {
		return NewSkeinExistsError(skein.Key())
	}

	if err := a.writeBrandWith(skein.Brand, skein, ""); err != nil {
		return a.fail(fmt.Errorf("failed to add %s: %w", skein.Key(), err))
	}
	a.catalog.Put(skein)

	a.logger.InfoWithFields("skein added", []logger.Field{logger.Skein(skein.Brand, skein.SKU)})
	if a.observer.OnSkeinAdded != nil {
		a.observer.OnSkeinAdded(skein)
	}
	return a.sync(a.engine.Refresh())
}

// EditSkein replaces the skein stored under old. When the brand or SKU
// changes, the old entry is removed and its owned count moves to the new key.
func (a *App) EditSkein(old catalog.Key, s *catalog.Skein) error {
	if a.closed {
		return ErrClosed
	}
	if err := catalog.Validate(s); err != nil {
		return err
	}
	old.Brand = catalog.NormalizeBrand(old.Brand)
	if !a.catalog.Has(old.Brand, old.SKU) {
		return NewSkeinNotFoundError(old)
	}
	skein := s.Normalized()
	key := skein.Key()
	moved := key != old
	if moved && a.catalog.Has(key.Brand, key.SKU) {
		return NewSkeinExistsError(key)
	}

	switch {
	case !moved:
		if err := a.writeBrandWith(key.Brand, skein, ""); err != nil {
			return a.fail(fmt.Errorf("failed to edit %s: %w", key, err))
		}
		a.catalog.Put(skein)

	case key.Brand == old.Brand:
		if err := a.writeBrandWith(key.Brand, skein, old.SKU); err != nil {
			return a.fail(fmt.Errorf("failed to edit %s: %w", old, err))
		}
		a.catalog.Delete(old.Brand, old.SKU)
		a.catalog.Put(skein)
		a.library.Rename(old.Brand, old.SKU, key.Brand, key.SKU)

	default:
		// Two files: add to the new brand first so a failure in between
		// leaves a duplicate rather than a lost skein
		if err := a.writeBrandWith(key.Brand, skein, ""); err != nil {
			return a.fail(fmt.Errorf("failed to edit %s: %w", old, err))
		}
		a.catalog.Put(skein)
		if err := a.writeBrandWith(old.Brand, nil, old.SKU); err != nil {
			_ = a.sync(a.engine.Refresh())
			return a.fail(fmt.Errorf("edited %s but could not remove the old entry: %w", key, err))
		}
		a.catalog.Delete(old.Brand, old.SKU)
		a.library.Rename(old.Brand, old.SKU, key.Brand, key.SKU)
	}

	a.logger.InfoWithFields("skein edited", []logger.Field{logger.F("from", old), logger.Skein(key.Brand, key.SKU)})
	if a.observer.OnSkeinEdited != nil {
		a.observer.OnSkeinEdited(old, skein)
	}
	return a.sync(a.engine.Refresh())
}

// DeleteSkein removes a skein from the catalog and its count from the
// library. The brand file is rewritten first; on failure nothing changes.
// Deleting an unknown skein is a no-op and returns false.
func (a *App) DeleteSkein(brand, sku string) (bool, error) {
	if a.closed {
		return false, ErrClosed
	}
	key := catalog.Key{Brand: catalog.NormalizeBrand(brand), SKU: sku}
	if !a.catalog.Has(key.Brand, key.SKU) {
		return false, nil
	}

	if err := a.writeBrandWith(key.Brand, nil, key.SKU); err != nil {
		return false, a.fail(fmt.Errorf("failed to delete %s: %w", key, err))
	}

	a.catalog.Delete(key.Brand, key.SKU)
	a.library.Delete(key.Brand, key.SKU)
	if a.reconciler != nil {
		if err := a.reconciler.Remove(key); err != nil {
			a.notify(err)
		}
	}

	a.logger.InfoWithFields("skein deleted", []logger.Field{logger.Skein(key.Brand, key.SKU)})
	if a.observer.OnSkeinDeleted != nil {
		a.observer.OnSkeinDeleted(key)
	}
	return true, a.sync(a.engine.Refresh())
}

// ImportResult summarizes a CSV import
type ImportResult struct {
	Brand    string
	Added    int
	Updated  int
	Kept     int
	Problems []error
}

// ImportCSV merges sku,name,r,g,b rows into a brand. Existing skeins are
// kept unless overwrite is set.
func (a *App) ImportCSV(brand string, r io.Reader, overwrite bool) (*ImportResult, error) {
	if a.closed {
		return nil, ErrClosed
	}
	brand = catalog.NormalizeBrand(brand)
	if brand == "" {
		return nil, &catalog.InvalidSkeinError{Field: "brand", Message: "is required"}
	}

	rows, problems, err := store.ReadCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Brand: brand, Problems: problems}
	records := a.catalog.Records(brand)
	for sku, rec := range rows {
		_, exists := records[sku]
		switch {
		case !exists:
			result.Added++
		case overwrite:
			result.Updated++
		default:
			result.Kept++
			continue
		}
		records[sku] = rec
	}

	if result.Added+result.Updated == 0 {
		return result, nil
	}
	if err := a.store.SaveBrand(brand, records); err != nil {
		return nil, a.fail(fmt.Errorf("failed to import into %s: %w", brand, err))
	}
	a.catalog.LoadRecords(brand, records)

	a.logger.InfoWithFields("csv imported", []logger.Field{
		logger.F("brand", brand),
		logger.F("added", result.Added),
		logger.F("updated", result.Updated),
	})
	return result, a.sync(a.engine.Refresh())
}

// ReloadBrand replaces a brand with what is on disk, for example after the
// file was edited outside the session. A vanished file drops the brand;
// owned counts are kept as orphans.
func (a *App) ReloadBrand(brand string) error {
	if a.closed {
		return ErrClosed
	}
	brand = catalog.NormalizeBrand(brand)

	raw, err := a.store.ReadBrand(brand)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return a.fail(fmt.Errorf("failed to reload %s: %w", brand, err))
		}
		raw = nil
	}

	a.catalog.RemoveBrand(brand)
	if raw != nil {
		for _, p := range a.catalog.LoadBrand(brand, raw) {
			a.logger.WarnWithFields("skipping catalog entry", []logger.Field{logger.F("brand", brand), logger.Error(p)})
		}
	}

	a.logger.InfoWithFields("brand reloaded", []logger.Field{logger.F("brand", brand), logger.Count(len(a.catalog.SKUs(brand)))})
	return a.sync(a.engine.Refresh())
}

// SetSearch filters the visible list by SKU or name substring
func (a *App) SetSearch(text string) error {
	return a.sync(a.engine.SetSearch(text))
}

// SetShowAll toggles between every catalog skein and owned skeins only
func (a *App) SetShowAll(showAll bool) error {
	return a.sync(a.engine.SetShowAll(showAll))
}

// SetSortMethod changes the ordering and remembers it in the settings
func (a *App) SetSortMethod(method view.SortMethod) error {
	p := a.engine.SetSortMethod(method)
	a.settings.SetSortMethod(int(method))
	return a.sync(p)
}

// SetWindowSize remembers the terminal size for the next session
func (a *App) SetWindowSize(width, height int) {
	a.settings.SetWindowSize(width, height)
}

// SkipVersion returns the release tag the user chose to ignore
func (a *App) SkipVersion() string {
	return a.settings.SkipVersion()
}

// SetSkipVersion records a release tag to ignore
func (a *App) SetSkipVersion(tag string) {
	a.settings.SetSkipVersion(tag)
}

// Flush writes the library and settings if they changed. A failed write
// keeps the in-memory state so the next Flush retries it.
func (a *App) Flush() error {
	var errs []error
	if a.library.Dirty() {
		if err := a.store.SaveLibrary(a.library); err != nil {
			errs = append(errs, err)
		}
	}
	if a.settings.Dirty() {
		if err := a.store.SaveSettings(a.settings); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return a.fail(err)
	}
	return nil
}

// Close flushes pending changes and rejects further mutations
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	err := a.Flush()
	a.closed = true
	return err
}

// writeBrandWith rewrites a brand file with add inserted and drop removed.
// Either may be empty.
func (a *App) writeBrandWith(brand string, add *catalog.Skein, drop string) error {
	records := a.catalog.Records(brand)
	if drop != "" {
		delete(records, drop)
	}
	if add != nil {
		records[add.SKU] = add.Record()
	}
	return a.store.SaveBrand(brand, records)
}

// sync pushes a fresh projection through the reconciler
func (a *App) sync(p *view.Projection) error {
	if a.reconciler == nil {
		return nil
	}
	stats, err := a.reconciler.Apply(p)
	if err != nil {
		return a.fail(fmt.Errorf("failed to update display: %w", err))
	}
	if stats.Changed() {
		a.logger.DebugWithFields("display reconciled", []logger.Field{
			logger.F("created", stats.Created),
			logger.F("updated", stats.Updated),
			logger.F("destroyed", stats.Destroyed),
			logger.F("reordered", stats.Reordered),
		})
	}
	return nil
}

func (a *App) fail(err error) error {
	a.notify(err)
	return err
}

func (a *App) notify(err error) {
	a.logger.ErrorWithFields("operation failed", []logger.Field{logger.Error(err)})
	if a.observer.OnError != nil {
		a.observer.OnError(err)
	}
}
