package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/library"
	"github.com/yildizm/skeincare/internal/logger"
)

const (
	brandExt      = ".json"
	stagingPrefix = "_"
	corruptSuffix = ".corrupt"
)

// Paths locates every file the store touches
type Paths struct {
	CatalogsDir  string
	LibraryFile  string
	SettingsFile string
}

// Store reads and writes brand files, the library and the settings file
type Store struct {
	paths  Paths
	logger *logger.Logger

	// sources maps a brand to the file it was read from, which may not be
	// lowercase. Writes go back to that file.
	sources map[string]string
}

// LoadReport lists what a catalog load found
type LoadReport struct {
	Brands []string
	// Problems holds unreadable files and malformed entries; none of them stop the load
	Problems []error
}

// New creates a store over the given paths
func New(paths Paths, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{paths: paths, logger: log.WithComponent("store"), sources: make(map[string]string)}
}

// Paths returns the configured file locations
func (s *Store) Paths() Paths {
	return s.paths
}

// BrandPath returns the file holding one brand: the file it was loaded
// from, else an existing file whose name matches the brand in any case,
// else <brand>.json
func (s *Store) BrandPath(brand string) string {
	brand = catalog.NormalizeBrand(brand)
	if path, ok := s.sources[brand]; ok && fileExists(path) {
		return path
	}
	delete(s.sources, brand)

	if entries, err := os.ReadDir(s.paths.CatalogsDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if b, ok := BrandFromPath(entry.Name()); ok && b == brand {
				path := filepath.Join(s.paths.CatalogsDir, entry.Name())
				s.sources[brand] = path
				return path
			}
		}
	}
	return filepath.Join(s.paths.CatalogsDir, brand+brandExt)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// BrandFromPath returns the brand a catalog file holds, or false for files
// that are not auto-loaded (staging files, non-JSON files, directories).
func BrandFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(base), brandExt) || strings.HasPrefix(base, stagingPrefix) {
		return "", false
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "", false
	}
	return catalog.NormalizeBrand(stem), true
}

// LoadCatalog loads every brand file in the catalogs directory. A missing
// directory yields an empty catalog; a bad file is reported and skipped.
func (s *Store) LoadCatalog() (*catalog.Catalog, *LoadReport, error) {
	cat := catalog.New()
	report := &LoadReport{}
	s.sources = make(map[string]string)

	entries, err := os.ReadDir(s.paths.CatalogsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("catalogs directory %s does not exist", s.paths.CatalogsDir)
			return cat, report, nil
		}
		return cat, report, newFileError(ErrTypeRead, "scan", s.paths.CatalogsDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		brand, ok := BrandFromPath(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(s.paths.CatalogsDir, entry.Name())
		if first, seen := s.sources[brand]; seen {
			err := newFileError(ErrTypeInvalid, "load", path,
				fmt.Errorf("brand %q is already loaded from %s", brand, filepath.Base(first)))
			s.logger.WarnWithFields("skipping duplicate brand file", []logger.Field{logger.F("brand", brand), logger.Error(err)})
			report.Problems = append(report.Problems, err)
			continue
		}
		problems, err := s.loadBrandFile(cat, brand, path)
		if err != nil {
			s.logger.WarnWithFields("skipping brand file", []logger.Field{logger.F("brand", brand), logger.Error(err)})
			report.Problems = append(report.Problems, err)
			continue
		}
		for _, p := range problems {
			s.logger.WarnWithFields("skipping catalog entry", []logger.Field{logger.F("brand", brand), logger.Error(p)})
		}
		report.Problems = append(report.Problems, problems...)
		report.Brands = append(report.Brands, brand)
		s.sources[brand] = path
	}

	sort.Strings(report.Brands)
	s.logger.InfoWithFields("catalog loaded", []logger.Field{
		logger.F("brands", len(report.Brands)),
		logger.Count(cat.Len()),
	})
	return cat, report, nil
}

// ReadBrand decodes one brand file without touching any catalog
func (s *Store) ReadBrand(brand string) (map[string]any, error) {
	return readBrandFile(s.BrandPath(brand))
}

func readBrandFile(path string) (map[string]any, error) {
	var raw map[string]any
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, newFileError(ErrTypeDecode, "decode", path, errors.New("expected a JSON object"))
	}
	return raw, nil
}

// LoadBrandInto reads one brand file and merges it into cat. The error is
// set when the whole file is unusable; problems lists malformed entries.
func (s *Store) LoadBrandInto(cat *catalog.Catalog, brand string) ([]error, error) {
	return s.loadBrandFile(cat, brand, s.BrandPath(brand))
}

func (s *Store) loadBrandFile(cat *catalog.Catalog, brand, path string) ([]error, error) {
	raw, err := readBrandFile(path)
	if err != nil {
		return nil, err
	}
	return cat.LoadBrand(brand, raw), nil
}

// SaveBrand rewrites a brand file in full. An empty brand removes its file.
func (s *Store) SaveBrand(brand string, records map[string]catalog.Record) error {
	path := s.BrandPath(brand)
	if len(records) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return newFileError(ErrTypeWrite, "remove", path, err)
		}
		delete(s.sources, catalog.NormalizeBrand(brand))
		s.logger.Debug("removed empty brand file %s", path)
		return nil
	}

	if err := writeJSON(path, records); err != nil {
		return err
	}
	s.sources[catalog.NormalizeBrand(brand)] = path
	s.logger.DebugWithFields("brand saved", []logger.Field{logger.Path(path), logger.Count(len(records))})
	return nil
}

// LoadLibrary reads the owned counts. A missing file is an empty library.
// An undecodable file is moved aside so the next save does not overwrite it,
// and an empty library is returned with the error.
func (s *Store) LoadLibrary() (*library.Library, []error, error) {
	path := s.paths.LibraryFile

	var raw map[string]any
	if err := readJSON(path, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return library.New(), nil, nil
		}
		var fe *FileError
		if errors.As(err, &fe) && fe.Type == ErrTypeDecode {
			if backupErr := os.Rename(path, path+corruptSuffix); backupErr == nil {
				s.logger.Warn("library file %s is unreadable, moved to %s", path, path+corruptSuffix)
			}
		}
		return library.New(), nil, err
	}

	counts := make(map[string]map[string]int, len(raw))
	var problems []error
	for _, brand := range sortedKeys(raw) {
		skus, ok := raw[brand].(map[string]any)
		if !ok {
			problems = append(problems, newFileError(ErrTypeInvalid, "load", path,
				fmt.Errorf("brand %q: expected object", brand)))
			continue
		}
		for _, sku := range sortedKeys(skus) {
			n, err := library.ParseCount(skus[sku])
			if err != nil {
				problems = append(problems, newFileError(ErrTypeInvalid, "load", path,
					fmt.Errorf("%s/%s: %w", brand, sku, err)))
				continue
			}
			if counts[brand] == nil {
				counts[brand] = make(map[string]int)
			}
			counts[brand][sku] = n
		}
	}

	for _, p := range problems {
		s.logger.WarnWithFields("skipping library entry", []logger.Field{logger.Error(p)})
	}
	return library.FromMap(counts), problems, nil
}

// SaveLibrary writes every count, explicit zeros included, and marks the
// library clean on success
func (s *Store) SaveLibrary(lib *library.Library) error {
	if err := writeJSON(s.paths.LibraryFile, lib.Snapshot()); err != nil {
		return err
	}
	lib.MarkClean()
	s.logger.DebugWithFields("library saved", []logger.Field{logger.Path(s.paths.LibraryFile), logger.Count(lib.Len())})
	return nil
}

// LoadSettings reads the settings file. Missing or unreadable files yield
// empty settings; the error is returned for reporting only.
func (s *Store) LoadSettings() (*Settings, error) {
	values := make(map[string]any)
	if err := readJSON(s.paths.SettingsFile, &values); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewSettings(), nil
		}
		return NewSettings(), err
	}
	if values == nil {
		values = make(map[string]any)
	}
	return &Settings{values: values}, nil
}

// SaveSettings writes the settings file
func (s *Store) SaveSettings(settings *Settings) error {
	if err := writeJSON(s.paths.SettingsFile, settings.values); err != nil {
		return err
	}
	settings.dirty = false
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
