package store

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/library"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := New(Paths{
		CatalogsDir:  filepath.Join(dir, "catalogs"),
		LibraryFile:  filepath.Join(dir, "library.json"),
		SettingsFile: filepath.Join(dir, "defaults.json"),
	}, nil)
	return s, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCatalog_MissingDirectory(t *testing.T) {
	s, _ := newTestStore(t)

	cat, report, err := s.LoadCatalog()
	if err != nil {
		t.Fatalf("Expected missing directory to be treated as empty, got %v", err)
	}
	if cat.Len() != 0 || len(report.Brands) != 0 {
		t.Errorf("Expected empty catalog, got %d skeins", cat.Len())
	}
}

func TestLoadCatalog_SkipsStagingAndBadFiles(t *testing.T) {
	s, _ := newTestStore(t)
	dir := s.Paths().CatalogsDir

	writeFile(t, filepath.Join(dir, "dmc.json"), `{"310": {"name": "Black", "color": [[0,0,0]]}, "bad": 5}`)
	writeFile(t, filepath.Join(dir, "Anchor.json"), `{"403": {"name": "Black"}}`)
	writeFile(t, filepath.Join(dir, "_dmc.json"), `{"999": {"name": "Staging"}}`)
	writeFile(t, filepath.Join(dir, "_dmc.csv"), "310,Black,0,0,0\n")
	writeFile(t, filepath.Join(dir, "broken.json"), `{"310": `)
	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")

	cat, report, err := s.LoadCatalog()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if want := []string{"anchor", "dmc"}; !reflect.DeepEqual(report.Brands, want) {
		t.Errorf("Expected brands %v, got %v", want, report.Brands)
	}
	if cat.Len() != 2 {
		t.Errorf("Expected 2 skeins, got %d", cat.Len())
	}
	if cat.Has("dmc", "999") {
		t.Error("Staging file should not be loaded")
	}
	if len(report.Problems) != 2 {
		t.Fatalf("Expected 2 problems (malformed entry + broken file), got %v", report.Problems)
	}

	var sawMalformed, sawFile bool
	for _, p := range report.Problems {
		if catalog.IsMalformedEntry(p) {
			sawMalformed = true
		}
		if IsFileError(p) {
			sawFile = true
		}
	}
	if !sawMalformed || !sawFile {
		t.Errorf("Expected one malformed entry and one file error, got %v", report.Problems)
	}
}

func TestSaveBrand_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	cat := catalog.New()
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "0003", Name: "Lead", Colors: []catalog.Color{{10, 20, 30}, {40, 50, 60}}})
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "310", Name: "Black", Colors: []catalog.Color{{0, 0, 0}}, Material: "silk"})
	cat.Put(&catalog.Skein{Brand: "dmc", SKU: "B5200"})

	if err := s.SaveBrand("dmc", cat.Records("dmc")); err != nil {
		t.Fatalf("SaveBrand failed: %v", err)
	}

	reloaded := catalog.New()
	problems, err := s.LoadBrandInto(reloaded, "dmc")
	if err != nil || len(problems) != 0 {
		t.Fatalf("Reload failed: %v %v", err, problems)
	}
	for _, sku := range cat.SKUs("dmc") {
		want, _ := cat.Get("dmc", sku)
		got, ok := reloaded.Get("dmc", sku)
		if !ok {
			t.Fatalf("Missing %s after reload", sku)
		}
		if !want.Equal(got) {
			t.Errorf("Skein %s changed on round trip: %+v vs %+v", sku, want, got)
		}
	}
}

func TestSaveBrand_Format(t *testing.T) {
	s, _ := newTestStore(t)

	records := map[string]catalog.Record{
		"310": {Name: "Black", Color: []catalog.Color{{0, 0, 0}}},
	}
	if err := s.SaveBrand("dmc", records); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.BrandPath("dmc"))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n    \"310\": {\n        \"name\": \"Black\",\n        \"color\": [\n            [\n                0,\n                0,\n                0\n            ]\n        ]\n    }\n}\n"
	if string(data) != want {
		t.Errorf("Unexpected file content:\n%s", data)
	}
	if strings.Contains(string(data), "material") {
		t.Error("Default material should be omitted")
	}
}

func TestSaveBrand_EmptyRemovesFile(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.SaveBrand("dmc", map[string]catalog.Record{"1": {Name: "x", Color: []catalog.Color{catalog.White}}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveBrand("dmc", nil); err != nil {
		t.Fatalf("Expected removal to succeed, got %v", err)
	}
	if _, err := os.Stat(s.BrandPath("dmc")); !os.IsNotExist(err) {
		t.Error("Expected brand file to be removed")
	}
	if err := s.SaveBrand("dmc", nil); err != nil {
		t.Errorf("Removing an absent file should succeed, got %v", err)
	}
}

func TestSaveBrand_WriteFailure(t *testing.T) {
	s, dir := newTestStore(t)
	// A regular file where the catalogs directory should be
	writeFile(t, filepath.Join(dir, "catalogs"), "")

	err := s.SaveBrand("dmc", map[string]catalog.Record{"1": {Name: "x", Color: []catalog.Color{catalog.White}}})
	if err == nil {
		t.Fatal("Expected write failure")
	}
	if !IsWriteError(err) {
		t.Errorf("Expected write FileError, got %T %v", err, err)
	}
}

func TestLibrary_RoundTripKeepsZeros(t *testing.T) {
	s, _ := newTestStore(t)

	lib := library.New()
	lib.SetCount("dmc", "310", 3)
	lib.SetCount("dmc", "311", 0)
	lib.SetCount("anchor", "403", 999)

	if err := s.SaveLibrary(lib); err != nil {
		t.Fatal(err)
	}
	if lib.Dirty() {
		t.Error("Expected library to be clean after save")
	}

	loaded, problems, err := s.LoadLibrary()
	if err != nil || len(problems) != 0 {
		t.Fatalf("LoadLibrary failed: %v %v", err, problems)
	}
	if !reflect.DeepEqual(loaded.Snapshot(), lib.Snapshot()) {
		t.Errorf("Expected %v, got %v", lib.Snapshot(), loaded.Snapshot())
	}
	if !loaded.Has("dmc", "311") {
		t.Error("Expected explicit zero to survive the round trip")
	}
}

func TestLoadLibrary_Recovery(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantErr      bool
		wantProblems int
		want         map[string]map[string]int
	}{
		{
			name:    "missing file",
			content: "",
			want:    map[string]map[string]int{},
		},
		{
			name:         "bad values skipped",
			content:      `{"dmc": {"310": 3, "311": "lots", "312": 1500}, "anchor": 7}`,
			wantProblems: 2,
			want:         map[string]map[string]int{"dmc": {"310": 3, "312": 999}},
		},
		{
			name:    "corrupt file",
			content: `{"dmc": `,
			wantErr: true,
			want:    map[string]map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			if tt.content != "" {
				writeFile(t, s.Paths().LibraryFile, tt.content)
			}

			lib, problems, err := s.LoadLibrary()
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLibrary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(problems) != tt.wantProblems {
				t.Errorf("Expected %d problems, got %v", tt.wantProblems, problems)
			}
			if !reflect.DeepEqual(lib.Snapshot(), tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, lib.Snapshot())
			}
		})
	}
}

func TestLoadLibrary_CorruptFileMovedAside(t *testing.T) {
	s, _ := newTestStore(t)
	path := s.Paths().LibraryFile
	writeFile(t, path, "not json")

	if _, _, err := s.LoadLibrary(); err == nil {
		t.Fatal("Expected decode error")
	}
	if _, err := os.Stat(path + corruptSuffix); err != nil {
		t.Errorf("Expected backup file: %v", err)
	}
}

func TestSettings_PreservesUnknownKeys(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.Paths().SettingsFile, `{"window_size": [800, 600], "sort_method": 2, "theme": "dark"}`)

	settings, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := settings.SortMethod(); !ok || id != 2 {
		t.Errorf("Expected sort_method 2, got %d %v", id, ok)
	}
	if w, h, ok := settings.WindowSize(); !ok || w != 800 || h != 600 {
		t.Errorf("Expected window 800x600, got %dx%d", w, h)
	}

	settings.SetSortMethod(0)
	settings.SetSkipVersion("v1.2.0")
	if err := s.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	reloaded, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := reloaded.Get("theme"); !ok || v != "dark" {
		t.Errorf("Expected unknown key to survive, got %v", v)
	}
	if id, _ := reloaded.SortMethod(); id != 0 {
		t.Errorf("Expected sort_method 0, got %d", id)
	}
	if reloaded.SkipVersion() != "v1.2.0" {
		t.Errorf("Expected skip_version, got %q", reloaded.SkipVersion())
	}
}

func TestSettings_MissingFile(t *testing.T) {
	s, _ := newTestStore(t)
	settings, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := settings.SortMethod(); ok {
		t.Error("Expected no sort method in empty settings")
	}
	if settings.Dirty() {
		t.Error("Expected fresh settings to be clean")
	}
}

func TestBrandFromPath(t *testing.T) {
	tests := []struct {
		path  string
		brand string
		ok    bool
	}{
		{"catalogs/dmc.json", "dmc", true},
		{"catalogs/Anchor.JSON", "anchor", true},
		{"catalogs/_dmc.json", "", false},
		{"catalogs/dmc.csv", "", false},
		{"catalogs/.json", "", false},
	}
	for _, tt := range tests {
		brand, ok := BrandFromPath(tt.path)
		if brand != tt.brand || ok != tt.ok {
			t.Errorf("BrandFromPath(%q) = %q, %v; want %q, %v", tt.path, brand, ok, tt.brand, tt.ok)
		}
	}
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"310, Black ,0,0,0",
		"311,White,255,255,255",
		"310,Duplicate,1,1,1",
		"",
		"312,Too,Few",
		"313,Bad,1,x,3",
		"0003,Lead,300,-4,12",
	}, "\n")

	records, problems, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %v", records)
	}
	if records["310"].Name != "Black" {
		t.Errorf("Expected first occurrence to win, got %q", records["310"].Name)
	}
	if got := records["0003"].Color[0]; got != (catalog.Color{255, 0, 12}) {
		t.Errorf("Expected clamped color, got %v", got)
	}
	if len(problems) != 3 {
		t.Errorf("Expected 3 row problems, got %v", problems)
	}
}

func catalogFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSaveBrand_WritesBackToMixedCaseFile(t *testing.T) {
	s, _ := newTestStore(t)
	dir := s.Paths().CatalogsDir
	writeFile(t, filepath.Join(dir, "DMC.json"), `{"310": {"name": "Black"}, "311": {"name": "White"}}`)

	cat, _, err := s.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if !cat.Has("dmc", "310") {
		t.Fatal("Expected DMC.json to load as brand dmc")
	}

	cat.Delete("dmc", "310")
	if err := s.SaveBrand("dmc", cat.Records("dmc")); err != nil {
		t.Fatalf("SaveBrand failed: %v", err)
	}
	if got := catalogFiles(t, dir); !reflect.DeepEqual(got, []string{"DMC.json"}) {
		t.Errorf("Expected the original file to be rewritten in place, got %v", got)
	}

	reloaded, _, err := New(s.Paths(), nil).LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Has("dmc", "310") || !reloaded.Has("dmc", "311") {
		t.Errorf("Expected 310 gone after restart, got %v", reloaded.SKUs("dmc"))
	}

	raw, err := s.ReadBrand("DMC")
	if err != nil {
		t.Fatalf("ReadBrand failed: %v", err)
	}
	if _, ok := raw["311"]; !ok || len(raw) != 1 {
		t.Errorf("Expected ReadBrand to read DMC.json, got %v", raw)
	}

	if err := s.SaveBrand("dmc", nil); err != nil {
		t.Fatal(err)
	}
	if got := catalogFiles(t, dir); len(got) != 0 {
		t.Errorf("Expected emptied brand file removed, got %v", got)
	}
}

func TestBrandPath_FindsFileCreatedAfterLoad(t *testing.T) {
	s, _ := newTestStore(t)
	dir := s.Paths().CatalogsDir
	if _, _, err := s.LoadCatalog(); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(dir, "Anchor.JSON"), `{"403": {"name": "Black"}}`)
	if got := s.BrandPath("anchor"); got != filepath.Join(dir, "Anchor.JSON") {
		t.Errorf("BrandPath() = %s, want the existing Anchor.JSON", got)
	}
	if got := s.BrandPath("madeira"); got != filepath.Join(dir, "madeira.json") {
		t.Errorf("BrandPath() = %s, want lowercase default for a new brand", got)
	}
}

func TestLoadCatalog_DuplicateBrandFiles(t *testing.T) {
	s, _ := newTestStore(t)
	dir := s.Paths().CatalogsDir
	writeFile(t, filepath.Join(dir, "DMC.json"), `{"310": {"name": "Black"}}`)
	writeFile(t, filepath.Join(dir, "dmc.json"), `{"999": {"name": "Stray"}}`)

	cat, report, err := s.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 1 || !cat.Has("dmc", "310") {
		t.Errorf("Expected only the first file to load, got %v", cat.SKUs("dmc"))
	}
	if len(report.Problems) != 1 || !IsFileError(report.Problems[0]) {
		t.Errorf("Expected the duplicate file reported, got %v", report.Problems)
	}
	if got := s.BrandPath("dmc"); got != filepath.Join(dir, "DMC.json") {
		t.Errorf("BrandPath() = %s, want the loaded file", got)
	}
}
