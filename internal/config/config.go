package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Display DisplayConfig `yaml:"display" json:"display"`
	Update  UpdateConfig  `yaml:"update" json:"update"`
	Output  OutputConfig  `yaml:"output" json:"output"`
}

// StorageConfig locates the catalog, library and settings files.
// Relative paths resolve against DataDir.
type StorageConfig struct {
	DataDir      string `yaml:"data_dir" json:"data_dir"`           // base directory for everything below
	CatalogsDir  string `yaml:"catalogs_dir" json:"catalogs_dir"`   // one <brand>.json per brand
	LibraryFile  string `yaml:"library_file" json:"library_file"`   // owned counts
	SettingsFile string `yaml:"settings_file" json:"settings_file"` // window size, sort method, skip version
	LogFile      string `yaml:"log_file" json:"log_file"`           // TUI log destination, empty discards
}

// DisplayConfig configures the interactive view
type DisplayConfig struct {
	Theme       string `yaml:"theme" json:"theme"`               // default|high-contrast|minimal
	ShowAll     bool   `yaml:"show_all" json:"show_all"`         // start with unowned skeins visible
	SwatchWidth int    `yaml:"swatch_width" json:"swatch_width"` // cells per color band
	WatchFiles  bool   `yaml:"watch_files" json:"watch_files"`   // reload brand files edited on disk
}

// UpdateConfig configures the release check
type UpdateConfig struct {
	Enabled    bool          `yaml:"enabled" json:"enabled"`
	Repository string        `yaml:"repository" json:"repository"` // owner/name on GitHub
	APIURL     string        `yaml:"api_url" json:"api_url"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|csv|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Emoji         bool   `yaml:"emoji" json:"emoji"`
	Verbose       bool   `yaml:"verbose" json:"verbose"` // default verbosity
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Storage: StorageConfig{
			DataDir:      ".",
			CatalogsDir:  "catalogs",
			LibraryFile:  "library.json",
			SettingsFile: "defaults.json",
			LogFile:      "",
		},
		Display: DisplayConfig{
			Theme:       "default",
			ShowAll:     true,
			SwatchWidth: 6,
			WatchFiles:  true,
		},
		Update: UpdateConfig{
			Enabled:    true,
			Repository: "jaylinwylie/skeincare",
			APIURL:     "https://api.github.com",
			Timeout:    10 * time.Second,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Emoji:         true,
			Verbose:       false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateStorageConfig(); err != nil {
		return err
	}
	if err := c.validateDisplayConfig(); err != nil {
		return err
	}
	if err := c.validateUpdateConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStorageConfig() error {
	if c.Storage.CatalogsDir == "" {
		return fmt.Errorf("catalogs_dir must not be empty")
	}
	if c.Storage.LibraryFile == "" {
		return fmt.Errorf("library_file must not be empty")
	}
	if c.Storage.SettingsFile == "" {
		return fmt.Errorf("settings_file must not be empty")
	}
	return nil
}

func (c *Config) validateDisplayConfig() error {
	if c.Display.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Display.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Display.Theme)
		}
	}
	if c.Display.SwatchWidth < 1 || c.Display.SwatchWidth > 40 {
		return fmt.Errorf("swatch_width must be between 1 and 40")
	}
	return nil
}

func (c *Config) validateUpdateConfig() error {
	if !c.Update.Enabled {
		return nil
	}
	if parts := strings.Split(c.Update.Repository, "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid update repository: %q (must be owner/name)", c.Update.Repository)
	}
	if !strings.HasPrefix(c.Update.APIURL, "http://") && !strings.HasPrefix(c.Update.APIURL, "https://") {
		return fmt.Errorf("invalid update api_url: %q", c.Update.APIURL)
	}
	if c.Update.Timeout < 0 {
		return fmt.Errorf("update timeout must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// ResolvePath expands ~ and anchors relative paths at the data directory
func (c *Config) ResolvePath(path string) string {
	if path == "" {
		return ""
	}
	path = expandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(expandPath(c.Storage.DataDir), path)
}

// CatalogsPath returns the resolved catalogs directory
func (c *Config) CatalogsPath() string {
	return c.ResolvePath(c.Storage.CatalogsDir)
}

// LibraryPath returns the resolved library file
func (c *Config) LibraryPath() string {
	return c.ResolvePath(c.Storage.LibraryFile)
}

// SettingsPath returns the resolved settings file
func (c *Config) SettingsPath() string {
	return c.ResolvePath(c.Storage.SettingsFile)
}

// LogPath returns the resolved log file, or empty when logging to a file is off
func (c *Config) LogPath() string {
	return c.ResolvePath(c.Storage.LogFile)
}

// UseColor decides whether output should be colored
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal && os.Getenv("NO_COLOR") == ""
	}
}
