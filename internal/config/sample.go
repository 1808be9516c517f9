package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# skeincare configuration
version: "1.0"

storage:
  # Base directory; relative paths below resolve against it
  data_dir: "."
  # One <brand>.json per brand. Files starting with _ are never loaded.
  catalogs_dir: "catalogs"
  # Owned counts per brand and SKU
  library_file: "library.json"
  # Window size, sort method and skipped update version
  settings_file: "defaults.json"
  # Where the interactive view writes log lines (empty discards them)
  log_file: ""

display:
  # default | high-contrast | minimal
  theme: "default"
  # Start with skeins you do not own visible
  show_all: true
  # Terminal cells per color band
  swatch_width: 6
  # Reload brand files edited while the view is open
  watch_files: true

update:
  enabled: true
  repository: "jaylinwylie/skeincare"
  api_url: "https://api.github.com"
  timeout: 10s

output:
  # text | json | csv | markdown
  default_format: "text"
  # auto | always | never
  color_mode: "auto"
  emoji: true
  verbose: false
`
}

// MinimalSampleConfig returns only the settings people usually change
func MinimalSampleConfig() string {
	return `version: "1.0"
storage:
  data_dir: "."
display:
  theme: "default"
update:
  enabled: true
`
}
