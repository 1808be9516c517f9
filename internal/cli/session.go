package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yildizm/skeincare/internal/app"
	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/config"
	"github.com/yildizm/skeincare/internal/formatter"
	"github.com/yildizm/skeincare/internal/logger"
	"github.com/yildizm/skeincare/internal/store"
	"github.com/yildizm/skeincare/internal/view"
)

// storePaths resolves the data files named by cfg
func storePaths(cfg *config.Config) store.Paths {
	return store.Paths{
		CatalogsDir:  cfg.CatalogsPath(),
		LibraryFile:  cfg.LibraryPath(),
		SettingsFile: cfg.SettingsPath(),
	}
}

// newLogger creates the root logger. When a log file is configured every
// line goes there; the returned closer releases it.
func newLogger(cfg *config.Config, fallback io.Writer) (*logger.Logger, func(), error) {
	log := logger.NewWithCallback("skeincare", isVerbose)
	path := cfg.LogPath()
	if path == "" {
		log.SetWriter(fallback)
		return log, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - log path comes from the user's own configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetWriter(f)
	return log, func() { _ = f.Close() }, nil
}

// sessionOptions carries the per-command view state
type sessionOptions struct {
	ownedOnly bool
	search    string
	sort      string
}

// session is an app opened for one command
type session struct {
	*app.App
	log      *logger.Logger
	closeLog func()
}

// openSession loads the catalog and library for a one-shot command
func openSession(cmd *cobra.Command, opts sessionOptions) (*session, error) {
	cfg := GetGlobalConfig()
	log, closeLog, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	options := app.Options{
		Paths:     storePaths(cfg),
		OwnedOnly: opts.ownedOnly,
		Search:    opts.search,
		Logger:    log,
	}
	if opts.sort != "" {
		method, err := view.ParseSortMethod(opts.sort)
		if err != nil {
			closeLog()
			return nil, err
		}
		options.Sort = &method
	}

	a, err := app.New(options)
	if err != nil {
		closeLog()
		return nil, err
	}
	return &session{App: a, log: log, closeLog: closeLog}, nil
}

// end flushes pending changes and releases the log file
func (s *session) end() {
	if err := s.Close(); err != nil {
		s.log.ErrorWithFields("failed to save library", []logger.Field{logger.Error(err)})
	}
	s.closeLog()
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// getFormatter returns the formatter for the requested output format
func getFormatter(format string, w io.Writer) (formatter.Formatter, error) {
	cfg := GetGlobalConfig()
	switch strings.ToLower(format) {
	case "json":
		return formatter.NewJSON(), nil
	case "csv":
		return formatter.NewCSV(), nil
	case "markdown", "md":
		return formatter.NewMarkdown(), nil
	case "text", "terminal", "":
		return formatter.NewTerminalWithWidth(cfg.UseColor(isTerminal(w)), cfg.Display.SwatchWidth), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeOutput renders p and writes it to outputFile, or to cmd's output
func writeOutput(cmd *cobra.Command, p *view.Projection, format, outputFile string) error {
	var target io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		target = io.Discard
	}

	f, err := getFormatter(format, target)
	if err != nil {
		return err
	}
	output, err := f.Format(p)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if outputFile != "" {
		return writeOutputBytesToFile(output, outputFile)
	}
	_, err = cmd.OutOrStdout().Write(output)
	return err
}

func writeOutputBytesToFile(output []byte, filename string) error {
	// Validate and clean the file path
	cleanPath := filepath.Clean(filename)
	if cleanPath == "." || cleanPath == "/" {
		return fmt.Errorf("invalid output file path: %s", filename)
	}

	// #nosec G304 - path is validated above and intended for user-specified output files
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	_, err = file.Write(output)
	return err
}

// parseColor accepts "#rrggbb", "rrggbb" or "r,g,b"
func parseColor(s string) (catalog.Color, error) {
	s = strings.TrimSpace(s)
	if parts := strings.Split(s, ","); len(parts) == 3 {
		var rgb [3]int
		for i, part := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || v < 0 || v > 255 {
				return catalog.Color{}, fmt.Errorf("invalid color channel %q in %q", part, s)
			}
			rgb[i] = v
		}
		return catalog.NewColor(rgb[0], rgb[1], rgb[2]), nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return catalog.Color{}, fmt.Errorf("invalid color %q (use #rrggbb or r,g,b)", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return catalog.Color{}, fmt.Errorf("invalid color %q (use #rrggbb or r,g,b)", s)
	}
	return catalog.NewColor(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)), nil
}

// parseColors parses every --color value in order
func parseColors(values []string) ([]catalog.Color, error) {
	colors := make([]catalog.Color, 0, len(values))
	for _, v := range values {
		c, err := parseColor(v)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}
