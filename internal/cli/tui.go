package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yildizm/skeincare/internal/app"
	"github.com/yildizm/skeincare/internal/ui"
	"github.com/yildizm/skeincare/internal/updater"
	"github.com/yildizm/skeincare/internal/view"
)

var (
	tuiTheme   string
	tuiSearch  string
	tuiSort    string
	tuiOwned   bool
	tuiNoWatch bool
)

func newTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive skein list",
		Long: `Open the interactive skein list.

Keys: arrows move, +/- change the count, enter types a count, / searches,
s cycles the sort, a toggles owned-only, r reloads the brand, d deletes,
u skips an announced update, q quits.`,
		RunE: runTUI,
	}
	addTUIFlags(cmd)
	return cmd
}

func addTUIFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&tuiTheme, "theme", "", "color theme (overrides config)")
	cmd.Flags().StringVar(&tuiSearch, "search", "", "initial search text")
	cmd.Flags().StringVar(&tuiSort, "sort", "", "sort method (brand, sku, name, count)")
	cmd.Flags().BoolVar(&tuiOwned, "owned", false, "start with only owned skeins visible")
	cmd.Flags().BoolVar(&tuiNoWatch, "no-watch", false, "do not reload brand files changed on disk")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	// Log lines would tear the alternate screen unless they go to a file
	log, closeLog, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	theme := cfg.Display.Theme
	if tuiTheme != "" {
		theme = tuiTheme
	}

	opts := ui.Options{
		Session: app.Options{
			Paths:     storePaths(cfg),
			OwnedOnly: !cfg.Display.ShowAll || tuiOwned,
			Search:    tuiSearch,
		},
		Theme:        theme,
		SwatchWidth:  cfg.Display.SwatchWidth,
		Watch:        cfg.Display.WatchFiles && !tuiNoWatch,
		Version:      buildVersion,
		CheckTimeout: cfg.Update.Timeout,
		Logger:       log,
	}
	if tuiSort != "" {
		method, err := view.ParseSortMethod(tuiSort)
		if err != nil {
			return err
		}
		opts.Session.Sort = &method
	}
	if cfg.Update.Enabled {
		opts.Checker = updater.NewChecker(cfg.Update.APIURL, cfg.Update.Repository, cfg.Update.Timeout, log)
	}

	return ui.Run(opts)
}
