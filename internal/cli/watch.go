package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/skeincare/internal/emoji"
	"github.com/yildizm/skeincare/internal/logger"
	"github.com/yildizm/skeincare/internal/ui"
)

var (
	watchOwned  bool
	watchSearch string
	watchSort   string
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the skein list when brand files change",
		Long: `Print the skein list, then watch the catalogs directory and print it
again whenever a brand file is written, created or removed by another
program. Press Ctrl+C to stop watching.`,
		Example: `  skeincare watch --owned
  skeincare watch -o markdown`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchOwned, "owned", false, "list only skeins with a positive count")
	cmd.Flags().StringVarP(&watchSearch, "search", "s", "", "filter by SKU or name")
	cmd.Flags().StringVar(&watchSort, "sort", "", "sort method (brand, sku, name, count)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openSession(cmd, sessionOptions{
		ownedOnly: watchOwned,
		search:  watchSearch,
		sort:    watchSort,
	})
	if err != nil {
		return err
	}
	defer a.end()

	dir := a.Store().Paths().CatalogsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create catalogs directory: %w", err)
	}

	watcher, err := createWatcher(dir)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher, a.log)

	if err := writeOutput(cmd, a.Projection(), getOutputFormat(), ""); err != nil {
		return err
	}
	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching %s\n", emoji.GetEmoji("folder"), dir)
		fmt.Fprintf(cmd.ErrOrStderr(), "Press Ctrl+C to stop...\n\n")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return runWatchLoop(ctx, watcher, func(brand string) error {
		if err := a.ReloadBrand(brand); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n%s %s reloaded at %s\n\n", emoji.GetEmoji("reload"), brand, time.Now().Format("15:04:05"))
		return writeOutput(cmd, a.Projection(), getOutputFormat(), "")
	}, a.log, cmd.ErrOrStderr())
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.WarnWithFields("failed to close watcher", []logger.Field{logger.Error(err)})
	}
}

// createWatcher creates a watcher on the catalogs directory
func createWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return watcher, nil
}

// runWatchLoop calls reload for every changed brand until ctx ends or an
// interrupt arrives. Reload failures are reported and the loop goes on.
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, reload func(brand string) error, log *logger.Logger, errOut io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(errOut, "\nStopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			brand, relevant := ui.BrandEvent(event)
			if !relevant {
				continue
			}
			log.DebugWithFields("brand file changed", []logger.Field{logger.F("brand", brand), logger.F("op", event.Op.String())})
			if err := reload(brand); err != nil {
				fmt.Fprintf(errOut, "%s %v\n", emoji.GetEmoji("error"), err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.WarnWithFields("watcher error", []logger.Field{logger.Error(err)})
		}
	}
}
