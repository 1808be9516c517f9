package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yildizm/skeincare/internal/emoji"
)

var importOverwrite bool

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <brand> <file.csv>",
		Short: "Import skeins from a CSV file",
		Long: `Import skeins into a brand catalog from a headerless CSV file with the
columns sku,name,r,g,b. Use - to read from stdin.

Skeins already in the catalog are kept unless --overwrite is given. Rows
that cannot be read are reported and skipped.`,
		Example: `  skeincare import dmc dmc.csv
  cat new.csv | skeincare import anchor - --overwrite`,
		Args: cobra.ExactArgs(2),
		RunE: runImport,
	}
	cmd.Flags().BoolVar(&importOverwrite, "overwrite", false, "replace skeins that already exist")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	brand, path := args[0], args[1]

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		// #nosec G304 - the user names the file to import
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	a, err := openSession(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer a.end()

	result, err := a.ImportCSV(brand, r, importOverwrite)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Imported into %s: %d added, %d updated, %d kept\n",
		emoji.GetEmoji("import"), result.Brand, result.Added, result.Updated, result.Kept)
	for _, p := range result.Problems {
		fmt.Fprintf(out, "   %s %v\n", emoji.GetEmoji("warning"), p)
	}
	return nil
}
