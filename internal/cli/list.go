package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/skeincare/internal/emoji"
)

var (
	listAll        bool
	listOwned      bool
	listSearch     string
	listSort       string
	listOutputFile string

	exportSort       string
	exportOutputFile string
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the skein list",
		Long: `Print the skein list with the same filter and ordering the interactive
view uses. Without --owned every catalog skein is listed.`,
		Example: `  skeincare list --owned
  skeincare list --search 310 --sort sku
  skeincare list -o json --output-file skeins.json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().BoolVar(&listAll, "all", false, "list every catalog skein (default unless --owned)")
	cmd.Flags().BoolVar(&listOwned, "owned", false, "list only skeins with a positive count")
	cmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by SKU or name")
	cmd.Flags().StringVar(&listSort, "sort", "", "sort method (brand, sku, name, count)")
	cmd.Flags().StringVar(&listOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("all", "owned")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openSession(cmd, sessionOptions{
		ownedOnly: listOwned,
		search:  listSearch,
		sort:    listSort,
	})
	if err != nil {
		return err
	}
	defer a.end()

	return writeOutput(cmd, a.Projection(), getOutputFormat(), listOutputFile)
}

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the owned skeins",
		Long: `Export every skein with a positive count. The format defaults to csv;
use -o to pick text, json or markdown instead.`,
		Example: `  skeincare export --output-file library.csv
  skeincare export -o json`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportSort, "sort", "brand", "sort method (brand, sku, name, count)")
	cmd.Flags().StringVar(&exportOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openSession(cmd, sessionOptions{ownedOnly: true, sort: exportSort})
	if err != nil {
		return err
	}
	defer a.end()

	format := "csv"
	if cmd.Flags().Changed("output") {
		format = outputFmt
	}
	if err := writeOutput(cmd, a.Projection(), format, exportOutputFile); err != nil {
		return err
	}

	if exportOutputFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Exported %d skeins to %s\n",
			emoji.GetEmoji("export"), len(a.Projection().Items), exportOutputFile)
	}
	return nil
}
