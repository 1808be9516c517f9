package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/skeincare/internal/app"
	"github.com/yildizm/skeincare/internal/catalog"
	"github.com/yildizm/skeincare/internal/emoji"
)

var (
	addName     string
	addColors   []string
	addMaterial string

	editName     string
	editColors   []string
	editMaterial string
	editToBrand  string
	editToSKU    string

	deleteIfExists bool
)

func newCountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <brand> <sku> [n|+n|-n]",
		Short: "Show or change how many of a skein you own",
		Long: `Show or change the owned count of one skein.

A bare number sets the count, a signed number adjusts it. Counts are
kept between 0 and 999.`,
		Example: `  skeincare count dmc 310
  skeincare count dmc 310 4
  skeincare count dmc 310 -1`,
		Args: cobra.RangeArgs(2, 3),
		RunE: runCount,
	}
	// Everything after <brand> is positional so "-1" is read as a count
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runCount(cmd *cobra.Command, args []string) error {
	a, err := openSession(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer a.end()

	key := catalog.Key{Brand: catalog.NormalizeBrand(args[0]), SKU: args[1]}
	if !a.Catalog().Has(key.Brand, key.SKU) {
		return app.NewSkeinNotFoundError(key)
	}

	count := a.Count(key.Brand, key.SKU)
	if len(args) == 3 {
		count, err = applyCount(a, key, args[2])
		if err != nil {
			return err
		}
		if err := a.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d\n", emoji.GetEmoji("count"), key, count)
	return nil
}

// applyCount sets or adjusts the count of key from a command-line value
func applyCount(a *session, key catalog.Key, value string) (int, error) {
	if strings.HasPrefix(value, "+") || strings.HasPrefix(value, "-") {
		delta, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid count adjustment: %s", value)
		}
		return a.AdjustCount(key.Brand, key.SKU, delta)
	}
	return a.SetCountValue(key.Brand, key.SKU, value)
}

func newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <brand> <sku>",
		Short: "Add a skein to a brand catalog",
		Example: `  skeincare add dmc 5200 --name "Snow White" --color 255,255,255
  skeincare add anchor 1 --color "#f0f0f0" --color "#d0d0d0" --material silk`,
		Args: cobra.ExactArgs(2),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addName, "name", catalog.DefaultName, "skein name")
	cmd.Flags().StringArrayVar(&addColors, "color", nil, "color band as r,g,b or #rrggbb (repeatable)")
	cmd.Flags().StringVar(&addMaterial, "material", catalog.DefaultMaterial, "thread material")
	_ = cmd.MarkFlagRequired("color")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	colors, err := parseColors(addColors)
	if err != nil {
		return err
	}

	a, err := openSession(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer a.end()

	s := catalog.NewSkein(args[0], args[1])
	s.Name = addName
	s.Colors = colors
	s.Material = addMaterial
	if err := a.AddSkein(s); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s\n", emoji.GetEmoji("add"), s.Key())
	return nil
}

func newEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <brand> <sku>",
		Short: "Change a catalog skein",
		Long: `Change a catalog skein. Only the given flags change; --to-brand and
--to-sku move the skein to a new key and carry its owned count along.`,
		Example: `  skeincare edit dmc 310 --name Black
  skeincare edit dmc 310 --to-sku 0310`,
		Args: cobra.ExactArgs(2),
		RunE: runEdit,
	}

	cmd.Flags().StringVar(&editName, "name", "", "new skein name")
	cmd.Flags().StringArrayVar(&editColors, "color", nil, "replacement color bands as r,g,b or #rrggbb (repeatable)")
	cmd.Flags().StringVar(&editMaterial, "material", "", "new thread material")
	cmd.Flags().StringVar(&editToBrand, "to-brand", "", "move the skein to another brand")
	cmd.Flags().StringVar(&editToSKU, "to-sku", "", "give the skein another SKU")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := openSession(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer a.end()

	old := catalog.Key{Brand: catalog.NormalizeBrand(args[0]), SKU: args[1]}
	current, ok := a.Catalog().Get(old.Brand, old.SKU)
	if !ok {
		return app.NewSkeinNotFoundError(old)
	}

	edited, err := editedSkein(cmd, current)
	if err != nil {
		return err
	}
	if err := a.EditSkein(old, edited); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Edited %s\n", emoji.GetEmoji("edit"), edited.Normalized().Key())
	return nil
}

// editedSkein applies the flags the user set to a copy of current
func editedSkein(cmd *cobra.Command, current *catalog.Skein) (*catalog.Skein, error) {
	s := current.Clone()
	flags := cmd.Flags()
	if flags.Changed("name") {
		s.Name = editName
	}
	if flags.Changed("material") {
		s.Material = editMaterial
	}
	if flags.Changed("color") {
		colors, err := parseColors(editColors)
		if err != nil {
			return nil, err
		}
		s.Colors = colors
	}
	if flags.Changed("to-brand") {
		s.Brand = editToBrand
	}
	if flags.Changed("to-sku") {
		s.SKU = editToSKU
	}
	return s, nil
}

func newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <brand> <sku>",
		Aliases: []string{"rm"},
		Short:   "Remove a skein from its brand catalog",
		Args:    cobra.ExactArgs(2),
		RunE:    runDelete,
	}
	cmd.Flags().BoolVar(&deleteIfExists, "if-exists", false, "succeed when the skein is not in the catalog")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openSession(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer a.end()

	key := catalog.Key{Brand: catalog.NormalizeBrand(args[0]), SKU: args[1]}
	deleted, err := a.DeleteSkein(key.Brand, key.SKU)
	if err != nil {
		return err
	}
	if !deleted {
		if deleteIfExists {
			return nil
		}
		return app.NewSkeinNotFoundError(key)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s\n", emoji.GetEmoji("delete"), key)
	return nil
}
