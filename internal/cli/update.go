package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/skeincare/internal/emoji"
	"github.com/yildizm/skeincare/internal/updater"
)

func newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for new releases",
	}
	cmd.AddCommand(newUpdateCheckCommand())
	cmd.AddCommand(newUpdateSkipCommand())
	return cmd
}

func newUpdateCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare this build with the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetGlobalConfig()
			a, err := openSession(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			defer a.end()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if cfg.Update.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Update.Timeout)
				defer cancel()
			}

			checker := updater.NewChecker(cfg.Update.APIURL, cfg.Update.Repository, cfg.Update.Timeout, a.log)
			result, err := checker.Check(ctx, buildVersion, a.SkipVersion())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case result.Available:
				fmt.Fprintf(out, "%s New version %s available (running %s)\n", emoji.GetEmoji("update"), result.Latest, result.Current)
				if result.Release.HTMLURL != "" {
					fmt.Fprintf(out, "   %s\n", result.Release.HTMLURL)
				}
			case result.Skipped:
				fmt.Fprintf(out, "%s Version %s is available but skipped\n", emoji.GetEmoji("info"), result.Latest)
			default:
				fmt.Fprintf(out, "%s Up to date (latest release %s)\n", emoji.GetEmoji("success"), result.Latest)
			}
			return nil
		},
	}
}

func newUpdateSkipCommand() *cobra.Command {
	var clearSkip bool

	cmd := &cobra.Command{
		Use:   "skip [tag]",
		Short: "Stop announcing a release",
		Long:  "Record a release tag that should no longer be announced. --clear forgets the skipped tag.",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearSkip == (len(args) == 1) {
				return fmt.Errorf("give either a tag or --clear")
			}

			a, err := openSession(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			defer a.end()

			tag := ""
			if !clearSkip {
				if _, ok := updater.Canonical(args[0]); !ok {
					return fmt.Errorf("not a release version: %s", args[0])
				}
				tag = args[0]
			}
			a.SetSkipVersion(tag)
			if err := a.Flush(); err != nil {
				return err
			}

			if clearSkip {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Skipped version cleared\n", emoji.GetEmoji("success"))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Version %s will not be announced\n", emoji.GetEmoji("success"), tag)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearSkip, "clear", false, "forget the skipped version")
	return cmd
}
