package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"framework-kit/internal/app"
)

type addOptions struct {
	Version   string
	Platforms []string
	DryRun    bool
}

func newAddCommand() *cobra.Command {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add <package>",
		Short: "Integrate an installed package into the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Version, "version", "", "Package version or constraint (default highest installed)")
	cmd.Flags().StringSliceVar(&opts.Platforms, "platform", nil, "Limit to these platforms (ios, mac, android, win32)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the pending changes as diffs without writing")
	_ = viper.BindPFlag("platforms", cmd.Flags().Lookup("platform"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	return cmd
}

func runAdd(ctx context.Context, cmd *cobra.Command, name string, opts addOptions) error {
	service := newAppService()
	result, err := service.Add(ctx, app.AddRequest{
		ProjectDir:  viper.GetString("project"),
		PackagesDir: viper.GetString("packages_dir"),
		Package:     name,
		Version:     opts.Version,
		Platforms:   resolveStrings(cmd, opts.Platforms, "platforms", "platform"),
		DryRun:      resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
	})
	out := cmd.OutOrStdout()
	printApplyReport(out, result.Report)
	printDiffs(out, result.Diffs)
	if err != nil {
		return err
	}
	printSummary(out, "added "+result.Package.ID(), result.Report)
	if result.UninstallPath != "" {
		printDetail(out, "uninstall manifest: "+result.UninstallPath)
	}
	return nil
}
