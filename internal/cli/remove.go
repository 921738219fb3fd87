package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"framework-kit/internal/app"
)

type removeOptions struct {
	Version string
	DryRun  bool
}

func newRemoveCommand() *cobra.Command {
	opts := removeOptions{}
	cmd := &cobra.Command{
		Use:   "remove <package>",
		Short: "Revert a package integration using its uninstall manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Version, "version", "", "Package version or constraint (default highest installed)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the pending changes as diffs without writing")
	return cmd
}

func runRemove(ctx context.Context, cmd *cobra.Command, name string, opts removeOptions) error {
	service := newAppService()
	result, err := service.Remove(ctx, app.RemoveRequest{
		ProjectDir:  viper.GetString("project"),
		PackagesDir: viper.GetString("packages_dir"),
		Package:     name,
		Version:     opts.Version,
		DryRun:      resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
	})
	out := cmd.OutOrStdout()
	printRevertReport(out, result.Report)
	printDiffs(out, result.Diffs)
	if err != nil {
		return err
	}
	printDetail(out, fmt.Sprintf("removed %s using %s", result.Package.ID(), result.ManifestPath))
	return nil
}
