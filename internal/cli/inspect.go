package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"framework-kit/internal/app"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List detected platform projects, their anchors and available packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd)
		},
	}
}

func runInspect(ctx context.Context, cmd *cobra.Command) error {
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{
		ProjectDir:  viper.GetString("project"),
		PackagesDir: viper.GetString("packages_dir"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "project: %s\n", result.Project.Root)
	file := ""
	for _, anchor := range result.Anchors {
		if anchor.File != file {
			file = anchor.File
			fmt.Fprintf(out, "%s\n", color.New(color.Bold).Sprint(file))
		}
		symbol := color.New(color.FgGreen).Sprint("✓")
		if !anchor.Present {
			symbol = color.New(color.FgRed).Sprint("✗")
		}
		fmt.Fprintf(out, "  %s %s\n", symbol, anchor.Anchor)
	}
	if len(result.Packages) == 0 {
		return nil
	}
	fmt.Fprintln(out, "packages:")
	for _, pkg := range result.Packages {
		state := color.New(color.Faint).Sprint("available")
		if pkg.Installed {
			state = color.New(color.FgCyan).Sprint("added")
		}
		fmt.Fprintf(out, "  - %s %s\n", pkg.Record.ID(), state)
	}
	return nil
}
