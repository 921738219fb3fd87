package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"framework-kit/internal/app"
)

type validateOptions struct {
	Version   string
	Platforms []string
	Diff      bool
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <package>",
		Short: "Check that a package applies cleanly without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Version, "version", "", "Package version or constraint (default highest installed)")
	cmd.Flags().StringSliceVar(&opts.Platforms, "platform", nil, "Limit to these platforms (ios, mac, android, win32)")
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "Print the changes add would make")
	_ = viper.BindPFlag("platforms", cmd.Flags().Lookup("platform"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, name string, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		ProjectDir:  viper.GetString("project"),
		PackagesDir: viper.GetString("packages_dir"),
		Package:     name,
		Version:     opts.Version,
		Platforms:   resolveStrings(cmd, opts.Platforms, "platforms", "platform"),
	})
	out := cmd.OutOrStdout()
	printApplyReport(out, result.Report)
	if opts.Diff {
		printDiffs(out, result.Diffs)
	}
	if err != nil {
		return err
	}
	printSummary(out, "validated "+result.Package.ID(), result.Report)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
