package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"framework-kit/internal/types"
)

const commandWidth = 22

func statusSymbol(status types.OutcomeStatus) string {
	switch status {
	case types.OutcomeApplied:
		return color.New(color.FgGreen).Sprint("✓")
	case types.OutcomeUnchanged:
		return color.New(color.FgCyan).Sprint("•")
	default:
		return color.New(color.FgYellow).Sprint("-")
	}
}

// printApplyReport writes one line per platform outcome:
//
//	✓ #0 add_header_path        ios      proj.ios_mac/.../project.pbxproj
func printApplyReport(w io.Writer, report types.ApplyReport) {
	for _, op := range report.Operations {
		for _, outcome := range op.Outcomes {
			platform := string(outcome.Platform)
			if outcome.Target == types.TargetShared || platform == "" {
				platform = string(types.TargetShared)
			}
			detail := strings.Join(outcome.Files, ", ")
			if outcome.Status == types.OutcomeSkipped {
				detail = color.New(color.Faint).Sprint(outcome.Reason)
			}
			fmt.Fprintf(w, "%s #%d %-*s %-8s %s\n",
				statusSymbol(outcome.Status),
				op.Index,
				commandWidth, op.Command,
				platform,
				detail)
		}
	}
}

func printRevertReport(w io.Writer, report types.RevertReport) {
	for _, outcome := range report.Outcomes {
		symbol := statusSymbol(types.OutcomeApplied)
		detail := outcome.File
		if outcome.Skipped {
			symbol = statusSymbol(types.OutcomeSkipped)
			detail += " " + color.New(color.Faint).Sprint("("+outcome.Reason+")")
		}
		fmt.Fprintf(w, "%s %-*s %s\n", symbol, commandWidth, outcome.Kind, detail)
	}
}

func printDiffs(w io.Writer, diffs []types.FileDiff) {
	for _, diff := range diffs {
		for _, line := range strings.SplitAfter(diff.Patch, "\n") {
			if line == "" {
				continue
			}
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				fmt.Fprint(w, color.New(color.Bold).Sprint(line))
			case strings.HasPrefix(line, "+"):
				fmt.Fprint(w, color.New(color.FgGreen).Sprint(line))
			case strings.HasPrefix(line, "-"):
				fmt.Fprint(w, color.New(color.FgRed).Sprint(line))
			case strings.HasPrefix(line, "@@"):
				fmt.Fprint(w, color.New(color.FgCyan).Sprint(line))
			default:
				fmt.Fprint(w, line)
			}
		}
	}
}

func printSummary(w io.Writer, headline string, report types.ApplyReport) {
	fmt.Fprintf(w, "%s %s %s\n",
		color.New(color.Bold, color.FgGreen).Sprint(headline),
		color.New(color.Faint).Sprint("•"),
		fmt.Sprintf("%d applied, %d unchanged, %d skipped",
			report.Count(types.OutcomeApplied),
			report.Count(types.OutcomeUnchanged),
			report.Count(types.OutcomeSkipped)))
}

func printDetail(w io.Writer, msg string) {
	fmt.Fprintln(w, color.New(color.Faint).Sprint(msg))
}
