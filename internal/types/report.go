package types

// PlatformOutcome records what one fan-out branch of an operation did.
type PlatformOutcome struct {
	Platform PlatformID
	Target   Target
	Status   OutcomeStatus
	Reason   string
	Files    []string
}

type OperationReport struct {
	Index    int
	Command  CommandKind
	Outcomes []PlatformOutcome
}

// ApplyReport summarizes a manifest application.
type ApplyReport struct {
	Operations []OperationReport
	Reversal   UninstallManifest
}

// Count returns how many platform outcomes have the given status.
func (r ApplyReport) Count(status OutcomeStatus) int {
	total := 0
	for _, op := range r.Operations {
		for _, outcome := range op.Outcomes {
			if outcome.Status == status {
				total++
			}
		}
	}
	return total
}

type RevertOutcome struct {
	Kind    string
	File    string
	Skipped bool
	Reason  string
}

type RevertReport struct {
	Outcomes []RevertOutcome
}

// AnchorPresence is one row of a project inspection.
type AnchorPresence struct {
	File    string
	Anchor  string
	Present bool
}

// FileDiff is a unified diff of one pending project file change.
type FileDiff struct {
	Path  string
	Patch string
}
