package types

type PlatformID string

const (
	PlatformIOS     PlatformID = "ios"
	PlatformMac     PlatformID = "mac"
	PlatformAndroid PlatformID = "android"
	PlatformWin32   PlatformID = "win32"
)

// AllPlatforms lists every platform in a stable order.
var AllPlatforms = []PlatformID{
	PlatformIOS,
	PlatformMac,
	PlatformAndroid,
	PlatformWin32,
}

// ParsePlatform accepts the manifest spelling of a platform. "win" is the
// historical alias for win32.
func ParsePlatform(raw string) (PlatformID, bool) {
	switch raw {
	case "ios":
		return PlatformIOS, true
	case "mac":
		return PlatformMac, true
	case "android":
		return PlatformAndroid, true
	case "win", "win32":
		return PlatformWin32, true
	default:
		return "", false
	}
}

type CommandKind string

const (
	CommandAddEntryFunction   CommandKind = "add_entry_function"
	CommandAddSystemFramework CommandKind = "add_system_framework"
	CommandAddProject         CommandKind = "add_project"
	CommandAddLib             CommandKind = "add_lib"
	CommandAddHeaderPath      CommandKind = "add_header_path"
)

// Target is the unit a command is executed against once per operation. Several
// platforms may share one target (ios and mac share the Xcode project).
type Target string

const (
	TargetIOS     Target = "ios"
	TargetMac     Target = "mac"
	TargetIOSMac  Target = "ios_mac"
	TargetAndroid Target = "android"
	TargetWin32   Target = "win32"
	TargetShared  Target = "shared"
)

type OutcomeStatus string

const (
	OutcomeApplied   OutcomeStatus = "applied"
	OutcomeUnchanged OutcomeStatus = "unchanged"
	OutcomeSkipped   OutcomeStatus = "skipped"
)
