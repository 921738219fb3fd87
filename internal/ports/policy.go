package ports

import "framework-kit/internal/types"

// PlatformPolicyPort decides whether a fan-out branch runs. A false result
// carries the reason the platform is skipped.
type PlatformPolicyPort interface {
	Allow(project types.ProjectRoot, platform types.PlatformID, target types.Target) (bool, string)
}
