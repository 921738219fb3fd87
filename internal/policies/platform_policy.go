package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"framework-kit/internal/ports"
	"framework-kit/internal/types"
)

// PlatformPolicy skips platforms the project has no generated project for and
// platforms outside the configured allow-list.
type PlatformPolicy struct {
	allowed map[types.PlatformID]struct{}
}

// NewPlatformPolicy builds a policy from an allow-list. An empty list allows
// every platform.
func NewPlatformPolicy(allowed []types.PlatformID) PlatformPolicy {
	policy := PlatformPolicy{}
	if len(allowed) == 0 {
		return policy
	}
	policy.allowed = map[types.PlatformID]struct{}{}
	for _, platform := range allowed {
		policy.allowed[platform] = struct{}{}
	}
	return policy
}

func (p PlatformPolicy) Allow(project types.ProjectRoot, platform types.PlatformID, target types.Target) (bool, string) {
	if p.allowed != nil {
		if _, ok := p.allowed[platform]; !ok {
			return false, "platform excluded by configuration"
		}
	}
	if !project.HasTarget(target) {
		return false, fmt.Sprintf("no %s project in %s", target, project.Root)
	}
	return true, ""
}

// ParsePlatforms turns user supplied platform names into identifiers.
func ParsePlatforms(values []string) ([]types.PlatformID, error) {
	var out []types.PlatformID
	seen := map[types.PlatformID]struct{}{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			name := strings.ToLower(strings.TrimSpace(part))
			if name == "" {
				continue
			}
			platform, ok := types.ParsePlatform(name)
			if !ok {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("unknown platform: %s", part))
			}
			if _, dup := seen[platform]; dup {
				continue
			}
			seen[platform] = struct{}{}
			out = append(out, platform)
		}
	}
	return out, nil
}

var _ ports.PlatformPolicyPort = PlatformPolicy{}
