package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
)

// versionCache memoizes parsed package versions. Versions are ordered as
// PEP 440 when both sides parse that way, then as Debian versions, and
// finally as plain strings.
type versionCache struct {
	deb map[string]debversion.Version
	pep map[string]pep440.Version
}

func newVersionCache() *versionCache {
	return &versionCache{
		deb: map[string]debversion.Version{},
		pep: map[string]pep440.Version{},
	}
}

func (c *versionCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

func (c *versionCache) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

// compare returns -1, 0, or 1 comparing two package versions.
func (c *versionCache) compare(a string, b string) int {
	if v1, err := c.pepVersion(a); err == nil {
		if v2, err := c.pepVersion(b); err == nil {
			return v1.Compare(v2)
		}
	}
	if v1, err := c.debVersion(a); err == nil {
		if v2, err := c.debVersion(b); err == nil {
			return v1.Compare(v2)
		}
	}
	return strings.Compare(a, b)
}

// CompareVersions orders two package versions.
func CompareVersions(a string, b string) int {
	return newVersionCache().compare(a, b)
}

// IsVersionConstraint reports whether requested is a PEP 440 specifier such
// as ">=1.2,<2" rather than an exact version.
func IsVersionConstraint(requested string) bool {
	trimmed := strings.TrimSpace(requested)
	for _, op := range []string{"~=", "==", "!=", "<=", ">=", "<", ">"} {
		if strings.HasPrefix(trimmed, op) {
			return true
		}
	}
	return false
}

// SelectVersion picks the installed version of name that matches requested:
// the highest one when requested is empty, the highest satisfying one for a
// constraint, or exactly requested otherwise.
func SelectVersion(name string, requested string, available []string) (string, error) {
	if len(available) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package %s is not installed", name))
	}
	requested = strings.TrimSpace(requested)
	cache := newVersionCache()
	candidates := append([]string(nil), available...)

	switch {
	case requested == "":
	case IsVersionConstraint(requested):
		spec, err := pep440.NewSpecifiers(requested)
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid version constraint %q", requested)).
				WithCause(err)
		}
		candidates = candidates[:0]
		for _, version := range available {
			parsed, err := cache.pepVersion(version)
			if err != nil {
				continue
			}
			if spec.Check(parsed) {
				candidates = append(candidates, version)
			}
		}
		if len(candidates) == 0 {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("no installed version of %s satisfies %s", name, requested))
		}
	default:
		for _, version := range available {
			if version == requested {
				return version, nil
			}
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package %s %s is not installed", name, requested))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return cache.compare(candidates[i], candidates[j]) > 0
	})
	return candidates[0], nil
}
