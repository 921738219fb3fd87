// Package shared provides path helpers used by the patchers, the adapters and
// the application layer.
package shared

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Build variables that anchor rendered paths in each project format.
const (
	XcodeRoot   = "$(SRCROOT)"
	AndroidRoot = "$(LOCAL_PATH)"
	MSBuildRoot = "$(ProjectDir)"
)

var errNotAbsolute = errors.New("path must be absolute")

// PackagePath joins a manifest source path onto the package root and rejects
// sources that escape the package.
func PackagePath(packageRoot string, source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", errors.New("source path is empty")
	}
	if filepath.IsAbs(source) {
		return "", fmt.Errorf("source %s must be relative to the package", source)
	}
	joined := filepath.Join(packageRoot, filepath.FromSlash(source))
	rel, err := filepath.Rel(packageRoot, joined)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("source %s escapes the package root", source)
	}
	return joined, nil
}

// RelativeSlash returns target relative to base using forward slashes.
func RelativeSlash(base string, target string) (string, error) {
	if !filepath.IsAbs(base) || !filepath.IsAbs(target) {
		return "", errNotAbsolute
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// XcodePath renders target as $(SRCROOT)/rel where SRCROOT is the directory
// holding the .xcodeproj bundle.
func XcodePath(projectDir string, target string) (string, error) {
	rel, err := RelativeSlash(projectDir, target)
	if err != nil {
		return "", err
	}
	return XcodeRoot + "/" + rel, nil
}

// AndroidMkPath renders target as $(LOCAL_PATH)/rel relative to the directory
// holding Android.mk.
func AndroidMkPath(jniDir string, target string) (string, error) {
	rel, err := RelativeSlash(jniDir, target)
	if err != nil {
		return "", err
	}
	return AndroidRoot + "/" + rel, nil
}

// MSBuildPath renders target as $(ProjectDir)rel with backslashes. Directories
// get a trailing backslash as Visual Studio writes them.
func MSBuildPath(projectDir string, target string, dir bool) (string, error) {
	rel, err := RelativeSlash(projectDir, target)
	if err != nil {
		return "", err
	}
	rendered := MSBuildRoot + strings.ReplaceAll(rel, "/", `\`)
	if dir && !strings.HasSuffix(rendered, `\`) {
		rendered += `\`
	}
	return rendered, nil
}

// ProjectRelative renders an absolute project file path relative to the
// project root, the form used inside uninstall manifests.
func ProjectRelative(projectRoot string, path string) string {
	rel, err := RelativeSlash(projectRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return rel
}
