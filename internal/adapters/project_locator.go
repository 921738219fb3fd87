package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"

	"framework-kit/internal/ports"
	"framework-kit/internal/types"
)

const (
	iosMacDir  = "proj.ios_mac"
	androidDir = "proj.android"
	win32Dir   = "proj.win32"
	classesDir = "Classes"
)

// ProjectLocatorAdapter finds the generated native projects of a game
// project. A missing platform directory leaves its fields empty.
type ProjectLocatorAdapter struct{}

func NewProjectLocatorAdapter() ProjectLocatorAdapter {
	return ProjectLocatorAdapter{}
}

func (a ProjectLocatorAdapter) Locate(root string) (types.ProjectRoot, error) {
	if root == "" {
		return types.ProjectRoot{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project root is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return types.ProjectRoot{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid project root").
			WithCause(err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return types.ProjectRoot{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project root not found: " + abs)
	}

	fsys := os.DirFS(abs)
	project := types.ProjectRoot{Root: abs}
	if pbxproj, err := firstMatch(fsys, abs, iosMacDir+"/*.xcodeproj/project.pbxproj"); err != nil {
		return types.ProjectRoot{}, err
	} else if pbxproj != "" {
		project.IOSMac = filepath.Join(abs, iosMacDir)
		project.Pbxproj = pbxproj
	}
	if androidMk := existing(abs, androidDir, "jni", "Android.mk"); androidMk != "" {
		project.Android = filepath.Join(abs, androidDir)
		project.AndroidMk = androidMk
		project.BuildCfg = existing(abs, androidDir, "build-cfg.json")
	}
	if vcxproj, err := firstMatch(fsys, abs, win32Dir+"/*.vcxproj"); err != nil {
		return types.ProjectRoot{}, err
	} else if vcxproj != "" {
		project.Win32 = filepath.Join(abs, win32Dir)
		project.Vcxproj = vcxproj
	}
	if appDelegate := existing(abs, classesDir, "AppDelegate.cpp"); appDelegate != "" {
		project.Classes = filepath.Join(abs, classesDir)
		project.AppDelegate = appDelegate
	}
	if project.Pbxproj == "" && project.AndroidMk == "" && project.Vcxproj == "" && project.AppDelegate == "" {
		return types.ProjectRoot{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no native projects found under " + abs)
	}
	log.Debug().
		Str("root", abs).
		Bool("ios_mac", project.Pbxproj != "").
		Bool("android", project.AndroidMk != "").
		Bool("win32", project.Vcxproj != "").
		Msg("project located")
	return project, nil
}

// firstMatch returns the lexically first file matching pattern, or "" when
// nothing matches.
func firstMatch(fsys fs.FS, root string, pattern string) (string, error) {
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan " + pattern).
			WithCause(err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	if len(matches) > 1 {
		log.Warn().
			Str("pattern", pattern).
			Strs("matches", matches).
			Msg("several project files match, using the first")
	}
	return filepath.Join(root, filepath.FromSlash(matches[0])), nil
}

func existing(root string, parts ...string) string {
	path := filepath.Join(append([]string{root}, parts...)...)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

var _ ports.ProjectLocatorPort = ProjectLocatorAdapter{}
