package core

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"framework-kit/internal/types"
	"framework-kit/tests/testutil"
)

// memFiles is an in-memory ProjectFilesPort that counts writes.
type memFiles struct {
	files  map[string]string
	writes map[string]int
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string]string{}, writes: map[string]int{}}
}

func (m *memFiles) ReadFile(path string) ([]byte, error) {
	text, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return []byte(text), nil
}

func (m *memFiles) WriteFile(path string, data []byte) error {
	m.files[path] = string(data)
	m.writes[path]++
	return nil
}

func (m *memFiles) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memFiles) CopyFile(src string, dst string) error {
	data, err := m.ReadFile(src)
	if err != nil {
		return err
	}
	return m.WriteFile(dst, data)
}

func (m *memFiles) Rename(src string, dst string) error {
	if err := m.CopyFile(src, dst); err != nil {
		return err
	}
	return m.Remove(src)
}

func (m *memFiles) Remove(path string) error {
	delete(m.files, path)
	return nil
}

func (m *memFiles) snapshot() map[string]string {
	out := make(map[string]string, len(m.files))
	for path, text := range m.files {
		out[path] = text
	}
	return out
}

func (m *memFiles) paths() []string {
	var out []string
	for path := range m.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// fixtureProject loads the sample project into memory under root. Platform
// directories listed in without are left out.
func fixtureProject(t *testing.T, without ...string) (*memFiles, types.ProjectRoot) {
	t.Helper()
	root := "/work/game"
	files := newMemFiles()
	source := filepath.Join(testutil.RepoRoot(t), "fixtures", "project")
	skip := map[string]bool{}
	for _, dir := range without {
		skip[dir] = true
	}
	err := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		top := filepath.ToSlash(rel)
		for dir := range skip {
			if len(top) > len(dir) && top[:len(dir)+1] == dir+"/" {
				return nil
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files.files[filepath.Join(root, rel)] = string(data)
		return nil
	})
	require.NoError(t, err)

	project := types.ProjectRoot{Root: root}
	if !skip["proj.ios_mac"] {
		project.IOSMac = filepath.Join(root, "proj.ios_mac")
		project.Pbxproj = filepath.Join(root, "proj.ios_mac", "HelloCpp.xcodeproj", "project.pbxproj")
	}
	if !skip["proj.android"] {
		project.Android = filepath.Join(root, "proj.android")
		project.AndroidMk = filepath.Join(root, "proj.android", "jni", "Android.mk")
		project.BuildCfg = filepath.Join(root, "proj.android", "build-cfg.json")
	}
	if !skip["proj.win32"] {
		project.Win32 = filepath.Join(root, "proj.win32")
		project.Vcxproj = filepath.Join(root, "proj.win32", "HelloCpp.vcxproj")
	}
	if !skip["Classes"] {
		project.Classes = filepath.Join(root, "Classes")
		project.AppDelegate = filepath.Join(root, "Classes", "AppDelegate.cpp")
	}
	return files, project
}

func fixturePackage(project types.ProjectRoot, dir string) types.PackageRecord {
	name, version := dir, ""
	for i := len(dir) - 1; i > 0; i-- {
		if dir[i] == '-' {
			name, version = dir[:i], dir[i+1:]
			break
		}
	}
	root := filepath.Join(project.Root, "packages", dir)
	return types.PackageRecord{
		Name:            name,
		Version:         version,
		Root:            root,
		InstallManifest: filepath.Join(root, "install.json"),
	}
}

func loadPackageManifest(t *testing.T, files *memFiles, pkg types.PackageRecord) types.Manifest {
	t.Helper()
	data, err := files.ReadFile(pkg.InstallManifest)
	require.NoError(t, err)
	manifest, err := ParseInstallManifest(pkg.InstallManifest, data)
	require.NoError(t, err)
	return manifest
}
