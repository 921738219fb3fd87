// Package testutil provides shared test helpers used across integration and
// unit test packages.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// FixtureProject copies fixtures/project into a fresh temporary directory
// and returns its path. Top level entries listed in without are left out.
func FixtureProject(t *testing.T, without ...string) string {
	t.Helper()
	dst := filepath.Join(t.TempDir(), "game")
	CopyDir(t, filepath.Join(RepoRoot(t), "fixtures", "project"), dst)
	for _, entry := range without {
		require.NoError(t, os.RemoveAll(filepath.Join(dst, entry)))
	}
	return dst
}

// CopyDir copies the tree under src to dst, keeping file modes.
func CopyDir(t *testing.T, src string, dst string) {
	t.Helper()
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode().Perm())
	})
	require.NoError(t, err)
}

// Snapshot reads every file under root keyed by its slash separated relative
// path. Directories named in skip are not descended into.
func Snapshot(t *testing.T, root string, skip ...string) map[string]string {
	t.Helper()
	skipped := map[string]bool{}
	for _, dir := range skip {
		skipped[dir] = true
	}
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if skipped[rel] {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}
