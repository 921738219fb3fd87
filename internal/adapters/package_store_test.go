package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePackage(t *testing.T, packagesDir string, dir string, descriptor string, content string) string {
	t.Helper()
	root := filepath.Join(packagesDir, dir)
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, descriptor), []byte(content), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "install.json"), []byte("[]"), 0644))
	return root
}

func TestPackageStoreAdapter_LookupHighestVersion(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, "sdkbox-1.2.0", "package.json", `{"name": "sdkbox", "version": "1.2.0"}`)
	newest := writePackage(t, dir, "sdkbox-1.10.0", "package.json", `{"name": "sdkbox", "version": "1.10.0"}`)
	writePackage(t, dir, "other-9.0.0", "package.json", `{"name": "other", "version": "9.0.0"}`)

	record, err := NewPackageStoreAdapter().Lookup(dir, "sdkbox", "")
	require.NoError(t, err)
	assert.Equal(t, "1.10.0", record.Version)
	assert.Equal(t, newest, record.Root)
	assert.Equal(t, filepath.Join(newest, "install.json"), record.InstallManifest)
	assert.Empty(t, record.UninstallManifest)
}

func TestPackageStoreAdapter_YAMLDescriptorAndDirFallback(t *testing.T) {
	dir := t.TempDir()
	root := writePackage(t, dir, "analytics-2.0.0", "package.yaml", "install_manifest: install.json\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "uninstall.json"), []byte("[]"), 0644))

	records, err := NewPackageStoreAdapter().List(dir)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "analytics", records[0].Name)
	assert.Equal(t, "2.0.0", records[0].Version)
	assert.Equal(t, filepath.Join(root, "uninstall.json"), records[0].UninstallManifest)
}

func TestPackageStoreAdapter_Errors(t *testing.T) {
	dir := t.TempDir()
	writePackage(t, dir, "sdkbox-1.2.0", "package.json", `{"name": "sdkbox", "version": "1.2.0"}`)
	adapter := NewPackageStoreAdapter()

	_, err := adapter.Lookup(dir, "missing", "")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = adapter.Lookup(dir, "", "")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = adapter.List(filepath.Join(dir, "nope"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestSplitPackageDir(t *testing.T) {
	name, version := splitPackageDir("plugin-iap-3.1.0")
	assert.Equal(t, "plugin-iap", name)
	assert.Equal(t, "3.1.0", version)

	name, version = splitPackageDir("standalone")
	assert.Equal(t, "standalone", name)
	assert.Empty(t, version)
}
