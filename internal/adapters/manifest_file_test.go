package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framework-kit/internal/core"
	"framework-kit/internal/types"
)

func TestManifestFileAdapter_LoadInstallYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "install.yaml")
	content := `
- command: add_header_path
  platform: [ios, win]
  source: include
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	manifest, err := NewManifestFileAdapter().LoadInstall(path)
	require.NoError(t, err)
	require.Len(t, manifest.Operations, 1)
	op := manifest.Operations[0]
	assert.Equal(t, types.CommandAddHeaderPath, op.Command)
	assert.Equal(t, []types.PlatformID{types.PlatformIOS, types.PlatformWin32}, op.Platforms)
	assert.Equal(t, "include", op.Payload.String("source"))
}

func TestManifestFileAdapter_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "install.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"command": `), 0644))

	_, err := NewManifestFileAdapter().LoadInstall(path)
	require.Error(t, err)
	require.True(t, core.HasLabel(err, core.LabelMalformedManifest))
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Equal(t, path, core.ErrorDetail(err, core.DetailSource))
}

func TestManifestFileAdapter_MissingFile(t *testing.T) {
	_, err := NewManifestFileAdapter().LoadUninstall(filepath.Join(t.TempDir(), "uninstall.json"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestManifestFileAdapter_WriteUninstallRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg", RecordedUninstallFile)
	want := types.UninstallManifest{
		Source: path,
		Instructions: []types.UninstallInstruction{
			{RemoveString: &types.RemoveString{File: "Classes/AppDelegate.cpp", Text: "#include \"a.h\"\n"}},
			{RemoveJSON: &types.RemoveJSON{File: "proj.android/build-cfg.json", Items: []types.JSONItem{{Key: "ndk_module_path", Values: []any{"../packages/a-1.0"}}}}},
			{RestoreBackup: &types.RestoreBackup{Backup: "proj.win32/a.vcxproj.fwk-a-1.bak", Original: "proj.win32/a.vcxproj"}},
		},
	}
	adapter := NewManifestFileAdapter()
	require.NoError(t, adapter.WriteUninstall(path, want))

	got, err := adapter.LoadUninstall(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected uninstall manifest (-want +got):\n%s", diff)
	}
}
