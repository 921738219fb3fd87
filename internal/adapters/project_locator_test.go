package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte{}, 0644))
}

func TestProjectLocatorAdapter_Locate(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "proj.ios_mac", "Game.xcodeproj", "project.pbxproj"))
	touch(t, filepath.Join(root, "proj.android", "jni", "Android.mk"))
	touch(t, filepath.Join(root, "proj.android", "build-cfg.json"))
	touch(t, filepath.Join(root, "Classes", "AppDelegate.cpp"))

	project, err := NewProjectLocatorAdapter().Locate(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "proj.ios_mac", "Game.xcodeproj", "project.pbxproj"), project.Pbxproj)
	assert.Equal(t, filepath.Join(root, "proj.ios_mac"), project.IOSMac)
	assert.Equal(t, filepath.Join(root, "proj.android", "build-cfg.json"), project.BuildCfg)
	assert.Equal(t, filepath.Join(root, "Classes", "AppDelegate.cpp"), project.AppDelegate)
	assert.Empty(t, project.Vcxproj, "win32 project is absent")
	assert.Empty(t, project.Win32)
}

func TestProjectLocatorAdapter_PicksFirstVcxproj(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "proj.win32", "b.vcxproj"))
	touch(t, filepath.Join(root, "proj.win32", "a.vcxproj"))

	project, err := NewProjectLocatorAdapter().Locate(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "proj.win32", "a.vcxproj"), project.Vcxproj)
}

func TestProjectLocatorAdapter_Errors(t *testing.T) {
	adapter := NewProjectLocatorAdapter()

	_, err := adapter.Locate("")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = adapter.Locate(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
