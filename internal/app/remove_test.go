package app

import (
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framework-kit/tests/testutil"
)

func TestRemovePrefersShippedManifest(t *testing.T) {
	dir := testutil.FixtureProject(t)
	before := testutil.Snapshot(t, dir)
	service := NewService()

	added, err := service.Add(t.Context(), AddRequest{ProjectDir: dir, Package: "analytics"})
	require.NoError(t, err)
	require.NotEmpty(t, added.UninstallPath)

	result, err := service.Remove(t.Context(), RemoveRequest{ProjectDir: dir, Package: "analytics"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "packages", "analytics-2.0.0", "uninstall.json"), result.ManifestPath)
	for _, outcome := range result.Report.Outcomes {
		assert.False(t, outcome.Skipped, "%s %s: %s", outcome.Kind, outcome.File, outcome.Reason)
	}
	if diff := cmp.Diff(before, testutil.Snapshot(t, dir)); diff != "" {
		t.Fatalf("project not restored (-want +got):\n%s", diff)
	}
}

func TestRemoveDryRunWritesNothing(t *testing.T) {
	dir := testutil.FixtureProject(t)
	service := NewService()
	_, err := service.Add(t.Context(), AddRequest{ProjectDir: dir, Package: "sdkbox"})
	require.NoError(t, err)
	installed := testutil.Snapshot(t, dir)

	result, err := service.Remove(t.Context(), RemoveRequest{ProjectDir: dir, Package: "sdkbox", DryRun: true})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Diffs)
	if diff := cmp.Diff(installed, testutil.Snapshot(t, dir)); diff != "" {
		t.Fatalf("dry run wrote files (-want +got):\n%s", diff)
	}
}

func TestRemoveIsRepeatable(t *testing.T) {
	dir := testutil.FixtureProject(t)
	before := testutil.Snapshot(t, dir)
	service := NewService()

	_, err := service.Add(t.Context(), AddRequest{ProjectDir: dir, Package: "analytics"})
	require.NoError(t, err)
	_, err = service.Remove(t.Context(), RemoveRequest{ProjectDir: dir, Package: "analytics"})
	require.NoError(t, err)

	result, err := service.Remove(t.Context(), RemoveRequest{ProjectDir: dir, Package: "analytics"})
	require.NoError(t, err)
	for _, outcome := range result.Report.Outcomes {
		assert.True(t, outcome.Skipped, "%s %s", outcome.Kind, outcome.File)
	}
	if diff := cmp.Diff(before, testutil.Snapshot(t, dir)); diff != "" {
		t.Fatalf("second remove changed the project (-want +got):\n%s", diff)
	}
}

func TestRemoveWithoutManifest(t *testing.T) {
	dir := testutil.FixtureProject(t)

	_, err := NewService().Remove(t.Context(), RemoveRequest{ProjectDir: dir, Package: "sdkbox"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
