package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framework-kit/internal/types"
	"framework-kit/tests/testutil"
)

func TestAddAppliesAndRecordsReversal(t *testing.T) {
	dir := testutil.FixtureProject(t)
	service := NewService()

	result, err := service.Add(t.Context(), AddRequest{ProjectDir: dir, Package: "sdkbox"})
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", result.Package.Version)
	assert.Positive(t, result.Report.Count(types.OutcomeApplied))
	assert.Zero(t, result.Report.Count(types.OutcomeSkipped))
	assert.Empty(t, result.Diffs)

	want := filepath.Join(dir, "packages", "sdkbox-1.2.0", "uninstall.recorded.json")
	assert.Equal(t, want, result.UninstallPath)
	recorded, err := service.Manifests.LoadUninstall(want)
	require.NoError(t, err)
	assert.Equal(t, len(result.Report.Reversal.Instructions), len(recorded.Instructions))

	vcxproj, err := os.ReadFile(filepath.Join(dir, "proj.win32", "HelloCpp.vcxproj"))
	require.NoError(t, err)
	assert.Contains(t, string(vcxproj), `sdkbox.lib`)
}

func TestAddThenRemoveRestoresProject(t *testing.T) {
	dir := testutil.FixtureProject(t)
	before := testutil.Snapshot(t, dir)
	service := NewService()

	_, err := service.Add(t.Context(), AddRequest{ProjectDir: dir, Package: "sdkbox", Version: "1.2.0"})
	require.NoError(t, err)
	require.NotEqual(t, before, testutil.Snapshot(t, dir))

	result, err := service.Remove(t.Context(), RemoveRequest{ProjectDir: dir, Package: "sdkbox"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "packages", "sdkbox-1.2.0", "uninstall.recorded.json"), result.ManifestPath)
	if diff := cmp.Diff(before, testutil.Snapshot(t, dir)); diff != "" {
		t.Fatalf("project not restored (-want +got):\n%s", diff)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	dir := testutil.FixtureProject(t)
	service := NewService()

	_, err := service.Add(t.Context(), AddRequest{ProjectDir: dir, Package: "sdkbox"})
	require.NoError(t, err)
	once := testutil.Snapshot(t, dir)

	result, err := service.Add(t.Context(), AddRequest{ProjectDir: dir, Package: "sdkbox"})
	require.NoError(t, err)
	assert.Zero(t, result.Report.Count(types.OutcomeApplied))
	assert.Empty(t, result.UninstallPath)
	if diff := cmp.Diff(once, testutil.Snapshot(t, dir)); diff != "" {
		t.Fatalf("second add changed the project (-once +twice):\n%s", diff)
	}
}

func TestAddDryRunWritesNothing(t *testing.T) {
	dir := testutil.FixtureProject(t)
	before := testutil.Snapshot(t, dir)

	result, err := NewService().Add(t.Context(), AddRequest{ProjectDir: dir, Package: "analytics", DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, result.UninstallPath)

	var paths []string
	for _, diff := range result.Diffs {
		paths = append(paths, diff.Path)
	}
	assert.ElementsMatch(t, []string{
		"proj.android/jni/Android.mk",
		"proj.win32/HelloCpp.vcxproj",
		"proj.android/build-cfg.json",
		"Classes/AppDelegate.cpp",
	}, paths)
	assert.Contains(t, result.Diffs[0].Patch, "+LOCAL_C_INCLUDES += $(LOCAL_PATH)/../../packages/analytics-2.0.0/include")
	if diff := cmp.Diff(before, testutil.Snapshot(t, dir)); diff != "" {
		t.Fatalf("dry run wrote files (-want +got):\n%s", diff)
	}
}

func TestAddRestrictsPlatforms(t *testing.T) {
	dir := testutil.FixtureProject(t)
	before := testutil.Snapshot(t, dir)

	result, err := NewService().Add(t.Context(), AddRequest{ProjectDir: dir, Package: "sdkbox", Platforms: []string{"win"}})
	require.NoError(t, err)
	assert.Positive(t, result.Report.Count(types.OutcomeSkipped))

	after := testutil.Snapshot(t, dir)
	assert.Equal(t, before["proj.ios_mac/HelloCpp.xcodeproj/project.pbxproj"], after["proj.ios_mac/HelloCpp.xcodeproj/project.pbxproj"])
	assert.Equal(t, before["proj.android/jni/Android.mk"], after["proj.android/jni/Android.mk"])
	assert.NotEqual(t, before["proj.win32/HelloCpp.vcxproj"], after["proj.win32/HelloCpp.vcxproj"])
}

func TestAddSkipsMissingPlatformProject(t *testing.T) {
	dir := testutil.FixtureProject(t, "proj.android")

	result, err := NewService().Add(t.Context(), AddRequest{ProjectDir: dir, Package: "sdkbox"})
	require.NoError(t, err)
	for _, op := range result.Report.Operations {
		for _, outcome := range op.Outcomes {
			if outcome.Platform == types.PlatformAndroid {
				assert.Equal(t, types.OutcomeSkipped, outcome.Status, "%s", op.Command)
			}
		}
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	dir := testutil.FixtureProject(t)
	service := NewService()

	tests := []struct {
		name     string
		req      AddRequest
		notFound bool
	}{
		{name: "no package", req: AddRequest{ProjectDir: dir}},
		{name: "unknown platform", req: AddRequest{ProjectDir: dir, Package: "sdkbox", Platforms: []string{"tvos"}}},
		{name: "unknown package", req: AddRequest{ProjectDir: dir, Package: "ads"}, notFound: true},
		{name: "missing version", req: AddRequest{ProjectDir: dir, Package: "sdkbox", Version: "9.9.9"}, notFound: true},
		{name: "no project", req: AddRequest{ProjectDir: filepath.Join(dir, "missing"), Package: "sdkbox"}, notFound: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Add(t.Context(), tt.req)
			require.Error(t, err)
			want := errbuilder.CodeInvalidArgument
			if tt.notFound {
				want = errbuilder.CodeNotFound
			}
			assert.Equal(t, want, errbuilder.CodeOf(err))
		})
	}
}
