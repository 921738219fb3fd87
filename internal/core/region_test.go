package core

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateSentinel(t *testing.T) {
	text := "a\n  # BEGIN  \nx\ny\n# END\nz\n"
	anchor := SentinelAnchor("block", "# BEGIN", "# END")

	region, err := Locate(text, anchor)
	require.NoError(t, err)
	assert.Equal(t, "x\ny\n", region.Body())
	assert.Equal(t, "a\n  # BEGIN  \n", region.Head)
	assert.Equal(t, "# END\nz\n", region.Tail)
	assert.Equal(t, text, region.Replace(region.Body()))
	assert.Equal(t, "a\n  # BEGIN  \nx\ny\nw\n# END\nz\n", region.Append("w\n"))
	assert.Equal(t, "a\n  # BEGIN  \nw\nx\ny\n# END\nz\n", region.Prepend("w\n"))
	assert.Equal(t, "a\n  # BEGIN  \nx\nw\ny\n# END\nz\n", region.InsertAt(2, "w\n"))
}

func TestLocateSentinelFirstMatchOnly(t *testing.T) {
	text := "# BEGIN\none\n# END\n# BEGIN\ntwo\n# END\n"
	region, err := Locate(text, SentinelAnchor("block", "# BEGIN", "# END"))
	require.NoError(t, err)
	assert.Equal(t, "one\n", region.Body())
}

func TestLocateSentinelMissingMarkers(t *testing.T) {
	anchor := SentinelAnchor("block", "# BEGIN", "# END")

	_, err := Locate("x\n# END\n", anchor)
	require.True(t, HasLabel(err, LabelRegionNotFound))
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Equal(t, "block", ErrorDetail(err, DetailAnchor))
	assert.Equal(t, "begin marker missing", ErrorDetail(err, DetailReason))

	_, err = Locate("# END\n# BEGIN\nx\n", anchor)
	assert.Equal(t, "end marker missing", ErrorDetail(err, DetailReason), "end before begin does not count")
}

func TestLocatePlaceholder(t *testing.T) {
	text := `OTHER_LDFLAGS = "$(_COCOS_LIB_IOS_BEGIN) -lz $(_COCOS_LIB_IOS_END)";`
	region, err := Locate(text, PlaceholderAnchor("_COCOS_LIB_IOS"))
	require.NoError(t, err)
	assert.Equal(t, " -lz ", region.Body())
	assert.Equal(t, `OTHER_LDFLAGS = "$(_COCOS_LIB_IOS_BEGIN)`, region.Head)
	assert.Equal(t, `$(_COCOS_LIB_IOS_END)";`, region.Tail)
}

func TestLocatePlaceholderDoesNotSpanLines(t *testing.T) {
	text := "$(_COCOS_LIB_IOS_BEGIN)\n$(_COCOS_LIB_IOS_END)"
	_, err := Locate(text, PlaceholderAnchor("_COCOS_LIB_IOS"))
	assert.Equal(t, "pattern did not match", ErrorDetail(err, DetailReason))
}

func TestLocateStructuralSpansLines(t *testing.T) {
	text := "projectReferences = (\n\t\t{\n\t\t},\n\t);\n"
	region, err := Locate(text, ProjectReferencesAnchor())
	require.NoError(t, err)
	assert.Equal(t, "\t\t{\n\t\t},\n", region.Body())
	assert.Equal(t, "\t);\n", region.Tail)
}

func TestRegionNotFoundMessage(t *testing.T) {
	err := regionNotFound("_COCOS_LIB_ANDROID", "begin marker missing")
	err = withDetail(err, LabelRegionNotFound, DetailCommand, "add_lib")
	err = withDetail(err, LabelRegionNotFound, DetailPlatform, "android")
	err = withDetail(err, LabelRegionNotFound, DetailFile, "proj.android/jni/Android.mk")
	err = withDetail(err, LabelRegionNotFound, DetailPlatform, "ios")

	var builder *errbuilder.ErrBuilder
	require.True(t, errors.As(err, &builder))
	assert.Equal(t, LabelRegionNotFound, builder.Label)
	assert.Equal(t, `region "_COCOS_LIB_ANDROID" not found begin marker missing command=add_lib platform=android file=proj.android/jni/Android.mk`, builder.Msg)
	assert.Contains(t, err.Error(), builder.Msg)
}
