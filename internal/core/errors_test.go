package core

import (
	"fmt"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"

	"framework-kit/internal/types"
)

func TestCoreErrorCodes(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  errbuilder.ErrCode
		label string
		msg   string
	}{
		{
			name:  "region not found",
			err:   regionNotFound("_COCOS_LIB_IOS", "begin marker missing"),
			code:  errbuilder.CodeNotFound,
			label: LabelRegionNotFound,
			msg:   `region "_COCOS_LIB_IOS" not found begin marker missing`,
		},
		{
			name:  "unknown command",
			err:   unknownCommand("add_plugin", 1),
			code:  errbuilder.CodeUnimplemented,
			label: LabelUnknownCommand,
			msg:   `unknown command "add_plugin" at operation #1`,
		},
		{
			name:  "malformed manifest",
			err:   malformedManifest("install.json", 3, "bad", nil),
			code:  errbuilder.CodeInvalidArgument,
			label: LabelMalformedManifest,
			msg:   "malformed manifest install.json operation #3: bad",
		},
		{
			name:  "render",
			err:   renderFailed("../x", types.PlatformWin32, assert.AnError),
			code:  errbuilder.CodeInvalidArgument,
			label: LabelRender,
			msg:   `cannot render path "../x" for platform win32: ` + assert.AnError.Error(),
		},
		{
			name:  "file",
			err:   fileFailed("write", "a", assert.AnError),
			code:  errbuilder.CodeInternal,
			label: LabelFile,
			msg:   "write a: " + assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("apply: %w", tt.err)
			assert.Equal(t, tt.code, errbuilder.CodeOf(wrapped))
			assert.True(t, HasLabel(wrapped, tt.label))
			builder := findLabel(wrapped, tt.label)
			assert.Equal(t, tt.msg, builder.Msg)
		})
	}
}

func TestWithDetailKeepsFirstValue(t *testing.T) {
	err := fmt.Errorf("edit: %w", regionNotFound("ndk_module_path", "key missing"))

	err = withDetail(err, LabelRegionNotFound, DetailPlatform, "android")
	err = withDetail(err, LabelRegionNotFound, DetailPlatform, "ios")

	assert.Equal(t, "android", ErrorDetail(err, DetailPlatform))
	assert.Equal(t, "ndk_module_path", ErrorDetail(err, DetailAnchor))
	assert.Empty(t, ErrorDetail(err, DetailSource))
}
