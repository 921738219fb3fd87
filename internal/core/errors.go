package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"framework-kit/internal/types"
)

// Labels name the kind of a core error. The code carries the class the CLI
// maps to an exit status.
const (
	LabelRegionNotFound    = "region_not_found"
	LabelUnknownCommand    = "unknown_command"
	LabelMalformedManifest = "malformed_manifest"
	LabelRender            = "render"
	LabelFile              = "file"
)

// Detail keys attached to core errors.
const (
	DetailAnchor   = "anchor"
	DetailReason   = "reason"
	DetailCommand  = "command"
	DetailPlatform = "platform"
	DetailFile     = "file"
	DetailSource   = "source"
	DetailIndex    = "index"
	DetailOp       = "op"
)

func regionNotFound(anchor string, reason string) error {
	return newCoreError(errbuilder.CodeNotFound, LabelRegionNotFound, nil,
		DetailAnchor, anchor,
		DetailReason, reason)
}

func unknownCommand(command types.CommandKind, index int) error {
	return newCoreError(errbuilder.CodeUnimplemented, LabelUnknownCommand, nil,
		DetailCommand, string(command),
		DetailIndex, strconv.Itoa(index))
}

// malformed reports a bad operation. index < 0 means the whole document.
func malformed(index int, reason string) error {
	return malformedManifest("", index, reason, nil)
}

func malformedManifest(source string, index int, reason string, cause error) error {
	fields := []string{DetailSource, source, DetailReason, reason}
	if index >= 0 {
		fields = append(fields, DetailIndex, strconv.Itoa(index))
	}
	return newCoreError(errbuilder.CodeInvalidArgument, LabelMalformedManifest, cause, fields...)
}

func renderFailed(source string, platform types.PlatformID, cause error) error {
	return newCoreError(errbuilder.CodeInvalidArgument, LabelRender, cause,
		DetailSource, source,
		DetailPlatform, string(platform))
}

func fileFailed(op string, path string, cause error) error {
	return newCoreError(errbuilder.CodeInternal, LabelFile, cause,
		DetailOp, op,
		DetailFile, path)
}

// newCoreError builds a labelled error from key/value detail pairs. Empty
// values are left out.
func newCoreError(code errbuilder.ErrCode, label string, cause error, pairs ...string) *errbuilder.ErrBuilder {
	var details errbuilder.ErrorMap
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			details.Set(pairs[i], pairs[i+1])
		}
	}
	err := errbuilder.New().
		WithCode(code).
		WithLabel(label).
		WithDetails(errbuilder.NewErrDetails(details))
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err.WithMsg(describe(err))
}

// HasLabel reports whether err is or wraps a core error of the given kind.
func HasLabel(err error, label string) bool {
	return findLabel(err, label) != nil
}

// ErrorDetail returns a detail of the first core error in err's chain that
// carries key.
func ErrorDetail(err error, key string) string {
	for err != nil {
		var builder *errbuilder.ErrBuilder
		if !errors.As(err, &builder) {
			return ""
		}
		if builder.Details.Errors.Has(key) {
			return builder.Details.Errors.Get(key)
		}
		err = builder.Cause
	}
	return ""
}

// withDetail fills key on the labelled error in err's chain when it is not
// set yet, and refreshes the message.
func withDetail(err error, label string, key string, value string) error {
	builder := findLabel(err, label)
	if builder == nil || value == "" || builder.Details.Errors.Has(key) {
		return err
	}
	builder.Details.Errors.Set(key, value)
	builder.Msg = describe(builder)
	return err
}

func findLabel(err error, label string) *errbuilder.ErrBuilder {
	for err != nil {
		if builder, ok := err.(*errbuilder.ErrBuilder); ok && builder.Label == label {
			return builder
		}
		err = errors.Unwrap(err)
	}
	return nil
}

func describe(builder *errbuilder.ErrBuilder) string {
	details := builder.Details.Errors
	var msg string
	switch builder.Label {
	case LabelRegionNotFound:
		parts := []string{fmt.Sprintf("region %q not found", details.Get(DetailAnchor))}
		if reason := details.Get(DetailReason); reason != "" {
			parts = append(parts, reason)
		}
		for _, key := range []string{DetailCommand, DetailPlatform, DetailFile} {
			if value := details.Get(key); value != "" {
				parts = append(parts, key+"="+value)
			}
		}
		return strings.Join(parts, " ")
	case LabelUnknownCommand:
		return fmt.Sprintf("unknown command %q at operation #%s", details.Get(DetailCommand), details.Get(DetailIndex))
	case LabelMalformedManifest:
		msg = "malformed manifest"
		if source := details.Get(DetailSource); source != "" {
			msg += " " + source
		}
		if index := details.Get(DetailIndex); index != "" {
			msg += " operation #" + index
		}
		msg += ": " + details.Get(DetailReason)
	case LabelRender:
		msg = fmt.Sprintf("cannot render path %q", details.Get(DetailSource))
		if platform := details.Get(DetailPlatform); platform != "" {
			msg += " for platform " + platform
		}
	case LabelFile:
		msg = details.Get(DetailOp) + " " + details.Get(DetailFile)
	}
	if builder.Cause != nil {
		msg += ": " + causeText(builder.Cause)
	}
	return msg
}

func causeText(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && builder.Msg != "" {
		return builder.Msg
	}
	return err.Error()
}
