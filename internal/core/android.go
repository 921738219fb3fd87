package core

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const ndkModulePathKey = "ndk_module_path"

var (
	androidHeaderAnchor = SentinelAnchor("_COCOS_HEADER_ANDROID", "# _COCOS_HEADER_ANDROID_BEGIN", "# _COCOS_HEADER_ANDROID_END")
	androidLibAnchor    = SentinelAnchor("_COCOS_LIB_ANDROID", "# _COCOS_LIB_ANDROID_BEGIN", "# _COCOS_LIB_ANDROID_END")
	androidImportAnchor = SentinelAnchor("_COCOS_LIB_IMPORT_ANDROID", "# _COCOS_LIB_IMPORT_ANDROID_BEGIN", "# _COCOS_LIB_IMPORT_ANDROID_END")
)

// AndroidPatcher edits the jni/Android.mk makefile and the build-cfg.json
// that lists NDK module search paths.
type AndroidPatcher struct{}

func NewAndroidPatcher() AndroidPatcher {
	return AndroidPatcher{}
}

func (AndroidPatcher) AddHeaderPath(text string, entry string) (string, bool, error) {
	return mergeRegion(text, androidHeaderAnchor, entry, AndroidMacroStyle{Macro: "LOCAL_C_INCLUDES"})
}

func (AndroidPatcher) AddStaticLib(text string, module string) (string, bool, error) {
	return mergeRegion(text, androidLibAnchor, module, AndroidMacroStyle{Macro: "LOCAL_STATIC_LIBRARIES"})
}

func (AndroidPatcher) AddImport(text string, modulePath string) (string, bool, error) {
	return mergeRegion(text, androidImportAnchor, modulePath, AndroidImportStyle{})
}

// AddModulePath appends value to the ndk_module_path array unless it is
// already listed. created reports that the key did not exist before.
func (AndroidPatcher) AddModulePath(doc string, value string) (out string, changed bool, created bool, err error) {
	if !gjson.Valid(doc) {
		return "", false, false, regionNotFound(ndkModulePathKey, "build config is not valid JSON")
	}
	current := gjson.Get(doc, ndkModulePathKey)
	if current.Exists() && !current.IsArray() {
		return "", false, false, regionNotFound(ndkModulePathKey, "value is not an array")
	}
	for _, item := range current.Array() {
		if item.String() == value {
			return doc, false, false, nil
		}
	}
	if !current.Exists() {
		out, err = sjson.Set(doc, ndkModulePathKey+".-1", value)
		if err != nil {
			return "", false, false, err
		}
		return out, true, true, nil
	}
	out, err = appendArrayValue(doc, ndkModulePathKey, current, value)
	if err != nil {
		return "", false, false, err
	}
	return out, true, false, nil
}

// appendArrayValue adds value after the last element of array, which is the
// value at path in doc. The new element is preceded by the same whitespace as
// the first one so pretty printed arrays keep their layout.
func appendArrayValue(doc string, path string, array gjson.Result, value string) (string, error) {
	element, err := sjson.Set("[]", "-1", value)
	if err != nil {
		return "", err
	}
	element = gjson.Get(element, "0").Raw
	inner := array.Raw[1 : len(array.Raw)-1]
	elements := strings.TrimRight(inner, " \t\r\n")
	if strings.TrimSpace(elements) == "" {
		return sjson.SetRaw(doc, jsonPathKey(path), "["+element+"]")
	}
	lead := inner[:len(inner)-len(strings.TrimLeft(inner, " \t\r\n"))]
	raw := "[" + elements + "," + lead + element + inner[len(elements):] + "]"
	return sjson.SetRaw(doc, jsonPathKey(path), raw)
}

// removeArrayElement drops the element at index from array, the value at
// path in doc, together with the separator that joined it to its neighbour.
// It undoes appendArrayValue byte for byte.
func removeArrayElement(doc string, path string, array gjson.Result, index int) (string, error) {
	var starts, ends []int
	array.ForEach(func(_, element gjson.Result) bool {
		starts = append(starts, element.Index)
		ends = append(ends, element.Index+len(element.Raw))
		return true
	})
	if array.Index == 0 || index >= len(starts) || slices.Contains(starts, 0) {
		return sjson.Delete(doc, path+"."+strconv.Itoa(index))
	}
	switch {
	case len(starts) == 1:
		return doc[:array.Index] + "[]" + doc[array.Index+len(array.Raw):], nil
	case index == len(starts)-1:
		return doc[:ends[index-1]] + doc[ends[index]:], nil
	default:
		return doc[:starts[index]] + doc[starts[index+1]:], nil
	}
}

// jsonPathKey escapes a literal object key for use in a gjson/sjson path.
func jsonPathKey(key string) string {
	var builder strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', '!':
			builder.WriteByte('\\')
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
