package core

import (
	"strings"
)

var (
	entryHeaderAnchor   = SentinelAnchor("_COCOS_HEADER", "// _COCOS_HEADER_BEGIN", "// _COCOS_HEADER_END")
	entryFunctionAnchor = SentinelAnchor("_COCOS_FUNCTION", "// _COCOS_FUNCTION_BEGIN", "// _COCOS_FUNCTION_END")
)

// EntryPatcher adds an include and a start-up call to the shared
// AppDelegate.cpp.
type EntryPatcher struct {
	Indent string
}

func NewEntryPatcher() EntryPatcher {
	return EntryPatcher{Indent: "    "}
}

func (p EntryPatcher) AddEntryFunction(text string, header string, call string) (string, bool, error) {
	changed := false
	if header != "" {
		line := `#include "` + header + `"` + "\n"
		next, added, err := appendLine(text, entryHeaderAnchor, line)
		if err != nil {
			return "", false, err
		}
		text, changed = next, changed || added
	}
	if call != "" {
		call = strings.TrimSpace(call)
		if !strings.HasSuffix(call, ";") {
			call += ";"
		}
		next, added, err := appendLine(text, entryFunctionAnchor, p.Indent+call+"\n")
		if err != nil {
			return "", false, err
		}
		text, changed = next, changed || added
	}
	return text, changed, nil
}

func appendLine(text string, anchor Anchor, line string) (string, bool, error) {
	region, err := Locate(text, anchor)
	if err != nil {
		return "", false, err
	}
	for _, existing := range strings.Split(region.Body(), "\n") {
		if strings.TrimSpace(existing) == strings.TrimSpace(line) {
			return text, false, nil
		}
	}
	return region.Append(line), true, nil
}
