package core

import (
	"regexp"
	"strings"

	"github.com/kballard/go-shellquote"
)

// EntrySet is an insertion ordered set of list entries. Existing entries keep
// their position and new entries are appended, so serialized output is
// reproducible.
type EntrySet struct {
	order []string
	seen  map[string]struct{}
}

func NewEntrySet(entries ...string) *EntrySet {
	set := &EntrySet{seen: map[string]struct{}{}}
	for _, entry := range entries {
		set.Add(entry)
	}
	return set
}

// Add inserts entry and reports whether it was new. Blank entries are ignored.
func (s *EntrySet) Add(entry string) bool {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return false
	}
	if _, ok := s.seen[entry]; ok {
		return false
	}
	s.seen[entry] = struct{}{}
	s.order = append(s.order, entry)
	return true
}

func (s *EntrySet) Contains(entry string) bool {
	_, ok := s.seen[strings.TrimSpace(entry)]
	return ok
}

func (s *EntrySet) Len() int {
	return len(s.order)
}

func (s *EntrySet) Entries() []string {
	return append([]string(nil), s.order...)
}

// SeparatorStyle is the tokenize/serialize pair of one list format.
type SeparatorStyle interface {
	Tokenize(body string) ([]string, error)
	Serialize(entries []string) string
}

// Merge adds entry to the list held in body. When the entry is already
// present body is returned untouched and added is false.
func Merge(body string, entry string, style SeparatorStyle) (merged string, added bool, err error) {
	tokens, err := style.Tokenize(body)
	if err != nil {
		return "", false, err
	}
	set := NewEntrySet(tokens...)
	if !set.Add(entry) {
		return body, false, nil
	}
	return style.Serialize(set.Entries()), true, nil
}

// XcodeStyle is a space separated list inside a quoted build setting value.
// Quotes inside the value are escaped as \". A word starting with # is an
// ordinary entry, not a comment.
type XcodeStyle struct{}

func (XcodeStyle) Tokenize(body string) ([]string, error) {
	unescaped := strings.ReplaceAll(body, `\"`, `"`)
	return shellquote.Split(unescaped)
}

func (XcodeStyle) Serialize(entries []string) string {
	if len(entries) == 0 {
		return " "
	}
	quoted := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.ContainsAny(entry, " \t") {
			entry = `\"` + entry + `\"`
		}
		quoted = append(quoted, entry)
	}
	return " " + strings.Join(quoted, " ") + " "
}

// MSBuildStyle is a semicolon separated list inside one property value.
type MSBuildStyle struct{}

func (MSBuildStyle) Tokenize(body string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(body, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

func (MSBuildStyle) Serialize(entries []string) string {
	if len(entries) == 0 {
		return ";"
	}
	return ";" + strings.Join(entries, ";") + ";"
}

// AndroidMacroStyle is an Android.mk variable assignment continued over
// several lines with backslashes.
type AndroidMacroStyle struct {
	Macro string
}

var continuation = regexp.MustCompile(`\\[ \t]*\r?\n`)

func (s AndroidMacroStyle) Tokenize(body string) ([]string, error) {
	text := continuation.ReplaceAllString(body, " ")
	prefix := regexp.MustCompile(`(^|\s)` + regexp.QuoteMeta(s.Macro) + `\s*[:+]?=`)
	text = prefix.ReplaceAllString(text, " ")
	var out []string
	for _, field := range strings.Fields(text) {
		if field == `\` {
			continue
		}
		out = append(out, field)
	}
	return out, nil
}

func (s AndroidMacroStyle) Serialize(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	return s.Macro + " += " + strings.Join(entries, " \\\n") + "\n"
}

// AndroidImportStyle is a list of $(call import-module, path) lines.
type AndroidImportStyle struct{}

var importModule = regexp.MustCompile(`\$\(call\s+import-module\s*,\s*([^)]*?)\s*\)`)

func (AndroidImportStyle) Tokenize(body string) ([]string, error) {
	var out []string
	for _, match := range importModule.FindAllStringSubmatch(body, -1) {
		out = append(out, match[1])
	}
	return out, nil
}

func (AndroidImportStyle) Serialize(entries []string) string {
	var builder strings.Builder
	for _, entry := range entries {
		builder.WriteString("$(call import-module, ")
		builder.WriteString(entry)
		builder.WriteString(")\n")
	}
	return builder.String()
}
