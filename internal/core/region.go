package core

import (
	"regexp"
)

// Anchor names a region of a project file. Sentinel anchors set Begin and End
// and delimit whole lines; structural anchors set Pattern, whose groups are
// head, body and an optional tail.
type Anchor struct {
	Name    string
	Begin   *regexp.Regexp
	End     *regexp.Regexp
	Pattern *regexp.Regexp
}

// SentinelAnchor builds a line delimited anchor from two literal marker lines.
// Surrounding whitespace on the marker lines is ignored.
func SentinelAnchor(name string, begin string, end string) Anchor {
	return Anchor{
		Name:  name,
		Begin: regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(begin) + `[ \t]*\r?$\n?`),
		End:   regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(end) + `[ \t]*\r?$`),
	}
}

// PlaceholderAnchor builds a structural anchor for an inline token pair such
// as $(_COCOS_LIB_WIN32_BEGIN) ... $(_COCOS_LIB_WIN32_END). Both tokens must
// sit on the same line.
func PlaceholderAnchor(tag string) Anchor {
	begin := regexp.QuoteMeta("$(" + tag + "_BEGIN)")
	end := regexp.QuoteMeta("$(" + tag + "_END)")
	return Anchor{
		Name:    tag,
		Pattern: regexp.MustCompile(`(` + begin + `)([^\n]*?)(` + end + `)`),
	}
}

// StructuralAnchor compiles pattern in dot-all mode.
func StructuralAnchor(name string, pattern string) Anchor {
	return Anchor{
		Name:    name,
		Pattern: regexp.MustCompile(`(?s)` + pattern),
	}
}

// TaggedRegion is a located span. Start and End delimit the body; Head and
// Tail are the text before and after it.
type TaggedRegion struct {
	Start  int
	End    int
	Groups []string
	Head   string
	Tail   string
}

func (r TaggedRegion) Body() string {
	if len(r.Groups) > 1 {
		return r.Groups[1]
	}
	return ""
}

// Replace returns text with the region body swapped for body.
func (r TaggedRegion) Replace(body string) string {
	return r.Head + body + r.Tail
}

// Append returns text with insert placed at the end of the region body.
func (r TaggedRegion) Append(insert string) string {
	return r.Head + r.Body() + insert + r.Tail
}

// Prepend returns text with insert placed right after the region head.
func (r TaggedRegion) Prepend(insert string) string {
	return r.Head + insert + r.Body() + r.Tail
}

// InsertAt returns text with insert placed at offset bytes into the body.
func (r TaggedRegion) InsertAt(offset int, insert string) string {
	body := r.Body()
	if offset < 0 {
		offset = 0
	}
	if offset > len(body) {
		offset = len(body)
	}
	return r.Head + body[:offset] + insert + body[offset:] + r.Tail
}

// Locate finds the first region matching anchor in text.
func Locate(text string, anchor Anchor) (TaggedRegion, error) {
	if anchor.Pattern != nil {
		return locateStructural(text, anchor)
	}
	return locateSentinel(text, anchor)
}

func locateSentinel(text string, anchor Anchor) (TaggedRegion, error) {
	begin := anchor.Begin.FindStringIndex(text)
	if begin == nil {
		return TaggedRegion{}, regionNotFound(anchor.Name, "begin marker missing")
	}
	start := begin[1]
	end := anchor.End.FindStringIndex(text[start:])
	if end == nil {
		return TaggedRegion{}, regionNotFound(anchor.Name, "end marker missing")
	}
	stop := start + end[0]
	return TaggedRegion{
		Start:  start,
		End:    stop,
		Groups: []string{text[begin[0]:begin[1]], text[start:stop], text[stop : start+end[1]]},
		Head:   text[:start],
		Tail:   text[stop:],
	}, nil
}

func locateStructural(text string, anchor Anchor) (TaggedRegion, error) {
	match := anchor.Pattern.FindStringSubmatchIndex(text)
	if match == nil || len(match) < 6 || match[4] < 0 {
		return TaggedRegion{}, regionNotFound(anchor.Name, "pattern did not match")
	}
	groups := make([]string, 0, len(match)/2-1)
	for i := 2; i+1 < len(match); i += 2 {
		if match[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, text[match[i]:match[i+1]])
	}
	start, stop := match[4], match[5]
	return TaggedRegion{
		Start:  start,
		End:    stop,
		Groups: groups,
		Head:   text[:start],
		Tail:   text[stop:],
	}, nil
}
