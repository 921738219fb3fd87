package types

import "fmt"

// Manifest is the ordered list of operations read from a package's install
// descriptor. It is interpreted once and then discarded.
type Manifest struct {
	Source     string
	Operations []Operation
}

type Operation struct {
	Index     int
	Command   CommandKind
	Platforms []PlatformID
	Payload   Payload
}

func (o Operation) String() string {
	return fmt.Sprintf("#%d %s", o.Index, o.Command)
}

// Payload holds the command specific fields of an operation. Values come
// straight from the decoded manifest, so they are strings, numbers, slices or
// nested maps.
type Payload map[string]any

// String returns the value stored under key when it is a string.
func (p Payload) String(key string) string {
	value, ok := p[key]
	if !ok {
		return ""
	}
	text, _ := value.(string)
	return text
}

// StringFor resolves a value that may be given either as a plain string or as
// an object keyed by platform name, e.g. {"ios": "a.a", "win": "a.lib"}.
func (p Payload) StringFor(key string, platform PlatformID) string {
	value, ok := p[key]
	if !ok {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	case map[string]any:
		for name, candidate := range typed {
			parsed, ok := ParsePlatform(name)
			if !ok || parsed != platform {
				continue
			}
			text, _ := candidate.(string)
			return text
		}
	}
	return ""
}

// Strings returns a list value. A single string is treated as a one element
// list.
func (p Payload) Strings(key string) []string {
	value, ok := p[key]
	if !ok {
		return nil
	}
	switch typed := value.(type) {
	case string:
		return []string{typed}
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if text, ok := item.(string); ok {
				out = append(out, text)
			}
		}
		return out
	default:
		return nil
	}
}

// SystemFramework describes an SDK framework or library linked by name.
type SystemFramework struct {
	Name    string
	FileID  string
	BuildID string
}

// SubProject describes an Xcode sub-project reference. Every identifier is
// supplied by the package author so the generated sections agree with each
// other and with the hand written uninstall manifest.
type SubProject struct {
	Name           string
	Path           string
	FileRefID      string
	ProductGroupID string
	IOS            SubProjectProduct
	Mac            SubProjectProduct
}

// SubProjectProduct is the per-platform half of a sub-project reference: the
// library product, the proxy pair pointing at it and the build file linking it.
type SubProjectProduct struct {
	Product          string
	RemoteID         string
	ContainerProxyID string
	ReferenceProxyID string
	BuildFileID      string
}
