package adapters

import (
	"bytes"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	difflib "github.com/pmezard/go-difflib/difflib"

	"framework-kit/internal/ports"
	"framework-kit/internal/shared"
	"framework-kit/internal/types"
)

const diffContext = 3

// PreviewFilesAdapter layers pending writes over another ProjectFilesPort.
// Nothing reaches the underlying store; Diffs renders what would change.
type PreviewFilesAdapter struct {
	base    ports.ProjectFilesPort
	root    string
	overlay map[string][]byte
	removed map[string]bool
	order   []string
}

func NewPreviewFilesAdapter(base ports.ProjectFilesPort, root string) *PreviewFilesAdapter {
	return &PreviewFilesAdapter{
		base:    base,
		root:    root,
		overlay: map[string][]byte{},
		removed: map[string]bool{},
	}
}

func (a *PreviewFilesAdapter) ReadFile(path string) ([]byte, error) {
	if a.removed[path] {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(path + " was removed")
	}
	if data, ok := a.overlay[path]; ok {
		return bytes.Clone(data), nil
	}
	return a.base.ReadFile(path)
}

func (a *PreviewFilesAdapter) WriteFile(path string, data []byte) error {
	a.touch(path)
	a.overlay[path] = bytes.Clone(data)
	delete(a.removed, path)
	return nil
}

func (a *PreviewFilesAdapter) Exists(path string) bool {
	if a.removed[path] {
		return false
	}
	if _, ok := a.overlay[path]; ok {
		return true
	}
	return a.base.Exists(path)
}

func (a *PreviewFilesAdapter) CopyFile(src string, dst string) error {
	data, err := a.ReadFile(src)
	if err != nil {
		return err
	}
	return a.WriteFile(dst, data)
}

func (a *PreviewFilesAdapter) Rename(src string, dst string) error {
	data, err := a.ReadFile(src)
	if err != nil {
		return err
	}
	if err := a.WriteFile(dst, data); err != nil {
		return err
	}
	return a.Remove(src)
}

func (a *PreviewFilesAdapter) Remove(path string) error {
	a.touch(path)
	delete(a.overlay, path)
	a.removed[path] = true
	return nil
}

func (a *PreviewFilesAdapter) touch(path string) {
	if _, ok := a.overlay[path]; ok {
		return
	}
	if a.removed[path] {
		return
	}
	a.order = append(a.order, path)
}

// Diffs returns one unified diff per file whose pending content differs from
// the underlying store, in the order the files were first touched.
func (a *PreviewFilesAdapter) Diffs() []types.FileDiff {
	var out []types.FileDiff
	for _, path := range a.order {
		var before []byte
		existed := a.base.Exists(path)
		if existed {
			data, err := a.base.ReadFile(path)
			if err == nil {
				before = data
			}
		}
		after, pending := a.overlay[path]
		if !pending && !existed {
			continue
		}
		if pending && existed && bytes.Equal(before, after) {
			continue
		}
		rel := shared.ProjectRelative(a.root, path)
		from, to := "a/"+rel, "b/"+rel
		if !existed {
			from = "/dev/null"
		}
		if !pending {
			to = "/dev/null"
		}
		patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        splitLinesKeepNL(string(before)),
			B:        splitLinesKeepNL(string(after)),
			FromFile: from,
			ToFile:   to,
			Context:  diffContext,
		})
		if err != nil || patch == "" {
			continue
		}
		out = append(out, types.FileDiff{Path: rel, Patch: patch})
	}
	return out
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

var _ ports.ProjectFilesPort = (*PreviewFilesAdapter)(nil)
