package core

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"framework-kit/internal/ports"
	"framework-kit/internal/shared"
	"framework-kit/internal/types"
)

// Recorder derives an uninstall manifest from the rewrites the dispatcher
// performs. Each rewrite becomes the cheapest instruction that undoes it
// exactly: a substring removal for a pure insertion, otherwise a restore
// from a backup taken before the write.
type Recorder struct {
	root         string
	packageID    string
	files        ports.ProjectFilesPort
	backups      int
	instructions []types.UninstallInstruction
}

func NewRecorder(projectRoot string, packageID string, files ports.ProjectFilesPort) *Recorder {
	return &Recorder{root: projectRoot, packageID: packageID, files: files}
}

// RecordText must be called before after is written over before at path.
func (r *Recorder) RecordText(path string, before string, after string) error {
	rel := shared.ProjectRelative(r.root, path)
	if inserted, ok := removableInsertion(before, after); ok {
		r.instructions = append(r.instructions, types.UninstallInstruction{
			RemoveString: &types.RemoveString{File: rel, Text: inserted},
		})
		return nil
	}

	r.backups++
	backup := fmt.Sprintf("%s.fwk-%s-%d.bak", path, r.packageID, r.backups)
	for r.files.Exists(backup) {
		r.backups++
		backup = fmt.Sprintf("%s.fwk-%s-%d.bak", path, r.packageID, r.backups)
	}
	if err := r.files.WriteFile(backup, []byte(before)); err != nil {
		return fileFailed("backup", backup, err)
	}
	log.Debug().
		Str("file", rel).
		Str("backup", filepath.Base(backup)).
		Msg("edit is not a pure insertion, backup taken")
	r.instructions = append(r.instructions, types.UninstallInstruction{
		RestoreBackup: &types.RestoreBackup{Backup: shared.ProjectRelative(r.root, backup), Original: rel},
	})
	return nil
}

// RecordJSONAppend records value appended to the array at key of the JSON
// document at path. A value removal is kept only when it restores before
// exactly; a created key or a reflowed array falls back to RecordText.
func (r *Recorder) RecordJSONAppend(path string, key string, value any, before string, after string) error {
	items := []types.JSONItem{{Key: key, Values: []any{value}}}
	if undone, err := removeJSONItems(after, "", items); err != nil || undone != before {
		return r.RecordText(path, before, after)
	}
	r.instructions = append(r.instructions, types.UninstallInstruction{
		RemoveJSON: &types.RemoveJSON{File: shared.ProjectRelative(r.root, path), Items: items},
	})
	return nil
}

// Manifest returns the recorded instructions, newest first.
func (r *Recorder) Manifest() types.UninstallManifest {
	out := slices.Clone(r.instructions)
	slices.Reverse(out)
	return types.UninstallManifest{Instructions: out}
}

func (r *Recorder) Len() int {
	return len(r.instructions)
}

// removableInsertion reports the text inserted by a pure insertion edit when
// removing its first occurrence from after yields before again. An insertion
// next to repeated characters can be read at several offsets; a spelling
// that occurs once in after is preferred.
func removableInsertion(before string, after string) (string, bool) {
	if len(after) <= len(before) {
		return "", false
	}
	prefix := commonPrefix(before, after)
	suffix := commonSuffix(before[prefix:], after[prefix:])
	if prefix+suffix != len(before) {
		return "", false
	}
	size := len(after) - len(before)
	var fallback string
	found := false
	for start := prefix; start >= 0; start-- {
		if start < prefix && after[start] != after[start+size] {
			break
		}
		candidate := after[start : start+size]
		first := strings.Index(after, candidate)
		if after[:first]+after[first+size:] != before {
			continue
		}
		if strings.Count(after, candidate) == 1 {
			return candidate, true
		}
		if !found {
			fallback, found = candidate, true
		}
	}
	return fallback, found
}

func commonPrefix(a string, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffix(a string, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
