package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"framework-kit/internal/ports"
	"framework-kit/internal/types"
)

// Reverter runs uninstall manifests. Every instruction tolerates having
// already been applied, so an interrupted removal can simply be re-run.
type Reverter struct{}

func NewReverter() Reverter {
	return Reverter{}
}

// Revert executes the instructions in manifest order. Relative paths are
// resolved against root.
func (Reverter) Revert(ctx context.Context, manifest types.UninstallManifest, root string, files ports.ProjectFilesPort) (types.RevertReport, error) {
	report := types.RevertReport{}
	for index, instruction := range manifest.Instructions {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		var (
			outcome types.RevertOutcome
			err     error
		)
		switch {
		case instruction.RemoveString != nil:
			outcome, err = removeString(*instruction.RemoveString, root, files)
		case instruction.RemoveJSON != nil:
			outcome, err = removeJSON(*instruction.RemoveJSON, root, files)
		case instruction.RestoreBackup != nil:
			outcome, err = restoreBackup(*instruction.RestoreBackup, root, files)
		default:
			err = malformedManifest(manifest.Source, index, "instruction has no kind", nil)
		}
		if err != nil {
			return report, err
		}
		log.Debug().
			Str("kind", outcome.Kind).
			Str("file", outcome.File).
			Bool("skipped", outcome.Skipped).
			Msg("uninstall instruction")
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report, nil
}

func resolve(root string, path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func removeString(instruction types.RemoveString, root string, files ports.ProjectFilesPort) (types.RevertOutcome, error) {
	outcome := types.RevertOutcome{Kind: "remove_string", File: instruction.File}
	path := resolve(root, instruction.File)
	if !files.Exists(path) {
		outcome.Skipped, outcome.Reason = true, "file missing"
		return outcome, nil
	}
	data, err := files.ReadFile(path)
	if err != nil {
		return outcome, fileFailed("read", path, err)
	}
	text := string(data)
	index := strings.Index(text, instruction.Text)
	if index < 0 {
		outcome.Skipped, outcome.Reason = true, "already removed"
		return outcome, nil
	}
	text = text[:index] + text[index+len(instruction.Text):]
	if err := files.WriteFile(path, []byte(text)); err != nil {
		return outcome, fileFailed("write", path, err)
	}
	return outcome, nil
}

func removeJSON(instruction types.RemoveJSON, root string, files ports.ProjectFilesPort) (types.RevertOutcome, error) {
	outcome := types.RevertOutcome{Kind: "remove_json", File: instruction.File}
	path := resolve(root, instruction.File)
	if !files.Exists(path) {
		outcome.Skipped, outcome.Reason = true, "file missing"
		return outcome, nil
	}
	data, err := files.ReadFile(path)
	if err != nil {
		return outcome, fileFailed("read", path, err)
	}
	doc := string(data)
	if !gjson.Valid(doc) {
		return outcome, fileFailed("parse", path, errors.New("invalid JSON"))
	}
	out, err := removeJSONItems(doc, "", instruction.Items)
	if err != nil {
		return outcome, fileFailed("edit", path, err)
	}
	if out == doc {
		outcome.Skipped, outcome.Reason = true, "already removed"
		return outcome, nil
	}
	if err := files.WriteFile(path, []byte(out)); err != nil {
		return outcome, fileFailed("write", path, err)
	}
	return outcome, nil
}

// removeJSONItems applies items below parent. An item without values or
// children deletes its key; values are removed from the array at the key;
// children recurse into the object at the key.
func removeJSONItems(doc string, parent string, items []types.JSONItem) (string, error) {
	var err error
	for _, item := range items {
		path := jsonPathKey(item.Key)
		if parent != "" {
			path = parent + "." + path
		}
		current := gjson.Get(doc, path)
		if !current.Exists() {
			continue
		}
		if len(item.Values) == 0 && len(item.Children) == 0 {
			if doc, err = sjson.Delete(doc, path); err != nil {
				return "", err
			}
			continue
		}
		for _, value := range item.Values {
			if doc, err = removeArrayValue(doc, path, value); err != nil {
				return "", err
			}
		}
		if len(item.Children) > 0 {
			if doc, err = removeJSONItems(doc, path, item.Children); err != nil {
				return "", err
			}
		}
	}
	return doc, nil
}

func removeArrayValue(doc string, path string, value any) (string, error) {
	current := gjson.Get(doc, path)
	if !current.IsArray() {
		return doc, nil
	}
	for index, element := range current.Array() {
		if sameJSONValue(element, value) {
			return removeArrayElement(doc, path, current, index)
		}
	}
	return doc, nil
}

func sameJSONValue(element gjson.Result, value any) bool {
	if text, ok := value.(string); ok {
		return element.Type == gjson.String && element.Str == text
	}
	return fmt.Sprint(element.Value()) == fmt.Sprint(value)
}

func restoreBackup(instruction types.RestoreBackup, root string, files ports.ProjectFilesPort) (types.RevertOutcome, error) {
	outcome := types.RevertOutcome{Kind: "restore_backup", File: instruction.Original}
	backup := resolve(root, instruction.Backup)
	if !files.Exists(backup) {
		outcome.Skipped, outcome.Reason = true, "backup missing"
		return outcome, nil
	}
	original := resolve(root, instruction.Original)
	if err := files.Rename(backup, original); err != nil {
		return outcome, fileFailed("restore", original, err)
	}
	return outcome, nil
}
