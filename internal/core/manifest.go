package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"framework-kit/internal/types"
)

// ParseInstallManifest decodes an install manifest. Files ending in .yaml or
// .yml are read as YAML, everything else as JSON. Both carry a list of
// {"command": ..., "platform": [...], ...payload} objects.
func ParseInstallManifest(source string, data []byte) (types.Manifest, error) {
	raw, err := decodeList(source, data)
	if err != nil {
		return types.Manifest{}, err
	}
	manifest := types.Manifest{Source: source}
	for index, item := range raw {
		op, err := parseOperation(index, item)
		if err != nil {
			err = withDetail(err, LabelMalformedManifest, DetailSource, source)
			return types.Manifest{}, err
		}
		manifest.Operations = append(manifest.Operations, op)
	}
	return manifest, nil
}

func parseOperation(index int, item any) (types.Operation, error) {
	fields, ok := item.(map[string]any)
	if !ok {
		return types.Operation{}, malformed(index, "operation is not an object")
	}
	command, _ := fields["command"].(string)
	if strings.TrimSpace(command) == "" {
		return types.Operation{}, malformed(index, "command is missing")
	}
	platforms, err := parsePlatformField(index, fields["platform"])
	if err != nil {
		return types.Operation{}, err
	}
	payload := types.Payload{}
	for key, value := range fields {
		if key == "command" || key == "platform" {
			continue
		}
		payload[key] = value
	}
	return types.Operation{
		Index:     index,
		Command:   types.CommandKind(strings.TrimSpace(command)),
		Platforms: platforms,
		Payload:   payload,
	}, nil
}

func parsePlatformField(index int, value any) ([]types.PlatformID, error) {
	var names []string
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case string:
		names = []string{typed}
	case []any:
		for _, item := range typed {
			name, ok := item.(string)
			if !ok {
				return nil, malformed(index, "platform entries must be strings")
			}
			names = append(names, name)
		}
	default:
		return nil, malformed(index, "platform must be a list of strings")
	}
	var platforms []types.PlatformID
	for _, name := range names {
		platform, ok := types.ParsePlatform(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, malformed(index, fmt.Sprintf("unknown platform %q", name))
		}
		platforms = append(platforms, platform)
	}
	return platforms, nil
}

// ParseUninstallManifest decodes the reversal instructions paired with an
// install manifest.
func ParseUninstallManifest(source string, data []byte) (types.UninstallManifest, error) {
	raw, err := decodeList(source, data)
	if err != nil {
		return types.UninstallManifest{}, err
	}
	manifest := types.UninstallManifest{Source: source}
	for index, item := range raw {
		instruction, err := parseInstruction(index, item)
		if err != nil {
			err = withDetail(err, LabelMalformedManifest, DetailSource, source)
			return types.UninstallManifest{}, err
		}
		manifest.Instructions = append(manifest.Instructions, instruction)
	}
	return manifest, nil
}

func parseInstruction(index int, item any) (types.UninstallInstruction, error) {
	fields, ok := item.(map[string]any)
	if !ok {
		return types.UninstallInstruction{}, malformed(index, "instruction is not an object")
	}
	file, hasFile := fields["file"].(string)
	text, hasText := fields["string"].(string)
	jsonFile, hasJSON := fields["json_file"].(string)
	backup, hasBackup := fields["bak_file"].(string)
	original, hasOriginal := fields["ori_file"].(string)
	switch {
	case hasFile && hasText:
		if text == "" {
			return types.UninstallInstruction{}, malformed(index, "string must not be empty")
		}
		return types.UninstallInstruction{RemoveString: &types.RemoveString{File: file, Text: text}}, nil
	case hasJSON:
		items, err := parseJSONItems(index, fields["items"])
		if err != nil {
			return types.UninstallInstruction{}, err
		}
		return types.UninstallInstruction{RemoveJSON: &types.RemoveJSON{File: jsonFile, Items: items}}, nil
	case hasBackup && hasOriginal:
		return types.UninstallInstruction{RestoreBackup: &types.RestoreBackup{Backup: backup, Original: original}}, nil
	default:
		return types.UninstallInstruction{}, malformed(index, "instruction needs file+string, json_file+items or bak_file+ori_file")
	}
}

func parseJSONItems(index int, value any) ([]types.JSONItem, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, malformed(index, "json_file items must be a list")
	}
	var items []types.JSONItem
	for _, entry := range list {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, malformed(index, "json_file items must be objects")
		}
		key, _ := fields["key"].(string)
		if key == "" {
			return nil, malformed(index, "json_file item key is missing")
		}
		item := types.JSONItem{Key: key}
		if nested, ok := fields["items"]; ok {
			children, ok := nested.([]any)
			if !ok {
				return nil, malformed(index, "nested items must be a list")
			}
			for _, child := range children {
				if _, isObject := child.(map[string]any); isObject {
					parsed, err := parseJSONItems(index, []any{child})
					if err != nil {
						return nil, err
					}
					item.Children = append(item.Children, parsed...)
					continue
				}
				item.Values = append(item.Values, child)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

type uninstallDoc struct {
	File     string  `json:"file,omitempty"`
	String   *string `json:"string,omitempty"`
	JSONFile string  `json:"json_file,omitempty"`
	Items    []any   `json:"items,omitempty"`
	BakFile  string  `json:"bak_file,omitempty"`
	OriFile  string  `json:"ori_file,omitempty"`
}

type jsonItemDoc struct {
	Key   string `json:"key"`
	Items []any  `json:"items,omitempty"`
}

// EncodeUninstallManifest writes instructions in the JSON shape read by
// ParseUninstallManifest.
func EncodeUninstallManifest(manifest types.UninstallManifest) ([]byte, error) {
	docs := make([]uninstallDoc, 0, len(manifest.Instructions))
	for _, instruction := range manifest.Instructions {
		switch {
		case instruction.RemoveString != nil:
			text := instruction.RemoveString.Text
			docs = append(docs, uninstallDoc{File: instruction.RemoveString.File, String: &text})
		case instruction.RemoveJSON != nil:
			docs = append(docs, uninstallDoc{JSONFile: instruction.RemoveJSON.File, Items: encodeJSONItems(instruction.RemoveJSON.Items)})
		case instruction.RestoreBackup != nil:
			docs = append(docs, uninstallDoc{BakFile: instruction.RestoreBackup.Backup, OriFile: instruction.RestoreBackup.Original})
		}
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(docs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSONItems(items []types.JSONItem) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		doc := jsonItemDoc{Key: item.Key}
		doc.Items = append(doc.Items, item.Values...)
		doc.Items = append(doc.Items, encodeJSONItems(item.Children)...)
		out = append(out, doc)
	}
	return out
}

func decodeList(source string, data []byte) ([]any, error) {
	var raw []any
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, malformedManifest(source, -1, "invalid yaml", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, malformedManifest(source, -1, "invalid json", err)
		}
	}
	return raw, nil
}
