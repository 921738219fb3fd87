package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"framework-kit/internal/core"
	"framework-kit/internal/ports"
	"framework-kit/internal/types"
)

// ManifestFileAdapter reads install and uninstall manifests from disk. Parse
// failures carry the core.LabelMalformedManifest label.
type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

func (a ManifestFileAdapter) LoadInstall(path string) (types.Manifest, error) {
	data, err := readManifest(path)
	if err != nil {
		return types.Manifest{}, err
	}
	return core.ParseInstallManifest(path, data)
}

func (a ManifestFileAdapter) LoadUninstall(path string) (types.UninstallManifest, error) {
	data, err := readManifest(path)
	if err != nil {
		return types.UninstallManifest{}, err
	}
	return core.ParseUninstallManifest(path, data)
}

func (a ManifestFileAdapter) WriteUninstall(path string, manifest types.UninstallManifest) error {
	data, err := core.EncodeUninstallManifest(manifest)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode uninstall manifest").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return internalError("failed to create directory for "+path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return internalError("failed to write "+path, err)
	}
	return nil
}

func readManifest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("manifest not found: " + path).
			WithCause(err)
	}
	return data, nil
}

var _ ports.ManifestPort = ManifestFileAdapter{}
