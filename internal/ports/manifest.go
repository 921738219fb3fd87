package ports

import "framework-kit/internal/types"

// ManifestPort loads install and uninstall manifests and persists derived
// uninstall manifests.
type ManifestPort interface {
	LoadInstall(path string) (types.Manifest, error)
	LoadUninstall(path string) (types.UninstallManifest, error)
	WriteUninstall(path string, manifest types.UninstallManifest) error
}
