package ports

import "framework-kit/internal/types"

// PackageStorePort is the installed-package database. It only answers where a
// package lives and which manifests it declares.
type PackageStorePort interface {
	Lookup(packagesDir string, name string, version string) (types.PackageRecord, error)
	List(packagesDir string) ([]types.PackageRecord, error)
}
