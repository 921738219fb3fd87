package app

import (
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"framework-kit/internal/adapters"
	"framework-kit/internal/core"
	"framework-kit/internal/ports"
	"framework-kit/internal/types"
)

const defaultPackagesDir = "packages"

type Service struct {
	Locator   ports.ProjectLocatorPort
	Packages  ports.PackageStorePort
	Manifests ports.ManifestPort
	Files     ports.ProjectFilesPort

	// Products whose frameworks build phase lines anchor new ios and mac
	// links. Empty values use the cocos2d defaults.
	IOSAnchorProduct string
	MacAnchorProduct string
}

func NewService() Service {
	return Service{
		Locator:   adapters.NewProjectLocatorAdapter(),
		Packages:  adapters.NewPackageStoreAdapter(),
		Manifests: adapters.NewManifestFileAdapter(),
		Files:     adapters.NewProjectFilesAdapter(),
	}
}

func (s Service) xcode() core.XcodePatcher {
	return core.NewXcodePatcher(s.IOSAnchorProduct, s.MacAnchorProduct)
}

// target resolves the project and the installed package a request names.
func (s Service) target(projectDir string, packagesDir string, name string, version string) (types.ProjectRoot, types.PackageRecord, error) {
	if strings.TrimSpace(name) == "" {
		return types.ProjectRoot{}, types.PackageRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is required")
	}
	project, err := s.Locator.Locate(strings.TrimSpace(projectDir))
	if err != nil {
		return types.ProjectRoot{}, types.PackageRecord{}, err
	}
	record, err := s.Packages.Lookup(packagesPath(project, packagesDir), strings.TrimSpace(name), version)
	if err != nil {
		return types.ProjectRoot{}, types.PackageRecord{}, err
	}
	return project, record, nil
}

// packagesPath defaults to <project>/packages; relative values are taken
// from the project root.
func packagesPath(project types.ProjectRoot, packagesDir string) string {
	packagesDir = strings.TrimSpace(packagesDir)
	if packagesDir == "" {
		return filepath.Join(project.Root, defaultPackagesDir)
	}
	if filepath.IsAbs(packagesDir) {
		return packagesDir
	}
	return filepath.Join(project.Root, packagesDir)
}

func recordedManifestPath(record types.PackageRecord) string {
	return filepath.Join(record.Root, adapters.RecordedUninstallFile)
}
