package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"framework-kit/internal/core"
	"framework-kit/internal/ports"
	"framework-kit/internal/types"
)

const (
	packageDescriptorGlob = "*/package.{json,yaml,yml}"
	RecordedUninstallFile = "uninstall.recorded.json"
)

var (
	installManifestNames   = []string{"install.json", "install.yaml", "install.yml"}
	uninstallManifestNames = []string{"uninstall.json", "uninstall.yaml", "uninstall.yml"}
)

// PackageStoreAdapter reads installed packages from a packages directory laid
// out as <name>-<version>/package.json.
type PackageStoreAdapter struct{}

func NewPackageStoreAdapter() PackageStoreAdapter {
	return PackageStoreAdapter{}
}

func (a PackageStoreAdapter) List(packagesDir string) ([]types.PackageRecord, error) {
	if strings.TrimSpace(packagesDir) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("packages dir is empty")
	}
	if _, err := os.Stat(packagesDir); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("packages dir not found: " + packagesDir).
			WithCause(err)
	}
	matches, err := doublestar.Glob(os.DirFS(packagesDir), packageDescriptorGlob)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan packages dir").
			WithCause(err)
	}
	sort.Strings(matches)

	seen := map[string]struct{}{}
	var records []types.PackageRecord
	for _, match := range matches {
		descriptor := filepath.Join(packagesDir, filepath.FromSlash(match))
		root := filepath.Dir(descriptor)
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}
		record, err := readPackage(descriptor)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return core.CompareVersions(records[i].Version, records[j].Version) < 0
	})
	return records, nil
}

// Lookup finds name among the installed packages. version may be empty (the
// highest installed version), an exact version or a constraint like ">=1.2".
func (a PackageStoreAdapter) Lookup(packagesDir string, name string, version string) (types.PackageRecord, error) {
	if strings.TrimSpace(name) == "" {
		return types.PackageRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is empty")
	}
	records, err := a.List(packagesDir)
	if err != nil {
		return types.PackageRecord{}, err
	}
	byVersion := map[string]types.PackageRecord{}
	var versions []string
	for _, record := range records {
		if record.Name != name {
			continue
		}
		byVersion[record.Version] = record
		versions = append(versions, record.Version)
	}
	selected, err := core.SelectVersion(name, version, versions)
	if err != nil {
		return types.PackageRecord{}, err
	}
	record := byVersion[selected]
	log.Debug().
		Str("package", record.Name).
		Str("version", record.Version).
		Str("root", record.Root).
		Msg("package selected")
	return record, nil
}

func readPackage(descriptor string) (types.PackageRecord, error) {
	data, err := os.ReadFile(descriptor)
	if err != nil {
		return types.PackageRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package descriptor not found: " + descriptor).
			WithCause(err)
	}
	var record types.PackageRecord
	if strings.HasSuffix(descriptor, ".json") {
		err = json.Unmarshal(data, &record)
	} else {
		err = yaml.Unmarshal(data, &record)
	}
	if err != nil {
		return types.PackageRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse package descriptor " + descriptor).
			WithCause(err)
	}

	root := filepath.Dir(descriptor)
	record.Root = root
	dirName, dirVersion := splitPackageDir(filepath.Base(root))
	if record.Name == "" {
		record.Name = dirName
	}
	if record.Version == "" {
		record.Version = dirVersion
	}
	record.InstallManifest = manifestPath(root, record.InstallManifest, installManifestNames)
	record.UninstallManifest = manifestPath(root, record.UninstallManifest, uninstallManifestNames)
	if record.InstallManifest == "" {
		return types.PackageRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package " + record.ID() + " has no install manifest")
	}
	return record, nil
}

// manifestPath resolves a declared manifest path against root, or returns the
// first default name that exists.
func manifestPath(root string, declared string, defaults []string) string {
	if declared != "" {
		if filepath.IsAbs(declared) {
			return declared
		}
		return filepath.Join(root, filepath.FromSlash(declared))
	}
	for _, name := range defaults {
		candidate := filepath.Join(root, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// splitPackageDir splits "<name>-<version>" at the last dash followed by a
// digit.
func splitPackageDir(dir string) (string, string) {
	for i := len(dir) - 1; i > 0; i-- {
		if dir[i] == '-' && i+1 < len(dir) && unicode.IsDigit(rune(dir[i+1])) {
			return dir[:i], dir[i+1:]
		}
	}
	return dir, ""
}

var _ ports.PackageStorePort = PackageStoreAdapter{}
