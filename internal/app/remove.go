package app

import (
	"context"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"framework-kit/internal/adapters"
	"framework-kit/internal/core"
	"framework-kit/internal/ports"
	"framework-kit/internal/types"
)

// Remove reverts a package. The uninstall manifest shipped with the package
// wins over the one recorded by Add; the recorded one is deleted once the
// reversal ran.
func (s Service) Remove(ctx context.Context, req RemoveRequest) (RemoveResult, error) {
	project, record, err := s.target(req.ProjectDir, req.PackagesDir, req.Package, req.Version)
	if err != nil {
		return RemoveResult{}, err
	}
	path, err := s.uninstallManifestPath(record)
	if err != nil {
		return RemoveResult{}, err
	}
	manifest, err := s.Manifests.LoadUninstall(path)
	if err != nil {
		return RemoveResult{}, err
	}

	var files ports.ProjectFilesPort = s.Files
	var preview *adapters.PreviewFilesAdapter
	if req.DryRun {
		preview = adapters.NewPreviewFilesAdapter(s.Files, project.Root)
		files = preview
	}
	report, err := core.NewReverter().Revert(ctx, manifest, project.Root, files)
	result := RemoveResult{Package: record, ManifestPath: path, Report: report}
	if preview != nil {
		result.Diffs = preview.Diffs()
	}
	if err != nil {
		return result, err
	}
	if !req.DryRun {
		if err := s.dropRecorded(project, record, path); err != nil {
			return result, err
		}
	}
	log.Info().
		Str("package", record.ID()).
		Str("manifest", path).
		Int("instructions", len(report.Outcomes)).
		Int("skipped", skippedCount(report)).
		Bool("dry_run", req.DryRun).
		Msg("package removed")
	return result, nil
}

func (s Service) uninstallManifestPath(record types.PackageRecord) (string, error) {
	if record.UninstallManifest != "" && s.Files.Exists(record.UninstallManifest) {
		return record.UninstallManifest, nil
	}
	if recorded := recordedManifestPath(record); s.Files.Exists(recorded) {
		return recorded, nil
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("package " + record.ID() + " has no uninstall manifest; was it added with framework-kit?")
}

// dropRecorded deletes the recorded uninstall manifest. When another manifest
// did the reversal, the backups the recorded one refers to are deleted too.
func (s Service) dropRecorded(project types.ProjectRoot, record types.PackageRecord, used string) error {
	recorded := recordedManifestPath(record)
	if !s.Files.Exists(recorded) {
		return nil
	}
	if used != recorded {
		manifest, err := s.Manifests.LoadUninstall(recorded)
		if err != nil {
			return err
		}
		for _, instruction := range manifest.Instructions {
			if instruction.RestoreBackup == nil {
				continue
			}
			backup := filepath.Join(project.Root, filepath.FromSlash(instruction.RestoreBackup.Backup))
			if err := s.Files.Remove(backup); err != nil {
				return err
			}
		}
	}
	return s.Files.Remove(recorded)
}

func skippedCount(report types.RevertReport) int {
	total := 0
	for _, outcome := range report.Outcomes {
		if outcome.Skipped {
			total++
		}
	}
	return total
}
