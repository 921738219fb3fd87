package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"framework-kit/internal/adapters"
	"framework-kit/internal/core"
	"framework-kit/internal/policies"
	"framework-kit/internal/types"
)

// Add runs the package's install manifest against the project. Outside dry
// run the reversal of every applied edit is stored next to the package, even
// when a later operation fails, so Remove can undo a partial install.
func (s Service) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	platforms, err := policies.ParsePlatforms(req.Platforms)
	if err != nil {
		return AddResult{}, err
	}
	project, record, err := s.target(req.ProjectDir, req.PackagesDir, req.Package, req.Version)
	if err != nil {
		return AddResult{}, err
	}
	manifest, err := s.Manifests.LoadInstall(record.InstallManifest)
	if err != nil {
		return AddResult{}, err
	}

	inv := core.Invocation{
		Project: project,
		Package: record,
		Files:   s.Files,
		Policy:  policies.NewPlatformPolicy(platforms),
	}
	var preview *adapters.PreviewFilesAdapter
	if req.DryRun {
		preview = adapters.NewPreviewFilesAdapter(s.Files, project.Root)
		inv.Files = preview
	} else {
		inv.Recorder = core.NewRecorder(project.Root, record.ID(), s.Files)
	}

	report, applyErr := core.NewDispatcher(s.xcode()).Apply(ctx, manifest, inv)
	result := AddResult{Package: record, Report: report}
	if preview != nil {
		result.Diffs = preview.Diffs()
	}
	if inv.Recorder != nil && inv.Recorder.Len() > 0 {
		path, err := s.persistReversal(record, report.Reversal)
		if err != nil {
			if applyErr != nil {
				log.Error().Err(err).Msg("failed to store uninstall manifest after partial install")
				return result, applyErr
			}
			return result, err
		}
		result.UninstallPath = path
	}
	if applyErr != nil {
		return result, applyErr
	}
	log.Info().
		Str("package", record.ID()).
		Int("applied", report.Count(types.OutcomeApplied)).
		Int("unchanged", report.Count(types.OutcomeUnchanged)).
		Int("skipped", report.Count(types.OutcomeSkipped)).
		Bool("dry_run", req.DryRun).
		Msg("package added")
	return result, nil
}

// persistReversal stores reversal ahead of instructions recorded by earlier
// runs, keeping the whole file newest first.
func (s Service) persistReversal(record types.PackageRecord, reversal types.UninstallManifest) (string, error) {
	path := recordedManifestPath(record)
	merged := types.UninstallManifest{Source: path, Instructions: reversal.Instructions}
	if s.Files.Exists(path) {
		existing, err := s.Manifests.LoadUninstall(path)
		if err != nil {
			return "", err
		}
		merged.Instructions = append(merged.Instructions, existing.Instructions...)
	}
	if err := s.Manifests.WriteUninstall(path, merged); err != nil {
		return "", err
	}
	log.Debug().
		Str("path", path).
		Int("instructions", len(merged.Instructions)).
		Msg("uninstall manifest recorded")
	return path, nil
}
