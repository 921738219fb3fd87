package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"framework-kit/internal/core"
	"framework-kit/internal/shared"
	"framework-kit/internal/types"
)

// Inspect reports which anchors each detected project file carries and which
// packages are available, marking those with a recorded install.
func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	project, err := s.Locator.Locate(req.ProjectDir)
	if err != nil {
		return InspectResult{}, err
	}
	result := InspectResult{Project: project}
	for _, file := range s.xcode().KnownAnchors(project) {
		if err := ctx.Err(); err != nil {
			return InspectResult{}, err
		}
		data, err := s.Files.ReadFile(file.Path)
		if err != nil {
			return InspectResult{}, err
		}
		text := string(data)
		rel := shared.ProjectRelative(project.Root, file.Path)
		for _, anchor := range file.Anchors {
			result.Anchors = append(result.Anchors, types.AnchorPresence{
				File:    rel,
				Anchor:  anchor.Name,
				Present: core.Present(text, anchor),
			})
		}
	}

	records, err := s.Packages.List(packagesPath(project, req.PackagesDir))
	if err != nil {
		if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
			return result, nil
		}
		return InspectResult{}, err
	}
	for _, record := range records {
		result.Packages = append(result.Packages, InspectPackage{
			Record:    record,
			Installed: s.Files.Exists(recordedManifestPath(record)),
		})
	}
	return result, nil
}
