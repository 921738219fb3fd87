package app

import (
	"context"
)

// Validate applies the install manifest to an in-memory copy of the project.
// It fails exactly where Add would, without touching any file.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	added, err := s.Add(ctx, AddRequest{
		ProjectDir:  req.ProjectDir,
		PackagesDir: req.PackagesDir,
		Package:     req.Package,
		Version:     req.Version,
		Platforms:   req.Platforms,
		DryRun:      true,
	})
	return ValidateResult{
		Package: added.Package,
		Report:  added.Report,
		Diffs:   added.Diffs,
	}, err
}
