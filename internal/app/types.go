package app

import "framework-kit/internal/types"

type AddRequest struct {
	ProjectDir  string
	PackagesDir string
	Package     string
	Version     string
	Platforms   []string
	DryRun      bool
}

type AddResult struct {
	Package       types.PackageRecord
	Report        types.ApplyReport
	UninstallPath string
	Diffs         []types.FileDiff
}

type RemoveRequest struct {
	ProjectDir  string
	PackagesDir string
	Package     string
	Version     string
	DryRun      bool
}

type RemoveResult struct {
	Package      types.PackageRecord
	ManifestPath string
	Report       types.RevertReport
	Diffs        []types.FileDiff
}

type ValidateRequest struct {
	ProjectDir  string
	PackagesDir string
	Package     string
	Version     string
	Platforms   []string
}

type ValidateResult struct {
	Package types.PackageRecord
	Report  types.ApplyReport
	Diffs   []types.FileDiff
}

type InspectRequest struct {
	ProjectDir  string
	PackagesDir string
}

type InspectPackage struct {
	Record    types.PackageRecord
	Installed bool
}

type InspectResult struct {
	Project  types.ProjectRoot
	Anchors  []types.AnchorPresence
	Packages []InspectPackage
}
