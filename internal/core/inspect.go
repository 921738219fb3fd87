package core

import (
	"framework-kit/internal/types"
)

// FileAnchors pairs a project file with the anchors the patchers look for in
// it.
type FileAnchors struct {
	Path    string
	Anchors []Anchor
}

// KnownAnchors lists, for every platform file present in project, the
// anchors some command may need.
func (p XcodePatcher) KnownAnchors(project types.ProjectRoot) []FileAnchors {
	var out []FileAnchors
	if project.Pbxproj != "" {
		anchors := []Anchor{}
		for _, platform := range []types.PlatformID{types.PlatformIOS, types.PlatformMac} {
			anchors = append(anchors,
				PlaceholderAnchor(XcodeTag("HEADER", platform)),
				PlaceholderAnchor(XcodeTag("LIB", platform)),
			)
		}
		for _, isa := range []string{"PBXBuildFile", "PBXContainerItemProxy", "PBXFileReference", "PBXGroup", "PBXReferenceProxy"} {
			anchors = append(anchors, SectionAnchor(isa))
		}
		anchors = append(anchors,
			ProjectReferencesAnchor(),
			FrameworksPhaseAnchor(p.IOSAnchorProduct),
			FrameworksPhaseAnchor(p.MacAnchorProduct),
		)
		out = append(out, FileAnchors{Path: project.Pbxproj, Anchors: anchors})
	}
	if project.AndroidMk != "" {
		out = append(out, FileAnchors{Path: project.AndroidMk, Anchors: []Anchor{androidHeaderAnchor, androidLibAnchor, androidImportAnchor}})
	}
	if project.Vcxproj != "" {
		out = append(out, FileAnchors{Path: project.Vcxproj, Anchors: []Anchor{win32HeaderAnchor, win32LibPathAnchor, win32LibAnchor}})
	}
	if project.AppDelegate != "" {
		out = append(out, FileAnchors{Path: project.AppDelegate, Anchors: []Anchor{entryHeaderAnchor, entryFunctionAnchor}})
	}
	return out
}

// Present reports whether anchor can be located in text.
func Present(text string, anchor Anchor) bool {
	_, err := Locate(text, anchor)
	return err == nil
}
