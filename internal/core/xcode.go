package core

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path"
	"regexp"
	"strings"

	"framework-kit/internal/types"
)

const (
	DefaultIOSAnchorProduct = "libcocos2d iOS.a"
	DefaultMacAnchorProduct = "libcocos2d Mac.a"
)

var (
	objectIDPattern = regexp.MustCompile(`^[0-9A-F]{24}$`)
	pbxBareString   = regexp.MustCompile(`^[A-Za-z0-9_$/:.]+$`)
)

// XcodePatcher edits project.pbxproj text. ios and mac share the file and are
// told apart by their placeholder tags and frameworks build phases.
type XcodePatcher struct {
	IOSAnchorProduct string
	MacAnchorProduct string
}

func NewXcodePatcher(iosAnchorProduct string, macAnchorProduct string) XcodePatcher {
	if iosAnchorProduct == "" {
		iosAnchorProduct = DefaultIOSAnchorProduct
	}
	if macAnchorProduct == "" {
		macAnchorProduct = DefaultMacAnchorProduct
	}
	return XcodePatcher{IOSAnchorProduct: iosAnchorProduct, MacAnchorProduct: macAnchorProduct}
}

// XcodeTag returns the placeholder tag of a list kind ("HEADER" or "LIB") for
// a platform, e.g. _COCOS_HEADER_IOS.
func XcodeTag(kind string, platform types.PlatformID) string {
	return "_COCOS_" + kind + "_" + strings.ToUpper(string(platform))
}

func (p XcodePatcher) AddHeaderPath(text string, platform types.PlatformID, entry string) (string, bool, error) {
	return mergeRegion(text, PlaceholderAnchor(XcodeTag("HEADER", platform)), entry, XcodeStyle{})
}

func (p XcodePatcher) AddLib(text string, platform types.PlatformID, entry string) (string, bool, error) {
	return mergeRegion(text, PlaceholderAnchor(XcodeTag("LIB", platform)), entry, XcodeStyle{})
}

// AddSystemFramework links an SDK framework or library: a file reference, a
// build file and an entry in the platform's frameworks build phase.
func (p XcodePatcher) AddSystemFramework(text string, platform types.PlatformID, fw types.SystemFramework) (string, bool, error) {
	fileType, sdkPath := systemFrameworkLocation(fw.Name)
	edits := []sectionEdit{
		{
			section: "PBXFileReference",
			block: fmt.Sprintf("\t\t%s /* %s */ = {isa = PBXFileReference; lastKnownFileType = %s; name = %s; path = %s; sourceTree = SDKROOT; };\n",
				fw.FileID, fw.Name, pbxString(fileType), pbxString(fw.Name), pbxString(sdkPath)),
		},
		{
			section: "PBXBuildFile",
			block: fmt.Sprintf("\t\t%s /* %s in Frameworks */ = {isa = PBXBuildFile; fileRef = %s /* %s */; };\n",
				fw.BuildID, fw.Name, fw.FileID, fw.Name),
		},
		{
			phase: p.anchorProduct(platform),
			block: fmt.Sprintf("\t\t\t\t%s /* %s in Frameworks */,\n", fw.BuildID, fw.Name),
		},
	}
	return applySectionEdits(text, edits)
}

// AddSubProject references another .xcodeproj and links its ios and mac
// library products. The seven touched sections are edited in memory; any
// missing anchor returns an error and leaves nothing to write.
func (p XcodePatcher) AddSubProject(text string, sub types.SubProject) (string, bool, error) {
	name := path.Base(sub.Path)
	edits := []sectionEdit{
		{
			section: "PBXFileReference",
			block: fmt.Sprintf("\t\t%s /* %s */ = {isa = PBXFileReference; lastKnownFileType = \"wrapper.pb-project\"; name = %s; path = %s; sourceTree = \"<group>\"; };\n",
				sub.FileRefID, name, pbxString(name), pbxString(sub.Path)),
		},
	}
	var children []string
	products := []struct {
		product types.SubProjectProduct
		phase   string
	}{
		{sub.IOS, p.IOSAnchorProduct},
		{sub.Mac, p.MacAnchorProduct},
	}
	for _, item := range products {
		product := item.product
		if product.Product == "" {
			continue
		}
		edits = append(edits,
			sectionEdit{
				section: "PBXBuildFile",
				block: fmt.Sprintf("\t\t%s /* %s in Frameworks */ = {isa = PBXBuildFile; fileRef = %s /* %s */; };\n",
					product.BuildFileID, product.Product, product.ReferenceProxyID, product.Product),
			},
			sectionEdit{
				section: "PBXContainerItemProxy",
				block: fmt.Sprintf("\t\t%s /* PBXContainerItemProxy */ = {\n"+
					"\t\t\tisa = PBXContainerItemProxy;\n"+
					"\t\t\tcontainerPortal = %s /* %s */;\n"+
					"\t\t\tproxyType = 2;\n"+
					"\t\t\tremoteGlobalIDString = %s;\n"+
					"\t\t\tremoteInfo = %s;\n"+
					"\t\t};\n",
					product.ContainerProxyID, sub.FileRefID, name, product.RemoteID, pbxString(remoteInfo(product.Product))),
			},
			sectionEdit{
				section: "PBXReferenceProxy",
				block: fmt.Sprintf("\t\t%s /* %s */ = {\n"+
					"\t\t\tisa = PBXReferenceProxy;\n"+
					"\t\t\tfileType = archive.ar;\n"+
					"\t\t\tpath = %s;\n"+
					"\t\t\tremoteRef = %s /* PBXContainerItemProxy */;\n"+
					"\t\t\tsourceTree = BUILT_PRODUCTS_DIR;\n"+
					"\t\t};\n",
					product.ReferenceProxyID, product.Product, pbxString(product.Product), product.ContainerProxyID),
			},
			sectionEdit{
				phase: item.phase,
				block: fmt.Sprintf("\t\t\t\t%s /* %s in Frameworks */,\n", product.BuildFileID, product.Product),
			},
		)
		children = append(children, fmt.Sprintf("\t\t\t\t%s /* %s */,\n", product.ReferenceProxyID, product.Product))
	}
	edits = append(edits,
		sectionEdit{
			section: "PBXGroup",
			block: fmt.Sprintf("\t\t%s /* Products */ = {\n"+
				"\t\t\tisa = PBXGroup;\n"+
				"\t\t\tchildren = (\n"+
				"%s"+
				"\t\t\t);\n"+
				"\t\t\tname = Products;\n"+
				"\t\t\tsourceTree = \"<group>\";\n"+
				"\t\t};\n",
				sub.ProductGroupID, strings.Join(children, "")),
		},
		sectionEdit{
			projectReference: true,
			block: fmt.Sprintf("\t\t\t\t{\n"+
				"\t\t\t\t\tProductGroup = %s /* Products */;\n"+
				"\t\t\t\t\tProjectRef = %s /* %s */;\n"+
				"\t\t\t\t},\n",
				sub.ProductGroupID, sub.FileRefID, name),
		},
	)
	return applySectionEdits(text, edits)
}

func (p XcodePatcher) anchorProduct(platform types.PlatformID) string {
	if platform == types.PlatformMac {
		return p.MacAnchorProduct
	}
	return p.IOSAnchorProduct
}

// sectionEdit inserts block into one place of the project: the end of a
// "/* Begin X section */" block, after a frameworks phase anchor line, or at
// the top of the projectReferences list.
type sectionEdit struct {
	section          string
	phase            string
	projectReference bool
	block            string
}

func (e sectionEdit) anchor() Anchor {
	switch {
	case e.phase != "":
		return FrameworksPhaseAnchor(e.phase)
	case e.projectReference:
		return ProjectReferencesAnchor()
	default:
		return SectionAnchor(e.section)
	}
}

func applySectionEdits(text string, edits []sectionEdit) (string, bool, error) {
	changed := false
	for _, edit := range edits {
		anchor := edit.anchor()
		region, err := Locate(text, anchor)
		if err != nil {
			return "", false, err
		}
		switch {
		case edit.phase != "":
			if strings.Contains(phaseFiles(region.Tail), strings.TrimSpace(edit.block)) {
				continue
			}
			text = region.Append(edit.block)
		case edit.projectReference:
			if strings.Contains(region.Body(), strings.TrimSpace(firstLines(edit.block, 3))) {
				continue
			}
			text = region.Prepend(edit.block)
		default:
			if strings.Contains(region.Body(), edit.block) {
				continue
			}
			text = region.Append(edit.block)
		}
		changed = true
	}
	return text, changed, nil
}

// SectionAnchor delimits an object section of the project file.
func SectionAnchor(isa string) Anchor {
	return SentinelAnchor(isa+" section", "/* Begin "+isa+" section */", "/* End "+isa+" section */")
}

// FrameworksPhaseAnchor matches the frameworks build phase line that links
// product. Its comment must match the generated project exactly.
func FrameworksPhaseAnchor(product string) Anchor {
	comment := regexp.QuoteMeta("/* " + product + " in Frameworks */")
	return StructuralAnchor(product+" frameworks phase", `(\n)([ \t]*[0-9A-F]{24} `+comment+`,[ \t]*\n)`)
}

// ProjectReferencesAnchor matches the projectReferences list of the root
// PBXProject object.
func ProjectReferencesAnchor() Anchor {
	return StructuralAnchor("projectReferences", `(projectReferences = \(\n)(.*?)([ \t]*\);)`)
}

// DeriveObjectID hashes parts into a 24 character project object identifier.
func DeriveObjectID(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "\x00")))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:24]
}

// ValidObjectID reports whether id has the 24 upper-case hex digit shape.
func ValidObjectID(id string) bool {
	return objectIDPattern.MatchString(id)
}

func systemFrameworkLocation(name string) (fileType string, sdkPath string) {
	switch {
	case strings.HasSuffix(name, ".tbd"):
		return "sourcecode.text-based-dylib-definition", "usr/lib/" + name
	case strings.HasSuffix(name, ".dylib"):
		return "compiled.mach-o.dylib", "usr/lib/" + name
	default:
		return "wrapper.framework", "System/Library/Frameworks/" + name
	}
}

func pbxString(value string) string {
	if pbxBareString.MatchString(value) {
		return value
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

func remoteInfo(product string) string {
	name := strings.TrimSuffix(product, ".a")
	return strings.TrimPrefix(name, "lib")
}

// phaseFiles returns the rest of a files = ( ... ); list following an anchor.
func phaseFiles(tail string) string {
	if end := strings.Index(tail, ");"); end >= 0 {
		return tail[:end]
	}
	return tail
}

func firstLines(text string, n int) string {
	lines := strings.SplitAfterN(text, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "")
}

func mergeRegion(text string, anchor Anchor, entry string, style SeparatorStyle) (string, bool, error) {
	region, err := Locate(text, anchor)
	if err != nil {
		return "", false, err
	}
	merged, added, err := Merge(region.Body(), entry, style)
	if err != nil {
		return "", false, err
	}
	if !added {
		return text, false, nil
	}
	return region.Replace(merged), true, nil
}
