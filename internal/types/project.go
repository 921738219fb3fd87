package types

// ProjectRoot holds the absolute paths of a project's generated native
// projects. An empty path means the project does not build for that platform.
type ProjectRoot struct {
	Root        string
	IOSMac      string
	Android     string
	Win32       string
	Classes     string
	Pbxproj     string
	AndroidMk   string
	BuildCfg    string
	Vcxproj     string
	AppDelegate string
}

// HasTarget reports whether the files a target edits exist in this project.
func (p ProjectRoot) HasTarget(target Target) bool {
	switch target {
	case TargetIOS, TargetMac, TargetIOSMac:
		return p.Pbxproj != ""
	case TargetAndroid:
		return p.AndroidMk != ""
	case TargetWin32:
		return p.Vcxproj != ""
	case TargetShared:
		return p.AppDelegate != ""
	default:
		return false
	}
}

// PackageRecord is what the installed-package database knows about a
// package: its on-disk root and declared manifests.
type PackageRecord struct {
	Name              string `json:"name" yaml:"name"`
	Version           string `json:"version" yaml:"version"`
	Root              string `json:"-" yaml:"-"`
	InstallManifest   string `json:"install_manifest,omitempty" yaml:"install_manifest,omitempty"`
	UninstallManifest string `json:"uninstall_manifest,omitempty" yaml:"uninstall_manifest,omitempty"`
}

// ID is the directory name of the package inside the packages dir.
func (p PackageRecord) ID() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "-" + p.Version
}
