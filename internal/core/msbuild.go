package core

var (
	win32HeaderAnchor  = PlaceholderAnchor("_COCOS_HEADER_WIN32")
	win32LibPathAnchor = PlaceholderAnchor("_COCOS_LIB_PATH_WIN32")
	win32LibAnchor     = PlaceholderAnchor("_COCOS_LIB_WIN32")
)

// MSBuildPatcher edits a .vcxproj through placeholder tokens embedded in the
// AdditionalIncludeDirectories, AdditionalLibraryDirectories and
// AdditionalDependencies values.
type MSBuildPatcher struct{}

func NewMSBuildPatcher() MSBuildPatcher {
	return MSBuildPatcher{}
}

func (MSBuildPatcher) AddHeaderPath(text string, entry string) (string, bool, error) {
	return mergeRegion(text, win32HeaderAnchor, entry, MSBuildStyle{})
}

func (MSBuildPatcher) AddLibPath(text string, dir string) (string, bool, error) {
	return mergeRegion(text, win32LibPathAnchor, dir, MSBuildStyle{})
}

func (MSBuildPatcher) AddLib(text string, file string) (string, bool, error) {
	return mergeRegion(text, win32LibAnchor, file, MSBuildStyle{})
}
