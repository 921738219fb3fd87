package ports

// ProjectFilesPort is the project file system as seen by the patchers. Writes
// replace the whole file.
type ProjectFilesPort interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Exists(path string) bool
	CopyFile(src string, dst string) error
	Rename(src string, dst string) error
	Remove(path string) error
}
