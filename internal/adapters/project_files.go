package adapters

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"framework-kit/internal/ports"
)

// ProjectFilesAdapter reads and writes project files on disk. Writes go to a
// temporary sibling first and are renamed into place, so a crash never
// leaves a half written project file.
type ProjectFilesAdapter struct{}

func NewProjectFilesAdapter() ProjectFilesAdapter {
	return ProjectFilesAdapter{}
}

func (a ProjectFilesAdapter) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errbuilder.CodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = errbuilder.CodeNotFound
		}
		return nil, errbuilder.New().
			WithCode(code).
			WithMsg("failed to read " + path).
			WithCause(err)
	}
	return data, nil
}

func (a ProjectFilesAdapter) WriteFile(path string, data []byte) error {
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return internalError("failed to create directory "+dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return internalError("failed to create temp file for "+path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return internalError("failed to write "+path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return internalError("failed to write "+path, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return internalError("failed to set mode on "+path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return internalError("failed to replace "+path, err)
	}
	return nil
}

func (a ProjectFilesAdapter) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (a ProjectFilesAdapter) CopyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open " + src).
			WithCause(err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return internalError("failed to create "+dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return internalError("failed to copy "+src, err)
	}
	if err := out.Close(); err != nil {
		return internalError("failed to copy "+src, err)
	}
	return nil
}

func (a ProjectFilesAdapter) Rename(src string, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return internalError("failed to rename "+src, err)
	}
	return nil
}

// Remove deletes path. A missing file is not an error.
func (a ProjectFilesAdapter) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return internalError("failed to remove "+path, err)
	}
	return nil
}

func internalError(msg string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg).
		WithCause(err)
}

var _ ports.ProjectFilesPort = ProjectFilesAdapter{}
