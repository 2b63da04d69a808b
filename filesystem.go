package cssbase64

import (
	"io/fs"
	"os"
)

// FileSystem is the file access the resolver and engine need.
// Paths are operating system paths, not io/fs slash paths.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	Remove(name string) error
}

// osFileSystem implements FileSystem with the os package.
type osFileSystem struct{}

// Compile-time interface implementation check.
var _ FileSystem = osFileSystem{}

func (osFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (osFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) // #nosec G304 -- path comes from the stylesheet being processed
}

func (osFileSystem) Remove(name string) error { return os.Remove(name) }
