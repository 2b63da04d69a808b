// Package fileutil provides file, path, and reference helpers shared by the
// resolver and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionNoDot         = errors.New("extension must start with a dot")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteFileAtomic writes content to a temporary file next to dest and renames
// it into place, so readers never observe a half-written stylesheet.
func WriteFileAtomic(dest string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(dest)

	tmpFile, err := os.CreateTemp(dir, ".cssbase64-*"+filepath.Ext(dest))
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if chmodErr := os.Chmod(tmpPath, perm); chmodErr != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}

	if renameErr := os.Rename(tmpPath, dest); renameErr != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", renameErr)
	}

	return nil
}

// ValidateExtension checks that an allow-list entry looks like ".png".
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if !strings.HasPrefix(extension, ".") {
		return fmt.Errorf("%w: %q", ErrExtensionNoDot, extension)
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like an absolute http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsProtocolRelative returns true for references like "//cdn.example.com/a.png".
func IsProtocolRelative(s string) bool {
	return strings.HasPrefix(s, "//")
}

// IsRemote returns true if the reference must be fetched over the network.
func IsRemote(s string) bool {
	return IsURL(s) || IsProtocolRelative(s)
}

// IsDataURI returns true if the reference is already an inline data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// StripQueryFragment removes a trailing "?query" or "#fragment" suffix.
//
// Examples:
//   - "img/a.png?v=3" -> "img/a.png"
//   - "font.svg#icon" -> "font.svg"
//   - "img/a.png" -> "img/a.png"
func StripQueryFragment(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

// Ext returns the extension of a reference after dropping any query or
// fragment suffix. References always use forward slashes.
func Ext(reference string) string {
	return path.Ext(StripQueryFragment(reference))
}
