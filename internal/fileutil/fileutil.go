// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tempPrefix names every temporary file and directory the tool creates.
const tempPrefix = "word2pdf-"

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrInvalidFileName        = errors.New("file name must not contain path separators")
)

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ExtractToTempDir writes content as name inside a fresh temporary directory.
// Returns the file path and a cleanup function removing the whole directory.
func ExtractToTempDir(name string, content []byte) (path string, cleanup func(), err error) {
	if name == "" || strings.ContainsAny(name, "/\\\x00") {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}

	dir, err := os.MkdirTemp("", tempPrefix+"*")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp directory: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	path = filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing %s: %w", name, err)
	}

	return path, cleanup, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, "."+tempPrefix+"*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	ok := false
	defer func() {
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	ok = true
	return nil
}

// MoveAside renames the regular file at path to a hidden name in the same
// directory. restore moves it back, replacing whatever path holds by then;
// discard deletes it. When path does not exist both are no-ops.
func MoveAside(path string) (restore, discard func() error, err error) {
	noop := func() error { return nil }

	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return noop, noop, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		return noop, noop, nil
	}

	// Reserve a unique name; the rename below replaces the empty file.
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+tempPrefix+"*.bak")
	if err != nil {
		return nil, nil, fmt.Errorf("reserving backup name: %w", err)
	}
	backup := tmpFile.Name()
	_ = tmpFile.Close()

	if err := os.Rename(path, backup); err != nil {
		_ = os.Remove(backup)
		return nil, nil, fmt.Errorf("moving %s aside: %w", filepath.Base(path), err)
	}

	restore = func() error { return os.Rename(backup, path) }
	discard = func() error { return os.Remove(backup) }
	return restore, discard, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
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

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ReplaceExt returns path with its extension replaced by ext (".pdf").
// A path without extension gets ext appended.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
