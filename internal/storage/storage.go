// Package storage persists uploaded document files on the local disk.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFileTooLarge is returned when an upload exceeds the configured
// size limit.
var ErrFileTooLarge = errors.New("the file exceeds the maximum allowed size")

// ErrFileTypeInvalid is returned when the file extension is not an
// accepted document type.
var ErrFileTypeInvalid = errors.New("the file type is not supported, upload a pdf, png, jpg or txt file")

// MaxFileSize is the upload size limit in bytes.
const MaxFileSize = 16 << 20

// fileTypes maps accepted extensions to the coarse type stored on the
// document record.
var fileTypes = map[string]string{
	".pdf":  "pdf",
	".png":  "image",
	".jpg":  "image",
	".jpeg": "image",
	".txt":  "text",
}

// Store saves and serves uploaded files under a single directory. The
// stored name is always generated so that user supplied names never
// touch the filesystem.
type Store struct {
	dir string
}

// New initializes the store, creating the directory if needed.
func New(dir string) (*Store, error) {
	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("could not create the upload directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// FileType returns the coarse document type for a file name, or an
// error when the extension is not accepted.
func FileType(name string) (string, error) {
	t, ok := fileTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", ErrFileTypeInvalid
	}

	return t, nil
}

// Save writes the content under a generated name and returns the
// reference to read it back.
func (s *Store) Save(name string, content []byte) (string, error) {
	if len(content) > MaxFileSize {
		return "", ErrFileTooLarge
	}

	if _, err := FileType(name); err != nil {
		return "", err
	}

	ref := uuid.NewString() + strings.ToLower(filepath.Ext(name))

	err := os.WriteFile(filepath.Join(s.dir, ref), content, 0o640)
	if err != nil {
		return "", fmt.Errorf("could not store the file: %w", err)
	}

	return ref, nil
}

// Read returns the content stored under a reference.
func (s *Store) Read(ref string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filepath.Base(ref)))
}

// Delete removes a stored file. A reference that no longer exists is
// not an error, the goal state is already reached.
func (s *Store) Delete(ref string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
