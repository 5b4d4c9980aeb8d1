package main

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage persists blob content under a base directory. Blob names are
// generated identifiers unrelated to the logical file name, so client input
// never reaches the filesystem path.
type Storage struct {
	basePath string
}

func NewStorage(basePath string) *Storage {
	return &Storage{basePath: basePath}
}

// Write stores data under a fresh blob identifier and returns the blob path.
// The bytes land in a temp file first and are renamed into place, so a
// half-written blob is never visible at the final path.
func (s *Storage) Write(data []byte) (string, error) {
	blobID := uuid.NewString()
	targetPath := s.blobPath(blobID)

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return "", err
	}

	tempFile, err := os.CreateTemp(s.basePath, "upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return "", err
	}
	if err := tempFile.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tempFile.Name(), targetPath); err != nil {
		return "", err
	}

	return targetPath, nil
}

func (s *Storage) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *Storage) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *Storage) blobPath(blobID string) string {
	return filepath.Join(s.basePath, blobID[:2], blobID)
}
