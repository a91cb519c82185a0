package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes attachments below a directory. It is used when no FTP
// server is configured and in tests.
type LocalStore struct {
	baseDir string
	baseURL string
}

func NewLocalStore(baseDir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir, baseURL: baseURL}, nil
}

func (s *LocalStore) resolve(remotePath string) (string, error) {
	clean := filepath.Clean("/" + remotePath)
	if strings.Contains(remotePath, "..") {
		return "", fmt.Errorf("invalid path %q", remotePath)
	}
	return filepath.Join(s.baseDir, clean), nil
}

func (s *LocalStore) Upload(remotePath string, data io.Reader) error {
	localPath, err := s.resolve(remotePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalStore) Delete(remotePath string) error {
	localPath, err := s.resolve(remotePath)
	if err != nil {
		return err
	}
	if err := os.Remove(localPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(remotePath string) string {
	return joinURL(s.baseURL, remotePath)
}

func (s *LocalStore) Close() error {
	return nil
}
