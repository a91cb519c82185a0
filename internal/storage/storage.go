// Package storage keeps report attachments outside the database.
package storage

import (
	"io"
	"strings"
)

// FileStore defines the operations the portal needs from an attachment store.
type FileStore interface {
	Upload(remotePath string, data io.Reader) error
	Delete(remotePath string) error
	URL(remotePath string) string
	Close() error
}

var (
	_ FileStore = (*FTPStore)(nil)
	_ FileStore = (*LocalStore)(nil)
)

func joinURL(baseURL, remotePath string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(remotePath, "/")
}
