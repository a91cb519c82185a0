package storage

import (
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
)

// ftpConn is the part of *ftp.ServerConn the attachment store uses.
type ftpConn interface {
	Stor(path string, r io.Reader) error
	Delete(path string) error
	MakeDir(path string) error
	Quit() error
}

// FTPStore uploads attachments to an FTP server. A single control
// connection is shared and guarded by mu; it is re-dialled after a failure.
type FTPStore struct {
	baseURL string
	dial    func() (ftpConn, error)

	mu   sync.Mutex
	conn ftpConn
}

func NewFTPStore(host, port, user, password, baseURL string) *FTPStore {
	return &FTPStore{
		baseURL: baseURL,
		dial: func() (ftpConn, error) {
			return dialFTP(host+":"+port, user, password)
		},
	}
}

func dialFTP(addr, user, password string) (ftpConn, error) {
	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to FTP: %w", err)
	}
	if err := conn.Login(user, password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("failed to login to FTP: %w", err)
	}
	return conn, nil
}

func (s *FTPStore) connect() error {
	conn, err := s.dial()
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

// do runs fn on a live connection, retrying once on a fresh one.
func (s *FTPStore) do(fn func(conn ftpConn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		if err := s.connect(); err != nil {
			return err
		}
	}
	err := fn(s.conn)
	if err == nil {
		return nil
	}

	slog.Warn("ftp operation failed, reconnecting", "error", err)
	s.conn.Quit()
	s.conn = nil
	if err := s.connect(); err != nil {
		return err
	}
	return fn(s.conn)
}

func (s *FTPStore) Upload(remotePath string, data io.Reader) error {
	return s.do(func(conn ftpConn) error {
		if seeker, ok := data.(io.Seeker); ok {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return fmt.Errorf("failed to rewind upload: %w", err)
			}
		}
		makeDirs(conn, path.Dir(remotePath))
		if err := conn.Stor(remotePath, data); err != nil {
			return fmt.Errorf("failed to upload file: %w", err)
		}
		return nil
	})
}

func (s *FTPStore) Delete(remotePath string) error {
	return s.do(func(conn ftpConn) error {
		if err := conn.Delete(remotePath); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	})
}

func (s *FTPStore) URL(remotePath string) string {
	return joinURL(s.baseURL, remotePath)
}

func (s *FTPStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Quit()
	s.conn = nil
	return err
}

// makeDirs creates every directory of dir. Existing directories make
// MakeDir fail, which is ignored.
func makeDirs(conn ftpConn, dir string) {
	if dir == "." || dir == "/" || dir == "" {
		return
	}
	current := ""
	if strings.HasPrefix(dir, "/") {
		current = "/"
	}
	for _, part := range strings.Split(strings.Trim(dir, "/"), "/") {
		current = path.Join(current, part)
		_ = conn.MakeDir(current)
	}
}
