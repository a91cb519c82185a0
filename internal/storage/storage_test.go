package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://files.local/")
	require.NoError(t, err)

	remote := "anexos/7d9f/1710000000000_ab12.pdf"
	require.NoError(t, store.Upload(remote, strings.NewReader("%PDF-1.4")))

	data, err := os.ReadFile(filepath.Join(dir, remote))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Equal(t, "http://files.local/anexos/7d9f/1710000000000_ab12.pdf", store.URL(remote))

	require.NoError(t, store.Delete(remote))
	_, err = os.Stat(filepath.Join(dir, remote))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)
	assert.Error(t, store.Upload("../../etc/passwd", strings.NewReader("x")))
}

func TestFTPStore_URL(t *testing.T) {
	store := NewFTPStore("ftp.example.com", "21", "u", "p", "https://cdn.example.com")
	assert.Equal(t, "https://cdn.example.com/anexos/a/b.png", store.URL("/anexos/a/b.png"))
	assert.NoError(t, store.Close())
}

// fakeFTPConn stores files in memory. The first failStor uploads fail after
// draining the reader, like a connection dropped mid-transfer.
type fakeFTPConn struct {
	files    map[string]string
	dirs     []string
	failStor int
	quit     bool
}

func (c *fakeFTPConn) Stor(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if c.failStor > 0 {
		c.failStor--
		return errors.New("421 service not available")
	}
	c.files[path] = string(data)
	return nil
}

func (c *fakeFTPConn) Delete(path string) error {
	if _, ok := c.files[path]; !ok {
		return errors.New("550 file not found")
	}
	delete(c.files, path)
	return nil
}

func (c *fakeFTPConn) MakeDir(path string) error {
	c.dirs = append(c.dirs, path)
	return nil
}

func (c *fakeFTPConn) Quit() error {
	c.quit = true
	return nil
}

func newFakeFTPStore(conns ...*fakeFTPConn) (*FTPStore, *int) {
	dials := 0
	store := NewFTPStore("ftp.example.com", "21", "u", "p", "https://cdn.example.com")
	store.dial = func() (ftpConn, error) {
		dials++
		if dials > len(conns) {
			return nil, errors.New("failed to connect to FTP: connection refused")
		}
		return conns[dials-1], nil
	}
	return store, &dials
}

func TestFTPStore_UploadReusesConnection(t *testing.T) {
	conn := &fakeFTPConn{files: map[string]string{}}
	store, dials := newFakeFTPStore(conn)

	require.NoError(t, store.Upload("/anexos/a/1.pdf", strings.NewReader("one")))
	require.NoError(t, store.Upload("/anexos/a/2.pdf", strings.NewReader("two")))

	assert.Equal(t, 1, *dials)
	assert.Equal(t, map[string]string{"/anexos/a/1.pdf": "one", "/anexos/a/2.pdf": "two"}, conn.files)
	assert.Contains(t, conn.dirs, "/anexos/a")

	require.NoError(t, store.Delete("/anexos/a/1.pdf"))
	assert.NotContains(t, conn.files, "/anexos/a/1.pdf")

	require.NoError(t, store.Close())
	assert.True(t, conn.quit)
}

func TestFTPStore_RetriesOnFreshConnection(t *testing.T) {
	broken := &fakeFTPConn{files: map[string]string{}, failStor: 1}
	fresh := &fakeFTPConn{files: map[string]string{}}
	store, dials := newFakeFTPStore(broken, fresh)

	require.NoError(t, store.Upload("/anexos/b/prova.pdf", bytes.NewReader([]byte("%PDF-1.4"))))

	assert.Equal(t, 2, *dials)
	assert.True(t, broken.quit)
	assert.Empty(t, broken.files)
	// the reader was rewound before the second attempt
	assert.Equal(t, "%PDF-1.4", fresh.files["/anexos/b/prova.pdf"])
}

func TestFTPStore_FailsAfterOneRetry(t *testing.T) {
	first := &fakeFTPConn{files: map[string]string{}, failStor: 1}
	second := &fakeFTPConn{files: map[string]string{}, failStor: 1}
	store, dials := newFakeFTPStore(first, second)

	err := store.Upload("/anexos/c/x.png", bytes.NewReader([]byte("png")))
	assert.ErrorContains(t, err, "failed to upload file")
	assert.Equal(t, 2, *dials)
}

func TestFTPStore_ReconnectFailure(t *testing.T) {
	conn := &fakeFTPConn{files: map[string]string{}}
	store, dials := newFakeFTPStore(conn)

	err := store.Delete("/anexos/missing.pdf")
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 2, *dials)
	assert.True(t, conn.quit)

	// a failed reconnect leaves no connection behind
	assert.NoError(t, store.Close())
}
