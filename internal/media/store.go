package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store manages the upload root.  Filenames are generated from the upload
// timestamp plus a random suffix and never reused, so served files are
// immutable and safe to cache indefinitely.
type Store struct {
	root string
}

// NewStore creates the upload directory if needed and returns a Store
// rooted there.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{root: root}, nil
}

// GenerateFilename produces a unique on-disk name preserving the original
// extension (defaulting to .mp4 when absent).
func (s *Store) GenerateFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".mp4"
	}
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

// Save streams src into the store under filename.  The name must already
// have passed ValidFilename.
func (s *Store) Save(filename string, src io.Reader) (int64, error) {
	dst, err := os.Create(filepath.Join(s.root, filename))
	if err != nil {
		return 0, err
	}
	n, cErr := io.Copy(dst, src)
	if err := dst.Close(); cErr == nil {
		cErr = err
	}
	return n, cErr
}

// Open stats and opens a stored file.  The caller owns the handle and must
// close it; an aborted response closes it through the deferred Close in
// the handler, releasing the descriptor mid-stream.
func (s *Store) Open(filename string) (*os.File, os.FileInfo, error) {
	path := filepath.Join(s.root, filename)
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	// Dot-only names like ".." pass the charset check but resolve to
	// directories; treat anything that is not a regular file as absent.
	if !info.Mode().IsRegular() {
		return nil, nil, os.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, info, nil
}

// Remove deletes a stored file.  A missing file is not an error; the row
// is authoritative and the file may already be gone.
func (s *Store) Remove(filename string) error {
	err := os.Remove(filepath.Join(s.root, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
