package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore is the uploaded-PDF store. Save returns the public URL the
// blob is reachable at; Remove takes that same URL back.
type BlobStore interface {
	Save(key string, r io.Reader) (string, error)
	Remove(publicURL string) error
}

// FileStore keeps blobs on local disk under RootDir and serves them
// through the /uploads static route.
type FileStore struct {
	RootDir       string
	PublicBaseURL string
}

func NewFileStore(rootDir, publicBaseURL string) *FileStore {
	return &FileStore{
		RootDir:       rootDir,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Save writes the blob under RootDir/key. Each key segment is reduced
// to its base name so a crafted filename cannot escape the root.
func (s *FileStore) Save(key string, r io.Reader) (string, error) {
	clean := cleanKey(key)
	if clean == "" {
		return "", fmt.Errorf("save blob: empty key")
	}

	dst := filepath.Join(s.RootDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("save blob: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("save blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("save blob: %w", err)
	}

	return s.PublicBaseURL + "/uploads/" + clean, nil
}

// Remove deletes the blob a public URL points at. A URL that does not
// belong to this store is ignored rather than treated as an error, so
// a re-upload never fails because the previous blob is already gone.
func (s *FileStore) Remove(publicURL string) error {
	prefix := s.PublicBaseURL + "/uploads/"
	if !strings.HasPrefix(publicURL, prefix) {
		return nil
	}
	key := cleanKey(strings.TrimPrefix(publicURL, prefix))
	if key == "" {
		return nil
	}
	path := filepath.Join(s.RootDir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func cleanKey(key string) string {
	var parts []string
	for _, seg := range strings.Split(key, "/") {
		seg = filepath.Base(strings.TrimSpace(seg))
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "/")
}
