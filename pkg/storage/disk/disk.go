package disk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/petpal-app/petpal-backend/pkg/config"
)

// Store writes uploaded files to a local directory and serves them under a
// public URL prefix. Filenames are generated by callers and must not contain
// path separators.
type Store struct {
	dir        string
	publicBase string
}

// New ensures the upload directory exists and returns a store rooted there.
func New(cfg config.UploadConfig) (*Store, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %q: %w", cfg.Dir, err)
	}
	return &Store{
		dir:        cfg.Dir,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
	}, nil
}

// Save writes the file and returns its public URL.
func (s *Store) Save(filename string, data []byte) (string, error) {
	if err := validateFilename(filename); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload %q: %w", filename, err)
	}
	return s.PublicURL(filename), nil
}

// Delete removes the stored file. Missing files are not an error so that
// cleanup after a failed insert is idempotent.
func (s *Store) Delete(filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload %q: %w", filename, err)
	}
	return nil
}

// PublicURL returns the URL path clients use to fetch the file.
func (s *Store) PublicURL(filename string) string {
	return s.publicBase + "/" + filename
}

// FilenameFromURL recovers the stored filename from a public URL previously
// returned by Save. It returns an error when the URL is outside this store.
func (s *Store) FilenameFromURL(url string) (string, error) {
	prefix := s.publicBase + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q is not under %q", url, s.publicBase)
	}
	filename := strings.TrimPrefix(url, prefix)
	if err := validateFilename(filename); err != nil {
		return "", err
	}
	return filename, nil
}

// Dir exposes the root directory for static file serving.
func (s *Store) Dir() string {
	return s.dir
}

func validateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("filename is required")
	}
	if strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return fmt.Errorf("filename %q contains path separators", filename)
	}
	return nil
}
