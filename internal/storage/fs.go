package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/examfoundry/examfoundry/internal/branding"
)

// FSStore serves branding assets (logos and similar) from a base directory.
// It satisfies branding.AssetLoader.
type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./assets"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

// refPath confines the ref inside the base directory; a leading slash before
// Clean neutralizes ".." segments.
func (s *FSStore) refPath(ref string) string {
	return filepath.Join(s.base, filepath.Clean("/"+ref))
}

func (s *FSStore) Load(ref string) ([]byte, error) {
	if ref == "" {
		return nil, errors.New("empty asset ref")
	}
	b, err := os.ReadFile(s.refPath(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", branding.ErrAssetNotFound, ref)
		}
		return nil, err
	}
	return b, nil
}

func (s *FSStore) Put(ref string, r io.Reader) (string, error) {
	if ref == "" {
		return "", errors.New("empty asset ref")
	}
	dst := s.refPath(ref)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return ref, nil
}
