package fonts

import (
	"errors"
	"os"
	"path/filepath"
)

// DirSource loads fonts from a directory of TrueType files named
// "<Family>.ttf".
type DirSource struct{ base string }

func NewDirSource(base string) (*DirSource, error) {
	if base == "" {
		return nil, errors.New("empty font dir")
	}
	info, err := os.Stat(base)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("font path is not a directory")
	}
	return &DirSource{base: base}, nil
}

func (s *DirSource) Load(family string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.base, filepath.Clean(family)+".ttf"))
}
