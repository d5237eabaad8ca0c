package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mansidodiya01/babymonitorwithlora/internal/domain"
)

// ImageDir implements ports.ImageSource and ports.ImageStore over a flat
// directory keyed by filename.
type ImageDir struct {
	dir string
}

// NewImageDir creates a store rooted at dir.
func NewImageDir(dir string) *ImageDir {
	return &ImageDir{dir: dir}
}

// Exists reports whether name is a regular file in the directory.
func (d *ImageDir) Exists(name string) bool {
	p, err := d.path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the bytes of image name.
func (d *ImageDir) Read(name string) ([]byte, error) {
	p, err := d.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// Put writes data under name atomically (temp file, then rename).
func (d *ImageDir) Put(name string, data []byte) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("image dir: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Dir returns the store directory.
func (d *ImageDir) Dir() string {
	return d.dir
}

// path confines name to the directory.
func (d *ImageDir) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidImageName, name)
	}
	return filepath.Join(d.dir, name), nil
}
