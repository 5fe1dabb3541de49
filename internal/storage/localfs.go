package storage

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/youruser/brandshot/internal/util"
)

// LocalFS writes rendered images under a root directory.
type LocalFS struct {
	root string
}

// New creates root if it does not exist.
func New(root string) (*LocalFS, error) {
	if err := util.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", root, err)
	}
	return &LocalFS{root: root}, nil
}

func (l *LocalFS) Root() string { return l.root }

// Sub returns a store rooted at the directory name under l, creating it.
// Batches that may overlap with others write into their own Sub.
func (l *LocalFS) Sub(name string) (*LocalFS, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return New(filepath.Join(l.root, name))
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}

// SavePNG encodes img as PNG into root/name and returns the written path.
// The image is written to a temporary file in root and renamed into place,
// so readers never observe a partial file and concurrent saves of the same
// name each leave a complete PNG.
func (l *LocalFS) SavePNG(ctx context.Context, name string, img image.Image, level png.CompressionLevel) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validName(name); err != nil {
		return "", err
	}

	dst := filepath.Join(l.root, name)
	f, err := os.CreateTemp(l.root, "."+name+".*.tmp")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	if err := imaging.Encode(f, img, imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("encoding %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return dst, nil
}
