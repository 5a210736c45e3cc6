package files

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("file not found")

// DiskStorage keeps uploaded artifacts as flat files under a single
// directory, named by their generated id. The id embeds the original
// extension so downloads get a usable content type.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &DiskStorage{dir: dir}, nil
}

// Save writes the content to disk and returns the new artifact id.
func (d *DiskStorage) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	id := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(d.dir, id))
	if err != nil {
		return "", err
	}

	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(filepath.Join(d.dir, id))
		return "", err
	}

	return id, nil
}

func (d *DiskStorage) Exists(id string) (bool, error) {
	path, err := d.path(id)
	if err != nil {
		return false, nil
	}

	_, err = os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Open returns a reader over the stored artifact.
func (d *DiskStorage) Open(id string) (*os.File, error) {
	path, err := d.path(id)
	if err != nil {
		return nil, ErrNotFound
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return f, nil
}

// path rejects ids that would escape the storage directory.
func (d *DiskStorage) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return "", ErrNotFound
	}

	return filepath.Join(d.dir, id), nil
}
