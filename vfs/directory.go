package vfs

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

type DirectoryDriver struct {
	path string
}

func NewDirectoryDriver(path string) *DirectoryDriver {
	return &DirectoryDriver{path: path}
}

// Walk returns inputs of every regular file below directory in lexical order.
// Unreadable archives are logged and skipped.
func (dd *DirectoryDriver) Walk(members []string) ([]Input, error) {
	var files []string
	err := filepath.WalkDir(dd.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Error walking directory '%s'", dd.path)
	}
	sort.Strings(files)

	result := make([]Input, 0, len(files))
	for _, path := range files {
		inputs, err := collectFile(path, members)
		if err != nil {
			log.Printf("[vfs] skipping %q: %v", path, err)
			continue
		}
		result = append(result, inputs...)
	}
	return result, nil
}

type DirectoryDriverFile struct {
	path string
}

func NewDirectoryDriverFile(path string) *DirectoryDriverFile {
	return &DirectoryDriverFile{path: path}
}

func (ddf *DirectoryDriverFile) Name() string {
	return ddf.path
}

func (ddf *DirectoryDriverFile) Dir() string {
	return filepath.Dir(ddf.path)
}

func (ddf *DirectoryDriverFile) Size() int64 {
	if stat, err := os.Stat(ddf.path); err != nil {
		return 0
	} else {
		return stat.Size()
	}
}

func (ddf *DirectoryDriverFile) Read() ([]byte, error) {
	data, err := os.ReadFile(ddf.path)
	if err != nil {
		return nil, errors.Wrapf(err, "os.ReadFile('%s')", ddf.path)
	}
	return data, nil
}
