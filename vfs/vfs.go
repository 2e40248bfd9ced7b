// Package vfs enumerates container inputs: plain files, directories and
// members of zip/apk archives.
package vfs

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Input is one container to extract.
// Must contain only metadata as long as possible (before Read call)
type Input interface {
	// Name is unique display name, "archive.apk!assets/DATA001.BIN" for members
	Name() string
	// Dir is default output directory
	Dir() string
	Size() int64
	Read() ([]byte, error)
}

var zipMagic = []byte("PK\x03\x04")

func isZip(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "Cannot open %q", path)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, errors.Wrapf(err, "Cannot read %q", path)
	}
	return bytes.Equal(magic[:], zipMagic), nil
}

// Collect resolves path into inputs.
// Directories are walked recursively, archives expanded into configured members.
func Collect(path string, members []string) ([]Input, error) {
	s, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Stat error")
	}
	if s.IsDir() {
		return NewDirectoryDriver(path).Walk(members)
	}
	return collectFile(path, members)
}

func collectFile(path string, members []string) ([]Input, error) {
	archive, err := isZip(path)
	if err != nil {
		return nil, err
	}
	if archive {
		return OpenZip(path, members)
	}
	return []Input{NewDirectoryDriverFile(path)}, nil
}
