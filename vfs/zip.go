package vfs

import (
	"io"
	"log"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// ZipMember is a file stored inside zip or apk archive
type ZipMember struct {
	archive string
	member  string
	size    int64
}

// OpenZip lists configured members present in archive.
// Missing members are logged, an archive without any of them is an error.
func OpenZip(path string, members []string) ([]Input, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open archive %q", path)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var result []Input
	for _, m := range members {
		f, ok := files[m]
		if !ok {
			log.Printf("[vfs] %q has no member %q", path, m)
			continue
		}
		result = append(result, &ZipMember{archive: path, member: m, size: int64(f.UncompressedSize64)})
	}
	if len(result) == 0 {
		return nil, errors.Errorf("Archive %q contains none of %v", path, members)
	}
	return result, nil
}

func (zm *ZipMember) Name() string {
	return zm.archive + "!" + zm.member
}

func (zm *ZipMember) Dir() string {
	return filepath.Dir(zm.archive)
}

func (zm *ZipMember) Size() int64 {
	return zm.size
}

func (zm *ZipMember) Read() ([]byte, error) {
	zr, err := zip.OpenReader(zm.archive)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open archive %q", zm.archive)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != zm.member {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot open member %q", zm.member)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot read member %q", zm.member)
		}
		return data, nil
	}
	return nil, errors.Errorf("Member %q disappeared from %q", zm.member, zm.archive)
}
