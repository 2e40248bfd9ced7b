// Package export writes logical images as png files.
package export

import (
	"image"
	"log"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/pkg/errors"

	"github.com/mogaika/pad_texture_tool/tex/pixel"
)

var ErrEmptyImage = errors.New("empty image")

type Options struct {
	Trim    bool
	Blacken bool
}

// Writer is safe for concurrent use by extraction workers
type Writer struct {
	Options
	names names
}

func NewWriter(opts Options) *Writer {
	return &Writer{Options: opts}
}

// Prepare applies trimming and blackening to a copy of buffer.
// Returns ErrEmptyImage when nothing but zero bytes is left.
func Prepare(buf *pixel.Buffer, opts Options) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	copy(img.Pix, buf.Pix)

	if opts.Trim {
		img = trim(img)
	}
	if opts.Blacken {
		blacken(img)
	}
	if allZero(img) {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// WriteImage stores buf into dir and returns path of written file
func (w *Writer) WriteImage(dir, name string, buf *pixel.Buffer) (string, error) {
	img, err := Prepare(buf, w.Options)
	if err != nil {
		return "", errors.Wrapf(err, "%q", name)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "Cannot create output directory")
	}

	path := w.names.reserve(dir, FileName(name))
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return "", errors.Wrapf(err, "Cannot save %q", path)
	}
	log.Printf("[export] Writing %s (%d x %d)...", path, img.Rect.Dx(), img.Rect.Dy())
	return path, nil
}
