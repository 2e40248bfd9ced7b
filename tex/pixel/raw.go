package pixel

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/pkg/errors"
)

func decodeRaw(payload []byte) (*Buffer, error) {
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, errors.Wrapf(ErrUnsupportedFormat, "embedded image: %v", err)
		}
		return nil, errors.Wrapf(err, "Failed to decode embedded image")
	}
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) && nrgba.Stride == nrgba.Rect.Dx()*4 {
		return &Buffer{Width: nrgba.Rect.Dx(), Height: nrgba.Rect.Dy(), Pix: nrgba.Pix}, nil
	}
	return FromImage(img), nil
}
