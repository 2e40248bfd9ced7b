// Package pixel converts record payloads into straight-alpha RGBA8 buffers.
package pixel

import (
	"image"

	"github.com/pkg/errors"
)

var (
	ErrInvalidIndex      = errors.New("invalid palette index")
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	ErrLengthMismatch    = errors.New("payload length mismatch")
)

// Buffer holds width*height pixels, 4 bytes (R,G,B,A) each, rows from top.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// Image returns non-premultiplied view sharing Pix
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromImage copies any image into a new buffer
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	buf := NewBuffer(bounds.Dx(), bounds.Dy())
	dst := buf.Image()
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			dst.Set(x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return buf
}

// Decode unpacks payload of given format into a freshly allocated buffer.
// Raw format takes dimensions from the embedded image instead of width/height.
func Decode(payload []byte, width, height int, format Format) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, errors.Errorf("Invalid dimensions %dx%d", width, height)
	}

	switch format {
	case RGBA8888, RGB565, RGBA4444, RGBA5551, L8, L8Alt:
		return decodePacked(payload, width, height, format)
	case Indexed8:
		return decodeIndexed(payload, width, height)
	case DXT1:
		return decodeBlocks(payload, width, height, format, decompressBlockDXT1)
	case DXT5:
		return decodeBlocks(payload, width, height, format, decompressBlockDXT5)
	case Raw:
		return decodeRaw(payload)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "tag 0x%x", uint8(format))
	}
}

func needBytes(payload []byte, need int, format Format) error {
	if len(payload) < need {
		return errors.Wrapf(ErrLengthMismatch, "%v needs 0x%x bytes, got 0x%x", format, need, len(payload))
	}
	return nil
}
