package readat

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var ErrOutOfBounds = errors.New("read out of bounds")

// Reader is a bounds-checked view over an in-memory buffer.
// Offsets passed to the Read* methods are relative to the reader origin.
type Reader struct {
	buf    []byte
	offset int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns reader origin inside the root buffer
func (r *Reader) Offset() int {
	return r.offset
}

// Len returns amount of bytes visible to the reader
func (r *Reader) Len() int {
	return len(r.buf) - r.offset
}

func (r *Reader) SubReader(offset int) (*Reader, error) {
	if offset < 0 || offset > r.Len() {
		return nil, errors.Wrapf(ErrOutOfBounds, "subreader at 0x%x (len 0x%x)", offset, r.Len())
	}
	return &Reader{
		buf:    r.buf,
		offset: r.offset + offset,
	}, nil
}

func (r *Reader) check(off, size int) error {
	if off < 0 || size < 0 || off > r.Len() || size > r.Len()-off {
		return errors.Wrapf(ErrOutOfBounds, "read 0x%x bytes at 0x%x (len 0x%x)", size, off, r.Len())
	}
	return nil
}

// Slice returns borrowed bytes [off, off+size). Caller must not modify them.
func (r *Reader) Slice(off, size int) ([]byte, error) {
	if err := r.check(off, size); err != nil {
		return nil, err
	}
	start := r.offset + off
	return r.buf[start : start+size : start+size], nil
}

func (r *Reader) ReadU8(off int) (uint8, error) {
	b, err := r.Slice(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16LE(off int) (uint16, error) {
	b, err := r.Slice(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadU32LE(off int) (uint32, error) {
	b, err := r.Slice(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
