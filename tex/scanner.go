package tex

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mogaika/pad_texture_tool/readat"
	"github.com/mogaika/pad_texture_tool/tex/pixel"
)

const (
	TableMagic          = "PTEX"
	TableVersion        = 1
	TableHeaderSize     = 0x10
	TableDescriptorSize = 0x40

	FlagCompressed = 0x01

	NameSize = 24
)

type scanner struct {
	names encoding.Encoding
}

type Option func(*scanner)

// WithNameEncoding sets text encoding of record names (utf-8 by default)
func WithNameEncoding(enc encoding.Encoding) Option {
	return func(s *scanner) {
		if enc != nil {
			s.names = enc
		}
	}
}

// Scan enumerates texture records of an unwrapped container.
// Only an empty buffer is fatal; broken records are collected into Table.Problems.
func Scan(buf []byte, opts ...Option) (*Table, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyContainer
	}

	s := &scanner{names: unicode.UTF8}
	for _, opt := range opts {
		opt(s)
	}

	r := readat.NewReader(buf)
	if bytes.HasPrefix(buf, []byte(TableMagic)) {
		return s.scanTable(r)
	}
	return s.scanBlocks(r), nil
}

func (s *scanner) name(raw []byte) string {
	if n := bytes.IndexByte(raw, 0); n >= 0 {
		raw = raw[:n]
	}
	str, _, err := transform.Bytes(s.names.NewDecoder(), raw)
	if err != nil {
		return fmt.Sprintf("%x", raw)
	}
	return string(str)
}

func (s *scanner) scanTable(r *readat.Reader) (*Table, error) {
	t := &Table{Layout: LayoutTable}

	version, err := r.ReadU16LE(4)
	if err != nil {
		return nil, errors.Wrapf(err, "table header")
	}
	if version != TableVersion {
		return nil, errors.Errorf("Unsupported table version %d", version)
	}
	count, err := r.ReadU32LE(8)
	if err != nil {
		return nil, errors.Wrapf(err, "table header")
	}
	base, err := r.ReadU32LE(0xc)
	if err != nil {
		return nil, errors.Wrapf(err, "table header")
	}

	for i := 0; i < int(count); i++ {
		pos := uint64(base) + uint64(i)*TableDescriptorSize
		if pos+TableDescriptorSize > uint64(r.Len()) {
			t.reject(i, "", fmt.Sprintf("descriptor at 0x%x (%d of %d)", pos, i, count),
				errors.Wrapf(readat.ErrOutOfBounds, "container len 0x%x", r.Len()))
			break
		}
		h, err := s.descriptor(r, int(pos), i)
		if err != nil {
			t.reject(i, "", "descriptor", err)
			continue
		}
		t.add(h, r.Len())
	}
	return t, nil
}

func (s *scanner) descriptor(r *readat.Reader, pos int, index int) (RecordHeader, error) {
	h := RecordHeader{Index: index}

	d, err := r.SubReader(pos)
	if err != nil {
		return h, err
	}
	raw, err := d.Slice(0, TableDescriptorSize)
	if err != nil {
		return h, err
	}
	h.Name = s.name(raw[:NameSize])

	fields := []struct {
		off int
		u32 *uint32
		u16 *uint16
	}{
		{off: 0x18, u32: &h.ByteOffset},
		{off: 0x1c, u32: &h.StoredLength},
		{off: 0x20, u32: &h.DecompressedLength},
		{off: 0x24, u16: &h.Width},
		{off: 0x26, u16: &h.Height},
		{off: 0x2a, u16: &h.TileIndex},
		{off: 0x2c, u16: &h.TileCount},
		{off: 0x2e, u16: &h.TileX},
		{off: 0x30, u16: &h.TileY},
		{off: 0x32, u16: &h.CanvasWidth},
		{off: 0x34, u16: &h.CanvasHeight},
	}
	for _, f := range fields {
		if f.u32 != nil {
			if *f.u32, err = d.ReadU32LE(f.off); err != nil {
				return h, err
			}
		} else if *f.u16, err = d.ReadU16LE(f.off); err != nil {
			return h, err
		}
	}

	format, err := d.ReadU8(0x28)
	if err != nil {
		return h, err
	}
	flags, err := d.ReadU8(0x29)
	if err != nil {
		return h, err
	}
	h.Format = pixel.Format(format)
	h.Compressed = flags&FlagCompressed != 0

	return h, nil
}
