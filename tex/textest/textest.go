// Package textest builds synthetic containers for tests.
package textest

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/flate"
	"github.com/pierrec/lz4/v4"

	"github.com/mogaika/pad_texture_tool/tex"
	"github.com/mogaika/pad_texture_tool/tex/pixel"
)

// Record is a texture to place into a synthetic container.
type Record struct {
	Name          string
	Format        pixel.Format
	Width, Height uint16
	// Data is the decompressed payload
	Data     []byte
	Compress bool

	// Stored replaces stored bytes (compressed or not) when not nil
	Stored []byte
	// ExpectedLength overrides declared decompressed length when not zero
	ExpectedLength uint32
	// ByteOffset overrides declared data offset when not zero
	ByteOffset uint32

	TileIndex, TileCount uint16
	TileX, TileY         uint16
	CanvasW, CanvasH     uint16
}

func (r *Record) stored() []byte {
	if r.Stored != nil {
		return r.Stored
	}
	if r.Compress {
		return Compress(r.Data)
	}
	return r.Data
}

func putName(dst []byte, name string) {
	copy(dst, name)
}

// Table builds PTEX container: header, descriptors, then payloads back to back
func Table(records ...Record) []byte {
	dataStart := tex.TableHeaderSize + len(records)*tex.TableDescriptorSize
	buf := make([]byte, dataStart)

	copy(buf, tex.TableMagic)
	binary.LittleEndian.PutUint16(buf[4:], tex.TableVersion)
	binary.LittleEndian.PutUint32(buf[8:], uint32(len(records)))
	binary.LittleEndian.PutUint32(buf[0xc:], tex.TableHeaderSize)

	for i := range records {
		r := &records[i]
		stored := r.stored()
		d := buf[tex.TableHeaderSize+i*tex.TableDescriptorSize:]

		offset := uint32(len(buf))
		if r.ByteOffset != 0 {
			offset = r.ByteOffset
		}
		expected := uint32(len(r.Data))
		if r.ExpectedLength != 0 {
			expected = r.ExpectedLength
		}
		var flags byte
		if r.Compress {
			flags |= tex.FlagCompressed
		}

		putName(d[:tex.NameSize], r.Name)
		binary.LittleEndian.PutUint32(d[0x18:], offset)
		binary.LittleEndian.PutUint32(d[0x1c:], uint32(len(stored)))
		binary.LittleEndian.PutUint32(d[0x20:], expected)
		binary.LittleEndian.PutUint16(d[0x24:], r.Width)
		binary.LittleEndian.PutUint16(d[0x26:], r.Height)
		d[0x28] = byte(r.Format)
		d[0x29] = flags
		binary.LittleEndian.PutUint16(d[0x2a:], r.TileIndex)
		binary.LittleEndian.PutUint16(d[0x2c:], r.TileCount)
		binary.LittleEndian.PutUint16(d[0x2e:], r.TileX)
		binary.LittleEndian.PutUint16(d[0x30:], r.TileY)
		binary.LittleEndian.PutUint16(d[0x32:], r.CanvasW)
		binary.LittleEndian.PutUint16(d[0x34:], r.CanvasH)

		buf = append(buf, stored...)
	}
	return buf
}

func align(buf []byte) []byte {
	for len(buf)%tex.BlockAlignment != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// Blocks builds legacy container made of TEX blocks, one block per argument.
// Raw records store their byte count inside the name field.
func Blocks(blocks ...[]Record) []byte {
	var buf []byte
	for _, records := range blocks {
		buf = align(buf)
		start := len(buf)

		header := make([]byte, tex.BlockHeaderSize)
		copy(header, tex.BlockMagic)
		header[4] = byte(len(records))
		buf = append(buf, header...)

		manifests := len(buf)
		buf = append(buf, make([]byte, len(records)*tex.ManifestSize)...)

		for i := range records {
			r := &records[i]
			buf = align(buf)

			m := buf[manifests+i*tex.ManifestSize:]
			binary.LittleEndian.PutUint32(m[0:], uint32(len(buf)-start))
			binary.LittleEndian.PutUint16(m[4:], uint16(r.Format)<<12|r.Width&0xfff)
			binary.LittleEndian.PutUint16(m[6:], r.Height&0xfff)
			if r.Format == pixel.Raw {
				putName(m[8:28], r.Name)
				binary.LittleEndian.PutUint32(m[28:], uint32(len(r.Data)))
			} else {
				putName(m[8:32], r.Name)
			}

			buf = append(buf, r.Data...)
		}
	}
	// scanner needs a byte past the last header slot
	return append(align(buf), make([]byte, tex.BlockAlignment)...)
}

// Wrap puts data into IOSCh xor+deflate envelope
func Wrap(data []byte, key byte) []byte {
	var body bytes.Buffer
	fw, err := flate.NewWriter(&body, flate.BestCompression)
	if err != nil {
		panic(err)
	}
	if _, err := fw.Write(data); err != nil {
		panic(err)
	}
	if err := fw.Close(); err != nil {
		panic(err)
	}

	out := make([]byte, tex.WrapHeaderSize, tex.WrapHeaderSize+body.Len())
	copy(out, tex.WrapMagic)
	out[len(tex.WrapMagic)] = key
	for _, b := range body.Bytes() {
		out = append(out, b^key)
	}
	return out
}

// Compress produces lz token stream, falling back to literal-only stream
// for data lz4 considers incompressible
func Compress(data []byte) []byte {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		panic(err)
	}
	if n == 0 {
		return LiteralBlock(data)
	}
	return dst[:n]
}

func appendLength(buf []byte, n int) []byte {
	for n -= 0xf; n >= 0xff; n -= 0xff {
		buf = append(buf, 0xff)
	}
	return append(buf, byte(n))
}

// LiteralBlock encodes data as one literal run
func LiteralBlock(data []byte) []byte {
	return Sequence(data, -1, 0)
}

// Sequence encodes literals followed by a match of matchLen bytes at distance.
// Negative distance omits the match part (stream end).
func Sequence(literals []byte, distance int, matchLen int) []byte {
	var token byte
	litNibble := len(literals)
	if litNibble >= 0xf {
		litNibble = 0xf
	}
	token = byte(litNibble) << 4

	matchNibble := 0
	if distance >= 0 {
		matchNibble = matchLen - 4
		if matchNibble >= 0xf {
			matchNibble = 0xf
		}
		token |= byte(matchNibble)
	}

	buf := []byte{token}
	if litNibble == 0xf {
		buf = appendLength(buf, len(literals))
	}
	buf = append(buf, literals...)
	if distance >= 0 {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(distance))
		if matchNibble == 0xf {
			buf = appendLength(buf, matchLen-4)
		}
	}
	return buf
}
