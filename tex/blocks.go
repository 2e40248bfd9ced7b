package tex

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/mogaika/pad_texture_tool/readat"
	"github.com/mogaika/pad_texture_tool/tex/pixel"
)

const (
	BlockMagic      = "TEX"
	BlockHeaderSize = 0x10
	BlockAlignment  = 0x10
	ManifestSize    = 0x20

	rawNameSize = 20
	dimMask     = 0x0fff
)

// scanBlocks walks the buffer at 16 byte steps looking for TEX block headers.
// Each header is followed by manifests whose data offsets are relative to the header.
func (s *scanner) scanBlocks(r *readat.Reader) *Table {
	t := &Table{Layout: LayoutNone}
	index := 0

	for offset := 0; offset+BlockHeaderSize < r.Len(); offset += BlockAlignment {
		header, err := r.Slice(offset, BlockHeaderSize)
		if err != nil {
			break
		}
		if string(header[:len(BlockMagic)]) != BlockMagic {
			continue
		}
		t.Layout = LayoutBlocks

		blockStart := offset
		count := int(header[4])
		for i := 0; i < count; i++ {
			h, dataEnd, err := s.manifest(r, blockStart, blockStart+BlockHeaderSize+i*ManifestSize, index)
			if err != nil {
				t.reject(index, "", fmt.Sprintf("manifest %d of block at 0x%x", i, blockStart), err)
				index++
				break
			}
			t.add(h, r.Len())
			index++

			// resume at the last aligned slot still holding data
			if dataEnd > 0 {
				if aligned := int((dataEnd - 1) &^ (BlockAlignment - 1)); aligned > offset {
					offset = aligned
				}
			}
		}
	}
	return t
}

func (s *scanner) manifest(r *readat.Reader, blockStart, pos, index int) (RecordHeader, uint64, error) {
	h := RecordHeader{Index: index}

	m, err := r.Slice(pos, ManifestSize)
	if err != nil {
		return h, 0, err
	}
	mr := readat.NewReader(m)

	start, _ := mr.ReadU32LE(0)
	width, _ := mr.ReadU16LE(4)
	height, _ := mr.ReadU16LE(6)
	name, _ := mr.Slice(8, NameSize)

	h.Format = pixel.Format(width >> 12)
	h.Width = width & dimMask
	h.Height = height & dimMask

	var byteCount uint64
	if h.Format == pixel.Raw {
		count, _ := mr.ReadU32LE(8 + rawNameSize)
		byteCount = uint64(count)
		name = name[:rawNameSize]
	} else if size, ok := h.Format.StoredSize(int(h.Width), int(h.Height)); ok {
		byteCount = uint64(size)
	}
	h.Name = s.name(name)

	dataStart := uint64(blockStart) + uint64(start)
	dataEnd := dataStart + byteCount
	if dataEnd > math.MaxUint32 {
		return h, 0, errors.Errorf("data offset 0x%x overflows", dataStart)
	}
	h.ByteOffset = uint32(dataStart)
	h.StoredLength = uint32(byteCount)
	h.DecompressedLength = uint32(byteCount)

	return h, dataEnd, nil
}
