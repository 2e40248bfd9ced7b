package tex

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mogaika/pad_texture_tool/tex/pixel"
)

// MaxDimension bounds record sizes and tile canvases, same range as 12-bit legacy dimensions
const MaxDimension = 0x1000

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrEmptyContainer  = errors.New("empty container")
)

type Layout int

const (
	LayoutNone Layout = iota
	// PTEX descriptor table
	LayoutTable
	// TEX blocks aligned to 16 bytes
	LayoutBlocks
)

func (l Layout) String() string {
	switch l {
	case LayoutTable:
		return "table"
	case LayoutBlocks:
		return "blocks"
	}
	return "none"
}

// RecordHeader describes one texture record inside a container.
// ByteOffset+StoredLength never exceeds the container length.
type RecordHeader struct {
	Index              int
	Name               string
	ByteOffset         uint32
	StoredLength       uint32
	DecompressedLength uint32
	Width              uint16
	Height             uint16
	Format             pixel.Format
	Compressed         bool

	TileIndex    uint16
	TileCount    uint16
	TileX        uint16
	TileY        uint16
	CanvasWidth  uint16
	CanvasHeight uint16
}

func (h *RecordHeader) Tiled() bool {
	return h.TileCount > 1
}

func (h *RecordHeader) String() string {
	s := fmt.Sprintf("#%d %q %dx%d %v @0x%x+0x%x", h.Index, h.Name, h.Width, h.Height, h.Format, h.ByteOffset, h.StoredLength)
	if h.Compressed {
		s += fmt.Sprintf(" lz->0x%x", h.DecompressedLength)
	}
	if h.Tiled() {
		s += fmt.Sprintf(" tile %d/%d at (%d,%d)", h.TileIndex, h.TileCount, h.TileX, h.TileY)
	}
	return s
}

type MalformedRecordError struct {
	Index  int
	Name   string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	s := fmt.Sprintf("record #%d %q: %s", e.Index, e.Name, e.Reason)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// Table is the result of scanning one container.
type Table struct {
	Layout   Layout
	Records  []RecordHeader
	Problems []*MalformedRecordError
}

func (t *Table) add(h RecordHeader, containerLen int) {
	if uint64(h.ByteOffset)+uint64(h.StoredLength) > uint64(containerLen) {
		t.reject(h.Index, h.Name, fmt.Sprintf("data 0x%x+0x%x past container end 0x%x",
			h.ByteOffset, h.StoredLength, containerLen), nil)
		return
	}
	if h.Format != pixel.Raw && (h.Width == 0 || h.Height == 0) {
		t.reject(h.Index, h.Name, fmt.Sprintf("empty dimensions %dx%d", h.Width, h.Height), nil)
		return
	}
	if h.Width > MaxDimension || h.Height > MaxDimension {
		t.reject(h.Index, h.Name, fmt.Sprintf("dimensions %dx%d over limit 0x%x", h.Width, h.Height, MaxDimension), nil)
		return
	}
	if h.Tiled() {
		if h.TileIndex >= h.TileCount {
			t.reject(h.Index, h.Name, fmt.Sprintf("tile index %d out of %d", h.TileIndex, h.TileCount), nil)
			return
		}
		right, bottom := int(h.TileX)+int(h.Width), int(h.TileY)+int(h.Height)
		if right > MaxDimension || bottom > MaxDimension ||
			h.CanvasWidth > MaxDimension || h.CanvasHeight > MaxDimension {
			t.reject(h.Index, h.Name, fmt.Sprintf("tile extent %dx%d or canvas %dx%d over limit 0x%x",
				right, bottom, h.CanvasWidth, h.CanvasHeight, MaxDimension), nil)
			return
		}
	}
	t.Records = append(t.Records, h)
}

func (t *Table) reject(index int, name, reason string, err error) {
	t.Problems = append(t.Problems, &MalformedRecordError{
		Index:  index,
		Name:   name,
		Reason: reason,
		Err:    err,
	})
}
