package readat

import (
	"testing"

	"github.com/pkg/errors"
)

func TestReadLittleEndian(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05})

	if v, err := r.ReadU8(4); err != nil || v != 0x05 {
		t.Errorf("ReadU8(4)=%#x,%v; expected 0x5", v, err)
	}
	if v, err := r.ReadU16LE(1); err != nil || v != 0x0302 {
		t.Errorf("ReadU16LE(1)=%#x,%v; expected 0x302", v, err)
	}
	if v, err := r.ReadU32LE(1); err != nil || v != 0x05040302 {
		t.Errorf("ReadU32LE(1)=%#x,%v; expected 0x5040302", v, err)
	}
}

func TestOutOfBounds(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	r := NewReader(buf)

	for off := len(buf); off < len(buf)+16; off++ {
		if _, err := r.ReadU8(off); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ReadU8(%d) err=%v; expected ErrOutOfBounds", off, err)
		}
		if _, err := r.ReadU16LE(off); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ReadU16LE(%d) err=%v; expected ErrOutOfBounds", off, err)
		}
		if _, err := r.ReadU32LE(off); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ReadU32LE(%d) err=%v; expected ErrOutOfBounds", off, err)
		}
	}

	// reads straddling the end
	if _, err := r.ReadU32LE(5); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadU32LE(5) err=%v; expected ErrOutOfBounds", err)
	}
	if _, err := r.ReadU16LE(7); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadU16LE(7) err=%v; expected ErrOutOfBounds", err)
	}
	if _, err := r.ReadU8(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadU8(-1) err=%v; expected ErrOutOfBounds", err)
	}
	if _, err := r.Slice(4, 5); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Slice(4,5) err=%v; expected ErrOutOfBounds", err)
	}
	if _, err := r.Slice(2, -1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Slice(2,-1) err=%v; expected ErrOutOfBounds", err)
	}
}

func TestSubReader(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 0xaa, 0xbb, 0xcc})

	sub, err := r.SubReader(3)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Offset() != 3 || sub.Len() != 3 {
		t.Errorf("sub offset=%d len=%d; expected 3 3", sub.Offset(), sub.Len())
	}
	if v, err := sub.ReadU16LE(1); err != nil || v != 0xccbb {
		t.Errorf("sub.ReadU16LE(1)=%#x,%v; expected 0xccbb", v, err)
	}
	if _, err := sub.ReadU8(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("sub.ReadU8(3) err=%v; expected ErrOutOfBounds", err)
	}
	if _, err := r.SubReader(7); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SubReader(7) err=%v; expected ErrOutOfBounds", err)
	}
}

func TestSliceIsBorrowed(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	s, err := NewReader(buf).Slice(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if &s[0] != &buf[1] {
		t.Errorf("Slice copied data; expected a view into the source buffer")
	}
	if cap(s) != 2 {
		t.Errorf("cap(Slice(1,2))=%d; expected 2", cap(s))
	}
}
