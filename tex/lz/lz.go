// Package lz reconstructs record payloads stored as LZ token streams.
//
// The stream uses the LZ4 block layout. Every sequence starts with a token byte:
// the high nibble is the literal count and the low nibble is the match length
// minus 4. A nibble value of 15 is continued by extension bytes that are added
// to it while they equal 255. Literals follow the token, then a little-endian
// u16 distance that points back into already produced output.
package lz

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	MinMatch = 4

	nibbleMax = 0xf
)

var (
	ErrLengthMismatch       = errors.New("length mismatch")
	ErrTruncatedStream      = errors.New("truncated stream")
	ErrInvalidBackReference = errors.New("invalid back-reference")
)

// Decompress returns exactly expected bytes of payload.
// Uncompressed payloads are copied and must already have the expected size.
func Decompress(raw []byte, expected int, compressed bool) ([]byte, error) {
	if expected < 0 {
		return nil, errors.Wrapf(ErrLengthMismatch, "negative expected length %d", expected)
	}
	if !compressed {
		if len(raw) != expected {
			return nil, errors.Wrapf(ErrLengthMismatch, "stored 0x%x bytes, expected 0x%x", len(raw), expected)
		}
		out := make([]byte, expected)
		copy(out, raw)
		return out, nil
	}
	return decodeBlock(raw, expected)
}

type stream struct {
	src []byte
	pos int
}

func (s *stream) byte() (byte, error) {
	if s.pos >= len(s.src) {
		return 0, errors.Wrapf(ErrTruncatedStream, "need byte at 0x%x", s.pos)
	}
	b := s.src[s.pos]
	s.pos++
	return b, nil
}

// length expands a nibble with its 255-continued extension bytes
func (s *stream) length(nibble int) (int, error) {
	n := nibble
	if nibble != nibbleMax {
		return n, nil
	}
	for {
		b, err := s.byte()
		if err != nil {
			return 0, err
		}
		n += int(b)
		if b != 0xff {
			return n, nil
		}
	}
}

func decodeBlock(src []byte, expected int) ([]byte, error) {
	// one source byte never expands to more than 255 output bytes
	out := make([]byte, 0, min(expected, len(src)*255+16))
	s := &stream{src: src}

	for len(out) < expected {
		token, err := s.byte()
		if err != nil {
			return nil, errors.Wrapf(err, "output 0x%x of 0x%x", len(out), expected)
		}

		literals, err := s.length(int(token >> 4))
		if err != nil {
			return nil, errors.Wrapf(err, "literal length at output 0x%x", len(out))
		}
		if literals > len(src)-s.pos {
			return nil, errors.Wrapf(ErrTruncatedStream,
				"literal run of 0x%x at 0x%x, only 0x%x left", literals, s.pos, len(src)-s.pos)
		}
		if room := expected - len(out); literals > room {
			literals = room
		}
		out = append(out, src[s.pos:s.pos+literals]...)
		s.pos += literals

		if len(out) == expected {
			break
		}

		if len(src)-s.pos < 2 {
			return nil, errors.Wrapf(ErrTruncatedStream, "distance at 0x%x", s.pos)
		}
		distance := int(binary.LittleEndian.Uint16(src[s.pos:]))
		s.pos += 2
		if distance == 0 || distance > len(out) {
			return nil, errors.Wrapf(ErrInvalidBackReference,
				"distance 0x%x with 0x%x bytes of output", distance, len(out))
		}

		match, err := s.length(int(token & nibbleMax))
		if err != nil {
			return nil, errors.Wrapf(err, "match length at output 0x%x", len(out))
		}
		match += MinMatch
		if room := expected - len(out); match > room {
			match = room
		}

		// byte by byte: the source may overlap bytes this loop is writing
		from := len(out) - distance
		for i := 0; i < match; i++ {
			out = append(out, out[from+i])
		}
	}

	return out, nil
}
