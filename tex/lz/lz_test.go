package lz_test

import (
	"bytes"
	"math/rand"
	"runtime"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/mogaika/pad_texture_tool/tex/lz"
	"github.com/mogaika/pad_texture_tool/tex/textest"
)

func roundTripInputs() map[string][]byte {
	rnd := rand.New(rand.NewSource(7))
	random := make([]byte, 3000)
	rnd.Read(random)

	pattern := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef, 0x00}, 900)

	mixed := make([]byte, 0, 8192)
	for i := 0; i < 64; i++ {
		mixed = append(mixed, random[i*11:i*11+17]...)
		mixed = append(mixed, bytes.Repeat([]byte{byte(i)}, i*3)...)
	}

	return map[string][]byte{
		"empty":   {},
		"single":  {0x42},
		"short":   []byte("puzzle"),
		"random":  random,
		"pattern": pattern,
		"zeros":   make([]byte, 70000),
		"mixed":   mixed,
	}
}

func TestRoundTrip(t *testing.T) {
	for name, src := range roundTripInputs() {
		for _, stream := range [][]byte{textest.Compress(src), textest.LiteralBlock(src)} {
			got, err := lz.Decompress(stream, len(src), true)
			if err != nil {
				t.Errorf("%s: Decompress error: %v", name, err)
				continue
			}
			if !bytes.Equal(got, src) {
				t.Errorf("%s: Decompress output differs from source", name)
			}
		}
	}
}

func TestMatchesReferenceDecoder(t *testing.T) {
	src := bytes.Repeat([]byte("MONS_00001.PNG"), 500)
	stream := textest.Compress(src)

	ref := make([]byte, len(src))
	n, err := lz4.UncompressBlock(stream, ref)
	if err != nil || n != len(src) {
		t.Fatalf("lz4.UncompressBlock=%d,%v", n, err)
	}

	got, err := lz.Decompress(stream, len(src), true)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, ref[:n]) {
		t.Errorf("Decompress differs from reference lz4 decoder")
	}
}

func TestOverlappingBackReference(t *testing.T) {
	// "ab" followed by a 10 byte match at distance 2
	stream := textest.Sequence([]byte("ab"), 2, 10)

	got, err := lz.Decompress(stream, 12, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abababababab" {
		t.Errorf("Decompress=%q; expected %q", got, "abababababab")
	}

	// run-length style: one literal repeated by distance 1
	stream = textest.Sequence([]byte{0x7f}, 1, 300)
	got, err = lz.Decompress(stream, 301, true)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0x7f}, 301)) {
		t.Errorf("run of distance 1 decoded incorrectly")
	}
}

func TestMatchClippedAtExpected(t *testing.T) {
	stream := textest.Sequence([]byte("xy"), 2, 20)
	got, err := lz.Decompress(stream, 7, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "xyxyxyx" {
		t.Errorf("Decompress=%q; expected %q", got, "xyxyxyx")
	}
}

func TestErrors(t *testing.T) {
	valid := textest.Compress(bytes.Repeat([]byte("abcd"), 64))

	var tests = []struct {
		name       string
		raw        []byte
		expected   int
		compressed bool
		err        error
	}{
		{"identity short", []byte{1, 2, 3}, 4, false, lz.ErrLengthMismatch},
		{"identity long", []byte{1, 2, 3}, 2, false, lz.ErrLengthMismatch},
		{"empty stream", nil, 4, true, lz.ErrTruncatedStream},
		{"truncated literals", []byte{0x50, 'a', 'b'}, 5, true, lz.ErrTruncatedStream},
		{"truncated extension", []byte{0xf0, 0xff}, 400, true, lz.ErrTruncatedStream},
		{"missing distance", []byte{0x11, 'a'}, 8, true, lz.ErrTruncatedStream},
		{"output short", valid[:len(valid)/2], 256, true, lz.ErrTruncatedStream},
		{"zero distance", textest.Sequence([]byte("ab"), 0, 4), 6, true, lz.ErrInvalidBackReference},
		{"distance past start", textest.Sequence([]byte("ab"), 3, 4), 6, true, lz.ErrInvalidBackReference},
		{"reference before literals", textest.Sequence(nil, 1, 4), 4, true, lz.ErrInvalidBackReference},
	}

	for _, test := range tests {
		_, err := lz.Decompress(test.raw, test.expected, test.compressed)
		if !errors.Is(err, test.err) {
			t.Errorf("%s: Decompress err=%v; expected %v", test.name, err, test.err)
		}
	}
}

func TestHugeDeclaredLength(t *testing.T) {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := lz.Decompress([]byte{0x10, 'a'}, 0x7ffffff0, true)
	runtime.ReadMemStats(&after)

	if !errors.Is(err, lz.ErrTruncatedStream) {
		t.Errorf("Decompress err=%v; expected ErrTruncatedStream", err)
	}
	if n := after.TotalAlloc - before.TotalAlloc; n > 1<<20 {
		t.Errorf("Decompress of 2 byte stream allocated %d bytes", n)
	}
}

func TestIdentityCopies(t *testing.T) {
	raw := []byte{9, 8, 7}
	got, err := lz.Decompress(raw, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 0
	if raw[0] != 9 {
		t.Errorf("Decompress returned the input slice; expected a copy")
	}
}
