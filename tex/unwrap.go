package tex

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

const (
	WrapMagic      = "IOSCh"
	WrapHeaderSize = 12
)

// Wrapped reports whether buf starts with the xor+deflate envelope
func Wrapped(buf []byte) bool {
	return len(buf) >= len(WrapMagic) && string(buf[:len(WrapMagic)]) == WrapMagic
}

// Unwrap removes IOSCh envelope: header byte 5 is xor key for the rest of the file,
// which then is a raw deflate stream. Buffers without envelope are returned as is.
func Unwrap(buf []byte) ([]byte, error) {
	if !Wrapped(buf) {
		return buf, nil
	}
	if len(buf) < WrapHeaderSize {
		return nil, errors.Errorf("envelope header truncated: %d bytes", len(buf))
	}

	key := buf[len(WrapMagic)]
	body := make([]byte, len(buf)-WrapHeaderSize)
	for i, b := range buf[WrapHeaderSize:] {
		body[i] = b ^ key
	}

	fr := flate.NewReader(bytes.NewReader(body))
	defer fr.Close()

	data, err := io.ReadAll(fr)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to inflate envelope (key 0x%.2x)", key)
	}
	return data, nil
}
