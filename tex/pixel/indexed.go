package pixel

import "github.com/pkg/errors"

// decodeIndexed expects width*height index bytes followed by the palette,
// up to 256 RGBA8888 entries.
func decodeIndexed(payload []byte, width, height int) (*Buffer, error) {
	count := width * height
	if err := needBytes(payload, count+4, Indexed8); err != nil {
		return nil, err
	}

	palette := payload[count:]
	if len(palette)%4 != 0 || len(palette) > PaletteMaxEntries*4 {
		return nil, errors.Wrapf(ErrLengthMismatch, "palette of 0x%x bytes", len(palette))
	}
	entries := len(palette) / 4

	buf := NewBuffer(width, height)
	for i, idx := range payload[:count] {
		if int(idx) >= entries {
			return nil, errors.Wrapf(ErrInvalidIndex, "index %d at pixel (%d,%d), palette has %d entries",
				idx, i%width, i/width, entries)
		}
		copy(buf.Pix[i*4:i*4+4], palette[int(idx)*4:])
	}
	return buf, nil
}
