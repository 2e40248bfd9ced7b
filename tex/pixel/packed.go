package pixel

import "encoding/binary"

// expand replicates top bits of a bits-wide value into the low bits of a byte.
// Keeps 0 -> 0 and max -> 255.
func expand(v uint16, bits uint) byte {
	switch {
	case bits == 1:
		return byte(v) * 0xff
	case bits >= 4:
		return byte(v<<(8-bits) | v>>(2*bits-8))
	}
	panic("unsupported channel width")
}

func unpack565(v uint16) (r, g, b byte) {
	r = expand((v>>11)&0x1f, 5)
	g = expand((v>>5)&0x3f, 6)
	b = expand(v&0x1f, 5)
	return
}

func decodePacked(payload []byte, width, height int, format Format) (*Buffer, error) {
	bpp := format.BytesPerPixel()
	if err := needBytes(payload, width*height*bpp, format); err != nil {
		return nil, err
	}

	buf := NewBuffer(width, height)
	pix := buf.Pix

	for i, o := 0, 0; o < len(pix); i, o = i+bpp, o+4 {
		switch format {
		case RGBA8888:
			copy(pix[o:o+4], payload[i:i+4])
		case RGB565:
			pix[o], pix[o+1], pix[o+2] = unpack565(binary.LittleEndian.Uint16(payload[i:]))
			pix[o+3] = 0xff
		case RGBA4444:
			v := binary.LittleEndian.Uint16(payload[i:])
			pix[o] = byte((v>>12)&0xf) * 17
			pix[o+1] = byte((v>>8)&0xf) * 17
			pix[o+2] = byte((v>>4)&0xf) * 17
			pix[o+3] = byte(v&0xf) * 17
		case RGBA5551:
			v := binary.LittleEndian.Uint16(payload[i:])
			pix[o] = expand((v>>11)&0x1f, 5)
			pix[o+1] = expand((v>>6)&0x1f, 5)
			pix[o+2] = expand((v>>1)&0x1f, 5)
			pix[o+3] = expand(v&1, 1)
		case L8, L8Alt:
			l := payload[i]
			pix[o], pix[o+1], pix[o+2], pix[o+3] = l, l, l, 0xff
		}
	}
	return buf, nil
}
