package pixel

import "encoding/binary"

// Based on github.com/xdanieldzd/GXTConvert

type rgb struct {
	r, g, b uint16
}

func dxColors(color0, color1 uint16) [4]rgb {
	var c [4]rgb
	c[0].r, c[0].g, c[0].b = unpack565u(color0)
	c[1].r, c[1].g, c[1].b = unpack565u(color1)

	if color0 > color1 {
		c[2] = rgb{(2*c[0].r + c[1].r) / 3, (2*c[0].g + c[1].g) / 3, (2*c[0].b + c[1].b) / 3}
		c[3] = rgb{(c[0].r + 2*c[1].r) / 3, (c[0].g + 2*c[1].g) / 3, (c[0].b + 2*c[1].b) / 3}
	} else {
		c[2] = rgb{(c[0].r + c[1].r) / 2, (c[0].g + c[1].g) / 2, (c[0].b + c[1].b) / 2}
		// c[3] black
	}
	return c
}

func unpack565u(v uint16) (r, g, b uint16) {
	rb, gb, bb := unpack565(v)
	return uint16(rb), uint16(gb), uint16(bb)
}

// decompressBlockDXT1 writes 16 pixels (4 bytes each) of one 8-byte block
func decompressBlockDXT1(block []byte, out []byte) {
	color0 := binary.LittleEndian.Uint16(block[0:])
	color1 := binary.LittleEndian.Uint16(block[2:])
	code := binary.LittleEndian.Uint32(block[4:])

	colors := dxColors(color0, color1)
	for i := 0; i < 16; i++ {
		c := colors[(code>>(2*i))&3]
		out[i*4+0] = byte(c.r)
		out[i*4+1] = byte(c.g)
		out[i*4+2] = byte(c.b)
		// index 3 in three-colour mode is opaque black, alpha is never punched through
		out[i*4+3] = 0xff
	}
}

func dxAlphas(alpha0, alpha1 uint32) [8]byte {
	var a [8]byte
	a[0], a[1] = byte(alpha0), byte(alpha1)
	if alpha0 > alpha1 {
		for code := uint32(2); code < 8; code++ {
			a[code] = byte(((8-code)*alpha0 + (code-1)*alpha1) / 7)
		}
	} else {
		for code := uint32(2); code < 6; code++ {
			a[code] = byte(((6-code)*alpha0 + (code-1)*alpha1) / 5)
		}
		a[6], a[7] = 0, 0xff
	}
	return a
}

// decompressBlockDXT5 writes 16 pixels of one 16-byte block:
// 8 bytes of interpolated alpha followed by a DXT1 colour block
func decompressBlockDXT5(block []byte, out []byte) {
	alphas := dxAlphas(uint32(block[0]), uint32(block[1]))

	var alphaCode uint64
	for i := 0; i < 6; i++ {
		alphaCode |= uint64(block[2+i]) << (8 * i)
	}

	decompressBlockDXT1(block[8:], out)
	for i := 0; i < 16; i++ {
		out[i*4+3] = alphas[(alphaCode>>(3*i))&7]
	}
}

// decodeBlocks expands 4x4 blocks in row-major block order.
// Pixels of edge blocks outside of width x height are dropped.
func decodeBlocks(payload []byte, width, height int, format Format, method func(block, out []byte)) (*Buffer, error) {
	size := blockBytes(format)
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	if err := needBytes(payload, blocksW*blocksH*size, format); err != nil {
		return nil, err
	}

	buf := NewBuffer(width, height)
	var colors [16 * 4]byte

	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			block := payload[(by*blocksW+bx)*size:]
			method(block, colors[:])

			for py := 0; py < 4; py++ {
				y := by*4 + py
				if y >= height {
					break
				}
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					if x >= width {
						break
					}
					src := (py*4 + px) * 4
					copy(buf.Pix[buf.Offset(x, y):], colors[src:src+4])
				}
			}
		}
	}
	return buf, nil
}
