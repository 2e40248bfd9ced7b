package pixel

import "fmt"

// Format is the pixel encoding tag stored with every texture record.
type Format uint8

const (
	RGBA8888 Format = 0x0
	RGB565   Format = 0x2
	RGBA4444 Format = 0x3
	RGBA5551 Format = 0x4
	L8       Format = 0x8
	L8Alt    Format = 0x9
	Indexed8 Format = 0xA
	DXT1     Format = 0xB
	DXT5     Format = 0xC
	// Raw payload is a complete embedded image file (usually jpeg)
	Raw Format = 0xD
)

const PaletteMaxEntries = 256

var formatNames = map[Format]string{
	RGBA8888: "RGBA8888",
	RGB565:   "RGB565",
	RGBA4444: "RGBA4444",
	RGBA5551: "RGBA5551",
	L8:       "L8",
	L8Alt:    "L8Alt",
	Indexed8: "Indexed8",
	DXT1:     "DXT1",
	DXT5:     "DXT5",
	Raw:      "Raw",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(0x%x)", uint8(f))
}

// BytesPerPixel is zero for block, raw and unknown formats
func (f Format) BytesPerPixel() int {
	switch f {
	case RGBA8888:
		return 4
	case RGB565, RGBA4444, RGBA5551:
		return 2
	case L8, L8Alt, Indexed8:
		return 1
	}
	return 0
}

func blockBytes(f Format) int {
	switch f {
	case DXT1:
		return 8
	case DXT5:
		return 16
	}
	return 0
}

func blocksCount(width, height int) int {
	return ((width + 3) / 4) * ((height + 3) / 4)
}

// StoredSize returns amount of bytes a width x height image occupies.
// Indexed8 assumes full palette. ok is false for Raw and unknown formats.
func (f Format) StoredSize(width, height int) (size int, ok bool) {
	switch f {
	case RGBA8888, RGB565, RGBA4444, RGBA5551, L8, L8Alt:
		return width * height * f.BytesPerPixel(), true
	case Indexed8:
		return width*height + PaletteMaxEntries*4, true
	case DXT1, DXT5:
		return blocksCount(width, height) * blockBytes(f), true
	}
	return 0, false
}
