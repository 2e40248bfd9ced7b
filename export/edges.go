package export

import (
	"image"
)

func alphaAt(img *image.NRGBA, x, y int) uint8 {
	return img.Pix[img.PixOffset(x, y)+3]
}

func rowTransparent(img *image.NRGBA, y int) bool {
	for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
		if alphaAt(img, x, y) != 0 {
			return false
		}
	}
	return true
}

func columnTransparent(img *image.NRGBA, x, minY, maxY int) bool {
	for y := minY; y < maxY; y++ {
		if alphaAt(img, x, y) != 0 {
			return false
		}
	}
	return true
}

// trim cuts fully transparent rows and columns from every edge.
// Result is rebased to origin.
func trim(img *image.NRGBA) *image.NRGBA {
	r := img.Rect
	for r.Min.Y < r.Max.Y && rowTransparent(img, r.Min.Y) {
		r.Min.Y++
	}
	for r.Min.Y < r.Max.Y && rowTransparent(img, r.Max.Y-1) {
		r.Max.Y--
	}
	for r.Min.X < r.Max.X && columnTransparent(img, r.Min.X, r.Min.Y, r.Max.Y) {
		r.Min.X++
	}
	for r.Min.X < r.Max.X && columnTransparent(img, r.Max.X-1, r.Min.Y, r.Max.Y) {
		r.Max.X--
	}
	if r == img.Rect {
		return img
	}

	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	row := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		src := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:], img.Pix[src:src+row])
	}
	return out
}

// blacken zeroes colour of fully transparent pixels
func blacken(img *image.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = 0, 0, 0
		}
	}
}

func allZero(img *image.NRGBA) bool {
	for _, b := range img.Pix {
		if b != 0 {
			return false
		}
	}
	return true
}
