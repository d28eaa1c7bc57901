package transform

import "github.com/ericlevine/qrcodec/bitmap"

// SampleGrid reads a size x size module grid out of the image through the
// destination-to-source transform. Each module is probed at its center
// (+0.5 in grid coordinates); the mapped position is truncated toward zero,
// not rounded, then clamped into the image, and the module is dark iff the
// sampled pixel is dark. The result is fully drawn.
func SampleGrid(image *bitmap.Bitmap, size int, pt *PerspectiveTransform) *bitmap.Bitmap {
	out := bitmap.New(size)
	for iy := 0; iy < size; iy++ {
		for ix := 0; ix < size; ix++ {
			sx, sy := pt.Apply(float64(ix)+0.5, float64(iy)+0.5)
			px := clamp(int(sx), image.Width()-1)
			py := clamp(int(sy), image.Height()-1)
			if image.Dark(px, py) {
				out.Set(ix, iy, bitmap.Dark)
			} else {
				out.Set(ix, iy, bitmap.Light)
			}
		}
	}
	return out
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
