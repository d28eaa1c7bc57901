package qrcodec

import (
	"fmt"

	"github.com/ericlevine/qrcodec/binarizer"
	"github.com/ericlevine/qrcodec/bitmap"
	"github.com/ericlevine/qrcodec/coding"
	"github.com/ericlevine/qrcodec/detector"
)

// Image is a raw pixel buffer: Data holds 3 bytes per pixel for RGB or 4 for
// RGBA, row-major from the top-left.
type Image struct {
	Width  int
	Height int
	Data   []byte
}

func (img *Image) channels() (int, error) {
	if img.Width < 1 || img.Height < 1 {
		return 0, ErrImageTooSmall
	}
	pixels := img.Width * img.Height
	switch len(img.Data) {
	case 3 * pixels:
		return 3, nil
	case 4 * pixels:
		return 4, nil
	}
	return 0, fmt.Errorf("%w: %d bytes for %dx%d", ErrUnknownPixelFormat, len(img.Data), img.Width, img.Height)
}

// cropToSquare center-crops the larger dimension to the smaller one.
func (img *Image) cropToSquare(channels int) *Image {
	if img.Width == img.Height {
		return img
	}
	side := img.Width
	if img.Height < side {
		side = img.Height
	}
	x0 := (img.Width - side) / 2
	y0 := (img.Height - side) / 2
	data := make([]byte, 0, side*side*channels)
	for y := y0; y < y0+side; y++ {
		start := (y*img.Width + x0) * channels
		data = append(data, img.Data[start:start+side*channels]...)
	}
	return &Image{Width: side, Height: side, Data: data}
}

// DetectedPoints are the located pattern centers handed to OnDetect, in
// image coordinates. BottomRight carries a zero module size when it is an
// estimate rather than a found alignment pattern.
type DetectedPoints struct {
	TopLeft     detector.Point
	TopRight    detector.Point
	BottomRight detector.Point
	BottomLeft  detector.Point
}

// DecodeOptions configures decoding behavior. The On callbacks observe
// intermediate pipeline products; each receives its snapshot before any
// later phase can fail.
type DecodeOptions struct {
	// CropToSquare center-crops the larger image dimension before
	// decoding.
	CropToSquare bool

	// OnBitmap is called with the binarized image.
	OnBitmap func(*bitmap.Bitmap)

	// OnDetect is called with the located pattern centers.
	OnDetect func(DetectedPoints)

	// OnResult is called with the rectified module matrix.
	OnResult func(*bitmap.Bitmap)

	// TextDecoder maps byte-mode payload bytes to text, defaulting to
	// UTF-8. Segments under an ECI designator use the designated charset
	// instead.
	TextDecoder func([]byte) string
}

// Decode recovers the text payload from a raster image of a QR symbol.
func Decode(img *Image, opts *DecodeOptions) (string, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	channels, err := img.channels()
	if err != nil {
		return "", err
	}
	if opts.CropToSquare {
		img = img.cropToSquare(channels)
	}

	bm, err := binarizer.Binarize(img.Data, img.Width, img.Height)
	if err != nil {
		return "", err
	}
	if opts.OnBitmap != nil {
		opts.OnBitmap(bm)
	}

	det, err := detector.Detect(bm)
	if err != nil {
		return "", err
	}
	if opts.OnDetect != nil {
		opts.OnDetect(DetectedPoints{
			TopLeft:     det.TopLeft,
			TopRight:    det.TopRight,
			BottomRight: det.BottomRight,
			BottomLeft:  det.BottomLeft,
		})
	}
	if opts.OnResult != nil {
		opts.OnResult(det.Matrix)
	}

	return coding.DecodeSymbol(det.Matrix, opts.TextDecoder)
}

// DecodeBitmap recovers the text payload from an already rectified module
// matrix, skipping binarization and detection.
func DecodeBitmap(m *bitmap.Bitmap, opts *DecodeOptions) (string, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	return coding.DecodeSymbol(m, opts.TextDecoder)
}
