// Package binarizer converts raw RGB or RGBA pixel buffers into black/white
// module candidates using a local adaptive threshold, which holds up against
// shadows and gradients far better than a single global cutoff.
package binarizer

import (
	"errors"

	"github.com/ericlevine/qrcodec/bitmap"
)

var (
	// ErrImageTooSmall is returned when either image dimension is below 40
	// pixels.
	ErrImageTooSmall = errors.New("binarizer: image too small")

	// ErrUnknownPixelFormat is returned when the buffer is not 3 or 4 bytes
	// per pixel.
	ErrUnknownPixelFormat = errors.New("binarizer: unknown pixel format")
)

const (
	blockPower      = 3
	blockSize       = 1 << blockPower // 8x8 threshold blocks
	minDimension    = 40
	minDynamicRange = 24
)

// Luminance converts a 3- or 4-byte-per-pixel buffer to one luminance byte
// per pixel using the integer approximation (R + 2G + B) / 4.
func Luminance(data []byte, width, height int) ([]byte, error) {
	if width < 1 || height < 1 {
		return nil, ErrImageTooSmall
	}
	channels := len(data) / (width * height)
	if (channels != 3 && channels != 4) || len(data) != channels*width*height {
		return nil, ErrUnknownPixelFormat
	}
	out := make([]byte, width*height)
	for i := range out {
		p := i * channels
		out[i] = byte((int(data[p]) + 2*int(data[p+1]) + int(data[p+2])) / 4)
	}
	return out, nil
}

// Binarize converts a pixel buffer into a fully drawn Bitmap where cells at
// or below the local threshold are dark.
func Binarize(data []byte, width, height int) (*bitmap.Bitmap, error) {
	if width < minDimension || height < minDimension {
		return nil, ErrImageTooSmall
	}
	luminances, err := Luminance(data, width, height)
	if err != nil {
		return nil, err
	}

	subWidth := (width + blockSize - 1) >> blockPower
	subHeight := (height + blockSize - 1) >> blockPower
	blackPoints := blockBlackPoints(luminances, subWidth, subHeight, width, height)

	m := bitmap.NewWithSize(width, height)
	m.Rect(0, 0, width, height, bitmap.Light)
	thresholdBlocks(luminances, subWidth, subHeight, width, height, blackPoints, m)
	return m, nil
}

// blockBlackPoints computes one black-point estimate per 8x8 block. Blocks
// with a dynamic range at or below minDynamicRange are treated as
// near-uniform: their estimate is min/2, pulled up to a weighted minimum of
// the already-computed top, left, and top-left neighbors for interior
// blocks.
func blockBlackPoints(luminances []byte, subWidth, subHeight, width, height int) [][]int {
	maxXOffset := width - blockSize
	maxYOffset := height - blockSize
	blackPoints := make([][]int, subHeight)
	for i := range blackPoints {
		blackPoints[i] = make([]int, subWidth)
	}

	for y := 0; y < subHeight; y++ {
		yoffset := y << blockPower
		if yoffset > maxYOffset {
			yoffset = maxYOffset
		}
		for x := 0; x < subWidth; x++ {
			xoffset := x << blockPower
			if xoffset > maxXOffset {
				xoffset = maxXOffset
			}
			sum := 0
			mn, mx := 0xFF, 0
			for yy := 0; yy < blockSize; yy++ {
				offset := (yoffset+yy)*width + xoffset
				for xx := 0; xx < blockSize; xx++ {
					pixel := int(luminances[offset+xx])
					sum += pixel
					if pixel < mn {
						mn = pixel
					}
					if pixel > mx {
						mx = pixel
					}
				}
			}

			average := sum >> (2 * blockPower)
			if mx-mn <= minDynamicRange {
				average = mn / 2
				if y > 0 && x > 0 {
					neighbor := (blackPoints[y-1][x] + 2*blackPoints[y][x-1] + blackPoints[y-1][x-1]) / 4
					if mn < neighbor {
						average = neighbor
					}
				}
			}
			blackPoints[y][x] = average
		}
	}
	return blackPoints
}

// thresholdBlocks darkens each pixel at or below the average black point of
// the surrounding 5x5 block neighborhood, with the neighborhood center
// clamped to [2, n-3] at the image edges.
func thresholdBlocks(luminances []byte, subWidth, subHeight, width, height int,
	blackPoints [][]int, m *bitmap.Bitmap) {
	maxXOffset := width - blockSize
	maxYOffset := height - blockSize
	for y := 0; y < subHeight; y++ {
		yoffset := y << blockPower
		if yoffset > maxYOffset {
			yoffset = maxYOffset
		}
		top := clampCenter(y, subHeight-3)
		for x := 0; x < subWidth; x++ {
			xoffset := x << blockPower
			if xoffset > maxXOffset {
				xoffset = maxXOffset
			}
			left := clampCenter(x, subWidth-3)
			sum := 0
			for dy := -2; dy <= 2; dy++ {
				row := blackPoints[top+dy]
				sum += row[left-2] + row[left-1] + row[left] + row[left+1] + row[left+2]
			}
			threshold := sum / 25
			for yy := 0; yy < blockSize; yy++ {
				offset := (yoffset+yy)*width + xoffset
				for xx := 0; xx < blockSize; xx++ {
					if int(luminances[offset+xx]) <= threshold {
						m.Set(xoffset+xx, yoffset+yy, bitmap.Dark)
					}
				}
			}
		}
	}
}

func clampCenter(value, max int) int {
	if value < 2 {
		return 2
	}
	if value > max {
		return max
	}
	return value
}
