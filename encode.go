// Package qrcodec is a self-contained QR code codec: an encoder from text to
// a module matrix with ASCII, terminal, SVG, GIF, and raw image renderings,
// and a decoder from raw RGB/RGBA pixel buffers back to text. It covers
// model-2 symbols, versions 1 through 40, at all four error correction
// levels.
package qrcodec

import (
	"errors"
	"fmt"

	"github.com/ericlevine/qrcodec/bitmap"
	"github.com/ericlevine/qrcodec/coding"
)

// Level is an error correction level; the zero value is Medium.
type Level = coding.Level

// Error correction levels.
const (
	LevelMedium   = coding.Medium
	LevelLow      = coding.Low
	LevelQuartile = coding.Quartile
	LevelHigh     = coding.High
)

// Mode is a segment encoding mode; the zero value auto-classifies.
type Mode = coding.Mode

// Forcible segment modes.
const (
	ModeNumeric      = coding.ModeNumeric
	ModeAlphanumeric = coding.ModeAlphanumeric
	ModeByte         = coding.ModeByte
)

const defaultBorder = 2

// EncodeOptions configures encoding behavior.
type EncodeOptions struct {
	// Level is the error correction level; the zero value is Medium.
	Level Level

	// Encoding forces a segment mode. Zero auto-classifies the text.
	Encoding Mode

	// TextEncoder maps text to byte-mode payload bytes, defaulting to
	// UTF-8.
	TextEncoder func(string) []byte

	// Version forces a version 1..40. Zero picks the smallest that fits.
	Version int

	// Mask forces a mask pattern 0..7. Nil picks the penalty-optimal one.
	Mask *int

	// Border is the quiet-zone width in modules. Nil means 2.
	Border *int

	// Scale is the pixel scale, a positive integer. Zero means 1.
	Scale int

	// SVGOptimize selects the single-path SVG serialization. Nil means
	// true.
	SVGOptimize *bool
}

// Encode encodes text into a module matrix with the quiet zone and pixel
// scale applied. When no version is forced, the smallest version that holds
// the payload is chosen; when no mask is forced, the penalty-optimal mask is.
func Encode(text string, opts *EncodeOptions) (*bitmap.Bitmap, error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	if !opts.Level.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, opts.Level)
	}

	seg, err := coding.MakeSegment(text, opts.Encoding, opts.TextEncoder)
	if err != nil {
		return nil, err
	}

	mask := -1
	if opts.Mask != nil {
		if *opts.Mask < 0 || *opts.Mask >= coding.NumMasks {
			return nil, fmt.Errorf("%w: %d", ErrInvalidMask, *opts.Mask)
		}
		mask = *opts.Mask
	}

	var m *bitmap.Bitmap
	if opts.Version != 0 {
		if opts.Version < coding.MinVersion || opts.Version > coding.MaxVersion {
			return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, opts.Version)
		}
		m, _, err = coding.EncodeSymbol(seg, opts.Version, opts.Level, mask)
		if err != nil {
			return nil, err
		}
	} else {
		// Advance through the versions until the payload fits; if none
		// does, the last capacity error surfaces.
		for version := coding.MinVersion; version <= coding.MaxVersion; version++ {
			m, _, err = coding.EncodeSymbol(seg, version, opts.Level, mask)
			if err == nil || !errors.Is(err, ErrCapacityOverflow) {
				break
			}
		}
		if err != nil {
			return nil, err
		}
	}

	border := defaultBorder
	if opts.Border != nil {
		if *opts.Border < 0 {
			return nil, fmt.Errorf("%w: border %d", ErrOutOfBounds, *opts.Border)
		}
		border = *opts.Border
	}
	if border > 0 {
		m = m.Border(border, bitmap.Light)
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 1 || scale > bitmap.MaxScale {
		return nil, fmt.Errorf("%w: scale %d", ErrOutOfBounds, scale)
	}
	if scale > 1 {
		m = m.Scale(scale)
	}
	return m, nil
}

// EncodeASCII encodes text and renders it as Unicode half-block text.
func EncodeASCII(text string, opts *EncodeOptions) (string, error) {
	m, err := Encode(text, opts)
	if err != nil {
		return "", err
	}
	return m.ToASCII(), nil
}

// EncodeTerm encodes text and renders it with ANSI background-color cells.
func EncodeTerm(text string, opts *EncodeOptions) (string, error) {
	m, err := Encode(text, opts)
	if err != nil {
		return "", err
	}
	return m.ToTerm(), nil
}

// EncodeSVG encodes text and serializes it as an SVG document.
func EncodeSVG(text string, opts *EncodeOptions) (string, error) {
	m, err := Encode(text, opts)
	if err != nil {
		return "", err
	}
	optimize := true
	if opts != nil && opts.SVGOptimize != nil {
		optimize = *opts.SVGOptimize
	}
	return m.ToSVG(optimize), nil
}

// EncodeGIF encodes text and serializes it as a GIF87a image.
func EncodeGIF(text string, opts *EncodeOptions) ([]byte, error) {
	m, err := Encode(text, opts)
	if err != nil {
		return nil, err
	}
	return m.ToGIF(), nil
}

// EncodeImage encodes text and renders it as a gray RGBA pixel buffer, which
// is also a valid decoder input.
func EncodeImage(text string, opts *EncodeOptions) (*Image, error) {
	m, err := Encode(text, opts)
	if err != nil {
		return nil, err
	}
	return &Image{Width: m.Width(), Height: m.Height(), Data: m.ToRGBA()}, nil
}
