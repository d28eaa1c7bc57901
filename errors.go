package qrcodec

import (
	"github.com/ericlevine/qrcodec/binarizer"
	"github.com/ericlevine/qrcodec/bitmap"
	"github.com/ericlevine/qrcodec/coding"
	"github.com/ericlevine/qrcodec/detector"
	"github.com/ericlevine/qrcodec/gf256"
)

// The full error taxonomy, aliased from the subsystem packages so callers can
// match every failure with errors.Is against this package alone.
var (
	// Parameter and segment-mode violations.
	ErrInvalidVersion  = coding.ErrInvalidVersion
	ErrInvalidMask     = coding.ErrInvalidMask
	ErrInvalidLevel    = coding.ErrInvalidLevel
	ErrUnsupportedMode = coding.ErrUnsupportedMode
	ErrInvalidEncoding = coding.ErrInvalidEncoding

	// Capacity and geometry rejections.
	ErrCapacityOverflow = coding.ErrCapacityOverflow
	ErrOutOfBounds      = bitmap.ErrOutOfBounds

	// Decoder input rejections.
	ErrImageTooSmall      = binarizer.ErrImageTooSmall
	ErrUnknownPixelFormat = binarizer.ErrUnknownPixelFormat

	// Detection failures.
	ErrFinderNotFound    = detector.ErrFinderNotFound
	ErrAlignmentNotFound = detector.ErrAlignmentNotFound

	// Symbol recovery failures.
	ErrFormatPattern  = coding.ErrFormatPattern
	ErrVersionPattern = coding.ErrVersionPattern
	ErrUndecodable    = gf256.ErrUndecodable
	ErrLayoutMismatch = coding.ErrLayoutMismatch
	ErrSegmentParse   = coding.ErrSegmentParse
)
