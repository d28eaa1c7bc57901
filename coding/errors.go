package coding

import "errors"

var (
	// ErrInvalidVersion is returned for version numbers outside 1..40, or for
	// matrices whose geometry maps to no version.
	ErrInvalidVersion = errors.New("coding: invalid version")

	// ErrInvalidMask is returned for mask indices outside 0..7.
	ErrInvalidMask = errors.New("coding: invalid mask index")

	// ErrInvalidLevel is returned for unknown error correction levels.
	ErrInvalidLevel = errors.New("coding: invalid error correction level")

	// ErrUnsupportedMode is returned for segment modes that are recognized
	// but not implemented (Kanji, ECI on encode; unknown ECI charsets on
	// decode).
	ErrUnsupportedMode = errors.New("coding: unsupported segment mode")

	// ErrInvalidEncoding is returned when content does not fit a forced
	// segment mode.
	ErrInvalidEncoding = errors.New("coding: content does not fit requested encoding")

	// ErrCapacityOverflow is returned when the payload exceeds the data
	// capacity of the chosen version and level.
	ErrCapacityOverflow = errors.New("coding: payload exceeds symbol capacity")

	// ErrLayoutMismatch is returned when the drawn symbol violates a layout
	// invariant, such as unset cells remaining after data placement.
	ErrLayoutMismatch = errors.New("coding: symbol layout mismatch")

	// ErrSegmentParse is returned when the decoded bit stream ends
	// mid-segment or contains an unknown mode.
	ErrSegmentParse = errors.New("coding: malformed segment stream")

	// ErrFormatPattern is returned when neither format information copy is
	// within three bit errors of a valid code.
	ErrFormatPattern = errors.New("coding: format information unrecoverable")

	// ErrVersionPattern is the equivalent failure for version information.
	ErrVersionPattern = errors.New("coding: version information unrecoverable")
)
