package coding

import (
	"fmt"

	"github.com/ericlevine/qrcodec/bitmap"
)

// readFormat reassembles the two format information copies and decodes them.
func readFormat(m *bitmap.Bitmap, size int) (Level, int, error) {
	copy1, copy2 := 0, 0
	for i := 14; i >= 0; i-- {
		copy1 <<= 1
		if m.Dark(formatCoords1[i][0], formatCoords1[i][1]) {
			copy1 |= 1
		}
		copy2 <<= 1
		if x, y := formatCoord2(i, size); m.Dark(x, y) {
			copy2 |= 1
		}
	}
	return DecodeFormat(copy1, copy2)
}

// readVersion reassembles the two version information copies and decodes
// them, requiring the recovered version to match the symbol geometry.
func readVersion(m *bitmap.Bitmap, size int) (int, error) {
	copy1, copy2 := 0, 0
	for i := 17; i >= 0; i-- {
		copy1 <<= 1
		if m.Dark(size-11+i%3, i/3) { // top right
			copy1 |= 1
		}
		copy2 <<= 1
		if m.Dark(i/3, size-11+i%3) { // bottom left
			copy2 |= 1
		}
	}
	version, err := DecodeVersion(copy1, copy2)
	if err != nil {
		return 0, err
	}
	if Size(version) != size {
		return 0, fmt.Errorf("%w: version %d does not match size %d", ErrVersionPattern, version, size)
	}
	return version, nil
}

// DecodeSymbol recovers the text payload from a rectified module matrix: it
// reads format and version information, rebuilds the template to know which
// cells carry data, reads the zig-zag path with the mask removed,
// de-interleaves and error-corrects the codewords, and parses the segment
// stream.
func DecodeSymbol(m *bitmap.Bitmap, textDecoder func([]byte) string) (string, error) {
	size := m.Width()
	if m.Height() != size {
		return "", fmt.Errorf("%w: %dx%d matrix is not square", ErrInvalidVersion, m.Width(), m.Height())
	}
	version, err := VersionForSize(size)
	if err != nil {
		return "", err
	}

	level, mask, err := readFormat(m, size)
	if err != nil {
		return "", err
	}
	if version >= 7 {
		version, err = readVersion(m, size)
		if err != nil {
			return "", err
		}
	}

	bl, err := BlocksFor(version, level)
	if err != nil {
		return "", err
	}

	tpl := Template(version, level, mask, false)
	codewords := make([]byte, 0, bl.TotalWords)
	current, bitsRead := 0, 0
	zigZag(tpl, size, mask, func(x, y int, maskBit bool) {
		current <<= 1
		if m.Dark(x, y) != maskBit {
			current |= 1
		}
		bitsRead++
		if bitsRead == 8 {
			if len(codewords) < bl.TotalWords {
				codewords = append(codewords, byte(current))
			}
			current, bitsRead = 0, 0
		}
	})
	if len(codewords) != bl.TotalWords {
		return "", fmt.Errorf("%w: read %d codewords, want %d", ErrLayoutMismatch, len(codewords), bl.TotalWords)
	}

	data, err := Deinterleave(codewords, version, level)
	if err != nil {
		return "", err
	}
	return ParseData(data, version, textDecoder)
}
