package coding

import (
	"fmt"
	"math"

	"github.com/ericlevine/qrcodec/bitmap"
)

// BuildSymbol places the interleaved codeword stream into a fresh template,
// XORing each bit with the mask. Remainder cells past the last codeword are
// placed as zero bits. In test mode the template reserves the format bits
// without committing to a value, which is how mask candidates are scored.
func BuildSymbol(codewords []byte, version int, level Level, mask int, test bool) (*bitmap.Bitmap, error) {
	tpl := Template(version, level, mask, test)
	total := 8 * len(codewords)
	bitIndex := 0
	zigZag(tpl, Size(version), mask, func(x, y int, maskBit bool) {
		bit := false
		if bitIndex < total {
			bit = codewords[bitIndex/8]&(1<<uint(7-bitIndex%8)) != 0
		}
		bitIndex++
		if bit != maskBit {
			tpl.Set(x, y, bitmap.Dark)
		} else {
			tpl.Set(x, y, bitmap.Light)
		}
	})
	if bitIndex < total {
		return nil, fmt.Errorf("%w: %d data bits do not fit %d modules", ErrLayoutMismatch, total, bitIndex)
	}
	if err := tpl.AssertDrawn(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayoutMismatch, err)
	}
	return tpl, nil
}

// EncodeSymbol assembles, interleaves, and places a segment at a version and
// level. A negative mask selects the penalty-optimal pattern over eight
// test-mode renders, lowest index winning ties. It returns the drawn symbol
// and the mask used.
func EncodeSymbol(seg Segment, version int, level Level, mask int) (*bitmap.Bitmap, int, error) {
	data, err := Assemble(seg, version, level)
	if err != nil {
		return nil, 0, err
	}
	codewords, err := Interleave(data, version, level)
	if err != nil {
		return nil, 0, err
	}

	if mask < 0 {
		best := 0
		bestPenalty := math.MaxInt
		for i := 0; i < NumMasks; i++ {
			trial, err := BuildSymbol(codewords, version, level, i, true)
			if err != nil {
				return nil, 0, err
			}
			if p := Penalty(trial); p < bestPenalty {
				bestPenalty = p
				best = i
			}
		}
		mask = best
	} else if mask >= NumMasks {
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidMask, mask)
	}

	m, err := BuildSymbol(codewords, version, level, mask, false)
	if err != nil {
		return nil, 0, err
	}
	return m, mask, nil
}
