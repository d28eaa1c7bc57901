package coding

import "github.com/ericlevine/qrcodec/bitmap"

// NumMasks is the number of data mask patterns.
const NumMasks = 8

// MaskBit reports whether the data module at (x, y) is inverted under the
// given mask pattern.
func MaskBit(mask, x, y int) bool {
	switch mask {
	case 0:
		return (x+y)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (x+y)%3 == 0
	case 4:
		return (y/2+x/3)%2 == 0
	case 5:
		return (x*y)%2+(x*y)%3 == 0
	case 6:
		return ((x*y)%2+(x*y)%3)%2 == 0
	case 7:
		return ((x+y)%2+(x*y)%3)%2 == 0
	}
	panic(ErrInvalidMask)
}

// The two 11-module finder-like windows of penalty rule 3: a 1:1:3:1:1 run
// with four light modules on one side. Window bit 10 is the leftmost module.
const (
	finderLikeLeading  = 0x5D0 // 1011101 0000
	finderLikeTrailing = 0x05D // 0000 1011101
)

// Penalty scores a fully drawn symbol by the four ISO masking penalty rules.
func Penalty(m *bitmap.Bitmap) int {
	t := m.Transpose()
	return penaltyRuns(m) + penaltyRuns(t) +
		penaltyBoxes(m) +
		penaltyFinderLike(m) + penaltyFinderLike(t) +
		penaltyBalance(m)
}

// penaltyRuns scores 3 + (length - 5) for every same-color run of five or
// more modules in each row.
func penaltyRuns(m *bitmap.Bitmap) int {
	penalty := 0
	for y := 0; y < m.Height(); y++ {
		m.Runs(y, func(length int, _ bitmap.Cell) {
			if length >= 5 {
				penalty += 3 + (length - 5)
			}
		})
	}
	return penalty
}

// penaltyBoxes scores 3 per monochrome 2x2 block.
func penaltyBoxes(m *bitmap.Bitmap) int {
	boxes := 0
	for y := 0; y < m.Height()-1; y++ {
		boxes += m.Count2x2Boxes(y)
	}
	return 3 * boxes
}

// penaltyFinderLike scores 40 per finder-like window in each row.
func penaltyFinderLike(m *bitmap.Bitmap) int {
	count := 0
	for y := 0; y < m.Height(); y++ {
		count += m.CountPatternInRow(y, 11, finderLikeLeading, finderLikeTrailing)
	}
	return 40 * count
}

// penaltyBalance scores 10 per 5% deviation of the dark-module proportion
// from 50%.
func penaltyBalance(m *bitmap.Bitmap) int {
	total := m.Width() * m.Height()
	dark := m.PopCount()
	deviation := 2*dark - total
	if deviation < 0 {
		deviation = -deviation
	}
	return deviation * 10 / total * 10
}
