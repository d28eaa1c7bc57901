package coding

import "github.com/ericlevine/qrcodec/bitmap"

// finderPattern builds the 7x7 finder: a 3x3 dark square wrapped in a light
// ring and a dark ring.
func finderPattern() *bitmap.Bitmap {
	core := bitmap.New(3)
	core.Rect(0, 0, 3, 3, bitmap.Dark)
	return core.Border(1, bitmap.Light).Border(1, bitmap.Dark)
}

// alignmentPattern builds the 5x5 alignment pattern: a dark module wrapped in
// a light ring and a dark ring.
func alignmentPattern() *bitmap.Bitmap {
	core := bitmap.New(1)
	core.Set(0, 0, bitmap.Dark)
	return core.Border(1, bitmap.Light).Border(1, bitmap.Dark)
}

// formatCoords1 lists the first-copy position of format bit i around the
// top-left finder; the timing row and column are skipped.
var formatCoords1 = [15][2]int{
	{8, 0}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 7}, {8, 8},
	{7, 8}, {5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
}

// formatCoord2 returns the second-copy position of format bit i, split
// between the top-right and bottom-left finders.
func formatCoord2(i, size int) (int, int) {
	if i < 8 {
		return size - 1 - i, 8
	}
	return 8, size - 15 + i
}

// Template builds the structural symbol for a version, level, and mask:
// finder, alignment, and timing patterns, format and version information, and
// the dark module, leaving every data position unset. In test mode the
// format bits and the dark module are written light so the cells are reserved
// without committing to a value.
func Template(version int, level Level, mask int, test bool) *bitmap.Bitmap {
	size := Size(version)
	m := bitmap.New(size)

	finder := finderPattern()
	m.Embed(0, 0, finder)
	m.Embed(size-7, 0, finder)
	m.Embed(0, size-7, finder)

	// Separators
	m.HLine(0, 7, 8, bitmap.Light)
	m.VLine(7, 0, 8, bitmap.Light)
	m.HLine(size-8, 7, 8, bitmap.Light)
	m.VLine(size-8, 0, 8, bitmap.Light)
	m.HLine(0, size-8, 8, bitmap.Light)
	m.VLine(7, size-8, 8, bitmap.Light)

	// Alignment patterns, skipping centers already inside a finder area.
	align := alignmentPattern()
	centers := AlignmentPatterns(version)
	for _, cy := range centers {
		for _, cx := range centers {
			if !m.Defined(cx, cy) {
				m.Embed(cx-2, cy-2, align)
			}
		}
	}

	// Timing patterns
	for i := 0; i < size; i++ {
		tick := bitmap.Light
		if i%2 == 0 {
			tick = bitmap.Dark
		}
		if !m.Defined(i, 6) {
			m.Set(i, 6, tick)
		}
		if !m.Defined(6, i) {
			m.Set(6, i, tick)
		}
	}

	// Format information, two copies.
	format := FormatBits(level, mask)
	for i := 0; i < 15; i++ {
		bit := bitmap.Light
		if !test && format&(1<<uint(i)) != 0 {
			bit = bitmap.Dark
		}
		m.Set(formatCoords1[i][0], formatCoords1[i][1], bit)
		x2, y2 := formatCoord2(i, size)
		m.Set(x2, y2, bit)
	}

	// Dark module
	if test {
		m.Set(8, size-8, bitmap.Light)
	} else {
		m.Set(8, size-8, bitmap.Dark)
	}

	// Version information, two copies, versions 7 and up.
	if version >= 7 {
		vbits := VersionBits(version)
		for i := 0; i < 18; i++ {
			bit := bitmap.Light
			if vbits&(1<<uint(i)) != 0 {
				bit = bitmap.Dark
			}
			m.Set(i/3, size-11+i%3, bit)
			m.Set(size-11+i%3, i/3, bit)
		}
	}

	return m
}

// zigZag walks the data path: two-column sweeps from the right edge leftward,
// skipping the vertical timing column and alternating upward and downward,
// visiting every cell left unset by the template.
func zigZag(tpl *bitmap.Bitmap, size, mask int, visit func(x, y int, maskBit bool)) {
	for j := size - 1; j > 0; j -= 2 {
		if j == 6 {
			j--
		}
		upward := ((size-1-j)/2)%2 == 0
		for count := 0; count < size; count++ {
			y := count
			if upward {
				y = size - 1 - count
			}
			for col := 0; col < 2; col++ {
				x := j - col
				if !tpl.Defined(x, y) {
					visit(x, y, MaskBit(mask, x, y))
				}
			}
		}
	}
}
