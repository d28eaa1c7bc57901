package detector

import (
	"math"

	"github.com/ericlevine/qrcodec/bitmap"
)

// foundAlignmentRatios checks a light-dark-light run set against the 1:1:1
// alignment proportions.
func foundAlignmentRatios(stateCount [3]int, moduleSize float64) bool {
	maxVariance := moduleSize / 2.0
	for _, count := range stateCount {
		if math.Abs(float64(count)-moduleSize) >= maxVariance {
			return false
		}
	}
	return true
}

// findAlignmentInRegion searches a square window of side
// 2*allowanceFactor*moduleSize around the estimated center for the alignment
// pattern.
func findAlignmentInRegion(image *bitmap.Bitmap, moduleSize float64, estX, estY int, allowanceFactor float64) *Hit {
	allowance := int(allowanceFactor * moduleSize)
	left := maxInt(0, estX-allowance)
	top := maxInt(0, estY-allowance)
	right := minInt(image.Width()-1, estX+allowance)
	bottom := minInt(image.Height()-1, estY+allowance)

	width := right - left
	height := bottom - top
	if width < 0 || height < 0 {
		return nil
	}
	return findAlignmentPattern(image, left, top, width, height, moduleSize)
}

// findAlignmentPattern scans window rows outward from the vertical center for
// a 1:1:1 light-dark-light sequence, cross-checking each candidate
// vertically.
func findAlignmentPattern(image *bitmap.Bitmap, startX, startY, width, height int, moduleSize float64) *Hit {
	middleY := startY + height/2
	for dy := 0; dy < height; dy++ {
		y := middleY
		if dy%2 == 0 {
			y += (dy + 1) / 2
		} else {
			y -= (dy + 1) / 2
		}
		if y < startY || y >= startY+height {
			continue
		}

		var stateCount [3]int
		state := 0
		for x := startX; x < startX+width; x++ {
			if !image.Dark(x, y) {
				if state == 1 {
					state = 2
				}
				stateCount[state]++
				continue
			}
			if state == 1 {
				stateCount[1]++
				continue
			}
			if state == 2 {
				if foundAlignmentRatios(stateCount, moduleSize) {
					if h := confirmAlignment(image, stateCount, x, y, moduleSize); h != nil {
						return h
					}
				}
				stateCount[0] = stateCount[2]
				stateCount[1] = 1
				stateCount[2] = 0
				state = 1
				continue
			}
			state++
			stateCount[state]++
		}
		if state == 2 && foundAlignmentRatios(stateCount, moduleSize) {
			if h := confirmAlignment(image, stateCount, startX+width, y, moduleSize); h != nil {
				return h
			}
		}
	}
	return nil
}

func confirmAlignment(image *bitmap.Bitmap, stateCount [3]int, x, y int, moduleSize float64) *Hit {
	centerX := float64(x) - float64(stateCount[2]) - float64(stateCount[1])/2.0
	centerY := crossCheckVerticalAlignment(image, int(centerX), y, 2*stateCount[1], moduleSize)
	if math.IsNaN(centerY) {
		return nil
	}
	return &Hit{X: centerX, Y: centerY, ModuleSize: moduleSize, Count: 1}
}

func crossCheckVerticalAlignment(image *bitmap.Bitmap, centerX, startY, maxCount int, moduleSize float64) float64 {
	maxY := image.Height()
	var stateCount [3]int

	y := startY
	for y >= 0 && image.Dark(centerX, y) && stateCount[1] <= maxCount {
		stateCount[1]++
		y--
	}
	if y < 0 || stateCount[1] > maxCount {
		return math.NaN()
	}
	for y >= 0 && !image.Dark(centerX, y) && stateCount[0] <= maxCount {
		stateCount[0]++
		y--
	}
	if stateCount[0] > maxCount {
		return math.NaN()
	}

	y = startY + 1
	for y < maxY && image.Dark(centerX, y) && stateCount[1] <= maxCount {
		stateCount[1]++
		y++
	}
	if y == maxY || stateCount[1] > maxCount {
		return math.NaN()
	}
	for y < maxY && !image.Dark(centerX, y) && stateCount[2] <= maxCount {
		stateCount[2]++
		y++
	}
	if stateCount[2] > maxCount {
		return math.NaN()
	}

	total := stateCount[0] + stateCount[1] + stateCount[2]
	if 5*abs(total-int(moduleSize*3)) >= int(moduleSize*3) {
		return math.NaN()
	}
	if !foundAlignmentRatios(stateCount, moduleSize) {
		return math.NaN()
	}
	return float64(y-stateCount[2]) - float64(stateCount[1])/2.0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
