package detector

import (
	"math"

	"github.com/ericlevine/qrcodec/bitmap"
)

// Hit is a candidate pattern center. Merged candidates accumulate a
// count-weighted average position and module size.
type Hit struct {
	X, Y       float64
	ModuleSize float64
	Count      int
}

func (h *Hit) aboutEquals(moduleSize, x, y float64) bool {
	if math.Abs(y-h.Y) <= moduleSize && math.Abs(x-h.X) <= moduleSize {
		diff := math.Abs(moduleSize - h.ModuleSize)
		return diff <= 1.0 || diff <= h.ModuleSize
	}
	return false
}

func (h *Hit) combine(x, y, moduleSize float64) {
	n := float64(h.Count)
	h.X = (n*h.X + x) / (n + 1)
	h.Y = (n*h.Y + y) / (n + 1)
	h.ModuleSize = (n*h.ModuleSize + moduleSize) / (n + 1)
	h.Count++
}

const (
	straightVariance = 2.0
	diagonalVariance = 4.0 / 3.0
)

// foundRatios checks a dark-light-dark-light-dark run set against the 1:1:3:1:1
// finder proportions, each run within moduleSize/variance of its expected
// length.
func foundRatios(stateCount [5]int, variance float64) bool {
	total := 0
	for _, c := range stateCount {
		if c == 0 {
			return false
		}
		total += c
	}
	if total < 7 {
		return false
	}
	moduleSize := float64(total) / 7.0
	maxVariance := moduleSize / variance
	return math.Abs(moduleSize-float64(stateCount[0])) < maxVariance &&
		math.Abs(moduleSize-float64(stateCount[1])) < maxVariance &&
		math.Abs(3*moduleSize-float64(stateCount[2])) < 3*maxVariance &&
		math.Abs(moduleSize-float64(stateCount[3])) < maxVariance &&
		math.Abs(moduleSize-float64(stateCount[4])) < maxVariance
}

// finderScan walks the image rows looking for finder patterns.
type finderScan struct {
	image   *bitmap.Bitmap
	hits    []*Hit
	skipped bool
}

// findFinderPatterns locates the three finder pattern centers, ordered as
// top-left, top-right, bottom-left.
func findFinderPatterns(image *bitmap.Bitmap) (tl, tr, bl *Hit, err error) {
	s := &finderScan{image: image}
	height := image.Height()
	width := image.Width()

	skip := 3 * height / (4 * 97)
	if skip < 3 {
		skip = 3
	}

	done := false
	for y := skip - 1; y < height && !done; y += skip {
		var stateCount [5]int
		state := 0
		for x := 0; x < width; x++ {
			if image.Dark(x, y) {
				if state&1 == 1 { // counting light, switch to dark
					state++
				}
				stateCount[state]++
				continue
			}
			if state&1 == 1 { // still counting light
				stateCount[state]++
				continue
			}
			if state != 4 {
				state++
				stateCount[state]++
				continue
			}
			// A full dark-light-dark-light-dark sequence ended.
			if foundRatios(stateCount, straightVariance) {
				confirmed, jump := s.handlePossibleCenter(stateCount, x, y)
				if confirmed {
					skip = 2
					if s.haveMultiplyConfirmedCenters() {
						done = true
						break
					}
					if jump > stateCount[2] {
						// Hop over the symbol interior.
						y += jump - stateCount[2] - skip
						x = width - 1
					}
				}
			}
			stateCount[0] = stateCount[2]
			stateCount[1] = stateCount[3]
			stateCount[2] = stateCount[4]
			stateCount[3] = 1
			stateCount[4] = 0
			state = 3
		}
		if state == 4 && foundRatios(stateCount, straightVariance) {
			if confirmed, _ := s.handlePossibleCenter(stateCount, width, y); confirmed {
				skip = 2
				if s.haveMultiplyConfirmedCenters() {
					done = true
				}
			}
		}
	}

	best, err := s.selectBest()
	if err != nil {
		return nil, nil, nil, err
	}
	tl, tr, bl = orderPatterns(best)
	return tl, tr, bl, nil
}

// handlePossibleCenter cross-checks a horizontal candidate vertically,
// horizontally, and diagonally, then merges it into the hit list. It reports
// whether the center was confirmed (seen more than once) and, after the
// second confirmed center, how many rows may be skipped.
func (s *finderScan) handlePossibleCenter(stateCount [5]int, x, y int) (bool, int) {
	total := stateCount[0] + stateCount[1] + stateCount[2] + stateCount[3] + stateCount[4]
	centerX := float64(x) - float64(stateCount[4]+stateCount[3]) - float64(stateCount[2])/2.0

	centerY := s.crossCheckVertical(y, int(centerX), stateCount[2], total)
	if math.IsNaN(centerY) {
		return false, 0
	}
	centerX = s.crossCheckHorizontal(int(centerX), int(centerY), stateCount[2], total)
	if math.IsNaN(centerX) {
		return false, 0
	}
	if !s.crossCheckDiagonal(int(centerX), int(centerY)) {
		return false, 0
	}

	moduleSize := float64(total) / 7.0
	for _, h := range s.hits {
		if h.aboutEquals(moduleSize, centerX, centerY) {
			h.combine(centerX, centerY, moduleSize)
			return true, s.rowSkip()
		}
	}
	s.hits = append(s.hits, &Hit{X: centerX, Y: centerY, ModuleSize: moduleSize, Count: 1})
	return false, 0
}

// rowSkip estimates the rows that can be hopped once two finder centers are
// confirmed: roughly half the remaining gap to the far edge of the symbol.
func (s *finderScan) rowSkip() int {
	if s.skipped {
		return 0
	}
	var first, second *Hit
	for _, h := range s.hits {
		if h.Count < 2 {
			continue
		}
		if first == nil {
			first = h
		} else {
			second = h
			break
		}
	}
	if second == nil {
		return 0
	}
	s.skipped = true
	dx := math.Abs(first.X - second.X)
	dy := math.Abs(first.Y - second.Y)
	return int(dx-dy) / 2
}

// haveMultiplyConfirmedCenters reports whether at least three centers are
// confirmed and the summed deviation of their module sizes from the mean is
// at most 5% of the summed module sizes.
func (s *finderScan) haveMultiplyConfirmedCenters() bool {
	confirmed := 0
	totalModuleSize := 0.0
	for _, h := range s.hits {
		if h.Count >= 2 {
			confirmed++
			totalModuleSize += h.ModuleSize
		}
	}
	if confirmed < 3 {
		return false
	}
	average := totalModuleSize / float64(confirmed)
	totalDeviation := 0.0
	for _, h := range s.hits {
		if h.Count >= 2 {
			totalDeviation += math.Abs(h.ModuleSize - average)
		}
	}
	return totalDeviation <= 0.05*totalModuleSize
}

func (s *finderScan) crossCheckVertical(startY, centerX, maxCount, originalTotal int) float64 {
	image := s.image
	maxY := image.Height()
	var stateCount [5]int

	y := startY
	for y >= 0 && image.Dark(centerX, y) {
		stateCount[2]++
		y--
	}
	if y < 0 {
		return math.NaN()
	}
	for y >= 0 && !image.Dark(centerX, y) && stateCount[1] <= maxCount {
		stateCount[1]++
		y--
	}
	if y < 0 || stateCount[1] > maxCount {
		return math.NaN()
	}
	for y >= 0 && image.Dark(centerX, y) && stateCount[0] <= maxCount {
		stateCount[0]++
		y--
	}
	if stateCount[0] > maxCount {
		return math.NaN()
	}

	y = startY + 1
	for y < maxY && image.Dark(centerX, y) {
		stateCount[2]++
		y++
	}
	if y == maxY {
		return math.NaN()
	}
	for y < maxY && !image.Dark(centerX, y) && stateCount[3] <= maxCount {
		stateCount[3]++
		y++
	}
	if y == maxY || stateCount[3] > maxCount {
		return math.NaN()
	}
	for y < maxY && image.Dark(centerX, y) && stateCount[4] <= maxCount {
		stateCount[4]++
		y++
	}
	if stateCount[4] > maxCount {
		return math.NaN()
	}

	// The vertical total may not deviate from the horizontal one by more
	// than 40%.
	total := stateCount[0] + stateCount[1] + stateCount[2] + stateCount[3] + stateCount[4]
	if 5*abs(total-originalTotal) >= 2*originalTotal {
		return math.NaN()
	}
	if !foundRatios(stateCount, straightVariance) {
		return math.NaN()
	}
	return float64(y-stateCount[4]-stateCount[3]) - float64(stateCount[2])/2.0
}

func (s *finderScan) crossCheckHorizontal(startX, centerY, maxCount, originalTotal int) float64 {
	image := s.image
	maxX := image.Width()
	var stateCount [5]int

	x := startX
	for x >= 0 && image.Dark(x, centerY) {
		stateCount[2]++
		x--
	}
	if x < 0 {
		return math.NaN()
	}
	for x >= 0 && !image.Dark(x, centerY) && stateCount[1] <= maxCount {
		stateCount[1]++
		x--
	}
	if x < 0 || stateCount[1] > maxCount {
		return math.NaN()
	}
	for x >= 0 && image.Dark(x, centerY) && stateCount[0] <= maxCount {
		stateCount[0]++
		x--
	}
	if stateCount[0] > maxCount {
		return math.NaN()
	}

	x = startX + 1
	for x < maxX && image.Dark(x, centerY) {
		stateCount[2]++
		x++
	}
	if x == maxX {
		return math.NaN()
	}
	for x < maxX && !image.Dark(x, centerY) && stateCount[3] <= maxCount {
		stateCount[3]++
		x++
	}
	if x == maxX || stateCount[3] > maxCount {
		return math.NaN()
	}
	for x < maxX && image.Dark(x, centerY) && stateCount[4] <= maxCount {
		stateCount[4]++
		x++
	}
	if stateCount[4] > maxCount {
		return math.NaN()
	}

	total := stateCount[0] + stateCount[1] + stateCount[2] + stateCount[3] + stateCount[4]
	if 5*abs(total-originalTotal) >= 2*originalTotal {
		return math.NaN()
	}
	if !foundRatios(stateCount, straightVariance) {
		return math.NaN()
	}
	return float64(x-stateCount[4]-stateCount[3]) - float64(stateCount[2])/2.0
}

// crossCheckDiagonal requires the 1:1:3:1:1 proportions to hold along the
// main diagonal through the candidate center, under the 4/3 variance, whose
// per-run tolerance of 3/4 module is looser than the straight checks' 1/2.
func (s *finderScan) crossCheckDiagonal(centerX, centerY int) bool {
	image := s.image
	var stateCount [5]int

	i := 0
	for centerX >= i && centerY >= i && image.Dark(centerX-i, centerY-i) {
		stateCount[2]++
		i++
	}
	if stateCount[2] == 0 {
		return false
	}
	for centerX >= i && centerY >= i && !image.Dark(centerX-i, centerY-i) {
		stateCount[1]++
		i++
	}
	if stateCount[1] == 0 {
		return false
	}
	for centerX >= i && centerY >= i && image.Dark(centerX-i, centerY-i) {
		stateCount[0]++
		i++
	}
	if stateCount[0] == 0 {
		return false
	}

	maxX := image.Width()
	maxY := image.Height()
	i = 1
	for centerX+i < maxX && centerY+i < maxY && image.Dark(centerX+i, centerY+i) {
		stateCount[2]++
		i++
	}
	for centerX+i < maxX && centerY+i < maxY && !image.Dark(centerX+i, centerY+i) {
		stateCount[3]++
		i++
	}
	if stateCount[3] == 0 {
		return false
	}
	for centerX+i < maxX && centerY+i < maxY && image.Dark(centerX+i, centerY+i) {
		stateCount[4]++
		i++
	}
	if stateCount[4] == 0 {
		return false
	}

	return foundRatios(stateCount, diagonalVariance)
}

// selectBest picks the triple of hits whose pairwise squared distances best
// form an isoceles right triangle, minimizing |c-2b| + |c-2a| for sorted
// squared distances a <= b <= c, after filtering triples whose module sizes
// disagree by more than a factor of 1.4.
func (s *finderScan) selectBest() ([3]*Hit, error) {
	var candidates []*Hit
	for _, h := range s.hits {
		if h.Count >= 2 {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) < 3 {
		return [3]*Hit{}, ErrFinderNotFound
	}

	var best [3]*Hit
	bestScore := math.Inf(1)
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			for k := j + 1; k < len(candidates); k++ {
				h1, h2, h3 := candidates[i], candidates[j], candidates[k]

				minMS := math.Min(h1.ModuleSize, math.Min(h2.ModuleSize, h3.ModuleSize))
				maxMS := math.Max(h1.ModuleSize, math.Max(h2.ModuleSize, h3.ModuleSize))
				if maxMS > 1.4*minMS {
					continue
				}

				a := squaredDistance(h1, h2)
				b := squaredDistance(h1, h3)
				c := squaredDistance(h2, h3)
				if a > b {
					a, b = b, a
				}
				if b > c {
					b, c = c, b
				}
				if a > b {
					a, b = b, a
				}
				score := math.Abs(c-2*b) + math.Abs(c-2*a)
				if score < bestScore {
					bestScore = score
					best = [3]*Hit{h1, h2, h3}
				}
			}
		}
	}
	if math.IsInf(bestScore, 1) {
		return [3]*Hit{}, ErrFinderNotFound
	}
	return best, nil
}

func squaredDistance(a, b *Hit) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// orderPatterns classifies the triple: the hypotenuse joins top-right and
// bottom-left, and the cross product decides which is which so mirrored
// images come out consistent.
func orderPatterns(patterns [3]*Hit) (tl, tr, bl *Hit) {
	d01 := squaredDistance(patterns[0], patterns[1])
	d12 := squaredDistance(patterns[1], patterns[2])
	d02 := squaredDistance(patterns[0], patterns[2])

	var a, b, c *Hit
	switch {
	case d12 >= d01 && d12 >= d02:
		a, b, c = patterns[0], patterns[1], patterns[2]
	case d02 >= d01 && d02 >= d12:
		a, b, c = patterns[1], patterns[0], patterns[2]
	default:
		a, b, c = patterns[2], patterns[0], patterns[1]
	}

	if (c.X-a.X)*(b.Y-a.Y)-(c.Y-a.Y)*(b.X-a.X) < 0 {
		b, c = c, b
	}
	return a, c, b
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
