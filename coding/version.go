package coding

// Version bounds for model-2 QR symbols.
const (
	MinVersion = 1
	MaxVersion = 40
)

// Size returns the module side length for a version: 21 for version 1,
// growing by 4 per version.
func Size(version int) int {
	return 17 + 4*version
}

// VersionForSize returns the version whose symbol side length is size.
func VersionForSize(size int) (int, error) {
	if size < Size(MinVersion) || size > Size(MaxVersion) || size%4 != 1 {
		return 0, ErrInvalidVersion
	}
	return (size - 17) / 4, nil
}

// totalCodewords holds the total codeword count per version.
var totalCodewords = [MaxVersion]int{
	26, 44, 70, 100, 134, 172, 196, 242, 292, 346,
	404, 466, 532, 581, 655, 733, 815, 901, 991, 1085,
	1156, 1258, 1364, 1474, 1588, 1706, 1828, 1921, 2051, 2185,
	2323, 2465, 2611, 2761, 2876, 3034, 3196, 3362, 3532, 3706,
}

// eccPerBlock holds error correction codewords per block, by level row
// (L, M, Q, H) and version.
var eccPerBlock = [4][MaxVersion]int{
	{7, 10, 15, 20, 26, 18, 20, 24, 30, 18, 20, 24, 26, 30, 22, 24, 28, 30, 28, 28, 28, 28, 30, 30, 26, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
	{10, 16, 26, 18, 24, 16, 18, 22, 22, 26, 30, 22, 22, 24, 24, 28, 28, 26, 26, 26, 26, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28},
	{13, 22, 18, 26, 18, 24, 18, 22, 20, 24, 28, 26, 24, 20, 30, 24, 28, 28, 26, 30, 28, 30, 30, 30, 30, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
	{17, 28, 22, 16, 22, 28, 26, 26, 24, 28, 24, 28, 22, 24, 24, 30, 28, 28, 26, 28, 30, 24, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
}

// blockCount holds the number of error correction blocks, by level row
// (L, M, Q, H) and version.
var blockCount = [4][MaxVersion]int{
	{1, 1, 1, 1, 1, 2, 2, 2, 2, 4, 4, 4, 4, 4, 6, 6, 6, 6, 7, 8, 8, 9, 9, 10, 12, 12, 12, 13, 14, 15, 16, 17, 18, 19, 19, 20, 21, 22, 24, 25},
	{1, 1, 1, 2, 2, 4, 4, 4, 5, 5, 5, 8, 9, 9, 10, 10, 11, 13, 14, 16, 17, 17, 18, 20, 21, 23, 25, 26, 28, 29, 31, 33, 35, 37, 38, 40, 43, 45, 47, 49},
	{1, 1, 2, 2, 4, 4, 6, 6, 8, 8, 8, 10, 12, 16, 12, 17, 16, 18, 21, 20, 23, 23, 25, 27, 29, 34, 34, 35, 38, 40, 43, 45, 48, 51, 53, 56, 59, 62, 65, 68},
	{1, 1, 2, 4, 4, 4, 5, 6, 8, 8, 11, 11, 16, 16, 18, 16, 19, 21, 25, 25, 25, 34, 30, 32, 35, 37, 40, 42, 45, 48, 51, 54, 57, 60, 63, 66, 70, 74, 77, 81},
}

// Blocks describes the block structure of one (version, level) pair. Short
// blocks carry ShortBlockLen data codewords, the remaining blocks one more;
// every block carries WordsPerBlock error correction codewords.
type Blocks struct {
	Version       int
	Level         Level
	WordsPerBlock int
	NumBlocks     int
	ShortBlocks   int
	ShortBlockLen int
	TotalWords    int
	DataWords     int
	DataBits      int
}

// BlocksFor derives the block structure for a version and level.
func BlocksFor(version int, level Level) (Blocks, error) {
	if version < MinVersion || version > MaxVersion {
		return Blocks{}, ErrInvalidVersion
	}
	if !level.Valid() {
		return Blocks{}, ErrInvalidLevel
	}
	total := totalCodewords[version-1]
	ecc := eccPerBlock[level.row()][version-1]
	num := blockCount[level.row()][version-1]
	dataWords := total - ecc*num
	return Blocks{
		Version:       version,
		Level:         level,
		WordsPerBlock: ecc,
		NumBlocks:     num,
		ShortBlocks:   num - dataWords%num,
		ShortBlockLen: dataWords / num,
		TotalWords:    total,
		DataWords:     dataWords,
		DataBits:      dataWords * 8,
	}, nil
}

// AlignmentPatterns returns the center coordinates of the alignment patterns
// for a version: empty for version 1, otherwise 6 through size-7 with evenly
// distributed interior centers.
func AlignmentPatterns(version int) []int {
	if version == 1 {
		return nil
	}
	first := 6
	last := Size(version) - 7
	distance := last - first
	count := (distance + 27) / 28
	interval := distance / count
	if interval%2 != 0 {
		interval++
	} else if 2*(distance%count) >= count {
		interval += 2
	}
	res := make([]int, 0, count+1)
	res = append(res, first)
	for m := 1; m < count; m++ {
		res = append(res, last-(count-m)*interval)
	}
	res = append(res, last)
	return res
}
