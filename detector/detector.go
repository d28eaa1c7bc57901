// Package detector locates a QR symbol in a binarized image: it finds the
// three finder pattern centers, searches for the bottom-right alignment
// pattern, and rectifies the symbol onto a square module grid.
package detector

import (
	"errors"
	"math"

	"github.com/ericlevine/qrcodec/bitmap"
	"github.com/ericlevine/qrcodec/transform"
)

var (
	// ErrFinderNotFound is returned when fewer than three finder patterns
	// survive confirmation.
	ErrFinderNotFound = errors.New("detector: finder patterns not found")

	// ErrAlignmentNotFound is returned when a symbol that should carry an
	// alignment pattern yields none in any search window.
	ErrAlignmentNotFound = errors.New("detector: alignment pattern not found")
)

// Point is a located pattern center in image coordinates. ModuleSize is zero
// where it is not known, such as an estimated bottom-right corner.
type Point struct {
	X, Y       float64
	ModuleSize float64
}

// Result is a detected symbol: the rectified module matrix and the four
// corner pattern centers.
type Result struct {
	Matrix      *bitmap.Bitmap
	TopLeft     Point
	TopRight    Point
	BottomRight Point
	BottomLeft  Point
}

// Detect locates a symbol in a binarized image and samples it into a module
// matrix.
func Detect(image *bitmap.Bitmap) (*Result, error) {
	tl, tr, bl, err := findFinderPatterns(image)
	if err != nil {
		return nil, err
	}

	moduleSize := (tl.ModuleSize + tr.ModuleSize + bl.ModuleSize) / 3.0
	if moduleSize < 1.0 {
		return nil, ErrFinderNotFound
	}
	dimension, err := computeDimension(tl, tr, bl, moduleSize)
	if err != nil {
		return nil, err
	}

	// Estimate the bottom-right corner by completing the parallelogram,
	// then search for the alignment pattern near where its center should
	// sit, 3 modules in from the corner.
	brEstX := tr.X - tl.X + bl.X
	brEstY := tr.Y - tl.Y + bl.Y

	var alignment *Hit
	if (dimension-17)/4 > 1 {
		correction := 1.0 - 3.0/float64(dimension-7)
		estX := int(tl.X + correction*(brEstX-tl.X))
		estY := int(tl.Y + correction*(brEstY-tl.Y))
		for factor := 4; factor <= 16; factor <<= 1 {
			if alignment = findAlignmentInRegion(image, moduleSize, estX, estY, float64(factor)); alignment != nil {
				break
			}
		}
		if alignment == nil {
			return nil, ErrAlignmentNotFound
		}
	}

	dim := float64(dimension)
	var srcBRX, srcBRY, dstBRX, dstBRY float64
	if alignment != nil {
		srcBRX, srcBRY = alignment.X, alignment.Y
		dstBRX, dstBRY = dim-6.5, dim-6.5
	} else {
		srcBRX, srcBRY = brEstX, brEstY
		dstBRX, dstBRY = dim-3.5, dim-3.5
	}

	pt := transform.QuadrilateralToQuadrilateral(
		3.5, 3.5, dim-3.5, 3.5, dstBRX, dstBRY, 3.5, dim-3.5,
		tl.X, tl.Y, tr.X, tr.Y, srcBRX, srcBRY, bl.X, bl.Y,
	)
	matrix := transform.SampleGrid(image, dimension, pt)

	result := &Result{
		Matrix:      matrix,
		TopLeft:     Point{X: tl.X, Y: tl.Y, ModuleSize: tl.ModuleSize},
		TopRight:    Point{X: tr.X, Y: tr.Y, ModuleSize: tr.ModuleSize},
		BottomLeft:  Point{X: bl.X, Y: bl.Y, ModuleSize: bl.ModuleSize},
		BottomRight: Point{X: brEstX, Y: brEstY},
	}
	if alignment != nil {
		result.BottomRight = Point{X: alignment.X, Y: alignment.Y, ModuleSize: alignment.ModuleSize}
	}
	return result, nil
}

// computeDimension derives the module count per side from the finder center
// distances, snapping a 4k or 4k+2 estimate to the adjacent 4k+1 size; a
// 4k+3 estimate is rejected with ErrFinderNotFound.
func computeDimension(tl, tr, bl *Hit, moduleSize float64) (int, error) {
	tltr := math.Sqrt(squaredDistance(tl, tr))
	tlbl := math.Sqrt(squaredDistance(tl, bl))
	dimension := int(math.Round((tltr/moduleSize+tlbl/moduleSize)/2.0)) + 7
	switch dimension % 4 {
	case 0:
		dimension++
	case 2:
		dimension--
	case 3:
		return 0, ErrFinderNotFound
	}
	return dimension, nil
}
