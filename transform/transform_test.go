package transform

import (
	"math"
	"testing"

	"github.com/ericlevine/qrcodec/bitmap"
)

func TestAffineIdentity(t *testing.T) {
	pt := QuadrilateralToQuadrilateral(
		0, 0, 1, 0, 1, 1, 0, 1,
		0, 0, 1, 0, 1, 1, 0, 1,
	)
	for _, p := range [][2]float64{{0, 0}, {0.5, 0.5}, {1, 1}, {0.25, 0.75}} {
		x, y := pt.Apply(p[0], p[1])
		if math.Abs(x-p[0]) > 1e-9 || math.Abs(y-p[1]) > 1e-9 {
			t.Fatalf("identity maps (%v,%v) to (%v,%v)", p[0], p[1], x, y)
		}
	}
}

func TestScaleAndTranslate(t *testing.T) {
	// Unit square onto a 10x10 square at offset (5, 7).
	pt := SquareToQuadrilateral(5, 7, 15, 7, 15, 17, 5, 17)
	x, y := pt.Apply(0.5, 0.5)
	if math.Abs(x-10) > 1e-9 || math.Abs(y-12) > 1e-9 {
		t.Fatalf("center maps to (%v,%v), want (10,12)", x, y)
	}
}

func TestPerspectiveCorners(t *testing.T) {
	// A genuinely projective quadrilateral still maps the square corners
	// onto the given points.
	corners := [4][2]float64{{3, 2}, {28, 5}, {25, 30}, {2, 24}}
	pt := SquareToQuadrilateral(
		corners[0][0], corners[0][1],
		corners[1][0], corners[1][1],
		corners[2][0], corners[2][1],
		corners[3][0], corners[3][1],
	)
	unit := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, u := range unit {
		x, y := pt.Apply(u[0], u[1])
		if math.Abs(x-corners[i][0]) > 1e-6 || math.Abs(y-corners[i][1]) > 1e-6 {
			t.Fatalf("corner %d maps to (%v,%v), want %v", i, x, y, corners[i])
		}
	}
}

func TestAdjointInverts(t *testing.T) {
	pt := SquareToQuadrilateral(3, 2, 28, 5, 25, 30, 2, 24)
	inv := pt.BuildAdjoint()
	for _, p := range [][2]float64{{0.1, 0.2}, {0.5, 0.5}, {0.9, 0.3}} {
		fx, fy := pt.Apply(p[0], p[1])
		bx, by := inv.Apply(fx, fy)
		if math.Abs(bx-p[0]) > 1e-6 || math.Abs(by-p[1]) > 1e-6 {
			t.Fatalf("adjoint does not invert at %v: got (%v,%v)", p, bx, by)
		}
	}
}

func TestSampleGridFromScaledImage(t *testing.T) {
	// Draw a 5x5 pattern, scale it by 4, and sample it back through the
	// matching affine transform.
	src := bitmap.New(5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if (x+y)%2 == 0 {
				src.Set(x, y, bitmap.Dark)
			} else {
				src.Set(x, y, bitmap.Light)
			}
		}
	}
	img := src.Scale(4)

	pt := QuadrilateralToQuadrilateral(
		0, 0, 5, 0, 5, 5, 0, 5,
		0, 0, 20, 0, 20, 20, 0, 20,
	)
	got := SampleGrid(img, 5, pt)
	if !got.Equals(src) {
		t.Fatalf("sampled grid differs:\n%v\nwant:\n%v", got, src)
	}
}
