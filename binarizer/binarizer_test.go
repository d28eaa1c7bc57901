package binarizer

import (
	"errors"
	"testing"
)

// grayImage builds an RGB buffer filled with one gray value.
func grayImage(width, height int, value byte) []byte {
	data := make([]byte, width*height*3)
	for i := range data {
		data[i] = value
	}
	return data
}

func setGray(data []byte, width, x, y int, value byte) {
	p := (y*width + x) * 3
	data[p], data[p+1], data[p+2] = value, value, value
}

func TestLuminance(t *testing.T) {
	// (R + 2G + B) / 4
	data := []byte{100, 200, 100, 0, 0, 0, 255, 255, 255}
	lum, err := Luminance(data, 3, 1)
	if err != nil {
		t.Fatalf("Luminance: %v", err)
	}
	want := []byte{150, 0, 255}
	for i := range want {
		if lum[i] != want[i] {
			t.Fatalf("lum[%d] = %d, want %d", i, lum[i], want[i])
		}
	}
}

func TestLuminanceRGBA(t *testing.T) {
	data := []byte{8, 16, 8, 255, 40, 80, 40, 255}
	lum, err := Luminance(data, 2, 1)
	if err != nil {
		t.Fatalf("Luminance: %v", err)
	}
	if lum[0] != 12 || lum[1] != 60 {
		t.Fatalf("lum = %v", lum)
	}
}

func TestLuminanceRejectsBadFormat(t *testing.T) {
	if _, err := Luminance(make([]byte, 100), 10, 5); !errors.Is(err, ErrUnknownPixelFormat) {
		t.Fatalf("2 bytes per pixel: %v", err)
	}
	if _, err := Luminance(make([]byte, 7), 2, 1); !errors.Is(err, ErrUnknownPixelFormat) {
		t.Fatalf("ragged buffer: %v", err)
	}
}

func TestBinarizeRejectsSmallImages(t *testing.T) {
	if _, err := Binarize(grayImage(39, 80, 255), 39, 80); !errors.Is(err, ErrImageTooSmall) {
		t.Fatalf("narrow image: %v", err)
	}
	if _, err := Binarize(grayImage(80, 39, 255), 80, 39); !errors.Is(err, ErrImageTooSmall) {
		t.Fatalf("short image: %v", err)
	}
}

func TestBinarizeBlackSquareOnWhite(t *testing.T) {
	const size = 64
	data := grayImage(size, size, 255)
	for y := 20; y < 44; y++ {
		for x := 20; x < 44; x++ {
			setGray(data, size, x, y, 0)
		}
	}
	m, err := Binarize(data, size, size)
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	if err := m.AssertDrawn(); err != nil {
		t.Fatalf("binarized matrix not fully drawn: %v", err)
	}
	if !m.Dark(32, 32) {
		t.Fatal("square center not dark")
	}
	if m.Dark(4, 4) || m.Dark(60, 60) {
		t.Fatal("white background came out dark")
	}
}

func TestBinarizeGradientKeepsLocalContrast(t *testing.T) {
	// A dark dot stays dark even on a bright-to-dim gradient background.
	const size = 80
	data := make([]byte, size*size*3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			setGray(data, size, x, y, byte(120+x))
		}
	}
	for y := 38; y < 44; y++ {
		for x := 60; x < 66; x++ {
			setGray(data, size, x, y, 10)
		}
	}
	m, err := Binarize(data, size, size)
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	if !m.Dark(62, 40) {
		t.Fatal("dark dot lost on gradient background")
	}
	if m.Dark(10, 10) {
		t.Fatal("bright corner came out dark")
	}
}
