package qrcodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ericlevine/qrcodec/bitmap"
)

func intp(v int) *int { return &v }

func TestEncodeHelloWorldScenario(t *testing.T) {
	m, err := Encode("HELLO WORLD", &EncodeOptions{
		Level:   LevelQuartile,
		Version: 1,
		Mask:    intp(0),
		Border:  intp(0),
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if m.Width() != 21 || m.Height() != 21 {
		t.Fatalf("matrix %dx%d, want 21x21", m.Width(), m.Height())
	}
	if err := m.AssertDrawn(); err != nil {
		t.Fatalf("matrix not fully drawn: %v", err)
	}
	text, err := DecodeBitmap(m, nil)
	if err != nil {
		t.Fatalf("DecodeBitmap: %v", err)
	}
	if text != "HELLO WORLD" {
		t.Fatalf("decoded %q", text)
	}
}

func TestEncodeASCIIWidth(t *testing.T) {
	out, err := EncodeASCII("Hello world", nil)
	if err != nil {
		t.Fatalf("EncodeASCII: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// "Hello world" fits version 1; with the default border of 2 the
	// symbol is 25 modules wide, one rune per module and two module rows
	// per line.
	if got := len([]rune(lines[0])); got != 25 {
		t.Fatalf("first line %d runes, want 25", got)
	}
	if len(lines) != 13 {
		t.Fatalf("%d lines, want 13", len(lines))
	}
}

func TestEncodeTerm(t *testing.T) {
	out, err := EncodeTerm("X", nil)
	if err != nil {
		t.Fatalf("EncodeTerm: %v", err)
	}
	if !strings.Contains(out, "\x1b[47m") || !strings.Contains(out, "\x1b[0m") {
		t.Fatal("terminal rendering missing escape sequences")
	}
}

func TestEncodeGIFMagic(t *testing.T) {
	out, err := EncodeGIF("https://www.surveymonkey.com/s/TheClubatLAS_T3", nil)
	if err != nil {
		t.Fatalf("EncodeGIF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}) {
		t.Fatalf("GIF header = % X", out[:6])
	}
	if out[len(out)-1] != 0x3B {
		t.Fatalf("GIF trailer = %#x", out[len(out)-1])
	}
}

func TestEncodeSVG(t *testing.T) {
	optimized, err := EncodeSVG("SVG TEST", nil)
	if err != nil {
		t.Fatalf("EncodeSVG: %v", err)
	}
	if !strings.HasPrefix(optimized, `<svg viewBox="0 0 25 25" xmlns="http://www.w3.org/2000/svg">`) {
		t.Fatalf("svg prefix: %s", optimized[:60])
	}
	if !strings.Contains(optimized, `<path d="`) || strings.Contains(optimized, "<rect") {
		t.Fatal("optimized svg should use a single path")
	}
	if !strings.Contains(optimized, "h1v1") {
		t.Fatal("path cells missing")
	}

	plain, err := EncodeSVG("SVG TEST", &EncodeOptions{SVGOptimize: boolp(false)})
	if err != nil {
		t.Fatalf("EncodeSVG: %v", err)
	}
	if !strings.Contains(plain, `<rect x="`) || strings.Contains(plain, "<path") {
		t.Fatal("plain svg should use rects")
	}
}

func boolp(v bool) *bool { return &v }

func TestEncodeNumericZeroAllMasks(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		m, err := Encode("0", &EncodeOptions{
			Level:    LevelLow,
			Encoding: ModeNumeric,
			Version:  1,
			Mask:     intp(mask),
			Border:   intp(0),
		})
		if err != nil {
			t.Fatalf("mask %d: %v", mask, err)
		}
		text, err := DecodeBitmap(m, nil)
		if err != nil || text != "0" {
			t.Fatalf("mask %d round trip: %q, %v", mask, text, err)
		}
	}
}

func TestEncodeInvalidParameters(t *testing.T) {
	if _, err := Encode("中", &EncodeOptions{Encoding: ModeNumeric}); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("forced numeric: %v", err)
	}
	if _, err := Encode("hi", &EncodeOptions{Version: 41}); !errors.Is(err, ErrInvalidVersion) {
		t.Fatalf("version 41: %v", err)
	}
	if _, err := Encode("hi", &EncodeOptions{Mask: intp(8)}); !errors.Is(err, ErrInvalidMask) {
		t.Fatalf("mask 8: %v", err)
	}
	if _, err := Encode("hi", &EncodeOptions{Level: Level(9)}); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("level 9: %v", err)
	}
}

func TestEncodeCapacityOverflow(t *testing.T) {
	huge := strings.Repeat("X", 10000)
	if _, err := Encode(huge, nil); !errors.Is(err, ErrCapacityOverflow) {
		t.Fatalf("10000 chars: %v", err)
	}
	if _, err := Encode(huge, &EncodeOptions{Version: 40}); !errors.Is(err, ErrCapacityOverflow) {
		t.Fatalf("10000 chars at version 40: %v", err)
	}
}

func TestEncodeVersionAutoSelection(t *testing.T) {
	// 50 bytes do not fit version 1 or 2 at M; the encoder must advance.
	text := strings.Repeat("a", 50)
	m, err := Encode(text, &EncodeOptions{Border: intp(0)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if m.Width() < 29 {
		t.Fatalf("auto-selected symbol only %d modules wide", m.Width())
	}
	got, err := DecodeBitmap(m, nil)
	if err != nil || got != text {
		t.Fatalf("round trip: %v", err)
	}
}

func TestMaskDeterminismAndOverride(t *testing.T) {
	a, err := EncodeGIF("determinism", nil)
	if err != nil {
		t.Fatalf("EncodeGIF: %v", err)
	}
	b, err := EncodeGIF("determinism", nil)
	if err != nil {
		t.Fatalf("EncodeGIF: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("auto-mask encode not deterministic")
	}

	m1, err := Encode("determinism", &EncodeOptions{Mask: intp(5)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m2, err := Encode("determinism", &EncodeOptions{Mask: intp(5)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !m1.Equals(m2) {
		t.Fatal("explicit-mask encode not bit-identical")
	}
}

func TestImageRoundTrip(t *testing.T) {
	texts := []string{
		"HELLO WORLD",
		"0123456789",
		"Hello, world! How are you?",
		"https://www.surveymonkey.com/s/TheClubatLAS_T3",
	}
	for _, text := range texts {
		img, err := EncodeImage(text, &EncodeOptions{Border: intp(4), Scale: 4})
		if err != nil {
			t.Fatalf("EncodeImage(%q): %v", text, err)
		}
		got, err := Decode(img, nil)
		if err != nil {
			t.Fatalf("Decode(%q): %v", text, err)
		}
		if got != text {
			t.Fatalf("round trip %q -> %q", text, got)
		}
	}
}

func TestScaleBorderInvariance(t *testing.T) {
	for _, scale := range []int{2, 4, 7} {
		for _, border := range []int{2, 4, 8} {
			if (21+2*border)*scale < 40 {
				continue
			}
			img, err := EncodeImage("INVARIANT", &EncodeOptions{Border: intp(border), Scale: scale})
			if err != nil {
				t.Fatalf("scale %d border %d: %v", scale, border, err)
			}
			got, err := Decode(img, nil)
			if err != nil {
				t.Fatalf("scale %d border %d: %v", scale, border, err)
			}
			if got != "INVARIANT" {
				t.Fatalf("scale %d border %d: decoded %q", scale, border, got)
			}
		}
	}
}

func TestDecodeCallbacks(t *testing.T) {
	img, err := EncodeImage("CALLBACKS", &EncodeOptions{Border: intp(4), Scale: 4})
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	var sawBitmap, sawDetect, sawResult bool
	got, err := Decode(img, &DecodeOptions{
		OnBitmap: func(m *bitmap.Bitmap) {
			sawBitmap = m.Width() == img.Width && m.Height() == img.Height
		},
		OnDetect: func(p DetectedPoints) {
			sawDetect = p.TopRight.X > p.TopLeft.X
		},
		OnResult: func(m *bitmap.Bitmap) {
			sawResult = m.Width() == 21
		},
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "CALLBACKS" {
		t.Fatalf("decoded %q", got)
	}
	if !sawBitmap || !sawDetect || !sawResult {
		t.Fatalf("callbacks: bitmap=%v detect=%v result=%v", sawBitmap, sawDetect, sawResult)
	}
}

func TestDecodeCropToSquare(t *testing.T) {
	img, err := EncodeImage("CROPPED", &EncodeOptions{Border: intp(4), Scale: 4})
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	// Pad the image asymmetrically into a wide rectangle.
	const pad = 30
	wide := &Image{Width: img.Width + 2*pad, Height: img.Height}
	wide.Data = make([]byte, 0, wide.Width*wide.Height*4)
	white := bytes.Repeat([]byte{255, 255, 255, 255}, pad)
	for y := 0; y < img.Height; y++ {
		row := img.Data[y*img.Width*4 : (y+1)*img.Width*4]
		wide.Data = append(wide.Data, white...)
		wide.Data = append(wide.Data, row...)
		wide.Data = append(wide.Data, white...)
	}
	got, err := Decode(wide, &DecodeOptions{CropToSquare: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "CROPPED" {
		t.Fatalf("decoded %q", got)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	if _, err := Decode(&Image{Width: 20, Height: 20, Data: make([]byte, 20*20*3)}, nil); !errors.Is(err, ErrImageTooSmall) {
		t.Fatalf("small image: %v", err)
	}
	if _, err := Decode(&Image{Width: 50, Height: 50, Data: make([]byte, 50*50*2)}, nil); !errors.Is(err, ErrUnknownPixelFormat) {
		t.Fatalf("bad pixel format: %v", err)
	}
	blank := &Image{Width: 100, Height: 100, Data: bytes.Repeat([]byte{255}, 100*100*3)}
	if _, err := Decode(blank, nil); !errors.Is(err, ErrFinderNotFound) {
		t.Fatalf("blank image: %v", err)
	}
}

func TestTextEncoderDecoder(t *testing.T) {
	// A caller-supplied byte encoding, reversed by the matching decoder.
	rot13 := func(b byte) byte {
		switch {
		case b >= 'a' && b <= 'z':
			return 'a' + (b-'a'+13)%26
		case b >= 'A' && b <= 'Z':
			return 'A' + (b-'A'+13)%26
		}
		return b
	}
	m, err := Encode("secret", &EncodeOptions{
		Encoding: ModeByte,
		Border:   intp(0),
		TextEncoder: func(s string) []byte {
			out := []byte(s)
			for i := range out {
				out[i] = rot13(out[i])
			}
			return out
		},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := DecodeBitmap(m, &DecodeOptions{
		TextDecoder: func(b []byte) string {
			out := make([]byte, len(b))
			for i := range b {
				out[i] = rot13(b[i])
			}
			return string(out)
		},
	})
	if err != nil {
		t.Fatalf("DecodeBitmap: %v", err)
	}
	if got != "secret" {
		t.Fatalf("decoded %q", got)
	}
}

func TestRoundTripLevelsAndModes(t *testing.T) {
	texts := []string{"31415926535", "QR CODE TEST $%*", "mixed Case bytes é"}
	for _, text := range texts {
		for _, level := range []Level{LevelLow, LevelMedium, LevelQuartile, LevelHigh} {
			t.Run(level.String()+"/"+text, func(t *testing.T) {
				m, err := Encode(text, &EncodeOptions{Level: level, Border: intp(0)})
				if err != nil {
					t.Fatalf("Encode: %v", err)
				}
				got, err := DecodeBitmap(m, nil)
				if err != nil {
					t.Fatalf("DecodeBitmap: %v", err)
				}
				if got != text {
					t.Fatalf("round trip %q -> %q", text, got)
				}
			})
		}
	}
}
