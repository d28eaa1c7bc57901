package bitmap

const (
	gifClearCode = 0x80 // with code size 7, 128 clears the string table
	gifEndCode   = 0x81
	gifMaxChunk  = 126 // literal pixels per sub-block, leaving room for the clear code
)

// ToGIF serializes the matrix as an uncompressed GIF87a image, one module per
// pixel. The stream uses 7-bit literal codes with a clear code at the start of
// every sub-block, so the LZW string table never grows and no compression
// state is needed. Color index 0 is white, index 1 black.
func (b *Bitmap) ToGIF() []byte {
	w, h := b.width, b.height
	out := make([]byte, 0, 13+384+20+w*h+w*h/gifMaxChunk*2)

	out = append(out, 'G', 'I', 'F', '8', '7', 'a')
	out = append(out, byte(w), byte(w>>8), byte(h), byte(h>>8))
	// 128-entry global color table, 8 bits per primary.
	out = append(out, 0xF6, 0x00, 0x00)
	table := make([]byte, 128*3)
	table[0], table[1], table[2] = 0xFF, 0xFF, 0xFF
	out = append(out, table...)

	out = append(out, 0x2C, 0x00, 0x00, 0x00, 0x00)
	out = append(out, byte(w), byte(w>>8), byte(h), byte(h>>8), 0x00)
	out = append(out, 0x07) // minimum LZW code size

	total := w * h
	for start := 0; start < total; start += gifMaxChunk {
		n := total - start
		if n > gifMaxChunk {
			n = gifMaxChunk
		}
		out = append(out, byte(n+1), gifClearCode)
		for i := start; i < start+n; i++ {
			if b.Dark(i%w, i/w) {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	out = append(out, 0x01, gifEndCode, 0x00, 0x3B)
	return out
}
