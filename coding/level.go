// Package coding implements the QR symbol layout: capacity tables, segment
// encoding, format and version BCH codes, data masking, the zig-zag data
// path, and block interleaving. It is shared by the encoder and the decoder.
package coding

// Level is one of the four error correction levels. The constant values are
// the two-bit codes carried in the format information, which makes Medium the
// zero value and the default.
type Level int

const (
	Medium   Level = 0x0
	Low      Level = 0x1
	High     Level = 0x2
	Quartile Level = 0x3
)

// Bits returns the two-bit format information code for the level.
func (l Level) Bits() int {
	return int(l)
}

// Valid reports whether l is one of the four defined levels.
func (l Level) Valid() bool {
	return l >= Medium && l <= Quartile
}

// LevelForBits returns the Level carried by a two-bit format code.
func LevelForBits(bits int) (Level, error) {
	if bits < 0 || bits > 3 {
		return 0, ErrInvalidLevel
	}
	return Level(bits), nil
}

// row returns the level's row in the capacity tables, which are laid out in
// the conventional L, M, Q, H order.
func (l Level) row() int {
	switch l {
	case Low:
		return 0
	case Medium:
		return 1
	case Quartile:
		return 2
	default:
		return 3
	}
}

// String returns the conventional single-letter name.
func (l Level) String() string {
	switch l {
	case Low:
		return "L"
	case Medium:
		return "M"
	case Quartile:
		return "Q"
	case High:
		return "H"
	}
	return "?"
}
