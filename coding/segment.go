package coding

import (
	"fmt"
	"strings"

	"github.com/ericlevine/qrcodec/charset"
)

// Mode is a segment encoding mode. The constant values are the four-bit mode
// indicators from the symbol bit stream.
type Mode int

const (
	ModeTerminator   Mode = 0x0
	ModeNumeric      Mode = 0x1
	ModeAlphanumeric Mode = 0x2
	ModeByte         Mode = 0x4
	ModeECI          Mode = 0x7
	ModeKanji        Mode = 0x8
)

// Bits returns the four-bit mode indicator.
func (m Mode) Bits() int {
	return int(m)
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeTerminator:
		return "terminator"
	case ModeNumeric:
		return "numeric"
	case ModeAlphanumeric:
		return "alphanumeric"
	case ModeByte:
		return "byte"
	case ModeECI:
		return "eci"
	case ModeKanji:
		return "kanji"
	}
	return "unknown"
}

const alphanumericChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

var alphanumericTable [128]int

func init() {
	for i := range alphanumericTable {
		alphanumericTable[i] = -1
	}
	for i := 0; i < len(alphanumericChars); i++ {
		alphanumericTable[alphanumericChars[i]] = i
	}
}

func alphanumericCode(c rune) int {
	if c < 128 {
		return alphanumericTable[c]
	}
	return -1
}

// characterCountBits holds length-field widths for the three version size
// classes 1-9, 10-26, 27-40.
var characterCountBits = map[Mode][3]int{
	ModeNumeric:      {10, 12, 14},
	ModeAlphanumeric: {9, 11, 13},
	ModeByte:         {8, 16, 16},
	ModeKanji:        {8, 10, 12},
}

// CharacterCountBits returns the width of the length field for a mode at a
// version.
func (m Mode) CharacterCountBits(version int) int {
	offset := 0
	if version > 26 {
		offset = 2
	} else if version > 9 {
		offset = 1
	}
	return characterCountBits[m][offset]
}

// Classify picks the densest mode whose alphabet covers every character:
// numeric, then alphanumeric, then byte.
func Classify(text string) Mode {
	numeric := true
	alphanumeric := true
	for _, c := range text {
		if c < '0' || c > '9' {
			numeric = false
		}
		if alphanumericCode(c) == -1 {
			alphanumeric = false
		}
	}
	switch {
	case numeric:
		return ModeNumeric
	case alphanumeric:
		return ModeAlphanumeric
	default:
		return ModeByte
	}
}

// Segment is a single encoded payload. A symbol carries exactly one segment
// in this library.
type Segment struct {
	Mode Mode
	Text string
	Data []byte // byte-mode payload
}

// MakeSegment classifies or validates text for a mode. A zero forced mode
// auto-classifies; Kanji and ECI are rejected on encode. For byte mode the
// encoder callback maps the text to bytes, defaulting to UTF-8.
func MakeSegment(text string, forced Mode, encoder func(string) []byte) (Segment, error) {
	mode := forced
	if mode == ModeTerminator {
		mode = Classify(text)
	}
	switch mode {
	case ModeNumeric, ModeAlphanumeric:
		if want := Classify(text); want != mode && !(mode == ModeAlphanumeric && want == ModeNumeric) {
			return Segment{}, fmt.Errorf("%w: %s", ErrInvalidEncoding, mode)
		}
		return Segment{Mode: mode, Text: text}, nil
	case ModeByte:
		data := []byte(text)
		if encoder != nil {
			data = encoder(text)
		}
		return Segment{Mode: mode, Text: text, Data: data}, nil
	case ModeKanji, ModeECI:
		return Segment{}, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	return Segment{}, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
}

// length returns the value of the segment's length field: characters for
// numeric and alphanumeric, bytes for byte mode.
func (s Segment) length() int {
	if s.Mode == ModeByte {
		return len(s.Data)
	}
	return len(s.Text)
}

// payloadBits returns the bit length of the encoded payload body.
func (s Segment) payloadBits() int {
	switch s.Mode {
	case ModeNumeric:
		n := len(s.Text)
		bits := n / 3 * 10
		switch n % 3 {
		case 1:
			bits += 4
		case 2:
			bits += 7
		}
		return bits
	case ModeAlphanumeric:
		n := len(s.Text)
		return n/2*11 + n%2*6
	default:
		return 8 * len(s.Data)
	}
}

// BitLength returns the full encoded size of the segment at a version: mode
// indicator, length field, and payload.
func (s Segment) BitLength(version int) int {
	return 4 + s.Mode.CharacterCountBits(version) + s.payloadBits()
}

func (s Segment) appendPayload(w *BitWriter) {
	switch s.Mode {
	case ModeNumeric:
		text := s.Text
		for len(text) >= 3 {
			w.WriteBits(uint32(digits(text[:3])), 10)
			text = text[3:]
		}
		switch len(text) {
		case 2:
			w.WriteBits(uint32(digits(text)), 7)
		case 1:
			w.WriteBits(uint32(digits(text)), 4)
		}
	case ModeAlphanumeric:
		text := s.Text
		for len(text) >= 2 {
			w.WriteBits(uint32(45*alphanumericCode(rune(text[0]))+alphanumericCode(rune(text[1]))), 11)
			text = text[2:]
		}
		if len(text) == 1 {
			w.WriteBits(uint32(alphanumericCode(rune(text[0]))), 6)
		}
	default:
		for _, b := range s.Data {
			w.WriteBits(uint32(b), 8)
		}
	}
}

func digits(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		v = v*10 + int(s[i]-'0')
	}
	return v
}

// The two-byte pad pattern that fills spare data capacity.
const (
	padByte1 = 0xEC
	padByte2 = 0x11
)

// Assemble encodes the segment for a version and level: mode, length field,
// payload, terminator, byte padding, and the alternating pad codewords. It
// returns exactly the data codewords of the symbol, or ErrCapacityOverflow.
func Assemble(s Segment, version int, level Level) ([]byte, error) {
	bl, err := BlocksFor(version, level)
	if err != nil {
		return nil, err
	}
	if s.BitLength(version) > bl.DataBits {
		return nil, fmt.Errorf("%w: %d bits for version %d-%s", ErrCapacityOverflow, s.BitLength(version), version, level)
	}

	var w BitWriter
	w.WriteBits(uint32(s.Mode.Bits()), 4)
	w.WriteBits(uint32(s.length()), s.Mode.CharacterCountBits(version))
	s.appendPayload(&w)

	for i := 0; i < 4 && w.Len() < bl.DataBits; i++ {
		w.WriteBits(0, 1)
	}
	if r := w.Len() % 8; r != 0 {
		w.WriteBits(0, 8-r)
	}
	data := w.Bytes()
	for i := 0; len(data) < bl.DataWords; i++ {
		if i%2 == 0 {
			data = append(data, padByte1)
		} else {
			data = append(data, padByte2)
		}
	}
	return data, nil
}

// ParseData parses the decoded data codewords back into text. The stream is
// a sequence of mode-tagged segments ended by a terminator or by running out
// of bits. ECI designators switch the charset applied to subsequent byte
// segments; otherwise byte segments go through textDecoder, defaulting to
// UTF-8.
func ParseData(data []byte, version int, textDecoder func([]byte) string) (string, error) {
	r := NewBitReader(data)
	var result strings.Builder
	var eci *charset.Charset

	for {
		if r.Remaining() < 4 {
			break
		}
		modeBits, err := r.ReadBits(4)
		if err != nil {
			return "", err
		}
		mode := Mode(modeBits)
		if mode == ModeTerminator {
			break
		}

		switch mode {
		case ModeECI:
			value, err := parseECIDesignator(r)
			if err != nil {
				return "", err
			}
			cs, ok := charset.ForECI(value)
			if !ok {
				return "", fmt.Errorf("%w: eci %d", ErrUnsupportedMode, value)
			}
			eci = cs
			continue
		case ModeKanji:
			return "", fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
		case ModeNumeric, ModeAlphanumeric, ModeByte:
		default:
			return "", fmt.Errorf("%w: mode %#x", ErrSegmentParse, modeBits)
		}

		count, err := r.ReadBits(mode.CharacterCountBits(version))
		if err != nil {
			return "", err
		}
		switch mode {
		case ModeNumeric:
			err = parseNumeric(r, &result, count)
		case ModeAlphanumeric:
			err = parseAlphanumeric(r, &result, count)
		case ModeByte:
			err = parseByte(r, &result, count, eci, textDecoder)
		}
		if err != nil {
			return "", err
		}
	}
	return result.String(), nil
}

func parseNumeric(r *BitReader, result *strings.Builder, count int) error {
	for count >= 3 {
		three, err := r.ReadBits(10)
		if err != nil {
			return err
		}
		if three >= 1000 {
			return fmt.Errorf("%w: numeric triplet %d", ErrSegmentParse, three)
		}
		fmt.Fprintf(result, "%03d", three)
		count -= 3
	}
	switch count {
	case 2:
		two, err := r.ReadBits(7)
		if err != nil {
			return err
		}
		if two >= 100 {
			return fmt.Errorf("%w: numeric pair %d", ErrSegmentParse, two)
		}
		fmt.Fprintf(result, "%02d", two)
	case 1:
		one, err := r.ReadBits(4)
		if err != nil {
			return err
		}
		if one >= 10 {
			return fmt.Errorf("%w: numeric digit %d", ErrSegmentParse, one)
		}
		fmt.Fprintf(result, "%d", one)
	}
	return nil
}

func parseAlphanumeric(r *BitReader, result *strings.Builder, count int) error {
	for count >= 2 {
		pair, err := r.ReadBits(11)
		if err != nil {
			return err
		}
		if pair >= 45*45 {
			return fmt.Errorf("%w: alphanumeric pair %d", ErrSegmentParse, pair)
		}
		result.WriteByte(alphanumericChars[pair/45])
		result.WriteByte(alphanumericChars[pair%45])
		count -= 2
	}
	if count == 1 {
		v, err := r.ReadBits(6)
		if err != nil {
			return err
		}
		if v >= 45 {
			return fmt.Errorf("%w: alphanumeric value %d", ErrSegmentParse, v)
		}
		result.WriteByte(alphanumericChars[v])
	}
	return nil
}

func parseByte(r *BitReader, result *strings.Builder, count int, eci *charset.Charset, textDecoder func([]byte) string) error {
	if 8*count > r.Remaining() {
		return fmt.Errorf("%w: byte segment truncated", ErrSegmentParse)
	}
	data := make([]byte, count)
	for i := range data {
		v, _ := r.ReadBits(8)
		data[i] = byte(v)
	}
	switch {
	case eci != nil:
		result.WriteString(eci.Decode(data))
	case textDecoder != nil:
		result.WriteString(textDecoder(data))
	default:
		result.Write(data)
	}
	return nil
}

// parseECIDesignator reads the variable-width ECI assignment value: one, two,
// or three bytes selected by the leading bits.
func parseECIDesignator(r *BitReader) (int, error) {
	first, err := r.ReadBits(8)
	if err != nil {
		return 0, err
	}
	switch {
	case first&0x80 == 0:
		return first & 0x7F, nil
	case first&0xC0 == 0x80:
		second, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		return (first&0x3F)<<8 | second, nil
	case first&0xE0 == 0xC0:
		rest, err := r.ReadBits(16)
		if err != nil {
			return 0, err
		}
		return (first&0x1F)<<16 | rest, nil
	}
	return 0, fmt.Errorf("%w: eci designator %#x", ErrSegmentParse, first)
}
