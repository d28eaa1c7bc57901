// Package charset maps QR ECI assignment values to character set decoders so
// byte segments under an ECI designator come back as UTF-8 text.
package charset

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset is one ECI-designatable character set. A nil Encoding means the
// bytes are already UTF-8 (or a UTF-8 subset) and pass through unchanged.
type Charset struct {
	Value    int
	Name     string
	Encoding encoding.Encoding
}

var charsets = []*Charset{
	{0, "Cp437", charmap.CodePage437},
	{1, "ISO-8859-1", charmap.ISO8859_1},
	{2, "Cp437", charmap.CodePage437},
	{3, "ISO-8859-1", charmap.ISO8859_1},
	{4, "ISO-8859-2", charmap.ISO8859_2},
	{5, "ISO-8859-3", charmap.ISO8859_3},
	{6, "ISO-8859-4", charmap.ISO8859_4},
	{7, "ISO-8859-5", charmap.ISO8859_5},
	{8, "ISO-8859-6", charmap.ISO8859_6},
	{9, "ISO-8859-7", charmap.ISO8859_7},
	{10, "ISO-8859-8", charmap.ISO8859_8},
	{11, "ISO-8859-9", charmap.ISO8859_9},
	{13, "ISO-8859-11", charmap.Windows874},
	{15, "ISO-8859-13", charmap.ISO8859_13},
	{16, "ISO-8859-14", charmap.ISO8859_14},
	{17, "ISO-8859-15", charmap.ISO8859_15},
	{18, "ISO-8859-16", charmap.ISO8859_16},
	{20, "Shift_JIS", japanese.ShiftJIS},
	{21, "windows-1250", charmap.Windows1250},
	{22, "windows-1251", charmap.Windows1251},
	{23, "windows-1252", charmap.Windows1252},
	{24, "windows-1256", charmap.Windows1256},
	{25, "UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
	{26, "UTF-8", nil},
	{27, "US-ASCII", nil},
	{28, "Big5", traditionalchinese.Big5},
	{29, "GB18030", simplifiedchinese.GB18030},
	{30, "EUC-KR", korean.EUCKR},
	{170, "US-ASCII", nil},
}

var byValue map[int]*Charset

func init() {
	byValue = make(map[int]*Charset, len(charsets))
	for _, cs := range charsets {
		byValue[cs.Value] = cs
	}
}

// ForECI returns the charset for an ECI assignment value.
func ForECI(value int) (*Charset, bool) {
	cs, ok := byValue[value]
	return cs, ok
}

// Decode converts data to UTF-8. If the charset has no converter or the
// conversion fails, the bytes pass through unchanged.
func (cs *Charset) Decode(data []byte) string {
	if cs.Encoding == nil {
		return string(data)
	}
	decoded, _, err := transform.Bytes(cs.Encoding.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
