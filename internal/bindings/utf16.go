package bindings

import "unicode/utf16"

// decodeUTF16LE converts a little-endian UTF-16 byte buffer, as returned by
// PDFium's text APIs, into a Go string. A trailing NUL terminator, if
// present, is dropped. An odd trailing byte is ignored.
func decodeUTF16LE(b []byte) string {
	n := len(b) / 2
	units := make([]uint16, 0, n)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])|uint16(b[i+1])<<8)
	}
	for len(units) > 0 && units[len(units)-1] == 0 {
		units = units[:len(units)-1]
	}
	return string(utf16.Decode(units))
}

// encodeUTF16LE converts s into NUL-terminated UTF-16 code units in host
// order, the layout FPDF_WIDESTRING parameters expect on little-endian
// platforms.
func encodeUTF16LE(s string) []uint16 {
	units := utf16.Encode([]rune(s))
	return append(units, 0)
}

// utf16Bytes lays out NUL-terminated UTF-16LE code units for s as raw bytes,
// for backends that copy widestrings into foreign memory.
func utf16Bytes(s string) []byte {
	units := encodeUTF16LE(s)
	b := make([]byte, len(units)*2)
	for i, u := range units {
		b[i*2] = byte(u)
		b[i*2+1] = byte(u >> 8)
	}
	return b
}
