package body

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// candidate is one encoding tried by Decode
type candidate struct {
	name string
	enc  encoding.Encoding
}

// candidates are tried in order. Latin-1 maps every byte, so it always
// succeeds and ends the list.
var candidates = []candidate{
	{"utf-8", unicode.UTF8BOM},
	{"cp932", japanese.ShiftJIS},
	{"euc-jp", japanese.EUCJP},
	{"iso-2022-jp", japanese.ISO2022JP},
	{"latin-1", charmap.ISO8859_1},
}

// Decode returns b as text together with the name of the first candidate
// encoding that decodes it without invalid sequences. CRLF becomes LF.
// Nil input is not decoded.
func Decode(b []byte) (string, string, bool) {
	if b == nil {
		return "", "", false
	}
	for _, c := range candidates {
		if s, ok := decodeStrict(c, b); ok {
			return strings.ReplaceAll(s, "\r\n", "\n"), c.name, true
		}
	}
	return "", "", false
}

// decodeStrict fails instead of substituting U+FFFD for bad input
func decodeStrict(c candidate, b []byte) (string, bool) {
	if c.name == "utf-8" && !utf8.Valid(b) {
		return "", false
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	if c.name != "utf-8" && bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}
