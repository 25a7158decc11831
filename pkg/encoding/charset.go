// Package encoding converts .map text from UTF-8 to the code pages older
// editors and compilers expect.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is returned for charset names Lookup does not know.
var ErrUnknownCharset = errors.New("unknown charset")

// UTF8 is the default charset; text passes through unchanged.
const UTF8 = "utf-8"

var charsets = map[string]encoding.Encoding{
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"euc-kr":       korean.EUCKR,
}

// Lookup returns the encoding for name. UTF-8 and the empty name return nil.
func Lookup(name string) (encoding.Encoding, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", UTF8, "utf8":
		return nil, nil
	default:
		enc, ok := charsets[n]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownCharset, name)
		}
		return enc, nil
	}
}

// NewWriter returns a writer that encodes UTF-8 input into charset before
// passing it to w. Close flushes the encoder; it does not close w.
// Runes the charset cannot represent fail the write.
func NewWriter(w io.Writer, charset string) (io.WriteCloser, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nopCloser{w}, nil
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}

// Encode converts s to charset.
func Encode(s, charset string) ([]byte, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(s), nil
	}
	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding to %s: %w", charset, err)
	}
	return out, nil
}

// Decode converts data in charset to a UTF-8 string.
func Decode(data []byte, charset string) (string, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(data), nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding from %s: %w", charset, err)
	}
	return string(out), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
