// Package encoding decodes mesh text exported in legacy character sets.
//
// OBJ files only need ASCII for geometry, but material names and comments
// written by older exporters are often EUC-KR, Shift-JIS or Windows-1252.
// Decoding them up front keeps group names readable in the emitted buffers.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for charset names x/text does not know.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// IsUTF8 reports whether name means "no transcoding".
func IsUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// Lookup resolves a charset label (WHATWG names such as "euc-kr",
// "shift_jis", "latin1", "windows-1252") to an x/text encoding.
func Lookup(name string) (encoding.Encoding, error) {
	if IsUTF8(name) {
		return encoding.Nop, nil
	}
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// NewReader wraps r so it yields UTF-8 decoded from the named charset.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	if IsUTF8(name) {
		return r, nil
	}
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
