// Package encoding resolves a usable text encoding for raw filing bytes.
//
// SEC archives mix decades of submissions: modern filings are UTF-8, but
// older ones are frequently Windows-1252 or Latin-1. The resolver tries a
// prioritized list of decoders and, as a last resort, performs a lossy
// UTF-8 decode so downstream stages can still attempt extraction.
package encoding

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUndecodable is returned when no decoder succeeds cleanly and lossy
// fallback is disabled by policy.
var ErrUndecodable = errors.New("encoding: no clean decode and lossy fallback disabled")

// ErrEmptyInput is returned for a zero-length buffer.
var ErrEmptyInput = errors.New("encoding: empty input")

// Resolver decodes raw bytes into text.
type Resolver struct {
	// AllowLossy enables the replacement-rune fallback when no candidate
	// decodes cleanly. Kept as an explicit policy flag so strict-decode
	// failures can be asserted separately in tests.
	AllowLossy bool
}

// NewResolver returns a resolver with lossy fallback enabled, the behavior
// batch runs want.
func NewResolver() *Resolver {
	return &Resolver{AllowLossy: true}
}

// Result carries the decoded text and how it was obtained.
type Result struct {
	Text     string
	Encoding string // "utf-8", "windows-1252", "latin-1", or "utf-8 (lossy)"
	Lossy    bool
}

// Resolve decodes raw bytes, trying UTF-8 first and then the legacy
// single-byte encodings common in older filings. It only fails when the
// input is empty or when every decoder fails and AllowLossy is off.
func (r *Resolver) Resolve(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, ErrEmptyInput
	}

	if utf8.Valid(data) {
		return Result{Text: string(data), Encoding: "utf-8"}, nil
	}

	// Windows-1252 goes before Latin-1: it maps the 0x80-0x9F block to the
	// punctuation (curly quotes, dashes) EDGAR filings actually use.
	if text, ok := decodeWindows1252(data); ok {
		return Result{Text: text, Encoding: "windows-1252"}, nil
	}
	if text, ok := decodeLatin1(data); ok {
		return Result{Text: text, Encoding: "latin-1"}, nil
	}

	if !r.AllowLossy {
		return Result{}, ErrUndecodable
	}

	return Result{Text: lossyUTF8(data), Encoding: "utf-8 (lossy)", Lossy: true}, nil
}

// decodeWindows1252 decodes the buffer as Windows-1252, rejecting it when
// any byte lands on an undefined code point (the decoder substitutes U+FFFD
// for those rather than failing).
func decodeWindows1252(data []byte) (string, bool) {
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil || strings.ContainsRune(string(out), utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

// decodeLatin1 decodes the buffer as ISO 8859-1. Every byte maps to some
// rune, so instead of decode errors we reject buffers whose result is
// riddled with C1 control characters: that is binary data, not legacy text.
// A handful of stray controls is tolerated; the normalizer strips them.
func decodeLatin1(data []byte) (string, bool) {
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return "", false
	}
	text := string(out)
	controls, total := 0, 0
	for _, r := range text {
		total++
		if r >= 0x80 && r <= 0x9F {
			controls++
		}
	}
	if total == 0 || controls*100 > total {
		return "", false
	}
	return text, true
}

// lossyUTF8 replaces invalid sequences with the replacement rune without
// dropping any valid content.
func lossyUTF8(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(data[:size])
		}
		data = data[size:]
	}
	return b.String()
}
