package encoding

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveUTF8(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve([]byte("Management's Discussion and Analysis"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Encoding != "utf-8" || res.Lossy {
		t.Errorf("expected clean utf-8, got %q lossy=%v", res.Encoding, res.Lossy)
	}
	if res.Text != "Management's Discussion and Analysis" {
		t.Errorf("utf-8 text altered: %q", res.Text)
	}
}

func TestResolveWindows1252(t *testing.T) {
	r := NewResolver()

	// 0x92 is the Windows-1252 right single quote, invalid as UTF-8.
	res, err := r.Resolve([]byte("the Company\x92s results"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Encoding != "windows-1252" {
		t.Fatalf("expected windows-1252, got %q", res.Encoding)
	}
	if !strings.Contains(res.Text, "’") {
		t.Errorf("expected curly quote in decoded text, got %q", res.Text)
	}
}

func TestResolveLatin1(t *testing.T) {
	r := NewResolver()

	// 0x90 is undefined in Windows-1252 but maps to a C1 control in
	// Latin-1. A single one in a long buffer stays under the binary
	// detection threshold.
	data := []byte(strings.Repeat("annual report text ", 20) + "\x90" + strings.Repeat(" more text", 10))
	res, err := r.Resolve(data)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Encoding != "latin-1" {
		t.Errorf("expected latin-1, got %q", res.Encoding)
	}
}

func TestResolveLossyFallback(t *testing.T) {
	r := NewResolver()

	// Dense C1 bytes fail both legacy decoders.
	data := []byte("x\x81\x90\x8d\x9d\x81\x90\x8d\x9d")
	res, err := r.Resolve(data)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.Lossy || res.Encoding != "utf-8 (lossy)" {
		t.Errorf("expected lossy fallback, got %q lossy=%v", res.Encoding, res.Lossy)
	}
	if !strings.HasPrefix(res.Text, "x") {
		t.Errorf("lossy decode dropped valid content: %q", res.Text)
	}
}

func TestResolveStrictPolicy(t *testing.T) {
	r := &Resolver{AllowLossy: false}

	data := []byte("x\x81\x90\x8d\x9d\x81\x90\x8d\x9d")
	_, err := r.Resolve(data)
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("expected ErrUndecodable with lossy disabled, got %v", err)
	}
}

func TestResolveEmpty(t *testing.T) {
	r := NewResolver()

	if _, err := r.Resolve(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput for nil, got %v", err)
	}
	if _, err := r.Resolve([]byte{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput for empty, got %v", err)
	}
}
