package wire

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/loamlang/swank/pkg/sexp"
)

func TestRoundTrip(t *testing.T) {
	payloads := []sexp.Value{
		sexp.Nil(),
		sexp.Int(42),
		sexp.Str("hello\nworld"),
		sexp.List(sexp.Sym(":return"), sexp.List(sexp.Sym(":ok"), sexp.Int(3)), sexp.Int(1)),
	}
	var buf bytes.Buffer
	for _, p := range payloads {
		frame, err := Encode(p)
		if err != nil {
			t.Fatalf("Encode(%s) failed: %v", p, err)
		}
		buf.Write(frame)
	}
	dec := NewDecoder(&buf)
	for _, p := range payloads {
		v, err := dec.Decode()
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !v.Equal(p) {
			t.Errorf("round trip changed %s to %s", p, v)
		}
	}
	if _, err := dec.Decode(); err != io.EOF {
		t.Errorf("expected EOF at end of stream, got %v", err)
	}
}

func TestHeaderWidth(t *testing.T) {
	frame, err := Encode(sexp.Str(strings.Repeat("x", 300)))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	header := string(frame[:HeaderLen])
	if header != "00012e" {
		t.Errorf("header = %q, want 00012e", header)
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	dec := NewDecoder(strings.NewReader("0000"))
	if _, err := dec.Decode(); err != io.EOF {
		t.Errorf("truncated header should read as EOF, got %v", err)
	}
}

func TestDecodeBadHeader(t *testing.T) {
	dec := NewDecoder(strings.NewReader("zzzzzz(+ 1 2)"))
	if _, err := dec.Decode(); err != io.EOF {
		t.Errorf("unparsable header should read as EOF, got %v", err)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	dec := NewDecoder(strings.NewReader("000010(+ 1"))
	if _, err := dec.Decode(); err != io.EOF {
		t.Errorf("truncated payload should read as EOF, got %v", err)
	}
}

func TestEncodeTooLarge(t *testing.T) {
	if _, err := Encode(sexp.Str(strings.Repeat("x", maxPayload+1))); err == nil {
		t.Error("oversized payload should fail to encode")
	}
}
