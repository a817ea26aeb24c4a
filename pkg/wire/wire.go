// Package wire implements the length-prefixed message framing used on
// the editor connection: a 6-digit lowercase hexadecimal byte-length
// header followed by the canonical text of one s-expression.
package wire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/loamlang/swank/pkg/sexp"
)

// HeaderLen is the fixed width of the frame length header. Six hex
// digits bound payloads at 16 MiB.
const HeaderLen = 6

const maxPayload = 1<<24 - 1

// Encode serializes v into a single frame.
func Encode(v sexp.Value) ([]byte, error) {
	payload := []byte(v.String())
	if len(payload) > maxPayload {
		return nil, fmt.Errorf("wire: payload of %d bytes exceeds frame limit", len(payload))
	}
	buf := make([]byte, 0, HeaderLen+len(payload))
	buf = append(buf, fmt.Sprintf("%06x", len(payload))...)
	buf = append(buf, payload...)
	return buf, nil
}

// Decoder reads frames from a byte stream.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder creates a Decoder over r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads the next frame and parses its payload. A truncated or
// unparsable header means the peer went away, so it is reported as
// io.EOF rather than an error of its own.
func (d *Decoder) Decode() (sexp.Value, error) {
	header := make([]byte, HeaderLen)
	if _, err := io.ReadFull(d.r, header); err != nil {
		return sexp.Nil(), io.EOF
	}
	n, err := strconv.ParseUint(string(header), 16, 32)
	if err != nil {
		return sexp.Nil(), io.EOF
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(d.r, payload); err != nil {
		return sexp.Nil(), io.EOF
	}
	v, err := sexp.Read(string(payload))
	if err != nil {
		return sexp.Nil(), fmt.Errorf("wire: bad payload: %w", err)
	}
	return v, nil
}
