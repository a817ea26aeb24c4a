package sexp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Reader parses s-expressions from a string.
type Reader struct {
	src []rune
	pos int
}

// NewReader creates a Reader over src.
func NewReader(src string) *Reader {
	return &Reader{src: []rune(src)}
}

// Read parses the next expression. It returns ErrEOF when the input is
// exhausted.
func (r *Reader) Read() (Value, error) {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return Nil(), ErrEOF
	}
	return r.readValue()
}

// ReadAll parses every expression remaining in the input.
func (r *Reader) ReadAll() ([]Value, error) {
	var out []Value
	for {
		v, err := r.Read()
		if err == ErrEOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// Read parses a single expression from src. Trailing input is an error.
func Read(src string) (Value, error) {
	r := NewReader(src)
	v, err := r.Read()
	if err != nil {
		return Nil(), err
	}
	r.skipSpace()
	if r.pos < len(r.src) {
		return Nil(), fmt.Errorf("trailing input at offset %d", r.pos)
	}
	return v, nil
}

// ErrEOF marks exhausted reader input.
var ErrEOF = fmt.Errorf("sexp: end of input")

func (r *Reader) skipSpace() {
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		if unicode.IsSpace(c) {
			r.pos++
			continue
		}
		if c == ';' {
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
			continue
		}
		break
	}
}

func (r *Reader) readValue() (Value, error) {
	c := r.src[r.pos]
	switch {
	case c == '(':
		return r.readList()
	case c == ')':
		return Nil(), fmt.Errorf("unexpected ) at offset %d", r.pos)
	case c == '"':
		return r.readString()
	case c == '\'':
		r.pos++
		r.skipSpace()
		if r.pos >= len(r.src) {
			return Nil(), fmt.Errorf("quote at end of input")
		}
		quoted, err := r.readValue()
		if err != nil {
			return Nil(), err
		}
		return List(Sym("quote"), quoted), nil
	default:
		return r.readAtom()
	}
}

func (r *Reader) readList() (Value, error) {
	r.pos++ // consume (
	items := []Value{}
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return Nil(), fmt.Errorf("unterminated list")
		}
		if r.src[r.pos] == ')' {
			r.pos++
			return List(items...), nil
		}
		v, err := r.readValue()
		if err != nil {
			return Nil(), err
		}
		items = append(items, v)
	}
}

func (r *Reader) readString() (Value, error) {
	r.pos++ // consume opening quote
	var b strings.Builder
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		r.pos++
		switch c {
		case '"':
			return Str(b.String()), nil
		case '\\':
			if r.pos >= len(r.src) {
				return Nil(), fmt.Errorf("unterminated string escape")
			}
			e := r.src[r.pos]
			r.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"', '\\':
				b.WriteRune(e)
			default:
				return Nil(), fmt.Errorf("bad string escape \\%c", e)
			}
		default:
			b.WriteRune(c)
		}
	}
	return Nil(), fmt.Errorf("unterminated string")
}

func isDelimiter(c rune) bool {
	return unicode.IsSpace(c) || c == '(' || c == ')' || c == '"' || c == ';'
}

func (r *Reader) readAtom() (Value, error) {
	start := r.pos
	for r.pos < len(r.src) && !isDelimiter(r.src[r.pos]) {
		r.pos++
	}
	tok := string(r.src[start:r.pos])
	switch tok {
	case "nil":
		return Nil(), nil
	case "t":
		return True(), nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Int(n), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return Float(f), nil
	}
	return Sym(tok), nil
}
