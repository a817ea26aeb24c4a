package swank

import (
	"io"

	"github.com/loamlang/swank/pkg/sexp"
)

// remoteOut makes the evaluator's standard output appear on the
// protocol: every write is packaged as a (:write-string s) message and
// sent immediately.
type remoteOut struct {
	s *Session
}

func (w *remoteOut) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := w.s.send(sexp.List(sexp.Sym(":write-string"), sexp.Str(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// remoteIn makes the evaluator's standard input pull from the client.
// Reads drain the buffered string from the last reply; when it is
// exhausted, a (:read-string thread tag) prompt is sent and the event
// loop is re-entered to receive the next string return. The suspension
// is purely recursive; no extra goroutine is involved.
type remoteIn struct {
	s     *Session
	level int
	buf   []byte
}

func (r *remoteIn) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		r.s.readTag++
		prompt := sexp.List(sexp.Sym(":read-string"), sexp.Int(0), sexp.Int(int64(r.s.readTag)))
		if err := r.s.send(prompt); err != nil {
			return 0, err
		}
		v, err := r.s.loop(r.level)
		if err != nil {
			return 0, err
		}
		if v.Str == "" {
			return 0, io.EOF
		}
		r.buf = []byte(v.Str)
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
