// Package swank implements the session protocol engine that lets a
// SLIME-style editor drive the embedded runtime over one framed TCP
// stream: the request/response event loop, the exception-to-debugger
// escalation protocol and the standard-stream redirection.
package swank

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/loamlang/swank/pkg/interp"
	"github.com/loamlang/swank/pkg/logger"
	"github.com/loamlang/swank/pkg/sexp"
	"github.com/loamlang/swank/pkg/wire"
)

// errAbortToTop is the session's escape handle: returned up through the
// recursive loop stack, it discards every nested debug level in one
// step and is swallowed at the outermost loop.
var errAbortToTop = errors.New("abort to top level")

// Session is the protocol state of one accepted connection. All message
// handling runs on the goroutine that called Serve; only the interrupt
// flag may be touched from outside.
type Session struct {
	ID string

	conn io.ReadWriteCloser
	dec  *wire.Decoder
	log  *logger.Logger

	in    *interp.Interp
	input *remoteIn

	// lastChain is written by the exception path and read by the
	// frame-inspection commands.
	lastChain []interp.Frame

	readTag int
}

// NewSession wires a connection to a fresh evaluator whose standard
// streams are redirected onto the protocol.
func NewSession(conn io.ReadWriteCloser, log *logger.Logger) *Session {
	s := &Session{
		ID:   uuid.NewString(),
		conn: conn,
		dec:  wire.NewDecoder(conn),
		log:  log,
	}
	s.input = &remoteIn{s: s}
	s.in = interp.New(
		interp.WithStdout(&remoteOut{s: s}),
		interp.WithStdin(s.input),
	)
	return s
}

// Interrupt requests that the evaluation in progress abort back to the
// top level without entering the debugger.
func (s *Session) Interrupt() { s.in.Interrupt() }

// send encodes v as one frame and writes it to the peer.
func (s *Session) send(v sexp.Value) error {
	frame, err := wire.Encode(v)
	if err != nil {
		return err
	}
	s.log.Debug("send %s", v)
	if _, err := s.conn.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Serve runs the session's outermost event loop until the peer
// disconnects. The escape handle lands here.
func (s *Session) Serve() error {
	defer s.conn.Close()
	s.log.Info("session %s connected", s.ID)
	for {
		_, err := s.loop(0)
		switch {
		case err == nil:
			// A string return arrived with no read prompt pending.
			s.log.Warn("discarding string return outside a read prompt")
		case errors.Is(err, errAbortToTop):
			// Unwound back to the top level; keep serving.
		case errors.Is(err, io.EOF):
			s.log.Info("session %s disconnected", s.ID)
			return nil
		default:
			s.log.Error("session %s failed: %v", s.ID, err)
			return err
		}
	}
}

// loop is the session event loop. It is re-entered recursively for each
// debug level and each read prompt; level is the current debug nesting
// depth. It returns a value only when the client answers a read prompt
// with a string return.
func (s *Session) loop(level int) (sexp.Value, error) {
	for {
		msg, err := s.dec.Decode()
		if err != nil {
			return sexp.Nil(), err
		}
		s.log.Debug("recv %s", msg)
		head, _ := msg.Head()
		switch head.SymbolName() {
		case ":emacs-rex":
			// (:emacs-rex form package thread id)
			if err := s.dispatch(msg.Nth(1), msg.Nth(4), level); err != nil {
				return sexp.Nil(), err
			}
		case ":emacs-return-string":
			// (:emacs-return-string thread tag string)
			return msg.Nth(3), nil
		default:
			// Unknown tags are dropped after reporting; the session
			// stays up. See DESIGN.md.
			s.log.Warn("dropping message with unknown tag %q", head.SymbolName())
		}
	}
}

// dispatch runs one command under the protected evaluation boundary and
// classifies the outcome: success, recoverable evaluation error, or
// interrupt. Whatever happens, the request gets exactly one reply; the
// deferred abort return covers every path that did not answer.
func (s *Session) dispatch(form, id sexp.Value, level int) (err error) {
	replied := false
	reason := "abort"
	defer func() {
		if !replied {
			s.sendReturn(sexp.List(sexp.Sym(":abort"), sexp.Str(reason)), id)
		}
	}()

	op, ok := form.Head()
	if !ok || !op.IsSymbol() {
		reason = fmt.Sprintf("malformed request: %s", form)
		s.log.Warn("malformed request: %s", form)
		return nil
	}
	h, ok := commands[op.Symbol]
	if !ok {
		reason = fmt.Sprintf("unknown command: %s", op.Symbol)
		s.log.Warn("unknown command %q", op.Symbol)
		return nil
	}

	args := make([]sexp.Value, 0, len(form.List)-1)
	for _, a := range form.List[1:] {
		args = append(args, Normalize(a))
	}

	s.input.level = level
	val, herr := h(s, level, args)

	switch {
	case herr == nil:
		if serr := s.sendReturn(sexp.List(sexp.Sym(":ok"), val), id); serr != nil {
			return serr
		}
		replied = true
		return nil
	case errors.Is(herr, errAbortToTop):
		reason = "return to top level"
		return herr
	}

	var pe *protoError
	if errors.As(herr, &pe) {
		reason = pe.msg
		s.log.Warn("%s", pe.msg)
		return nil
	}
	var intr *interp.Interrupt
	if errors.As(herr, &intr) {
		// Interrupts bypass the debugger entirely.
		reason = "evaluation interrupted"
		return errAbortToTop
	}
	var evalErr *interp.EvalError
	if errors.As(herr, &evalErr) {
		s.lastChain = evalErr.Chain
		reason = evalErr.Message
		return s.debugLoop(evalErr, level+1)
	}
	// Anything else is fatal to the session.
	return herr
}

func (s *Session) sendReturn(result, id sexp.Value) error {
	return s.send(sexp.List(sexp.Sym(":return"), result, id))
}

// debugLoop announces a debug level, hosts nested commands by
// re-entering the event loop, and on every exit path announces the
// level's end. Unwinding N levels through the escape handle therefore
// emits N debug returns, innermost first.
func (s *Session) debugLoop(e *interp.EvalError, level int) (err error) {
	enter := sexp.List(
		sexp.Sym(":debug"),
		sexp.Int(0),
		sexp.Int(int64(level)),
		formatCondition(e),
		formatRestarts(),
		formatChain(s.lastChain),
		sexp.List(),
	)
	if err := s.send(enter); err != nil {
		return err
	}
	if err := s.send(sexp.List(sexp.Sym(":debug-activate"), sexp.Int(0), sexp.Int(int64(level)))); err != nil {
		return err
	}
	defer func() {
		serr := s.send(sexp.List(sexp.Sym(":debug-return"), sexp.Int(0), sexp.Int(int64(level))))
		if serr != nil && err == nil {
			err = serr
		}
	}()
	for {
		_, err = s.loop(level)
		if err == nil {
			s.log.Warn("discarding string return inside debug level %d", level)
			continue
		}
		return err
	}
}
