package swank

import (
	"fmt"

	"github.com/loamlang/swank/pkg/interp"
	"github.com/loamlang/swank/pkg/sexp"
)

// frameMarker flags backtrace entries whose frame carries inspectable
// locals.
const frameMarker = "[env]"

// formatCondition renders a one-line condition summary combining the
// optional source location and the message text.
func formatCondition(e *interp.EvalError) sexp.Value {
	summary := e.Message
	if e.Location != "" {
		summary = e.Location + ": " + e.Message
	}
	return sexp.List(sexp.Str(summary), sexp.Str("EvalError"), sexp.Nil())
}

// formatRestarts lists the restarts on offer. There is exactly one:
// abandon the level and return to the top.
func formatRestarts() sexp.Value {
	return sexp.List(
		sexp.List(sexp.Str("ABORT"), sexp.Str("Return to top level.")),
	)
}

// formatChain renders a call chain for the debugger, most recent frame
// first, numbered from zero.
func formatChain(chain []interp.Frame) sexp.Value {
	frames := make([]sexp.Value, 0, len(chain))
	for i := range chain {
		f := chain[len(chain)-1-i]
		label := f.Form.String()
		if f.HasLocals() {
			label = frameMarker + " " + label
		}
		frames = append(frames, sexp.List(sexp.Int(int64(i)), sexp.Str(label)))
	}
	return sexp.List(frames...)
}

// frameLocals reports the bindings of the index-th displayed frame as
// (:name n :id slot :value text) property lists. Frames outside the
// chain, and frames without inspectable metadata, report none.
func frameLocals(chain []interp.Frame, index int) sexp.Value {
	if index < 0 || index >= len(chain) {
		return sexp.List()
	}
	f := chain[len(chain)-1-index]
	locals := f.Locals()
	out := make([]sexp.Value, 0, len(locals))
	for _, b := range locals {
		out = append(out, sexp.List(
			sexp.Sym(":name"), sexp.Str(b.Name),
			sexp.Sym(":id"), sexp.Int(int64(b.Slot)),
			sexp.Sym(":value"), sexp.Str(b.Value.String()),
		))
	}
	return sexp.List(out...)
}

// formatValues renders evaluation results the way the listener reports
// them.
func formatValues(v sexp.Value) sexp.Value {
	return sexp.List(sexp.Sym(":values"), sexp.List(sexp.Str(v.String())))
}

// protoError reports a request whose arguments cannot be used. The
// dispatcher answers it with an abort return; the session stays up.
type protoError struct {
	msg string
}

func (e *protoError) Error() string { return e.msg }

func argError(name string, args []sexp.Value) error {
	return &protoError{msg: fmt.Sprintf("%s: bad argument list %s", name, sexp.List(args...))}
}
