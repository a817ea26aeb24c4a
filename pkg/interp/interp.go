// Package interp is the embedded language runtime driven by the swank
// protocol engine: a small lexically-scoped Lisp with call-chain
// capture for the remote debugger and injectable standard streams for
// protocol-level I/O redirection.
package interp

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/loamlang/swank/pkg/sexp"
)

// Interp is one evaluator instance. It is not safe for concurrent use;
// the protocol engine serves a single connection on a single goroutine.
// Interrupt may be called from another goroutine.
type Interp struct {
	globals     *Env
	stdout      io.Writer
	stdin       io.Reader
	interrupted atomic.Bool
	stack       []Frame
}

// Option configures an Interp.
type Option func(*Interp)

// WithStdout sets the writer evaluated code prints to.
func WithStdout(w io.Writer) Option {
	return func(in *Interp) { in.stdout = w }
}

// WithStdin sets the reader evaluated code reads from.
func WithStdin(r io.Reader) Option {
	return func(in *Interp) { in.stdin = r }
}

// New creates an evaluator with the standard global environment.
func New(opts ...Option) *Interp {
	in := &Interp{
		globals: NewEnv(nil),
		stdout:  os.Stdout,
		stdin:   os.Stdin,
	}
	for _, opt := range opts {
		opt(in)
	}
	for _, b := range builtins {
		in.globals.Define(b.name, sexp.Func(b.name, b))
	}
	return in
}

// Interrupt requests that the evaluation in progress stop with an
// Interrupt condition at the next evaluation step.
func (in *Interp) Interrupt() { in.interrupted.Store(true) }

// Eval evaluates one top-level form.
func (in *Interp) Eval(form sexp.Value) (sexp.Value, error) {
	in.stack = in.stack[:0]
	return in.eval(form, in.globals)
}

// EvalString reads every form in src and evaluates them in order,
// returning the last value.
func (in *Interp) EvalString(src string) (sexp.Value, error) {
	forms, err := sexp.NewReader(src).ReadAll()
	if err != nil {
		in.stack = in.stack[:0]
		return sexp.Nil(), in.fail("read error: %v", err)
	}
	result := sexp.Nil()
	for _, form := range forms {
		result, err = in.Eval(form)
		if err != nil {
			return sexp.Nil(), err
		}
	}
	return result, nil
}

// closure is a user-defined function value.
type closure struct {
	name   string
	params []string
	body   []sexp.Value
	env    *Env
}

// specialForms maps special form names to their arglists, for the
// introspection commands.
var specialForms = map[string]string{
	"quote":  "(quote form)",
	"if":     "(if test then &optional else)",
	"progn":  "(progn &rest forms)",
	"let":    "(let bindings &rest body)",
	"lambda": "(lambda params &rest body)",
	"defun":  "(defun name params &rest body)",
	"setq":   "(setq name value)",
	"and":    "(and &rest forms)",
	"or":     "(or &rest forms)",
}

func (in *Interp) eval(form sexp.Value, env *Env) (sexp.Value, error) {
	if in.interrupted.Swap(false) {
		return sexp.Nil(), &Interrupt{}
	}
	switch form.Type {
	case sexp.TypeNil, sexp.TypeBool, sexp.TypeInt, sexp.TypeFloat, sexp.TypeString, sexp.TypeFunc:
		return form, nil
	case sexp.TypeSymbol:
		if v, ok := env.Get(form.Symbol); ok {
			return v, nil
		}
		return sexp.Nil(), in.fail("unbound variable: %s", form.Symbol)
	case sexp.TypeList:
		if len(form.List) == 0 {
			return sexp.Nil(), nil
		}
		return in.evalList(form, env)
	}
	return sexp.Nil(), in.fail("cannot evaluate %s", form)
}

func (in *Interp) evalList(form sexp.Value, env *Env) (sexp.Value, error) {
	if op := form.List[0]; op.IsSymbol() {
		switch op.Symbol {
		case "quote":
			if len(form.List) != 2 {
				return sexp.Nil(), in.fail("quote takes one argument")
			}
			return form.List[1], nil
		case "if":
			return in.evalIf(form, env)
		case "progn":
			return in.evalSeq(form.List[1:], env)
		case "let":
			return in.evalLet(form, env)
		case "lambda":
			return in.makeClosure("", form, 1, env)
		case "defun":
			return in.evalDefun(form, env)
		case "setq":
			return in.evalSetq(form, env)
		case "and":
			result := sexp.True()
			for _, f := range form.List[1:] {
				v, err := in.eval(f, env)
				if err != nil {
					return sexp.Nil(), err
				}
				if !v.IsTruthy() {
					return v, nil
				}
				result = v
			}
			return result, nil
		case "or":
			for _, f := range form.List[1:] {
				v, err := in.eval(f, env)
				if err != nil {
					return sexp.Nil(), err
				}
				if v.IsTruthy() {
					return v, nil
				}
			}
			return sexp.Nil(), nil
		}
	}

	// Function application: operator, then arguments, left to right.
	fn, err := in.eval(form.List[0], env)
	if err != nil {
		return sexp.Nil(), err
	}
	args := make([]sexp.Value, 0, len(form.List)-1)
	for _, argForm := range form.List[1:] {
		v, err := in.eval(argForm, env)
		if err != nil {
			return sexp.Nil(), err
		}
		args = append(args, v)
	}
	return in.apply(form, fn, args)
}

func (in *Interp) apply(form, fn sexp.Value, args []sexp.Value) (sexp.Value, error) {
	if fn.Type != sexp.TypeFunc {
		return sexp.Nil(), in.fail("not a function: %s", fn)
	}
	switch f := fn.Fn.(type) {
	case *builtin:
		// Builtin frames carry no locals metadata.
		in.stack = append(in.stack, Frame{Form: form})
		v, err := f.fn(in, args)
		in.stack = in.stack[:len(in.stack)-1]
		return v, err
	case *closure:
		if len(args) != len(f.params) {
			return sexp.Nil(), in.fail("%s expects %d arguments, got %d",
				fn.Symbol, len(f.params), len(args))
		}
		callEnv := NewEnv(f.env)
		for i, p := range f.params {
			callEnv.Define(p, args[i])
		}
		in.stack = append(in.stack, Frame{Form: form, Env: callEnv})
		v, err := in.evalSeq(f.body, callEnv)
		in.stack = in.stack[:len(in.stack)-1]
		return v, err
	}
	return sexp.Nil(), in.fail("not a function: %s", fn)
}

func (in *Interp) evalIf(form sexp.Value, env *Env) (sexp.Value, error) {
	if len(form.List) < 3 || len(form.List) > 4 {
		return sexp.Nil(), in.fail("if takes two or three arguments")
	}
	cond, err := in.eval(form.List[1], env)
	if err != nil {
		return sexp.Nil(), err
	}
	if cond.IsTruthy() {
		return in.eval(form.List[2], env)
	}
	if len(form.List) == 4 {
		return in.eval(form.List[3], env)
	}
	return sexp.Nil(), nil
}

func (in *Interp) evalSeq(forms []sexp.Value, env *Env) (sexp.Value, error) {
	result := sexp.Nil()
	for _, f := range forms {
		v, err := in.eval(f, env)
		if err != nil {
			return sexp.Nil(), err
		}
		result = v
	}
	return result, nil
}

func (in *Interp) evalLet(form sexp.Value, env *Env) (sexp.Value, error) {
	if len(form.List) < 2 || !form.List[1].IsList() {
		return sexp.Nil(), in.fail("let needs a binding list")
	}
	letEnv := NewEnv(env)
	for _, b := range form.List[1].List {
		if !b.IsList() || len(b.List) != 2 || !b.List[0].IsSymbol() {
			return sexp.Nil(), in.fail("bad let binding: %s", b)
		}
		v, err := in.eval(b.List[1], env)
		if err != nil {
			return sexp.Nil(), err
		}
		letEnv.Define(b.List[0].Symbol, v)
	}
	in.stack = append(in.stack, Frame{Form: form, Env: letEnv})
	v, err := in.evalSeq(form.List[2:], letEnv)
	in.stack = in.stack[:len(in.stack)-1]
	return v, err
}

func (in *Interp) makeClosure(name string, form sexp.Value, paramIdx int, env *Env) (sexp.Value, error) {
	if len(form.List) <= paramIdx || !form.List[paramIdx].IsList() {
		return sexp.Nil(), in.fail("malformed %s", form.List[0].Symbol)
	}
	var params []string
	for _, p := range form.List[paramIdx].List {
		if !p.IsSymbol() {
			return sexp.Nil(), in.fail("parameter is not a symbol: %s", p)
		}
		params = append(params, p.Symbol)
	}
	display := name
	if display == "" {
		display = "lambda"
	}
	cl := &closure{name: display, params: params, body: form.List[paramIdx+1:], env: env}
	return sexp.Func(display, cl), nil
}

func (in *Interp) evalDefun(form sexp.Value, env *Env) (sexp.Value, error) {
	if len(form.List) < 3 || !form.List[1].IsSymbol() {
		return sexp.Nil(), in.fail("malformed defun")
	}
	name := form.List[1].Symbol
	fn, err := in.makeClosure(name, form, 2, env)
	if err != nil {
		return sexp.Nil(), err
	}
	in.globals.Define(name, fn)
	return sexp.Sym(name), nil
}

func (in *Interp) evalSetq(form sexp.Value, env *Env) (sexp.Value, error) {
	if len(form.List) != 3 || !form.List[1].IsSymbol() {
		return sexp.Nil(), in.fail("malformed setq")
	}
	v, err := in.eval(form.List[2], env)
	if err != nil {
		return sexp.Nil(), err
	}
	name := form.List[1].Symbol
	if !env.Assign(name, v) {
		in.globals.Define(name, v)
	}
	return v, nil
}

// readLine reads from stdin up to and including a newline, one byte at
// a time so no input beyond the line is consumed. Stream errors other
// than EOF propagate verbatim so control transfers from the redirection
// layer pass through untouched.
func (in *Interp) readLine() (string, error) {
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.stdin.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return b.String(), nil
			}
			b.WriteByte(buf[0])
		}
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}
