package swank

import (
	"fmt"
	"os"
	goruntime "runtime"
	"strings"

	"github.com/loamlang/swank/pkg/interp"
	"github.com/loamlang/swank/pkg/sexp"
)

// handlerFunc is one protocol command. level is the debug nesting depth
// of the loop that received the request.
type handlerFunc func(s *Session, level int, args []sexp.Value) (sexp.Value, error)

// commands is the dispatch table. It is read-only after package init;
// no entries are added or removed at runtime.
var commands = map[string]handlerFunc{
	"swank:connection-info":              cmdConnectionInfo,
	"swank:create-repl":                  cmdCreateREPL,
	"swank:listener-eval":                cmdListenerEval,
	"swank:interactive-eval":             cmdInteractiveEval,
	"swank:pprint-eval":                  cmdPprintEval,
	"swank:compile-string-for-emacs":     cmdCompileString,
	"swank:operator-arglist":             cmdOperatorArglist,
	"swank:autodoc":                      cmdAutodoc,
	"swank:throw-to-toplevel":            cmdThrowToToplevel,
	"swank:invoke-nth-restart-for-emacs": cmdInvokeRestart,
	"swank:frame-locals-and-catch-tags":  cmdFrameLocals,
	"swank:backtrace":                    cmdBacktrace,
	"swank:load-file":                    cmdLoadFile,
	"swank:simple-completions":           cmdSimpleCompletions,
	"swank:describe-symbol":              cmdDescribe,
	"swank:describe-function":            cmdDescribe,
	"swank:find-definitions-for-emacs":   cmdFindDefinitions,
	"swank:apropos-list-for-emacs":       cmdApropos,

	// Accepted for compatibility, answered with nil.
	"swank:swank-require":       cmdUnimplemented,
	"swank:buffer-first-change": cmdUnimplemented,
	"swank:init-presentations":  cmdUnimplemented,
	"swank:quit-lisp":           cmdUnimplemented,
}

// kindKeywords maps the runtime's symbol classifications onto the
// protocol's apropos tags.
var kindKeywords = map[string]string{
	"function":         ":function",
	"macro":            ":macro",
	"setter":           ":setf",
	"class":            ":class",
	"generic-function": ":generic-function",
	"hidden":           ":hidden",
	"variable":         ":variable",
}

func argString(name string, args []sexp.Value, i int) (string, error) {
	if i >= len(args) || !args[i].IsString() {
		return "", argError(name, args)
	}
	return args[i].Str, nil
}

func argInt(name string, args []sexp.Value, i int) (int, error) {
	if i >= len(args) || args[i].Type != sexp.TypeInt {
		return 0, argError(name, args)
	}
	return int(args[i].Int), nil
}

func cmdConnectionInfo(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	host, _ := os.Hostname()
	return sexp.List(
		sexp.Sym(":pid"), sexp.Int(int64(os.Getpid())),
		sexp.Sym(":session-id"), sexp.Str(s.ID),
		sexp.Sym(":encoding"), sexp.List(sexp.Sym(":coding-systems"), sexp.List(sexp.Str("utf-8-unix"))),
		sexp.Sym(":lisp-implementation"), sexp.List(
			sexp.Sym(":type"), sexp.Str("Loam"),
			sexp.Sym(":name"), sexp.Str("loam"),
			sexp.Sym(":version"), sexp.Str(Version),
		),
		sexp.Sym(":machine"), sexp.List(
			sexp.Sym(":instance"), sexp.Str(host),
			sexp.Sym(":type"), sexp.Str(goruntime.GOARCH),
		),
		sexp.Sym(":package"), sexp.List(
			sexp.Sym(":name"), sexp.Str("user"),
			sexp.Sym(":prompt"), sexp.Str("user"),
		),
		sexp.Sym(":version"), sexp.Str(protocolVersion),
	), nil
}

func cmdCreateREPL(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	return sexp.List(sexp.Str("user"), sexp.Str("user")), nil
}

func cmdListenerEval(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	code, err := argString("swank:listener-eval", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	val, err := s.in.EvalString(code)
	if err != nil {
		return sexp.Nil(), err
	}
	return formatValues(val), nil
}

func cmdInteractiveEval(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	code, err := argString("swank:interactive-eval", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	val, err := s.in.EvalString(code)
	if err != nil {
		return sexp.Nil(), err
	}
	return sexp.Str(val.String()), nil
}

func cmdPprintEval(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	code, err := argString("swank:pprint-eval", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	val, err := s.in.EvalString(code)
	if err != nil {
		return sexp.Nil(), err
	}
	return sexp.Str(sexp.Pretty(val)), nil
}

// cmdCompileString evaluates for effect and reports a fixed success
// descriptor; there is no separate compiler.
func cmdCompileString(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	code, err := argString("swank:compile-string-for-emacs", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	if _, err := s.in.EvalString(code); err != nil {
		return sexp.Nil(), err
	}
	return sexp.List(
		sexp.Sym(":compilation-result"),
		sexp.Nil(), sexp.True(), sexp.Float(0.0), sexp.Nil(), sexp.Nil(),
	), nil
}

func cmdOperatorArglist(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	name, err := argString("swank:operator-arglist", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	if al, ok := s.in.Arglist(name); ok {
		return sexp.Str(al), nil
	}
	return sexp.Nil(), nil
}

func cmdThrowToToplevel(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	return sexp.Nil(), errAbortToTop
}

// cmdInvokeRestart honors the single restart on offer: abandon every
// debug level and return to the top.
func cmdInvokeRestart(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	return sexp.Nil(), errAbortToTop
}

func cmdFrameLocals(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	index, err := argInt("swank:frame-locals-and-catch-tags", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	// No catch tags; the second element is always empty.
	return sexp.List(frameLocals(s.lastChain, index), sexp.List()), nil
}

func cmdBacktrace(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	// Range queries are not supported; the full chain is delivered
	// with the debug announcement instead.
	return sexp.List(), nil
}

func cmdLoadFile(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	path, err := argString("swank:load-file", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return sexp.Nil(), &interp.EvalError{Message: fmt.Sprintf("cannot load %s: %v", path, err)}
	}
	if _, err := s.in.EvalString(string(src)); err != nil {
		return sexp.Nil(), err
	}
	return sexp.True(), nil
}

func cmdSimpleCompletions(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	prefix, err := argString("swank:simple-completions", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	names := s.in.Complete(prefix)
	items := make([]sexp.Value, len(names))
	for i, n := range names {
		items[i] = sexp.Str(n)
	}
	return sexp.List(sexp.List(items...), sexp.Str(commonPrefix(names, prefix))), nil
}

func cmdDescribe(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	name, err := argString("describe", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	if text, ok := s.in.Describe(name); ok {
		return sexp.Str(text), nil
	}
	return sexp.Str(fmt.Sprintf("No information available on %s.", name)), nil
}

// cmdFindDefinitions has no source-location tracking; it delegates to
// the symbol description.
func cmdFindDefinitions(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	return cmdDescribe(s, level, args)
}

func cmdApropos(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	pattern, err := argString("swank:apropos-list-for-emacs", args, 0)
	if err != nil {
		return sexp.Nil(), err
	}
	matches := s.in.Apropos(pattern)
	items := make([]sexp.Value, 0, len(matches))
	for _, m := range matches {
		kw, ok := kindKeywords[m.Kind]
		if !ok {
			kw = ":hidden"
		}
		items = append(items, sexp.List(
			sexp.Sym(":designator"), sexp.Str(m.Name),
			sexp.Sym(kw), sexp.Sym(":not-documented"),
		))
	}
	return sexp.List(items...), nil
}

func cmdUnimplemented(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	return sexp.Nil(), nil
}

// commonPrefix returns the longest common prefix of names, which is at
// least the prefix the client already typed.
func commonPrefix(names []string, typed string) string {
	if len(names) == 0 {
		return typed
	}
	p := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, p) {
			p = p[:len(p)-1]
		}
	}
	if len(p) < len(typed) {
		return typed
	}
	return p
}
