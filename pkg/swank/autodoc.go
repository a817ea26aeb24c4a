package swank

import (
	"strings"

	"github.com/loamlang/swank/pkg/sexp"
)

// cursorMarkerSuffix tags the symbol the client splices in at point.
const cursorMarkerSuffix = "%cursor-marker%"

// cmdAutodoc answers the cursor-aware arglist query: it locates the
// innermost form holding the cursor marker, looks up that operator's
// lambda list and highlights the parameter under the cursor.
func cmdAutodoc(s *Session, level int, args []sexp.Value) (sexp.Value, error) {
	if len(args) == 0 {
		return sexp.Nil(), argError("swank:autodoc", args)
	}
	form := args[0]
	if h, _ := form.Head(); h.SymbolName() == "quote" {
		form = form.Nth(1)
	}
	notAvailable := sexp.List(sexp.Sym(":not-available"), sexp.True())
	op, argIdx, ok := findCursor(form)
	if !ok {
		return notAvailable, nil
	}
	al, found := s.in.Arglist(op)
	if !found {
		return notAvailable, nil
	}
	return sexp.List(sexp.Str(highlightArglist(al, argIdx)), sexp.True()), nil
}

// findCursor returns the operator of the innermost list containing the
// cursor marker and the zero-based argument position of the cursor.
func findCursor(v sexp.Value) (op string, argIdx int, ok bool) {
	if !v.IsList() {
		return "", 0, false
	}
	for i, item := range v.List {
		if item.IsList() {
			if op, argIdx, ok = findCursor(item); ok {
				return op, argIdx, true
			}
			continue
		}
		if !item.IsSymbol() || !strings.HasSuffix(item.Symbol, cursorMarkerSuffix) {
			continue
		}
		head := v.List[0]
		name := head.SymbolName()
		if head.IsString() {
			name = head.Str
		}
		if name == "" {
			return "", 0, false
		}
		argIdx = i - 1
		if argIdx < 0 {
			argIdx = 0
		}
		return name, argIdx, true
	}
	return "", 0, false
}

// highlightArglist wraps the parameter at argIdx in ===> <=== markers.
// Lambda-list keywords do not count as parameters; a cursor past the
// end sticks to the last parameter, which covers &rest.
func highlightArglist(arglist string, argIdx int) string {
	if !strings.HasPrefix(arglist, "(") || !strings.HasSuffix(arglist, ")") {
		return arglist
	}
	toks := strings.Fields(arglist[1 : len(arglist)-1])
	var params []int
	for i := 1; i < len(toks); i++ {
		if !strings.HasPrefix(toks[i], "&") {
			params = append(params, i)
		}
	}
	if len(params) == 0 {
		return arglist
	}
	target := argIdx
	if target >= len(params) {
		target = len(params) - 1
	}
	i := params[target]
	toks[i] = "===> " + toks[i] + " <==="
	return "(" + strings.Join(toks, " ") + ")"
}
