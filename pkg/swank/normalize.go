package swank

import (
	"strings"

	"github.com/loamlang/swank/pkg/sexp"
)

// Normalize rewrites the client's literal conventions into the
// runtime's native value forms, recursively through nested lists:
// keyword symbols become quoted bare-name symbols, the nil token
// becomes the empty-list value and the t token becomes boolean true.
// Every request argument passes through here before reaching a command
// handler. The rewrite is idempotent.
func Normalize(v sexp.Value) sexp.Value {
	switch v.Type {
	case sexp.TypeSymbol:
		switch {
		case strings.HasPrefix(v.Symbol, ":") && len(v.Symbol) > 1:
			return sexp.List(sexp.Sym("quote"), sexp.Sym(strings.TrimPrefix(v.Symbol, ":")))
		case v.Symbol == "nil":
			return sexp.Nil()
		case v.Symbol == "t":
			return sexp.True()
		}
		return v
	case sexp.TypeList:
		if len(v.List) == 0 {
			return v
		}
		out := make([]sexp.Value, len(v.List))
		for i, item := range v.List {
			out[i] = Normalize(item)
		}
		return sexp.List(out...)
	default:
		return v
	}
}
