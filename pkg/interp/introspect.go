package interp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loamlang/swank/pkg/sexp"
)

// Match is one apropos search result.
type Match struct {
	Name string
	Kind string // "function", "macro" or "variable"
}

// Arglist returns the lambda list of the named operator, or false when
// the name is unknown or not callable.
func (in *Interp) Arglist(name string) (string, bool) {
	if al, ok := specialForms[name]; ok {
		return al, true
	}
	v, ok := in.globals.Get(name)
	if !ok || v.Type != sexp.TypeFunc {
		return "", false
	}
	switch f := v.Fn.(type) {
	case *builtin:
		return f.arglist, true
	case *closure:
		return "(" + strings.Join(append([]string{name}, f.params...), " ") + ")", true
	}
	return "", false
}

// Describe returns a textual description of the named symbol.
func (in *Interp) Describe(name string) (string, bool) {
	if al, ok := specialForms[name]; ok {
		return fmt.Sprintf("%s is a special form.\n  %s", name, al), true
	}
	v, ok := in.globals.Get(name)
	if !ok {
		return "", false
	}
	switch f := v.Fn.(type) {
	case *builtin:
		return fmt.Sprintf("%s is a built-in function.\n  %s\n%s", name, f.arglist, f.doc), true
	case *closure:
		al, _ := in.Arglist(name)
		return fmt.Sprintf("%s is a function.\n  %s", name, al), true
	}
	return fmt.Sprintf("%s is a variable.\n  value: %s", name, v), true
}

// Complete returns the global names beginning with prefix, sorted.
func (in *Interp) Complete(prefix string) []string {
	var out []string
	for name := range specialForms {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	for _, name := range in.globals.Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Apropos returns every global whose name contains pattern, classified
// by kind, sorted by name.
func (in *Interp) Apropos(pattern string) []Match {
	var out []Match
	for name := range specialForms {
		if strings.Contains(name, pattern) {
			out = append(out, Match{Name: name, Kind: "macro"})
		}
	}
	for _, name := range in.globals.Names() {
		if !strings.Contains(name, pattern) {
			continue
		}
		v, _ := in.globals.Get(name)
		kind := "variable"
		if v.Type == sexp.TypeFunc {
			kind = "function"
		}
		out = append(out, Match{Name: name, Kind: kind})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
