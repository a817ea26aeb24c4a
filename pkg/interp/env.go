package interp

import "github.com/loamlang/swank/pkg/sexp"

// Env is one lexical binding frame. Bindings keep their declaration
// order so frame inspection can report stable slot numbers.
type Env struct {
	vars   map[string]sexp.Value
	order  []string
	parent *Env
}

// NewEnv creates an environment chained to parent.
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]sexp.Value), parent: parent}
}

// Get looks name up through the environment chain.
func (e *Env) Get(name string) (sexp.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return sexp.Nil(), false
}

// Define binds name in this frame.
func (e *Env) Define(name string, v sexp.Value) {
	if _, ok := e.vars[name]; !ok {
		e.order = append(e.order, name)
	}
	e.vars[name] = v
}

// Assign updates the nearest existing binding of name. It reports
// whether a binding was found.
func (e *Env) Assign(name string, v sexp.Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return true
		}
	}
	return false
}

// Names returns this frame's binding names in declaration order.
func (e *Env) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}
