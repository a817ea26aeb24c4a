package interp

import "github.com/loamlang/swank/pkg/sexp"

// Frame is one call-chain descriptor: the originating form plus, for
// frames that bound locals, the environment that holds them.
type Frame struct {
	Form sexp.Value
	Env  *Env
}

// HasLocals reports whether the frame carries inspectable local-variable
// metadata.
func (f Frame) HasLocals() bool { return f.Env != nil }

// Binding is one inspectable local: its declared name, positional slot
// and current value.
type Binding struct {
	Name  string
	Slot  int
	Value sexp.Value
}

// Locals returns the frame's bindings in declaration order. Frames
// without inspectable metadata report none.
func (f Frame) Locals() []Binding {
	if f.Env == nil {
		return nil
	}
	names := f.Env.Names()
	out := make([]Binding, 0, len(names))
	for i, name := range names {
		v, _ := f.Env.Get(name)
		out = append(out, Binding{Name: name, Slot: i, Value: v})
	}
	return out
}
