package interp

import (
	"fmt"
	"io"

	"github.com/loamlang/swank/pkg/sexp"
)

// builtin is a primitive function with the metadata the introspection
// commands report.
type builtin struct {
	name    string
	arglist string
	doc     string
	fn      func(in *Interp, args []sexp.Value) (sexp.Value, error)
}

var builtins = []*builtin{
	{"+", "(+ &rest numbers)", "Return the sum of its arguments.", builtinAdd},
	{"-", "(- number &rest numbers)", "Subtract the rest from the first argument, or negate it.", builtinSub},
	{"*", "(* &rest numbers)", "Return the product of its arguments.", builtinMul},
	{"/", "(/ number &rest numbers)", "Divide the first argument by the rest.", builtinDiv},
	{"=", "(= a b)", "Numeric equality.", builtinNumCompare("=")},
	{"<", "(< a b)", "Numeric less-than.", builtinNumCompare("<")},
	{">", "(> a b)", "Numeric greater-than.", builtinNumCompare(">")},
	{"<=", "(<= a b)", "Numeric less-or-equal.", builtinNumCompare("<=")},
	{">=", "(>= a b)", "Numeric greater-or-equal.", builtinNumCompare(">=")},
	{"list", "(list &rest items)", "Return a list of its arguments.", builtinList},
	{"cons", "(cons item list)", "Prepend item to list.", builtinCons},
	{"car", "(car list)", "Return the first element of list, or nil.", builtinCar},
	{"cdr", "(cdr list)", "Return list without its first element.", builtinCdr},
	{"length", "(length seq)", "Return the length of a list or string.", builtinLength},
	{"reverse", "(reverse list)", "Return list in reverse order.", builtinReverse},
	{"not", "(not value)", "Return t when value is false.", builtinNot},
	{"equal", "(equal a b)", "Structural equality.", builtinEqual},
	{"print", "(print value)", "Write value readably to standard output, then a newline.", builtinPrint},
	{"princ", "(princ value)", "Write value for display to standard output.", builtinPrinc},
	{"terpri", "(terpri)", "Write a newline to standard output.", builtinTerpri},
	{"read-line", "(read-line)", "Read one line from standard input as a string.", builtinReadLine},
	{"error", "(error message &rest args)", "Signal an error with a formatted message.", builtinError},
}

type number struct {
	f       float64
	i       int64
	isFloat bool
}

func toNumber(in *Interp, v sexp.Value) (number, error) {
	switch v.Type {
	case sexp.TypeInt:
		return number{i: v.Int, f: float64(v.Int)}, nil
	case sexp.TypeFloat:
		return number{f: v.Float, isFloat: true}, nil
	}
	return number{}, in.fail("not a number: %s", v)
}

func numValue(isFloat bool, i int64, f float64) sexp.Value {
	if isFloat {
		return sexp.Float(f)
	}
	return sexp.Int(i)
}

func builtinAdd(in *Interp, args []sexp.Value) (sexp.Value, error) {
	var i int64
	var f float64
	isFloat := false
	for _, a := range args {
		n, err := toNumber(in, a)
		if err != nil {
			return sexp.Nil(), err
		}
		isFloat = isFloat || n.isFloat
		i += n.i
		f += n.f
	}
	return numValue(isFloat, i, f), nil
}

func builtinSub(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) == 0 {
		return sexp.Nil(), in.fail("- needs at least one argument")
	}
	first, err := toNumber(in, args[0])
	if err != nil {
		return sexp.Nil(), err
	}
	if len(args) == 1 {
		return numValue(first.isFloat, -first.i, -first.f), nil
	}
	i, f, isFloat := first.i, first.f, first.isFloat
	for _, a := range args[1:] {
		n, err := toNumber(in, a)
		if err != nil {
			return sexp.Nil(), err
		}
		isFloat = isFloat || n.isFloat
		i -= n.i
		f -= n.f
	}
	return numValue(isFloat, i, f), nil
}

func builtinMul(in *Interp, args []sexp.Value) (sexp.Value, error) {
	var i int64 = 1
	var f float64 = 1
	isFloat := false
	for _, a := range args {
		n, err := toNumber(in, a)
		if err != nil {
			return sexp.Nil(), err
		}
		isFloat = isFloat || n.isFloat
		i *= n.i
		f *= n.f
	}
	return numValue(isFloat, i, f), nil
}

func builtinDiv(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) < 2 {
		return sexp.Nil(), in.fail("/ needs at least two arguments")
	}
	first, err := toNumber(in, args[0])
	if err != nil {
		return sexp.Nil(), err
	}
	i, f, isFloat := first.i, first.f, first.isFloat
	for _, a := range args[1:] {
		n, err := toNumber(in, a)
		if err != nil {
			return sexp.Nil(), err
		}
		if n.f == 0 {
			return sexp.Nil(), in.fail("division by zero")
		}
		isFloat = isFloat || n.isFloat
		if !isFloat && i%n.i != 0 {
			isFloat = true
		}
		if n.i != 0 {
			i /= n.i
		}
		f /= n.f
	}
	if isFloat {
		return sexp.Float(f), nil
	}
	return sexp.Int(i), nil
}

func builtinNumCompare(op string) func(*Interp, []sexp.Value) (sexp.Value, error) {
	return func(in *Interp, args []sexp.Value) (sexp.Value, error) {
		if len(args) != 2 {
			return sexp.Nil(), in.fail("%s takes two arguments", op)
		}
		a, err := toNumber(in, args[0])
		if err != nil {
			return sexp.Nil(), err
		}
		b, err := toNumber(in, args[1])
		if err != nil {
			return sexp.Nil(), err
		}
		var ok bool
		switch op {
		case "=":
			ok = a.f == b.f
		case "<":
			ok = a.f < b.f
		case ">":
			ok = a.f > b.f
		case "<=":
			ok = a.f <= b.f
		case ">=":
			ok = a.f >= b.f
		}
		return sexp.Boolean(ok), nil
	}
}

func builtinList(in *Interp, args []sexp.Value) (sexp.Value, error) {
	return sexp.List(args...), nil
}

func builtinCons(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 2 {
		return sexp.Nil(), in.fail("cons takes two arguments")
	}
	var rest []sexp.Value
	if args[1].IsList() {
		rest = args[1].List
	} else if !args[1].IsNil() {
		return sexp.Nil(), in.fail("cons onto non-list: %s", args[1])
	}
	out := make([]sexp.Value, 0, len(rest)+1)
	out = append(out, args[0])
	out = append(out, rest...)
	return sexp.List(out...), nil
}

func builtinCar(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 1 {
		return sexp.Nil(), in.fail("car takes one argument")
	}
	if h, ok := args[0].Head(); ok {
		return h, nil
	}
	if args[0].IsEmpty() {
		return sexp.Nil(), nil
	}
	return sexp.Nil(), in.fail("car of non-list: %s", args[0])
}

func builtinCdr(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 1 {
		return sexp.Nil(), in.fail("cdr takes one argument")
	}
	if args[0].IsEmpty() {
		return sexp.Nil(), nil
	}
	if !args[0].IsList() {
		return sexp.Nil(), in.fail("cdr of non-list: %s", args[0])
	}
	return sexp.List(args[0].List[1:]...), nil
}

func builtinLength(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 1 {
		return sexp.Nil(), in.fail("length takes one argument")
	}
	switch {
	case args[0].IsEmpty():
		return sexp.Int(0), nil
	case args[0].IsList():
		return sexp.Int(int64(len(args[0].List))), nil
	case args[0].IsString():
		return sexp.Int(int64(len(args[0].Str))), nil
	}
	return sexp.Nil(), in.fail("length of non-sequence: %s", args[0])
}

func builtinReverse(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 1 {
		return sexp.Nil(), in.fail("reverse takes one argument")
	}
	if args[0].IsEmpty() {
		return sexp.Nil(), nil
	}
	if !args[0].IsList() {
		return sexp.Nil(), in.fail("reverse of non-list: %s", args[0])
	}
	n := len(args[0].List)
	out := make([]sexp.Value, n)
	for i, v := range args[0].List {
		out[n-1-i] = v
	}
	return sexp.List(out...), nil
}

func builtinNot(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 1 {
		return sexp.Nil(), in.fail("not takes one argument")
	}
	return sexp.Boolean(!args[0].IsTruthy()), nil
}

func builtinEqual(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 2 {
		return sexp.Nil(), in.fail("equal takes two arguments")
	}
	return sexp.Boolean(args[0].Equal(args[1])), nil
}

func builtinPrint(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 1 {
		return sexp.Nil(), in.fail("print takes one argument")
	}
	if _, err := io.WriteString(in.stdout, args[0].String()+"\n"); err != nil {
		return sexp.Nil(), err
	}
	return args[0], nil
}

func builtinPrinc(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 1 {
		return sexp.Nil(), in.fail("princ takes one argument")
	}
	if _, err := io.WriteString(in.stdout, args[0].Display()); err != nil {
		return sexp.Nil(), err
	}
	return args[0], nil
}

func builtinTerpri(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 0 {
		return sexp.Nil(), in.fail("terpri takes no arguments")
	}
	if _, err := io.WriteString(in.stdout, "\n"); err != nil {
		return sexp.Nil(), err
	}
	return sexp.Nil(), nil
}

func builtinReadLine(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) != 0 {
		return sexp.Nil(), in.fail("read-line takes no arguments")
	}
	line, err := in.readLine()
	if err != nil {
		return sexp.Nil(), err
	}
	return sexp.Str(line), nil
}

func builtinError(in *Interp, args []sexp.Value) (sexp.Value, error) {
	if len(args) == 0 {
		return sexp.Nil(), in.fail("error")
	}
	msg := args[0].Display()
	if len(args) > 1 {
		parts := make([]interface{}, len(args)-1)
		for i, a := range args[1:] {
			parts[i] = a.String()
		}
		msg = fmt.Sprintf("%s: %v", msg, parts)
	}
	return sexp.Nil(), in.fail("%s", msg)
}
