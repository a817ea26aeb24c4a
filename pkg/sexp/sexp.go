// Package sexp implements the s-expression data model shared by the wire
// protocol and the embedded runtime: a tagged Value, a reader and a
// canonical printer.
package sexp

import (
	"fmt"
	"strconv"
	"strings"
)

// Type identifies the kind of value a Value holds.
type Type int

const (
	TypeNil Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeSymbol
	TypeList
	TypeFunc
)

// Value is a tagged s-expression value. The zero value is nil (the empty
// list).
type Value struct {
	Type   Type
	Bool   bool
	Int    int64
	Float  float64
	Str    string
	Symbol string
	List   []Value

	// Fn is an opaque callable payload owned by the evaluator. The
	// Symbol field carries its display name.
	Fn any
}

// Value constructors.
func Nil() Value              { return Value{Type: TypeNil} }
func True() Value             { return Value{Type: TypeBool, Bool: true} }
func Boolean(b bool) Value    { return Value{Type: TypeBool, Bool: b} }
func Int(n int64) Value       { return Value{Type: TypeInt, Int: n} }
func Float(f float64) Value   { return Value{Type: TypeFloat, Float: f} }
func Str(s string) Value      { return Value{Type: TypeString, Str: s} }
func Sym(s string) Value      { return Value{Type: TypeSymbol, Symbol: s} }
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Type: TypeList, List: items}
}
func Func(name string, fn any) Value {
	return Value{Type: TypeFunc, Symbol: name, Fn: fn}
}

func (v Value) IsNil() bool    { return v.Type == TypeNil }
func (v Value) IsList() bool   { return v.Type == TypeList }
func (v Value) IsSymbol() bool { return v.Type == TypeSymbol }
func (v Value) IsString() bool { return v.Type == TypeString }

// IsEmpty reports whether v is nil or an empty list. Both render as ().
func (v Value) IsEmpty() bool {
	return v.Type == TypeNil || (v.Type == TypeList && len(v.List) == 0)
}

// IsKeyword reports whether v is a symbol beginning with the keyword
// marker character.
func (v Value) IsKeyword() bool {
	return v.Type == TypeSymbol && strings.HasPrefix(v.Symbol, ":")
}

// IsTruthy follows the runtime's convention: nil, false and the empty
// list are false, everything else is true.
func (v Value) IsTruthy() bool {
	switch v.Type {
	case TypeNil:
		return false
	case TypeBool:
		return v.Bool
	case TypeList:
		return len(v.List) > 0
	default:
		return true
	}
}

// SymbolName returns the symbol name of v, or "" when v is not a symbol.
func (v Value) SymbolName() string {
	if v.Type != TypeSymbol {
		return ""
	}
	return v.Symbol
}

// Head returns the first element of a non-empty list value.
func (v Value) Head() (Value, bool) {
	if v.Type != TypeList || len(v.List) == 0 {
		return Nil(), false
	}
	return v.List[0], true
}

// Nth returns the i-th element of a list value, or nil when out of range.
func (v Value) Nth(i int) Value {
	if v.Type != TypeList || i < 0 || i >= len(v.List) {
		return Nil()
	}
	return v.List[i]
}

// Equal reports deep structural equality. Ints and floats are distinct
// even when numerically equal.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		// () and nil are the same datum.
		return v.IsEmpty() && o.IsEmpty()
	}
	switch v.Type {
	case TypeNil:
		return true
	case TypeBool:
		return v.Bool == o.Bool
	case TypeInt:
		return v.Int == o.Int
	case TypeFloat:
		return v.Float == o.Float
	case TypeString:
		return v.Str == o.Str
	case TypeSymbol:
		return v.Symbol == o.Symbol
	case TypeFunc:
		return v.Fn == o.Fn
	case TypeList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders v in its canonical textual form. The output parses back
// to an equal value with Read.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Type {
	case TypeNil:
		b.WriteString("nil")
	case TypeBool:
		if v.Bool {
			b.WriteString("t")
		} else {
			b.WriteString("nil")
		}
	case TypeInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case TypeFloat:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		b.WriteString(s)
	case TypeString:
		b.WriteString(strconv.Quote(v.Str))
	case TypeSymbol:
		b.WriteString(v.Symbol)
	case TypeFunc:
		fmt.Fprintf(b, "#<function %s>", v.Symbol)
	case TypeList:
		b.WriteByte('(')
		for i, item := range v.List {
			if i > 0 {
				b.WriteByte(' ')
			}
			item.write(b)
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "#<unknown %d>", v.Type)
	}
}

// Display renders v for humans: strings appear without quotes, everything
// else as String.
func (v Value) Display() string {
	if v.Type == TypeString {
		return v.Str
	}
	return v.String()
}
