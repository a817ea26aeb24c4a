package interp

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/loamlang/swank/pkg/sexp"
)

func evalStr(t *testing.T, in *Interp, src string) sexp.Value {
	t.Helper()
	v, err := in.EvalString(src)
	if err != nil {
		t.Fatalf("eval %q failed: %v", src, err)
	}
	return v
}

func TestEvalBasics(t *testing.T) {
	in := New()
	cases := []struct {
		src  string
		want string
	}{
		{"(+ 1 2)", "3"},
		{"(- 10 3 2)", "5"},
		{"(* 2 3 4)", "24"},
		{"(/ 7 2)", "3.5"},
		{"(+ 1 2.5)", "3.5"},
		{"(< 1 2)", "t"},
		{"(= 2 2)", "t"},
		{"(if (> 1 2) 'yes 'no)", "no"},
		{"(quote (a b))", "(a b)"},
		{"'sym", "sym"},
		{"(list 1 2 3)", "(1 2 3)"},
		{"(car '(1 2))", "1"},
		{"(cdr '(1 2 3))", "(2 3)"},
		{"(cons 0 '(1 2))", "(0 1 2)"},
		{"(length \"abc\")", "3"},
		{"(reverse '(1 2 3))", "(3 2 1)"},
		{"(not nil)", "t"},
		{"(equal '(1 (2)) '(1 (2)))", "t"},
		{"(and 1 2 3)", "3"},
		{"(or nil 2)", "2"},
		{"(progn 1 2 3)", "3"},
		{"(let ((x 2) (y 3)) (* x y))", "6"},
		{"(setq g 9) g", "9"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			if got := evalStr(t, in, c.src).String(); got != c.want {
				t.Errorf("got %s, want %s", got, c.want)
			}
		})
	}
}

func TestClosures(t *testing.T) {
	in := New()
	evalStr(t, in, "(defun add (a b) (+ a b))")
	if got := evalStr(t, in, "(add 2 3)").String(); got != "5" {
		t.Errorf("got %s", got)
	}
	// Lexical capture.
	evalStr(t, in, "(setq inc (let ((n 10)) (lambda (x) (+ x n))))")
	if got := evalStr(t, in, "(inc 5)").String(); got != "15" {
		t.Errorf("closure capture broken, got %s", got)
	}
	// Recursion.
	evalStr(t, in, "(defun fact (n) (if (= n 0) 1 (* n (fact (- n 1)))))")
	if got := evalStr(t, in, "(fact 6)").String(); got != "720" {
		t.Errorf("got %s", got)
	}
}

func TestEvalErrors(t *testing.T) {
	in := New()
	for _, src := range []string{
		"unbound",
		"(1 2 3)",
		"(car 5)",
		"(/ 1 0)",
		"(add-wrong 1)",
		"(error \"boom\")",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := in.EvalString(src)
			var ee *EvalError
			if !errors.As(err, &ee) {
				t.Fatalf("expected EvalError, got %v", err)
			}
		})
	}
}

func TestErrorChainCapture(t *testing.T) {
	in := New()
	evalStr(t, in, "(defun f (n) (if (= n 0) (error \"zero\") (f (- n 1))))")
	_, err := in.EvalString("(f 2)")
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EvalError, got %v", err)
	}
	if ee.Message != "zero" {
		t.Errorf("message = %q", ee.Message)
	}
	if len(ee.Chain) < 4 {
		t.Fatalf("chain too short: %d frames", len(ee.Chain))
	}
	// The innermost frame is the error builtin call, without locals.
	last := ee.Chain[len(ee.Chain)-1]
	if last.HasLocals() {
		t.Error("builtin frame should carry no locals")
	}
	// The outermost frame is the (f 2) call with n bound.
	first := ee.Chain[0]
	if !first.HasLocals() {
		t.Fatal("closure frame should carry locals")
	}
	locals := first.Locals()
	if len(locals) != 1 || locals[0].Name != "n" || locals[0].Slot != 0 {
		t.Fatalf("unexpected locals: %+v", locals)
	}
	if !locals[0].Value.Equal(sexp.Int(2)) {
		t.Errorf("n = %s, want 2", locals[0].Value)
	}
}

func TestLetLocals(t *testing.T) {
	in := New()
	_, err := in.EvalString("(let ((x 1) (y 2)) (error \"boom\"))")
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EvalError, got %v", err)
	}
	if len(ee.Chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(ee.Chain))
	}
	locals := ee.Chain[0].Locals()
	if len(locals) != 2 || locals[0].Name != "x" || locals[1].Name != "y" {
		t.Fatalf("unexpected let locals: %+v", locals)
	}
	if locals[1].Slot != 1 {
		t.Errorf("y slot = %d, want 1", locals[1].Slot)
	}
}

func TestInterrupt(t *testing.T) {
	in := New()
	in.Interrupt()
	_, err := in.EvalString("(+ 1 2)")
	var intr *Interrupt
	if !errors.As(err, &intr) {
		t.Fatalf("expected Interrupt, got %v", err)
	}
	// The flag is consumed; the next evaluation runs normally.
	if got := evalStr(t, in, "(+ 1 2)").String(); got != "3" {
		t.Errorf("got %s", got)
	}
}

func TestStandardStreams(t *testing.T) {
	var out bytes.Buffer
	in := New(WithStdout(&out), WithStdin(strings.NewReader("ab\ncd\n")))
	evalStr(t, in, "(princ \"hi\") (terpri) (print 42)")
	if got := out.String(); got != "hi\n42\n" {
		t.Errorf("output = %q", got)
	}
	if got := evalStr(t, in, "(read-line)").String(); got != `"ab"` {
		t.Errorf("first line = %s", got)
	}
	if got := evalStr(t, in, "(read-line)").String(); got != `"cd"` {
		t.Errorf("second line = %s", got)
	}
}

func TestIntrospection(t *testing.T) {
	in := New()
	evalStr(t, in, "(defun twice (x) (* 2 x))")
	evalStr(t, in, "(setq answer 42)")

	t.Run("Arglist", func(t *testing.T) {
		al, ok := in.Arglist("+")
		if !ok || al != "(+ &rest numbers)" {
			t.Errorf("arglist of + = %q, %v", al, ok)
		}
		al, ok = in.Arglist("twice")
		if !ok || al != "(twice x)" {
			t.Errorf("arglist of twice = %q, %v", al, ok)
		}
		if al, ok = in.Arglist("let"); !ok || !strings.HasPrefix(al, "(let") {
			t.Errorf("arglist of let = %q, %v", al, ok)
		}
		if _, ok = in.Arglist("no-such"); ok {
			t.Error("unknown operator should have no arglist")
		}
	})

	t.Run("Describe", func(t *testing.T) {
		text, ok := in.Describe("car")
		if !ok || !strings.Contains(text, "built-in function") {
			t.Errorf("describe car = %q, %v", text, ok)
		}
		text, ok = in.Describe("answer")
		if !ok || !strings.Contains(text, "variable") {
			t.Errorf("describe answer = %q, %v", text, ok)
		}
		if _, ok = in.Describe("no-such"); ok {
			t.Error("unknown symbol should have no description")
		}
	})

	t.Run("Complete", func(t *testing.T) {
		names := in.Complete("re")
		want := map[string]bool{"read-line": true, "reverse": true}
		for _, n := range names {
			delete(want, n)
		}
		if len(want) != 0 {
			t.Errorf("missing completions: %v (got %v)", want, names)
		}
	})

	t.Run("Apropos", func(t *testing.T) {
		kinds := map[string]string{}
		for _, m := range in.Apropos("") {
			kinds[m.Name] = m.Kind
		}
		if kinds["twice"] != "function" {
			t.Errorf("twice classified as %q", kinds["twice"])
		}
		if kinds["let"] != "macro" {
			t.Errorf("let classified as %q", kinds["let"])
		}
		if kinds["answer"] != "variable" {
			t.Errorf("answer classified as %q", kinds["answer"])
		}
	})
}
