package swank

import (
	"strings"
	"testing"

	"github.com/loamlang/swank/pkg/interp"
	"github.com/loamlang/swank/pkg/sexp"
)

func captureChain(t *testing.T, src string) []interp.Frame {
	t.Helper()
	in := interp.New()
	_, err := in.EvalString(src)
	ee, ok := err.(*interp.EvalError)
	if !ok {
		t.Fatalf("eval %q: expected EvalError, got %v", src, err)
	}
	return ee.Chain
}

func TestFormatChain(t *testing.T) {
	chain := captureChain(t, `(let ((x 1)) (error "boom"))`)
	formatted := formatChain(chain)
	if len(formatted.List) != 2 {
		t.Fatalf("expected 2 frames, got %s", formatted)
	}
	// Most recent first, numbered from zero.
	first := formatted.List[0]
	if first.Nth(0).Int != 0 {
		t.Errorf("first index = %s", first.Nth(0))
	}
	if !strings.Contains(first.Nth(1).Str, "error") {
		t.Errorf("first label = %q", first.Nth(1).Str)
	}
	if strings.Contains(first.Nth(1).Str, frameMarker) {
		t.Errorf("builtin frame should not carry the locals marker: %q", first.Nth(1).Str)
	}
	second := formatted.List[1]
	if second.Nth(0).Int != 1 {
		t.Errorf("second index = %s", second.Nth(0))
	}
	if !strings.HasPrefix(second.Nth(1).Str, frameMarker) {
		t.Errorf("let frame should carry the locals marker: %q", second.Nth(1).Str)
	}
}

func TestFrameLocals(t *testing.T) {
	chain := captureChain(t, `(let ((x 1) (y 2)) (error "boom"))`)

	t.Run("FrameWithLocals", func(t *testing.T) {
		locals := frameLocals(chain, 1)
		if len(locals.List) != 2 {
			t.Fatalf("expected 2 locals, got %s", locals)
		}
		first := locals.List[0]
		if first.Nth(1).Str != "x" || first.Nth(3).Int != 0 || first.Nth(5).Str != "1" {
			t.Errorf("unexpected first local: %s", first)
		}
	})

	t.Run("FrameWithoutLocals", func(t *testing.T) {
		if locals := frameLocals(chain, 0); len(locals.List) != 0 {
			t.Errorf("builtin frame should report no locals, got %s", locals)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		for _, idx := range []int{-1, 2, 99} {
			if locals := frameLocals(chain, idx); len(locals.List) != 0 {
				t.Errorf("index %d should report no locals, got %s", idx, locals)
			}
		}
	})
}

func TestFormatCondition(t *testing.T) {
	cond := formatCondition(&interp.EvalError{Message: "boom"})
	if cond.Nth(0).Str != "boom" {
		t.Errorf("summary = %s", cond.Nth(0))
	}
	cond = formatCondition(&interp.EvalError{Message: "boom", Location: "file.lisp:3"})
	if cond.Nth(0).Str != "file.lisp:3: boom" {
		t.Errorf("summary with location = %s", cond.Nth(0))
	}
}

func TestFormatRestarts(t *testing.T) {
	restarts := formatRestarts()
	if len(restarts.List) != 1 {
		t.Fatalf("exactly one restart expected, got %s", restarts)
	}
	if restarts.List[0].Nth(0).Str != "ABORT" {
		t.Errorf("restart = %s", restarts.List[0])
	}
}

func TestHighlightArglist(t *testing.T) {
	cases := []struct {
		arglist string
		idx     int
		want    string
	}{
		{"(+ &rest numbers)", 0, "(+ &rest ===> numbers <===)"},
		{"(+ &rest numbers)", 5, "(+ &rest ===> numbers <===)"},
		{"(cons item list)", 0, "(cons ===> item <=== list)"},
		{"(cons item list)", 1, "(cons item ===> list <===)"},
		{"(cons item list)", 9, "(cons item ===> list <===)"},
		{"(terpri)", 0, "(terpri)"},
	}
	for _, c := range cases {
		if got := highlightArglist(c.arglist, c.idx); got != c.want {
			t.Errorf("highlightArglist(%q, %d) = %q, want %q", c.arglist, c.idx, got, c.want)
		}
	}
}

func TestFindCursor(t *testing.T) {
	marker := sexp.Sym("swank::%cursor-marker%")

	t.Run("TopLevel", func(t *testing.T) {
		op, idx, ok := findCursor(sexp.List(sexp.Str("+"), sexp.Str("1"), marker))
		if !ok || op != "+" || idx != 1 {
			t.Errorf("got %q %d %v", op, idx, ok)
		}
	})

	t.Run("Nested", func(t *testing.T) {
		form := sexp.List(sexp.Str("+"), sexp.Str("1"), sexp.List(sexp.Str("cons"), marker))
		op, idx, ok := findCursor(form)
		if !ok || op != "cons" || idx != 0 {
			t.Errorf("got %q %d %v", op, idx, ok)
		}
	})

	t.Run("NoMarker", func(t *testing.T) {
		if _, _, ok := findCursor(sexp.List(sexp.Str("+"), sexp.Str("1"))); ok {
			t.Error("should not find a cursor")
		}
	})
}
