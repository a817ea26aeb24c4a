package swank

import (
	"testing"

	"github.com/loamlang/swank/pkg/sexp"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   sexp.Value
		want sexp.Value
	}{
		{
			"keyword becomes quoted symbol",
			sexp.Sym(":foo"),
			sexp.List(sexp.Sym("quote"), sexp.Sym("foo")),
		},
		{
			"nil token becomes empty list",
			sexp.Sym("nil"),
			sexp.Nil(),
		},
		{
			"t token becomes true",
			sexp.Sym("t"),
			sexp.True(),
		},
		{
			"plain symbol passes through",
			sexp.Sym("foo"),
			sexp.Sym("foo"),
		},
		{
			"lone colon passes through",
			sexp.Sym(":"),
			sexp.Sym(":"),
		},
		{
			"scalars pass through",
			sexp.Str(":not-a-keyword"),
			sexp.Str(":not-a-keyword"),
		},
		{
			"recurses through nested lists",
			sexp.List(sexp.Sym(":a"), sexp.Sym("nil"), sexp.Sym("t"), sexp.List(sexp.Sym(":b"))),
			sexp.List(
				sexp.List(sexp.Sym("quote"), sexp.Sym("a")),
				sexp.Nil(),
				sexp.True(),
				sexp.List(sexp.List(sexp.Sym("quote"), sexp.Sym("b"))),
			),
		},
		{
			"mixed depths",
			sexp.List(sexp.Int(1), sexp.List(sexp.List(sexp.Sym(":deep")), sexp.Str("s"))),
			sexp.List(sexp.Int(1), sexp.List(sexp.List(sexp.List(sexp.Sym("quote"), sexp.Sym("deep"))), sexp.Str("s"))),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Normalize(c.in)
			if !got.Equal(c.want) {
				t.Errorf("Normalize(%s) = %s, want %s", c.in, got, c.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := sexp.List(sexp.Sym(":a"), sexp.Sym("nil"), sexp.Sym("t"), sexp.List(sexp.Sym(":b")))
	once := Normalize(in)
	twice := Normalize(once)
	if !once.Equal(twice) {
		t.Errorf("normalization not idempotent: %s vs %s", once, twice)
	}
}
