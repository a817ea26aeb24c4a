package sexp

import "strings"

// prettyWidth is the column budget before a list breaks across lines.
const prettyWidth = 60

// Pretty renders v with line breaks and indentation for nested lists
// that would overflow a single line.
func Pretty(v Value) string {
	var b strings.Builder
	prettyWrite(&b, v, 0)
	return b.String()
}

func prettyWrite(b *strings.Builder, v Value, indent int) {
	if v.Type != TypeList || len(v.List) == 0 {
		b.WriteString(v.String())
		return
	}
	flat := v.String()
	if indent+len(flat) <= prettyWidth {
		b.WriteString(flat)
		return
	}
	b.WriteByte('(')
	for i, item := range v.List {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", indent+1))
		}
		prettyWrite(b, item, indent+1)
	}
	b.WriteByte(')')
}
