package format

import (
	"strings"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

var fstringQuotes = []string{`'`, `"`, `'''`, `"""`}

// fstringPart is either literal text or a rendered replacement field.
type fstringPart struct {
	literal string
	field   *fstringField
}

type fstringField struct {
	expr       string
	conversion rune
	spec       []fstringPart
	hasSpec    bool
}

func (p *Printer) formatJoinedStr(js *ast.JoinedStr) {
	parts, ok := p.fstringParts(js)
	if !ok {
		return
	}

	if !hasFields(parts) {
		var b strings.Builder
		for _, part := range parts {
			b.WriteString(part.literal)
		}
		p.write(strRepr(b.String()))
		return
	}

	exprs := collectExprs(parts, nil)
	for _, e := range exprs {
		if strings.ContainsAny(e, "\\#\n") {
			p.fail(&RenderError{Node: "f-string", Reason: "replacement field cannot be quoted"})
			return
		}
	}

	quote := ""
	for _, q := range fstringQuotes {
		usable := true
		for _, e := range exprs {
			if strings.Contains(e, q) || (len(q) == 3 && strings.HasSuffix(e, q[:1])) {
				usable = false
				break
			}
		}
		if usable {
			quote = q
			break
		}
	}
	if quote == "" {
		p.fail(&RenderError{Node: "f-string", Reason: "no quote style fits the replacement fields"})
		return
	}

	var b strings.Builder
	b.WriteString("f")
	b.WriteString(quote)
	writeFStringParts(&b, parts, quote[0])
	b.WriteString(quote)
	p.write(b.String())
}

// fstringParts renders the replacement field expressions of js with a
// separate printer. A field holding a plain string literal becomes literal
// text.
func (p *Printer) fstringParts(js *ast.JoinedStr) ([]fstringPart, bool) {
	parts := make([]fstringPart, 0, len(js.Values))
	for _, v := range js.Values {
		switch part := v.(type) {
		case *ast.Constant:
			s, ok := part.Value.(ast.Str)
			if !ok {
				p.fail(&RenderError{Node: "f-string", Reason: "non-string literal part"})
				return nil, false
			}
			parts = append(parts, fstringPart{literal: string(s)})
		case *ast.FormattedValue:
			if c, ok := part.Value.(*ast.Constant); ok && part.Conversion == 0 && part.FormatSpec == nil {
				if s, ok := c.Value.(ast.Str); ok {
					parts = append(parts, fstringPart{literal: string(s)})
					continue
				}
			}
			text, err := exprAt(part.Value, token.PrecTest.Next())
			if err != nil {
				p.fail(err)
				return nil, false
			}
			if strings.HasPrefix(text, "{") {
				text = " " + text
			}
			field := &fstringField{expr: text, conversion: part.Conversion}
			if part.FormatSpec != nil {
				spec, ok := p.fstringParts(part.FormatSpec)
				if !ok {
					return nil, false
				}
				field.spec = spec
				field.hasSpec = true
			}
			parts = append(parts, fstringPart{field: field})
		default:
			p.fail(&RenderError{Node: "f-string", Reason: "unexpected part"})
			return nil, false
		}
	}
	return parts, true
}

func hasFields(parts []fstringPart) bool {
	for _, part := range parts {
		if part.field != nil {
			return true
		}
	}
	return false
}

func collectExprs(parts []fstringPart, out []string) []string {
	for _, part := range parts {
		if part.field == nil {
			continue
		}
		out = append(out, part.field.expr)
		out = collectExprs(part.field.spec, out)
	}
	return out
}

func writeFStringParts(b *strings.Builder, parts []fstringPart, q byte) {
	for _, part := range parts {
		if part.field == nil {
			escapeStr(b, part.literal, q, true)
			continue
		}
		b.WriteByte('{')
		b.WriteString(part.field.expr)
		if part.field.conversion != 0 {
			b.WriteByte('!')
			b.WriteRune(part.field.conversion)
		}
		if part.field.hasSpec {
			b.WriteByte(':')
			writeFStringParts(b, part.field.spec, q)
		}
		b.WriteByte('}')
	}
}
