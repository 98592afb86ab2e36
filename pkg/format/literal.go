package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

// infLiteral overflows to infinity when parsed.
const infLiteral = "1e309"

func (p *Printer) formatConstant(v ast.Value, prec token.Precedence) {
	text, negative, err := constantRepr(v)
	if err != nil {
		p.fail(err)
		return
	}
	p.parens(negative && prec > token.PrecFactor, func() {
		p.write(text)
	})
}

// constantRepr returns the source form of a literal and whether that form
// starts with a unary minus.
func constantRepr(v ast.Value) (string, bool, error) {
	switch val := v.(type) {
	case ast.None:
		return "None", false, nil
	case ast.Ellipsis:
		return "...", false, nil
	case ast.Bool:
		if val {
			return "True", false, nil
		}
		return "False", false, nil
	case ast.Int:
		return val.V.String(), val.V.Sign() < 0, nil
	case ast.Float:
		f := float64(val)
		if math.IsNaN(f) {
			return "(" + infLiteral + "-" + infLiteral + ")", false, nil
		}
		return floatRepr(f), math.Signbit(f), nil
	case ast.Complex:
		return complexRepr(complex128(val))
	case ast.Str:
		return strRepr(string(val)), false, nil
	case ast.Bytes:
		return bytesRepr([]byte(val)), false, nil
	}
	return "", false, &RenderError{Node: fmt.Sprintf("%T", v), Reason: "unknown literal"}
}

// floatRepr returns the shortest text that reads back as f, in the same
// notation Python's repr uses.
func floatRepr(f float64) string {
	if math.IsInf(f, 1) {
		return infLiteral
	}
	if math.IsInf(f, -1) {
		return "-" + infLiteral
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(fixed, '.') {
		fixed += ".0"
	}
	return fixed
}

// complexPart formats one component of a complex number the way Python's
// complex repr does: like a float but without a trailing ".0".
func complexPart(f float64) string {
	return strings.TrimSuffix(floatRepr(f), ".0")
}

func complexRepr(c complex128) (string, bool, error) {
	re, im := real(c), imag(c)
	if math.IsNaN(re) || math.IsNaN(im) {
		return "", false, &RenderError{Node: "complex", Reason: "NaN component"}
	}
	if re == 0 && !math.Signbit(re) {
		return complexPart(im) + "j", math.Signbit(im), nil
	}
	sign := "+"
	if math.Signbit(im) {
		sign = "-"
	}
	return "(" + complexPart(re) + sign + complexPart(math.Abs(im)) + "j)", false, nil
}

func pickQuote(s string) byte {
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		return '"'
	}
	return '\''
}

// strRepr quotes a string like Python's repr.
func strRepr(s string) string {
	q := pickQuote(s)
	var b strings.Builder
	b.WriteByte(q)
	escapeStr(&b, s, q, false)
	b.WriteByte(q)
	return b.String()
}

// escapeStr writes the body of a string literal quoted with q. Inside
// f-strings braces are doubled.
func escapeStr(b *strings.Builder, s string, q byte, fstring bool) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			if sr, ok := surrogate(s[i:]); ok {
				fmt.Fprintf(b, "\\u%04x", sr)
				i += 3
				continue
			}
			fmt.Fprintf(b, "\\x%02x", s[i])
			i++
			continue
		}
		i += size
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteByte(q)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case fstring && (r == '{' || r == '}'):
			b.WriteRune(r)
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(b, "\\x%02x", r)
		case r < utf8.RuneSelf || unicode.IsPrint(r):
			b.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(b, "\\x%02x", r)
		case r <= 0xffff:
			fmt.Fprintf(b, "\\u%04x", r)
		default:
			fmt.Fprintf(b, "\\U%08x", r)
		}
	}
}

// surrogate decodes a lone surrogate stored in its three-byte form, which
// is how the parser keeps escapes such as \ud800.
func surrogate(s string) (rune, bool) {
	if len(s) < 3 || s[0] != 0xed || s[1] < 0xa0 || s[1] > 0xbf || s[2] < 0x80 || s[2] > 0xbf {
		return 0, false
	}
	return 0xd000 | rune(s[1]&0x3f)<<6 | rune(s[2]&0x3f), true
}

// bytesRepr quotes a bytes value like Python's repr.
func bytesRepr(data []byte) string {
	q := pickQuote(string(data))
	var b strings.Builder
	b.WriteByte('b')
	b.WriteByte(q)
	for _, c := range data {
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(q)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, "\\x%02x", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}
