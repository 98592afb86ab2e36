package pysrc

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
)

// parseNumber decodes an integer, float or imaginary literal.
func parseNumber(text string) (ast.Value, error) {
	text = strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(text)

	if strings.HasSuffix(lower, "j") {
		f, err := parseFloat(lower[:len(lower)-1])
		if err != nil {
			return nil, err
		}
		return ast.Complex(complex(0, f)), nil
	}

	base := 10
	digits := lower
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, lower[2:]
	case strings.HasPrefix(lower, "0o"):
		base, digits = 8, lower[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, lower[2:]
	case strings.ContainsAny(lower, ".e"):
		f, err := parseFloat(lower)
		if err != nil {
			return nil, err
		}
		return ast.Float(f), nil
	}
	digits = strings.TrimSuffix(digits, "l")
	if base == 10 {
		digits = strings.TrimLeft(digits, "0")
		if digits == "" {
			digits = "0"
		}
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("invalid number literal %q", text)
	}
	return ast.Int{V: v}, nil
}

// parseFloat accepts overflowing literals the way Python does: 1e999 is inf.
func parseFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, nil
		}
		return 0, fmt.Errorf("invalid number literal %q", text)
	}
	return f, nil
}

// stringPrefix describes the prefix letters of one string literal.
type stringPrefix struct {
	raw, bytes, format bool
}

// splitString separates a literal into prefix, quote and body.
func splitString(text string) (stringPrefix, string, string, error) {
	var p stringPrefix
	i := 0
	for ; i < len(text); i++ {
		switch text[i] {
		case 'r', 'R':
			p.raw = true
		case 'b', 'B':
			p.bytes = true
		case 'f', 'F':
			p.format = true
		case 'u', 'U':
		default:
			goto quote
		}
	}
quote:
	rest := text[i:]
	for _, q := range []string{`'''`, `"""`, `'`, `"`} {
		if len(rest) >= 2*len(q) && strings.HasPrefix(rest, q) && strings.HasSuffix(rest, q) {
			return p, q, rest[len(q) : len(rest)-len(q)], nil
		}
	}
	return p, "", "", fmt.Errorf("unterminated string literal")
}

// stringLiteral converts a string or a run of implicitly concatenated
// strings. The result is a Constant unless an f-string takes part.
func (c *converter) stringLiteral(n *sitter.Node) ast.Expr {
	pieces := []*sitter.Node{n}
	if n.Type() == "concatenated_string" {
		pieces = namedChildren(n)
	}

	var (
		parts      []ast.Expr
		sawBytes   bool
		sawText    bool
		sawFString bool
	)
	for _, piece := range pieces {
		p, _, _, err := splitString(c.text(piece))
		if err != nil {
			c.fail(piece, "%v", err)
			return placeholder
		}
		if p.bytes {
			sawBytes = true
		} else {
			sawText = true
		}
		if p.format {
			sawFString = true
		}
		parts = append(parts, c.stringPiece(piece)...)
	}
	if c.err != nil {
		return placeholder
	}
	if sawBytes && sawText {
		c.fail(n, "cannot mix bytes and nonbytes literals")
		return placeholder
	}

	if sawBytes {
		var buf []byte
		for _, part := range parts {
			buf = append(buf, part.(*ast.Constant).Value.(ast.Bytes)...)
		}
		return ast.NewConstant(ast.Bytes(buf))
	}
	parts = mergeLiterals(parts)
	if !sawFString {
		if len(parts) == 0 {
			return ast.NewConstant(ast.Str(""))
		}
		return parts[0]
	}
	return &ast.JoinedStr{Values: parts}
}

// mergeLiterals joins adjacent string constants and drops empty ones.
func mergeLiterals(parts []ast.Expr) []ast.Expr {
	var out []ast.Expr
	for _, part := range parts {
		lit, ok := part.(*ast.Constant)
		if !ok {
			out = append(out, part)
			continue
		}
		s := lit.Value.(ast.Str)
		if s == "" {
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*ast.Constant); ok {
				out[len(out)-1] = ast.NewConstant(prev.Value.(ast.Str) + s)
				continue
			}
		}
		out = append(out, ast.NewConstant(s))
	}
	return out
}

// stringPiece decodes one string node into literal constants and, for
// f-strings, formatted values.
func (c *converter) stringPiece(n *sitter.Node) []ast.Expr {
	text := c.text(n)
	p, q, body, err := splitString(text)
	if err != nil {
		c.fail(n, "%v", err)
		return nil
	}
	bodyStart := int(n.StartByte()) + len(text) - len(body) - len(q)

	if !p.format {
		return []ast.Expr{c.decodeLiteral(n, body, p, false)}
	}

	var parts []ast.Expr
	cursor := bodyStart
	for _, child := range namedChildren(n) {
		if child.Type() != "interpolation" {
			continue
		}
		start := int(child.StartByte())
		parts = append(parts, c.decodeLiteral(n, string(c.src[cursor:start]), p, true))
		parts = append(parts, c.interpolation(child, p)...)
		cursor = int(child.EndByte())
	}
	parts = append(parts, c.decodeLiteral(n, string(c.src[cursor:bodyStart+len(body)]), p, true))
	return parts
}

// interpolation converts one {expr!c:spec} field. A self-documenting
// field ({expr=}) also yields the literal text it echoes.
func (c *converter) interpolation(n *sitter.Node, p stringPrefix) []ast.Expr {
	field := &ast.FormattedValue{}
	var parts []ast.Expr
	exprNode := n.ChildByFieldName("expression")
	if exprNode == nil {
		exprNode = namedChildren(n)[0]
	}
	field.Value = c.expr(exprNode)

	all := children(n)
	for i, child := range all {
		switch child.Type() {
		case "=":
			// The echo runs up to the conversion, spec or closing brace.
			next := int(n.EndByte()) - 1
			if i+1 < len(all) {
				next = int(all[i+1].StartByte())
			}
			echo := string(c.src[int(n.StartByte())+1 : next])
			parts = append(parts, ast.NewConstant(ast.Str(echo)))
		case "type_conversion":
			conv := strings.TrimPrefix(c.text(child), "!")
			if conv != "s" && conv != "r" && conv != "a" {
				c.fail(child, "invalid conversion character %q", conv)
				return nil
			}
			field.Conversion, _ = utf8.DecodeRuneInString(conv)
		case "format_specifier":
			field.FormatSpec = c.formatSpec(child, p)
		}
	}
	if len(parts) > 0 && field.Conversion == 0 && field.FormatSpec == nil {
		field.Conversion = 'r'
	}
	return append(parts, field)
}

func (c *converter) formatSpec(n *sitter.Node, p stringPrefix) *ast.JoinedStr {
	var parts []ast.Expr
	cursor := int(n.StartByte()) + 1 // skip ':'
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "interpolation", "format_expression":
			start := int(child.StartByte())
			parts = append(parts, c.decodeLiteral(n, string(c.src[cursor:start]), p, true))
			parts = append(parts, c.interpolation(child, p)...)
			cursor = int(child.EndByte())
		}
	}
	parts = append(parts, c.decodeLiteral(n, string(c.src[cursor:int(n.EndByte())]), p, true))
	return &ast.JoinedStr{Values: mergeLiterals(parts)}
}

// decodeLiteral turns literal source text into a constant. Inside
// f-strings doubled braces collapse.
func (c *converter) decodeLiteral(n *sitter.Node, body string, p stringPrefix, fstring bool) ast.Expr {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	if fstring {
		body = strings.NewReplacer("{{", "{", "}}", "}").Replace(body)
	}
	if p.bytes {
		out, err := unescapeBytes(body, p.raw)
		if err != nil {
			c.fail(n, "%v", err)
			return placeholder
		}
		return ast.NewConstant(ast.Bytes(out))
	}
	if p.raw {
		return ast.NewConstant(ast.Str(body))
	}
	out, err := unescape(body, false)
	if err != nil {
		c.fail(n, "%v", err)
		return placeholder
	}
	return ast.NewConstant(ast.Str(out))
}

func unescapeBytes(body string, raw bool) ([]byte, error) {
	for i := 0; i < len(body); i++ {
		if body[i] >= utf8.RuneSelf {
			return nil, errors.New("bytes can only contain ASCII literal characters")
		}
	}
	if raw {
		return []byte(body), nil
	}
	out, err := unescape(body, true)
	return []byte(out), err
}

// unescape processes backslash escapes. In bytes mode \x and octal
// escapes produce raw bytes and \u, \U and \N stay literal.
func unescape(s string, bytes bool) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	put := func(r rune) {
		if bytes {
			b.WriteByte(byte(r))
		} else {
			b.WriteRune(r)
		}
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 == len(s) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch esc := s[i]; esc {
		case '\n':
		case '\\', '\'', '"':
			b.WriteByte(esc)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			if bytes {
				v &= 0xff
			}
			put(rune(v))
			i = j - 1
		case 'x':
			r, err := hexEscape(s, i+1, 2)
			if err != nil {
				return "", err
			}
			put(r)
			i += 2
		case 'u', 'U':
			if bytes {
				b.WriteByte('\\')
				b.WriteByte(esc)
				continue
			}
			width := 4
			if esc == 'U' {
				width = 8
			}
			r, err := hexEscape(s, i+1, width)
			if err != nil {
				return "", err
			}
			if r > utf8.MaxRune {
				return "", errors.New("illegal Unicode character")
			}
			if r >= 0xd800 && r <= 0xdfff {
				// Lone surrogates have no UTF-8 form; keep their three-byte
				// encoding so the printer can restore the escape.
				b.WriteByte(0xed)
				b.WriteByte(byte(0x80 | (r>>6)&0x3f))
				b.WriteByte(byte(0x80 | r&0x3f))
			} else {
				b.WriteRune(r)
			}
			i += width
		case 'N':
			if bytes {
				b.WriteString(`\N`)
				continue
			}
			return "", errors.New(`\N{...} escapes are not supported`)
		default:
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}
	return b.String(), nil
}

func hexEscape(s string, at, width int) (rune, error) {
	if at+width > len(s) {
		return 0, errors.New("truncated escape sequence")
	}
	v, err := strconv.ParseUint(s[at:at+width], 16, 32)
	if err != nil {
		return 0, errors.New("invalid escape sequence")
	}
	return rune(v), nil
}
