// Package format prints a Python syntax tree as the shortest source text
// that parses back to the same tree.
//
// Tokens are written with their conventional padding (", ", " = ",
// " if ") and shrunk on the way out: operators and separators lose their
// spaces, keyword connectives drop the leading space after a quote or
// bracket, and a trailing space is removed before a quote, bracket or star.
// Statement bodies made only of simple statements share one line.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

// Printer accumulates output for one tree.
type Printer struct {
	output  *bytes.Buffer
	depth   int
	lastTok string

	// prev is the statement printed before the current one in the body
	// being printed; inline reports whether that body fits on one line.
	prev   ast.Stmt
	inline bool

	// keepSpace protects the trailing space of a soft keyword from the
	// next write.
	keepSpace bool

	err error
}

func newPrinter() *Printer {
	return &Printer{output: &bytes.Buffer{}}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return p.output.String()
}

func (p *Printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Printer) lastByte() byte {
	if p.output.Len() == 0 {
		return 0
	}
	return p.output.Bytes()[p.output.Len()-1]
}

func (p *Printer) write(texts ...string) {
	for _, text := range texts {
		if text == "" {
			continue
		}
		if bare, ok := token.Unpad(text); ok {
			text = bare
		} else if token.IsConnective(text) && (p.output.Len() == 0 || token.SelfDelimiting(p.lastByte())) {
			text = text[1:]
		}
		if token.SelfDelimiting(text[0]) && p.lastByte() == ' ' && !p.keepSpace {
			p.output.Truncate(p.output.Len() - 1)
		}
		p.keepSpace = false
		p.output.WriteString(text)
		p.lastTok = text
	}
}

// softKeyword writes kw followed by a space that survives the next token.
func (p *Printer) softKeyword(kw string) {
	p.write(kw + " ")
	p.keepSpace = true
}

// newline starts a line at the current depth. Nothing is written at the
// very start of the output.
func (p *Printer) newline() {
	if p.output.Len() > 0 {
		p.output.WriteByte('\n')
	}
	p.output.WriteString(strings.Repeat("\t", p.depth))
	p.lastTok = "\n"
	p.keepSpace = false
}

// fill starts a compound statement header, always on its own line.
func (p *Printer) fill(text string) {
	p.newline()
	p.write(text)
}

// fillSimple starts a simple statement with the shortest separator: none
// right after an inlineable block's colon, a semicolon after another
// simple statement inside a block, a newline otherwise.
func (p *Printer) fillSimple(text string) {
	switch {
	case p.lastTok == ":" && p.inline:
	case p.depth > 0 && p.prev != nil && ast.IsSimple(p.prev):
		p.output.WriteByte(';')
		p.lastTok = ";"
	default:
		p.newline()
	}
	p.write(text)
}

// block writes a colon and the indented body.
func (p *Printer) block(owner string, body []ast.Stmt) {
	p.write(":")
	if len(body) == 0 {
		p.fail(&RenderError{Node: owner, Reason: "empty body"})
		return
	}
	p.depth++
	p.formatBody(body)
	p.depth--
}

func (p *Printer) formatBody(body []ast.Stmt) {
	savedPrev, savedInline := p.prev, p.inline
	p.inline = inlineable(body)
	p.prev = nil
	for _, s := range body {
		p.formatStmt(s)
		p.prev = s
	}
	p.prev, p.inline = savedPrev, savedInline
}

func inlineable(body []ast.Stmt) bool {
	if len(body) == 1 {
		return true
	}
	for _, s := range body {
		if !ast.IsSimple(s) {
			return false
		}
	}
	return true
}

// parens wraps the output of f in parentheses when cond holds.
func (p *Printer) parens(cond bool, f func()) {
	if cond {
		p.write("(")
	}
	f()
	if cond {
		p.write(")")
	}
}

// formatList prints count items separated by sep.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		if i > 0 {
			p.write(sep)
		}
		format(i)
	}
}
