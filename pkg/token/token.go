// Package token defines the Python operator kinds shared by the AST, the
// constant evaluator and the printer.
//
// Operators are small integer enums so that switches over them stay cheap and
// exhaustive. Each kind knows its source spelling and binding strength.
package token

import "fmt"

// BinaryOp is an arithmetic or bitwise infix operator.
type BinaryOp int

// Binary operators, in the order Python's grammar lists them.
const (
	Add BinaryOp = iota
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

var binaryOpText = [...]string{
	Add:      "+",
	Sub:      "-",
	Mult:     "*",
	MatMult:  "@",
	Div:      "/",
	Mod:      "%",
	Pow:      "**",
	LShift:   "<<",
	RShift:   ">>",
	BitOr:    "|",
	BitXor:   "^",
	BitAnd:   "&",
	FloorDiv: "//",
}

// String returns the operator as written in source.
func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binaryOpText) {
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
	return binaryOpText[op]
}

// Precedence returns how tightly the operator binds.
func (op BinaryOp) Precedence() Precedence {
	switch op {
	case Add, Sub:
		return PrecArith
	case Mult, MatMult, Div, Mod, FloorDiv:
		return PrecTerm
	case LShift, RShift:
		return PrecShift
	case BitOr:
		return PrecBOr
	case BitXor:
		return PrecBXor
	case BitAnd:
		return PrecBAnd
	case Pow:
		return PrecPower
	}
	return PrecAtom
}

// RightAssociative reports whether chains of op group to the right.
func (op BinaryOp) RightAssociative() bool {
	return op == Pow
}

// BinaryOpFromString returns the operator spelled s. Augmented assignment
// spellings ("+=") are accepted too.
func BinaryOpFromString(s string) (BinaryOp, bool) {
	if len(s) > 1 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	for i, text := range binaryOpText {
		if text == s {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

// UnaryOp is a prefix operator.
type UnaryOp int

// Unary operators.
const (
	Invert UnaryOp = iota
	Not
	UAdd
	USub
)

var unaryOpText = [...]string{
	Invert: "~",
	Not:    "not",
	UAdd:   "+",
	USub:   "-",
}

func (op UnaryOp) String() string {
	if op < 0 || int(op) >= len(unaryOpText) {
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
	return unaryOpText[op]
}

// Precedence returns how tightly the operator binds.
func (op UnaryOp) Precedence() Precedence {
	if op == Not {
		return PrecNot
	}
	return PrecFactor
}

// BoolOp is a short-circuiting boolean combinator.
type BoolOp int

// Boolean combinators.
const (
	And BoolOp = iota
	Or
)

func (op BoolOp) String() string {
	if op == And {
		return "and"
	}
	return "or"
}

// Precedence returns how tightly the combinator binds.
func (op BoolOp) Precedence() Precedence {
	if op == And {
		return PrecAnd
	}
	return PrecOr
}

// CmpOp is a comparison operator.
type CmpOp int

// Comparison operators.
const (
	Eq CmpOp = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var cmpOpText = [...]string{
	Eq:    "==",
	NotEq: "!=",
	Lt:    "<",
	LtE:   "<=",
	Gt:    ">",
	GtE:   ">=",
	Is:    "is",
	IsNot: "is not",
	In:    "in",
	NotIn: "not in",
}

func (op CmpOp) String() string {
	if op < 0 || int(op) >= len(cmpOpText) {
		return fmt.Sprintf("CmpOp(%d)", int(op))
	}
	return cmpOpText[op]
}

// CmpOpFromString returns the comparison spelled s ("<>" is accepted as !=).
func CmpOpFromString(s string) (CmpOp, bool) {
	if s == "<>" {
		return NotEq, true
	}
	for i, text := range cmpOpText {
		if text == s {
			return CmpOp(i), true
		}
	}
	return 0, false
}
