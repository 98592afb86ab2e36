package ast

import "github.com/leapstack-labs/pyshrink/pkg/token"

// ---------- Expression Types ----------

// BoolOp is a flattened chain of one combinator: a or b or c.
type BoolOp struct {
	Op     token.BoolOp
	Values []Expr
}

// NamedExpr is an assignment expression: (target := value).
type NamedExpr struct {
	Target Expr
	Value  Expr
}

// BinOp is an infix arithmetic or bitwise operation.
type BinOp struct {
	Left  Expr
	Op    token.BinaryOp
	Right Expr
}

// UnaryOp is a prefix operation.
type UnaryOp struct {
	Op      token.UnaryOp
	Operand Expr
}

// Lambda is an anonymous function.
type Lambda struct {
	Args *Arguments
	Body Expr
}

// IfExp is the conditional expression: body if test else orelse.
type IfExp struct {
	Test   Expr
	Body   Expr
	Orelse Expr
}

// Dict is a dict display. A nil key marks a **value entry.
type Dict struct {
	Keys   []Expr
	Values []Expr
}

// Set is a non-empty set display.
type Set struct {
	Elts []Expr
}

// ListComp is a list comprehension.
type ListComp struct {
	Elt        Expr
	Generators []*Comprehension
}

// SetComp is a set comprehension.
type SetComp struct {
	Elt        Expr
	Generators []*Comprehension
}

// DictComp is a dict comprehension.
type DictComp struct {
	Key        Expr
	Value      Expr
	Generators []*Comprehension
}

// GeneratorExp is a generator expression.
type GeneratorExp struct {
	Elt        Expr
	Generators []*Comprehension
}

// Await is an await expression.
type Await struct {
	Value Expr
}

// Yield is a yield expression; Value may be nil.
type Yield struct {
	Value Expr
}

// YieldFrom is a yield from expression.
type YieldFrom struct {
	Value Expr
}

// Compare is a comparison chain: left op1 c1 op2 c2 ...
type Compare struct {
	Left        Expr
	Ops         []token.CmpOp
	Comparators []Expr
}

// Call is a function call.
type Call struct {
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// FormattedValue is one replacement field of an f-string. Conversion is
// 's', 'r', 'a' or 0 for none.
type FormattedValue struct {
	Value      Expr
	Conversion rune
	FormatSpec *JoinedStr // optional
}

// JoinedStr is an f-string. Values holds *Constant string parts and
// *FormattedValue fields.
type JoinedStr struct {
	Values []Expr
}

// Constant is a literal value.
type Constant struct {
	Value Value
}

// Attribute is an attribute access: value.attr.
type Attribute struct {
	Value Expr
	Attr  string
}

// Subscript is an item access: value[slice].
type Subscript struct {
	Value Expr
	Slice Expr
}

// Starred is an unpacking star: *value.
type Starred struct {
	Value Expr
}

// Name is a plain identifier.
type Name struct {
	ID string
}

// List is a list display.
type List struct {
	Elts []Expr
}

// Tuple is a tuple display.
type Tuple struct {
	Elts []Expr
}

// Slice is a slice inside a subscript: lower:upper:step.
type Slice struct {
	Lower Expr // optional
	Upper Expr // optional
	Step  Expr // optional
}

func (*BoolOp) node()         {}
func (*NamedExpr) node()      {}
func (*BinOp) node()          {}
func (*UnaryOp) node()        {}
func (*Lambda) node()         {}
func (*IfExp) node()          {}
func (*Dict) node()           {}
func (*Set) node()            {}
func (*ListComp) node()       {}
func (*SetComp) node()        {}
func (*DictComp) node()       {}
func (*GeneratorExp) node()   {}
func (*Await) node()          {}
func (*Yield) node()          {}
func (*YieldFrom) node()      {}
func (*Compare) node()        {}
func (*Call) node()           {}
func (*FormattedValue) node() {}
func (*JoinedStr) node()      {}
func (*Constant) node()       {}
func (*Attribute) node()      {}
func (*Subscript) node()      {}
func (*Starred) node()        {}
func (*Name) node()           {}
func (*List) node()           {}
func (*Tuple) node()          {}
func (*Slice) node()          {}

func (*BoolOp) exprNode()         {}
func (*NamedExpr) exprNode()      {}
func (*BinOp) exprNode()          {}
func (*UnaryOp) exprNode()        {}
func (*Lambda) exprNode()         {}
func (*IfExp) exprNode()          {}
func (*Dict) exprNode()           {}
func (*Set) exprNode()            {}
func (*ListComp) exprNode()       {}
func (*SetComp) exprNode()        {}
func (*DictComp) exprNode()       {}
func (*GeneratorExp) exprNode()   {}
func (*Await) exprNode()          {}
func (*Yield) exprNode()          {}
func (*YieldFrom) exprNode()      {}
func (*Compare) exprNode()        {}
func (*Call) exprNode()           {}
func (*FormattedValue) exprNode() {}
func (*JoinedStr) exprNode()      {}
func (*Constant) exprNode()       {}
func (*Attribute) exprNode()      {}
func (*Subscript) exprNode()      {}
func (*Starred) exprNode()        {}
func (*Name) exprNode()           {}
func (*List) exprNode()           {}
func (*Tuple) exprNode()          {}
func (*Slice) exprNode()          {}

// NodeName returns the terminal identifier of a name, attribute or call
// expression: "b" for a.b, "f" for m.f(x). It returns "" for anything else.
func NodeName(e Expr) string {
	switch n := e.(type) {
	case *Name:
		return n.ID
	case *Attribute:
		return n.Attr
	case *Call:
		return NodeName(n.Func)
	}
	return ""
}

// DottedName returns "a.b.c" for a chain of attribute accesses rooted at a
// name, and false for any other expression.
func DottedName(e Expr) (string, bool) {
	switch n := e.(type) {
	case *Name:
		return n.ID, true
	case *Attribute:
		base, ok := DottedName(n.Value)
		if !ok {
			return "", false
		}
		return base + "." + n.Attr, true
	}
	return "", false
}

// IsConstant reports whether e is a literal.
func IsConstant(e Expr) bool {
	_, ok := e.(*Constant)
	return ok
}
