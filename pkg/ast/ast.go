// Package ast defines the Python syntax tree the shrinker rewrites and prints.
//
// The tree is a closed set of node types. Every statement implements Stmt,
// every expression Expr and every match pattern Pattern; the unexported
// marker methods keep the sets closed so that type switches over them can
// be checked for completeness. Each node owns its children exclusively.
package ast

// Node is the base interface for all AST nodes.
type Node interface {
	node()
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a marker interface for match-statement patterns.
type Pattern interface {
	Node
	patternNode()
}

// Module is the root of a parsed file.
type Module struct {
	Body []Stmt
}

func (*Module) node() {}

// Arguments is the parameter list of a function or lambda.
//
// Defaults align with the tail of PosOnly+Args. KwDefaults has one entry per
// KwOnly parameter; nil marks a parameter without a default.
type Arguments struct {
	PosOnly    []*Arg
	Args       []*Arg
	Vararg     *Arg
	KwOnly     []*Arg
	KwDefaults []Expr
	Kwarg      *Arg
	Defaults   []Expr
}

func (*Arguments) node() {}

// Empty reports whether the list declares no parameters at all.
func (a *Arguments) Empty() bool {
	return a == nil || (len(a.PosOnly) == 0 && len(a.Args) == 0 && a.Vararg == nil &&
		len(a.KwOnly) == 0 && a.Kwarg == nil)
}

// Arg is a single parameter.
type Arg struct {
	Name       string
	Annotation Expr // optional
}

func (*Arg) node() {}

// Keyword is a keyword argument in a call or class header. An empty Name
// means **Value.
type Keyword struct {
	Name  string
	Value Expr
}

func (*Keyword) node() {}

// Alias is one imported name.
type Alias struct {
	Name   string // dotted for plain imports, "*" for star imports
	AsName string
}

func (*Alias) node() {}

// BoundName returns the name the import binds in the importing scope.
func (a *Alias) BoundName(fromImport bool) string {
	if a.AsName != "" {
		return a.AsName
	}
	if fromImport {
		return a.Name
	}
	for i := 0; i < len(a.Name); i++ {
		if a.Name[i] == '.' {
			return a.Name[:i]
		}
	}
	return a.Name
}

// WithItem is one context manager of a with statement.
type WithItem struct {
	ContextExpr  Expr
	OptionalVars Expr // optional
}

func (*WithItem) node() {}

// ExceptHandler is one except clause.
type ExceptHandler struct {
	Type Expr   // optional
	Name string // optional
	Body []Stmt
}

func (*ExceptHandler) node() {}

// Comprehension is one for-clause of a comprehension with its filters.
type Comprehension struct {
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

func (*Comprehension) node() {}

// MatchCase is one case block of a match statement.
type MatchCase struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    []Stmt
}

func (*MatchCase) node() {}
