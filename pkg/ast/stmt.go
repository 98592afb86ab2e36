package ast

import "github.com/leapstack-labs/pyshrink/pkg/token"

// ---------- Definitions ----------

// FunctionDef is a def or async def statement.
type FunctionDef struct {
	Name       string
	Args       *Arguments
	Body       []Stmt
	Decorators []Expr
	Returns    Expr // optional
	IsAsync    bool
}

// ClassDef is a class statement.
type ClassDef struct {
	Name       string
	Bases      []Expr
	Keywords   []*Keyword
	Body       []Stmt
	Decorators []Expr
}

// ---------- Simple statements ----------

// Return is a return statement.
type Return struct {
	Value Expr // optional
}

// Delete is a del statement.
type Delete struct {
	Targets []Expr
}

// Assign is a (possibly chained) assignment: t1 = t2 = value.
type Assign struct {
	Targets []Expr
	Value   Expr
}

// AugAssign is an augmented assignment such as x += 1.
type AugAssign struct {
	Target Expr
	Op     token.BinaryOp
	Value  Expr
}

// AnnAssign is an annotated assignment. Simple is false when a bare name
// target was written in parentheses.
type AnnAssign struct {
	Target     Expr
	Annotation Expr
	Value      Expr // optional
	Simple     bool
}

// Raise is a raise statement.
type Raise struct {
	Exc   Expr // optional
	Cause Expr // optional
}

// Assert is an assert statement.
type Assert struct {
	Test Expr
	Msg  Expr // optional
}

// Import is a plain import statement.
type Import struct {
	Names []*Alias
}

// ImportFrom is a from-import. Level counts leading dots.
type ImportFrom struct {
	Module string
	Names  []*Alias
	Level  int
}

// IsFuture reports whether the statement imports from __future__.
func (s *ImportFrom) IsFuture() bool {
	return s.Level == 0 && s.Module == "__future__"
}

// IsStar reports whether the statement is a star import.
func (s *ImportFrom) IsStar() bool {
	return len(s.Names) == 1 && s.Names[0].Name == "*"
}

// Global is a global declaration.
type Global struct {
	Names []string
}

// Nonlocal is a nonlocal declaration.
type Nonlocal struct {
	Names []string
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Value Expr
}

// Pass is the no-op statement.
type Pass struct{}

// Break is a break statement.
type Break struct{}

// Continue is a continue statement.
type Continue struct{}

// ---------- Compound statements ----------

// For is a for or async for loop.
type For struct {
	Target  Expr
	Iter    Expr
	Body    []Stmt
	Orelse  []Stmt
	IsAsync bool
}

// While is a while loop.
type While struct {
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// If is an if statement. An elif chain is an If nested alone in Orelse.
type If struct {
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// With is a with or async with statement.
type With struct {
	Items   []*WithItem
	Body    []Stmt
	IsAsync bool
}

// Match is a match statement.
type Match struct {
	Subject Expr
	Cases   []*MatchCase
}

// Try is a try statement. IsStar marks except* handlers.
type Try struct {
	Body      []Stmt
	Handlers  []*ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
	IsStar    bool
}

func (*FunctionDef) node() {}
func (*ClassDef) node()    {}
func (*Return) node()      {}
func (*Delete) node()      {}
func (*Assign) node()      {}
func (*AugAssign) node()   {}
func (*AnnAssign) node()   {}
func (*Raise) node()       {}
func (*Assert) node()      {}
func (*Import) node()      {}
func (*ImportFrom) node()  {}
func (*Global) node()      {}
func (*Nonlocal) node()    {}
func (*ExprStmt) node()    {}
func (*Pass) node()        {}
func (*Break) node()       {}
func (*Continue) node()    {}
func (*For) node()         {}
func (*While) node()       {}
func (*If) node()          {}
func (*With) node()        {}
func (*Match) node()       {}
func (*Try) node()         {}

func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*Delete) stmtNode()      {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*AnnAssign) stmtNode()   {}
func (*Raise) stmtNode()       {}
func (*Assert) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*Global) stmtNode()      {}
func (*Nonlocal) stmtNode()    {}
func (*ExprStmt) stmtNode()    {}
func (*Pass) stmtNode()        {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*For) stmtNode()         {}
func (*While) stmtNode()       {}
func (*If) stmtNode()          {}
func (*With) stmtNode()        {}
func (*Match) stmtNode()       {}
func (*Try) stmtNode()         {}

// IsSimple reports whether s is a single-line statement that may share a
// line with its neighbours.
func IsSimple(s Stmt) bool {
	switch s.(type) {
	case *Assert, *Assign, *AnnAssign, *AugAssign, *Break, *Continue, *Delete,
		*ExprStmt, *Global, *Nonlocal, *Import, *ImportFrom, *Pass, *Raise, *Return:
		return true
	}
	return false
}
