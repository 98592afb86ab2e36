package ast

// MatchValue matches by equality against a literal or dotted name.
type MatchValue struct {
	Value Expr
}

// MatchSingleton matches None, True or False by identity.
type MatchSingleton struct {
	Value Value
}

// MatchSequence matches a list or tuple pattern.
type MatchSequence struct {
	Patterns []Pattern
}

// MatchMapping matches a mapping pattern; Rest names a **rest capture.
type MatchMapping struct {
	Keys     []Expr
	Patterns []Pattern
	Rest     string
}

// MatchClass matches a class pattern: Cls(p1, attr=p2).
type MatchClass struct {
	Cls         Expr
	Patterns    []Pattern
	KwdAttrs    []string
	KwdPatterns []Pattern
}

// MatchStar is a *name capture inside a sequence pattern. An empty Name is
// the wildcard *_.
type MatchStar struct {
	Name string
}

// MatchAs is a capture, optionally of a sub-pattern: p as name. With both
// fields empty it is the wildcard _.
type MatchAs struct {
	Pattern Pattern // optional
	Name    string
}

// MatchOr is an alternation: p1 | p2.
type MatchOr struct {
	Patterns []Pattern
}

func (*MatchValue) node()     {}
func (*MatchSingleton) node() {}
func (*MatchSequence) node()  {}
func (*MatchMapping) node()   {}
func (*MatchClass) node()     {}
func (*MatchStar) node()      {}
func (*MatchAs) node()        {}
func (*MatchOr) node()        {}

func (*MatchValue) patternNode()     {}
func (*MatchSingleton) patternNode() {}
func (*MatchSequence) patternNode()  {}
func (*MatchMapping) patternNode()   {}
func (*MatchClass) patternNode()     {}
func (*MatchStar) patternNode()      {}
func (*MatchAs) patternNode()        {}
func (*MatchOr) patternNode()        {}
