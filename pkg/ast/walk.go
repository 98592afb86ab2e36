package ast

// Walk traverses a tree depth-first and calls fn for each node.
// If fn returns false, the children of that node are skipped.
func Walk(node Node, fn func(node Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	walkChildren(node, fn)
}

func walkExprs(exprs []Expr, fn func(Node) bool) {
	for _, e := range exprs {
		if e != nil {
			Walk(e, fn)
		}
	}
}

func walkStmts(stmts []Stmt, fn func(Node) bool) {
	for _, s := range stmts {
		Walk(s, fn)
	}
}

func walkPatterns(patterns []Pattern, fn func(Node) bool) {
	for _, p := range patterns {
		Walk(p, fn)
	}
}

func walkOpt(e Expr, fn func(Node) bool) {
	if e != nil {
		Walk(e, fn)
	}
}

func walkArgs(a *Arguments, fn func(Node) bool) {
	if a != nil {
		Walk(a, fn)
	}
}

func walkArg(a *Arg, fn func(Node) bool) {
	if a != nil {
		Walk(a, fn)
	}
}

func walkComprehensions(gens []*Comprehension, fn func(Node) bool) {
	for _, g := range gens {
		Walk(g, fn)
	}
}

func walkKeywords(kws []*Keyword, fn func(Node) bool) {
	for _, kw := range kws {
		Walk(kw, fn)
	}
}

func walkChildren(node Node, fn func(Node) bool) {
	switch n := node.(type) {
	case *Module:
		walkStmts(n.Body, fn)

	// Statements
	case *FunctionDef:
		walkExprs(n.Decorators, fn)
		walkArgs(n.Args, fn)
		walkOpt(n.Returns, fn)
		walkStmts(n.Body, fn)
	case *ClassDef:
		walkExprs(n.Decorators, fn)
		walkExprs(n.Bases, fn)
		walkKeywords(n.Keywords, fn)
		walkStmts(n.Body, fn)
	case *Return:
		walkOpt(n.Value, fn)
	case *Delete:
		walkExprs(n.Targets, fn)
	case *Assign:
		walkExprs(n.Targets, fn)
		walkOpt(n.Value, fn)
	case *AugAssign:
		walkOpt(n.Target, fn)
		walkOpt(n.Value, fn)
	case *AnnAssign:
		walkOpt(n.Target, fn)
		walkOpt(n.Annotation, fn)
		walkOpt(n.Value, fn)
	case *Raise:
		walkOpt(n.Exc, fn)
		walkOpt(n.Cause, fn)
	case *Assert:
		walkOpt(n.Test, fn)
		walkOpt(n.Msg, fn)
	case *Import:
		for _, a := range n.Names {
			Walk(a, fn)
		}
	case *ImportFrom:
		for _, a := range n.Names {
			Walk(a, fn)
		}
	case *ExprStmt:
		walkOpt(n.Value, fn)
	case *For:
		walkOpt(n.Target, fn)
		walkOpt(n.Iter, fn)
		walkStmts(n.Body, fn)
		walkStmts(n.Orelse, fn)
	case *While:
		walkOpt(n.Test, fn)
		walkStmts(n.Body, fn)
		walkStmts(n.Orelse, fn)
	case *If:
		walkOpt(n.Test, fn)
		walkStmts(n.Body, fn)
		walkStmts(n.Orelse, fn)
	case *With:
		for _, item := range n.Items {
			Walk(item, fn)
		}
		walkStmts(n.Body, fn)
	case *Match:
		walkOpt(n.Subject, fn)
		for _, c := range n.Cases {
			Walk(c, fn)
		}
	case *Try:
		walkStmts(n.Body, fn)
		for _, h := range n.Handlers {
			Walk(h, fn)
		}
		walkStmts(n.Orelse, fn)
		walkStmts(n.Finalbody, fn)
	case *Global, *Nonlocal, *Pass, *Break, *Continue:
		// leaves

	// Helpers
	case *Arguments:
		for _, a := range n.PosOnly {
			walkArg(a, fn)
		}
		for _, a := range n.Args {
			walkArg(a, fn)
		}
		walkArg(n.Vararg, fn)
		for _, a := range n.KwOnly {
			walkArg(a, fn)
		}
		walkExprs(n.KwDefaults, fn)
		walkArg(n.Kwarg, fn)
		walkExprs(n.Defaults, fn)
	case *Arg:
		walkOpt(n.Annotation, fn)
	case *Keyword:
		walkOpt(n.Value, fn)
	case *Alias:
		// leaf
	case *WithItem:
		walkOpt(n.ContextExpr, fn)
		walkOpt(n.OptionalVars, fn)
	case *ExceptHandler:
		walkOpt(n.Type, fn)
		walkStmts(n.Body, fn)
	case *Comprehension:
		walkOpt(n.Target, fn)
		walkOpt(n.Iter, fn)
		walkExprs(n.Ifs, fn)
	case *MatchCase:
		Walk(n.Pattern, fn)
		walkOpt(n.Guard, fn)
		walkStmts(n.Body, fn)

	// Expressions
	case *BoolOp:
		walkExprs(n.Values, fn)
	case *NamedExpr:
		walkOpt(n.Target, fn)
		walkOpt(n.Value, fn)
	case *BinOp:
		walkOpt(n.Left, fn)
		walkOpt(n.Right, fn)
	case *UnaryOp:
		walkOpt(n.Operand, fn)
	case *Lambda:
		walkArgs(n.Args, fn)
		walkOpt(n.Body, fn)
	case *IfExp:
		walkOpt(n.Test, fn)
		walkOpt(n.Body, fn)
		walkOpt(n.Orelse, fn)
	case *Dict:
		walkExprs(n.Keys, fn)
		walkExprs(n.Values, fn)
	case *Set:
		walkExprs(n.Elts, fn)
	case *ListComp:
		walkOpt(n.Elt, fn)
		walkComprehensions(n.Generators, fn)
	case *SetComp:
		walkOpt(n.Elt, fn)
		walkComprehensions(n.Generators, fn)
	case *DictComp:
		walkOpt(n.Key, fn)
		walkOpt(n.Value, fn)
		walkComprehensions(n.Generators, fn)
	case *GeneratorExp:
		walkOpt(n.Elt, fn)
		walkComprehensions(n.Generators, fn)
	case *Await:
		walkOpt(n.Value, fn)
	case *Yield:
		walkOpt(n.Value, fn)
	case *YieldFrom:
		walkOpt(n.Value, fn)
	case *Compare:
		walkOpt(n.Left, fn)
		walkExprs(n.Comparators, fn)
	case *Call:
		walkOpt(n.Func, fn)
		walkExprs(n.Args, fn)
		walkKeywords(n.Keywords, fn)
	case *FormattedValue:
		walkOpt(n.Value, fn)
		if n.FormatSpec != nil {
			Walk(n.FormatSpec, fn)
		}
	case *JoinedStr:
		walkExprs(n.Values, fn)
	case *Attribute:
		walkOpt(n.Value, fn)
	case *Subscript:
		walkOpt(n.Value, fn)
		walkOpt(n.Slice, fn)
	case *Starred:
		walkOpt(n.Value, fn)
	case *List:
		walkExprs(n.Elts, fn)
	case *Tuple:
		walkExprs(n.Elts, fn)
	case *Slice:
		walkOpt(n.Lower, fn)
		walkOpt(n.Upper, fn)
		walkOpt(n.Step, fn)
	case *Constant, *Name:
		// leaves

	// Patterns
	case *MatchValue:
		walkOpt(n.Value, fn)
	case *MatchSequence:
		walkPatterns(n.Patterns, fn)
	case *MatchMapping:
		walkExprs(n.Keys, fn)
		walkPatterns(n.Patterns, fn)
	case *MatchClass:
		walkOpt(n.Cls, fn)
		walkPatterns(n.Patterns, fn)
		walkPatterns(n.KwdPatterns, fn)
	case *MatchAs:
		if n.Pattern != nil {
			Walk(n.Pattern, fn)
		}
	case *MatchOr:
		walkPatterns(n.Patterns, fn)
	case *MatchSingleton, *MatchStar:
		// leaves
	}
}
