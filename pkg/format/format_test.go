package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

func name(id string) *ast.Name { return &ast.Name{ID: id} }

func num(n int64) *ast.Constant { return ast.NewConstant(ast.NewInt(n)) }

func str(s string) *ast.Constant { return ast.NewConstant(ast.Str(s)) }

func call(fn string, args ...ast.Expr) *ast.Call {
	return &ast.Call{Func: name(fn), Args: args}
}

func expr(e ast.Expr) ast.Stmt { return &ast.ExprStmt{Value: e} }

func binop(l ast.Expr, op token.BinaryOp, r ast.Expr) *ast.BinOp {
	return &ast.BinOp{Left: l, Op: op, Right: r}
}

func TestFormat_Statements(t *testing.T) {
	tests := []struct {
		name     string
		body     []ast.Stmt
		expected string
	}{
		{
			name:     "empty module",
			body:     nil,
			expected: "",
		},
		{
			name: "inline if body",
			body: []ast.Stmt{
				&ast.If{
					Test: &ast.Compare{Left: name("a"), Ops: []token.CmpOp{token.Eq}, Comparators: []ast.Expr{name("b")}},
					Body: []ast.Stmt{expr(call("a")), expr(call("b")), expr(call("c"))},
				},
			},
			expected: "if a==b:a();b();c()",
		},
		{
			name: "function with compound body",
			body: []ast.Stmt{
				&ast.FunctionDef{
					Name: "foo",
					Args: &ast.Arguments{Args: []*ast.Arg{{Name: "bar"}}},
					Body: []ast.Stmt{
						&ast.If{Test: name("bar"), Body: []ast.Stmt{&ast.Return{}}},
						&ast.Return{Value: num(1)},
					},
				},
			},
			expected: "def foo(bar):\n\tif bar:return\n\treturn 1",
		},
		{
			name: "function with simple body",
			body: []ast.Stmt{
				&ast.FunctionDef{
					Name: "foo",
					Args: &ast.Arguments{Args: []*ast.Arg{{Name: "bar"}, {Name: "spam"}, {Name: "eggs"}}},
					Body: []ast.Stmt{
						&ast.Assign{Targets: []ast.Expr{name("a")}, Value: num(1)},
						&ast.Return{Value: name("a")},
					},
				},
			},
			expected: "def foo(bar,spam,eggs):a=1;return a",
		},
		{
			name: "try with tuple handler and raise from",
			body: []ast.Stmt{
				&ast.Try{
					Body: []ast.Stmt{&ast.AugAssign{Target: name("a"), Op: token.Add, Value: num(1)}},
					Handlers: []*ast.ExceptHandler{{
						Type: &ast.Tuple{Elts: []ast.Expr{name("Exception"), name("ValueError")}},
						Name: "e",
						Body: []ast.Stmt{&ast.Raise{Exc: call("ValueError", str("a")), Cause: name("e")}},
					}},
				},
			},
			expected: "try:a+=1\nexcept(Exception,ValueError)as e:raise ValueError('a')from e",
		},
		{
			name: "class annotations share a line",
			body: []ast.Stmt{
				&ast.ClassDef{
					Name: "SomeTuple",
					Body: []ast.Stmt{
						&ast.AnnAssign{Target: name("thing1"), Annotation: name("int"), Simple: true},
						&ast.AnnAssign{Target: name("thing2"), Annotation: name("int"), Simple: true},
						&ast.FunctionDef{
							Name: "a",
							Args: &ast.Arguments{},
							Body: []ast.Stmt{
								&ast.ClassDef{Name: "B", Body: []ast.Stmt{
									&ast.AnnAssign{Target: name("thing3"), Annotation: name("int"), Simple: true},
								}},
								&ast.Return{Value: name("B")},
							},
						},
					},
				},
			},
			expected: "class SomeTuple:\n\tthing1:int;thing2:int\n\tdef a():\n\t\tclass B:thing3:int\n\t\treturn B",
		},
		{
			name: "class bases and decorators",
			body: []ast.Stmt{
				&ast.ClassDef{
					Name:       "A",
					Bases:      []ast.Expr{name("B")},
					Keywords:   []*ast.Keyword{{Name: "metaclass", Value: name("M")}},
					Decorators: []ast.Expr{name("dataclass")},
					Body:       []ast.Stmt{&ast.Pass{}},
				},
			},
			expected: "@dataclass\nclass A(B,metaclass=M):pass",
		},
		{
			name: "elif chain",
			body: []ast.Stmt{
				&ast.If{
					Test: name("a"),
					Body: []ast.Stmt{&ast.Pass{}},
					Orelse: []ast.Stmt{&ast.If{
						Test:   name("b"),
						Body:   []ast.Stmt{&ast.Pass{}},
						Orelse: []ast.Stmt{&ast.Break{}},
					}},
				},
			},
			expected: "if a:pass\nelif b:pass\nelse:break",
		},
		{
			name: "module level statements use newlines",
			body: []ast.Stmt{
				&ast.Import{Names: []*ast.Alias{{Name: "os"}, {Name: "numpy", AsName: "np"}}},
				&ast.ImportFrom{Module: "", Level: 1, Names: []*ast.Alias{{Name: "x"}}},
				&ast.ImportFrom{Module: "typing", Names: []*ast.Alias{{Name: "*"}}},
				&ast.Assign{Targets: []ast.Expr{name("a"), name("b")}, Value: num(-1)},
			},
			expected: "import os,numpy as np\nfrom . import x\nfrom typing import*\na=b=-1",
		},
		{
			name: "starred tuple assignment keeps value parens",
			body: []ast.Stmt{
				&ast.Assign{
					Targets: []ast.Expr{&ast.Tuple{Elts: []ast.Expr{name("b"), &ast.Starred{Value: name("c")}}}},
					Value:   &ast.Tuple{Elts: []ast.Expr{num(2), num(3), num(4)}},
				},
			},
			expected: "b,*c=(2,3,4)",
		},
		{
			name: "for else and while",
			body: []ast.Stmt{
				&ast.For{
					Target: &ast.Tuple{Elts: []ast.Expr{name("k"), name("v")}},
					Iter:   call("items"),
					Body:   []ast.Stmt{&ast.Continue{}},
					Orelse: []ast.Stmt{&ast.Pass{}},
				},
				&ast.While{Test: num(1), Body: []ast.Stmt{&ast.Break{}}},
			},
			expected: "for k,v in items():continue\nelse:pass\nwhile 1:break",
		},
		{
			name: "with items",
			body: []ast.Stmt{
				&ast.With{
					Items: []*ast.WithItem{
						{ContextExpr: call("open", name("p")), OptionalVars: name("f")},
						{ContextExpr: name("lock")},
					},
					Body:    []ast.Stmt{&ast.Pass{}},
					IsAsync: true,
				},
			},
			expected: "async with open(p)as f,lock:pass",
		},
		{
			name: "arguments",
			body: []ast.Stmt{
				&ast.FunctionDef{
					Name: "f",
					Args: &ast.Arguments{
						PosOnly:    []*ast.Arg{{Name: "a"}},
						Args:       []*ast.Arg{{Name: "b"}},
						Defaults:   []ast.Expr{num(1)},
						Vararg:     &ast.Arg{Name: "args"},
						KwOnly:     []*ast.Arg{{Name: "c"}, {Name: "d"}},
						KwDefaults: []ast.Expr{nil, num(2)},
						Kwarg:      &ast.Arg{Name: "kw"},
					},
					Returns: name("int"),
					Body:    []ast.Stmt{&ast.Pass{}},
				},
			},
			expected: "def f(a,/,b=1,*args,c,d=2,**kw)->int:pass",
		},
		{
			name: "bare star",
			body: []ast.Stmt{
				&ast.FunctionDef{
					Name:    "f",
					Args:    &ast.Arguments{KwOnly: []*ast.Arg{{Name: "a", Annotation: name("int")}}, KwDefaults: []ast.Expr{nil}},
					Body:    []ast.Stmt{&ast.Pass{}},
					IsAsync: true,
				},
			},
			expected: "async def f(*,a:int):pass",
		},
		{
			name: "global and nonlocal",
			body: []ast.Stmt{
				&ast.FunctionDef{
					Name: "f",
					Args: &ast.Arguments{},
					Body: []ast.Stmt{
						&ast.Global{Names: []string{"a", "b"}},
						&ast.Nonlocal{Names: []string{"c"}},
						&ast.Delete{Targets: []ast.Expr{name("a"), name("b")}},
					},
				},
			},
			expected: "def f():global a,b;nonlocal c;del a,b",
		},
		{
			name: "match statement",
			body: []ast.Stmt{
				&ast.Match{
					Subject: name("x"),
					Cases: []*ast.MatchCase{
						{Pattern: &ast.MatchValue{Value: num(1)}, Body: []ast.Stmt{&ast.Pass{}}},
						{
							Pattern: &ast.MatchOr{Patterns: []ast.Pattern{
								&ast.MatchSequence{Patterns: []ast.Pattern{&ast.MatchAs{Name: "a"}, &ast.MatchStar{}}},
								&ast.MatchClass{Cls: name("P"), KwdAttrs: []string{"x"}, KwdPatterns: []ast.Pattern{&ast.MatchAs{}}},
							}},
							Guard: name("ok"),
							Body:  []ast.Stmt{&ast.Pass{}},
						},
						{Pattern: &ast.MatchAs{}, Body: []ast.Stmt{&ast.Pass{}}},
					},
				},
			},
			expected: "match x:\n\tcase 1:pass\n\tcase [a,*_]|P(x=_)if ok:pass\n\tcase _:pass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Format(&ast.Module{Body: tt.body})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormat_Expressions(t *testing.T) {
	tests := []struct {
		name     string
		input    ast.Expr
		expected string
	}{
		{"membership against tuple", &ast.Compare{Left: name("a"), Ops: []token.CmpOp{token.In}, Comparators: []ast.Expr{&ast.Tuple{Elts: []ast.Expr{num(1), num(2)}}}}, "a in(1,2)"},
		{"is not", &ast.Compare{Left: name("a"), Ops: []token.CmpOp{token.IsNot}, Comparators: []ast.Expr{ast.NewConstant(ast.None{})}}, "a is not None"},
		{"left grouping", binop(binop(name("a"), token.Add, name("b")), token.Mult, name("c")), "(a+b)*c"},
		{"right grouping", binop(name("a"), token.Sub, binop(name("b"), token.Sub, name("c"))), "a-(b-c)"},
		{"left assoc needs no parens", binop(binop(name("a"), token.Sub, name("b")), token.Sub, name("c")), "a-b-c"},
		{"power is right associative", binop(name("a"), token.Pow, binop(name("b"), token.Pow, name("c"))), "a**b**c"},
		{"power left grouping", binop(binop(name("a"), token.Pow, name("b")), token.Pow, name("c")), "(a**b)**c"},
		{"unary binds looser than power", &ast.UnaryOp{Op: token.USub, Operand: binop(name("a"), token.Pow, name("b"))}, "-a**b"},
		{"negated base", binop(&ast.UnaryOp{Op: token.USub, Operand: name("a")}, token.Pow, name("b")), "(-a)**b"},
		{"negative literal base", binop(num(-1), token.Pow, num(2)), "(-1)**2"},
		{"negative literal operand", binop(name("a"), token.Mult, num(-1)), "a*-1"},
		{"not", &ast.UnaryOp{Op: token.Not, Operand: name("x")}, "not x"},
		{"not of call", &ast.UnaryOp{Op: token.Not, Operand: &ast.Tuple{Elts: []ast.Expr{name("x"), name("y")}}}, "not(x,y)"},
		{"bool ops", &ast.BoolOp{Op: token.Or, Values: []ast.Expr{&ast.BoolOp{Op: token.And, Values: []ast.Expr{name("a"), name("b")}}, name("c")}}, "a and b or c"},
		{"nested or keeps grouping", &ast.BoolOp{Op: token.Or, Values: []ast.Expr{name("a"), &ast.BoolOp{Op: token.Or, Values: []ast.Expr{name("b"), name("c")}}}}, "a or(b or c)"},
		{"attribute of int", &ast.Attribute{Value: num(1), Attr: "real"}, "1 .real"},
		{"attribute of name", &ast.Attribute{Value: name("os"), Attr: "sep"}, "os.sep"},
		{"empty set", &ast.Set{}, "{*()}"},
		{"set", &ast.Set{Elts: []ast.Expr{num(1), num(2)}}, "{1,2}"},
		{"one tuple", &ast.Tuple{Elts: []ast.Expr{num(1)}}, "(1,)"},
		{"empty tuple", &ast.Tuple{}, "()"},
		{"conditional", &ast.IfExp{Test: name("b"), Body: name("a"), Orelse: name("c")}, "a if b else c"},
		{"conditional after string", &ast.IfExp{Test: name("b"), Body: str("a"), Orelse: str("c")}, "'a'if b else'c'"},
		{"lambda", &ast.Lambda{Args: &ast.Arguments{Args: []*ast.Arg{{Name: "x"}}}, Body: name("x")}, "lambda x:x"},
		{"lambda without args", &ast.Lambda{Args: &ast.Arguments{}, Body: num(0)}, "lambda:0"},
		{"lambda varargs", &ast.Lambda{Args: &ast.Arguments{Vararg: &ast.Arg{Name: "a"}}, Body: name("a")}, "lambda*a:a"},
		{"sole generator argument", &ast.Call{Func: name("f"), Args: []ast.Expr{&ast.GeneratorExp{
			Elt:        name("x"),
			Generators: []*ast.Comprehension{{Target: name("x"), Iter: name("y")}},
		}}}, "f(x for x in y)"},
		{"generator with another argument", &ast.Call{Func: name("f"), Args: []ast.Expr{&ast.GeneratorExp{
			Elt:        name("x"),
			Generators: []*ast.Comprehension{{Target: name("x"), Iter: name("y")}},
		}, num(1)}}, "f((x for x in y),1)"},
		{"list comprehension with filter", &ast.ListComp{
			Elt:        binop(name("x"), token.Mult, num(2)),
			Generators: []*ast.Comprehension{{Target: name("x"), Iter: name("y"), Ifs: []ast.Expr{name("x")}}},
		}, "[x*2 for x in y if x]"},
		{"dict comprehension", &ast.DictComp{
			Key:        name("k"),
			Value:      name("v"),
			Generators: []*ast.Comprehension{{Target: &ast.Tuple{Elts: []ast.Expr{name("k"), name("v")}}, Iter: name("d"), IsAsync: true}},
		}, "{k:v async for k,v in d}"},
		{"dict with unpack", &ast.Dict{Keys: []ast.Expr{str("a"), nil}, Values: []ast.Expr{num(1), name("b")}}, "{'a':1,**b}"},
		{"call keywords", &ast.Call{Func: name("f"), Args: []ast.Expr{&ast.Starred{Value: name("a")}}, Keywords: []*ast.Keyword{{Name: "k", Value: num(1)}, {Value: name("kw")}}}, "f(*a,k=1,**kw)"},
		{"subscript tuple", &ast.Subscript{Value: name("x"), Slice: &ast.Tuple{Elts: []ast.Expr{num(1), num(2)}}}, "x[1,2]"},
		{"subscript one tuple", &ast.Subscript{Value: name("x"), Slice: &ast.Tuple{Elts: []ast.Expr{name("a")}}}, "x[a,]"},
		{"slice", &ast.Subscript{Value: name("x"), Slice: &ast.Slice{Lower: num(1), Upper: num(2)}}, "x[1:2]"},
		{"slice step only", &ast.Subscript{Value: name("x"), Slice: &ast.Slice{Step: num(2)}}, "x[::2]"},
		{"named expression", &ast.NamedExpr{Target: name("y"), Value: num(1)}, "(y:=1)"},
		{"yield tuple", &ast.Yield{Value: &ast.Tuple{Elts: []ast.Expr{name("a"), name("b")}}}, "yield a,b"},
		{"yield from", &ast.YieldFrom{Value: call("g")}, "yield from g()"},
		{"await", &ast.Await{Value: call("f")}, "await f()"},
		{"await parenthesized", &ast.Await{Value: binop(name("a"), token.Add, name("b"))}, "await(a+b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Expr(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormat_Literals(t *testing.T) {
	tests := []struct {
		name     string
		value    ast.Value
		expected string
	}{
		{"none", ast.None{}, "None"},
		{"true", ast.Bool(true), "True"},
		{"ellipsis", ast.Ellipsis{}, "..."},
		{"integral float", ast.Float(1), "1.0"},
		{"fraction", ast.Float(0.1), "0.1"},
		{"large float", ast.Float(1e16), "1e+16"},
		{"below large threshold", ast.Float(1e15), "1000000000000000.0"},
		{"small float", ast.Float(1e-5), "1e-05"},
		{"small fixed", ast.Float(0.0001), "0.0001"},
		{"negative zero", ast.Float(math.Copysign(0, -1)), "-0.0"},
		{"inf", ast.Float(math.Inf(1)), "1e309"},
		{"nan", ast.Float(math.NaN()), "(1e309-1e309)"},
		{"imaginary", ast.Complex(2i), "2j"},
		{"complex", ast.Complex(1 + 2i), "(1+2j)"},
		{"complex negative imag", ast.Complex(1.5 - 2i), "(1.5-2j)"},
		{"string", ast.Str("abc"), "'abc'"},
		{"lone surrogate", ast.Str("\xed\xa0\x80x"), `'\ud800x'`},
		{"string with single quote", ast.Str("it's"), `"it's"`},
		{"string with both quotes", ast.Str(`it's "x"`), `'it\'s "x"'`},
		{"string escapes", ast.Str("a\nb\t\\"), `'a\nb\t\\'`},
		{"control char", ast.Str("\x00"), `'\x00'`},
		{"unicode kept", ast.Str("héllo"), "'héllo'"},
		{"non printable unicode", ast.Str("\u200b"), `'\u200b'`},
		{"bytes", ast.Bytes("ab\x00\xff"), `b'ab\x00\xff'`},
		{"big int", ast.Int{V: ast.NewInt(1).V.Lsh(ast.NewInt(1).V, 100)}, "1267650600228229401496703205376"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Expr(ast.NewConstant(tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormat_FStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    *ast.JoinedStr
		expected string
	}{
		{
			name:     "conversion",
			input:    &ast.JoinedStr{Values: []ast.Expr{str("a"), &ast.FormattedValue{Value: name("x"), Conversion: 'r'}}},
			expected: "f'a{x!r}'",
		},
		{
			name:     "quote avoids nested string",
			input:    &ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{Value: call("f", str("k"))}}},
			expected: `f"{f('k')}"`,
		},
		{
			name:     "literal braces doubled",
			input:    &ast.JoinedStr{Values: []ast.Expr{str("{"), &ast.FormattedValue{Value: name("x")}, str("}")}},
			expected: "f'{{{x}}}'",
		},
		{
			name: "format spec",
			input: &ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{
				Value:      name("x"),
				FormatSpec: &ast.JoinedStr{Values: []ast.Expr{str(">"), &ast.FormattedValue{Value: name("w")}}},
			}}},
			expected: "f'{x:>{w}}'",
		},
		{
			name:     "dict expression gets a space",
			input:    &ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{Value: &ast.Set{Elts: []ast.Expr{num(1)}}}}},
			expected: "f'{ {1}}'",
		},
		{
			name: "string literal field becomes text",
			input: &ast.JoinedStr{Values: []ast.Expr{
				&ast.FormattedValue{Value: str("a\nb{")},
				&ast.FormattedValue{Value: name("x")},
			}},
			expected: "f'a\\nb{{{x}'",
		},
		{
			name:     "string literal field with conversion stays a field",
			input:    &ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{Value: str("a"), Conversion: 'r'}}},
			expected: `f"{'a'!r}"`,
		},
		{
			name:     "only string literal fields",
			input:    &ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{Value: str("a\nb")}, str("x")}},
			expected: `'a\nbx'`,
		},
		{
			name:     "no fields prints a plain string",
			input:    &ast.JoinedStr{Values: []ast.Expr{str("ab"), str("c")}},
			expected: "'abc'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Expr(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormat_RenderErrors(t *testing.T) {
	tests := []struct {
		name string
		body []ast.Stmt
	}{
		{
			name: "raise cause without exception",
			body: []ast.Stmt{&ast.Raise{Cause: name("e")}},
		},
		{
			name: "empty function body",
			body: []ast.Stmt{&ast.FunctionDef{Name: "f", Args: &ast.Arguments{}}},
		},
		{
			name: "f-string field with backslash",
			body: []ast.Stmt{expr(&ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{Value: call("f", str("\n"))}}})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(&ast.Module{Body: tt.body})
			require.Error(t, err)
			var renderErr *RenderError
			assert.ErrorAs(t, err, &renderErr)
		})
	}
}
