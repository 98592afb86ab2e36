package pysrc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/format"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

func roundTrip(t *testing.T, src string) string {
	t.Helper()
	mod, err := ParseString(src)
	require.NoError(t, err)
	out, err := format.Format(mod)
	require.NoError(t, err)
	return out
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"assignment", "a = 1\n", "a=1"},
		{"chained assignment", "a = b = c\n", "a=b=c"},
		{"tuple target", "a, b = b, a\n", "a,b=(b,a)"},
		{"augmented", "x += 2\n", "x+=2"},
		{"annotated", "x: int = 3\n", "x:int=3"},
		{"comments dropped", "# header\na = 1  # trailing\n", "a=1"},
		{"if elif else", "if a:\n    b()\nelif c:\n    d()\nelse:\n    e()\n", "if a:b()\nelif c:d()\nelse:e()"},
		{"function", "def f(a, b=2, *args, c, **kw) -> int:\n    return a\n", "def f(a,b=2,*args,c,**kw)->int:return a"},
		{"positional only", "def f(a, /, b):\n    pass\n", "def f(a,/,b):pass"},
		{"async function", "async def f():\n    await g()\n", "async def f():await g()"},
		{"decorated class", "@dec\nclass A(B, metaclass=M):\n    x = 1\n", "@dec\nclass A(B,metaclass=M):x=1"},
		{"import", "import os.path as p, sys\n", "import os.path as p,sys"},
		{"relative import", "from ..pkg import a as b, c\n", "from ..pkg import a as b,c"},
		{"star import", "from os import *\n", "from os import*"},
		{"future import", "from __future__ import annotations\n", "from __future__ import annotations"},
		{"try", "try:\n    a()\nexcept (E, F) as e:\n    raise G from e\nfinally:\n    b()\n", "try:a()\nexcept(E,F)as e:raise G from e\nfinally:b()"},
		{"with", "with open(f) as fh, lock:\n    pass\n", "with open(f)as fh,lock:pass"},
		{"parenthesized with", "with (nullcontext(3) as c):\n    pass\n", "with nullcontext(3)as c:pass"},
		{"parenthesized with items", "with (open(a) as f, open(b) as g):\n    pass\n", "with open(a)as f,open(b)as g:pass"},
		{"for else", "for i in range(3):\n    continue\nelse:\n    pass\n", "for i in range(3):continue\nelse:pass"},
		{"while", "while not done:\n    break\n", "while not done:break"},
		{"global", "def f():\n    global a, b\n", "def f():global a,b"},
		{"delete", "del a[0], b.c\n", "del a[0],b.c"},
		{"assert", "assert x, 'msg'\n", "assert x,'msg'"},
		{"bool chain", "a or b or c\n", "a or b or c"},
		{"comparison chain", "a < b <= c\n", "a<b<=c"},
		{"not in", "a not in b\n", "a not in b"},
		{"is not", "a is not None\n", "a is not None"},
		{"parentheses kept where needed", "(a + b) * c\n", "(a+b)*c"},
		{"parentheses dropped", "a + (b * c)\n", "a+b*c"},
		{"power right assoc", "(a ** b) ** c\n", "(a**b)**c"},
		{"unary", "-x + ~y\n", "-x+~y"},
		{"lambda", "f = lambda x, *, y=1: x + y\n", "f=lambda x,*,y=1:x+y"},
		{"conditional", "a if b else c\n", "a if b else c"},
		{"walrus", "if (n := len(a)) > 10:\n    pass\n", "if(n:=len(a))>10:pass"},
		{"subscript slice", "a[1:2, ::3]\n", "a[1:2,::3]"},
		{"subscript tuple", "a[b, c]\n", "a[b,c]"},
		{"call args", "f(a, *b, c=1, **d)\n", "f(a,*b,c=1,**d)"},
		{"generator arg", "sum(x for x in y if x)\n", "sum(x for x in y if x)"},
		{"comprehensions", "[x for x in y]\n{k: v for k, v in z}\n", "[x for x in y]\n{k:v for k,v in z}"},
		{"dict and set", "d = {'a': 1, **e}\ns = {1, 2}\n", "d={'a':1,**e}\ns={1,2}"},
		{"yield", "def g():\n    yield 1\n    yield from h()\n", "def g():yield 1;yield from h()"},
		{"starred assignment", "a, *b = c\n", "a,*b=c"},
		{"ellipsis and none", "x = ...\ny = None\n", "x=...\ny=None"},
		{"match", "match p:\n    case [1, *rest]:\n        pass\n    case {'k': v, **kw}:\n        pass\n    case Point(x=0) | None:\n        pass\n    case _:\n        pass\n",
			"match p:\n\tcase [1,*rest]:pass\n\tcase {'k':v,**kw}:pass\n\tcase Point(x=0)|None:pass\n\tcase _:pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundTrip(t, tt.src))
		})
	}
}

func TestParse_Strings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.Value
	}{
		{"single quotes", `'abc'`, ast.Str("abc")},
		{"escapes", `"a\tb\n\x41\101\u00e9"`, ast.Str("a\tb\nAAé")},
		{"raw", `r'\d+'`, ast.Str(`\d+`)},
		{"unknown escape kept", `'\d'`, ast.Str(`\d`)},
		{"concatenation", `'a' "b"`, ast.Str("ab")},
		{"triple quoted", "'''x\ny'''", ast.Str("x\ny")},
		{"line continuation", "'a\\\nb'", ast.Str("ab")},
		{"bytes", `b'\x00\xff'`, ast.Bytes{0x00, 0xff}},
		{"bytes keep unicode escape", `b'\u1234'`, ast.Bytes(`\u1234`)},
		{"unicode prefix", `u'x'`, ast.Str("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := ParseString(tt.src + "\n")
			require.NoError(t, err)
			require.Len(t, mod.Body, 1)
			stmt := mod.Body[0].(*ast.ExprStmt)
			c, ok := stmt.Value.(*ast.Constant)
			require.True(t, ok, "got %T", stmt.Value)
			assert.True(t, ast.ValuesEqual(tt.want, c.Value), "got %s", ast.Describe(c.Value))
		})
	}
}

func TestParse_FString(t *testing.T) {
	mod, err := ParseString("f'a{b!r:>{w}}c{{d}}'\n")
	require.NoError(t, err)
	js, ok := mod.Body[0].(*ast.ExprStmt).Value.(*ast.JoinedStr)
	require.True(t, ok)
	require.Len(t, js.Values, 3)

	assert.Equal(t, ast.Str("a"), js.Values[0].(*ast.Constant).Value)
	field := js.Values[1].(*ast.FormattedValue)
	assert.Equal(t, 'r', field.Conversion)
	assert.Equal(t, "b", field.Value.(*ast.Name).ID)
	require.NotNil(t, field.FormatSpec)
	require.Len(t, field.FormatSpec.Values, 2)
	assert.Equal(t, ast.Str(">"), field.FormatSpec.Values[0].(*ast.Constant).Value)
	assert.Equal(t, ast.Str("c{d}"), js.Values[2].(*ast.Constant).Value)
}

func TestParse_FStringDebug(t *testing.T) {
	mod, err := ParseString("f'{x=}'\n")
	require.NoError(t, err)
	js := mod.Body[0].(*ast.ExprStmt).Value.(*ast.JoinedStr)
	require.Len(t, js.Values, 2)
	assert.Equal(t, ast.Str("x="), js.Values[0].(*ast.Constant).Value)
	assert.Equal(t, 'r', js.Values[1].(*ast.FormattedValue).Conversion)
}

func TestParse_Numbers(t *testing.T) {
	tests := []struct {
		text string
		want ast.Value
	}{
		{"0", ast.NewInt(0)},
		{"1_000", ast.NewInt(1000)},
		{"0x_ff", ast.NewInt(255)},
		{"0o17", ast.NewInt(15)},
		{"0B101", ast.NewInt(5)},
		{"007", ast.NewInt(7)},
		{"1.5", ast.Float(1.5)},
		{"1e3", ast.Float(1000)},
		{".5", ast.Float(0.5)},
		{"2j", ast.Complex(complex(0, 2))},
		{"1.5J", ast.Complex(complex(0, 1.5))},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parseNumber(tt.text)
			require.NoError(t, err)
			assert.True(t, ast.ValuesEqual(tt.want, got), "got %s", ast.Describe(got))
		})
	}

	inf, err := parseNumber("1e999")
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(inf.(ast.Float)), 1))
}

func TestParse_Tree(t *testing.T) {
	mod, err := ParseString("x = not a and b\n")
	require.NoError(t, err)
	assign := mod.Body[0].(*ast.Assign)
	op := assign.Value.(*ast.BoolOp)
	assert.Equal(t, token.And, op.Op)
	require.Len(t, op.Values, 2)
	not := op.Values[0].(*ast.UnaryOp)
	assert.Equal(t, token.Not, not.Op)

	mod, err = ParseString("def f(a, /, b, *, c, d=1):\n    pass\n")
	require.NoError(t, err)
	args := mod.Body[0].(*ast.FunctionDef).Args
	assert.Len(t, args.PosOnly, 1)
	assert.Len(t, args.Args, 1)
	assert.Nil(t, args.Vararg)
	require.Len(t, args.KwOnly, 2)
	assert.Nil(t, args.KwDefaults[0])
	assert.NotNil(t, args.KwDefaults[1])
}

func TestParse_SyntaxError(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unbalanced paren", "f(a\n"},
		{"bad parameter list", "def f(:\n  pass\n"},
		{"mixed bytes", "x = b'a' 'b'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.True(t, syntaxErr.Pos.IsValid())
		})
	}
}

func TestUnescape(t *testing.T) {
	got, err := unescape(`\N{BULLET}`, false)
	assert.Error(t, err)
	assert.Empty(t, got)

	got, err = unescape(`\U0001F600`, false)
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600", got)

	got, err = unescape(`\ud800x\uDFFF`, false)
	require.NoError(t, err)
	assert.Equal(t, "\xed\xa0\x80x\xed\xbf\xbf", got)

	_, err = unescape(`\x4`, false)
	assert.Error(t, err)
}
