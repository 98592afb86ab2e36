// Package fold evaluates Python operators over literal values.
//
// Arithmetic follows Python's numeric tower: ints are unbounded, bools take
// part as ints, true division always yields a float. Operations Python would
// reject at runtime return ErrNotFoldable so callers leave the expression in
// place. Results larger than the limits CPython's own constant folder uses
// are refused the same way.
package fold

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
	"github.com/leapstack-labs/pyshrink/pkg/token"
)

var (
	// ErrUnsupportedOperator is returned for operators with no folding rule.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrNotFoldable is returned when evaluation would raise at runtime or
	// the result is too large to inline.
	ErrNotFoldable = errors.New("expression not foldable")
)

// Size limits for folded results.
const (
	MaxIntBits = 128
	MaxSeqLen  = 4096
)

var binaryTokens = map[token.BinaryOp]syntax.Token{
	token.Add:      syntax.PLUS,
	token.Sub:      syntax.MINUS,
	token.Mult:     syntax.STAR,
	token.Div:      syntax.SLASH,
	token.FloorDiv: syntax.SLASHSLASH,
	token.Mod:      syntax.PERCENT,
	token.LShift:   syntax.LTLT,
	token.RShift:   syntax.GTGT,
	token.BitOr:    syntax.PIPE,
	token.BitXor:   syntax.CIRCUMFLEX,
	token.BitAnd:   syntax.AMP,
}

var compareTokens = map[token.CmpOp]syntax.Token{
	token.Eq:    syntax.EQL,
	token.NotEq: syntax.NEQ,
	token.Lt:    syntax.LT,
	token.LtE:   syntax.LE,
	token.Gt:    syntax.GT,
	token.GtE:   syntax.GE,
}

// Supports reports whether Binary has a rule for op.
func Supports(op token.BinaryOp) bool {
	_, ok := binaryTokens[op]
	return ok || op == token.Pow
}

// SupportsCompare reports whether Compare has a rule for op.
func SupportsCompare(op token.CmpOp) bool {
	_, ok := compareTokens[op]
	return ok
}

// Binary evaluates x op y.
func Binary(op token.BinaryOp, x, y ast.Value) (ast.Value, error) {
	if !Supports(op) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
	}

	var (
		r   ast.Value
		err error
	)
	switch {
	case op == token.Pow:
		r, err = power(x, y)
	case op == token.Div:
		r, err = trueDiv(x, y)
	case isSequence(x) || isSequence(y):
		r, err = sequence(op, x, y)
	case isComplex(x) || isComplex(y):
		r, err = complexArith(op, x, y)
	default:
		if b, ok := boolBitwise(op, x, y); ok {
			return b, nil
		}
		r, err = starlarkBinary(op, x, y)
	}
	if err != nil {
		return nil, err
	}
	return checkSize(r)
}

// Compare evaluates x op y for the ordering and equality operators.
func Compare(op token.CmpOp, x, y ast.Value) (ast.Value, error) {
	tok, ok := compareTokens[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
	}

	_, xe := x.(ast.Ellipsis)
	_, ye := y.(ast.Ellipsis)
	if xe || ye {
		return equality(op, xe && ye)
	}

	if isNumber(x) && isNumber(y) {
		if isComplex(x) || isComplex(y) {
			cx, okx := asComplex(x)
			cy, oky := asComplex(y)
			if !okx || !oky {
				return nil, ErrNotFoldable
			}
			return equality(op, cx == cy)
		}
		if isNaN(x) || isNaN(y) {
			return ast.Bool(op == token.NotEq), nil
		}
	}

	sx, err := toStarlark(x)
	if err != nil {
		return nil, err
	}
	sy, err := toStarlark(y)
	if err != nil {
		return nil, err
	}
	res, err := starlark.Compare(tok, sx, sy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFoldable, err)
	}
	return ast.Bool(res), nil
}

// Unary evaluates op x.
func Unary(op token.UnaryOp, x ast.Value) (ast.Value, error) {
	var tok syntax.Token
	switch op {
	case token.Not:
		return ast.Bool(!Truthy(x)), nil
	case token.Invert:
		if _, ok := asInt(x); !ok {
			return nil, ErrNotFoldable
		}
		tok = syntax.TILDE
	case token.UAdd:
		tok = syntax.PLUS
	case token.USub:
		tok = syntax.MINUS
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
	}

	if c, ok := x.(ast.Complex); ok {
		if op == token.USub {
			return -c, nil
		}
		return c, nil
	}
	if !isNumber(x) {
		return nil, ErrNotFoldable
	}

	sx, err := toStarlark(x)
	if err != nil {
		return nil, err
	}
	res, err := starlark.Unary(tok, sx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFoldable, err)
	}
	v, err := fromStarlark(res)
	if err != nil {
		return nil, err
	}
	return checkSize(v)
}

// Truthy reports the truth value Python assigns to a literal.
func Truthy(v ast.Value) bool {
	switch val := v.(type) {
	case ast.None:
		return false
	case ast.Bool:
		return bool(val)
	case ast.Int:
		return val.V.Sign() != 0
	case ast.Float:
		return val != 0
	case ast.Complex:
		return val != 0
	case ast.Str:
		return val != ""
	case ast.Bytes:
		return len(val) != 0
	case ast.Ellipsis:
		return true
	}
	return true
}

func starlarkBinary(op token.BinaryOp, x, y ast.Value) (ast.Value, error) {
	sx, err := toStarlark(x)
	if err != nil {
		return nil, err
	}
	sy, err := toStarlark(y)
	if err != nil {
		return nil, err
	}
	res, err := starlark.Binary(binaryTokens[op], sx, sy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFoldable, err)
	}
	return fromStarlark(res)
}

// boolBitwise handles &, | and ^ between two bools, which stay bools.
func boolBitwise(op token.BinaryOp, x, y ast.Value) (ast.Value, bool) {
	bx, okx := x.(ast.Bool)
	by, oky := y.(ast.Bool)
	if !okx || !oky {
		return nil, false
	}
	switch op {
	case token.BitAnd:
		return bx && by, true
	case token.BitOr:
		return bx || by, true
	case token.BitXor:
		return ast.Bool(bx != by), true
	}
	return nil, false
}

func trueDiv(x, y ast.Value) (ast.Value, error) {
	if isComplex(x) || isComplex(y) {
		return nil, ErrNotFoldable
	}
	ix, okx := asInt(x)
	iy, oky := asInt(y)
	if okx && oky {
		if iy.Sign() == 0 {
			return nil, fmt.Errorf("%w: division by zero", ErrNotFoldable)
		}
		f, _ := new(big.Rat).SetFrac(ix, iy).Float64()
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: integer division result too large", ErrNotFoldable)
		}
		return ast.Float(f), nil
	}
	fx, okx := asFloat(x)
	fy, oky := asFloat(y)
	if !okx || !oky {
		return nil, ErrNotFoldable
	}
	if fy == 0 {
		return nil, fmt.Errorf("%w: division by zero", ErrNotFoldable)
	}
	return ast.Float(fx / fy), nil
}

func power(x, y ast.Value) (ast.Value, error) {
	if isComplex(x) || isComplex(y) {
		return nil, ErrNotFoldable
	}
	ix, okx := asInt(x)
	iy, oky := asInt(y)
	if okx && oky {
		if iy.Sign() >= 0 {
			if ix.CmpAbs(big.NewInt(1)) > 0 && (!iy.IsInt64() || iy.Int64() > MaxIntBits) {
				return nil, fmt.Errorf("%w: power result too large", ErrNotFoldable)
			}
			return checkSize(ast.Int{V: new(big.Int).Exp(ix, iy, nil)})
		}
		if ix.Sign() == 0 {
			return nil, fmt.Errorf("%w: zero to a negative power", ErrNotFoldable)
		}
	}

	fx, okx := asFloat(x)
	fy, oky := asFloat(y)
	if !okx || !oky {
		return nil, ErrNotFoldable
	}
	if fx == 0 && fy < 0 {
		return nil, fmt.Errorf("%w: zero to a negative power", ErrNotFoldable)
	}
	if fx < 0 && fy != math.Trunc(fy) && !math.IsInf(fy, 0) {
		return nil, fmt.Errorf("%w: complex result", ErrNotFoldable)
	}
	r := math.Pow(fx, fy)
	if math.IsInf(r, 0) && !math.IsInf(fx, 0) && !math.IsInf(fy, 0) {
		return nil, fmt.Errorf("%w: float overflow", ErrNotFoldable)
	}
	return ast.Float(r), nil
}

func complexArith(op token.BinaryOp, x, y ast.Value) (ast.Value, error) {
	cx, okx := asComplex(x)
	cy, oky := asComplex(y)
	if !okx || !oky {
		return nil, ErrNotFoldable
	}
	switch op {
	case token.Add:
		return ast.Complex(cx + cy), nil
	case token.Sub:
		return ast.Complex(cx - cy), nil
	case token.Mult:
		return ast.Complex(cx * cy), nil
	}
	return nil, ErrNotFoldable
}

// sequence handles concatenation and repetition of str and bytes.
func sequence(op token.BinaryOp, x, y ast.Value) (ast.Value, error) {
	switch op {
	case token.Add:
		switch sx := x.(type) {
		case ast.Str:
			if sy, ok := y.(ast.Str); ok {
				if len(sx)+len(sy) > MaxSeqLen {
					return nil, ErrNotFoldable
				}
				return sx + sy, nil
			}
		case ast.Bytes:
			if sy, ok := y.(ast.Bytes); ok {
				if len(sx)+len(sy) > MaxSeqLen {
					return nil, ErrNotFoldable
				}
				out := make(ast.Bytes, 0, len(sx)+len(sy))
				return append(append(out, sx...), sy...), nil
			}
		}
	case token.Mult:
		seq, n := x, y
		if !isSequence(seq) {
			seq, n = y, x
		}
		count, ok := asInt(n)
		if !ok || isSequence(n) {
			return nil, ErrNotFoldable
		}
		var unit string
		switch s := seq.(type) {
		case ast.Str:
			unit = string(s)
		case ast.Bytes:
			unit = string(s)
		}
		if count.Sign() <= 0 || unit == "" {
			return emptyLike(seq), nil
		}
		if !count.IsInt64() || int64(len(unit))*count.Int64() > MaxSeqLen {
			return nil, ErrNotFoldable
		}
		out := repeat(unit, int(count.Int64()))
		if _, isBytes := seq.(ast.Bytes); isBytes {
			return ast.Bytes(out), nil
		}
		return ast.Str(out), nil
	}
	return nil, ErrNotFoldable
}

func repeat(s string, n int) string {
	buf := make([]byte, 0, len(s)*n)
	for range n {
		buf = append(buf, s...)
	}
	return string(buf)
}

func emptyLike(seq ast.Value) ast.Value {
	if _, ok := seq.(ast.Bytes); ok {
		return ast.Bytes{}
	}
	return ast.Str("")
}

func equality(op token.CmpOp, equal bool) (ast.Value, error) {
	switch op {
	case token.Eq:
		return ast.Bool(equal), nil
	case token.NotEq:
		return ast.Bool(!equal), nil
	}
	return nil, fmt.Errorf("%w: unorderable operands", ErrNotFoldable)
}

func checkSize(v ast.Value) (ast.Value, error) {
	switch val := v.(type) {
	case ast.Int:
		if val.V.BitLen() > MaxIntBits {
			return nil, fmt.Errorf("%w: integer result exceeds %d bits", ErrNotFoldable, MaxIntBits)
		}
	case ast.Str:
		if len(val) > MaxSeqLen {
			return nil, fmt.Errorf("%w: string result too long", ErrNotFoldable)
		}
	case ast.Bytes:
		if len(val) > MaxSeqLen {
			return nil, fmt.Errorf("%w: bytes result too long", ErrNotFoldable)
		}
	}
	return v, nil
}

func isSequence(v ast.Value) bool {
	switch v.(type) {
	case ast.Str, ast.Bytes:
		return true
	}
	return false
}

func isComplex(v ast.Value) bool {
	_, ok := v.(ast.Complex)
	return ok
}

func isNaN(v ast.Value) bool {
	f, ok := v.(ast.Float)
	return ok && math.IsNaN(float64(f))
}

func isInf(f float64) bool {
	return math.IsInf(f, 0)
}
