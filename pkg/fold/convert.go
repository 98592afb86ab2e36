package fold

import (
	"fmt"
	"math/big"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/pyshrink/pkg/ast"
)

// toStarlark converts a literal to a Starlark value. Bools become ints
// because Starlark does not do arithmetic on them.
func toStarlark(v ast.Value) (starlark.Value, error) {
	switch val := v.(type) {
	case ast.None:
		return starlark.None, nil
	case ast.Bool:
		if val {
			return starlark.MakeInt(1), nil
		}
		return starlark.MakeInt(0), nil
	case ast.Int:
		return starlark.MakeBigInt(val.V), nil
	case ast.Float:
		return starlark.Float(val), nil
	case ast.Str:
		return starlark.String(val), nil
	case ast.Bytes:
		return starlark.Bytes(val), nil
	default:
		return nil, fmt.Errorf("%w: no starlark form for %T", ErrNotFoldable, v)
	}
}

// fromStarlark converts a Starlark result back to a literal.
func fromStarlark(v starlark.Value) (ast.Value, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return ast.None{}, nil
	case starlark.Bool:
		return ast.Bool(val), nil
	case starlark.Int:
		return ast.Int{V: val.BigInt()}, nil
	case starlark.Float:
		return ast.Float(val), nil
	case starlark.String:
		return ast.Str(val), nil
	case starlark.Bytes:
		return ast.Bytes(val), nil
	default:
		return nil, fmt.Errorf("%w: unexpected result type %s", ErrNotFoldable, v.Type())
	}
}

// asInt returns the integer value of an int or bool literal.
func asInt(v ast.Value) (*big.Int, bool) {
	switch val := v.(type) {
	case ast.Int:
		return val.V, true
	case ast.Bool:
		if val {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	}
	return nil, false
}

// asFloat widens an int, bool or float literal to float64, failing like
// Python does when an int is too large.
func asFloat(v ast.Value) (float64, bool) {
	if f, ok := v.(ast.Float); ok {
		return float64(f), true
	}
	i, ok := asInt(v)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	if isInf(f) {
		return 0, false
	}
	return f, true
}

// asComplex widens any numeric literal to complex128.
func asComplex(v ast.Value) (complex128, bool) {
	if c, ok := v.(ast.Complex); ok {
		return complex128(c), true
	}
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return complex(f, 0), true
}

func isNumber(v ast.Value) bool {
	switch v.(type) {
	case ast.Bool, ast.Int, ast.Float, ast.Complex:
		return true
	}
	return false
}
