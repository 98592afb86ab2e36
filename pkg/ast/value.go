package ast

import (
	"fmt"
	"math/big"
	"strconv"
)

// Value is a literal value held by a Constant node.
type Value interface {
	isValue()
}

// None is Python's None.
type None struct{}

// Bool is True or False.
type Bool bool

// Int is an integer of unbounded precision. The pointer is never nil.
type Int struct {
	V *big.Int
}

// Float is a floating point number.
type Float float64

// Complex is a complex number.
type Complex complex128

// Str is a text string.
type Str string

// Bytes is a bytes literal.
type Bytes []byte

// Ellipsis is the ... literal.
type Ellipsis struct{}

func (None) isValue()     {}
func (Bool) isValue()     {}
func (Int) isValue()      {}
func (Float) isValue()    {}
func (Complex) isValue()  {}
func (Str) isValue()      {}
func (Bytes) isValue()    {}
func (Ellipsis) isValue() {}

// NewInt returns an Int holding x.
func NewInt(x int64) Int {
	return Int{V: big.NewInt(x)}
}

// NewConstant wraps v in a Constant node.
func NewConstant(v Value) *Constant {
	return &Constant{Value: v}
}

// ValueOf converts a Go value decoded from configuration into a literal.
// Supported: nil, bool, signed and unsigned integers, floats, strings and
// byte slices.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return None{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int8:
		return NewInt(int64(v)), nil
	case int16:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint:
		return Int{V: new(big.Int).SetUint64(uint64(v))}, nil
	case uint8:
		return NewInt(int64(v)), nil
	case uint16:
		return NewInt(int64(v)), nil
	case uint32:
		return NewInt(int64(v)), nil
	case uint64:
		return Int{V: new(big.Int).SetUint64(v)}, nil
	case *big.Int:
		return Int{V: new(big.Int).Set(v)}, nil
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case string:
		return Str(v), nil
	case []byte:
		return Bytes(v), nil
	}
	return nil, fmt.Errorf("unsupported literal type %T", x)
}

// ValuesEqual reports whether two literals are the same value of the same
// kind. It is used for de-duplication, not for Python == semantics.
func ValuesEqual(a, b Value) bool {
	switch x := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case Ellipsis:
		_, ok := b.(Ellipsis)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x.V.Cmp(y.V) == 0
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case Complex:
		y, ok := b.(Complex)
		return ok && x == y
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case Bytes:
		y, ok := b.(Bytes)
		return ok && string(x) == string(y)
	}
	return false
}

// Describe returns a short debugging form of a literal.
func Describe(v Value) string {
	switch x := v.(type) {
	case None:
		return "None"
	case Ellipsis:
		return "..."
	case Bool:
		if x {
			return "True"
		}
		return "False"
	case Int:
		return x.V.String()
	case Float:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case Complex:
		return fmt.Sprint(complex128(x))
	case Str:
		return strconv.Quote(string(x))
	case Bytes:
		return "b" + strconv.Quote(string(x))
	}
	return fmt.Sprintf("%T", v)
}
