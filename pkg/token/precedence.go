package token

// Precedence orders expression kinds from loosest to tightest binding.
// An expression printed in a context of higher precedence than its own
// needs parentheses.
type Precedence int

// Precedence levels, loosest first.
const (
	PrecNamedExpr Precedence = iota // target := value
	PrecTuple                       // a, b
	PrecYield                       // yield, yield from
	PrecTest                        // if-else, lambda
	PrecOr
	PrecAnd
	PrecNot
	PrecCmp // comparisons, in, is
	PrecExpr
	PrecBXor
	PrecBAnd
	PrecShift
	PrecArith  // + -
	PrecTerm   // * @ / % //
	PrecFactor // unary + - ~
	PrecPower
	PrecAwait
	PrecAtom
)

// PrecBOr shares a level with PrecExpr.
const PrecBOr = PrecExpr

// Next returns the next tighter level.
func (p Precedence) Next() Precedence {
	if p >= PrecAtom {
		return PrecAtom
	}
	return p + 1
}
