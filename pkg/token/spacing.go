package token

// The printer emits tokens with conventional padding (" = ", ", ") and then
// shrinks them through these tables.

// paddedTokens maps a padded operator or separator to its bare spelling.
var paddedTokens = map[string]string{
	", ":   ",",
	": ":   ":",
	" = ":  "=",
	" := ": ":=",
	" -> ": "->",
	" | ":  "|",

	" += ":  "+=",
	" -= ":  "-=",
	" *= ":  "*=",
	" @= ":  "@=",
	" /= ":  "/=",
	" //= ": "//=",
	" %= ":  "%=",
	" **= ": "**=",
	" <<= ": "<<=",
	" >>= ": ">>=",
	" &= ":  "&=",
	" ^= ":  "^=",
	" |= ":  "|=",

	" == ": "==",
	" != ": "!=",
	" < ":  "<",
	" <= ": "<=",
	" > ":  ">",
	" >= ": ">=",

	" + ":  "+",
	" - ":  "-",
	" * ":  "*",
	" @ ":  "@",
	" / ":  "/",
	" // ": "//",
	" % ":  "%",
	" ** ": "**",
	" << ": "<<",
	" >> ": ">>",
	" & ":  "&",
	" ^ ":  "^",
}

// connectives are keyword tokens written with surrounding spaces whose
// leading space can go when the previous character already separates them.
var connectives = map[string]struct{}{
	" if ":        {},
	" else ":      {},
	" and ":       {},
	" or ":        {},
	" is ":        {},
	" is not ":    {},
	" in ":        {},
	" not in ":    {},
	" for ":       {},
	" async for ": {},
	" from ":      {},
	" as ":        {},
}

// Unpad returns the bare spelling of a padded operator token.
func Unpad(tok string) (string, bool) {
	bare, ok := paddedTokens[tok]
	return bare, ok
}

// IsConnective reports whether tok is a space-delimited keyword connective.
func IsConnective(tok string) bool {
	_, ok := connectives[tok]
	return ok
}

// SelfDelimiting reports whether c already separates it from a neighbouring
// keyword, so no space is needed between them.
func SelfDelimiting(c byte) bool {
	switch c {
	case '\'', '"', '(', ')', '[', ']', '{', '}', '*':
		return true
	}
	return false
}
