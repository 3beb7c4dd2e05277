package asts

// BinaryOp is a binary operator token. Operators with an I or C prefix are the
// case-insensitive and case-sensitive variants of the same comparison.
type BinaryOp uint8

const (
	OpInvalid BinaryOp = iota

	OpPlus
	OpMinus
	OpMultiply
	OpDivide
	OpRem

	OpAnd
	OpOr
	OpXor
	OpBand
	OpBor
	OpBxor

	OpIEq
	OpCEq
	OpINe
	OpCNe
	OpIGt
	OpCGt
	OpIGe
	OpCGe
	OpILt
	OpCLt
	OpILe
	OpCLe

	OpILike
	OpCLike
	OpINotLike
	OpCNotLike
	OpIMatch
	OpCMatch
	OpINotMatch
	OpCNotMatch
	OpIReplace
	OpCReplace
	OpISplit
	OpCSplit

	OpIIn
	OpCIn
	OpINotIn
	OpCNotIn
	OpIContains
	OpCContains
	OpINotContains
	OpCNotContains

	OpJoin
	OpFormat
	OpDotDot

	OpIs
	OpIsNot
	OpAs

	OpShl
	OpShr
)

var binaryOpNames = [...]string{
	OpInvalid:      "invalid",
	OpPlus:         "+",
	OpMinus:        "-",
	OpMultiply:     "*",
	OpDivide:       "/",
	OpRem:          "%",
	OpAnd:          "-and",
	OpOr:           "-or",
	OpXor:          "-xor",
	OpBand:         "-band",
	OpBor:          "-bor",
	OpBxor:         "-bxor",
	OpIEq:          "-eq",
	OpCEq:          "-ceq",
	OpINe:          "-ne",
	OpCNe:          "-cne",
	OpIGt:          "-gt",
	OpCGt:          "-cgt",
	OpIGe:          "-ge",
	OpCGe:          "-cge",
	OpILt:          "-lt",
	OpCLt:          "-clt",
	OpILe:          "-le",
	OpCLe:          "-cle",
	OpILike:        "-like",
	OpCLike:        "-clike",
	OpINotLike:     "-notlike",
	OpCNotLike:     "-cnotlike",
	OpIMatch:       "-match",
	OpCMatch:       "-cmatch",
	OpINotMatch:    "-notmatch",
	OpCNotMatch:    "-cnotmatch",
	OpIReplace:     "-replace",
	OpCReplace:     "-creplace",
	OpISplit:       "-split",
	OpCSplit:       "-csplit",
	OpIIn:          "-in",
	OpCIn:          "-cin",
	OpINotIn:       "-notin",
	OpCNotIn:       "-cnotin",
	OpIContains:    "-contains",
	OpCContains:    "-ccontains",
	OpINotContains: "-notcontains",
	OpCNotContains: "-cnotcontains",
	OpJoin:         "-join",
	OpFormat:       "-f",
	OpDotDot:       "..",
	OpIs:           "-is",
	OpIsNot:        "-isnot",
	OpAs:           "-as",
	OpShl:          "-shl",
	OpShr:          "-shr",
}

func (o BinaryOp) String() string {
	if int(o) < len(binaryOpNames) && binaryOpNames[o] != "" {
		return binaryOpNames[o]
	}
	return "invalid"
}

type AssignOp uint8

const (
	AssignEquals AssignOp = iota
	AssignPlus
	AssignMinus
	AssignMultiply
	AssignDivide
	AssignRem
)

func (o AssignOp) String() string {
	switch o {
	case AssignEquals:
		return "="
	case AssignPlus:
		return "+="
	case AssignMinus:
		return "-="
	case AssignMultiply:
		return "*="
	case AssignDivide:
		return "/="
	case AssignRem:
		return "%="
	}
	return "invalid"
}

type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
	UnaryNegate
	UnaryBnot
	UnaryPostfixIncrement
	UnaryPostfixDecrement
	UnaryPrefixIncrement
	UnaryPrefixDecrement
	UnaryComma
)

func (o UnaryOp) String() string {
	switch o {
	case UnaryNot:
		return "-not"
	case UnaryNegate:
		return "-"
	case UnaryBnot:
		return "-bnot"
	case UnaryPostfixIncrement:
		return "++(postfix)"
	case UnaryPostfixDecrement:
		return "--(postfix)"
	case UnaryPrefixIncrement:
		return "++"
	case UnaryPrefixDecrement:
		return "--"
	case UnaryComma:
		return ","
	}
	return "invalid"
}
