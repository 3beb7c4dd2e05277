package exprs

type BinaryOp uint8

const (
	Add BinaryOp = iota + 1
	Subtract
	Multiply
	Divide
	Modulo
	And
	Or
	ExclusiveOr
	LeftShift
	RightShift
	Equal
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	AndAlso
	OrElse
)

var binaryOpNames = map[BinaryOp]string{
	Add:                "+",
	Subtract:           "-",
	Multiply:           "*",
	Divide:             "/",
	Modulo:             "%",
	And:                "&",
	Or:                 "|",
	ExclusiveOr:        "^",
	LeftShift:          "<<",
	RightShift:         ">>",
	Equal:              "==",
	NotEqual:           "!=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	AndAlso:            "&&",
	OrElse:             "||",
}

func (o BinaryOp) String() string {
	if s, ok := binaryOpNames[o]; ok {
		return s
	}
	return "?"
}

func (o BinaryOp) IsArithmetic() bool {
	return o >= Add && o <= Modulo
}

func (o BinaryOp) IsBitwise() bool {
	return o >= And && o <= RightShift
}

func (o BinaryOp) IsComparison() bool {
	return o >= Equal && o <= GreaterThanOrEqual
}

type UnaryOp uint8

const (
	Not UnaryOp = iota + 1
	Negate
	OnesComplement
	PreIncrementAssign
	PreDecrementAssign
	PostIncrementAssign
	PostDecrementAssign
)

var unaryOpNames = map[UnaryOp]string{
	Not:                 "!",
	Negate:              "-",
	OnesComplement:      "^",
	PreIncrementAssign:  "++pre",
	PreDecrementAssign:  "--pre",
	PostIncrementAssign: "post++",
	PostDecrementAssign: "post--",
}

func (o UnaryOp) String() string {
	if s, ok := unaryOpNames[o]; ok {
		return s
	}
	return "?"
}

func (o UnaryOp) Assigns() bool {
	return o >= PreIncrementAssign
}
