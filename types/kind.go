package types

type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindAny
	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindArray
	KindMap
	KindFunc
	KindStruct
	KindInterface
	KindEnum
	KindByRef
	KindTypeParam
	KindTypeValue
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindVoid:      "void",
	KindAny:       "any",
	KindBool:      "bool",
	KindInt:       "int",
	KindInt8:      "int8",
	KindInt16:     "int16",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindUint:      "uint",
	KindUint8:     "uint8",
	KindUint16:    "uint16",
	KindUint32:    "uint32",
	KindUint64:    "uint64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindString:    "string",
	KindArray:     "array",
	KindMap:       "map",
	KindFunc:      "func",
	KindStruct:    "struct",
	KindInterface: "interface",
	KindEnum:      "enum",
	KindByRef:     "ref",
	KindTypeParam: "typeparam",
	KindTypeValue: "type",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

func (k Kind) IsInteger() bool {
	return k >= KindInt && k <= KindUint64
}

func (k Kind) IsNumeric() bool {
	return k >= KindInt && k <= KindFloat64
}

func (k Kind) IsPrimitive() bool {
	return k >= KindBool && k <= KindString
}
