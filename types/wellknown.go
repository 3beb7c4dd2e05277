package types

var (
	Void      = primitive(KindVoid, "void")
	Any       = primitive(KindAny, "any")
	Bool      = primitive(KindBool, "bool")
	Int       = primitive(KindInt, "int")
	Int8      = primitive(KindInt8, "int8")
	Int16     = primitive(KindInt16, "int16")
	Int32     = primitive(KindInt32, "int32")
	Int64     = primitive(KindInt64, "int64")
	Uint      = primitive(KindUint, "uint")
	Uint8     = primitive(KindUint8, "uint8")
	Uint16    = primitive(KindUint16, "uint16")
	Uint32    = primitive(KindUint32, "uint32")
	Uint64    = primitive(KindUint64, "uint64")
	Float32   = primitive(KindFloat32, "float32")
	Float64   = primitive(KindFloat64, "float64")
	String    = primitive(KindString, "string")
	TypeValue = primitive(KindTypeValue, "type")
)

// Capabilities and runtime types.
// Built in init to keep package initialization free of reference cycles.
var (
	// Error is the root of every throwable type.
	Error *Type
	// ExitError is thrown by the exit statement.
	ExitError *Type

	Disposable *Type
	// Seq[T] is a typed sequence; Begin returns a Cursor[T].
	Seq    *Type
	Cursor *Type
	// List[T] is an integer-indexed Seq[T].
	List *Type
	// Map[K,V] is a keyed collection.
	Map         *Type
	UntypedList *Type
	UntypedMap  *Type
	// Hashtable is the type of hashtable literals.
	Hashtable *Type

	// Func and Action are the generic families of function types.
	Func   *Type
	Action *Type

	// Sequences holds the generic sequence helpers, registered as extensions
	// in the "seq" namespace.
	Sequences *Type
)

// SequencesNamespace is the extension namespace of Sequences members.
const SequencesNamespace = "seq"

func param(name string, t *Type) Param {
	return Param{
		Name: name,
		Type: t,
	}
}

func init() {
	Error = NewStruct("", "Error")
	Error.AddMembers(
		&Member{Kind: MemberConstructor, Name: "new", Static: true, Params: []Param{param("message", String)}},
		&Member{Kind: MemberProperty, Name: "Message", Type: String},
	)

	ExitError = NewStruct("", "Exit").Extend(Error)
	ExitError.AddMembers(
		&Member{Kind: MemberConstructor, Name: "new", Static: true, Params: []Param{param("value", Any)}},
		&Member{Kind: MemberProperty, Name: "Value", Type: Any},
	)

	Disposable = NewInterface("", "Disposable")
	Disposable.AddMembers(
		&Member{Kind: MemberMethod, Name: "Dispose", Type: Void},
	)

	Cursor = NewGeneric(KindInterface, "", "Cursor", "T")
	Cursor.Implement(Disposable)
	Cursor.AddMembers(
		&Member{Kind: MemberMethod, Name: "Advance", Type: Bool},
		&Member{Kind: MemberProperty, Name: "Current", Type: Cursor.typeParams[0]},
	)

	Seq = NewGeneric(KindInterface, "", "Seq", "T")
	Seq.AddMembers(
		&Member{Kind: MemberMethod, Name: "Begin", Type: instantiate(Cursor, Seq.typeParams)},
	)

	List = NewGeneric(KindInterface, "", "List", "T")
	listT := List.typeParams[0]
	List.Implement(instantiate(Seq, []*Type{listT}))
	List.AddMembers(
		&Member{Kind: MemberProperty, Name: "Item", Type: listT, Params: []Param{param("index", Int)}},
		&Member{Kind: MemberProperty, Name: "Count", Type: Int},
		&Member{Kind: MemberMethod, Name: "Add", Type: Void, Params: []Param{param("item", listT)}},
	)

	Map = NewGeneric(KindInterface, "", "Map", "K", "V")
	mapK, mapV := Map.typeParams[0], Map.typeParams[1]
	Map.AddMembers(
		&Member{Kind: MemberProperty, Name: "Item", Type: mapV, Params: []Param{param("key", mapK)}},
		&Member{Kind: MemberProperty, Name: "Count", Type: Int},
		&Member{Kind: MemberMethod, Name: "ContainsKey", Type: Bool, Params: []Param{param("key", mapK)}},
	)

	UntypedList = NewInterface("", "UntypedList")
	UntypedList.AddMembers(
		&Member{Kind: MemberProperty, Name: "Item", Type: Any, Params: []Param{param("index", Int)}},
		&Member{Kind: MemberProperty, Name: "Count", Type: Int},
	)

	UntypedMap = NewInterface("", "UntypedMap")
	UntypedMap.AddMembers(
		&Member{Kind: MemberProperty, Name: "Item", Type: Any, Params: []Param{param("key", Any)}},
		&Member{Kind: MemberProperty, Name: "Count", Type: Int},
		&Member{Kind: MemberMethod, Name: "ContainsKey", Type: Bool, Params: []Param{param("key", Any)}},
	)

	Hashtable = NewStruct("", "Hashtable").Implement(UntypedMap)
	Hashtable.AddMembers(
		&Member{Kind: MemberConstructor, Name: "new", Static: true},
		&Member{Kind: MemberMethod, Name: "Add", Type: Void, Params: []Param{param("key", Any), param("value", Any)}},
	)

	Func = &Type{kind: KindFunc, name: "Func", family: true}
	Action = &Type{kind: KindFunc, name: "Action", family: true}

	Sequences = NewStruct(SequencesNamespace, "Sequences")
	Sequences.AddMembers(
		sequenceHelper("ElementAt", func(t *Type) (*Type, []Param) {
			return t, []Param{param("index", Int)}
		}),
		sequenceHelper("Count", func(t *Type) (*Type, []Param) {
			return Int, nil
		}),
		sequenceHelper("ToArray", func(t *Type) (*Type, []Param) {
			return ArrayOf(t), nil
		}),
		sequenceHelper("Where", func(t *Type) (*Type, []Param) {
			return instantiate(Seq, []*Type{t}), []Param{param("predicate", FuncOf([]*Type{t}, Bool))}
		}),
		sequenceHelper("Any", func(t *Type) (*Type, []Param) {
			return Bool, []Param{param("predicate", FuncOf([]*Type{t}, Bool))}
		}),
	)
	selectT, selectR := NewTypeParam("T"), NewTypeParam("R")
	Sequences.AddMembers(&Member{
		Kind:       MemberMethod,
		Name:       "Select",
		Static:     true,
		Extension:  true,
		Namespace:  SequencesNamespace,
		TypeParams: []*Type{selectT, selectR},
		Type:       instantiate(Seq, []*Type{selectR}),
		Params: []Param{
			param("source", instantiate(Seq, []*Type{selectT})),
			param("selector", FuncOf([]*Type{selectT}, selectR)),
		},
	})
}

func sequenceHelper(name string, shape func(t *Type) (*Type, []Param)) *Member {
	t := NewTypeParam("T")
	result, params := shape(t)
	return &Member{
		Kind:       MemberMethod,
		Name:       name,
		Static:     true,
		Extension:  true,
		Namespace:  SequencesNamespace,
		TypeParams: []*Type{t},
		Type:       result,
		Params:     append([]Param{param("source", instantiate(Seq, []*Type{t}))}, params...),
	}
}
