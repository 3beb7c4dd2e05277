package asts

// Node is implemented by every AST node. The set of nodes is closed.
type Node interface {
	Extent() Span
	node()
}

// Statement is a node that may appear in a statement list.
type Statement interface {
	Node
	stmtNode()
}

// Expr is a node producing a value. Every Expr is also a Statement.
type Expr interface {
	Statement
	exprNode()
}

// ScriptBlock is a closure literal, and also the root of a compile.
type ScriptBlock struct {
	Span
	Params  *ParamBlock
	Begin   *StatementBlock
	Process *StatementBlock
	Body    *StatementBlock
}

type ParamBlock struct {
	Span
	Params []*Parameter
}

// Parameter is a declared closure parameter. A nil Type means untyped.
type Parameter struct {
	Span
	Name string
	Type *TypeName
}

type StatementBlock struct {
	Span
	Statements []Statement
}

// TypeName is a reference to a host type by name, with optional generic
// arguments and a single-rank array suffix.
type TypeName struct {
	Span
	Name  string
	Args  []*TypeName
	Array bool
}

func (t *TypeName) String() string {
	if t == nil {
		return ""
	}
	s := t.Name
	if len(t.Args) > 0 {
		s += "["
		for i, arg := range t.Args {
			if i > 0 {
				s += ","
			}
			s += arg.String()
		}
		s += "]"
	}
	if t.Array {
		s += "[]"
	}
	return s
}

// statements

type Assignment struct {
	Span
	Left  Expr
	Op    AssignOp
	Right Statement
}

type Pipeline struct {
	Span
	Elements []Statement
}

type IfClause struct {
	Cond Statement
	Body *StatementBlock
}

type If struct {
	Span
	Clauses []IfClause
	Else    *StatementBlock
}

type While struct {
	Span
	Cond Statement
	Body *StatementBlock
}

type DoWhile struct {
	Span
	Cond Statement
	Body *StatementBlock
}

type DoUntil struct {
	Span
	Cond Statement
	Body *StatementBlock
}

type For struct {
	Span
	Init Statement
	Cond Statement
	Iter Statement
	Body *StatementBlock
}

type ForEach struct {
	Span
	Variable *Variable
	Source   Statement
	Body     *StatementBlock
}

type SwitchClause struct {
	Value Expr
	Body  *StatementBlock
}

type Switch struct {
	Span
	Cond    Statement
	Clauses []SwitchClause
	Default *StatementBlock
}

type Catch struct {
	Span
	Types []*TypeName
	Body  *StatementBlock
}

type Try struct {
	Span
	Body    *StatementBlock
	Catches []*Catch
	Finally *StatementBlock
}

type Throw struct {
	Span
	Value   Statement
	Rethrow bool
}

type Return struct {
	Span
	Value Statement
}

type Break struct {
	Span
}

type Continue struct {
	Span
}

type Exit struct {
	Span
	Value Statement
}

// Command is a bare-word statement: `name arg1 arg2`. Keyword extensions and
// the `=>` closure sugar are both parsed into this shape.
type Command struct {
	Span
	Name string
	Args []Expr
}

type BlockStatement struct {
	Span
	Body *StatementBlock
}

type FunctionDefinition struct {
	Span
	Name string
	Body *ScriptBlock
}

type Trap struct {
	Span
	Body *StatementBlock
}

// expressions

type Constant struct {
	Span
	Value any
}

type StringConstant struct {
	Span
	Value string
}

// ExpandableString is an interpolated string literal. Segments holds the
// literal text around the nested expressions, len(Segments) == len(Nested)+1.
type ExpandableString struct {
	Span
	Segments []string
	Nested   []Expr
}

type Variable struct {
	Span
	Name string
}

type TypeLiteral struct {
	Span
	Type *TypeName
}

type Convert struct {
	Span
	Type  *TypeName
	Child Expr
}

type Binary struct {
	Span
	Op     BinaryOp
	Left   Expr
	Right  Expr
	OpSpan Span
}

type Unary struct {
	Span
	Op    UnaryOp
	Child Expr
}

type MemberAccess struct {
	Span
	Target Expr
	Member Expr
	Static bool
}

type InvokeMember struct {
	Span
	Target Expr
	Member Expr
	Args   []Expr
	Static bool
}

type Index struct {
	Span
	Target Expr
	Index  Expr
}

type ArrayLiteral struct {
	Span
	Elements []Expr
}

type ArrayExpr struct {
	Span
	Body *StatementBlock
}

type KeyValue struct {
	Key   Expr
	Value Statement
}

type Hashtable struct {
	Span
	Pairs []KeyValue
}

type Paren struct {
	Span
	Inner Statement
}

type SubExpr struct {
	Span
	Body *StatementBlock
}

type ScriptBlockExpr struct {
	Span
	Block *ScriptBlock
}

func (*ScriptBlock) stmtNode()        {}
func (*ParamBlock) stmtNode()         {}
func (*Parameter) stmtNode()          {}
func (*StatementBlock) stmtNode()     {}
func (*Assignment) stmtNode()         {}
func (*Pipeline) stmtNode()           {}
func (*If) stmtNode()                 {}
func (*While) stmtNode()              {}
func (*DoWhile) stmtNode()            {}
func (*DoUntil) stmtNode()            {}
func (*For) stmtNode()                {}
func (*ForEach) stmtNode()            {}
func (*Switch) stmtNode()             {}
func (*Catch) stmtNode()              {}
func (*Try) stmtNode()                {}
func (*Throw) stmtNode()              {}
func (*Return) stmtNode()             {}
func (*Break) stmtNode()              {}
func (*Continue) stmtNode()           {}
func (*Exit) stmtNode()               {}
func (*Command) stmtNode()            {}
func (*BlockStatement) stmtNode()     {}
func (*FunctionDefinition) stmtNode() {}
func (*Trap) stmtNode()               {}
func (*Constant) stmtNode()           {}
func (*StringConstant) stmtNode()     {}
func (*ExpandableString) stmtNode()   {}
func (*Variable) stmtNode()           {}
func (*TypeLiteral) stmtNode()        {}
func (*Convert) stmtNode()            {}
func (*Binary) stmtNode()             {}
func (*Unary) stmtNode()              {}
func (*MemberAccess) stmtNode()       {}
func (*InvokeMember) stmtNode()       {}
func (*Index) stmtNode()              {}
func (*ArrayLiteral) stmtNode()       {}
func (*ArrayExpr) stmtNode()          {}
func (*Hashtable) stmtNode()          {}
func (*Paren) stmtNode()              {}
func (*SubExpr) stmtNode()            {}
func (*ScriptBlockExpr) stmtNode()    {}

func (*Constant) exprNode()         {}
func (*StringConstant) exprNode()   {}
func (*ExpandableString) exprNode() {}
func (*Variable) exprNode()         {}
func (*TypeLiteral) exprNode()      {}
func (*Convert) exprNode()          {}
func (*Binary) exprNode()           {}
func (*Unary) exprNode()            {}
func (*MemberAccess) exprNode()     {}
func (*InvokeMember) exprNode()     {}
func (*Index) exprNode()            {}
func (*ArrayLiteral) exprNode()     {}
func (*ArrayExpr) exprNode()        {}
func (*Hashtable) exprNode()        {}
func (*Paren) exprNode()            {}
func (*SubExpr) exprNode()          {}
func (*ScriptBlockExpr) exprNode()  {}
