// Package starlarks reads Starlark source into script blocks.
//
// A file holding a single def is a closure with that def's parameters; a
// parameter default, if any, is a string naming the parameter type. Any
// other file is a parameterless closure whose body is the file.
package starlarks

import (
	"fmt"
	"unicode/utf8"

	"github.com/reusee/e5"
	"github.com/reusee/tailambda/asts"
	"go.starlark.net/syntax"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Parse returns the script block of src.
func Parse(filename string, src []byte) (*asts.ScriptBlock, error) {
	file, err := fileOptions.Parse(filename, src, 0)
	if err != nil {
		return nil, wrap(fmt.Errorf("parse %s: %w", filename, err))
	}
	l := newLowerer(filename, src)
	block, err := l.file(file)
	if err != nil {
		return nil, wrap(err)
	}
	return block, nil
}

type lowerer struct {
	filename   string
	src        []byte
	lineStarts []int
}

func newLowerer(filename string, src []byte) *lowerer {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lowerer{
		filename:   filename,
		src:        src,
		lineStarts: starts,
	}
}

// offset converts a 1-based line and rune column to a byte offset.
func (l *lowerer) offset(pos syntax.Position) int {
	line := int(pos.Line)
	if line < 1 || line > len(l.lineStarts) {
		return len(l.src)
	}
	offset := l.lineStarts[line-1]
	for col := int32(1); col < pos.Col && offset < len(l.src); col++ {
		if l.src[offset] == '\n' {
			break
		}
		_, size := utf8.DecodeRune(l.src[offset:])
		offset += size
	}
	return offset
}

func (l *lowerer) span(node syntax.Node) asts.Span {
	start, end := node.Span()
	return l.between(start, end)
}

func (l *lowerer) between(start, end syntax.Position) asts.Span {
	from, to := l.offset(start), l.offset(end)
	if to < from {
		to = from
	}
	return asts.Span{
		File:   l.filename,
		Line:   int(start.Line),
		Column: int(start.Col),
		Start:  from,
		End:    to,
		Text:   string(l.src[from:to]),
	}
}

func (l *lowerer) file(file *syntax.File) (*asts.ScriptBlock, error) {
	if len(file.Stmts) == 1 {
		if def, ok := file.Stmts[0].(*syntax.DefStmt); ok {
			return l.function(def.Params, def.Body, l.span(def))
		}
	}
	body, err := l.stmts(file.Stmts)
	if err != nil {
		return nil, err
	}
	span := asts.Span{
		File:   l.filename,
		Line:   1,
		Column: 1,
		End:    len(l.src),
		Text:   string(l.src),
	}
	body.Span = span
	return &asts.ScriptBlock{
		Span: span,
		Body: body,
	}, nil
}

func (l *lowerer) function(params []syntax.Expr, stmts []syntax.Stmt, span asts.Span) (*asts.ScriptBlock, error) {
	paramBlock, err := l.params(params)
	if err != nil {
		return nil, err
	}
	body, err := l.stmts(stmts)
	if err != nil {
		return nil, err
	}
	return &asts.ScriptBlock{
		Span:   span,
		Params: paramBlock,
		Body:   body,
	}, nil
}

func (l *lowerer) params(params []syntax.Expr) (*asts.ParamBlock, error) {
	if len(params) == 0 {
		return nil, nil
	}
	ret := &asts.ParamBlock{}
	for i, param := range params {
		span := l.span(param)
		if i == 0 {
			ret.Span = span
		}
		ret.Span.End = span.End

		switch param := param.(type) {

		case *syntax.Ident:
			ret.Params = append(ret.Params, &asts.Parameter{
				Span: span,
				Name: param.Name,
			})

		case *syntax.BinaryExpr:
			name, ok := param.X.(*syntax.Ident)
			if !ok || param.Op != syntax.EQ {
				return nil, l.unsupported(param, "parameter")
			}
			lit, ok := param.Y.(*syntax.Literal)
			if !ok || lit.Token != syntax.STRING {
				return nil, l.errorf(param.Y, "parameter type must be a string")
			}
			typeName, err := ParseTypeName(lit.Value.(string))
			if err != nil {
				return nil, l.errorf(param.Y, "%v", err)
			}
			setSpan(typeName, l.span(lit))
			ret.Params = append(ret.Params, &asts.Parameter{
				Span: span,
				Name: name.Name,
				Type: typeName,
			})

		default:
			return nil, l.unsupported(param, "parameter")
		}
	}
	return ret, nil
}

func setSpan(name *asts.TypeName, span asts.Span) {
	name.Span = span
	for _, arg := range name.Args {
		setSpan(arg, span)
	}
}
