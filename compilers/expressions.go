package compilers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/binders"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/runtimes"
	"github.com/reusee/tailambda/types"
)

func (p *pass) compileExpr(node asts.Expr) (exprs.Expr, error) {
	switch n := node.(type) {

	case *asts.Constant:
		return constant(n.Value), nil
	case *asts.StringConstant:
		return exprs.NewConstant(n.Value, types.String), nil
	case *asts.ExpandableString:
		return p.compileExpandableString(n)
	case *asts.Variable:
		return p.compileVariable(n)

	case *asts.TypeLiteral:
		t, err := p.ResolveType(n.Type)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return placeholder(), nil
		}
		return typeValue(t), nil

	case *asts.Convert:
		return p.compileConvert(n)
	case *asts.Binary:
		return p.compileBinary(n)
	case *asts.Unary:
		return p.compileUnary(n)
	case *asts.MemberAccess:
		return p.compileMemberAccess(n)
	case *asts.InvokeMember:
		return p.InvokeMember(n, nil)
	case *asts.Index:
		return p.compileIndex(n)
	case *asts.ArrayLiteral:
		return p.compileArrayLiteral(n)
	case *asts.ArrayExpr:
		return p.compileArrayExpr(n)
	case *asts.Hashtable:
		return p.compileHashtable(n)

	case *asts.Paren:
		if n.Inner == nil {
			return exprs.NewConstant(nil, types.Any), nil
		}
		return p.Compile(n.Inner)

	case *asts.SubExpr:
		return p.compileStatementBlock(n.Body)

	case *asts.ScriptBlockExpr:
		return p.compileClosure(n.Block, signature{}, false)
	}

	return p.reportf(node.Extent(), diags.UnsupportedConstruct, "unsupported expression %T", node)
}

func constant(value any) exprs.Expr {
	switch value.(type) {
	case nil:
		return exprs.NewConstant(nil, types.Any)
	case bool:
		return exprs.NewConstant(value, types.Bool)
	case int:
		return exprs.NewConstant(value, types.Int)
	case int64:
		return exprs.NewConstant(value, types.Int64)
	case float64:
		return exprs.NewConstant(value, types.Float64)
	case string:
		return exprs.NewConstant(value, types.String)
	}
	t := types.FromReflectType(reflect.TypeOf(value))
	if t == nil {
		t = types.Any
	}
	return exprs.NewConstant(value, t)
}

// ResolveType resolves a type name, a type literal, or a string naming a
// type. Unresolvable names are reported and yield a nil type.
func (p *pass) ResolveType(node asts.Node) (*types.Type, error) {
	switch n := node.(type) {
	case *asts.TypeName:
		return p.resolveTypeName(n)
	case *asts.TypeLiteral:
		return p.resolveTypeName(n.Type)
	case *asts.StringConstant:
		return p.resolveTypeName(&asts.TypeName{
			Span: n.Span,
			Name: n.Value,
		})
	case *asts.Paren:
		if n.Inner != nil {
			return p.ResolveType(n.Inner)
		}
	case *asts.Pipeline:
		if len(n.Elements) == 1 {
			return p.ResolveType(n.Elements[0])
		}
	}
	if err := p.Report(node.Extent(), diags.MissingType, "expected a type"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (p *pass) resolveTypeName(name *asts.TypeName) (*types.Type, error) {
	if name == nil || name.Name == "" {
		return nil, p.Report(spanOf(name), diags.MissingType, "missing type name")
	}
	t, err := p.compiler.catalog.LookupType(name.Name)
	if err != nil {
		if !errors.Is(err, types.ErrTypeNotFound) {
			return nil, err
		}
		return nil, p.Report(name.Span, diags.TypeNotFound, "type "+name.Name+" not found")
	}
	if len(name.Args) > 0 {
		args := make([]*types.Type, len(name.Args))
		for i, arg := range name.Args {
			args[i], err = p.resolveTypeName(arg)
			if err != nil || args[i] == nil {
				return nil, err
			}
		}
		t, err = t.Instantiate(args...)
		if err != nil {
			return nil, p.Report(name.Span, diags.TypeNotFound, err.Error())
		}
	}
	if name.Array {
		t = types.ArrayOf(t)
	}
	return t, nil
}

func spanOf(name *asts.TypeName) asts.Span {
	if name == nil {
		return asts.Span{}
	}
	return name.Span
}

func (p *pass) compileConvert(n *asts.Convert) (exprs.Expr, error) {
	t, err := p.ResolveType(n.Type)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return placeholder(), nil
	}
	if block, ok := n.Child.(*asts.ScriptBlockExpr); ok && t.Kind() == types.KindFunc {
		return p.compileTypedClosure(n.Span, t, block.Block)
	}
	child, err := p.compileExpr(n.Child)
	if err != nil {
		return nil, err
	}
	if p.poisoned(child) {
		return placeholder(), nil
	}
	return p.convertTo(n.Span, child, t)
}

// compileExpandableString lowers an interpolated string into one Format call.
func (p *pass) compileExpandableString(n *asts.ExpandableString) (exprs.Expr, error) {
	if len(n.Nested) == 0 {
		return exprs.NewConstant(strings.Join(n.Segments, ""), types.String), nil
	}
	var format strings.Builder
	args := make([]exprs.Expr, 0, len(n.Nested))
	for i, segment := range n.Segments {
		format.WriteString(strings.NewReplacer("{", "{{", "}", "}}").Replace(segment))
		if i >= len(n.Nested) {
			continue
		}
		arg, err := p.compileExpr(n.Nested[i])
		if err != nil {
			return nil, err
		}
		arg, err = p.toString(n.Nested[i].Extent(), arg)
		if err != nil {
			return nil, err
		}
		arg, err = p.toAny(n.Nested[i].Extent(), arg)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		format.WriteString("{" + strconv.Itoa(i) + "}")
	}
	if p.poisoned(args...) {
		return placeholder(), nil
	}
	array, err := exprs.NewNewArray(types.Any, args...)
	if err != nil {
		return p.Check(n.Span, nil, err)
	}
	call, err := exprs.NewRuntimeCall(runtimes.Format, nil,
		exprs.NewConstant(format.String(), types.String), array)
	return check(p, n.Span, call, err)
}

func memberName(node asts.Expr) (string, bool) {
	switch n := node.(type) {
	case *asts.StringConstant:
		return n.Value, true
	case *asts.Variable:
		return n.Name, true
	}
	return "", false
}

// compileTarget compiles the left side of a member access. Static access
// requires a type literal and yields a nil instance.
func (p *pass) compileTarget(target asts.Expr, static bool) (instance exprs.Expr, t *types.Type, err error) {
	if static {
		lit, ok := target.(*asts.TypeLiteral)
		if !ok {
			return nil, nil, p.Report(target.Extent(), diags.MissingType, "static member access requires a type")
		}
		t, err := p.ResolveType(lit)
		return nil, t, err
	}
	instance, err = p.compileExpr(target)
	if err != nil || p.poisoned(instance) {
		return nil, nil, err
	}
	return instance, instance.Type(), nil
}

func (p *pass) compileMemberAccess(n *asts.MemberAccess) (exprs.Expr, error) {
	name, ok := memberName(n.Member)
	if !ok {
		return p.reportf(n.Member.Extent(), diags.UnsupportedConstruct, "dynamic member names are not supported")
	}
	instance, t, err := p.compileTarget(n.Target, n.Static)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return placeholder(), nil
	}

	var property, field *types.Member
	for _, m := range t.FindMembers(name) {
		if m.Static != n.Static || len(m.Params) > 0 {
			continue
		}
		switch {
		case m.Kind == types.MemberProperty && property == nil:
			property = m
		case m.Kind == types.MemberField && field == nil:
			field = m
		}
	}
	m := property
	if m == nil {
		m = field
	}
	if m == nil {
		return p.reportf(n.Member.Extent(), diags.MissingMember, "%s has no member %s", t, name)
	}
	expr, err := exprs.NewMember(instance, m)
	return check(p, n.Span, expr, err)
}

// InvokeMember compiles a method call, or construction for `[T]::new(...)`.
func (p *pass) InvokeMember(n *asts.InvokeMember, generics []*types.Type) (exprs.Expr, error) {
	name, ok := memberName(n.Member)
	if !ok {
		return p.reportf(n.Member.Extent(), diags.UnsupportedConstruct, "dynamic member names are not supported")
	}
	instance, t, err := p.compileTarget(n.Target, n.Static)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return placeholder(), nil
	}

	if n.Static && strings.EqualFold(name, "new") && len(generics) == 0 {
		return p.construct(n, t)
	}

	res, err := p.compiler.binder.BindMethod(p, binders.Call{
		Span:     n.Span,
		Instance: instance,
		Receiver: t,
		Name:     name,
		Args:     binders.NewArguments(n.Args),
		Generics: generics,
	})
	if err != nil {
		return nil, err
	}
	if res.Poisoned {
		return placeholder(), nil
	}
	if !res.OK() {
		if res.ID == diags.NoMemberNameMatch {
			return p.reportf(n.Member.Extent(), res.ID, "%s has no method %s", t, name)
		}
		return p.reportf(n.Span, res.ID, "no overload of %s.%s accepts the arguments", t, name)
	}
	return res.Expr, nil
}

func (p *pass) construct(n *asts.InvokeMember, t *types.Type) (exprs.Expr, error) {
	args := make([]exprs.Expr, len(n.Args))
	for i, node := range n.Args {
		arg, err := p.compileExpr(node)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	if p.poisoned(args...) {
		return placeholder(), nil
	}
	res := p.compiler.binder.BindConstructor(t, args)
	if !res.OK() {
		return p.reportf(n.Span, res.ID, "no constructor of %s accepts the arguments", t)
	}
	return res.Expr, nil
}

func (p *pass) compileIndex(n *asts.Index) (exprs.Expr, error) {
	target, err := p.compileExpr(n.Target)
	if err != nil {
		return nil, err
	}
	index, err := p.compileExpr(n.Index)
	if err != nil {
		return nil, err
	}
	if p.poisoned(target, index) {
		return placeholder(), nil
	}
	span := n.Index.Extent()
	tt := target.Type()

	indexer := func(owner *types.Type, key *types.Type) (exprs.Expr, error) {
		receiver, err := p.convertTo(n.Target.Extent(), target, owner)
		if err != nil {
			return nil, err
		}
		arg, err := p.convertTo(span, index, key)
		if err != nil {
			return nil, err
		}
		var item *types.Member
		for _, m := range owner.FindMembers("Item") {
			if m.Kind == types.MemberProperty && len(m.Params) == 1 {
				item = m
				break
			}
		}
		if item == nil {
			return p.reportf(n.Span, diags.MissingMember, "%s has no indexer", owner)
		}
		expr, err := exprs.NewIndex(receiver, item, arg)
		return check(p, n.Span, expr, err)
	}

	switch {
	case tt.Kind() == types.KindArray:
		arg, err := p.convertTo(span, index, types.Int)
		if err != nil {
			return nil, err
		}
		expr, err := exprs.NewArrayIndex(target, arg)
		return check(p, n.Span, expr, err)
	}
	if list := types.FindGenericInterface(tt, types.List); list != nil {
		return indexer(list, types.Int)
	}
	if m := types.FindGenericInterface(tt, types.Map); m != nil {
		return indexer(m, m.Args()[0])
	}
	if seq := types.FindGenericInterface(tt, types.Seq); seq != nil {
		return p.elementAt(n, target, seq, index)
	}
	if tt.AssignableTo(types.UntypedList) {
		return indexer(types.UntypedList, types.Int)
	}
	if tt.AssignableTo(types.UntypedMap) {
		return indexer(types.UntypedMap, types.Any)
	}
	return p.reportf(n.Span, diags.MissingMember, "unknown indexer for %s", tt)
}

// elementAt indexes a sequence through the ElementAt helper.
func (p *pass) elementAt(n *asts.Index, target exprs.Expr, seq *types.Type, index exprs.Expr) (exprs.Expr, error) {
	def := types.Sequences.FindMembers("ElementAt")[0]
	m, err := def.Instantiate(seq.Args()[0])
	if err != nil {
		return nil, err
	}
	source, err := p.convertTo(n.Target.Extent(), target, seq)
	if err != nil {
		return nil, err
	}
	arg, err := p.convertTo(n.Index.Extent(), index, types.Int)
	if err != nil {
		return nil, err
	}
	call, err := exprs.NewCall(nil, m, source, arg)
	return check(p, n.Span, call, err)
}

// newArray builds an array typed by its items when they share a type, and
// of the dynamic type otherwise.
func (p *pass) newArray(span asts.Span, items []exprs.Expr) (exprs.Expr, error) {
	elem := types.Any
	if len(items) > 0 {
		elem = items[0].Type()
		for _, item := range items[1:] {
			if item.Type() != elem {
				elem = types.Any
				break
			}
		}
		if elem.IsVoid() {
			elem = types.Any
		}
	}
	if elem == types.Any {
		for i, item := range items {
			boxed, err := p.toAny(span, item)
			if err != nil {
				return nil, err
			}
			items[i] = boxed
		}
	}
	array, err := exprs.NewNewArray(elem, items...)
	return check(p, span, array, err)
}

func (p *pass) compileArrayLiteral(n *asts.ArrayLiteral) (exprs.Expr, error) {
	items := make([]exprs.Expr, len(n.Elements))
	for i, elem := range n.Elements {
		item, err := p.compileExpr(elem)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	if p.poisoned(items...) {
		return placeholder(), nil
	}
	return p.newArray(n.Span, items)
}

// compileArrayExpr compiles `@(...)`. A single array value is kept, a single
// other value is wrapped, and several statements collect their values.
func (p *pass) compileArrayExpr(n *asts.ArrayExpr) (exprs.Expr, error) {
	if n.Body == nil || len(n.Body.Statements) == 0 {
		return p.newArray(n.Span, nil)
	}
	return p.NewBlock(func() (exprs.Expr, error) {
		list, err := p.compileStatements(n.Body.Statements)
		if err != nil {
			return nil, err
		}
		if p.poisoned(list...) {
			return placeholder(), nil
		}

		if len(list) == 1 {
			value := list[0]
			switch {
			case value.Type().Kind() == types.KindArray:
				return value, nil
			case value.Type().IsVoid():
				array, err := p.newArray(n.Span, nil)
				if err != nil {
					return nil, err
				}
				return exprs.NewBlock(nil, value, array), nil
			}
			return p.newArray(n.Span, []exprs.Expr{value})
		}

		var body, items []exprs.Expr
		for i, value := range list {
			if _, ok := value.(*exprs.Assign); ok || value.Type().IsVoid() {
				body = append(body, value)
				continue
			}
			boxed, err := p.toAny(n.Body.Statements[i].Extent(), value)
			if err != nil {
				return nil, err
			}
			temp := p.NewTemp("item", types.Any)
			assign, err := exprs.NewAssign(temp, boxed)
			if err != nil {
				return p.Check(n.Span, nil, err)
			}
			body = append(body, assign)
			items = append(items, temp)
		}
		array, err := exprs.NewNewArray(types.Any, items...)
		if err != nil {
			return p.Check(n.Span, nil, err)
		}
		return exprs.NewBlock(nil, append(body, array)...), nil
	})
}

// compileHashtable lowers a hashtable literal to construction followed by
// one Add per pair. Keys compare case-insensitively at runtime.
func (p *pass) compileHashtable(n *asts.Hashtable) (exprs.Expr, error) {
	ctor := types.Hashtable.FindMembers("new")[0]
	add := types.Hashtable.FindMembers("Add")[0]
	table := p.NewTemp("hashtable", types.Hashtable)

	newTable, err := exprs.NewNew(ctor)
	if err != nil {
		return p.Check(n.Span, nil, err)
	}
	init, err := exprs.NewAssign(table, newTable)
	if err != nil {
		return p.Check(n.Span, nil, err)
	}
	list := []exprs.Expr{init}

	for _, pair := range n.Pairs {
		key, err := p.compileExpr(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := p.Compile(pair.Value)
		if err != nil {
			return nil, err
		}
		if p.poisoned(key, value) {
			continue
		}
		key, err = p.toAny(pair.Key.Extent(), key)
		if err != nil {
			return nil, err
		}
		value, err = p.toAny(pair.Value.Extent(), value)
		if err != nil {
			return nil, err
		}
		call, err := exprs.NewCall(table, add, key, value)
		if err != nil {
			if _, err := p.Check(pair.Key.Extent(), nil, err); err != nil {
				return nil, err
			}
			continue
		}
		list = append(list, call)
	}
	return exprs.NewBlock(nil, append(list, table)...), nil
}
