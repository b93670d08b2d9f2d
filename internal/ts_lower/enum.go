package ts_lower

// Enum lowering runs in two phases. A pre-scan walks the whole file in
// order, evaluates every enum member (auto-increment, constant folding,
// references to previously defined members) and accumulates the results
// into per-enum groups keyed by canonical ref, so declaration merging is
// additive across non-adjacent fragments. The lowering walk then rewrites
// each fragment into an object-building closure, or deletes it and inlines
// member literals at use sites when the enum is const and policy allows.

import (
	"fmt"
	"strings"

	"github.com/tslower/tslower/internal/ast"
)

type enumValueKind uint8

const (
	enumValueUnknown enumValueKind = iota
	enumValueNumber
	enumValueString
)

type enumMemberValue struct {
	kind   enumValueKind
	number float64
	str    string
}

type enumGroup struct {
	name      string
	isConst   bool
	isAmbient bool
	inline    bool
	members   map[string]enumMemberValue
}

// One lowered declaration fragment: the member assignment expressions that
// go inside the generated closure
type enumFragment struct {
	exprs            []ast.Expr
	allValuesArePure bool
}

func (l *lowerer) scanEnums(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *ast.SEnum:
			l.scanEnum(s)

		case *ast.SNamespace:
			l.scanEnums(s.Stmts)

		case *ast.SBlock:
			l.scanEnums(s.Stmts)

		case *ast.SFunction:
			l.scanEnums(s.Fn.Body.Stmts)
		}
	}
}

func (l *lowerer) scanEnum(s *ast.SEnum) {
	canonical := l.tree.FollowSymbols(s.Name.Ref)
	group := l.enumGroups[canonical]
	if group == nil {
		group = &enumGroup{
			name:    l.tree.NameOf(canonical),
			members: make(map[string]enumMemberValue),
		}
		l.enumGroups[canonical] = group
	}
	if s.IsConst {
		group.isConst = true
		group.inline = !l.options.PreserveConstEnums && !l.options.VerbatimModuleSyntax
	}

	// Values without initializers are one more than the previous value if
	// the previous value is numeric. The counter restarts for each fragment.
	nextNumericValue := float64(0)
	hasNumericValue := true
	fragment := enumFragment{allValuesArePure: true}

	for i := range s.Values {
		value := &s.Values[i]
		var member enumMemberValue

		if value.ValueOrNil.Data != nil {
			value.ValueOrNil = l.foldEnumExpr(value.ValueOrNil)
			hasNumericValue = false

			switch e := value.ValueOrNil.Data.(type) {
			case *ast.ENumber:
				member = enumMemberValue{kind: enumValueNumber, number: e.Value}
				hasNumericValue = true
				nextNumericValue = e.Value + 1

			case *ast.EString:
				member = enumMemberValue{kind: enumValueString, str: e.Value}

			default:
				if group.isConst {
					l.log.AddRangeError(&l.source, l.rangeOf(value.Loc),
						"Const enum member initializers must be constant expressions")
				}
				if !ast.ExprCanBeRemovedIfUnused(value.ValueOrNil) {
					fragment.allValuesArePure = false
				}
			}
		} else if hasNumericValue {
			member = enumMemberValue{kind: enumValueNumber, number: nextNumericValue}
			value.ValueOrNil = ast.Expr{Loc: value.Loc, Data: &ast.ENumber{Value: nextNumericValue}}
			nextNumericValue++
		} else {
			// A member after a non-numeric-literal initializer must spell out
			// its own initializer
			l.log.AddRangeError(&l.source, l.rangeOf(value.Loc), "Enum member must have initializer")
			value.ValueOrNil = ast.Expr{Loc: value.Loc, Data: ast.EUndefinedShared}
		}

		if member.kind != enumValueUnknown {
			group.members[value.Name] = member
			if value.Ref != ast.InvalidRef {
				l.enumMemberRefs[l.tree.FollowSymbols(value.Ref)] = enumMemberRef{
					group: group,
					name:  value.Name,
				}
			}
		}

		// "E['Name'] = value"
		assignTarget := ast.Assign(
			ast.Expr{Loc: value.Loc, Data: &ast.EIndex{
				Target: ast.Expr{Loc: value.Loc, Data: &ast.EIdentifier{Ref: s.Arg}},
				Index:  ast.Expr{Loc: value.Loc, Data: &ast.EString{Value: value.Name}},
			}},
			value.ValueOrNil,
		)

		if member.kind == enumValueString {
			// String-valued members do not form a two-way map
			fragment.exprs = append(fragment.exprs, assignTarget)
		} else {
			// "E[E['Name'] = value] = 'Name'"
			fragment.exprs = append(fragment.exprs, ast.Assign(
				ast.Expr{Loc: value.Loc, Data: &ast.EIndex{
					Target: ast.Expr{Loc: value.Loc, Data: &ast.EIdentifier{Ref: s.Arg}},
					Index:  assignTarget,
				}},
				ast.Expr{Loc: value.Loc, Data: &ast.EString{Value: value.Name}},
			))
		}
	}

	l.enumValues[s] = fragment
}

type enumMemberRef struct {
	group *enumGroup
	name  string
}

// "declare const enum" is erased before the regular enum scan runs, so the
// erasure pass feeds it in here first. Member uses always inline, even when
// const enums are otherwise preserved: an ambient declaration never emits
// an object to preserve.
func (l *lowerer) scanAmbientConstEnum(s *ast.SEnum) {
	l.scanEnum(s)
	group := l.enumGroups[l.tree.FollowSymbols(s.Name.Ref)]
	group.isAmbient = true
	group.inline = true
}

// Constant folding inside enum bodies. This intentionally folds more than
// general-purpose minification would: enum member values must be known at
// lowering time for auto-increment and const enum inlining to work.
func (l *lowerer) foldEnumExpr(expr ast.Expr) ast.Expr {
	switch e := expr.Data.(type) {
	case *ast.EIdentifier:
		// A bare reference to a previously defined member of an enclosing enum
		if member, ok := l.enumMemberRefs[l.tree.FollowSymbols(e.Ref)]; ok {
			if folded, ok := literalForMember(expr, member.group.members[member.name]); ok {
				return folded
			}
		}

	case *ast.EDot:
		if target, ok := e.Target.Data.(*ast.EIdentifier); ok {
			if group, ok := l.enumGroups[l.tree.FollowSymbols(target.Ref)]; ok {
				if folded, ok := literalForMember(expr, group.members[e.Name]); ok {
					return folded
				}
			}
		}
		e.Target = l.foldEnumExpr(e.Target)

	case *ast.EUnary:
		e.Value = l.foldEnumExpr(e.Value)
		if number, ok := e.Value.Data.(*ast.ENumber); ok {
			switch e.Op {
			case ast.UnOpPos:
				return ast.Expr{Loc: expr.Loc, Data: &ast.ENumber{Value: number.Value}}
			case ast.UnOpNeg:
				return ast.Expr{Loc: expr.Loc, Data: &ast.ENumber{Value: -number.Value}}
			case ast.UnOpCpl:
				return ast.Expr{Loc: expr.Loc, Data: &ast.ENumber{Value: float64(^int32(number.Value))}}
			}
		}

	case *ast.EBinary:
		e.Left = l.foldEnumExpr(e.Left)
		e.Right = l.foldEnumExpr(e.Right)

		if left, ok := e.Left.Data.(*ast.ENumber); ok {
			if right, ok := e.Right.Data.(*ast.ENumber); ok {
				if folded, ok := foldNumericBinary(e.Op, left.Value, right.Value); ok {
					return ast.Expr{Loc: expr.Loc, Data: &ast.ENumber{Value: folded}}
				}
			}
		}

		// "'a' + 'b'" folds so string enums can build members from pieces
		if e.Op == ast.BinOpAdd {
			if left, ok := e.Left.Data.(*ast.EString); ok {
				if right, ok := e.Right.Data.(*ast.EString); ok {
					return ast.Expr{Loc: expr.Loc, Data: &ast.EString{Value: left.Value + right.Value}}
				}
			}
		}
	}

	return expr
}

func literalForMember(at ast.Expr, member enumMemberValue) (ast.Expr, bool) {
	switch member.kind {
	case enumValueNumber:
		return ast.Expr{Loc: at.Loc, Data: &ast.ENumber{Value: member.number}}, true
	case enumValueString:
		return ast.Expr{Loc: at.Loc, Data: &ast.EString{Value: member.str}}, true
	}
	return ast.Expr{}, false
}

func foldNumericBinary(op ast.OpCode, left float64, right float64) (float64, bool) {
	switch op {
	case ast.BinOpAdd:
		return left + right, true
	case ast.BinOpSub:
		return left - right, true
	case ast.BinOpMul:
		return left * right, true
	case ast.BinOpDiv:
		if right != 0 {
			return left / right, true
		}
	case ast.BinOpShl:
		return float64(int32(left) << (uint32(right) & 31)), true
	case ast.BinOpShr:
		return float64(int32(left) >> (uint32(right) & 31)), true
	case ast.BinOpBitwiseOr:
		return float64(int32(left) | int32(right)), true
	case ast.BinOpBitwiseAnd:
		return float64(int32(left) & int32(right)), true
	case ast.BinOpBitwiseXor:
		return float64(int32(left) ^ int32(right)), true
	}
	return 0, false
}

func (l *lowerer) lowerEnumStmts(stmts []ast.Stmt) []ast.Stmt {
	result := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *ast.SEnum:
			result = l.lowerEnum(result, stmt, s)
			continue

		case *ast.SNamespace:
			oldArgRef := l.enclosingNamespaceArgRef
			l.enclosingNamespaceArgRef = &s.Arg
			l.depth++
			s.Stmts = l.lowerEnumStmts(s.Stmts)
			l.depth--
			l.enclosingNamespaceArgRef = oldArgRef

		case *ast.SBlock:
			s.Stmts = l.lowerEnumStmts(s.Stmts)

		case *ast.SFunction:
			l.lowerEnumsInFn(&s.Fn)

		case *ast.SClass:
			l.lowerEnumsInClass(&s.Class)

		case *ast.SExpr:
			s.Value = l.lowerEnumExpr(s.Value)

		case *ast.SReturn:
			if s.ValueOrNil.Data != nil {
				s.ValueOrNil = l.lowerEnumExpr(s.ValueOrNil)
			}

		case *ast.SIf:
			s.Test = l.lowerEnumExpr(s.Test)
			yes := l.lowerEnumStmts([]ast.Stmt{s.Yes})
			if len(yes) == 1 {
				s.Yes = yes[0]
			}
			if s.NoOrNil.Data != nil {
				no := l.lowerEnumStmts([]ast.Stmt{s.NoOrNil})
				if len(no) == 1 {
					s.NoOrNil = no[0]
				}
			}

		case *ast.SLocal:
			for i := range s.Decls {
				if s.Decls[i].ValueOrNil.Data != nil {
					s.Decls[i].ValueOrNil = l.lowerEnumExpr(s.Decls[i].ValueOrNil)
				}
			}
		}

		result = append(result, stmt)
	}
	return result
}

func (l *lowerer) lowerEnumsInFn(fn *ast.Fn) {
	for i := range fn.Args {
		if fn.Args[i].DefaultOrNil.Data != nil {
			fn.Args[i].DefaultOrNil = l.lowerEnumExpr(fn.Args[i].DefaultOrNil)
		}
	}
	if fn.HasBody {
		l.depth++
		fn.Body.Stmts = l.lowerEnumStmts(fn.Body.Stmts)
		l.depth--
	}
}

func (l *lowerer) lowerEnumsInClass(class *ast.Class) {
	if class.ExtendsOrNil.Data != nil {
		class.ExtendsOrNil = l.lowerEnumExpr(class.ExtendsOrNil)
	}
	for i := range class.Properties {
		prop := &class.Properties[i]
		if prop.IsComputed {
			prop.Key = l.lowerEnumExpr(prop.Key)
		}
		if prop.ValueOrNil.Data != nil {
			prop.ValueOrNil = l.lowerEnumExpr(prop.ValueOrNil)
		}
		if prop.InitializerOrNil.Data != nil {
			prop.InitializerOrNil = l.lowerEnumExpr(prop.InitializerOrNil)
		}
	}
}

func (l *lowerer) lowerEnum(stmts []ast.Stmt, stmt ast.Stmt, s *ast.SEnum) []ast.Stmt {
	canonical := l.tree.FollowSymbols(s.Name.Ref)

	// An enum declared inside an expression-level function body is not
	// reachable by the statement pre-scan
	if _, ok := l.enumValues[s]; !ok {
		l.scanEnum(s)
	}
	group := l.enumGroups[canonical]

	// An inlined const enum has no runtime object at all: uses were replaced
	// by literals and the declaration disappears. An exported one still
	// materializes the object, because the importing file only sees the
	// binding and can't inline members it never parsed.
	if group != nil && group.inline {
		if !s.IsExport && !l.exportedViaClause[canonical] {
			return stmts
		}
	}

	fragment := l.enumValues[s]
	if l.depth == 0 && l.enclosingNamespaceArgRef == nil {
		return l.generateClosureForEnum(stmts, stmt.Loc, s.IsExport, s.Name.Loc,
			s.Name.Ref, s.Arg, fragment.exprs, fragment.allValuesArePure)
	}

	// Nested enums reuse the namespace closure form: inside a namespace the
	// enum must become a property access off the namespace object, and "let"
	// declarations can't be merged like "var" can
	stmtsInsideClosure := make([]ast.Stmt, 0, len(fragment.exprs))
	for _, expr := range fragment.exprs {
		stmtsInsideClosure = append(stmtsInsideClosure, ast.Stmt{Loc: expr.Loc, Data: &ast.SExpr{Value: expr}})
	}
	return l.generateClosureForNamespaceOrEnum(stmts, stmt.Loc, s.IsExport, s.Name.Loc,
		s.Name.Ref, s.Arg, stmtsInsideClosure)
}

// Replaces references to inlined const enum members with their literal
// values, wrapped in a comment that preserves the member name.
func (l *lowerer) lowerEnumExpr(expr ast.Expr) ast.Expr {
	switch e := expr.Data.(type) {
	case *ast.EIdentifier:
		if group, ok := l.enumGroups[l.tree.FollowSymbols(e.Ref)]; ok && group.inline {
			l.log.AddRangeError(&l.source, l.rangeOf(expr.Loc),
				"A const enum can only be used in a member access expression")
		}

	case *ast.EDot:
		if target, ok := e.Target.Data.(*ast.EIdentifier); ok {
			if group, ok := l.enumGroups[l.tree.FollowSymbols(target.Ref)]; ok && group.inline {
				return l.inlineEnumMember(expr, group, e.Name)
			}
		}
		e.Target = l.lowerEnumExpr(e.Target)

	case *ast.EIndex:
		if target, ok := e.Target.Data.(*ast.EIdentifier); ok {
			if group, ok := l.enumGroups[l.tree.FollowSymbols(target.Ref)]; ok && group.inline {
				if str, ok := e.Index.Data.(*ast.EString); ok {
					return l.inlineEnumMember(expr, group, str.Value)
				}

				// A computed member access defeats inlining
				l.log.AddRangeError(&l.source, l.rangeOf(e.Index.Loc),
					"A const enum member can only be accessed using a string literal")
				return expr
			}
		}
		e.Target = l.lowerEnumExpr(e.Target)
		e.Index = l.lowerEnumExpr(e.Index)

	case *ast.ECall:
		e.Target = l.lowerEnumExpr(e.Target)
		for i := range e.Args {
			e.Args[i] = l.lowerEnumExpr(e.Args[i])
		}

	case *ast.ENew:
		e.Target = l.lowerEnumExpr(e.Target)
		for i := range e.Args {
			e.Args[i] = l.lowerEnumExpr(e.Args[i])
		}

	case *ast.EBinary:
		e.Left = l.lowerEnumExpr(e.Left)
		e.Right = l.lowerEnumExpr(e.Right)

	case *ast.EUnary:
		e.Value = l.lowerEnumExpr(e.Value)

	case *ast.ESpread:
		e.Value = l.lowerEnumExpr(e.Value)

	case *ast.EArray:
		for i := range e.Items {
			e.Items[i] = l.lowerEnumExpr(e.Items[i])
		}

	case *ast.EObject:
		for i := range e.Properties {
			prop := &e.Properties[i]
			if prop.IsComputed {
				prop.Key = l.lowerEnumExpr(prop.Key)
			}
			if prop.ValueOrNil.Data != nil {
				prop.ValueOrNil = l.lowerEnumExpr(prop.ValueOrNil)
			}
		}

	case *ast.EArrow:
		for i := range e.Args {
			if e.Args[i].DefaultOrNil.Data != nil {
				e.Args[i].DefaultOrNil = l.lowerEnumExpr(e.Args[i].DefaultOrNil)
			}
		}
		l.depth++
		e.Body.Stmts = l.lowerEnumStmts(e.Body.Stmts)
		l.depth--

	case *ast.EFunction:
		l.lowerEnumsInFn(&e.Fn)

	case *ast.EInlinedEnum:
		e.Value = l.lowerEnumExpr(e.Value)
	}

	return expr
}

func (l *lowerer) inlineEnumMember(expr ast.Expr, group *enumGroup, name string) ast.Expr {
	member, ok := group.members[name]
	if !ok {
		l.log.AddRangeError(&l.source, l.rangeOf(expr.Loc),
			fmt.Sprintf("%q is not a constant member of enum %q", name, group.name))
		return expr
	}

	value, _ := literalForMember(expr, member)
	return wrapInlinedEnum(value, group.name+"."+name)
}

func wrapInlinedEnum(value ast.Expr, comment string) ast.Expr {
	if strings.Contains(comment, "*/") {
		// Don't wrap with a comment
		return value
	}

	// Wrap with a comment
	return ast.Expr{Loc: value.Loc, Data: &ast.EInlinedEnum{
		Value:   value,
		Comment: comment,
	}}
}
