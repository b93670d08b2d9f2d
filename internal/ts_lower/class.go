package ts_lower

// Class member lowering: parameter properties become constructor body
// assignments, and when the target has no class field support, instance
// field initializers move into the constructor and static field
// initializers become assignments after the class. Members that exist only
// for the type checker (overload signatures, abstract members, "declare"
// fields) are dropped here rather than in erasure because deciding what a
// constructor needs requires the full member list.

import (
	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/logger"
)

func (l *lowerer) lowerClassStmts(stmts []ast.Stmt) []ast.Stmt {
	result := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *ast.SClass:
			result = l.lowerClass(result, stmt, s)
			continue

		case *ast.SBlock:
			s.Stmts = l.lowerClassStmts(s.Stmts)

		case *ast.SFunction:
			l.lowerClassesInFn(&s.Fn)

		case *ast.SExpr:
			l.lowerClassesInExpr(s.Value)

		case *ast.SReturn:
			if s.ValueOrNil.Data != nil {
				l.lowerClassesInExpr(s.ValueOrNil)
			}

		case *ast.SIf:
			l.lowerClassesInExpr(s.Test)
			yes := l.lowerClassStmts([]ast.Stmt{s.Yes})
			if len(yes) == 1 {
				s.Yes = yes[0]
			}
			if s.NoOrNil.Data != nil {
				no := l.lowerClassStmts([]ast.Stmt{s.NoOrNil})
				if len(no) == 1 {
					s.NoOrNil = no[0]
				}
			}

		case *ast.SLocal:
			for i := range s.Decls {
				if s.Decls[i].ValueOrNil.Data != nil {
					l.lowerClassesInExpr(s.Decls[i].ValueOrNil)
				}
			}
		}

		result = append(result, stmt)
	}
	return result
}

// Classes can hide inside the closures generated by the enum and namespace
// passes, so this pass has to look through expression-level function bodies
func (l *lowerer) lowerClassesInExpr(expr ast.Expr) {
	switch e := expr.Data.(type) {
	case *ast.EArrow:
		e.Body.Stmts = l.lowerClassStmts(e.Body.Stmts)

	case *ast.EFunction:
		l.lowerClassesInFn(&e.Fn)

	case *ast.ECall:
		l.lowerClassesInExpr(e.Target)
		for _, arg := range e.Args {
			l.lowerClassesInExpr(arg)
		}

	case *ast.ENew:
		l.lowerClassesInExpr(e.Target)
		for _, arg := range e.Args {
			l.lowerClassesInExpr(arg)
		}

	case *ast.EBinary:
		l.lowerClassesInExpr(e.Left)
		l.lowerClassesInExpr(e.Right)

	case *ast.EUnary:
		l.lowerClassesInExpr(e.Value)

	case *ast.ESpread:
		l.lowerClassesInExpr(e.Value)

	case *ast.EDot:
		l.lowerClassesInExpr(e.Target)

	case *ast.EIndex:
		l.lowerClassesInExpr(e.Target)
		l.lowerClassesInExpr(e.Index)

	case *ast.EArray:
		for _, item := range e.Items {
			l.lowerClassesInExpr(item)
		}

	case *ast.EObject:
		for _, prop := range e.Properties {
			if prop.ValueOrNil.Data != nil {
				l.lowerClassesInExpr(prop.ValueOrNil)
			}
		}

	case *ast.EInlinedEnum:
		l.lowerClassesInExpr(e.Value)
	}
}

func (l *lowerer) lowerClassesInFn(fn *ast.Fn) {
	if fn.HasBody {
		fn.Body.Stmts = l.lowerClassStmts(fn.Body.Stmts)
	}
}

func (l *lowerer) lowerClass(stmts []ast.Stmt, stmt ast.Stmt, s *ast.SClass) []ast.Stmt {
	class := &s.Class
	var ctor *ast.EFunction
	var parameterFields []ast.Stmt
	var instanceFields []ast.Stmt
	var staticFields []ast.Expr

	// First filter out members with no runtime representation, then pull the
	// field initializers that have to move
	properties := class.Properties[:0]
	for i := range class.Properties {
		prop := class.Properties[i]

		if prop.IsAbstract || prop.IsDeclare {
			continue
		}

		if prop.IsMethod {
			fn, ok := prop.ValueOrNil.Data.(*ast.EFunction)
			if ok && !fn.Fn.HasBody {
				// An overload signature
				continue
			}
			if ok {
				l.lowerClassesInFn(&fn.Fn)
				if isConstructor(prop) {
					ctor = fn
					parameterFields = l.lowerParameterProperties(fn)
				}
			}
			properties = append(properties, prop)
			continue
		}

		if prop.InitializerOrNil.Data != nil {
			l.lowerClassesInExpr(prop.InitializerOrNil)
		}

		// Move the initializer when the target can't declare fields in place
		if prop.Kind == ast.PropertyNormal && !l.options.TargetSupportsClassFields {
			if prop.IsStatic {
				if prop.InitializerOrNil.Data != nil {
					staticFields = append(staticFields,
						l.fieldAssignment(classNameExpr(class, stmt.Loc), prop))
					l.recordUsage(class.Name.Ref)
				}
				continue
			}
			if prop.InitializerOrNil.Data != nil {
				target := ast.Expr{Loc: prop.Key.Loc, Data: ast.EThisShared}
				instanceFields = append(instanceFields, ast.Stmt{Loc: prop.Key.Loc, Data: &ast.SExpr{
					Value: l.fieldAssignment(target, prop),
				}})
			}
			// A bare field declaration has no runtime effect here
			continue
		}

		properties = append(properties, prop)
	}
	class.Properties = properties

	// Everything that must run in the constructor
	prefix := append(parameterFields, instanceFields...)
	if len(prefix) > 0 {
		if ctor == nil {
			ctor = l.synthesizeConstructor(class, stmt.Loc)
			// The synthesized constructor goes first so the printed class reads
			// naturally
			class.Properties = append([]ast.Property{{
				Kind:       ast.PropertyNormal,
				IsMethod:   true,
				Key:        ast.Expr{Loc: stmt.Loc, Data: &ast.EString{Value: "constructor"}},
				ValueOrNil: ast.Expr{Loc: stmt.Loc, Data: ctor},
			}}, class.Properties...)
		}
		ctor.Fn.Body.Stmts = l.insertAfterSuperCall(ctor.Fn.Body.Stmts, prefix, class.ExtendsOrNil.Data != nil, ctor.Fn.Body.Loc)
	}

	stmts = append(stmts, stmt)
	for _, expr := range staticFields {
		stmts = append(stmts, ast.Stmt{Loc: expr.Loc, Data: &ast.SExpr{Value: expr}})
	}
	return stmts
}

func isConstructor(prop ast.Property) bool {
	if str, ok := prop.Key.Data.(*ast.EString); ok {
		return !prop.IsStatic && !prop.IsComputed && str.Value == "constructor"
	}
	return false
}

func classNameExpr(class *ast.Class, loc logger.Loc) ast.Expr {
	return ast.Expr{Loc: loc, Data: &ast.EIdentifier{Ref: class.Name.Ref}}
}

// "this.x = value" or, through the helper hook, "__publicField(this, 'x',
// value)" which matches the define semantics of real field declarations
func (l *lowerer) fieldAssignment(target ast.Expr, prop ast.Property) ast.Expr {
	if l.options.RequireHelper != nil {
		helperRef := l.options.RequireHelper("__publicField")
		l.recordUsage(helperRef)
		return ast.Expr{Loc: prop.Key.Loc, Data: &ast.ECall{
			Target: ast.Expr{Loc: prop.Key.Loc, Data: &ast.EIdentifier{Ref: helperRef}},
			Args:   []ast.Expr{target, prop.Key, prop.InitializerOrNil},
		}}
	}

	var member ast.Expr
	if str, ok := prop.Key.Data.(*ast.EString); ok && !prop.IsComputed && ast.IsIdentifier(str.Value) {
		member = ast.Expr{Loc: prop.Key.Loc, Data: &ast.EDot{
			Target:  target,
			Name:    str.Value,
			NameLoc: prop.Key.Loc,
		}}
	} else {
		member = ast.Expr{Loc: prop.Key.Loc, Data: &ast.EIndex{
			Target: target,
			Index:  prop.Key,
		}}
	}
	return ast.Assign(member, prop.InitializerOrNil)
}

// Parameter properties: "constructor(public x: number)" declares and
// initializes a field from the argument. The argument binding stays; a
// "this.x = x" assignment is added to the constructor body.
func (l *lowerer) lowerParameterProperties(ctor *ast.EFunction) []ast.Stmt {
	var assignments []ast.Stmt
	for i := range ctor.Fn.Args {
		arg := &ctor.Fn.Args[i]
		if !arg.IsTypeScriptCtorField {
			continue
		}
		arg.IsTypeScriptCtorField = false

		id, ok := arg.Binding.Data.(*ast.BIdentifier)
		if !ok {
			l.log.AddRangeError(&l.source, l.rangeOf(arg.Binding.Loc),
				"A parameter property may not be declared using a binding pattern")
			continue
		}

		ref := l.tree.FollowSymbols(id.Ref)
		name := l.tree.NameOf(ref)
		l.recordUsage(ref)
		assignments = append(assignments, ast.Stmt{Loc: arg.Binding.Loc, Data: &ast.SExpr{
			Value: ast.Assign(
				ast.Expr{Loc: arg.Binding.Loc, Data: &ast.EDot{
					Target:  ast.Expr{Loc: arg.Binding.Loc, Data: ast.EThisShared},
					Name:    name,
					NameLoc: arg.Binding.Loc,
				}},
				ast.Expr{Loc: arg.Binding.Loc, Data: &ast.EIdentifier{Ref: ref}},
			),
		}})
	}
	return assignments
}

// A derived class with moved field initializers but no written constructor
// gets "constructor() { super(...arguments) }"
func (l *lowerer) synthesizeConstructor(class *ast.Class, loc logger.Loc) *ast.EFunction {
	var body []ast.Stmt
	if class.ExtendsOrNil.Data != nil {
		body = append(body, l.callSuperWithArguments(loc))
	}
	return &ast.EFunction{Fn: ast.Fn{
		Name:    ast.LocRef{Loc: loc, Ref: ast.InvalidRef},
		HasBody: true,
		Body:    ast.FnBody{Loc: loc, Stmts: body},
	}}
}

// "super(...arguments)"
func (l *lowerer) callSuperWithArguments(loc logger.Loc) ast.Stmt {
	argumentsRef := l.tree.NewSymbol(ast.SymbolUnbound, "arguments")
	return ast.Stmt{Loc: loc, Data: &ast.SExpr{
		Value: ast.Expr{Loc: loc, Data: &ast.ECall{
			Target: ast.Expr{Loc: loc, Data: ast.ESuperShared},
			Args: []ast.Expr{{Loc: loc, Data: &ast.ESpread{
				Value: ast.Expr{Loc: loc, Data: &ast.EIdentifier{Ref: argumentsRef}},
			}}},
		}},
	}}
}

// Field initialization must observe "this", which in a derived class only
// exists after "super()" runs. The inserted statements go right after the
// first top-level super call, or at the front of the body for a base class.
// A written constructor in a derived class that never calls super at the
// top level gets the same "super(...arguments)" shim a synthesized one does.
func (l *lowerer) insertAfterSuperCall(body []ast.Stmt, prefix []ast.Stmt, isDerived bool, loc logger.Loc) []ast.Stmt {
	if isDerived {
		for i, stmt := range body {
			if expr, ok := stmt.Data.(*ast.SExpr); ok {
				if call, ok := expr.Value.Data.(*ast.ECall); ok {
					if _, ok := call.Target.Data.(*ast.ESuper); ok {
						result := make([]ast.Stmt, 0, len(body)+len(prefix))
						result = append(result, body[:i+1]...)
						result = append(result, prefix...)
						result = append(result, body[i+1:]...)
						return result
					}
				}
			}
		}
		prefix = append([]ast.Stmt{l.callSuperWithArguments(loc)}, prefix...)
	}
	return append(append(make([]ast.Stmt, 0, len(body)+len(prefix)), prefix...), body...)
}
