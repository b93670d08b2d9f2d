package ts_lower

// Namespace lowering. Each namespace body becomes an immediately-invoked
// closure receiving the namespace object; fragments of a merged declaration
// share one hoisted "var" and build onto the same object.
//
// Exported variables live on the namespace object: their declarations turn
// into property assignments and every reference, anywhere in the file, is
// rewritten to a property access. Exported functions, classes, enums and
// nested namespaces keep their local binding and are additionally wired
// onto the object, so references inside the closure can stay direct.

import (
	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/logger"
)

func (l *lowerer) scanNamespaceExports(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		if s, ok := stmt.Data.(*ast.SNamespace); ok {
			l.scanNamespaceBody(s.Stmts, s.Arg)
		}
	}
}

func (l *lowerer) scanNamespaceBody(stmts []ast.Stmt, argRef ast.Ref) {
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *ast.SLocal:
			if s.IsExport {
				for _, decl := range s.Decls {
					l.scanExportedBinding(decl.Binding, argRef)
				}
			}

		case *ast.SNamespace:
			l.scanNamespaceBody(s.Stmts, s.Arg)
		}
	}
}

func (l *lowerer) scanExportedBinding(binding ast.Binding, argRef ast.Ref) {
	switch b := binding.Data.(type) {
	case *ast.BIdentifier:
		l.isExportedInsideNamespace[l.tree.FollowSymbols(b.Ref)] = argRef

	case *ast.BArray:
		for _, item := range b.Items {
			l.scanExportedBinding(item.Binding, argRef)
		}

	case *ast.BObject:
		for _, property := range b.Properties {
			l.scanExportedBinding(property.Value, argRef)
		}
	}
}

func (l *lowerer) lowerNamespaceStmts(stmts []ast.Stmt) []ast.Stmt {
	result := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *ast.SNamespace:
			result = l.lowerNamespace(result, stmt, s)
			continue

		case *ast.SBlock:
			s.Stmts = l.lowerNamespaceStmts(s.Stmts)

		case *ast.SExpr:
			s.Value = l.rewriteNamespaceExpr(s.Value)

		case *ast.SReturn:
			if s.ValueOrNil.Data != nil {
				s.ValueOrNil = l.rewriteNamespaceExpr(s.ValueOrNil)
			}

		case *ast.SIf:
			s.Test = l.rewriteNamespaceExpr(s.Test)
			yes := l.lowerNamespaceStmts([]ast.Stmt{s.Yes})
			if len(yes) == 1 {
				s.Yes = yes[0]
			}
			if s.NoOrNil.Data != nil {
				no := l.lowerNamespaceStmts([]ast.Stmt{s.NoOrNil})
				if len(no) == 1 {
					s.NoOrNil = no[0]
				}
			}

		case *ast.SLocal:
			if s.IsExport && l.enclosingNamespaceArgRef != nil {
				result = l.lowerExportedLocal(result, stmt, s)
				continue
			}
			for i := range s.Decls {
				if s.Decls[i].ValueOrNil.Data != nil {
					s.Decls[i].ValueOrNil = l.rewriteNamespaceExpr(s.Decls[i].ValueOrNil)
				}
			}

		case *ast.SFunction:
			l.rewriteNamespaceFn(&s.Fn)
			if s.IsExport && l.enclosingNamespaceArgRef != nil {
				s.IsExport = false
				result = append(result, stmt)
				result = append(result, l.exportNamespaceMember(stmt.Loc, s.Fn.Name))
				continue
			}

		case *ast.SClass:
			l.rewriteNamespaceClass(&s.Class)
			if s.IsExport && l.enclosingNamespaceArgRef != nil {
				s.IsExport = false
				result = append(result, stmt)
				result = append(result, l.exportNamespaceMember(stmt.Loc, s.Class.Name))
				continue
			}
		}

		result = append(result, stmt)
	}
	return result
}

// "ns.name = name" after a declaration exported from a namespace body
func (l *lowerer) exportNamespaceMember(loc logger.Loc, name ast.LocRef) ast.Stmt {
	ref := l.tree.FollowSymbols(name.Ref)
	argRef := *l.enclosingNamespaceArgRef
	l.recordUsage(argRef)
	l.recordUsage(ref)
	return ast.Stmt{Loc: loc, Data: &ast.SExpr{
		Value: ast.Assign(
			ast.Expr{Loc: name.Loc, Data: &ast.EDot{
				Target:  ast.Expr{Loc: name.Loc, Data: &ast.EIdentifier{Ref: argRef}},
				Name:    l.tree.NameOf(ref),
				NameLoc: name.Loc,
			}},
			ast.Expr{Loc: name.Loc, Data: &ast.EIdentifier{Ref: ref}},
		),
	}}
}

// An exported variable declaration inside a namespace becomes property
// assignments: "export const x = 1" prints as "ns.x = 1". Declarations
// without an initializer have no runtime effect and disappear; the binding
// still resolves because reads were rewritten to "ns.x".
func (l *lowerer) lowerExportedLocal(stmts []ast.Stmt, stmt ast.Stmt, s *ast.SLocal) []ast.Stmt {
	var exprs []ast.Expr
	keepDecl := false

	for i := range s.Decls {
		decl := &s.Decls[i]
		if decl.ValueOrNil.Data != nil {
			decl.ValueOrNil = l.rewriteNamespaceExpr(decl.ValueOrNil)
		}

		if id, ok := decl.Binding.Data.(*ast.BIdentifier); ok {
			if decl.ValueOrNil.Data != nil {
				exprs = append(exprs, ast.Assign(
					l.namespaceExportAccess(id.Ref, decl.Binding.Loc),
					decl.ValueOrNil,
				))
			}
		} else {
			// A destructuring pattern keeps its local declaration, then each
			// bound name is copied onto the namespace object
			keepDecl = true
			exprs = l.appendPatternExports(exprs, decl.Binding)
		}
	}

	if keepDecl {
		s.IsExport = false
		stmts = append(stmts, stmt)
	}
	if len(exprs) > 0 {
		stmts = append(stmts, ast.Stmt{Loc: stmt.Loc, Data: &ast.SExpr{
			Value: ast.JoinAllWithComma(exprs),
		}})
	}
	return stmts
}

func (l *lowerer) appendPatternExports(exprs []ast.Expr, binding ast.Binding) []ast.Expr {
	switch b := binding.Data.(type) {
	case *ast.BIdentifier:
		ref := l.tree.FollowSymbols(b.Ref)
		argRef := *l.enclosingNamespaceArgRef
		l.recordUsage(argRef)
		l.recordUsage(ref)
		exprs = append(exprs, ast.Assign(
			ast.Expr{Loc: binding.Loc, Data: &ast.EDot{
				Target:  ast.Expr{Loc: binding.Loc, Data: &ast.EIdentifier{Ref: argRef}},
				Name:    l.tree.NameOf(ref),
				NameLoc: binding.Loc,
			}},
			ast.Expr{Loc: binding.Loc, Data: &ast.EIdentifier{Ref: ref}},
		))

	case *ast.BArray:
		for _, item := range b.Items {
			exprs = l.appendPatternExports(exprs, item.Binding)
		}

	case *ast.BObject:
		for _, property := range b.Properties {
			exprs = l.appendPatternExports(exprs, property.Value)
		}
	}
	return exprs
}

// A read of an exported namespace variable compiles to "ns.x"
func (l *lowerer) namespaceExportAccess(ref ast.Ref, loc logger.Loc) ast.Expr {
	ref = l.tree.FollowSymbols(ref)
	argRef := l.isExportedInsideNamespace[ref]
	l.recordUsage(argRef)
	return ast.Expr{Loc: loc, Data: &ast.EDot{
		Target:  ast.Expr{Loc: loc, Data: &ast.EIdentifier{Ref: argRef}},
		Name:    l.tree.NameOf(ref),
		NameLoc: loc,
	}}
}

func (l *lowerer) lowerNamespace(stmts []ast.Stmt, stmt ast.Stmt, s *ast.SNamespace) []ast.Stmt {
	// A namespace with no runtime statements left after erasure produces no
	// code at all unless some fragment elsewhere forces the object to exist
	if len(s.Stmts) == 0 && !l.isUsedAsValue(s.Name.Ref) &&
		!l.emittedNamespaceVars[l.tree.FollowSymbols(s.Name.Ref)] {
		return stmts
	}

	oldArgRef := l.enclosingNamespaceArgRef
	oldDepth := l.depth
	l.enclosingNamespaceArgRef = &s.Arg
	l.depth++
	stmtsInsideClosure := l.lowerNamespaceStmts(s.Stmts)
	l.depth = oldDepth
	l.enclosingNamespaceArgRef = oldArgRef

	return l.generateClosureForNamespaceOrEnum(stmts, stmt.Loc, s.IsExport,
		s.Name.Loc, s.Name.Ref, s.Arg, stmtsInsideClosure)
}

func (l *lowerer) rewriteNamespaceFn(fn *ast.Fn) {
	for i := range fn.Args {
		if fn.Args[i].DefaultOrNil.Data != nil {
			fn.Args[i].DefaultOrNil = l.rewriteNamespaceExpr(fn.Args[i].DefaultOrNil)
		}
	}
	if fn.HasBody {
		oldDepth := l.depth
		l.depth++
		fn.Body.Stmts = l.lowerNamespaceStmts(fn.Body.Stmts)
		l.depth = oldDepth
	}
}

func (l *lowerer) rewriteNamespaceClass(class *ast.Class) {
	if class.ExtendsOrNil.Data != nil {
		class.ExtendsOrNil = l.rewriteNamespaceExpr(class.ExtendsOrNil)
	}
	for i := range class.TSDecorators {
		class.TSDecorators[i] = l.rewriteNamespaceExpr(class.TSDecorators[i])
	}
	for i := range class.Properties {
		prop := &class.Properties[i]
		for j := range prop.TSDecorators {
			prop.TSDecorators[j] = l.rewriteNamespaceExpr(prop.TSDecorators[j])
		}
		if prop.IsComputed {
			prop.Key = l.rewriteNamespaceExpr(prop.Key)
		}
		if prop.ValueOrNil.Data != nil {
			prop.ValueOrNil = l.rewriteNamespaceExpr(prop.ValueOrNil)
		}
		if prop.InitializerOrNil.Data != nil {
			prop.InitializerOrNil = l.rewriteNamespaceExpr(prop.InitializerOrNil)
		}
	}
}

func (l *lowerer) rewriteNamespaceExpr(expr ast.Expr) ast.Expr {
	switch e := expr.Data.(type) {
	case *ast.EIdentifier:
		if _, ok := l.isExportedInsideNamespace[l.tree.FollowSymbols(e.Ref)]; ok {
			return l.namespaceExportAccess(e.Ref, expr.Loc)
		}

	case *ast.EDot:
		e.Target = l.rewriteNamespaceExpr(e.Target)

	case *ast.EIndex:
		e.Target = l.rewriteNamespaceExpr(e.Target)
		e.Index = l.rewriteNamespaceExpr(e.Index)

	case *ast.ECall:
		e.Target = l.rewriteNamespaceExpr(e.Target)
		for i := range e.Args {
			e.Args[i] = l.rewriteNamespaceExpr(e.Args[i])
		}

	case *ast.ENew:
		e.Target = l.rewriteNamespaceExpr(e.Target)
		for i := range e.Args {
			e.Args[i] = l.rewriteNamespaceExpr(e.Args[i])
		}

	case *ast.EBinary:
		e.Left = l.rewriteNamespaceExpr(e.Left)
		e.Right = l.rewriteNamespaceExpr(e.Right)

	case *ast.EUnary:
		e.Value = l.rewriteNamespaceExpr(e.Value)

	case *ast.ESpread:
		e.Value = l.rewriteNamespaceExpr(e.Value)

	case *ast.EArray:
		for i := range e.Items {
			e.Items[i] = l.rewriteNamespaceExpr(e.Items[i])
		}

	case *ast.EObject:
		for i := range e.Properties {
			prop := &e.Properties[i]
			if prop.IsComputed {
				prop.Key = l.rewriteNamespaceExpr(prop.Key)
			}
			if prop.ValueOrNil.Data != nil {
				prop.ValueOrNil = l.rewriteNamespaceExpr(prop.ValueOrNil)
			}
		}

	case *ast.EArrow:
		for i := range e.Args {
			if e.Args[i].DefaultOrNil.Data != nil {
				e.Args[i].DefaultOrNil = l.rewriteNamespaceExpr(e.Args[i].DefaultOrNil)
			}
		}
		e.Body.Stmts = l.lowerNamespaceStmts(e.Body.Stmts)

	case *ast.EFunction:
		l.rewriteNamespaceFn(&e.Fn)

	case *ast.EInlinedEnum:
		e.Value = l.rewriteNamespaceExpr(e.Value)
	}

	return expr
}
