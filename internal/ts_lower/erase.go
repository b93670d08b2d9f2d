package ts_lower

// Type erasure removes nodes with no runtime representation. Statements
// that disappear entirely (interfaces, type aliases, ambient declarations)
// are dropped without reordering their siblings; annotations attached to
// runtime nodes are stripped while the node itself is kept; cast
// expressions are replaced by their inner expression so the inner side
// effects still happen exactly once. Decorators have runtime effects and
// pass through untouched for a later pass to lower.

import (
	"github.com/tslower/tslower/internal/ast"
)

func (l *lowerer) eraseStmts(stmts []ast.Stmt) []ast.Stmt {
	result := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		stmt, keep := l.eraseStmt(stmt)
		if keep {
			result = append(result, stmt)
		}
	}
	return result
}

func (l *lowerer) eraseStmt(stmt ast.Stmt) (ast.Stmt, bool) {
	switch s := stmt.Data.(type) {
	case *ast.SInterface, *ast.STypeAlias, *ast.STypeScript:
		// Compile-time only, deleted wholesale
		return ast.Stmt{}, false

	case *ast.SDeclare:
		// The declaration itself is compile-time only, but members of an
		// ambient const enum still inline at use sites: no object for them
		// exists at runtime under any policy
		if enum, ok := s.Stmt.Data.(*ast.SEnum); ok && enum.IsConst {
			l.scanAmbientConstEnum(enum)
		}
		return ast.Stmt{}, false

	case *ast.SBlock:
		s.Stmts = l.eraseStmts(s.Stmts)

	case *ast.SExpr:
		s.Value = l.eraseExpr(s.Value)

	case *ast.SReturn:
		if s.ValueOrNil.Data != nil {
			s.ValueOrNil = l.eraseExpr(s.ValueOrNil)
		}

	case *ast.SIf:
		s.Test = l.eraseExpr(s.Test)
		s.Yes, _ = l.eraseStmt(s.Yes)
		if s.NoOrNil.Data != nil {
			s.NoOrNil, _ = l.eraseStmt(s.NoOrNil)
		}

	case *ast.SLocal:
		for i := range s.Decls {
			decl := &s.Decls[i]
			decl.TypeOrNil = ast.Type{}
			decl.HasDefiniteAssign = false
			l.eraseBinding(decl.Binding)
			if decl.ValueOrNil.Data != nil {
				decl.ValueOrNil = l.eraseExpr(decl.ValueOrNil)
			}
		}

	case *ast.SFunction:
		if !s.Fn.HasBody {
			// An overload signature at statement level
			return ast.Stmt{}, false
		}
		l.eraseFn(&s.Fn)

	case *ast.SClass:
		l.eraseClass(&s.Class)

	case *ast.SEnum:
		for i := range s.Values {
			if s.Values[i].ValueOrNil.Data != nil {
				s.Values[i].ValueOrNil = l.eraseExpr(s.Values[i].ValueOrNil)
			}
		}

	case *ast.SNamespace:
		s.Stmts = l.eraseStmts(s.Stmts)
	}

	return stmt, true
}

func (l *lowerer) eraseFn(fn *ast.Fn) {
	for i := range fn.Args {
		arg := &fn.Args[i]
		arg.TypeOrNil = ast.Type{}
		arg.IsOptional = false
		l.eraseBinding(arg.Binding)
		if arg.DefaultOrNil.Data != nil {
			arg.DefaultOrNil = l.eraseExpr(arg.DefaultOrNil)
		}
		for j := range arg.Decorators {
			arg.Decorators[j] = l.eraseExpr(arg.Decorators[j])
		}
	}
	fn.ReturnTypeOrNil = ast.Type{}
	if fn.HasBody {
		fn.Body.Stmts = l.eraseStmts(fn.Body.Stmts)
	}
}

func (l *lowerer) eraseClass(class *ast.Class) {
	class.Implements = nil
	class.IsAbstract = false
	if class.ExtendsOrNil.Data != nil {
		class.ExtendsOrNil = l.eraseExpr(class.ExtendsOrNil)
	}
	for i := range class.TSDecorators {
		class.TSDecorators[i] = l.eraseExpr(class.TSDecorators[i])
	}

	properties := class.Properties[:0]
	for i := range class.Properties {
		prop := class.Properties[i]

		// "[key: string]: T" has no runtime representation
		if prop.IsIndexSignature {
			continue
		}

		prop.TypeOrNil = ast.Type{}
		prop.HasDefiniteAssign = false
		prop.IsOverride = false

		if prop.IsComputed {
			prop.Key = l.eraseExpr(prop.Key)
		}
		for j := range prop.TSDecorators {
			prop.TSDecorators[j] = l.eraseExpr(prop.TSDecorators[j])
		}
		if prop.ValueOrNil.Data != nil {
			prop.ValueOrNil = l.eraseExpr(prop.ValueOrNil)
		}
		if prop.InitializerOrNil.Data != nil {
			prop.InitializerOrNil = l.eraseExpr(prop.InitializerOrNil)
		}

		properties = append(properties, prop)
	}
	class.Properties = properties
}

func (l *lowerer) eraseBinding(binding ast.Binding) {
	switch b := binding.Data.(type) {
	case *ast.BArray:
		for i := range b.Items {
			l.eraseBinding(b.Items[i].Binding)
			if b.Items[i].DefaultOrNil.Data != nil {
				b.Items[i].DefaultOrNil = l.eraseExpr(b.Items[i].DefaultOrNil)
			}
		}

	case *ast.BObject:
		for i := range b.Properties {
			if b.Properties[i].IsComputed {
				b.Properties[i].Key = l.eraseExpr(b.Properties[i].Key)
			}
			l.eraseBinding(b.Properties[i].Value)
			if b.Properties[i].DefaultOrNil.Data != nil {
				b.Properties[i].DefaultOrNil = l.eraseExpr(b.Properties[i].DefaultOrNil)
			}
		}
	}
}

func (l *lowerer) eraseExpr(expr ast.Expr) ast.Expr {
	switch e := expr.Data.(type) {
	case *ast.ETypeCast:
		// "x as T", "x satisfies T", "<T>x" all become "x". The inner
		// expression keeps its original location so diagnostics and source
		// maps still point at it.
		return l.eraseExpr(e.Value)

	case *ast.ENonNull:
		return l.eraseExpr(e.Value)

	case *ast.EDot:
		e.Target = l.eraseExpr(e.Target)

	case *ast.EIndex:
		e.Target = l.eraseExpr(e.Target)
		e.Index = l.eraseExpr(e.Index)

	case *ast.ECall:
		e.Target = l.eraseExpr(e.Target)
		for i := range e.Args {
			e.Args[i] = l.eraseExpr(e.Args[i])
		}

	case *ast.ENew:
		e.Target = l.eraseExpr(e.Target)
		for i := range e.Args {
			e.Args[i] = l.eraseExpr(e.Args[i])
		}

	case *ast.EBinary:
		e.Left = l.eraseExpr(e.Left)
		e.Right = l.eraseExpr(e.Right)

	case *ast.EUnary:
		e.Value = l.eraseExpr(e.Value)

	case *ast.ESpread:
		e.Value = l.eraseExpr(e.Value)

	case *ast.EArray:
		for i := range e.Items {
			e.Items[i] = l.eraseExpr(e.Items[i])
		}

	case *ast.EObject:
		for i := range e.Properties {
			prop := &e.Properties[i]
			if prop.IsComputed {
				prop.Key = l.eraseExpr(prop.Key)
			}
			if prop.ValueOrNil.Data != nil {
				prop.ValueOrNil = l.eraseExpr(prop.ValueOrNil)
			}
		}

	case *ast.EArrow:
		for i := range e.Args {
			e.Args[i].TypeOrNil = ast.Type{}
			e.Args[i].IsOptional = false
			if e.Args[i].DefaultOrNil.Data != nil {
				e.Args[i].DefaultOrNil = l.eraseExpr(e.Args[i].DefaultOrNil)
			}
		}
		e.Body.Stmts = l.eraseStmts(e.Body.Stmts)

	case *ast.EFunction:
		l.eraseFn(&e.Fn)

	case *ast.EInlinedEnum:
		e.Value = l.eraseExpr(e.Value)
	}

	return expr
}
