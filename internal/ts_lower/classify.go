package ts_lower

// The usage classifier is a single read-only pass over the tree. Every
// reference site is classified into exactly one of {value, type} based on
// its syntactic position: expressions, default values and decorator
// arguments are value positions; annotations, heritage clauses and type
// arguments are type positions. No type inference is involved. A name
// usable both ways (e.g. a class) simply ends up with both flags set.
//
// Unresolved identifiers are bound to SymbolUnbound by the parser and are
// recorded like any other symbol; the import rewriter treats them as
// external and never elides them.

import (
	"github.com/tslower/tslower/internal/ast"
)

func (l *lowerer) classifyStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		l.classifyStmt(stmt)
	}
}

func (l *lowerer) classifyStmt(stmt ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *ast.SBlock:
		l.classifyStmts(s.Stmts)

	case *ast.SDeclare:
		// Ambient bodies are fully type-level. Initializers inside them never
		// run, so nothing in here counts as a value use.
		l.classifyAmbientStmt(s.Stmt)

	case *ast.SExpr:
		l.classifyExpr(s.Value)

	case *ast.SReturn:
		if s.ValueOrNil.Data != nil {
			l.classifyExpr(s.ValueOrNil)
		}

	case *ast.SIf:
		l.classifyExpr(s.Test)
		l.classifyStmt(s.Yes)
		if s.NoOrNil.Data != nil {
			l.classifyStmt(s.NoOrNil)
		}

	case *ast.SLocal:
		for _, decl := range s.Decls {
			l.classifyBinding(decl.Binding)
			if decl.TypeOrNil.Data != nil {
				l.classifyType(decl.TypeOrNil)
			}
			if decl.ValueOrNil.Data != nil {
				l.classifyExpr(decl.ValueOrNil)
			}
		}

	case *ast.SFunction:
		l.classifyFn(&s.Fn)

	case *ast.SClass:
		l.classifyClass(&s.Class)

	case *ast.SEnum:
		for _, value := range s.Values {
			if value.ValueOrNil.Data != nil {
				l.classifyExpr(value.ValueOrNil)
			}
		}

	case *ast.SNamespace:
		l.classifyStmts(s.Stmts)

	case *ast.SInterface:
		for _, t := range s.Extends {
			l.classifyType(t)
		}
		for _, t := range s.Members {
			l.classifyType(t)
		}

	case *ast.STypeAlias:
		l.classifyType(s.Type)

	case *ast.SExportClause:
		// An export clause keeps each named binding alive at runtime, so the
		// non-type names count as value uses. Without this an import or a
		// lowered declaration could be elided out from under its re-export.
		if !s.IsTypeOnly {
			for _, item := range s.Items {
				if !item.IsTypeOnly {
					l.recordValueUse(item.Name.Ref, item.Name.Loc)
					l.exportedViaClause[l.tree.FollowSymbols(item.Name.Ref)] = true
				}
			}
		}

	case *ast.SImport, *ast.SExportFrom, *ast.SEmpty, *ast.STypeScript:
		// Import clause items are declarations, not uses, and re-exported
		// names live in another file
	}
}

// "declare" statements only contribute type uses: a value mentioned inside
// an ambient declaration keeps an import alive in type positions only.
func (l *lowerer) classifyAmbientStmt(stmt ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *ast.SLocal:
		for _, decl := range s.Decls {
			if decl.TypeOrNil.Data != nil {
				l.classifyType(decl.TypeOrNil)
			}
		}

	case *ast.SFunction:
		for _, arg := range s.Fn.Args {
			if arg.TypeOrNil.Data != nil {
				l.classifyType(arg.TypeOrNil)
			}
		}
		if s.Fn.ReturnTypeOrNil.Data != nil {
			l.classifyType(s.Fn.ReturnTypeOrNil)
		}

	case *ast.SClass:
		for _, t := range s.Class.Implements {
			l.classifyType(t)
		}
		for _, prop := range s.Class.Properties {
			if prop.TypeOrNil.Data != nil {
				l.classifyType(prop.TypeOrNil)
			}
		}

	case *ast.SNamespace:
		for _, child := range s.Stmts {
			l.classifyAmbientStmt(child)
		}

	case *ast.SInterface, *ast.STypeAlias:
		l.classifyStmt(stmt)
	}
}

func (l *lowerer) classifyFn(fn *ast.Fn) {
	for _, arg := range fn.Args {
		for _, decorator := range arg.Decorators {
			l.classifyExpr(decorator)
		}
		l.classifyBinding(arg.Binding)
		if arg.TypeOrNil.Data != nil {
			l.classifyType(arg.TypeOrNil)
		}
		if arg.DefaultOrNil.Data != nil {
			l.classifyExpr(arg.DefaultOrNil)
		}
	}
	if fn.ReturnTypeOrNil.Data != nil {
		l.classifyType(fn.ReturnTypeOrNil)
	}
	if fn.HasBody {
		l.classifyStmts(fn.Body.Stmts)
	}
}

func (l *lowerer) classifyClass(class *ast.Class) {
	for _, decorator := range class.TSDecorators {
		l.classifyExpr(decorator)
	}
	if class.ExtendsOrNil.Data != nil {
		// An "extends" clause is both: the expression evaluates at runtime
		// and the name is also usable as a type
		l.classifyExpr(class.ExtendsOrNil)
	}
	for _, t := range class.Implements {
		l.classifyType(t)
	}
	for _, prop := range class.Properties {
		for _, decorator := range prop.TSDecorators {
			l.classifyExpr(decorator)
		}
		if prop.IsComputed {
			l.classifyExpr(prop.Key)
		}
		if prop.TypeOrNil.Data != nil {
			l.classifyType(prop.TypeOrNil)
		}
		if prop.ValueOrNil.Data != nil {
			l.classifyExpr(prop.ValueOrNil)
		}
		if prop.InitializerOrNil.Data != nil {
			l.classifyExpr(prop.InitializerOrNil)
		}
	}
}

func (l *lowerer) classifyBinding(binding ast.Binding) {
	switch b := binding.Data.(type) {
	case *ast.BMissing, *ast.BIdentifier:
		// Declaration sites are not uses

	case *ast.BArray:
		for _, item := range b.Items {
			l.classifyBinding(item.Binding)
			if item.DefaultOrNil.Data != nil {
				l.classifyExpr(item.DefaultOrNil)
			}
		}

	case *ast.BObject:
		for _, property := range b.Properties {
			if property.IsComputed {
				l.classifyExpr(property.Key)
			}
			l.classifyBinding(property.Value)
			if property.DefaultOrNil.Data != nil {
				l.classifyExpr(property.DefaultOrNil)
			}
		}
	}
}

func (l *lowerer) classifyExpr(expr ast.Expr) {
	switch e := expr.Data.(type) {
	case *ast.EIdentifier:
		l.recordValueUse(e.Ref, expr.Loc)

	case *ast.EDot:
		l.classifyExpr(e.Target)

	case *ast.EIndex:
		l.classifyExpr(e.Target)
		l.classifyExpr(e.Index)

	case *ast.ECall:
		l.classifyExpr(e.Target)
		for _, arg := range e.Args {
			l.classifyExpr(arg)
		}

	case *ast.ENew:
		l.classifyExpr(e.Target)
		for _, arg := range e.Args {
			l.classifyExpr(arg)
		}

	case *ast.EBinary:
		l.classifyExpr(e.Left)
		l.classifyExpr(e.Right)

	case *ast.EUnary:
		l.classifyExpr(e.Value)

	case *ast.ESpread:
		l.classifyExpr(e.Value)

	case *ast.EArray:
		for _, item := range e.Items {
			l.classifyExpr(item)
		}

	case *ast.EObject:
		for _, prop := range e.Properties {
			if prop.IsComputed {
				l.classifyExpr(prop.Key)
			}
			if prop.ValueOrNil.Data != nil {
				l.classifyExpr(prop.ValueOrNil)
			}
		}

	case *ast.EArrow:
		for _, arg := range e.Args {
			l.classifyBinding(arg.Binding)
			if arg.TypeOrNil.Data != nil {
				l.classifyType(arg.TypeOrNil)
			}
			if arg.DefaultOrNil.Data != nil {
				l.classifyExpr(arg.DefaultOrNil)
			}
		}
		l.classifyStmts(e.Body.Stmts)

	case *ast.EFunction:
		l.classifyFn(&e.Fn)

	case *ast.ETypeCast:
		l.classifyExpr(e.Value)
		l.classifyType(e.Type)

	case *ast.ENonNull:
		l.classifyExpr(e.Value)

	case *ast.EInlinedEnum:
		l.classifyExpr(e.Value)
	}
}

func (l *lowerer) classifyType(t ast.Type) {
	switch data := t.Data.(type) {
	case *ast.TNamed:
		if data.Ref != ast.InvalidRef {
			l.recordTypeUse(data.Ref, t.Loc)
		}
		for _, arg := range data.Args {
			l.classifyType(arg)
		}

	case *ast.TQuery:
		// "typeof x" names a value binding from a type position
		if data.Ref != ast.InvalidRef {
			l.recordTypeUse(data.Ref, t.Loc)
		}

	case *ast.TOpaque:
		for _, child := range data.Children {
			l.classifyType(child)
		}
	}
}
