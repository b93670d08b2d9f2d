package ts_lower

// Shared closure generation for enums and namespaces. Both lower to an
// immediately-invoked arrow that receives the partially-built object as an
// argument, so multiple declaration fragments of the same name merge by
// passing the existing object back in.

import (
	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/logger"
)

// generateClosureForNamespaceOrEnum appends
//
//	var name;
//	((name) => { ... })(name || (name = {}));
//
// or, for a declaration exported from inside an enclosing namespace,
//
//	let name;
//	((name) => { ... })(name = enclosing.name || (enclosing.name = {}));
//
// to "stmts". The "var"/"let" is emitted once per merge group.
func (l *lowerer) generateClosureForNamespaceOrEnum(
	stmts []ast.Stmt,
	stmtLoc logger.Loc,
	isExport bool,
	nameLoc logger.Loc,
	nameRef ast.Ref,
	argRef ast.Ref,
	stmtsInsideClosure []ast.Stmt,
) []ast.Stmt {
	canonical := l.tree.FollowSymbols(nameRef)

	// Follow the link chain so sibling fragments of a merged declaration all
	// build onto the same object
	if canonical != nameRef {
		nameRef = canonical
	}

	if !l.emittedNamespaceVars[nameRef] {
		l.emittedNamespaceVars[nameRef] = true
		decls := []ast.Decl{{Binding: ast.Binding{Loc: nameLoc, Data: &ast.BIdentifier{Ref: nameRef}}}}
		if l.enclosingNamespaceArgRef == nil {
			// Top-level namespace: "var"
			stmts = append(stmts, ast.Stmt{Loc: stmtLoc, Data: &ast.SLocal{
				Kind:     ast.LocalVar,
				Decls:    decls,
				IsExport: isExport,
			}})
		} else {
			// Nested namespace: "let"
			stmts = append(stmts, ast.Stmt{Loc: stmtLoc, Data: &ast.SLocal{
				Kind:  ast.LocalLet,
				Decls: decls,
			}})
		}
	}

	var argExpr ast.Expr
	if isExport && l.enclosingNamespaceArgRef != nil {
		// "name = enclosing.name || (enclosing.name = {})"
		name := l.tree.NameOf(nameRef)
		argExpr = ast.Assign(
			ast.Expr{Loc: nameLoc, Data: &ast.EIdentifier{Ref: nameRef}},
			ast.Expr{Loc: nameLoc, Data: &ast.EBinary{
				Op: ast.BinOpLogicalOr,
				Left: ast.Expr{Loc: nameLoc, Data: &ast.EDot{
					Target:  ast.Expr{Loc: nameLoc, Data: &ast.EIdentifier{Ref: *l.enclosingNamespaceArgRef}},
					Name:    name,
					NameLoc: nameLoc,
				}},
				Right: ast.Assign(
					ast.Expr{Loc: nameLoc, Data: &ast.EDot{
						Target:  ast.Expr{Loc: nameLoc, Data: &ast.EIdentifier{Ref: *l.enclosingNamespaceArgRef}},
						Name:    name,
						NameLoc: nameLoc,
					}},
					ast.Expr{Loc: nameLoc, Data: &ast.EObject{}},
				),
			}},
		)
		l.recordUsage(*l.enclosingNamespaceArgRef)
		l.recordUsage(*l.enclosingNamespaceArgRef)
		l.recordUsage(nameRef)
	} else {
		// "name || (name = {})"
		argExpr = ast.Expr{Loc: nameLoc, Data: &ast.EBinary{
			Op:   ast.BinOpLogicalOr,
			Left: ast.Expr{Loc: nameLoc, Data: &ast.EIdentifier{Ref: nameRef}},
			Right: ast.Assign(
				ast.Expr{Loc: nameLoc, Data: &ast.EIdentifier{Ref: nameRef}},
				ast.Expr{Loc: nameLoc, Data: &ast.EObject{}},
			),
		}}
		l.recordUsage(nameRef)
		l.recordUsage(nameRef)
	}

	// "((name) => { ... })(...)"
	stmts = append(stmts, ast.Stmt{Loc: stmtLoc, Data: &ast.SExpr{
		Value: ast.Expr{Loc: stmtLoc, Data: &ast.ECall{
			Target: ast.Expr{Loc: stmtLoc, Data: &ast.EArrow{
				Args: []ast.Arg{{Binding: ast.Binding{Loc: nameLoc, Data: &ast.BIdentifier{Ref: argRef}}}},
				Body: ast.FnBody{Loc: stmtLoc, Stmts: stmtsInsideClosure},
			}},
			Args: []ast.Expr{argExpr},
		}},
	}})

	return stmts
}

// generateClosureForEnum is the top-level enum form:
//
//	var Enum = ((Enum) => { ...; return Enum; })(Enum || {});
//
// Unlike the namespace form, the closure returns the object and the result
// is assigned into the declaration directly, which lets the whole statement
// carry a "@__PURE__" annotation when every member value is side-effect
// free.
func (l *lowerer) generateClosureForEnum(
	stmts []ast.Stmt,
	stmtLoc logger.Loc,
	isExport bool,
	nameLoc logger.Loc,
	nameRef ast.Ref,
	argRef ast.Ref,
	exprsInsideClosure []ast.Expr,
	allValuesArePure bool,
) []ast.Stmt {
	canonical := l.tree.FollowSymbols(nameRef)

	// A fragment that merges with an earlier declaration falls back to the
	// namespace form so it extends the existing object instead of shadowing it
	if l.emittedNamespaceVars[canonical] {
		stmtsInsideClosure := make([]ast.Stmt, 0, len(exprsInsideClosure))
		for _, expr := range exprsInsideClosure {
			stmtsInsideClosure = append(stmtsInsideClosure, ast.Stmt{Loc: expr.Loc, Data: &ast.SExpr{Value: expr}})
		}
		return l.generateClosureForNamespaceOrEnum(stmts, stmtLoc, isExport, nameLoc, canonical, argRef, stmtsInsideClosure)
	}
	l.emittedNamespaceVars[canonical] = true

	stmtsInsideClosure := make([]ast.Stmt, 0, len(exprsInsideClosure)+1)
	for _, expr := range exprsInsideClosure {
		stmtsInsideClosure = append(stmtsInsideClosure, ast.Stmt{Loc: expr.Loc, Data: &ast.SExpr{Value: expr}})
	}
	stmtsInsideClosure = append(stmtsInsideClosure, ast.Stmt{Loc: stmtLoc, Data: &ast.SReturn{
		ValueOrNil: ast.Expr{Loc: stmtLoc, Data: &ast.EIdentifier{Ref: argRef}},
	}})

	// "(Enum || {})"
	argExpr := ast.Expr{Loc: nameLoc, Data: &ast.EBinary{
		Op:    ast.BinOpLogicalOr,
		Left:  ast.Expr{Loc: nameLoc, Data: &ast.EIdentifier{Ref: canonical}},
		Right: ast.Expr{Loc: nameLoc, Data: &ast.EObject{}},
	}}
	l.recordUsage(canonical)

	stmts = append(stmts, ast.Stmt{Loc: stmtLoc, Data: &ast.SLocal{
		Kind:     ast.LocalVar,
		IsExport: isExport,
		Decls: []ast.Decl{{
			Binding: ast.Binding{Loc: nameLoc, Data: &ast.BIdentifier{Ref: canonical}},
			ValueOrNil: ast.Expr{Loc: stmtLoc, Data: &ast.ECall{
				Target: ast.Expr{Loc: stmtLoc, Data: &ast.EArrow{
					Args: []ast.Arg{{Binding: ast.Binding{Loc: nameLoc, Data: &ast.BIdentifier{Ref: argRef}}}},
					Body: ast.FnBody{Loc: stmtLoc, Stmts: stmtsInsideClosure},
				}},
				Args:                   []ast.Expr{argExpr},
				CanBeUnwrappedIfUnused: allValuesArePure,
			}},
		}},
	}})

	return stmts
}
