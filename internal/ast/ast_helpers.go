package ast

func Assign(a Expr, b Expr) Expr {
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpAssign, Left: a, Right: b}}
}

func AssignStmt(a Expr, b Expr) Stmt {
	return Stmt{Loc: a.Loc, Data: &SExpr{Value: Assign(a, b)}}
}

func JoinWithComma(a Expr, b Expr) Expr {
	if a.Data == nil {
		return b
	}
	if b.Data == nil {
		return a
	}
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpComma, Left: a, Right: b}}
}

func JoinAllWithComma(all []Expr) (result Expr) {
	for _, value := range all {
		result = JoinWithComma(result, value)
	}
	return
}

// This only accepts ASCII identifiers, which is fine for deciding between
// "a.b" and "a['b']" forms in generated code. Anything non-ASCII just takes
// the index form.
func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$' {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

// Reports whether an expression is free of side effects when evaluated.
// Used to decide if a generated enum closure call can carry a pure
// annotation downstream.
func ExprCanBeRemovedIfUnused(expr Expr) bool {
	switch e := expr.Data.(type) {
	case *ENull, *EUndefined, *EBoolean, *ENumber, *EString, *EThis:
		return true

	case *EIdentifier:
		return true

	case *EDot:
		// Property access can trigger getters
		return false

	case *EUnary:
		return ExprCanBeRemovedIfUnused(e.Value)

	case *EBinary:
		if e.Op == BinOpAssign {
			return false
		}
		return ExprCanBeRemovedIfUnused(e.Left) && ExprCanBeRemovedIfUnused(e.Right)

	case *EInlinedEnum:
		return ExprCanBeRemovedIfUnused(e.Value)
	}
	return false
}
