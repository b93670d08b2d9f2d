// Package js_printer turns a lowered tree back into JavaScript source.
// Output is deterministic: two-space indentation, semicolons everywhere,
// double-quoted strings. There is no pretty-printing configuration; the
// printer exists so transforms can be verified and composed, not to match
// anyone's formatting preferences.
package js_printer

import (
	"math"
	"strconv"

	"github.com/tslower/tslower/internal/ast"
)

type PrintResult struct {
	JS []byte
}

func Print(tree *ast.Tree) PrintResult {
	p := &printer{tree: tree}
	for _, stmt := range tree.Stmts {
		p.printStmt(stmt)
	}
	return PrintResult{JS: p.js}
}

// Operator precedence, lowest to highest
type level uint8

const (
	lLowest level = iota
	lComma
	lSpread
	lAssign
	lLogicalOr
	lLogicalAnd
	lBitwiseOr
	lBitwiseXor
	lBitwiseAnd
	lEquals
	lCompare
	lShift
	lAdd
	lMultiply
	lPrefix
	lCall
	lMember
)

func binOpLevel(op ast.OpCode) level {
	switch op {
	case ast.BinOpComma:
		return lComma
	case ast.BinOpAssign:
		return lAssign
	case ast.BinOpLogicalOr:
		return lLogicalOr
	case ast.BinOpLogicalAnd:
		return lLogicalAnd
	case ast.BinOpBitwiseOr:
		return lBitwiseOr
	case ast.BinOpBitwiseXor:
		return lBitwiseXor
	case ast.BinOpBitwiseAnd:
		return lBitwiseAnd
	case ast.BinOpLooseEq, ast.BinOpStrictEq:
		return lEquals
	case ast.BinOpLt, ast.BinOpGt:
		return lCompare
	case ast.BinOpShl, ast.BinOpShr:
		return lShift
	case ast.BinOpAdd, ast.BinOpSub:
		return lAdd
	case ast.BinOpMul, ast.BinOpDiv, ast.BinOpRem:
		return lMultiply
	}
	return lLowest
}

type printer struct {
	tree   *ast.Tree
	js     []byte
	indent int
}

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

func (p *printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		p.print("  ")
	}
}

func (p *printer) printSymbol(ref ast.Ref) {
	p.print(p.tree.NameOf(p.tree.FollowSymbols(ref)))
}

func (p *printer) printQuoted(text string) {
	p.js = strconv.AppendQuote(p.js, text)
}

func (p *printer) printNumber(value float64) {
	if math.IsInf(value, 1) {
		p.print("Infinity")
		return
	}
	if math.IsNaN(value) {
		p.print("NaN")
		return
	}
	if value < 0 {
		// "(-1)" so the sign can't fuse with a preceding operator
		p.print("(")
		p.print(strconv.FormatFloat(value, 'f', -1, 64))
		p.print(")")
		return
	}
	p.print(strconv.FormatFloat(value, 'f', -1, 64))
}

func (p *printer) printStmt(stmt ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *ast.SEmpty:
		return

	case *ast.SBlock:
		p.printIndent()
		p.printBlock(s.Stmts)
		p.print("\n")

	case *ast.SExpr:
		p.printIndent()
		p.printExpr(s.Value, lLowest)
		p.print(";\n")

	case *ast.SReturn:
		p.printIndent()
		if s.ValueOrNil.Data != nil {
			p.print("return ")
			p.printExpr(s.ValueOrNil, lLowest)
			p.print(";\n")
		} else {
			p.print("return;\n")
		}

	case *ast.SIf:
		p.printIndent()
		p.printIf(s)

	case *ast.SLocal:
		p.printIndent()
		if s.IsExport {
			p.print("export ")
		}
		switch s.Kind {
		case ast.LocalVar:
			p.print("var ")
		case ast.LocalLet:
			p.print("let ")
		case ast.LocalConst:
			p.print("const ")
		}
		for i, decl := range s.Decls {
			if i > 0 {
				p.print(", ")
			}
			p.printBinding(decl.Binding)
			if decl.ValueOrNil.Data != nil {
				p.print(" = ")
				p.printExpr(decl.ValueOrNil, lComma)
			}
		}
		p.print(";\n")

	case *ast.SFunction:
		p.printIndent()
		if s.IsExport {
			p.print("export ")
		}
		p.print("function ")
		if s.Fn.Name.Ref != ast.InvalidRef {
			p.printSymbol(s.Fn.Name.Ref)
		}
		p.printFnArgsAndBody(&s.Fn)
		p.print("\n")

	case *ast.SClass:
		p.printIndent()
		if s.IsExport {
			p.print("export ")
		}
		p.printClass(&s.Class)
		p.print("\n")

	case *ast.SImport:
		p.printIndent()
		p.printImport(s)

	case *ast.SExportClause:
		p.printIndent()
		p.print("export {")
		p.printClauseItems(s.Items)
		p.print("};\n")

	case *ast.SExportFrom:
		p.printIndent()
		p.print("export {")
		p.printClauseItems(s.Items)
		p.print("} from ")
		p.printQuoted(s.Path)
		p.print(";\n")

	default:
		panic("Internal error: unexpected statement in printer")
	}
}

func (p *printer) printIf(s *ast.SIf) {
	p.print("if (")
	p.printExpr(s.Test, lLowest)
	p.print(") ")

	if block, ok := s.Yes.Data.(*ast.SBlock); ok {
		p.printBlock(block.Stmts)
	} else {
		p.printBlock([]ast.Stmt{s.Yes})
	}

	if s.NoOrNil.Data == nil {
		p.print("\n")
		return
	}
	p.print(" else ")
	if elseIf, ok := s.NoOrNil.Data.(*ast.SIf); ok {
		p.printIf(elseIf)
		return
	}
	if block, ok := s.NoOrNil.Data.(*ast.SBlock); ok {
		p.printBlock(block.Stmts)
	} else {
		p.printBlock([]ast.Stmt{s.NoOrNil})
	}
	p.print("\n")
}

func (p *printer) printBlock(stmts []ast.Stmt) {
	p.print("{\n")
	p.indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printImport(s *ast.SImport) {
	p.print("import ")

	if s.DefaultName == nil && s.Items == nil && s.StarNameLoc == nil {
		p.printQuoted(s.Path)
		p.print(";\n")
		return
	}

	needsComma := false
	if s.DefaultName != nil {
		p.printSymbol(s.DefaultName.Ref)
		needsComma = true
	}
	if s.StarNameLoc != nil {
		if needsComma {
			p.print(", ")
		}
		p.print("* as ")
		p.printSymbol(s.NamespaceRef)
		needsComma = true
	}
	if s.Items != nil {
		if needsComma {
			p.print(", ")
		}
		p.print("{")
		p.printClauseItems(*s.Items)
		p.print("}")
	}

	p.print(" from ")
	p.printQuoted(s.Path)
	p.print(";\n")
}

func (p *printer) printClauseItems(items []ast.ClauseItem) {
	for i, item := range items {
		if i > 0 {
			p.print(",")
		}
		p.print(" ")
		name := p.tree.NameOf(p.tree.FollowSymbols(item.Name.Ref))
		if name == "" {
			name = item.OriginalName
		}
		p.print(name)
		if item.Alias != name {
			p.print(" as ")
			p.print(item.Alias)
		}
	}
	if len(items) > 0 {
		p.print(" ")
	}
}

func (p *printer) printClass(class *ast.Class) {
	p.print("class")
	if class.Name.Ref != ast.InvalidRef {
		p.print(" ")
		p.printSymbol(class.Name.Ref)
	}
	if class.ExtendsOrNil.Data != nil {
		p.print(" extends ")
		p.printExpr(class.ExtendsOrNil, lCall)
	}
	p.print(" {\n")
	p.indent++

	for _, prop := range class.Properties {
		p.printIndent()
		if prop.IsStatic {
			p.print("static ")
		}
		switch prop.Kind {
		case ast.PropertyGet:
			p.print("get ")
		case ast.PropertySet:
			p.print("set ")
		}

		if prop.IsMethod {
			fn := prop.ValueOrNil.Data.(*ast.EFunction)
			p.printPropertyKey(prop)
			p.printFnArgsAndBody(&fn.Fn)
			p.print("\n")
			continue
		}

		p.printPropertyKey(prop)
		if prop.InitializerOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(prop.InitializerOrNil, lComma)
		}
		p.print(";\n")
	}

	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printPropertyKey(prop ast.Property) {
	if prop.IsComputed {
		p.print("[")
		p.printExpr(prop.Key, lComma)
		p.print("]")
		return
	}
	if str, ok := prop.Key.Data.(*ast.EString); ok {
		if ast.IsIdentifier(str.Value) {
			p.print(str.Value)
		} else {
			p.printQuoted(str.Value)
		}
		return
	}
	p.printExpr(prop.Key, lComma)
}

func (p *printer) printFnArgsAndBody(fn *ast.Fn) {
	p.print("(")
	p.printArgs(fn.Args, fn.HasRestArg)
	p.print(") ")
	p.printBlock(fn.Body.Stmts)
}

func (p *printer) printArgs(args []ast.Arg, hasRestArg bool) {
	for i, arg := range args {
		if i > 0 {
			p.print(", ")
		}
		if hasRestArg && i == len(args)-1 {
			p.print("...")
		}
		p.printBinding(arg.Binding)
		if arg.DefaultOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(arg.DefaultOrNil, lComma)
		}
	}
}

func (p *printer) printBinding(binding ast.Binding) {
	switch b := binding.Data.(type) {
	case *ast.BMissing:

	case *ast.BIdentifier:
		p.printSymbol(b.Ref)

	case *ast.BArray:
		p.print("[")
		for i, item := range b.Items {
			if i > 0 {
				p.print(", ")
			}
			if b.HasSpread && i == len(b.Items)-1 {
				p.print("...")
			}
			p.printBinding(item.Binding)
			if item.DefaultOrNil.Data != nil {
				p.print(" = ")
				p.printExpr(item.DefaultOrNil, lComma)
			}
		}
		p.print("]")

	case *ast.BObject:
		p.print("{ ")
		for i, property := range b.Properties {
			if i > 0 {
				p.print(", ")
			}
			if property.IsComputed {
				p.print("[")
				p.printExpr(property.Key, lComma)
				p.print("]: ")
				p.printBinding(property.Value)
			} else if str, ok := property.Key.Data.(*ast.EString); ok {
				if id, ok := property.Value.Data.(*ast.BIdentifier); ok &&
					p.tree.NameOf(p.tree.FollowSymbols(id.Ref)) == str.Value {
					p.printBinding(property.Value)
				} else {
					p.print(str.Value)
					p.print(": ")
					p.printBinding(property.Value)
				}
			}
			if property.DefaultOrNil.Data != nil {
				p.print(" = ")
				p.printExpr(property.DefaultOrNil, lComma)
			}
		}
		p.print(" }")
	}
}

func (p *printer) printExpr(expr ast.Expr, l level) {
	switch e := expr.Data.(type) {
	case *ast.ENull:
		p.print("null")

	case *ast.EUndefined:
		p.print("void 0")

	case *ast.EThis:
		p.print("this")

	case *ast.ESuper:
		p.print("super")

	case *ast.EBoolean:
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *ast.ENumber:
		p.printNumber(e.Value)

	case *ast.EString:
		p.printQuoted(e.Value)

	case *ast.EIdentifier:
		p.printSymbol(e.Ref)

	case *ast.EInlinedEnum:
		p.printExpr(e.Value, l)
		p.print(" /* ")
		p.print(e.Comment)
		p.print(" */")

	case *ast.EDot:
		p.printExpr(e.Target, lMember)
		p.print(".")
		p.print(e.Name)

	case *ast.EIndex:
		p.printExpr(e.Target, lMember)
		p.print("[")
		p.printExpr(e.Index, lLowest)
		p.print("]")

	case *ast.ECall:
		if e.CanBeUnwrappedIfUnused {
			p.print("/* @__PURE__ */ ")
		}
		p.printExpr(e.Target, lCall)
		p.print("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(arg, lComma)
		}
		p.print(")")

	case *ast.ENew:
		p.print("new ")
		p.printExpr(e.Target, lCall)
		p.print("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(arg, lComma)
		}
		p.print(")")

	case *ast.EUnary:
		text := ast.OpTable[e.Op]
		wrap := l >= lPrefix
		if wrap {
			p.print("(")
		}
		p.print(text)
		if text[0] >= 'a' && text[0] <= 'z' {
			p.print(" ")
		}
		p.printExpr(e.Value, lPrefix)
		if wrap {
			p.print(")")
		}

	case *ast.EBinary:
		entry := binOpLevel(e.Op)
		wrap := l >= entry
		if wrap {
			p.print("(")
		}
		// Assignment is right-associative; everything else here associates left
		if e.Op == ast.BinOpAssign {
			p.printExpr(e.Left, entry)
		} else {
			p.printExpr(e.Left, entry-1)
		}
		if e.Op == ast.BinOpComma {
			p.print(", ")
		} else {
			p.print(" ")
			p.print(ast.OpTable[e.Op])
			p.print(" ")
		}
		if e.Op == ast.BinOpAssign {
			p.printExpr(e.Right, entry-1)
		} else {
			p.printExpr(e.Right, entry)
		}
		if wrap {
			p.print(")")
		}

	case *ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, lComma)

	case *ast.EArray:
		p.print("[")
		for i, item := range e.Items {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(item, lComma)
		}
		p.print("]")

	case *ast.EObject:
		if len(e.Properties) == 0 {
			p.print("{}")
			break
		}
		p.print("{ ")
		for i, prop := range e.Properties {
			if i > 0 {
				p.print(", ")
			}
			if prop.Kind == ast.PropertySpread {
				p.print("...")
				p.printExpr(prop.ValueOrNil, lComma)
				continue
			}
			p.printPropertyKey(prop)
			if prop.ValueOrNil.Data != nil {
				p.print(": ")
				p.printExpr(prop.ValueOrNil, lComma)
			}
		}
		p.print(" }")

	case *ast.EArrow:
		wrap := l >= lAssign
		if wrap {
			p.print("(")
		}
		p.print("(")
		p.printArgs(e.Args, e.HasRestArg)
		p.print(") => ")
		if e.PreferExpr && len(e.Body.Stmts) == 1 {
			if ret, ok := e.Body.Stmts[0].Data.(*ast.SReturn); ok && ret.ValueOrNil.Data != nil {
				p.printExpr(ret.ValueOrNil, lComma)
				if wrap {
					p.print(")")
				}
				break
			}
		}
		p.printBlock(e.Body.Stmts)
		if wrap {
			p.print(")")
		}

	case *ast.EFunction:
		wrap := l >= lCall
		if wrap {
			p.print("(")
		}
		p.print("function")
		if e.Fn.Name.Ref != ast.InvalidRef {
			p.print(" ")
			p.printSymbol(e.Fn.Name.Ref)
		}
		p.printFnArgsAndBody(&e.Fn)
		if wrap {
			p.print(")")
		}

	default:
		panic("Internal error: unexpected expression in printer")
	}
}
