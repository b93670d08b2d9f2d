package ast

// One file is lowered at a time and is parsed into a separate tree. The
// tree is exclusively owned by the pass that is lowering it: sub-transforms
// rebuild statement slices functionally instead of aliasing nodes, so no
// node is ever reachable from two places at once.
//
// Identifiers in the tree are referenced by a Ref, which is an index into
// the symbol table stored on the tree. Multiple declarations of the same
// name (TypeScript declaration merging) each get their own symbol whose
// Link points at the canonical one, so a name can simultaneously carry a
// value, a type, and a namespace without a single polymorphic record.
//
// Unlike a plain JavaScript tree, this tree still contains TypeScript-only
// node kinds: interface and type alias statements, type annotations on
// declarations and parameters, cast expressions, enum and namespace
// statements. The lowering pass removes every one of them.

import (
	"github.com/tslower/tslower/internal/logger"
)

type Ref struct {
	InnerIndex uint32
}

var InvalidRef = Ref{^uint32(0)}

type LocRef struct {
	Loc logger.Loc
	Ref Ref
}

type SymbolKind uint8

const (
	// An unbound symbol is one that is presumably declared in another file
	SymbolUnbound SymbolKind = iota

	// "var" and function declarations
	SymbolHoisted

	// "let" and "const" declarations
	SymbolOther
	SymbolConst

	SymbolClass
	SymbolImport

	// The value binding of "enum" and "namespace" declarations. Multiple
	// fragments with the same name link to one canonical symbol.
	SymbolTSEnum
	SymbolTSConstEnum
	SymbolTSNamespace

	// Interface and type alias bindings. These never survive lowering.
	SymbolTypeOnly
)

func (kind SymbolKind) IsTypeScriptOnly() bool {
	return kind == SymbolTypeOnly
}

type Symbol struct {
	Kind SymbolKind

	OriginalName string

	// Used by declaration merging. The canonical symbol for a merge group is
	// the one with an invalid link; all other members point at it, possibly
	// through other links.
	Link Ref

	// An estimate of how often this symbol is referenced in a value position.
	// Lowering updates this as it materializes new references.
	UseCountEstimate uint32
}

// The tree handed to and returned by the lowering pass.
type Tree struct {
	Symbols []Symbol
	Stmts   []Stmt
}

func (t *Tree) NewSymbol(kind SymbolKind, name string) Ref {
	ref := Ref{InnerIndex: uint32(len(t.Symbols))}
	t.Symbols = append(t.Symbols, Symbol{
		Kind:         kind,
		OriginalName: name,
		Link:         InvalidRef,
	})
	return ref
}

func (t *Tree) Symbol(ref Ref) *Symbol {
	return &t.Symbols[ref.InnerIndex]
}

// Follow the link chain in case symbols were merged
func (t *Tree) FollowSymbols(ref Ref) Ref {
	symbol := &t.Symbols[ref.InnerIndex]
	if symbol.Link == InvalidRef {
		return ref
	}
	link := t.FollowSymbols(symbol.Link)

	// Only write if needed to avoid concurrent map update hazards
	if symbol.Link != link {
		symbol.Link = link
	}
	return link
}

func (t *Tree) NameOf(ref Ref) string {
	return t.Symbols[ref.InnerIndex].OriginalName
}

type OpCode uint8

// If you add a new token, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof

	// Binary
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpShl
	BinOpShr
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpLooseEq
	BinOpStrictEq
	BinOpLt
	BinOpGt
	BinOpComma
	BinOpAssign
)

var OpTable = []string{
	// Prefix
	"+", "-", "~", "!", "void", "typeof",

	// Binary
	"+", "-", "*", "/", "%", "<<", ">>", "|", "&", "^",
	"||", "&&", "==", "===", "<", ">", ",", "=",
}

type Expr struct {
	Loc  logger.Loc
	Data E
}

type E interface{ isExpr() }

type EArray struct {
	Items []Expr
}

type EArrow struct {
	Args       []Arg
	HasRestArg bool
	Body       FnBody
	PreferExpr bool
}

type EBinary struct {
	Op    OpCode
	Left  Expr
	Right Expr
}

type EBoolean struct {
	Value bool
}

type ECall struct {
	Target Expr
	Args   []Expr

	// Printed with a "@__PURE__" annotation so a minifier can drop the
	// whole call if the result is unused
	CanBeUnwrappedIfUnused bool
}

type EDot struct {
	Target  Expr
	Name    string
	NameLoc logger.Loc
}

type EFunction struct {
	Fn Fn
}

type EIdentifier struct {
	Ref Ref
}

type EIndex struct {
	Target Expr
	Index  Expr
}

// A const enum member reference that was replaced by its literal value. The
// comment preserves the original member name in the output for readability.
type EInlinedEnum struct {
	Value   Expr
	Comment string
}

type ENew struct {
	Target Expr
	Args   []Expr
}

// TypeScript "x!" (erased to "x")
type ENonNull struct {
	Value Expr
}

type ENull struct{}

type ENumber struct {
	Value float64
}

type EObject struct {
	Properties []Property
}

type ESpread struct {
	Value Expr
}

type EString struct {
	Value string
}

type ESuper struct{}

type EThis struct{}

type CastKind uint8

const (
	CastAs CastKind = iota // "x as T"
	CastSatisfies          // "x satisfies T"
	CastAngle              // "<T>x"
)

// TypeScript cast expressions (erased to their inner expression)
type ETypeCast struct {
	Value Expr
	Type  Type
	Kind  CastKind
}

type EUnary struct {
	Op    OpCode
	Value Expr
}

type EUndefined struct{}

func (*EArray) isExpr()       {}
func (*EArrow) isExpr()       {}
func (*EBinary) isExpr()      {}
func (*EBoolean) isExpr()     {}
func (*ECall) isExpr()        {}
func (*EDot) isExpr()         {}
func (*EFunction) isExpr()    {}
func (*EIdentifier) isExpr()  {}
func (*EIndex) isExpr()       {}
func (*EInlinedEnum) isExpr() {}
func (*ENew) isExpr()         {}
func (*ENonNull) isExpr()     {}
func (*ENull) isExpr()        {}
func (*ENumber) isExpr()      {}
func (*EObject) isExpr()      {}
func (*ESpread) isExpr()      {}
func (*EString) isExpr()      {}
func (*ESuper) isExpr()       {}
func (*EThis) isExpr()        {}
func (*ETypeCast) isExpr()    {}
func (*EUnary) isExpr()       {}
func (*EUndefined) isExpr()   {}

// These are singletons to avoid allocations for nodes without payloads
var ENullShared = &ENull{}
var ESuperShared = &ESuper{}
var EThisShared = &EThis{}
var EUndefinedShared = &EUndefined{}

type Stmt struct {
	Loc  logger.Loc
	Data S
}

type S interface{ isStmt() }

type SBlock struct {
	Stmts []Stmt
}

type SClass struct {
	Class     Class
	IsExport  bool
	IsDeclare bool
}

type SEmpty struct{}

type EnumValue struct {
	Loc        logger.Loc
	Name       string
	Ref        Ref // invalid for names that aren't identifiers
	ValueOrNil Expr
}

type SEnum struct {
	Name     LocRef
	Arg      Ref // the closure argument holding the enum object
	Values   []EnumValue
	IsExport bool
	IsConst  bool
}

type SExportClause struct {
	Items      []ClauseItem
	IsTypeOnly bool // "export type { ... }"
}

type SExportFrom struct {
	Items      []ClauseItem
	Path       string
	IsTypeOnly bool
}

type SExpr struct {
	Value Expr
}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

type SIf struct {
	Test    Expr
	Yes     Stmt
	NoOrNil Stmt
}

type SImport struct {
	// When this is a star import, the name is stored on NamespaceRef and
	// StarNameLoc is non-nil
	NamespaceRef Ref
	DefaultName  *LocRef
	Items        *[]ClauseItem
	StarNameLoc  *logger.Loc
	Path         string
	IsTypeOnly   bool // "import type ..."
}

type SInterface struct {
	Name    LocRef
	Extends []Type
	Members []Type
}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

type SLocal struct {
	Kind     LocalKind
	Decls    []Decl
	IsExport bool

	// "import x = require('y')" and "import A = B.C" become local
	// declarations with this flag set. Unexported declarations that are only
	// referenced in type positions are elided like type-only imports.
	WasTSImportEquals bool
}

type SNamespace struct {
	Name     LocRef
	Arg      Ref // the closure argument holding the namespace object
	Stmts    []Stmt
	IsExport bool
}

type SReturn struct {
	ValueOrNil Expr
}

type STypeAlias struct {
	Name LocRef
	Type Type
}

// A statement whose runtime representation is nothing. Erased statements
// are replaced by this marker so sibling order is preserved; the driver
// filters the markers out at the end of each sub-transform.
type STypeScript struct{}

// Ambient "declare ..." statements wrap the declaration they annotate.
// They have no runtime representation and are erased wholesale.
type SDeclare struct {
	Stmt Stmt
}

func (*SBlock) isStmt()        {}
func (*SClass) isStmt()        {}
func (*SDeclare) isStmt()      {}
func (*SEmpty) isStmt()        {}
func (*SEnum) isStmt()         {}
func (*SExportClause) isStmt() {}
func (*SExportFrom) isStmt()   {}
func (*SExpr) isStmt()         {}
func (*SFunction) isStmt()     {}
func (*SIf) isStmt()           {}
func (*SImport) isStmt()       {}
func (*SInterface) isStmt()    {}
func (*SLocal) isStmt()        {}
func (*SNamespace) isStmt()    {}
func (*SReturn) isStmt()       {}
func (*STypeAlias) isStmt()    {}
func (*STypeScript) isStmt()   {}

type ClauseItem struct {
	// The name that appears on the module boundary ("b" in "{a as b}" for an
	// export, "a" for an import)
	Alias    string
	AliasLoc logger.Loc

	// The local binding
	Name LocRef

	OriginalName string

	// "import { type T }" / "export { type T }"
	IsTypeOnly bool
}

type Decl struct {
	Binding    Binding
	ValueOrNil Expr

	// TypeScript-only surface, stripped by erasure
	TypeOrNil         Type
	HasDefiniteAssign bool // "let x!: T"
}

type Binding struct {
	Loc  logger.Loc
	Data B
}

type B interface{ isBinding() }

type BMissing struct{}

type BIdentifier struct {
	Ref Ref
}

type ArrayBinding struct {
	Binding      Binding
	DefaultOrNil Expr
}

type BArray struct {
	Items     []ArrayBinding
	HasSpread bool
}

type PropertyBinding struct {
	Key          Expr
	Value        Binding
	DefaultOrNil Expr
	IsComputed   bool
}

type BObject struct {
	Properties []PropertyBinding
}

func (*BMissing) isBinding()    {}
func (*BIdentifier) isBinding() {}
func (*BArray) isBinding()      {}
func (*BObject) isBinding()     {}

type Fn struct {
	Name       LocRef // invalid ref when anonymous
	Args       []Arg
	HasRestArg bool

	// Overload signatures and ambient functions have no body. The lowering
	// pass deletes them; only the implementation signature survives.
	HasBody bool
	Body    FnBody

	ReturnTypeOrNil Type
}

type FnBody struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type Arg struct {
	Decorators   []Expr
	Binding      Binding
	DefaultOrNil Expr

	// TypeScript-only surface, stripped by erasure
	TypeOrNil  Type
	IsOptional bool

	// A constructor parameter with an accessibility or readonly modifier.
	// Lowering keeps the parameter and inserts a "this.name = name"
	// assignment into the constructor body.
	IsTypeScriptCtorField bool
}

type Class struct {
	Name         LocRef
	ExtendsOrNil Expr
	BodyLoc      logger.Loc
	Properties   []Property

	TSDecorators []Expr

	// TypeScript-only surface, stripped by erasure
	Implements []Type
	IsAbstract bool
}

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyGet
	PropertySet
	PropertySpread
)

type Property struct {
	Kind         PropertyKind
	TSDecorators []Expr
	Key          Expr

	// Methods hold an EFunction here; object literal properties hold the value
	ValueOrNil Expr

	// Class field initializer
	InitializerOrNil Expr

	// TypeScript-only surface
	TypeOrNil         Type
	HasDefiniteAssign bool

	IsComputed       bool
	IsMethod         bool
	IsStatic         bool
	IsDeclare        bool
	IsAbstract       bool
	IsOverride       bool
	IsIndexSignature bool
}

// Type positions only need enough structure for two things: finding which
// identifiers a type references (usage classification) and being deleted
// (erasure). Everything that doesn't reference an identifier is opaque.
type Type struct {
	Loc  logger.Loc
	Data T
}

type T interface{ isType() }

// A type reference such as "Foo" or "A.B<T>". Ref is the binding of the
// head identifier; Name is the printed form of the whole reference.
type TNamed struct {
	Ref  Ref
	Name string
	Args []Type
}

// "typeof x". The referenced binding is a value binding, but the reference
// itself sits in a type position and classifies as a type use.
type TQuery struct {
	Ref  Ref
	Name string
}

// Any other type shape (unions, literals, object types, function types).
// Children are the nested type positions that may reference identifiers.
type TOpaque struct {
	Children []Type
}

func (*TNamed) isType()  {}
func (*TQuery) isType()  {}
func (*TOpaque) isType() {}
