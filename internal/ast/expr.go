package ast

import "loom/internal/source"

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// UnaryOp enumerates prefix operators, including the ownership sigils.
type UnaryOp uint8

const (
	UnaryNeg       UnaryOp = iota // -x
	UnaryNot                      // !x
	UnaryBorrow                   // &x
	UnaryMutBorrow                // &mut x
	UnaryMove                     // ^x
	UnaryShare                    // ~x
	UnaryAddressOf                // @x
	UnaryDeref                    // *x
)

// BinaryOp enumerates infix operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

// IsComparison reports whether the operator yields Boolean.
func (op BinaryOp) IsComparison() bool {
	return op >= BinEq && op <= BinGe
}

// IsLogical reports whether the operator takes Boolean operands.
func (op BinaryOp) IsLogical() bool {
	return op == BinAnd || op == BinOr
}

// Ident references a named symbol.
type Ident struct {
	Loc  source.Span
	Name string
}

// IntLit is an integer literal.
type IntLit struct {
	Loc   source.Span
	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	Loc   source.Span
	Value float64
}

// StringLit is a string literal.
type StringLit struct {
	Loc   source.Span
	Value string
}

// BoolLit is true or false.
type BoolLit struct {
	Loc   source.Span
	Value bool
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Loc     source.Span
	Op      UnaryOp
	Operand Expr
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Loc   source.Span
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// CallExpr invokes Callee with Args.
type CallExpr struct {
	Loc    source.Span
	Callee Expr
	Args   []Expr
}

// IndexExpr reads Target[Index].
type IndexExpr struct {
	Loc    source.Span
	Target Expr
	Index  Expr
}

// FieldExpr reads Target.Field.
type FieldExpr struct {
	Loc    source.Span
	Target Expr
	Field  string
}

// ArrayLit is [e0, e1, ...].
type ArrayLit struct {
	Loc   source.Span
	Elems []Expr
}

// MapLit is {k0: v0, ...}.
type MapLit struct {
	Loc    source.Span
	Keys   []Expr
	Values []Expr
}

// StructLit constructs a named struct value.
type StructLit struct {
	Loc      source.Span
	TypeName string
	Fields   []string
	Values   []Expr
}

func (e *Ident) Span() source.Span      { return e.Loc }
func (e *IntLit) Span() source.Span     { return e.Loc }
func (e *FloatLit) Span() source.Span   { return e.Loc }
func (e *StringLit) Span() source.Span  { return e.Loc }
func (e *BoolLit) Span() source.Span    { return e.Loc }
func (e *UnaryExpr) Span() source.Span  { return e.Loc }
func (e *BinaryExpr) Span() source.Span { return e.Loc }
func (e *CallExpr) Span() source.Span   { return e.Loc }
func (e *IndexExpr) Span() source.Span  { return e.Loc }
func (e *FieldExpr) Span() source.Span  { return e.Loc }
func (e *ArrayLit) Span() source.Span   { return e.Loc }
func (e *MapLit) Span() source.Span     { return e.Loc }
func (e *StructLit) Span() source.Span  { return e.Loc }

func (*Ident) exprNode()      {}
func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CallExpr) exprNode()   {}
func (*IndexExpr) exprNode()  {}
func (*FieldExpr) exprNode()  {}
func (*ArrayLit) exprNode()   {}
func (*MapLit) exprNode()     {}
func (*StructLit) exprNode()  {}
