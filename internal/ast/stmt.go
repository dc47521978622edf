package ast

import "loom/internal/source"

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// VarDeclStmt declares a binding, optionally typed and initialized.
type VarDeclStmt struct {
	Loc     source.Span
	Name    string
	Type    *TypeSpec // nil means inferred from Value
	Value   Expr      // nil means declared uninitialized
	Mutable bool
}

// AssignStmt stores Value into Target.
type AssignStmt struct {
	Loc    source.Span
	Target Expr
	Value  Expr
}

// IfStmt with optional else branch.
type IfStmt struct {
	Loc  source.Span
	Cond Expr
	Then *Block
	Else Stmt // *Block, *IfStmt, or nil
}

// WhileStmt loops while Cond holds.
type WhileStmt struct {
	Loc  source.Span
	Cond Expr
	Body *Block
}

// ForStmt is a classic three-clause loop; any clause may be nil.
type ForStmt struct {
	Loc  source.Span
	Init Stmt
	Cond Expr
	Post Stmt
	Body *Block
}

// ReturnStmt exits the enclosing function.
type ReturnStmt struct {
	Loc   source.Span
	Value Expr // nil for bare return
}

// TryCatchStmt runs Body and binds a thrown value in Catch.
type TryCatchStmt struct {
	Loc       source.Span
	Body      *Block
	CatchName string
	CatchType *TypeSpec
	Catch     *Block
}

// ThrowStmt raises a value to the nearest enclosing try.
type ThrowStmt struct {
	Loc   source.Span
	Value Expr
}

// RegionStmt is a resource scope: its body allocates into a dedicated
// region that is reclaimed when the block exits.
type RegionStmt struct {
	Loc  source.Span
	Body *Block
}

// BlockStmt is a bare nested block.
type BlockStmt struct {
	Loc  source.Span
	Body *Block
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	Loc source.Span
	E   Expr
}

func (s *VarDeclStmt) Span() source.Span  { return s.Loc }
func (s *AssignStmt) Span() source.Span   { return s.Loc }
func (s *IfStmt) Span() source.Span       { return s.Loc }
func (s *WhileStmt) Span() source.Span    { return s.Loc }
func (s *ForStmt) Span() source.Span      { return s.Loc }
func (s *ReturnStmt) Span() source.Span   { return s.Loc }
func (s *TryCatchStmt) Span() source.Span { return s.Loc }
func (s *ThrowStmt) Span() source.Span    { return s.Loc }
func (s *RegionStmt) Span() source.Span   { return s.Loc }
func (s *BlockStmt) Span() source.Span    { return s.Loc }
func (s *ExprStmt) Span() source.Span     { return s.Loc }

func (*VarDeclStmt) stmtNode()  {}
func (*AssignStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()   {}
func (*TryCatchStmt) stmtNode() {}
func (*ThrowStmt) stmtNode()    {}
func (*RegionStmt) stmtNode()   {}
func (*BlockStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()     {}
