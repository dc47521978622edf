// Package ast defines the syntax tree handed to semantic analysis by the
// parser. The checker never mutates these nodes; all derived facts live in
// the symbol table and the analysis results.
package ast

import "loom/internal/source"

// Node is the common interface of every syntax node.
type Node interface {
	Span() source.Span
}

// Module is one parsed source module.
type Module struct {
	Loc       source.Span
	Name      string
	Imports   []Import
	Types     []*TypeDecl
	Globals   []*VarDeclStmt
	Functions []*Function
	Externs   []*ExternalFunction
}

func (m *Module) Span() source.Span { return m.Loc }

// Import names another module this one depends on.
type Import struct {
	Loc  source.Span
	Path string
}

// Function is a function declaration with a body.
type Function struct {
	Loc      source.Span
	Name     string
	Params   []*Parameter
	Variadic *Parameter // nil unless the function takes trailing variadic args
	Return   *TypeSpec  // nil means void
	Body     *Block
}

func (f *Function) Span() source.Span { return f.Loc }

// ExternalFunction declares a function implemented outside the language.
type ExternalFunction struct {
	Loc    source.Span
	Name   string
	Params []*Parameter
	Return *TypeSpec
}

func (f *ExternalFunction) Span() source.Span { return f.Loc }

// Parameter is one declared function parameter.
type Parameter struct {
	Loc     source.Span
	Name    string
	Type    *TypeSpec
	Mutable bool
}

func (p *Parameter) Span() source.Span { return p.Loc }

// TypeDeclKind distinguishes struct and enum declarations.
type TypeDeclKind uint8

const (
	TypeDeclStruct TypeDeclKind = iota
	TypeDeclEnum
)

// Field is a named struct field.
type Field struct {
	Loc  source.Span
	Name string
	Type *TypeSpec
}

// TypeParam declares one generic parameter with its bounds.
type TypeParam struct {
	Loc    source.Span
	Name   string
	Bounds []TypeBound
}

// TypeBound names one constraint on a generic parameter, e.g. `T: Numeric`
// or `T: Sized(8)`. The parser records the surface name; semantic analysis
// maps it onto a constraint kind.
type TypeBound struct {
	Loc  source.Span
	Name string
	Size int // Sized(n) bounds only
}

// TypeDecl declares a named struct or enum type.
type TypeDecl struct {
	Loc        source.Span
	Name       string
	Kind       TypeDeclKind
	TypeParams []TypeParam
	Fields     []Field  // struct
	Variants   []string // enum
}

func (d *TypeDecl) Span() source.Span { return d.Loc }

// Block is a braced statement list opening a lexical scope.
type Block struct {
	Loc   source.Span
	Stmts []Stmt
}

func (b *Block) Span() source.Span { return b.Loc }
