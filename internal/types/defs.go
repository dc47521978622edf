package types

import "loom/internal/source"

// TypeDefKind distinguishes struct and enum definitions.
type TypeDefKind uint8

const (
	DefStruct TypeDefKind = iota
	DefEnum
)

// FieldDef is one resolved struct field.
type FieldDef struct {
	Name string
	Type ID
}

// TypeParamDef is one resolved generic parameter of a definition.
type TypeParamDef struct {
	Name   string
	Bounds []Constraint
}

// TypeDef is the resolved definition behind a named type. Consumed by the
// checker and exposed to the contract validator and FFI analyzer.
type TypeDef struct {
	Name       string
	Module     string
	Kind       TypeDefKind
	TypeParams []TypeParamDef
	Fields     []FieldDef
	Variants   []string
	Decl       source.Span
}

// Defs is the registry of named type definitions for one analysis run.
type Defs struct {
	byName map[string]*TypeDef
}

func NewDefs() *Defs {
	return &Defs{byName: make(map[string]*TypeDef)}
}

// Register stores a definition. Returns false when the name already has one.
func (d *Defs) Register(def *TypeDef) bool {
	if _, exists := d.byName[def.Name]; exists {
		return false
	}
	d.byName[def.Name] = def
	return true
}

// Lookup returns the definition behind a type name.
func (d *Defs) Lookup(name string) (*TypeDef, bool) {
	def, ok := d.byName[name]
	return def, ok
}

// IsEnum reports whether name is a registered enum type.
func (d *Defs) IsEnum(name string) bool {
	def, ok := d.byName[name]
	return ok && def.Kind == DefEnum
}

// FindEnumByVariant returns the enum definition declaring the variant.
// Iteration order is unspecified; the language forbids duplicate variant
// names across enums, so at most one definition matches.
func (d *Defs) FindEnumByVariant(variant string) (*TypeDef, bool) {
	for _, def := range d.byName {
		if def.Kind != DefEnum {
			continue
		}
		for _, v := range def.Variants {
			if v == variant {
				return def, true
			}
		}
	}
	return nil, false
}
