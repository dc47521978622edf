package sema

import (
	"fortio.org/safecast"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/types"
)

// primitiveNames maps surface type names onto the built-in primitives.
var primitiveNames = map[string]types.Primitive{
	"Void":      types.PrimVoid,
	"Boolean":   types.PrimBoolean,
	"Integer":   types.PrimInteger,
	"Integer32": types.PrimInteger32,
	"Integer64": types.PrimInteger64,
	"Float":     types.PrimFloat,
	"Float32":   types.PrimFloat32,
	"Float64":   types.PrimFloat64,
	"String":    types.PrimString,
}

// ASTTypeToType resolves a syntactic type annotation into a semantic type.
// Exposed to the contract validator and FFI analyzer as well as used for
// every declaration in this package.
func (c *Checker) ASTTypeToType(spec *ast.TypeSpec) (types.ID, *diag.Error) {
	if spec == nil {
		return c.in.Builtins().Void, nil
	}
	switch spec.Kind {
	case ast.TypeSpecName:
		return c.resolveNamed(spec)
	case ast.TypeSpecArray:
		elem, err := c.ASTTypeToType(spec.Elem)
		if err != nil {
			return types.None, err
		}
		count := types.DynamicLen
		if spec.Size != nil {
			n, convErr := safecast.Conv[uint32](*spec.Size)
			if convErr != nil {
				return types.None, diag.Errorf(diag.SemaInvalidType, spec.Loc,
					"array length %d is out of range", *spec.Size)
			}
			count = n
		}
		return c.in.Array(elem, count), nil
	case ast.TypeSpecMap:
		key, err := c.ASTTypeToType(spec.Key)
		if err != nil {
			return types.None, err
		}
		value, err := c.ASTTypeToType(spec.Value)
		if err != nil {
			return types.None, err
		}
		return c.in.Map(key, value), nil
	case ast.TypeSpecPointer:
		target, err := c.ASTTypeToType(spec.Elem)
		if err != nil {
			return types.None, err
		}
		return c.in.Pointer(target, spec.Mutable), nil
	case ast.TypeSpecFunction:
		params := make([]types.ID, len(spec.Params))
		for i, p := range spec.Params {
			pt, err := c.ASTTypeToType(p)
			if err != nil {
				return types.None, err
			}
			params[i] = pt
		}
		result := c.in.Builtins().Void
		if spec.Return != nil {
			rt, err := c.ASTTypeToType(spec.Return)
			if err != nil {
				return types.None, err
			}
			result = rt
		}
		return c.in.Function(params, result), nil
	case ast.TypeSpecOwned:
		base, err := c.ASTTypeToType(spec.Elem)
		if err != nil {
			return types.None, err
		}
		return c.in.Owned(ownershipFromAST(spec.Ownership), base), nil
	case ast.TypeSpecGeneric:
		return c.resolveGenericInstance(spec)
	default:
		return types.None, diag.Errorf(diag.SemaInvalidType, spec.Loc,
			"unsupported type annotation")
	}
}

func (c *Checker) resolveNamed(spec *ast.TypeSpec) (types.ID, *diag.Error) {
	if prim, ok := primitiveNames[spec.Name]; ok && spec.Module == "" {
		return c.in.Primitive(prim), nil
	}
	if id, ok := c.typeParams[spec.Name]; ok && spec.Module == "" {
		return id, nil
	}
	if def, ok := c.defs.Lookup(spec.Name); ok {
		module := spec.Module
		if module == "" {
			module = def.Module
		}
		return c.in.Named(spec.Name, module), nil
	}
	// Qualified names refer to modules analyzed earlier; trust the
	// qualifier even when the definition is not registered locally.
	if spec.Module != "" {
		return c.in.Named(spec.Name, spec.Module), nil
	}
	return types.None, diag.Errorf(diag.SemaUndefinedSymbol, spec.Loc,
		"undefined type '%s'", spec.Name)
}

func (c *Checker) resolveGenericInstance(spec *ast.TypeSpec) (types.ID, *diag.Error) {
	args := make([]types.ID, len(spec.Args))
	for i, a := range spec.Args {
		at, err := c.ASTTypeToType(a)
		if err != nil {
			return types.None, err
		}
		args[i] = at
	}
	module := spec.Module
	if def, ok := c.defs.Lookup(spec.Name); ok {
		if len(def.TypeParams) != len(args) {
			return types.None, diag.Errorf(diag.SemaGenericInstantiation, spec.Loc,
				"'%s' expects %d type arguments, found %d",
				spec.Name, len(def.TypeParams), len(args))
		}
		for i, param := range def.TypeParams {
			if violated, ok := c.in.CheckConstraints(args[i], param.Bounds); !ok {
				return types.None, diag.Errorf(diag.SemaConstraintViolation, spec.Args[i].Loc,
					"type argument %s does not satisfy the %s bound on '%s'",
					c.in.String(args[i]), violated.Kind, param.Name)
			}
		}
		if module == "" {
			module = def.Module
		}
	}
	return c.in.GenericInstance(spec.Name, module, args), nil
}

// boundKinds maps surface bound names onto built-in constraint kinds.
var boundKinds = map[string]types.ConstraintKind{
	"Numeric":   types.NumericBound,
	"Equatable": types.EqualityBound,
	"Ordered":   types.OrderBound,
	"Sized":     types.SizeBound,
}

// resolveBounds turns the declared bounds of one generic parameter into
// checkable constraints. Names that are neither built-in bounds nor
// registered types become trait bounds.
func (c *Checker) resolveBounds(param ast.TypeParam) []types.Constraint {
	if len(param.Bounds) == 0 {
		return nil
	}
	out := make([]types.Constraint, 0, len(param.Bounds))
	for _, b := range param.Bounds {
		if kind, ok := boundKinds[b.Name]; ok {
			out = append(out, types.Constraint{Kind: kind, Size: b.Size})
			continue
		}
		if _, ok := c.defs.Lookup(b.Name); ok {
			out = append(out, types.Constraint{Kind: types.SubtypeBound, Name: b.Name})
			continue
		}
		out = append(out, types.Constraint{Kind: types.TraitBound, Name: b.Name})
	}
	return out
}

func ownershipFromAST(own ast.Ownership) types.Ownership {
	switch own {
	case ast.OwnershipBorrowed:
		return types.OwnBorrowed
	case ast.OwnershipMutBorrow:
		return types.OwnMutBorrow
	case ast.OwnershipShared:
		return types.OwnShared
	default:
		return types.OwnOwned
	}
}
