package diag

import "fmt"

// Code identifies one kind of diagnostic.
type Code uint16

const (
	UnknownCode Code = 0

	// Semantic analysis: names and scopes.
	SemaUndefinedSymbol     Code = 3001
	SemaDuplicateDefinition Code = 3002
	SemaScopeMismatch       Code = 3003

	// Semantic analysis: types.
	SemaTypeMismatch          Code = 3010
	SemaInvalidType           Code = 3011
	SemaConstraintViolation   Code = 3012
	SemaGenericInstantiation  Code = 3013
	SemaArgumentCountMismatch Code = 3014

	// Semantic analysis: ownership and borrows.
	SemaUseBeforeInitialization Code = 3020
	SemaUseAfterMove            Code = 3021
	SemaAssignToImmutable       Code = 3022
	SemaInvalidOperation        Code = 3023

	// Semantic analysis: structural limits.
	SemaNestingTooDeep Code = 3030

	// Driver and project surface.
	DrvManifestError   Code = 4001
	DrvIOError         Code = 4002
	DrvImportCycle     Code = 4003
	DrvDuplicateModule Code = 4004
	DrvMissingModule   Code = 4005
	DrvSelfImport      Code = 4006
)

func (c Code) String() string {
	switch c {
	case SemaUndefinedSymbol:
		return "undefined-symbol"
	case SemaDuplicateDefinition:
		return "duplicate-definition"
	case SemaScopeMismatch:
		return "scope-mismatch"
	case SemaTypeMismatch:
		return "type-mismatch"
	case SemaInvalidType:
		return "invalid-type"
	case SemaConstraintViolation:
		return "constraint-violation"
	case SemaGenericInstantiation:
		return "generic-instantiation"
	case SemaArgumentCountMismatch:
		return "argument-count-mismatch"
	case SemaUseBeforeInitialization:
		return "use-before-initialization"
	case SemaUseAfterMove:
		return "use-after-move"
	case SemaAssignToImmutable:
		return "assign-to-immutable"
	case SemaInvalidOperation:
		return "invalid-operation"
	case SemaNestingTooDeep:
		return "nesting-too-deep"
	case DrvManifestError:
		return "manifest-error"
	case DrvIOError:
		return "io-error"
	case DrvImportCycle:
		return "import-cycle"
	case DrvDuplicateModule:
		return "duplicate-module"
	case DrvMissingModule:
		return "missing-module"
	case DrvSelfImport:
		return "self-import"
	default:
		return fmt.Sprintf("code-%04d", uint16(c))
	}
}
