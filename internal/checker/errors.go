package checker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/veldlang/veld/internal/ast"
)

// TypeError is a fatal checking diagnostic. Every variant carries at
// least one span and enough structured data to render a helpful message;
// unification errors carry the operands as the user wrote them
// (pre-substitution, post-unalias).
type TypeError interface {
	error
	typeError()
	// Code is a stable identifier for the error variant, e.g. "VEL3001".
	Code() string
	// Spans returns the source locations the error points at.
	Spans() []ast.Span
}

// Identifier errors.

// UnknownVariable reports a value reference that isn't in scope.
type UnknownVariable struct {
	Span         ast.Span
	Variable     ast.QualifiedName
	NamesInScope []ast.QualifiedName
}

// UnknownConstructor reports a constructor reference that isn't in scope.
type UnknownConstructor struct {
	Span                ast.Span
	Constructor         ast.QualifiedProperName
	ConstructorsInScope []ast.QualifiedProperName
}

// UnknownTypeVariable reports a type variable not bound by the enclosing
// declaration or annotation.
type UnknownTypeVariable struct {
	Span     ast.Span
	Variable ast.Name
}

// UnknownTypeConstructor reports a type name that isn't in scope.
type UnknownTypeConstructor struct {
	Span         ast.Span
	Constructor  ast.QualifiedProperName
	TypesInScope []ast.QualifiedProperName
}

// PackageNotFound reports an import from a package absent from the
// environment.
type PackageNotFound struct {
	Span    ast.Span
	Package ast.PackageName
}

// ModuleNotFound reports an import of a module absent from the
// environment.
type ModuleNotFound struct {
	Span       ast.Span
	Package    ast.PackageName
	ModuleName ast.ModuleName
}

// UnknownValueExport reports an export list entry with no matching value
// declaration.
type UnknownValueExport struct {
	Span ast.Span
	Name ast.Name
}

// UnknownTypeExport reports an export list entry with no matching type
// declaration.
type UnknownTypeExport struct {
	Span     ast.Span
	TypeName ast.ProperName
}

// UnknownValueImport reports an import list entry the module doesn't
// export.
type UnknownValueImport struct {
	Span ast.Span
	Name ast.Name
}

// UnknownTypeImport reports an import list entry the module doesn't
// export.
type UnknownTypeImport struct {
	Span     ast.Span
	TypeName ast.ProperName
}

// NoVisibleConstructors reports `T(..)` in an import list where the
// module exports no constructors for T.
type NoVisibleConstructors struct {
	Span     ast.Span
	TypeName ast.ProperName
}

// Binding errors.

// DuplicateFunctionBinder reports two parameters of one function sharing
// a name.
type DuplicateFunctionBinder struct {
	Previous  ast.Span
	Duplicate ast.Span
	Name      ast.Name
}

// DuplicatePatternBinder reports one pattern binding a name twice.
type DuplicatePatternBinder struct {
	Previous  ast.Span
	Duplicate ast.Span
	Name      ast.Name
}

// DuplicateValueDeclaration reports two top-level values sharing a name.
type DuplicateValueDeclaration struct {
	Previous  ast.Span
	Duplicate ast.Span
	Name      ast.Name
}

// DuplicateTypeDeclaration reports two type declarations sharing a name.
type DuplicateTypeDeclaration struct {
	Previous  ast.Span
	Duplicate ast.Span
	TypeName  ast.ProperName
}

// DuplicateTypeConstructor reports two constructors sharing a name.
type DuplicateTypeConstructor struct {
	Previous  ast.Span
	Duplicate ast.Span
	Name      ast.ProperName
}

// DuplicateTypeDeclarationVariable reports a type parameter declared
// twice on one declaration.
type DuplicateTypeDeclarationVariable struct {
	Previous  ast.Span
	Duplicate ast.Span
	Name      ast.Name
}

// DuplicateImportLine reports the same module imported twice.
type DuplicateImportLine struct {
	Previous  ast.Span
	Duplicate ast.Span
}

// DuplicateImportModule reports two import lines resolving to the same
// qualifier.
type DuplicateImportModule struct {
	Previous  ast.Span
	Duplicate ast.Span
	Qualifier ast.ProperName
}

// ReboundValueImport reports an unqualified value import clashing with a
// name already in scope.
type ReboundValueImport struct {
	Previous ast.Span
	Rebound  ast.Span
	Name     ast.Name
}

// ReboundTypeImport reports an unqualified type import clashing with a
// name already in scope.
type ReboundTypeImport struct {
	Previous ast.Span
	Rebound  ast.Span
	TypeName ast.ProperName
}

// ReboundConstructorImport reports an imported constructor clashing with
// a constructor already in scope.
type ReboundConstructorImport struct {
	Previous ast.Span
	Rebound  ast.Span
	Name     ast.ProperName
}

// DuplicateRecordField reports a record literal or record type repeating
// a label.
type DuplicateRecordField struct {
	Previous  ast.Span
	Duplicate ast.Span
	Label     ast.Name
}

// Unification errors.

// TypesNotEqual reports a failed type unification.
type TypesNotEqual struct {
	Span     ast.Span
	Expected ast.Type
	Actual   ast.Type
}

// KindsNotEqual reports a failed kind unification.
type KindsNotEqual struct {
	Span     ast.Span
	Expected ast.Kind
	Actual   ast.Kind
}

// InfiniteType reports an occurs-check failure during type unification.
type InfiniteType struct {
	Span         ast.Span
	Var          ast.Var
	InfiniteType ast.Type
}

// InfiniteKind reports an occurs-check failure during kind unification.
type InfiniteKind struct {
	Span         ast.Span
	Var          ast.Var
	InfiniteKind ast.Kind
}

// UnexpectedRecordField reports a label a record-like type doesn't allow.
type UnexpectedRecordField struct {
	Span           ast.Span
	Label          ast.Name
	RecordLikeType ast.Type
}

// MissingRecordFields reports labels a record must have but doesn't.
type MissingRecordFields struct {
	Span    ast.Span
	Missing ast.Row
}

// Shape errors.

// NotAFunction reports a call whose callee isn't a function.
type NotAFunction struct {
	Span       ast.Span
	ActualType ast.Type
}

// TypeNotAFunction reports a type application whose head isn't a
// parameterized type.
type TypeNotAFunction struct {
	Span       ast.Span
	ActualKind ast.Kind
}

// ArgumentLengthMismatch reports a call with the wrong number of
// arguments.
type ArgumentLengthMismatch struct {
	FunctionSpan ast.Span
	Wanted       int
	Got          int
}

// TypeArgumentLengthMismatch reports a type application with the wrong
// number of arguments.
type TypeArgumentLengthMismatch struct {
	FunctionSpan ast.Span
	Wanted       int
	Got          int
}

// Pattern errors.

// MatchNotExhaustive reports a match whose arms don't cover the
// scrutinee's type. MissingPatterns holds rendered patterns in the order
// the coverage search finds them.
type MatchNotExhaustive struct {
	MatchSpan       ast.Span
	MissingPatterns []string
}

// RefutableFunctionBinder reports a binder pattern that doesn't cover
// its type on its own.
type RefutableFunctionBinder struct {
	Span            ast.Span
	MissingPatterns []string
}

func (*UnknownVariable) typeError()                  {}
func (*UnknownConstructor) typeError()               {}
func (*UnknownTypeVariable) typeError()              {}
func (*UnknownTypeConstructor) typeError()           {}
func (*PackageNotFound) typeError()                  {}
func (*ModuleNotFound) typeError()                   {}
func (*UnknownValueExport) typeError()               {}
func (*UnknownTypeExport) typeError()                {}
func (*UnknownValueImport) typeError()               {}
func (*UnknownTypeImport) typeError()                {}
func (*NoVisibleConstructors) typeError()            {}
func (*DuplicateFunctionBinder) typeError()          {}
func (*DuplicatePatternBinder) typeError()           {}
func (*DuplicateValueDeclaration) typeError()        {}
func (*DuplicateTypeDeclaration) typeError()         {}
func (*DuplicateTypeConstructor) typeError()         {}
func (*DuplicateTypeDeclarationVariable) typeError() {}
func (*DuplicateImportLine) typeError()              {}
func (*DuplicateImportModule) typeError()            {}
func (*ReboundValueImport) typeError()               {}
func (*ReboundTypeImport) typeError()                {}
func (*ReboundConstructorImport) typeError()         {}
func (*DuplicateRecordField) typeError()             {}
func (*TypesNotEqual) typeError()                    {}
func (*KindsNotEqual) typeError()                    {}
func (*InfiniteType) typeError()                     {}
func (*InfiniteKind) typeError()                     {}
func (*UnexpectedRecordField) typeError()            {}
func (*MissingRecordFields) typeError()              {}
func (*NotAFunction) typeError()                     {}
func (*TypeNotAFunction) typeError()                 {}
func (*ArgumentLengthMismatch) typeError()           {}
func (*TypeArgumentLengthMismatch) typeError()       {}
func (*MatchNotExhaustive) typeError()               {}
func (*RefutableFunctionBinder) typeError()          {}

func (e *UnknownVariable) Code() string                  { return "VEL1001" }
func (e *UnknownConstructor) Code() string               { return "VEL1002" }
func (e *UnknownTypeVariable) Code() string              { return "VEL1003" }
func (e *UnknownTypeConstructor) Code() string           { return "VEL1004" }
func (e *PackageNotFound) Code() string                  { return "VEL1005" }
func (e *ModuleNotFound) Code() string                   { return "VEL1006" }
func (e *UnknownValueExport) Code() string               { return "VEL1007" }
func (e *UnknownTypeExport) Code() string                { return "VEL1008" }
func (e *UnknownValueImport) Code() string               { return "VEL1009" }
func (e *UnknownTypeImport) Code() string                { return "VEL1010" }
func (e *NoVisibleConstructors) Code() string            { return "VEL1011" }
func (e *DuplicateFunctionBinder) Code() string          { return "VEL2001" }
func (e *DuplicatePatternBinder) Code() string           { return "VEL2002" }
func (e *DuplicateValueDeclaration) Code() string        { return "VEL2003" }
func (e *DuplicateTypeDeclaration) Code() string         { return "VEL2004" }
func (e *DuplicateTypeConstructor) Code() string         { return "VEL2005" }
func (e *DuplicateTypeDeclarationVariable) Code() string { return "VEL2006" }
func (e *DuplicateImportLine) Code() string              { return "VEL2007" }
func (e *DuplicateImportModule) Code() string            { return "VEL2008" }
func (e *ReboundValueImport) Code() string               { return "VEL2009" }
func (e *ReboundTypeImport) Code() string                { return "VEL2010" }
func (e *ReboundConstructorImport) Code() string         { return "VEL2011" }
func (e *DuplicateRecordField) Code() string             { return "VEL2012" }
func (e *TypesNotEqual) Code() string                    { return "VEL3001" }
func (e *KindsNotEqual) Code() string                    { return "VEL3002" }
func (e *InfiniteType) Code() string                     { return "VEL3003" }
func (e *InfiniteKind) Code() string                     { return "VEL3004" }
func (e *UnexpectedRecordField) Code() string            { return "VEL3005" }
func (e *MissingRecordFields) Code() string              { return "VEL3006" }
func (e *NotAFunction) Code() string                     { return "VEL4001" }
func (e *TypeNotAFunction) Code() string                 { return "VEL4002" }
func (e *ArgumentLengthMismatch) Code() string           { return "VEL4003" }
func (e *TypeArgumentLengthMismatch) Code() string       { return "VEL4004" }
func (e *MatchNotExhaustive) Code() string               { return "VEL5001" }
func (e *RefutableFunctionBinder) Code() string          { return "VEL5002" }

func (e *UnknownVariable) Spans() []ast.Span        { return []ast.Span{e.Span} }
func (e *UnknownConstructor) Spans() []ast.Span     { return []ast.Span{e.Span} }
func (e *UnknownTypeVariable) Spans() []ast.Span    { return []ast.Span{e.Span} }
func (e *UnknownTypeConstructor) Spans() []ast.Span { return []ast.Span{e.Span} }
func (e *PackageNotFound) Spans() []ast.Span        { return []ast.Span{e.Span} }
func (e *ModuleNotFound) Spans() []ast.Span         { return []ast.Span{e.Span} }
func (e *UnknownValueExport) Spans() []ast.Span     { return []ast.Span{e.Span} }
func (e *UnknownTypeExport) Spans() []ast.Span      { return []ast.Span{e.Span} }
func (e *UnknownValueImport) Spans() []ast.Span     { return []ast.Span{e.Span} }
func (e *UnknownTypeImport) Spans() []ast.Span      { return []ast.Span{e.Span} }
func (e *NoVisibleConstructors) Spans() []ast.Span  { return []ast.Span{e.Span} }
func (e *DuplicateFunctionBinder) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Duplicate}
}
func (e *DuplicatePatternBinder) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Duplicate}
}
func (e *DuplicateValueDeclaration) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Duplicate}
}
func (e *DuplicateTypeDeclaration) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Duplicate}
}
func (e *DuplicateTypeConstructor) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Duplicate}
}
func (e *DuplicateTypeDeclarationVariable) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Duplicate}
}
func (e *DuplicateImportLine) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Duplicate}
}
func (e *DuplicateImportModule) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Duplicate}
}
func (e *ReboundValueImport) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Rebound}
}
func (e *ReboundTypeImport) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Rebound}
}
func (e *ReboundConstructorImport) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Rebound}
}
func (e *DuplicateRecordField) Spans() []ast.Span {
	return []ast.Span{e.Previous, e.Duplicate}
}
func (e *TypesNotEqual) Spans() []ast.Span              { return []ast.Span{e.Span} }
func (e *KindsNotEqual) Spans() []ast.Span              { return []ast.Span{e.Span} }
func (e *InfiniteType) Spans() []ast.Span               { return []ast.Span{e.Span} }
func (e *InfiniteKind) Spans() []ast.Span               { return []ast.Span{e.Span} }
func (e *UnexpectedRecordField) Spans() []ast.Span      { return []ast.Span{e.Span} }
func (e *MissingRecordFields) Spans() []ast.Span        { return []ast.Span{e.Span} }
func (e *NotAFunction) Spans() []ast.Span               { return []ast.Span{e.Span} }
func (e *TypeNotAFunction) Spans() []ast.Span           { return []ast.Span{e.Span} }
func (e *ArgumentLengthMismatch) Spans() []ast.Span     { return []ast.Span{e.FunctionSpan} }
func (e *TypeArgumentLengthMismatch) Spans() []ast.Span { return []ast.Span{e.FunctionSpan} }
func (e *MatchNotExhaustive) Spans() []ast.Span         { return []ast.Span{e.MatchSpan} }
func (e *RefutableFunctionBinder) Spans() []ast.Span    { return []ast.Span{e.Span} }

// Message style: lowercase, backtick anything referring to code.

func (e *UnknownVariable) Error() string {
	return fmt.Sprintf("unknown variable `%s`%s", e.Variable, suggestNames(e.NamesInScope, e.Variable.String()))
}

func (e *UnknownConstructor) Error() string {
	return fmt.Sprintf("unknown constructor `%s`%s", e.Constructor, suggestNames(e.ConstructorsInScope, e.Constructor.String()))
}

func (e *UnknownTypeVariable) Error() string {
	return fmt.Sprintf("unknown type variable `%s`", e.Variable)
}

func (e *UnknownTypeConstructor) Error() string {
	return fmt.Sprintf("unknown type constructor `%s`%s", e.Constructor, suggestNames(e.TypesInScope, e.Constructor.String()))
}

func (e *PackageNotFound) Error() string {
	return fmt.Sprintf("package `%s` not found", e.Package)
}

func (e *ModuleNotFound) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("module `%s` not found in package `%s`", e.ModuleName, e.Package)
	}
	return fmt.Sprintf("module `%s` not found", e.ModuleName)
}

func (e *UnknownValueExport) Error() string {
	return fmt.Sprintf("exported value `%s` isn't declared", e.Name)
}

func (e *UnknownTypeExport) Error() string {
	return fmt.Sprintf("exported type `%s` isn't declared", e.TypeName)
}

func (e *UnknownValueImport) Error() string {
	return fmt.Sprintf("imported value `%s` isn't exported", e.Name)
}

func (e *UnknownTypeImport) Error() string {
	return fmt.Sprintf("imported type `%s` isn't exported", e.TypeName)
}

func (e *NoVisibleConstructors) Error() string {
	return fmt.Sprintf("type `%s` has no visible constructors", e.TypeName)
}

func (e *DuplicateFunctionBinder) Error() string {
	return fmt.Sprintf("duplicate function binder `%s`", e.Name)
}

func (e *DuplicatePatternBinder) Error() string {
	return fmt.Sprintf("pattern binds `%s` more than once", e.Name)
}

func (e *DuplicateValueDeclaration) Error() string {
	return fmt.Sprintf("duplicate value declaration `%s`", e.Name)
}

func (e *DuplicateTypeDeclaration) Error() string {
	return fmt.Sprintf("duplicate type declaration `%s`", e.TypeName)
}

func (e *DuplicateTypeConstructor) Error() string {
	return fmt.Sprintf("duplicate type constructor `%s`", e.Name)
}

func (e *DuplicateTypeDeclarationVariable) Error() string {
	return fmt.Sprintf("duplicate type variable `%s`", e.Name)
}

func (e *DuplicateImportLine) Error() string {
	return "duplicate import"
}

func (e *DuplicateImportModule) Error() string {
	return fmt.Sprintf("duplicate import qualifier `%s`", e.Qualifier)
}

func (e *ReboundValueImport) Error() string {
	return fmt.Sprintf("import rebinds value `%s`", e.Name)
}

func (e *ReboundTypeImport) Error() string {
	return fmt.Sprintf("import rebinds type `%s`", e.TypeName)
}

func (e *ReboundConstructorImport) Error() string {
	return fmt.Sprintf("import rebinds constructor `%s`", e.Name)
}

func (e *DuplicateRecordField) Error() string {
	return fmt.Sprintf("duplicate record field `%s`", e.Label)
}

func (e *TypesNotEqual) Error() string {
	return fmt.Sprintf("types don't unify\n  expected: %s\n  got:      %s", e.Expected, e.Actual)
}

func (e *KindsNotEqual) Error() string {
	return fmt.Sprintf("kinds don't unify\n  expected: %s\n  got:      %s", e.Expected, e.Actual)
}

func (e *InfiniteType) Error() string {
	return fmt.Sprintf("infinite type: `$%d` occurs in `%s`", e.Var, e.InfiniteType)
}

func (e *InfiniteKind) Error() string {
	return fmt.Sprintf("infinite kind: `k%d` occurs in `%s`", e.Var, e.InfiniteKind)
}

func (e *UnexpectedRecordField) Error() string {
	return fmt.Sprintf("unexpected record field: `%s` not in %s", e.Label, e.RecordLikeType)
}

func (e *MissingRecordFields) Error() string {
	parts := make([]string, len(e.Missing))
	for i, field := range e.Missing {
		parts[i] = fmt.Sprintf("%s: %s", field.Label, field.Type)
	}
	return "record is missing fields\n  " + strings.Join(parts, "\n  ")
}

func (e *NotAFunction) Error() string {
	return fmt.Sprintf("expression isn't callable: has type %s", e.ActualType)
}

func (e *TypeNotAFunction) Error() string {
	return fmt.Sprintf("type can't be applied to arguments: has kind %s", e.ActualKind)
}

func (e *ArgumentLengthMismatch) Error() string {
	return fmt.Sprintf("wrong number of arguments: expected %d, got %d", e.Wanted, e.Got)
}

func (e *TypeArgumentLengthMismatch) Error() string {
	return fmt.Sprintf("wrong number of type arguments: expected %d, got %d", e.Wanted, e.Got)
}

func (e *MatchNotExhaustive) Error() string {
	lines := make([]string, len(e.MissingPatterns))
	for i, pattern := range e.MissingPatterns {
		lines[i] = "| " + pattern
	}
	return "match is not exhaustive\nmissing patterns\n" + strings.Join(lines, "\n")
}

func (e *RefutableFunctionBinder) Error() string {
	lines := make([]string, len(e.MissingPatterns))
	for i, pattern := range e.MissingPatterns {
		lines[i] = "| " + pattern
	}
	return "refutable binder\nmissing patterns\n" + strings.Join(lines, "\n")
}

// suggestNames renders an in-scope candidate list for misspelling hints.
func suggestNames[T fmt.Stringer](names []T, _ string) string {
	if len(names) == 0 {
		return ""
	}
	rendered := make([]string, len(names))
	for i, name := range names {
		rendered[i] = "`" + name.String() + "`"
	}
	sort.Strings(rendered)
	const maxShown = 5
	if len(rendered) > maxShown {
		rendered = rendered[:maxShown]
	}
	return "\n  in scope: " + strings.Join(rendered, ", ")
}
