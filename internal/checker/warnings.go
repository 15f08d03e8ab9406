package checker

import (
	"fmt"

	"github.com/veldlang/veld/internal/ast"
)

// Warning is a non-fatal issue found during checking. Warnings
// accumulate and are returned alongside the successful result; they
// never abort a check.
type Warning interface {
	warning()
	// Code is a stable identifier for the warning variant, e.g. "VELW001".
	Code() string
	Spans() []ast.Span
	Message() string
}

// Warnings is a collection of warnings, in discovery order.
type Warnings []Warning

// DuplicateValueExport reports a value listed twice in the export list.
type DuplicateValueExport struct {
	PreviousExport  ast.Span
	DuplicateExport ast.Span
}

// DuplicateTypeExport reports a type listed twice in the export list.
type DuplicateTypeExport struct {
	PreviousExport  ast.Span
	DuplicateExport ast.Span
}

// DuplicateValueImport reports a value listed twice in one import list.
type DuplicateValueImport struct {
	PreviousImport  ast.Span
	DuplicateImport ast.Span
}

// DuplicateTypeImport reports a type listed twice in one import list.
type DuplicateTypeImport struct {
	PreviousImport  ast.Span
	DuplicateImport ast.Span
}

// UnusedFunctionBinder reports a named function parameter the body never
// references.
type UnusedFunctionBinder struct {
	Span ast.Span
	Name ast.Name
}

// UnusedEffectBinder reports a `name <-` binding the rest of the do
// block never references.
type UnusedEffectBinder struct {
	Span ast.Span
	Name ast.Name
}

// UnusedValueDeclaration reports a top-level value that is neither
// referenced nor exported.
type UnusedValueDeclaration struct {
	Span ast.Span
}

// UnusedForeignValue reports a foreign value that is never referenced.
type UnusedForeignValue struct {
	Span ast.Span
}

// UnusedTypeDeclaration reports a type that is neither referenced nor
// exported, with no referenced or exported constructors.
type UnusedTypeDeclaration struct {
	Span ast.Span
}

// UnusedTypeConstructors reports an exported type whose constructors are
// neither referenced nor exported.
type UnusedTypeConstructors struct {
	Span ast.Span
}

// UnusedImport reports an import line none of whose items are
// referenced.
type UnusedImport struct {
	Span ast.Span
}

// RedundantMatchPattern reports a match arm earlier arms already cover.
type RedundantMatchPattern struct {
	Span ast.Span
}

func (*DuplicateValueExport) warning()   {}
func (*DuplicateTypeExport) warning()    {}
func (*DuplicateValueImport) warning()   {}
func (*DuplicateTypeImport) warning()    {}
func (*UnusedFunctionBinder) warning()   {}
func (*UnusedEffectBinder) warning()     {}
func (*UnusedValueDeclaration) warning() {}
func (*UnusedForeignValue) warning()     {}
func (*UnusedTypeDeclaration) warning()  {}
func (*UnusedTypeConstructors) warning() {}
func (*UnusedImport) warning()           {}
func (*RedundantMatchPattern) warning()  {}

func (w *DuplicateValueExport) Code() string   { return "VELW001" }
func (w *DuplicateTypeExport) Code() string    { return "VELW002" }
func (w *DuplicateValueImport) Code() string   { return "VELW003" }
func (w *DuplicateTypeImport) Code() string    { return "VELW004" }
func (w *UnusedFunctionBinder) Code() string   { return "VELW005" }
func (w *UnusedEffectBinder) Code() string     { return "VELW006" }
func (w *UnusedValueDeclaration) Code() string { return "VELW007" }
func (w *UnusedForeignValue) Code() string     { return "VELW008" }
func (w *UnusedTypeDeclaration) Code() string  { return "VELW009" }
func (w *UnusedTypeConstructors) Code() string { return "VELW010" }
func (w *UnusedImport) Code() string           { return "VELW011" }
func (w *RedundantMatchPattern) Code() string  { return "VELW012" }

func (w *DuplicateValueExport) Spans() []ast.Span {
	return []ast.Span{w.PreviousExport, w.DuplicateExport}
}
func (w *DuplicateTypeExport) Spans() []ast.Span {
	return []ast.Span{w.PreviousExport, w.DuplicateExport}
}
func (w *DuplicateValueImport) Spans() []ast.Span {
	return []ast.Span{w.PreviousImport, w.DuplicateImport}
}
func (w *DuplicateTypeImport) Spans() []ast.Span {
	return []ast.Span{w.PreviousImport, w.DuplicateImport}
}
func (w *UnusedFunctionBinder) Spans() []ast.Span   { return []ast.Span{w.Span} }
func (w *UnusedEffectBinder) Spans() []ast.Span     { return []ast.Span{w.Span} }
func (w *UnusedValueDeclaration) Spans() []ast.Span { return []ast.Span{w.Span} }
func (w *UnusedForeignValue) Spans() []ast.Span     { return []ast.Span{w.Span} }
func (w *UnusedTypeDeclaration) Spans() []ast.Span  { return []ast.Span{w.Span} }
func (w *UnusedTypeConstructors) Spans() []ast.Span { return []ast.Span{w.Span} }
func (w *UnusedImport) Spans() []ast.Span           { return []ast.Span{w.Span} }
func (w *RedundantMatchPattern) Spans() []ast.Span  { return []ast.Span{w.Span} }

func (w *DuplicateValueExport) Message() string { return "duplicate value export" }
func (w *DuplicateTypeExport) Message() string  { return "duplicate type export" }
func (w *DuplicateValueImport) Message() string { return "duplicate value import" }
func (w *DuplicateTypeImport) Message() string  { return "duplicate type import" }
func (w *UnusedFunctionBinder) Message() string {
	return fmt.Sprintf("unused function binder `%s`", w.Name)
}
func (w *UnusedEffectBinder) Message() string {
	return fmt.Sprintf("unused effect binder `%s`", w.Name)
}
func (w *UnusedValueDeclaration) Message() string { return "unused top-level value" }
func (w *UnusedForeignValue) Message() string     { return "unused foreign value" }
func (w *UnusedTypeDeclaration) Message() string  { return "unused type declaration" }
func (w *UnusedTypeConstructors) Message() string { return "type is never constructed" }
func (w *UnusedImport) Message() string           { return "unused import" }
func (w *RedundantMatchPattern) Message() string  { return "redundant match pattern" }
