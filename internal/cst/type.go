package cst

import "github.com/veldlang/veld/internal/ast"

// Type is an unchecked type expression.
type Type interface {
	cstType()
	GetSpan() ast.Span
}

// TypeVariable is a lowercase type variable, e.g. `a`.
type TypeVariable struct {
	Span ast.Span
	Name ast.Name
}

// TypeConstructor is a (possibly qualified) type name, e.g. `Maybe` or
// `Data.Maybe`.
type TypeConstructor struct {
	Span        ast.Span
	Constructor ast.QualifiedProperName
}

// TypeFunction is a function type, `(A, B) -> C`.
type TypeFunction struct {
	Span       ast.Span
	Parameters []Type
	ReturnType Type
}

// TypeCall applies a parameterized type, e.g. `Maybe(a)`.
type TypeCall struct {
	Span      ast.Span
	Function  Type
	Arguments []Type
}

// RecordTypeField is one `label: Type` entry of a record type.
type RecordTypeField struct {
	Span      ast.Span
	LabelSpan ast.Span
	Label     ast.Name
	Value     Type
}

// TypeRecordClosed is `{ a: A, b: B }`.
type TypeRecordClosed struct {
	Span   ast.Span
	Fields []RecordTypeField
}

// TypeRecordOpen is `{ r | a: A }`.
type TypeRecordOpen struct {
	Span    ast.Span
	VarSpan ast.Span
	Var     ast.Name
	Fields  []RecordTypeField
}

func (*TypeVariable) cstType()     {}
func (*TypeConstructor) cstType()  {}
func (*TypeFunction) cstType()     {}
func (*TypeCall) cstType()         {}
func (*TypeRecordClosed) cstType() {}
func (*TypeRecordOpen) cstType()   {}

func (t *TypeVariable) GetSpan() ast.Span     { return t.Span }
func (t *TypeConstructor) GetSpan() ast.Span  { return t.Span }
func (t *TypeFunction) GetSpan() ast.Span     { return t.Span }
func (t *TypeCall) GetSpan() ast.Span         { return t.Span }
func (t *TypeRecordClosed) GetSpan() ast.Span { return t.Span }
func (t *TypeRecordOpen) GetSpan() ast.Span   { return t.Span }
