// Package cst defines the concrete syntax tree the checker consumes.
//
// The tree is produced by an external parser and handed to the checker
// as-is; parens are dissolved by the parser with their spans folded into
// the enclosed node. Every node carries the byte span of the source text
// it came from.
package cst

import "github.com/veldlang/veld/internal/ast"

// Module is an unchecked module as delivered by the parser.
type Module struct {
	Header                   Header
	Imports                  []ImportLine
	TypeDeclarations         []TypeDeclaration
	ValueDeclarations        []ValueDeclaration
	ForeignValueDeclarations []ForeignValueDeclaration
}

// Header is the module header: name and export list.
type Header struct {
	Span       ast.Span
	ModuleName ModuleName
	Exports    Exports
}

// ModuleName is a dotted module name with its source span.
type ModuleName struct {
	Span  ast.Span
	Names []ast.ProperName
}

// ToAST converts to the checked representation.
func (m ModuleName) ToAST() ast.ModuleName {
	return ast.ModuleName(m.Names)
}

// Exports is either `exports (..)` or an explicit list.
type Exports struct {
	Everything bool
	List       []Export
}

// Export is one entry of an explicit export list. Exactly one of Value
// and Type is set; IncludeConstructors corresponds to `T(..)`.
type Export struct {
	Span                ast.Span
	Value               ast.Name
	Type                ast.ProperName
	IncludeConstructors bool
}

// ImportLine is a single import statement.
type ImportLine struct {
	Span ast.Span
	// Package is empty for imports from the local package.
	Package    ast.PackageName
	ModuleName ModuleName
	// Alias overrides the default qualifier (the module name's last
	// component) when non-empty.
	Alias     ast.ProperName
	AliasSpan ast.Span
	// List brings names into unqualified scope.
	List []ImportItem
}

// ImportItem is one entry of an import list. Exactly one of Value and
// Type is set.
type ImportItem struct {
	Span                ast.Span
	Value               ast.Name
	Type                ast.ProperName
	IncludeConstructors bool
}

// TypeDeclaration declares a type or (when Aliased is non-nil) a
// transparent type alias.
type TypeDeclaration struct {
	Span         ast.Span
	DocComments  []string
	TypeNameSpan ast.Span
	TypeName     ast.ProperName
	Variables    []TypeVariableBinder
	Constructors []ConstructorDeclaration
	Aliased      Type
}

// TypeVariableBinder is a declared type parameter.
type TypeVariableBinder struct {
	Span ast.Span
	Name ast.Name
}

// ConstructorDeclaration is one constructor of a type declaration.
type ConstructorDeclaration struct {
	Span     ast.Span
	NameSpan ast.Span
	Name     ast.ProperName
	Fields   []Type
}

// ValueDeclaration is a top-level value binding.
type ValueDeclaration struct {
	Span        ast.Span
	DocComments []string
	NameSpan    ast.Span
	Name        ast.Name
	// TypeAnnotation is nil when the declaration is unannotated.
	TypeAnnotation Type
	Expression     Expression
}

// ForeignValueDeclaration declares a value implemented outside veld. The
// type annotation is mandatory.
type ForeignValueDeclaration struct {
	Span           ast.Span
	DocComments    []string
	NameSpan       ast.Span
	Name           ast.Name
	TypeAnnotation Type
}
