package ast

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name is a lowercase identifier: values, local variables, type variables.
type Name string

// UnusedName is an identifier beginning with an underscore, marking an
// intentionally unused binder.
type UnusedName string

// ProperName is an uppercase identifier: types and constructors.
type ProperName string

// PackageName consists of lowercase letters, digits and hyphens, and
// starts with a letter.
type PackageName string

// NewName builds a Name, normalizing the source text to NFC so that
// visually identical identifiers compare equal.
func NewName(s string) Name { return Name(norm.NFC.String(s)) }

// NewUnusedName builds an UnusedName, normalizing to NFC.
func NewUnusedName(s string) UnusedName { return UnusedName(norm.NFC.String(s)) }

// NewProperName builds a ProperName, normalizing to NFC.
func NewProperName(s string) ProperName { return ProperName(norm.NFC.String(s)) }

// NewPackageName builds a PackageName. Package names are ASCII by
// construction but are normalized anyway for uniformity.
func NewPackageName(s string) PackageName { return PackageName(norm.NFC.String(s)) }

func (n Name) String() string        { return string(n) }
func (n UnusedName) String() string  { return string(n) }
func (n ProperName) String() string  { return string(n) }
func (n PackageName) String() string { return string(n) }

// ModuleName is a non-empty dot-joined sequence of ProperNames,
// e.g. `Data.Stuff`.
type ModuleName []ProperName

func (m ModuleName) String() string {
	parts := make([]string, len(m))
	for i, p := range m {
		parts[i] = string(p)
	}
	return strings.Join(parts, ".")
}

// Last returns the final component, which doubles as the default
// qualifier for unaliased imports.
func (m ModuleName) Last() ProperName {
	return m[len(m)-1]
}

// ParseModuleName splits a dot-joined module name string back into its
// components. The inverse of String.
func ParseModuleName(s string) ModuleName {
	parts := strings.Split(s, ".")
	names := make(ModuleName, len(parts))
	for i, part := range parts {
		names[i] = NewProperName(part)
	}
	return names
}

// Qualified is a value with an optional leading ProperName qualifier,
// e.g. `Maybe.Just` or plain `Just`. An empty Qualifier means unqualified.
type Qualified[T ~string] struct {
	Qualifier ProperName `json:"qualifier,omitempty"`
	Value     T          `json:"value"`
}

// QualifiedName is a qualified variable.
type QualifiedName = Qualified[Name]

// QualifiedProperName is a qualified type or constructor name.
type QualifiedProperName = Qualified[ProperName]

// Unqualified wraps a value with no qualifier.
func Unqualified[T ~string](value T) Qualified[T] {
	return Qualified[T]{Value: value}
}

func (q Qualified[T]) String() string {
	if q.Qualifier != "" {
		return string(q.Qualifier) + "." + string(q.Value)
	}
	return string(q.Value)
}

// IsZero reports whether q is the zero value (no qualifier, empty value).
func (q Qualified[T]) IsZero() bool {
	return q.Qualifier == "" && q.Value == ""
}

// FullyQualified is the canonical identity for an identifier: the package
// it came from (empty for the local package), the module that defines it,
// and the value itself. All cross-module bookkeeping is keyed on this.
type FullyQualified[T ~string] struct {
	Package PackageName `json:"package,omitempty"`
	Module  ModuleName  `json:"module"`
	Value   T           `json:"value"`
}

// FullyQualifiedName is a canonical variable name.
type FullyQualifiedName = FullyQualified[Name]

// FullyQualifiedProperName is a canonical type or constructor name.
type FullyQualifiedProperName = FullyQualified[ProperName]

func (fq FullyQualified[T]) String() string {
	var sb strings.Builder
	if fq.Package != "" {
		sb.WriteString(string(fq.Package))
		sb.WriteString(":")
	}
	sb.WriteString(fq.Module.String())
	sb.WriteString(".")
	sb.WriteString(string(fq.Value))
	return sb.String()
}

// Equals compares canonical identities.
func (fq FullyQualified[T]) Equals(other FullyQualified[T]) bool {
	return fq.String() == other.String()
}
