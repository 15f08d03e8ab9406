package ast

import (
	"sort"

	"github.com/veldlang/veld/internal/graph"
)

// Module is a fully checked veld module. It captures three namespaces:
// types, constructors and values.
type Module struct {
	// ModuleName is the declared name, e.g. `Some.Module`.
	ModuleName ModuleName

	// Exports is the module's interface, as consumed by importers.
	Exports ModuleExports

	// Types defined in this module.
	Types map[ProperName]*ModuleType

	// Constructors defined in this module.
	Constructors map[ProperName]*ModuleConstructor

	// Values defined in this module.
	Values map[Name]*ModuleValue

	// ValuesToposort is the reverse-topological SCC order of Values.
	ValuesToposort []graph.Scc[Name]
}

// ModuleType is a type defined by a module: either an ordinary type
// declaration or a transparent alias (AliasedType non-nil).
type ModuleType struct {
	DocComments  []string
	TypeNameSpan Span
	Kind         Kind

	// Alias-only fields.
	AliasedType    Type
	AliasVariables []Var
}

// IsAlias reports whether this is a type alias.
func (mt *ModuleType) IsAlias() bool { return mt.AliasedType != nil }

// ModuleConstructor is a single data constructor, e.g. `Ok` for `Result`.
type ModuleConstructor struct {
	DocComments []string
	// DocPosition is where this constructor appears among its siblings in
	// generated documentation.
	DocPosition         int
	ConstructorNameSpan Span
	// Fields holds the argument types; empty for nullary constructors.
	Fields []Type
	// ReturnType is the type produced when the constructor is applied.
	ReturnType Type
	// ReturnTypeName associates the constructor with its type declaration.
	ReturnTypeName ProperName
}

// GetType returns the constructor's type as it appears in expressions:
// nullary constructors are plain values, the rest are functions.
func (mc *ModuleConstructor) GetType() Type {
	if len(mc.Fields) == 0 {
		return mc.ReturnType
	}
	return &TypeFunction{
		Parameters: mc.Fields,
		ReturnType: mc.ReturnType,
	}
}

// ModuleValue is a top-level value defined by a module.
type ModuleValue struct {
	DocComments []string
	NameSpan    Span
	Expression  Expression
}

// ModuleExports is everything a module exposes to importers.
type ModuleExports struct {
	Types        map[ProperName]*ModuleExportsType
	Constructors map[ProperName]*ModuleExportsConstructor
	Values       map[Name]*ModuleExportsValue
}

// NewModuleExports allocates an empty export set.
func NewModuleExports() ModuleExports {
	return ModuleExports{
		Types:        make(map[ProperName]*ModuleExportsType),
		Constructors: make(map[ProperName]*ModuleExportsConstructor),
		Values:       make(map[Name]*ModuleExportsValue),
	}
}

// ModuleExportsType is a single exported type (or alias).
type ModuleExportsType struct {
	DocComments    []string
	DocPosition    int
	Kind           Kind
	AliasedType    Type
	AliasVariables []Var
}

// IsAlias reports whether the exported type is an alias.
func (et *ModuleExportsType) IsAlias() bool { return et.AliasedType != nil }

// ModuleExportsConstructor is a single exported constructor.
type ModuleExportsConstructor struct {
	DocComments     []string
	DocPosition     int
	ConstructorType Type
	ReturnTypeName  ProperName
}

// ModuleExportsValue is a single exported value.
type ModuleExportsValue struct {
	DocComments []string
	DocPosition int
	ValueType   Type
}

// SortedTypeNames returns the exported type names alphabetically.
func (e ModuleExports) SortedTypeNames() []ProperName {
	names := make([]ProperName, 0, len(e.Types))
	for name := range e.Types {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// SortedConstructorNames returns the exported constructor names
// alphabetically.
func (e ModuleExports) SortedConstructorNames() []ProperName {
	names := make([]ProperName, 0, len(e.Constructors))
	for name := range e.Constructors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// SortedValueNames returns the exported value names alphabetically.
func (e ModuleExports) SortedValueNames() []Name {
	names := make([]Name, 0, len(e.Values))
	for name := range e.Values {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ValuesToposorted pairs the toposort order back with the value
// expressions, for consumers that walk values leaves-first.
func (m *Module) ValuesToposorted() []graph.Scc[NamedExpression] {
	sccs := make([]graph.Scc[NamedExpression], len(m.ValuesToposort))
	for i, scc := range m.ValuesToposort {
		sccs[i] = graph.MapScc(scc, func(name Name) NamedExpression {
			return NamedExpression{Name: name, Expression: m.Values[name].Expression}
		})
	}
	return sccs
}

// NamedExpression is a (name, expression) pair from a module's values.
type NamedExpression struct {
	Name       Name
	Expression Expression
}
