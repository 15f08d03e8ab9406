package checker

import "github.com/veldlang/veld/internal/ast"

// Env is the typing environment: the values and constructors in scope,
// each carrying a scheme.
type Env struct {
	Values       EnvValues
	Constructors EnvConstructors
}

// NewEnv returns an empty typing environment.
func NewEnv() *Env {
	return &Env{
		Values:       make(EnvValues),
		Constructors: make(EnvConstructors),
	}
}

// Clone copies the environment so scoped extensions don't leak.
func (env *Env) Clone() *Env {
	values := make(EnvValues, len(env.Values))
	for k, v := range env.Values {
		values[k] = v
	}
	constructors := make(EnvConstructors, len(env.Constructors))
	for k, v := range env.Constructors {
		constructors[k] = v
	}
	return &Env{Values: values, Constructors: constructors}
}

// Generalize abstracts a type over all type variables free in the type
// but not free in the environment, i.e. it returns the canonical
// polymorphic type.
func (env *Env) Generalize(t ast.Type) Scheme {
	envFree := env.freeTypeVariables()
	var forall []ast.Var
	for _, v := range ast.TypeVariables(t) {
		if !envFree[v] {
			forall = append(forall, v)
		}
	}
	return Scheme{Forall: forall, Signature: t}
}

func (env *Env) freeTypeVariables() map[ast.Var]bool {
	free := make(map[ast.Var]bool)
	for _, envValue := range env.Values {
		for _, v := range envValue.GetScheme().FreeTypeVariables() {
			free[v] = true
		}
	}
	for _, envConstructor := range env.Constructors {
		for _, v := range envConstructor.GetScheme().FreeTypeVariables() {
			free[v] = true
		}
	}
	return free
}

// EnvValues maps qualified names in scope to values.
type EnvValues map[ast.QualifiedName]EnvValue

// EnvValue is the value type of EnvValues.
type EnvValue interface {
	envValue()
	GetSpan() ast.Span
	GetScheme() Scheme
	// ToExpression instantiates the value's scheme into a reference
	// expression at the given span.
	ToExpression(span ast.Span, supply *Supply) ast.Expression
}

// EnvValueLocalVariable is a variable bound by an enclosing expression
// (function binder, let, pattern, effect bind).
type EnvValueLocalVariable struct {
	Span     ast.Span
	Scheme   Scheme
	Variable ast.Name
}

// EnvValueModuleValue is a top-level value of the module being checked.
type EnvValueModuleValue struct {
	Span     ast.Span
	Scheme   Scheme
	Variable ast.Name
}

// EnvValueForeignVariable is a foreign value declaration.
type EnvValueForeignVariable struct {
	Span     ast.Span
	Scheme   Scheme
	Variable ast.Name
}

// EnvValueImportedVariable is a value imported from another module.
type EnvValueImportedVariable struct {
	Span     ast.Span
	Scheme   Scheme
	Variable ast.FullyQualifiedName
}

func (*EnvValueLocalVariable) envValue()    {}
func (*EnvValueModuleValue) envValue()      {}
func (*EnvValueForeignVariable) envValue()  {}
func (*EnvValueImportedVariable) envValue() {}

func (v *EnvValueLocalVariable) GetSpan() ast.Span    { return v.Span }
func (v *EnvValueModuleValue) GetSpan() ast.Span      { return v.Span }
func (v *EnvValueForeignVariable) GetSpan() ast.Span  { return v.Span }
func (v *EnvValueImportedVariable) GetSpan() ast.Span { return v.Span }

func (v *EnvValueLocalVariable) GetScheme() Scheme    { return v.Scheme }
func (v *EnvValueModuleValue) GetScheme() Scheme      { return v.Scheme }
func (v *EnvValueForeignVariable) GetScheme() Scheme  { return v.Scheme }
func (v *EnvValueImportedVariable) GetScheme() Scheme { return v.Scheme }

func (v *EnvValueLocalVariable) ToExpression(span ast.Span, supply *Supply) ast.Expression {
	return &ast.ExprLocalVariable{
		Span:         span,
		VariableType: v.Scheme.Instantiate(supply),
		Variable:     v.Variable,
	}
}

func (v *EnvValueModuleValue) ToExpression(span ast.Span, supply *Supply) ast.Expression {
	return &ast.ExprLocalVariable{
		Span:         span,
		VariableType: v.Scheme.Instantiate(supply),
		Variable:     v.Variable,
	}
}

func (v *EnvValueForeignVariable) ToExpression(span ast.Span, supply *Supply) ast.Expression {
	return &ast.ExprForeignVariable{
		Span:         span,
		VariableType: v.Scheme.Instantiate(supply),
		Variable:     v.Variable,
	}
}

func (v *EnvValueImportedVariable) ToExpression(span ast.Span, supply *Supply) ast.Expression {
	return &ast.ExprImportedVariable{
		Span:         span,
		VariableType: v.Scheme.Instantiate(supply),
		Variable:     v.Variable,
	}
}

// EnvConstructors maps qualified constructor names in scope to
// constructors.
type EnvConstructors map[ast.QualifiedProperName]EnvConstructor

// EnvConstructor is the value type of EnvConstructors.
type EnvConstructor interface {
	envConstructor()
	GetScheme() Scheme
	// GetType instantiates the constructor's scheme.
	GetType(supply *Supply) ast.Type
	// ToExpression instantiates the constructor into a reference
	// expression at the given span.
	ToExpression(span ast.Span, supply *Supply) ast.Expression
	// ToPattern rebuilds a checked pattern with the given arguments.
	ToPattern(span ast.Span, arguments []ast.Pattern) ast.Pattern
}

// EnvConstructorModule is a constructor of the module being checked.
type EnvConstructorModule struct {
	Scheme      Scheme
	Constructor ast.ProperName
}

// EnvConstructorImported is a constructor imported from another module.
type EnvConstructorImported struct {
	Scheme      Scheme
	Constructor ast.FullyQualifiedProperName
}

func (*EnvConstructorModule) envConstructor()   {}
func (*EnvConstructorImported) envConstructor() {}

func (c *EnvConstructorModule) GetScheme() Scheme   { return c.Scheme }
func (c *EnvConstructorImported) GetScheme() Scheme { return c.Scheme }

func (c *EnvConstructorModule) GetType(supply *Supply) ast.Type {
	return c.Scheme.Instantiate(supply)
}

func (c *EnvConstructorImported) GetType(supply *Supply) ast.Type {
	return c.Scheme.Instantiate(supply)
}

func (c *EnvConstructorModule) ToExpression(span ast.Span, supply *Supply) ast.Expression {
	return &ast.ExprLocalConstructor{
		Span:            span,
		ConstructorType: c.Scheme.Instantiate(supply),
		Constructor:     c.Constructor,
	}
}

func (c *EnvConstructorImported) ToExpression(span ast.Span, supply *Supply) ast.Expression {
	return &ast.ExprImportedConstructor{
		Span:            span,
		ConstructorType: c.Scheme.Instantiate(supply),
		Constructor:     c.Constructor,
	}
}

func (c *EnvConstructorModule) ToPattern(span ast.Span, arguments []ast.Pattern) ast.Pattern {
	return &ast.PatternLocalConstructor{
		Span:        span,
		Constructor: c.Constructor,
		Arguments:   arguments,
	}
}

func (c *EnvConstructorImported) ToPattern(span ast.Span, arguments []ast.Pattern) ast.Pattern {
	return &ast.PatternImportedConstructor{
		Span:        span,
		Constructor: c.Constructor,
		Arguments:   arguments,
	}
}
