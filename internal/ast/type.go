package ast

import (
	"strconv"
	"strings"
)

// Type is the type of expressions.
//
// Every variant carries enough information to be rendered without access
// to the environment it was checked under.
type Type interface {
	typ()
	// GetKind returns the kind of the type as far as it is known locally.
	// Unsolved kind variables are resolved through the kind substitution
	// before a checked module is assembled.
	GetKind() Kind
	// String renders the type as a compact single line, with unnamed
	// variables shown as `$n`. Used by diagnostics and tests.
	String() string
}

// PrimType enumerates veld's primitive type constructors.
type PrimType string

const (
	PrimInt    PrimType = "Int"
	PrimFloat  PrimType = "Float"
	PrimString PrimType = "String"
	PrimBool   PrimType = "Bool"
	PrimUnit   PrimType = "Unit"
	PrimArray  PrimType = "Array"
	PrimEffect PrimType = "Effect"
)

// GetKind returns the fixed kind of a primitive: Array and Effect are
// unary type functions, everything else is an inhabited type.
func (p PrimType) GetKind() Kind {
	switch p {
	case PrimArray, PrimEffect:
		return KindFunction{Parameters: []Kind{KindType{}}}
	default:
		return KindType{}
	}
}

// ProperName returns the primitive's name as it appears in type
// environments.
func (p PrimType) ProperName() ProperName {
	return ProperName(p)
}

// TypeVariable is a unification variable (flexible) or a user-introduced
// type variable (rigid). Rigidity stops a user-named variable from being
// unified away: two distinct rigid variables never unify.
type TypeVariable struct {
	VariableKind Kind
	Var          Var
	// SourceName is set when the variable was named in the source.
	SourceName Name
	IsRigid    bool
}

// TypeConstructor is a named type, e.g. `Maybe`. SourceValue records how
// the name appeared in the source (or would have); it exists purely for
// diagnostics.
type TypeConstructor struct {
	ConstructorKind Kind
	CanonicalValue  FullyQualifiedProperName
	SourceValue     QualifiedProperName
}

// TypeConstructorAlias is a transparent type alias. AliasedType never
// refers back to the alias itself. Callers must unalias before any
// structural comparison.
type TypeConstructorAlias struct {
	ConstructorKind Kind
	CanonicalValue  FullyQualifiedProperName
	SourceValue     QualifiedProperName
	AliasVariables  []Var
	AliasedType     Type
}

// TypePrim is a primitive type constructor.
type TypePrim struct {
	Prim PrimType
}

// TypeCall applies a parameterized type to its arguments, e.g.
// `Result(ok, err)`. Arguments is never empty: nullary applications are
// not representable.
type TypeCall struct {
	Function  Type
	Arguments []Type
}

// TypeFunction is an uncurried function type with zero or more
// parameters.
type TypeFunction struct {
	Parameters []Type
	ReturnType Type
}

// TypeRecordClosed is a record with a fixed set of labels.
type TypeRecordClosed struct {
	Row Row
}

// TypeRecordOpen is a row-polymorphic record: the listed fields are
// present, plus whatever labels Var resolves to.
type TypeRecordOpen struct {
	Var        Var
	SourceName Name
	IsRigid    bool
	Row        Row
}

func (*TypeVariable) typ()         {}
func (*TypeConstructor) typ()      {}
func (*TypeConstructorAlias) typ() {}
func (*TypePrim) typ()             {}
func (*TypeCall) typ()             {}
func (*TypeFunction) typ()         {}
func (*TypeRecordClosed) typ()     {}
func (*TypeRecordOpen) typ()       {}

func (t *TypeVariable) GetKind() Kind         { return t.VariableKind }
func (t *TypeConstructor) GetKind() Kind      { return t.ConstructorKind }
func (t *TypeConstructorAlias) GetKind() Kind { return t.ConstructorKind }
func (t *TypePrim) GetKind() Kind             { return t.Prim.GetKind() }

// Types aren't curried, so a call is always fully saturated.
func (t *TypeCall) GetKind() Kind         { return KindType{} }
func (t *TypeFunction) GetKind() Kind     { return KindType{} }
func (t *TypeRecordClosed) GetKind() Kind { return KindType{} }
func (t *TypeRecordOpen) GetKind() Kind   { return KindType{} }

func (t *TypeVariable) String() string {
	return renderVar(t.Var, t.SourceName)
}

func (t *TypeConstructor) String() string {
	if !t.SourceValue.IsZero() {
		return t.SourceValue.String()
	}
	return t.CanonicalValue.String()
}

func (t *TypeConstructorAlias) String() string {
	if !t.SourceValue.IsZero() {
		return t.SourceValue.String()
	}
	return t.CanonicalValue.String()
}

func (t *TypePrim) String() string { return string(t.Prim) }

func (t *TypeCall) String() string {
	args := make([]string, len(t.Arguments))
	for i, arg := range t.Arguments {
		args[i] = arg.String()
	}
	return t.Function.String() + "(" + strings.Join(args, ", ") + ")"
}

func (t *TypeFunction) String() string {
	params := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		params[i] = p.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> " + t.ReturnType.String()
}

func (t *TypeRecordClosed) String() string {
	if len(t.Row) == 0 {
		return "{}"
	}
	return "{ " + t.Row.render() + " }"
}

func (t *TypeRecordOpen) String() string {
	return "{" + renderVar(t.Var, t.SourceName) + " | " + t.Row.render() + "}"
}

func renderVar(v Var, sourceName Name) string {
	if sourceName != "" {
		return string(sourceName)
	}
	return "$" + strconv.Itoa(v)
}

// TypeVariables collects the free type variables of t, in first-seen
// order. Alias variables count; an alias's expansion is not visited.
func TypeVariables(t Type) []Var {
	seen := make(map[Var]bool)
	var ordered []Var
	typeVariablesRec(t, seen, &ordered)
	return ordered
}

func typeVariablesRec(t Type, seen map[Var]bool, ordered *[]Var) {
	add := func(v Var) {
		if !seen[v] {
			seen[v] = true
			*ordered = append(*ordered, v)
		}
	}
	switch t := t.(type) {
	case *TypeVariable:
		add(t.Var)
	case *TypeCall:
		typeVariablesRec(t.Function, seen, ordered)
		for _, arg := range t.Arguments {
			typeVariablesRec(arg, seen, ordered)
		}
	case *TypeFunction:
		for _, p := range t.Parameters {
			typeVariablesRec(p, seen, ordered)
		}
		typeVariablesRec(t.ReturnType, seen, ordered)
	case *TypeRecordClosed:
		for _, field := range t.Row {
			typeVariablesRec(field.Type, seen, ordered)
		}
	case *TypeRecordOpen:
		add(t.Var)
		for _, field := range t.Row {
			typeVariablesRec(field.Type, seen, ordered)
		}
	case *TypeConstructorAlias:
		for _, v := range t.AliasVariables {
			add(v)
		}
	case *TypeConstructor, *TypePrim:
		// no variables
	}
}

// ContainsVar reports whether v occurs anywhere in t. This is the occurs
// check used by the type unifier.
func ContainsVar(t Type, v Var) bool {
	for _, tv := range TypeVariables(t) {
		if tv == v {
			return true
		}
	}
	return false
}

// Unalias unwraps ConstructorAlias heads (possibly under a Call) until a
// non-alias head appears. Every structural match on a type goes through
// this first.
func Unalias(t Type) Type {
	for {
		switch tt := t.(type) {
		case *TypeConstructorAlias:
			t = tt.AliasedType
		case *TypeCall:
			if alias, ok := tt.Function.(*TypeConstructorAlias); ok {
				t = instantiateAlias(alias, tt.Arguments)
				continue
			}
			return t
		default:
			return t
		}
	}
}

// instantiateAlias substitutes a saturated alias application,
// e.g. `Pair(Int)` where `type alias Pair(a) = { fst: a, snd: a }`.
func instantiateAlias(alias *TypeConstructorAlias, arguments []Type) Type {
	subst := make(map[Var]Type, len(alias.AliasVariables))
	for i, v := range alias.AliasVariables {
		if i < len(arguments) {
			subst[v] = arguments[i]
		}
	}
	return substituteVars(alias.AliasedType, subst)
}

func substituteVars(t Type, subst map[Var]Type) Type {
	switch t := t.(type) {
	case *TypeVariable:
		if replacement, ok := subst[t.Var]; ok {
			return replacement
		}
		return t
	case *TypeCall:
		args := make([]Type, len(t.Arguments))
		for i, arg := range t.Arguments {
			args[i] = substituteVars(arg, subst)
		}
		return &TypeCall{Function: substituteVars(t.Function, subst), Arguments: args}
	case *TypeFunction:
		params := make([]Type, len(t.Parameters))
		for i, p := range t.Parameters {
			params[i] = substituteVars(p, subst)
		}
		return &TypeFunction{Parameters: params, ReturnType: substituteVars(t.ReturnType, subst)}
	case *TypeRecordClosed:
		return &TypeRecordClosed{Row: t.Row.mapTypes(func(ft Type) Type { return substituteVars(ft, subst) })}
	case *TypeRecordOpen:
		row := t.Row.mapTypes(func(ft Type) Type { return substituteVars(ft, subst) })
		if replacement, ok := subst[t.Var]; ok {
			if v, ok := replacement.(*TypeVariable); ok {
				return &TypeRecordOpen{Var: v.Var, SourceName: v.SourceName, IsRigid: v.IsRigid, Row: row}
			}
		}
		return &TypeRecordOpen{Var: t.Var, SourceName: t.SourceName, IsRigid: t.IsRigid, Row: row}
	case *TypeConstructorAlias:
		return &TypeConstructorAlias{
			ConstructorKind: t.ConstructorKind,
			CanonicalValue:  t.CanonicalValue,
			SourceValue:     t.SourceValue,
			AliasVariables:  t.AliasVariables,
			AliasedType:     substituteVars(t.AliasedType, subst),
		}
	default:
		return t
	}
}
