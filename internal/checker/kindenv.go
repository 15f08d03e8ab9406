package checker

import "github.com/veldlang/veld/internal/ast"

// KindEnv is the environment the kind checker runs in: the type
// constructors in scope and the type variables bound by the enclosing
// declaration or annotation.
type KindEnv struct {
	Types         EnvTypes
	TypeVariables EnvTypeVariables
}

// NewKindEnv returns an environment containing just the primitive types.
func NewKindEnv() *KindEnv {
	return &KindEnv{
		Types:         PrimTypes(),
		TypeVariables: make(EnvTypeVariables),
	}
}

// Clone copies the environment so scoped extensions don't leak.
func (env *KindEnv) Clone() *KindEnv {
	types := make(EnvTypes, len(env.Types))
	for k, v := range env.Types {
		types[k] = v
	}
	typeVariables := make(EnvTypeVariables, len(env.TypeVariables))
	for k, v := range env.TypeVariables {
		typeVariables[k] = v
	}
	return &KindEnv{Types: types, TypeVariables: typeVariables}
}

// EnvTypes maps type names in scope to what they resolve to.
type EnvTypes map[ast.QualifiedProperName]EnvType

// EnvType is the value type of EnvTypes: effectively the subset of
// ast.Type a bare type name can stand for.
type EnvType interface {
	envType()
	// ToType converts the entry to a Type as referenced from the source.
	ToType(sourceValue ast.QualifiedProperName) ast.Type
	// GetKind returns the entry's kind.
	GetKind() ast.Kind
}

// EnvTypePrim is a primitive type constructor.
type EnvTypePrim struct {
	Prim ast.PrimType
}

// EnvTypeConstructor is an ordinary type constructor. Polymorphic kinds
// aren't supported, so this holds a Kind rather than a scheme.
type EnvTypeConstructor struct {
	CanonicalValue  ast.FullyQualifiedProperName
	ConstructorKind ast.Kind
}

// EnvTypeAlias is a transparent type alias.
type EnvTypeAlias struct {
	CanonicalValue  ast.FullyQualifiedProperName
	ConstructorKind ast.Kind
	AliasVariables  []ast.Var
	AliasedType     ast.Type
}

func (EnvTypePrim) envType()        {}
func (EnvTypeConstructor) envType() {}
func (EnvTypeAlias) envType()       {}

func (t EnvTypePrim) ToType(_ ast.QualifiedProperName) ast.Type {
	return &ast.TypePrim{Prim: t.Prim}
}

func (t EnvTypeConstructor) ToType(sourceValue ast.QualifiedProperName) ast.Type {
	return &ast.TypeConstructor{
		ConstructorKind: t.ConstructorKind,
		CanonicalValue:  t.CanonicalValue,
		SourceValue:     sourceValue,
	}
}

func (t EnvTypeAlias) ToType(sourceValue ast.QualifiedProperName) ast.Type {
	return &ast.TypeConstructorAlias{
		ConstructorKind: t.ConstructorKind,
		CanonicalValue:  t.CanonicalValue,
		SourceValue:     sourceValue,
		AliasVariables:  t.AliasVariables,
		AliasedType:     t.AliasedType,
	}
}

func (t EnvTypePrim) GetKind() ast.Kind        { return t.Prim.GetKind() }
func (t EnvTypeConstructor) GetKind() ast.Kind { return t.ConstructorKind }
func (t EnvTypeAlias) GetKind() ast.Kind       { return t.ConstructorKind }

// PrimTypes returns the always-in-scope primitive type environment.
func PrimTypes() EnvTypes {
	prims := []ast.PrimType{
		ast.PrimBool,
		ast.PrimInt,
		ast.PrimFloat,
		ast.PrimString,
		ast.PrimUnit,
		ast.PrimArray,
		ast.PrimEffect,
	}
	types := make(EnvTypes, len(prims))
	for _, prim := range prims {
		types[ast.Unqualified(prim.ProperName())] = EnvTypePrim{Prim: prim}
	}
	return types
}

// EnvTypeVariables maps bound type variable names to their var/kind.
type EnvTypeVariables map[ast.Name]EnvTypeVariable

// EnvTypeVariable is a type variable bound by the enclosing declaration
// or annotation. User-named variables are rigid.
type EnvTypeVariable struct {
	Var          ast.Var
	VariableKind ast.Kind
}

// ToType converts the entry to a rigid type variable as referenced from
// the source.
func (v EnvTypeVariable) ToType(sourceName ast.Name) ast.Type {
	return &ast.TypeVariable{
		VariableKind: v.VariableKind,
		Var:          v.Var,
		SourceName:   sourceName,
		IsRigid:      true,
	}
}

// TypeReferences counts, per qualified type name, how often the name was
// referenced. Used for unused-import analysis.
type TypeReferences map[ast.QualifiedProperName]int
