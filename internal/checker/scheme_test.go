package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/veldlang/veld/internal/ast"
)

func identityType(v ast.Var) ast.Type {
	variable := &ast.TypeVariable{VariableKind: ast.KindType{}, Var: v}
	return &ast.TypeFunction{Parameters: []ast.Type{variable}, ReturnType: variable}
}

func TestInstantiateFreshness(t *testing.T) {
	supply := &Supply{}
	supply.Fresh() // 0 is taken by the scheme below

	scheme := Scheme{Forall: []ast.Var{0}, Signature: identityType(0)}

	first := scheme.Instantiate(supply)
	if got := first.String(); got != "($1) -> $1" {
		t.Errorf("first instantiation %q", got)
	}
	second := scheme.Instantiate(supply)
	if got := second.String(); got != "($2) -> $2" {
		t.Errorf("second instantiation %q", got)
	}
}

func TestInstantiateBumpsSupply(t *testing.T) {
	// An imported scheme can quantify vars the local supply hasn't
	// reached yet; instantiation must leapfrog them.
	supply := &Supply{}
	scheme := Scheme{Forall: []ast.Var{5}, Signature: identityType(5)}
	instantiated := scheme.Instantiate(supply)
	for _, v := range ast.TypeVariables(instantiated) {
		if v == 5 {
			t.Fatal("instantiation reused a quantified var")
		}
	}
	if supply.Peek() <= 5 {
		t.Errorf("supply not bumped: next is %d", supply.Peek())
	}
}

func TestInstantiateClearsRigidity(t *testing.T) {
	supply := &Supply{}
	named := &ast.TypeVariable{VariableKind: ast.KindType{}, Var: 0, SourceName: "a", IsRigid: true}
	scheme := Scheme{
		Forall:    []ast.Var{0},
		Signature: &ast.TypeFunction{Parameters: []ast.Type{named}, ReturnType: named},
	}
	instantiated := scheme.Instantiate(supply).(*ast.TypeFunction)
	parameter := instantiated.Parameters[0].(*ast.TypeVariable)
	if parameter.IsRigid {
		t.Error("instantiated variable is still rigid")
	}
}

func TestGeneralizeCanonicality(t *testing.T) {
	state := NewState()
	env := NewEnv()

	// A binder in the environment keeps its variable monomorphic.
	envVar := state.Supply.FreshType()
	env.Values[ast.Unqualified(ast.Name("x"))] = &EnvValueLocalVariable{
		Scheme:   Scheme{Signature: envVar},
		Variable: "x",
	}

	free := state.Supply.FreshType()
	signature := &ast.TypeFunction{
		Parameters: []ast.Type{envVar, free},
		ReturnType: free,
	}
	scheme := generalize(state, env, signature)
	if diff := cmp.Diff([]ast.Var{free.Var}, scheme.Forall); diff != "" {
		t.Errorf("forall mismatch (-want +got):\n%s", diff)
	}

	// forall == freeVars(signature) \ freeVars(env), exactly.
	envFreeVars := map[ast.Var]bool{envVar.Var: true}
	for _, v := range ast.TypeVariables(scheme.Signature) {
		quantified := false
		for _, q := range scheme.Forall {
			if q == v {
				quantified = true
			}
		}
		if quantified == envFreeVars[v] {
			t.Errorf("var %d: quantified=%v but free-in-env=%v", v, quantified, envFreeVars[v])
		}
	}
}

func TestGeneralizeThenInstantiateAlphaEquivalent(t *testing.T) {
	state := NewState()
	env := NewEnv()
	v := state.Supply.FreshType()
	scheme := generalize(state, env, &ast.TypeFunction{Parameters: []ast.Type{v}, ReturnType: v})

	instantiated := scheme.Instantiate(&state.Supply)
	function, ok := instantiated.(*ast.TypeFunction)
	if !ok {
		t.Fatalf("instantiated to %T", instantiated)
	}
	parameter, ok := function.Parameters[0].(*ast.TypeVariable)
	if !ok {
		t.Fatalf("parameter is %T", function.Parameters[0])
	}
	returned, ok := function.ReturnType.(*ast.TypeVariable)
	if !ok {
		t.Fatalf("return is %T", function.ReturnType)
	}
	if parameter.Var != returned.Var {
		t.Error("instantiation broke sharing between occurrences")
	}
	if parameter.Var == v.Var {
		t.Error("instantiation reused the original variable")
	}
}

func TestSchemeFromType(t *testing.T) {
	scheme := SchemeFromType(identityType(3))
	if diff := cmp.Diff([]ast.Var{3}, scheme.Forall); diff != "" {
		t.Errorf("forall mismatch (-want +got):\n%s", diff)
	}
	if len(scheme.FreeTypeVariables()) != 0 {
		t.Error("closed scheme reported free variables")
	}
}
