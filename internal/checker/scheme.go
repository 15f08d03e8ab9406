package checker

import "github.com/veldlang/veld/internal/ast"

// Scheme is a polymorphic type: a signature together with the variables
// quantified over it. Forall is kept in first-seen order so
// instantiation is deterministic.
//
// Canonical form: Forall is exactly the free variable set of Signature
// minus the free variables of the environment the scheme was
// generalized under.
type Scheme struct {
	Forall    []ast.Var
	Signature ast.Type
}

// SchemeFromType quantifies over all the type variables of t. Only
// valid when none of t's variables exist in the current typing
// environment (foreign declarations, imported exports).
func SchemeFromType(t ast.Type) Scheme {
	return Scheme{
		Forall:    ast.TypeVariables(t),
		Signature: t,
	}
}

// Instantiate converts the polytype to a monotype by replacing each
// quantified variable with a fresh flexible one.
//
// If any quantified var is at or beyond the supply's next id — which
// happens with schemes imported from other modules, minted by another
// supply — the supply is bumped past it first, otherwise a fresh var
// could collide with a quantified one and tie the substitution into a
// loop.
func (scheme Scheme) Instantiate(supply *Supply) ast.Type {
	maxVar := -1
	for _, v := range scheme.Forall {
		if v > maxVar {
			maxVar = v
		}
	}
	if maxVar >= supply.Peek() {
		supply.Update(maxVar + 1)
	}

	substitution := make(Substitution, len(scheme.Forall))
	for _, v := range scheme.Forall {
		substitution[v] = supply.FreshType()
	}
	return substitution.Apply(scheme.Signature)
}

// FreeTypeVariables returns the variables mentioned in the signature
// and not bound by the quantifier.
func (scheme Scheme) FreeTypeVariables() []ast.Var {
	bound := make(map[ast.Var]bool, len(scheme.Forall))
	for _, v := range scheme.Forall {
		bound[v] = true
	}
	var free []ast.Var
	for _, v := range ast.TypeVariables(scheme.Signature) {
		if !bound[v] {
			free = append(free, v)
		}
	}
	return free
}
