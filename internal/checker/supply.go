// Package checker implements the veld checker core: kind checking, type
// inference with row-polymorphic records, pattern coverage, and the
// module driver that ties them together.
//
// The single entry point is CheckModule: given an Environment of
// already-checked module exports and a CST module, it produces a typed
// ast.Module plus warnings, or a TypeError.
package checker

import "github.com/veldlang/veld/internal/ast"

// Supply hands out fresh variable ids. One supply serves both kind and
// type variables, so ids never collide across the two substitutions.
type Supply struct {
	next ast.Var
}

// Peek returns the next id without consuming it.
func (s *Supply) Peek() ast.Var { return s.next }

// Update raises the counter. Used when instantiating imported schemes
// whose quantified vars were minted by another supply.
func (s *Supply) Update(n ast.Var) { s.next = n }

// Fresh returns the next free id.
func (s *Supply) Fresh() ast.Var {
	v := s.next
	s.next++
	return v
}

// FreshType returns a new flexible type variable of kind Type.
func (s *Supply) FreshType() *ast.TypeVariable {
	return &ast.TypeVariable{
		VariableKind: ast.KindType{},
		Var:          s.Fresh(),
	}
}

// FreshKind returns a fresh type var id paired with a fresh kind
// variable, for type variables whose kind is not yet known.
func (s *Supply) FreshKind() (ast.Var, ast.Kind) {
	v := s.Fresh()
	kindVar := s.Fresh()
	return v, ast.KindVariable{Var: kindVar}
}
