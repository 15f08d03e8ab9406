package checker

import "github.com/veldlang/veld/internal/ast"

// ValueReferences counts value references by qualified name.
type ValueReferences map[ast.QualifiedName]int

// ConstructorReferences counts constructor references by qualified name.
type ConstructorReferences map[ast.QualifiedProperName]int

// State is the mutable checking state threaded through both the kind
// checker and the type checker: one fresh-variable supply, the two
// substitutions, accumulated warnings, and reference counts for the
// unused-code analysis. Checking is single-threaded; the state is
// mutated in place.
type State struct {
	Supply                Supply
	KindSubstitution      KindSubstitution
	Substitution          Substitution
	Warnings              Warnings
	TypeReferences        TypeReferences
	ValueReferences       ValueReferences
	ConstructorReferences ConstructorReferences
}

// NewState returns an empty checking state.
func NewState() *State {
	return &State{
		KindSubstitution:      make(KindSubstitution),
		Substitution:          make(Substitution),
		TypeReferences:        make(TypeReferences),
		ValueReferences:       make(ValueReferences),
		ConstructorReferences: make(ConstructorReferences),
	}
}

func (s *State) registerTypeReference(constructor ast.QualifiedProperName) {
	s.TypeReferences[constructor]++
}

func (s *State) registerValueReference(value ast.QualifiedName) {
	s.ValueReferences[value]++
}

func (s *State) registerConstructorReference(constructor ast.QualifiedProperName) {
	s.ConstructorReferences[constructor]++
}

func (s *State) warn(warning Warning) {
	s.Warnings = append(s.Warnings, warning)
}
