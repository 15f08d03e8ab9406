package checker

import (
	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
)

// foreignValue is a kind-checked foreign value declaration.
type foreignValue struct {
	span      ast.Span
	nameSpan  ast.Span
	name      ast.Name
	signature ast.Type
}

// kindcheckForeignValueDeclarations checks the type annotations of
// foreign value declarations. Each annotation gets its own type
// variable scope.
func kindcheckForeignValueDeclarations(
	envTypes EnvTypes,
	declarations []cst.ForeignValueDeclaration,
	state *State,
) ([]foreignValue, error) {
	foreignValues := make([]foreignValue, 0, len(declarations))
	for _, declaration := range declarations {
		env := &KindEnv{Types: envTypes, TypeVariables: make(EnvTypeVariables)}
		for _, name := range cstTypeVariables(declaration.TypeAnnotation) {
			v, kind := state.Supply.FreshKind()
			env.TypeVariables[name] = EnvTypeVariable{Var: v, VariableKind: kind}
		}
		signature, err := kindCheck(env, state, ast.KindType{}, declaration.TypeAnnotation)
		if err != nil {
			return nil, err
		}
		signature = defaultKindsInType(state.KindSubstitution.ApplyToType(signature))
		foreignValues = append(foreignValues, foreignValue{
			span:      declaration.Span,
			nameSpan:  declaration.NameSpan,
			name:      declaration.Name,
			signature: signature,
		})
	}
	return foreignValues, nil
}
