package checker

import (
	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
	"github.com/veldlang/veld/internal/graph"
)

// toposortValueDeclarations orders value declarations leaves-first over
// the dependency graph induced by unqualified variable references.
// Mutually recursive declarations are grouped; nodes inside cyclic
// groups are sorted by declared name so checking order is reproducible.
func toposortValueDeclarations(declarations []cst.ValueDeclaration) []graph.Scc[cst.ValueDeclaration] {
	declared := make(map[ast.Name]bool, len(declarations))
	for _, declaration := range declarations {
		declared[declaration.Name] = true
	}
	return graph.ToposortDeterministic(
		declarations,
		func(declaration cst.ValueDeclaration) ast.Name { return declaration.Name },
		func(declaration cst.ValueDeclaration) map[ast.Name]bool {
			accum := make(map[ast.Name]bool)
			collectConnectedValues(declaration.Expression, declared, accum)
			return accum
		},
		func(a, b cst.ValueDeclaration) bool { return a.Name < b.Name },
	)
}

// collectConnectedValues walks an expression gathering references to
// the given top-level names. Names shadowed by binders don't count.
func collectConnectedValues(expression cst.Expression, names map[ast.Name]bool, accum map[ast.Name]bool) {
	switch expression := expression.(type) {
	case *cst.ExprVariable:
		// Qualified references point at imports.
		if expression.Variable.Qualifier != "" {
			return
		}
		if names[expression.Variable.Value] {
			accum[expression.Variable.Value] = true
		}

	case *cst.ExprCall:
		collectConnectedValues(expression.Function, names, accum)
		for _, argument := range expression.Arguments {
			collectConnectedValues(argument, names, accum)
		}

	case *cst.ExprFunction:
		scoped := names
		if bound := boundByBinders(expression.Binders); len(bound) > 0 {
			scoped = subtractNames(names, bound)
		}
		collectConnectedValues(expression.Body, scoped, accum)

	case *cst.ExprIf:
		collectConnectedValues(expression.Condition, names, accum)
		collectConnectedValues(expression.TrueClause, names, accum)
		collectConnectedValues(expression.FalseClause, names, accum)

	case *cst.ExprMatch:
		collectConnectedValues(expression.Expression, names, accum)
		for _, arm := range expression.Arms {
			bound := make(map[ast.Name]bool)
			collectPatternNames(arm.Pattern, bound)
			collectConnectedValues(arm.Expression, subtractNames(names, bound), accum)
		}

	case *cst.ExprLet:
		// Names introduced by let bindings immediately shadow existing
		// ones, including in the bound expressions themselves.
		bound := make(map[ast.Name]bool)
		for _, declaration := range expression.Declarations {
			collectPatternNames(declaration.Pattern, bound)
		}
		scoped := subtractNames(names, bound)
		for _, declaration := range expression.Declarations {
			collectConnectedValues(declaration.Expression, scoped, accum)
		}
		collectConnectedValues(expression.Body, scoped, accum)

	case *cst.ExprArray:
		for _, element := range expression.Elements {
			collectConnectedValues(element, names, accum)
		}

	case *cst.ExprRecord:
		for _, field := range expression.Fields {
			collectConnectedValues(field.Value, names, accum)
		}

	case *cst.ExprRecordAccess:
		collectConnectedValues(expression.Target, names, accum)

	case *cst.ExprRecordUpdate:
		collectConnectedValues(expression.Target, names, accum)
		for _, update := range expression.Updates {
			collectConnectedValues(update.Value, names, accum)
		}

	case *cst.ExprEffect:
		collectConnectedValuesEffect(expression.Effect, names, accum)
	}
}

func collectConnectedValuesEffect(effect cst.EffectNode, names map[ast.Name]bool, accum map[ast.Name]bool) {
	switch effect := effect.(type) {
	case *cst.EffectReturn:
		collectConnectedValues(effect.Expression, names, accum)
	case *cst.EffectBind:
		collectConnectedValues(effect.Expression, names, accum)
		scoped := subtractNames(names, map[ast.Name]bool{effect.Name: true})
		collectConnectedValuesEffect(effect.Rest, scoped, accum)
	case *cst.EffectLet:
		collectConnectedValues(effect.Expression, names, accum)
		bound := make(map[ast.Name]bool)
		collectPatternNames(effect.Pattern, bound)
		collectConnectedValuesEffect(effect.Rest, subtractNames(names, bound), accum)
	case *cst.EffectExpression:
		collectConnectedValues(effect.Expression, names, accum)
		if effect.Rest != nil {
			collectConnectedValuesEffect(effect.Rest, names, accum)
		}
	}
}

func boundByBinders(binders []cst.FunctionBinder) map[ast.Name]bool {
	bound := make(map[ast.Name]bool)
	for _, binder := range binders {
		collectPatternNames(binder.Pattern, bound)
	}
	return bound
}

func collectPatternNames(pattern cst.Pattern, accum map[ast.Name]bool) {
	switch pattern := pattern.(type) {
	case *cst.PatternVariable:
		accum[pattern.Name] = true
	case *cst.PatternConstructor:
		for _, argument := range pattern.Arguments {
			collectPatternNames(argument, accum)
		}
	}
}

func subtractNames(names, bound map[ast.Name]bool) map[ast.Name]bool {
	if len(bound) == 0 {
		return names
	}
	out := make(map[ast.Name]bool, len(names))
	for name := range names {
		if !bound[name] {
			out[name] = true
		}
	}
	return out
}

// typecheckValueDeclarations checks the value declarations SCC by SCC.
// Members of a cyclic SCC are pre-bound to fresh monotypes, checked
// under one shared substitution, and generalised together once the SCC
// is solved.
func typecheckValueDeclarations(
	kindEnv *KindEnv,
	env *Env,
	declarations []cst.ValueDeclaration,
	state *State,
) (map[ast.Name]*ast.ModuleValue, []graph.Scc[ast.Name], error) {
	seen := make(map[ast.Name]ast.Span, len(declarations))
	for _, declaration := range declarations {
		if previous, ok := seen[declaration.Name]; ok {
			return nil, nil, &DuplicateValueDeclaration{
				Previous:  previous,
				Duplicate: declaration.NameSpan,
				Name:      declaration.Name,
			}
		}
		seen[declaration.Name] = declaration.NameSpan
	}
	// Foreign values share the namespace.
	for qualifiedName, envValue := range env.Values {
		if foreign, ok := envValue.(*EnvValueForeignVariable); ok {
			if previous, ok := seen[foreign.Variable]; ok && qualifiedName.Qualifier == "" {
				return nil, nil, &DuplicateValueDeclaration{
					Previous:  foreign.Span,
					Duplicate: previous,
					Name:      foreign.Variable,
				}
			}
		}
	}

	values := make(map[ast.Name]*ast.ModuleValue, len(declarations))
	var valuesToposort []graph.Scc[ast.Name]

	for _, scc := range toposortValueDeclarations(declarations) {
		if !scc.Cyclic && len(scc.Nodes) == 1 {
			declaration := scc.Nodes[0]
			expression, err := typecheckValueDeclaration(kindEnv, env, declaration, state)
			if err != nil {
				return nil, nil, err
			}
			expression = state.Substitution.ApplyToExpression(expression)
			scheme := generalize(state, env, expression.GetType())
			env.Values[ast.Unqualified(declaration.Name)] = &EnvValueModuleValue{
				Span:     declaration.NameSpan,
				Scheme:   scheme,
				Variable: declaration.Name,
			}
			values[declaration.Name] = &ast.ModuleValue{
				DocComments: declaration.DocComments,
				NameSpan:    declaration.NameSpan,
				Expression:  expression,
			}
			valuesToposort = append(valuesToposort, graph.Acyclic(declaration.Name))
			continue
		}

		// Mutual recursion: pre-bind every member to a fresh monotype.
		sccEnv := env.Clone()
		preBound := make(map[ast.Name]ast.Type, len(scc.Nodes))
		for _, declaration := range scc.Nodes {
			monotype := state.Supply.FreshType()
			preBound[declaration.Name] = monotype
			sccEnv.Values[ast.Unqualified(declaration.Name)] = &EnvValueModuleValue{
				Span:     declaration.NameSpan,
				Scheme:   Scheme{Signature: monotype},
				Variable: declaration.Name,
			}
		}

		expressions := make(map[ast.Name]ast.Expression, len(scc.Nodes))
		for _, declaration := range scc.Nodes {
			expression, err := typecheckValueDeclaration(kindEnv, sccEnv, declaration, state)
			if err != nil {
				return nil, nil, err
			}
			if err := unify(state, declaration.NameSpan, preBound[declaration.Name], expression.GetType()); err != nil {
				return nil, nil, err
			}
			expressions[declaration.Name] = expression
		}

		// The whole SCC generalises as a unit, after solving.
		sccNames := make([]ast.Name, len(scc.Nodes))
		for i, declaration := range scc.Nodes {
			expression := state.Substitution.ApplyToExpression(expressions[declaration.Name])
			scheme := generalize(state, env, expression.GetType())
			env.Values[ast.Unqualified(declaration.Name)] = &EnvValueModuleValue{
				Span:     declaration.NameSpan,
				Scheme:   scheme,
				Variable: declaration.Name,
			}
			values[declaration.Name] = &ast.ModuleValue{
				DocComments: declaration.DocComments,
				NameSpan:    declaration.NameSpan,
				Expression:  expression,
			}
			sccNames[i] = declaration.Name
		}
		valuesToposort = append(valuesToposort, graph.Cyclic(sccNames...))
	}

	return values, valuesToposort, nil
}

func typecheckValueDeclaration(kindEnv *KindEnv, env *Env, declaration cst.ValueDeclaration, state *State) (ast.Expression, error) {
	// Each declaration gets its own annotation scope.
	tc := &typechecker{kindEnv: kindEnv.Clone(), state: state}
	if declaration.TypeAnnotation != nil {
		annotation, err := tc.checkTypeAnnotation(declaration.TypeAnnotation)
		if err != nil {
			return nil, err
		}
		return tc.check(env, annotation, declaration.Expression)
	}
	return tc.infer(env, declaration.Expression)
}
