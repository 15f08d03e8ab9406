package checker

import (
	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
)

// typechecker carries the pieces shared by every inference call: the
// kind environment (for annotations encountered mid-expression) and the
// mutable checking state. Value scopes are passed explicitly since they
// change shape at binders.
type typechecker struct {
	kindEnv *KindEnv
	state   *State
}

// infer computes the type of an expression bottom-up, yielding a typed
// node.
func (tc *typechecker) infer(env *Env, expression cst.Expression) (ast.Expression, error) {
	switch expression := expression.(type) {
	case *cst.ExprTrue:
		return &ast.ExprTrue{Span: expression.Span}, nil
	case *cst.ExprFalse:
		return &ast.ExprFalse{Span: expression.Span}, nil
	case *cst.ExprUnit:
		return &ast.ExprUnit{Span: expression.Span}, nil
	case *cst.ExprString:
		return &ast.ExprString{Span: expression.Span, Value: expression.Value}, nil
	case *cst.ExprInt:
		return &ast.ExprInt{Span: expression.Span, Value: stripNumberSeparators(expression.Value)}, nil
	case *cst.ExprFloat:
		return &ast.ExprFloat{Span: expression.Span, Value: stripNumberSeparators(expression.Value)}, nil

	case *cst.ExprArray:
		if len(expression.Elements) == 0 {
			return &ast.ExprArray{
				Span:        expression.Span,
				ElementType: tc.state.Supply.FreshType(),
			}, nil
		}
		head, err := tc.infer(env, expression.Elements[0])
		if err != nil {
			return nil, err
		}
		elementType := head.GetType()
		elements := []ast.Expression{head}
		for _, cstElement := range expression.Elements[1:] {
			element, err := tc.check(env, elementType, cstElement)
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
		}
		return &ast.ExprArray{
			Span:        expression.Span,
			ElementType: elementType,
			Elements:    elements,
		}, nil

	case *cst.ExprVariable:
		envValue, ok := env.Values[expression.Variable]
		if !ok {
			return nil, &UnknownVariable{
				Span:         expression.Span,
				Variable:     expression.Variable,
				NamesInScope: valuesInScope(env),
			}
		}
		tc.state.registerValueReference(expression.Variable)
		return envValue.ToExpression(expression.Span, &tc.state.Supply), nil

	case *cst.ExprConstructor:
		envConstructor, ok := env.Constructors[expression.Constructor]
		if !ok {
			return nil, &UnknownConstructor{
				Span:                expression.Span,
				Constructor:         expression.Constructor,
				ConstructorsInScope: constructorsInScope(env),
			}
		}
		tc.state.registerConstructorReference(expression.Constructor)
		return envConstructor.ToExpression(expression.Span, &tc.state.Supply), nil

	case *cst.ExprFunction:
		return tc.inferFunction(env, expression)

	case *cst.ExprCall:
		return tc.inferCall(env, expression)

	case *cst.ExprIf:
		condition, err := tc.check(env, &ast.TypePrim{Prim: ast.PrimBool}, expression.Condition)
		if err != nil {
			return nil, err
		}
		trueClause, err := tc.infer(env, expression.TrueClause)
		if err != nil {
			return nil, err
		}
		falseClause, err := tc.check(env, trueClause.GetType(), expression.FalseClause)
		if err != nil {
			return nil, err
		}
		return &ast.ExprIf{
			Span:        expression.Span,
			OutputType:  trueClause.GetType(),
			Condition:   condition,
			TrueClause:  trueClause,
			FalseClause: falseClause,
		}, nil

	case *cst.ExprMatch:
		return tc.inferMatch(env, expression)

	case *cst.ExprLet:
		return tc.inferLet(env, expression, expression.Declarations)

	case *cst.ExprRecord:
		seen := make(map[ast.Name]ast.Span, len(expression.Fields))
		fields := make([]ast.RecordExprField, 0, len(expression.Fields))
		for _, cstField := range expression.Fields {
			if previous, ok := seen[cstField.Label]; ok {
				return nil, &DuplicateRecordField{
					Previous:  previous,
					Duplicate: cstField.LabelSpan,
					Label:     cstField.Label,
				}
			}
			seen[cstField.Label] = cstField.LabelSpan
			value, err := tc.infer(env, cstField.Value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordExprField{
				LabelSpan: cstField.LabelSpan,
				Label:     cstField.Label,
				Value:     value,
			})
		}
		return &ast.ExprRecord{Span: expression.Span, Fields: fields}, nil

	case *cst.ExprRecordAccess:
		target, err := tc.infer(env, expression.Target)
		if err != nil {
			return nil, err
		}
		resultType := tc.state.Supply.FreshType()
		openRecord := &ast.TypeRecordOpen{
			Var: tc.state.Supply.Fresh(),
			Row: ast.Row{{Label: expression.Label, Type: resultType}},
		}
		if err := unify(tc.state, expression.Span, openRecord, target.GetType()); err != nil {
			return nil, err
		}
		return &ast.ExprRecordAccess{
			Span:       expression.Span,
			ResultType: resultType,
			Target:     target,
			Label:      expression.Label,
		}, nil

	case *cst.ExprRecordUpdate:
		target, err := tc.infer(env, expression.Target)
		if err != nil {
			return nil, err
		}
		seen := make(map[ast.Name]ast.Span, len(expression.Updates))
		updates := make([]ast.RecordExprField, 0, len(expression.Updates))
		updateFields := make([]ast.RowField, 0, len(expression.Updates))
		for _, cstUpdate := range expression.Updates {
			if previous, ok := seen[cstUpdate.Label]; ok {
				return nil, &DuplicateRecordField{
					Previous:  previous,
					Duplicate: cstUpdate.LabelSpan,
					Label:     cstUpdate.Label,
				}
			}
			seen[cstUpdate.Label] = cstUpdate.LabelSpan
			fieldType := tc.state.Supply.FreshType()
			value, err := tc.check(env, fieldType, cstUpdate.Value)
			if err != nil {
				return nil, err
			}
			updates = append(updates, ast.RecordExprField{
				LabelSpan: cstUpdate.LabelSpan,
				Label:     cstUpdate.Label,
				Value:     value,
			})
			updateFields = append(updateFields, ast.RowField{Label: cstUpdate.Label, Type: fieldType})
		}
		openRecord := &ast.TypeRecordOpen{
			Var: tc.state.Supply.Fresh(),
			Row: ast.MakeRow(updateFields),
		}
		if err := unify(tc.state, expression.Span, openRecord, target.GetType()); err != nil {
			return nil, err
		}
		return &ast.ExprRecordUpdate{
			Span:       expression.Span,
			RecordType: target.GetType(),
			Target:     target,
			Updates:    updates,
		}, nil

	case *cst.ExprEffect:
		effect, effectType, err := tc.inferEffect(env, expression.Effect)
		if err != nil {
			return nil, err
		}
		return &ast.ExprEffect{
			Span:       expression.Span,
			ResultType: effectType,
			Effect:     effect,
		}, nil

	default:
		panic("unexpected cst expression")
	}
}

// check infers an expression and unifies its type with expected.
func (tc *typechecker) check(env *Env, expected ast.Type, expression cst.Expression) (ast.Expression, error) {
	span := expression.GetSpan()
	checked, err := tc.infer(env, expression)
	if err != nil {
		return nil, err
	}
	if err := unify(tc.state, span, expected, checked.GetType()); err != nil {
		return nil, err
	}
	return checked, nil
}

func (tc *typechecker) inferFunction(env *Env, expression *cst.ExprFunction) (ast.Expression, error) {
	// Annotations inside this function may introduce type variables
	// scoped to it.
	kindEnv := tc.kindEnv
	tc.kindEnv = kindEnv.Clone()
	defer func() { tc.kindEnv = kindEnv }()

	bodyEnv := env.Clone()
	boundNames := make(map[ast.Name]ast.Span)
	type namedBinder struct {
		name ast.Name
		span ast.Span
	}
	var namedBinders []namedBinder

	binders := make([]ast.FunctionBinder, len(expression.Binders))
	for i, cstBinder := range expression.Binders {
		var binderType ast.Type
		if cstBinder.TypeAnnotation != nil {
			annotation, err := tc.checkTypeAnnotation(cstBinder.TypeAnnotation)
			if err != nil {
				return nil, err
			}
			binderType = annotation
		} else {
			binderType = tc.state.Supply.FreshType()
		}

		switch cstPattern := cstBinder.Pattern.(type) {
		case *cst.PatternVariable:
			if previous, ok := boundNames[cstPattern.Name]; ok {
				return nil, &DuplicateFunctionBinder{
					Previous:  previous,
					Duplicate: cstPattern.Span,
					Name:      cstPattern.Name,
				}
			}
			boundNames[cstPattern.Name] = cstPattern.Span
			namedBinders = append(namedBinders, namedBinder{name: cstPattern.Name, span: cstPattern.Span})
			bodyEnv.Values[ast.Unqualified(cstPattern.Name)] = &EnvValueLocalVariable{
				Span:     cstPattern.Span,
				Scheme:   Scheme{Signature: binderType},
				Variable: cstPattern.Name,
			}
			binders[i] = ast.FunctionBinder{
				Pattern:    &ast.PatternVariable{Span: cstPattern.Span, Name: cstPattern.Name},
				BinderType: binderType,
			}

		case *cst.PatternUnused:
			binders[i] = ast.FunctionBinder{
				Pattern:    &ast.PatternUnused{Span: cstPattern.Span, UnusedName: cstPattern.UnusedName},
				BinderType: binderType,
			}

		default:
			// Any other pattern must be irrefutable: it alone has to
			// cover the binder's type.
			pattern, bindings, err := tc.checkPattern(env, binderType, cstBinder.Pattern)
			if err != nil {
				return nil, err
			}
			binderTypeSolved := tc.state.Substitution.Apply(binderType)
			missing, _ := checkPatternCoverage(env, binderTypeSolved, []ast.Pattern{pattern})
			if len(missing) > 0 {
				return nil, &RefutableFunctionBinder{
					Span:            cstBinder.Pattern.GetSpan(),
					MissingPatterns: missing,
				}
			}
			for _, binding := range bindings {
				if previous, ok := boundNames[binding.name]; ok {
					return nil, &DuplicateFunctionBinder{
						Previous:  previous,
						Duplicate: binding.span,
						Name:      binding.name,
					}
				}
				boundNames[binding.name] = binding.span
				namedBinders = append(namedBinders, namedBinder{name: binding.name, span: binding.span})
				bodyEnv.Values[ast.Unqualified(binding.name)] = &EnvValueLocalVariable{
					Span:     binding.span,
					Scheme:   Scheme{Signature: binding.bindingType},
					Variable: binding.name,
				}
			}
			binders[i] = ast.FunctionBinder{Pattern: pattern, BinderType: binderType}
		}
	}

	var body ast.Expression
	var err error
	if expression.ReturnTypeAnnotation != nil {
		returnType, annotationErr := tc.checkTypeAnnotation(expression.ReturnTypeAnnotation)
		if annotationErr != nil {
			return nil, annotationErr
		}
		body, err = tc.check(bodyEnv, returnType, expression.Body)
	} else {
		body, err = tc.infer(bodyEnv, expression.Body)
	}
	if err != nil {
		return nil, err
	}

	for _, binder := range namedBinders {
		if countLocalVariableReferences(body, binder.name) == 0 {
			tc.state.warn(&UnusedFunctionBinder{Span: binder.span, Name: binder.name})
		}
	}

	return &ast.ExprFunction{
		Span:       expression.Span,
		Binders:    binders,
		ReturnType: body.GetType(),
		Body:       body,
	}, nil
}

func (tc *typechecker) inferCall(env *Env, expression *cst.ExprCall) (ast.Expression, error) {
	functionSpan := expression.Function.GetSpan()
	function, err := tc.infer(env, expression.Function)
	if err != nil {
		return nil, err
	}
	functionType := ast.Unalias(tc.state.Substitution.Apply(function.GetType()))

	switch functionType := functionType.(type) {
	case *ast.TypeFunction:
		if len(expression.Arguments) != len(functionType.Parameters) {
			return nil, &ArgumentLengthMismatch{
				FunctionSpan: functionSpan,
				Wanted:       len(functionType.Parameters),
				Got:          len(expression.Arguments),
			}
		}
		arguments := make([]ast.Expression, len(expression.Arguments))
		for i, cstArgument := range expression.Arguments {
			argument, err := tc.check(env, functionType.Parameters[i], cstArgument)
			if err != nil {
				return nil, err
			}
			arguments[i] = argument
		}
		return &ast.ExprCall{
			Span:      expression.Span,
			CallType:  functionType.ReturnType,
			Function:  function,
			Arguments: arguments,
		}, nil

	case *ast.TypeVariable:
		// The callee's type is still unknown: invent types for the
		// arguments and constrain the variable to a matching function.
		arguments := make([]ast.Expression, len(expression.Arguments))
		parameters := make([]ast.Type, len(expression.Arguments))
		for i, cstArgument := range expression.Arguments {
			argument, err := tc.infer(env, cstArgument)
			if err != nil {
				return nil, err
			}
			arguments[i] = argument
			parameters[i] = argument.GetType()
		}
		returnType := tc.state.Supply.FreshType()
		constructed := &ast.TypeFunction{Parameters: parameters, ReturnType: returnType}
		if err := unify(tc.state, functionSpan, constructed, functionType); err != nil {
			return nil, err
		}
		return &ast.ExprCall{
			Span:      expression.Span,
			CallType:  returnType,
			Function:  function,
			Arguments: arguments,
		}, nil

	default:
		return nil, &NotAFunction{Span: functionSpan, ActualType: functionType}
	}
}

func (tc *typechecker) inferMatch(env *Env, expression *cst.ExprMatch) (ast.Expression, error) {
	scrutinee, err := tc.infer(env, expression.Expression)
	if err != nil {
		return nil, err
	}
	scrutineeType := scrutinee.GetType()

	var matchType ast.Type
	arms := make([]ast.MatchArm, len(expression.Arms))
	patterns := make([]ast.Pattern, len(expression.Arms))
	for i, cstArm := range expression.Arms {
		pattern, bindings, err := tc.checkPattern(env, scrutineeType, cstArm.Pattern)
		if err != nil {
			return nil, err
		}
		armEnv := env.Clone()
		for _, binding := range bindings {
			armEnv.Values[ast.Unqualified(binding.name)] = &EnvValueLocalVariable{
				Span:     binding.span,
				Scheme:   Scheme{Signature: binding.bindingType},
				Variable: binding.name,
			}
		}
		var armExpression ast.Expression
		if matchType == nil {
			armExpression, err = tc.infer(armEnv, cstArm.Expression)
			if err != nil {
				return nil, err
			}
			matchType = armExpression.GetType()
		} else {
			armExpression, err = tc.check(armEnv, matchType, cstArm.Expression)
			if err != nil {
				return nil, err
			}
		}
		arms[i] = ast.MatchArm{Pattern: pattern, Expression: armExpression}
		patterns[i] = pattern
	}

	// Coverage runs on the solved scrutinee type: pattern checking above
	// may have refined it.
	solvedScrutineeType := tc.state.Substitution.Apply(scrutineeType)
	missing, redundant := checkPatternCoverage(env, solvedScrutineeType, patterns)
	if len(missing) > 0 {
		return nil, &MatchNotExhaustive{
			MatchSpan:       expression.Span,
			MissingPatterns: missing,
		}
	}
	for _, span := range redundant {
		tc.state.warn(&RedundantMatchPattern{Span: span})
	}

	return &ast.ExprMatch{
		Span:       expression.Span,
		MatchType:  matchType,
		Expression: scrutinee,
		Arms:       arms,
	}, nil
}

func (tc *typechecker) inferLet(env *Env, expression *cst.ExprLet, declarations []cst.LetDeclaration) (ast.Expression, error) {
	if len(declarations) == 0 {
		return tc.infer(env, expression.Body)
	}
	cstDeclaration, rest := declarations[0], declarations[1:]

	var annotation ast.Type
	var bound ast.Expression
	var err error
	if cstDeclaration.TypeAnnotation != nil {
		kindEnv := tc.kindEnv
		tc.kindEnv = kindEnv.Clone()
		annotation, err = tc.checkTypeAnnotation(cstDeclaration.TypeAnnotation)
		if err != nil {
			tc.kindEnv = kindEnv
			return nil, err
		}
		bound, err = tc.check(env, annotation, cstDeclaration.Expression)
		tc.kindEnv = kindEnv
	} else {
		bound, err = tc.infer(env, cstDeclaration.Expression)
	}
	if err != nil {
		return nil, err
	}

	bodyEnv := env.Clone()
	var pattern ast.Pattern
	switch cstPattern := cstDeclaration.Pattern.(type) {
	case *cst.PatternVariable:
		// A plain variable binder gets let-generalisation.
		scheme := tc.generalize(env, bound.GetType())
		bodyEnv.Values[ast.Unqualified(cstPattern.Name)] = &EnvValueLocalVariable{
			Span:     cstPattern.Span,
			Scheme:   scheme,
			Variable: cstPattern.Name,
		}
		pattern = &ast.PatternVariable{Span: cstPattern.Span, Name: cstPattern.Name}

	case *cst.PatternUnused:
		pattern = &ast.PatternUnused{Span: cstPattern.Span, UnusedName: cstPattern.UnusedName}

	default:
		// Pattern binders bind monomorphically and must be irrefutable.
		checkedPattern, bindings, err := tc.checkPattern(env, bound.GetType(), cstDeclaration.Pattern)
		if err != nil {
			return nil, err
		}
		boundType := tc.state.Substitution.Apply(bound.GetType())
		missing, _ := checkPatternCoverage(env, boundType, []ast.Pattern{checkedPattern})
		if len(missing) > 0 {
			return nil, &RefutableFunctionBinder{
				Span:            cstDeclaration.Pattern.GetSpan(),
				MissingPatterns: missing,
			}
		}
		for _, binding := range bindings {
			bodyEnv.Values[ast.Unqualified(binding.name)] = &EnvValueLocalVariable{
				Span:     binding.span,
				Scheme:   Scheme{Signature: binding.bindingType},
				Variable: binding.name,
			}
		}
		pattern = checkedPattern
	}

	body, err := tc.inferLet(bodyEnv, expression, rest)
	if err != nil {
		return nil, err
	}
	return &ast.ExprLet{
		Span: expression.Span,
		Declaration: ast.LetDeclaration{
			Pattern:        pattern,
			TypeAnnotation: annotation,
			Expression:     bound,
		},
		Body: body,
	}, nil
}

func (tc *typechecker) inferEffect(env *Env, effect cst.EffectNode) (ast.EffectNode, ast.Type, error) {
	mkEffectType := func(t ast.Type) ast.Type {
		return &ast.TypeCall{
			Function:  &ast.TypePrim{Prim: ast.PrimEffect},
			Arguments: []ast.Type{t},
		}
	}

	switch effect := effect.(type) {
	case *cst.EffectReturn:
		checked, err := tc.infer(env, effect.Expression)
		if err != nil {
			return nil, nil, err
		}
		return &ast.EffectReturn{Expression: checked}, mkEffectType(checked.GetType()), nil

	case *cst.EffectBind:
		bindType := tc.state.Supply.FreshType()
		checked, err := tc.check(env, mkEffectType(bindType), effect.Expression)
		if err != nil {
			return nil, nil, err
		}
		restEnv := env.Clone()
		restEnv.Values[ast.Unqualified(effect.Name)] = &EnvValueLocalVariable{
			Span:     effect.NameSpan,
			Scheme:   Scheme{Signature: bindType},
			Variable: effect.Name,
		}
		rest, restType, err := tc.inferEffect(restEnv, effect.Rest)
		if err != nil {
			return nil, nil, err
		}
		if countEffectLocalVariableReferences(rest, effect.Name) == 0 {
			tc.state.warn(&UnusedEffectBinder{Span: effect.NameSpan, Name: effect.Name})
		}
		return &ast.EffectBind{
			NameSpan:   effect.NameSpan,
			Name:       effect.Name,
			Expression: checked,
			Rest:       rest,
		}, restType, nil

	case *cst.EffectLet:
		var annotation ast.Type
		var bound ast.Expression
		var err error
		if effect.TypeAnnotation != nil {
			kindEnv := tc.kindEnv
			tc.kindEnv = kindEnv.Clone()
			annotation, err = tc.checkTypeAnnotation(effect.TypeAnnotation)
			if err != nil {
				tc.kindEnv = kindEnv
				return nil, nil, err
			}
			bound, err = tc.check(env, annotation, effect.Expression)
			tc.kindEnv = kindEnv
		} else {
			bound, err = tc.infer(env, effect.Expression)
		}
		if err != nil {
			return nil, nil, err
		}

		restEnv := env.Clone()
		var pattern ast.Pattern
		switch cstPattern := effect.Pattern.(type) {
		case *cst.PatternVariable:
			scheme := tc.generalize(env, bound.GetType())
			restEnv.Values[ast.Unqualified(cstPattern.Name)] = &EnvValueLocalVariable{
				Span:     cstPattern.Span,
				Scheme:   scheme,
				Variable: cstPattern.Name,
			}
			pattern = &ast.PatternVariable{Span: cstPattern.Span, Name: cstPattern.Name}
		case *cst.PatternUnused:
			pattern = &ast.PatternUnused{Span: cstPattern.Span, UnusedName: cstPattern.UnusedName}
		default:
			checkedPattern, bindings, err := tc.checkPattern(env, bound.GetType(), effect.Pattern)
			if err != nil {
				return nil, nil, err
			}
			boundType := tc.state.Substitution.Apply(bound.GetType())
			missing, _ := checkPatternCoverage(env, boundType, []ast.Pattern{checkedPattern})
			if len(missing) > 0 {
				return nil, nil, &RefutableFunctionBinder{
					Span:            effect.Pattern.GetSpan(),
					MissingPatterns: missing,
				}
			}
			for _, binding := range bindings {
				restEnv.Values[ast.Unqualified(binding.name)] = &EnvValueLocalVariable{
					Span:     binding.span,
					Scheme:   Scheme{Signature: binding.bindingType},
					Variable: binding.name,
				}
			}
			pattern = checkedPattern
		}

		rest, restType, err := tc.inferEffect(restEnv, effect.Rest)
		if err != nil {
			return nil, nil, err
		}
		return &ast.EffectLet{
			Pattern:        pattern,
			TypeAnnotation: annotation,
			Expression:     bound,
			Rest:           rest,
		}, restType, nil

	case *cst.EffectExpression:
		if effect.Rest == nil {
			// Last statement: it is the block's result and must itself
			// be an effect.
			resultType := mkEffectType(tc.state.Supply.FreshType())
			checked, err := tc.check(env, resultType, effect.Expression)
			if err != nil {
				return nil, nil, err
			}
			return &ast.EffectExpression{Expression: checked}, checked.GetType(), nil
		}
		// Sequenced for its effect only; the result is discarded.
		discarded := mkEffectType(tc.state.Supply.FreshType())
		checked, err := tc.check(env, discarded, effect.Expression)
		if err != nil {
			return nil, nil, err
		}
		rest, restType, err := tc.inferEffect(env, effect.Rest)
		if err != nil {
			return nil, nil, err
		}
		return &ast.EffectExpression{Expression: checked, Rest: rest}, restType, nil

	default:
		panic("unexpected cst effect")
	}
}

// patternBinding is a variable bound by a pattern, in source order.
type patternBinding struct {
	name        ast.Name
	span        ast.Span
	bindingType ast.Type
}

// checkPattern checks a pattern against the expected type, returning
// the checked pattern and the variables it binds.
func (tc *typechecker) checkPattern(env *Env, expected ast.Type, cstPattern cst.Pattern) (ast.Pattern, []patternBinding, error) {
	bindings := make(map[ast.Name]ast.Span)
	return tc.checkPatternRec(env, expected, cstPattern, bindings)
}

func (tc *typechecker) checkPatternRec(
	env *Env,
	expected ast.Type,
	cstPattern cst.Pattern,
	seen map[ast.Name]ast.Span,
) (ast.Pattern, []patternBinding, error) {
	switch cstPattern := cstPattern.(type) {
	case *cst.PatternVariable:
		if previous, ok := seen[cstPattern.Name]; ok {
			return nil, nil, &DuplicatePatternBinder{
				Previous:  previous,
				Duplicate: cstPattern.Span,
				Name:      cstPattern.Name,
			}
		}
		seen[cstPattern.Name] = cstPattern.Span
		binding := patternBinding{
			name:        cstPattern.Name,
			span:        cstPattern.Span,
			bindingType: expected,
		}
		return &ast.PatternVariable{Span: cstPattern.Span, Name: cstPattern.Name}, []patternBinding{binding}, nil

	case *cst.PatternUnused:
		return &ast.PatternUnused{Span: cstPattern.Span, UnusedName: cstPattern.UnusedName}, nil, nil

	case *cst.PatternConstructor:
		envConstructor, ok := env.Constructors[cstPattern.Constructor]
		if !ok {
			return nil, nil, &UnknownConstructor{
				Span:                cstPattern.Span,
				Constructor:         cstPattern.Constructor,
				ConstructorsInScope: constructorsInScope(env),
			}
		}
		tc.state.registerConstructorReference(cstPattern.Constructor)

		constructorType := envConstructor.GetType(&tc.state.Supply)
		var parameters []ast.Type
		returnType := constructorType
		if function, ok := constructorType.(*ast.TypeFunction); ok {
			parameters = function.Parameters
			returnType = function.ReturnType
		}
		if len(cstPattern.Arguments) != len(parameters) {
			return nil, nil, &ArgumentLengthMismatch{
				FunctionSpan: cstPattern.Span,
				Wanted:       len(parameters),
				Got:          len(cstPattern.Arguments),
			}
		}
		if err := unify(tc.state, cstPattern.Span, expected, returnType); err != nil {
			return nil, nil, err
		}

		var allBindings []patternBinding
		arguments := make([]ast.Pattern, len(cstPattern.Arguments))
		for i, cstArgument := range cstPattern.Arguments {
			argument, bindings, err := tc.checkPatternRec(env, parameters[i], cstArgument, seen)
			if err != nil {
				return nil, nil, err
			}
			arguments[i] = argument
			allBindings = append(allBindings, bindings...)
		}
		return envConstructor.ToPattern(cstPattern.Span, arguments), allBindings, nil

	default:
		panic("unexpected cst pattern")
	}
}

// checkTypeAnnotation kind-checks an annotation, binding any type
// variables it mentions that aren't already in scope. User-named
// variables come out rigid.
func (tc *typechecker) checkTypeAnnotation(cstType cst.Type) (ast.Type, error) {
	for _, name := range cstTypeVariables(cstType) {
		if _, ok := tc.kindEnv.TypeVariables[name]; !ok {
			v, kind := tc.state.Supply.FreshKind()
			tc.kindEnv.TypeVariables[name] = EnvTypeVariable{Var: v, VariableKind: kind}
		}
	}
	annotation, err := kindCheck(tc.kindEnv, tc.state, ast.KindType{}, cstType)
	if err != nil {
		return nil, err
	}
	return tc.state.KindSubstitution.ApplyToType(annotation), nil
}

// generalize abstracts a type over the variables free in it but not in
// the environment, with the current substitution applied throughout.
func (tc *typechecker) generalize(env *Env, t ast.Type) Scheme {
	return generalize(tc.state, env, t)
}

func generalize(state *State, env *Env, t ast.Type) Scheme {
	solved := state.Substitution.Apply(t)

	envFree := make(map[ast.Var]bool)
	collectFree := func(scheme Scheme) {
		bound := make(map[ast.Var]bool, len(scheme.Forall))
		for _, v := range scheme.Forall {
			bound[v] = true
		}
		for _, v := range ast.TypeVariables(state.Substitution.Apply(scheme.Signature)) {
			if !bound[v] {
				envFree[v] = true
			}
		}
	}
	for _, envValue := range env.Values {
		collectFree(envValue.GetScheme())
	}
	for _, envConstructor := range env.Constructors {
		collectFree(envConstructor.GetScheme())
	}

	var forall []ast.Var
	for _, v := range ast.TypeVariables(solved) {
		if !envFree[v] {
			forall = append(forall, v)
		}
	}
	return Scheme{Forall: forall, Signature: solved}
}

// cstTypeVariables collects the type variable names mentioned in a CST
// type, in first-seen order.
func cstTypeVariables(cstType cst.Type) []ast.Name {
	seen := make(map[ast.Name]bool)
	var ordered []ast.Name
	cstTypeVariablesRec(cstType, seen, &ordered)
	return ordered
}

func cstTypeVariablesRec(cstType cst.Type, seen map[ast.Name]bool, ordered *[]ast.Name) {
	add := func(name ast.Name) {
		if !seen[name] {
			seen[name] = true
			*ordered = append(*ordered, name)
		}
	}
	switch cstType := cstType.(type) {
	case *cst.TypeVariable:
		add(cstType.Name)
	case *cst.TypeConstructor:
		// no variables
	case *cst.TypeFunction:
		for _, p := range cstType.Parameters {
			cstTypeVariablesRec(p, seen, ordered)
		}
		cstTypeVariablesRec(cstType.ReturnType, seen, ordered)
	case *cst.TypeCall:
		cstTypeVariablesRec(cstType.Function, seen, ordered)
		for _, arg := range cstType.Arguments {
			cstTypeVariablesRec(arg, seen, ordered)
		}
	case *cst.TypeRecordClosed:
		for _, field := range cstType.Fields {
			cstTypeVariablesRec(field.Value, seen, ordered)
		}
	case *cst.TypeRecordOpen:
		add(cstType.Var)
		for _, field := range cstType.Fields {
			cstTypeVariablesRec(field.Value, seen, ordered)
		}
	}
}

func valuesInScope(env *Env) []ast.QualifiedName {
	names := make([]ast.QualifiedName, 0, len(env.Values))
	for name := range env.Values {
		names = append(names, name)
	}
	return names
}

func constructorsInScope(env *Env) []ast.QualifiedProperName {
	names := make([]ast.QualifiedProperName, 0, len(env.Constructors))
	for name := range env.Constructors {
		names = append(names, name)
	}
	return names
}

func stripNumberSeparators(value string) string {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		if value[i] != '_' {
			out = append(out, value[i])
		}
	}
	return string(out)
}
