package checker

import (
	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
)

// kindInfer checks that a CST type is well formed and returns its
// checked representation. The inferred kind is recoverable from the
// result via GetKind (after applying the kind substitution).
func kindInfer(env *KindEnv, state *State, cstType cst.Type) (ast.Type, error) {
	switch cstType := cstType.(type) {
	case *cst.TypeVariable:
		envVariable, ok := env.TypeVariables[cstType.Name]
		if !ok {
			return nil, &UnknownTypeVariable{
				Span:     cstType.Span,
				Variable: cstType.Name,
			}
		}
		return envVariable.ToType(cstType.Name), nil

	case *cst.TypeConstructor:
		state.registerTypeReference(cstType.Constructor)
		envType, ok := env.Types[cstType.Constructor]
		if !ok {
			return nil, &UnknownTypeConstructor{
				Span:         cstType.Span,
				Constructor:  cstType.Constructor,
				TypesInScope: typesInScope(env),
			}
		}
		return envType.ToType(cstType.Constructor), nil

	case *cst.TypeFunction:
		parameters := make([]ast.Type, len(cstType.Parameters))
		for i, cstParameter := range cstType.Parameters {
			parameter, err := kindCheck(env, state, ast.KindType{}, cstParameter)
			if err != nil {
				return nil, err
			}
			parameters[i] = parameter
		}
		returnType, err := kindCheck(env, state, ast.KindType{}, cstType.ReturnType)
		if err != nil {
			return nil, err
		}
		return &ast.TypeFunction{Parameters: parameters, ReturnType: returnType}, nil

	case *cst.TypeCall:
		functionSpan := cstType.Function.GetSpan()
		function, err := kindInfer(env, state, cstType.Function)
		if err != nil {
			return nil, err
		}
		functionKind := state.KindSubstitution.Apply(function.GetKind())
		switch functionKind := functionKind.(type) {
		case ast.KindFunction:
			if len(cstType.Arguments) != len(functionKind.Parameters) {
				return nil, &TypeArgumentLengthMismatch{
					FunctionSpan: functionSpan,
					Wanted:       len(functionKind.Parameters),
					Got:          len(cstType.Arguments),
				}
			}
			arguments := make([]ast.Type, len(cstType.Arguments))
			for i, cstArgument := range cstType.Arguments {
				argument, err := kindCheck(env, state, functionKind.Parameters[i], cstArgument)
				if err != nil {
					return nil, err
				}
				arguments[i] = argument
			}
			return &ast.TypeCall{Function: function, Arguments: arguments}, nil

		case ast.KindVariable:
			// The head's kind is still unknown: infer the arguments,
			// assemble a function kind from them and unify.
			arguments := make([]ast.Type, len(cstType.Arguments))
			parameters := make([]ast.Kind, len(cstType.Arguments))
			for i, cstArgument := range cstType.Arguments {
				argument, err := kindInfer(env, state, cstArgument)
				if err != nil {
					return nil, err
				}
				arguments[i] = argument
				parameters[i] = argument.GetKind()
			}
			err := kindUnify(state, functionSpan, ast.KindFunction{Parameters: parameters}, functionKind)
			if err != nil {
				return nil, err
			}
			return &ast.TypeCall{Function: function, Arguments: arguments}, nil

		default:
			return nil, &TypeNotAFunction{
				Span:       functionSpan,
				ActualKind: functionKind,
			}
		}

	case *cst.TypeRecordClosed:
		row, err := kindCheckRecordFields(env, state, cstType.Fields)
		if err != nil {
			return nil, err
		}
		return &ast.TypeRecordClosed{Row: row}, nil

	case *cst.TypeRecordOpen:
		envVariable, ok := env.TypeVariables[cstType.Var]
		if !ok {
			return nil, &UnknownTypeVariable{
				Span:     cstType.VarSpan,
				Variable: cstType.Var,
			}
		}
		if err := kindUnify(state, cstType.VarSpan, ast.KindRow{}, envVariable.VariableKind); err != nil {
			return nil, err
		}
		row, err := kindCheckRecordFields(env, state, cstType.Fields)
		if err != nil {
			return nil, err
		}
		return &ast.TypeRecordOpen{
			Var:        envVariable.Var,
			SourceName: cstType.Var,
			IsRigid:    true,
			Row:        row,
		}, nil

	default:
		panic("unexpected cst type")
	}
}

// kindCheck infers a CST type and unifies its kind with expected.
func kindCheck(env *KindEnv, state *State, expected ast.Kind, cstType cst.Type) (ast.Type, error) {
	span := cstType.GetSpan()
	astType, err := kindInfer(env, state, cstType)
	if err != nil {
		return nil, err
	}
	if err := kindUnify(state, span, expected, astType.GetKind()); err != nil {
		return nil, err
	}
	return astType, nil
}

func kindCheckRecordFields(env *KindEnv, state *State, cstFields []cst.RecordTypeField) (ast.Row, error) {
	seen := make(map[ast.Name]ast.Span, len(cstFields))
	fields := make([]ast.RowField, 0, len(cstFields))
	for _, cstField := range cstFields {
		if previous, ok := seen[cstField.Label]; ok {
			return nil, &DuplicateRecordField{
				Previous:  previous,
				Duplicate: cstField.LabelSpan,
				Label:     cstField.Label,
			}
		}
		seen[cstField.Label] = cstField.LabelSpan
		value, err := kindCheck(env, state, ast.KindType{}, cstField.Value)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.RowField{Label: cstField.Label, Type: value})
	}
	return ast.MakeRow(fields), nil
}

// kindUnify solves `expected ~ actual` under the current substitution.
// Failed sub-unifications of function kinds are reported against the
// original operands so the message matches what the span points at.
func kindUnify(state *State, span ast.Span, expected, actual ast.Kind) error {
	expected = state.KindSubstitution.Apply(expected)
	actual = state.KindSubstitution.Apply(actual)

	if expectedVariable, ok := expected.(ast.KindVariable); ok {
		return kindBind(state, span, expectedVariable.Var, actual)
	}
	if actualVariable, ok := actual.(ast.KindVariable); ok {
		return kindBind(state, span, actualVariable.Var, expected)
	}

	switch expected := expected.(type) {
	case ast.KindType:
		if _, ok := actual.(ast.KindType); ok {
			return nil
		}
	case ast.KindRow:
		if _, ok := actual.(ast.KindRow); ok {
			return nil
		}
	case ast.KindFunction:
		actualFunction, ok := actual.(ast.KindFunction)
		if !ok {
			break
		}
		if len(expected.Parameters) != len(actualFunction.Parameters) {
			break
		}
		for i := range expected.Parameters {
			if err := kindUnify(state, span, expected.Parameters[i], actualFunction.Parameters[i]); err != nil {
				return &KindsNotEqual{Span: span, Expected: expected, Actual: actualFunction}
			}
		}
		return nil
	}

	return &KindsNotEqual{Span: span, Expected: expected, Actual: actual}
}

func kindBind(state *State, span ast.Span, v ast.Var, kind ast.Kind) error {
	if kindVariable, ok := kind.(ast.KindVariable); ok && kindVariable.Var == v {
		return nil
	}
	if ast.KindVariables(kind)[v] {
		return &InfiniteKind{Span: span, Var: v, InfiniteKind: kind}
	}
	state.KindSubstitution[v] = kind
	return nil
}

func typesInScope(env *KindEnv) []ast.QualifiedProperName {
	names := make([]ast.QualifiedProperName, 0, len(env.Types))
	for name := range env.Types {
		names = append(names, name)
	}
	return names
}
