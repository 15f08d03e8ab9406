package checker

import "github.com/veldlang/veld/internal/ast"

// unify solves `expected ~ actual` at the given span, updating the
// state's substitution.
//
// On failure the reported TypesNotEqual carries the operands as they
// were passed in (unaliased but not substituted), so the message refers
// to what the user wrote rather than to internal solutions.
func unify(state *State, span ast.Span, expected, actual ast.Type) error {
	err := unifyRec(state, span, expected, actual)
	if err == nil {
		return nil
	}
	if notEqual, ok := err.(*TypesNotEqual); ok && notEqual.Span == span {
		notEqual.Expected = ast.Unalias(expected)
		notEqual.Actual = ast.Unalias(actual)
	}
	return err
}

func unifyRec(state *State, span ast.Span, expected, actual ast.Type) error {
	expected = ast.Unalias(state.Substitution.Apply(expected))
	actual = ast.Unalias(state.Substitution.Apply(actual))

	// Variables first: a flexible variable binds to the other side, two
	// rigid variables must be identical.
	if expectedVariable, ok := expected.(*ast.TypeVariable); ok {
		if actualVariable, ok := actual.(*ast.TypeVariable); ok {
			if expectedVariable.Var == actualVariable.Var {
				return nil
			}
			if !actualVariable.IsRigid {
				return bindType(state, span, actualVariable.Var, expected)
			}
		}
		if !expectedVariable.IsRigid {
			return bindType(state, span, expectedVariable.Var, actual)
		}
		return &TypesNotEqual{Span: span, Expected: expected, Actual: actual}
	}
	if actualVariable, ok := actual.(*ast.TypeVariable); ok {
		if !actualVariable.IsRigid {
			return bindType(state, span, actualVariable.Var, expected)
		}
		return &TypesNotEqual{Span: span, Expected: expected, Actual: actual}
	}

	switch expected := expected.(type) {
	case *ast.TypePrim:
		if actual, ok := actual.(*ast.TypePrim); ok && expected.Prim == actual.Prim {
			return nil
		}

	case *ast.TypeConstructor:
		if actual, ok := actual.(*ast.TypeConstructor); ok {
			if expected.CanonicalValue.Equals(actual.CanonicalValue) {
				return nil
			}
		}

	case *ast.TypeCall:
		if actualCall, ok := actual.(*ast.TypeCall); ok {
			if len(expected.Arguments) != len(actualCall.Arguments) {
				break
			}
			if err := unifyRec(state, span, expected.Function, actualCall.Function); err != nil {
				return err
			}
			for i := range expected.Arguments {
				if err := unifyRec(state, span, expected.Arguments[i], actualCall.Arguments[i]); err != nil {
					return err
				}
			}
			return nil
		}

	case *ast.TypeFunction:
		if actualFunction, ok := actual.(*ast.TypeFunction); ok {
			if len(expected.Parameters) != len(actualFunction.Parameters) {
				break
			}
			for i := range expected.Parameters {
				if err := unifyRec(state, span, expected.Parameters[i], actualFunction.Parameters[i]); err != nil {
					return err
				}
			}
			return unifyRec(state, span, expected.ReturnType, actualFunction.ReturnType)
		}

	case *ast.TypeRecordClosed:
		switch actual := actual.(type) {
		case *ast.TypeRecordClosed:
			return unifyClosedRows(state, span, expected, actual)
		case *ast.TypeRecordOpen:
			return unifyOpenWithClosed(state, span, actual, expected)
		}

	case *ast.TypeRecordOpen:
		switch actual := actual.(type) {
		case *ast.TypeRecordClosed:
			return unifyOpenWithClosed(state, span, expected, actual)
		case *ast.TypeRecordOpen:
			return unifyOpenRows(state, span, expected, actual)
		}
	}

	return &TypesNotEqual{Span: span, Expected: expected, Actual: actual}
}

// unifyClosedRows requires the same label set on both sides.
func unifyClosedRows(state *State, span ast.Span, expected, actual *ast.TypeRecordClosed) error {
	var missing ast.Row
	for _, field := range expected.Row {
		if _, ok := actual.Row.Lookup(field.Label); !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &MissingRecordFields{Span: span, Missing: missing}
	}
	for _, field := range actual.Row {
		expectedType, ok := expected.Row.Lookup(field.Label)
		if !ok {
			return &UnexpectedRecordField{
				Span:           span,
				Label:          field.Label,
				RecordLikeType: expected,
			}
		}
		if err := unifyRec(state, span, expectedType, field.Type); err != nil {
			return err
		}
	}
	return nil
}

// unifyOpenWithClosed checks that every field of the open row appears in
// the closed record, then binds the open row's tail to the leftover
// fields, closing it.
func unifyOpenWithClosed(state *State, span ast.Span, open *ast.TypeRecordOpen, closed *ast.TypeRecordClosed) error {
	var missing ast.Row
	for _, field := range open.Row {
		closedType, ok := closed.Row.Lookup(field.Label)
		if !ok {
			missing = append(missing, field)
			continue
		}
		if err := unifyRec(state, span, field.Type, closedType); err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return &MissingRecordFields{Span: span, Missing: missing}
	}
	if open.IsRigid {
		// A user-named row variable can't be closed away.
		return &TypesNotEqual{Span: span, Expected: open, Actual: closed}
	}

	var leftover ast.Row
	for _, field := range closed.Row {
		if _, ok := open.Row.Lookup(field.Label); !ok {
			leftover = append(leftover, field)
		}
	}
	return bindType(state, span, open.Var, &ast.TypeRecordClosed{Row: leftover})
}

// unifyOpenRows unifies the overlapping labels, then rebinds both tails
// so each row accounts for the other's exclusive labels over a common
// fresh tail.
func unifyOpenRows(state *State, span ast.Span, expected, actual *ast.TypeRecordOpen) error {
	var expectedOnly, actualOnly ast.Row
	for _, field := range expected.Row {
		actualType, ok := actual.Row.Lookup(field.Label)
		if !ok {
			expectedOnly = append(expectedOnly, field)
			continue
		}
		if err := unifyRec(state, span, field.Type, actualType); err != nil {
			return err
		}
	}
	for _, field := range actual.Row {
		if _, ok := expected.Row.Lookup(field.Label); !ok {
			actualOnly = append(actualOnly, field)
		}
	}

	if expected.Var == actual.Var {
		// Same tail: the label sets must agree exactly.
		if len(expectedOnly) > 0 || len(actualOnly) > 0 {
			return &TypesNotEqual{Span: span, Expected: expected, Actual: actual}
		}
		return nil
	}

	switch {
	case !expected.IsRigid && !actual.IsRigid:
		freshTail := state.Supply.Fresh()
		err := bindType(state, span, expected.Var, &ast.TypeRecordOpen{
			Var: freshTail,
			Row: ast.MakeRow(actualOnly),
		})
		if err != nil {
			return err
		}
		return bindType(state, span, actual.Var, &ast.TypeRecordOpen{
			Var: freshTail,
			Row: ast.MakeRow(expectedOnly),
		})

	case expected.IsRigid && !actual.IsRigid:
		// The rigid row can't grow, so the flexible side must account
		// for everything on top of it.
		if len(actualOnly) > 0 {
			return &TypesNotEqual{Span: span, Expected: expected, Actual: actual}
		}
		return bindType(state, span, actual.Var, &ast.TypeRecordOpen{
			Var:        expected.Var,
			SourceName: expected.SourceName,
			IsRigid:    true,
			Row:        ast.MakeRow(expectedOnly),
		})

	case !expected.IsRigid && actual.IsRigid:
		if len(expectedOnly) > 0 {
			return &TypesNotEqual{Span: span, Expected: expected, Actual: actual}
		}
		return bindType(state, span, expected.Var, &ast.TypeRecordOpen{
			Var:        actual.Var,
			SourceName: actual.SourceName,
			IsRigid:    true,
			Row:        ast.MakeRow(actualOnly),
		})

	default:
		// Two distinct rigid rows never unify.
		return &TypesNotEqual{Span: span, Expected: expected, Actual: actual}
	}
}

// bindType records `v := t` after the occurs check. Binding a variable
// to itself is a no-op.
func bindType(state *State, span ast.Span, v ast.Var, t ast.Type) error {
	if variable, ok := t.(*ast.TypeVariable); ok && variable.Var == v {
		return nil
	}
	if ast.ContainsVar(t, v) {
		return &InfiniteType{Span: span, Var: v, InfiniteType: t}
	}
	state.Substitution[v] = t
	return nil
}
