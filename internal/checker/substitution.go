package checker

import "github.com/veldlang/veld/internal/ast"

// Substitution maps type variables to types. Like the kind
// substitution, application rewrites to a fixed point; the occurs check
// during unification keeps it terminating.
//
// Row variables live in the same map. An open record whose row variable
// is solved absorbs the solution's fields: solved-to-closed closes the
// record, solved-to-open splices the fields and adopts the new tail.
type Substitution map[ast.Var]ast.Type

// Apply rewrites a type to its current solution.
func (s Substitution) Apply(t ast.Type) ast.Type {
	switch t := t.(type) {
	case *ast.TypeVariable:
		if solved, ok := s[t.Var]; ok {
			return s.Apply(solved)
		}
		return t

	case *ast.TypeCall:
		arguments := make([]ast.Type, len(t.Arguments))
		for i, arg := range t.Arguments {
			arguments[i] = s.Apply(arg)
		}
		return &ast.TypeCall{Function: s.Apply(t.Function), Arguments: arguments}

	case *ast.TypeFunction:
		parameters := make([]ast.Type, len(t.Parameters))
		for i, p := range t.Parameters {
			parameters[i] = s.Apply(p)
		}
		return &ast.TypeFunction{Parameters: parameters, ReturnType: s.Apply(t.ReturnType)}

	case *ast.TypeRecordClosed:
		return &ast.TypeRecordClosed{Row: s.applyRow(t.Row)}

	case *ast.TypeRecordOpen:
		row := s.applyRow(t.Row)
		solved, ok := s[t.Var]
		if !ok {
			return &ast.TypeRecordOpen{
				Var:        t.Var,
				SourceName: t.SourceName,
				IsRigid:    t.IsRigid,
				Row:        row,
			}
		}
		switch solved := s.Apply(solved).(type) {
		case *ast.TypeVariable:
			return &ast.TypeRecordOpen{
				Var:        solved.Var,
				SourceName: solved.SourceName,
				IsRigid:    solved.IsRigid,
				Row:        row,
			}
		case *ast.TypeRecordClosed:
			return &ast.TypeRecordClosed{Row: ast.MergeRows(row, solved.Row)}
		case *ast.TypeRecordOpen:
			return &ast.TypeRecordOpen{
				Var:        solved.Var,
				SourceName: solved.SourceName,
				IsRigid:    solved.IsRigid,
				Row:        ast.MergeRows(row, solved.Row),
			}
		default:
			// A row variable only ever gets bound to another variable or
			// a record; anything else is a checker bug.
			panic("row variable solved to a non-record type")
		}

	case *ast.TypeConstructorAlias:
		return &ast.TypeConstructorAlias{
			ConstructorKind: t.ConstructorKind,
			CanonicalValue:  t.CanonicalValue,
			SourceValue:     t.SourceValue,
			AliasVariables:  t.AliasVariables,
			AliasedType:     s.Apply(t.AliasedType),
		}

	default:
		return t
	}
}

func (s Substitution) applyRow(row ast.Row) ast.Row {
	out := make(ast.Row, len(row))
	for i, field := range row {
		out[i] = ast.RowField{Label: field.Label, Type: s.Apply(field.Type)}
	}
	return out
}

// ApplyToExpression resolves every type stored in a typed expression
// tree. Run once checking has finished so the emitted AST carries
// solved types.
func (s Substitution) ApplyToExpression(expression ast.Expression) ast.Expression {
	switch e := expression.(type) {
	case *ast.ExprTrue, *ast.ExprFalse, *ast.ExprUnit, *ast.ExprString, *ast.ExprInt, *ast.ExprFloat:
		return e
	case *ast.ExprArray:
		elements := make([]ast.Expression, len(e.Elements))
		for i, element := range e.Elements {
			elements[i] = s.ApplyToExpression(element)
		}
		return &ast.ExprArray{Span: e.Span, ElementType: s.Apply(e.ElementType), Elements: elements}
	case *ast.ExprRecord:
		return &ast.ExprRecord{Span: e.Span, Fields: s.applyRecordFields(e.Fields)}
	case *ast.ExprRecordAccess:
		return &ast.ExprRecordAccess{
			Span:       e.Span,
			ResultType: s.Apply(e.ResultType),
			Target:     s.ApplyToExpression(e.Target),
			Label:      e.Label,
		}
	case *ast.ExprRecordUpdate:
		return &ast.ExprRecordUpdate{
			Span:       e.Span,
			RecordType: s.Apply(e.RecordType),
			Target:     s.ApplyToExpression(e.Target),
			Updates:    s.applyRecordFields(e.Updates),
		}
	case *ast.ExprLocalVariable:
		return &ast.ExprLocalVariable{Span: e.Span, VariableType: s.Apply(e.VariableType), Variable: e.Variable}
	case *ast.ExprForeignVariable:
		return &ast.ExprForeignVariable{Span: e.Span, VariableType: s.Apply(e.VariableType), Variable: e.Variable}
	case *ast.ExprImportedVariable:
		return &ast.ExprImportedVariable{Span: e.Span, VariableType: s.Apply(e.VariableType), Variable: e.Variable}
	case *ast.ExprLocalConstructor:
		return &ast.ExprLocalConstructor{Span: e.Span, ConstructorType: s.Apply(e.ConstructorType), Constructor: e.Constructor}
	case *ast.ExprImportedConstructor:
		return &ast.ExprImportedConstructor{Span: e.Span, ConstructorType: s.Apply(e.ConstructorType), Constructor: e.Constructor}
	case *ast.ExprFunction:
		binders := make([]ast.FunctionBinder, len(e.Binders))
		for i, binder := range e.Binders {
			binders[i] = ast.FunctionBinder{Pattern: binder.Pattern, BinderType: s.Apply(binder.BinderType)}
		}
		return &ast.ExprFunction{
			Span:       e.Span,
			Binders:    binders,
			ReturnType: s.Apply(e.ReturnType),
			Body:       s.ApplyToExpression(e.Body),
		}
	case *ast.ExprCall:
		arguments := make([]ast.Expression, len(e.Arguments))
		for i, argument := range e.Arguments {
			arguments[i] = s.ApplyToExpression(argument)
		}
		return &ast.ExprCall{
			Span:      e.Span,
			CallType:  s.Apply(e.CallType),
			Function:  s.ApplyToExpression(e.Function),
			Arguments: arguments,
		}
	case *ast.ExprIf:
		return &ast.ExprIf{
			Span:        e.Span,
			OutputType:  s.Apply(e.OutputType),
			Condition:   s.ApplyToExpression(e.Condition),
			TrueClause:  s.ApplyToExpression(e.TrueClause),
			FalseClause: s.ApplyToExpression(e.FalseClause),
		}
	case *ast.ExprMatch:
		arms := make([]ast.MatchArm, len(e.Arms))
		for i, arm := range e.Arms {
			arms[i] = ast.MatchArm{Pattern: arm.Pattern, Expression: s.ApplyToExpression(arm.Expression)}
		}
		return &ast.ExprMatch{
			Span:       e.Span,
			MatchType:  s.Apply(e.MatchType),
			Expression: s.ApplyToExpression(e.Expression),
			Arms:       arms,
		}
	case *ast.ExprLet:
		declaration := ast.LetDeclaration{
			Pattern:    e.Declaration.Pattern,
			Expression: s.ApplyToExpression(e.Declaration.Expression),
		}
		if e.Declaration.TypeAnnotation != nil {
			declaration.TypeAnnotation = s.Apply(e.Declaration.TypeAnnotation)
		}
		return &ast.ExprLet{Span: e.Span, Declaration: declaration, Body: s.ApplyToExpression(e.Body)}
	case *ast.ExprEffect:
		return &ast.ExprEffect{
			Span:       e.Span,
			ResultType: s.Apply(e.ResultType),
			Effect:     s.applyEffect(e.Effect),
		}
	default:
		return expression
	}
}

func (s Substitution) applyRecordFields(fields []ast.RecordExprField) []ast.RecordExprField {
	out := make([]ast.RecordExprField, len(fields))
	for i, field := range fields {
		out[i] = ast.RecordExprField{
			LabelSpan: field.LabelSpan,
			Label:     field.Label,
			Value:     s.ApplyToExpression(field.Value),
		}
	}
	return out
}

func (s Substitution) applyEffect(effect ast.EffectNode) ast.EffectNode {
	switch effect := effect.(type) {
	case *ast.EffectBind:
		return &ast.EffectBind{
			NameSpan:   effect.NameSpan,
			Name:       effect.Name,
			Expression: s.ApplyToExpression(effect.Expression),
			Rest:       s.applyEffect(effect.Rest),
		}
	case *ast.EffectLet:
		node := &ast.EffectLet{
			Pattern:    effect.Pattern,
			Expression: s.ApplyToExpression(effect.Expression),
			Rest:       s.applyEffect(effect.Rest),
		}
		if effect.TypeAnnotation != nil {
			node.TypeAnnotation = s.Apply(effect.TypeAnnotation)
		}
		return node
	case *ast.EffectExpression:
		node := &ast.EffectExpression{Expression: s.ApplyToExpression(effect.Expression)}
		if effect.Rest != nil {
			node.Rest = s.applyEffect(effect.Rest)
		}
		return node
	case *ast.EffectReturn:
		return &ast.EffectReturn{Expression: s.ApplyToExpression(effect.Expression)}
	default:
		return effect
	}
}
