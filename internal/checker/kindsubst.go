package checker

import "github.com/veldlang/veld/internal/ast"

// KindSubstitution maps kind variables to kinds. Application is a
// fixed-point rewrite: when a variable maps to a kind, the result is
// rewritten again. The occurs check during unification is what keeps
// this terminating.
type KindSubstitution map[ast.Var]ast.Kind

// Apply rewrites a kind to its current solution.
func (s KindSubstitution) Apply(kind ast.Kind) ast.Kind {
	switch kind := kind.(type) {
	case ast.KindVariable:
		if solved, ok := s[kind.Var]; ok {
			return s.Apply(solved)
		}
		return kind
	case ast.KindFunction:
		parameters := make([]ast.Kind, len(kind.Parameters))
		for i, p := range kind.Parameters {
			parameters[i] = s.Apply(p)
		}
		return ast.KindFunction{Parameters: parameters}
	default:
		return kind
	}
}

// ApplyToType rewrites all the kinds mentioned inside a type.
func (s KindSubstitution) ApplyToType(t ast.Type) ast.Type {
	switch t := t.(type) {
	case *ast.TypeVariable:
		return &ast.TypeVariable{
			VariableKind: s.Apply(t.VariableKind),
			Var:          t.Var,
			SourceName:   t.SourceName,
			IsRigid:      t.IsRigid,
		}
	case *ast.TypeConstructor:
		return &ast.TypeConstructor{
			ConstructorKind: s.Apply(t.ConstructorKind),
			CanonicalValue:  t.CanonicalValue,
			SourceValue:     t.SourceValue,
		}
	case *ast.TypeConstructorAlias:
		return &ast.TypeConstructorAlias{
			ConstructorKind: s.Apply(t.ConstructorKind),
			CanonicalValue:  t.CanonicalValue,
			SourceValue:     t.SourceValue,
			AliasVariables:  t.AliasVariables,
			AliasedType:     s.ApplyToType(t.AliasedType),
		}
	case *ast.TypePrim:
		return t
	case *ast.TypeCall:
		arguments := make([]ast.Type, len(t.Arguments))
		for i, arg := range t.Arguments {
			arguments[i] = s.ApplyToType(arg)
		}
		return &ast.TypeCall{Function: s.ApplyToType(t.Function), Arguments: arguments}
	case *ast.TypeFunction:
		parameters := make([]ast.Type, len(t.Parameters))
		for i, p := range t.Parameters {
			parameters[i] = s.ApplyToType(p)
		}
		return &ast.TypeFunction{Parameters: parameters, ReturnType: s.ApplyToType(t.ReturnType)}
	case *ast.TypeRecordClosed:
		row := make(ast.Row, len(t.Row))
		for i, field := range t.Row {
			row[i] = ast.RowField{Label: field.Label, Type: s.ApplyToType(field.Type)}
		}
		return &ast.TypeRecordClosed{Row: row}
	case *ast.TypeRecordOpen:
		row := make(ast.Row, len(t.Row))
		for i, field := range t.Row {
			row[i] = ast.RowField{Label: field.Label, Type: s.ApplyToType(field.Type)}
		}
		return &ast.TypeRecordOpen{
			Var:        t.Var,
			SourceName: t.SourceName,
			IsRigid:    t.IsRigid,
			Row:        row,
		}
	default:
		return t
	}
}
