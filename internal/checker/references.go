package checker

import "github.com/veldlang/veld/internal/ast"

// countLocalVariableReferences counts references to a local variable in
// a typed expression tree, not descending into scopes that shadow it.
// Used for the unused-binder warnings.
func countLocalVariableReferences(expression ast.Expression, name ast.Name) int {
	switch e := expression.(type) {
	case *ast.ExprLocalVariable:
		if e.Variable == name {
			return 1
		}
		return 0
	case *ast.ExprArray:
		count := 0
		for _, element := range e.Elements {
			count += countLocalVariableReferences(element, name)
		}
		return count
	case *ast.ExprRecord:
		count := 0
		for _, field := range e.Fields {
			count += countLocalVariableReferences(field.Value, name)
		}
		return count
	case *ast.ExprRecordAccess:
		return countLocalVariableReferences(e.Target, name)
	case *ast.ExprRecordUpdate:
		count := countLocalVariableReferences(e.Target, name)
		for _, update := range e.Updates {
			count += countLocalVariableReferences(update.Value, name)
		}
		return count
	case *ast.ExprFunction:
		for _, binder := range e.Binders {
			if patternBindsName(binder.Pattern, name) {
				return 0
			}
		}
		return countLocalVariableReferences(e.Body, name)
	case *ast.ExprCall:
		count := countLocalVariableReferences(e.Function, name)
		for _, argument := range e.Arguments {
			count += countLocalVariableReferences(argument, name)
		}
		return count
	case *ast.ExprIf:
		return countLocalVariableReferences(e.Condition, name) +
			countLocalVariableReferences(e.TrueClause, name) +
			countLocalVariableReferences(e.FalseClause, name)
	case *ast.ExprMatch:
		count := countLocalVariableReferences(e.Expression, name)
		for _, arm := range e.Arms {
			if patternBindsName(arm.Pattern, name) {
				continue
			}
			count += countLocalVariableReferences(arm.Expression, name)
		}
		return count
	case *ast.ExprLet:
		count := countLocalVariableReferences(e.Declaration.Expression, name)
		if !patternBindsName(e.Declaration.Pattern, name) {
			count += countLocalVariableReferences(e.Body, name)
		}
		return count
	case *ast.ExprEffect:
		return countEffectLocalVariableReferences(e.Effect, name)
	default:
		return 0
	}
}

func countEffectLocalVariableReferences(effect ast.EffectNode, name ast.Name) int {
	switch effect := effect.(type) {
	case *ast.EffectBind:
		count := countLocalVariableReferences(effect.Expression, name)
		if effect.Name != name {
			count += countEffectLocalVariableReferences(effect.Rest, name)
		}
		return count
	case *ast.EffectLet:
		count := countLocalVariableReferences(effect.Expression, name)
		if !patternBindsName(effect.Pattern, name) {
			count += countEffectLocalVariableReferences(effect.Rest, name)
		}
		return count
	case *ast.EffectExpression:
		count := countLocalVariableReferences(effect.Expression, name)
		if effect.Rest != nil {
			count += countEffectLocalVariableReferences(effect.Rest, name)
		}
		return count
	case *ast.EffectReturn:
		return countLocalVariableReferences(effect.Expression, name)
	default:
		return 0
	}
}

func patternBindsName(pattern ast.Pattern, name ast.Name) bool {
	switch pattern := pattern.(type) {
	case *ast.PatternVariable:
		return pattern.Name == name
	case *ast.PatternLocalConstructor:
		for _, argument := range pattern.Arguments {
			if patternBindsName(argument, name) {
				return true
			}
		}
	case *ast.PatternImportedConstructor:
		for _, argument := range pattern.Arguments {
			if patternBindsName(argument, name) {
				return true
			}
		}
	}
	return false
}
