package checker

import (
	"sort"

	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
)

// addExports populates module.Exports from the header's export clause.
// The module's Types, Constructors and Values must already be filled.
func addExports(cstExports cst.Exports, module *ast.Module, state *State) error {
	module.Exports = ast.NewModuleExports()
	if cstExports.Everything {
		exportEverything(module)
		return nil
	}
	return exportList(cstExports.List, module, state)
}

// exportEverything handles `exports (..)`: every type, constructor and
// value, ordered alphabetically so documentation positions are stable.
func exportEverything(module *ast.Module) {
	typeNames := make([]ast.ProperName, 0, len(module.Types))
	for name := range module.Types {
		typeNames = append(typeNames, name)
	}
	sort.Slice(typeNames, func(i, j int) bool { return typeNames[i] < typeNames[j] })
	for position, name := range typeNames {
		moduleType := module.Types[name]
		module.Exports.Types[name] = &ast.ModuleExportsType{
			DocComments:    moduleType.DocComments,
			DocPosition:    position,
			Kind:           moduleType.Kind,
			AliasedType:    moduleType.AliasedType,
			AliasVariables: moduleType.AliasVariables,
		}
	}

	constructorNames := make([]ast.ProperName, 0, len(module.Constructors))
	for name := range module.Constructors {
		constructorNames = append(constructorNames, name)
	}
	sort.Slice(constructorNames, func(i, j int) bool { return constructorNames[i] < constructorNames[j] })
	for position, name := range constructorNames {
		constructor := module.Constructors[name]
		module.Exports.Constructors[name] = &ast.ModuleExportsConstructor{
			DocComments:     constructor.DocComments,
			DocPosition:     position,
			ConstructorType: constructor.GetType(),
			ReturnTypeName:  constructor.ReturnTypeName,
		}
	}

	valueNames := make([]ast.Name, 0, len(module.Values))
	for name := range module.Values {
		valueNames = append(valueNames, name)
	}
	sort.Slice(valueNames, func(i, j int) bool { return valueNames[i] < valueNames[j] })
	for position, name := range valueNames {
		value := module.Values[name]
		module.Exports.Values[name] = &ast.ModuleExportsValue{
			DocComments: value.DocComments,
			DocPosition: position,
			ValueType:   value.Expression.GetType(),
		}
	}
}

// exportList handles an explicit export list. Listing `T(..)`
// additionally exports T's constructors. Duplicate entries warn.
func exportList(exports []cst.Export, module *ast.Module, state *State) error {
	valuesSeen := make(map[ast.Name]ast.Span)
	typesSeen := make(map[ast.ProperName]ast.Span)

	for position, export := range exports {
		if export.Value != "" {
			if previous, ok := valuesSeen[export.Value]; ok {
				state.warn(&DuplicateValueExport{
					PreviousExport:  previous,
					DuplicateExport: export.Span,
				})
			} else {
				valuesSeen[export.Value] = export.Span
			}

			value, ok := module.Values[export.Value]
			if !ok {
				return &UnknownValueExport{Span: export.Span, Name: export.Value}
			}
			module.Exports.Values[export.Value] = &ast.ModuleExportsValue{
				DocComments: value.DocComments,
				DocPosition: position,
				ValueType:   value.Expression.GetType(),
			}
			continue
		}

		if previous, ok := typesSeen[export.Type]; ok {
			state.warn(&DuplicateTypeExport{
				PreviousExport:  previous,
				DuplicateExport: export.Span,
			})
		} else {
			typesSeen[export.Type] = export.Span
		}

		moduleType, ok := module.Types[export.Type]
		if !ok {
			return &UnknownTypeExport{Span: export.Span, TypeName: export.Type}
		}
		module.Exports.Types[export.Type] = &ast.ModuleExportsType{
			DocComments:    moduleType.DocComments,
			DocPosition:    position,
			Kind:           moduleType.Kind,
			AliasedType:    moduleType.AliasedType,
			AliasVariables: moduleType.AliasVariables,
		}

		if export.IncludeConstructors {
			for constructorName, constructor := range module.Constructors {
				if constructor.ReturnTypeName != export.Type {
					continue
				}
				module.Exports.Constructors[constructorName] = &ast.ModuleExportsConstructor{
					DocComments:     constructor.DocComments,
					DocPosition:     constructor.DocPosition,
					ConstructorType: constructor.GetType(),
					ReturnTypeName:  constructor.ReturnTypeName,
				}
			}
		}
	}

	return nil
}
