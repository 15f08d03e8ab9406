package checker

import (
	"sort"

	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
)

// CheckModule type-checks, kind-checks and lints a CST module against
// an environment of already-checked imports.
//
// Errors abort the check and are returned directly; warnings accumulate
// and come back alongside the checked module.
func CheckModule(environment *Environment, cstModule *cst.Module) (*ast.Module, Warnings, error) {
	state := NewState()

	moduleName := cstModule.Header.ModuleName.ToAST()

	importedTypes, importedConstructors, importedValues, importWarnings, err :=
		extractImports(environment, cstModule.Imports)
	if err != nil {
		return nil, nil, err
	}
	state.Warnings = append(state.Warnings, importWarnings...)

	// Wave one: types and constructors enter the kind environment
	// before any value is looked at.
	kindEnv := NewKindEnv()
	for typeName, imported := range importedTypes {
		if imported.aliasedType != nil {
			kindEnv.Types[typeName] = EnvTypeAlias{
				CanonicalValue:  imported.canonicalTypeName,
				ConstructorKind: imported.kind,
				AliasVariables:  imported.aliasVariables,
				AliasedType:     imported.aliasedType,
			}
			continue
		}
		kindEnv.Types[typeName] = EnvTypeConstructor{
			CanonicalValue:  imported.canonicalTypeName,
			ConstructorKind: imported.kind,
		}
	}

	types, constructors, err := kindcheckTypeDeclarations(
		kindEnv.Types, moduleName, cstModule.TypeDeclarations, state,
	)
	if err != nil {
		return nil, nil, err
	}

	// Wave two: foreign signatures are kind-checked and enter the
	// typing environment.
	foreignValues, err := kindcheckForeignValueDeclarations(
		kindEnv.Types, cstModule.ForeignValueDeclarations, state,
	)
	if err != nil {
		return nil, nil, err
	}

	env := NewEnv()
	for _, foreign := range foreignValues {
		env.Values[ast.Unqualified(foreign.name)] = &EnvValueForeignVariable{
			Span:     foreign.span,
			Scheme:   SchemeFromType(foreign.signature),
			Variable: foreign.name,
		}
	}
	for constructorName, imported := range importedConstructors {
		env.Constructors[constructorName] = &EnvConstructorImported{
			Scheme:      imported.scheme,
			Constructor: imported.constructor,
		}
	}
	for valueName, imported := range importedValues {
		env.Values[valueName] = &EnvValueImportedVariable{
			Span:     imported.valueSpan,
			Scheme:   imported.scheme,
			Variable: imported.variable,
		}
	}
	for constructorName, constructor := range constructors {
		env.Constructors[ast.Unqualified(constructorName)] = &EnvConstructorModule{
			Scheme:      env.Generalize(constructor.GetType()),
			Constructor: constructorName,
		}
	}

	// Wave three: value declarations, SCC by SCC.
	values, valuesToposort, err := typecheckValueDeclarations(
		kindEnv, env, cstModule.ValueDeclarations, state,
	)
	if err != nil {
		return nil, nil, err
	}

	module := &ast.Module{
		ModuleName:     moduleName,
		Types:          types,
		Constructors:   constructors,
		Values:         values,
		ValuesToposort: valuesToposort,
	}
	if err := addExports(cstModule.Header.Exports, module, state); err != nil {
		return nil, nil, err
	}

	unusedAnalysis(module, importedTypes, importedConstructors, importedValues, foreignValues, state)

	return module, state.Warnings, nil
}

// unusedAnalysis reports declarations and imports nothing ended up
// using. It runs last, over the collected reference counts.
func unusedAnalysis(
	module *ast.Module,
	importedTypes importedTypes,
	importedConstructors importedConstructors,
	importedValues importedValues,
	foreignValues []foreignValue,
	state *State,
) {
	// Unused top-level values: no references, not exported.
	for _, name := range sortedValueNames(module.Values) {
		value := module.Values[name]
		_, referenced := state.ValueReferences[ast.Unqualified(name)]
		_, exported := module.Exports.Values[name]
		if !referenced && !exported {
			state.warn(&UnusedValueDeclaration{Span: value.NameSpan})
		}
	}

	// Unused foreign values: foreigns exist to be used locally, so
	// being exported doesn't save them.
	for _, foreign := range foreignValues {
		if _, referenced := state.ValueReferences[ast.Unqualified(foreign.name)]; !referenced {
			state.warn(&UnusedForeignValue{Span: foreign.span})
		}
	}

	// Unused types. A type is fine if it and its constructors are
	// exported; an exported type with unused, unexported constructors
	// is never constructed; an unexported, unreferenced type with unused,
	// unexported constructors is dead.
	for _, typeName := range sortedTypeNames(module.Types) {
		moduleType := module.Types[typeName]
		_, typeExported := module.Exports.Types[typeName]

		allConstructorsExported := true
		allConstructorsUnused := true
		for constructorName, constructor := range module.Constructors {
			if constructor.ReturnTypeName != typeName {
				continue
			}
			_, constructorExported := module.Exports.Constructors[constructorName]
			if !constructorExported {
				allConstructorsExported = false
			}
			_, constructorReferenced := state.ConstructorReferences[ast.Unqualified(constructorName)]
			if constructorReferenced || constructorExported {
				allConstructorsUnused = false
			}
		}

		switch {
		case typeExported && allConstructorsExported:
			// Fine, referenced or not.
		case typeExported:
			if allConstructorsUnused && !moduleType.IsAlias() {
				state.warn(&UnusedTypeConstructors{Span: moduleType.TypeNameSpan})
			}
		default:
			_, typeReferenced := state.TypeReferences[ast.Unqualified(typeName)]
			if allConstructorsUnused && !typeReferenced {
				state.warn(&UnusedTypeDeclaration{Span: moduleType.TypeNameSpan})
			}
		}
	}

	// Unused imports: a line is unused when none of its items were
	// referenced.
	importUsages := make(map[ast.Span]bool)
	for typeName, imported := range importedTypes {
		_, used := state.TypeReferences[typeName]
		importUsages[imported.importLineSpan] = importUsages[imported.importLineSpan] || used
	}
	for constructorName, imported := range importedConstructors {
		_, used := state.ConstructorReferences[constructorName]
		importUsages[imported.importLineSpan] = importUsages[imported.importLineSpan] || used
	}
	for valueName, imported := range importedValues {
		_, used := state.ValueReferences[valueName]
		importUsages[imported.importLineSpan] = importUsages[imported.importLineSpan] || used
	}
	spans := make([]ast.Span, 0, len(importUsages))
	for span := range importUsages {
		spans = append(spans, span)
	}
	sortSpans(spans)
	for _, span := range spans {
		if !importUsages[span] {
			state.warn(&UnusedImport{Span: span})
		}
	}
}

func sortedValueNames(values map[ast.Name]*ast.ModuleValue) []ast.Name {
	names := make([]ast.Name, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func sortedTypeNames(types map[ast.ProperName]*ast.ModuleType) []ast.ProperName {
	names := make([]ast.ProperName, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func sortSpans(spans []ast.Span) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
}
