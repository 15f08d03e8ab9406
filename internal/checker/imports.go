package checker

import (
	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
)

// Environment is everything a module can import from: the sibling
// modules of the local package plus the modules of every dependency
// package, all already checked.
type Environment struct {
	// Modules maps dot-joined module names to their exports.
	Modules map[string]ast.ModuleExports
	// Packages maps package names to their modules.
	Packages map[ast.PackageName]map[string]ast.ModuleExports
}

// NewEnvironment returns an empty import environment.
func NewEnvironment() *Environment {
	return &Environment{
		Modules:  make(map[string]ast.ModuleExports),
		Packages: make(map[ast.PackageName]map[string]ast.ModuleExports),
	}
}

// importedType is a type brought into scope by an import line.
type importedType struct {
	canonicalTypeName ast.FullyQualifiedProperName
	kind              ast.Kind
	aliasedType       ast.Type // non-nil for aliases
	aliasVariables    []ast.Var
	importLineSpan    ast.Span
}

// importedConstructor is a constructor brought into scope by an import
// line.
type importedConstructor struct {
	constructor    ast.FullyQualifiedProperName
	scheme         Scheme
	importLineSpan ast.Span
}

// importedValue is a value brought into scope by an import line.
type importedValue struct {
	variable       ast.FullyQualifiedName
	scheme         Scheme
	valueSpan      ast.Span
	importLineSpan ast.Span
}

type importedTypes map[ast.QualifiedProperName]importedType
type importedConstructors map[ast.QualifiedProperName]importedConstructor
type importedValues map[ast.QualifiedName]importedValue

// extractImports resolves the import lines against the environment,
// producing the three scope maps. Every entry remembers its import
// line's span so unused imports can be reported per line.
func extractImports(
	environment *Environment,
	imports []cst.ImportLine,
) (importedTypes, importedConstructors, importedValues, Warnings, error) {
	types := make(importedTypes)
	constructors := make(importedConstructors)
	values := make(importedValues)
	var warnings Warnings

	type lineKey struct {
		pkg        ast.PackageName
		moduleName string
	}
	seenLines := make(map[lineKey]ast.Span)
	seenQualifiers := make(map[ast.ProperName]ast.Span)

	for _, line := range imports {
		moduleName := line.ModuleName.ToAST()

		exports, err := lookupModuleExports(environment, line)
		if err != nil {
			return nil, nil, nil, nil, err
		}

		key := lineKey{pkg: line.Package, moduleName: moduleName.String()}
		if previous, ok := seenLines[key]; ok {
			return nil, nil, nil, nil, &DuplicateImportLine{
				Previous:  previous,
				Duplicate: line.Span,
			}
		}
		seenLines[key] = line.Span

		qualifier := moduleName.Last()
		if line.Alias != "" {
			qualifier = line.Alias
		}
		if previous, ok := seenQualifiers[qualifier]; ok {
			return nil, nil, nil, nil, &DuplicateImportModule{
				Previous:  previous,
				Duplicate: line.Span,
				Qualifier: qualifier,
			}
		}
		seenQualifiers[qualifier] = line.Span

		canonicalType := func(name ast.ProperName) ast.FullyQualifiedProperName {
			return ast.FullyQualifiedProperName{Package: line.Package, Module: moduleName, Value: name}
		}

		// Everything a module exports is available qualified.
		for typeName, exportedType := range exports.Types {
			types[ast.Qualified[ast.ProperName]{Qualifier: qualifier, Value: typeName}] = importedType{
				canonicalTypeName: canonicalType(typeName),
				kind:              exportedType.Kind,
				aliasedType:       exportedType.AliasedType,
				aliasVariables:    exportedType.AliasVariables,
				importLineSpan:    line.Span,
			}
		}
		for constructorName, exportedConstructor := range exports.Constructors {
			constructors[ast.Qualified[ast.ProperName]{Qualifier: qualifier, Value: constructorName}] = importedConstructor{
				constructor:    canonicalType(constructorName),
				scheme:         SchemeFromType(exportedConstructor.ConstructorType),
				importLineSpan: line.Span,
			}
		}
		for valueName, exportedValue := range exports.Values {
			values[ast.Qualified[ast.Name]{Qualifier: qualifier, Value: valueName}] = importedValue{
				variable:       ast.FullyQualifiedName{Package: line.Package, Module: moduleName, Value: valueName},
				scheme:         SchemeFromType(exportedValue.ValueType),
				valueSpan:      line.Span,
				importLineSpan: line.Span,
			}
		}

		// The import list additionally brings names into unqualified
		// scope.
		seenValueItems := make(map[ast.Name]ast.Span)
		seenTypeItems := make(map[ast.ProperName]ast.Span)
		for _, item := range line.List {
			if item.Value != "" {
				if previous, ok := seenValueItems[item.Value]; ok {
					warnings = append(warnings, &DuplicateValueImport{
						PreviousImport:  previous,
						DuplicateImport: item.Span,
					})
					continue
				}
				seenValueItems[item.Value] = item.Span

				exportedValue, ok := exports.Values[item.Value]
				if !ok {
					return nil, nil, nil, nil, &UnknownValueImport{Span: item.Span, Name: item.Value}
				}
				unqualified := ast.Unqualified(item.Value)
				if existing, ok := values[unqualified]; ok {
					return nil, nil, nil, nil, &ReboundValueImport{
						Previous: existing.valueSpan,
						Rebound:  item.Span,
						Name:     item.Value,
					}
				}
				values[unqualified] = importedValue{
					variable:       ast.FullyQualifiedName{Package: line.Package, Module: moduleName, Value: item.Value},
					scheme:         SchemeFromType(exportedValue.ValueType),
					valueSpan:      item.Span,
					importLineSpan: line.Span,
				}
				continue
			}

			if previous, ok := seenTypeItems[item.Type]; ok {
				warnings = append(warnings, &DuplicateTypeImport{
					PreviousImport:  previous,
					DuplicateImport: item.Span,
				})
				continue
			}
			seenTypeItems[item.Type] = item.Span

			exportedType, ok := exports.Types[item.Type]
			if !ok {
				return nil, nil, nil, nil, &UnknownTypeImport{Span: item.Span, TypeName: item.Type}
			}
			unqualifiedType := ast.Unqualified(item.Type)
			if existing, ok := types[unqualifiedType]; ok {
				return nil, nil, nil, nil, &ReboundTypeImport{
					Previous: existing.importLineSpan,
					Rebound:  item.Span,
					TypeName: item.Type,
				}
			}
			types[unqualifiedType] = importedType{
				canonicalTypeName: canonicalType(item.Type),
				kind:              exportedType.Kind,
				aliasedType:       exportedType.AliasedType,
				aliasVariables:    exportedType.AliasVariables,
				importLineSpan:    line.Span,
			}

			if item.IncludeConstructors {
				found := false
				for constructorName, exportedConstructor := range exports.Constructors {
					if exportedConstructor.ReturnTypeName != item.Type {
						continue
					}
					found = true
					unqualifiedConstructor := ast.Unqualified(constructorName)
					if existing, ok := constructors[unqualifiedConstructor]; ok {
						return nil, nil, nil, nil, &ReboundConstructorImport{
							Previous: existing.importLineSpan,
							Rebound:  item.Span,
							Name:     constructorName,
						}
					}
					constructors[unqualifiedConstructor] = importedConstructor{
						constructor:    canonicalType(constructorName),
						scheme:         SchemeFromType(exportedConstructor.ConstructorType),
						importLineSpan: line.Span,
					}
				}
				if !found {
					return nil, nil, nil, nil, &NoVisibleConstructors{Span: item.Span, TypeName: item.Type}
				}
			}
		}
	}

	return types, constructors, values, warnings, nil
}

func lookupModuleExports(environment *Environment, line cst.ImportLine) (ast.ModuleExports, error) {
	moduleName := line.ModuleName.ToAST()
	if line.Package != "" {
		packageModules, ok := environment.Packages[line.Package]
		if !ok {
			return ast.ModuleExports{}, &PackageNotFound{Span: line.Span, Package: line.Package}
		}
		exports, ok := packageModules[moduleName.String()]
		if !ok {
			return ast.ModuleExports{}, &ModuleNotFound{
				Span:       line.Span,
				Package:    line.Package,
				ModuleName: moduleName,
			}
		}
		return exports, nil
	}
	exports, ok := environment.Modules[moduleName.String()]
	if !ok {
		return ast.ModuleExports{}, &ModuleNotFound{Span: line.Span, ModuleName: moduleName}
	}
	return exports, nil
}
