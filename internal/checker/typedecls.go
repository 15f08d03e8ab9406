package checker

import (
	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
	"github.com/veldlang/veld/internal/graph"
)

// CyclicTypeAlias reports a type alias that refers back to itself,
// directly or through other declarations. Aliases are transparent, so
// such a cycle has no finite expansion.
type CyclicTypeAlias struct {
	Span     ast.Span
	TypeName ast.ProperName
}

func (*CyclicTypeAlias) typeError()          {}
func (e *CyclicTypeAlias) Code() string      { return "VEL2013" }
func (e *CyclicTypeAlias) Spans() []ast.Span { return []ast.Span{e.Span} }
func (e *CyclicTypeAlias) Error() string {
	return "cyclic type alias `" + string(e.TypeName) + "`"
}

// toposortTypeDeclarations orders type declarations leaves-first, with
// mutually recursive declarations grouped. Nodes inside cyclic groups
// are sorted by declared name to keep checking deterministic.
func toposortTypeDeclarations(declarations []cst.TypeDeclaration) []graph.Scc[cst.TypeDeclaration] {
	declared := make(map[ast.ProperName]bool, len(declarations))
	for _, declaration := range declarations {
		declared[declaration.TypeName] = true
	}
	return graph.ToposortDeterministic(
		declarations,
		func(declaration cst.TypeDeclaration) ast.ProperName { return declaration.TypeName },
		func(declaration cst.TypeDeclaration) map[ast.ProperName]bool {
			connected := make(map[ast.ProperName]bool)
			for _, constructor := range declaration.Constructors {
				for _, field := range constructor.Fields {
					collectReferencedTypeNames(field, declared, connected)
				}
			}
			if declaration.Aliased != nil {
				collectReferencedTypeNames(declaration.Aliased, declared, connected)
			}
			return connected
		},
		func(a, b cst.TypeDeclaration) bool { return a.TypeName < b.TypeName },
	)
}

func collectReferencedTypeNames(cstType cst.Type, declared map[ast.ProperName]bool, accum map[ast.ProperName]bool) {
	switch cstType := cstType.(type) {
	case *cst.TypeConstructor:
		// Qualified references point at imports, never at siblings.
		if cstType.Constructor.Qualifier == "" && declared[cstType.Constructor.Value] {
			accum[cstType.Constructor.Value] = true
		}
	case *cst.TypeFunction:
		for _, p := range cstType.Parameters {
			collectReferencedTypeNames(p, declared, accum)
		}
		collectReferencedTypeNames(cstType.ReturnType, declared, accum)
	case *cst.TypeCall:
		collectReferencedTypeNames(cstType.Function, declared, accum)
		for _, arg := range cstType.Arguments {
			collectReferencedTypeNames(arg, declared, accum)
		}
	case *cst.TypeRecordClosed:
		for _, field := range cstType.Fields {
			collectReferencedTypeNames(field.Value, declared, accum)
		}
	case *cst.TypeRecordOpen:
		for _, field := range cstType.Fields {
			collectReferencedTypeNames(field.Value, declared, accum)
		}
	}
}

// kindcheckTypeDeclarations checks all type declarations SCC by SCC.
// Declarations in a cyclic SCC see each other through placeholder kind
// variables; their final kinds are the substituted result.
func kindcheckTypeDeclarations(
	envTypes EnvTypes,
	moduleName ast.ModuleName,
	declarations []cst.TypeDeclaration,
	state *State,
) (map[ast.ProperName]*ast.ModuleType, map[ast.ProperName]*ast.ModuleConstructor, error) {
	types := make(map[ast.ProperName]*ast.ModuleType, len(declarations))
	constructors := make(map[ast.ProperName]*ast.ModuleConstructor)

	seenTypes := make(map[ast.ProperName]ast.Span, len(declarations))
	seenConstructors := make(map[ast.ProperName]ast.Span)
	for _, declaration := range declarations {
		if previous, ok := seenTypes[declaration.TypeName]; ok {
			return nil, nil, &DuplicateTypeDeclaration{
				Previous:  previous,
				Duplicate: declaration.TypeNameSpan,
				TypeName:  declaration.TypeName,
			}
		}
		seenTypes[declaration.TypeName] = declaration.TypeNameSpan
		for _, constructor := range declaration.Constructors {
			if previous, ok := seenConstructors[constructor.Name]; ok {
				return nil, nil, &DuplicateTypeConstructor{
					Previous:  previous,
					Duplicate: constructor.NameSpan,
					Name:      constructor.Name,
				}
			}
			seenConstructors[constructor.Name] = constructor.NameSpan
		}
	}

	env := &KindEnv{Types: envTypes, TypeVariables: make(EnvTypeVariables)}

	for _, scc := range toposortTypeDeclarations(declarations) {
		if scc.Cyclic {
			for _, declaration := range scc.Nodes {
				if declaration.Aliased != nil {
					return nil, nil, &CyclicTypeAlias{
						Span:     declaration.TypeNameSpan,
						TypeName: declaration.TypeName,
					}
				}
			}
		}

		// Give every declaration in the SCC a placeholder kind so the
		// members can reference each other.
		placeholders := make(map[ast.ProperName]ast.Kind, len(scc.Nodes))
		for _, declaration := range scc.Nodes {
			placeholder := ast.KindVariable{Var: state.Supply.Fresh()}
			placeholders[declaration.TypeName] = placeholder
			env.Types[ast.Unqualified(declaration.TypeName)] = EnvTypeConstructor{
				CanonicalValue: ast.FullyQualifiedProperName{
					Module: moduleName,
					Value:  declaration.TypeName,
				},
				ConstructorKind: placeholder,
			}
		}

		for _, declaration := range scc.Nodes {
			moduleType, declarationConstructors, err := kindcheckTypeDeclaration(
				env, state, moduleName, declaration, placeholders[declaration.TypeName],
			)
			if err != nil {
				return nil, nil, err
			}
			types[declaration.TypeName] = moduleType
			for name, constructor := range declarationConstructors {
				constructors[name] = constructor
			}
		}

		// Solve the SCC: replace the placeholders with the substituted
		// kinds so later SCCs (and annotations) see the final result.
		for _, declaration := range scc.Nodes {
			moduleType := types[declaration.TypeName]
			moduleType.Kind = defaultKind(state.KindSubstitution.Apply(moduleType.Kind))
			if moduleType.IsAlias() {
				moduleType.AliasedType = defaultKindsInType(state.KindSubstitution.ApplyToType(moduleType.AliasedType))
				env.Types[ast.Unqualified(declaration.TypeName)] = EnvTypeAlias{
					CanonicalValue: ast.FullyQualifiedProperName{
						Module: moduleName,
						Value:  declaration.TypeName,
					},
					ConstructorKind: moduleType.Kind,
					AliasVariables:  moduleType.AliasVariables,
					AliasedType:     moduleType.AliasedType,
				}
			} else {
				env.Types[ast.Unqualified(declaration.TypeName)] = EnvTypeConstructor{
					CanonicalValue: ast.FullyQualifiedProperName{
						Module: moduleName,
						Value:  declaration.TypeName,
					},
					ConstructorKind: moduleType.Kind,
				}
			}
		}
		for _, declaration := range scc.Nodes {
			for _, cstConstructor := range declaration.Constructors {
				constructor := constructors[cstConstructor.Name]
				fields := make([]ast.Type, len(constructor.Fields))
				for i, field := range constructor.Fields {
					fields[i] = defaultKindsInType(state.KindSubstitution.ApplyToType(field))
				}
				constructor.Fields = fields
				constructor.ReturnType = defaultKindsInType(state.KindSubstitution.ApplyToType(constructor.ReturnType))
			}
		}
	}

	return types, constructors, nil
}

func kindcheckTypeDeclaration(
	env *KindEnv,
	state *State,
	moduleName ast.ModuleName,
	declaration cst.TypeDeclaration,
	placeholder ast.Kind,
) (*ast.ModuleType, map[ast.ProperName]*ast.ModuleConstructor, error) {
	typeVariables := make(EnvTypeVariables, len(declaration.Variables))
	seenVariables := make(map[ast.Name]ast.Span, len(declaration.Variables))
	variableKinds := make([]ast.Kind, len(declaration.Variables))
	variableTypes := make([]ast.Type, len(declaration.Variables))
	variableVars := make([]ast.Var, len(declaration.Variables))
	for i, variable := range declaration.Variables {
		if previous, ok := seenVariables[variable.Name]; ok {
			return nil, nil, &DuplicateTypeDeclarationVariable{
				Previous:  previous,
				Duplicate: variable.Span,
				Name:      variable.Name,
			}
		}
		seenVariables[variable.Name] = variable.Span
		v, kind := state.Supply.FreshKind()
		typeVariables[variable.Name] = EnvTypeVariable{Var: v, VariableKind: kind}
		variableKinds[i] = kind
		variableVars[i] = v
		variableTypes[i] = &ast.TypeVariable{
			VariableKind: kind,
			Var:          v,
			SourceName:   variable.Name,
			IsRigid:      true,
		}
	}

	var declarationKind ast.Kind = ast.KindType{}
	if len(declaration.Variables) > 0 {
		declarationKind = ast.KindFunction{Parameters: variableKinds}
	}
	if err := kindUnify(state, declaration.TypeNameSpan, placeholder, declarationKind); err != nil {
		return nil, nil, err
	}

	declarationEnv := &KindEnv{Types: env.Types, TypeVariables: typeVariables}

	if declaration.Aliased != nil {
		aliasedType, err := kindCheck(declarationEnv, state, ast.KindType{}, declaration.Aliased)
		if err != nil {
			return nil, nil, err
		}
		return &ast.ModuleType{
			DocComments:    declaration.DocComments,
			TypeNameSpan:   declaration.TypeNameSpan,
			Kind:           declarationKind,
			AliasedType:    aliasedType,
			AliasVariables: variableVars,
		}, nil, nil
	}

	// The type every constructor returns: `T` or `T(a, b)`.
	var returnType ast.Type = &ast.TypeConstructor{
		ConstructorKind: declarationKind,
		CanonicalValue: ast.FullyQualifiedProperName{
			Module: moduleName,
			Value:  declaration.TypeName,
		},
		SourceValue: ast.Unqualified(declaration.TypeName),
	}
	if len(variableTypes) > 0 {
		returnType = &ast.TypeCall{Function: returnType, Arguments: variableTypes}
	}

	constructors := make(map[ast.ProperName]*ast.ModuleConstructor, len(declaration.Constructors))
	for position, cstConstructor := range declaration.Constructors {
		fields := make([]ast.Type, len(cstConstructor.Fields))
		for i, cstField := range cstConstructor.Fields {
			field, err := kindCheck(declarationEnv, state, ast.KindType{}, cstField)
			if err != nil {
				return nil, nil, err
			}
			fields[i] = field
		}
		constructors[cstConstructor.Name] = &ast.ModuleConstructor{
			DocComments:         declaration.DocComments,
			DocPosition:         position,
			ConstructorNameSpan: cstConstructor.NameSpan,
			Fields:              fields,
			ReturnType:          returnType,
			ReturnTypeName:      declaration.TypeName,
		}
	}

	return &ast.ModuleType{
		DocComments:  declaration.DocComments,
		TypeNameSpan: declaration.TypeNameSpan,
		Kind:         declarationKind,
	}, constructors, nil
}

// defaultKind resolves kind variables that survived unification to
// Type. A phantom parameter that is never used ends up here.
func defaultKind(kind ast.Kind) ast.Kind {
	switch kind := kind.(type) {
	case ast.KindVariable:
		return ast.KindType{}
	case ast.KindFunction:
		parameters := make([]ast.Kind, len(kind.Parameters))
		for i, p := range kind.Parameters {
			parameters[i] = defaultKind(p)
		}
		return ast.KindFunction{Parameters: parameters}
	default:
		return kind
	}
}

func defaultKindsInType(t ast.Type) ast.Type {
	switch t := t.(type) {
	case *ast.TypeVariable:
		return &ast.TypeVariable{
			VariableKind: defaultKind(t.VariableKind),
			Var:          t.Var,
			SourceName:   t.SourceName,
			IsRigid:      t.IsRigid,
		}
	case *ast.TypeConstructor:
		return &ast.TypeConstructor{
			ConstructorKind: defaultKind(t.ConstructorKind),
			CanonicalValue:  t.CanonicalValue,
			SourceValue:     t.SourceValue,
		}
	case *ast.TypeConstructorAlias:
		return &ast.TypeConstructorAlias{
			ConstructorKind: defaultKind(t.ConstructorKind),
			CanonicalValue:  t.CanonicalValue,
			SourceValue:     t.SourceValue,
			AliasVariables:  t.AliasVariables,
			AliasedType:     defaultKindsInType(t.AliasedType),
		}
	case *ast.TypeCall:
		arguments := make([]ast.Type, len(t.Arguments))
		for i, arg := range t.Arguments {
			arguments[i] = defaultKindsInType(arg)
		}
		return &ast.TypeCall{Function: defaultKindsInType(t.Function), Arguments: arguments}
	case *ast.TypeFunction:
		parameters := make([]ast.Type, len(t.Parameters))
		for i, p := range t.Parameters {
			parameters[i] = defaultKindsInType(p)
		}
		return &ast.TypeFunction{Parameters: parameters, ReturnType: defaultKindsInType(t.ReturnType)}
	case *ast.TypeRecordClosed:
		row := make(ast.Row, len(t.Row))
		for i, field := range t.Row {
			row[i] = ast.RowField{Label: field.Label, Type: defaultKindsInType(field.Type)}
		}
		return &ast.TypeRecordClosed{Row: row}
	case *ast.TypeRecordOpen:
		row := make(ast.Row, len(t.Row))
		for i, field := range t.Row {
			row[i] = ast.RowField{Label: field.Label, Type: defaultKindsInType(field.Type)}
		}
		return &ast.TypeRecordOpen{Var: t.Var, SourceName: t.SourceName, IsRigid: t.IsRigid, Row: row}
	default:
		return t
	}
}
