package checker

import (
	"testing"

	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
)

// CST builders for tests. Spans come from a monotonic counter; tests
// that assert on spans build nodes by hand instead.

var spanSeq int

func sp() ast.Span {
	spanSeq++
	return ast.Span{Start: spanSeq, End: spanSeq + 1}
}

func tVar(name string) cst.Type {
	return &cst.TypeVariable{Span: sp(), Name: ast.Name(name)}
}

func tCon(name string) cst.Type {
	return &cst.TypeConstructor{Span: sp(), Constructor: ast.Unqualified(ast.ProperName(name))}
}

func tConQ(qualifier, name string) cst.Type {
	return &cst.TypeConstructor{
		Span: sp(),
		Constructor: ast.QualifiedProperName{
			Qualifier: ast.ProperName(qualifier),
			Value:     ast.ProperName(name),
		},
	}
}

func tFn(returnType cst.Type, parameters ...cst.Type) cst.Type {
	return &cst.TypeFunction{Span: sp(), Parameters: parameters, ReturnType: returnType}
}

func tCall(function cst.Type, arguments ...cst.Type) cst.Type {
	return &cst.TypeCall{Span: sp(), Function: function, Arguments: arguments}
}

func tRecField(label string, value cst.Type) cst.RecordTypeField {
	return cst.RecordTypeField{Span: sp(), LabelSpan: sp(), Label: ast.Name(label), Value: value}
}

func tRecClosed(fields ...cst.RecordTypeField) cst.Type {
	return &cst.TypeRecordClosed{Span: sp(), Fields: fields}
}

func tRecOpen(rowVar string, fields ...cst.RecordTypeField) cst.Type {
	return &cst.TypeRecordOpen{Span: sp(), VarSpan: sp(), Var: ast.Name(rowVar), Fields: fields}
}

func eTrue() cst.Expression  { return &cst.ExprTrue{Span: sp()} }
func eFalse() cst.Expression { return &cst.ExprFalse{Span: sp()} }
func eUnit() cst.Expression  { return &cst.ExprUnit{Span: sp()} }

func eInt(value string) cst.Expression {
	return &cst.ExprInt{Span: sp(), Value: value}
}

func eString(value string) cst.Expression {
	return &cst.ExprString{Span: sp(), Value: value}
}

func eVar(name string) cst.Expression {
	return &cst.ExprVariable{Span: sp(), Variable: ast.Unqualified(ast.Name(name))}
}

func eVarQ(qualifier, name string) cst.Expression {
	return &cst.ExprVariable{
		Span: sp(),
		Variable: ast.QualifiedName{
			Qualifier: ast.ProperName(qualifier),
			Value:     ast.Name(name),
		},
	}
}

func eCtor(name string) cst.Expression {
	return &cst.ExprConstructor{Span: sp(), Constructor: ast.Unqualified(ast.ProperName(name))}
}

func eArray(elements ...cst.Expression) cst.Expression {
	return &cst.ExprArray{Span: sp(), Elements: elements}
}

func eCall(function cst.Expression, arguments ...cst.Expression) cst.Expression {
	return &cst.ExprCall{Span: sp(), Function: function, Arguments: arguments}
}

func eIf(condition, trueClause, falseClause cst.Expression) cst.Expression {
	return &cst.ExprIf{Span: sp(), Condition: condition, TrueClause: trueClause, FalseClause: falseClause}
}

func binder(name string) cst.FunctionBinder {
	return cst.FunctionBinder{Span: sp(), Pattern: pVar(name)}
}

func binderAnn(name string, annotation cst.Type) cst.FunctionBinder {
	return cst.FunctionBinder{Span: sp(), Pattern: pVar(name), TypeAnnotation: annotation}
}

func binderPat(pattern cst.Pattern) cst.FunctionBinder {
	return cst.FunctionBinder{Span: sp(), Pattern: pattern}
}

func eFn(body cst.Expression, binders ...cst.FunctionBinder) cst.Expression {
	return &cst.ExprFunction{Span: sp(), Binders: binders, Body: body}
}

func eMatch(scrutinee cst.Expression, arms ...cst.MatchArm) cst.Expression {
	return &cst.ExprMatch{Span: sp(), Expression: scrutinee, Arms: arms}
}

func arm(pattern cst.Pattern, expression cst.Expression) cst.MatchArm {
	return cst.MatchArm{Span: sp(), Pattern: pattern, Expression: expression}
}

func eLet(body cst.Expression, declarations ...cst.LetDeclaration) cst.Expression {
	return &cst.ExprLet{Span: sp(), Declarations: declarations, Body: body}
}

func letDecl(name string, expression cst.Expression) cst.LetDeclaration {
	return cst.LetDeclaration{Span: sp(), Pattern: pVar(name), Expression: expression}
}

func eRecField(label string, value cst.Expression) cst.RecordExprField {
	return cst.RecordExprField{Span: sp(), LabelSpan: sp(), Label: ast.Name(label), Value: value}
}

func eRec(fields ...cst.RecordExprField) cst.Expression {
	return &cst.ExprRecord{Span: sp(), Fields: fields}
}

func eAccess(target cst.Expression, label string) cst.Expression {
	return &cst.ExprRecordAccess{Span: sp(), Target: target, LabelSpan: sp(), Label: ast.Name(label)}
}

func eUpdate(target cst.Expression, updates ...cst.RecordExprField) cst.Expression {
	return &cst.ExprRecordUpdate{Span: sp(), Target: target, Updates: updates}
}

func eDo(effect cst.EffectNode) cst.Expression {
	return &cst.ExprEffect{Span: sp(), Effect: effect}
}

func effReturn(expression cst.Expression) cst.EffectNode {
	return &cst.EffectReturn{Span: sp(), Expression: expression}
}

func effBind(name string, expression cst.Expression, rest cst.EffectNode) cst.EffectNode {
	return &cst.EffectBind{Span: sp(), NameSpan: sp(), Name: ast.Name(name), Expression: expression, Rest: rest}
}

func pVar(name string) cst.Pattern {
	return &cst.PatternVariable{Span: sp(), Name: ast.Name(name)}
}

func pUnused(name string) cst.Pattern {
	return &cst.PatternUnused{Span: sp(), UnusedName: ast.UnusedName(name)}
}

func pCtor(name string, arguments ...cst.Pattern) cst.Pattern {
	return &cst.PatternConstructor{
		Span:        sp(),
		Constructor: ast.Unqualified(ast.ProperName(name)),
		Arguments:   arguments,
	}
}

func pCtorQ(qualifier, name string, arguments ...cst.Pattern) cst.Pattern {
	return &cst.PatternConstructor{
		Span: sp(),
		Constructor: ast.QualifiedProperName{
			Qualifier: ast.ProperName(qualifier),
			Value:     ast.ProperName(name),
		},
		Arguments: arguments,
	}
}

// Module-level builders.

func mkHeader(name string, exports cst.Exports) cst.Header {
	return cst.Header{
		Span:       sp(),
		ModuleName: cst.ModuleName{Span: sp(), Names: []ast.ProperName{ast.ProperName(name)}},
		Exports:    exports,
	}
}

func exportEverythingClause() cst.Exports {
	return cst.Exports{Everything: true}
}

func exportValue(name string) cst.Export {
	return cst.Export{Span: sp(), Value: ast.Name(name)}
}

func exportType(name string, includeConstructors bool) cst.Export {
	return cst.Export{Span: sp(), Type: ast.ProperName(name), IncludeConstructors: includeConstructors}
}

func typeVariableBinders(names ...string) []cst.TypeVariableBinder {
	binders := make([]cst.TypeVariableBinder, len(names))
	for i, name := range names {
		binders[i] = cst.TypeVariableBinder{Span: sp(), Name: ast.Name(name)}
	}
	return binders
}

func ctorDecl(name string, fields ...cst.Type) cst.ConstructorDeclaration {
	return cst.ConstructorDeclaration{
		Span:     sp(),
		NameSpan: sp(),
		Name:     ast.ProperName(name),
		Fields:   fields,
	}
}

func typeDecl(name string, variables []cst.TypeVariableBinder, constructors ...cst.ConstructorDeclaration) cst.TypeDeclaration {
	return cst.TypeDeclaration{
		Span:         sp(),
		TypeNameSpan: sp(),
		TypeName:     ast.ProperName(name),
		Variables:    variables,
		Constructors: constructors,
	}
}

func aliasDecl(name string, variables []cst.TypeVariableBinder, aliased cst.Type) cst.TypeDeclaration {
	return cst.TypeDeclaration{
		Span:         sp(),
		TypeNameSpan: sp(),
		TypeName:     ast.ProperName(name),
		Variables:    variables,
		Aliased:      aliased,
	}
}

func valueDecl(name string, expression cst.Expression) cst.ValueDeclaration {
	return cst.ValueDeclaration{
		Span:       sp(),
		NameSpan:   sp(),
		Name:       ast.Name(name),
		Expression: expression,
	}
}

func valueDeclAnn(name string, annotation cst.Type, expression cst.Expression) cst.ValueDeclaration {
	declaration := valueDecl(name, expression)
	declaration.TypeAnnotation = annotation
	return declaration
}

func foreignDecl(name string, annotation cst.Type) cst.ForeignValueDeclaration {
	return cst.ForeignValueDeclaration{
		Span:           sp(),
		NameSpan:       sp(),
		Name:           ast.Name(name),
		TypeAnnotation: annotation,
	}
}

func importLine(moduleName ...string) cst.ImportLine {
	names := make([]ast.ProperName, len(moduleName))
	for i, name := range moduleName {
		names[i] = ast.ProperName(name)
	}
	return cst.ImportLine{
		Span:       sp(),
		ModuleName: cst.ModuleName{Span: sp(), Names: names},
	}
}

// maybeTypeDecl is a reusable declaration of Maybe(a) with constructors
// Just(a) and Nothing.
func maybeTypeDecl() cst.TypeDeclaration {
	return typeDecl("Maybe", typeVariableBinders("a"),
		ctorDecl("Just", tVar("a")),
		ctorDecl("Nothing"),
	)
}

// inferExpression runs the typechecker over a single expression in an
// empty module scope and returns the solved type rendering.
func inferExpression(t *testing.T, expression cst.Expression) (string, *State) {
	t.Helper()
	typed, state, err := tryInferExpression(expression)
	if err != nil {
		t.Fatalf("unexpected type error: %v", err)
	}
	return state.Substitution.Apply(typed.GetType()).String(), state
}

func tryInferExpression(expression cst.Expression) (ast.Expression, *State, error) {
	state := NewState()
	tc := &typechecker{kindEnv: NewKindEnv(), state: state}
	typed, err := tc.infer(NewEnv(), expression)
	if err != nil {
		return nil, state, err
	}
	return state.Substitution.ApplyToExpression(typed), state, nil
}

// checkSimpleModule runs CheckModule with no imports.
func checkSimpleModule(module *cst.Module) (*ast.Module, Warnings, error) {
	return CheckModule(NewEnvironment(), module)
}

func warningCodes(warnings Warnings) []string {
	codes := make([]string, len(warnings))
	for i, warning := range warnings {
		codes[i] = warning.Code()
	}
	return codes
}
