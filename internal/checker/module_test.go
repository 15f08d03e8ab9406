package checker

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/veldlang/veld/internal/ast"
	"github.com/veldlang/veld/internal/cst"
	"github.com/veldlang/veld/internal/graph"
)

func TestCheckModuleMatchExhaustive(t *testing.T) {
	module := &cst.Module{
		Header:           mkHeader("Test", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{maybeTypeDecl()},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("test", eFn(
				eMatch(eVar("x"),
					arm(pCtor("Just", pVar("n")), eVar("n")),
					arm(pCtor("Nothing"), eInt("0")),
				),
				binderAnn("x", tCall(tCon("Maybe"), tCon("Int"))),
			)),
		},
	}
	checked, _, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exported := checked.Exports.Values["test"]
	if exported == nil {
		t.Fatal("test not exported")
	}
	if got := exported.ValueType.String(); got != "(Maybe(Int)) -> Int" {
		t.Errorf("exported type %q, want (Maybe(Int)) -> Int", got)
	}
}

func TestCheckModuleMatchNotExhaustive(t *testing.T) {
	module := &cst.Module{
		Header:           mkHeader("Test", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{maybeTypeDecl()},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("test", eFn(
				eMatch(eVar("x"),
					arm(pCtor("Just", pVar("n")), eVar("n")),
				),
				binderAnn("x", tCall(tCon("Maybe"), tCon("Int"))),
			)),
		},
	}
	_, _, err := checkSimpleModule(module)
	notExhaustive, ok := err.(*MatchNotExhaustive)
	if !ok {
		t.Fatalf("got %T (%v), want MatchNotExhaustive", err, err)
	}
	if diff := cmp.Diff([]string{"Nothing"}, notExhaustive.MissingPatterns); diff != "" {
		t.Errorf("missing patterns (-want +got):\n%s", diff)
	}
}

func TestCheckModuleRedundantArm(t *testing.T) {
	module := &cst.Module{
		Header:           mkHeader("Test", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{maybeTypeDecl()},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("test", eFn(
				eMatch(eVar("x"),
					arm(pCtor("Just", pUnused("_n")), eInt("1")),
					arm(pCtor("Nothing"), eInt("0")),
					arm(pVar("other"), eInt("2")),
				),
				binderAnn("x", tCall(tCon("Maybe"), tCon("Int"))),
			)),
		},
	}
	_, warnings, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, warning := range warnings {
		if _, ok := warning.(*RedundantMatchPattern); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a RedundantMatchPattern warning, got %v", warningCodes(warnings))
	}
}

func TestCheckModuleRefutableBinder(t *testing.T) {
	module := &cst.Module{
		Header:           mkHeader("Test", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{maybeTypeDecl()},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("unwrap", eFn(
				eVar("n"),
				binderPat(pCtor("Just", pVar("n"))),
			)),
		},
	}
	_, _, err := checkSimpleModule(module)
	refutable, ok := err.(*RefutableFunctionBinder)
	if !ok {
		t.Fatalf("got %T (%v), want RefutableFunctionBinder", err, err)
	}
	if diff := cmp.Diff([]string{"Nothing"}, refutable.MissingPatterns); diff != "" {
		t.Errorf("missing patterns (-want +got):\n%s", diff)
	}
}

func TestCheckModuleDuplicatePatternBinder(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{
			typeDecl("Pair", nil, ctorDecl("MkPair", tCon("Int"), tCon("Int"))),
		},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("test", eFn(
				eMatch(eVar("p"),
					arm(pCtor("MkPair", pVar("n"), pVar("n")), eVar("n")),
				),
				binderAnn("p", tCon("Pair")),
			)),
		},
	}
	_, _, err := checkSimpleModule(module)
	if _, ok := err.(*DuplicatePatternBinder); !ok {
		t.Errorf("got %T (%v), want DuplicatePatternBinder", err, err)
	}
}

func TestCheckModuleConstructorsAreFunctions(t *testing.T) {
	module := &cst.Module{
		Header:           mkHeader("Test", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{maybeTypeDecl()},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("five", eCall(eCtor("Just"), eInt("5"))),
			valueDecl("nothing", eCtor("Nothing")),
		},
	}
	checked, _, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := checked.Exports.Values["five"].ValueType.String(); got != "Maybe(Int)" {
		t.Errorf("five : %q, want Maybe(Int)", got)
	}
	// Nothing's type variable is fresh per instantiation; only the
	// shape is stable.
	if got := checked.Exports.Values["nothing"].ValueType.String(); !strings.HasPrefix(got, "Maybe($") {
		t.Errorf("nothing : %q, want Maybe($n)", got)
	}
}

func TestCheckModuleValuesToposort(t *testing.T) {
	// a depends on b, b on c; mutual pair x/y.
	module := &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("a", eVar("b")),
			valueDecl("b", eVar("c")),
			valueDecl("c", eInt("1")),
			valueDecl("y", eFn(eCall(eVar("x"), eVar("n")), binder("n"))),
			valueDecl("x", eFn(eCall(eVar("y"), eVar("n")), binder("n"))),
		},
	}
	checked, _, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	position := make(map[ast.Name]int)
	var cyclicGroups []graph.Scc[ast.Name]
	for i, scc := range checked.ValuesToposort {
		for _, name := range scc.Nodes {
			position[name] = i
		}
		if scc.Cyclic {
			cyclicGroups = append(cyclicGroups, scc)
		}
	}
	if !(position["c"] < position["b"] && position["b"] < position["a"]) {
		t.Errorf("chain out of order: %v", checked.ValuesToposort)
	}
	if len(cyclicGroups) != 1 {
		t.Fatalf("expected one cyclic group, got %v", checked.ValuesToposort)
	}
	if diff := cmp.Diff([]ast.Name{"x", "y"}, cyclicGroups[0].Nodes); diff != "" {
		t.Errorf("cyclic group members (-want +got):\n%s", diff)
	}
}

func TestCheckModuleMutualRecursionTypes(t *testing.T) {
	// even/odd via a shared substitution, generalised together.
	module := &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("even", eFn(eIf(eVar("b"), eCall(eVar("odd"), eFalse()), eTrue()), binder("b"))),
			valueDecl("odd", eFn(eIf(eVar("b"), eCall(eVar("even"), eFalse()), eFalse()), binder("b"))),
		},
	}
	checked, _, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := checked.Exports.Values["even"].ValueType.String(); got != "(Bool) -> Bool" {
		t.Errorf("even : %q", got)
	}
	if got := checked.Exports.Values["odd"].ValueType.String(); got != "(Bool) -> Bool" {
		t.Errorf("odd : %q", got)
	}
}

func TestCheckModuleForeignAndEffect(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		ForeignValueDeclarations: []cst.ForeignValueDeclaration{
			foreignDecl("fetch", tCall(tCon("Effect"), tCon("Int"))),
		},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("main", eDo(effBind("x", eVar("fetch"), effReturn(eVar("x"))))),
		},
	}
	checked, _, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := checked.Exports.Values["main"].ValueType.String(); got != "Effect(Int)" {
		t.Errorf("main : %q, want Effect(Int)", got)
	}
}

func TestCheckModuleUnusedEffectBinder(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		ForeignValueDeclarations: []cst.ForeignValueDeclaration{
			foreignDecl("fetch", tCall(tCon("Effect"), tCon("Int"))),
		},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("main", eDo(effBind("x", eVar("fetch"), effReturn(eInt("1"))))),
		},
	}
	_, warnings, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, warning := range warnings {
		if unused, ok := warning.(*UnusedEffectBinder); ok {
			found = true
			if unused.Name != "x" {
				t.Errorf("warned about %q", unused.Name)
			}
		}
	}
	if !found {
		t.Errorf("expected UnusedEffectBinder, got %v", warningCodes(warnings))
	}
}

func TestCheckModuleAnnotationMismatch(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		ValueDeclarations: []cst.ValueDeclaration{
			valueDeclAnn("five", tCon("String"), eInt("5")),
		},
	}
	_, _, err := checkSimpleModule(module)
	if _, ok := err.(*TypesNotEqual); !ok {
		t.Errorf("got %T (%v), want TypesNotEqual", err, err)
	}
}

func TestCheckModuleTypeAlias(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{
			aliasDecl("Point", nil, tRecClosed(
				tRecField("x", tCon("Int")),
				tRecField("y", tCon("Int")),
			)),
		},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDeclAnn("origin", tCon("Point"),
				eRec(eRecField("x", eInt("0")), eRecField("y", eInt("0")))),
			valueDecl("originX", eAccess(eVar("origin"), "x")),
		},
	}
	checked, _, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := checked.Exports.Values["originX"].ValueType.String(); got != "Int" {
		t.Errorf("originX : %q, want Int", got)
	}
	exportedType := checked.Exports.Types["Point"]
	if exportedType == nil || !exportedType.IsAlias() {
		t.Error("Point should be exported as an alias")
	}
}

func TestCheckModuleExportList(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", cst.Exports{List: []cst.Export{
			exportValue("visible"),
			exportType("Maybe", true),
		}}),
		TypeDeclarations: []cst.TypeDeclaration{maybeTypeDecl()},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("visible", eCall(eCtor("Just"), eInt("1"))),
			valueDecl("hidden", eVar("visible")),
		},
	}
	checked, warnings, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := checked.Exports.Values["hidden"]; ok {
		t.Error("hidden should not be exported")
	}
	if _, ok := checked.Exports.Constructors["Just"]; !ok {
		t.Error("Maybe(..) should export Just")
	}
	if _, ok := checked.Exports.Constructors["Nothing"]; !ok {
		t.Error("Maybe(..) should export Nothing")
	}
	// hidden is neither referenced nor exported.
	foundUnused := false
	for _, warning := range warnings {
		if _, ok := warning.(*UnusedValueDeclaration); ok {
			foundUnused = true
		}
	}
	if !foundUnused {
		t.Errorf("expected UnusedValueDeclaration for hidden, got %v", warningCodes(warnings))
	}
}

func TestCheckModuleExportErrors(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", cst.Exports{List: []cst.Export{exportValue("nope")}}),
	}
	_, _, err := checkSimpleModule(module)
	if _, ok := err.(*UnknownValueExport); !ok {
		t.Errorf("got %T, want UnknownValueExport", err)
	}

	module = &cst.Module{
		Header: mkHeader("Test", cst.Exports{List: []cst.Export{exportType("Nope", false)}}),
	}
	_, _, err = checkSimpleModule(module)
	if _, ok := err.(*UnknownTypeExport); !ok {
		t.Errorf("got %T, want UnknownTypeExport", err)
	}
}

func TestCheckModuleDuplicateExportWarns(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", cst.Exports{List: []cst.Export{
			exportValue("x"),
			exportValue("x"),
		}}),
		ValueDeclarations: []cst.ValueDeclaration{valueDecl("x", eInt("1"))},
	}
	_, warnings, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, warning := range warnings {
		if _, ok := warning.(*DuplicateValueExport); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected DuplicateValueExport, got %v", warningCodes(warnings))
	}
}

func TestCheckModuleUnusedWarnings(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", cst.Exports{List: []cst.Export{exportValue("used")}}),
		TypeDeclarations: []cst.TypeDeclaration{
			typeDecl("Dead", nil, ctorDecl("MkDead")),
		},
		ForeignValueDeclarations: []cst.ForeignValueDeclaration{
			foreignDecl("deadForeign", tCon("Int")),
		},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("used", eInt("1")),
			valueDecl("deadValue", eInt("2")),
		},
	}
	_, warnings, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var haveDeadValue, haveDeadForeign, haveDeadType bool
	for _, warning := range warnings {
		switch warning.(type) {
		case *UnusedValueDeclaration:
			haveDeadValue = true
		case *UnusedForeignValue:
			haveDeadForeign = true
		case *UnusedTypeDeclaration:
			haveDeadType = true
		}
	}
	if !haveDeadValue || !haveDeadForeign || !haveDeadType {
		t.Errorf("missing unused warnings, got %v", warningCodes(warnings))
	}
}

func TestCheckModuleDuplicateValueDeclaration(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("x", eInt("1")),
			valueDecl("x", eInt("2")),
		},
	}
	_, _, err := checkSimpleModule(module)
	if _, ok := err.(*DuplicateValueDeclaration); !ok {
		t.Errorf("got %T, want DuplicateValueDeclaration", err)
	}
}

// Imports.

func stuffEnvironment(t *testing.T) *Environment {
	t.Helper()
	stuff := &cst.Module{
		Header:           mkHeader("Stuff", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{maybeTypeDecl()},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("five", eInt("5")),
			valueDecl("id", eFn(eVar("x"), binder("x"))),
		},
	}
	checked, _, err := checkSimpleModule(stuff)
	if err != nil {
		t.Fatalf("checking Stuff: %v", err)
	}
	environment := NewEnvironment()
	environment.Modules["Stuff"] = checked.Exports
	return environment
}

func TestCheckModuleImports(t *testing.T) {
	environment := stuffEnvironment(t)
	module := &cst.Module{
		Header:  mkHeader("Test", exportEverythingClause()),
		Imports: []cst.ImportLine{importLine("Stuff")},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("ten", eCall(eVarQ("Stuff", "id"), eVar("n"))),
			valueDecl("n", eVarQ("Stuff", "five")),
			valueDecl("wrapped", eCall(eCtorQ("Stuff", "Just"), eInt("1"))),
		},
	}
	checked, warnings, err := CheckModule(environment, module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := checked.Exports.Values["ten"].ValueType.String(); got != "Int" {
		t.Errorf("ten : %q, want Int", got)
	}
	if got := checked.Exports.Values["wrapped"].ValueType.String(); got != "Maybe(Int)" {
		t.Errorf("wrapped : %q, want Maybe(Int)", got)
	}
	for _, warning := range warnings {
		if _, ok := warning.(*UnusedImport); ok {
			t.Error("import is used; no UnusedImport expected")
		}
	}

	// Imported polymorphic schemes instantiate freshly: Stuff.id works
	// at two different types.
	module = &cst.Module{
		Header:  mkHeader("Test", exportEverythingClause()),
		Imports: []cst.ImportLine{importLine("Stuff")},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("both", eIf(
				eCall(eVarQ("Stuff", "id"), eTrue()),
				eCall(eVarQ("Stuff", "id"), eInt("1")),
				eInt("2"),
			)),
		},
	}
	checked, _, err = CheckModule(environment, module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := checked.Exports.Values["both"].ValueType.String(); got != "Int" {
		t.Errorf("both : %q, want Int", got)
	}
}

func TestCheckModuleImportMatchOnImportedType(t *testing.T) {
	environment := stuffEnvironment(t)
	module := &cst.Module{
		Header:  mkHeader("Test", exportEverythingClause()),
		Imports: []cst.ImportLine{importLine("Stuff")},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("orZero", eFn(
				eMatch(eVar("x"),
					arm(pCtorQ("Stuff", "Just", pVar("n")), eVar("n")),
					arm(pCtorQ("Stuff", "Nothing"), eInt("0")),
				),
				binderAnn("x", tCall(tConQ("Stuff", "Maybe"), tCon("Int"))),
			)),
		},
	}
	checked, _, err := CheckModule(environment, module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := checked.Exports.Values["orZero"].ValueType.String(); got != "(Stuff.Maybe(Int)) -> Int" {
		t.Errorf("orZero : %q", got)
	}
}

func TestCheckModuleImportErrors(t *testing.T) {
	environment := stuffEnvironment(t)

	// Unknown module.
	module := &cst.Module{
		Header:  mkHeader("Test", exportEverythingClause()),
		Imports: []cst.ImportLine{importLine("Nope")},
	}
	_, _, err := CheckModule(environment, module)
	if _, ok := err.(*ModuleNotFound); !ok {
		t.Errorf("got %T, want ModuleNotFound", err)
	}

	// Unknown package.
	line := importLine("Stuff")
	line.Package = "no-such-pkg"
	module = &cst.Module{
		Header:  mkHeader("Test", exportEverythingClause()),
		Imports: []cst.ImportLine{line},
	}
	_, _, err = CheckModule(environment, module)
	if _, ok := err.(*PackageNotFound); !ok {
		t.Errorf("got %T, want PackageNotFound", err)
	}

	// Duplicate line.
	module = &cst.Module{
		Header:  mkHeader("Test", exportEverythingClause()),
		Imports: []cst.ImportLine{importLine("Stuff"), importLine("Stuff")},
	}
	_, _, err = CheckModule(environment, module)
	if _, ok := err.(*DuplicateImportLine); !ok {
		t.Errorf("got %T, want DuplicateImportLine", err)
	}

	// Unknown item in the import list.
	line = importLine("Stuff")
	line.List = []cst.ImportItem{{Span: sp(), Value: "nope"}}
	module = &cst.Module{
		Header:  mkHeader("Test", exportEverythingClause()),
		Imports: []cst.ImportLine{line},
	}
	_, _, err = CheckModule(environment, module)
	if _, ok := err.(*UnknownValueImport); !ok {
		t.Errorf("got %T, want UnknownValueImport", err)
	}
}

func TestCheckModuleUnqualifiedImports(t *testing.T) {
	environment := stuffEnvironment(t)
	line := importLine("Stuff")
	line.List = []cst.ImportItem{
		{Span: sp(), Value: "five"},
		{Span: sp(), Type: "Maybe", IncludeConstructors: true},
	}
	module := &cst.Module{
		Header:  mkHeader("Test", exportEverythingClause()),
		Imports: []cst.ImportLine{line},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("wrapped", eCall(eCtor("Just"), eVar("five"))),
		},
	}
	checked, _, err := CheckModule(environment, module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := checked.Exports.Values["wrapped"].ValueType.String(); got != "Maybe(Int)" {
		t.Errorf("wrapped : %q, want Maybe(Int)", got)
	}
}

func TestCheckModuleUnusedImportWarns(t *testing.T) {
	environment := stuffEnvironment(t)
	module := &cst.Module{
		Header:  mkHeader("Test", exportEverythingClause()),
		Imports: []cst.ImportLine{importLine("Stuff")},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("x", eInt("1")),
		},
	}
	_, warnings, err := CheckModule(environment, module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, warning := range warnings {
		if _, ok := warning.(*UnusedImport); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected UnusedImport, got %v", warningCodes(warnings))
	}
}

func eCtorQ(qualifier, name string) cst.Expression {
	return &cst.ExprConstructor{
		Span: sp(),
		Constructor: ast.QualifiedProperName{
			Qualifier: ast.ProperName(qualifier),
			Value:     ast.ProperName(name),
		},
	}
}
