package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/veldlang/veld/internal/cst"
)

// coverageModule builds a module with Maybe and Result plus a single
// match over the given arms, the scrutinee typed by annotation (or
// inferred from the patterns when annotation is nil).
func coverageModule(annotation cst.Type, arms ...cst.MatchArm) *cst.Module {
	binderFor := binder("x")
	if annotation != nil {
		binderFor = binderAnn("x", annotation)
	}
	return &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{
			maybeTypeDecl(),
			typeDecl("Result", typeVariableBinders("a", "e"),
				ctorDecl("Ok", tVar("a")),
				ctorDecl("Err", tVar("e")),
			),
		},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("test", eFn(eMatch(eVar("x"), arms...), binderFor)),
		},
	}
}

func assertNotCovered(t *testing.T, module *cst.Module, wantMissing []string) {
	t.Helper()
	_, _, err := checkSimpleModule(module)
	notExhaustive, ok := err.(*MatchNotExhaustive)
	if !ok {
		t.Fatalf("got %T (%v), want MatchNotExhaustive", err, err)
	}
	if diff := cmp.Diff(wantMissing, notExhaustive.MissingPatterns); diff != "" {
		t.Errorf("missing patterns (-want +got):\n%s", diff)
	}
}

func TestCoverageSimpleSum(t *testing.T) {
	module := &cst.Module{
		Header: mkHeader("Test", exportEverythingClause()),
		TypeDeclarations: []cst.TypeDeclaration{
			typeDecl("Foo", nil, ctorDecl("A"), ctorDecl("B")),
		},
		ValueDeclarations: []cst.ValueDeclaration{
			valueDecl("test", eFn(
				eMatch(eVar("x"), arm(pCtor("A"), eInt("5"))),
				binderAnn("x", tCon("Foo")),
			)),
		},
	}
	assertNotCovered(t, module, []string{"B"})
}

func TestCoverageMissingNullary(t *testing.T) {
	module := coverageModule(
		tCall(tCon("Maybe"), tVar("a")),
		arm(pCtor("Just", pVar("a")), eVar("a")),
	)
	assertNotCovered(t, module, []string{"Nothing"})
}

func TestCoverageMissingUnary(t *testing.T) {
	module := coverageModule(
		tCall(tCon("Maybe"), tCon("Int")),
		arm(pCtor("Nothing"), eInt("2")),
	)
	assertNotCovered(t, module, []string{"Just(_)"})
}

func TestCoverageNestedScrutineeTypeFromPatterns(t *testing.T) {
	// No annotation: the pattern itself refines x to Maybe(Maybe(a)).
	module := coverageModule(
		nil,
		arm(pCtor("Just", pCtor("Nothing")), eInt("2")),
	)
	assertNotCovered(t, module, []string{"Just(Just(_))", "Nothing"})
}

func TestCoverageDeeplyNested(t *testing.T) {
	module := coverageModule(
		nil,
		arm(pCtor("Just", pCtor("Just", pCtor("Just", pCtor("Nothing")))), eInt("2")),
	)
	assertNotCovered(t, module, []string{
		"Just(Just(Just(Just(_))))",
		"Just(Just(Nothing))",
		"Just(Nothing)",
		"Nothing",
	})
}

func TestCoverageResultOfMaybe(t *testing.T) {
	module := coverageModule(
		tCall(tCon("Result"), tCall(tCon("Maybe"), tCon("Int")), tCon("String")),
		arm(pCtor("Err", pVar("s")), eVar("s")),
	)
	assertNotCovered(t, module, []string{"Ok(_)"})
}

func TestCoverageResultNested(t *testing.T) {
	module := coverageModule(
		tCall(tCon("Result"), tCall(tCon("Maybe"), tCon("Int")), tCon("String")),
		arm(pCtor("Ok", pCtor("Just", pVar("n"))), eVar("n")),
	)
	// Err < Ok, so the Err branch is explored first.
	assertNotCovered(t, module, []string{"Err(_)", "Ok(Nothing)"})
}

func TestCoverageVariableCoversEverything(t *testing.T) {
	module := coverageModule(
		tCall(tCon("Maybe"), tCon("Int")),
		arm(pCtor("Just", pVar("n")), eVar("n")),
		arm(pVar("other"), eInt("0")),
	)
	checked, warnings, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checked == nil {
		t.Fatal("no module")
	}
	for _, warning := range warnings {
		if _, ok := warning.(*RedundantMatchPattern); ok {
			t.Error("the trailing variable arm is reachable; no redundancy expected")
		}
	}
}

func TestCoverageRedundantAfterFullSplit(t *testing.T) {
	module := coverageModule(
		tCall(tCon("Maybe"), tCon("Int")),
		arm(pCtor("Just", pUnused("_n")), eInt("1")),
		arm(pCtor("Nothing"), eInt("0")),
		arm(pVar("other"), eInt("2")),
	)
	_, warnings, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	redundant := 0
	for _, warning := range warnings {
		if _, ok := warning.(*RedundantMatchPattern); ok {
			redundant++
		}
	}
	if redundant != 1 {
		t.Errorf("expected exactly one redundant arm, got %d (%v)", redundant, warningCodes(warnings))
	}
}

func TestCoverageBoolNeedsVariable(t *testing.T) {
	// Bool has no constructors in pattern position; only a variable or
	// underscore covers it.
	module := coverageModule(
		tCon("Bool"),
		arm(pVar("b"), eVar("b")),
	)
	checked, _, err := checkSimpleModule(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := checked.Exports.Values["test"].ValueType.String(); got != "(Bool) -> Bool" {
		t.Errorf("test : %q", got)
	}
}
