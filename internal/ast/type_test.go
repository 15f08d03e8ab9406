package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func namedVar(v Var, name string) *TypeVariable {
	return &TypeVariable{VariableKind: KindType{}, Var: v, SourceName: Name(name)}
}

func anonVar(v Var) *TypeVariable {
	return &TypeVariable{VariableKind: KindType{}, Var: v}
}

func maybeConstructor() *TypeConstructor {
	return &TypeConstructor{
		ConstructorKind: KindFunction{Parameters: []Kind{KindType{}}},
		CanonicalValue: FullyQualifiedProperName{
			Module: ModuleName{"Data", "Maybe"},
			Value:  "Maybe",
		},
		SourceValue: Unqualified[ProperName]("Maybe"),
	}
}

func TestTypeRendering(t *testing.T) {
	testType := &TypeFunction{
		Parameters: nil,
		ReturnType: &TypeFunction{
			Parameters: []Type{
				&TypePrim{Prim: PrimString},
				&TypePrim{Prim: PrimBool},
				&TypeConstructor{
					ConstructorKind: KindType{},
					CanonicalValue: FullyQualifiedProperName{
						Package: "dunno",
						Module:  ModuleName{"Foo", "Bar"},
						Value:   "Baz",
					},
					SourceValue: QualifiedProperName{Qualifier: "Bar", Value: "Baz"},
				},
			},
			ReturnType: &TypeFunction{
				Parameters: []Type{
					&TypeFunction{
						Parameters: []Type{namedVar(0, "a")},
						ReturnType: namedVar(1, "b"),
					},
				},
				ReturnType: &TypeCall{
					Function:  maybeConstructor(),
					Arguments: []Type{anonVar(2)},
				},
			},
		},
	}
	want := "() -> (String, Bool, Bar.Baz) -> ((a) -> b) -> Maybe($2)"
	if got := testType.String(); got != want {
		t.Errorf("rendered %q, want %q", got, want)
	}
}

func TestRecordRendering(t *testing.T) {
	closed := &TypeRecordClosed{Row: MakeRow([]RowField{
		{Label: "b", Type: &TypePrim{Prim: PrimInt}},
		{Label: "a", Type: &TypePrim{Prim: PrimBool}},
	})}
	if got := closed.String(); got != "{ a: Bool, b: Int }" {
		t.Errorf("closed record rendered %q", got)
	}

	open := &TypeRecordOpen{
		Var: 1,
		Row: Row{{Label: "foo", Type: anonVar(2)}},
	}
	if got := open.String(); got != "{$1 | foo: $2}" {
		t.Errorf("open record rendered %q", got)
	}
}

func TestTypeVariablesOrder(t *testing.T) {
	testType := &TypeFunction{
		Parameters: []Type{anonVar(3), anonVar(1), anonVar(3)},
		ReturnType: &TypeRecordOpen{Var: 7, Row: Row{{Label: "x", Type: anonVar(1)}}},
	}
	got := TypeVariables(testType)
	want := []Var{3, 1, 7}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("type variables mismatch (-want +got):\n%s", diff)
	}
	if !ContainsVar(testType, 7) {
		t.Error("expected var 7 to occur")
	}
	if ContainsVar(testType, 2) {
		t.Error("did not expect var 2 to occur")
	}
}

func TestUnalias(t *testing.T) {
	aliased := &TypeRecordClosed{Row: Row{{Label: "fst", Type: namedVar(0, "a")}}}
	alias := &TypeConstructorAlias{
		ConstructorKind: KindFunction{Parameters: []Kind{KindType{}}},
		CanonicalValue: FullyQualifiedProperName{
			Module: ModuleName{"Data", "Pair"},
			Value:  "Wrap",
		},
		AliasVariables: []Var{0},
		AliasedType:    aliased,
	}

	// Bare alias reference unwraps to the aliased type as written.
	if got := Unalias(alias); got.String() != "{ fst: a }" {
		t.Errorf("unaliased to %q", got.String())
	}

	// A saturated application substitutes the alias variables.
	call := &TypeCall{Function: alias, Arguments: []Type{&TypePrim{Prim: PrimInt}}}
	if got := Unalias(call); got.String() != "{ fst: Int }" {
		t.Errorf("unaliased call to %q", got.String())
	}

	// Non-aliases pass through untouched.
	plain := &TypePrim{Prim: PrimBool}
	if got := Unalias(plain); got != plain {
		t.Error("expected non-alias to be returned as-is")
	}
}

func TestRowOperations(t *testing.T) {
	row := MakeRow([]RowField{
		{Label: "b", Type: &TypePrim{Prim: PrimInt}},
		{Label: "a", Type: &TypePrim{Prim: PrimBool}},
	})
	if diff := cmp.Diff([]Name{"a", "b"}, row.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if _, ok := row.Lookup("a"); !ok {
		t.Error("expected label a")
	}
	if _, ok := row.Lookup("c"); ok {
		t.Error("did not expect label c")
	}

	inserted := row.Insert("aa", &TypePrim{Prim: PrimString})
	if diff := cmp.Diff([]Name{"a", "aa", "b"}, inserted.Labels()); diff != "" {
		t.Errorf("insert mismatch (-want +got):\n%s", diff)
	}

	merged := MergeRows(Row{{Label: "z", Type: &TypePrim{Prim: PrimUnit}}}, row)
	if diff := cmp.Diff([]Name{"a", "b", "z"}, merged.Labels()); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}
