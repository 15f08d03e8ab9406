package ast

import (
	"bytes"
	"testing"
)

func TestTypeJSONRoundTrip(t *testing.T) {
	testType := &TypeFunction{
		Parameters: []Type{
			&TypeRecordOpen{
				Var:        3,
				SourceName: "r",
				IsRigid:    true,
				Row:        Row{{Label: "foo", Type: anonVar(4)}},
			},
			&TypeCall{
				Function:  maybeConstructor(),
				Arguments: []Type{&TypePrim{Prim: PrimInt}},
			},
		},
		ReturnType: &TypeConstructorAlias{
			ConstructorKind: KindType{},
			CanonicalValue: FullyQualifiedProperName{
				Package: "pairs",
				Module:  ModuleName{"Data", "Pair"},
				Value:   "Point",
			},
			AliasVariables: nil,
			AliasedType: &TypeRecordClosed{Row: MakeRow([]RowField{
				{Label: "x", Type: &TypePrim{Prim: PrimFloat}},
				{Label: "y", Type: &TypePrim{Prim: PrimFloat}},
			})},
		},
	}

	encoded, err := MarshalType(testType)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := UnmarshalType(encoded)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.String() != testType.String() {
		t.Errorf("round trip changed rendering: %q vs %q", decoded.String(), testType.String())
	}

	// Byte-exact: re-encoding the decoded value reproduces the bytes.
	reencoded, err := MarshalType(decoded)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !bytes.Equal(encoded, reencoded) {
		t.Errorf("encoding not byte-stable:\n%s\nvs\n%s", encoded, reencoded)
	}
}

func TestKindJSONRoundTrip(t *testing.T) {
	kinds := []Kind{
		KindType{},
		KindRow{},
		KindVariable{Var: 12},
		KindFunction{Parameters: []Kind{KindType{}, KindRow{}, KindVariable{Var: 3}}},
	}
	for _, kind := range kinds {
		encoded, err := MarshalKind(kind)
		if err != nil {
			t.Fatalf("marshal %s: %v", kind, err)
		}
		decoded, err := UnmarshalKind(encoded)
		if err != nil {
			t.Fatalf("unmarshal %s: %v", kind, err)
		}
		if !decoded.Equals(kind) {
			t.Errorf("round trip changed kind: %s vs %s", decoded, kind)
		}
		reencoded, err := MarshalKind(decoded)
		if err != nil {
			t.Fatalf("re-marshal %s: %v", kind, err)
		}
		if !bytes.Equal(encoded, reencoded) {
			t.Errorf("kind encoding not byte-stable for %s", kind)
		}
	}
}

func TestUnmarshalRejectsUnknownTags(t *testing.T) {
	if _, err := UnmarshalType([]byte(`{"type":"Nope"}`)); err == nil {
		t.Error("expected an error for unknown type tag")
	}
	if _, err := UnmarshalKind([]byte(`{"type":"Nope"}`)); err == nil {
		t.Error("expected an error for unknown kind tag")
	}
}
