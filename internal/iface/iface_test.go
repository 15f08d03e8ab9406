package iface

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veldlang/veld/internal/ast"
)

func sampleExports(t *testing.T) ast.ModuleExports {
	t.Helper()
	exports := ast.NewModuleExports()

	maybeKind := ast.KindFunction{Parameters: []ast.Kind{ast.KindType{}}}
	exports.Types["Maybe"] = &ast.ModuleExportsType{
		DocPosition: 0,
		Kind:        maybeKind,
	}

	variable := &ast.TypeVariable{VariableKind: ast.KindType{}, Var: 0, SourceName: "a", IsRigid: true}
	maybeOfA := &ast.TypeCall{
		Function: &ast.TypeConstructor{
			ConstructorKind: maybeKind,
			CanonicalValue: ast.FullyQualifiedProperName{
				Module: ast.ModuleName{"Data", "Stuff"},
				Value:  "Maybe",
			},
		},
		Arguments: []ast.Type{variable},
	}
	exports.Constructors["Just"] = &ast.ModuleExportsConstructor{
		DocPosition: 0,
		ConstructorType: &ast.TypeFunction{
			Parameters: []ast.Type{variable},
			ReturnType: maybeOfA,
		},
		ReturnTypeName: "Maybe",
	}
	exports.Constructors["Nothing"] = &ast.ModuleExportsConstructor{
		DocPosition:     1,
		ConstructorType: maybeOfA,
		ReturnTypeName:  "Maybe",
	}

	exports.Values["five"] = &ast.ModuleExportsValue{
		DocPosition: 0,
		ValueType:   &ast.TypePrim{Prim: ast.PrimInt},
	}
	return exports
}

func TestInterfaceRoundTrip(t *testing.T) {
	exports := sampleExports(t)
	built, err := FromExports("Data.Stuff", exports)
	require.NoError(t, err)
	require.NotEmpty(t, built.Digest)

	encoded, err := Encode(built)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, built.Module, decoded.Module)

	ok, err := decoded.VerifyDigest()
	require.NoError(t, err)
	require.True(t, ok, "digest should survive the round trip")

	// Byte-exact re-encode.
	reencoded, err := Encode(decoded)
	require.NoError(t, err)
	require.True(t, bytes.Equal(encoded, reencoded), "JSON encoding must be byte-stable")

	// The reconstructed exports render identically.
	roundTripped, err := decoded.Exports()
	require.NoError(t, err)
	require.Equal(t,
		exports.Constructors["Just"].ConstructorType.String(),
		roundTripped.Constructors["Just"].ConstructorType.String(),
	)
	require.Equal(t,
		exports.Values["five"].ValueType.String(),
		roundTripped.Values["five"].ValueType.String(),
	)
	require.Equal(t, "Maybe", string(roundTripped.Constructors["Nothing"].ReturnTypeName))
}

func TestInterfaceBinaryRoundTrip(t *testing.T) {
	built, err := FromExports("Data.Stuff", sampleExports(t))
	require.NoError(t, err)

	encoded, err := EncodeBinary(built)
	require.NoError(t, err)

	decoded, err := DecodeBinary(encoded)
	require.NoError(t, err)
	require.Equal(t, built.Digest, decoded.Digest)

	reencoded, err := EncodeBinary(decoded)
	require.NoError(t, err)
	require.True(t, bytes.Equal(encoded, reencoded), "binary encoding must be byte-stable")
}

func TestDecodeRejectsWrongSchema(t *testing.T) {
	_, err := Decode([]byte(`{"schema":"other/v9","module":"X","types":[],"constructors":[],"values":[]}`))
	require.Error(t, err)
}

func TestDigestDetectsTampering(t *testing.T) {
	built, err := FromExports("Data.Stuff", sampleExports(t))
	require.NoError(t, err)
	built.Module = "Data.Tampered"
	ok, err := built.VerifyDigest()
	require.NoError(t, err)
	require.False(t, ok)
}
