package cst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veldlang/veld/internal/ast"
)

const sampleModuleJSON = `{
  "header": {
    "span": {"start": 0, "end": 30},
    "module_name": {"span": {"start": 7, "end": 11}, "names": ["Test"]},
    "exports": {"everything": true}
  },
  "imports": [
    {
      "span": {"start": 31, "end": 55},
      "module_name": {"span": {"start": 38, "end": 48}, "names": ["Data", "Stuff"]},
      "alias": "S",
      "alias_span": {"start": 52, "end": 53},
      "list": [{"span": {"start": 54, "end": 55}, "value": "five"}]
    }
  ],
  "type_declarations": [
    {
      "span": {"start": 60, "end": 95},
      "type_name_span": {"start": 65, "end": 70},
      "type_name": "Maybe",
      "variables": [{"span": {"start": 71, "end": 72}, "name": "a"}],
      "constructors": [
        {
          "span": {"start": 75, "end": 82},
          "name_span": {"start": 75, "end": 79},
          "name": "Just",
          "fields": [{"type": "Variable", "data": {"span": {"start": 80, "end": 81}, "name": "a"}}]
        },
        {
          "span": {"start": 85, "end": 92},
          "name_span": {"start": 85, "end": 92},
          "name": "Nothing"
        }
      ]
    }
  ],
  "value_declarations": [
    {
      "span": {"start": 100, "end": 140},
      "name_span": {"start": 100, "end": 104},
      "name": "test",
      "type_annotation": {"type": "Constructor", "data": {"span": {"start": 107, "end": 110}, "constructor": {"value": "Int"}}},
      "expression": {
        "type": "Match",
        "data": {
          "span": {"start": 113, "end": 140},
          "expression": {"type": "Variable", "data": {"span": {"start": 119, "end": 120}, "variable": {"qualifier": "S", "value": "five"}}},
          "arms": [
            {
              "span": {"start": 125, "end": 138},
              "pattern": {"type": "Variable", "data": {"span": {"start": 127, "end": 128}, "name": "n"}},
              "expression": {"type": "Int", "data": {"span": {"start": 132, "end": 133}, "value": "1"}}
            }
          ]
        }
      }
    }
  ],
  "foreign_value_declarations": [
    {
      "span": {"start": 150, "end": 180},
      "name_span": {"start": 158, "end": 163},
      "name": "fetch",
      "type_annotation": {
        "type": "Call",
        "data": {
          "span": {"start": 166, "end": 180},
          "function": {"type": "Constructor", "data": {"span": {"start": 166, "end": 172}, "constructor": {"value": "Effect"}}},
          "arguments": [{"type": "Constructor", "data": {"span": {"start": 173, "end": 179}, "constructor": {"value": "Int"}}}]
        }
      }
    }
  ]
}`

func TestUnmarshalModule(t *testing.T) {
	module, err := UnmarshalModule([]byte(sampleModuleJSON))
	require.NoError(t, err)

	require.Equal(t, "Test", module.Header.ModuleName.ToAST().String())
	require.True(t, module.Header.Exports.Everything)

	require.Len(t, module.Imports, 1)
	importLine := module.Imports[0]
	require.Equal(t, "Data.Stuff", importLine.ModuleName.ToAST().String())
	require.Equal(t, ast.ProperName("S"), importLine.Alias)
	require.Len(t, importLine.List, 1)
	require.Equal(t, ast.Name("five"), importLine.List[0].Value)

	require.Len(t, module.TypeDeclarations, 1)
	maybe := module.TypeDeclarations[0]
	require.Equal(t, ast.ProperName("Maybe"), maybe.TypeName)
	require.Len(t, maybe.Constructors, 2)
	require.Len(t, maybe.Constructors[0].Fields, 1)
	field, ok := maybe.Constructors[0].Fields[0].(*TypeVariable)
	require.True(t, ok)
	require.Equal(t, ast.Name("a"), field.Name)

	require.Len(t, module.ValueDeclarations, 1)
	test := module.ValueDeclarations[0]
	require.NotNil(t, test.TypeAnnotation)
	match, ok := test.Expression.(*ExprMatch)
	require.True(t, ok)
	scrutinee, ok := match.Expression.(*ExprVariable)
	require.True(t, ok)
	require.Equal(t, "S.five", scrutinee.Variable.String())
	require.Len(t, match.Arms, 1)

	require.Len(t, module.ForeignValueDeclarations, 1)
	fetch := module.ForeignValueDeclarations[0]
	call, ok := fetch.TypeAnnotation.(*TypeCall)
	require.True(t, ok)
	head, ok := call.Function.(*TypeConstructor)
	require.True(t, ok)
	require.Equal(t, "Effect", head.Constructor.String())
}

func TestUnmarshalRejectsUnknownTags(t *testing.T) {
	_, err := UnmarshalExpression([]byte(`{"type":"Wat","data":{}}`))
	require.Error(t, err)
	_, err = UnmarshalType([]byte(`{"type":"Wat","data":{}}`))
	require.Error(t, err)
	_, err = UnmarshalPattern([]byte(`{"type":"Wat","data":{}}`))
	require.Error(t, err)
	_, err = UnmarshalEffect([]byte(`{"type":"Wat","data":{}}`))
	require.Error(t, err)
}

func TestUnmarshalEffectNodes(t *testing.T) {
	effectJSON := `{
	  "type": "Bind",
	  "data": {
	    "span": {"start": 0, "end": 10},
	    "name_span": {"start": 0, "end": 1},
	    "name": "x",
	    "expression": {"type": "Variable", "data": {"span": {"start": 5, "end": 10}, "variable": {"value": "fetch"}}},
	    "rest": {
	      "type": "Return",
	      "data": {
	        "span": {"start": 12, "end": 20},
	        "expression": {"type": "Variable", "data": {"span": {"start": 19, "end": 20}, "variable": {"value": "x"}}}
	      }
	    }
	  }
	}`
	effect, err := UnmarshalEffect([]byte(effectJSON))
	require.NoError(t, err)
	bind, ok := effect.(*EffectBind)
	require.True(t, ok)
	require.Equal(t, ast.Name("x"), bind.Name)
	_, ok = bind.Rest.(*EffectReturn)
	require.True(t, ok)
}
