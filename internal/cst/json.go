package cst

import (
	"encoding/json"
	"fmt"

	"github.com/veldlang/veld/internal/ast"
)

// JSON decoding for CST files. The parser serializes its output as
// tagged envelopes (`{"type": "...", "data": {...}}`) for the sum
// types; this is the checker-side decoder. Spans decode from
// `{"start": n, "end": n}`.

// UnmarshalModule decodes a CST module from JSON.
func UnmarshalModule(data []byte) (*Module, error) {
	var payload struct {
		Header struct {
			Span       ast.Span       `json:"span"`
			ModuleName jsonModuleName `json:"module_name"`
			Exports    struct {
				Everything bool         `json:"everything"`
				List       []jsonExport `json:"list"`
			} `json:"exports"`
		} `json:"header"`
		Imports                  []jsonImportLine  `json:"imports"`
		TypeDeclarations         []jsonTypeDecl    `json:"type_declarations"`
		ValueDeclarations        []jsonValueDecl   `json:"value_declarations"`
		ForeignValueDeclarations []jsonForeignDecl `json:"foreign_value_declarations"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding cst module: %w", err)
	}

	module := &Module{
		Header: Header{
			Span:       payload.Header.Span,
			ModuleName: payload.Header.ModuleName.toCST(),
			Exports: Exports{
				Everything: payload.Header.Exports.Everything,
			},
		},
	}
	for _, export := range payload.Header.Exports.List {
		module.Header.Exports.List = append(module.Header.Exports.List, Export{
			Span:                export.Span,
			Value:               ast.NewName(export.Value),
			Type:                ast.NewProperName(export.Type),
			IncludeConstructors: export.IncludeConstructors,
		})
	}

	for _, line := range payload.Imports {
		decoded := ImportLine{
			Span:       line.Span,
			Package:    ast.NewPackageName(line.Package),
			ModuleName: line.ModuleName.toCST(),
			Alias:      ast.NewProperName(line.Alias),
			AliasSpan:  line.AliasSpan,
		}
		for _, item := range line.List {
			decoded.List = append(decoded.List, ImportItem{
				Span:                item.Span,
				Value:               ast.NewName(item.Value),
				Type:                ast.NewProperName(item.Type),
				IncludeConstructors: item.IncludeConstructors,
			})
		}
		module.Imports = append(module.Imports, decoded)
	}

	for _, declaration := range payload.TypeDeclarations {
		decoded, err := declaration.toCST()
		if err != nil {
			return nil, err
		}
		module.TypeDeclarations = append(module.TypeDeclarations, decoded)
	}
	for _, declaration := range payload.ValueDeclarations {
		decoded, err := declaration.toCST()
		if err != nil {
			return nil, err
		}
		module.ValueDeclarations = append(module.ValueDeclarations, decoded)
	}
	for _, declaration := range payload.ForeignValueDeclarations {
		annotation, err := UnmarshalType(declaration.TypeAnnotation)
		if err != nil {
			return nil, err
		}
		module.ForeignValueDeclarations = append(module.ForeignValueDeclarations, ForeignValueDeclaration{
			Span:           declaration.Span,
			DocComments:    declaration.DocComments,
			NameSpan:       declaration.NameSpan,
			Name:           ast.NewName(declaration.Name),
			TypeAnnotation: annotation,
		})
	}

	return module, nil
}

type jsonModuleName struct {
	Span  ast.Span `json:"span"`
	Names []string `json:"names"`
}

func (m jsonModuleName) toCST() ModuleName {
	names := make([]ast.ProperName, len(m.Names))
	for i, name := range m.Names {
		names[i] = ast.NewProperName(name)
	}
	return ModuleName{Span: m.Span, Names: names}
}

type jsonExport struct {
	Span                ast.Span `json:"span"`
	Value               string   `json:"value,omitempty"`
	Type                string   `json:"type,omitempty"`
	IncludeConstructors bool     `json:"include_constructors,omitempty"`
}

type jsonImportLine struct {
	Span       ast.Span       `json:"span"`
	Package    string         `json:"package,omitempty"`
	ModuleName jsonModuleName `json:"module_name"`
	Alias      string         `json:"alias,omitempty"`
	AliasSpan  ast.Span       `json:"alias_span,omitempty"`
	List       []jsonExport   `json:"list,omitempty"`
}

type jsonTypeDecl struct {
	Span         ast.Span `json:"span"`
	DocComments  []string `json:"doc_comments,omitempty"`
	TypeNameSpan ast.Span `json:"type_name_span"`
	TypeName     string   `json:"type_name"`
	Variables    []struct {
		Span ast.Span `json:"span"`
		Name string   `json:"name"`
	} `json:"variables,omitempty"`
	Constructors []struct {
		Span     ast.Span          `json:"span"`
		NameSpan ast.Span          `json:"name_span"`
		Name     string            `json:"name"`
		Fields   []json.RawMessage `json:"fields,omitempty"`
	} `json:"constructors,omitempty"`
	Aliased json.RawMessage `json:"aliased,omitempty"`
}

func (d jsonTypeDecl) toCST() (TypeDeclaration, error) {
	declaration := TypeDeclaration{
		Span:         d.Span,
		DocComments:  d.DocComments,
		TypeNameSpan: d.TypeNameSpan,
		TypeName:     ast.NewProperName(d.TypeName),
	}
	for _, variable := range d.Variables {
		declaration.Variables = append(declaration.Variables, TypeVariableBinder{
			Span: variable.Span,
			Name: ast.NewName(variable.Name),
		})
	}
	for _, constructor := range d.Constructors {
		decoded := ConstructorDeclaration{
			Span:     constructor.Span,
			NameSpan: constructor.NameSpan,
			Name:     ast.NewProperName(constructor.Name),
		}
		for _, field := range constructor.Fields {
			fieldType, err := UnmarshalType(field)
			if err != nil {
				return TypeDeclaration{}, err
			}
			decoded.Fields = append(decoded.Fields, fieldType)
		}
		declaration.Constructors = append(declaration.Constructors, decoded)
	}
	if len(d.Aliased) > 0 {
		aliased, err := UnmarshalType(d.Aliased)
		if err != nil {
			return TypeDeclaration{}, err
		}
		declaration.Aliased = aliased
	}
	return declaration, nil
}

type jsonValueDecl struct {
	Span           ast.Span        `json:"span"`
	DocComments    []string        `json:"doc_comments,omitempty"`
	NameSpan       ast.Span        `json:"name_span"`
	Name           string          `json:"name"`
	TypeAnnotation json.RawMessage `json:"type_annotation,omitempty"`
	Expression     json.RawMessage `json:"expression"`
}

func (d jsonValueDecl) toCST() (ValueDeclaration, error) {
	declaration := ValueDeclaration{
		Span:        d.Span,
		DocComments: d.DocComments,
		NameSpan:    d.NameSpan,
		Name:        ast.NewName(d.Name),
	}
	if len(d.TypeAnnotation) > 0 {
		annotation, err := UnmarshalType(d.TypeAnnotation)
		if err != nil {
			return ValueDeclaration{}, err
		}
		declaration.TypeAnnotation = annotation
	}
	expression, err := UnmarshalExpression(d.Expression)
	if err != nil {
		return ValueDeclaration{}, err
	}
	declaration.Expression = expression
	return declaration, nil
}

type jsonForeignDecl struct {
	Span           ast.Span        `json:"span"`
	DocComments    []string        `json:"doc_comments,omitempty"`
	NameSpan       ast.Span        `json:"name_span"`
	Name           string          `json:"name"`
	TypeAnnotation json.RawMessage `json:"type_annotation"`
}

type jsonEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UnmarshalType decodes a CST type from tagged JSON.
func UnmarshalType(data []byte) (Type, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	switch envelope.Type {
	case "Variable":
		var payload struct {
			Span ast.Span `json:"span"`
			Name string   `json:"name"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return &TypeVariable{Span: payload.Span, Name: ast.NewName(payload.Name)}, nil
	case "Constructor":
		var payload struct {
			Span        ast.Span `json:"span"`
			Constructor struct {
				Qualifier string `json:"qualifier,omitempty"`
				Value     string `json:"value"`
			} `json:"constructor"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return &TypeConstructor{
			Span: payload.Span,
			Constructor: ast.QualifiedProperName{
				Qualifier: ast.NewProperName(payload.Constructor.Qualifier),
				Value:     ast.NewProperName(payload.Constructor.Value),
			},
		}, nil
	case "Function":
		var payload struct {
			Span       ast.Span          `json:"span"`
			Parameters []json.RawMessage `json:"parameters"`
			ReturnType json.RawMessage   `json:"return_type"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		decoded := &TypeFunction{Span: payload.Span}
		for _, parameter := range payload.Parameters {
			p, err := UnmarshalType(parameter)
			if err != nil {
				return nil, err
			}
			decoded.Parameters = append(decoded.Parameters, p)
		}
		returnType, err := UnmarshalType(payload.ReturnType)
		if err != nil {
			return nil, err
		}
		decoded.ReturnType = returnType
		return decoded, nil
	case "Call":
		var payload struct {
			Span      ast.Span          `json:"span"`
			Function  json.RawMessage   `json:"function"`
			Arguments []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		function, err := UnmarshalType(payload.Function)
		if err != nil {
			return nil, err
		}
		decoded := &TypeCall{Span: payload.Span, Function: function}
		for _, argument := range payload.Arguments {
			arg, err := UnmarshalType(argument)
			if err != nil {
				return nil, err
			}
			decoded.Arguments = append(decoded.Arguments, arg)
		}
		return decoded, nil
	case "RecordClosed":
		var payload struct {
			Span   ast.Span              `json:"span"`
			Fields []jsonRecordTypeField `json:"fields"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		fields, err := decodeRecordTypeFields(payload.Fields)
		if err != nil {
			return nil, err
		}
		return &TypeRecordClosed{Span: payload.Span, Fields: fields}, nil
	case "RecordOpen":
		var payload struct {
			Span    ast.Span              `json:"span"`
			VarSpan ast.Span              `json:"var_span"`
			Var     string                `json:"var"`
			Fields  []jsonRecordTypeField `json:"fields"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		fields, err := decodeRecordTypeFields(payload.Fields)
		if err != nil {
			return nil, err
		}
		return &TypeRecordOpen{
			Span:    payload.Span,
			VarSpan: payload.VarSpan,
			Var:     ast.NewName(payload.Var),
			Fields:  fields,
		}, nil
	default:
		return nil, fmt.Errorf("unknown cst type tag %q", envelope.Type)
	}
}

type jsonRecordTypeField struct {
	Span      ast.Span        `json:"span"`
	LabelSpan ast.Span        `json:"label_span"`
	Label     string          `json:"label"`
	Value     json.RawMessage `json:"value"`
}

func decodeRecordTypeFields(fields []jsonRecordTypeField) ([]RecordTypeField, error) {
	decoded := make([]RecordTypeField, 0, len(fields))
	for _, field := range fields {
		value, err := UnmarshalType(field.Value)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, RecordTypeField{
			Span:      field.Span,
			LabelSpan: field.LabelSpan,
			Label:     ast.NewName(field.Label),
			Value:     value,
		})
	}
	return decoded, nil
}

// UnmarshalPattern decodes a CST pattern from tagged JSON.
func UnmarshalPattern(data []byte) (Pattern, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	switch envelope.Type {
	case "Constructor":
		var payload struct {
			Span        ast.Span `json:"span"`
			Constructor struct {
				Qualifier string `json:"qualifier,omitempty"`
				Value     string `json:"value"`
			} `json:"constructor"`
			Arguments []json.RawMessage `json:"arguments,omitempty"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		decoded := &PatternConstructor{
			Span: payload.Span,
			Constructor: ast.QualifiedProperName{
				Qualifier: ast.NewProperName(payload.Constructor.Qualifier),
				Value:     ast.NewProperName(payload.Constructor.Value),
			},
		}
		for _, argument := range payload.Arguments {
			arg, err := UnmarshalPattern(argument)
			if err != nil {
				return nil, err
			}
			decoded.Arguments = append(decoded.Arguments, arg)
		}
		return decoded, nil
	case "Variable":
		var payload struct {
			Span ast.Span `json:"span"`
			Name string   `json:"name"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return &PatternVariable{Span: payload.Span, Name: ast.NewName(payload.Name)}, nil
	case "Unused":
		var payload struct {
			Span       ast.Span `json:"span"`
			UnusedName string   `json:"unused_name"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return &PatternUnused{Span: payload.Span, UnusedName: ast.NewUnusedName(payload.UnusedName)}, nil
	default:
		return nil, fmt.Errorf("unknown cst pattern tag %q", envelope.Type)
	}
}

// UnmarshalExpression decodes a CST expression from tagged JSON.
func UnmarshalExpression(data []byte) (Expression, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	switch envelope.Type {
	case "True", "False", "Unit":
		var payload struct {
			Span ast.Span `json:"span"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		switch envelope.Type {
		case "True":
			return &ExprTrue{Span: payload.Span}, nil
		case "False":
			return &ExprFalse{Span: payload.Span}, nil
		default:
			return &ExprUnit{Span: payload.Span}, nil
		}

	case "String", "Int", "Float":
		var payload struct {
			Span  ast.Span `json:"span"`
			Value string   `json:"value"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		switch envelope.Type {
		case "String":
			return &ExprString{Span: payload.Span, Value: payload.Value}, nil
		case "Int":
			return &ExprInt{Span: payload.Span, Value: payload.Value}, nil
		default:
			return &ExprFloat{Span: payload.Span, Value: payload.Value}, nil
		}

	case "Array":
		var payload struct {
			Span     ast.Span          `json:"span"`
			Elements []json.RawMessage `json:"elements,omitempty"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		decoded := &ExprArray{Span: payload.Span}
		for _, element := range payload.Elements {
			e, err := UnmarshalExpression(element)
			if err != nil {
				return nil, err
			}
			decoded.Elements = append(decoded.Elements, e)
		}
		return decoded, nil

	case "Variable":
		var payload struct {
			Span     ast.Span `json:"span"`
			Variable struct {
				Qualifier string `json:"qualifier,omitempty"`
				Value     string `json:"value"`
			} `json:"variable"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return &ExprVariable{
			Span: payload.Span,
			Variable: ast.QualifiedName{
				Qualifier: ast.NewProperName(payload.Variable.Qualifier),
				Value:     ast.NewName(payload.Variable.Value),
			},
		}, nil

	case "Constructor":
		var payload struct {
			Span        ast.Span `json:"span"`
			Constructor struct {
				Qualifier string `json:"qualifier,omitempty"`
				Value     string `json:"value"`
			} `json:"constructor"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return &ExprConstructor{
			Span: payload.Span,
			Constructor: ast.QualifiedProperName{
				Qualifier: ast.NewProperName(payload.Constructor.Qualifier),
				Value:     ast.NewProperName(payload.Constructor.Value),
			},
		}, nil

	case "Function":
		var payload struct {
			Span    ast.Span `json:"span"`
			Binders []struct {
				Span           ast.Span        `json:"span"`
				Pattern        json.RawMessage `json:"pattern"`
				TypeAnnotation json.RawMessage `json:"type_annotation,omitempty"`
			} `json:"binders,omitempty"`
			ReturnTypeAnnotation json.RawMessage `json:"return_type_annotation,omitempty"`
			Body                 json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		decoded := &ExprFunction{Span: payload.Span}
		for _, binder := range payload.Binders {
			pattern, err := UnmarshalPattern(binder.Pattern)
			if err != nil {
				return nil, err
			}
			decodedBinder := FunctionBinder{Span: binder.Span, Pattern: pattern}
			if len(binder.TypeAnnotation) > 0 {
				annotation, err := UnmarshalType(binder.TypeAnnotation)
				if err != nil {
					return nil, err
				}
				decodedBinder.TypeAnnotation = annotation
			}
			decoded.Binders = append(decoded.Binders, decodedBinder)
		}
		if len(payload.ReturnTypeAnnotation) > 0 {
			annotation, err := UnmarshalType(payload.ReturnTypeAnnotation)
			if err != nil {
				return nil, err
			}
			decoded.ReturnTypeAnnotation = annotation
		}
		body, err := UnmarshalExpression(payload.Body)
		if err != nil {
			return nil, err
		}
		decoded.Body = body
		return decoded, nil

	case "Call":
		var payload struct {
			Span      ast.Span          `json:"span"`
			Function  json.RawMessage   `json:"function"`
			Arguments []json.RawMessage `json:"arguments,omitempty"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		function, err := UnmarshalExpression(payload.Function)
		if err != nil {
			return nil, err
		}
		decoded := &ExprCall{Span: payload.Span, Function: function}
		for _, argument := range payload.Arguments {
			arg, err := UnmarshalExpression(argument)
			if err != nil {
				return nil, err
			}
			decoded.Arguments = append(decoded.Arguments, arg)
		}
		return decoded, nil

	case "If":
		var payload struct {
			Span        ast.Span        `json:"span"`
			Condition   json.RawMessage `json:"condition"`
			TrueClause  json.RawMessage `json:"true_clause"`
			FalseClause json.RawMessage `json:"false_clause"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		condition, err := UnmarshalExpression(payload.Condition)
		if err != nil {
			return nil, err
		}
		trueClause, err := UnmarshalExpression(payload.TrueClause)
		if err != nil {
			return nil, err
		}
		falseClause, err := UnmarshalExpression(payload.FalseClause)
		if err != nil {
			return nil, err
		}
		return &ExprIf{
			Span:        payload.Span,
			Condition:   condition,
			TrueClause:  trueClause,
			FalseClause: falseClause,
		}, nil

	case "Match":
		var payload struct {
			Span       ast.Span        `json:"span"`
			Expression json.RawMessage `json:"expression"`
			Arms       []struct {
				Span       ast.Span        `json:"span"`
				Pattern    json.RawMessage `json:"pattern"`
				Expression json.RawMessage `json:"expression"`
			} `json:"arms"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		expression, err := UnmarshalExpression(payload.Expression)
		if err != nil {
			return nil, err
		}
		decoded := &ExprMatch{Span: payload.Span, Expression: expression}
		for _, arm := range payload.Arms {
			pattern, err := UnmarshalPattern(arm.Pattern)
			if err != nil {
				return nil, err
			}
			armExpression, err := UnmarshalExpression(arm.Expression)
			if err != nil {
				return nil, err
			}
			decoded.Arms = append(decoded.Arms, MatchArm{
				Span:       arm.Span,
				Pattern:    pattern,
				Expression: armExpression,
			})
		}
		return decoded, nil

	case "Let":
		var payload struct {
			Span         ast.Span             `json:"span"`
			Declarations []jsonLetDeclaration `json:"declarations"`
			Body         json.RawMessage      `json:"body"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		decoded := &ExprLet{Span: payload.Span}
		for _, declaration := range payload.Declarations {
			d, err := declaration.toCST()
			if err != nil {
				return nil, err
			}
			decoded.Declarations = append(decoded.Declarations, d)
		}
		body, err := UnmarshalExpression(payload.Body)
		if err != nil {
			return nil, err
		}
		decoded.Body = body
		return decoded, nil

	case "Record":
		var payload struct {
			Span   ast.Span              `json:"span"`
			Fields []jsonRecordExprField `json:"fields,omitempty"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		fields, err := decodeRecordExprFields(payload.Fields)
		if err != nil {
			return nil, err
		}
		return &ExprRecord{Span: payload.Span, Fields: fields}, nil

	case "RecordAccess":
		var payload struct {
			Span      ast.Span        `json:"span"`
			Target    json.RawMessage `json:"target"`
			LabelSpan ast.Span        `json:"label_span"`
			Label     string          `json:"label"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		target, err := UnmarshalExpression(payload.Target)
		if err != nil {
			return nil, err
		}
		return &ExprRecordAccess{
			Span:      payload.Span,
			Target:    target,
			LabelSpan: payload.LabelSpan,
			Label:     ast.NewName(payload.Label),
		}, nil

	case "RecordUpdate":
		var payload struct {
			Span    ast.Span              `json:"span"`
			Target  json.RawMessage       `json:"target"`
			Updates []jsonRecordExprField `json:"updates"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		target, err := UnmarshalExpression(payload.Target)
		if err != nil {
			return nil, err
		}
		updates, err := decodeRecordExprFields(payload.Updates)
		if err != nil {
			return nil, err
		}
		return &ExprRecordUpdate{Span: payload.Span, Target: target, Updates: updates}, nil

	case "Effect":
		var payload struct {
			Span   ast.Span        `json:"span"`
			Effect json.RawMessage `json:"effect"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		effect, err := UnmarshalEffect(payload.Effect)
		if err != nil {
			return nil, err
		}
		return &ExprEffect{Span: payload.Span, Effect: effect}, nil

	default:
		return nil, fmt.Errorf("unknown cst expression tag %q", envelope.Type)
	}
}

type jsonLetDeclaration struct {
	Span           ast.Span        `json:"span"`
	Pattern        json.RawMessage `json:"pattern"`
	TypeAnnotation json.RawMessage `json:"type_annotation,omitempty"`
	Expression     json.RawMessage `json:"expression"`
}

func (d jsonLetDeclaration) toCST() (LetDeclaration, error) {
	pattern, err := UnmarshalPattern(d.Pattern)
	if err != nil {
		return LetDeclaration{}, err
	}
	declaration := LetDeclaration{Span: d.Span, Pattern: pattern}
	if len(d.TypeAnnotation) > 0 {
		annotation, err := UnmarshalType(d.TypeAnnotation)
		if err != nil {
			return LetDeclaration{}, err
		}
		declaration.TypeAnnotation = annotation
	}
	expression, err := UnmarshalExpression(d.Expression)
	if err != nil {
		return LetDeclaration{}, err
	}
	declaration.Expression = expression
	return declaration, nil
}

type jsonRecordExprField struct {
	Span      ast.Span        `json:"span"`
	LabelSpan ast.Span        `json:"label_span"`
	Label     string          `json:"label"`
	Value     json.RawMessage `json:"value"`
}

func decodeRecordExprFields(fields []jsonRecordExprField) ([]RecordExprField, error) {
	decoded := make([]RecordExprField, 0, len(fields))
	for _, field := range fields {
		value, err := UnmarshalExpression(field.Value)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, RecordExprField{
			Span:      field.Span,
			LabelSpan: field.LabelSpan,
			Label:     ast.NewName(field.Label),
			Value:     value,
		})
	}
	return decoded, nil
}

// UnmarshalEffect decodes a do-block statement from tagged JSON.
func UnmarshalEffect(data []byte) (EffectNode, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	switch envelope.Type {
	case "Bind":
		var payload struct {
			Span       ast.Span        `json:"span"`
			NameSpan   ast.Span        `json:"name_span"`
			Name       string          `json:"name"`
			Expression json.RawMessage `json:"expression"`
			Rest       json.RawMessage `json:"rest"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		expression, err := UnmarshalExpression(payload.Expression)
		if err != nil {
			return nil, err
		}
		rest, err := UnmarshalEffect(payload.Rest)
		if err != nil {
			return nil, err
		}
		return &EffectBind{
			Span:       payload.Span,
			NameSpan:   payload.NameSpan,
			Name:       ast.NewName(payload.Name),
			Expression: expression,
			Rest:       rest,
		}, nil

	case "Let":
		var payload struct {
			Span           ast.Span        `json:"span"`
			Pattern        json.RawMessage `json:"pattern"`
			TypeAnnotation json.RawMessage `json:"type_annotation,omitempty"`
			Expression     json.RawMessage `json:"expression"`
			Rest           json.RawMessage `json:"rest"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		pattern, err := UnmarshalPattern(payload.Pattern)
		if err != nil {
			return nil, err
		}
		decoded := &EffectLet{Span: payload.Span, Pattern: pattern}
		if len(payload.TypeAnnotation) > 0 {
			annotation, err := UnmarshalType(payload.TypeAnnotation)
			if err != nil {
				return nil, err
			}
			decoded.TypeAnnotation = annotation
		}
		expression, err := UnmarshalExpression(payload.Expression)
		if err != nil {
			return nil, err
		}
		decoded.Expression = expression
		rest, err := UnmarshalEffect(payload.Rest)
		if err != nil {
			return nil, err
		}
		decoded.Rest = rest
		return decoded, nil

	case "Expression":
		var payload struct {
			Expression json.RawMessage `json:"expression"`
			Rest       json.RawMessage `json:"rest,omitempty"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		expression, err := UnmarshalExpression(payload.Expression)
		if err != nil {
			return nil, err
		}
		decoded := &EffectExpression{Expression: expression}
		if len(payload.Rest) > 0 {
			rest, err := UnmarshalEffect(payload.Rest)
			if err != nil {
				return nil, err
			}
			decoded.Rest = rest
		}
		return decoded, nil

	case "Return":
		var payload struct {
			Span       ast.Span        `json:"span"`
			Expression json.RawMessage `json:"expression"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		expression, err := UnmarshalExpression(payload.Expression)
		if err != nil {
			return nil, err
		}
		return &EffectReturn{Span: payload.Span, Expression: expression}, nil

	default:
		return nil, fmt.Errorf("unknown cst effect tag %q", envelope.Type)
	}
}
