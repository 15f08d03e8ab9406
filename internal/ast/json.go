package ast

import (
	"encoding/json"
	"fmt"
)

// JSON codecs for the Kind and Type sums. Both encode as a tagged
// envelope, `{"type": "...", "data": {...}}`, so values survive a
// round-trip without reference to the environment. Struct-based payloads
// keep field order fixed, which makes the encoding deterministic:
// encode(decode(encode(x))) == encode(x) byte for byte.

type jsonEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MarshalKind encodes a kind as tagged JSON.
func MarshalKind(k Kind) ([]byte, error) {
	envelope, err := kindEnvelope(k)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope)
}

func kindEnvelope(k Kind) (jsonEnvelope, error) {
	switch k := k.(type) {
	case KindType:
		return jsonEnvelope{Type: "Type"}, nil
	case KindRow:
		return jsonEnvelope{Type: "Row"}, nil
	case KindVariable:
		data, err := json.Marshal(struct {
			Var Var `json:"var"`
		}{Var: k.Var})
		return jsonEnvelope{Type: "Variable", Data: data}, err
	case KindFunction:
		params := make([]json.RawMessage, len(k.Parameters))
		for i, p := range k.Parameters {
			encoded, err := MarshalKind(p)
			if err != nil {
				return jsonEnvelope{}, err
			}
			params[i] = encoded
		}
		data, err := json.Marshal(struct {
			Parameters []json.RawMessage `json:"parameters"`
		}{Parameters: params})
		return jsonEnvelope{Type: "Function", Data: data}, err
	default:
		return jsonEnvelope{}, fmt.Errorf("unknown kind %T", k)
	}
}

// UnmarshalKind decodes a kind from tagged JSON.
func UnmarshalKind(data []byte) (Kind, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	switch envelope.Type {
	case "Type":
		return KindType{}, nil
	case "Row":
		return KindRow{}, nil
	case "Variable":
		var payload struct {
			Var Var `json:"var"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return KindVariable{Var: payload.Var}, nil
	case "Function":
		var payload struct {
			Parameters []json.RawMessage `json:"parameters"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		params := make([]Kind, len(payload.Parameters))
		for i, raw := range payload.Parameters {
			k, err := UnmarshalKind(raw)
			if err != nil {
				return nil, err
			}
			params[i] = k
		}
		return KindFunction{Parameters: params}, nil
	default:
		return nil, fmt.Errorf("unknown kind tag %q", envelope.Type)
	}
}

type jsonRowField struct {
	Label Name            `json:"label"`
	Type  json.RawMessage `json:"type"`
}

func marshalRow(row Row) ([]jsonRowField, error) {
	fields := make([]jsonRowField, len(row))
	for i, field := range row {
		encoded, err := MarshalType(field.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = jsonRowField{Label: field.Label, Type: encoded}
	}
	return fields, nil
}

func unmarshalRow(fields []jsonRowField) (Row, error) {
	row := make(Row, len(fields))
	for i, field := range fields {
		t, err := UnmarshalType(field.Type)
		if err != nil {
			return nil, err
		}
		row[i] = RowField{Label: field.Label, Type: t}
	}
	return row, nil
}

// MarshalType encodes a type as tagged JSON.
func MarshalType(t Type) ([]byte, error) {
	envelope, err := typeEnvelope(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope)
}

func typeEnvelope(t Type) (jsonEnvelope, error) {
	switch t := t.(type) {
	case *TypeVariable:
		kind, err := MarshalKind(t.VariableKind)
		if err != nil {
			return jsonEnvelope{}, err
		}
		data, err := json.Marshal(struct {
			Kind       json.RawMessage `json:"kind"`
			Var        Var             `json:"var"`
			SourceName Name            `json:"source_name,omitempty"`
			IsRigid    bool            `json:"is_rigid,omitempty"`
		}{Kind: kind, Var: t.Var, SourceName: t.SourceName, IsRigid: t.IsRigid})
		return jsonEnvelope{Type: "Variable", Data: data}, err
	case *TypeConstructor:
		kind, err := MarshalKind(t.ConstructorKind)
		if err != nil {
			return jsonEnvelope{}, err
		}
		data, err := json.Marshal(struct {
			Kind      json.RawMessage          `json:"kind"`
			Canonical FullyQualifiedProperName `json:"canonical"`
			Source    QualifiedProperName      `json:"source,omitempty"`
		}{Kind: kind, Canonical: t.CanonicalValue, Source: t.SourceValue})
		return jsonEnvelope{Type: "Constructor", Data: data}, err
	case *TypeConstructorAlias:
		kind, err := MarshalKind(t.ConstructorKind)
		if err != nil {
			return jsonEnvelope{}, err
		}
		aliased, err := MarshalType(t.AliasedType)
		if err != nil {
			return jsonEnvelope{}, err
		}
		data, err := json.Marshal(struct {
			Kind           json.RawMessage          `json:"kind"`
			Canonical      FullyQualifiedProperName `json:"canonical"`
			Source         QualifiedProperName      `json:"source,omitempty"`
			AliasVariables []Var                    `json:"alias_variables"`
			AliasedType    json.RawMessage          `json:"aliased_type"`
		}{
			Kind:           kind,
			Canonical:      t.CanonicalValue,
			Source:         t.SourceValue,
			AliasVariables: t.AliasVariables,
			AliasedType:    aliased,
		})
		return jsonEnvelope{Type: "ConstructorAlias", Data: data}, err
	case *TypePrim:
		data, err := json.Marshal(struct {
			Prim PrimType `json:"prim"`
		}{Prim: t.Prim})
		return jsonEnvelope{Type: "Prim", Data: data}, err
	case *TypeCall:
		function, err := MarshalType(t.Function)
		if err != nil {
			return jsonEnvelope{}, err
		}
		arguments := make([]json.RawMessage, len(t.Arguments))
		for i, arg := range t.Arguments {
			encoded, err := MarshalType(arg)
			if err != nil {
				return jsonEnvelope{}, err
			}
			arguments[i] = encoded
		}
		data, err := json.Marshal(struct {
			Function  json.RawMessage   `json:"function"`
			Arguments []json.RawMessage `json:"arguments"`
		}{Function: function, Arguments: arguments})
		return jsonEnvelope{Type: "Call", Data: data}, err
	case *TypeFunction:
		parameters := make([]json.RawMessage, len(t.Parameters))
		for i, p := range t.Parameters {
			encoded, err := MarshalType(p)
			if err != nil {
				return jsonEnvelope{}, err
			}
			parameters[i] = encoded
		}
		returnType, err := MarshalType(t.ReturnType)
		if err != nil {
			return jsonEnvelope{}, err
		}
		data, err := json.Marshal(struct {
			Parameters []json.RawMessage `json:"parameters"`
			ReturnType json.RawMessage   `json:"return_type"`
		}{Parameters: parameters, ReturnType: returnType})
		return jsonEnvelope{Type: "Function", Data: data}, err
	case *TypeRecordClosed:
		row, err := marshalRow(t.Row)
		if err != nil {
			return jsonEnvelope{}, err
		}
		data, err := json.Marshal(struct {
			Row []jsonRowField `json:"row"`
		}{Row: row})
		return jsonEnvelope{Type: "RecordClosed", Data: data}, err
	case *TypeRecordOpen:
		row, err := marshalRow(t.Row)
		if err != nil {
			return jsonEnvelope{}, err
		}
		data, err := json.Marshal(struct {
			Var        Var            `json:"var"`
			SourceName Name           `json:"source_name,omitempty"`
			IsRigid    bool           `json:"is_rigid,omitempty"`
			Row        []jsonRowField `json:"row"`
		}{Var: t.Var, SourceName: t.SourceName, IsRigid: t.IsRigid, Row: row})
		return jsonEnvelope{Type: "RecordOpen", Data: data}, err
	default:
		return jsonEnvelope{}, fmt.Errorf("unknown type %T", t)
	}
}

// UnmarshalType decodes a type from tagged JSON.
func UnmarshalType(data []byte) (Type, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	switch envelope.Type {
	case "Variable":
		var payload struct {
			Kind       json.RawMessage `json:"kind"`
			Var        Var             `json:"var"`
			SourceName Name            `json:"source_name"`
			IsRigid    bool            `json:"is_rigid"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		kind, err := UnmarshalKind(payload.Kind)
		if err != nil {
			return nil, err
		}
		return &TypeVariable{
			VariableKind: kind,
			Var:          payload.Var,
			SourceName:   payload.SourceName,
			IsRigid:      payload.IsRigid,
		}, nil
	case "Constructor":
		var payload struct {
			Kind      json.RawMessage          `json:"kind"`
			Canonical FullyQualifiedProperName `json:"canonical"`
			Source    QualifiedProperName      `json:"source"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		kind, err := UnmarshalKind(payload.Kind)
		if err != nil {
			return nil, err
		}
		return &TypeConstructor{
			ConstructorKind: kind,
			CanonicalValue:  payload.Canonical,
			SourceValue:     payload.Source,
		}, nil
	case "ConstructorAlias":
		var payload struct {
			Kind           json.RawMessage          `json:"kind"`
			Canonical      FullyQualifiedProperName `json:"canonical"`
			Source         QualifiedProperName      `json:"source"`
			AliasVariables []Var                    `json:"alias_variables"`
			AliasedType    json.RawMessage          `json:"aliased_type"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		kind, err := UnmarshalKind(payload.Kind)
		if err != nil {
			return nil, err
		}
		aliased, err := UnmarshalType(payload.AliasedType)
		if err != nil {
			return nil, err
		}
		return &TypeConstructorAlias{
			ConstructorKind: kind,
			CanonicalValue:  payload.Canonical,
			SourceValue:     payload.Source,
			AliasVariables:  payload.AliasVariables,
			AliasedType:     aliased,
		}, nil
	case "Prim":
		var payload struct {
			Prim PrimType `json:"prim"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		return &TypePrim{Prim: payload.Prim}, nil
	case "Call":
		var payload struct {
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
		arguments := make([]Type, len(payload.Arguments))
		for i, raw := range payload.Arguments {
			arg, err := UnmarshalType(raw)
			if err != nil {
				return nil, err
			}
			arguments[i] = arg
		}
		return &TypeCall{Function: function, Arguments: arguments}, nil
	case "Function":
		var payload struct {
			Parameters []json.RawMessage `json:"parameters"`
			ReturnType json.RawMessage   `json:"return_type"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		parameters := make([]Type, len(payload.Parameters))
		for i, raw := range payload.Parameters {
			p, err := UnmarshalType(raw)
			if err != nil {
				return nil, err
			}
			parameters[i] = p
		}
		returnType, err := UnmarshalType(payload.ReturnType)
		if err != nil {
			return nil, err
		}
		return &TypeFunction{Parameters: parameters, ReturnType: returnType}, nil
	case "RecordClosed":
		var payload struct {
			Row []jsonRowField `json:"row"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		row, err := unmarshalRow(payload.Row)
		if err != nil {
			return nil, err
		}
		return &TypeRecordClosed{Row: row}, nil
	case "RecordOpen":
		var payload struct {
			Var        Var            `json:"var"`
			SourceName Name           `json:"source_name"`
			IsRigid    bool           `json:"is_rigid"`
			Row        []jsonRowField `json:"row"`
		}
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, err
		}
		row, err := unmarshalRow(payload.Row)
		if err != nil {
			return nil, err
		}
		return &TypeRecordOpen{
			Var:        payload.Var,
			SourceName: payload.SourceName,
			IsRigid:    payload.IsRigid,
			Row:        row,
		}, nil
	default:
		return nil, fmt.Errorf("unknown type tag %q", envelope.Type)
	}
}
