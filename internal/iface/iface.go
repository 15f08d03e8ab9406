// Package iface provides the serializable form of a module's checked
// interface (its exports), plus the environment manifests the checker
// driver loads them from.
//
// Interfaces are what cross-module checking caches on disk: checking a
// module needs only the interfaces of its imports, never their typed
// bodies.
package iface

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/veldlang/veld/internal/ast"
)

// Schema versions the interface format.
const Schema = "veld.iface/v1"

// Interface is a module's exports in normalized, serializable form.
// Entries are sorted by name; types and kinds are stored in the ast
// package's tagged JSON encoding.
type Interface struct {
	Schema string `json:"schema"`
	Module string `json:"module"`
	// Digest is the hex SHA-256 of the compact JSON encoding with the
	// digest itself blanked.
	Digest       string             `json:"digest,omitempty"`
	Types        []TypeEntry        `json:"types"`
	Constructors []ConstructorEntry `json:"constructors"`
	Values       []ValueEntry       `json:"values"`
}

// TypeEntry is one exported type (or alias).
type TypeEntry struct {
	Name           string          `json:"name"`
	Kind           json.RawMessage `json:"kind"`
	DocPosition    int             `json:"doc_position"`
	DocComments    []string        `json:"doc_comments,omitempty"`
	AliasedType    json.RawMessage `json:"aliased_type,omitempty"`
	AliasVariables []ast.Var       `json:"alias_variables,omitempty"`
}

// ConstructorEntry is one exported constructor.
type ConstructorEntry struct {
	Name           string          `json:"name"`
	Type           json.RawMessage `json:"type"`
	ReturnTypeName string          `json:"return_type_name"`
	DocPosition    int             `json:"doc_position"`
	DocComments    []string        `json:"doc_comments,omitempty"`
}

// ValueEntry is one exported value.
type ValueEntry struct {
	Name        string          `json:"name"`
	Type        json.RawMessage `json:"type"`
	DocPosition int             `json:"doc_position"`
	DocComments []string        `json:"doc_comments,omitempty"`
}

// FromModule builds the interface of a checked module.
func FromModule(module *ast.Module) (*Interface, error) {
	return FromExports(module.ModuleName.String(), module.Exports)
}

// FromExports builds an interface from raw exports.
func FromExports(moduleName string, exports ast.ModuleExports) (*Interface, error) {
	iface := &Interface{
		Schema:       Schema,
		Module:       moduleName,
		Types:        make([]TypeEntry, 0, len(exports.Types)),
		Constructors: make([]ConstructorEntry, 0, len(exports.Constructors)),
		Values:       make([]ValueEntry, 0, len(exports.Values)),
	}

	for _, name := range exports.SortedTypeNames() {
		exported := exports.Types[name]
		kind, err := ast.MarshalKind(exported.Kind)
		if err != nil {
			return nil, fmt.Errorf("encoding kind of %s: %w", name, err)
		}
		entry := TypeEntry{
			Name:           string(name),
			Kind:           kind,
			DocPosition:    exported.DocPosition,
			DocComments:    exported.DocComments,
			AliasVariables: exported.AliasVariables,
		}
		if exported.AliasedType != nil {
			aliased, err := ast.MarshalType(exported.AliasedType)
			if err != nil {
				return nil, fmt.Errorf("encoding alias %s: %w", name, err)
			}
			entry.AliasedType = aliased
		}
		iface.Types = append(iface.Types, entry)
	}

	for _, name := range exports.SortedConstructorNames() {
		exported := exports.Constructors[name]
		constructorType, err := ast.MarshalType(exported.ConstructorType)
		if err != nil {
			return nil, fmt.Errorf("encoding constructor %s: %w", name, err)
		}
		iface.Constructors = append(iface.Constructors, ConstructorEntry{
			Name:           string(name),
			Type:           constructorType,
			ReturnTypeName: string(exported.ReturnTypeName),
			DocPosition:    exported.DocPosition,
			DocComments:    exported.DocComments,
		})
	}

	for _, name := range exports.SortedValueNames() {
		exported := exports.Values[name]
		valueType, err := ast.MarshalType(exported.ValueType)
		if err != nil {
			return nil, fmt.Errorf("encoding value %s: %w", name, err)
		}
		iface.Values = append(iface.Values, ValueEntry{
			Name:        string(name),
			Type:        valueType,
			DocPosition: exported.DocPosition,
			DocComments: exported.DocComments,
		})
	}

	digest, err := iface.computeDigest()
	if err != nil {
		return nil, err
	}
	iface.Digest = digest
	return iface, nil
}

// Exports reconstructs the checker-facing export maps.
func (i *Interface) Exports() (ast.ModuleExports, error) {
	exports := ast.NewModuleExports()
	for _, entry := range i.Types {
		kind, err := ast.UnmarshalKind(entry.Kind)
		if err != nil {
			return exports, fmt.Errorf("decoding kind of %s: %w", entry.Name, err)
		}
		exported := &ast.ModuleExportsType{
			DocComments:    entry.DocComments,
			DocPosition:    entry.DocPosition,
			Kind:           kind,
			AliasVariables: entry.AliasVariables,
		}
		if len(entry.AliasedType) > 0 {
			aliased, err := ast.UnmarshalType(entry.AliasedType)
			if err != nil {
				return exports, fmt.Errorf("decoding alias %s: %w", entry.Name, err)
			}
			exported.AliasedType = aliased
		}
		exports.Types[ast.NewProperName(entry.Name)] = exported
	}
	for _, entry := range i.Constructors {
		constructorType, err := ast.UnmarshalType(entry.Type)
		if err != nil {
			return exports, fmt.Errorf("decoding constructor %s: %w", entry.Name, err)
		}
		exports.Constructors[ast.NewProperName(entry.Name)] = &ast.ModuleExportsConstructor{
			DocComments:     entry.DocComments,
			DocPosition:     entry.DocPosition,
			ConstructorType: constructorType,
			ReturnTypeName:  ast.NewProperName(entry.ReturnTypeName),
		}
	}
	for _, entry := range i.Values {
		valueType, err := ast.UnmarshalType(entry.Type)
		if err != nil {
			return exports, fmt.Errorf("decoding value %s: %w", entry.Name, err)
		}
		exports.Values[ast.NewName(entry.Name)] = &ast.ModuleExportsValue{
			DocComments: entry.DocComments,
			DocPosition: entry.DocPosition,
			ValueType:   valueType,
		}
	}
	return exports, nil
}

func (i *Interface) computeDigest() (string, error) {
	clone := *i
	clone.Digest = ""
	data, err := json.Marshal(&clone)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyDigest recomputes the digest and reports whether it matches.
func (i *Interface) VerifyDigest() (bool, error) {
	digest, err := i.computeDigest()
	if err != nil {
		return false, err
	}
	return digest == i.Digest, nil
}

// sortEntries restores canonical ordering after decoding a file that
// may have been written by hand.
func (i *Interface) sortEntries() {
	sort.Slice(i.Types, func(a, b int) bool { return i.Types[a].Name < i.Types[b].Name })
	sort.Slice(i.Constructors, func(a, b int) bool { return i.Constructors[a].Name < i.Constructors[b].Name })
	sort.Slice(i.Values, func(a, b int) bool { return i.Values[a].Name < i.Values[b].Name })
}
