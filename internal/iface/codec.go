package iface

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Interfaces persist in two formats with the same content: JSON for
// debugging and diffing, gob for compact release caches. Both encode
// the normalized DTO (sorted slices, no maps), so re-encoding a decoded
// interface reproduces the bytes exactly.

// Encode renders the interface as canonical JSON.
func Encode(i *Interface) ([]byte, error) {
	clone := *i
	clone.sortEntries()
	return json.MarshalIndent(&clone, "", "  ")
}

// Decode parses an interface from JSON, restoring canonical entry
// order.
func Decode(data []byte) (*Interface, error) {
	var i Interface
	if err := json.Unmarshal(data, &i); err != nil {
		return nil, fmt.Errorf("decoding interface: %w", err)
	}
	if i.Schema != Schema {
		return nil, fmt.Errorf("unsupported interface schema %q", i.Schema)
	}
	i.sortEntries()
	return &i, nil
}

// EncodeBinary renders the interface in the compact binary format.
func EncodeBinary(i *Interface) ([]byte, error) {
	clone := *i
	clone.sortEntries()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&clone); err != nil {
		return nil, fmt.Errorf("encoding interface: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBinary parses an interface from the compact binary format.
func DecodeBinary(data []byte) (*Interface, error) {
	var i Interface
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&i); err != nil {
		return nil, fmt.Errorf("decoding interface: %w", err)
	}
	if i.Schema != Schema {
		return nil, fmt.Errorf("unsupported interface schema %q", i.Schema)
	}
	i.sortEntries()
	return &i, nil
}
