package ast

import (
	"sort"
	"strings"
)

// RowField is a single labelled entry in a record row.
type RowField struct {
	Label Name
	Type  Type
}

// Row is an ordered-by-label mapping from field labels to types.
// Labels are unique; ordering makes record iteration deterministic
// everywhere it matters (unification, rendering, serialization).
type Row []RowField

// Lookup returns the type at label, if present.
func (r Row) Lookup(label Name) (Type, bool) {
	for _, field := range r {
		if field.Label == label {
			return field.Type, true
		}
	}
	return nil, false
}

// Labels returns the row's labels in order.
func (r Row) Labels() []Name {
	labels := make([]Name, len(r))
	for i, field := range r {
		labels[i] = field.Label
	}
	return labels
}

// Insert returns a copy of the row with label set to t, keeping the
// label ordering. An existing entry for label is replaced.
func (r Row) Insert(label Name, t Type) Row {
	out := make(Row, 0, len(r)+1)
	inserted := false
	for _, field := range r {
		if field.Label == label {
			out = append(out, RowField{Label: label, Type: t})
			inserted = true
			continue
		}
		if !inserted && label < field.Label {
			out = append(out, RowField{Label: label, Type: t})
			inserted = true
		}
		out = append(out, field)
	}
	if !inserted {
		out = append(out, RowField{Label: label, Type: t})
	}
	return out
}

// MakeRow builds a sorted row from unordered fields. Duplicate labels are
// the caller's bug; the checker rejects them before rows are built.
func MakeRow(fields []RowField) Row {
	row := make(Row, len(fields))
	copy(row, fields)
	sort.Slice(row, func(i, j int) bool { return row[i].Label < row[j].Label })
	return row
}

// MergeRows combines two rows with disjoint label sets.
func MergeRows(a, b Row) Row {
	merged := make(Row, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Label < merged[j].Label })
	return merged
}

func (r Row) mapTypes(f func(Type) Type) Row {
	out := make(Row, len(r))
	for i, field := range r {
		out[i] = RowField{Label: field.Label, Type: f(field.Type)}
	}
	return out
}

func (r Row) render() string {
	parts := make([]string, len(r))
	for i, field := range r {
		parts[i] = string(field.Label) + ": " + field.Type.String()
	}
	return strings.Join(parts, ", ")
}
