package ast

import (
	"strconv"
	"strings"
)

// Var is a numeric identifier for a unification variable. The same supply
// hands out vars for both kinds and types, so ids never collide.
type Var = int

// Kind classifies types.
//
// There is no source representation for kinds; they only ever show up in
// diagnostics.
type Kind interface {
	kind()
	String() string
	Equals(Kind) bool
}

// KindType is the kind of inhabited types. Known as `*` elsewhere.
type KindType struct{}

func (KindType) kind()          {}
func (KindType) String() string { return "Type" }
func (KindType) Equals(other Kind) bool {
	_, ok := other.(KindType)
	return ok
}

// KindRow is the kind of record rows.
type KindRow struct{}

func (KindRow) kind()          {}
func (KindRow) String() string { return "Row" }
func (KindRow) Equals(other Kind) bool {
	_, ok := other.(KindRow)
	return ok
}

// KindVariable is a kind unification variable.
type KindVariable struct {
	Var Var
}

func (KindVariable) kind() {}
func (k KindVariable) String() string {
	return "k" + strconv.Itoa(k.Var)
}
func (k KindVariable) Equals(other Kind) bool {
	if o, ok := other.(KindVariable); ok {
		return k.Var == o.Var
	}
	return false
}

// KindFunction is the kind of types that need to be applied to other
// types, e.g. `Array : (Type) -> Type`.
//
// Parameters is never empty: nullary type application isn't a thing.
// The return kind is always Type, so it isn't represented.
type KindFunction struct {
	Parameters []Kind
}

func (KindFunction) kind() {}
func (k KindFunction) String() string {
	params := make([]string, len(k.Parameters))
	for i, p := range k.Parameters {
		params[i] = p.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> Type"
}
func (k KindFunction) Equals(other Kind) bool {
	o, ok := other.(KindFunction)
	if !ok || len(k.Parameters) != len(o.Parameters) {
		return false
	}
	for i := range k.Parameters {
		if !k.Parameters[i].Equals(o.Parameters[i]) {
			return false
		}
	}
	return true
}

// KindVariables returns the set of kind variables mentioned in k.
func KindVariables(k Kind) map[Var]bool {
	accum := make(map[Var]bool)
	kindVariablesRec(k, accum)
	return accum
}

func kindVariablesRec(k Kind, accum map[Var]bool) {
	switch k := k.(type) {
	case KindVariable:
		accum[k.Var] = true
	case KindFunction:
		for _, p := range k.Parameters {
			kindVariablesRec(p, accum)
		}
	}
}
