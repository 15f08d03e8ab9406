package checker

import (
	"sort"
	"strings"

	"github.com/veldlang/veld/internal/ast"
)

// Pattern coverage via ideal patterns, after Adam Schoenemann's
// "pattern matching" algorithm: an ideal pattern stands for all values
// of the scrutinee type not yet matched; clauses refine it until either
// every ideal is covered or some refinement has no matching clause.
//
// Worst case is exponential in the nesting depth of constructor
// patterns, which is fine for patterns people actually write.
// Constructor lists are memoised per type.

// idealPattern represents a set of values still to be covered.
type idealPattern interface {
	idealPat()
}

type idealConstructor struct {
	Constructor ast.ProperName
	Arguments   []idealPattern
}

type idealVariable struct {
	Var ast.Var
}

func (*idealConstructor) idealPat() {}
func (*idealVariable) idealPat()   {}

// renderIdeal renders an ideal pattern with variables as `_`, which is
// what missing-pattern diagnostics show. Qualifiers are dropped from
// constructor names for readability.
func renderIdeal(ideal idealPattern) string {
	switch ideal := ideal.(type) {
	case *idealVariable:
		return "_"
	case *idealConstructor:
		if len(ideal.Arguments) == 0 {
			return string(ideal.Constructor)
		}
		args := make([]string, len(ideal.Arguments))
		for i, arg := range ideal.Arguments {
			args[i] = renderIdeal(arg)
		}
		return string(ideal.Constructor) + "(" + strings.Join(args, ", ") + ")"
	default:
		return "_"
	}
}

// clausePattern mirrors a user-supplied pattern, with qualifiers
// stripped off constructors.
type clausePattern interface {
	clausePat()
	getSpan() ast.Span
}

type clauseConstructor struct {
	Span        ast.Span
	Constructor ast.ProperName
	Arguments   []clausePattern
}

type clauseVariable struct {
	Span ast.Span
}

func (*clauseConstructor) clausePat() {}
func (*clauseVariable) clausePat()    {}

func (p *clauseConstructor) getSpan() ast.Span { return p.Span }
func (p *clauseVariable) getSpan() ast.Span    { return p.Span }

func clauseFromPattern(pattern ast.Pattern) clausePattern {
	switch pattern := pattern.(type) {
	case *ast.PatternLocalConstructor:
		arguments := make([]clausePattern, len(pattern.Arguments))
		for i, arg := range pattern.Arguments {
			arguments[i] = clauseFromPattern(arg)
		}
		return &clauseConstructor{
			Span:        pattern.Span,
			Constructor: pattern.Constructor,
			Arguments:   arguments,
		}
	case *ast.PatternImportedConstructor:
		arguments := make([]clausePattern, len(pattern.Arguments))
		for i, arg := range pattern.Arguments {
			arguments[i] = clauseFromPattern(arg)
		}
		return &clauseConstructor{
			Span:        pattern.Span,
			Constructor: pattern.Constructor.Value,
			Arguments:   arguments,
		}
	case *ast.PatternVariable:
		return &clauseVariable{Span: pattern.Span}
	case *ast.PatternUnused:
		return &clauseVariable{Span: pattern.Span}
	default:
		panic("unexpected pattern")
	}
}

// coverageConstructor is a constructor of the scrutinee type with its
// field types specialized to the scrutinee's type arguments.
type coverageConstructor struct {
	Name      ast.ProperName
	Arguments []ast.Type
}

// clause pairs a user pattern with its usage count; a clause that never
// gets used is redundant.
type clause struct {
	usages  int
	pattern clausePattern
}

// idealSubstitution maps coverage variables to ideal patterns. Entries
// keep insertion order so diagnostics are reproducible.
type idealSubstitution struct {
	vars     []ast.Var
	patterns map[ast.Var]idealPattern
}

func newIdealSubstitution() *idealSubstitution {
	return &idealSubstitution{patterns: make(map[ast.Var]idealPattern)}
}

func (s *idealSubstitution) insert(v ast.Var, pattern idealPattern) {
	if _, ok := s.patterns[v]; !ok {
		s.vars = append(s.vars, v)
	}
	s.patterns[v] = pattern
}

func (s *idealSubstitution) extend(other *idealSubstitution) {
	for _, v := range other.vars {
		s.insert(v, other.patterns[v])
	}
}

// firstNonInjectiveVar returns the first variable mapped to a
// constructor pattern. A substitution with none is injective: it only
// renames, meaning the clause covers the ideal outright.
func (s *idealSubstitution) firstNonInjectiveVar() (ast.Var, bool) {
	for _, v := range s.vars {
		if _, ok := s.patterns[v].(*idealConstructor); ok {
			return v, true
		}
	}
	return 0, false
}

func (s *idealSubstitution) isInjective() bool {
	_, found := s.firstNonInjectiveVar()
	return !found
}

func (s *idealSubstitution) apply(ideal idealPattern) idealPattern {
	switch ideal := ideal.(type) {
	case *idealVariable:
		if pattern, ok := s.patterns[ideal.Var]; ok {
			return s.apply(pattern)
		}
		return ideal
	case *idealConstructor:
		arguments := make([]idealPattern, len(ideal.Arguments))
		for i, arg := range ideal.Arguments {
			arguments[i] = s.apply(arg)
		}
		return &idealConstructor{Constructor: ideal.Constructor, Arguments: arguments}
	default:
		return ideal
	}
}

type coverageChecker struct {
	env    *Env
	supply Supply
	// coverage maps each ideal variable to the constructors of its type.
	coverage map[ast.Var][]coverageConstructor
	// constructorCache memoises constructorsForType per rendered type.
	constructorCache map[string][]coverageConstructor
}

// checkPatternCoverage runs the coverage algorithm for the given
// scrutinee type and clause patterns. It returns the rendered missing
// patterns (empty when the clauses are exhaustive) and the spans of
// redundant clauses (those no value can reach).
func checkPatternCoverage(env *Env, patternType ast.Type, patterns []ast.Pattern) (missing []string, redundant []ast.Span) {
	checker := &coverageChecker{
		env:              env,
		coverage:         make(map[ast.Var][]coverageConstructor),
		constructorCache: make(map[string][]coverageConstructor),
	}

	rootVar := checker.supply.Fresh()
	checker.coverage[rootVar] = checker.constructorsForType(patternType)

	clauses := make([]*clause, len(patterns))
	for i, pattern := range patterns {
		clauses[i] = &clause{pattern: clauseFromPattern(pattern)}
	}

	notCovered := checker.check(&idealVariable{Var: rootVar}, clauses)
	for _, ideal := range notCovered {
		missing = append(missing, renderIdeal(ideal))
	}
	if len(missing) > 0 {
		return missing, nil
	}
	for _, cl := range clauses {
		if cl.usages == 0 {
			redundant = append(redundant, cl.pattern.getSpan())
		}
	}
	return nil, redundant
}

func (c *coverageChecker) check(ideal idealPattern, clauses []*clause) []idealPattern {
	if len(clauses) == 0 {
		return []idealPattern{ideal}
	}
	head, rest := clauses[0], clauses[1:]

	substitution, matches := c.toSubstitution(head.pattern, ideal)
	if !matches {
		// This clause can never match the ideal; the remaining clauses
		// have to cover it.
		return c.check(ideal, rest)
	}

	v, found := substitution.firstNonInjectiveVar()
	if !found {
		// The substitution only renames variables: the clause covers
		// this ideal completely.
		head.usages++
		return nil
	}

	// The clause matches some refinement of the ideal. Split the ideal
	// on every constructor the variable's type offers and check each.
	var notCovered []idealPattern
	for i := range c.coverage[v] {
		constructor := c.coverage[v][i]
		refinement := c.constructorToPattern(&constructor)
		substitution := newIdealSubstitution()
		substitution.insert(v, refinement)
		refined := substitution.apply(ideal)
		notCovered = append(notCovered, c.check(refined, clauses)...)
	}
	return notCovered
}

// toSubstitution computes how the ideal would have to be refined for
// the clause to match it. A false result means the clause can't match
// any value the ideal stands for.
func (c *coverageChecker) toSubstitution(pattern clausePattern, ideal idealPattern) (*idealSubstitution, bool) {
	switch ideal := ideal.(type) {
	case *idealVariable:
		substitution := newIdealSubstitution()
		substitution.insert(ideal.Var, c.idealFromClause(pattern))
		return substitution, true

	case *idealConstructor:
		switch pattern := pattern.(type) {
		case *clauseVariable:
			return newIdealSubstitution(), true

		case *clauseConstructor:
			if ideal.Constructor != pattern.Constructor {
				return nil, false
			}
			if len(ideal.Arguments) != len(pattern.Arguments) {
				// Arities were checked during type checking.
				panic("malformed pattern in coverage check")
			}
			substitution := newIdealSubstitution()
			foundBadMatch := false
			for i := range ideal.Arguments {
				argSubstitution, ok := c.toSubstitution(pattern.Arguments[i], ideal.Arguments[i])
				if !ok {
					foundBadMatch = true
					continue
				}
				substitution.extend(argSubstitution)
			}
			// An argument mismatch only rejects the clause outright when
			// no refinement could rescue it, i.e. when the rest of the
			// substitution doesn't refine anything either.
			if foundBadMatch && substitution.isInjective() {
				return nil, false
			}
			return substitution, true
		}
	}
	return nil, false
}

func (c *coverageChecker) idealFromClause(pattern clausePattern) idealPattern {
	switch pattern := pattern.(type) {
	case *clauseConstructor:
		arguments := make([]idealPattern, len(pattern.Arguments))
		for i, arg := range pattern.Arguments {
			arguments[i] = c.idealFromClause(arg)
		}
		return &idealConstructor{Constructor: pattern.Constructor, Arguments: arguments}
	default:
		return &idealVariable{Var: c.supply.Fresh()}
	}
}

// constructorToPattern turns a constructor into an ideal pattern with a
// fresh variable per argument, registering each variable's own
// constructor list.
func (c *coverageChecker) constructorToPattern(constructor *coverageConstructor) idealPattern {
	arguments := make([]idealPattern, len(constructor.Arguments))
	for i, argumentType := range constructor.Arguments {
		v := c.supply.Fresh()
		c.coverage[v] = c.constructorsForType(argumentType)
		arguments[i] = &idealVariable{Var: v}
	}
	return &idealConstructor{Constructor: constructor.Name, Arguments: arguments}
}

// constructorsForType looks up the constructors of a type, with field
// types specialized to the type's arguments. Types without visible
// constructors (functions, records, primitives, variables) yield an
// empty list, which makes a lone variable pattern the only way to cover
// them.
func (c *coverageChecker) constructorsForType(patternType ast.Type) []coverageConstructor {
	patternType = ast.Unalias(patternType)

	cacheKey := patternType.String()
	if cached, ok := c.constructorCache[cacheKey]; ok {
		return cached
	}

	wantCanonical, specificArguments, ok := getTypeConstructor(patternType)
	if !ok {
		return nil
	}

	// Deterministic iteration: visit constructors sorted by name.
	names := make([]ast.QualifiedProperName, 0, len(c.env.Constructors))
	for name := range c.env.Constructors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].String() < names[j].String() })

	// The same constructor can be in scope under several names (e.g.
	// qualified and unqualified); it only splits the ideal once.
	seen := make(map[ast.ProperName]bool)
	var constructors []coverageConstructor
	for _, name := range names {
		if seen[name.Value] {
			continue
		}
		envConstructor := c.env.Constructors[name]
		signature := envConstructor.GetScheme().Signature

		terminalType := signature
		var genericFields []ast.Type
		if function, ok := signature.(*ast.TypeFunction); ok {
			// Type constructors aren't curried.
			terminalType = function.ReturnType
			genericFields = function.Parameters
		}
		gotCanonical, genericArguments, ok := getTypeConstructor(ast.Unalias(terminalType))
		if !ok || !gotCanonical.Equals(wantCanonical) {
			continue
		}

		// Specialize the constructor's fields from the generic type
		// arguments to the scrutinee's.
		specialize := make(Substitution)
		for i, genericArgument := range genericArguments {
			if variable, ok := genericArgument.(*ast.TypeVariable); ok && i < len(specificArguments) {
				specialize[variable.Var] = specificArguments[i]
			}
		}
		arguments := make([]ast.Type, len(genericFields))
		for i, field := range genericFields {
			arguments[i] = specialize.Apply(field)
		}
		seen[name.Value] = true
		constructors = append(constructors, coverageConstructor{
			Name:      name.Value,
			Arguments: arguments,
		})
	}

	c.constructorCache[cacheKey] = constructors
	return constructors
}

// getTypeConstructor extracts the canonical head and type arguments of
// a (unaliased) constructor type: `Result(a, e)` yields the canonical
// Result plus [a, e]; a bare `Ordering` yields no arguments.
func getTypeConstructor(t ast.Type) (ast.FullyQualifiedProperName, []ast.Type, bool) {
	switch t := t.(type) {
	case *ast.TypeCall:
		if constructor, ok := t.Function.(*ast.TypeConstructor); ok {
			return constructor.CanonicalValue, t.Arguments, true
		}
	case *ast.TypeConstructor:
		return t.CanonicalValue, nil, true
	}
	return ast.FullyQualifiedProperName{}, nil, false
}
