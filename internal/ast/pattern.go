package ast

import "strings"

// Pattern is a checked match-arm or binder pattern. Constructor patterns
// have been split by the checker into local and imported variants
// carrying resolved names.
type Pattern interface {
	pattern()
	GetSpan() Span
	String() string
}

// PatternLocalConstructor matches a constructor defined in the module
// being checked.
type PatternLocalConstructor struct {
	Span        Span
	Constructor ProperName
	Arguments   []Pattern
}

// PatternImportedConstructor matches a constructor brought in by an
// import, carrying its canonical name.
type PatternImportedConstructor struct {
	Span        Span
	Constructor FullyQualifiedProperName
	Arguments   []Pattern
}

// PatternVariable binds the matched value to a name.
type PatternVariable struct {
	Span Span
	Name Name
}

// PatternUnused matches anything without binding.
type PatternUnused struct {
	Span       Span
	UnusedName UnusedName
}

func (*PatternLocalConstructor) pattern()    {}
func (*PatternImportedConstructor) pattern() {}
func (*PatternVariable) pattern()            {}
func (*PatternUnused) pattern()              {}

func (p *PatternLocalConstructor) GetSpan() Span    { return p.Span }
func (p *PatternImportedConstructor) GetSpan() Span { return p.Span }
func (p *PatternVariable) GetSpan() Span            { return p.Span }
func (p *PatternUnused) GetSpan() Span              { return p.Span }

func (p *PatternLocalConstructor) String() string {
	return renderConstructorPattern(string(p.Constructor), p.Arguments)
}

func (p *PatternImportedConstructor) String() string {
	return renderConstructorPattern(string(p.Constructor.Value), p.Arguments)
}

func (p *PatternVariable) String() string { return string(p.Name) }

func (p *PatternUnused) String() string { return string(p.UnusedName) }

func renderConstructorPattern(name string, arguments []Pattern) string {
	if len(arguments) == 0 {
		return name
	}
	args := make([]string, len(arguments))
	for i, arg := range arguments {
		args[i] = arg.String()
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}
