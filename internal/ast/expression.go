package ast

// Expression is a fully typed expression node. Every node knows its span
// and its type; no unsolved unification variable of non-Type kind remains
// in a checked expression's type.
type Expression interface {
	expr()
	GetSpan() Span
	GetType() Type
}

// ExprTrue is the literal `true`.
type ExprTrue struct {
	Span Span
}

// ExprFalse is the literal `false`.
type ExprFalse struct {
	Span Span
}

// ExprUnit is the literal `unit`.
type ExprUnit struct {
	Span Span
}

// ExprString is a string literal, stored verbatim.
type ExprString struct {
	Span  Span
	Value string
}

// ExprInt is an integer literal. The value is kept as written (minus
// separators); semantic parsing is deferred to code generation.
type ExprInt struct {
	Span  Span
	Value string
}

// ExprFloat is a float literal, stored like ExprInt.
type ExprFloat struct {
	Span  Span
	Value string
}

// ExprArray is an array literal. All elements share ElementType.
type ExprArray struct {
	Span        Span
	ElementType Type
	Elements    []Expression
}

// RecordExprField is one labelled field of a record literal or update.
type RecordExprField struct {
	LabelSpan Span
	Label     Name
	Value     Expression
}

// ExprRecord is a closed record literal.
type ExprRecord struct {
	Span   Span
	Fields []RecordExprField
}

// ExprRecordAccess projects a single field out of a record.
type ExprRecordAccess struct {
	Span       Span
	ResultType Type
	Target     Expression
	Label      Name
}

// ExprRecordUpdate replaces some fields of a record, keeping its type.
type ExprRecordUpdate struct {
	Span       Span
	RecordType Type
	Target     Expression
	Updates    []RecordExprField
}

// ExprLocalVariable references a value bound in the current module or an
// enclosing expression.
type ExprLocalVariable struct {
	Span         Span
	VariableType Type
	Variable     Name
}

// ExprForeignVariable references a foreign value declaration.
type ExprForeignVariable struct {
	Span         Span
	VariableType Type
	Variable     Name
}

// ExprImportedVariable references an imported value by canonical name.
type ExprImportedVariable struct {
	Span         Span
	VariableType Type
	Variable     FullyQualifiedName
}

// ExprLocalConstructor references a constructor of this module.
type ExprLocalConstructor struct {
	Span            Span
	ConstructorType Type
	Constructor     ProperName
}

// ExprImportedConstructor references an imported constructor by
// canonical name.
type ExprImportedConstructor struct {
	Span            Span
	ConstructorType Type
	Constructor     FullyQualifiedProperName
}

// FunctionBinder is one parameter of a function expression. The pattern
// is irrefutable; BinderType is its checked type.
type FunctionBinder struct {
	Pattern    Pattern
	BinderType Type
}

// ExprFunction is a function literal, `fn (x, y) -> body`.
type ExprFunction struct {
	Span    Span
	Binders []FunctionBinder
	// ReturnType is the checked body type (annotated or inferred).
	ReturnType Type
	Body       Expression
}

// ExprCall applies a function to arguments.
type ExprCall struct {
	Span Span
	// CallType is the type of the call result.
	CallType  Type
	Function  Expression
	Arguments []Expression
}

// ExprIf is a two-armed conditional. Both clauses share OutputType.
type ExprIf struct {
	Span        Span
	OutputType  Type
	Condition   Expression
	TrueClause  Expression
	FalseClause Expression
}

// MatchArm is one `| pattern -> expression` arm.
type MatchArm struct {
	Pattern    Pattern
	Expression Expression
}

// ExprMatch scrutinises an expression against a series of arms. The
// checker guarantees the arms are exhaustive.
type ExprMatch struct {
	Span Span
	// MatchType is the shared type of all arm bodies.
	MatchType  Type
	Expression Expression
	Arms       []MatchArm
}

// LetDeclaration is the binding part of a let expression.
type LetDeclaration struct {
	Pattern Pattern
	// TypeAnnotation is nil when the binding is unannotated.
	TypeAnnotation Type
	Expression     Expression
}

// ExprLet binds a declaration in the scope of a body. Multi-binding lets
// are represented as nested ExprLets.
type ExprLet struct {
	Span        Span
	Declaration LetDeclaration
	Body        Expression
}

// ExprEffect is a `do { ... }` block.
type ExprEffect struct {
	Span Span
	// ResultType is the full `Effect(a)` type of the block.
	ResultType Type
	Effect     EffectNode
}

// EffectNode is one statement in a do block.
type EffectNode interface {
	effectNode()
}

// EffectBind runs an effect and binds its result: `name <- expression; rest`.
type EffectBind struct {
	NameSpan   Span
	Name       Name
	Expression Expression
	Rest       EffectNode
}

// EffectLet is a pure binding inside a do block.
type EffectLet struct {
	Pattern        Pattern
	TypeAnnotation Type
	Expression     Expression
	Rest           EffectNode
}

// EffectExpression runs an effect for its result (when Rest is nil, the
// block's value) or purely for sequencing.
type EffectExpression struct {
	Expression Expression
	Rest       EffectNode // nil when this is the last statement
}

// EffectReturn lifts a pure value: `return expression`.
type EffectReturn struct {
	Expression Expression
}

func (*ExprTrue) expr()                {}
func (*ExprFalse) expr()               {}
func (*ExprUnit) expr()                {}
func (*ExprString) expr()              {}
func (*ExprInt) expr()                 {}
func (*ExprFloat) expr()               {}
func (*ExprArray) expr()               {}
func (*ExprRecord) expr()              {}
func (*ExprRecordAccess) expr()        {}
func (*ExprRecordUpdate) expr()        {}
func (*ExprLocalVariable) expr()       {}
func (*ExprForeignVariable) expr()     {}
func (*ExprImportedVariable) expr()    {}
func (*ExprLocalConstructor) expr()    {}
func (*ExprImportedConstructor) expr() {}
func (*ExprFunction) expr()            {}
func (*ExprCall) expr()                {}
func (*ExprIf) expr()                  {}
func (*ExprMatch) expr()               {}
func (*ExprLet) expr()                 {}
func (*ExprEffect) expr()              {}

func (*EffectBind) effectNode()       {}
func (*EffectLet) effectNode()        {}
func (*EffectExpression) effectNode() {}
func (*EffectReturn) effectNode()     {}

func (e *ExprTrue) GetSpan() Span                { return e.Span }
func (e *ExprFalse) GetSpan() Span               { return e.Span }
func (e *ExprUnit) GetSpan() Span                { return e.Span }
func (e *ExprString) GetSpan() Span              { return e.Span }
func (e *ExprInt) GetSpan() Span                 { return e.Span }
func (e *ExprFloat) GetSpan() Span               { return e.Span }
func (e *ExprArray) GetSpan() Span               { return e.Span }
func (e *ExprRecord) GetSpan() Span              { return e.Span }
func (e *ExprRecordAccess) GetSpan() Span        { return e.Span }
func (e *ExprRecordUpdate) GetSpan() Span        { return e.Span }
func (e *ExprLocalVariable) GetSpan() Span       { return e.Span }
func (e *ExprForeignVariable) GetSpan() Span     { return e.Span }
func (e *ExprImportedVariable) GetSpan() Span    { return e.Span }
func (e *ExprLocalConstructor) GetSpan() Span    { return e.Span }
func (e *ExprImportedConstructor) GetSpan() Span { return e.Span }
func (e *ExprFunction) GetSpan() Span            { return e.Span }
func (e *ExprCall) GetSpan() Span                { return e.Span }
func (e *ExprIf) GetSpan() Span                  { return e.Span }
func (e *ExprMatch) GetSpan() Span               { return e.Span }
func (e *ExprLet) GetSpan() Span                 { return e.Span }
func (e *ExprEffect) GetSpan() Span              { return e.Span }

func (e *ExprTrue) GetType() Type   { return &TypePrim{Prim: PrimBool} }
func (e *ExprFalse) GetType() Type  { return &TypePrim{Prim: PrimBool} }
func (e *ExprUnit) GetType() Type   { return &TypePrim{Prim: PrimUnit} }
func (e *ExprString) GetType() Type { return &TypePrim{Prim: PrimString} }
func (e *ExprInt) GetType() Type    { return &TypePrim{Prim: PrimInt} }
func (e *ExprFloat) GetType() Type  { return &TypePrim{Prim: PrimFloat} }

func (e *ExprArray) GetType() Type {
	return &TypeCall{
		Function:  &TypePrim{Prim: PrimArray},
		Arguments: []Type{e.ElementType},
	}
}

func (e *ExprRecord) GetType() Type {
	fields := make([]RowField, len(e.Fields))
	for i, field := range e.Fields {
		fields[i] = RowField{Label: field.Label, Type: field.Value.GetType()}
	}
	return &TypeRecordClosed{Row: MakeRow(fields)}
}

func (e *ExprRecordAccess) GetType() Type        { return e.ResultType }
func (e *ExprRecordUpdate) GetType() Type        { return e.RecordType }
func (e *ExprLocalVariable) GetType() Type       { return e.VariableType }
func (e *ExprForeignVariable) GetType() Type     { return e.VariableType }
func (e *ExprImportedVariable) GetType() Type    { return e.VariableType }
func (e *ExprLocalConstructor) GetType() Type    { return e.ConstructorType }
func (e *ExprImportedConstructor) GetType() Type { return e.ConstructorType }

func (e *ExprFunction) GetType() Type {
	params := make([]Type, len(e.Binders))
	for i, binder := range e.Binders {
		params[i] = binder.BinderType
	}
	return &TypeFunction{Parameters: params, ReturnType: e.ReturnType}
}

func (e *ExprCall) GetType() Type  { return e.CallType }
func (e *ExprIf) GetType() Type    { return e.OutputType }
func (e *ExprMatch) GetType() Type { return e.MatchType }
func (e *ExprLet) GetType() Type   { return e.Body.GetType() }

func (e *ExprEffect) GetType() Type { return e.ResultType }
