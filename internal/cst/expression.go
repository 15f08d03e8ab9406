package cst

import "github.com/veldlang/veld/internal/ast"

// Expression is an unchecked expression.
type Expression interface {
	cstExpr()
	GetSpan() ast.Span
}

// ExprTrue is `true`.
type ExprTrue struct {
	Span ast.Span
}

// ExprFalse is `false`.
type ExprFalse struct {
	Span ast.Span
}

// ExprUnit is `unit`.
type ExprUnit struct {
	Span ast.Span
}

// ExprString is a string literal with quotes stripped.
type ExprString struct {
	Span  ast.Span
	Value string
}

// ExprInt is an integer literal, kept as source text.
type ExprInt struct {
	Span  ast.Span
	Value string
}

// ExprFloat is a float literal, kept as source text.
type ExprFloat struct {
	Span  ast.Span
	Value string
}

// ExprArray is `[a, b, c]`.
type ExprArray struct {
	Span     ast.Span
	Elements []Expression
}

// ExprVariable is a (possibly qualified) value reference.
type ExprVariable struct {
	Span     ast.Span
	Variable ast.QualifiedName
}

// ExprConstructor is a (possibly qualified) constructor reference.
type ExprConstructor struct {
	Span        ast.Span
	Constructor ast.QualifiedProperName
}

// FunctionBinder is one parameter of a function literal, with optional
// type annotation.
type FunctionBinder struct {
	Span           ast.Span
	Pattern        Pattern
	TypeAnnotation Type
}

// ExprFunction is `fn (x, y: Int) -> body` with an optional return type
// annotation.
type ExprFunction struct {
	Span                 ast.Span
	Binders              []FunctionBinder
	ReturnTypeAnnotation Type
	Body                 Expression
}

// ExprCall is `f(a, b)`.
type ExprCall struct {
	Span      ast.Span
	Function  Expression
	Arguments []Expression
}

// ExprIf is `if c then t else f`.
type ExprIf struct {
	Span        ast.Span
	Condition   Expression
	TrueClause  Expression
	FalseClause Expression
}

// MatchArm is one `| pattern -> expression` arm.
type MatchArm struct {
	Span       ast.Span
	Pattern    Pattern
	Expression Expression
}

// ExprMatch is `match e with | p -> e ... end`.
type ExprMatch struct {
	Span       ast.Span
	Expression Expression
	Arms       []MatchArm
}

// LetDeclaration is one binding of a let expression.
type LetDeclaration struct {
	Span           ast.Span
	Pattern        Pattern
	TypeAnnotation Type
	Expression     Expression
}

// ExprLet is `let decls in body`. Declarations bind in order, each in
// scope for the following ones and the body.
type ExprLet struct {
	Span         ast.Span
	Declarations []LetDeclaration
	Body         Expression
}

// RecordExprField is one `label = value` entry of a record literal or
// update.
type RecordExprField struct {
	Span      ast.Span
	LabelSpan ast.Span
	Label     ast.Name
	Value     Expression
}

// ExprRecord is `{ a = 1, b = 2 }`.
type ExprRecord struct {
	Span   ast.Span
	Fields []RecordExprField
}

// ExprRecordAccess is `target.label`.
type ExprRecordAccess struct {
	Span      ast.Span
	Target    Expression
	LabelSpan ast.Span
	Label     ast.Name
}

// ExprRecordUpdate is `{ target | a = 1 }`.
type ExprRecordUpdate struct {
	Span    ast.Span
	Target  Expression
	Updates []RecordExprField
}

// ExprEffect is a `do { ... }` block.
type ExprEffect struct {
	Span   ast.Span
	Effect EffectNode
}

// EffectNode is one statement of a do block.
type EffectNode interface {
	cstEffect()
}

// EffectBind is `name <- expression; rest`.
type EffectBind struct {
	Span       ast.Span
	NameSpan   ast.Span
	Name       ast.Name
	Expression Expression
	Rest       EffectNode
}

// EffectLet is `let pattern = expression; rest`.
type EffectLet struct {
	Span           ast.Span
	Pattern        Pattern
	TypeAnnotation Type
	Expression     Expression
	Rest           EffectNode
}

// EffectExpression runs an effect, optionally followed by more
// statements.
type EffectExpression struct {
	Expression Expression
	Rest       EffectNode
}

// EffectReturn is `return expression`.
type EffectReturn struct {
	Span       ast.Span
	Expression Expression
}

// Pattern is an unchecked pattern.
type Pattern interface {
	cstPattern()
	GetSpan() ast.Span
}

// PatternConstructor matches a constructor application.
type PatternConstructor struct {
	Span        ast.Span
	Constructor ast.QualifiedProperName
	Arguments   []Pattern
}

// PatternVariable binds the matched value.
type PatternVariable struct {
	Span ast.Span
	Name ast.Name
}

// PatternUnused matches anything without binding.
type PatternUnused struct {
	Span       ast.Span
	UnusedName ast.UnusedName
}

func (*ExprTrue) cstExpr()         {}
func (*ExprFalse) cstExpr()        {}
func (*ExprUnit) cstExpr()         {}
func (*ExprString) cstExpr()       {}
func (*ExprInt) cstExpr()          {}
func (*ExprFloat) cstExpr()        {}
func (*ExprArray) cstExpr()        {}
func (*ExprVariable) cstExpr()     {}
func (*ExprConstructor) cstExpr()  {}
func (*ExprFunction) cstExpr()     {}
func (*ExprCall) cstExpr()         {}
func (*ExprIf) cstExpr()           {}
func (*ExprMatch) cstExpr()        {}
func (*ExprLet) cstExpr()          {}
func (*ExprRecord) cstExpr()       {}
func (*ExprRecordAccess) cstExpr() {}
func (*ExprRecordUpdate) cstExpr() {}
func (*ExprEffect) cstExpr()       {}

func (*EffectBind) cstEffect()       {}
func (*EffectLet) cstEffect()        {}
func (*EffectExpression) cstEffect() {}
func (*EffectReturn) cstEffect()     {}

func (*PatternConstructor) cstPattern() {}
func (*PatternVariable) cstPattern()    {}
func (*PatternUnused) cstPattern()      {}

func (e *ExprTrue) GetSpan() ast.Span         { return e.Span }
func (e *ExprFalse) GetSpan() ast.Span        { return e.Span }
func (e *ExprUnit) GetSpan() ast.Span         { return e.Span }
func (e *ExprString) GetSpan() ast.Span       { return e.Span }
func (e *ExprInt) GetSpan() ast.Span          { return e.Span }
func (e *ExprFloat) GetSpan() ast.Span        { return e.Span }
func (e *ExprArray) GetSpan() ast.Span        { return e.Span }
func (e *ExprVariable) GetSpan() ast.Span     { return e.Span }
func (e *ExprConstructor) GetSpan() ast.Span  { return e.Span }
func (e *ExprFunction) GetSpan() ast.Span     { return e.Span }
func (e *ExprCall) GetSpan() ast.Span         { return e.Span }
func (e *ExprIf) GetSpan() ast.Span           { return e.Span }
func (e *ExprMatch) GetSpan() ast.Span        { return e.Span }
func (e *ExprLet) GetSpan() ast.Span          { return e.Span }
func (e *ExprRecord) GetSpan() ast.Span       { return e.Span }
func (e *ExprRecordAccess) GetSpan() ast.Span { return e.Span }
func (e *ExprRecordUpdate) GetSpan() ast.Span { return e.Span }
func (e *ExprEffect) GetSpan() ast.Span       { return e.Span }

func (p *PatternConstructor) GetSpan() ast.Span { return p.Span }
func (p *PatternVariable) GetSpan() ast.Span    { return p.Span }
func (p *PatternUnused) GetSpan() ast.Span      { return p.Span }
