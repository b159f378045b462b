package ast

import (
	"bytes"
	"strings"

	"minipy/lexer"
	"minipy/object"
)

type Node interface {
	TokenLiteral() string
	String() string
	GetToken() lexer.Token
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	} else {
		return ""
	}
}

func (p *Program) GetToken() lexer.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return lexer.Token{}
}

func (p *Program) String() string {
	return joinStatements(p.Statements)
}

func joinStatements(stmts []Statement) string {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "; ")
}

// Literal holds a constant value produced by the parser (numbers, strings,
// True, False, None)
type Literal struct {
	Token lexer.Token
	Value object.Object
}

func (l *Literal) expressionNode()       {}
func (l *Literal) TokenLiteral() string  { return l.Token.Text }
func (l *Literal) GetToken() lexer.Token { return l.Token }
func (l *Literal) String() string        { return l.Value.Inspect() }

type Identifier struct {
	Token lexer.Token // the identifier token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Text }
func (i *Identifier) GetToken() lexer.Token { return i.Token }
func (i *Identifier) String() string        { return i.Value }

type UnaryExpression struct {
	Token    lexer.Token // the sign token
	Operator string
	Right    Expression
}

func (u *UnaryExpression) expressionNode()       {}
func (u *UnaryExpression) TokenLiteral() string  { return u.Token.Text }
func (u *UnaryExpression) GetToken() lexer.Token { return u.Token }
func (u *UnaryExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(u.Operator)
	out.WriteString(u.Right.String())
	out.WriteString(")")
	return out.String()
}

// BinaryExpression covers the arithmetic operators + - * / // % **
type BinaryExpression struct {
	Token    lexer.Token // the operator token
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) expressionNode()       {}
func (b *BinaryExpression) TokenLiteral() string  { return b.Token.Text }
func (b *BinaryExpression) GetToken() lexer.Token { return b.Token }
func (b *BinaryExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(b.Left.String())
	out.WriteString(" " + b.Operator + " ")
	out.WriteString(b.Right.String())
	out.WriteString(")")
	return out.String()
}

// CompareChain is a flat relational chain a OP1 b OP2 c ..., it holds
// len(Operands)-1 operators and every operand appears exactly once.
type CompareChain struct {
	Token     lexer.Token // the first comparison operator
	Operands  []Expression
	Operators []string
}

func (c *CompareChain) expressionNode()       {}
func (c *CompareChain) TokenLiteral() string  { return c.Token.Text }
func (c *CompareChain) GetToken() lexer.Token { return c.Token }
func (c *CompareChain) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	for idx, operand := range c.Operands {
		if idx > 0 {
			out.WriteString(" " + c.Operators[idx-1] + " ")
		}
		out.WriteString(operand.String())
	}
	out.WriteString(")")
	return out.String()
}

type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Text }
func (es *ExpressionStatement) GetToken() lexer.Token { return es.Token }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// AssignStatement binds Name, Operator is empty for plain `=` and holds the
// arithmetic operator for augmented forms such as `+=`
type AssignStatement struct {
	Token    lexer.Token // the assignment operator token
	Name     *Identifier
	Operator string
	Value    Expression
}

func (as *AssignStatement) statementNode()        {}
func (as *AssignStatement) TokenLiteral() string  { return as.Token.Text }
func (as *AssignStatement) GetToken() lexer.Token { return as.Token }
func (as *AssignStatement) String() string {
	var out bytes.Buffer
	out.WriteString(as.Name.String())
	out.WriteString(" " + as.Operator + "= ")
	out.WriteString(as.Value.String())
	return out.String()
}

type BlockStatement struct {
	Token lexer.Token // first token of the block
	Body  []Statement
}

func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Text }
func (bs *BlockStatement) GetToken() lexer.Token { return bs.Token }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	out.WriteString(joinStatements(bs.Body))
	out.WriteString(" }")
	return out.String()
}

type ConditionalBranch struct {
	Token     lexer.Token // the if or elif keyword
	Condition Expression
	Body      *BlockStatement
}

type IfStatement struct {
	Token       lexer.Token
	Branches    []ConditionalBranch
	Alternative *BlockStatement
}

func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Text }
func (is *IfStatement) GetToken() lexer.Token { return is.Token }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	for idx, branch := range is.Branches {
		if idx > 0 {
			out.WriteString(" elif ")
		} else {
			out.WriteString("if ")
		}
		out.WriteString(branch.Condition.String())
		out.WriteString(" ")
		out.WriteString(branch.Body.String())
	}
	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}
	return out.String()
}

type WhileStatement struct {
	Token       lexer.Token
	Condition   Expression
	Body        *BlockStatement
	Alternative *BlockStatement
}

func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Text }
func (ws *WhileStatement) GetToken() lexer.Token { return ws.Token }
func (ws *WhileStatement) String() string {
	var out bytes.Buffer
	out.WriteString("while ")
	out.WriteString(ws.Condition.String())
	out.WriteString(" ")
	out.WriteString(ws.Body.String())
	if ws.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(ws.Alternative.String())
	}
	return out.String()
}

type BreakStatement struct {
	Token lexer.Token
}

func (bs *BreakStatement) statementNode()        {}
func (bs *BreakStatement) TokenLiteral() string  { return bs.Token.Text }
func (bs *BreakStatement) GetToken() lexer.Token { return bs.Token }
func (bs *BreakStatement) String() string        { return bs.TokenLiteral() }

type ContinueStatement struct {
	Token lexer.Token
}

func (cs *ContinueStatement) statementNode()        {}
func (cs *ContinueStatement) TokenLiteral() string  { return cs.Token.Text }
func (cs *ContinueStatement) GetToken() lexer.Token { return cs.Token }
func (cs *ContinueStatement) String() string        { return cs.TokenLiteral() }
