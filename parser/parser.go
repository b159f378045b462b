package parser

import (
	"fmt"

	"minipy/ast"
	"minipy/internals"
	"minipy/lexer"
	"minipy/object"
)

type Parser struct {
	tokens []lexer.Token
	errors *internals.ErrorCollector
	Pos    int

	prevToken lexer.Token // previous token of current token
	curToken  lexer.Token
	peekToken lexer.Token // one token lookahead
}

// NewParser takes the output of lexer.Tokenize, a missing trailing EOF is
// supplied.
func NewParser(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.TokenEOF {
		eof := lexer.Token{LiteralToken: lexer.LiteralToken{Kind: lexer.TokenEOF}}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eof.Row, eof.Col = last.Row, last.Col+len([]rune(last.Text))
		}
		tokens = append(tokens, eof)
	}

	p := Parser{
		tokens: tokens,
		errors: internals.NewErrorCollector(),
		Pos:    -2,
	}

	// set the tok position
	p.nextToken()
	p.nextToken()

	return &p
}

// ParseString tokenizes and parses src in one go
func ParseString(filePath, src string) (*ast.Program, error) {
	tokens, err := lexer.NewLexer(filePath, src).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

func (p *Parser) nextToken() {
	p.Pos++
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	if idx := p.Pos + 1; idx < len(p.tokens) {
		p.peekToken = p.tokens[idx]
	} else {
		p.peekToken = p.tokens[len(p.tokens)-1]
	}
}

func (p *Parser) curTokenKindIs(kind lexer.TokenKind) bool {
	return p.curToken.Kind == kind
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Kind]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) error(tok lexer.Token, format string, a ...interface{}) error {
	return internals.NewErrorAt(internals.ParseError, tok.Row, tok.Col, format, a...)
}

func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.TokenNewline, lexer.TokenEOF:
		return tok.Kind
	case lexer.TokenIdentifier:
		return fmt.Sprintf("identifier '%s'", tok.Text)
	case lexer.TokenInt, lexer.TokenFloat:
		return fmt.Sprintf("number %s", tok.Text)
	case lexer.TokenString:
		return "string literal"
	default:
		return fmt.Sprintf("'%s'", tok.Text)
	}
}

// sync skips to the start of the next top level statement
func (p *Parser) sync() {
	if p.curTokenKindIs(lexer.TokenEOF) {
		return
	}
	p.nextToken()
	for !p.curTokenKindIs(lexer.TokenEOF) {
		if p.prevToken.Kind == lexer.TokenNewline && p.curToken.Indent == 0 {
			return
		}
		p.nextToken()
	}
}

// Parse reads every top level statement. Syntax errors do not stop it, all
// of them are returned joined together.
func (p *Parser) Parse() (*ast.Program, error) {
	program := ast.Program{
		Statements: []ast.Statement{},
	}

	for !p.curTokenKindIs(lexer.TokenEOF) {
		if p.curToken.Indent != 0 {
			p.errors.Add(p.error(p.curToken, "unexpected indent"))
			p.sync()
			continue
		}

		stmt, err := p.parseStatement(0)
		if err != nil {
			p.errors.Add(err)
			p.sync()
			continue
		}
		program.Statements = append(program.Statements, stmt)
	}

	return &program, p.errors.Err()
}

// parseStatement reads one statement starting at the beginning of a line
// whose indentation is indent.
func (p *Parser) parseStatement(indent int) (ast.Statement, error) {
	switch p.curToken.Kind {
	case lexer.TokenIf:
		return p.parseIfStatement(indent)
	case lexer.TokenWhile:
		return p.parseWhileStatement(indent)
	case lexer.TokenElif, lexer.TokenElse:
		return nil, p.error(p.curToken, "invalid syntax: '%s' without a matching if", p.curToken.Text)
	default:
		stmt, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		if err := p.expectEndOfLine(); err != nil {
			return nil, err
		}
		return stmt, nil
	}
}

func (p *Parser) expectEndOfLine() error {
	if p.curTokenKindIs(lexer.TokenBraceClose) {
		return p.error(p.curToken, "unmatched ')'")
	}
	if !p.curTokenKindIs(lexer.TokenNewline) {
		return p.error(p.curToken, "invalid syntax: expected end of line, found %s", describe(p.curToken))
	}
	p.nextToken()
	return nil
}

func (p *Parser) parseSimpleStatement() (ast.Statement, error) {
	switch p.curToken.Kind {
	case lexer.TokenBreak:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.nextToken()
		return stmt, nil
	case lexer.TokenContinue:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.nextToken()
		return stmt, nil
	case lexer.TokenIf, lexer.TokenWhile:
		return nil, p.error(p.curToken, "invalid syntax: '%s' cannot follow ':' on the same line", p.curToken.Text)
	case lexer.TokenIdentifier:
		if _, ok := lexer.AssignOperators[p.peekToken.Kind]; ok {
			return p.parseAssignStatement()
		}
	}

	return p.parseExpressionStatement()
}

func (p *Parser) parseAssignStatement() (*ast.AssignStatement, error) {
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Text}
	p.nextToken()

	stmt := &ast.AssignStatement{
		Token:    p.curToken,
		Name:     name,
		Operator: lexer.AssignOperators[p.curToken.Kind],
	}
	p.nextToken() // consume the operator

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Value = value
	return stmt, nil
}

func (p *Parser) parseExpressionStatement() (*ast.ExpressionStatement, error) {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, ok := lexer.AssignOperators[p.curToken.Kind]; ok {
		if _, isLiteral := expr.(*ast.Literal); isLiteral {
			return nil, p.error(p.curToken, "cannot assign to literal")
		}
		return nil, p.error(p.curToken, "cannot assign to expression")
	}

	stmt.Expression = expr
	return stmt, nil
}

func (p *Parser) expectColon(after string) error {
	if !p.curTokenKindIs(lexer.TokenColon) {
		return p.error(p.curToken, "expected ':' after %s, found %s", after, describe(p.curToken))
	}
	p.nextToken()
	return nil
}

func (p *Parser) parseIfStatement(indent int) (*ast.IfStatement, error) {
	stmt := &ast.IfStatement{Token: p.curToken}

	for {
		branch := ast.ConditionalBranch{Token: p.curToken}
		header := p.curToken.Text
		p.nextToken() // consume if / elif

		condition, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		branch.Condition = condition

		if err := p.expectColon(header + " condition"); err != nil {
			return nil, err
		}

		body, err := p.parseBlock(indent)
		if err != nil {
			return nil, err
		}
		branch.Body = body
		stmt.Branches = append(stmt.Branches, branch)

		if !p.curTokenKindIs(lexer.TokenElif) || p.curToken.Indent != indent {
			break
		}
	}

	if p.curTokenKindIs(lexer.TokenElse) && p.curToken.Indent == indent {
		alternative, err := p.parseElse(indent)
		if err != nil {
			return nil, err
		}
		stmt.Alternative = alternative
	}

	return stmt, nil
}

func (p *Parser) parseWhileStatement(indent int) (*ast.WhileStatement, error) {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.nextToken()

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Condition = condition

	if err := p.expectColon("while condition"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock(indent)
	if err != nil {
		return nil, err
	}
	stmt.Body = body

	if p.curTokenKindIs(lexer.TokenElse) && p.curToken.Indent == indent {
		alternative, err := p.parseElse(indent)
		if err != nil {
			return nil, err
		}
		stmt.Alternative = alternative
	}

	return stmt, nil
}

func (p *Parser) parseElse(indent int) (*ast.BlockStatement, error) {
	p.nextToken() // consume else
	if err := p.expectColon("else"); err != nil {
		return nil, err
	}
	return p.parseBlock(indent)
}

// parseBlock reads the suite following a ':'. The suite is either one simple
// statement on the same line or the following lines indented deeper than
// parentIndent, all sharing the indentation of the first of them.
func (p *Parser) parseBlock(parentIndent int) (*ast.BlockStatement, error) {
	block := &ast.BlockStatement{Token: p.curToken}

	if !p.curTokenKindIs(lexer.TokenNewline) {
		stmt, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		if err := p.expectEndOfLine(); err != nil {
			return nil, err
		}
		block.Body = []ast.Statement{stmt}
		return block, nil
	}

	p.nextToken() // consume the newline
	if p.curTokenKindIs(lexer.TokenEOF) || p.curToken.Indent <= parentIndent {
		return nil, p.error(p.curToken, "expected an indented block")
	}

	block.Token = p.curToken
	blockIndent := p.curToken.Indent

	for {
		stmt, err := p.parseStatement(blockIndent)
		if err != nil {
			return nil, err
		}
		block.Body = append(block.Body, stmt)

		if p.curTokenKindIs(lexer.TokenEOF) {
			break
		}

		indent := p.curToken.Indent
		if indent == blockIndent {
			continue
		}
		if indent > blockIndent {
			return nil, p.error(p.curToken, "unexpected indent")
		}
		if indent > parentIndent {
			return nil, p.error(p.curToken, "unindent does not match any outer indentation level")
		}
		break
	}

	return block, nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseComparison()
}

// parseComparison collects a whole relational chain into one node so every
// operand is evaluated at most once.
func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseInfix(SUM)
	if err != nil {
		return nil, err
	}

	if p.curPrecedence() != COMPARE {
		return left, nil
	}

	chain := &ast.CompareChain{
		Token:    p.curToken,
		Operands: []ast.Expression{left},
	}

	for p.curPrecedence() == COMPARE {
		chain.Operators = append(chain.Operators, lexer.CompareOperators[p.curToken.Kind])
		p.nextToken()

		right, err := p.parseInfix(SUM)
		if err != nil {
			return nil, err
		}
		chain.Operands = append(chain.Operands, right)
	}

	return chain, nil
}

// parseInfix handles the left associative levels SUM and PRODUCT
func (p *Parser) parseInfix(precedence int) (ast.Expression, error) {
	operand := func() (ast.Expression, error) {
		if precedence == PRODUCT {
			return p.parseUnary()
		}
		return p.parseInfix(precedence + 1)
	}

	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.curPrecedence() == precedence {
		expr := &ast.BinaryExpression{
			Token:    p.curToken,
			Operator: lexer.BinOperators[p.curToken.Kind],
			Left:     left,
		}
		p.nextToken()

		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr.Right = right
		left = expr
	}

	return left, nil
}

// a sign binds looser than ** on its right, -2 ** 2 is -(2 ** 2)
func (p *Parser) parseUnary() (ast.Expression, error) {
	op, ok := lexer.UnaryOperators[p.curToken.Kind]
	if !ok {
		return p.parsePower()
	}

	expr := &ast.UnaryExpression{Token: p.curToken, Operator: op}
	p.nextToken()

	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	expr.Right = right
	return expr, nil
}

// ** is right associative and its exponent may carry a sign, 2 ** -1
func (p *Parser) parsePower() (ast.Expression, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	if !p.curTokenKindIs(lexer.TokenPower) {
		return base, nil
	}

	expr := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: lexer.BinOperators[p.curToken.Kind],
		Left:     base,
	}
	p.nextToken()

	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	expr.Right = exponent
	return expr, nil
}

func (p *Parser) parseAtom() (ast.Expression, error) {
	tok := p.curToken

	switch tok.Kind {
	case lexer.TokenIdentifier:
		p.nextToken()
		return &ast.Identifier{Token: tok, Value: tok.Text}, nil

	case lexer.TokenInt:
		value, ok := object.ParseInteger(tok.Text)
		if !ok {
			return nil, p.error(tok, "invalid integer literal %s", tok.Text)
		}
		p.nextToken()
		return &ast.Literal{Token: tok, Value: value}, nil

	case lexer.TokenFloat:
		value, ok := object.ParseFloat(tok.Text)
		if !ok {
			return nil, p.error(tok, "invalid float literal %s", tok.Text)
		}
		p.nextToken()
		return &ast.Literal{Token: tok, Value: value}, nil

	case lexer.TokenString:
		p.nextToken()
		return &ast.Literal{Token: tok, Value: &object.String{Value: tok.Text}}, nil

	case lexer.TokenTrue:
		p.nextToken()
		return &ast.Literal{Token: tok, Value: object.TRUE}, nil

	case lexer.TokenFalse:
		p.nextToken()
		return &ast.Literal{Token: tok, Value: object.FALSE}, nil

	case lexer.TokenNone:
		p.nextToken()
		return &ast.Literal{Token: tok, Value: object.NONE}, nil

	case lexer.TokenBraceOpen:
		return p.parseGroupedExpression()

	case lexer.TokenBraceClose:
		return nil, p.error(tok, "unmatched ')'")
	}

	return nil, p.error(tok, "invalid syntax: expected an expression, found %s", describe(tok))
}

const msgNeverClosed = "'(' was never closed"

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	open := p.curToken
	p.nextToken()

	expr, err := p.parseExpression()
	if err != nil {
		// the line ended before the group was complete, an inner group
		// already reported keeps the innermost paren
		if p.curTokenKindIs(lexer.TokenNewline) || p.curTokenKindIs(lexer.TokenEOF) {
			if e, ok := err.(*internals.Error); ok && e.Msg == msgNeverClosed {
				return nil, err
			}
			return nil, p.error(open, msgNeverClosed)
		}
		return nil, err
	}

	if !p.curTokenKindIs(lexer.TokenBraceClose) {
		if p.curTokenKindIs(lexer.TokenNewline) || p.curTokenKindIs(lexer.TokenEOF) {
			return nil, p.error(open, msgNeverClosed)
		}
		return nil, p.error(p.curToken, "invalid syntax: expected ')', found %s", describe(p.curToken))
	}
	p.nextToken()

	return expr, nil
}
