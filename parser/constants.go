package parser

import "minipy/lexer"

// binding strength, lowest first
const (
	_ int = iota
	LOWEST
	COMPARE // == != < > <= >=
	SUM     // + -
	PRODUCT // * / // %
	PREFIX  // -X +X
	POWER   // **
)

var precedences = map[lexer.TokenKind]int{
	lexer.TokenEquals:         COMPARE,
	lexer.TokenNotEquals:      COMPARE,
	lexer.TokenLess:           COMPARE,
	lexer.TokenLessOrEqual:    COMPARE,
	lexer.TokenGreater:        COMPARE,
	lexer.TokenGreaterOrEqual: COMPARE,
	lexer.TokenPlus:           SUM,
	lexer.TokenMinus:          SUM,
	lexer.TokenMultiply:       PRODUCT,
	lexer.TokenSlash:          PRODUCT,
	lexer.TokenDoubleSlash:    PRODUCT,
	lexer.TokenModule:         PRODUCT,
	lexer.TokenPower:          POWER,
}
