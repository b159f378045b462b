package lexer

import (
	"strings"
	"unicode"

	"minipy/internals"
)

func NewLexer(filePath string, content string) *Lexer {
	lexer := Lexer{
		Content:   []rune(content),
		FilePath:  filePath,
		Row:       1,
		Col:       1,
		Cur:       0,
		lineStart: true,
	}
	return &lexer
}

func (l *Lexer) readChar() {
	if l.Cur >= len(l.Content) {
		return
	}

	char := l.Content[l.Cur]

	switch char {
	case '\n':
		l.Row++
		l.Col = 1
	default:
		l.Col++
	}

	// increment to deal with the next char
	l.Cur++
}

// peekChar looks offset runes ahead of the cursor, 0 past the end
func (l *Lexer) peekChar(offset int) rune {
	idx := l.Cur + offset
	if idx < len(l.Content) {
		return l.Content[idx]
	}
	return 0
}

func (l *Lexer) NextToken() (Token, error) {
	for {
		if l.lineStart {
			l.measureIndent()
		}

		l.skipWhiteSpace()
		l.skipComment()

		if l.Cur >= len(l.Content) {
			if l.lineTokens > 0 {
				// close the last line even without a trailing \n
				return l.newlineToken(l.Row, l.Col), nil
			}
			return Token{
				LiteralToken: LiteralToken{Kind: TokenEOF, Text: ""},
				Row:          l.Row,
				Col:          l.Col,
			}, nil
		}

		if l.Content[l.Cur] != '\n' {
			break
		}

		row, col := l.Row, l.Col
		l.readChar()
		l.lineStart = true
		if l.lineTokens > 0 {
			return l.newlineToken(row, col), nil
		}
		// blank or comment only line, no token for it
	}

	char := l.Content[l.Cur]

	var (
		token Token
		err   error
	)

	switch {
	case isDigit(char) || (char == '.' && isDigit(l.peekChar(1))):
		token, err = l.readNumber()
	case char == '"' || char == '\'':
		token, err = l.readString()
	case isLetter(char):
		token = l.readIdentifier()
	default:
		token, err = l.readOperator()
	}

	if err != nil {
		return Token{}, err
	}

	l.lineTokens++
	return token, nil
}

func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return tokens, nil
}

func (l *Lexer) newlineToken(row, col int) Token {
	l.lineTokens = 0
	return Token{
		LiteralToken: LiteralToken{Kind: TokenNewline, Text: "\n"},
		Row:          row,
		Col:          col,
		Indent:       l.lineIndent,
	}
}

func isLetter(char rune) bool {
	return unicode.IsLetter(char) || char == '_'
}

// numeric literals are ASCII only
func isDigit(char rune) bool {
	return '0' <= char && char <= '9'
}

func (l *Lexer) readIdentifier() Token {
	startPos := l.Cur

	// save them to return
	row := l.Row
	col := l.Col

	for l.Cur < len(l.Content) {
		char := l.Content[l.Cur]
		if isLetter(char) || unicode.IsDigit(char) {
			l.readChar()
		} else {
			break
		}
	}

	text := string(l.Content[startPos:l.Cur])

	if tokenKind, isKeyword := Keywords[text]; isKeyword {
		return Token{LiteralToken: LiteralToken{
			Kind: tokenKind,
			Text: text,
		}, Row: row, Col: col, Indent: l.lineIndent}
	}

	return Token{
		LiteralToken: LiteralToken{
			Kind: TokenIdentifier,
			Text: text,
		},
		Row:    row,
		Col:    col,
		Indent: l.lineIndent,
	}
}

var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

func (l *Lexer) readString() (Token, error) {
	quote := l.Content[l.Cur]
	row, col := l.Row, l.Col

	l.readChar() // consume the opening quote

	var text strings.Builder
	for {
		if l.Cur >= len(l.Content) || l.Content[l.Cur] == '\n' {
			return Token{}, internals.NewErrorAt(internals.LexError, row, col, "unterminated string literal")
		}

		char := l.Content[l.Cur]
		if char == quote {
			l.readChar() // consume the closing quote
			break
		}

		if char == '\\' && l.Cur+1 < len(l.Content) {
			next := l.Content[l.Cur+1]
			if decoded, ok := escapes[next]; ok {
				text.WriteRune(decoded)
				l.readChar()
				l.readChar()
				continue
			}
			if next == '\n' {
				// escaped line break joins the two lines
				l.readChar()
				l.readChar()
				continue
			}
		}

		text.WriteRune(char)
		l.readChar()
	}

	return Token{
		LiteralToken: LiteralToken{
			Kind: TokenString,
			Text: text.String(),
		},
		Row:    row,
		Col:    col,
		Indent: l.lineIndent,
	}, nil
}

func (l *Lexer) readNumber() (Token, error) {
	startPos := l.Cur
	row := l.Row
	col := l.Col
	kind := TokenInt

	// Read integer part
	l.readDigits()

	if l.Cur < len(l.Content) && l.Content[l.Cur] == '.' {
		kind = TokenFloat
		l.readChar() // consume '.'

		// Read fractional part
		l.readDigits()
	}

	// exponent marker only counts when digits follow it
	if marker := l.peekChar(0); marker == 'e' || marker == 'E' {
		next := l.peekChar(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekChar(2))) {
			kind = TokenFloat
			l.readChar()
			if next == '+' || next == '-' {
				l.readChar()
			}
			l.readDigits()
		}
	}

	if l.Cur < len(l.Content) && isLetter(l.Content[l.Cur]) {
		return Token{}, internals.NewErrorAt(internals.LexError, l.Row, l.Col, "invalid decimal literal")
	}

	return Token{
		LiteralToken: LiteralToken{
			Kind: kind,
			Text: string(l.Content[startPos:l.Cur]),
		},
		Row:    row,
		Col:    col,
		Indent: l.lineIndent,
	}, nil
}

// digits with single '_' separators between them
func (l *Lexer) readDigits() {
	for l.Cur < len(l.Content) {
		char := l.Content[l.Cur]
		if isDigit(char) || (char == '_' && isDigit(l.peekChar(1)) && l.Cur > 0 && isDigit(l.Content[l.Cur-1])) {
			l.readChar()
			continue
		}
		break
	}
}

func (l *Lexer) readOperator() (Token, error) {
	row, col := l.Row, l.Col

	for _, op := range Operators {
		if !l.hasPrefix(op) {
			continue
		}
		for range op {
			l.readChar()
		}
		return Token{
			LiteralToken: LiteralToken{
				Kind: op,
				Text: op,
			},
			Row:    row,
			Col:    col,
			Indent: l.lineIndent,
		}, nil
	}

	char := l.Content[l.Cur]
	return Token{}, internals.NewErrorAt(internals.LexError, row, col, "invalid character '%c' (U+%04X)", char, char)
}

func (l *Lexer) hasPrefix(op string) bool {
	idx := l.Cur
	for _, r := range op {
		if idx >= len(l.Content) || l.Content[idx] != r {
			return false
		}
		idx++
	}
	return true
}

// measureIndent consumes the leading whitespace of a physical line
func (l *Lexer) measureIndent() {
	width := 0
	for l.Cur < len(l.Content) {
		switch l.Content[l.Cur] {
		case ' ':
			width++
		case '\t':
			width = (width/TabWidth + 1) * TabWidth
		case '\f':
			width = 0
		default:
			l.lineIndent = width
			l.lineStart = false
			return
		}
		l.readChar()
	}
	l.lineIndent = width
	l.lineStart = false
}

func (l *Lexer) skipComment() {
	if l.Cur < len(l.Content) && l.Content[l.Cur] == '#' {
		for l.Cur < len(l.Content) && l.Content[l.Cur] != '\n' {
			l.readChar()
		}
	}
}

func (l *Lexer) skipWhiteSpace() {
	for l.Cur < len(l.Content) {
		switch l.Content[l.Cur] {
		case ' ', '\t', '\r', '\f':
			l.readChar()
		default:
			return
		}
	}
}
