package lexer

type TokenKind = string

const (

	// Keywords
	TokenIf       TokenKind = "if"
	TokenElif     TokenKind = "elif"
	TokenElse     TokenKind = "else"
	TokenWhile    TokenKind = "while"
	TokenBreak    TokenKind = "break"
	TokenContinue TokenKind = "continue"
	TokenTrue     TokenKind = "True"
	TokenFalse    TokenKind = "False"
	TokenNone     TokenKind = "None"

	// Units
	TokenBraceOpen  TokenKind = "("
	TokenBraceClose TokenKind = ")"
	TokenColon      TokenKind = ":"

	// Arithmetic Operators
	TokenMinus       TokenKind = "-"
	TokenPlus        TokenKind = "+"
	TokenMultiply    TokenKind = "*"
	TokenPower       TokenKind = "**"
	TokenSlash       TokenKind = "/"
	TokenDoubleSlash TokenKind = "//"
	TokenModule      TokenKind = "%"

	// Comparison Operators
	TokenEquals         TokenKind = "=="
	TokenNotEquals      TokenKind = "!="
	TokenGreater        TokenKind = ">"
	TokenLess           TokenKind = "<"
	TokenGreaterOrEqual TokenKind = ">="
	TokenLessOrEqual    TokenKind = "<="

	// Bind Operators
	TokenAssign            TokenKind = "="
	TokenAssignPlus        TokenKind = "+="
	TokenAssignMinus       TokenKind = "-="
	TokenAssignMultiply    TokenKind = "*="
	TokenAssignPower       TokenKind = "**="
	TokenAssignSlash       TokenKind = "/="
	TokenAssignDoubleSlash TokenKind = "//="
	TokenAssignModule      TokenKind = "%="

	// Var Naming
	TokenIdentifier TokenKind = "identifier"

	// Literals
	TokenInt    TokenKind = "int"
	TokenFloat  TokenKind = "float"
	TokenString TokenKind = "string"

	// end of a physical line holding at least one token
	TokenNewline TokenKind = "newline"

	// EOF
	TokenEOF TokenKind = "end of input"
)

type LiteralToken struct {
	Text string
	Kind TokenKind
}

type Token struct {
	LiteralToken
	Row int
	Col int
	// leading whitespace width of the physical line the token sits on
	Indent int
}

type Lexer struct {
	Content []rune
	// help mainly in error detection when having multi file execution
	FilePath string
	Row      int
	Col      int
	Cur      int

	lineStart  bool
	lineIndent int
	lineTokens int
}
