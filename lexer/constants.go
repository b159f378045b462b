package lexer

type Operator = string

// tab stops used when measuring indentation
const TabWidth = 8

var (
	Keywords = map[string]TokenKind{
		"if":       TokenIf,
		"elif":     TokenElif,
		"else":     TokenElse,
		"while":    TokenWhile,
		"break":    TokenBreak,
		"continue": TokenContinue,
		"True":     TokenTrue,
		"False":    TokenFalse,
		"None":     TokenNone,
	}

	// operators sorted longest first, the lexer takes the first prefix match
	Operators = []Operator{
		TokenAssignPower,
		TokenAssignDoubleSlash,
		TokenPower,
		TokenDoubleSlash,
		TokenEquals,
		TokenNotEquals,
		TokenGreaterOrEqual,
		TokenLessOrEqual,
		TokenAssignPlus,
		TokenAssignMinus,
		TokenAssignMultiply,
		TokenAssignSlash,
		TokenAssignModule,
		TokenPlus,
		TokenMinus,
		TokenMultiply,
		TokenSlash,
		TokenModule,
		TokenGreater,
		TokenLess,
		TokenAssign,
		TokenBraceOpen,
		TokenBraceClose,
		TokenColon,
	}

	BinOperators = map[TokenKind]Operator{
		TokenPlus:        "+",
		TokenMinus:       "-",
		TokenMultiply:    "*",
		TokenSlash:       "/",
		TokenDoubleSlash: "//",
		TokenModule:      "%",
		TokenPower:       "**",
	}

	CompareOperators = map[TokenKind]Operator{
		TokenEquals:         "==",
		TokenNotEquals:      "!=",
		TokenGreater:        ">",
		TokenGreaterOrEqual: ">=",
		TokenLess:           "<",
		TokenLessOrEqual:    "<=",
	}

	UnaryOperators = map[TokenKind]Operator{
		TokenMinus: "-",
		TokenPlus:  "+",
	}

	// augmented assignments mapped to the binary operator they apply
	AssignOperators = map[TokenKind]Operator{
		TokenAssign:            "",
		TokenAssignPlus:        "+",
		TokenAssignMinus:       "-",
		TokenAssignMultiply:    "*",
		TokenAssignPower:       "**",
		TokenAssignSlash:       "/",
		TokenAssignDoubleSlash: "//",
		TokenAssignModule:      "%",
	}
)
