package object

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

type ObjectType string

// type names as the language reports them in error messages
const (
	INTEGER_OBJ ObjectType = "int"
	FLOAT_OBJ   ObjectType = "float"
	STRING_OBJ  ObjectType = "str"
	BOOLEAN_OBJ ObjectType = "bool"
	NONE_OBJ    ObjectType = "NoneType"
)

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NONE  = &None{}
)

type Object interface {
	Type() ObjectType
	// Inspect returns the canonical representation printed by the REPL
	Inspect() string
}

// Integer is unbounded, Value must not be mutated once wrapped
type Integer struct {
	Value *big.Int
}

func NewInteger(v int64) *Integer {
	return &Integer{Value: big.NewInt(v)}
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return i.Value.String() }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return formatFloat(f.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return quoteString(s.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "True"
	}
	return "False"
}

type None struct{}

func (n *None) Type() ObjectType { return NONE_OBJ }
func (n *None) Inspect() string  { return "None" }

func NativeBoolean(val bool) *Boolean {
	if val {
		return TRUE
	} else {
		return FALSE
	}
}

// ParseInteger reads a decimal literal, '_' separators allowed
func ParseInteger(text string) (*Integer, bool) {
	v, ok := new(big.Int).SetString(strings.ReplaceAll(text, "_", ""), 10)
	if !ok {
		return nil, false
	}
	return &Integer{Value: v}, true
}

func ParseFloat(text string) (*Float, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		// out of range literals still parse to +-inf
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return nil, false
		}
	}
	return &Float{Value: v}, true
}

// shortest round-trip digits, scientific outside 1e-4 <= |x| < 1e16
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}

func quoteString(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var out strings.Builder
	out.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			out.WriteRune('\\')
			out.WriteRune(r)
		case r == '\n':
			out.WriteString(`\n`)
		case r == '\t':
			out.WriteString(`\t`)
		case r == '\r':
			out.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			out.WriteString(`\x`)
			out.WriteString(hex(int64(r), 2))
		case r < 0x80 || unicode.IsPrint(r):
			out.WriteRune(r)
		case r <= 0xff:
			out.WriteString(`\x`)
			out.WriteString(hex(int64(r), 2))
		case r <= 0xffff:
			out.WriteString(`\u`)
			out.WriteString(hex(int64(r), 4))
		default:
			out.WriteString(`\U`)
			out.WriteString(hex(int64(r), 8))
		}
	}
	out.WriteRune(quote)
	return out.String()
}

func hex(v int64, width int) string {
	digits := strconv.FormatInt(v, 16)
	if pad := width - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return digits
}
