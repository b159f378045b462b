package object

import (
	"math"
	"testing"

	"github.com/go-test/deep"

	"minipy/internals"
)

func integer(text string) *Integer {
	v, ok := ParseInteger(text)
	if !ok {
		panic("bad integer literal " + text)
	}
	return v
}

func float(v float64) *Float { return &Float{Value: v} }
func str(v string) *String   { return &String{Value: v} }

func TestInspect(t *testing.T) {
	tests := []struct {
		input    Object
		expected string
	}{
		{NewInteger(42), "42"},
		{NewInteger(-7), "-7"},
		{integer("1_000_000"), "1000000"},
		{integer("100000000000000000000"), "100000000000000000000"},
		{float(0.4), "0.4"},
		{float(1), "1.0"},
		{float(0.25), "0.25"},
		{float(0.30000000000000004), "0.30000000000000004"},
		{float(1e16), "1e+16"},
		{float(1e-5), "1e-05"},
		{float(0.0001), "0.0001"},
		{float(123456789012345), "123456789012345.0"},
		{float(math.Copysign(0, -1)), "-0.0"},
		{float(math.Inf(1)), "inf"},
		{float(math.Inf(-1)), "-inf"},
		{float(math.NaN()), "nan"},
		{str("ab"), "'ab'"},
		{str(""), "''"},
		{str("it's"), `"it's"`},
		{str(`a'b"c`), `'a\'b"c'`},
		{str("a\nb\t"), `'a\nb\t'`},
		{str(`back\slash`), `'back\\slash'`},
		{str("\x01"), `'\x01'`},
		{str("héllo"), "'héllo'"},
		{TRUE, "True"},
		{FALSE, "False"},
		{NONE, "None"},
	}

	for _, tt := range tests {
		if got := tt.input.Inspect(); got != tt.expected {
			t.Errorf("expected=%s, got=%s", tt.expected, got)
		}
	}
}

func TestParseFloatOutOfRange(t *testing.T) {
	f, ok := ParseFloat("1e400")
	if !ok {
		t.Fatal("expected 1e400 to parse")
	}
	if !math.IsInf(f.Value, 1) {
		t.Errorf("expected +inf, got %v", f.Value)
	}
}

func TestBinaryOp(t *testing.T) {
	tests := []struct {
		op       string
		left     Object
		right    Object
		expected string
	}{
		{"+", NewInteger(2), NewInteger(3), "5"},
		{"-", NewInteger(2), NewInteger(3), "-1"},
		{"*", NewInteger(6), NewInteger(7), "42"},
		{"/", NewInteger(2), NewInteger(5), "0.4"},
		{"/", NewInteger(4), NewInteger(2), "2.0"},
		{"//", NewInteger(17), NewInteger(9), "1"},
		{"//", float(17), NewInteger(9), "1.0"},
		{"//", NewInteger(-7), NewInteger(2), "-4"},
		{"%", NewInteger(-7), NewInteger(2), "1"},
		{"%", NewInteger(7), NewInteger(-2), "-1"},
		{"//", float(-7.5), NewInteger(2), "-4.0"},
		{"%", float(7.5), NewInteger(-2), "-0.5"},
		{"%", float(6), NewInteger(3), "0.0"},
		{"**", NewInteger(2), NewInteger(10), "1024"},
		{"**", NewInteger(2), NewInteger(-2), "0.25"},
		{"**", NewInteger(-2), NewInteger(2), "4"},
		{"**", NewInteger(2), float(0.5), "1.4142135623730951"},
		{"**", NewInteger(10), NewInteger(20), "100000000000000000000"},
		{"**", NewInteger(1), integer("100000000000000000000"), "1"},
		{"+", NewInteger(1), float(2.5), "3.5"},
		{"+", float(0.1), float(0.2), "0.30000000000000004"},
		{"+", TRUE, NewInteger(1), "2"},
		{"+", TRUE, TRUE, "2"},
		{"/", TRUE, NewInteger(2), "0.5"},
		{"+", str("a"), str("b"), "'ab'"},
		{"*", str("ab"), NewInteger(3), "'ababab'"},
		{"*", NewInteger(3), str("ab"), "'ababab'"},
		{"*", str("ab"), NewInteger(0), "''"},
		{"*", str("ab"), NewInteger(-1), "''"},
		{"*", TRUE, str("ab"), "'ab'"},
		{"*", float(1e308), NewInteger(10), "inf"},
	}

	for _, tt := range tests {
		result, err := BinaryOp(tt.op, tt.left, tt.right)
		if err != nil {
			t.Errorf("%s %s %s: unexpected error: %v", tt.left.Inspect(), tt.op, tt.right.Inspect(), err)
			continue
		}
		if got := result.Inspect(); got != tt.expected {
			t.Errorf("%s %s %s: expected=%s, got=%s", tt.left.Inspect(), tt.op, tt.right.Inspect(), tt.expected, got)
		}
	}
}

func TestBinaryOpErrors(t *testing.T) {
	tests := []struct {
		op      string
		left    Object
		right   Object
		kind    internals.Kind
		message string
	}{
		{"+", str("a"), NewInteger(1), internals.TypeError, `can only concatenate str (not "int") to str`},
		{"+", NewInteger(1), str("a"), internals.TypeError, "unsupported operand type(s) for +: 'int' and 'str'"},
		{"-", str("a"), str("b"), internals.TypeError, "unsupported operand type(s) for -: 'str' and 'str'"},
		{"+", NONE, NewInteger(1), internals.TypeError, "unsupported operand type(s) for +: 'NoneType' and 'int'"},
		{"*", str("a"), float(1.5), internals.TypeError, "can't multiply sequence by non-int of type 'float'"},
		{"*", str("a"), str("b"), internals.TypeError, "can't multiply sequence by non-int of type 'str'"},
		{"/", NewInteger(1), NewInteger(0), internals.ZeroDivisionError, "division by zero"},
		{"//", NewInteger(1), NewInteger(0), internals.ZeroDivisionError, "integer division or modulo by zero"},
		{"%", NewInteger(1), NewInteger(0), internals.ZeroDivisionError, "integer modulo by zero"},
		{"/", float(1), NewInteger(0), internals.ZeroDivisionError, "float division by zero"},
		{"//", float(1), NewInteger(0), internals.ZeroDivisionError, "float floor division by zero"},
		{"%", float(1), float(0), internals.ZeroDivisionError, "float modulo by zero"},
		{"/", NewInteger(1), FALSE, internals.ZeroDivisionError, "division by zero"},
		{"**", NewInteger(0), NewInteger(-1), internals.ZeroDivisionError, "0.0 cannot be raised to a negative power"},
		{"**", float(0), float(-2), internals.ZeroDivisionError, "0.0 cannot be raised to a negative power"},
		{"**", float(2), NewInteger(10000), internals.OverflowError, "(34, 'Numerical result out of range')"},
		{"**", float(-8), float(0.5), internals.TypeError, "negative number cannot be raised to a fractional power"},
		{"*", str("ab"), integer("1000000000000"), internals.OverflowError, "repeated string is too long"},
	}

	for _, tt := range tests {
		_, err := BinaryOp(tt.op, tt.left, tt.right)
		if err == nil {
			t.Errorf("%s %s %s: expected an error", tt.left.Inspect(), tt.op, tt.right.Inspect())
			continue
		}
		langErr, ok := err.(*internals.Error)
		if !ok {
			t.Errorf("expected *internals.Error, got %T", err)
			continue
		}
		if diff := deep.Equal(langErr, &internals.Error{Kind: tt.kind, Msg: tt.message}); diff != nil {
			t.Errorf("%s %s %s: %v", tt.left.Inspect(), tt.op, tt.right.Inspect(), diff)
		}
	}
}

func TestUnaryOp(t *testing.T) {
	tests := []struct {
		op       string
		right    Object
		expected string
	}{
		{"-", NewInteger(5), "-5"},
		{"-", NewInteger(-5), "5"},
		{"+", NewInteger(5), "5"},
		{"-", float(2.5), "-2.5"},
		{"+", float(2.5), "2.5"},
		{"-", TRUE, "-1"},
		{"+", TRUE, "1"},
		{"-", FALSE, "0"},
	}

	for _, tt := range tests {
		result, err := UnaryOp(tt.op, tt.right)
		if err != nil {
			t.Errorf("%s%s: unexpected error: %v", tt.op, tt.right.Inspect(), err)
			continue
		}
		if got := result.Inspect(); got != tt.expected {
			t.Errorf("%s%s: expected=%s, got=%s", tt.op, tt.right.Inspect(), tt.expected, got)
		}
	}

	_, err := UnaryOp("-", str("a"))
	if !internals.IsKind(err, internals.TypeError) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if err.(*internals.Error).Msg != "bad operand type for unary -: 'str'" {
		t.Errorf("unexpected message %q", err.(*internals.Error).Msg)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		op       string
		left     Object
		right    Object
		expected bool
	}{
		{"<", NewInteger(1), NewInteger(2), true},
		{">", NewInteger(1), NewInteger(2), false},
		{"==", NewInteger(1), float(1), true},
		{"<=", float(1.5), NewInteger(2), true},
		{">=", NewInteger(2), NewInteger(2), true},
		{"!=", NewInteger(2), NewInteger(2), false},
		{"==", TRUE, NewInteger(1), true},
		{"<", FALSE, TRUE, true},
		{"<", str("a"), str("b"), true},
		{"<=", str("b"), str("a"), false},
		{"<", str("ab"), str("abc"), true},
		{"==", str("ab"), str("ab"), true},
		{"==", NONE, NONE, true},
		{"!=", NONE, NONE, false},
		{"==", float(math.NaN()), float(math.NaN()), false},
		{"!=", float(math.NaN()), NewInteger(1), true},
		{"<", float(math.NaN()), NewInteger(1), false},
		{"==", integer("18446744073709551616"), float(18446744073709551616), true},
		{"==", integer("9007199254740993"), float(9007199254740992), false},
		{">", integer("9007199254740993"), float(9007199254740992), true},
		{"<", integer("100000000000000000000000"), float(math.Inf(1)), true},
	}

	for _, tt := range tests {
		got, err := Compare(tt.op, tt.left, tt.right)
		if err != nil {
			t.Errorf("%s %s %s: unexpected error: %v", tt.left.Inspect(), tt.op, tt.right.Inspect(), err)
			continue
		}
		if got != tt.expected {
			t.Errorf("%s %s %s: expected=%t, got=%t", tt.left.Inspect(), tt.op, tt.right.Inspect(), tt.expected, got)
		}
	}
}

func TestCompareErrors(t *testing.T) {
	tests := []struct {
		op      string
		left    Object
		right   Object
		message string
	}{
		{"<", str("a"), NewInteger(1), "'<' not supported between instances of 'str' and 'int'"},
		{"==", NewInteger(1), str("a"), "'==' not supported between instances of 'int' and 'str'"},
		{"<", NONE, NONE, "'<' not supported between instances of 'NoneType' and 'NoneType'"},
		{"!=", NONE, NewInteger(0), "'!=' not supported between instances of 'NoneType' and 'int'"},
	}

	for _, tt := range tests {
		_, err := Compare(tt.op, tt.left, tt.right)
		if !internals.IsKind(err, internals.TypeError) {
			t.Errorf("%s %s %s: expected TypeError, got %v", tt.left.Inspect(), tt.op, tt.right.Inspect(), err)
			continue
		}
		if msg := err.(*internals.Error).Msg; msg != tt.message {
			t.Errorf("expected=%q, got=%q", tt.message, msg)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		input    Object
		expected bool
	}{
		{NewInteger(0), false},
		{NewInteger(-3), true},
		{float(0), false},
		{float(0.1), true},
		{str(""), false},
		{str("a"), true},
		{TRUE, true},
		{FALSE, false},
		{NONE, false},
	}

	for _, tt := range tests {
		if got := Truthy(tt.input); got != tt.expected {
			t.Errorf("%s: expected=%t, got=%t", tt.input.Inspect(), tt.expected, got)
		}
	}
}

func TestEnvironment(t *testing.T) {
	env := NewEnvironment()

	if _, ok := env.Resolve("a"); ok {
		t.Fatal("fresh environment should be empty")
	}

	env.Bind("b", NewInteger(1))
	env.Bind("a", str("x"))
	env.Bind("b", NewInteger(2))

	got, ok := env.Resolve("b")
	if !ok {
		t.Fatal("expected b to be bound")
	}
	if got.Inspect() != "2" {
		t.Errorf("expected rebinding to overwrite, got %s", got.Inspect())
	}

	if diff := deep.Equal(env.Names(), []string{"a", "b"}); diff != nil {
		t.Error(diff)
	}
}

func TestNativeBooleanIsSingleton(t *testing.T) {
	if NativeBoolean(true) != TRUE || NativeBoolean(false) != FALSE {
		t.Error("expected NativeBoolean to return the shared singletons")
	}
}
