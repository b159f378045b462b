package object

import (
	"math"
	"math/big"
	"strings"

	"minipy/internals"
)

const (
	// longest string produced by repetition
	MaxRepeatLen = 1 << 30
	// widest integer produced by **, in bits
	MaxPowerBits = 1 << 28
)

// Truthy reports the truth value used by if/while conditions
func Truthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Boolean:
		return obj.Value
	case *Integer:
		return obj.Value.Sign() != 0
	case *Float:
		return obj.Value != 0
	case *String:
		return obj.Value != ""
	default:
		return false
	}
}

// bool takes part in arithmetic as 0 / 1
func isNumeric(obj Object) bool {
	switch obj.(type) {
	case *Integer, *Float, *Boolean:
		return true
	}
	return false
}

func asBigInt(obj Object) (*big.Int, bool) {
	switch obj := obj.(type) {
	case *Integer:
		return obj.Value, true
	case *Boolean:
		if obj.Value {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	}
	return nil, false
}

func asFloat(obj Object) (float64, error) {
	if f, ok := obj.(*Float); ok {
		return f.Value, nil
	}
	i, _ := asBigInt(obj)
	if i.IsInt64() {
		return float64(i.Int64()), nil
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	if math.IsInf(f, 0) {
		return 0, internals.NewError(internals.OverflowError, "int too large to convert to float")
	}
	return f, nil
}

func unsupported(op string, left, right Object) error {
	return internals.NewError(internals.TypeError,
		"unsupported operand type(s) for %s: '%s' and '%s'", op, left.Type(), right.Type())
}

// BinaryOp applies one of + - * / // % ** to two values
func BinaryOp(op string, left, right Object) (Object, error) {
	switch {
	case isNumeric(left) && isNumeric(right):
		_, lf := left.(*Float)
		_, rf := right.(*Float)
		if lf || rf {
			return floatOp(op, left, right)
		}
		l, _ := asBigInt(left)
		r, _ := asBigInt(right)
		return integerOp(op, l, r)

	case op == "+" && left.Type() == STRING_OBJ:
		if right, ok := right.(*String); ok {
			return &String{Value: left.(*String).Value + right.Value}, nil
		}
		return nil, internals.NewError(internals.TypeError,
			"can only concatenate str (not \"%s\") to str", right.Type())

	case op == "*" && (left.Type() == STRING_OBJ || right.Type() == STRING_OBJ):
		str, count := left, right
		if str.Type() != STRING_OBJ {
			str, count = right, left
		}
		n, ok := asBigInt(count)
		if !ok {
			return nil, internals.NewError(internals.TypeError,
				"can't multiply sequence by non-int of type '%s'", count.Type())
		}
		return repeat(str.(*String).Value, n)
	}

	return nil, unsupported(op, left, right)
}

func repeat(s string, n *big.Int) (Object, error) {
	if n.Sign() <= 0 || s == "" {
		return &String{Value: ""}, nil
	}
	if !n.IsInt64() || n.Int64() > MaxRepeatLen/int64(len(s)) {
		return nil, internals.NewError(internals.OverflowError, "repeated string is too long")
	}
	return &String{Value: strings.Repeat(s, int(n.Int64()))}, nil
}

func integerOp(op string, l, r *big.Int) (Object, error) {
	switch op {
	case "+":
		return &Integer{Value: new(big.Int).Add(l, r)}, nil
	case "-":
		return &Integer{Value: new(big.Int).Sub(l, r)}, nil
	case "*":
		return &Integer{Value: new(big.Int).Mul(l, r)}, nil
	case "/":
		if r.Sign() == 0 {
			return nil, internals.NewError(internals.ZeroDivisionError, "division by zero")
		}
		f, _ := new(big.Rat).SetFrac(l, r).Float64()
		if math.IsInf(f, 0) {
			return nil, internals.NewError(internals.OverflowError, "integer division result too large for a float")
		}
		return &Float{Value: f}, nil
	case "//":
		if r.Sign() == 0 {
			return nil, internals.NewError(internals.ZeroDivisionError, "integer division or modulo by zero")
		}
		q, _ := floorDivMod(l, r)
		return &Integer{Value: q}, nil
	case "%":
		if r.Sign() == 0 {
			return nil, internals.NewError(internals.ZeroDivisionError, "integer modulo by zero")
		}
		_, m := floorDivMod(l, r)
		return &Integer{Value: m}, nil
	case "**":
		if r.Sign() >= 0 {
			if l.CmpAbs(big.NewInt(1)) > 0 && (!r.IsInt64() || r.Int64() > MaxPowerBits/int64(l.BitLen())) {
				return nil, internals.NewError(internals.OverflowError, "integer exponentiation result too large")
			}
			return &Integer{Value: new(big.Int).Exp(l, r, nil)}, nil
		}
		if l.Sign() == 0 {
			return nil, internals.NewError(internals.ZeroDivisionError, "0.0 cannot be raised to a negative power")
		}
		// negative exponents leave the integers
		base, err := asFloat(&Integer{Value: l})
		if err != nil {
			return nil, err
		}
		exp, err := asFloat(&Integer{Value: r})
		if err != nil {
			return nil, err
		}
		return floatPow(base, exp)
	}
	return nil, unsupported(op, &Integer{Value: l}, &Integer{Value: r})
}

// quotient rounded toward negative infinity, remainder takes the divisor sign
func floorDivMod(l, r *big.Int) (*big.Int, *big.Int) {
	q, m := new(big.Int).QuoRem(l, r, new(big.Int))
	if m.Sign() != 0 && m.Sign() != r.Sign() {
		q.Sub(q, big.NewInt(1))
		m.Add(m, r)
	}
	return q, m
}

func floatOp(op string, left, right Object) (Object, error) {
	l, err := asFloat(left)
	if err != nil {
		return nil, err
	}
	r, err := asFloat(right)
	if err != nil {
		return nil, err
	}

	switch op {
	case "+":
		return &Float{Value: l + r}, nil
	case "-":
		return &Float{Value: l - r}, nil
	case "*":
		return &Float{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, internals.NewError(internals.ZeroDivisionError, "float division by zero")
		}
		return &Float{Value: l / r}, nil
	case "//":
		if r == 0 {
			return nil, internals.NewError(internals.ZeroDivisionError, "float floor division by zero")
		}
		q, _ := floatDivMod(l, r)
		return &Float{Value: q}, nil
	case "%":
		if r == 0 {
			return nil, internals.NewError(internals.ZeroDivisionError, "float modulo by zero")
		}
		_, m := floatDivMod(l, r)
		return &Float{Value: m}, nil
	case "**":
		return floatPow(l, r)
	}
	return nil, unsupported(op, left, right)
}

func floatDivMod(l, r float64) (float64, float64) {
	mod := math.Mod(l, r)
	div := (l - mod) / r
	if mod != 0 {
		if (r < 0) != (mod < 0) {
			mod += r
			div -= 1
		}
	} else {
		mod = math.Copysign(0, r)
	}

	var floorDiv float64
	if div != 0 {
		floorDiv = math.Floor(div)
		if div-floorDiv > 0.5 {
			floorDiv += 1
		}
	} else {
		floorDiv = math.Copysign(0, l/r)
	}
	return floorDiv, mod
}

func floatPow(base, exp float64) (Object, error) {
	if base == 0 && exp < 0 {
		return nil, internals.NewError(internals.ZeroDivisionError, "0.0 cannot be raised to a negative power")
	}
	if base < 0 && exp != math.Trunc(exp) && !math.IsInf(exp, 0) {
		return nil, internals.NewError(internals.TypeError, "negative number cannot be raised to a fractional power")
	}
	result := math.Pow(base, exp)
	if math.IsInf(result, 0) && !math.IsInf(base, 0) && !math.IsInf(exp, 0) {
		return nil, internals.NewError(internals.OverflowError, "(34, 'Numerical result out of range')")
	}
	return &Float{Value: result}, nil
}

// UnaryOp applies a sign to a numeric value
func UnaryOp(op string, right Object) (Object, error) {
	switch right := right.(type) {
	case *Float:
		if op == "-" {
			return &Float{Value: -right.Value}, nil
		}
		return right, nil
	case *Integer, *Boolean:
		v, _ := asBigInt(right)
		if op == "-" {
			return &Integer{Value: new(big.Int).Neg(v)}, nil
		}
		return &Integer{Value: v}, nil
	}
	return nil, internals.NewError(internals.TypeError, "bad operand type for unary %s: '%s'", op, right.Type())
}

// Compare evaluates a single relational operator
func Compare(op string, left, right Object) (bool, error) {
	switch {
	case isNumeric(left) && isNumeric(right):
		cmp, ordered := compareNumbers(left, right)
		if !ordered {
			// nan compares unequal to everything
			return op == "!=", nil
		}
		return cmpResult(op, cmp), nil

	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return cmpResult(op, strings.Compare(left.(*String).Value, right.(*String).Value)), nil

	case left.Type() == NONE_OBJ && right.Type() == NONE_OBJ && (op == "==" || op == "!="):
		return op == "==", nil
	}

	return false, internals.NewError(internals.TypeError,
		"'%s' not supported between instances of '%s' and '%s'", op, left.Type(), right.Type())
}

func cmpResult(op string, cmp int) bool {
	switch op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

// ints and floats are compared exactly, never through a lossy conversion.
// ordered is false when a nan is involved
func compareNumbers(left, right Object) (cmp int, ordered bool) {
	l, lok := asBigInt(left)
	r, rok := asBigInt(right)
	if lok && rok {
		return l.Cmp(r), true
	}

	lf, ok := exactFloat(left)
	if !ok {
		return 0, false
	}
	rf, ok := exactFloat(right)
	if !ok {
		return 0, false
	}
	return lf.Cmp(rf), true
}

func exactFloat(obj Object) (*big.Float, bool) {
	if f, ok := obj.(*Float); ok {
		if math.IsNaN(f.Value) {
			return nil, false
		}
		return big.NewFloat(f.Value), true
	}
	i, _ := asBigInt(obj)
	return new(big.Float).SetInt(i), true
}
