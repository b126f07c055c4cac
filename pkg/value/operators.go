package value

import (
	"github.com/cockroachdb/apd/v3"
)

// decimalContext carries the precision used by all arithmetic
var decimalContext = apd.BaseContext.WithPrecision(28)

var truncation = func() *apd.Context {
	c := *decimalContext
	c.Rounding = apd.RoundDown
	return &c
}()

type arithmetic func(d, x, y *apd.Decimal) (apd.Condition, error)

func compute(op arithmetic, x, y *apd.Decimal) Value {
	var d apd.Decimal
	if _, err := op(&d, x, y); err != nil {
		return NewNumber(0)
	}

	return NewDecimal(&d)
}

// Add adds numerically when both operands are numbers, otherwise concatenates
func Add(a, b Value) Value {
	x, xok := TryNumber(a)
	y, yok := TryNumber(b)
	if xok && yok {
		return compute(decimalContext.Add, x, y)
	}

	return StringValue(a.ToString() + b.ToString())
}

func Subtract(a, b Value) Value {
	return compute(decimalContext.Sub, a.ToNumber(), b.ToNumber())
}

func Multiply(a, b Value) Value {
	return compute(decimalContext.Mul, a.ToNumber(), b.ToNumber())
}

// Divide treats a zero divisor as one, returning the dividend
func Divide(a, b Value) Value {
	x, y := a.ToNumber(), b.ToNumber()
	if y.IsZero() {
		return NewDecimal(x)
	}

	var d apd.Decimal
	if _, err := decimalContext.Quo(&d, x, y); err != nil {
		return NewNumber(0)
	}

	return NewDecimal(&d)
}

func Negate(a Value) Value {
	var d apd.Decimal
	d.Neg(a.ToNumber())
	return NewDecimal(&d)
}

// Equal compares the string forms exactly
func Equal(a, b Value) Value {
	return BooleanValue(a.ToString() == b.ToString())
}

func NotEqual(a, b Value) Value {
	return BooleanValue(a.ToString() != b.ToString())
}

func LessThan(a, b Value) Value {
	return BooleanValue(a.ToNumber().Cmp(b.ToNumber()) < 0)
}

func LessThanOrEqual(a, b Value) Value {
	return BooleanValue(a.ToNumber().Cmp(b.ToNumber()) <= 0)
}

func GreaterThan(a, b Value) Value {
	return BooleanValue(a.ToNumber().Cmp(b.ToNumber()) > 0)
}

func GreaterThanOrEqual(a, b Value) Value {
	return BooleanValue(a.ToNumber().Cmp(b.ToNumber()) >= 0)
}

func And(a, b Value) Value {
	return BooleanValue(a.ToBoolean() && b.ToBoolean())
}

func Or(a, b Value) Value {
	return BooleanValue(a.ToBoolean() || b.ToBoolean())
}

// Arithmetic exposes the shared decimal context to library implementations
func Arithmetic() *apd.Context {
	return decimalContext
}
