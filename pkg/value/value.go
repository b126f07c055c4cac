// Package value implements the dynamically-typed values of Small Basic
// programs and their total conversions.
package value

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a Small Basic value. Conversions never fail.
type Value interface {
	Kind() Kind
	ToNumber() *apd.Decimal
	ToString() string
	ToBoolean() bool
}

// StringValue is a string
type StringValue string

// BooleanValue prints as True or False
type BooleanValue bool

// NumberValue holds an arbitrary-precision decimal. It is never mutated
// after construction; ToNumber hands out copies.
type NumberValue struct {
	d apd.Decimal
}

// Empty is the value of anything never assigned
var Empty Value = StringValue("")

// NewString creates a new string Value
func NewString(s string) Value {
	return StringValue(s)
}

// NewBoolean creates a new boolean Value
func NewBoolean(b bool) Value {
	return BooleanValue(b)
}

// NewNumber creates a new number Value from an integer
func NewNumber(i int64) Value {
	n := &NumberValue{}
	n.d.SetInt64(i)
	return n
}

// NewDecimal creates a new number Value holding a reduced copy of d, so
// that 1.0 and 1 share the same text form
func NewDecimal(d *apd.Decimal) Value {
	n := &NumberValue{}
	n.d.Reduce(d)
	return n
}

// ParseNumber parses s as a finite decimal, ignoring surrounding white space
func ParseNumber(s string) (*apd.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	d, _, err := apd.NewFromString(s)
	if err != nil || d.Form != apd.Finite {
		return nil, false
	}

	return d, true
}

// FromString parses numeric text into a number and keeps anything else as a string
func FromString(s string) Value {
	if d, ok := ParseNumber(s); ok {
		return NewDecimal(d)
	}

	return StringValue(s)
}

func (StringValue) Kind() Kind { return KindString }

func (s StringValue) ToNumber() *apd.Decimal {
	if d, ok := ParseNumber(string(s)); ok {
		return d
	}

	return apd.New(0, 0)
}

func (s StringValue) ToString() string {
	return string(s)
}

// ToBoolean recognizes only the exact text True
func (s StringValue) ToBoolean() bool {
	return s == "True"
}

func (BooleanValue) Kind() Kind { return KindBoolean }

func (b BooleanValue) ToNumber() *apd.Decimal {
	return apd.New(0, 0)
}

func (b BooleanValue) ToString() string {
	if b {
		return "True"
	}

	return "False"
}

func (b BooleanValue) ToBoolean() bool {
	return bool(b)
}

func (*NumberValue) Kind() Kind { return KindNumber }

func (n *NumberValue) ToNumber() *apd.Decimal {
	return new(apd.Decimal).Set(&n.d)
}

// ToString renders the number in plain decimal notation
func (n *NumberValue) ToString() string {
	if n.d.IsZero() {
		return "0"
	}

	return n.d.Text('f')
}

func (n *NumberValue) ToBoolean() bool {
	return false
}

// Number returns the underlying decimal for callers that only read it
func (n *NumberValue) Number() *apd.Decimal {
	return &n.d
}

// TryNumber reports the numeric value of v if it is (or parses fully as) a number
func TryNumber(v Value) (*apd.Decimal, bool) {
	switch v := v.(type) {
	case *NumberValue:
		return v.ToNumber(), true
	case StringValue:
		return ParseNumber(string(v))
	default:
		return nil, false
	}
}

// ToInt converts v to an int, truncating toward zero. Values that do not
// fit report ok == false.
func ToInt(v Value) (int, bool) {
	var truncated apd.Decimal
	if _, err := truncation.RoundToIntegralValue(&truncated, v.ToNumber()); err != nil {
		return 0, false
	}

	i, err := truncated.Int64()
	if err != nil {
		return 0, false
	}

	return int(i), true
}
